// Package tui implements the interactive file browser using bubbletea.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/filebox/filebox/internal/notify"
)

// Semantic colors shared across the interface.
var (
	colorPrimary = lipgloss.Color("#2196F3")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorDanger  = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("241")
)

// Styles holds the lipgloss styles for the browser.
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Header      lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowTrashed  lipgloss.Style
	Folder      lipgloss.Style
	SharedMark  lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
	StatusUp    lipgloss.Style
	StatusDown  lipgloss.Style
	Prompt      lipgloss.Style
	Notify      map[notify.Kind]lipgloss.Style
}

// DefaultStyles builds the default style set.
func DefaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:       base.Bold(true).Foreground(colorPrimary),
		Tab:         base.Padding(0, 1).Foreground(colorMuted),
		TabActive:   base.Padding(0, 1).Bold(true).Foreground(colorPrimary).Underline(true),
		Header:      base.Bold(true).Foreground(lipgloss.Color("252")),
		Row:         base,
		RowSelected: base.Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("238")),
		RowTrashed:  base.Faint(true),
		Folder:      base.Foreground(colorPrimary),
		SharedMark:  base.Foreground(colorWarning),
		Muted:       base.Foreground(colorMuted),
		Error:       base.Foreground(colorDanger),
		Help:        base.Faint(true),
		StatusUp:    base.Foreground(colorSuccess),
		StatusDown:  base.Foreground(colorDanger),
		Prompt:      base.Foreground(colorPrimary),
		Notify: map[notify.Kind]lipgloss.Style{
			notify.KindInfo:    base.Foreground(colorPrimary),
			notify.KindSuccess: base.Foreground(colorSuccess),
			notify.KindWarning: base.Foreground(colorWarning),
			notify.KindError:   base.Foreground(colorDanger),
		},
	}
}
