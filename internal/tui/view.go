package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/filebox/filebox/internal/realtime"
	"github.com/filebox/filebox/pkg/models"
)

const nameColWidth = 36

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if m.loading && len(m.files) == 0 {
		b.WriteString(m.spin.View() + " loading…\n")
	} else {
		b.WriteString(m.table())
	}

	if m.uploading && m.total > 0 {
		b.WriteString("\n")
		b.WriteString(m.prog.ViewAs(float64(m.loaded) / float64(m.total)))
		b.WriteString(m.styles.Muted.Render(
			fmt.Sprintf(" %s / %s", humanize.Bytes(uint64(m.loaded)), humanize.Bytes(uint64(m.total)))))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + m.styles.Error.Render("error: "+m.err.Error()) + "\n")
	}

	for _, n := range m.toasts {
		style, ok := m.styles.Notify[n.Kind]
		if !ok {
			style = m.styles.Muted
		}
		b.WriteString("\n" + style.Render(fmt.Sprintf("• %s: %s", n.Title, n.Message)))
	}
	if len(m.toasts) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.footer())
	return b.String()
}

func (m *Model) header() string {
	q, user := m.ctrl.Snapshot()

	title := m.styles.Title.Render("filebox")
	who := ""
	if user != nil {
		who = m.styles.Muted.Render(" " + user.Username)
	}

	dot := m.styles.StatusDown.Render("●")
	if m.rtStatus == realtime.StatusConnected {
		dot = m.styles.StatusUp.Render("●")
	} else if m.rtStatus == realtime.StatusConnecting {
		dot = m.styles.SharedMark.Render("●")
	}

	crumbs := ""
	if q.Folder != nil {
		crumbs = m.styles.Folder.Render("  / " + q.Folder.Name)
	}

	return fmt.Sprintf("%s%s%s  %s %s", title, who, crumbs, dot, m.styles.Muted.Render(m.rtStatus.String()))
}

func (m *Model) tabs() string {
	q, _ := m.ctrl.Snapshot()
	parts := make([]string, 0, len(categoryTabs)+1)
	for i, c := range categoryTabs {
		label := fmt.Sprintf("%d %s", i+1, c)
		if c == q.Category {
			parts = append(parts, m.styles.TabActive.Render(label))
			continue
		}
		parts = append(parts, m.styles.Tab.Render(label))
	}
	parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("  sort:%s", q.Sort)))
	if q.Search != "" {
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf(" search:%q", q.Search)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) table() string {
	if len(m.files) == 0 {
		return m.styles.Muted.Render("  nothing here") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(
		fmt.Sprintf("  %-*s %10s  %-14s %s", nameColWidth, "name", "size", "uploaded", "type")))
	b.WriteString("\n")

	for i := range m.files {
		f := &m.files[i]
		b.WriteString(m.row(f, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) row(f *models.FileRecord, selected bool) string {
	name := f.Name
	if f.IsFolder() {
		name += "/"
	}
	if f.Shared {
		name += " *"
	}
	// Truncate by display cells, never mid-rune.
	name = runewidth.Truncate(name, nameColWidth, "…")

	size := "-"
	if !f.IsFolder() {
		size = humanize.Bytes(uint64(f.Size))
	}
	when := "-"
	if !f.UploadedAt.IsZero() {
		when = humanize.Time(f.UploadedAt)
	}

	line := fmt.Sprintf("  %-*s %10s  %-14s %s", nameColWidth, name, size, when, f.Type)

	switch {
	case selected:
		return m.styles.RowSelected.Render("▸" + line[1:])
	case f.InTrash():
		return m.styles.RowTrashed.Render(line)
	case f.IsFolder():
		return m.styles.Folder.Render(line)
	default:
		return m.styles.Row.Render(line)
	}
}

func (m *Model) footer() string {
	switch m.mode {
	case modeSearch, modeNewFolder, modeShare, modeUpload:
		return m.styles.Prompt.Render(m.promptLabel()) + " " + m.input.View()
	case modeConfirmPurge:
		name := ""
		if m.purge != nil {
			name = m.purge.Name
		}
		return m.styles.Error.Render(
			fmt.Sprintf("permanently delete %q? this cannot be undone (y/N)", name))
	}

	help := "↑/↓ move · enter open · tab category · / search · s sort · u upload · d download · n new folder · S share · x delete · r restore · p purge · q quit"
	return m.styles.Help.Render(help)
}

func (m *Model) promptLabel() string {
	switch m.mode {
	case modeSearch:
		return "search:"
	case modeNewFolder:
		return "new folder:"
	case modeShare:
		if m.share != nil {
			return fmt.Sprintf("share %q with:", m.share.Name)
		}
		return "share with:"
	case modeUpload:
		return "upload:"
	}
	return ">"
}
