package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/filebox/filebox/internal/notify"
	"github.com/filebox/filebox/internal/realtime"
	"github.com/filebox/filebox/internal/view"
	"github.com/filebox/filebox/pkg/models"
)

// mode is the input mode: browsing the list or capturing a line of text for
// one of the prompts.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeNewFolder
	modeShare
	modeUpload
	modeConfirmPurge
)

// categoryTabs is the tab order in the header.
var categoryTabs = []models.Category{
	models.CategoryAll,
	models.CategoryImages,
	models.CategoryDocuments,
	models.CategoryVideos,
	models.CategoryAudio,
	models.CategoryTrash,
}

// Messages for tea updates.
type (
	refreshedMsg  struct{ files []models.FileRecord }
	errMsg        struct{ err error }
	actionDoneMsg struct{}
	rtStatusMsg   realtime.Status
	notifyMsg     struct{}
	progressMsg   struct{ loaded, total int64 }
	downloadedMsg struct{ path string }
)

// Model is the bubbletea model for the file browser.
type Model struct {
	ctrl   *view.Controller
	center *notify.Center
	styles Styles
	log    *zap.Logger

	input   textinput.Model
	spin    spinner.Model
	prog    progress.Model
	downDir string

	mode     mode
	cursor   int
	files    []models.FileRecord
	rtStatus realtime.Status
	toasts   []notify.Notification
	purge    *models.FileRecord
	share    *models.FileRecord

	loading   bool
	uploading bool
	loaded    int64
	total     int64

	width  int
	height int
	err    error

	statusCh chan realtime.Status
	notifyCh chan notify.Notification
	progCh   chan progressMsg
}

// Options configures the browser.
type Options struct {
	Controller  *view.Controller
	Center      *notify.Center
	DownloadDir string
	Logger      *zap.Logger
}

// New builds the browser model. The controller must already be
// bootstrapped.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctrl:     opts.Controller,
		center:   opts.Center,
		styles:   DefaultStyles(),
		log:      opts.Logger,
		input:    ti,
		spin:     sp,
		prog:     progress.New(progress.WithDefaultGradient()),
		downDir:  opts.DownloadDir,
		statusCh: make(chan realtime.Status, 8),
		progCh:   make(chan progressMsg, 64),
	}
	if opts.Center != nil {
		m.notifyCh = opts.Center.Subscribe()
	}
	return m
}

// StatusSink returns the callback to wire as the realtime client's
// connection-state observer.
func (m *Model) StatusSink() func(realtime.Status) {
	return func(s realtime.Status) {
		select {
		case m.statusCh <- s:
		default:
		}
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.refreshCmd(), m.waitStatus()}
	if m.notifyCh != nil {
		cmds = append(cmds, m.waitNotify())
	}
	return tea.Batch(cmds...)
}

func (m *Model) refreshCmd() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		if err := m.ctrl.Refresh(context.Background()); err != nil {
			return errMsg{err}
		}
		return refreshedMsg{m.ctrl.Visible()}
	}
}

// snapshotCmd re-derives the visible set without a server fetch.
func (m *Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{m.ctrl.Visible()}
	}
}

func (m *Model) waitStatus() tea.Cmd {
	return func() tea.Msg {
		return rtStatusMsg(<-m.statusCh)
	}
}

func (m *Model) waitNotify() tea.Cmd {
	return func() tea.Msg {
		<-m.notifyCh
		return notifyMsg{}
	}
}

func (m *Model) waitProgress() tea.Cmd {
	return func() tea.Msg {
		return <-m.progCh
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeBrowse {
			return m.updateBrowse(msg)
		}
		return m.updatePrompt(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prog.Width = min(msg.Width-8, 60)
		return m, nil

	case refreshedMsg:
		m.loading = false
		m.err = nil
		m.files = msg.files
		if m.cursor >= len(m.files) {
			m.cursor = max(0, len(m.files)-1)
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.uploading = false
		m.err = msg.err
		return m, nil

	case actionDoneMsg:
		return m, m.refreshCmd()

	case downloadedMsg:
		m.log.Info("download complete", zap.String("path", msg.path))
		return m, nil

	case rtStatusMsg:
		m.rtStatus = realtime.Status(msg)
		// Server-pushed updates land while connected; refresh on the
		// transition so the reconnected view is not stale.
		if m.rtStatus == realtime.StatusConnected {
			return m, tea.Batch(m.waitStatus(), m.refreshCmd())
		}
		return m, m.waitStatus()

	case notifyMsg:
		if m.center != nil {
			m.toasts = m.center.Active()
		}
		return m, tea.Batch(m.waitNotify(), m.refreshCmd())

	case progressMsg:
		m.loaded, m.total = msg.loaded, msg.total
		m.uploading = msg.total > 0
		return m, m.waitProgress()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}

	case "tab":
		return m, m.cycleCategory(1)

	case "shift+tab":
		return m, m.cycleCategory(-1)

	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		return m, m.setCategory(categoryTabs[idx])

	case "s":
		q, _ := m.ctrl.Snapshot()
		for i, key := range view.SortKeys {
			if key == q.Sort {
				m.ctrl.SetSort(view.SortKeys[(i+1)%len(view.SortKeys)])
				break
			}
		}
		return m, m.snapshotCmd()

	case "/":
		m.mode = modeSearch
		q, _ := m.ctrl.Snapshot()
		m.input.Placeholder = "search"
		m.input.SetValue(q.Search)
		m.input.Focus()
		return m, textinput.Blink

	case "n":
		m.mode = modeNewFolder
		m.input.Placeholder = "folder name"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "u":
		m.mode = modeUpload
		m.input.Placeholder = "path to upload"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "S":
		if f := m.selected(); f != nil && f.IsFolder() && !f.Shared {
			folder := *f
			m.share = &folder
			m.ctrl.SetShareTarget(&folder)
			m.mode = modeShare
			m.input.Placeholder = "recipient email"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}

	case "enter":
		if f := m.selected(); f != nil && f.IsFolder() && !f.InTrash() {
			if err := m.ctrl.OpenFolder(f.ID); err != nil {
				m.err = err
				return m, nil
			}
			m.cursor = 0
			return m, m.snapshotCmd()
		}

	case "esc", "backspace":
		q, _ := m.ctrl.Snapshot()
		if q.Folder != nil {
			m.ctrl.CloseFolder()
			m.cursor = 0
			return m, m.snapshotCmd()
		}
		if q.Search != "" {
			m.ctrl.SetSearch("")
			return m, m.snapshotCmd()
		}

	case "d":
		if f := m.selected(); f != nil && !f.IsFolder() {
			return m, m.downloadCmd(f.ID)
		}

	case "x":
		if f := m.selected(); f != nil && !f.Shared && !f.InTrash() {
			return m, m.mutateCmd(func(ctx context.Context) error {
				return m.ctrl.Delete(ctx, f.ID)
			})
		}

	case "r":
		if f := m.selected(); f != nil && f.InTrash() {
			return m, m.mutateCmd(func(ctx context.Context) error {
				return m.ctrl.Restore(ctx, f.ID)
			})
		}

	case "p":
		if f := m.selected(); f != nil && f.InTrash() {
			target := *f
			m.purge = &target
			m.mode = modeConfirmPurge
		}

	case "R":
		return m, m.refreshCmd()
	}

	return m, nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Purge confirmation is a plain y/N, not a text prompt.
	if m.mode == modeConfirmPurge {
		switch msg.String() {
		case "y", "Y":
			target := m.purge
			m.purge = nil
			m.mode = modeBrowse
			return m, m.mutateCmd(func(ctx context.Context) error {
				return m.ctrl.Purge(ctx, target.ID)
			})
		default:
			m.purge = nil
			m.mode = modeBrowse
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.leavePrompt()
		return m, m.snapshotCmd()

	case "enter":
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.ctrl.SetSearch(m.input.Value())
		return m, tea.Batch(cmd, m.snapshotCmd())
	}
	return m, cmd
}

func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	prompt := m.mode
	m.leavePrompt()

	switch prompt {
	case modeSearch:
		m.ctrl.SetSearch(value)
		return m, m.snapshotCmd()

	case modeNewFolder:
		return m, m.mutateCmd(func(ctx context.Context) error {
			_, err := m.ctrl.CreateFolder(ctx, value)
			return err
		})

	case modeShare:
		folder := m.share
		m.share = nil
		return m, m.mutateCmd(func(ctx context.Context) error {
			return m.ctrl.ShareFolder(ctx, folder, value, models.PermissionAll)
		})

	case modeUpload:
		return m, m.uploadCmd(value)
	}
	return m, nil
}

func (m *Model) leavePrompt() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) selected() *models.FileRecord {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return nil
	}
	return &m.files[m.cursor]
}

func (m *Model) cycleCategory(step int) tea.Cmd {
	q, _ := m.ctrl.Snapshot()
	idx := 0
	for i, c := range categoryTabs {
		if c == q.Category {
			idx = i
			break
		}
	}
	idx = (idx + step + len(categoryTabs)) % len(categoryTabs)
	return m.setCategory(categoryTabs[idx])
}

func (m *Model) setCategory(category models.Category) tea.Cmd {
	m.cursor = 0
	m.loading = true
	return func() tea.Msg {
		if err := m.ctrl.SetCategory(context.Background(), category); err != nil {
			return errMsg{err}
		}
		return refreshedMsg{m.ctrl.Visible()}
	}
}

// mutateCmd runs a controller mutation off the update loop and triggers a
// redraw from the refreshed working set.
func (m *Model) mutateCmd(fn func(context.Context) error) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return errMsg{err}
		}
		return refreshedMsg{m.ctrl.Visible()}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	m.uploading = true
	upload := func() tea.Msg {
		err := m.ctrl.UploadPaths(context.Background(), []string{path},
			func(loaded, total int64) {
				select {
				case m.progCh <- progressMsg{loaded, total}:
				default:
				}
			})
		if err != nil {
			return errMsg{err}
		}
		return refreshedMsg{m.ctrl.Visible()}
	}
	return tea.Batch(upload, m.waitProgress())
}

func (m *Model) downloadCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		path, err := m.ctrl.Download(context.Background(), id, m.downDir)
		if err != nil {
			return errMsg{err}
		}
		return downloadedMsg{path}
	}
}
