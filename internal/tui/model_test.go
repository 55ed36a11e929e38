package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/filebox/filebox/internal/client"
	"github.com/filebox/filebox/internal/view"
	"github.com/filebox/filebox/pkg/models"
)

// newTestModel wires a model to a stub server so Snapshot-dependent key
// handling works. purgeHits counts DELETE purge requests.
func newTestModel(t *testing.T, purgeHits *int) *Model {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/users/me":
			w.Write([]byte(`{"id":1,"username":"anna","email":"anna@example.com"}`))
		case strings.HasSuffix(r.URL.Path, "/purge"):
			if purgeHits != nil {
				*purgeHits++
			}
			w.Write([]byte(`{}`))
		default:
			json.NewEncoder(w).Encode([]models.FileRecord{})
		}
	}))
	t.Cleanup(srv.Close)

	api := client.New(client.Config{BaseURL: srv.URL, AuthToken: "tok"})
	ctrl := view.NewController(api, nil, nil)
	if _, err := ctrl.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return New(Options{Controller: ctrl})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(refreshedMsg{files: []models.FileRecord{
		{ID: 1, Name: "a.txt", Type: "text/plain"},
		{ID: 2, Name: "b.txt", Type: "text/plain"},
	}})

	if m.cursor != 0 {
		t.Fatalf("initial cursor = %d", m.cursor)
	}
	m.Update(keyRunes("j"))
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}
	m.Update(keyRunes("j"))
	if m.cursor != 1 {
		t.Errorf("cursor must clamp at the last row, got %d", m.cursor)
	}
	m.Update(keyRunes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}
}

func TestRefreshClampsCursor(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(refreshedMsg{files: []models.FileRecord{
		{ID: 1, Name: "a.txt"}, {ID: 2, Name: "b.txt"}, {ID: 3, Name: "c.txt"},
	}})
	m.cursor = 2
	m.Update(refreshedMsg{files: []models.FileRecord{{ID: 1, Name: "a.txt"}}})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after shrink, want 0", m.cursor)
	}
}

func TestSearchPromptRoundTrip(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(keyRunes("/"))
	if m.mode != modeSearch {
		t.Fatalf("mode = %d, want search", m.mode)
	}

	m.Update(keyRunes("rep"))
	q, _ := m.ctrl.Snapshot()
	if q.Search != "rep" {
		t.Errorf("live search term = %q, want rep", q.Search)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse {
		t.Errorf("mode after enter = %d, want browse", m.mode)
	}
	q, _ = m.ctrl.Snapshot()
	if q.Search != "rep" {
		t.Errorf("committed search term = %q, want rep", q.Search)
	}
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	var purged int
	m := newTestModel(t, &purged)

	now := time.Now()
	m.Update(refreshedMsg{files: []models.FileRecord{
		{ID: 9, Name: "gone.txt", Type: "text/plain", DeletedAt: &now},
	}})

	m.Update(keyRunes("p"))
	if m.mode != modeConfirmPurge {
		t.Fatalf("mode = %d, want confirm", m.mode)
	}

	// Anything but y declines.
	m.Update(keyRunes("n"))
	if m.mode != modeBrowse || purged != 0 {
		t.Fatalf("decline: mode=%d purged=%d", m.mode, purged)
	}

	m.Update(keyRunes("p"))
	_, cmd := m.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("confirm must produce a command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("purge command returned nil msg")
	}
	if purged != 1 {
		t.Errorf("purge requests = %d, want 1", purged)
	}
}

func TestPurgeIgnoresLiveFiles(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(refreshedMsg{files: []models.FileRecord{{ID: 1, Name: "a.txt", Type: "text/plain"}}})
	m.Update(keyRunes("p"))
	if m.mode != modeBrowse {
		t.Errorf("purge on a live file must be a no-op")
	}
}

func TestCategoryHotkeys(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(keyRunes("6"))
	if cmd == nil {
		t.Fatal("category hotkey must produce a command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("category command returned nil msg")
	}
	q, _ := m.ctrl.Snapshot()
	if q.Category != models.CategoryTrash {
		t.Errorf("category = %s, want trash", q.Category)
	}
}

func TestViewRendersRows(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(refreshedMsg{files: []models.FileRecord{
		{ID: 1, Name: "docs", Type: models.TypeDirectory},
		{ID: 2, Name: "report.pdf", Type: "application/pdf", Size: 2048},
	}})

	out := m.View()
	for _, want := range []string{"docs/", "report.pdf", "anna"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewTruncatesLongMultibyteName(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(refreshedMsg{files: []models.FileRecord{
		{ID: 1, Name: strings.Repeat("日本語ファイル", 12) + ".txt", Type: "text/plain", Size: 64},
	}})

	out := m.View()
	if !utf8.ValidString(out) {
		t.Fatal("view output is not valid UTF-8")
	}
	if !strings.Contains(out, "…") {
		t.Error("long name not truncated with ellipsis")
	}
	if strings.ContainsRune(out, utf8.RuneError) {
		t.Error("truncation split a multi-byte rune")
	}
}
