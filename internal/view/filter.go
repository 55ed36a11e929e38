package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/filebox/filebox/pkg/models"
)

// SortKey selects the ordering of the visible set.
type SortKey string

const (
	SortName SortKey = "name" // locale-aware, ascending
	SortDate SortKey = "date" // newest first
	SortSize SortKey = "size" // largest first
	SortType SortKey = "type" // locale-aware, ascending
)

// SortKeys lists the keys in UI cycle order.
var SortKeys = []SortKey{SortName, SortDate, SortSize, SortType}

// ParseSortKey maps a user-supplied string to a SortKey, defaulting to name.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortDate:
		return SortDate
	case SortSize:
		return SortSize
	case SortType:
		return SortType
	default:
		return SortName
	}
}

// Query is the set of active filters. The visible set is a pure function of
// the working file set plus a Query.
type Query struct {
	Category models.Category
	Folder   *models.FileRecord // nil = root view
	Search   string
	Sort     SortKey
}

// normalizePath canonicalizes directory separators and strips any trailing
// separator so prefix comparison behaves across platforms.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// isDescendant reports whether child lies strictly under parent.
func isDescendant(child, parent string) bool {
	child = normalizePath(child)
	parent = normalizePath(parent)
	if parent == "" || child == parent {
		return false
	}
	if parent == "/" {
		return strings.HasPrefix(child, "/")
	}
	return strings.HasPrefix(child, parent+"/")
}

// Visible computes the filtered, sorted view of the working file set.
// Stages run in a fixed order: category, folder scope, search, sort.
func Visible(files []models.FileRecord, q Query) []models.FileRecord {
	out := make([]models.FileRecord, 0, len(files))

	for _, f := range files {
		if q.Category != models.CategoryTrash && !q.Category.Matches(f.Type) {
			continue
		}
		if !inScope(&f, files, q) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, f)
	}

	sortRecords(out, q.Sort)
	return out
}

// inScope applies the folder-scope stage. Trash skips folder scoping and
// collapses descendants so only the shallowest deleted ancestor of each
// subtree shows.
func inScope(f *models.FileRecord, all []models.FileRecord, q Query) bool {
	if q.Category == models.CategoryTrash {
		for i := range all {
			g := &all[i]
			if g.ID != f.ID && isDescendant(f.TrashPath(), g.TrashPath()) {
				return false
			}
		}
		return true
	}

	if q.Folder != nil {
		return f.ID != q.Folder.ID && isDescendant(f.StoragePath, q.Folder.StoragePath)
	}

	// Root view: folders always show; anything nested under a folder in the
	// set is hidden.
	if f.IsFolder() {
		return true
	}
	for i := range all {
		g := &all[i]
		if g.IsFolder() && g.ID != f.ID && isDescendant(f.StoragePath, g.StoragePath) {
			return false
		}
	}
	return true
}

// Name and type comparisons are locale-aware; ties keep input order.
var collator = collate.New(language.Und, collate.IgnoreCase)

func sortRecords(files []models.FileRecord, key SortKey) {
	switch key {
	case SortDate:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].UploadedAt.After(files[j].UploadedAt)
		})
	case SortSize:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Size > files[j].Size
		})
	case SortType:
		sort.SliceStable(files, func(i, j int) bool {
			return collator.CompareString(files[i].Type, files[j].Type) < 0
		})
	default:
		sort.SliceStable(files, func(i, j int) bool {
			return collator.CompareString(files[i].Name, files[j].Name) < 0
		})
	}
}
