package view

import (
	"github.com/filebox/filebox/pkg/models"
)

// State is the client-side view state: the working file set plus the active
// filters, the navigation context and the selection. It is a cache with no
// independent identity; the server stays the sole source of truth and every
// mutation is followed by a full re-fetch.
type State struct {
	User       *models.User
	Files      []models.FileRecord
	Category   models.Category
	Search     string
	Sort       SortKey
	OpenFolder *models.FileRecord // nil = root view
	Selection  map[int64]struct{}

	// ShareTarget remembers the folder a share dialog was opened for;
	// cleared once the share succeeds.
	ShareTarget *models.FileRecord
}

func newState() State {
	return State{
		Category:  models.CategoryAll,
		Sort:      SortName,
		Selection: make(map[int64]struct{}),
	}
}

// query snapshots the active filters.
func (s *State) query() Query {
	return Query{
		Category: s.Category,
		Folder:   s.OpenFolder,
		Search:   s.Search,
		Sort:     s.Sort,
	}
}

// Action is a per-record affordance shown next to a list entry.
type Action string

const (
	ActionDownload Action = "download"
	ActionInfo     Action = "info"
	ActionDelete   Action = "delete"
	ActionRestore  Action = "restore"
	ActionPurge    Action = "purge"
	ActionShare    Action = "share"
	ActionOpen     Action = "open"
)

// Affordances returns the actions available for a record in the given
// category context. Trash entries get restore/purge; owned folders outside
// the trash get a share affordance; records shared to the current user never
// get a delete affordance.
func Affordances(f *models.FileRecord, category models.Category) []Action {
	if category == models.CategoryTrash || f.InTrash() {
		return []Action{ActionRestore, ActionPurge}
	}

	var actions []Action
	if f.IsFolder() {
		actions = append(actions, ActionOpen)
		if !f.Shared {
			actions = append(actions, ActionShare)
		}
	}
	actions = append(actions, ActionDownload, ActionInfo)
	if !f.Shared {
		actions = append(actions, ActionDelete)
	}
	return actions
}
