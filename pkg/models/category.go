package models

import "strings"

// Category is a client-side coarse classification of files, either by
// media-type prefix or by lifecycle state (trash).
type Category string

const (
	CategoryAll       Category = "all"
	CategoryImages    Category = "images"
	CategoryDocuments Category = "documents"
	CategoryVideos    Category = "videos"
	CategoryAudio     Category = "audio"
	CategoryTrash     Category = "trash"
)

// Categories lists every category in sidebar order.
var Categories = []Category{
	CategoryAll, CategoryImages, CategoryDocuments,
	CategoryVideos, CategoryAudio, CategoryTrash,
}

// ParseCategory maps a user-supplied string to a Category.
// Unrecognized values fall back to CategoryAll.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryImages:
		return CategoryImages
	case CategoryDocuments:
		return CategoryDocuments
	case CategoryVideos:
		return CategoryVideos
	case CategoryAudio:
		return CategoryAudio
	case CategoryTrash:
		return CategoryTrash
	default:
		return CategoryAll
	}
}

// Matches reports whether a media-type string belongs to the category.
// Trash is a lifecycle state, not a media-type predicate: it matches
// everything and is filtered by endpoint choice instead.
func (c Category) Matches(fileType string) bool {
	switch c {
	case CategoryImages:
		return strings.HasPrefix(fileType, "image/")
	case CategoryVideos:
		return strings.HasPrefix(fileType, "video/")
	case CategoryAudio:
		return strings.HasPrefix(fileType, "audio/")
	case CategoryDocuments:
		return strings.Contains(fileType, "pdf") ||
			strings.Contains(fileType, "document") ||
			strings.Contains(fileType, "text")
	default:
		return true
	}
}
