// Package models contains shared data types used across the client.
package models

import (
	"strings"
	"time"
)

// TypeDirectory is the media-type value that marks a record as a folder.
const TypeDirectory = "directory"

// User is the signed-in identity returned by the identity check.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FileRecord is a single file or folder as returned by the server.
// Records shared with the current user (rather than owned) carry
// Shared=true plus the share metadata.
type FileRecord struct {
	ID           int64      `json:"id"`
	Name         string     `json:"fileName"`
	Type         string     `json:"fileType"`
	Size         int64      `json:"fileSize"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	StoragePath  string     `json:"storagePath"`
	OriginalPath string     `json:"originalPath,omitempty"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`

	OwnerID       int64  `json:"userId,omitempty"`
	OwnerUsername string `json:"ownerUsername,omitempty"`

	Shared          bool   `json:"isShared,omitempty"`
	SharePermission string `json:"sharePermission,omitempty"`
	SharedBy        string `json:"sharedBy,omitempty"`
}

// IsFolder reports whether the record is a folder container.
func (f *FileRecord) IsFolder() bool {
	return strings.EqualFold(f.Type, TypeDirectory)
}

// InTrash reports whether the record is soft-deleted.
func (f *FileRecord) InTrash() bool {
	return f.DeletedAt != nil
}

// TrashPath is the path a trashed record originally lived at. Falls back
// to the current storage path for records that never moved.
func (f *FileRecord) TrashPath() string {
	if f.OriginalPath != "" {
		return f.OriginalPath
	}
	return f.StoragePath
}
