package models

import "testing"

func TestCategoryMatches(t *testing.T) {
	tests := []struct {
		category Category
		fileType string
		want     bool
	}{
		{CategoryImages, "image/png", true},
		{CategoryImages, "image/svg+xml", true},
		{CategoryImages, "video/mp4", false},
		{CategoryVideos, "video/mp4", true},
		{CategoryVideos, "audio/mpeg", false},
		{CategoryAudio, "audio/mpeg", true},
		{CategoryAudio, "application/pdf", false},
		{CategoryDocuments, "application/pdf", true},
		{CategoryDocuments, "text/plain", true},
		{CategoryDocuments, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{CategoryDocuments, "image/png", false},
		{CategoryAll, "application/octet-stream", true},
		{CategoryTrash, "image/png", true},
	}

	for _, tt := range tests {
		if got := tt.category.Matches(tt.fileType); got != tt.want {
			t.Errorf("%s.Matches(%q) = %v, want %v", tt.category, tt.fileType, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory(" Trash "); got != CategoryTrash {
		t.Errorf("ParseCategory(\" Trash \") = %s", got)
	}
	if got := ParseCategory("bogus"); got != CategoryAll {
		t.Errorf("ParseCategory(\"bogus\") = %s, want all", got)
	}
}

func TestFileRecordHelpers(t *testing.T) {
	dir := FileRecord{Type: "DIRECTORY", StoragePath: "/u/docs"}
	if !dir.IsFolder() {
		t.Error("type match must be case-insensitive")
	}

	f := FileRecord{StoragePath: "/trash/1"}
	if f.InTrash() {
		t.Error("record without DeletedAt is not trashed")
	}
	if got := f.TrashPath(); got != "/trash/1" {
		t.Errorf("TrashPath fallback = %q", got)
	}
	f.OriginalPath = "/u/a.txt"
	if got := f.TrashPath(); got != "/u/a.txt" {
		t.Errorf("TrashPath = %q, want original path", got)
	}
}

func TestPermissionSatisfies(t *testing.T) {
	if !PermissionAll.Satisfies(PermissionView) {
		t.Error("ALL must satisfy VIEW")
	}
	if PermissionView.Satisfies(PermissionDownload) {
		t.Error("VIEW must not satisfy DOWNLOAD")
	}
	if _, ok := ParsePermission("read"); ok {
		t.Error("unknown permission must not parse")
	}
	if p, ok := ParsePermission(" all "); !ok || p != PermissionAll {
		t.Errorf("ParsePermission(\" all \") = %s, %v", p, ok)
	}
}
