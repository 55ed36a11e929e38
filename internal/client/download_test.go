package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		want        string
	}{
		{"quoted", `attachment; filename="report.pdf"`, "report.pdf"},
		{"unquoted", `attachment; filename=report.pdf`, "report.pdf"},
		{"utf8 extended", `attachment; filename*=UTF-8''%E6%97%A5.pdf`, "日.pdf"},
		{"extended wins over plain", `attachment; filename*=UTF-8''a%20b.txt; filename="other.txt"`, "a b.txt"},
		{"absent header", "", DefaultDownloadName},
		{"no filename param", "attachment", DefaultDownloadName},
		{"encoded quoted", `attachment; filename="b%C3%A1o%20c%C3%A1o.doc"`, "báo cáo.doc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromDisposition(tt.disposition); got != tt.want {
				t.Errorf("FilenameFromDisposition(%q) = %q, want %q", tt.disposition, got, tt.want)
			}
		})
	}
}

func TestDownload_StreamsBodyAndFilename(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="notes.txt"`)
		w.Write([]byte("file content here"))
	}))
	defer ts.Close()

	var buf bytes.Buffer
	name, n, err := c.Download(context.Background(), 5, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "notes.txt" {
		t.Errorf("filename = %q, want notes.txt", name)
	}
	if n != int64(len("file content here")) || buf.String() != "file content here" {
		t.Errorf("body = %q (%d bytes)", buf.String(), n)
	}
}

func TestDownload_AuthFailureIsPermissionDenied(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		var buf bytes.Buffer
		_, _, err := c.Download(context.Background(), 5, &buf)
		ts.Close()
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("status %d: got %v, want ErrForbidden", status, err)
		}
	}
}

func TestDownload_MissingHeaderFallsBack(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer ts.Close()

	var buf bytes.Buffer
	name, _, err := c.Download(context.Background(), 5, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != DefaultDownloadName {
		t.Errorf("filename = %q, want %q", name, DefaultDownloadName)
	}
}
