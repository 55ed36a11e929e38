package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
)

func TestListFiles_Endpoint(t *testing.T) {
	var gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "fileName": "a.txt", "fileType": "text/plain", "fileSize": 10},
		})
	}))
	defer ts.Close()

	files, err := c.ListFiles(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/files/user/7/with-shared" {
		t.Errorf("path = %q", gotPath)
	}
	if len(files) != 1 || files[0].Name != "a.txt" {
		t.Errorf("files = %+v", files)
	}
}

func TestListTrash_DistinctEndpoint(t *testing.T) {
	var gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer ts.Close()

	if _, err := c.ListTrash(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/files/user/7/trash" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestUpload_SingleFileProgress(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("userId"); got != "7" {
			t.Errorf("userId = %q, want 7", got)
		}
		if r.URL.Path != "/api/files/upload" {
			t.Errorf("path = %q, want /api/files/upload", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 42, "fileName": "hello.txt", "fileSize": 5,
		})
	}))
	defer ts.Close()

	var mu sync.Mutex
	var lastLoaded, lastTotal int64
	items := []UploadItem{{Name: "hello.txt", Size: 5, Reader: strings.NewReader("hello")}}
	files, err := c.Upload(context.Background(), 7, 0, items, func(loaded, total int64) {
		mu.Lock()
		lastLoaded, lastTotal = loaded, total
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].ID != 42 {
		t.Errorf("files = %+v", files)
	}
	mu.Lock()
	defer mu.Unlock()
	if lastLoaded != 5 || lastTotal != 5 {
		t.Errorf("progress ended at %d/%d, want 5/5", lastLoaded, lastTotal)
	}
}

func TestUpload_ToFolderUsesFolderEndpoint(t *testing.T) {
	var gotPath, gotFolder string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseMultipartForm(1 << 20)
		gotFolder = r.FormValue("folderId")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "fileName": "x"})
	}))
	defer ts.Close()

	items := []UploadItem{{Name: "x", Size: 1, Reader: strings.NewReader("x")}}
	if _, err := c.Upload(context.Background(), 7, 33, items, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/files/upload-to-folder" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFolder != "33" {
		t.Errorf("folderId = %q, want 33", gotFolder)
	}
}

func TestUpload_MultiFileResponse(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "uploaded 2 files",
			"count":   2,
			"files": []map[string]interface{}{
				{"id": 1, "fileName": "a"},
				{"id": 2, "fileName": "b"},
			},
		})
	}))
	defer ts.Close()

	items := []UploadItem{
		{Name: "a", Size: 1, Reader: strings.NewReader("a")},
		{Name: "b", Size: 1, Reader: strings.NewReader("b")},
	}
	files, err := c.Upload(context.Background(), 7, 0, items, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 || files[1].Name != "b" {
		t.Errorf("files = %+v", files)
	}
}

func TestUpload_FailureCarriesServerText(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk quota exceeded", http.StatusInsufficientStorage)
	}))
	defer ts.Close()

	items := []UploadItem{{Name: "x", Size: 1, Reader: strings.NewReader("x")}}
	_, err := c.Upload(context.Background(), 7, 0, items, nil)
	ae, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if ae.Message != "disk quota exceeded" {
		t.Errorf("message = %q, want raw server error", ae.Message)
	}
}

func TestShareFolder_FormFields(t *testing.T) {
	var got map[string]string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		got = map[string]string{
			"folderId":       r.FormValue("folderId"),
			"ownerId":        r.FormValue("ownerId"),
			"recipientEmail": r.FormValue("recipientEmail"),
			"permission":     r.FormValue("permission"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 9, "fileId": 3, "permission": "ALL"})
	}))
	defer ts.Close()

	share, err := c.ShareFolder(context.Background(), 3, 7, "a@b.co", "ALL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		"folderId": "3", "ownerId": "7", "recipientEmail": "a@b.co", "permission": "ALL",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	if share.ID != 9 {
		t.Errorf("share id = %d, want 9", share.ID)
	}
}
