package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/filebox/filebox/pkg/models"
	"github.com/filebox/filebox/pkg/protocol"
)

// ListFiles fetches the user's files including shared-with-me metadata.
func (c *Client) ListFiles(ctx context.Context, userID int64) ([]models.FileRecord, error) {
	var files []models.FileRecord
	path := fmt.Sprintf("/api/files/user/%d/with-shared", userID)
	if err := c.getJSON(ctx, path, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ListTrash fetches the user's soft-deleted files.
func (c *Client) ListTrash(ctx context.Context, userID int64) ([]models.FileRecord, error) {
	var files []models.FileRecord
	path := fmt.Sprintf("/api/files/user/%d/trash", userID)
	if err := c.getJSON(ctx, path, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Delete soft-deletes a file (moves it to trash). Deleting a record that was
// shared to the caller removes the share instead; the server decides.
func (c *Client) Delete(ctx context.Context, fileID int64) error {
	return c.doSimple(ctx, http.MethodDelete, fmt.Sprintf("/api/files/%d", fileID))
}

// Restore moves a trashed file back to its original location.
func (c *Client) Restore(ctx context.Context, fileID int64) error {
	return c.doSimple(ctx, http.MethodPost, fmt.Sprintf("/api/files/%d/restore", fileID))
}

// Purge irreversibly removes a trashed file. Confirmation is the caller's
// responsibility.
func (c *Client) Purge(ctx context.Context, fileID int64) error {
	return c.doSimple(ctx, http.MethodDelete, fmt.Sprintf("/api/files/%d/purge", fileID))
}

func (c *Client) doSimple(ctx context.Context, method, path string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// CreateFolder creates a folder at the top level. The name must already be
// validated client-side; the server's error text is passed through verbatim
// on failure.
func (c *Client) CreateFolder(ctx context.Context, name string, ownerID int64) (*models.FileRecord, error) {
	var folder models.FileRecord
	form := url.Values{
		"name":   {name},
		"userId": {strconv.FormatInt(ownerID, 10)},
	}
	if err := c.postForm(ctx, "/api/files/folder", form, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// ShareFolder shares a folder with a recipient identified by email.
func (c *Client) ShareFolder(ctx context.Context, folderID, ownerID int64, recipientEmail string, permission models.Permission) (*protocol.ShareResponse, error) {
	var share protocol.ShareResponse
	form := url.Values{
		"folderId":       {strconv.FormatInt(folderID, 10)},
		"ownerId":        {strconv.FormatInt(ownerID, 10)},
		"recipientEmail": {recipientEmail},
		"permission":     {string(permission)},
	}
	if err := c.postForm(ctx, "/api/shares/folder/email", form, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// UploadItem is one file in an upload request.
type UploadItem struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ProgressFunc observes upload progress. loaded counts content bytes read so
// far across all items; total is the sum of item sizes.
type ProgressFunc func(loaded, total int64)

// Upload sends one or more files as a multipart request. A folderID of 0
// uploads to the root; otherwise files are attached to that folder. The
// request streams, so progress is byte-granular.
func (c *Client) Upload(ctx context.Context, userID, folderID int64, items []UploadItem, onProgress ProgressFunc) ([]models.FileRecord, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	var total int64
	for _, it := range items {
		total += it.Size
	}
	var loaded atomic.Int64

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() { pw.CloseWithError(err) }()

		for _, it := range items {
			var part io.Writer
			part, err = mw.CreateFormFile("file", it.Name)
			if err != nil {
				return
			}
			counted := &countingReader{r: it.Reader, n: &loaded, total: total, onProgress: onProgress}
			if _, err = io.Copy(part, counted); err != nil {
				return
			}
		}
		if err = mw.WriteField("userId", strconv.FormatInt(userID, 10)); err != nil {
			return
		}
		if folderID != 0 {
			if err = mw.WriteField("folderId", strconv.FormatInt(folderID, 10)); err != nil {
				return
			}
		}
		err = mw.Close()
	}()

	path := "/api/files/upload"
	if folderID != 0 {
		path = "/api/files/upload-to-folder"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	// A single-file upload returns the bare record; multi-file uploads wrap
	// the records in an envelope.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var multi protocol.MultiUploadResponse
	if err := json.Unmarshal(raw, &multi); err == nil && len(multi.Files) > 0 {
		return multi.Files, nil
	}
	var single models.FileRecord
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("parse upload response: %w", err)
	}
	return []models.FileRecord{single}, nil
}

type countingReader struct {
	r          io.Reader
	n          *atomic.Int64
	total      int64
	onProgress ProgressFunc
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		loaded := cr.n.Add(int64(n))
		if cr.onProgress != nil {
			cr.onProgress(loaded, cr.total)
		}
	}
	return n, err
}
