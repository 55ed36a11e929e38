// Package view owns the working file set, the filter pipeline and the
// operations that mutate server state and reconcile the local view.
package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/filebox/filebox/internal/client"
	"github.com/filebox/filebox/internal/notify"
	"github.com/filebox/filebox/pkg/models"
	"github.com/filebox/filebox/pkg/protocol"
)

// ErrNotSignedIn is returned when the session cannot be established; the
// caller should send the user to the login flow.
var ErrNotSignedIn = errors.New("not signed in")

// Controller drives all file operations and owns the view state. Methods
// are safe for concurrent use; realtime callbacks and UI events may arrive
// on different goroutines.
type Controller struct {
	api    *client.Client
	center *notify.Center
	log    *zap.Logger

	mu    sync.RWMutex
	state State

	// refreshSeq orders list fetches so a slow response cannot overwrite a
	// newer one.
	refreshSeq atomic.Uint64
}

// NewController creates a view controller around an API client.
func NewController(api *client.Client, center *notify.Center, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		api:    api,
		center: center,
		log:    log,
		state:  newState(),
	}
}

// Bootstrap performs the identity check and fails closed: a missing or
// rejected credential clears the stored token and returns ErrNotSignedIn.
func (c *Controller) Bootstrap(ctx context.Context) (*models.User, error) {
	user, err := c.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			if derr := client.DeleteToken(); derr != nil {
				c.log.Error("failed to clear stored credential", zap.Error(derr))
			}
			return nil, fmt.Errorf("%w: %v", ErrNotSignedIn, err)
		}
		return nil, err
	}

	c.mu.Lock()
	c.state.User = user
	c.mu.Unlock()
	c.log.Info("signed in", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return user, nil
}

// User returns the signed-in identity, nil before Bootstrap.
func (c *Controller) User() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.User
}

// Refresh re-fetches the working file set for the active category. Trash
// uses its own endpoint; everything else shares the list-with-shared one.
// If a newer refresh was issued while this one was in flight, the stale
// response is discarded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.RLock()
	user := c.state.User
	category := c.state.Category
	c.mu.RUnlock()
	if user == nil {
		return ErrNotSignedIn
	}

	seq := c.refreshSeq.Add(1)

	var files []models.FileRecord
	var err error
	if category == models.CategoryTrash {
		files, err = c.api.ListTrash(ctx, user.ID)
	} else {
		files, err = c.api.ListFiles(ctx, user.ID)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.refreshSeq.Load() {
		c.log.Debug("stale list response discarded", zap.Uint64("seq", seq))
		return nil
	}
	c.state.Files = files
	return nil
}

// SetCategory switches the active category and refreshes. Leaving a folder
// view is implied when switching into the trash.
func (c *Controller) SetCategory(ctx context.Context, category models.Category) error {
	c.mu.Lock()
	c.state.Category = category
	if category == models.CategoryTrash {
		c.state.OpenFolder = nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch updates the search term. Pure view change; no fetch.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	c.state.Search = term
	c.mu.Unlock()
}

// SetSort updates the sort key. Pure view change; no fetch.
func (c *Controller) SetSort(key SortKey) {
	c.mu.Lock()
	c.state.Sort = key
	c.mu.Unlock()
}

// OpenFolder enters a folder from the current working set.
func (c *Controller) OpenFolder(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.state.Files {
		f := &c.state.Files[i]
		if f.ID == id {
			if !f.IsFolder() {
				return fmt.Errorf("%q is not a folder", f.Name)
			}
			folder := *f
			c.state.OpenFolder = &folder
			return nil
		}
	}
	return fmt.Errorf("no folder with id %d", id)
}

// CloseFolder returns to the root view.
func (c *Controller) CloseFolder() {
	c.mu.Lock()
	c.state.OpenFolder = nil
	c.mu.Unlock()
}

// Snapshot returns a copy of the current query state for rendering.
func (c *Controller) Snapshot() (Query, *models.User) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.query(), c.state.User
}

// Visible computes the filtered, sorted view of the working set.
func (c *Controller) Visible() []models.FileRecord {
	c.mu.RLock()
	files := c.state.Files
	q := c.state.query()
	c.mu.RUnlock()
	return Visible(files, q)
}

// Upload sends files to the server, attached to the open folder when one is
// set. Success refreshes the list and raises a transient notification;
// failure surfaces the raw server error. The progress indicator is reset in
// a guaranteed-cleanup path regardless of outcome.
func (c *Controller) Upload(ctx context.Context, items []client.UploadItem, onProgress client.ProgressFunc) error {
	c.mu.RLock()
	user := c.state.User
	var folderID int64
	if c.state.OpenFolder != nil {
		folderID = c.state.OpenFolder.ID
	}
	c.mu.RUnlock()
	if user == nil {
		return ErrNotSignedIn
	}

	defer func() {
		if onProgress != nil {
			onProgress(0, 0)
		}
	}()

	uploaded, err := c.api.Upload(ctx, user.ID, folderID, items, onProgress)
	if err != nil {
		c.pushNotification(notify.KindError, "Upload failed", err.Error())
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		c.log.Error("refresh after upload failed", zap.Error(err))
	}
	name := uploaded[0].Name
	msg := fmt.Sprintf("File %q uploaded successfully.", name)
	if len(uploaded) > 1 {
		msg = fmt.Sprintf("%d files uploaded successfully.", len(uploaded))
	}
	c.pushNotification(notify.KindSuccess, "Upload complete", msg)
	return nil
}

// UploadPaths opens local files and uploads them.
func (c *Controller) UploadPaths(ctx context.Context, paths []string, onProgress client.ProgressFunc) error {
	items := make([]client.UploadItem, 0, len(paths))
	var closers []*os.File
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		closers = append(closers, f)
		info, err := f.Stat()
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory; upload files individually", p)
		}
		items = append(items, client.UploadItem{
			Name:   filepath.Base(p),
			Size:   info.Size(),
			Reader: f,
		})
	}
	return c.Upload(ctx, items, onProgress)
}

// CreateFolder validates the name client-side, then creates the folder.
func (c *Controller) CreateFolder(ctx context.Context, name string) (*models.FileRecord, error) {
	if err := ValidateFolderName(name); err != nil {
		return nil, err
	}
	c.mu.RLock()
	user := c.state.User
	c.mu.RUnlock()
	if user == nil {
		return nil, ErrNotSignedIn
	}

	folder, err := c.api.CreateFolder(ctx, name, user.ID)
	if err != nil {
		return nil, err
	}
	if err := c.Refresh(ctx); err != nil {
		c.log.Error("refresh after create-folder failed", zap.Error(err))
	}
	return folder, nil
}

// SetShareTarget remembers the folder a share dialog targets.
func (c *Controller) SetShareTarget(f *models.FileRecord) {
	c.mu.Lock()
	c.state.ShareTarget = f
	c.mu.Unlock()
}

// ShareTarget returns the folder the share dialog targets, if any.
func (c *Controller) ShareTarget() *models.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.ShareTarget
}

// ShareFolder shares a folder with a recipient by email. Only folder-type
// records the user owns can be shared; the stored share target is cleared
// on success.
func (c *Controller) ShareFolder(ctx context.Context, folder *models.FileRecord, recipientEmail string, permission models.Permission) error {
	if folder == nil || !folder.IsFolder() {
		return fmt.Errorf("only folders can be shared")
	}
	if folder.Shared {
		return fmt.Errorf("cannot re-share a folder that was shared with you")
	}
	if err := ValidateEmail(recipientEmail); err != nil {
		return err
	}
	c.mu.RLock()
	user := c.state.User
	c.mu.RUnlock()
	if user == nil {
		return ErrNotSignedIn
	}

	if _, err := c.api.ShareFolder(ctx, folder.ID, user.ID, recipientEmail, permission); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.ShareTarget = nil
	c.mu.Unlock()
	c.pushNotification(notify.KindSuccess, "Folder shared",
		fmt.Sprintf("Folder %q shared with %s.", folder.Name, recipientEmail))
	return nil
}

// Delete soft-deletes a file and refreshes.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return err
	}
	c.pushNotification(notify.KindInfo, "File deleted", "The file was moved to trash.")
	return c.Refresh(ctx)
}

// Restore brings a trashed file back and refreshes.
func (c *Controller) Restore(ctx context.Context, id int64) error {
	if err := c.api.Restore(ctx, id); err != nil {
		return err
	}
	c.pushNotification(notify.KindInfo, "File restored", "The file was restored from trash.")
	return c.Refresh(ctx)
}

// Purge irreversibly removes a trashed file and refreshes. The explicit
// confirmation step belongs to the caller; Purge assumes it happened.
func (c *Controller) Purge(ctx context.Context, id int64) error {
	if err := c.api.Purge(ctx, id); err != nil {
		return err
	}
	c.pushNotification(notify.KindInfo, "File purged", "The file was permanently deleted.")
	return c.Refresh(ctx)
}

// Download streams a file into dir, naming it from the response headers.
// The target is created fresh; an existing file of the same name is not
// overwritten.
func (c *Controller) Download(ctx context.Context, id int64, dir string) (string, error) {
	tmp, err := os.CreateTemp(dir, ".filebox-download-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	name, _, err := c.api.Download(ctx, id, tmp)
	closeErr := tmp.Close()
	if err != nil {
		return "", err
	}
	if closeErr != nil {
		return "", closeErr
	}

	target := filepath.Join(dir, filepath.Base(name))
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("%s already exists", target)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", err
	}
	return target, nil
}

// HandleFileUpdate reconciles the view after a server-pushed file-change
// event: always a full list refresh plus a transient notification. Wired as
// the realtime client's file-update handler.
func (c *Controller) HandleFileUpdate(ctx context.Context, u protocol.FileUpdate, describe func(protocol.FileUpdate) string) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Error("refresh after realtime update failed", zap.Error(err))
	}
	c.pushNotification(notify.KindInfo, "File Update", describe(u))
}

func (c *Controller) pushNotification(kind notify.Kind, title, message string) {
	if c.center != nil {
		c.center.Push(kind, title, message)
	}
}
