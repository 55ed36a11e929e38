package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/filebox/filebox/pkg/models"
	"github.com/filebox/filebox/pkg/protocol"
)

// TokenFile holds the saved session credential. It is the client-local
// storage for the bearer token: written at login, removed at logout,
// read before every session bootstrap.
type TokenFile struct {
	Token    string `json:"token"`
	Server   string `json:"server"`
	Username string `json:"username"`
}

// Login authenticates with username/password, stores the returned token on
// the client and returns the login response.
func (c *Client) Login(ctx context.Context, username, password string) (*protocol.LoginResponse, error) {
	body, _ := json.Marshal(protocol.LoginRequest{Username: username, Password: password})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var result protocol.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse login response: %w", err)
	}

	c.SetAuthToken(result.Token)
	return &result, nil
}

// Me performs the identity check for the stored credential. A 401 means the
// credential is invalid and the session must fail closed.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	if c.AuthToken() == "" {
		return nil, ErrUnauthorized
	}
	var user models.User
	if err := c.getJSON(ctx, "/api/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TokenFilePath returns the path for the token file. FILEBOX_TOKEN_FILE
// overrides the platform default.
func TokenFilePath() string {
	if p := os.Getenv("FILEBOX_TOKEN_FILE"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, _ := os.UserHomeDir()
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Filebox", "token.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "filebox", "token.json")
}

// SaveToken saves a token file to the default location.
func SaveToken(tf *TokenFile) error {
	path := TokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadToken loads the token file from the default location.
func LoadToken() (*TokenFile, error) {
	data, err := os.ReadFile(TokenFilePath())
	if err != nil {
		return nil, err
	}
	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	return &tf, nil
}

// DeleteToken removes the saved token file.
func DeleteToken() error {
	err := os.Remove(TokenFilePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// WatchToken watches the token file for changes made by other processes
// (another login or a logout elsewhere) and invokes onChange with the new
// token, or "" when the credential was removed. It blocks until ctx is done.
func WatchToken(ctx context.Context, log *zap.Logger, onChange func(token string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path := TokenFilePath()
	// Watch the directory: editors and os.WriteFile replace the file, which
	// drops a watch set on the file itself.
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var last string
	if tf, err := LoadToken(); err == nil {
		last = tf.Token
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			// Writes can arrive in bursts; give the writer a moment.
			time.Sleep(50 * time.Millisecond)

			token := ""
			if tf, err := LoadToken(); err == nil {
				token = tf.Token
			}
			if token == last {
				continue
			}
			last = token
			log.Debug("session credential changed", zap.Bool("present", token != ""))
			onChange(token)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("token watch error", zap.Error(err))
		}
	}
}
