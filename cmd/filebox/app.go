package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/filebox/filebox/internal/client"
	"github.com/filebox/filebox/internal/config"
	"github.com/filebox/filebox/internal/notify"
	"github.com/filebox/filebox/internal/view"
	"github.com/filebox/filebox/pkg/retry"
)

// app bundles the wired-up pieces every command needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	api    *client.Client
	ctrl   *view.Controller
	center *notify.Center
	token  *client.TokenFile
}

// newApp loads configuration, builds the logger and constructs the API
// client from the stored credential.
func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}

	log, err := config.BuildLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	token, err := client.LoadToken()
	if err != nil {
		log.Warn("failed to read stored credential", zap.Error(err))
	}

	serverURL := flagServer
	if serverURL == "" {
		serverURL = cfg.Server.URL
	}
	if serverURL == "" && token != nil {
		serverURL = token.Server
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		center: notify.NewCenter(cfg.Notifications.TTL),
	}
	a.token = token

	authToken := ""
	if token != nil {
		authToken = token.Token
	}
	a.api = client.New(client.Config{
		BaseURL:   serverURL,
		Timeout:   cfg.HTTP.Timeout,
		AuthToken: authToken,
		RetryConfig: retry.Config{
			MaxAttempts: cfg.HTTP.RetryAttempts,
			Interval:    cfg.HTTP.RetryInterval,
		},
		Logger: log.Named("api"),
	})
	a.ctrl = view.NewController(a.api, a.center, log.Named("view"))
	return a, nil
}

// requireServer fails early when no server URL could be resolved.
func (a *app) requireServer() error {
	if a.api.BaseURL() == "" {
		return fmt.Errorf("no server configured: pass --server, set server.url in %s, or log in", config.DefaultPath())
	}
	return nil
}

// signIn establishes the session and fails closed on a rejected credential.
func (a *app) signIn(ctx context.Context) error {
	if err := a.requireServer(); err != nil {
		return err
	}
	if _, err := a.ctrl.Bootstrap(ctx); err != nil {
		return err
	}
	return nil
}

func (a *app) close() {
	a.center.Close()
	_ = a.log.Sync()
}
