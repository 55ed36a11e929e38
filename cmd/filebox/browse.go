package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/filebox/filebox/internal/client"
	"github.com/filebox/filebox/internal/notify"
	"github.com/filebox/filebox/internal/realtime"
	"github.com/filebox/filebox/internal/tui"
	"github.com/filebox/filebox/pkg/protocol"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive file browser",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	dir := a.cfg.Downloads.Dir
	if dir == "" {
		dir = "."
	}
	model := tui.New(tui.Options{
		Controller:  a.ctrl,
		Center:      a.center,
		DownloadDir: dir,
		Logger:      a.log.Named("tui"),
	})

	rt := realtime.New(realtime.Config{
		ServerURL:            a.api.BaseURL(),
		Token:                a.api.AuthToken,
		MaxReconnectAttempts: a.cfg.Realtime.MaxReconnectAttempts,
		ReconnectInterval:    a.cfg.Realtime.ReconnectInterval,
		Logger:               a.log.Named("realtime"),
		OnStatus:             model.StatusSink(),
		Handlers: realtime.Handlers{
			OnFileUpdate: func(u protocol.FileUpdate) {
				a.ctrl.HandleFileUpdate(ctx, u, realtime.DescribeFileUpdate)
			},
			OnNotification: func(n protocol.Notification) {
				a.center.Push(notifyKind(n.Type), n.Title, n.Message)
			},
		},
	})
	rt.Connect(ctx)
	defer rt.Disconnect()

	// A logout or re-login in another filebox process invalidates this
	// session's credential; pick it up and drop or redial the channel.
	go func() {
		_ = client.WatchToken(ctx, a.log, func(token string) {
			a.api.SetAuthToken(token)
			rt.HandleTokenChange(ctx)
		})
	}()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// notifyKind maps a server notification type onto a display kind.
func notifyKind(t string) notify.Kind {
	switch t {
	case "success":
		return notify.KindSuccess
	case "warning":
		return notify.KindWarning
	case "error":
		return notify.KindError
	default:
		return notify.KindInfo
	}
}
