package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filebox/filebox/internal/client"
	"github.com/filebox/filebox/internal/realtime"
	"github.com/filebox/filebox/pkg/protocol"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream realtime server events to the terminal",
	Long: `Connects to the server's push channel and prints notifications,
file changes and user activity as they happen. Runs until interrupted.

A login or logout in another filebox process is picked up automatically.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stamp := func() string { return time.Now().Format("15:04:05") }
	rt := realtime.New(realtime.Config{
		ServerURL:            a.api.BaseURL(),
		Token:                a.api.AuthToken,
		MaxReconnectAttempts: a.cfg.Realtime.MaxReconnectAttempts,
		ReconnectInterval:    a.cfg.Realtime.ReconnectInterval,
		Logger:               a.log.Named("realtime"),
		OnStatus: func(s realtime.Status) {
			fmt.Printf("%s [status] %s\n", stamp(), s)
		},
		Handlers: realtime.Handlers{
			OnNotification: func(n protocol.Notification) {
				fmt.Printf("%s [notice] %s: %s\n", stamp(), n.Title, n.Message)
			},
			OnFileUpdate: func(u protocol.FileUpdate) {
				fmt.Printf("%s [files]  %s\n", stamp(), realtime.DescribeFileUpdate(u))
			},
			OnUserActivity: func(ua protocol.UserActivity) {
				fmt.Printf("%s [users]  %s: %s\n", stamp(), ua.Username, ua.Activity)
			},
			OnChat: func(m protocol.ChatMessage) {
				fmt.Printf("%s [chat]   %s: %s\n", stamp(), m.Sender, m.Message)
			},
			OnFileStatus: func(fs protocol.FileStatus) {
				fmt.Printf("%s [xfer]   %s %s (%.0f%%)\n", stamp(), fs.FileName, fs.Status, fs.Progress)
			},
		},
	})

	rt.Connect(ctx)
	defer rt.Disconnect()

	// React to logins and logouts from other processes.
	err = client.WatchToken(ctx, a.log, func(token string) {
		a.api.SetAuthToken(token)
		rt.HandleTokenChange(ctx)
	})
	if err != nil && ctx.Err() == nil {
		a.log.Error("token watch stopped", zap.Error(err))
		<-ctx.Done()
	}
	return nil
}
