package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contre95/neteaselyrics/src/features/hosting"
	"github.com/contre95/neteaselyrics/src/infra/watcher"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var watchConfig bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watchConfig {
				w, err := watcher.NewWatcher(app.config.Path(), watcher.DefaultDebounce, func() {
					_ = app.config.Reload()
				})
				if err != nil {
					return err
				}
				defer w.Stop()
				if err := w.Start(runCtx); err != nil {
					return err
				}
			}

			var telegramBot *hosting.TelegramBot
			if app.config.Get().Telegram.Enabled {
				telegramBot, err = hosting.NewTelegramBot(app.config, app.lyrics)
				if err != nil {
					slog.Error("Failed to initialize Telegram bot", "error", err)
				} else {
					go telegramBot.Start()
					slog.Info("Telegram bot started")
				}
			}

			server := hosting.NewServer(app.config, app.lyrics, app.artwork, app.recorder)
			serverErr := make(chan error, 1)
			go func() {
				serverErr <- server.Start()
			}()
			slog.Info("Server started. Press Ctrl+C to shut down.", "port", app.config.Get().Server.Port)

			var listenErr error
			select {
			case listenErr = <-serverErr:
			case <-runCtx.Done():
			}
			slog.Info("Shutting down server...")

			if telegramBot != nil {
				telegramBot.Stop()
				slog.Info("Telegram bot stopped")
			}
			if listenErr != nil {
				return listenErr
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("Server gracefully shut down.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&watchConfig, "watch-config", true, "Reload the configuration file when it changes")
	return cmd
}
