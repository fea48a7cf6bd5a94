package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"journal/config"
	"journal/internal/note/service"
	"journal/pkg/logger"
	"journal/router"
	"journal/socket"
	"journal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the notes HTTP API and websocket feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN)
	if err != nil {
		logger.Sugar.Errorf("Failed to open %s store: %v", cfg.Storage.Driver, err)
		return err
	}
	defer st.Close()

	// The hub's event loop runs in its own goroutine; new connections start
	// from a fresh read of the store.
	hub := socket.NewHub(st.LoadAll)
	go hub.Run(ctx)

	svc := service.NewNoteService(st, hub)

	if fileStore, ok := st.(*store.FileStore); ok && cfg.Storage.Watch {
		go func() {
			if err := fileStore.Watch(ctx, svc.NotesChanged); err != nil {
				logger.Sugar.Errorf("Store watcher stopped: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.Setup(svc, hub, cfg.HTTP.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("Journal backend listening on %s (store: %s)", cfg.HTTP.Addr, cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Errorf("HTTP server failed: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Sugar.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
