// Package app wires the terminal client and the development stub server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/payment"
	"github.com/techzone/pos-terminal/internal/posapi"
	"github.com/techzone/pos-terminal/internal/session"
	"github.com/techzone/pos-terminal/internal/stubserver"
)

// RunTerminal creates the API client, session, and payment orchestrator, then
// hands control to the interactive loop until the context is cancelled.
func RunTerminal(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	client, err := posapi.New(posapi.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
	}, lg.Named("posapi"))
	if err != nil {
		return errors.Wrap(err, "create api client")
	}

	notify := &consoleNotifier{}
	sess := session.New(client, notify, lg.Named("session"), session.Config{
		StaffID:  cfg.Terminal.StaffID,
		Debounce: cfg.Terminal.DebounceWindow,
		PageSize: cfg.Terminal.PageSize,
	})
	defer sess.Close()

	orch := payment.NewOrchestrator(sess, notify, lg.Named("payment"), payment.Config{
		PollInterval:  cfg.Terminal.PollInterval,
		CallbackDelay: cfg.Terminal.CallbackDelay,
	})
	defer orch.Close()

	lg.Info("Terminal starting",
		zap.String("api", cfg.API.BaseURL),
		zap.Int64("staff_id", cfg.Terminal.StaffID),
	)

	// Prime the cache before the first prompt.
	sess.RefreshAll(ctx, session.RefreshOptions{})

	return runREPL(ctx, sess, orch, client)
}

// RunServer starts the in-memory stub backend with graceful shutdown.
func RunServer(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	store := stubserver.NewStore(time.Now)
	stubserver.Seed(store, time.Now)

	srv := stubserver.NewServer(store, lg.Named("stub"))
	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Stub server listening", zap.String("addr", cfg.Server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
