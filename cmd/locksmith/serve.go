package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benaskins/locksmith/internal/api"
	"github.com/benaskins/locksmith/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the vault over a local JSON API",
	Long:  "Serve the credential API on ~/.locksmith/locksmith.sock and, when configured, on a TCP address.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var apiAddr string

func init() {
	serveCmd.Flags().StringVar(&apiAddr, "api-addr", "", "Optional TCP address for API (e.g. 127.0.0.1:9191, overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	if v.watchPath != "" {
		w := watch.New(v.watchPath, v.store)
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Warn("vault watcher stopped", "error", err)
			}
		}()
	}

	socketPath := defaultSocketPath()
	// Remove stale socket
	os.Remove(socketPath)
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return fmt.Errorf("creating socket dir: %w", err)
	}

	srv := api.NewServer(v.store, newGenerator(),
		api.WithRateLimit(cfg.APIRate),
		api.WithGenerateDefaults(api.GenerateDefaults{
			Length:  cfg.Generator.Length,
			Numbers: cfg.Generator.Numbers,
			Symbols: cfg.Generator.Symbols,
		}),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenUnix(socketPath)
	}()

	addr := apiAddr
	if addr == "" {
		addr = cfg.APIAddr
	}
	if addr != "" {
		go func() {
			if err := srv.ListenTCP(addr); err != nil {
				slog.Error("TCP API error", "error", err)
			}
		}()
	}

	slog.Info("locksmith API ready", "backend", cfg.Backend, "credentials", v.store.Len())

	select {
	case sig := <-sigCh:
		slog.Info("received signal, shutting down", "signal", sig)
	case err := <-errCh:
		if err != nil {
			slog.Error("API server error", "error", err)
		}
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	srv.Shutdown(shutdownCtx)
	os.Remove(socketPath)

	slog.Info("locksmith API stopped")
	return nil
}
