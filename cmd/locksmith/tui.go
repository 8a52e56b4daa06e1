package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/benaskins/locksmith/internal/tui"
	"github.com/benaskins/locksmith/internal/watch"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and manage credentials interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log lines would tear the alternate screen.
	if !verbose {
		setupLogging(io.Discard, false)
	}

	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	m := tui.New(v.store, newGenerator(), clipboard, tui.GeneratorOptions{
		Length:  cfg.Generator.Length,
		Numbers: cfg.Generator.Numbers,
		Symbols: cfg.Generator.Symbols,
	})
	p := tui.NewProgram(m)

	if v.watchPath != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w := watch.New(v.watchPath, v.store)
		w.OnReload(func() { p.Send(tui.ReloadedMsg{}) })
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Warn("vault watcher stopped", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
