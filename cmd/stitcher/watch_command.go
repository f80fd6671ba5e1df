package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/smcclab/video-stitcher/internal/history"
	"github.com/smcclab/video-stitcher/internal/logging"
	"github.com/smcclab/video-stitcher/internal/render"
	"github.com/smcclab/video-stitcher/internal/watchmode"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the catalog or inputs change",
		Long: "Watch runs an initial render, then monitors the catalog file and the\n" +
			"inputs directory and re-renders after each change. Stop with Ctrl-C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "stitcher.lock"))
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another stitcher run is already in progress")
			}
			defer lock.Unlock()

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			trigger := func(runCtx context.Context) error {
				opts := []render.Option{render.WithHistory(store)}
				if force {
					opts = append(opts, render.WithForce())
				}
				renderer := render.New(cfg, logger, opts...)
				_, err := renderer.RenderAll(runCtx, nil)
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := trigger(runCtx); err != nil && runCtx.Err() == nil {
				logger.Error("initial render failed", logging.Error(err))
			}
			if runCtx.Err() != nil {
				return nil
			}

			watcher := watchmode.New(cfg, logger, trigger)
			return watcher.Run(runCtx)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-render even when outputs are up to date")
	return cmd
}
