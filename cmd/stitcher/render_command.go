package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/smcclab/video-stitcher/internal/history"
	"github.com/smcclab/video-stitcher/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "render [session...]",
		Short: "Render session videos from the catalog",
		Long: "Render processes every catalog item and collates each session into a\n" +
			"single chaptered video. With session codes as arguments only those\n" +
			"sessions are rendered.",
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
				return errors.New("another stitcher run is already in progress")
			}
			defer lock.Unlock()

			opts := []render.Option{}
			if force {
				opts = append(opts, render.WithForce())
			}
			if dryRun {
				opts = append(opts, render.WithDryRun())
			} else {
				store, err := history.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, render.WithHistory(store))
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			renderer := render.New(cfg, logger, opts...)
			results, err := renderer.RenderAll(runCtx, args)
			if len(results) > 0 {
				printResults(cmd, results)
			}
			if err != nil {
				return err
			}
			for _, result := range results {
				if result.Err != nil {
					return fmt.Errorf("%d of %d sessions failed", countFailed(results), len(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-render even when outputs are up to date")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the ffmpeg work without executing it")
	return cmd
}

func printResults(cmd *cobra.Command, results []render.SessionResult) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		detail := result.OutputPath
		if result.Err != nil {
			detail = result.Err.Error()
		}
		rows = append(rows, []string{
			result.Session,
			string(result.Status),
			strconv.Itoa(result.Items),
			strconv.Itoa(result.Skipped),
			result.Elapsed.Round(elapsedPrecision).String(),
			detail,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Session", "Status", "Items", "Skipped", "Elapsed", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
}

func countFailed(results []render.SessionResult) int {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}
