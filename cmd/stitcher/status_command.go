package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smcclab/video-stitcher/internal/history"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent render history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if limit <= 0 {
				limit = cfg.Workflow.HistoryLimit
			}
			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No render history yet")
				return nil
			}

			colorize := isTerminal(cmd.OutOrStdout())
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				detail := rec.OutputPath
				if rec.ErrorText != "" {
					detail = rec.ErrorText
				}
				rows = append(rows, []string{
					rec.FinishedAt.Local().Format(time.DateTime),
					rec.Session,
					statusCell(rec.Status, colorize),
					strconv.Itoa(rec.Items),
					strconv.Itoa(rec.Skipped),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Finished", "Session", "Status", "Items", "Skipped", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of records to show (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit records as JSON")
	return cmd
}

func statusCell(status history.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	color := ""
	switch status {
	case history.StatusRendered:
		color = ansiGreen
	case history.StatusFresh:
		color = ansiYellow
	case history.StatusFailed:
		color = ansiRed
	}
	if color == "" {
		return string(status)
	}
	return color + string(status) + ansiReset
}
