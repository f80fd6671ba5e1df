package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smcclab/video-stitcher/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog sessions and input resolution",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			rows, err := catalog.Load(cfg.Paths.CatalogFile, cfg.Catalog, logger)
			if err != nil {
				return err
			}
			sessions := catalog.GroupBySession(rows)
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog has no matching rows")
				return nil
			}

			tableRows := make([][]string, 0, len(rows))
			for _, session := range sessions {
				for _, row := range session.Rows {
					path := catalog.ResolvePath(cfg.Paths.InputsDir, row.ID, cfg.Encode.Extensions)
					status := "missing"
					if path != "" {
						status = path
					}
					tableRows = append(tableRows, []string{
						session.Code,
						row.ID,
						row.Title,
						status,
					})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Session", "ID", "Title", "Input"},
				tableRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
