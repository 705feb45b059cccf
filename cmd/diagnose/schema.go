package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/md-spec-tool/internal/runlog"
	"github.com/yourorg/md-spec-tool/internal/schema"
)

func schemaCmd() *cobra.Command {
	var input, sheet string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Resolve and print the column-header schema binding for an input file, without classifying",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, runID := runlog.Init(cfg)
			t, err := loadInput(input, sheet)
			if err != nil {
				return fmt.Errorf("load input: %w", err)
			}
			logger.Info().Str("input", input).Int("rows", t.RowCount()).Msg("input loaded")

			b, err := schema.Resolve(t.Headers)
			if err != nil {
				logger.Error().Err(err).Msg("schema resolution failed")
				return err
			}
			for _, w := range b.Warnings {
				logger.Warn().Str("run_id", runID).Msg(w)
			}
			fmt.Println(b.Preview)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input CSV or XLSX path (required)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.MarkFlagRequired("input")
	return cmd
}
