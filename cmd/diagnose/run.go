package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/md-spec-tool/internal/emit"
	"github.com/yourorg/md-spec-tool/internal/pipeline"
	"github.com/yourorg/md-spec-tool/internal/runlog"
)

func runCmd() *cobra.Command {
	var input, pass1Out, pass2Out, sheet, asOf string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline end to end, emitting both Pass-1 and Pass-2 tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOutput(pass1Out); err != nil {
				return fmt.Errorf("--pass1-output: %w", err)
			}
			if err := requireOutput(pass2Out); err != nil {
				return fmt.Errorf("--pass2-output: %w", err)
			}
			logger, runID := runlog.Init(cfg)
			logger.Info().Str("input", input).Msg("starting run")

			t, err := loadInput(input, sheet)
			if err != nil {
				return fmt.Errorf("load input: %w", err)
			}

			eng := pipeline.New(cfg)
			p1, err := eng.RunPass1(t)
			if err != nil {
				return err
			}
			if err := emit.WritePass1(pass1Out, t, p1.Bindings); err != nil {
				return fmt.Errorf("write pass-1 output: %w", err)
			}

			var asOfPtr *string
			if asOf != "" {
				asOfPtr = &asOf
			}
			p2, err := eng.RunPass2(t, p1, asOfPtr)
			if err != nil {
				return err
			}
			if err := emit.WritePass2(pass2Out, t, p1.Bindings); err != nil {
				return fmt.Errorf("write pass-2 output: %w", err)
			}

			logger.Info().
				Str("run_id", runID).
				Str("as_of", p2.AsOf).
				Int("rows", t.RowCount()).
				Msg("run complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input CSV or XLSX path (required)")
	cmd.Flags().StringVar(&pass1Out, "pass1-output", "", "Pass-1 output CSV path (required)")
	cmd.Flags().StringVar(&pass2Out, "pass2-output", "", "Pass-2 output CSV path (required)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "override the window reference date (default: max date in input)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("pass1-output")
	cmd.MarkFlagRequired("pass2-output")
	return cmd
}
