package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/md-spec-tool/internal/emit"
	"github.com/yourorg/md-spec-tool/internal/pipeline"
	"github.com/yourorg/md-spec-tool/internal/runlog"
)

func pass2Cmd() *cobra.Command {
	var input, output, sheet, asOf string
	cmd := &cobra.Command{
		Use:   "pass2",
		Short: "Run Pass 1 then Windowed Signals and emit the Pass-2 table",
		Long: `pass2 always runs Pass 1 first (spec.md §2: "Pass 2 consumes the
Pass-1 output when available, else the raw input") and then layers the
Window Engine and Signal Engine on top, emitting Pass-1 columns plus every
topic/narrative/entity signals column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOutput(output); err != nil {
				return err
			}
			logger, _ := runlog.Init(cfg)
			t, err := loadInput(input, sheet)
			if err != nil {
				return fmt.Errorf("load input: %w", err)
			}

			eng := pipeline.New(cfg)
			p1, err := eng.RunPass1(t)
			if err != nil {
				return err
			}

			var asOfPtr *string
			if asOf != "" {
				asOfPtr = &asOf
			}
			p2, err := eng.RunPass2(t, p1, asOfPtr)
			if err != nil {
				return err
			}

			logger.Info().
				Str("as_of", p2.AsOf).
				Int("current_window_rows", p2.CurrentWindowSize).
				Int("prior_window_rows", p2.PriorWindowSize).
				Msg("pass 2 complete")

			if err := emit.WritePass2(output, t, p1.Bindings); err != nil {
				return fmt.Errorf("write pass-2 output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input CSV or XLSX path (required)")
	cmd.Flags().StringVar(&output, "output", "", "Pass-2 output CSV path (required)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "override the window reference date (default: max date in input)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
