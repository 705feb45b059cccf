package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/md-spec-tool/internal/emit"
	"github.com/yourorg/md-spec-tool/internal/pipeline"
	"github.com/yourorg/md-spec-tool/internal/runlog"
)

func pass1Cmd() *cobra.Command {
	var input, output, sheet string
	cmd := &cobra.Command{
		Use:   "pass1",
		Short: "Run Diagnostic Assignment (states + modifiers) and emit the Pass-1 table",
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

			invalid := 0
			for _, v := range p1.Validations {
				if !v.IsValid {
					invalid++
				}
			}
			logger.Info().
				Int("rows", t.RowCount()).
				Int("entities", len(p1.Bindings.Entities)).
				Int("narratives", len(p1.Bindings.Narratives)).
				Int("invalid_rows", invalid).
				Msg("pass 1 complete")

			if err := emit.WritePass1(output, t, p1.Bindings); err != nil {
				return fmt.Errorf("write pass-1 output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input CSV or XLSX path (required)")
	cmd.Flags().StringVar(&output, "output", "", "Pass-1 output CSV path (required)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
