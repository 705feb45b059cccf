// Command diagnose runs the earned-media diagnostic engine described by
// spec.md: schema discovery, Pass 1 (state/modifier classification), and
// Pass 2 (windowed signals) over a CSV or XLSX table of annotated articles.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourorg/md-spec-tool/internal/config"
)

var (
	flagLogLevel string
	flagLogFile  string
	cfg          *config.Config
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "diagnose",
		Short: "Earned-media diagnostic engine: schema discovery, Pass 1, and Pass 2",
		Long: `diagnose ingests a CSV or XLSX table of articles annotated with
prominence and sentiment at the topic, narrative, and entity level and
emits the same table enriched with states, modifiers, and window signals.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFile != "" {
				cfg.LogFile = flagLogFile
			}
			return config.ValidateConfig(cfg)
		},
	}
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "rotating log file path (stderr only if unset)")

	root.AddCommand(schemaCmd(), pass1Cmd(), pass2Cmd(), runCmd())
	return root
}
