// Package runlog wires up the run's structured logger: a zerolog console
// writer plus an optional rotating file sink, stamped with a per-run
// correlation ID — the same combination bbak-mcs-mcp's internal/logging
// package uses for its CLI, generalized here to also honor a config-driven
// log file path (spec.md's core never owns a process-wide log directory
// convention the way that MCP server does).
package runlog

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yourorg/md-spec-tool/internal/config"
)

// Init builds the run logger from cfg and returns it already tagged with a
// fresh run_id, plus the run ID itself for callers that log it explicitly.
// The schema mapping preview does not include it.
func Init(cfg *config.Config) (zerolog.Logger, string) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	var w zerolog.LevelWriter
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
		}
		w = zerolog.MultiLevelWriter(console, file)
	} else {
		w = zerolog.MultiLevelWriter(console)
	}

	runID := uuid.NewString()
	logger := zerolog.New(w).With().Timestamp().Str("run_id", runID).Logger()
	return logger, runID
}
