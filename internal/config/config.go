// Package config holds the run's fixed constants and the handful of knobs
// spec.md §6 enumerates, loaded from the environment with the same
// getEnv*/fallback idiom the teacher used for its server config, and
// validated fail-fast by ValidateConfig. Unlike the teacher's Config, these
// values are never mutated once loaded: this struct is read once at startup
// and then threaded through, not reached for as a process-global. The
// pipeline takes only WindowDays and EntitySignalCap from it; the classifier
// and signal thresholds are literals in their own packages and are not
// passed in.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values for the fixed constants and run knobs spec.md §6 lists.
const (
	DefaultWindowDays      = 30
	DefaultEntitySignalCap = 3
	DefaultFuzzyThreshold  = 0.8
	DefaultLogLevel        = "info"
	DefaultProminentFloor  = 2.0 // "prominent tracked entity" threshold, spec.md §3
)

// LowTier and MidHighTier partition outlet tiers per spec.md §6.
var (
	LowTier     = map[int]bool{1: true, 2: true}
	MidHighTier = map[int]bool{3: true, 4: true, 5: true}
)

// Config is the full set of knobs a run accepts. Thresholds embedded in the
// classifier cascades themselves (spec.md §4.3, §4.4) are not here — those
// are not configuration, they are the specification, and are Go constants
// in the internal/classify package rather than runtime values, since
// spec.md §9 says they must never be learned or tuned.
type Config struct {
	// WindowDays is the rolling window size for Pass 2. It defaults to 30;
	// Load takes WINDOW_DAYS from the environment when set, so it is not fixed.
	WindowDays int
	// EntitySignalCap bounds the number of signals kept per (entity, row).
	EntitySignalCap int
	// FuzzyThreshold is a column-name similarity score that ValidateConfig
	// range-checks. schema.Resolve does not read it; the resolver applies its
	// own fixed 0.8 threshold (spec.md §4.1 rule 3).
	FuzzyThreshold float64

	// AsOf overrides the window engine's reference date when HasAsOf is set
	// and RunPass2 receives no explicit override; otherwise the maximum date
	// in the input is used (spec.md §4.5). Load leaves both unset.
	AsOf    time.Time
	HasAsOf bool

	// LogLevel is the zerolog level name ("debug", "info", "warn", "error").
	LogLevel string
	// LogFile, if set, is a rotating log file path (via lumberjack) for
	// run diagnostics; empty means stderr only.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// InputSheet selects a sheet name when the input is an XLSX workbook;
	// empty means "first sheet" (internal/table.ReadXLSX's convention).
	InputSheet string
}

// Load builds a Config from environment variables, falling back to the
// spec.md §6 fixed defaults for anything unset. CLI flags (cmd/diagnose)
// take precedence over these and are applied by the caller after Load.
func Load() *Config {
	return &Config{
		WindowDays:      getEnvInt("WINDOW_DAYS", DefaultWindowDays),
		EntitySignalCap: getEnvInt("ENTITY_SIGNAL_CAP", DefaultEntitySignalCap),
		FuzzyThreshold:  getEnvFloat64("FUZZY_MATCH_THRESHOLD", DefaultFuzzyThreshold),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFile:         getEnv("LOG_FILE", ""),
		LogMaxSizeMB:    getEnvInt("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups:   getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:   getEnvInt("LOG_MAX_AGE_DAYS", 28),
		InputSheet:      getEnv("INPUT_SHEET", ""),
	}
}

// ValidateConfig checks config values and returns an error on the first
// contradiction found. Call after Load (and after any CLI flag overrides)
// to fail fast before the pipeline runs.
func ValidateConfig(cfg *Config) error {
	if cfg.WindowDays <= 0 {
		return fmt.Errorf("WINDOW_DAYS must be positive, got %d", cfg.WindowDays)
	}
	if cfg.EntitySignalCap <= 0 {
		return fmt.Errorf("ENTITY_SIGNAL_CAP must be positive, got %d", cfg.EntitySignalCap)
	}
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		return fmt.Errorf("FUZZY_MATCH_THRESHOLD must be in (0, 1], got %v", cfg.FuzzyThreshold)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug|info|warn|error, got %q", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		if cfg.LogMaxSizeMB <= 0 {
			return fmt.Errorf("LOG_MAX_SIZE_MB must be positive when LOG_FILE is set")
		}
		if cfg.LogMaxBackups < 0 {
			return fmt.Errorf("LOG_MAX_BACKUPS must not be negative")
		}
		if cfg.LogMaxAgeDays < 0 {
			return fmt.Errorf("LOG_MAX_AGE_DAYS must not be negative")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat64(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
