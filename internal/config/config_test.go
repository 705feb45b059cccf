package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.WindowDays != DefaultWindowDays {
		t.Fatalf("WindowDays = %d, want %d", cfg.WindowDays, DefaultWindowDays)
	}
	if cfg.EntitySignalCap != DefaultEntitySignalCap {
		t.Fatalf("EntitySignalCap = %d, want %d", cfg.EntitySignalCap, DefaultEntitySignalCap)
	}
	if cfg.FuzzyThreshold != DefaultFuzzyThreshold {
		t.Fatalf("FuzzyThreshold = %v, want %v", cfg.FuzzyThreshold, DefaultFuzzyThreshold)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateConfig_RejectsBadKnobs(t *testing.T) {
	t.Run("non-positive window", func(t *testing.T) {
		cfg := Load()
		cfg.WindowDays = 0
		if err := ValidateConfig(cfg); err == nil {
			t.Fatal("expected error for zero WindowDays")
		}
	})

	t.Run("fuzzy threshold out of range", func(t *testing.T) {
		cfg := Load()
		cfg.FuzzyThreshold = 1.5
		err := ValidateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "FUZZY_MATCH_THRESHOLD") {
			t.Fatalf("expected FUZZY_MATCH_THRESHOLD error, got: %v", err)
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := Load()
		cfg.LogLevel = "verbose"
		err := ValidateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "LOG_LEVEL") {
			t.Fatalf("expected LOG_LEVEL error, got: %v", err)
		}
	})

	t.Run("log file requires positive rotation size", func(t *testing.T) {
		cfg := Load()
		cfg.LogFile = "run.log"
		cfg.LogMaxSizeMB = 0
		err := ValidateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "LOG_MAX_SIZE_MB") {
			t.Fatalf("expected LOG_MAX_SIZE_MB error, got: %v", err)
		}
	})
}

func TestTierSets(t *testing.T) {
	for tier := 1; tier <= 5; tier++ {
		if LowTier[tier] && MidHighTier[tier] {
			t.Fatalf("tier %d claimed by both LowTier and MidHighTier", tier)
		}
		if !LowTier[tier] && !MidHighTier[tier] {
			t.Fatalf("tier %d claimed by neither set", tier)
		}
	}
}
