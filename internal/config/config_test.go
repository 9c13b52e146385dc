package config

import "testing"

func TestDefaultsAreValid(t *testing.T) {
	if err := validateConfig(GetDefaults()); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := GetDefaults()
	cfg.Server.Port = 0
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error for port 0")
	}
}

func TestValidateRejectsUnknownProfile(t *testing.T) {
	cfg := GetDefaults()
	cfg.Sanitizer.DefaultProfile = "aggressive"
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := GetDefaults()
	cfg.Logging.Level = "verbose"
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestValidateRejectsUnbalancedWeights(t *testing.T) {
	cfg := GetDefaults()
	cfg.Scoring.Weights.BusinessVocabulary = 0.5
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error when weights do not sum to 1.0")
	}
}

func TestValidateRejectsFallbackOutOfRange(t *testing.T) {
	cfg := GetDefaults()
	cfg.Scoring.Fallbacks.URLs = 1.5
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error for fallback above 1")
	}
}

func TestValidateRejectsInvertedBand(t *testing.T) {
	cfg := GetDefaults()
	cfg.Scoring.Privacy.Floor = 96
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error for floor above cap")
	}
}

func TestValidateRejectsBadReductionThreshold(t *testing.T) {
	cfg := GetDefaults()
	cfg.Scoring.ReductionThreshold = 0
	if err := validateConfig(cfg); err == nil {
		t.Error("expected error for zero reduction threshold")
	}
}
