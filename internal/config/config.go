package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Set defaults
	config := GetDefaults()

	// Configure viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/codeveil/")
	viper.AddConfigPath("$HOME/.codeveil/")

	// Environment variable overrides
	viper.SetEnvPrefix("CODEVEIL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Use specific config file if provided
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Sanitizer.DefaultProfile {
	case "paranoid", "balanced", "performance":
	default:
		return fmt.Errorf("invalid default profile: %s (must be paranoid, balanced, or performance)", config.Sanitizer.DefaultProfile)
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	if err := validateScoring(&config.Scoring); err != nil {
		return err
	}

	if config.RateLimit.Enabled && config.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("invalid rate limit: %d requests/min", config.RateLimit.RequestsPerMin)
	}

	return nil
}

// validateScoring checks the calculator tuning for internal consistency
func validateScoring(s *ScoringConfig) error {
	sum := s.Weights.BusinessVocabulary + s.Weights.URLs + s.Weights.APIEndpoints +
		s.Weights.SecretsContact + s.Weights.MethodNames + s.Weights.TypeNames
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}

	for _, f := range []float64{
		s.Fallbacks.BusinessVocabulary, s.Fallbacks.URLs, s.Fallbacks.APIEndpoints,
		s.Fallbacks.SecretsContact, s.Fallbacks.MethodNames, s.Fallbacks.TypeNames,
	} {
		if f < 0 || f > 1 {
			return fmt.Errorf("scoring fallback out of range [0,1]: %v", f)
		}
	}

	for name, b := range map[string]ScoreBand{
		"privacy": s.Privacy, "leakage": s.Leakage, "competitive": s.Competitive, "parity": s.Parity,
	} {
		if b.Floor < 0 || b.Cap > 100 || b.Floor > b.Cap {
			return fmt.Errorf("scoring band %q outside [0,100]: floor=%v cap=%v", name, b.Floor, b.Cap)
		}
	}

	if s.ReductionThreshold <= 0 || s.ReductionThreshold > 1 {
		return fmt.Errorf("invalid reduction threshold: %v", s.ReductionThreshold)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := GetDefaults()
		if err := viper.Unmarshal(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		if err := validateConfig(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		callback(newConfig)
	})

	return nil
}
