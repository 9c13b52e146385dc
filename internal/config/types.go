package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Sanitizer SanitizerConfig `yaml:"sanitizer" mapstructure:"sanitizer"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// SanitizerConfig contains rewrite engine configuration
type SanitizerConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	DefaultProfile string   `yaml:"default_profile" mapstructure:"default_profile"`
	Categories     []string `yaml:"categories" mapstructure:"categories"`
}

// ScoreBand holds the base/span/floor/cap tuple used to turn a reduction
// rate into a bounded percentage score. The values are tuning constants
// with no stated derivation; they are configuration, not fixed truths.
type ScoreBand struct {
	Base  float64 `yaml:"base" mapstructure:"base"`
	Span  float64 `yaml:"span" mapstructure:"span"`
	Floor float64 `yaml:"floor" mapstructure:"floor"`
	Cap   float64 `yaml:"cap" mapstructure:"cap"`
}

// FamilyValues holds one float per tracked sensitive-pattern family.
type FamilyValues struct {
	BusinessVocabulary float64 `yaml:"business_vocabulary" mapstructure:"business_vocabulary"`
	URLs               float64 `yaml:"urls" mapstructure:"urls"`
	APIEndpoints       float64 `yaml:"api_endpoints" mapstructure:"api_endpoints"`
	SecretsContact     float64 `yaml:"secrets_contact" mapstructure:"secrets_contact"`
	MethodNames        float64 `yaml:"method_names" mapstructure:"method_names"`
	TypeNames          float64 `yaml:"type_names" mapstructure:"type_names"`
}

// ScoringConfig contains the metrics calculator tuning.
//
// Weights must sum to 1.0. Fallbacks are the documented per-family
// reduction ratios used when a family has zero occurrences in the
// original text: "no instances found" is treated as already at a
// baseline safety level, neither perfect nor zero.
type ScoringConfig struct {
	Weights   FamilyValues `yaml:"weights" mapstructure:"weights"`
	Fallbacks FamilyValues `yaml:"fallbacks" mapstructure:"fallbacks"`

	Privacy     ScoreBand `yaml:"privacy" mapstructure:"privacy"`
	Leakage     ScoreBand `yaml:"leakage" mapstructure:"leakage"`
	Competitive ScoreBand `yaml:"competitive" mapstructure:"competitive"`
	Parity      ScoreBand `yaml:"parity" mapstructure:"parity"`

	// ComplianceReady fires when the composite reduction rate exceeds
	// ReductionThreshold, or business-vocabulary occurrences dropped
	// below VocabularyRatio of the original count.
	ReductionThreshold float64 `yaml:"reduction_threshold" mapstructure:"reduction_threshold"`
	VocabularyRatio    float64 `yaml:"vocabulary_ratio" mapstructure:"vocabulary_ratio"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// SessionConfig contains the Redis-backed result store configuration
type SessionConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	DefaultTTL     time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
}

// AuditConfig contains the Postgres audit trail configuration
type AuditConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// RateLimitConfig contains per-client request rate limiting
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	Burst          int  `yaml:"burst" mapstructure:"burst"`
}

// WebSocketConfig contains WebSocket event hub configuration
type WebSocketConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	StatusInterval  time.Duration `yaml:"status_interval" mapstructure:"status_interval"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Sanitizer: SanitizerConfig{
			Enabled:        true,
			DefaultProfile: "balanced",
			Categories:     []string{"all"},
		},
		Scoring: ScoringConfig{
			Weights: FamilyValues{
				BusinessVocabulary: 0.30,
				URLs:               0.20,
				APIEndpoints:       0.20,
				SecretsContact:     0.15,
				MethodNames:        0.10,
				TypeNames:          0.05,
			},
			Fallbacks: FamilyValues{
				BusinessVocabulary: 0.85,
				URLs:               0.90,
				APIEndpoints:       0.90,
				SecretsContact:     0.95,
				MethodNames:        0.80,
				TypeNames:          0.80,
			},
			Privacy:            ScoreBand{Base: 40, Span: 55, Floor: 40, Cap: 95},
			Leakage:            ScoreBand{Base: 60, Span: 55, Floor: 5, Cap: 60},
			Competitive:        ScoreBand{Base: 70, Span: 60, Floor: 8, Cap: 70},
			Parity:             ScoreBand{Base: 92, Span: 45, Floor: 55, Cap: 92},
			ReductionThreshold: 0.5,
			VocabularyRatio:    0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File: struct {
				Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
				Path     string `yaml:"path" mapstructure:"path"`
				MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
				MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
				Compress bool   `yaml:"compress" mapstructure:"compress"`
			}{
				Enabled:  false,
				Path:     "logs/codeveil.log",
				MaxSize:  100, // MB
				MaxAge:   30,  // days
				Compress: true,
			},
		},
		Session: SessionConfig{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			KeyPrefix:      "codeveil",
			DefaultTTL:     24 * time.Hour,
			MaxConnections: 10,
			MinIdleConns:   2,
		},
		Audit: AuditConfig{
			Enabled:         false,
			DatabaseURL:     "postgres://localhost:5432/codeveil?sslmode=disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
			Burst:          20,
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			Path:            "/ws",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxMessageSize:  512,
			StatusInterval:  30 * time.Second,
		},
	}
}
