// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Detector DetectorConfig          `mapstructure:"detector"`
	Training TrainingConfig          `mapstructure:"training"`
	Sessions SessionsConfig          `mapstructure:"sessions"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	UseTLS         bool   `mapstructure:"use_tls"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	SQLite        SQLiteConfig        `mapstructure:"sqlite"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Configured reports whether enough is set to attempt a connection.
func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Database != ""
}

// SQLiteConfig points at a local database file. ":memory:" is accepted.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Detection Configuration ---

// DetectorConfig tunes the intent scorer and the per-conversation tracker.
type DetectorConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	FallbackConfidence  float64 `mapstructure:"fallback_confidence"`
	FallbackIntent      string  `mapstructure:"fallback_intent"`
	RecentResults       int     `mapstructure:"recent_results"`
	IncludeScores       bool    `mapstructure:"include_scores"`
}

// TrainingConfig lists the external (query, intent) sources merged into the
// keyword corpus at startup.
type TrainingConfig struct {
	Timeout int            `mapstructure:"timeout"` // milliseconds, per source
	Sources []SourceConfig `mapstructure:"sources"`
}

// SourceConfig describes one training source. Which fields matter depends on
// Type:
//
//	csv, json, yaml        Path (globs allowed)
//	postgres, sqlite       Query (defaults to the training_queries table)
//	redis                  Key (a list of JSON records)
//	elasticsearch          Index, QueryField, IntentField
type SourceConfig struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Path        string `mapstructure:"path"`
	Query       string `mapstructure:"query"`
	Key         string `mapstructure:"key"`
	Index       string `mapstructure:"index"`
	QueryField  string `mapstructure:"query_field"`
	IntentField string `mapstructure:"intent_field"`
	Limit       int    `mapstructure:"limit"`
	Disabled    bool   `mapstructure:"disabled"`
}

// SessionsConfig controls how long idle conversations are kept in memory.
type SessionsConfig struct {
	IdleTTL       int `mapstructure:"idle_ttl"`       // milliseconds
	SweepInterval int `mapstructure:"sweep_interval"` // milliseconds
	MaxSessions   int `mapstructure:"max_sessions"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the health/metrics HTTP listener settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
