// Package config loads the dashboard backend configuration from defaults,
// an optional YAML file, a .env file and HCIP_* environment variables.
package config

import (
	"time"
)

// Config is the complete process configuration
type Config struct {
	Server        ServerConfig    `mapstructure:"server" yaml:"server"`
	Cache         CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Fetch         FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
	Pipeline      PipelineConfig  `mapstructure:"pipeline" yaml:"pipeline"`
	Auth          AuthConfig      `mapstructure:"auth" yaml:"auth"`
	RateLimit     RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Log           LogConfig       `mapstructure:"log" yaml:"log"`
	Sources       []SourceConfig  `mapstructure:"sources" yaml:"sources"`
	ColumnRenames []ColumnRename  `mapstructure:"column_renames" yaml:"column_renames"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CacheConfig holds in-memory and persisted cache settings
type CacheConfig struct {
	Dir                   string        `mapstructure:"dir" yaml:"dir"`
	TTL                   time.Duration `mapstructure:"ttl" yaml:"ttl"`
	SnapshotRetentionDays int           `mapstructure:"snapshot_retention_days" yaml:"snapshot_retention_days"`

	// AutoRefresh forces a reload whenever data is stale, checked at this
	// interval; zero disables it
	AutoRefresh time.Duration `mapstructure:"auto_refresh" yaml:"auto_refresh"`
}

// FetchConfig holds source download settings
type FetchConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
}

// PipelineConfig holds transform settings
type PipelineConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// AuthConfig guards the refresh endpoint. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer" yaml:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// RateLimitConfig bounds forced refreshes per client IP
type RateLimitConfig struct {
	RefreshLimit  int           `mapstructure:"refresh_limit" yaml:"refresh_limit"`
	RefreshWindow time.Duration `mapstructure:"refresh_window" yaml:"refresh_window"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// SourceConfig is one package data source
type SourceConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// ColumnRename maps a raw header to its canonical column name.
// A list keeps header case intact.
type ColumnRename struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// RenameMap returns the header rename map
func (c *Config) RenameMap() map[string]string {
	m := make(map[string]string, len(c.ColumnRenames))
	for _, r := range c.ColumnRenames {
		m[r.From] = r.To
	}
	return m
}

// Location resolves the pipeline reference timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Pipeline.Timezone)
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() Config {
	out := *c
	if out.Auth.JWTSecret != "" {
		out.Auth.JWTSecret = "********"
	}
	return out
}
