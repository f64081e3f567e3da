package config

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
)

// Validate checks configuration values, returning an error wrapping
// errors.ErrInvalidConfig for the first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.Wrap(errors.ErrInvalidConfig, "config is nil")
	}

	if cfg.Server.Port == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "server.port must not be empty")
	}

	if cfg.Cache.Dir == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "cache.dir must not be empty")
	}
	if cfg.Cache.TTL <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "cache.ttl must be positive, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.SnapshotRetentionDays <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"cache.snapshot_retention_days must be positive, got %d", cfg.Cache.SnapshotRetentionDays)
	}
	if cfg.Cache.AutoRefresh < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "cache.auto_refresh must not be negative, got %s", cfg.Cache.AutoRefresh)
	}

	if cfg.Fetch.Timeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "fetch.timeout must be positive, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.Concurrency < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "fetch.concurrency must be at least 1, got %d", cfg.Fetch.Concurrency)
	}

	if _, err := time.LoadLocation(cfg.Pipeline.Timezone); err != nil || cfg.Pipeline.Timezone == "" {
		return errors.Wrapf(errors.ErrInvalidConfig, "pipeline.timezone %q is not a known zone", cfg.Pipeline.Timezone)
	}

	if cfg.RateLimit.RefreshLimit < 1 || cfg.RateLimit.RefreshWindow <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"ratelimit.refresh_limit and ratelimit.refresh_window must be positive, got %d per %s",
			cfg.RateLimit.RefreshLimit, cfg.RateLimit.RefreshWindow)
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfig, "log.level %q is not a valid level", cfg.Log.Level)
	}

	return validateSources(cfg.Sources)
}

func validateSources(sources []SourceConfig) error {
	if len(sources) == 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "at least one source is required")
	}
	seen := make(map[string]bool, len(sources))
	for i, s := range sources {
		if s.Name == "" || s.URL == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "sources[%d] needs both name and url", i)
		}
		if seen[s.Name] {
			return errors.Wrapf(errors.ErrInvalidConfig, "duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
