package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
)

// EnvPrefix is the environment variable prefix for configuration keys
const EnvPrefix = "HCIP"

// DefaultConfigFile is read when no --config path is given and it exists
const DefaultConfigFile = "config.yaml"

// newViperInstance creates a Viper instance with HCIP_ env binding and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration with the following precedence (highest first):
//  1. Environment variables (HCIP_* prefix, .env included)
//  2. The YAML file at path, or ./config.yaml when path is empty
//  3. Built-in defaults
func Load(ctx context.Context, path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	v := newViperInstance()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	case fileExists(DefaultConfigFile):
		v.SetConfigFile(DefaultConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("config_file", v.ConfigFileUsed()).
		Str("cache.dir", cfg.Cache.Dir).
		Dur("cache.ttl", cfg.Cache.TTL).
		Int("sources", len(cfg.Sources)).
		Msg("configuration loaded")

	return cfg, nil
}

// loadDotEnv loads a .env file when present. Variables already set win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
