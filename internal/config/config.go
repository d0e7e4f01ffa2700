// Package config loads bulglo's settings from defaults, an optional config
// file, BULGLO_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/bulglo/internal/store"
)

// EnvPrefix is the prefix of environment overrides, e.g. BULGLO_LOG_LEVEL.
const EnvPrefix = "BULGLO"

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `mapstructure:"db" validate:"required"`

	// ContentDir overrides the bundled course when set.
	ContentDir string `mapstructure:"content" validate:"omitempty,dir"`

	Log      LogConfig      `mapstructure:"log"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// File receives logs while the terminal UI owns the screen.
	File string `mapstructure:"file" validate:"required"`
}

// AutosaveConfig tunes background snapshot persistence.
type AutosaveConfig struct {
	Keep        int `mapstructure:"keep" validate:"gte=1,lte=1000"`
	MaxAttempts int `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
}

// Options tells Load where to look beyond defaults and the environment.
type Options struct {
	// File is an explicit config file. When empty, config.yaml in the data
	// directory is read if it exists.
	File string

	// Flags are bound on top of every other source. Only flags that were
	// set on the command line override other values.
	Flags *pflag.FlagSet
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"db":        "db",
	"content":   "content",
	"log.level": "log-level",
}

// Load builds and validates the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	dataDir, err := store.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	v.SetDefault("db", dbPath)
	v.SetDefault("content", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(dataDir, "bulglo.log"))
	v.SetDefault("autosave.keep", 20)
	v.SetDefault("autosave.max_attempts", 3)

	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(dataDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
