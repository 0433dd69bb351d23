// Package config resolves CLI settings from flags, FORMSTATE_* environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "FORMSTATE"

// Keys shared by flags, env vars and the config file.
const (
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyDefinitions     = "definitions"
	KeyForm            = "form"
	KeyOutput          = "output"
	KeyMode            = "mode"
	KeyDefaultsURL     = "defaults-url"
	KeyDefaultsTimeout = "defaults-timeout"
)

// Config holds the resolved CLI settings.
type Config struct {
	LogLevel        string        `mapstructure:"log-level"`
	LogFormat       string        `mapstructure:"log-format"`
	DefinitionsDir  string        `mapstructure:"definitions"`
	FormID          string        `mapstructure:"form"`
	Output          string        `mapstructure:"output"`
	Mode            string        `mapstructure:"mode"`
	DefaultsURL     string        `mapstructure:"defaults-url"`
	DefaultsTimeout time.Duration `mapstructure:"defaults-timeout"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "text",
		FormID:          "youtube",
		Output:          "json",
		Mode:            "onSubmit",
		DefaultsTimeout: 5 * time.Second,
	}
}

// RegisterFlags adds the persistent flags understood by Load.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String(KeyLogLevel, def.LogLevel, "log level (debug, info, warn, error)")
	flags.String(KeyLogFormat, def.LogFormat, "log format (text, json)")
	flags.String(KeyDefinitions, def.DefinitionsDir, "directory of form definitions (built-in forms when empty)")
	flags.String(KeyForm, def.FormID, "form id to load")
	flags.StringP(KeyOutput, "o", def.Output, "output format (json, form, pretty)")
	flags.String(KeyMode, def.Mode, "validation mode (onSubmit, onBlur, onChange, onTouched, all)")
	flags.String(KeyDefaultsURL, def.DefaultsURL, "URL to fetch default values from")
	flags.Duration(KeyDefaultsTimeout, def.DefaultsTimeout, "timeout for the default values request")
}

// Load merges the config file at path (optional), the environment and the
// given flags over Default.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyDefinitions, def.DefinitionsDir)
	v.SetDefault(KeyForm, def.FormID)
	v.SetDefault(KeyOutput, def.Output)
	v.SetDefault(KeyMode, def.Mode)
	v.SetDefault(KeyDefaultsURL, def.DefaultsURL)
	v.SetDefault(KeyDefaultsTimeout, def.DefaultsTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.FormID) == "" {
		return errors.New("config: form id is required")
	}
	if c.DefaultsTimeout < 0 {
		return fmt.Errorf("config: negative defaults timeout %s", c.DefaultsTimeout)
	}
	return nil
}
