// Package config loads the server configuration. Sources, lowest priority
// first: built-in defaults, an optional YAML file, optional .env files, and
// FLOWBUILDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLOWBUILDER_"

// Config holds all configuration for the flowbuilder server
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Editor EditorConfig `json:"editor" yaml:"editor"`
}

type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout" validate:"gt=0"`
	CORSOrigins     []string      `json:"corsOrigins" yaml:"corsOrigins" validate:"dive,required"`
	MaxSessions     int           `json:"maxSessions" yaml:"maxSessions" validate:"gte=0"`
	RuntimeMetrics  bool          `json:"runtimeMetrics" yaml:"runtimeMetrics"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=json console"`
}

type EditorConfig struct {
	ColorMode       string        `json:"colorMode" yaml:"colorMode" validate:"color_mode"`
	NotificationTTL time.Duration `json:"notificationTtl" yaml:"notificationTtl" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			MaxSessions:     1000,
			RuntimeMetrics:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Editor: EditorConfig{
			ColorMode:       "light",
			NotificationTTL: notify.DefaultTTL,
		},
	}
}

// Load builds the configuration from file (skipped when empty) and the
// dotenv files, then applies environment overrides and validates the
// result. Variables already set in the process environment win over values
// from dotenv files.
func Load(file string, dotenvFiles ...string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
	}

	dotenv := map[string]string{}
	for _, f := range dotenvFiles {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		for k, v := range values {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := get("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Server.ShutdownTimeout = d
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	if v, ok := get("MAX_SESSIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_SESSIONS: %w", EnvPrefix, err)
		}
		c.Server.MaxSessions = n
	}
	if v, ok := get("RUNTIME_METRICS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sRUNTIME_METRICS: %w", EnvPrefix, err)
		}
		c.Server.RuntimeMetrics = b
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := get("COLOR_MODE"); ok {
		c.Editor.ColorMode = strings.ToLower(v)
	}
	if v, ok := get("NOTIFICATION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sNOTIFICATION_TTL: %w", EnvPrefix, err)
		}
		c.Editor.NotificationTTL = d
	}
	return nil
}

// Validate checks every field against its tag rules.
func (c *Config) Validate() error {
	if err := validation.ValidateWithPlayground(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
