// Package config resolves runtime settings: defaults, then an optional YAML
// file, then SIGNUP_* environment variables. Command-line flags are applied
// last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-signup/internal/platform/logger"
)

// Environment variable names.
const (
	EnvAddr      = "SIGNUP_ADDR"
	EnvLogLevel  = "SIGNUP_LOG_LEVEL"
	EnvLogFormat = "SIGNUP_LOG_FORMAT"
	EnvCopyFile  = "SIGNUP_COPY_FILE"
)

// Config is the full runtime configuration.
type Config struct {
	Server   Server `yaml:"server"`
	Log      Log    `yaml:"log"`
	CopyFile string `yaml:"copyFile"`
	Theme    Theme  `yaml:"theme"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	LiveIdleTimeout time.Duration `yaml:"liveIdleTimeout"`
}

// Log selects level and encoder.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Theme feeds the HTML renderer's theme configuration.
type Theme struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	CSSVars map[string]string `yaml:"cssVars"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			LiveIdleTimeout: 10 * time.Minute,
		},
		Log: Log{
			Level:  "info",
			Format: string(logger.FormatConsole),
		},
	}
}

// Load resolves the configuration. An empty path skips the file step.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if lookup != nil {
		applyEnv(&cfg, lookup)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	set(EnvAddr, &cfg.Server.Addr)
	set(EnvLogLevel, &cfg.Log.Level)
	set(EnvLogFormat, &cfg.Log.Format)
	set(EnvCopyFile, &cfg.CopyFile)
}

// Validate checks the values that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.ShutdownTimeout < 0 || c.Server.LiveIdleTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
