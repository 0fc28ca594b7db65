// Package config loads the settings for the calculator server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/keycalc/internal/logging"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"
	ENV_HOST             = "HOST"
	ENV_PORT             = "PORT"
	ENV_LOG_LEVEL        = "LOG_LEVEL"
	ENV_GIN_DEBUG_MODE   = "GIN_DEBUG_MODE"
)

// Config holds all server settings.
type Config struct {
	Logging logging.Config `json:"logging" yaml:"logging"`

	Server struct {
		Host         string   `json:"host" yaml:"host"`
		Port         string   `json:"port" yaml:"port"`
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
	} `json:"server" yaml:"server"`

	Sessions struct {
		// MaxSessions is the number of live sessions allowed at once.
		MaxSessions int `json:"max_sessions" yaml:"max_sessions"`
		// MaxExprLen limits each session's expression length. 0 is no limit.
		MaxExprLen int `json:"max_expr_len" yaml:"max_expr_len"`
		// IdleTimeout is how long a session may go unused before it is
		// removed.
		IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
		// SweepInterval is how often idle sessions are looked for.
		SweepInterval time.Duration `json:"sweep_interval" yaml:"sweep_interval"`
	} `json:"sessions" yaml:"sessions"`
}

// Default returns the settings used for anything a config file leaves out.
func Default() *Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.MaxSize = 100
	c.Logging.MaxAge = 28
	c.Logging.MaxBackups = 3
	c.Server.Host = "0.0.0.0"
	c.Server.Port = "8080"
	c.Sessions.MaxSessions = 10000
	c.Sessions.MaxExprLen = 256
	c.Sessions.IdleTimeout = 30 * time.Minute
	c.Sessions.SweepInterval = time.Minute
	return &c
}

// Load reads the YAML config file at path over the defaults, then applies
// environment overrides. An empty path skips the file. Unknown keys in the
// file are an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(ENV_HOST); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv(ENV_PORT); ok && v != "" {
		c.Server.Port = v
	}
	if v, ok := os.LookupEnv(ENV_LOG_LEVEL); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv(ENV_GIN_DEBUG_MODE); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", ENV_GIN_DEBUG_MODE, err)
		}
		c.Server.DebugMode = b
	}
	return nil
}

// Validate checks that the settings make sense together.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if c.Sessions.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, not %d", c.Sessions.MaxSessions)
	}
	if c.Sessions.MaxExprLen < 0 {
		return fmt.Errorf("max_expr_len must not be negative, not %d", c.Sessions.MaxExprLen)
	}
	if c.Sessions.IdleTimeout <= 0 || c.Sessions.SweepInterval <= 0 {
		return errors.New("idle_timeout and sweep_interval must be positive")
	}
	if c.Logging.ToFile && c.Logging.Filename == "" {
		return errors.New("logging to file requires a filename")
	}
	return nil
}

// Addr is the listen address for the server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
