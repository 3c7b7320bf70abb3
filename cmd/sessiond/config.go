package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"codecell/internal/session"
	"codecell/pkg/utils/logger"
)

const (
	defaultHTTPAddr     = "0.0.0.0:8080"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultShutdown     = 10 * time.Second
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// SessionConfig holds the session engine's tunables (spec.md §6).
type SessionConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	MemoryLimitBytes  int64         `yaml:"memoryLimitBytes"`
	MaxSessions       int           `yaml:"maxSessions"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	PollInterval      time.Duration `yaml:"pollInterval"`
	ReapInterval      time.Duration `yaml:"reapInterval"`
}

// AppConfig holds sessiond's config.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logger  logger.Config `yaml:"logger"`
	Session SessionConfig `yaml:"session"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	cfg := AppConfig{Session: toSessionConfig(session.DefaultConfig())}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadYAML(path, &cfg); err != nil {
				return nil, err
			}
		}
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}

	defaults := session.DefaultConfig()
	if cfg.Session.Timeout == 0 {
		cfg.Session.Timeout = defaults.Timeout
	}
	if cfg.Session.MemoryLimitBytes == 0 {
		cfg.Session.MemoryLimitBytes = defaults.MemoryLimit
	}
	if cfg.Session.MaxSessions == 0 {
		cfg.Session.MaxSessions = defaults.MaxSessions
	}
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = defaults.IdleTimeout
	}
	if cfg.Session.PollInterval == 0 {
		cfg.Session.PollInterval = defaults.PollInterval
	}
	if cfg.Session.ReapInterval == 0 {
		cfg.Session.ReapInterval = defaults.ReapInterval
	}

	return &cfg, nil
}

func toSessionConfig(c session.Config) SessionConfig {
	return SessionConfig{
		Timeout:          c.Timeout,
		MemoryLimitBytes: c.MemoryLimit,
		MaxSessions:      c.MaxSessions,
		IdleTimeout:      c.IdleTimeout,
		PollInterval:     c.PollInterval,
		ReapInterval:     c.ReapInterval,
	}
}

func (s SessionConfig) toEngineConfig() session.Config {
	return session.Config{
		Timeout:      s.Timeout,
		MemoryLimit:  s.MemoryLimitBytes,
		MaxSessions:  s.MaxSessions,
		IdleTimeout:  s.IdleTimeout,
		PollInterval: s.PollInterval,
		ReapInterval: s.ReapInterval,
	}
}
