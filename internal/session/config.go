package session

import "time"

// Config holds the session engine's tunables, with spec.md §6 defaults.
type Config struct {
	Timeout      time.Duration `yaml:"timeout"`
	MemoryLimit  int64         `yaml:"memoryLimitBytes"`
	MaxSessions  int           `yaml:"maxSessions"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
	PollInterval time.Duration `yaml:"pollInterval"`
	ReapInterval time.Duration `yaml:"reapInterval"`
}

// DefaultConfig returns spec.md §6's design defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      2 * time.Second,
		MemoryLimit:  100 * 1024 * 1024,
		MaxSessions:  40,
		IdleTimeout:  60 * time.Second,
		PollInterval: 100 * time.Millisecond,
		ReapInterval: 60 * time.Second,
	}
}
