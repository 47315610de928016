package scheduler

import "time"

// Config controls per-run deadlines.
type Config struct {
	RunTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{RunTimeout: 30 * time.Second}
}

func (c Config) withDefaults() Config {
	if c.RunTimeout <= 0 {
		c.RunTimeout = DefaultConfig().RunTimeout
	}
	return c
}
