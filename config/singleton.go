package config

import (
	"log/slog"
	"sync"
)

var (
	mu        sync.RWMutex
	global    *Config
	globalErr error
	once      sync.Once
)

// Load resolves the process-wide snapshot exactly once and remembers the
// result. Later calls return the first outcome regardless of arguments.
func Load(dir string, log *slog.Logger) (*Config, error) {
	once.Do(func() {
		cfg, err := New(dir, log)
		mu.Lock()
		global, globalErr = cfg, err
		mu.Unlock()
	})

	mu.RLock()
	defer mu.RUnlock()
	return global, globalErr
}

// Get returns the process snapshot, nil before a successful Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// MustGet panics when the snapshot has not been loaded yet.
func MustGet() *Config {
	cfg := Get()
	if cfg == nil {
		panic("config: configuration not loaded")
	}
	return cfg
}

// Replace swaps the process snapshot and returns the previous one. Intended
// for tests that install a fixture configuration.
func Replace(cfg *Config) *Config {
	mu.Lock()
	defer mu.Unlock()
	prev := global
	global = cfg
	return prev
}
