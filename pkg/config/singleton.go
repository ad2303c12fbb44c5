package config

import (
	"fmt"
	"sync/atomic"
)

// current holds the process-wide configuration. Readers take no lock; writers
// replace the whole pointer, so a caller always observes one consistent
// Config and never a partial update.
var current atomic.Pointer[Config]

// Initialize loads the configuration at path, applies environment overrides,
// and installs the result as the process configuration. Calling it again
// replaces the installed configuration; on a load or validation error the
// previous configuration stays in effect.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	current.Store(cfg)
	return nil
}

// GetConfig returns the installed configuration, or nil before Initialize.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig installs cfg directly, bypassing file loading. The CLI installs
// built-in defaults through it when no config file exists; tests inject
// fixtures the same way.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}
