package config

import (
	"encoding/json"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	path      string
	listeners []func(*Config)
}

// NewManager creates a new Manager. path is where Save and Reload operate.
func NewManager(config *Config, path string) *Manager {
	return &Manager{config: config, path: path}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Path returns the file the configuration was loaded from.
func (m *Manager) Path() string {
	return m.path
}

// OnUpdate registers fn to be called with every new configuration.
func (m *Manager) OnUpdate(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Update updates the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	oldConfig := m.config
	m.config = config
	listeners := append([]func(*Config){}, m.listeners...)
	m.mu.Unlock()

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"logger_level_changed", oldConfig.Logger.Level != config.Logger.Level,
			"telegram_enabled_changed", oldConfig.Telegram.Enabled != config.Telegram.Enabled,
			"fetch_concurrency_changed", oldConfig.Lyrics.FetchConcurrency != config.Lyrics.FetchConcurrency,
			"http_timeout_changed", oldConfig.HTTP.TimeoutSeconds != config.HTTP.TimeoutSeconds,
			"user_agent_changed", oldConfig.HTTP.UserAgent != config.HTTP.UserAgent,
		)
	}
	for _, fn := range listeners {
		fn(config)
	}
}

// Reload reads the configuration file again. The current configuration is
// kept when the file is invalid.
func (m *Manager) Reload() error {
	cfg, err := read(m.path)
	if err != nil {
		slog.Error("failed to reload configuration", "path", m.path, "error", err)
		return err
	}
	m.Update(cfg)
	slog.Info("Configuration reloaded", "path", m.path)
	return nil
}

// redactedCfg gets a redacted copy of the Config. Callers must hold the lock.
func (m *Manager) redactedCfg() Config {
	cfgCpy := *m.config
	if cfgCpy.Telegram.Token != "" {
		cfgCpy.Telegram.Token = "<redacted>"
	}
	return cfgCpy
}

// GetJSON returns the current configuration as a JSON string.
func (m *Manager) GetJSON() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jsonBytes, err := json.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

func (m *Manager) GetYAML() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
