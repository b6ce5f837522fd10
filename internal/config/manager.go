package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// managerState represents the lifecycle state of the ConfigManager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
)

// Environment variables overriding configuration values.
const (
	EnvProfile   = "RELCOMMIT_PROFILE"
	EnvLogLevel  = "RELCOMMIT_LOG_LEVEL"
	EnvLogFormat = "RELCOMMIT_LOG_FORMAT"
	EnvNoColor   = "RELCOMMIT_NO_COLOR"
)

// ConfigManager provides thread-safe configuration management.
// It must be initialized via Load() before use.
type ConfigManager struct {
	mu      sync.RWMutex
	config  *Config
	root    string
	state   managerState
	loader  *Loader
	profile string
	getenv  func(string) string
}

// Option configures a ConfigManager.
type Option func(*ConfigManager)

// WithProfile selects a built-in profile, taking precedence over the
// environment and the config file.
func WithProfile(name string) Option {
	return func(m *ConfigManager) { m.profile = name }
}

// WithGetenv replaces the environment lookup used for overrides.
func WithGetenv(getenv func(string) string) Option {
	return func(m *ConfigManager) { m.getenv = getenv }
}

// NewConfigManager creates a new ConfigManager instance in uninitialized state.
func NewConfigManager(opts ...Option) *ConfigManager {
	m := &ConfigManager{
		loader: NewLoader(),
		state:  stateUninitialized,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads configuration from the project root. It merges file values
// with the selected profile and compiled defaults, applies environment
// variable overrides, and validates the result before storing it.
func (m *ConfigManager) Load(projectRoot string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile := m.profile
	if profile == "" {
		profile = m.getenv(EnvProfile)
	}

	cfg, err := m.loader.Load(projectRoot, profile)
	if err != nil {
		return nil, err
	}

	// Environment variables have higher priority than files.
	applyEnvOverrides(cfg, m.getenv)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	m.config = cfg
	m.root = projectRoot
	m.state = stateInitialized
	return cfg, nil
}

// Get returns the current in-memory configuration.
// Returns nil if the manager has not been initialized via Load().
func (m *ConfigManager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Getenv returns the environment lookup the manager uses.
func (m *ConfigManager) Getenv() func(string) string {
	return m.getenv
}

// GetSection returns a named configuration section.
// Returns ErrNotInitialized if Load() has not been called.
// Returns ErrSectionNotFound if the section name is invalid.
func (m *ConfigManager) GetSection(name string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == stateUninitialized {
		return nil, ErrNotInitialized
	}

	switch name {
	case "profile":
		return m.config.Profile, nil
	case "release":
		return m.config.Release, nil
	case "system":
		return m.config.System, nil
	case "lint":
		return m.config.Lint, nil
	case "pr_body":
		return m.config.PRBody, nil
	case "secrets":
		return m.config.Secrets, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
	}
}

// Save persists the current configuration to .relcommit.yaml in the
// project root, replacing the file atomically.
// Returns ErrNotInitialized if Load() has not been called.
func (m *ConfigManager) Save() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == stateUninitialized {
		return "", ErrNotInitialized
	}

	path := filepath.Join(filepath.Clean(m.root), FileNames[0])
	if err := WriteFile(path, m.config); err != nil {
		return "", err
	}
	return path, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteFile marshals cfg to YAML and writes it atomically to path.
func WriteFile(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if level := getenv(EnvLogLevel); level != "" {
		cfg.System.LogLevel = strings.ToLower(level)
	}
	if format := getenv(EnvLogFormat); format != "" {
		cfg.System.LogFormat = format
	}
	if noColor := getenv(EnvNoColor); noColor == "true" || noColor == "1" {
		cfg.System.NoColor = true
	}
}
