// Package config provides the unified configuration system for
// sv-bugpoint's reduction engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete sv-bugpoint configuration.
type Config struct {
	// Reduce configuration
	Reduce ReduceConfig `yaml:"reduce" json:"reduce"`

	// Debug output configuration
	Debug DebugConfig `yaml:"debug" json:"debug"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Feature flags
	Features map[string]bool `yaml:"features" json:"features"`

	// Metadata
	Version string `yaml:"version" json:"version"`
	Profile string `yaml:"profile" json:"profile"`
}

// ReduceConfig contains core reduction-engine settings.
type ReduceConfig struct {
	SieveLower uint     `yaml:"sieve_lower" json:"sieve_lower" env:"SIEVE_LOWER" default:"1024"`
	Stages     []string `yaml:"stages" json:"stages"`

	OracleTimeout time.Duration `yaml:"oracle_timeout" json:"oracle_timeout" env:"ORACLE_TIMEOUT" default:"0"`
	MaxRawAttempts int          `yaml:"max_raw_attempts" json:"max_raw_attempts" default:"200"`

	SaveIntermediates bool `yaml:"save_intermediates" json:"save_intermediates" default:"false"`
	DumpTrees         bool `yaml:"dump_trees" json:"dump_trees" default:"false"`
}

// DebugConfig contains work-dir debug-layout toggles.
type DebugConfig struct {
	EnableAttemptsDir bool `yaml:"enable_attempts_dir" json:"enable_attempts_dir" default:"true"`
	EnableTraceFile   bool `yaml:"enable_trace_file" json:"enable_trace_file" default:"true"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" default:"info" env:"LOG_LEVEL"`
	EnableColor bool   `yaml:"enable_color" json:"enable_color" default:"true"`
}

// Manager manages configuration loading, validation, and hot-reloading.
type Manager struct {
	config      *Config
	configPath  string
	mu          sync.RWMutex
	changeHooks []func(*Config)
	stopWatcher chan struct{}
	watcherDone chan struct{}
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{
		config:      DefaultConfig(),
		changeHooks: make([]func(*Config), 0),
		stopWatcher: make(chan struct{}),
		watcherDone: make(chan struct{}),
	}
}

// DefaultConfig returns the default configuration, matching spec.md's
// default size sieve of (1024, +Inf) and the §2 item 6 stage sequence.
func DefaultConfig() *Config {
	return &Config{
		Reduce: ReduceConfig{
			SieveLower:     1024,
			Stages:         DefaultStageSequence(),
			OracleTimeout:  0,
			MaxRawAttempts: 200,
		},
		Debug: DebugConfig{
			EnableAttemptsDir: true,
			EnableTraceFile:   true,
		},
		Logging: LoggingConfig{
			Level:       "info",
			EnableColor: true,
		},
		Features: make(map[string]bool),
		Version:  "1.0",
		Profile:  "default",
	}
}

// DefaultStageSequence is the fixed stage order, duplicated here (rather
// than imported from pkg/reduce/rewriters) so config carries no
// dependency on the reduction engine it configures.
func DefaultStageSequence() []string {
	return []string{
		"bodyRemover", "instantiationRemover", "bindRemover", "bodyPartsRemover",
		"externRemover", "declRemover", "statementsRemover", "importsRemover",
		"paramAssignRemover", "contAssignRemover", "memberRemover", "modportRemover",
		"portsRemover", "structFieldRemover", "moduleRemover", "typeSimplifier",
		"labelRemover", "argRemover",
	}
}

// Load loads configuration from a YAML file.
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expandedPath, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if err := NewLoader().LoadFromEnvironment(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	m.config = cfg
	m.configPath = expandedPath
	m.notifyChangeHooks(cfg)
	return nil
}

// LoadProfile loads a named built-in profile (aggressive, conservative).
func (m *Manager) LoadProfile(name string) error {
	cfg, err := LoadEmbeddedProfile(name)
	if err != nil {
		return fmt.Errorf("loading profile %s: %w", name, err)
	}
	if err := NewLoader().LoadFromEnvironment(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validating profile %s: %w", name, err)
	}

	m.mu.Lock()
	m.config = cfg
	m.config.Profile = name
	m.mu.Unlock()
	m.notifyChangeHooks(cfg)
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgCopy := *m.config
	return &cfgCopy
}

// Update applies updateFunc to a copy of the configuration, validating
// before committing.
func (m *Manager) Update(updateFunc func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfgCopy := *m.config
	updateFunc(&cfgCopy)

	if err := Validate(&cfgCopy); err != nil {
		return fmt.Errorf("validating updated configuration: %w", err)
	}
	m.config = &cfgCopy
	m.notifyChangeHooks(&cfgCopy)
	return nil
}

// OnChange registers a callback invoked whenever the configuration
// changes (Load, LoadProfile, Update, or a FileWatcher reload).
func (m *Manager) OnChange(hook func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, hook)
}

// ConfigPath returns the path last passed to Load, or "" if none.
func (m *Manager) ConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// ReloadFromDisk re-parses the file at m.configPath (called by
// FileWatcher on a detected mtime change).
func (m *Manager) ReloadFromDisk() error {
	m.mu.RLock()
	path := m.configPath
	m.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("no configuration file loaded")
	}
	return m.Load(path)
}

func (m *Manager) notifyChangeHooks(cfg *Config) {
	for _, hook := range m.changeHooks {
		go hook(cfg)
	}
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
