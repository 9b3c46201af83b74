// Package config handles loading and hot-reloading doclayout
// configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full doclayout configuration.
type Config struct {
	Parse ParseConfig `mapstructure:"parse" yaml:"parse"`
	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// ParseConfig controls the document parser.
type ParseConfig struct {
	// SectionWorkers bounds concurrent section parses inside one
	// document. Zero or one is sequential.
	SectionWorkers int `mapstructure:"section_workers" yaml:"section_workers"`

	// DocName overrides the document-name guess used to filter
	// self-references.
	DocName string `mapstructure:"doc_name" yaml:"doc_name"`

	// LoadRetries re-reads page files that fail to parse; useful when
	// the layout stage is still writing.
	LoadRetries uint `mapstructure:"load_retries" yaml:"load_retries"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// DebounceMillis delays re-parsing after a filesystem event so a
	// burst of page writes triggers one parse.
	DebounceMillis int `mapstructure:"debounce_ms" yaml:"debounce_ms"`

	// Workers is the parse pool size. Zero means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("parse", defaults.Parse)
	viper.SetDefault("watch", defaults.Watch)
	viper.SetDefault("log", defaults.Log)

	// Environment variables with DOCLAYOUT_ prefix
	viper.SetEnvPrefix("DOCLAYOUT")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.doclayout")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Parse.DocName = ResolveEnvVars(cfg.Parse.DocName)
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfigFile enables hot-reloading of configuration.
func (cm *Manager) WatchConfigFile() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# doclayout configuration
# Values may reference environment variables with ${ENV_VAR} syntax.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
