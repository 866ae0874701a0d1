package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/storage"
	"github.com/azyu/bibleview/pkg/types"
)

// ErrInvalidConfig indicates a configuration value the reader cannot use.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables that override the configuration file.
const (
	EnvDataDir  = "BIBLEVIEW_DATA_DIR"
	EnvVersion  = "BIBLEVIEW_VERSION"
	EnvLogLevel = "BIBLEVIEW_LOG_LEVEL"
)

// ConfigManager handles the global configuration file. It is safe for
// concurrent use; callers receive copies of the loaded configuration.
type ConfigManager struct {
	configDir        string
	globalConfigPath string

	mu sync.RWMutex
	// fileConfig is the configuration as stored; globalConfig adds
	// environment overrides.
	fileConfig   *types.GlobalConfig
	globalConfig *types.GlobalConfig
}

// NewConfigManager creates a configuration manager for the user's config directory.
func NewConfigManager() (*ConfigManager, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return NewConfigManagerAt(configDir), nil
}

// NewConfigManagerAt creates a configuration manager rooted at dir.
func NewConfigManagerAt(dir string) *ConfigManager {
	return &ConfigManager{
		configDir:        dir,
		globalConfigPath: filepath.Join(dir, "config.yaml"),
	}
}

// getConfigDir returns the configuration directory path.
func getConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "bibleview"), nil
}

// ConfigDir returns the configuration directory.
func (cm *ConfigManager) ConfigDir() string {
	return cm.configDir
}

// Path returns the configuration file path.
func (cm *ConfigManager) Path() string {
	return cm.globalConfigPath
}

// LoadEnv loads KEY=VALUE pairs from .env files into the process environment.
// Variables already set win. Missing files are ignored.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadGlobalConfig loads the global configuration. A missing file yields the
// defaults. Environment overrides apply to the returned configuration only and
// are never written back.
func (cm *ConfigManager) LoadGlobalConfig() (*types.GlobalConfig, error) {
	cm.mu.RLock()
	if cm.globalConfig != nil {
		config := cloneConfig(cm.globalConfig)
		cm.mu.RUnlock()
		return config, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()
	if err := cm.loadLocked(); err != nil {
		return nil, err
	}
	return cloneConfig(cm.globalConfig), nil
}

// loadLocked reads the file unless a configuration is already loaded.
func (cm *ConfigManager) loadLocked() error {
	if cm.globalConfig != nil {
		return nil
	}

	config := types.DefaultGlobalConfig()
	data, err := os.ReadFile(cm.globalConfigPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse global config: %w", err)
		}
	case os.IsNotExist(err):
		// Return default config if file doesn't exist
	default:
		return fmt.Errorf("failed to read global config: %w", err)
	}

	if err := normalizeConfig(config); err != nil {
		return err
	}
	return cm.setLoadedLocked(config)
}

// setLoadedLocked records the stored configuration and derives the effective
// one. cm.mu must be held for writing.
func (cm *ConfigManager) setLoadedLocked(stored *types.GlobalConfig) error {
	effective := cloneConfig(stored)
	applyEnv(effective, os.Getenv)
	if err := normalizeConfig(effective); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}

	cm.fileConfig = stored
	cm.globalConfig = effective
	return nil
}

// SaveGlobalConfig validates and saves the global configuration.
func (cm *ConfigManager) SaveGlobalConfig(config *types.GlobalConfig) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.saveLocked(cloneConfig(config))
}

func (cm *ConfigManager) saveLocked(config *types.GlobalConfig) error {
	if err := normalizeConfig(config); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := storage.AtomicWriteFile(cm.globalConfigPath, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return cm.setLoadedLocked(config)
}

// UpdateGlobalConfig applies fn to the stored configuration, saves it and
// returns the new effective configuration.
func (cm *ConfigManager) UpdateGlobalConfig(fn func(*types.GlobalConfig) error) (*types.GlobalConfig, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := cm.loadLocked(); err != nil {
		return nil, err
	}

	next := cloneConfig(cm.fileConfig)
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := cm.saveLocked(next); err != nil {
		return nil, err
	}
	return cloneConfig(cm.globalConfig), nil
}

func cloneConfig(c *types.GlobalConfig) *types.GlobalConfig {
	out := *c
	if c.Passage != nil {
		p := *c.Passage
		out.Passage = &p
	}
	return &out
}

// SetPassage validates and saves the passage range. A nil range clears it.
func (cm *ConfigManager) SetPassage(r *types.ScriptureRange) error {
	_, err := cm.UpdateGlobalConfig(func(c *types.GlobalConfig) error {
		if r != nil {
			if err := bible.ValidateRange(*r); err != nil {
				return err
			}
		}
		c.Passage = r
		return nil
	})
	return err
}

// SetDisplay saves the display settings.
func (cm *ConfigManager) SetDisplay(d types.DisplayConfig) error {
	_, err := cm.UpdateGlobalConfig(func(c *types.GlobalConfig) error {
		c.Display = d
		return nil
	})
	return err
}

// DefaultVersion returns the configured default version.
func (cm *ConfigManager) DefaultVersion() (bible.Version, error) {
	config, err := cm.LoadGlobalConfig()
	if err != nil {
		return bible.VersionUnknown, err
	}
	return bible.ParseVersion(config.DefaultVersion)
}

// applyEnv overrides config fields from environment variables.
func applyEnv(config *types.GlobalConfig, getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		config.DataDir = v
	}
	if v := getenv(EnvVersion); v != "" {
		config.DefaultVersion = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
}

// normalizeConfig fills zero values with defaults and rejects values the
// reader cannot use.
func normalizeConfig(config *types.GlobalConfig) error {
	defaults := types.DefaultGlobalConfig()

	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}
	config.DataDir = expandPath(config.DataDir)

	if config.DefaultVersion == "" {
		config.DefaultVersion = defaults.DefaultVersion
	}
	if _, err := bible.ParseVersion(config.DefaultVersion); err != nil {
		return fmt.Errorf("%w: default_version: %w", ErrInvalidConfig, err)
	}

	if config.Display.FontSize == 0 {
		config.Display.FontSize = defaults.Display.FontSize
	}
	config.Display.FontSize = types.ClampFontSize(config.Display.FontSize)
	if config.Display.BackgroundColor == "" {
		config.Display.BackgroundColor = defaults.Display.BackgroundColor
	}
	if config.Display.FontColor == "" {
		config.Display.FontColor = defaults.Display.FontColor
	}
	if config.Display.FontFamily == "" {
		config.Display.FontFamily = defaults.Display.FontFamily
	}
	if config.Display.PaddingX < 0 {
		return fmt.Errorf("%w: display.padding_x must not be negative", ErrInvalidConfig)
	}

	if config.Search.PageSize <= 0 {
		config.Search.PageSize = defaults.Search.PageSize
	}
	if config.Lookup.Timeout <= 0 {
		config.Lookup.Timeout = defaults.Lookup.Timeout
	}
	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}
	if _, err := parseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}

	if config.Passage != nil {
		if err := bible.ValidateRange(*config.Passage); err != nil {
			return fmt.Errorf("%w: passage: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
