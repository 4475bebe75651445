package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yaml"
	ConfigDirName  = "ferry"
	EnvPrefix      = "FERRY"
)

// ConfigManager owns the on-disk configuration file and its viper
// instance. Environment variables (FERRY_S3_BUCKET, ...) override file
// values.
type ConfigManager struct {
	v    *viper.Viper
	path string
}

func NewConfigManager() (*ConfigManager, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend", "s3")
	v.SetDefault("limits.max_upload_bytes", defaultMaxUploadBytes)
	v.SetDefault("limits.max_fetch_bytes", defaultMaxFetchBytes)
	v.SetDefault("limits.max_batch_items", defaultMaxBatchItems)
	v.SetDefault("limits.max_concurrency", defaultMaxConcurrency)
	v.SetDefault("limits.request_timeout", defaultRequestTimeout.String())

	return &ConfigManager{v: v, path: path}, nil
}

func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig reads the file (a missing file is not an error), applies
// env overrides, and unmarshals into the typed Config.
func (m *ConfigManager) LoadConfig() (*Config, error) {
	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := m.v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetValue persists a dotted key, e.g. 's3.bucket'.
func (m *ConfigManager) SetValue(key, value string) error {
	m.v.Set(key, value)
	return m.writeSettings(m.v.AllSettings())
}

// GetValue reads a dotted key; ok reports whether it is set to a
// non-empty value.
func (m *ConfigManager) GetValue(key string) (interface{}, bool) {
	if !m.v.IsSet(key) {
		return nil, false
	}
	val := m.v.Get(key)
	if s, ok := val.(string); ok && s == "" {
		return nil, false
	}
	return val, true
}

// DeleteValue removes a dotted key from the persisted file. Viper
// cannot unset keys in place, so the settings tree is rewritten
// without it.
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	if _, exists := m.GetValue(key); !exists {
		return false, nil
	}

	settings := m.v.AllSettings()
	if !deleteNested(settings, strings.Split(strings.ToLower(key), ".")) {
		return false, nil
	}

	if err := m.writeSettings(settings); err != nil {
		return false, err
	}

	// Rebuild the viper state from the pruned tree.
	fresh, err := NewConfigManager()
	if err != nil {
		return false, err
	}
	m.v = fresh.v
	return true, nil
}

// GetAllSettings returns the merged settings tree (file + env +
// defaults).
func (m *ConfigManager) GetAllSettings() map[string]interface{} {
	return m.v.AllSettings()
}

// Path returns the config file location.
func (m *ConfigManager) Path() string {
	return m.path
}

func (m *ConfigManager) writeSettings(settings map[string]interface{}) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func deleteNested(tree map[string]interface{}, path []string) bool {
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		if _, ok := tree[path[0]]; !ok {
			return false
		}
		delete(tree, path[0])
		return true
	}
	child, ok := tree[path[0]].(map[string]interface{})
	if !ok {
		return false
	}
	return deleteNested(child, path[1:])
}
