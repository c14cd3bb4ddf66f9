package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	TokenStorageFile    = "file"
	TokenStorageKeyring = "keyring"
)

// Config is the optional on-disk configuration. Every field can be
// overridden by the corresponding flag or YTGENRE_* environment variable.
type Config struct {
	ClientSecret string   `yaml:"client-secret,omitempty"`
	TokenFile    string   `yaml:"token-file,omitempty"`
	Output       string   `yaml:"output,omitempty"`
	Settings     Settings `yaml:"settings,omitempty"`
}

type Settings struct {
	TokenStorage string `yaml:"token-storage,omitempty"`
	Authority    string `yaml:"authority,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
	MaxPages     int    `yaml:"max-pages,omitempty"`
	ConsoleFlow  bool   `yaml:"console-flow,omitempty"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads the config file at path, treating a missing file as an
// empty configuration. The default config path is optional on every run.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

func (c *Config) Validate() error {
	switch c.Settings.TokenStorage {
	case "", TokenStorageFile, TokenStorageKeyring:
	default:
		return fmt.Errorf("unknown token storage backend: %s", c.Settings.TokenStorage)
	}
	if c.Settings.MaxPages < 0 {
		return errors.New("max-pages cannot be negative")
	}
	return nil
}
