package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName = "ytgenre"
	defaultConfigFile    = "config.yaml"

	// DefaultTokenFile is where the OAuth token is cached between runs.
	DefaultTokenFile = "token.json"
	// DefaultOutputFile is where the rendered memo is written.
	DefaultOutputFile = "subscriptions_memo.md"
)

func DefaultConfigPath() string {
	if env := os.Getenv("YTGENRE_CONFIG"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+defaultConfigDirName, defaultConfigFile)
}
