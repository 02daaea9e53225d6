// Package zodkit provides configuration types for zodgen.
package zodkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the project-level zodgen.toml configuration.
type Config struct {
	// OutDir is the directory generated TypeScript files are written to.
	// Defaults to "./schemas" relative to the config file.
	OutDir string `toml:"out_dir"`

	// SingleFile emits all schemas into one schemas.ts instead of one
	// file per schema.
	SingleFile bool `toml:"single_file"`

	// Locale selects the message catalog used for default validation
	// messages. Only "en" ships built in.
	Locale string `toml:"locale"`

	// Definitions lists additional *.zod.yaml definition files or globs,
	// resolved relative to the config file.
	Definitions []string `toml:"definitions"`

	// EnumImports maps named enums referenced by schemas to the TS module
	// they are imported from, e.g. OrderStatus = "../enums".
	EnumImports map[string]string `toml:"enum_imports"`
}

// DefaultConfig returns the configuration used when no zodgen.toml exists.
func DefaultConfig() *Config {
	return &Config{
		OutDir: "schemas",
		Locale: "en",
	}
}

// LoadConfig loads the zodgen.toml configuration from the given directory.
// It searches for zodgen.toml in the directory and its parents up to the
// root, returning defaults when none is found.
func LoadConfig(dir string) (*Config, error) {
	configPath, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Resolve relative paths based on config file location
	configDir := filepath.Dir(path)
	if !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(configDir, cfg.OutDir)
	}
	for i := range cfg.Definitions {
		if !filepath.IsAbs(cfg.Definitions[i]) {
			cfg.Definitions[i] = filepath.Join(configDir, cfg.Definitions[i])
		}
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}

	return cfg, nil
}

// FindConfig searches for zodgen.toml starting from dir and going up to root.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, "zodgen.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", nil
		}
		dir = parent
	}
}
