// Package config loads locksmith settings from ~/.locksmith/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benaskins/locksmith/internal/generator"
)

// Backend selects where the credential snapshot is persisted.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendKeychain Backend = "keychain"
	BackendSQLite   Backend = "sqlite"
	BackendMemory   Backend = "memory"
)

// Config holds persistent settings.
type Config struct {
	Backend   Backend   `yaml:"backend"`
	Path      string    `yaml:"path"`
	APIAddr   string    `yaml:"api_addr"`
	APIRate   float64   `yaml:"api_rate"`
	Generator Generator `yaml:"generator"`
}

// Generator holds the defaults offered when generating a password.
type Generator struct {
	Length  int  `yaml:"length"`
	Numbers bool `yaml:"numbers"`
	Symbols bool `yaml:"symbols"`
}

// Home returns the locksmith home directory (~/.locksmith).
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".locksmith"), nil
}

// DefaultPath returns the default config file path: ~/.locksmith/config.yaml.
func DefaultPath() string {
	dir, err := Home()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Backend: BackendFile,
		APIRate: 20,
		Generator: Generator{
			Length:  generator.DefaultLength,
			Numbers: true,
		},
	}
}

// Load reads a YAML config file from path over the defaults. If the file
// does not exist, it returns the defaults and no error. An empty or
// all-comment file also returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks backend and generator settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendKeychain, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if l := c.Generator.Length; l < generator.MinLength || l > generator.MaxLength {
		return fmt.Errorf("generator length %d outside %d-%d", l, generator.MinLength, generator.MaxLength)
	}
	if c.APIRate < 0 {
		return fmt.Errorf("api_rate must not be negative")
	}
	return nil
}

// StorePath returns the snapshot location for file and sqlite backends,
// expanding a leading "~/" and falling back to ~/.locksmith/vault.{json,db}.
func (c *Config) StorePath() (string, error) {
	if c.Path != "" {
		return expandHome(c.Path)
	}
	dir, err := Home()
	if err != nil {
		return "", err
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(dir, "vault.db"), nil
	}
	return filepath.Join(dir, "vault.json"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
