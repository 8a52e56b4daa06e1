package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertDefaults(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendFile)
	}
	if cfg.Generator.Length != 16 || !cfg.Generator.Numbers || cfg.Generator.Symbols {
		t.Errorf("Generator = %+v, want length 16 with numbers", cfg.Generator)
	}
	if cfg.APIAddr != "" {
		t.Errorf("APIAddr = %q, want empty", cfg.APIAddr)
	}
}

func TestLoadValidConfig(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `backend: sqlite
path: /tmp/locksmith/vault.db
api_addr: 127.0.0.1:9191
api_rate: 5
generator:
  length: 24
  numbers: false
  symbols: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
	}
	if cfg.Path != "/tmp/locksmith/vault.db" {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.APIAddr != "127.0.0.1:9191" {
		t.Errorf("APIAddr = %q, want %q", cfg.APIAddr, "127.0.0.1:9191")
	}
	if cfg.APIRate != 5 {
		t.Errorf("APIRate = %v, want 5", cfg.APIRate)
	}
	want := Generator{Length: 24, Numbers: false, Symbols: true}
	if cfg.Generator != want {
		t.Errorf("Generator = %+v, want %+v", cfg.Generator, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	assertDefaults(t, cfg)
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDefaults(t, cfg)
}

func TestLoadCommentsOnly(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, "# backend: keychain\n# api_addr: 127.0.0.1:9090\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDefaults(t, cfg)
}

func TestLoadPartialGeneratorKeepsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, "generator:\n  symbols: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Generator{Length: 16, Numbers: true, Symbols: true}
	if cfg.Generator != want {
		t.Errorf("Generator = %+v, want %+v", cfg.Generator, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"unknown backend":  "backend: cloud\n",
		"length too long":  "generator:\n  length: 65\n",
		"length too short": "generator:\n  length: 4\n",
		"negative rate":    "api_rate: -1\n",
		"malformed yaml":   "backend: [file\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Errorf("expected error for %q", content)
			}
		})
	}
}

func TestStorePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{Backend: BackendFile, Path: "/data/v.json"}, "/data/v.json"},
		{"tilde", Config{Backend: BackendFile, Path: "~/vaults/v.json"}, filepath.Join(home, "vaults", "v.json")},
		{"file default", Config{Backend: BackendFile}, filepath.Join(home, ".locksmith", "vault.json")},
		{"sqlite default", Config{Backend: BackendSQLite}, filepath.Join(home, ".locksmith", "vault.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.StorePath()
			if err != nil {
				t.Fatalf("StorePath: %v", err)
			}
			if got != tt.want {
				t.Errorf("StorePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	if p := DefaultPath(); p != "" && !strings.HasSuffix(p, filepath.Join(".locksmith", "config.yaml")) {
		t.Errorf("DefaultPath() = %q", p)
	}
}
