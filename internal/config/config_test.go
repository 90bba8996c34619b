package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"humspine/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "humspine", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".cache", "humspine", "analysis.db"); cfg.Cache.Path != want {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Cache.Path, want)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled by default")
	}
	if !cfg.Analysis.Rhythm {
		t.Fatal("expected rhythm analysis by default")
	}
	if cfg.Analysis.RecipScale != 4 || cfg.Analysis.FallbackEncoding != "latin1" {
		t.Fatalf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[logging]
format = "JSON"
level = "Warning"

[analysis]
rhythm = false
recip_scale = 16
fallback_encoding = "cp1252"

[cache]
enabled = true
path = "~/scores/cache.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "warn" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.Analysis.Rhythm {
		t.Fatalf("expected rhythm disabled: %+v", cfg.Analysis)
	}
	if cfg.Analysis.RecipScale != 16 || cfg.Analysis.FallbackEncoding != "windows1252" {
		t.Fatalf("unexpected analysis settings: %+v", cfg.Analysis)
	}
	if want := filepath.Join(tempHome, "scores", "cache.db"); cfg.Cache.Path != want {
		t.Fatalf("cache path = %q, want %q", cfg.Cache.Path, want)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"scale", "[analysis]\nrecip_scale = -1\n", "analysis.recip_scale"},
		{"encoding", "[analysis]\nfallback_encoding = \"ebcdic\"\n", "analysis.fallback_encoding"},
		{"unknown key", "[analysis]\ntempo = 120\n", "tempo"},
		{"strict toggle", "[analysis]\nstrict = false\n", "strict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("Load(sample) = %v, exists=%v", err, exists)
	}
	if cfg.Analysis.RecipScale != 4 {
		t.Fatalf("sample recip_scale = %d, want 4", cfg.Analysis.RecipScale)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(base, "cache", "analysis.db")
	cfg.Logging.File = filepath.Join(base, "logs", "humspine.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"cache", "logs"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s", dir)
		}
	}
}

func TestEncodeIncludesSections(t *testing.T) {
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, section := range []string{"[logging]", "[analysis]", "[cache]"} {
		if !strings.Contains(string(out), section) {
			t.Fatalf("encoded config missing %s:\n%s", section, out)
		}
	}
}
