package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "checksums/internal/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "checksums.toml", "chunk_size = 65536\nmax_workers = 4\nblake3 = true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 65536 || cfg.MaxWorkers != 4 || !cfg.BLAKE3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Output != "text" || cfg.LogLevel != "warn" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadJSONC(t *testing.T) {
	path := writeFile(t, "checksums.jsonc", "{\n  // yaml for scripts\n  \"output\": \"yaml\",\n}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "yaml" {
		t.Fatalf("Output = %q", cfg.Output)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeFile(t, "checksums.toml", "threads = 3\n")
	if _, err := Load(path); !errors.Is(err, apperrors.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadReportsPosition(t *testing.T) {
	path := writeFile(t, "checksums.toml", "chunk_size = \n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected positioned parse error, got %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := map[string]func(*Config){
		"zero chunk":   func(c *Config) { c.ChunkSize = 0 },
		"huge chunk":   func(c *Config) { c.ChunkSize = 32 << 20 },
		"zero workers": func(c *Config) { c.MaxWorkers = 0 },
		"neg workers":  func(c *Config) { c.MaxWorkers = -5 },
		"bad output":   func(c *Config) { c.Output = "xml" },
		"bad level":    func(c *Config) { c.LogLevel = "trace" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, apperrors.ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.MaxWorkers = 8
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Load(writeFile(t, "out.toml", string(data)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != cfg {
		t.Fatalf("got %+v want %+v", got, cfg)
	}
}
