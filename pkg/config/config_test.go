package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[remote]
branch = "develop"
timeout = "30s"

[cache]
backend = "redis"
ttl = "1h"
redis_url = "redis://cache:6379/2"

[render]
translator = "raw"
format = "dot"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Remote.Branch = "develop"
	want.Remote.Timeout = 30 * time.Second
	want.Cache.Backend = BackendRedis
	want.Cache.TTL = time.Hour
	want.Cache.RedisURL = "redis://cache:6379/2"
	want.Render.Translator = "raw"
	want.Render.Format = pipeline.FormatDOT

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "qmkwire"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "qmkwire", "config.toml"), []byte("[server]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[remote\n", errors.ErrCodeParse},
		{"unknown key", "[remote]\nmirror = \"x\"\n", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"bad translator", "[render]\ntranslator = \"stm32\"\n", errors.ErrCodeInvalidInput},
		{"bad format", "[render]\nformat = \"gif\"\n", errors.ErrCodeInvalidInput},
		{"bad url", "[remote]\nbase_url = \"ftp://x\"\n", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "qmkwire") {
		t.Errorf("DefaultCacheDir() = %s", dir)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
remote:
  branch: develop
  timeout: 5s
cache:
  backend: none
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Remote.Branch = "develop"
	want.Remote.Timeout = 5 * time.Second
	want.Cache.Backend = BackendNone
	want.Server.Addr = ":9090"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	bad := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(bad, []byte("server:\n  port: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("Load(unknown yaml key) error = %v, want %s", err, errors.ErrCodeParse)
	}
}
