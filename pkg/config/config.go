// Package config loads qmkwire settings from a TOML or YAML file.
//
// The file lives at $XDG_CONFIG_HOME/qmkwire/config.toml (falling back to
// ~/.config/qmkwire/config.toml) unless a path is given explicitly. Every
// setting has a default, so the file is optional:
//
//	[remote]
//	base_url = "https://raw.githubusercontent.com/qmk/qmk_firmware"
//	branch   = "master"
//	timeout  = "10s"
//	retries  = 3
//
//	[cache]
//	backend   = "file"          # file, redis or none
//	dir       = ""              # default: $XDG_CACHE_HOME/qmkwire
//	ttl       = "24h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
//	[render]
//	translator = "promicro"     # promicro or raw
//	format     = "text"         # text, json, dot, svg, pdf or png
//
// Files ending in .yaml or .yml are read as YAML with the same keys.
// Command-line flags override file values.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/integrations/qmk"
	"github.com/matzehuels/qmkwire/pkg/pipeline"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

const appName = "qmkwire"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all settings.
type Config struct {
	Remote Remote `toml:"remote" yaml:"remote"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Server Server `toml:"server" yaml:"server"`
	Render Render `toml:"render" yaml:"render"`
}

// Remote configures fetching from the QMK repository.
type Remote struct {
	BaseURL string        `toml:"base_url" yaml:"base_url"`
	Branch  string        `toml:"branch" yaml:"branch"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
	Retries int           `toml:"retries" yaml:"retries"`
}

// Cache configures where fetched documents are kept.
type Cache struct {
	Backend     string        `toml:"backend" yaml:"backend"`
	Dir         string        `toml:"dir" yaml:"dir"`
	TTL         time.Duration `toml:"ttl" yaml:"ttl"`
	RedisURL    string        `toml:"redis_url" yaml:"redis_url"`
	RedisPrefix string        `toml:"redis_prefix" yaml:"redis_prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Render configures diagram output.
type Render struct {
	Translator string `toml:"translator" yaml:"translator"`
	Format     string `toml:"format" yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Remote: Remote{
			BaseURL: qmk.DefaultBaseURL,
			Branch:  qmk.DefaultBranch,
			Timeout: 10 * time.Second,
			Retries: 3,
		},
		Cache: Cache{
			Backend:     BackendFile,
			TTL:         qmk.DefaultTTL,
			RedisURL:    "redis://localhost:6379/0",
			RedisPrefix: appName + ":",
		},
		Server: Server{Addr: ":8080"},
		Render: Render{
			Translator: wiring.TranslatorProMicro,
			Format:     pipeline.FormatText,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG convention
// (~/.cache/qmkwire/).
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path on top of [Default].
// An empty path means [DefaultPath], which may be absent; an explicit path
// must exist. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "config %s", path)
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(path, &cfg)
	default:
		err = decodeTOML(path, &cfg)
	}
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func decodeTOML(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// decodeYAML reports unknown keys as PARSE_FAILED.
func decodeYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "config %s", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeParse, err, "config %s", path)
	}
	return nil
}

// Validate checks enumerated settings and URLs.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Remote.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "remote.base_url")
	}
	if c.Remote.Branch == "" {
		return errors.New(errors.ErrCodeInvalidInput, "remote.branch cannot be empty")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q (want %s, %s or %s)", c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}
	if _, err := wiring.TranslatorByName(c.Render.Translator); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "render.translator")
	}
	return pipeline.ValidateFormat(c.Render.Format)
}
