// Package cli implements the qmkwire command-line interface.
//
// The root command draws a wiring diagram (the same as "draw"); the other
// commands list layouts, print the pin table, serve the HTTP API and manage
// the document cache. Every command shares one [CLI], which carries the
// logger and the loaded configuration.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qmkwire/pkg/buildinfo"
	"github.com/matzehuels/qmkwire/pkg/cache"
	"github.com/matzehuels/qmkwire/pkg/config"
	"github.com/matzehuels/qmkwire/pkg/integrations/qmk"
	"github.com/matzehuels/qmkwire/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// retryDelay is the first backoff delay for remote fetches.
const retryDelay = time.Second

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Without a subcommand it behaves like "draw".
func (c *CLI) RootCommand() *cobra.Command {
	flags := &drawFlags{}
	root := &cobra.Command{
		Use:   "qmkwire",
		Short: "qmkwire draws the switch matrix wiring of QMK keyboards",
		Long: `qmkwire reads a QMK keyboard.json, from a local file or the QMK firmware
repository, and draws which row and column pin every key is wired to.`,
		Example: `  qmkwire -f keyboard.json
  qmkwire -p crkbd/rev1 --layout LAYOUT_split_3x6_3
  qmkwire draw -p planck/rev6 --format svg -o planck.svg`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.registerHooks()
			return c.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd, flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/qmkwire/config.toml)")
	flags.register(root)

	root.AddCommand(c.drawCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.pinsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "branch", cfg.Remote.Branch)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The returned cache must be
// closed when the runner is no longer needed.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, cache.Cache, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(c.newClient(store), c.Logger), store, nil
}

func (c *CLI) newClient(store cache.Cache) *qmk.Client {
	remote := c.Config.Remote
	return qmk.NewClient(store,
		qmk.WithBaseURL(remote.BaseURL),
		qmk.WithBranch(remote.Branch),
		qmk.WithTimeout(remote.Timeout),
		qmk.WithCacheTTL(c.Config.Cache.TTL),
		qmk.WithRetry(remote.Retries, retryDelay),
	)
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(c.Config.Cache.RedisURL, c.Config.Cache.RedisPrefix)
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the configured cache directory, falling back to the XDG
// default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}
