// Package cli implements the vmslayers command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vmslayers/pkg/broker"
	"github.com/matzehuels/vmslayers/pkg/buildinfo"
	"github.com/matzehuels/vmslayers/pkg/cache"
	"github.com/matzehuels/vmslayers/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "vmslayers"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output. Logs go to the logger's writer.
	Out io.Writer

	verbose    bool
	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "vmslayers resolves which VMS layers publishers can offer",
		Long: `vmslayers computes layer availability from publisher offerings.

A layer is available when at least one of its declarations has every required
layer available. Offerings are read from TOML or JSON files.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/vmslayers/config.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file, applies the log level and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configPath, os.Getenv)
	if err != nil {
		return err
	}
	c.config = cfg

	level, err := cfg.logLevel()
	if err != nil {
		return err
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	if path := cfg.source; path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// A file cache whose directory cannot be determined degrades to no caching.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.openCache(noCache)
	if err != nil {
		return nil, err
	}
	ttl, err := c.config.cacheTTL()
	if err != nil {
		store.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(store, keyer, loggerFromContext(ctx))
	runner.TTL = ttl
	return runner, nil
}

func (c *CLI) openCache(noCache bool) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if noCache {
		return cache.NewNullCache(), keyer, nil
	}

	cfg := c.config.Cache
	switch cfg.Backend {
	case cache.BackendFile:
		dir, err := c.fileCacheDir()
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), keyer, nil
		}
		cfg.Dir = dir
	case cache.BackendRedis:
		keyer = cache.NewScopedKeyer(keyer, cfg.Prefix)
	}

	store, err := cache.Open(cfg.Backend, cfg.Dir, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("opened cache", "backend", cfg.Backend)
	return store, keyer, nil
}

// newBroker creates a broker that resolves through runner.
func newBroker(ctx context.Context, runner *pipeline.Runner) *broker.Broker {
	return broker.New(broker.Options{Runner: runner, Logger: loggerFromContext(ctx)})
}
