package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/twofish/pkg/buildinfo"
	"github.com/matzehuels/twofish/pkg/cache"
	"github.com/matzehuels/twofish/pkg/config"
	"github.com/matzehuels/twofish/pkg/engine"
	tfio "github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/pipeline"
	"github.com/matzehuels/twofish/pkg/scene"
	"github.com/matzehuels/twofish/pkg/script"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "twofish"

	// scriptExt marks scene files written in the script format.
	scriptExt = ".tfs"

	// stdinPath reads the scene from standard input.
	stdinPath = "-"
)

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
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
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
func (c *CLI) RootCommand() *cobra.Command {
	versionTemplate := buildinfo.Template()
	root := &cobra.Command{
		Use:   appName,
		Short: "Twofish keeps diagram shapes aligned, stacked and grouped",
		Long: `Twofish is a layout-constraint engine for diagrams. Shapes are bound by
relations (align, distribute, stack, background, group) and every edit is
cascaded through the relations that depend on it.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(versionTemplate)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/twofish/config.toml)")

	// Register all subcommands
	root.AddCommand(c.relayoutCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.detachCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scriptCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		c.Config = cfg
	}

	level := c.Config.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("config loaded", "path", path, "cache", c.Config.Cache.Backend)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// Entries written by one build are not trusted by another.
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.Config.Cache.RedisAddr,
			DB:     c.Config.Cache.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Scene Files
// =============================================================================

// loadScene reads a scene from a JSON file, a script file, or stdin ("-").
func loadScene(cmd *cobra.Command, path string) (*scene.Scene, error) {
	switch {
	case path == stdinPath:
		return tfio.ReadJSON(cmd.InOrStdin())
	case strings.EqualFold(filepath.Ext(path), scriptExt):
		return script.ReadFile(path)
	}
	return tfio.ImportJSON(path)
}

// outputFlags controls where the result of an edit goes.
type outputFlags struct {
	output    string
	inPlace   bool
	positions bool
	noCache   bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the updated scene to this file")
	cmd.Flags().BoolVarP(&o.inPlace, "in-place", "i", false, "overwrite the input scene file")
	cmd.Flags().BoolVar(&o.positions, "positions", false, "print only the position writes")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// destination resolves the file the updated scene is written to, if any.
func (o *outputFlags) destination(src string) (string, error) {
	if !o.inPlace {
		return o.output, nil
	}
	if o.output != "" {
		return "", fmt.Errorf("--in-place and --output are mutually exclusive")
	}
	if src == stdinPath || strings.EqualFold(filepath.Ext(src), scriptExt) {
		return "", fmt.Errorf("--in-place needs a JSON scene file, got %q", src)
	}
	return src, nil
}

// finish writes the result of an edit. With a destination file the scene is
// saved and a summary printed; otherwise the result is written to stdout as
// JSON.
func (c *CLI) finish(cmd *cobra.Command, res engine.Result, src string, o *outputFlags) error {
	dest, err := o.destination(src)
	if err != nil {
		return err
	}
	if dest == "" {
		if o.positions {
			return tfio.WritePositions(res.Positions, cmd.OutOrStdout())
		}
		return tfio.WriteResult(res, cmd.OutOrStdout())
	}

	if err := tfio.ExportJSON(res.Scene, dest); err != nil {
		return err
	}
	printSuccess("Scene updated")
	printFile(dest)
	printWrites(res)
	return nil
}

// run loads the scene, applies fn through a fresh runner, and writes the
// result.
func (c *CLI) run(cmd *cobra.Command, src string, o *outputFlags, fn func(context.Context, *pipeline.Runner, *scene.Scene) (engine.Result, error)) error {
	ctx := cmd.Context()
	s, err := loadScene(cmd, src)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := fn(ctx, runner, s)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("%d writes", len(res.Positions)))
	return c.finish(cmd, res, src, o)
}
