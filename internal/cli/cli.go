// Package cli implements the qcviz command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/qcviz/qcviz/pkg/buildinfo"
	"github.com/qcviz/qcviz/pkg/cache"
	"github.com/qcviz/qcviz/pkg/pipeline"
	"github.com/qcviz/qcviz/pkg/render"
)

// appName is the application name used for directories and display.
const appName = "qcviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "qcviz",
		Short:        "qcviz schedules and draws quantum circuits",
		Long:         `qcviz is a CLI tool for visualizing quantum circuits: it parses OpenQASM, packs gates into parallel execution levels, and renders the circuit as SVG, terminal art, or a dependency graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// cacheFlags are the backend selection flags shared by render and serve.
type cacheFlags struct {
	noCache   bool
	redisAddr string
	mongoURI  string
	mongoDB   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "use Redis cache at host:port")
	cmd.Flags().StringVar(&f.mongoURI, "mongo", "", "use MongoDB cache at the given URI")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", appName, "MongoDB database name for the cache")
}

// newRunner creates a pipeline runner with the selected cache backend.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	store, err := newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redisAddr != "":
		return cache.NewRedisCache(ctx, flags.redisAddr)
	case flags.mongoURI != "":
		return cache.NewMongoCache(ctx, flags.mongoURI, flags.mongoDB)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/qcviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// readSource reads QASM source from a file, or from stdin when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadTheme reads an optional TOML theme/geometry file and returns the
// pipeline options derived from it. An empty path yields defaults.
func loadTheme(path string) (*render.Theme, *render.Config, string, error) {
	if path == "" {
		return nil, nil, "", nil
	}
	cfg, err := render.LoadConfig(path)
	if err != nil {
		return nil, nil, "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", err
	}
	return &cfg.Theme, &cfg, cache.Hash(raw), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or wraps stdout when path is "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
