// Package cli implements the netgrid command-line interface.
//
// # Commands
//
// The main commands are:
//   - compile: Lay out a Yosys JSON netlist and write grid artifacts
//   - stages: Draw the stage graph of a netlist as DOT or SVG
//   - view: Browse a compiled layout in the terminal
//   - serve: Run the HTTP compile server
//   - cache: Manage the artifact cache
//   - completion: Shell completion scripts (cobra's built-in command)
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/netgrid/config.toml or the file
// named by --config. Flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netgrid/pkg/buildinfo"
	"github.com/matzehuels/netgrid/pkg/cache"
	"github.com/matzehuels/netgrid/pkg/config"
	"github.com/matzehuels/netgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "netgrid"

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
	Logger     *log.Logger
	ConfigPath string
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
		Use:          appName,
		Short:        "netgrid compiles gate-level netlists into grid layouts",
		Long:         `netgrid places and routes a Yosys gate-level netlist onto a two-dimensional grid of wires and gates, and exports it as text or as a Minetest schematic.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/netgrid/config.toml)")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.stagesCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.ConfigPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := openCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// openCache opens the configured backend, defaulting to the file cache in
// the user cache directory.
func openCache(ctx context.Context, cc cache.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if (cc.Backend == "" || cc.Backend == cache.BackendFile) && cc.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cc.Dir = dir
	}
	return cache.Open(ctx, cc)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/netgrid/).
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

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string leaves the choice to the config file.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path. A known format extension on output
// is stripped so that every format gets its own extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	input     string
	output    string
	stdout    io.Writer
}

// writeArtifacts writes each artifact to <base>.<format>. A single text
// artifact with output "-" goes to stdout instead. It returns the written
// paths in format order.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if p.output == "-" {
		if len(p.artifacts) != 1 {
			return nil, fmt.Errorf("output - needs exactly one format, got %d", len(p.artifacts))
		}
		for _, data := range p.artifacts {
			_, err := p.stdout.Write(data)
			return nil, err
		}
	}

	formats := make([]string, 0, len(p.artifacts))
	for f := range p.artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	base := basePath(p.output, p.input)
	var paths []string
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, p.artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
