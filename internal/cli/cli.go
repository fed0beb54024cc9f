// Package cli implements the ssaview command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ssaview/pkg/buildinfo"
	"github.com/matzehuels/ssaview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ssaview"

	// configFile is the name of the optional per-user run configuration.
	configFile = "config.toml"
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
		Use:   "ssaview",
		Short: "ssaview lays out high-dimensional data in the plane",
		Long: `ssaview is a CLI tool for exploratory analysis of high-dimensional data.
It places every item of a vector file in a low-dimensional space so that
layout distances follow the rank order of the original distances, in the
style of Smallest Space Analysis, and reports the fit as Kruskal stress.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.neighboursCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the configuration directory using XDG standard
// (~/.config/ssaview/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// userConfigPath returns the per-user config file if it exists.
func userConfigPath() (string, bool) {
	dir, err := configDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
