// Command richedit runs the rich-text editing engine behind a host bridge.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/richedit/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global flags
var (
	configPath string
	debug      bool
	logFile    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "richedit",
		Short: "WYSIWYG document editing engine",
		Long: `richedit holds an HTML document with embedded tables, text boxes and
images, and edits it on behalf of a host view.

  richedit serve [--ws addr]                 Serve the JSON bridge (stdio by default)
  richedit run script.lua [--in f] [--out f] Run a Lua script against a document`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/richedit/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file")

	rootCmd.AddCommand(
		newServeCmd(),
		newRunCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// newApp builds the application from the global flags plus per-command
// overrides.
func newApp(ctx context.Context, content string, overrides map[string]any) (*app.Application, error) {
	if overrides == nil {
		overrides = make(map[string]any)
	}
	if debug {
		overrides["log.level"] = "debug"
	}
	if logFile != "" {
		overrides["log.file"] = logFile
	}
	a, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		Content:    content,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "richedit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
