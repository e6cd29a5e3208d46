package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newRunCmd creates the run subcommand.
func newRunCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "run script.lua",
		Short: "Run a Lua script against a document",
		Long: `Load a document, run a Lua script that drives it through
editor.command, and write the resulting HTML to --out or stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			content := ""
			if inPath != "" {
				data, err := os.ReadFile(inPath)
				if err != nil {
					return fmt.Errorf("read document: %w", err)
				}
				content = string(data)
			}

			a, err := newApp(ctx, content, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.RunScript(ctx, args[0]); err != nil {
				return fmt.Errorf("script %s: %w", args[0], err)
			}

			html := a.HTML()
			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
				return err
			}
			if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "HTML document to load")
	cmd.Flags().StringVar(&outPath, "out", "", "write the resulting HTML here instead of stdout")
	return cmd
}
