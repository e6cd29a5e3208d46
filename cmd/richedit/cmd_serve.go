package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	var wsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON bridge",
		Long: `Serve newline-delimited JSON requests on stdin and write replies and
events to stdout. With --ws (or bridge.listen in the config) the bridge is
served over WebSocket instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			overrides := map[string]any{}
			if wsAddr != "" {
				overrides["bridge.listen"] = wsAddr
			}
			a, err := newApp(ctx, "", overrides)
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&wsAddr, "ws", "", "serve over WebSocket on this address, e.g. 127.0.0.1:8787")
	return cmd
}
