package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/minifiber/internal/devserver"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		addr      string
		snapshots bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an app over HTTP and WebSocket",
		Long: `Start the dev server. The app renders into a remote host whose
patch frames are streamed to WebSocket clients at /ws.

Examples:
  minifiber serve
  minifiber serve --addr :8080 --app toggle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			app, err := c.app()
			if err != nil {
				return err
			}

			opts := devserver.Options{
				Config: c.cfg,
				App:    app,
				Logger: c.logger,
			}
			if snapshots {
				store, err := openSnapshots(c.cfg)
				if err != nil {
					return err
				}
				opts.Snapshots = store
			}
			srv, err := devserver.New(opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.ErrOrStderr(), "Serving %s on http://%s", app.Name(), c.cfg.Server.Addr)
			err = srv.ListenAndServe(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&snapshots, "snapshots", true, "Enable the snapshot routes")

	return cmd
}
