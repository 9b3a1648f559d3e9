package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/minifiber/internal/config"
	"github.com/vango-dev/minifiber/internal/demo"
	"github.com/vango-dev/minifiber/pkg/fiber"
	"github.com/vango-dev/minifiber/pkg/reconciler"
	"github.com/vango-dev/minifiber/pkg/sched"
	"github.com/vango-dev/minifiber/pkg/snapshot"
	"github.com/vango-dev/minifiber/pkg/vtest"
)

// mount renders the selected app into an in-memory host. With steps > 0
// the pass is driven in slices of that many units and the slice count is
// returned.
func (c *cli) mount(ctx context.Context, app demo.App, steps int) (*vtest.Harness, int, error) {
	lowWater, _ := c.cfg.LowWaterMark()
	h := vtest.New(
		reconciler.WithLogger(c.logger),
		reconciler.WithLowWaterMark(lowWater),
	)
	app.Bind(h.Root())

	if steps <= 0 {
		return h, 1, h.Mount(ctx, app.Element())
	}

	if err := h.Root().Render(app.Element()); err != nil {
		return nil, 0, err
	}
	rt := h.Runtime()
	slices := 0
	for rt.Pending() {
		slices++
		if err := rt.Work(ctx, sched.Steps(steps)); err != nil {
			return nil, slices, err
		}
	}
	return h, slices, nil
}

func renderCmd(c *cli) *cobra.Command {
	var (
		pretty bool
		key    string
		steps  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an app and print its HTML",
		Long: `Render the selected app into an in-memory host and print the
resulting HTML.

Examples:
  minifiber render
  minifiber render --app toggle --pretty
  minifiber render --steps 3
  minifiber render --snapshot initial`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := c.app()
			if err != nil {
				return err
			}
			h, slices, err := c.mount(ctx, app, steps)
			if err != nil {
				return err
			}

			html := h.HTML()
			if pretty {
				html = h.PrettyHTML()
			} else {
				html += "\n"
			}
			fmt.Fprint(cmd.OutOrStdout(), html)

			if steps > 0 {
				info(cmd.ErrOrStderr(), "committed after %d slices of %d units", slices, steps)
			}
			if key != "" {
				store, err := openSnapshots(c.cfg)
				if err != nil {
					return err
				}
				if err := store.Put(ctx, key, []byte(h.PrettyHTML())); err != nil {
					return err
				}
				success(cmd.ErrOrStderr(), "Saved snapshot %s", key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().StringVar(&key, "snapshot", "", "Store the pretty HTML under this snapshot key")
	cmd.Flags().IntVar(&steps, "steps", 0, "Process this many units per slice (0 renders in one go)")

	return cmd
}

func treeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the committed fiber tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app()
			if err != nil {
				return err
			}
			h, _, err := c.mount(cmd.Context(), app, 0)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), fiber.Dump(h.Runtime().Current()))
			return nil
		},
	}
}

// openSnapshots returns the configured snapshot store.
func openSnapshots(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "s3":
		client := snapshot.NewS3Client(snapshot.S3ClientConfig{
			Region:   cfg.Snapshot.Region,
			Endpoint: cfg.Snapshot.Endpoint,
		})
		return snapshot.NewS3Store(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), nil
	default:
		return snapshot.NewFileStore(cfg.Snapshot.Dir)
	}
}
