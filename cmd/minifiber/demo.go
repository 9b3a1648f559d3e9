package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/minifiber/pkg/snapshot"
)

func demoCmd(c *cli) *cobra.Command {
	var (
		clicks int
		diff   bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Click through an app and print each commit",
		Long: `Mount the selected app, then click its buttons in turn. After
every click the new HTML is printed, or with --diff the line diff
against the previous commit.

Examples:
  minifiber demo --clicks 3
  minifiber demo --app toggle --clicks 2 --diff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := c.app()
			if err != nil {
				return err
			}
			h, _, err := c.mount(ctx, app, 0)
			if err != nil {
				return err
			}
			buttons := app.Buttons()
			if clicks > 0 && len(buttons) == 0 {
				return fmt.Errorf("app %q has no buttons to click", app.Name())
			}

			out := cmd.OutOrStdout()
			prev := h.PrettyHTML()
			fmt.Fprint(out, prev)

			for i := 0; i < clicks; i++ {
				id := buttons[i%len(buttons)]
				if err := h.Click(ctx, id); err != nil {
					return err
				}
				cur := h.PrettyHTML()
				fmt.Fprintf(out, "%s\n", color.CyanString("# click %d: %s", i+1, id))
				if diff {
					printDiff(out, snapshot.Diff(prev, cur))
				} else {
					fmt.Fprint(out, cur)
				}
				prev = cur
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&clicks, "clicks", "n", 1, "Number of clicks")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false, "Print diffs instead of full HTML")

	return cmd
}

// printDiff colors added and removed lines.
func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+ "):
			fmt.Fprint(w, color.GreenString("%s", line))
		case strings.HasPrefix(line, "- "):
			fmt.Fprint(w, color.RedString("%s", line))
		default:
			fmt.Fprint(w, line)
		}
	}
}
