package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/minifiber/internal/config"
	"github.com/vango-dev/minifiber/internal/demo"
	"github.com/vango-dev/minifiber/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds state shared by all commands.
type cli struct {
	configPath string
	appName    string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "minifiber",
		Short: "An incremental tree reconciler",
		Long: `minifiber renders element trees into host trees through an
interruptible fiber pass and commits the result in one step.

The commands drive the bundled demo applications against an in-memory
host, a remote host streamed over WebSocket, or both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.noColor {
				color.NoColor = true
			}
			return c.load(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default: minifiber.json or minifiber.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVarP(&c.appName, "app", "a", "counters", "Demo application to run")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		renderCmd(c),
		treeCmd(c),
		demoCmd(c),
		serveCmd(c),
		appsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and builds the logger.
func (c *cli) load(logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.LoadOrNew(".")
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = cfg.NewLogger(logOut)
	return nil
}

// app creates the selected demo application.
func (c *cli) app() (demo.App, error) {
	app, ok := demo.Lookup(c.appName)
	if !ok {
		return nil, fmt.Errorf("unknown app %q (available: %v)", c.appName, demo.Names())
	}
	return app, nil
}

// printError prints coded errors with their full report.
func printError(w io.Writer, err error) {
	var e *errors.Error
	if errors.As(err, &e) {
		fmt.Fprintln(w, e.Format())
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
