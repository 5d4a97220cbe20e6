// Package main is the entry point for the multisplice command.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/multisplice/internal/app"
	"github.com/dshills/multisplice/internal/config"
	"github.com/dshills/multisplice/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "multisplice",
		Short: "Apply many edits to a text using offsets into the original",
		Long: `multisplice applies edit scripts to a text file. Every offset in a
script refers to the original text, so edits never have to account for
each other.

Scripts are TOML, YAML or JSON lists of edits, or Lua programs calling
splice, insert and remove.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/multisplice/config.toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newApplyCmd(&flags),
		newDeriveCmd(&flags),
		newVersionCmd(),
	)
	return root
}

// newApp loads configuration and builds the application for a command.
func newApp(cmd *cobra.Command, flags *globalFlags) (*app.Application, *config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		if _, err := logging.ParseLevel(flags.logLevel); err != nil {
			return nil, nil, err
		}
		cfg.Log.Level = flags.logLevel
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: cmd.ErrOrStderr(),
		Prefix: "multisplice",
	})

	return app.New(app.Options{
		Config: cfg,
		Logger: logger,
		Stdout: cmd.OutOrStdout(),
	}), cfg, nil
}
