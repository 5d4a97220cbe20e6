package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/multisplice/internal/app"
	"github.com/dshills/multisplice/internal/script"
	"github.com/dshills/multisplice/internal/units"
)

func newApplyCmd(flags *globalFlags) *cobra.Command {
	var (
		unitName string
		output   string
		diff     bool
		color    bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "apply SOURCE SCRIPT",
		Short: "Apply an edit script to a file",
		Long: `Apply loads SOURCE, applies every edit in SCRIPT and writes the result
to stdout or --output. The script format is chosen by its extension:
.toml, .yaml, .yml, .json or .lua.`,
		Example: `  multisplice apply notes.txt edits.yaml
  multisplice apply --units graphemes -o out.txt notes.txt edits.lua
  multisplice apply --diff --color notes.txt edits.toml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cfg, err := newApp(cmd, flags)
			if err != nil {
				return err
			}

			req := app.ApplyRequest{
				Source: args[0],
				Script: args[1],
				Output: output,
				Diff:   diff,
				Color:  cfg.Diff.Color,
			}
			if cmd.Flags().Changed("color") {
				req.Color = color
			}
			if unitName != "" {
				u, err := units.ParseUnit(unitName)
				if err != nil {
					return err
				}
				req.Units = u
			}

			if watch {
				return application.Watch(cmd.Context(), req)
			}
			return application.Apply(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVarP(&unitName, "units", "u", "", "offset units: bytes, runes or graphemes (default from script or config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false, "print a unified diff instead of the result")
	cmd.Flags().BoolVar(&color, "color", false, "color the diff")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reapply whenever SOURCE or SCRIPT changes")
	return cmd
}

func newDeriveCmd(flags *globalFlags) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "derive OLD NEW",
		Short: "Print an edit script that turns OLD into NEW",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := script.ParseFormat(formatName)
			if err != nil {
				return err
			}
			application, _, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			return application.Derive(args[0], args[1], f)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "yaml", "script format: toml, yaml or json")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "multisplice %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
