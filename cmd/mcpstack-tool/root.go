// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mcplog "github.com/mcpstack/mcpstack-tool/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
	rootDir string
)

// rootCmd is the base command for mcpstack-tool.
var rootCmd = &cobra.Command{
	Use:   "mcpstack-tool",
	Short: "Turn the MCPStack tool template into your own tool package",
	Long: `mcpstack-tool bootstraps a new MCPStack tool from the tool template. It
replaces the template placeholders (tool slug, class name, env-var prefix,
package and distribution names) in file contents and paths, shows a diff
before anything is written, records what it changed so the change can be
reset, and checks the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
		mcplog.Setup(cmd.ErrOrStderr(), verbose, quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", ".", "template root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
