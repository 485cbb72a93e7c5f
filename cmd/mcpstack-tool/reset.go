// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcpstack/mcpstack-tool/internal/bootstrap"
	"github.com/mcpstack/mcpstack-tool/internal/state"
)

// Reset-specific flag values.
var (
	resetHard bool
	resetYes  bool
)

// resetCmd undoes the last apply.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the files changed by the last apply",
	Long: `Restore the original template files recorded by the last apply.

By default the originals are written to .mcpstack/restore/ and the template
is left alone. With --hard the template is restored in place: renamed files
move back, rewritten files get their original bytes, and the recorded state
is deleted.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetHard, "hard", false, "restore the template in place and drop the apply state")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask before a hard reset")
}

func runReset(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(rootDir)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	mode := state.ResetSoft
	if resetHard {
		mode = state.ResetHard
		if !resetYes {
			p := bootstrap.NewPrompter(cmd.InOrStdin(), w)
			if !p.Confirm("This will overwrite applied files with their originals. Continue?", false) {
				_, _ = fmt.Fprintln(w, "Aborted; nothing was changed.")
				return nil
			}
		}
	}

	res, err := state.Reset(root, mode)
	switch {
	case errors.Is(err, state.ErrNoPriorState):
		return exitError(ExitNoState, "mcpstack-tool: no recorded apply in %s (nothing to reset)", root)
	case errors.Is(err, state.ErrIncompatibleState):
		return exitError(ExitInvalidArgs, "mcpstack-tool: %v", err)
	case err != nil && res == nil:
		return exitError(ExitTotalFailure, "mcpstack-tool: reset failed (%v)", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	for _, p := range res.Restored {
		_, _ = fmt.Fprintf(w, "%s%s\n", green.Sprint("  + "), p)
	}
	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s%v\n", red.Sprint("  ! "), e)
	}
	_, _ = fmt.Fprintln(w)

	if err != nil {
		return exitError(ExitPartialFailure, "mcpstack-tool: files restored but state not cleared (%v)", err)
	}
	if len(res.Errors) > 0 {
		code := ExitPartialFailure
		if len(res.Restored) == 0 {
			code = ExitTotalFailure
		}
		return exitError(code, "mcpstack-tool: %s reset: %d %s could not be restored; apply state kept",
			res.Mode, len(res.Errors), plural(len(res.Errors), "entry", "entries"))
	}

	if mode == state.ResetHard {
		_, _ = fmt.Fprintf(w, "Restored %d %s in place; apply state removed.\n",
			len(res.Restored), plural(len(res.Restored), "entry", "entries"))
		return nil
	}
	rel, relErr := filepath.Rel(root, res.Target)
	if relErr != nil {
		rel = res.Target
	}
	_, _ = fmt.Fprintf(w, "Restored %d %s into %s; the template was not changed.\n",
		len(res.Restored), plural(len(res.Restored), "entry", "entries"), filepath.ToSlash(rel))
	_, _ = fmt.Fprintln(w, "Run with --hard to restore in place.")
	return nil
}
