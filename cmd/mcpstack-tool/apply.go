// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcpstack/mcpstack-tool/internal/bootstrap"
	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/preview"
	"github.com/mcpstack/mcpstack-tool/internal/state"
)

// Apply-specific flag values.
var (
	applyNames nameFlags
	applyYes   bool
)

// applyCmd substitutes the placeholders in the template.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Replace placeholders in file contents and paths",
	Long: `Replace every placeholder in the template with the resolved names. Each
file is rewritten atomically and its original bytes are kept under .mcpstack/
so "mcpstack-tool reset" can undo the change.

A failure on one file does not stop the others. The exit code is 2 when some
entries failed and 3 when none could be applied.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyNames.register(applyCmd.Flags())
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "apply without asking for confirmation")
}

func runApply(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(rootDir)
	if err != nil {
		return err
	}
	set, cfg, err := resolveNames(root, &applyNames)
	if err != nil {
		return err
	}
	plan, err := buildPlan(root, set, cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if plan.Empty() {
		_, _ = fmt.Fprintln(w, "No placeholders found; nothing to apply.")
		return nil
	}

	_, _ = fmt.Fprintln(w, preview.Summarize(plan).String())
	if !applyYes {
		p := bootstrap.NewPrompter(cmd.InOrStdin(), w)
		if !p.Confirm("This will modify files. Continue?", false) {
			_, _ = fmt.Fprintln(w, "Aborted; nothing was changed.")
			return nil
		}
	}
	return commitPlan(cmd, root, set, plan)
}

// commitPlan writes plan to disk, records the apply state and reports the
// outcome. It is shared by apply and init.
func commitPlan(cmd *cobra.Command, root string, set names.Set, plan *engine.Plan) error {
	id := state.NewID()
	res := engine.Commit(plan, engine.CommitOptions{SnapshotDir: state.SnapshotDir(root, id)})
	slog.Info("apply finished", "applied", len(res.Applied), "failed", len(res.Failed))

	if len(res.Applied) > 0 {
		if err := state.Save(root, state.Build(root, id, set, res)); err != nil {
			return exitError(ExitTotalFailure, "mcpstack-tool: changes applied but state not recorded (%v)", err)
		}
		advance(root, state.PhaseApplied)
	}

	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	dim := color.New(color.Faint)

	for _, r := range res.Applied {
		detail := "rewritten"
		switch {
		case r.Renamed() && r.ContentChanged():
			detail = "renamed, rewritten"
		case r.Renamed():
			detail = "renamed"
		}
		_, _ = fmt.Fprintf(w, "%s%-40s %s\n", green.Sprint("  ~ "), r.NewPath, dim.Sprintf("(%s)", detail))
	}
	for _, r := range res.Failed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s%s: %v\n", red.Sprint("  ! "), r.OldPath, r.Err)
	}
	_, _ = fmt.Fprintln(w)

	switch {
	case len(res.Failed) == 0:
		_, _ = fmt.Fprintf(w, "Applied %d %s. Next: mcpstack-tool validate\n",
			len(res.Applied), plural(len(res.Applied), "entry", "entries"))
		return nil
	case len(res.Applied) == 0:
		return exitError(ExitTotalFailure, "mcpstack-tool: nothing could be applied (%d %s failed)",
			len(res.Failed), plural(len(res.Failed), "entry", "entries"))
	default:
		return exitError(ExitPartialFailure, "mcpstack-tool: %d of %d entries failed; run \"mcpstack-tool reset --hard\" to undo the rest",
			len(res.Failed), len(res.Failed)+len(res.Applied))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
