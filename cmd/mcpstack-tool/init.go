// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mcpstack/mcpstack-tool/internal/bootstrap"
	"github.com/mcpstack/mcpstack-tool/internal/config"
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/preview"
	"github.com/mcpstack/mcpstack-tool/internal/state"
)

// Init-specific flag values.
var (
	initNames          nameFlags
	initNonInteractive bool
	initScaffold       bool
	initForce          bool
	initYes            bool
)

// stdinIsTerminal reports whether r is an interactive terminal. Tests
// replace it to drive the wizard from a buffer.
var stdinIsTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// initCmd walks a new tool author through naming and applying the template.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Name your tool and bootstrap it from the template",
	Long: `Initialize a new MCPStack tool. When the root has no pyproject.toml (or
--scaffold is given) the built-in template is written first. On a terminal
a short wizard asks for the tool names, suggesting defaults from the git
remote or the directory name. The names are saved to .mcpstack-tool.yaml,
a preview is shown, and the changes are applied once confirmed.

Existing template files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initNames.register(initCmd.Flags())
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "do not prompt; take names from flags and the saved config")
	initCmd.Flags().BoolVar(&initScaffold, "scaffold", false, "write the built-in template even if pyproject.toml exists")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files when scaffolding")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "apply without asking for confirmation")
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(rootDir)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)

	if initScaffold || bootstrap.NeedsScaffold(root) {
		slog.Info("writing template", "path", root)
		actions, err := bootstrap.Scaffold(root, initForce)
		if err != nil {
			return exitError(ExitTotalFailure, "mcpstack-tool: scaffold failed (%v)", err)
		}
		printActions(w, actions)
	}

	cfg, err := loadConfig(root, initNames.noConfig)
	if err != nil {
		return err
	}
	cli := initNames.set()
	if cli.Slug == "" && cfg.Names.Slug == "" {
		cli.Slug = bootstrap.SuggestSlug(root)
	}
	defaults := config.Merge(cfg, cli)

	prompter := bootstrap.NewPrompter(cmd.InOrStdin(), w)
	interactive := !initNonInteractive && stdinIsTerminal(cmd.InOrStdin())

	var set names.Set
	if interactive {
		set, err = prompter.Wizard(defaults)
		if err != nil {
			return exitError(ExitInvalidArgs, "mcpstack-tool: %s", describeNamesError(err))
		}
	} else {
		set = defaults
		if set.ClassName == "" {
			set.ClassName = names.DefaultClassName(set.Slug)
		}
		if set.Slug == "" {
			return exitError(ExitInvalidArgs, "mcpstack-tool: no tool slug (pass --tool-slug)")
		}
		if err := set.Validate(); err != nil {
			return exitError(ExitInvalidArgs, "mcpstack-tool: %s", describeNamesError(err))
		}
	}

	if err := saveNames(root, set); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Saved names to %s\n\n", config.FileName)

	plan, err := buildPlan(root, set, cfg)
	if err != nil {
		return err
	}
	if err := preview.Render(w, plan, preview.Options{Color: !color.NoColor}); err != nil {
		return exitError(ExitInvalidArgs, "mcpstack-tool: render preview (%v)", err)
	}
	_, _ = fmt.Fprintln(w)
	if plan.Empty() {
		return nil
	}
	advance(root, state.PhasePreviewed)

	apply := initYes
	if !apply && interactive {
		apply = prompter.Confirm("Apply changes now?", false)
	}
	if !apply {
		_, _ = bold.Fprintln(w, "Next steps:")
		_, _ = fmt.Fprintln(w, "  1. Review the preview above")
		_, _ = fmt.Fprintln(w, "  2. Run: mcpstack-tool apply")
		_, _ = fmt.Fprintln(w, "  3. Run: mcpstack-tool validate")
		return nil
	}
	return commitPlan(cmd, root, set, plan)
}

// saveNames writes set to the template config, keeping the template's own
// exclude patterns.
func saveNames(root string, set names.Set) error {
	local, err := config.Load(root)
	if err != nil {
		local = &config.Config{}
	}
	local.Names = set
	if err := config.Save(root, local); err != nil {
		return exitError(ExitTotalFailure, "mcpstack-tool: cannot save %s (%v)", config.FileName, err)
	}
	return nil
}

func printActions(w io.Writer, actions []bootstrap.Action) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	for _, a := range actions {
		var prefix string
		switch a.Operation {
		case "created":
			prefix = green.Sprint("  + ")
		case "overwritten":
			prefix = yellow.Sprint("  ~ ")
		default:
			prefix = dim.Sprint("  - ")
		}
		_, _ = fmt.Fprintf(w, "%s%-36s %s\n", prefix, a.File, dim.Sprintf("(%s)", a.Description))
	}
	_, _ = fmt.Fprintln(w)
}
