// Package preview renders a substitution plan as a human-readable report:
// the placeholder mapping, path renames, a unified diff per rewritten file,
// and any binary files or collisions.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
)

// Options control rendering.
type Options struct {
	Color   bool // colorize diff lines
	NoDiff  bool // omit per-file diffs, keep the rename summary
	Context int  // lines of diff context; 0 means 3
}

// Summary counts what a plan would do.
type Summary struct {
	Files      int // records without errors
	Renames    int
	Rewrites   int
	Binary     int
	Collisions int
}

// Summarize counts the records in plan.
func Summarize(plan *engine.Plan) Summary {
	s := Summary{Binary: len(plan.Binary), Collisions: len(plan.Collisions())}
	for _, r := range plan.Records {
		if r.Err != nil {
			continue
		}
		s.Files++
		if r.Renamed() {
			s.Renames++
		}
		if r.ContentChanged() {
			s.Rewrites++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d %s to change (%d renamed, %d rewritten), %d binary skipped, %d %s",
		s.Files, plural(s.Files, "entry", "entries"), s.Renames, s.Rewrites,
		s.Binary, s.Collisions, plural(s.Collisions, "collision", "collisions"))
}

type palette struct {
	bold, add, del, hunk, warn *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		bold: color.New(color.Bold),
		add:  color.New(color.FgGreen),
		del:  color.New(color.FgRed),
		hunk: color.New(color.FgCyan),
		warn: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.bold, p.add, p.del, p.hunk, p.warn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render writes the preview of plan to w. Rendering reads nothing from disk,
// so the same plan always renders to the same bytes.
func Render(w io.Writer, plan *engine.Plan, opts Options) error {
	pal := newPalette(opts.Color)
	ctx := opts.Context
	if ctx <= 0 {
		ctx = 3
	}

	_, _ = pal.bold.Fprintln(w, "Placeholders")
	for _, p := range plan.Set.Pairs() {
		_, _ = fmt.Fprintf(w, "  %-18s -> %s\n", p.Token, p.Value)
	}
	_, _ = fmt.Fprintln(w)

	if plan.Empty() {
		_, _ = fmt.Fprintln(w, "No placeholders found; nothing to change.")
		return nil
	}

	renderRenames(w, plan, pal)

	if !opts.NoDiff {
		for _, r := range plan.Records {
			if r.Err != nil || !r.ContentChanged() {
				continue
			}
			if err := renderDiff(w, r, ctx, pal); err != nil {
				return fmt.Errorf("diff %s: %w", r.OldPath, err)
			}
		}
	}

	if len(plan.Binary) > 0 {
		_, _ = pal.bold.Fprintln(w, "Binary files (content left unchanged)")
		for _, b := range plan.Binary {
			_, _ = fmt.Fprintf(w, "  %s\n", b)
		}
		_, _ = fmt.Fprintln(w)
	}

	if cs := plan.Collisions(); len(cs) > 0 {
		_, _ = pal.warn.Fprintln(w, "Path collisions (these entries will not be changed)")
		for _, c := range cs {
			_, _ = pal.warn.Fprintf(w, "  ! %s <- %s\n", c.Path, strings.Join(c.Sources, ", "))
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = pal.bold.Fprintln(w, Summarize(plan).String())
	return nil
}

func renderRenames(w io.Writer, plan *engine.Plan, pal palette) {
	var lines []string
	for i := len(plan.Dirs) - 1; i >= 0; i-- {
		d := plan.Dirs[i]
		lines = append(lines, fmt.Sprintf("  %s/ -> %s/", d.OldPath, d.NewPath))
	}
	for _, r := range plan.Records {
		if r.Dir || !r.Renamed() || r.Err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s -> %s", r.OldPath, r.NewPath))
	}
	if len(lines) == 0 {
		return
	}
	_, _ = pal.bold.Fprintln(w, "Renames")
	for _, l := range lines {
		_, _ = fmt.Fprintln(w, l)
	}
	_, _ = fmt.Fprintln(w)
}

func renderDiff(w io.Writer, r engine.ChangeRecord, ctx int, pal palette) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(r.OldContent)),
		B:        difflib.SplitLines(string(r.NewContent)),
		FromFile: "a/" + r.OldPath,
		ToFile:   "b/" + r.NewPath,
		Context:  ctx,
	})
	if err != nil {
		return err
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			_, _ = pal.bold.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			_, _ = pal.hunk.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			_, _ = pal.add.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			_, _ = pal.del.Fprint(w, line)
		default:
			_, _ = fmt.Fprint(w, line)
		}
	}
	if !strings.HasSuffix(text, "\n") {
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
