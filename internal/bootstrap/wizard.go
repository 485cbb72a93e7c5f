package bootstrap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mcpstack/mcpstack-tool/internal/names"
)

// ErrNoInput is returned by RunWizard when input ends before a slug is given.
var ErrNoInput = errors.New("no input")

// maxAttempts bounds how often the wizard re-asks after invalid answers.
const maxAttempts = 3

// Prompter asks questions on w and reads answers from r. A single Prompter
// must be used for a whole session: its scanner buffers input ahead of the
// line being read.
type Prompter struct {
	scanner *bufio.Scanner
	w       io.Writer
}

// NewPrompter returns a Prompter reading from r and writing to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(r), w: w}
}

// RunWizard runs the interactive init wizard, prompting for each placeholder
// value with a default derived from what is already known. It returns the
// chosen set once it validates.
func RunWizard(r io.Reader, w io.Writer, defaults names.Set) (names.Set, error) {
	return NewPrompter(r, w).Wizard(defaults)
}

// Wizard is RunWizard on an existing Prompter.
func (p *Prompter) Wizard(defaults names.Set) (names.Set, error) {
	w := p.w
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Welcome to mcpstack-tool init!")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Press Enter to accept the value in brackets.")
	_, _ = fmt.Fprintln(w)

	var lastErr error
	for range maxAttempts {
		set, err := askNames(p.scanner, w, defaults)
		if err != nil {
			return names.Set{}, err
		}
		if lastErr = set.Validate(); lastErr == nil {
			_, _ = fmt.Fprintln(w)
			return set, nil
		}

		var me *names.MalformedError
		if errors.As(lastErr, &me) {
			_, _ = fmt.Fprintln(w)
			for _, prob := range me.Problems {
				_, _ = fmt.Fprintf(w, "  ! %s\n", prob)
			}
			_, _ = fmt.Fprintln(w)
		}
		defaults = keepValid(set)
	}
	return names.Set{}, lastErr
}

// askNames prompts for the five values in dependency order: the slug first,
// then the values whose defaults derive from it.
func askNames(scanner *bufio.Scanner, w io.Writer, defaults names.Set) (names.Set, error) {
	var set names.Set

	_, _ = fmt.Fprintf(w, "  Tool slug (e.g. weather-tool)%s: ", bracket(defaults.Slug))
	set.Slug = promptString(scanner, defaults.Slug)
	if set.Slug == "" {
		return names.Set{}, fmt.Errorf("%w: tool slug is required", ErrNoInput)
	}

	derived := names.Derive(names.Set{Slug: set.Slug})
	className := defaults.ClassName
	if className == "" || defaults.Slug != set.Slug {
		className = names.DefaultClassName(set.Slug)
	}
	pick := func(explicit, derivedValue string) string {
		if explicit != "" && defaults.Slug == set.Slug {
			return explicit
		}
		return derivedValue
	}

	_, _ = fmt.Fprintf(w, "  Class name%s: ", bracket(className))
	set.ClassName = promptString(scanner, className)

	pkg := pick(defaults.PackageName, derived.PackageName)
	_, _ = fmt.Fprintf(w, "  Package name%s: ", bracket(pkg))
	set.PackageName = promptString(scanner, pkg)

	dist := pick(defaults.DistName, derived.DistName)
	_, _ = fmt.Fprintf(w, "  Distribution name%s: ", bracket(dist))
	set.DistName = promptString(scanner, dist)

	env := pick(defaults.EnvPrefix, derived.EnvPrefix)
	_, _ = fmt.Fprintf(w, "  Env var prefix%s: ", bracket(env))
	set.EnvPrefix = promptString(scanner, env)

	return set, nil
}

// keepValid returns the fields of s that pass validation, so a retry only
// re-defaults the bad ones.
func keepValid(s names.Set) names.Set {
	err := s.Validate()
	var me *names.MalformedError
	if !errors.As(err, &me) {
		return s
	}
	for _, p := range me.Problems {
		switch p.Field {
		case "tool-slug":
			s.Slug = ""
		case "class-name":
			s.ClassName = ""
		case "env-prefix":
			s.EnvPrefix = ""
		case "package-name":
			s.PackageName = ""
		case "dist-name":
			s.DistName = ""
		}
	}
	return s
}

// Confirm asks a yes/no question. Empty input returns defaultVal.
func Confirm(r io.Reader, w io.Writer, question string, defaultVal bool) bool {
	return NewPrompter(r, w).Confirm(question, defaultVal)
}

// Confirm asks a yes/no question. Empty input returns defaultVal.
func (p *Prompter) Confirm(question string, defaultVal bool) bool {
	dflt := "y/N"
	if defaultVal {
		dflt = "Y/n"
	}
	_, _ = fmt.Fprintf(p.w, "%s [%s] ", question, dflt)
	return promptYesNo(p.scanner, defaultVal)
}

func bracket(s string) string {
	if s == "" {
		return ""
	}
	return " [" + s + "]"
}

// promptYesNo reads a yes/no response. Empty input returns the default.
func promptYesNo(scanner *bufio.Scanner, defaultVal bool) bool {
	if !scanner.Scan() {
		return defaultVal
	}
	input := strings.TrimSpace(strings.ToLower(scanner.Text()))
	switch input {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}

// promptString reads a string response. Empty input returns the default.
func promptString(scanner *bufio.Scanner, defaultVal string) string {
	if !scanner.Scan() {
		return defaultVal
	}
	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return defaultVal
	}
	return input
}
