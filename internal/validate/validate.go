// Package validate reports placeholder tokens left in a template tree.
// It checks every path and every line of every text file, producing one
// finding per occurrence with a suggestion on how to resolve it.
package validate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
)

// ErrUnresolvedPlaceholder is returned by Result.Err when tokens remain.
var ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")

// maxLine bounds a single scanned line.
const maxLine = 1024 * 1024

// Finding is a single token occurrence.
type Finding struct {
	Path       string // root-relative, slash separated
	Line       int    // 1-based; 0 means the token is in the path itself
	Column     int    // 1-based byte offset within the line or path
	Token      string
	Suggestion string
}

func (f Finding) String() string {
	if f.Line == 0 {
		return fmt.Sprintf("%s: path contains %s", f.Path, f.Token)
	}
	return fmt.Sprintf("%s:%d:%d: %s", f.Path, f.Line, f.Column, f.Token)
}

// Result contains the outcome of scanning a tree.
type Result struct {
	Files    int // files scanned
	Binary   int // files skipped as binary
	Findings []Finding
}

// Passed returns true if no tokens were found.
func (r *Result) Passed() bool {
	return len(r.Findings) == 0
}

// Err returns an error wrapping ErrUnresolvedPlaceholder when the scan did
// not pass, or nil.
func (r *Result) Err() error {
	if r.Passed() {
		return nil
	}
	files := make(map[string]struct{})
	for _, f := range r.Findings {
		files[f.Path] = struct{}{}
	}
	return fmt.Errorf("%w: %d %s in %d %s", ErrUnresolvedPlaceholder,
		len(r.Findings), plural(len(r.Findings), "occurrence", "occurrences"),
		len(files), plural(len(files), "path", "paths"))
}

// Tokens returns the distinct tokens found, sorted.
func (r *Result) Tokens() []string {
	seen := make(map[string]struct{})
	for _, f := range r.Findings {
		seen[f.Token] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Scan walks root and reports every placeholder token it finds.
func Scan(root string, opts engine.Options) (*Result, error) {
	entries, err := engine.Snapshot(root, opts)
	if err != nil {
		return nil, err
	}
	return ScanEntries(entries), nil
}

// ScanEntries reports the tokens in an already captured tree.
func ScanEntries(entries []engine.FileEntry) *Result {
	re := names.TokenPattern()
	result := &Result{}

	for _, e := range entries {
		for _, loc := range re.FindAllStringIndex(e.Path, -1) {
			result.Findings = append(result.Findings, finding(e.Path, 0, loc[0], e.Path[loc[0]:loc[1]]))
		}
		if e.Dir {
			continue
		}
		if e.Binary() {
			result.Binary++
			continue
		}
		result.Files++

		scanner := bufio.NewScanner(bytes.NewReader(e.Content))
		scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			for _, loc := range re.FindAllStringIndex(line, -1) {
				result.Findings = append(result.Findings, finding(e.Path, lineNum, loc[0], line[loc[0]:loc[1]]))
			}
		}
	}

	sort.SliceStable(result.Findings, func(i, j int) bool {
		a, b := result.Findings[i], result.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return result
}

func finding(path string, line, offset int, token string) Finding {
	f := Finding{Path: path, Line: line, Column: offset + 1, Token: token}
	if line == 0 {
		f.Suggestion = "run apply so the path is renamed"
	} else {
		f.Suggestion = fmt.Sprintf("run apply, or replace %s by hand", token)
	}
	return f
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
