package bootstrap

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/mcpstack/mcpstack-tool/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

//go:embed all:template
var templateFS embed.FS

// templateDir is the root of the embedded template inside templateFS.
const templateDir = "template"

// Action records a single file operation performed during scaffolding.
type Action struct {
	File        string // e.g. "pyproject.toml", "src/__PACKAGE_NAME__/tool.py"
	Operation   string // "created", "overwritten", "skipped"
	Description string // human-readable detail
}

// Template returns the embedded default template as a file system rooted at
// the template directory.
func Template() fs.FS {
	sub, err := fs.Sub(templateFS, templateDir)
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// NeedsScaffold reports whether root lacks a pyproject.toml and so has no
// template to work on.
func NeedsScaffold(root string) bool {
	_, err := FS.Stat(filepath.Join(root, "pyproject.toml"))
	return errors.Is(err, fs.ErrNotExist)
}

// Scaffold writes the embedded template into root. Existing files are left
// alone unless force is set.
func Scaffold(root string, force bool) ([]Action, error) {
	src := Template()
	var actions []Action

	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		dst := filepath.Join(root, filepath.FromSlash(p))
		if d.IsDir() {
			if err := FS.MkdirAll(dst, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", p, err)
			}
			return nil
		}

		op := "created"
		desc := "from embedded template"
		if _, err := FS.Stat(dst); err == nil {
			if !force {
				actions = append(actions, Action{File: p, Operation: "skipped", Description: "already exists"})
				return nil
			}
			op = "overwritten"
			desc = "replaced with embedded template"
		}

		data, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		if err := FS.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
		actions = append(actions, Action{File: p, Operation: op, Description: desc})
		return nil
	})
	if err != nil {
		return actions, err
	}
	return actions, nil
}
