// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import "github.com/mcpstack/mcpstack-tool/internal/testable"

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// resolveRoot turns the --root flag into an absolute, symlink-free path to
// an existing directory.
func resolveRoot(root string) (string, error) {
	absPath, err := cmdFS.Abs(root)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "mcpstack-tool: cannot resolve path %q (%v)", root, err)
	}

	absPath, err = cmdFS.EvalSymlinks(absPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "mcpstack-tool: cannot resolve path %q (%v)", root, err)
	}

	info, err := cmdFS.Stat(absPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "mcpstack-tool: path %q does not exist (check the path and try again)", root)
	}
	if !info.IsDir() {
		return "", exitError(ExitInvalidArgs, "mcpstack-tool: %q is not a directory (provide a template root)", root)
	}
	return absPath, nil
}
