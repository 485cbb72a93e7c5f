// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

// Package config handles .mcpstack-tool.yaml names files.
package config

import (
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/testable"
)

// Config represents the contents of a .mcpstack-tool.yaml file.
type Config struct {
	Names   names.Set `yaml:"names"`
	Exclude []string  `yaml:"exclude,omitempty"`
}

// FileName is the expected config file name in a template root.
const FileName = ".mcpstack-tool.yaml"

// FS is the file system implementation used by this package.
var FS testable.FileSystem = testable.DefaultFS
