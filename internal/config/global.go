// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for user-wide mcpstack-tool settings.
// It uses $XDG_CONFIG_HOME/mcpstack-tool if set, otherwise
// ~/.config/mcpstack-tool.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mcpstack-tool")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mcpstack-tool")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file. Only its exclude list is used;
// names are always per template.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	return LoadFile(GlobalConfigPath())
}

// LoadMerged loads the global and template configs and returns the template
// config with the global exclude patterns prepended.
func LoadMerged(root string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	local, err := Load(root)
	if err != nil {
		return nil, err
	}
	local.Exclude = MergeExclude(global.Exclude, local.Exclude)
	return local, nil
}
