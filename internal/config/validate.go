// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/mcpstack/mcpstack-tool/internal/names"
)

// Validate checks all fields in the config and returns all errors at once.
// An empty names block is allowed; a partial one must derive to a valid set.
func Validate(cfg *Config) error {
	var errs []string

	if !cfg.Names.IsZero() {
		if err := names.Derive(cfg.Names).Validate(); err != nil {
			var me *names.MalformedError
			if errors.As(err, &me) {
				for _, p := range me.Problems {
					errs = append(errs, "names."+p.String())
				}
			} else {
				errs = append(errs, fmt.Sprintf("names: %v", err))
			}
		}
	}

	for i, pat := range cfg.Exclude {
		if strings.TrimSpace(pat) == "" {
			errs = append(errs, fmt.Sprintf("exclude[%d]: must not be empty", i))
			continue
		}
		if _, err := path.Match(pat, ""); err != nil {
			errs = append(errs, fmt.Sprintf("exclude[%d]: invalid pattern %q: %v", i, pat, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
