// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

// Package redact strips sensitive values from strings before they appear in
// output, logs, or error messages.
package redact

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output. Git remotes and publish steps are the usual carriers.
var sensitiveEnvVars = []string{
	"GITHUB_TOKEN",
	"GH_TOKEN",
	"GITLAB_TOKEN",
	"PYPI_TOKEN",
	"UV_PUBLISH_TOKEN",
	"TWINE_PASSWORD",
	"MCPSTACK_TOKEN",
}

var (
	cachedSecrets []string
	cachedHome    string
	cacheOnce     sync.Once
)

func load() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if val != "" && len(val) >= 4 {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
	if home, err := os.UserHomeDir(); err == nil && len(home) > 1 {
		cachedHome = filepath.Clean(home)
	}
}

func resetCache() {
	cachedSecrets = nil
	cachedHome = ""
	cacheOnce = sync.Once{}
}

// ResetForTest resets the cache so tests in other packages can verify
// redaction after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// String replaces any occurrence of a known sensitive environment variable
// value with "[REDACTED]" and shortens paths under the user's home directory
// to "~". Values are cached on first call.
func String(s string) string {
	cacheOnce.Do(load)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return Home(s)
}

// Home rewrites absolute paths under the home directory to start with "~".
func Home(s string) string {
	cacheOnce.Do(load)
	if cachedHome == "" {
		return s
	}
	s = strings.ReplaceAll(s, cachedHome+string(filepath.Separator), "~"+string(filepath.Separator))
	if strings.HasSuffix(s, cachedHome) {
		s = strings.TrimSuffix(s, cachedHome) + "~"
	}
	return s
}
