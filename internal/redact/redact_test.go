// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package redact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_RedactsKnownEnvVars(t *testing.T) {
	const secret = "pypi-TESTSECRETVALUE1234567890" //nolint:gosec // fake test credential
	t.Setenv("PYPI_TOKEN", secret)
	resetCache()
	t.Cleanup(resetCache)

	got := String("error: upload rejected token pypi-TESTSECRETVALUE1234567890 for dist")
	assert.Equal(t, "error: upload rejected token [REDACTED] for dist", got)
}

func TestString_NoSecretSetIsNoop(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	resetCache()
	t.Cleanup(resetCache)

	input := "some normal error message"
	assert.Equal(t, input, String(input))
}

func TestString_ShortValuesIgnored(t *testing.T) {
	// Values under 4 chars could cause false-positive redaction.
	t.Setenv("GITHUB_TOKEN", "abc")
	resetCache()
	t.Cleanup(resetCache)

	input := "abc is in the string abc"
	assert.Equal(t, input, String(input))
}

func TestString_MultipleSecrets(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token-aaaa")
	t.Setenv("UV_PUBLISH_TOKEN", "test-token-bbbb")
	resetCache()
	t.Cleanup(resetCache)

	assert.Equal(t, "tokens: [REDACTED] and [REDACTED]", String("tokens: test-token-aaaa and test-token-bbbb"))
}

func TestHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "alice")
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	resetCache()
	t.Cleanup(resetCache)

	sep := string(os.PathSeparator)
	assert.Equal(t, "cannot resolve path ~"+sep+"tools"+sep+"weather", Home("cannot resolve path "+filepath.Join(home, "tools", "weather")))
	assert.Equal(t, "cwd is ~", Home("cwd is "+home))
	assert.Equal(t, home+"ish", Home(home+"ish"), "a sibling path sharing the prefix is kept")
	assert.Equal(t, "/opt/tools", Home("/opt/tools"))
}
