// Package bootstrap implements the `mcpstack-tool init` command: it lays
// down the embedded tool template and asks the user for placeholder values.
package bootstrap

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/mcpstack/mcpstack-tool/internal/names"
)

// scpPattern matches scp-style remotes such as git@github.com:owner/repo.git.
var scpPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+:(?:.*/)?([^/]+?)(?:\.git)?$`)

// SuggestSlug proposes a tool slug for the template at root. It prefers the
// repository name of the origin remote and falls back to the directory name.
// Returns "" when neither yields a usable slug.
func SuggestSlug(root string) string {
	if name := originRepoName(root); name != "" {
		if s := normalizeSlug(name); s != "" {
			return s
		}
	}
	abs, err := FS.Abs(root)
	if err != nil {
		return ""
	}
	return normalizeSlug(filepath.Base(abs))
}

// originRepoName returns the repository name of the origin remote, or "".
func originRepoName(root string) string {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return parseRepoName(urls[0])
}

// parseRepoName extracts the repository name from an HTTPS, SSH or scp-style
// remote URL.
func parseRepoName(rawURL string) string {
	if m := scpPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return ""
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	return strings.TrimSuffix(parts[len(parts)-1], ".git")
}

// normalizeSlug lowercases name and strips the conventional mcpstack prefix.
func normalizeSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	for _, prefix := range []string{"mcpstack-tool-", "mcpstack_tool_", "mcpstack-", "mcpstack_"} {
		s = strings.TrimPrefix(s, prefix)
	}
	if !names.ValidSlug(s) {
		return ""
	}
	return s
}
