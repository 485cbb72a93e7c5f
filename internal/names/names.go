// Package names defines the placeholder tokens used by the MCPStack tool
// template and the replacement values a user supplies for them.
package names

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Placeholder tokens embedded in template paths and file contents.
const (
	TokenSlug        = "__SLUG__"
	TokenClassName   = "__CLASS_NAME__"
	TokenEnvPrefix   = "__ENV_PREFIX__"
	TokenPackageName = "__PACKAGE_NAME__"
	TokenDistName    = "__DIST_NAME__"
)

// Tokens lists every placeholder token the template understands.
var Tokens = []string{
	TokenSlug,
	TokenClassName,
	TokenEnvPrefix,
	TokenPackageName,
	TokenDistName,
}

// ErrMalformedReplacement is matched by errors.Is for any Set that fails
// its format constraints.
var ErrMalformedReplacement = errors.New("malformed replacement")

var (
	slugRe        = regexp.MustCompile(`^[a-z][a-z0-9]*([-_][a-z0-9]+)*$`)
	classNameRe   = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	envPrefixRe   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	packageNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	distNameRe    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

// Set is a PlaceholderSet: the concrete values substituted for each token.
// Field names double as the keys of the saved names config.
type Set struct {
	Slug        string `yaml:"tool_slug" json:"tool_slug"`
	ClassName   string `yaml:"class_name" json:"class_name"`
	EnvPrefix   string `yaml:"env_prefix" json:"env_prefix"`
	PackageName string `yaml:"package_name" json:"package_name"`
	DistName    string `yaml:"dist_name" json:"dist_name"`
}

// Pair is one token and the value it is replaced with.
type Pair struct {
	Token string
	Value string
}

// Problem describes one field that failed validation.
type Problem struct {
	Field string
	Value string
	Rule  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %q must be %s", p.Field, p.Value, p.Rule)
}

// MalformedError reports every field of a Set that failed validation.
type MalformedError struct {
	Problems []Problem
}

func (e *MalformedError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "malformed replacement: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrMalformedReplacement) match.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedReplacement
}

// Derive fills in the package name, distribution name and env prefix from
// the slug when they are empty. Explicit values are kept as given.
func Derive(s Set) Set {
	snake := strings.ReplaceAll(strings.ToLower(s.Slug), "-", "_")
	kebab := strings.ReplaceAll(strings.ToLower(s.Slug), "_", "-")
	if s.PackageName == "" && snake != "" {
		s.PackageName = "mcpstack_" + snake
	}
	if s.DistName == "" && kebab != "" {
		s.DistName = "mcpstack-" + kebab
	}
	if s.EnvPrefix == "" && snake != "" {
		s.EnvPrefix = "MCP_" + strings.ToUpper(snake)
	}
	return s
}

// ValidSlug reports whether s is a well-formed tool slug.
func ValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

// DefaultClassName turns a slug such as "weather-tool" into "WeatherTool".
func DefaultClassName(slug string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' }) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// Validate checks every field and returns a *MalformedError listing all
// problems at once, or nil.
func (s Set) Validate() error {
	var problems []Problem
	check := func(field, value string, re *regexp.Regexp, rule string) {
		switch {
		case value == "":
			problems = append(problems, Problem{Field: field, Value: value, Rule: "set"})
		case !re.MatchString(value):
			problems = append(problems, Problem{Field: field, Value: value, Rule: rule})
		case containsToken(value):
			problems = append(problems, Problem{Field: field, Value: value, Rule: "free of placeholder tokens"})
		}
	}
	check("tool-slug", s.Slug, slugRe, "lowercase words joined by '-' or '_' ([a-z][a-z0-9-_]*)")
	check("class-name", s.ClassName, classNameRe, "a PascalCase identifier ([A-Z][A-Za-z0-9_]*)")
	check("env-prefix", s.EnvPrefix, envPrefixRe, "upper snake case ([A-Z][A-Z0-9_]*)")
	check("package-name", s.PackageName, packageNameRe, "a valid module name ([a-z][a-z0-9_]*)")
	check("dist-name", s.DistName, distNameRe, "kebab case ([a-z0-9][a-z0-9-]*)")

	if len(problems) > 0 {
		return &MalformedError{Problems: problems}
	}
	return nil
}

// Value returns the replacement for token, or "" for an unknown token.
func (s Set) Value(token string) string {
	switch token {
	case TokenSlug:
		return s.Slug
	case TokenClassName:
		return s.ClassName
	case TokenEnvPrefix:
		return s.EnvPrefix
	case TokenPackageName:
		return s.PackageName
	case TokenDistName:
		return s.DistName
	}
	return ""
}

// Pairs returns the token/value pairs ordered longest token first, ties
// broken alphabetically, so that replacement order is deterministic.
func (s Set) Pairs() []Pair {
	pairs := make([]Pair, 0, len(Tokens))
	for _, t := range Tokens {
		pairs = append(pairs, Pair{Token: t, Value: s.Value(t)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i].Token) != len(pairs[j].Token) {
			return len(pairs[i].Token) > len(pairs[j].Token)
		}
		return pairs[i].Token < pairs[j].Token
	})
	return pairs
}

// Replacer builds a single-pass replacer over Pairs. Replaced text is never
// rescanned, so a value that looks like another token is left alone.
func (s Set) Replacer() *strings.Replacer {
	pairs := s.Pairs()
	oldnew := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		oldnew = append(oldnew, p.Token, p.Value)
	}
	return strings.NewReplacer(oldnew...)
}

// Map returns the set keyed by token, for display and persistence.
func (s Set) Map() map[string]string {
	m := make(map[string]string, len(Tokens))
	for _, t := range Tokens {
		m[t] = s.Value(t)
	}
	return m
}

// Merge returns s with every empty field taken from fallback.
func (s Set) Merge(fallback Set) Set {
	if s.Slug == "" {
		s.Slug = fallback.Slug
	}
	if s.ClassName == "" {
		s.ClassName = fallback.ClassName
	}
	if s.EnvPrefix == "" {
		s.EnvPrefix = fallback.EnvPrefix
	}
	if s.PackageName == "" {
		s.PackageName = fallback.PackageName
	}
	if s.DistName == "" {
		s.DistName = fallback.DistName
	}
	return s
}

// IsZero reports whether no field is set.
func (s Set) IsZero() bool {
	return s == Set{}
}

// TokenPattern matches any placeholder token, longest alternative first.
func TokenPattern() *regexp.Regexp {
	sorted := make([]string, len(Tokens))
	copy(sorted, Tokens)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// ContainsToken reports whether s holds any placeholder token.
func ContainsToken(s string) bool {
	return containsToken(s)
}

func containsToken(s string) bool {
	for _, t := range Tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
