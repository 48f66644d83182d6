// Package ignore decides which paths of a project tree are left out of a comparison.
//
// Rules come in three kinds:
//   - literal names or paths ("node_modules", "docs/build"), matched against the
//     full relative path or the entry's base name
//   - wildcard patterns ("*.min.js", "build/*", "cache/[ab]?"), matched against the
//     whole relative path; "*" also crosses "/"
//   - file extensions (".log"), matched against the base name's extension
//
// A pattern is wildcard when it contains "*", "?" or "[", literal otherwise.
// Literal and extension lookups run first; wildcard patterns are only evaluated
// when both miss. Optionally, .gitignore-style lines are consulted last.
package ignore

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Rules is the ignore configuration for one comparison
type Rules struct {
	// Patterns mixes literal names/paths and wildcard patterns
	Patterns []string
	// Extensions lists ignored file extensions, with or without the leading dot
	Extensions []string
	// GitIgnore holds optional .gitignore-style lines evaluated after everything else
	GitIgnore []string
}

type wildcardPattern struct {
	raw string
	g   glob.Glob
}

// Matcher evaluates Rules against relative paths.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	literal    map[string]struct{}
	wildcard   []wildcardPattern
	extensions map[string]struct{}
	gitignore  *gitignore.GitIgnore

	literalOrder []string
	invalid      []string
}

// IsWildcard reports whether a pattern contains glob metacharacters
func IsWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// Partition splits patterns into literal and wildcard buckets, preserving order.
// Empty patterns are dropped; separators are normalized to "/" and a trailing
// "/" is removed so "node_modules/" and "node_modules" behave the same.
func Partition(patterns []string) (literal, wildcard []string) {
	for _, p := range patterns {
		p = normalizePattern(p)
		if p == "" {
			continue
		}
		if IsWildcard(p) {
			wildcard = append(wildcard, p)
		} else {
			literal = append(literal, p)
		}
	}
	return literal, wildcard
}

func normalizePattern(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// globSyntax escapes the characters glob.Compile treats as syntax but shell
// patterns treat as literal text: brace alternation and the escape itself
func globSyntax(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for _, r := range pattern {
		switch r {
		case '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewMatcher compiles rules into a Matcher.
// Wildcard patterns that fail to compile are kept aside and never match.
func NewMatcher(rules Rules) *Matcher {
	literal, wildcard := Partition(rules.Patterns)

	m := &Matcher{
		literal:      make(map[string]struct{}, len(literal)),
		extensions:   make(map[string]struct{}, len(rules.Extensions)),
		literalOrder: literal,
	}

	for _, p := range literal {
		m.literal[p] = struct{}{}
	}

	for _, p := range wildcard {
		g, err := glob.Compile(globSyntax(p))
		if err != nil {
			m.invalid = append(m.invalid, p)
			continue
		}
		m.wildcard = append(m.wildcard, wildcardPattern{raw: p, g: g})
	}

	for _, ext := range rules.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.extensions[ext] = struct{}{}
	}

	if len(rules.GitIgnore) > 0 {
		m.gitignore = gitignore.CompileIgnoreLines(rules.GitIgnore...)
	}

	return m
}

// ShouldIgnore reports whether the relative path is excluded
func (m *Matcher) ShouldIgnore(relativePath string) bool {
	return m.ShouldIgnoreEntry(relativePath, false)
}

// ShouldIgnoreEntry is ShouldIgnore with the entry kind known, which lets
// directory-only .gitignore lines ("build/") apply
func (m *Matcher) ShouldIgnoreEntry(relativePath string, isDir bool) bool {
	if m == nil {
		return false
	}

	normalized := filepath.ToSlash(relativePath)
	if _, ok := m.literal[normalized]; ok {
		return true
	}

	base := path.Base(normalized)
	if _, ok := m.literal[base]; ok {
		return true
	}

	if ext := extension(base); ext != "" {
		if _, ok := m.extensions[ext]; ok {
			return true
		}
	}

	for _, w := range m.wildcard {
		if w.g.Match(normalized) {
			return true
		}
	}

	if m.gitignore != nil {
		candidate := normalized
		if isDir {
			candidate += "/"
		}
		if m.gitignore.MatchesPath(candidate) {
			return true
		}
	}

	return false
}

// extension returns the extension of a base name; leading dots do not start an
// extension, so ".env" has none and "archive.tar.gz" has ".gz"
func extension(base string) string {
	trimmed := strings.TrimLeft(base, ".")
	if trimmed == "" {
		return ""
	}
	return path.Ext(trimmed)
}

// Literals returns the literal patterns in configuration order
func (m *Matcher) Literals() []string {
	return append([]string(nil), m.literalOrder...)
}

// Wildcards returns the compiled wildcard patterns in configuration order
func (m *Matcher) Wildcards() []string {
	out := make([]string, 0, len(m.wildcard))
	for _, w := range m.wildcard {
		out = append(out, w.raw)
	}
	return out
}

// Invalid returns wildcard patterns that failed to compile
func (m *Matcher) Invalid() []string {
	return append([]string(nil), m.invalid...)
}

// UsesGitIgnore reports whether .gitignore lines were loaded
func (m *Matcher) UsesGitIgnore() bool {
	return m.gitignore != nil
}
