package rules

import (
	"fmt"
	"strings"
)

// Pattern is the limited pattern language used by rules: literal substrings
// with | alternation. `worktree-setup` matches that substring anywhere;
// `worktree-setup|worktree-cleanup` matches if either occurs. Metacharacters
// other than | are literal text; this is not a regular expression.
type Pattern string

// Alternatives splits the pattern on |.
func (p Pattern) Alternatives() []string {
	return strings.Split(string(p), "|")
}

// Match reports whether any alternative occurs in text.
func (p Pattern) Match(text string) bool {
	for _, alt := range p.Alternatives() {
		if strings.Contains(text, alt) {
			return true
		}
	}
	return false
}

// Missing returns the alternatives that do not occur in text.
func (p Pattern) Missing(text string) []string {
	var missing []string
	for _, alt := range p.Alternatives() {
		if !strings.Contains(text, alt) {
			missing = append(missing, alt)
		}
	}
	return missing
}

// Validate rejects patterns that cannot match anything. A bad pattern is a
// bug in a suite declaration, not a content failure, so it surfaces as an
// error rather than a failed check.
func (p Pattern) Validate() error {
	if p == "" {
		return fmt.Errorf("empty pattern")
	}
	for _, alt := range p.Alternatives() {
		if alt == "" {
			return fmt.Errorf("empty alternative in pattern %q", string(p))
		}
	}
	return nil
}
