package rules

import (
	"fmt"
	"strings"
)

// maxDiffLines bounds diff output in diagnostics so failure reports stay
// scannable.
const maxDiffLines = 20

// diffLines produces a bounded, line-oriented diff between want and got.
// It trims the common prefix and suffix and emits -/+ lines for the middle.
func diffLines(want, got string, max int) []string {
	if want == got {
		return nil
	}
	a := strings.Split(strings.TrimSuffix(want, "\n"), "\n")
	b := strings.Split(strings.TrimSuffix(got, "\n"), "\n")

	// Common prefix
	p := 0
	for p < len(a) && p < len(b) && a[p] == b[p] {
		p++
	}
	// Common suffix, not overlapping the prefix
	s := 0
	for s < len(a)-p && s < len(b)-p && a[len(a)-1-s] == b[len(b)-1-s] {
		s++
	}

	var out []string
	if p > 0 {
		out = append(out, fmt.Sprintf("@@ first difference at line %d @@", p+1))
	}
	// Reserve one slot for the truncation marker so the total stays <= max.
	for i := p; i < len(a)-s; i++ {
		if len(out) >= max-1 {
			return truncated(out, len(a)-s-i+len(b)-s-p)
		}
		out = append(out, "- "+a[i])
	}
	for i := p; i < len(b)-s; i++ {
		if len(out) >= max-1 {
			return truncated(out, len(b)-s-i)
		}
		out = append(out, "+ "+b[i])
	}
	if len(out) == 0 {
		// Identical line content, so the difference is in the final newline.
		out = append(out, "(files differ only in trailing newline)")
	}
	return out
}

func truncated(out []string, remaining int) []string {
	return append(out, fmt.Sprintf("... (%d more lines)", remaining))
}
