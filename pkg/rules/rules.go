// Package rules implements the declarative checks evaluated against a
// document store: pattern presence/absence, verbatim extract equality,
// cross-references, and lifecycle stage presence.
//
// Rule failures are the expected outcome in normal use and are reported as
// failed Outcomes with full diagnostics. A missing file is a failed check
// ("FILE NOT FOUND"), never a crash. Errors returned by Eval indicate bugs in
// the rule declaration itself (bad range, empty pattern) and are surfaced
// distinctly by the runner.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/docguard/pkg/document"
)

// Outcome is the result of evaluating one rule.
type Outcome struct {
	Rule   string   `json:"rule"`
	Passed bool     `json:"passed"`
	Files  []string `json:"files"`
	// Detail explains a failure: the missing pattern, a bounded diff, or a
	// FILE NOT FOUND marker. Empty on pass.
	Detail string `json:"detail,omitempty"`
	// Missing lists patterns or stages that were not found.
	Missing []string `json:"missing,omitempty"`
}

// Rule is one declarative, independently evaluable invariant check.
type Rule interface {
	// Title returns the human-readable rule name.
	Title() string

	// Eval produces an outcome. The error return is reserved for declaration
	// bugs; content problems always come back as a failed Outcome.
	Eval(store *document.Store) (Outcome, error)
}

func pass(name string, files ...string) Outcome {
	return Outcome{Rule: name, Passed: true, Files: files}
}

func fail(name, detail string, files ...string) Outcome {
	return Outcome{Rule: name, Passed: false, Detail: detail, Files: files}
}

// notFound converts a document load failure into a failed outcome when the
// file is missing, or passes through other errors.
func notFound(name, file string, err error) (Outcome, error) {
	var nf *document.NotFoundError
	if errors.As(err, &nf) {
		return fail(name, "FILE NOT FOUND: "+file, file), nil
	}
	return Outcome{}, fmt.Errorf("rule %q: %w", name, err)
}

// scopeText resolves the text a pattern rule searches: the whole document, or
// one heading-bounded section. The ok result is false when the section does
// not exist.
func scopeText(doc *document.Document, section string) (string, bool) {
	if section == "" {
		return doc.Content(), true
	}
	return doc.Section(section)
}

// PatternPresent requires a pattern to occur at least once in a file,
// optionally scoped to a section.
type PatternPresent struct {
	Name    string
	File    string
	Section string
	Pattern Pattern
}

func (r *PatternPresent) Title() string { return r.Name }

func (r *PatternPresent) Eval(store *document.Store) (Outcome, error) {
	if err := r.Pattern.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	doc, err := store.Get(r.File)
	if err != nil {
		return notFound(r.Name, r.File, err)
	}
	text, ok := scopeText(doc, r.Section)
	if !ok {
		return fail(r.Name, fmt.Sprintf("section %q not found in %s", r.Section, r.File), r.File), nil
	}
	if r.Pattern.Match(text) {
		return pass(r.Name, r.File), nil
	}
	out := fail(r.Name, fmt.Sprintf("pattern %q not found in %s", string(r.Pattern), r.describeScope()), r.File)
	out.Missing = r.Pattern.Missing(text)
	return out, nil
}

func (r *PatternPresent) describeScope() string {
	if r.Section == "" {
		return r.File
	}
	return fmt.Sprintf("%s section %q", r.File, r.Section)
}

// PatternAbsent requires a pattern to never occur in a file, optionally
// scoped to a section.
type PatternAbsent struct {
	Name    string
	File    string
	Section string
	Pattern Pattern
}

func (r *PatternAbsent) Title() string { return r.Name }

func (r *PatternAbsent) Eval(store *document.Store) (Outcome, error) {
	if err := r.Pattern.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	doc, err := store.Get(r.File)
	if err != nil {
		return notFound(r.Name, r.File, err)
	}
	text, ok := scopeText(doc, r.Section)
	if !ok {
		// A missing section trivially contains nothing.
		return pass(r.Name, r.File), nil
	}
	if !r.Pattern.Match(text) {
		return pass(r.Name, r.File), nil
	}
	return fail(r.Name, fmt.Sprintf("pattern %q should NOT be present in %s", string(r.Pattern), r.File), r.File), nil
}

// VerbatimMatch requires the target file to equal, byte for byte, the
// concatenation of the given source line ranges.
type VerbatimMatch struct {
	Name         string
	SourceFile   string
	SourceRanges []document.LineRange
	TargetFile   string
}

func (r *VerbatimMatch) Title() string { return r.Name }

func (r *VerbatimMatch) Eval(store *document.Store) (Outcome, error) {
	src, err := store.Get(r.SourceFile)
	if err != nil {
		return notFound(r.Name, r.SourceFile, err)
	}
	want, err := src.ExtractLines(r.SourceRanges)
	if err != nil {
		var re *document.RangeError
		if errors.As(err, &re) {
			// A range past EOF means the declaration no longer matches the
			// source document. That is a broken invariant, not a tool bug.
			return fail(r.Name, err.Error(), r.SourceFile, r.TargetFile), nil
		}
		return Outcome{}, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	return compareExtract(r.Name, r.SourceFile, r.TargetFile, want, store)
}

// SectionExtract requires the target file to equal a heading-bounded section
// of the source file. This is the heading-keyed replacement for line-number
// extract declarations, which break whenever the source document is edited
// above the extracted range.
type SectionExtract struct {
	Name          string
	SourceFile    string
	SourceSection string
	TargetFile    string
}

func (r *SectionExtract) Title() string { return r.Name }

func (r *SectionExtract) Eval(store *document.Store) (Outcome, error) {
	src, err := store.Get(r.SourceFile)
	if err != nil {
		return notFound(r.Name, r.SourceFile, err)
	}
	want, ok := src.Section(r.SourceSection)
	if !ok {
		return fail(r.Name, fmt.Sprintf("section %q not found in %s", r.SourceSection, r.SourceFile),
			r.SourceFile, r.TargetFile), nil
	}
	return compareExtract(r.Name, r.SourceFile, r.TargetFile, want, store)
}

// compareExtract checks a target file against expected extract content and
// builds the bounded-diff diagnostic on mismatch.
func compareExtract(name, sourceFile, targetFile, want string, store *document.Store) (Outcome, error) {
	tgt, err := store.Get(targetFile)
	if err != nil {
		return notFound(name, targetFile, err)
	}
	if tgt.Content() == want {
		return pass(name, sourceFile, targetFile), nil
	}
	diff := diffLines(want, tgt.Content(), maxDiffLines)
	detail := fmt.Sprintf("%s does not match its source in %s\n%s",
		targetFile, sourceFile, strings.Join(diff, "\n"))
	return fail(name, detail, sourceFile, targetFile), nil
}

// CrossReference requires PatternA in FileA and PatternB in FileB, the
// bidirectional-link check between two documents.
type CrossReference struct {
	Name     string
	FileA    string
	PatternA Pattern
	FileB    string
	PatternB Pattern
}

func (r *CrossReference) Title() string { return r.Name }

func (r *CrossReference) Eval(store *document.Store) (Outcome, error) {
	sideA := &PatternPresent{Name: r.Name, File: r.FileA, Pattern: r.PatternA}
	sideB := &PatternPresent{Name: r.Name, File: r.FileB, Pattern: r.PatternB}

	outA, err := sideA.Eval(store)
	if err != nil {
		return Outcome{}, err
	}
	outB, err := sideB.Eval(store)
	if err != nil {
		return Outcome{}, err
	}
	if outA.Passed && outB.Passed {
		return pass(r.Name, r.FileA, r.FileB), nil
	}

	var sides []string
	if !outA.Passed {
		sides = append(sides, outA.Detail)
	}
	if !outB.Passed {
		sides = append(sides, outB.Detail)
	}
	return fail(r.Name, "cross-reference broken: "+strings.Join(sides, "; "), r.FileA, r.FileB), nil
}

// StagePresence requires every stage name to appear in the scanned section.
// When Ordered is set, each stage must also first occur at or after the first
// occurrence of the previous stage.
type StagePresence struct {
	Name    string
	File    string
	Section string
	Stages  []string
	Ordered bool
}

func (r *StagePresence) Title() string { return r.Name }

func (r *StagePresence) Eval(store *document.Store) (Outcome, error) {
	if len(r.Stages) == 0 {
		return Outcome{}, fmt.Errorf("rule %q: no stages declared", r.Name)
	}
	doc, err := store.Get(r.File)
	if err != nil {
		return notFound(r.Name, r.File, err)
	}
	text, ok := scopeText(doc, r.Section)
	if !ok {
		return fail(r.Name, fmt.Sprintf("section %q not found in %s", r.Section, r.File), r.File), nil
	}

	var missing []string
	prev := -1
	prevStage := ""
	for _, stage := range r.Stages {
		idx := strings.Index(text, stage)
		if idx < 0 {
			missing = append(missing, stage)
			continue
		}
		if r.Ordered && idx < prev {
			return fail(r.Name, fmt.Sprintf("stage %q appears before %q in %s", stage, prevStage, r.File), r.File), nil
		}
		prev = idx
		prevStage = stage
	}
	if len(missing) > 0 {
		out := fail(r.Name, fmt.Sprintf("missing stages in %s: %s", r.File, strings.Join(missing, ", ")), r.File)
		out.Missing = missing
		return out, nil
	}
	return pass(r.Name, r.File), nil
}
