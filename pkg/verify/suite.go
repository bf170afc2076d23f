// Package verify composes rules into named suites, executes them against a
// repository of Markdown documents, and reports an aggregate pass/fail
// result.
package verify

import "github.com/ternarybob/docguard/pkg/rules"

// Suite is an ordered, named list of rules covering one verification
// concern. Suites are constructed from fixed declarations at startup,
// executed once per run, and discarded.
type Suite struct {
	Name        string
	Description string
	Rules       []rules.Rule
}

// Report aggregates rule outcomes for one or more suites. Failed == 0 is the
// sole success criterion; Internal counts declaration bugs surfaced during
// the run, which also fail the run but are reported distinctly.
type Report struct {
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
	Internal int            `json:"internal"`
	Outcomes []SuiteOutcome `json:"outcomes"`
}

// SuiteOutcome is one rule outcome tagged with its suite.
type SuiteOutcome struct {
	Suite string `json:"suite"`
	rules.Outcome
}

// Merge folds other into r.
func (r *Report) Merge(other Report) {
	r.Passed += other.Passed
	r.Failed += other.Failed
	r.Internal += other.Internal
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
}

// OK reports whether every rule passed and no internal errors occurred.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Internal == 0
}

// ExitStatus returns the process exit code for this report: 0 on success,
// 1 otherwise. This is the hard contract consumed by CI.
func (r *Report) ExitStatus() int {
	if r.OK() {
		return 0
	}
	return 1
}
