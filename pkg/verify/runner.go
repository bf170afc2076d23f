package verify

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ternarybob/docguard/internal/fileutil"
	"github.com/ternarybob/docguard/pkg/document"
	"github.com/ternarybob/docguard/pkg/rules"
)

// Runner executes suites against a repository root and writes the
// line-oriented report to Out.
//
// Execution is single-threaded and synchronous. A failing rule never stops
// the suite: all rules always run so one invocation surfaces every
// violation. Documents are loaded once per path and shared read-only across
// rules.
type Runner struct {
	Root string
	Out  io.Writer
}

// NewRunner creates a Runner for the given repository root.
func NewRunner(root string, out io.Writer) *Runner {
	return &Runner{Root: root, Out: out}
}

// CheckRoot verifies the root looks like a document repository before any
// suite runs. A wrong working directory is a configuration error, reported
// distinctly from broken invariants.
func (r *Runner) CheckRoot() error {
	for _, dir := range []string{"agents", "commands"} {
		if !fileutil.IsDir(filepath.Join(r.Root, dir)) {
			return fmt.Errorf("%s: missing %s/ directory (wrong --root?)", r.Root, dir)
		}
	}
	return nil
}

// RunSuite executes every rule in declaration order and prints one check
// line per rule.
func (r *Runner) RunSuite(suite Suite) Report {
	fmt.Fprintf(r.Out, "=== %s ===\n", suite.Description)

	store := document.NewStore(r.Root)
	var report Report
	for _, rule := range suite.Rules {
		outcome, err := rule.Eval(store)
		if err != nil {
			report.Internal++
			fmt.Fprintf(r.Out, "! INTERNAL ERROR: %v\n", err)
			report.Outcomes = append(report.Outcomes, SuiteOutcome{
				Suite:   suite.Name,
				Outcome: rules.Outcome{Rule: rule.Title(), Detail: err.Error()},
			})
			continue
		}
		if outcome.Passed {
			report.Passed++
			fmt.Fprintf(r.Out, "✓ %s\n", outcome.Rule)
		} else {
			report.Failed++
			fmt.Fprintf(r.Out, "✗ %s\n", outcome.Rule)
			for _, line := range strings.Split(outcome.Detail, "\n") {
				fmt.Fprintf(r.Out, "    %s\n", line)
			}
		}
		report.Outcomes = append(report.Outcomes, SuiteOutcome{Suite: suite.Name, Outcome: outcome})
	}
	return report
}

// RunAll executes each suite in order and merges the reports. A bad root is
// a configuration error: no rule can meaningfully run, so every declared rule
// counts as failed and the run stops before the first suite.
func (r *Runner) RunAll(suites []Suite) Report {
	var report Report
	if err := r.CheckRoot(); err != nil {
		fmt.Fprintf(r.Out, "configuration error: %v\n", err)
		report.Failed = len(flattenRules(suites))
		return report
	}
	for i, suite := range suites {
		if i > 0 {
			fmt.Fprintln(r.Out)
		}
		report.Merge(r.RunSuite(suite))
	}
	return report
}

// WriteSummary prints the summary block and the terminal sentinel line.
// External tooling greps for VERIFICATION PASSED / VERIFICATION FAILED, so
// the exact strings are a contract.
func (r *Runner) WriteSummary(report Report) {
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "=== Summary ===")
	fmt.Fprintf(r.Out, "Passed: %d\n", report.Passed)
	fmt.Fprintf(r.Out, "Failed: %d\n", report.Failed)
	if report.Internal > 0 {
		fmt.Fprintf(r.Out, "Internal errors: %d\n", report.Internal)
	}
	if report.OK() {
		fmt.Fprintln(r.Out, "VERIFICATION PASSED")
	} else {
		fmt.Fprintln(r.Out, "VERIFICATION FAILED")
	}
}

func flattenRules(suites []Suite) []string {
	var names []string
	for _, s := range suites {
		for _, rule := range s.Rules {
			names = append(names, rule.Title())
		}
	}
	return names
}
