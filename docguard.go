// Package docguard verifies the structural invariants of a Markdown
// knowledge base: extract files that must stay byte-identical to their
// source-of-truth sections, identifiers that must or must not appear in
// agent and command documents, cross-references between documents, and
// lifecycle stage coverage.
//
// # Quick Start
//
//	report, err := docguard.Verify(os.Stdout, "/path/to/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(report.ExitStatus())
//
// # Architecture
//
// Three layers, leaves first:
//   - document: Markdown files as addressable lines and heading-bounded sections
//   - rules: declarative checks evaluated against documents
//   - verify: suites of rules, executed in order, folded into a Report
//
// Everything is recomputed from the Markdown sources on each run. The
// documents are the single source of truth; docguard never caches state
// between runs or mutates a file.
package docguard

import (
	"io"

	"github.com/ternarybob/docguard/pkg/document"
	"github.com/ternarybob/docguard/pkg/rules"
	"github.com/ternarybob/docguard/pkg/verify"
)

// Suite is an alias for the verify suite type.
type Suite = verify.Suite

// Report is an alias for the verify report type.
type Report = verify.Report

// Rule is an alias for the rules rule interface.
type Rule = rules.Rule

// Document is an alias for the document type.
type Document = document.Document

// BuiltinSuites returns the built-in verification suites.
func BuiltinSuites() []Suite {
	return verify.BuiltinSuites()
}

// Verify runs all built-in suites against the repository at root, writing
// the line-oriented report to out, and returns the aggregate report.
func Verify(out io.Writer, root string) (Report, error) {
	runner := verify.NewRunner(root, out)
	if err := runner.CheckRoot(); err != nil {
		return Report{}, err
	}
	report := runner.RunAll(verify.BuiltinSuites())
	runner.WriteSummary(report)
	return report, nil
}
