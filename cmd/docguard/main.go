// Package main provides the CLI entry point for docguard.
//
// docguard verifies the structural invariants of a Markdown knowledge base:
// protocol extracts that must stay byte-identical to their source sections,
// identifiers that must (or must not) appear in agent and command files,
// cross-references between documents, and lifecycle stage coverage.
//
// Usage:
//
//	docguard verify [suite] [--root <path>]  - Run all suites or one suite
//	docguard list                            - List available suites
//	docguard section <file> <heading>        - Print a heading-bounded section
//	docguard watch [--root <path>]           - Re-verify on Markdown changes
//	docguard version                         - Show version
//
// Exit code is 0 when every check passes and 1 otherwise; CI consumes this
// binary signal plus the printed summary.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ternarybob/docguard/pkg/document"
	"github.com/ternarybob/docguard/pkg/verify"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "verify":
		err = cmdVerify(args)
	case "list":
		err = cmdList(args)
	case "section":
		err = cmdSection(args)
	case "watch":
		err = cmdWatch(args)
	case "version", "-v", "--version":
		fmt.Printf("docguard version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`docguard - Document invariant verification

Commands:
  verify [suite] [--root <path>]  Run all verification suites, or one by name
  list                            List available suites and their rules
  section <file> <heading>        Print a heading-bounded section of a file
  watch [--root <path>]           Watch for Markdown changes and re-verify
  version                         Show version
  help                            Show this help

Suites:
  protocol-extracts   Skill reference files match their protocol sections
  scope-integrity     Legacy scope identifiers are gone, replacements cited
  task-hierarchy      Lifecycle stages and phase skills are described
  worktree-protocol   Worktree skills referenced, no raw git worktree

The --root flag locates the document repository (default: current directory).
Exit code is 0 when all checks pass, 1 on any failure.`)
}

// parseRoot extracts --root from args, returning the remaining positional
// arguments and the resolved root.
func parseRoot(args []string) ([]string, string, error) {
	root := "."
	var rest []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--root" {
			if i+1 >= len(args) {
				return nil, "", fmt.Errorf("--root requires a path")
			}
			root = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, "", fmt.Errorf("resolve root: %w", err)
	}
	return rest, abs, nil
}

// cmdVerify runs all suites, or the named suite.
func cmdVerify(args []string) error {
	rest, root, err := parseRoot(args)
	if err != nil {
		return err
	}

	suites := verify.BuiltinSuites()
	if len(rest) > 0 {
		suite, ok := verify.SuiteByName(rest[0])
		if !ok {
			return fmt.Errorf("unknown suite %q (run 'docguard list')", rest[0])
		}
		suites = []verify.Suite{suite}
	}

	runner := verify.NewRunner(root, os.Stdout)
	report := runner.RunAll(suites)
	runner.WriteSummary(report)

	os.Exit(report.ExitStatus())
	return nil
}

// cmdList prints the available suites.
func cmdList(args []string) error {
	for _, suite := range verify.BuiltinSuites() {
		fmt.Printf("%s - %s (%d rules)\n", suite.Name, suite.Description, len(suite.Rules))
		for _, rule := range suite.Rules {
			fmt.Printf("  - %s\n", rule.Title())
		}
	}
	return nil
}

// cmdSection prints a heading-bounded section of a file, the same view the
// extract rules compare against.
func cmdSection(args []string) error {
	rest, root, err := parseRoot(args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return fmt.Errorf("usage: docguard section <file> <heading>")
	}

	doc, err := document.Load(filepath.Join(root, rest[0]))
	if err != nil {
		return err
	}

	content, ok := doc.Section(rest[1])
	if !ok {
		return fmt.Errorf("section %q not found in %s", rest[1], rest[0])
	}

	fmt.Print(content)
	return nil
}

// cmdWatch runs verification once, then re-runs it whenever a Markdown file
// under the root changes.
func cmdWatch(args []string) error {
	_, root, err := parseRoot(args)
	if err != nil {
		return err
	}

	runner := verify.NewRunner(root, os.Stdout)
	suites := verify.BuiltinSuites()

	report := runner.RunAll(suites)
	runner.WriteSummary(report)

	watcher, err := verify.NewWatcher(runner, suites, 500*time.Millisecond)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Println("\nWatching for Markdown changes (Ctrl-C to stop)...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return nil
}
