package verify

import (
	"github.com/ternarybob/docguard/pkg/document"
	"github.com/ternarybob/docguard/pkg/rules"
)

// Builtin suites for a PACT-style plugin repository: agent personas under
// agents/, command playbooks under commands/, protocol documents under
// protocols/, and skill reference extracts under skills/. The declarations
// are fixed in source; the documents they check are the single source of
// truth and are never mutated by a run.

// Stage names of the task lifecycle, in narrative order.
var LifecycleStages = []string{"ATOMIZE", "PLAN", "ACT", "CHECK", "CONSOLIDATE"}

// BuiltinSuites returns the four verification suites in execution order.
func BuiltinSuites() []Suite {
	return []Suite{
		ProtocolExtractsSuite(),
		ScopeIntegritySuite(),
		TaskHierarchySuite(),
		WorktreeProtocolSuite(),
	}
}

// SuiteByName returns the builtin suite with the given name.
func SuiteByName(name string) (Suite, bool) {
	for _, s := range BuiltinSuites() {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

// ProtocolExtractsSuite checks that skill reference files are verbatim
// copies of their source sections in the delegation protocol. Extracts are
// keyed to headings rather than line numbers so edits elsewhere in the
// protocol do not invalidate the declarations. The worktree quick reference
// predates the heading convention and is still range-keyed.
func ProtocolExtractsSuite() Suite {
	return Suite{
		Name:        "protocol-extracts",
		Description: "Protocol Extract Verification",
		Rules: []rules.Rule{
			&rules.SectionExtract{
				Name:          "worktree-lifecycle extract matches delegation protocol",
				SourceFile:    "protocols/delegation.md",
				SourceSection: "## Worktree Lifecycle",
				TargetFile:    "skills/delegation/references/worktree-lifecycle.md",
			},
			&rules.SectionExtract{
				Name:          "review-gates extract matches delegation protocol",
				SourceFile:    "protocols/delegation.md",
				SourceSection: "## Review Gates",
				TargetFile:    "skills/delegation/references/review-gates.md",
			},
			&rules.SectionExtract{
				Name:          "escalation extract matches delegation protocol",
				SourceFile:    "protocols/delegation.md",
				SourceSection: "## Escalation",
				TargetFile:    "skills/delegation/references/escalation.md",
			},
			&rules.VerbatimMatch{
				Name:       "worktree quick reference matches protocol lines 3-20",
				SourceFile: "protocols/worktree.md",
				SourceRanges: []document.LineRange{
					{Start: 3, End: 20},
				},
				TargetFile: "skills/worktree/references/quick-reference.md",
			},
		},
	}
}

// ScopeIntegritySuite checks that the scope refactor is complete: the legacy
// scope_id identifier is gone from commands and the orchestrator, its
// replacement is cited, and the scope protocol and its callers reference
// each other.
func ScopeIntegritySuite() Suite {
	return Suite{
		Name:        "scope-integrity",
		Description: "Scope Integrity Verification",
		Rules: []rules.Rule{
			&rules.PatternAbsent{
				Name:    "no legacy scope_id in /pact command",
				File:    "commands/pact.md",
				Pattern: "scope_id",
			},
			&rules.PatternAbsent{
				Name:    "no legacy scope_id in /pact-task command",
				File:    "commands/pact-task.md",
				Pattern: "scope_id",
			},
			&rules.PatternAbsent{
				Name:    "no legacy scope_id in orchestrator",
				File:    "agents/pact-orchestrator.md",
				Pattern: "scope_id",
			},
			&rules.PatternPresent{
				Name:    "/pact-task uses task_scope",
				File:    "commands/pact-task.md",
				Pattern: "task_scope",
			},
			&rules.CrossReference{
				Name:     "scope protocol and /pact-task reference each other",
				FileA:    "protocols/scope.md",
				PatternA: "/pact-task",
				FileB:    "commands/pact-task.md",
				PatternB: "protocols/scope.md",
			},
			&rules.CrossReference{
				Name:     "scope protocol and /pact reference each other",
				FileA:    "protocols/scope.md",
				PatternA: "/pact",
				FileB:    "commands/pact.md",
				PatternB: "protocols/scope.md",
			},
		},
	}
}

// TaskHierarchySuite checks the orchestrator's task lifecycle narrative:
// every stage is described, and the phases that touch worktrees name the
// right skills. Stage checks are presence-only; the narrative order in
// LifecycleStages is not enforced against the document.
func TaskHierarchySuite() Suite {
	return Suite{
		Name:        "task-hierarchy",
		Description: "Task Hierarchy Verification",
		Rules: []rules.Rule{
			&rules.StagePresence{
				Name:    "orchestrator describes all lifecycle stages",
				File:    "agents/pact-orchestrator.md",
				Section: "## Task Lifecycle",
				Stages:  LifecycleStages,
			},
			&rules.PatternPresent{
				Name:    "ATOMIZE phase sets up worktrees",
				File:    "agents/pact-orchestrator.md",
				Section: "### ATOMIZE Phase",
				Pattern: "worktree-setup",
			},
			&rules.PatternPresent{
				Name:    "CONSOLIDATE phase cleans up worktrees",
				File:    "agents/pact-orchestrator.md",
				Section: "### CONSOLIDATE Phase",
				Pattern: "worktree-cleanup",
			},
			&rules.PatternPresent{
				Name:    "architect tracks the parent task",
				File:    "agents/pact-architect.md",
				Pattern: "parent task",
			},
			&rules.PatternAbsent{
				Name:    "implementer does not atomize tasks",
				File:    "agents/pact-implementer.md",
				Pattern: "ATOMIZE",
			},
		},
	}
}

// WorktreeProtocolSuite checks that agents go through the worktree skills
// rather than raw git, and that the worktree protocol and its callers are
// linked.
func WorktreeProtocolSuite() Suite {
	return Suite{
		Name:        "worktree-protocol",
		Description: "Worktree Protocol Verification",
		Rules: []rules.Rule{
			&rules.PatternPresent{
				Name:    "orchestrator references worktree skills",
				File:    "agents/pact-orchestrator.md",
				Pattern: "worktree-setup|worktree-cleanup",
			},
			&rules.PatternPresent{
				Name:    "implementer references worktree-setup",
				File:    "agents/pact-implementer.md",
				Pattern: "worktree-setup",
			},
			&rules.CrossReference{
				Name:     "worktree protocol and implementer reference each other",
				FileA:    "protocols/worktree.md",
				PatternA: "pact-implementer",
				FileB:    "agents/pact-implementer.md",
				PatternB: "protocols/worktree.md",
			},
			&rules.PatternAbsent{
				Name:    "no raw git worktree in /pact command",
				File:    "commands/pact.md",
				Pattern: "git worktree",
			},
			&rules.PatternAbsent{
				Name:    "no raw git worktree in implementer",
				File:    "agents/pact-implementer.md",
				Pattern: "git worktree",
			},
		},
	}
}
