package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/docguard/pkg/document"
)

// newStore writes the given files under a temp root and returns a store
// over it.
func newStore(t *testing.T, files map[string]string) *document.Store {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return document.NewStore(dir)
}

const agentDoc = "# Agent\n\n### ATOMIZE Phase\n\nRun worktree-setup for each child.\n\n### CONSOLIDATE Phase\n\nMerge and clean up.\n"

func TestPatternPresent(t *testing.T) {
	store := newStore(t, map[string]string{"agent.md": agentDoc})

	rule := &PatternPresent{Name: "setup referenced", File: "agent.md", Pattern: "worktree-setup"}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, "setup referenced", out.Rule)
}

func TestPatternPresent_SectionScoped(t *testing.T) {
	store := newStore(t, map[string]string{"agent.md": agentDoc})

	// Present in the ATOMIZE section.
	rule := &PatternPresent{
		Name:    "atomize sets up worktrees",
		File:    "agent.md",
		Section: "### ATOMIZE Phase",
		Pattern: "worktree-setup",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)

	// The same pattern scoped to a different section fails.
	rule.Section = "### CONSOLIDATE Phase"
	out, err = rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "worktree-setup")
	assert.Contains(t, out.Detail, "### CONSOLIDATE Phase")
}

func TestPatternPresent_SectionMissing(t *testing.T) {
	store := newStore(t, map[string]string{"agent.md": agentDoc})

	rule := &PatternPresent{
		Name:    "missing section",
		File:    "agent.md",
		Section: "### PLAN Phase",
		Pattern: "anything",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, `section "### PLAN Phase" not found`)
}

func TestPatternPresent_FileNotFound(t *testing.T) {
	store := newStore(t, nil)

	rule := &PatternPresent{Name: "missing file", File: "absent.md", Pattern: "x"}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "FILE NOT FOUND: absent.md")
}

func TestPatternPresent_Alternation(t *testing.T) {
	store := newStore(t, map[string]string{"agent.md": "mentions worktree-cleanup only\n"})

	rule := &PatternPresent{Name: "either skill", File: "agent.md", Pattern: "worktree-setup|worktree-cleanup"}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestPatternPresent_ReportsMissingAlternatives(t *testing.T) {
	store := newStore(t, map[string]string{"agent.md": "no skills mentioned here\n"})

	rule := &PatternPresent{Name: "either skill", File: "agent.md", Pattern: "worktree-setup|worktree-cleanup"}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, []string{"worktree-setup", "worktree-cleanup"}, out.Missing)
}

func TestPatternPresent_EmptyPatternIsInternalError(t *testing.T) {
	store := newStore(t, map[string]string{"agent.md": agentDoc})

	rule := &PatternPresent{Name: "bad decl", File: "agent.md", Pattern: ""}
	_, err := rule.Eval(store)
	assert.Error(t, err)
}

func TestPatternAbsent(t *testing.T) {
	store := newStore(t, map[string]string{"cmd.md": "uses task_scope everywhere\n"})

	rule := &PatternAbsent{Name: "no legacy id", File: "cmd.md", Pattern: "scope_id"}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestPatternAbsent_Violation(t *testing.T) {
	store := newStore(t, map[string]string{"cmd.md": "still mentions scope_id here\n"})

	rule := &PatternAbsent{Name: "no legacy id", File: "cmd.md", Pattern: "scope_id"}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "should NOT be present")
}

// Presence and absence of the same pattern must never both pass.
func TestPresenceAbsenceDuality(t *testing.T) {
	for _, content := range []string{"has scope_id\n", "clean\n"} {
		store := newStore(t, map[string]string{"cmd.md": content})

		present, err := (&PatternPresent{Name: "p", File: "cmd.md", Pattern: "scope_id"}).Eval(store)
		require.NoError(t, err)
		absent, err := (&PatternAbsent{Name: "a", File: "cmd.md", Pattern: "scope_id"}).Eval(store)
		require.NoError(t, err)

		assert.False(t, present.Passed && absent.Passed)
		assert.True(t, present.Passed || absent.Passed)
	}
}

func TestVerbatimMatch(t *testing.T) {
	source := "line 1\nline 2\nline 3\nline 4\nline 5\n"
	store := newStore(t, map[string]string{
		"source.md":  source,
		"extract.md": "line 2\nline 3\n",
	})

	rule := &VerbatimMatch{
		Name:         "extract matches",
		SourceFile:   "source.md",
		SourceRanges: []document.LineRange{{Start: 2, End: 3}},
		TargetFile:   "extract.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestVerbatimMatch_Mismatch(t *testing.T) {
	store := newStore(t, map[string]string{
		"source.md":  "line 1\nline 2\nline 3\n",
		"extract.md": "line 2\nline CHANGED\n",
	})

	rule := &VerbatimMatch{
		Name:         "extract matches",
		SourceFile:   "source.md",
		SourceRanges: []document.LineRange{{Start: 2, End: 3}},
		TargetFile:   "extract.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "- line 3")
	assert.Contains(t, out.Detail, "+ line CHANGED")
}

func TestVerbatimMatch_DiffIsBounded(t *testing.T) {
	var src, tgt strings.Builder
	for i := 0; i < 100; i++ {
		src.WriteString("source line\n")
		tgt.WriteString("target line\n")
	}
	store := newStore(t, map[string]string{
		"source.md":  src.String(),
		"extract.md": tgt.String(),
	})

	rule := &VerbatimMatch{
		Name:         "big mismatch",
		SourceFile:   "source.md",
		SourceRanges: []document.LineRange{{Start: 1, End: 100}},
		TargetFile:   "extract.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	require.False(t, out.Passed)

	// Header line plus at most maxDiffLines of diff.
	assert.LessOrEqual(t, len(strings.Split(out.Detail, "\n")), maxDiffLines+1)
	assert.Contains(t, out.Detail, "more lines")
}

func TestVerbatimMatch_RangePastEOFIsFailure(t *testing.T) {
	store := newStore(t, map[string]string{
		"source.md":  "only\ntwo lines\n",
		"extract.md": "whatever\n",
	})

	rule := &VerbatimMatch{
		Name:         "stale range",
		SourceFile:   "source.md",
		SourceRanges: []document.LineRange{{Start: 1, End: 50}},
		TargetFile:   "extract.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "invalid range")
}

const protocolDoc = "# Protocol\n\n## Setup\n\nRun the setup skill.\n\n## Teardown\n\nRun the cleanup skill.\n"

func TestSectionExtract(t *testing.T) {
	store := newStore(t, map[string]string{
		"protocol.md": protocolDoc,
		"setup.md":    "## Setup\n\nRun the setup skill.\n\n",
	})

	rule := &SectionExtract{
		Name:          "setup extract",
		SourceFile:    "protocol.md",
		SourceSection: "## Setup",
		TargetFile:    "setup.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestSectionExtract_Mismatch(t *testing.T) {
	store := newStore(t, map[string]string{
		"protocol.md": protocolDoc,
		"setup.md":    "## Setup\n\nRun a DIFFERENT skill.\n\n",
	})

	rule := &SectionExtract{
		Name:          "setup extract",
		SourceFile:    "protocol.md",
		SourceSection: "## Setup",
		TargetFile:    "setup.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "setup.md does not match its source in protocol.md")
}

func TestSectionExtract_SectionMissing(t *testing.T) {
	store := newStore(t, map[string]string{
		"protocol.md": protocolDoc,
		"setup.md":    "anything\n",
	})

	rule := &SectionExtract{
		Name:          "gone extract",
		SourceFile:    "protocol.md",
		SourceSection: "## Gone",
		TargetFile:    "setup.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, `section "## Gone" not found`)
}

func TestCrossReference(t *testing.T) {
	store := newStore(t, map[string]string{
		"a.md": "see b.md for details\n",
		"b.md": "see a.md for details\n",
	})

	rule := &CrossReference{
		Name:     "a and b linked",
		FileA:    "a.md",
		PatternA: "b.md",
		FileB:    "b.md",
		PatternB: "a.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestCrossReference_OneSideBroken(t *testing.T) {
	store := newStore(t, map[string]string{
		"a.md": "see b.md for details\n",
		"b.md": "no backlink here\n",
	})

	rule := &CrossReference{
		Name:     "a and b linked",
		FileA:    "a.md",
		PatternA: "b.md",
		FileB:    "b.md",
		PatternB: "a.md",
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, "cross-reference broken")
	assert.Contains(t, out.Detail, "b.md")
	// The working side is not blamed.
	assert.NotContains(t, out.Detail, `pattern "b.md" not found`)
}

const lifecycleDoc = "# Orchestrator\n\n## Lifecycle\n\nFirst ATOMIZE, then PLAN, then ACT, then CHECK, then CONSOLIDATE.\n"

func TestStagePresence(t *testing.T) {
	store := newStore(t, map[string]string{"orch.md": lifecycleDoc})

	rule := &StagePresence{
		Name:    "all stages",
		File:    "orch.md",
		Section: "## Lifecycle",
		Stages:  []string{"ATOMIZE", "PLAN", "ACT", "CHECK", "CONSOLIDATE"},
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestStagePresence_MissingStages(t *testing.T) {
	store := newStore(t, map[string]string{
		"orch.md": "# Orchestrator\n\n## Lifecycle\n\nOnly ATOMIZE and ACT are described.\n",
	})

	rule := &StagePresence{
		Name:    "all stages",
		File:    "orch.md",
		Section: "## Lifecycle",
		Stages:  []string{"ATOMIZE", "PLAN", "ACT", "CHECK", "CONSOLIDATE"},
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, []string{"PLAN", "CHECK", "CONSOLIDATE"}, out.Missing)
}

func TestStagePresence_UnorderedByDefault(t *testing.T) {
	store := newStore(t, map[string]string{
		"orch.md": "# O\n\n## Lifecycle\n\nCONSOLIDATE CHECK ACT PLAN ATOMIZE\n",
	})

	rule := &StagePresence{
		Name:    "stages",
		File:    "orch.md",
		Section: "## Lifecycle",
		Stages:  []string{"ATOMIZE", "PLAN", "ACT", "CHECK", "CONSOLIDATE"},
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestStagePresence_Ordered(t *testing.T) {
	store := newStore(t, map[string]string{
		"orch.md": "# O\n\n## Lifecycle\n\nPLAN comes before ATOMIZE here\n",
	})

	rule := &StagePresence{
		Name:    "stages in order",
		File:    "orch.md",
		Section: "## Lifecycle",
		Stages:  []string{"ATOMIZE", "PLAN"},
		Ordered: true,
	}
	out, err := rule.Eval(store)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Detail, `stage "PLAN" appears before "ATOMIZE"`)
}

func TestStagePresence_NoStagesIsInternalError(t *testing.T) {
	store := newStore(t, map[string]string{"orch.md": lifecycleDoc})

	rule := &StagePresence{Name: "empty", File: "orch.md", Stages: nil}
	_, err := rule.Eval(store)
	assert.Error(t, err)
}
