package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPattern_Literal(t *testing.T) {
	p := Pattern("worktree-setup")

	assert.True(t, p.Match("run the worktree-setup skill"))
	assert.False(t, p.Match("run the worktree-cleanup skill"))
}

func TestPattern_Alternation(t *testing.T) {
	p := Pattern("worktree-setup|worktree-cleanup")

	assert.True(t, p.Match("only worktree-cleanup here"))
	assert.True(t, p.Match("only worktree-setup here"))
	assert.False(t, p.Match("neither skill mentioned"))
}

func TestPattern_NoRegexSemantics(t *testing.T) {
	// Metacharacters other than | are literal text.
	p := Pattern("a.b")

	assert.True(t, p.Match("a.b"))
	assert.False(t, p.Match("axb"))
}

func TestPattern_Missing(t *testing.T) {
	p := Pattern("one|two|three")

	assert.Equal(t, []string{"one", "three"}, p.Missing("only two here"))
	assert.Nil(t, p.Missing("one two three"))
}

func TestPattern_Validate(t *testing.T) {
	assert.NoError(t, Pattern("ok").Validate())
	assert.NoError(t, Pattern("a|b").Validate())
	assert.Error(t, Pattern("").Validate())
	assert.Error(t, Pattern("a||b").Validate())
	assert.Error(t, Pattern("trailing|").Validate())
}

func TestDiffLines_Identical(t *testing.T) {
	assert.Empty(t, diffLines("same\n", "same\n", maxDiffLines))
}

func TestDiffLines_PointsAtFirstDifference(t *testing.T) {
	want := "a\nb\nc\n"
	got := "a\nB\nc\n"

	diff := diffLines(want, got, maxDiffLines)

	assert.Equal(t, []string{
		"@@ first difference at line 2 @@",
		"- b",
		"+ B",
	}, diff)
}

func TestDiffLines_Truncates(t *testing.T) {
	var want, got string
	for i := 0; i < 50; i++ {
		want += "w\n"
		got += "g\n"
	}

	diff := diffLines(want, got, maxDiffLines)

	assert.LessOrEqual(t, len(diff), maxDiffLines)
	assert.Contains(t, diff[len(diff)-1], "more lines")
}
