package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepoRoot creates a minimal document repository with the expected
// top-level layout plus the given files.
func newRepoRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "agents"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "commands"), 0755))
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestVerifyTool(t *testing.T) {
	s := NewServer(newRepoRoot(t, nil))

	res, err := s.handleVerify(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "=== Summary ===")
	assert.Contains(t, out, "VERIFICATION FAILED")
}

func TestVerifySuiteTool(t *testing.T) {
	s := NewServer(newRepoRoot(t, nil))

	res, err := s.handleVerifySuite(context.Background(),
		toolRequest(map[string]any{"suite": "scope-integrity"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "Scope Integrity Verification")
	// The layout exists but the documents do not.
	assert.Contains(t, out, "FILE NOT FOUND")
}

func TestVerifySuiteTool_UnknownSuite(t *testing.T) {
	s := NewServer(newRepoRoot(t, nil))

	res, err := s.handleVerifySuite(context.Background(),
		toolRequest(map[string]any{"suite": "nonexistent"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestVerifySuiteTool_MissingParam(t *testing.T) {
	s := NewServer(newRepoRoot(t, nil))

	res, err := s.handleVerifySuite(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListSuitesTool(t *testing.T) {
	s := NewServer(newRepoRoot(t, nil))

	res, err := s.handleListSuites(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	for _, name := range []string{"protocol-extracts", "scope-integrity", "task-hierarchy", "worktree-protocol"} {
		assert.Contains(t, out, name)
	}
}

func TestFindSectionTool(t *testing.T) {
	root := newRepoRoot(t, map[string]string{
		"protocols/delegation.md": "# Delegation\n\n## Review Gates\n\nNo merge without review.\n\n## Escalation\n\nRaise it.\n",
	})
	s := NewServer(root)

	res, err := s.handleFindSection(context.Background(), toolRequest(map[string]any{
		"file":    "protocols/delegation.md",
		"heading": "## Review Gates",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "## Review Gates\n\nNo merge without review.\n\n", resultText(t, res))
}

func TestFindSectionTool_Errors(t *testing.T) {
	root := newRepoRoot(t, map[string]string{
		"protocols/delegation.md": "# Delegation\n",
	})
	s := NewServer(root)

	res, err := s.handleFindSection(context.Background(), toolRequest(map[string]any{
		"file":    "protocols/delegation.md",
		"heading": "## Gone",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleFindSection(context.Background(), toolRequest(map[string]any{
		"file":    "protocols/missing.md",
		"heading": "## Anything",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleFindSection(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
