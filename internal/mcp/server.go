// Package mcp exposes verification over the Model Context Protocol so an AI
// assistant can check document invariants from inside an editing session.
package mcp

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/docguard/pkg/document"
	"github.com/ternarybob/docguard/pkg/verify"
)

// Server wraps the verification runner to provide MCP tool access.
type Server struct {
	root   string
	server *server.MCPServer
}

// NewServer creates a new MCP server verifying the repository at root.
func NewServer(root string) *Server {
	s := &Server{root: root}

	mcpServer := server.NewMCPServer(
		"docguard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	// verify - Run all suites
	mcpServer.AddTool(
		mcp.NewTool("verify",
			mcp.WithDescription("Run all document verification suites and return the full report. Use after editing agent, command, or protocol files."),
		),
		s.handleVerify,
	)

	// verify_suite - Run one suite
	mcpServer.AddTool(
		mcp.NewTool("verify_suite",
			mcp.WithDescription("Run a single verification suite by name."),
			mcp.WithString("suite",
				mcp.Required(),
				mcp.Description("Suite name (e.g., 'protocol-extracts', 'scope-integrity')"),
			),
		),
		s.handleVerifySuite,
	)

	// list_suites - List available suites
	mcpServer.AddTool(
		mcp.NewTool("list_suites",
			mcp.WithDescription("List the available verification suites and their rules."),
		),
		s.handleListSuites,
	)

	// find_section - Extract a heading-bounded section
	mcpServer.AddTool(
		mcp.NewTool("find_section",
			mcp.WithDescription("Extract a heading-bounded section from a Markdown file. Useful for checking what an extract rule will compare against."),
			mcp.WithString("file",
				mcp.Required(),
				mcp.Description("File path relative to the repository root (e.g., 'protocols/delegation.md')"),
			),
			mcp.WithString("heading",
				mcp.Required(),
				mcp.Description("Heading text to locate (e.g., '## Worktree Lifecycle')"),
			),
		),
		s.handleFindSection,
	)
}

// handleVerify handles the verify tool.
func (s *Server) handleVerify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(verify.BuiltinSuites())
}

// handleVerifySuite handles the verify_suite tool.
func (s *Server) handleVerifySuite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("suite", "")
	if name == "" {
		return mcp.NewToolResultError("suite parameter is required"), nil
	}

	suite, ok := verify.SuiteByName(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown suite %q", name)), nil
	}

	return s.run([]verify.Suite{suite})
}

// handleListSuites handles the list_suites tool.
func (s *Server) handleListSuites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, suite := range verify.BuiltinSuites() {
		fmt.Fprintf(&sb, "%s - %s (%d rules)\n", suite.Name, suite.Description, len(suite.Rules))
		for _, rule := range suite.Rules {
			fmt.Fprintf(&sb, "  - %s\n", rule.Title())
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleFindSection handles the find_section tool.
func (s *Server) handleFindSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	if file == "" {
		return mcp.NewToolResultError("file parameter is required"), nil
	}
	heading := request.GetString("heading", "")
	if heading == "" {
		return mcp.NewToolResultError("heading parameter is required"), nil
	}

	doc, err := document.Load(filepath.Join(s.root, file))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load %s: %v", file, err)), nil
	}

	content, ok := doc.Section(heading)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("section %q not found in %s", heading, file)), nil
	}

	return mcp.NewToolResultText(content), nil
}

// run executes suites and returns the text report.
func (s *Server) run(suites []verify.Suite) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	runner := verify.NewRunner(s.root, &buf)
	report := runner.RunAll(suites)
	runner.WriteSummary(report)
	return mcp.NewToolResultText(buf.String()), nil
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}
