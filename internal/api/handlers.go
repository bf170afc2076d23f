package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ternarybob/docguard/pkg/verify"
)

// version is set via -ldflags at build time
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// Response types

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuiteResponse describes one verification suite.
type SuiteResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RuleCount   int      `json:"rule_count"`
	Rules       []string `json:"rules,omitempty"`
}

// VerifyRequest is the request body for verification runs. Root overrides
// the configured default repository root.
type VerifyRequest struct {
	Root string `json:"root,omitempty"`
}

// VerifyResponse wraps a verification report with the printed text output.
type VerifyResponse struct {
	Root   string        `json:"root"`
	OK     bool          `json:"ok"`
	Report verify.Report `json:"report"`
	Output string        `json:"output"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version,
		Service: "docguard-service",
	})
}

func (s *Server) handleListSuites(w http.ResponseWriter, r *http.Request) {
	suites := verify.BuiltinSuites()
	resp := make([]SuiteResponse, 0, len(suites))
	for _, suite := range suites {
		resp = append(resp, SuiteResponse{
			Name:        suite.Name,
			Description: suite.Description,
			RuleCount:   len(suite.Rules),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSuite(w http.ResponseWriter, r *http.Request) {
	suite, ok := verify.SuiteByName(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Suite not found")
		return
	}

	resp := SuiteResponse{
		Name:        suite.Name,
		Description: suite.Description,
		RuleCount:   len(suite.Rules),
	}
	for _, rule := range suite.Rules {
		resp.Rules = append(resp.Rules, rule.Title())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	s.runVerification(w, r, verify.BuiltinSuites())
}

func (s *Server) handleVerifySuite(w http.ResponseWriter, r *http.Request) {
	suite, ok := verify.SuiteByName(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Suite not found")
		return
	}
	s.runVerification(w, r, []verify.Suite{suite})
}

// runVerification resolves the root, runs the suites, and writes the report.
func (s *Server) runVerification(w http.ResponseWriter, r *http.Request, suites []verify.Suite) {
	var req VerifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	root := req.Root
	if root == "" {
		root = s.cfg.Verify.Root
	}
	if root == "" {
		writeError(w, http.StatusBadRequest, "No repository root configured; set verify.root or pass root in the request")
		return
	}

	var buf bytes.Buffer
	runner := verify.NewRunner(root, &buf)
	report := runner.RunAll(suites)
	runner.WriteSummary(report)

	writeJSON(w, http.StatusOK, VerifyResponse{
		Root:   root,
		OK:     report.OK(),
		Report: report,
		Output: buf.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
