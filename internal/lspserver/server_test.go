package lspserver

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/project-sakanah/udonsharp-linter/internal/lsp/protocol"
	"github.com/project-sakanah/udonsharp-linter/internal/policy"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/settings"
)

func TestViolationRangeConversion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		location rules.Location
		expected protocol.Range
	}{
		{
			name:     "file-level",
			location: rules.NewFileLocation("test"),
			expected: protocol.Range{},
		},
		{
			name:     "point location widens by one character",
			location: rules.NewPointLocation("test", 1, 0),
			expected: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 1},
			},
		},
		{
			name:     "range",
			location: rules.NewRangeLocation("test", 3, 5, 3, 15),
			expected: protocol.Range{
				Start: protocol.Position{Line: 2, Character: 5},
				End:   protocol.Position{Line: 2, Character: 15},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := rules.Violation{Location: tt.location}
			got := violationRange(v)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSeverityConversion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, protocol.DiagnosticSeverity(1), severityToLSP(rules.SeverityError))
	assert.Equal(t, protocol.DiagnosticSeverity(2), severityToLSP(rules.SeverityWarning))
	assert.Equal(t, protocol.DiagnosticSeverity(3), severityToLSP(rules.SeverityInformation))
	assert.Equal(t, protocol.DiagnosticSeverity(4), severityToLSP(rules.SeverityHidden))
}

func TestURIToPath(t *testing.T) {
	t.Parallel()
	path := uriToPath("file:///tmp/Script.cs")
	assert.Equal(t, filepath.FromSlash("/tmp/Script.cs"), path)
}

func TestExtractSection_Wrapped(t *testing.T) {
	t.Parallel()
	v := map[string]any{
		"udonsharpLinter": map[string]any{"profile": "strict"},
	}
	section, ok := extractSection(v, settings.ConfigKey)
	require.True(t, ok)
	assert.Equal(t, "strict", section["profile"])
}

func TestExtractSection_Bare(t *testing.T) {
	t.Parallel()
	v := map[string]any{"profile": "strict"}
	section, ok := extractSection(v, settings.ConfigKey)
	require.True(t, ok)
	assert.Equal(t, "strict", section["profile"])
}

func TestExtractSection_NotAMap(t *testing.T) {
	t.Parallel()
	_, ok := extractSection("not a map", settings.ConfigKey)
	assert.False(t, ok)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(testWriter{t})
	repo := policy.NewRepository(map[string]policy.RuleDefinition{
		"USH0001": {ID: "USH0001", Title: "Unresolvable member", Category: "api-exposure", DefaultSeverity: "error"},
	})
	reg := rules.NewRegistry()
	s := New(log, repo, reg, t.TempDir(), t.TempDir())
	s.ws.Initialise(settings.Default(), t.TempDir())
	return s
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestHandleRulesList(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	result, err := s.handleRulesList()
	require.NoError(t, err)
	entries, ok := result.([]protocol.RuleListEntry)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "USH0001", entries[0].ID)
}

func TestHandleRuleDocumentation_MissingRule(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	result, err := s.handleRuleDocumentation(&protocol.RuleDocumentationParams{RuleID: "USH9999"})
	require.NoError(t, err)
	doc, ok := result.(*protocol.RuleDocumentationResult)
	require.True(t, ok)
	assert.Equal(t, "Documentation not available.", doc.Markdown)
	assert.Equal(t, "en-US", doc.Locale)
}

func TestHandleServerStatus(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	result, err := s.handleServerStatus()
	require.NoError(t, err)
	status, ok := result.(*protocol.ServerStatusResult)
	require.True(t, ok)
	assert.Equal(t, 1, status.TotalRuleCount)
	assert.Equal(t, "latest", status.Profile)
}

func TestApplySettings_RebuildsOnlyWhenChanged(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	root := t.TempDir()

	before := s.ws.Current()
	s.applySettings(map[string]any{"profile": "latest"}, root)
	after := s.ws.Current()
	assert.Same(t, before, after, "unchanged settings must not rebuild the workspace snapshot")

	s.applySettings(map[string]any{"profile": "strict"}, root)
	changedAfter := s.ws.Current()
	assert.NotSame(t, after, changedAfter, "a changed profile must rebuild the workspace snapshot")
}

func TestHandleDidOpenAndClose_NoConn(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	// Without a live jsonrpc2.Connection the handlers cannot publish, so
	// this exercises the workspace open/close steps they perform directly.
	uri := "file:///tmp/Script.cs"
	doc := s.ws.OpenOrUpdate(uri, "class Script { }")
	assert.Equal(t, uri, doc.URI)

	s.ws.Remove(uri)
	assert.Nil(t, s.ws.Get(uri))
}
