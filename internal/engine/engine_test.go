package engine

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/policy"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/settings"
	"github.com/project-sakanah/udonsharp-linter/internal/workspace"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// stubFamily reports one fixed violation per Check call.
type stubFamily struct {
	violations []rules.Violation
}

func (f stubFamily) Codes() []string { return []string{"USH0001"} }
func (f stubFamily) Check(_ rules.CheckInput) []rules.Violation {
	return f.violations
}

// panicFamily always panics, to exercise the engine's per-family recover.
type panicFamily struct{}

func (panicFamily) Codes() []string                       { return []string{"USH0002"} }
func (panicFamily) Check(_ rules.CheckInput) []rules.Violation { panic("boom") }

func newProject(t *testing.T, uri, text string) *workspace.Project {
	t.Helper()
	file, errs := csharp.ParseFile(uri, []byte(text))
	return &workspace.Project{
		Documents: map[string]*workspace.Document{
			uri: {URI: uri, Text: text, File: file, ParseErrors: errs},
		},
		Settings: settings.Default(),
	}
}

func newTestRepo() *policy.Repository {
	return policy.NewRepository(map[string]policy.RuleDefinition{
		"USH0001": {ID: "USH0001", DefaultSeverity: "error"},
		"USH0002": {ID: "USH0002", DefaultSeverity: "warning"},
	})
}

func TestAnalyze_ResolvesSeverityFromRepository(t *testing.T) {
	t.Parallel()
	uri := "file:///a.cs"
	proj := newProject(t, uri, "class A {}")
	doc := proj.Documents[uri]

	reg := rules.NewRegistry()
	reg.Register(stubFamily{violations: []rules.Violation{
		{RuleCode: "USH0001", Location: rules.NewFileLocation(uri)},
	}})

	e := New(newTestRepo(), reg, discardLogger())
	diags := e.Analyze(context.Background(), proj, doc)

	require.Len(t, diags, 1)
	assert.Equal(t, "USH0001", diags[0].RuleCode)
	assert.Equal(t, rules.SeverityError, diags[0].Severity)
}

func TestAnalyze_FiltersViolationsToOtherFiles(t *testing.T) {
	t.Parallel()
	uri := "file:///a.cs"
	proj := newProject(t, uri, "class A {}")
	doc := proj.Documents[uri]

	reg := rules.NewRegistry()
	reg.Register(stubFamily{violations: []rules.Violation{
		{RuleCode: "USH0001", Location: rules.NewFileLocation("file:///other.cs")},
	}})

	e := New(newTestRepo(), reg, discardLogger())
	diags := e.Analyze(context.Background(), proj, doc)

	assert.Empty(t, diags)
}

func TestAnalyze_RecoversFromPanickingFamily(t *testing.T) {
	t.Parallel()
	uri := "file:///a.cs"
	proj := newProject(t, uri, "class A {}")
	doc := proj.Documents[uri]

	reg := rules.NewRegistry()
	reg.Register(panicFamily{})
	reg.Register(stubFamily{violations: []rules.Violation{
		{RuleCode: "USH0001", Location: rules.NewFileLocation(uri)},
	}})

	e := New(newTestRepo(), reg, discardLogger())

	var diags []Diagnostic
	assert.NotPanics(t, func() {
		diags = e.Analyze(context.Background(), proj, doc)
	})
	require.Len(t, diags, 1)
	assert.Equal(t, "USH0001", diags[0].RuleCode)
}

func TestAnalyze_CancelledContextReturnsNil(t *testing.T) {
	t.Parallel()
	uri := "file:///a.cs"
	proj := newProject(t, uri, "class A {}")
	doc := proj.Documents[uri]

	reg := rules.NewRegistry()
	reg.Register(stubFamily{violations: []rules.Violation{
		{RuleCode: "USH0001", Location: rules.NewFileLocation(uri)},
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(newTestRepo(), reg, discardLogger())
	diags := e.Analyze(ctx, proj, doc)
	assert.Nil(t, diags)
}

func TestAnalyze_NilDocumentReturnsNil(t *testing.T) {
	t.Parallel()
	proj := &workspace.Project{Documents: map[string]*workspace.Document{}}
	reg := rules.NewRegistry()
	e := New(newTestRepo(), reg, discardLogger())
	assert.Nil(t, e.Analyze(context.Background(), proj, nil))
}
