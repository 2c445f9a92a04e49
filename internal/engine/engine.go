// Package engine implements the Rule Engine: given a document and the
// current settings, it runs every registered rule family and returns the
// severity-resolved diagnostics for that document, per spec.md §4.6.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/policy"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
	"github.com/project-sakanah/udonsharp-linter/internal/workspace"
)

// Diagnostic is a Violation with its severity already resolved against
// the Policy Repository and current settings, per spec.md §3.
type Diagnostic struct {
	rules.Violation
	Severity rules.Severity
}

// Engine wires the Policy Repository into the rule registry.
type Engine struct {
	repo *policy.Repository
	reg  *rules.Registry
	log  *logrus.Logger
}

// New constructs an Engine running every family registered in reg against
// severities resolved from repo.
func New(repo *policy.Repository, reg *rules.Registry, log *logrus.Logger) *Engine {
	return &Engine{repo: repo, reg: reg, log: log}
}

// Analyze implements the six-step algorithm from spec.md §4.6. ctx
// cancellation causes an empty result without publishing, per spec.md §5.
func (e *Engine) Analyze(ctx context.Context, proj *workspace.Project, doc *workspace.Document) []Diagnostic {
	if doc == nil || doc.File == nil {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	runID := uuid.NewString()
	log := e.log.WithField("runID", runID).WithField("path", doc.URI)

	model := semantic.Build(collectFiles(proj))
	input := rules.CheckInput{
		Path:        doc.URI,
		File:        doc.File,
		ParseErrors: doc.ParseErrors,
		Source:      []byte(doc.Text),
		Semantic:    model,
		References:  proj.References,
	}

	families := e.reg.Families()
	results := make([][]rules.Violation, len(families))
	log.WithField("families", len(families)).Debug("engine: analysis run started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))
	for i, fam := range families {
		i, fam := i, fam
		g.Go(func() (err error) {
			if gctx.Err() != nil {
				return nil
			}
			defer func() {
				if r := recover(); r != nil {
					log.WithField("family", fmt.Sprintf("%T", fam)).WithField("panic", r).
						Error("engine: rule family panicked, dropping its findings for this run")
				}
			}()
			results[i] = fam.Check(input)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil
	}

	var out []Diagnostic
	for _, vs := range results {
		for _, v := range vs {
			if v.Location.File != "" && v.Location.File != doc.URI {
				continue
			}
			sev, _ := e.repo.GetSeverity(v.RuleCode, &proj.Settings)
			out = append(out, Diagnostic{Violation: v, Severity: sev})
		}
	}
	return out
}

func collectFiles(proj *workspace.Project) map[string]*csharp.File {
	out := make(map[string]*csharp.File, len(proj.Documents))
	for uri, doc := range proj.Documents {
		out[uri] = doc.File
	}
	return out
}
