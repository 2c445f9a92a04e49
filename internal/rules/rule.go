package rules

import (
	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/sourcemap"
)

// CheckInput contains everything a rule family needs to check one document.
// A family sees the whole parsed file (not a single type or method) because
// several rule IDs only make sense against the full set of declarations
// (e.g. detecting duplicate UdonSynced field names across a script).
//
// CheckInput is read-only. Families must not mutate File, Source, or
// Semantic; if a family needs to work with derived data it should copy it.
type CheckInput struct {
	// Path is the document path (as seen by the editor/workspace), used to
	// build Locations.
	Path string

	// File is the parsed syntax tree for the document. Guaranteed non-nil;
	// a document that failed to parse entirely still yields an empty File
	// so that families can run without special-casing nil.
	File *csharp.File

	// ParseErrors are parser recovery diagnostics for Path. Families
	// generally ignore these; the engine surfaces them separately.
	ParseErrors []error

	// Source is the raw document text, used for snippet extraction.
	Source []byte

	// Semantic is the best-effort symbol resolution for this workspace.
	// Declared as any to avoid an import cycle with internal/semantic;
	// families that need it type-assert to *semantic.Model.
	Semantic any

	// References describes which UdonSharp API surface is considered
	// known for resolution purposes (base runtime plus any stub set
	// loaded by the Reference Resolver). Declared as any for the same
	// reason as Semantic.
	References any
}

// SourceMap builds a SourceMap over Source on demand, for snippet extraction.
func (in CheckInput) SourceMap() *sourcemap.SourceMap {
	return sourcemap.New(in.Source)
}

// SnippetForLocation extracts the source text spanned by loc, or "" for a
// file-level (synthetic) location.
func (in CheckInput) SnippetForLocation(loc Location) string {
	if loc.IsFileLevel() {
		return ""
	}
	sm := in.SourceMap()
	if loc.Start.Line < 1 {
		return ""
	}
	endLine := loc.End.Line
	if endLine < loc.Start.Line {
		endLine = loc.Start.Line
	}
	// Location is 1-based; SourceMap is 0-based.
	return sm.Snippet(loc.Start.Line-1, endLine-1)
}

// RuleMetadata is the static, catalogue-level description of one rule ID.
// The bundled policy pack is not decoded into this type: its entries decode
// into policy.RuleDefinition, whose JSON keys differ.
type RuleMetadata struct {
	// Code is the rule identifier, e.g. "USH0001".
	Code string `json:"code"`

	// Name is a short human-readable title.
	Name string `json:"name"`

	// Description explains what the rule checks and why it matters for
	// UdonSharp scripts specifically.
	Description string `json:"description"`

	// DocURL links to detailed documentation, when available.
	DocURL string `json:"docUrl,omitempty"`

	// DefaultSeverity is the severity used when no policy pack or setting
	// overrides it.
	DefaultSeverity Severity `json:"defaultSeverity"`

	// Category groups related rules for the rules-list UI, e.g.
	// "network-events", "synchronization", "api-exposure".
	Category string `json:"category"`

	// EnabledByDefault indicates whether the rule runs without explicit
	// opt-in.
	EnabledByDefault bool `json:"enabledByDefault"`

	// HasCodeFix advertises that an editor *could* offer a fix for this
	// rule. The engine never computes the fix itself (see Non-goals);
	// this is metadata only.
	HasCodeFix bool `json:"hasCodeFix"`
}

// Family groups the rule IDs that share a single analysis pass over a
// document. UdonSharp's accept/reject rules frequently need to emit more
// than one rule ID from one piece of analysis (e.g. inspecting a method
// call can simultaneously flag a disallowed API and a related structural
// issue), so a family is not a 1:1 wrapper around a single rule ID the way
// a simpler per-rule interface would be.
type Family interface {
	// Codes returns every rule ID this family can emit, in catalogue
	// order. The Registry indexes families by these codes and panics when
	// two families claim the same code.
	Codes() []string

	// Check analyzes one document and returns every violation the family
	// found, tagged with the relevant rule code in each Violation.
	Check(input CheckInput) []Violation
}
