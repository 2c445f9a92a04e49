package lspserver

import (
	"context"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/exp/jsonrpc2"

	protocol "github.com/project-sakanah/udonsharp-linter/internal/lsp/protocol"
	"github.com/project-sakanah/udonsharp-linter/internal/engine"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/workspace"
)

// publishDiagnostics analyzes doc against the current project snapshot
// and sends one publishDiagnostics notification, per spec.md §4.8.
func (s *Server) publishDiagnostics(ctx context.Context, doc *workspace.Document) {
	if doc == nil {
		return
	}
	proj := s.ws.Current()
	diags := s.eng.Analyze(ctx, proj, doc)
	if ctx.Err() != nil {
		// Cancelled mid-run: no diagnostics published for it, per spec.md §5.
		return
	}

	if err := lspNotify(ctx, s.conn, "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(doc.URI),
		Diagnostics: convertDiagnostics(diags),
	}); err != nil {
		s.log.WithError(err).WithField("uri", doc.URI).Error("lsp: failed to publish diagnostics")
	}
}

// clearDiagnostics publishes an empty diagnostic set for a closed URI.
func clearDiagnostics(ctx context.Context, conn *jsonrpc2.Connection, docURI string) {
	_ = lspNotify(ctx, conn, "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(docURI),
		Diagnostics: []protocol.Diagnostic{},
	})
}

// convertDiagnostics converts engine Diagnostics to the LSP wire shape.
func convertDiagnostics(diags []engine.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		item := protocol.Diagnostic{
			Range:    violationRange(d.Violation),
			Severity: severityToLSP(d.Severity),
			Code:     d.RuleCode,
			Source:   "UdonSharp",
			Message:  d.Message,
		}
		if d.DocURL != "" {
			item.CodeDescription = &protocol.CodeDescription{Href: protocol.URI(d.DocURL)}
		}
		out = append(out, item)
	}
	return out
}

// violationRange converts a Location to an LSP Range: the analyser uses
// 1-based lines and 0-based columns; LSP uses 0-based lines and
// characters throughout. A file-level location clamps to (0,0)-(0,0),
// per spec.md §4.8.
func violationRange(v rules.Violation) protocol.Range {
	loc := v.Location
	if loc.IsFileLevel() {
		return protocol.Range{}
	}

	startLine := clampUint32(loc.Start.Line - 1)
	startChar := clampUint32(loc.Start.Column)

	endLine := startLine
	endChar := startChar
	if !loc.IsPointLocation() {
		endLine = clampUint32(loc.End.Line - 1)
		endChar = clampUint32(loc.End.Column)
	}
	if endLine == startLine && endChar == startChar {
		endChar++
	}

	return protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

// severityToLSP maps a resolved Severity to the LSP severity enum, per
// spec.md §4.8's {Error→1, Warning→2, Information→3, Hidden→4} table.
func severityToLSP(s rules.Severity) protocol.DiagnosticSeverity {
	return protocol.DiagnosticSeverity(s.LSPSeverity())
}

func clampUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v) //nolint:gosec // line/column numbers are well within uint32 range
}

// uriToPath converts a file:// URI to a local filesystem path.
func uriToPath(docURI string) string {
	parsed, err := url.Parse(docURI)
	if err != nil {
		return strings.TrimPrefix(docURI, "file://")
	}
	path := parsed.Path
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}
