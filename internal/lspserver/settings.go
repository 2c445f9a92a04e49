package lspserver

import (
	"context"

	protocol "github.com/project-sakanah/udonsharp-linter/internal/lsp/protocol"
	"github.com/project-sakanah/udonsharp-linter/internal/settings"
)

// handleDidChangeConfiguration extracts the udonsharpLinter section,
// re-resolves settings, reloads policy packs, rebuilds references if the
// surface changed, and re-publishes diagnostics for every open document,
// per spec.md §4.9.
func (s *Server) handleDidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) {
	payload, ok := extractSection(params.Settings, settings.ConfigKey)
	if !ok {
		s.log.Warn("lsp: didChangeConfiguration: unable to parse settings payload")
		return
	}

	s.mu.Lock()
	root := s.workspaceRoot
	s.mu.Unlock()
	s.applySettings(payload, root)

	proj := s.ws.Current()
	for _, doc := range proj.Documents {
		s.publishDiagnostics(ctx, doc)
	}
}
