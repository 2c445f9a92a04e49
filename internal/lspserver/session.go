package lspserver

import (
	"sort"

	protocol "github.com/project-sakanah/udonsharp-linter/internal/lsp/protocol"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/version"
)

// handleRulesList implements udonsharp/rules/list, per spec.md §4.9.
func (s *Server) handleRulesList() (any, error) {
	st := s.settingsSnapshot()
	defs := s.repo.AllRules()

	out := make([]protocol.RuleListEntry, 0, len(defs))
	for _, def := range defs {
		sev, _ := s.repo.GetSeverity(def.ID, &st)
		out = append(out, protocol.RuleListEntry{
			ID:              def.ID,
			Title:           def.Title,
			Category:        def.Category,
			DefaultSeverity: sev.String(),
			Description:     def.Message,
			HelpLink:        def.HelpURI,
			HasCodeFix:      def.HasCodeFix,
			ProfileSeverity: def.Profiles,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// handleRuleDocumentation implements udonsharp/rules/documentation, per
// spec.md §4.9. A missing rule yields a stub rather than an error.
func (s *Server) handleRuleDocumentation(params *protocol.RuleDocumentationParams) (any, error) {
	locale := params.Locale
	if locale == "" {
		locale = "en-US"
	}

	def, ok := s.repo.GetRule(params.RuleID)
	if !ok {
		return &protocol.RuleDocumentationResult{
			ID:       params.RuleID,
			Locale:   locale,
			Markdown: "Documentation not available.",
		}, nil
	}

	doc := s.repo.GetDocumentation(params.RuleID, locale)
	markdown := doc["markdown"]
	if markdown == "" {
		markdown = "Documentation not available."
	}

	return &protocol.RuleDocumentationResult{
		ID:       def.ID,
		Locale:   locale,
		Title:    def.Title,
		Markdown: markdown,
	}, nil
}

// handleServerStatus implements udonsharp/server/status (and its legacy
// alias udonsharp/status), per spec.md §4.9/§6.
func (s *Server) handleServerStatus() (any, error) {
	st := s.settingsSnapshot()
	defs := s.repo.AllRules()

	disabled := 0
	for _, def := range defs {
		sev, _ := s.repo.GetSeverity(def.ID, &st)
		if sev == rules.SeverityHidden {
			disabled++
		}
	}

	return &protocol.ServerStatusResult{
		Profile:           st.ProfileName,
		DisabledRuleCount: disabled,
		TotalRuleCount:    len(defs),
		ServerVersion:     version.RawVersion(),
	}, nil
}
