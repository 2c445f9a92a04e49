package policy

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/project-sakanah/udonsharp-linter/internal/rules"
)

// Repository holds the merged rule-pack catalogue, atomically swappable on
// reload (e.g. a policyPackPaths settings change), per spec.md §4.2.
type Repository struct {
	current atomic.Pointer[map[string]RuleDefinition]
	mu      sync.Mutex // serializes Reload against concurrent Reloads
}

// NewRepository builds a Repository from an already-loaded rule map (see
// Load).
func NewRepository(rulesMap map[string]RuleDefinition) *Repository {
	r := &Repository{}
	r.current.Store(&rulesMap)
	return r
}

// Reload atomically replaces the catalogue.
func (r *Repository) Reload(rulesMap map[string]RuleDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.Store(&rulesMap)
}

func (r *Repository) snapshot() map[string]RuleDefinition {
	if p := r.current.Load(); p != nil {
		return *p
	}
	return nil
}

// AllRules returns every rule definition, stable-sorted by ID.
func (r *Repository) AllRules() []RuleDefinition {
	snap := r.snapshot()
	out := make([]RuleDefinition, 0, len(snap))
	for _, def := range snap {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetRule resolves a single rule definition by ID (case-insensitive).
func (r *Repository) GetRule(id string) (RuleDefinition, bool) {
	def, ok := r.snapshot()[normalizeID(id)]
	return def, ok
}

// SettingsView is the subset of a settings snapshot the Policy Repository
// needs to resolve severity, so that policy does not import
// internal/settings; *settings.Settings implements it.
type SettingsView interface {
	Profile() string
	RuleOverride(id string) (rules.Severity, bool)
}

// GetSeverity resolves a rule's effective severity: (1) a user override
// for the ID, (2) the rule's profiles[profile] entry, (3) the rule's
// default severity, per spec.md §4.2. Unknown IDs resolve to
// SeverityError with ok=false.
func (r *Repository) GetSeverity(id string, settings SettingsView) (rules.Severity, bool) {
	def, ok := r.GetRule(id)
	if !ok {
		return rules.SeverityError, false
	}
	if settings != nil {
		if sev, ok := settings.RuleOverride(id); ok {
			return sev, true
		}
		if def.Profiles != nil {
			if raw, ok := def.Profiles[settings.Profile()]; ok {
				if sev, err := rules.ParseSeverity(raw); err == nil {
					return sev, true
				}
			}
		}
	}
	sev, err := rules.ParseSeverity(def.DefaultSeverity)
	if err != nil {
		return rules.SeverityError, true
	}
	return sev, true
}

// GetDocumentation resolves a rule's documentation for a locale: exact
// locale match, then "en-US" fallback, then nil.
func (r *Repository) GetDocumentation(id, locale string) map[string]string {
	def, ok := r.GetRule(id)
	if !ok || def.Documentation == nil {
		return nil
	}
	if doc, ok := def.Documentation[locale]; ok {
		return doc
	}
	if doc, ok := def.Documentation["en-US"]; ok {
		return doc
	}
	return nil
}
