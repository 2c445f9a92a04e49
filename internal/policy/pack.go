// Package policy loads rule-pack JSON files into a merged, atomically
// swappable catalogue of rule definitions, and resolves per-rule severity
// and documentation against a settings snapshot.
package policy

import "strings"

// RuleDefinition is one entry of a rule pack: the policy-side counterpart
// of rules.RuleMetadata, carrying the profile/locale maps the Policy
// Repository needs that a bare RuleMetadata does not.
type RuleDefinition struct {
	ID              string                       `json:"id"`
	Title           string                       `json:"title"`
	Message         string                       `json:"message"`
	Category        string                       `json:"category"`
	DefaultSeverity string                       `json:"defaultSeverity"`
	HelpURI         string                       `json:"helpUri,omitempty"`
	HasCodeFix      bool                         `json:"hasCodeFix,omitempty"`
	Profiles        map[string]string            `json:"profiles,omitempty"`
	Documentation   map[string]map[string]string `json:"documentation,omitempty"`
}

// pack is the top-level shape of one rule-pack JSON file.
type pack struct {
	Rules []RuleDefinition `json:"rules"`
}

// normalizeID upper-cases an ID so lookups are case-insensitive while the
// value surfaced to clients is always upper-case, per spec.md §3.
func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
