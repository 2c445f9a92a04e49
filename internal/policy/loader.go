package policy

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/project-sakanah/udonsharp-linter/internal/rules/configutil"
)

// packSchema is the JSON Schema every rule-pack file is validated against
// before decoding, per spec.md §4.1 as expanded in SPEC_FULL.md: a file
// failing schema validation is treated the same as a parse failure.
var packSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":              map[string]any{"type": "string"},
					"title":           map[string]any{"type": "string"},
					"message":         map[string]any{"type": "string"},
					"category":        map[string]any{"type": "string"},
					"defaultSeverity": map[string]any{"type": "string"},
					"helpUri":         map[string]any{"type": "string"},
					"hasCodeFix":      map[string]any{"type": "boolean"},
					"profiles":        map[string]any{"type": "object"},
					"documentation":   map[string]any{"type": "object"},
				},
			},
		},
	},
}

// Load enumerates every *.json file recursively under bundledDir plus
// every path in extraPaths that exists, parses and schema-validates each,
// and merges their rule entries into a single case-insensitive map keyed
// by upper-cased ID. A later file's entry for the same ID replaces an
// earlier one. Per-file I/O, parse, or schema failures are logged and
// that file is skipped; missing-required-field rule entries within an
// otherwise-valid file are skipped individually.
func Load(bundledDir string, extraPaths []string, log *logrus.Logger) map[string]RuleDefinition {
	merged := make(map[string]RuleDefinition)

	for _, path := range bundledPackPaths(bundledDir, log) {
		mergeFile(merged, path, log)
	}
	for _, path := range extraPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		mergeFile(merged, path, log)
	}
	return merged
}

func bundledPackPaths(bundledDir string, log *logrus.Logger) []string {
	if bundledDir == "" {
		return nil
	}
	matches, err := doublestar.Glob(os.DirFS(bundledDir), "**/*.json")
	if err != nil {
		log.WithError(err).WithField("dir", bundledDir).Warn("policy: failed to enumerate bundled rule packs")
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(bundledDir, m)
	}
	return out
}

func mergeFile(merged map[string]RuleDefinition, path string, log *logrus.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("policy: failed to read rule pack")
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.WithError(err).WithField("path", path).Warn("policy: failed to parse rule pack")
		return
	}
	if err := configutil.ValidateWithSchema(raw, packSchema); err != nil {
		log.WithError(err).WithField("path", path).Warn("policy: rule pack failed schema validation")
		return
	}

	var p pack
	if err := json.Unmarshal(data, &p); err != nil {
		log.WithError(err).WithField("path", path).Warn("policy: failed to decode rule pack")
		return
	}

	for _, def := range p.Rules {
		if def.ID == "" || def.Title == "" || def.Message == "" || def.Category == "" || def.DefaultSeverity == "" {
			log.WithField("path", path).Warn("policy: rule entry missing a required field, skipped")
			continue
		}
		def.ID = normalizeID(def.ID)
		merged[def.ID] = def
	}
}
