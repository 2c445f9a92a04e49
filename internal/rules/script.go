package rules

import (
	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
)

// ModelOf type-asserts CheckInput.Semantic back to *semantic.Model. Rule
// families share this instead of repeating the assertion, and it
// tolerates a nil/absent model by returning nil (callers then rely on
// semantic.Model's nil-receiver-safe methods or their own syntax fallback).
func ModelOf(input CheckInput) *semantic.Model {
	m, _ := input.Semantic.(*semantic.Model)
	return m
}

// IsUdonSharpScript applies the model when available, and otherwise the
// syntax-only half of the predicate (base-list name match or an attribute
// containing "Udon").
func IsUdonSharpScript(input CheckInput, td *csharp.TypeDecl) bool {
	if m := ModelOf(input); m != nil {
		return m.IsUdonSharpScript(td)
	}
	for _, b := range td.BaseList {
		simple := b
		for i := len(simple) - 1; i >= 0; i-- {
			if simple[i] == '.' {
				simple = simple[i+1:]
				break
			}
		}
		if simple == "UdonSharpBehaviour" {
			return true
		}
	}
	return semantic.HasUdonAttributeHint(td)
}

// LocationOfPos converts a csharp.Position into a point Location for path,
// turning the lexer's 1-based column into the 0-based column a Location
// carries.
func LocationOfPos(path string, pos csharp.Position) Location {
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	return NewPointLocation(path, pos.Line, col)
}
