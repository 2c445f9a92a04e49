// Package structure implements USH0044-USH0045. Unlike the other
// families, these fire for every declared type regardless of the
// UdonSharp-script predicate: a script that doesn't look like an
// UdonSharp script yet (e.g. missing base-list resolution) still has to
// live at namespace scope and in a matching file to ever become one.
package structure

import (
	"fmt"
	"strings"

	"github.com/project-sakanah/udonsharp-linter/internal/rules"
)

var codes = []string{"USH0044", "USH0045"}

type family struct{}

func init() { rules.Register(family{}) }

func (family) Codes() []string { return codes }

func (family) Check(input rules.CheckInput) []rules.Violation {
	var out []rules.Violation
	if input.File == nil {
		return out
	}
	base := fileBaseName(input.Path)

	for _, td := range input.File.Types {
		if td.Namespace == "" {
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, td.Pos), "USH0044",
				fmt.Sprintf("%q must be declared inside a namespace", td.Name), rules.SeverityError))
		}
		if !td.HasModifier("abstract") && base != "" && td.Name != base {
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, td.Pos), "USH0045",
				fmt.Sprintf("class name %q must match its file name %q", td.Name, base), rules.SeverityError))
		}
	}
	return out
}

func fileBaseName(path string) string {
	name := path
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
