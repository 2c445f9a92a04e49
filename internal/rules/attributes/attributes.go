// Package attributes implements USH0040-USH0042: constraints on
// [FieldChangeCallback] attributes, which wire a field to a property that
// the runtime invokes in place of a plain assignment.
package attributes

import (
	"fmt"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
)

var codes = []string{"USH0040", "USH0041", "USH0042"}

type family struct{}

func init() { rules.Register(family{}) }

func (family) Codes() []string { return codes }

func (family) Check(input rules.CheckInput) []rules.Violation {
	var out []rules.Violation
	if input.File == nil {
		return out
	}
	for _, td := range input.File.AllTypes() {
		if !rules.IsUdonSharpScript(input, td) {
			continue
		}
		out = append(out, checkType(input, td)...)
	}
	return out
}

func checkType(input rules.CheckInput, td *csharp.TypeDecl) []rules.Violation {
	var out []rules.Violation
	seenProp := map[string]*csharp.FieldDecl{}

	for _, f := range td.Fields {
		attr := f.Attribute("FieldChangeCallback")
		if attr == nil {
			continue
		}
		loc := rules.LocationOfPos(input.Path, f.Pos)
		propName := ""
		if len(attr.Args) > 0 {
			propName, _ = semantic.ResolveConstantString(attr.Args[0])
		}
		if propName == "" {
			continue
		}

		if prior, dup := seenProp[propName]; dup {
			out = append(out, rules.NewViolation(loc, "USH0040",
				fmt.Sprintf("property %q is already the FieldChangeCallback target of field %q", propName, prior.Name), rules.SeverityError))
			continue
		}
		seenProp[propName] = f

		prop := findProperty(td, propName)
		if prop == nil {
			out = append(out, rules.NewViolation(loc, "USH0041",
				fmt.Sprintf("FieldChangeCallback names property %q, which does not exist on %s", propName, td.Name), rules.SeverityError))
			continue
		}
		if !sameType(prop.Type, f.Type) {
			out = append(out, rules.NewViolation(loc, "USH0042",
				fmt.Sprintf("property %q's type does not match field %q's type", propName, f.Name), rules.SeverityError))
		}
	}
	return out
}

func findProperty(td *csharp.TypeDecl, name string) *csharp.PropertyDecl {
	for _, p := range td.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func sameType(a, b *csharp.TypeRef) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ArrayRank != b.ArrayRank {
		return false
	}
	if a.ArrayRank > 0 {
		return sameType(a.ElementType, b.ElementType)
	}
	return semantic.NormalizeSimpleTypeName(a.Name) == semantic.NormalizeSimpleTypeName(b.Name)
}
