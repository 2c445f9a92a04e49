// Package languageconstraints implements USH0022-USH0039: the C# language
// constructs the runtime's bytecode cannot express (nullable value types,
// null-conditional access, multi-dimensional arrays, local functions,
// nested types, user constructors, generic methods, interface
// implementation, method shadowing, object/collection initializers,
// typeof of a script type, static members, partial methods, and
// goto/labeled statements).
package languageconstraints

import (
	"fmt"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
)

var codes = []string{
	"USH0022", "USH0023", "USH0024", "USH0025", "USH0026", "USH0027",
	"USH0028", "USH0029", "USH0030", "USH0031", "USH0032", "USH0033",
	"USH0034", "USH0035", "USH0036", "USH0037", "USH0038", "USH0039",
}

type family struct{}

func init() { rules.Register(family{}) }

func (family) Codes() []string { return codes }

func (family) Check(input rules.CheckInput) []rules.Violation {
	var out []rules.Violation
	if input.File == nil {
		return out
	}
	model := rules.ModelOf(input)
	for _, td := range input.File.AllTypes() {
		if !rules.IsUdonSharpScript(input, td) {
			continue
		}
		out = append(out, checkTypeLevel(input, model, td)...)
		for _, f := range td.Fields {
			out = append(out, checkFieldType(input, "field", f.Name, f.Type, f.Pos)...)
			if f.HasModifier("static") {
				out = append(out, rules.NewViolation(
					rules.LocationOfPos(input.Path, f.Pos), "USH0034",
					fmt.Sprintf("field %q must not be static", f.Name), rules.SeverityError))
			}
		}
		for _, p := range td.Properties {
			out = append(out, checkFieldType(input, "property", p.Name, p.Type, p.Pos)...)
			if p.HasModifier("static") {
				out = append(out, rules.NewViolation(
					rules.LocationOfPos(input.Path, p.Pos), "USH0034",
					fmt.Sprintf("property %q must not be static", p.Name), rules.SeverityError))
			}
		}
		for _, m := range td.Methods {
			out = append(out, checkMethod(input, model, td, m)...)
			if m.Body != nil {
				out = append(out, checkBody(input, model, m.Body)...)
			}
		}
		for _, c := range td.Constructors {
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, c.Pos), "USH0028",
				"user-defined constructors are not supported", rules.SeverityError))
			if c.Body != nil {
				out = append(out, checkBody(input, model, c.Body)...)
			}
		}
	}
	return out
}

func checkTypeLevel(input rules.CheckInput, model *semantic.Model, td *csharp.TypeDecl) []rules.Violation {
	var out []rules.Violation
	for _, nt := range td.NestedTypes {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, nt.Pos), "USH0027",
			fmt.Sprintf("nested type %q is not supported", nt.Name), rules.SeverityError))
	}
	for _, baseName := range td.BaseList {
		if isInterfaceName(model, baseName) {
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, td.Pos), "USH0030",
				fmt.Sprintf("implementing interface %q is not supported", baseName), rules.SeverityError))
		}
	}
	return out
}

// isInterfaceName prefers a model lookup, and otherwise falls back to the
// conventional "I" + uppercase-letter naming pattern.
func isInterfaceName(model *semantic.Model, name string) bool {
	if model != nil {
		if td := model.TypeByName(name); td != nil {
			return td.Kind == "interface"
		}
	}
	simple := name
	if idx := lastDot(simple); idx >= 0 {
		simple = simple[idx+1:]
	}
	return len(simple) >= 2 && simple[0] == 'I' && simple[1] >= 'A' && simple[1] <= 'Z'
}

func lastDot(s string) int {
	idx := -1
	for i, r := range s {
		if r == '.' {
			idx = i
		}
	}
	return idx
}

// checkFieldType implements USH0022 (nullable value type) and USH0024
// (multi-dimensional array type) against a field/property declaration.
func checkFieldType(input rules.CheckInput, kind, name string, t *csharp.TypeRef, pos csharp.Position) []rules.Violation {
	var out []rules.Violation
	if t == nil {
		return out
	}
	if t.IsNullable || t.Name == "Nullable" {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, pos), "USH0022",
			fmt.Sprintf("%s %q has a nullable value type, which is not supported", kind, name), rules.SeverityError))
	}
	if t.ArrayRank > 1 {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, pos), "USH0024",
			fmt.Sprintf("%s %q is a multi-dimensional array, which is not supported", kind, name), rules.SeverityError))
	}
	return out
}

func checkMethod(input rules.CheckInput, model *semantic.Model, td *csharp.TypeDecl, m *csharp.MethodDecl) []rules.Violation {
	var out []rules.Violation
	loc := rules.LocationOfPos(input.Path, m.Pos)

	if len(m.TypeParams) > 0 {
		out = append(out, rules.NewViolation(loc, "USH0029",
			fmt.Sprintf("method %q is generic, which is not supported", m.Name), rules.SeverityError))
	}
	if m.IsPartial {
		out = append(out, rules.NewViolation(loc, "USH0035",
			fmt.Sprintf("partial method %q is not supported", m.Name), rules.SeverityError))
	}
	if m.ReturnType != nil && m.ReturnType.ArrayRank > 1 {
		out = append(out, rules.NewViolation(loc, "USH0024",
			fmt.Sprintf("method %q returns a multi-dimensional array, which is not supported", m.Name), rules.SeverityError))
	}
	for _, p := range m.Params {
		if p.Type != nil && p.Type.ArrayRank > 1 {
			out = append(out, rules.NewViolation(loc, "USH0024",
				fmt.Sprintf("parameter %q of %q is a multi-dimensional array, which is not supported", p.Name, m.Name), rules.SeverityError))
		}
	}

	if !m.HasModifier("override") && !m.IsConstructor {
		if shadowsBaseMethod(model, td, m) {
			out = append(out, rules.NewViolation(loc, "USH0031",
				fmt.Sprintf("%q shadows a base method with the same signature; mark it override or rename it", m.Name), rules.SeverityError))
		}
	}
	return out
}

func shadowsBaseMethod(model *semantic.Model, td *csharp.TypeDecl, m *csharp.MethodDecl) bool {
	if model == nil {
		return false
	}
	for _, base := range model.BaseTypeDecls(td) {
		for _, candidate := range base.Methods {
			if candidate.Name == m.Name && sameParamTypes(candidate, m) {
				return true
			}
		}
	}
	return false
}

func sameParamTypes(a, b *csharp.MethodDecl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if semantic.NormalizeSimpleTypeName(a.Params[i].Type.Name) != semantic.NormalizeSimpleTypeName(b.Params[i].Type.Name) {
			return false
		}
	}
	return true
}

func checkBody(input rules.CheckInput, model *semantic.Model, body *csharp.Block) []rules.Violation {
	var out []rules.Violation

	csharp.WalkBlock(body, func(s *csharp.Stmt) {
		switch s.Kind {
		case "goto":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0036",
				"goto is not supported", rules.SeverityError))
		case "labeled":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0037",
				"labeled statements are not supported", rules.SeverityError))
		case "gotocase":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0038",
				"goto case is not supported", rules.SeverityError))
		case "gotodefault":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0039",
				"goto default is not supported", rules.SeverityError))
		case "localfunc":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0026",
				"local functions are not supported", rules.SeverityError))
		}
	}, func(e *csharp.Expr) {
		switch e.Kind {
		case "nullcond_member", "nullcond_index":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, e.Pos), "USH0023",
				"null-conditional access is not supported", rules.SeverityError))
		case "elementaccess":
			if len(e.Args) > 1 {
				out = append(out, rules.NewViolation(
					rules.LocationOfPos(input.Path, e.Pos), "USH0025",
					"element access with more than one index is not supported", rules.SeverityError))
			}
		case "objectinit":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, e.Pos), "USH0032",
				"object and collection initializers are not supported", rules.SeverityError))
		case "typeof":
			if e.Type != nil && model != nil {
				if td := model.TypeByName(e.Type.Name); td != nil && model.IsUdonSharpScript(td) {
					out = append(out, rules.NewViolation(
						rules.LocationOfPos(input.Path, e.Pos), "USH0033",
						fmt.Sprintf("typeof(%s) targets an UdonSharp script, which is not supported", e.Type.Name), rules.SeverityError))
				}
			}
		}
	})
	return out
}
