// Package apiexposure implements USH0013-USH0015: calls, member accesses,
// and declared types that reach outside the surface UdonSharp scripts are
// permitted to use.
package apiexposure

import (
	"fmt"
	"strings"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
)

var codes = []string{"USH0013", "USH0014", "USH0015"}

type family struct{}

func init() { rules.Register(family{}) }

func (family) Codes() []string { return codes }

var deniedNamespacePrefixes = []string{
	"System.IO", "System.Net", "System.Reflection", "System.Threading",
	"System.Diagnostics", "System.Security", "System.Runtime.InteropServices",
	"System.Web", "UnityEditor",
}

var deniedMemberNames = map[string]bool{
	"GetComponent": true, "GetComponents": true,
}

func (family) Check(input rules.CheckInput) []rules.Violation {
	var out []rules.Violation
	if input.File == nil {
		return out
	}
	for _, td := range input.File.AllTypes() {
		if !rules.IsUdonSharpScript(input, td) {
			continue
		}
		out = append(out, checkDeclaredTypes(input, td)...)
		for _, body := range bodiesOf(td) {
			out = append(out, checkBody(input, body)...)
		}
	}
	return out
}

func bodiesOf(td *csharp.TypeDecl) []*csharp.Block {
	var out []*csharp.Block
	for _, m := range td.Methods {
		if m.Body != nil {
			out = append(out, m.Body)
		}
	}
	for _, c := range td.Constructors {
		if c.Body != nil {
			out = append(out, c.Body)
		}
	}
	return out
}

// checkDeclaredTypes implements USH0015 against field/property/parameter
// declarations. Local-variable declarations are not checked: the parser
// does not retain their syntactic type (only the initializer expression),
// since none of the other rule families need it.
func checkDeclaredTypes(input rules.CheckInput, td *csharp.TypeDecl) []rules.Violation {
	var out []rules.Violation
	report := func(t *csharp.TypeRef, pos csharp.Position) {
		if denied, qualified := isDeniedType(t); denied {
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, pos), "USH0015",
				fmt.Sprintf("%s is not available to UdonSharp scripts", qualified), rules.SeverityError))
		}
	}
	for _, f := range td.Fields {
		report(f.Type, f.Pos)
	}
	for _, p := range td.Properties {
		report(p.Type, p.Pos)
	}
	for _, m := range td.Methods {
		for _, p := range m.Params {
			report(p.Type, m.Pos)
		}
	}
	return out
}

func isDeniedType(t *csharp.TypeRef) (bool, string) {
	t = semantic.UnwrapNullableOnce(t)
	if t == nil {
		return false, ""
	}
	name := t.Name
	for _, prefix := range deniedNamespacePrefixes {
		if name == prefix || strings.HasPrefix(name, prefix+".") {
			return true, name
		}
	}
	return false, ""
}

func checkBody(input rules.CheckInput, body *csharp.Block) []rules.Violation {
	var out []rules.Violation
	consumed := map[*csharp.Expr]bool{}

	csharp.WalkBlock(body, nil, func(e *csharp.Expr) {
		if e.Kind == "call" {
			markConsumed(e.Callee, consumed)
		}
	})

	csharp.WalkBlock(body, nil, func(e *csharp.Expr) {
		switch e.Kind {
		case "call":
			name := e.CallName()
			if deniedMemberNames[name] {
				out = append(out, rules.NewViolation(
					rules.LocationOfPos(input.Path, e.Pos), "USH0013",
					fmt.Sprintf("%s is not available to UdonSharp scripts", name), rules.SeverityError))
				return
			}
			if qn, ok := qualifiedName(e.Callee); ok {
				if denied, matched := isDeniedQualifiedName(qn); denied {
					out = append(out, rules.NewViolation(
						rules.LocationOfPos(input.Path, e.Pos), "USH0013",
						fmt.Sprintf("%s is not available to UdonSharp scripts", matched), rules.SeverityError))
				}
			}
		case "member", "nullcond_member":
			if consumed[e] {
				return
			}
			if qn, ok := qualifiedName(e); ok {
				if denied, matched := isDeniedQualifiedName(qn); denied {
					out = append(out, rules.NewViolation(
						rules.LocationOfPos(input.Path, e.Pos), "USH0014",
						fmt.Sprintf("%s is not available to UdonSharp scripts", matched), rules.SeverityError))
				}
			}
		}
	})
	return out
}

func markConsumed(e *csharp.Expr, consumed map[*csharp.Expr]bool) {
	for e != nil && (e.Kind == "member" || e.Kind == "nullcond_member" || e.Kind == "ident") {
		consumed[e] = true
		e = e.Callee
	}
}

func qualifiedName(e *csharp.Expr) (string, bool) {
	switch e.Kind {
	case "ident":
		return e.Name, true
	case "member", "nullcond_member":
		base, ok := qualifiedName(e.Callee)
		if !ok {
			return "", false
		}
		return base + "." + e.Name, true
	}
	return "", false
}

func isDeniedQualifiedName(qn string) (bool, string) {
	for _, prefix := range deniedNamespacePrefixes {
		if qn == prefix || strings.HasPrefix(qn, prefix+".") {
			return true, prefix
		}
	}
	return false, ""
}
