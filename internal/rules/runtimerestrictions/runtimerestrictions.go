// Package runtimerestrictions implements USH0016-USH0021: constraints on
// the runtime's player-event callbacks, on Instantiate, and on several C#
// control-flow constructs the runtime's bytecode cannot express.
package runtimerestrictions

import (
	"fmt"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
)

var codes = []string{
	"USH0016", "USH0017", "USH0018", "USH0019", "USH0020", "USH0021",
}

type family struct{}

func init() { rules.Register(family{}) }

func (family) Codes() []string { return codes }

var playerEventMethods = map[string]bool{
	"OnStationEntered":       true,
	"OnStationExited":        true,
	"OnOwnershipTransferred": true,
	"OnPlayerJoined":         true,
	"OnPlayerLeft":           true,
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
		for _, m := range td.Methods {
			if playerEventMethods[m.Name] {
				out = append(out, checkPlayerEventSignature(input, m)...)
			}
			if m.Body != nil {
				out = append(out, checkBody(input, m.Body)...)
			}
		}
		for _, c := range td.Constructors {
			if c.Body != nil {
				out = append(out, checkBody(input, c.Body)...)
			}
		}
	}
	return out
}

// checkPlayerEventSignature implements USH0016: the runtime invokes these
// callbacks directly, so their signature and accessibility must match
// exactly what it expects.
func checkPlayerEventSignature(input rules.CheckInput, m *csharp.MethodDecl) []rules.Violation {
	var out []rules.Violation
	loc := rules.LocationOfPos(input.Path, m.Pos)

	if !m.HasModifier("public") || !m.HasModifier("override") {
		out = append(out, rules.NewViolation(loc, "USH0016",
			fmt.Sprintf("%s must be declared public override", m.Name), rules.SeverityError))
		return out
	}
	if len(m.Params) != 1 || m.Params[0].Type == nil || m.Params[0].Type.Name != "VRCPlayerApi" {
		out = append(out, rules.NewViolation(loc, "USH0016",
			fmt.Sprintf("%s must take a single VRCPlayerApi parameter", m.Name), rules.SeverityError))
	}
	return out
}

func checkBody(input rules.CheckInput, body *csharp.Block) []rules.Violation {
	var out []rules.Violation

	csharp.WalkBlock(body, func(s *csharp.Stmt) {
		switch s.Kind {
		case "try":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0020",
				"try/catch/finally is not supported", rules.SeverityError))
		case "throw":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, s.Pos), "USH0021",
				"throw is not supported", rules.SeverityError))
		}
	}, func(e *csharp.Expr) {
		switch e.Kind {
		case "is":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, e.Pos), "USH0018",
				"is-pattern expressions are not supported", rules.SeverityError))
		case "as":
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, e.Pos), "USH0019",
				"as-cast expressions are not supported", rules.SeverityError))
		case "call":
			if e.CallName() == "Instantiate" {
				out = append(out, checkInstantiate(input, e)...)
			}
		}
	})
	return out
}

// checkInstantiate implements USH0017: the runtime's Instantiate overload
// only accepts GameObject (or a GameObject[] for the batch form).
func checkInstantiate(input rules.CheckInput, call *csharp.Expr) []rules.Violation {
	var out []rules.Violation
	if len(call.Args) == 0 {
		return out
	}
	arg := call.Args[0]
	if arg.Kind == "ident" || arg.Kind == "member" {
		// No static type available without full symbol resolution; this
		// check only catches syntactically evident mismatches, e.g. a
		// direct "new T()" or cast argument of the wrong type.
		return out
	}
	if arg.Type != nil && arg.Type.Name != "" && arg.Type.Name != "GameObject" {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, arg.Pos), "USH0017",
			"Instantiate only accepts a GameObject", rules.SeverityError))
	}
	return out
}
