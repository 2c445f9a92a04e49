// Package networkevents implements USH0001-USH0006 and USH0043: the rules
// governing calls to the runtime's local and cross-client message-send
// APIs (SendCustomEvent*/SendCustomNetworkEvent*).
package networkevents

import (
	"fmt"
	"strings"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
)

var codes = []string{
	"USH0001", "USH0002", "USH0003", "USH0004", "USH0005", "USH0006", "USH0043",
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
		for _, body := range bodiesOf(td) {
			csharp.WalkBlock(body, nil, func(e *csharp.Expr) {
				if e.Kind != "call" {
					return
				}
				name := e.CallName()
				if !isNetworkEventAPI(name) {
					return
				}
				out = append(out, checkCall(input, model, td, e, name)...)
			})
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

func isNetworkEventAPI(name string) bool {
	return strings.HasPrefix(name, "SendCustomEvent") || strings.HasPrefix(name, "SendCustomNetworkEvent")
}

func isNetworkFamily(name string) bool {
	return strings.HasPrefix(name, "SendCustomNetworkEvent")
}

func checkCall(input rules.CheckInput, model *semantic.Model, enclosing *csharp.TypeDecl, call *csharp.Expr, apiName string) []rules.Violation {
	var out []rules.Violation
	network := isNetworkFamily(apiName)
	argIdx := 0
	if network {
		argIdx = 1
	}
	if argIdx >= len(call.Args) {
		return out
	}
	nameArg := call.Args[argIdx]
	methodName, ok := semantic.ResolveConstantString(nameArg)

	// USH0043: advisory regardless of resolution, fires whenever the
	// argument is a bare string literal rather than nameof.
	if _, isLiteral := nameArg.StringValue(); isLiteral {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, nameArg.Pos), "USH0043",
			"prefer nameof(...) over a string literal for the event name", rules.SeverityInformation))
	}

	if !ok {
		return out
	}

	// USH0003: network family, name begins with '_'.
	if network && strings.HasPrefix(methodName, "_") {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, nameArg.Pos), "USH0003",
			fmt.Sprintf("network event target %q must not begin with an underscore", methodName), rules.SeverityError))
	}

	resolution := semantic.ResolveCallTargetType(model, input.File, enclosing, call.CallReceiver())
	if !resolution.Resolved {
		// Per the specification, absence of a resolvable type must never be
		// reported as "target missing" (0001) or any check that depends on
		// knowing the target's members.
		return out
	}
	target := resolution.Type

	candidates := methodCandidates(model, target, methodName)
	if len(candidates) == 0 {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, nameArg.Pos), "USH0001",
			fmt.Sprintf("%q does not exist on %s", methodName, target.Name), rules.SeverityError))
		return out
	}

	if !anyPublic(candidates) {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, nameArg.Pos), "USH0002",
			fmt.Sprintf("%q on %s is not public", methodName, target.Name), rules.SeverityError))
	}

	payloadArgs := call.Args[argIdx+1:]
	if network && len(payloadArgs) > 0 && !anyNetworkCallable(candidates) {
		out = append(out, rules.NewViolation(
			rules.LocationOfPos(input.Path, call.Pos), "USH0004",
			fmt.Sprintf("%q on %s has no [NetworkCallable] overload accepting payload arguments", methodName, target.Name), rules.SeverityError))
	}

	if network {
		if v, ok := checkPayloadTypes(input, target, methodName, candidates, payloadArgs, call); ok {
			out = append(out, v)
		}
		if semantic.SyncModeOf(target) == "None" {
			out = append(out, rules.NewViolation(
				rules.LocationOfPos(input.Path, call.Pos), "USH0006",
				fmt.Sprintf("%s has BehaviourSyncMode.None and cannot receive network events", target.Name), rules.SeverityError))
		}
	}

	return out
}

func methodCandidates(m *semantic.Model, td *csharp.TypeDecl, name string) []*csharp.MethodDecl {
	if m != nil {
		if c := m.FindMethods(td, name); len(c) > 0 {
			return c
		}
		return nil
	}
	var out []*csharp.MethodDecl
	for _, meth := range td.Methods {
		if meth.Name == name {
			out = append(out, meth)
		}
	}
	return out
}

func anyPublic(candidates []*csharp.MethodDecl) bool {
	for _, c := range candidates {
		if c.HasModifier("public") {
			return true
		}
	}
	return false
}

func anyNetworkCallable(candidates []*csharp.MethodDecl) bool {
	for _, c := range candidates {
		if semantic.HasNetworkCallable(c) {
			return true
		}
	}
	return false
}

// checkPayloadTypes reports USH0005 when no candidate overload's parameter
// types accept the supplied payload arguments. Per the specification the
// diagnostic anchors on the first mismatching argument (1-indexed) of the
// first candidate whose arity matches, or on the whole call with index 0
// when no candidate's arity even matches.
func checkPayloadTypes(input rules.CheckInput, target *csharp.TypeDecl, methodName string, candidates []*csharp.MethodDecl, payloadArgs []*csharp.Expr, call *csharp.Expr) (rules.Violation, bool) {
	for _, c := range candidates {
		if len(c.Params) != len(payloadArgs) {
			continue
		}
		if allArgsCompatible(c, payloadArgs) {
			return rules.Violation{}, false
		}
	}

	// No fully-matching candidate: find an arity match to report a
	// positional mismatch against, else report against the call itself.
	for _, c := range candidates {
		if len(c.Params) != len(payloadArgs) {
			continue
		}
		for i, p := range c.Params {
			if !typeAccepts(p.Type, payloadArgs[i]) {
				return rules.NewViolation(
					rules.LocationOfPos(input.Path, payloadArgs[i].Pos), "USH0005",
					fmt.Sprintf("argument %d does not match %q's parameter type on %s", i+1, methodName, target.Name), rules.SeverityError), true
			}
		}
	}

	return rules.NewViolation(
		rules.LocationOfPos(input.Path, call.Pos), "USH0005",
		fmt.Sprintf("argument 0: no overload of %q on %s accepts these argument types", methodName, target.Name), rules.SeverityError), true
}

func allArgsCompatible(c *csharp.MethodDecl, args []*csharp.Expr) bool {
	for i, p := range c.Params {
		if !typeAccepts(p.Type, args[i]) {
			return false
		}
	}
	return true
}

// typeAccepts is a conservative compatibility check: if the argument's own
// type can't be inferred syntactically (the common case for anything other
// than a literal), it is assumed compatible rather than guessed at, since
// a false USH0005 is more disruptive than a missed one.
func typeAccepts(paramType *csharp.TypeRef, arg *csharp.Expr) bool {
	lit := inferLiteralType(arg)
	if lit == nil {
		return true
	}
	return semantic.TypeRefsCompatible(paramType, lit)
}

func inferLiteralType(e *csharp.Expr) *csharp.TypeRef {
	if e == nil {
		return nil
	}
	if e.Kind == "stringlit" {
		return &csharp.TypeRef{Name: "String"}
	}
	return nil
}
