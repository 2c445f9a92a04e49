package semantic

import "github.com/project-sakanah/udonsharp-linter/internal/csharp"

// TargetResolution is the result of resolving the static type a call
// expression targets. Resolved is false when neither the semantic nor the
// syntax-only path could identify a type at all — callers must not treat
// that the same as "type found, but has no such method" (see the
// specification's syntax-only fallback invariant).
type TargetResolution struct {
	Type     *csharp.TypeDecl
	Resolved bool
	Semantic bool // true if resolution used the Model, false if syntax-only
}

// ResolveCallTargetType implements the dual-path ResolveTarget capability
// for a call's receiver: try the semantic Model first, then fall back to a
// syntax-only scan of file for a type declaration the receiver name could
// plausibly refer to. A nil receiver means an implicit "this" call, which
// always resolves to enclosing.
func ResolveCallTargetType(m *Model, file *csharp.File, enclosing *csharp.TypeDecl, receiver *csharp.Expr) TargetResolution {
	if receiver == nil || (receiver.Kind == "ident" && receiver.Name == "this") {
		return TargetResolution{Type: enclosing, Resolved: true, Semantic: true}
	}

	if receiver.Kind == "ident" && m != nil {
		if fd, owner := m.FindField(enclosing, receiver.Name); fd != nil {
			_ = owner
			if t := m.TypeByName(fd.Type.Name); t != nil {
				return TargetResolution{Type: t, Resolved: true, Semantic: true}
			}
		}
		if pd, owner := m.FindProperty(enclosing, receiver.Name); pd != nil {
			_ = owner
			if t := m.TypeByName(pd.Type.Name); t != nil {
				return TargetResolution{Type: t, Resolved: true, Semantic: true}
			}
		}
	}

	// Syntax-only fallback: look for a field/property declared with a
	// syntactic type name matching some type declared in the same file.
	if receiver.Kind == "ident" && file != nil {
		for _, t := range file.AllTypes() {
			for _, fd := range t.Fields {
				if fd.Name == receiver.Name {
					if candidate := findTypeInFile(file, fd.Type.Name); candidate != nil {
						return TargetResolution{Type: candidate, Resolved: true, Semantic: false}
					}
				}
			}
			for _, pd := range t.Properties {
				if pd.Name == receiver.Name {
					if candidate := findTypeInFile(file, pd.Type.Name); candidate != nil {
						return TargetResolution{Type: candidate, Resolved: true, Semantic: false}
					}
				}
			}
		}
	}

	return TargetResolution{Resolved: false}
}

func findTypeInFile(file *csharp.File, name string) *csharp.TypeDecl {
	if idx := lastDotIdx(name); idx >= 0 {
		name = name[idx+1:]
	}
	for _, t := range file.AllTypes() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// ResolveConstantString implements the specification's method-name
// argument resolution: a string literal yields its value directly; a
// nameof(X.Y) expression yields Y; anything else is not a compile-time
// constant this analyzer can evaluate.
func ResolveConstantString(e *csharp.Expr) (string, bool) {
	if e == nil {
		return "", false
	}
	if v, ok := e.StringValue(); ok {
		return v, true
	}
	if e.Kind == "nameof" {
		return e.Name, true
	}
	return "", false
}
