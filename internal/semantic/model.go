// Package semantic provides the best-effort, workspace-scoped symbol
// resolution layer that stands in for a full compiler's semantic model: it
// resolves base-type chains and simple member lookups among the documents
// currently known to the workspace, without ever loading a real reference
// assembly. Every rule family that needs more than pure syntax consults a
// Model first, and falls back to syntax-only inspection of the same
// csharp.File when the Model cannot resolve something — the two paths
// implement the specification's ResolveTarget contract (see resolve.go).
package semantic

import "github.com/project-sakanah/udonsharp-linter/internal/csharp"

// udonSharpBehaviourMarker is the base type name that marks a class as an
// UdonSharp script.
const udonSharpBehaviourMarker = "UdonSharpBehaviour"

// Model is an immutable snapshot of every type declared across the
// workspace's open documents, keyed by simple name. Real C# resolution
// also considers namespaces and usings; this model intentionally trades
// that precision for simplicity, matching what a single-project scripting
// dialect like UdonSharp needs in practice (scripts rarely collide on
// simple class names within one workspace).
type Model struct {
	types map[string]*csharp.TypeDecl
}

// Build constructs a Model from every parsed file in the workspace. A type
// name declared in more than one file keeps the most recently seen
// declaration; callers needing stronger guarantees should keep the
// workspace free of duplicate names, as a real compiler would also refuse
// to resolve such a case unambiguously.
func Build(files map[string]*csharp.File) *Model {
	m := &Model{types: make(map[string]*csharp.TypeDecl)}
	for _, f := range files {
		if f == nil {
			continue
		}
		for _, t := range f.AllTypes() {
			m.types[t.Name] = t
		}
	}
	return m
}

// TypeByName resolves a simple or dotted type name to its declaration. For
// a dotted name (e.g. "NS.Foo") only the final segment is used, consistent
// with the model's simple-name indexing.
func (m *Model) TypeByName(name string) *csharp.TypeDecl {
	if m == nil || name == "" {
		return nil
	}
	if idx := lastDotIdx(name); idx >= 0 {
		name = name[idx+1:]
	}
	return m.types[name]
}

func lastDotIdx(s string) int {
	idx := -1
	for i, r := range s {
		if r == '.' {
			idx = i
		}
	}
	return idx
}

// BaseTypeDecls returns the resolvable ancestors of td, nearest first. At
// each level it follows the first base-list entry the model can resolve,
// and stops when none resolves (e.g. UdonSharpBehaviour itself, or any
// external type).
func (m *Model) BaseTypeDecls(td *csharp.TypeDecl) []*csharp.TypeDecl {
	var out []*csharp.TypeDecl
	seen := map[string]bool{td.Name: true}
	cur := td
	for {
		var next *csharp.TypeDecl
		for _, baseName := range cur.BaseList {
			if bt := m.TypeByName(baseName); bt != nil && !seen[bt.Name] {
				next = bt
				break
			}
		}
		if next == nil {
			return out
		}
		seen[next.Name] = true
		out = append(out, next)
		cur = next
	}
}

// IsUdonSharpScript implements the specification's UdonSharp-script
// predicate: inheritance chain contains UdonSharpBehaviour (resolved via
// the model, falling back to a syntactic scan of BaseList names when a
// base can't be resolved at all), OR any attribute on the type or its
// members contains "Udon" (case-insensitive).
func (m *Model) IsUdonSharpScript(td *csharp.TypeDecl) bool {
	if td == nil {
		return false
	}
	if m.chainNamesMarker(td, map[string]bool{}) {
		return true
	}
	return HasUdonAttributeHint(td)
}

func (m *Model) chainNamesMarker(td *csharp.TypeDecl, seen map[string]bool) bool {
	if td == nil || seen[td.Name] {
		return false
	}
	seen[td.Name] = true
	for _, baseName := range td.BaseList {
		simple := baseName
		if idx := lastDotIdx(simple); idx >= 0 {
			simple = simple[idx+1:]
		}
		if simple == udonSharpBehaviourMarker {
			return true
		}
		if bt := m.TypeByName(baseName); bt != nil {
			if m.chainNamesMarker(bt, seen) {
				return true
			}
		}
	}
	return false
}

// HasUdonAttributeHint reports whether td or any of its members carries an
// attribute whose name contains "Udon" (case-insensitive), the
// attribute-based half of the UdonSharp-script predicate.
func HasUdonAttributeHint(td *csharp.TypeDecl) bool {
	for _, a := range td.Attributes {
		if containsFoldUdon(a.Name) {
			return true
		}
	}
	for _, f := range td.Fields {
		for _, a := range f.Attributes {
			if containsFoldUdon(a.Name) {
				return true
			}
		}
	}
	for _, meth := range td.Methods {
		for _, a := range meth.Attributes {
			if containsFoldUdon(a.Name) {
				return true
			}
		}
	}
	return false
}

func containsFoldUdon(s string) bool {
	const target = "udon"
	n := len(s)
	t := len(target)
	if t > n {
		return false
	}
	for i := 0; i+t <= n; i++ {
		if equalFold(s[i:i+t], target) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// FindMethod walks td and its resolvable base chain for a method named
// name, returning the first match and the type that declares it.
func (m *Model) FindMethod(td *csharp.TypeDecl, name string) (*csharp.MethodDecl, *csharp.TypeDecl) {
	candidates := append([]*csharp.TypeDecl{td}, m.BaseTypeDecls(td)...)
	for _, t := range candidates {
		for _, meth := range t.Methods {
			if meth.Name == name {
				return meth, t
			}
		}
	}
	return nil, nil
}

// FindMethods returns every overload named name declared on td or its
// resolvable base chain, nearest-declaring-type first.
func (m *Model) FindMethods(td *csharp.TypeDecl, name string) []*csharp.MethodDecl {
	var out []*csharp.MethodDecl
	candidates := append([]*csharp.TypeDecl{td}, m.BaseTypeDecls(td)...)
	for _, t := range candidates {
		for _, meth := range t.Methods {
			if meth.Name == name {
				out = append(out, meth)
			}
		}
		if len(out) > 0 {
			break // shadowing: only the nearest declaring type's overload set counts
		}
	}
	return out
}

// FindProperty walks td and its resolvable base chain for a property named
// name.
func (m *Model) FindProperty(td *csharp.TypeDecl, name string) (*csharp.PropertyDecl, *csharp.TypeDecl) {
	candidates := append([]*csharp.TypeDecl{td}, m.BaseTypeDecls(td)...)
	for _, t := range candidates {
		for _, p := range t.Properties {
			if p.Name == name {
				return p, t
			}
		}
	}
	return nil, nil
}

// FindField walks td and its resolvable base chain for a field named name.
func (m *Model) FindField(td *csharp.TypeDecl, name string) (*csharp.FieldDecl, *csharp.TypeDecl) {
	candidates := append([]*csharp.TypeDecl{td}, m.BaseTypeDecls(td)...)
	for _, t := range candidates {
		for _, f := range t.Fields {
			if f.Name == name {
				return f, t
			}
		}
	}
	return nil, nil
}
