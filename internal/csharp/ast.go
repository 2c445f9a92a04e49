package csharp

// Position mirrors rules.Position without importing internal/rules, to keep
// this package dependency-free; call sites convert at the boundary.
type Position struct {
	Line, Column int
}

// File is the top-level parse result for one source document.
type File struct {
	Path  string
	Usings []string
	Types  []*TypeDecl // includes types nested in namespaces, flattened with Namespace set
}

// AllTypes returns every type declaration in the file, including nested
// types, in declaration order (parent before children).
func (f *File) AllTypes() []*TypeDecl {
	var out []*TypeDecl
	var walk func(t *TypeDecl)
	walk = func(t *TypeDecl) {
		out = append(out, t)
		for _, n := range t.NestedTypes {
			walk(n)
		}
	}
	for _, t := range f.Types {
		walk(t)
	}
	return out
}

// AttributeUse is a syntactic attribute application, e.g. [UdonSynced] or
// [FieldChangeCallback(nameof(Prop))].
type AttributeUse struct {
	Name string // as written, e.g. "UdonSynced" or "NetworkCallable"
	Args []*Expr
	Pos  Position
}

// NameMatches implements the specification's attribute-recognition rule:
// accept {simple name, simple name + "Attribute", trailing "." + either}.
func (a *AttributeUse) NameMatches(simple string) bool {
	n := a.Name
	if idx := lastDot(n); idx >= 0 {
		n = n[idx+1:]
	}
	return n == simple || n == simple+"Attribute"
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

// TypeRef is a syntactic type reference (not a resolved symbol).
type TypeRef struct {
	Name        string // simple or dotted name, e.g. "int", "System.Int32", "List"
	IsNullable  bool   // trailing '?'
	ArrayRank   int    // 0 = not an array; 1 = T[]; 2+ = multi-dimensional T[,]/T[,,]
	ElementType *TypeRef
	GenericArgs []*TypeRef
}

// TypeDecl is a class/struct/interface declaration.
type TypeDecl struct {
	File        string
	Kind        string // "class", "struct", "interface"
	Name        string
	Namespace   string // "" when not inside any namespace
	Modifiers   []string
	Attributes  []*AttributeUse
	BaseList    []string
	TypeParams  []string
	Fields      []*FieldDecl
	Properties  []*PropertyDecl
	Methods     []*MethodDecl
	Constructors []*MethodDecl
	NestedTypes []*TypeDecl
	Pos         Position
}

func (t *TypeDecl) HasModifier(m string) bool {
	for _, mod := range t.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

func (t *TypeDecl) Attribute(simpleName string) *AttributeUse {
	for _, a := range t.Attributes {
		if a.NameMatches(simpleName) {
			return a
		}
	}
	return nil
}

// FieldDecl is a single-name field declaration (the parser splits comma
// lists like "int a, b;" into one FieldDecl per name).
type FieldDecl struct {
	Attributes []*AttributeUse
	Modifiers  []string
	Type       *TypeRef
	Name       string
	Pos        Position
}

func (f *FieldDecl) HasModifier(m string) bool {
	for _, mod := range f.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

func (f *FieldDecl) Attribute(simpleName string) *AttributeUse {
	for _, a := range f.Attributes {
		if a.NameMatches(simpleName) {
			return a
		}
	}
	return nil
}

// PropertyDecl is a property declaration (accessors are not modeled in
// detail; only existence/type/name matter to the rules implemented here).
type PropertyDecl struct {
	Attributes []*AttributeUse
	Modifiers  []string
	Type       *TypeRef
	Name       string
	Pos        Position
}

func (p *PropertyDecl) HasModifier(m string) bool {
	for _, mod := range p.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// ParamDecl is a single method parameter.
type ParamDecl struct {
	Type     *TypeRef
	Name     string
	Modifier string // "ref", "out", "in", "params", or ""
}

// MethodDecl covers methods, constructors, and local functions (the same
// shape; IsConstructor/IsLocalFunction distinguish the latter two).
type MethodDecl struct {
	Attributes     []*AttributeUse
	Modifiers      []string
	ReturnType     *TypeRef // nil for constructors
	Name           string
	TypeParams     []string
	Params         []*ParamDecl
	Body           *Block // nil for abstract/partial-without-body/interface methods
	IsConstructor  bool
	IsLocalFunction bool
	IsPartial      bool
	Pos            Position
}

func (m *MethodDecl) HasModifier(mod string) bool {
	for _, x := range m.Modifiers {
		if x == mod {
			return true
		}
	}
	return false
}

func (m *MethodDecl) Attribute(simpleName string) *AttributeUse {
	for _, a := range m.Attributes {
		if a.NameMatches(simpleName) {
			return a
		}
	}
	return nil
}

// ParamTypeNames returns the syntactic parameter type names in order.
func (m *MethodDecl) ParamTypeNames() []string {
	out := make([]string, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Type.Name
	}
	return out
}

// Block is a sequence of statements.
type Block struct {
	Stmts []*Stmt
}

// Stmt is a generic statement node; Kind discriminates the payload fields
// that are populated.
type Stmt struct {
	Kind string // "expr","block","try","throw","goto","gotocase","gotodefault",
	// "labeled","localfunc","localdecl","if","loop","return","other"
	Expr         *Expr
	Block        *Block
	TryBlock     *Block
	CatchClauses []*CatchClause
	FinallyBlock *Block
	Label        string
	LocalFunc    *MethodDecl
	Nested       []*Stmt // branches of if/loop bodies flattened for walking
	Pos          Position
}

// CatchClause is a single catch handler.
type CatchClause struct {
	Type  *TypeRef // nil for a bare "catch"
	Name  string
	Block *Block
}

// Expr is a generic expression node.
type Expr struct {
	Kind string // "call","member","ident","stringlit","otherlit","is","as",
	// "nameof","typeof","new","elementaccess","nullcond_member",
	// "nullcond_index","objectinit","arraycreate","other"
	Callee   *Expr     // receiver for call/member/elementaccess/nullcond_*
	Name     string    // identifier/member name; literal text for literals
	Args     []*Expr   // call args / indexer args / array creation dims / initializer elements
	Type     *TypeRef  // operand type for is/as/typeof/new/arraycreate
	IsString bool      // true when Kind=="stringlit" (vs interpolated/other)
	Pos      Position
}

// StringValue returns (value, true) when e is a plain string-literal
// expression (not interpolated, not nameof, not a variable).
func (e *Expr) StringValue() (string, bool) {
	if e != nil && e.Kind == "stringlit" {
		return e.Name, true
	}
	return "", false
}
