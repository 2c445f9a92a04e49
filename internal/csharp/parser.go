package csharp

import "fmt"

// Parser is a backtracking recursive-descent parser over a pre-tokenized
// buffer; arbitrary lookahead/backtracking is cheap because the whole token
// stream is materialized up front (source files in this domain are small).
type Parser struct {
	toks []Token
	pos  int
	errs []error
}

// ParseFile tokenizes and parses src, returning the best-effort File. Parse
// errors are collected and returned alongside a non-nil File: a malformed
// construct causes local recovery (skip to a plausible boundary), not a
// failed parse of the whole document, so the rule engine still has
// something to analyze.
func ParseFile(path string, src []byte) (*File, []error) {
	lex := NewLexer(src)
	var toks []Token
	for {
		t := lex.Next()
		toks = append(toks, t)
		if t.Kind == EOF {
			break
		}
	}
	p := &Parser{toks: toks}
	f := &File{Path: path}
	p.parseCompilationUnit(f, "")
	return f, p.errs
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) at(off int) Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}
func (p *Parser) advance() Token {
	t := p.cur()
	if t.Kind != EOF {
		p.pos++
	}
	return t
}
func (p *Parser) isPunct(s string) bool   { return p.cur().Kind == Punct && p.cur().Text == s }
func (p *Parser) isKeyword(s string) bool { return p.cur().Kind == Keyword && p.cur().Text == s }
func (p *Parser) eatPunct(s string) bool {
	if p.isPunct(s) {
		p.advance()
		return true
	}
	return false
}
func (p *Parser) eatKeyword(s string) bool {
	if p.isKeyword(s) {
		p.advance()
		return true
	}
	return false
}
func (p *Parser) errf(format string, args ...any) {
	t := p.cur()
	p.errs = append(p.errs, fmt.Errorf("%d:%d: "+format, append([]any{t.Line, t.Column}, args...)...))
}
func (p *Parser) pos0() Position { return Position{Line: p.cur().Line, Column: p.cur().Column} }

var modifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "sealed": true, "abstract": true, "partial": true,
	"virtual": true, "override": true, "readonly": true, "const": true,
	"async": true, "unsafe": true, "extern": true, "new": true, "volatile": true,
}

func (p *Parser) parseModifiers() []string {
	var mods []string
	for {
		if p.cur().Kind == Keyword && modifierWords[p.cur().Text] {
			mods = append(mods, p.cur().Text)
			p.advance()
			continue
		}
		if p.cur().Kind == Ident && p.cur().Text == "partial" {
			mods = append(mods, "partial")
			p.advance()
			continue
		}
		break
	}
	return mods
}

// parseAttributeLists consumes zero or more "[...]" groups.
func (p *Parser) parseAttributeLists() []*AttributeUse {
	var out []*AttributeUse
	for p.isPunct("[") {
		p.advance()
		for {
			pos := p.pos0()
			name := p.parseDottedIdentName()
			var args []*Expr
			if p.eatPunct("(") {
				args = p.parseArgList(")")
			}
			out = append(out, &AttributeUse{Name: name, Args: args, Pos: pos})
			if p.eatPunct(",") {
				continue
			}
			break
		}
		p.eatPunct("]")
	}
	return out
}

func (p *Parser) parseDottedIdentName() string {
	name := p.cur().Text
	if p.cur().Kind == Ident || p.cur().Kind == Keyword {
		p.advance()
	}
	for p.isPunct(".") && (p.at(1).Kind == Ident || p.at(1).Kind == Keyword) {
		p.advance()
		name += "." + p.cur().Text
		p.advance()
	}
	return name
}

// parseCompilationUnit handles usings, namespaces (block or file-scoped),
// and top-level type declarations.
func (p *Parser) parseCompilationUnit(f *File, ns string) {
	for p.cur().Kind != EOF {
		if p.isKeyword("using") {
			p.skipStatementLike()
			continue
		}
		if p.isKeyword("namespace") {
			p.advance()
			name := p.parseDottedIdentName()
			if p.eatPunct(";") {
				// file-scoped namespace: everything else belongs to it.
				ns = name
				continue
			}
			if p.eatPunct("{") {
				for !p.isPunct("}") && p.cur().Kind != EOF {
					t := p.tryParseTypeOrSkip(f, name)
					if t == nil {
						break
					}
				}
				p.eatPunct("}")
				continue
			}
			continue
		}
		if p.isPunct(";") {
			p.advance()
			continue
		}
		t := p.tryParseTypeOrSkip(f, ns)
		if t == nil {
			if p.cur().Kind == EOF {
				break
			}
			p.advance()
		}
	}
}

// tryParseTypeOrSkip parses one attributed/modified class/struct/interface
// declaration at the current position. Returns the parsed type, or nil (with
// the position restored to where it started) if this doesn't look like a
// type declaration.
func (p *Parser) tryParseTypeOrSkip(f *File, ns string) *TypeDecl {
	start := p.pos
	attrs := p.parseAttributeLists()
	mods := p.parseModifiers()
	if p.isKeyword("class") || p.isKeyword("struct") || p.isKeyword("interface") {
		kind := p.cur().Text
		p.advance()
		td := p.parseTypeBody(f, ns, kind, attrs, mods)
		f.Types = append(f.Types, td)
		return td
	}
	p.pos = start
	return nil
}

func (p *Parser) parseTypeBody(f *File, ns, kind string, attrs []*AttributeUse, mods []string) *TypeDecl {
	pos := p.pos0()
	name := p.cur().Text
	p.advance()
	td := &TypeDecl{File: f.Path, Kind: kind, Name: name, Namespace: ns, Attributes: attrs, Modifiers: mods, Pos: pos}
	if p.isPunct("<") {
		td.TypeParams = p.parseTypeParamList()
	}
	if p.eatPunct(":") {
		td.BaseList = p.parseBaseList()
	}
	p.skipGenericConstraints()
	if !p.eatPunct("{") {
		return td
	}
	for !p.isPunct("}") && p.cur().Kind != EOF {
		p.parseMember(f, td)
	}
	p.eatPunct("}")
	return td
}

func (p *Parser) parseTypeParamList() []string {
	var names []string
	p.advance() // '<'
	depth := 1
	for depth > 0 && p.cur().Kind != EOF {
		if p.isPunct("<") {
			depth++
			p.advance()
			continue
		}
		if p.isPunct(">") {
			depth--
			p.advance()
			continue
		}
		if depth == 1 && (p.cur().Kind == Ident) {
			names = append(names, p.cur().Text)
		}
		p.advance()
	}
	return names
}

func (p *Parser) parseBaseList() []string {
	var names []string
	for {
		name := p.parseDottedIdentName()
		if p.isPunct("<") {
			p.skipBalancedAngle()
		}
		if name != "" {
			names = append(names, name)
		}
		if p.eatPunct(",") {
			continue
		}
		break
	}
	return names
}

// skipGenericConstraints skips one or more "where T : X, new()" clauses
// preceding a method/type body.
func (p *Parser) skipGenericConstraints() {
	for p.isKeyword("where") {
		p.advance()
		for !p.isPunct("{") && !p.isPunct(";") && !p.isKeyword("where") && p.cur().Kind != EOF {
			p.advance()
		}
	}
}

func (p *Parser) skipBalancedAngle() {
	if !p.isPunct("<") {
		return
	}
	depth := 0
	for p.cur().Kind != EOF {
		if p.isPunct("<") {
			depth++
			p.advance()
			continue
		}
		if p.isPunct(">") {
			depth--
			p.advance()
			if depth == 0 {
				return
			}
			continue
		}
		p.advance()
	}
}

func (p *Parser) skipStatementLike() {
	for !p.isPunct(";") && p.cur().Kind != EOF {
		p.advance()
	}
	p.eatPunct(";")
}

// parseMember parses one field/property/method/constructor/nested-type
// declaration inside a type body, with local recovery on failure.
func (p *Parser) parseMember(f *File, td *TypeDecl) {
	start := p.pos
	attrs := p.parseAttributeLists()
	mods := p.parseModifiers()

	if p.isKeyword("class") || p.isKeyword("struct") || p.isKeyword("interface") {
		kind := p.cur().Text
		p.advance()
		nested := p.parseTypeBody(f, td.Namespace, kind, attrs, mods)
		td.NestedTypes = append(td.NestedTypes, nested)
		return
	}

	// Constructor: Ident matching the enclosing type's name, directly
	// followed by '('.
	if p.cur().Kind == Ident && p.cur().Text == td.Name && p.at(1).Kind == Punct && p.at(1).Text == "(" {
		pos := p.pos0()
		p.advance() // name
		params := p.parseParamList()
		// possible ": base(...)" / ": this(...)" initializer
		if p.eatPunct(":") {
			p.advance() // base/this
			if p.eatPunct("(") {
				p.parseArgList(")")
			}
		}
		body := p.parseBodyOrSemicolon()
		td.Constructors = append(td.Constructors, &MethodDecl{
			Attributes: attrs, Modifiers: mods, Name: td.Name, Params: params,
			Body: body, IsConstructor: true, Pos: pos,
		})
		return
	}

	typ := p.tryParseTypeRef()
	if typ == nil {
		if p.cur().Kind == EOF || p.pos == start {
			p.advance()
		}
		return
	}

	// operator/explicit-interface names etc: best effort, accept dotted or
	// "operator X" sequences by slurping until '(' or ';' or '{'.
	pos := p.pos0()
	name := p.parseMemberName()

	var typeParams []string
	if p.isPunct("<") {
		typeParams = p.parseTypeParamList()
	}

	if p.eatPunct("(") {
		params := p.parseParamList2()
		p.skipGenericConstraints()
		isPartial := contains(mods, "partial")
		body := p.parseBodyOrSemicolon()
		td.Methods = append(td.Methods, &MethodDecl{
			Attributes: attrs, Modifiers: mods, ReturnType: typ, Name: name,
			TypeParams: typeParams, Params: params, Body: body,
			IsPartial: isPartial, Pos: pos,
		})
		return
	}

	if p.isPunct("{") {
		// property; skip accessor bodies but keep declaration shape.
		p.skipBalancedBrace()
		td.Properties = append(td.Properties, &PropertyDecl{
			Attributes: attrs, Modifiers: mods, Type: typ, Name: name, Pos: pos,
		})
		return
	}

	if p.isPunct("=>") {
		// expression-bodied member (property or method); skip to ';'.
		p.advance()
		p.skipExprUntilSemicolonOrBrace()
		p.eatPunct(";")
		td.Properties = append(td.Properties, &PropertyDecl{
			Attributes: attrs, Modifiers: mods, Type: typ, Name: name, Pos: pos,
		})
		return
	}

	// field declaration, possibly with multiple comma-separated names.
	for {
		fieldName := name
		if fieldName == "" {
			fieldName = p.parseMemberName()
		}
		if p.eatPunct("=") {
			p.skipExprUntilCommaOrSemicolon()
		}
		td.Fields = append(td.Fields, &FieldDecl{
			Attributes: attrs, Modifiers: mods, Type: typ, Name: fieldName, Pos: pos,
		})
		name = "" // only first iteration reuses the already-parsed name
		if p.eatPunct(",") {
			continue
		}
		break
	}
	p.eatPunct(";")
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func (p *Parser) parseMemberName() string {
	if p.cur().Kind == Keyword && p.cur().Text == "operator" {
		p.advance()
		name := "operator" + p.cur().Text
		p.advance()
		return name
	}
	name := p.cur().Text
	if p.cur().Kind == Ident || p.cur().Kind == Keyword {
		p.advance()
	}
	// explicit interface implementation: IFoo.Bar
	for p.isPunct(".") && (p.at(1).Kind == Ident) {
		p.advance()
		name = p.cur().Text
		p.advance()
	}
	return name
}

func (p *Parser) parseBodyOrSemicolon() *Block {
	if p.isPunct("{") {
		return p.parseBlock()
	}
	if p.eatPunct("=>") {
		p.skipExprUntilSemicolonOrBrace()
		p.eatPunct(";")
		return nil
	}
	p.eatPunct(";")
	return nil
}

func (p *Parser) skipBalancedBrace() {
	if !p.eatPunct("{") {
		return
	}
	depth := 1
	for depth > 0 && p.cur().Kind != EOF {
		if p.isPunct("{") {
			depth++
		} else if p.isPunct("}") {
			depth--
		}
		p.advance()
	}
}

func (p *Parser) skipExprUntilSemicolonOrBrace() {
	depth := 0
	for p.cur().Kind != EOF {
		if p.isPunct("(") || p.isPunct("[") || p.isPunct("{") {
			depth++
		}
		if p.isPunct(")") || p.isPunct("]") || p.isPunct("}") {
			if depth == 0 {
				return
			}
			depth--
		}
		if depth == 0 && p.isPunct(";") {
			return
		}
		p.advance()
	}
}

func (p *Parser) skipExprUntilCommaOrSemicolon() {
	depth := 0
	for p.cur().Kind != EOF {
		if p.isPunct("(") || p.isPunct("[") || p.isPunct("{") {
			depth++
		}
		if p.isPunct(")") || p.isPunct("]") || p.isPunct("}") {
			depth--
		}
		if depth == 0 && (p.isPunct(",") || p.isPunct(";")) {
			return
		}
		p.advance()
	}
}

// ---- types ----

var primitiveTypeWords = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "char": true, "decimal": true,
	"double": true, "float": true, "int": true, "uint": true, "long": true,
	"ulong": true, "object": true, "short": true, "ushort": true, "string": true,
	"void": true, "var": true, "dynamic": true,
}

// tryParseTypeRef attempts to parse a type reference at the current
// position without consuming input on failure.
func (p *Parser) tryParseTypeRef() *TypeRef {
	start := p.pos
	if !(p.cur().Kind == Ident || (p.cur().Kind == Keyword && primitiveTypeWords[p.cur().Text])) {
		return nil
	}
	name := p.cur().Text
	p.advance()
	for p.isPunct(".") && (p.at(1).Kind == Ident) {
		p.advance()
		name += "." + p.cur().Text
		p.advance()
	}
	t := &TypeRef{Name: name}
	if p.isPunct("<") {
		args, ok := p.tryParseGenericArgs()
		if !ok {
			p.pos = start
			return nil
		}
		t.GenericArgs = args
	}
	if p.isPunct("?") {
		p.advance()
		t.IsNullable = true
	}
	for p.isPunct("[") {
		save := p.pos
		p.advance()
		rank := 1
		for p.isPunct(",") {
			rank++
			p.advance()
		}
		if !p.eatPunct("]") {
			p.pos = save
			break
		}
		t = &TypeRef{ArrayRank: rank, ElementType: t}
	}
	if p.isPunct("?") {
		p.advance()
		t.IsNullable = true
	}
	return t
}

// tryParseGenericArgs parses "<T, U>" best-effort; returns ok=false if it
// doesn't look like a type-argument list (caller backtracks).
func (p *Parser) tryParseGenericArgs() ([]*TypeRef, bool) {
	start := p.pos
	p.advance() // '<'
	var args []*TypeRef
	for {
		t := p.tryParseTypeRef()
		if t == nil {
			p.pos = start
			return nil, false
		}
		args = append(args, t)
		if p.eatPunct(",") {
			continue
		}
		break
	}
	if !p.eatPunct(">") {
		p.pos = start
		return nil, false
	}
	return args, true
}

// ---- parameters ----

var paramModifiers = map[string]bool{"ref": true, "out": true, "in": true, "params": true}

func (p *Parser) parseParamList() []*ParamDecl {
	p.advance() // '('
	return p.parseParamList2()
}

// parseParamList2 parses parameters assuming '(' was already consumed.
func (p *Parser) parseParamList2() []*ParamDecl {
	var params []*ParamDecl
	if p.eatPunct(")") {
		return params
	}
	for {
		p.parseAttributeLists()
		mod := ""
		if p.cur().Kind == Keyword && paramModifiers[p.cur().Text] {
			mod = p.cur().Text
			p.advance()
		}
		typ := p.tryParseTypeRef()
		name := ""
		if p.cur().Kind == Ident {
			name = p.cur().Text
			p.advance()
		}
		if p.eatPunct("=") {
			p.skipExprUntilCommaOrSemicolon()
		}
		params = append(params, &ParamDecl{Type: typ, Name: name, Modifier: mod})
		if p.eatPunct(",") {
			continue
		}
		break
	}
	p.eatPunct(")")
	return params
}

func (p *Parser) parseArgList(closer string) []*Expr {
	var args []*Expr
	if p.eatPunct(closer) {
		return args
	}
	for {
		if p.cur().Kind == Ident && p.at(1).Kind == Punct && p.at(1).Text == ":" {
			// named argument "name: expr"
			p.advance()
			p.advance()
		}
		if p.cur().Kind == Keyword && (p.cur().Text == "ref" || p.cur().Text == "out" || p.cur().Text == "in") {
			p.advance()
		}
		args = append(args, p.parseExpr())
		if p.eatPunct(",") {
			continue
		}
		break
	}
	p.eatPunct(closer)
	return args
}
