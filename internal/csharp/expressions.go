package csharp

// Expression parsing uses precedence climbing. It is not a complete C#
// grammar: ambiguous constructs (casts vs. parenthesized expressions,
// lambdas, query syntax, patterns other than a bare type after "is") are
// approximated just enough that the rule families can find calls, member
// access, is/as, and object/array creation reliably.

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, "??=": true,
}

func (p *Parser) parseExpr() *Expr { return p.parseAssign() }

func (p *Parser) parseAssign() *Expr {
	left := p.parseConditional()
	if p.cur().Kind == Punct && assignOps[p.cur().Text] {
		pos := p.pos0()
		p.advance()
		right := p.parseAssign()
		return &Expr{Kind: "other", Callee: left, Args: []*Expr{right}, Pos: pos}
	}
	return left
}

func (p *Parser) parseConditional() *Expr {
	cond := p.parseNullCoalesce()
	if p.isPunct("?") {
		pos := p.pos0()
		p.advance()
		then := p.parseAssign()
		p.eatPunct(":")
		els := p.parseAssign()
		return &Expr{Kind: "other", Callee: cond, Args: []*Expr{then, els}, Pos: pos}
	}
	return cond
}

func (p *Parser) parseNullCoalesce() *Expr {
	left := p.parseLogicalOr()
	for p.isPunct("??") {
		p.advance()
		right := p.parseLogicalOr()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseLogicalOr() *Expr {
	left := p.parseLogicalAnd()
	for p.isPunct("||") {
		p.advance()
		right := p.parseLogicalAnd()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseLogicalAnd() *Expr {
	left := p.parseBitwise()
	for p.isPunct("&&") {
		p.advance()
		right := p.parseBitwise()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseBitwise() *Expr {
	left := p.parseEquality()
	for p.isPunct("|") || p.isPunct("^") || p.isPunct("&") {
		p.advance()
		right := p.parseEquality()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseEquality() *Expr {
	left := p.parseRelational()
	for p.isPunct("==") || p.isPunct("!=") {
		p.advance()
		right := p.parseRelational()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseRelational() *Expr {
	left := p.parseShift()
	for {
		if p.isPunct("<") || p.isPunct(">") || p.isPunct("<=") || p.isPunct(">=") {
			p.advance()
			right := p.parseShift()
			left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
			continue
		}
		if p.isKeyword("is") {
			pos := p.pos0()
			p.advance()
			typ := p.tryParseTypeRef()
			// patterns other than a bare type (e.g. "is { } x", "is not Foo")
			// are tolerated by skipping to the next tier-terminating token.
			if typ == nil {
				for !p.isPunct(")") && !p.isPunct(";") && !p.isPunct("&&") &&
					!p.isPunct("||") && !p.isPunct("{") && p.cur().Kind != EOF {
					p.advance()
				}
			}
			left = &Expr{Kind: "is", Callee: left, Type: typ, Pos: pos}
			continue
		}
		if p.isKeyword("as") {
			pos := p.pos0()
			p.advance()
			typ := p.tryParseTypeRef()
			left = &Expr{Kind: "as", Callee: left, Type: typ, Pos: pos}
			continue
		}
		break
	}
	return left
}

func (p *Parser) parseShift() *Expr {
	left := p.parseAdditive()
	for p.isPunct("<<") || p.isPunct(">>") {
		p.advance()
		right := p.parseAdditive()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseAdditive() *Expr {
	left := p.parseMultiplicative()
	for p.isPunct("+") || p.isPunct("-") {
		p.advance()
		right := p.parseMultiplicative()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

func (p *Parser) parseMultiplicative() *Expr {
	left := p.parseUnary()
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		p.advance()
		right := p.parseUnary()
		left = &Expr{Kind: "other", Callee: left, Args: []*Expr{right}}
	}
	return left
}

var unaryOps = map[string]bool{"!": true, "~": true, "+": true, "-": true, "++": true, "--": true, "&": true, "*": true}

func (p *Parser) parseUnary() *Expr {
	if p.isKeyword("await") {
		p.advance()
		return p.parseUnary()
	}
	if p.cur().Kind == Punct && unaryOps[p.cur().Text] {
		pos := p.pos0()
		p.advance()
		operand := p.parseUnary()
		return &Expr{Kind: "other", Callee: operand, Pos: pos}
	}
	if p.isPunct("(") {
		if cast, ok := p.tryParseCast(); ok {
			return cast
		}
	}
	return p.parsePostfix()
}

// tryParseCast handles "(Type)expr" by speculatively parsing a type inside
// the parens and checking the parenthesized group is immediately followed
// by something that can only start a unary expression.
func (p *Parser) tryParseCast() (*Expr, bool) {
	start := p.pos
	pos := p.pos0()
	p.advance() // '('
	typ := p.tryParseTypeRef()
	if typ == nil || !p.isPunct(")") {
		p.pos = start
		return nil, false
	}
	p.advance() // ')'
	if !castFollowStarts(p.cur()) {
		p.pos = start
		return nil, false
	}
	operand := p.parseUnary()
	return &Expr{Kind: "other", Type: typ, Callee: operand, Pos: pos}, true
}

func castFollowStarts(t Token) bool {
	switch t.Kind {
	case Ident, Number, String, InterpolatedString, Char:
		return true
	case Keyword:
		return t.Text == "this" || t.Text == "base" || t.Text == "new" ||
			t.Text == "true" || t.Text == "false" || t.Text == "null" ||
			t.Text == "nameof" || t.Text == "typeof" || t.Text == "await"
	case Punct:
		return t.Text == "(" || t.Text == "!" || t.Text == "~"
	}
	return false
}

func (p *Parser) parsePostfix() *Expr {
	e := p.parsePrimary()
	for {
		pos := p.pos0()
		switch {
		case p.isPunct("."):
			p.advance()
			name := p.cur().Text
			if p.cur().Kind == Ident || p.cur().Kind == Keyword {
				p.advance()
			}
			e = &Expr{Kind: "member", Callee: e, Name: name, Pos: pos}
		case p.isPunct("?."):
			p.advance()
			name := p.cur().Text
			if p.cur().Kind == Ident || p.cur().Kind == Keyword {
				p.advance()
			}
			e = &Expr{Kind: "nullcond_member", Callee: e, Name: name, Pos: pos}
		case p.isPunct("?["):
			p.advance()
			args := p.parseArgList("]")
			e = &Expr{Kind: "nullcond_index", Callee: e, Args: args, Pos: pos}
		case p.isPunct("("):
			p.advance()
			args := p.parseArgList(")")
			e = &Expr{Kind: "call", Callee: e, Args: args, Pos: pos}
		case p.isPunct("["):
			p.advance()
			args := p.parseArgList("]")
			e = &Expr{Kind: "elementaccess", Callee: e, Args: args, Pos: pos}
		case p.isPunct("++") || p.isPunct("--"):
			p.advance()
		case p.isPunct("!") && p.at(1).Kind != Punct:
			// null-forgiving operator "expr!"
			p.advance()
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() *Expr {
	pos := p.pos0()
	tok := p.cur()

	switch {
	case tok.Kind == String:
		p.advance()
		return &Expr{Kind: "stringlit", Name: tok.Text, IsString: true, Pos: pos}
	case tok.Kind == InterpolatedString:
		p.advance()
		return &Expr{Kind: "otherlit", Name: tok.Text, Pos: pos}
	case tok.Kind == Number || tok.Kind == Char:
		p.advance()
		return &Expr{Kind: "otherlit", Name: tok.Text, Pos: pos}
	case tok.Kind == Keyword && (tok.Text == "true" || tok.Text == "false" || tok.Text == "null"):
		p.advance()
		return &Expr{Kind: "otherlit", Name: tok.Text, Pos: pos}
	case tok.Kind == Keyword && (tok.Text == "this" || tok.Text == "base"):
		p.advance()
		return &Expr{Kind: "ident", Name: tok.Text, Pos: pos}
	case tok.Kind == Keyword && tok.Text == "nameof":
		return p.parseNameof(pos)
	case tok.Kind == Keyword && tok.Text == "typeof":
		return p.parseTypeof(pos)
	case tok.Kind == Keyword && tok.Text == "new":
		return p.parseNew(pos)
	case p.isPunct("("):
		p.advance()
		e := p.parseExpr()
		p.eatPunct(")")
		return e
	case tok.Kind == Ident || (tok.Kind == Keyword && primitiveTypeWords[tok.Text]):
		p.advance()
		return &Expr{Kind: "ident", Name: tok.Text, Pos: pos}
	default:
		// unrecognized primary (lambdas, query syntax, patterns, stackalloc,
		// etc.): consume one token so callers make forward progress, and
		// report it as an opaque "other" node.
		p.advance()
		return &Expr{Kind: "other", Pos: pos}
	}
}

func (p *Parser) parseNameof(pos Position) *Expr {
	p.advance() // nameof
	name := ""
	if p.eatPunct("(") {
		name = p.parseDottedIdentName()
		// trailing member access beyond the dotted name, e.g. nameof(a.b.c);
		// we only need the last segment.
		if idx := lastDot(name); idx >= 0 {
			name = name[idx+1:]
		}
		p.skipToMatchingParenFrom1()
	}
	return &Expr{Kind: "nameof", Name: name, Pos: pos}
}

// skipToMatchingParenFrom1 discards any remaining tokens up to the ')'
// that closes the paren group already partially consumed by the caller.
func (p *Parser) skipToMatchingParenFrom1() {
	depth := 1
	for depth > 0 && p.cur().Kind != EOF {
		if p.isPunct("(") {
			depth++
		} else if p.isPunct(")") {
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) parseTypeof(pos Position) *Expr {
	p.advance() // typeof
	var typ *TypeRef
	if p.eatPunct("(") {
		typ = p.tryParseTypeRef()
		p.skipToMatchingParenFrom1()
	}
	return &Expr{Kind: "typeof", Type: typ, Pos: pos}
}

func (p *Parser) parseNew(pos Position) *Expr {
	p.advance() // new
	if p.isPunct("[") {
		// implicit array: new[] { ... } / new[,] { ... }
		rank := 0
		for p.eatPunct("[") {
			rank++
			for p.eatPunct(",") {
				rank++
			}
			p.eatPunct("]")
		}
		var elems []*Expr
		if p.eatPunct("{") {
			elems = p.parseArgList("}")
		}
		return &Expr{Kind: "arraycreate", Args: elems, Type: &TypeRef{ArrayRank: rank}, Pos: pos}
	}
	if p.isPunct("{") {
		// anonymous-type / target-typed new with only an initializer.
		p.advance()
		elems := p.parseArgList("}")
		return &Expr{Kind: "objectinit", Args: elems, Pos: pos}
	}

	typ := p.tryParseTypeRef()

	if p.isPunct("[") {
		p.advance()
		sizes := p.parseArgList("]")
		if typ != nil {
			typ = &TypeRef{ArrayRank: len(sizes), ElementType: typ}
		}
		var init []*Expr
		if p.isPunct("{") {
			p.advance()
			init = p.parseArgList("}")
		}
		return &Expr{Kind: "arraycreate", Type: typ, Args: append(sizes, init...), Pos: pos}
	}

	var ctorArgs []*Expr
	if p.eatPunct("(") {
		ctorArgs = p.parseArgList(")")
	}
	if p.isPunct("{") {
		p.advance()
		init := p.parseArgList("}")
		return &Expr{Kind: "objectinit", Type: typ, Args: append(ctorArgs, init...), Pos: pos}
	}
	return &Expr{Kind: "new", Type: typ, Args: ctorArgs, Pos: pos}
}

// ---- call-shape helpers used by rule implementations ----

// CallName returns the invoked method's simple name for a "call" expression
// whose callee is a bare identifier or a member access, or "" otherwise
// (e.g. a delegate stored in a more complex expression).
func (e *Expr) CallName() string {
	if e == nil || e.Kind != "call" || e.Callee == nil {
		return ""
	}
	switch e.Callee.Kind {
	case "ident":
		return e.Callee.Name
	case "member", "nullcond_member":
		return e.Callee.Name
	}
	return ""
}

// CallReceiver returns the receiver expression of a member-style call
// (e.g. the "obj" in "obj.Foo()"), or nil for an unqualified call or a
// callee shape CallName doesn't recognize.
func (e *Expr) CallReceiver() *Expr {
	if e == nil || e.Callee == nil {
		return nil
	}
	if e.Callee.Kind == "member" || e.Callee.Kind == "nullcond_member" {
		return e.Callee.Callee
	}
	return nil
}

// ArgCount returns len(Args), convenient for rules that only care about
// arity (e.g. indexer argument counts).
func (e *Expr) ArgCount() int {
	if e == nil {
		return 0
	}
	return len(e.Args)
}
