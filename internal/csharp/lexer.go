package csharp

import "strings"

// Lexer tokenizes a restricted C# source buffer.
type Lexer struct {
	src        []rune
	pos        int
	line, col  int
	peeked     *Token
}

// NewLexer creates a Lexer over source text.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: []rune(string(src)), line: 1, col: 1}
}

func (l *Lexer) cur() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) at(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.cur()
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// Next returns the next token, skipping whitespace, comments, and simple
// preprocessor directives (stripped wholesale, not evaluated).
func (l *Lexer) Next() Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.cur() == ' ' || l.cur() == '\t' || l.cur() == '\r' || l.cur() == '\n':
			l.advance()
		case l.cur() == '/' && l.at(1) == '/':
			for l.cur() != 0 && l.cur() != '\n' {
				l.advance()
			}
		case l.cur() == '/' && l.at(1) == '*':
			l.advance()
			l.advance()
			for l.cur() != 0 && !(l.cur() == '*' && l.at(1) == '/') {
				l.advance()
			}
			if l.cur() != 0 {
				l.advance()
				l.advance()
			}
		case l.cur() == '#':
			for l.cur() != 0 && l.cur() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *Lexer) scan() Token {
	l.skipTrivia()
	line, col := l.line, l.col
	r := l.cur()
	if r == 0 {
		return Token{Kind: EOF, Line: line, Column: col}
	}

	if isIdentStart(r) {
		var sb strings.Builder
		for isIdentPart(l.cur()) {
			sb.WriteRune(l.advance())
		}
		text := sb.String()
		if keywords[text] {
			return Token{Kind: Keyword, Text: text, Line: line, Column: col}
		}
		return Token{Kind: Ident, Text: text, Line: line, Column: col}
	}

	if isDigit(r) {
		var sb strings.Builder
		for isDigit(l.cur()) || l.cur() == '.' || l.cur() == '_' ||
			l.cur() == 'x' || l.cur() == 'X' || l.cur() == 'f' || l.cur() == 'F' ||
			l.cur() == 'd' || l.cur() == 'D' || l.cur() == 'u' || l.cur() == 'U' ||
			l.cur() == 'l' || l.cur() == 'L' ||
			(l.cur() >= 'a' && l.cur() <= 'f') || (l.cur() >= 'A' && l.cur() <= 'F') {
			sb.WriteRune(l.advance())
		}
		return Token{Kind: Number, Text: sb.String(), Line: line, Column: col}
	}

	if r == '@' && l.at(1) == '"' {
		return l.scanVerbatimString(line, col)
	}
	if (r == '$' && l.at(1) == '"') || (r == '$' && l.at(1) == '@' && l.at(2) == '"') {
		return l.scanInterpolatedString(line, col)
	}
	if r == '"' {
		return l.scanString(line, col)
	}
	if r == '\'' {
		return l.scanChar(line, col)
	}

	return l.scanPunct(line, col)
}

func (l *Lexer) scanString(line, col int) Token {
	l.advance() // opening quote
	var sb strings.Builder
	for l.cur() != 0 && l.cur() != '"' {
		if l.cur() == '\\' {
			sb.WriteRune(l.advance())
			if l.cur() != 0 {
				sb.WriteRune(l.advance())
			}
			continue
		}
		sb.WriteRune(l.advance())
	}
	if l.cur() == '"' {
		l.advance()
	}
	return Token{Kind: String, Text: sb.String(), Line: line, Column: col}
}

func (l *Lexer) scanVerbatimString(line, col int) Token {
	l.advance() // @
	l.advance() // "
	var sb strings.Builder
	for l.cur() != 0 {
		if l.cur() == '"' {
			if l.at(1) == '"' {
				sb.WriteRune('"')
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		sb.WriteRune(l.advance())
	}
	return Token{Kind: String, Text: sb.String(), Line: line, Column: col}
}

// scanInterpolatedString tolerates $"..." / $@"..." without parsing the
// embedded expressions; rules in this codebase only need to know that a
// method-name argument was NOT a plain string literal.
func (l *Lexer) scanInterpolatedString(line, col int) Token {
	l.advance() // $
	verbatim := false
	if l.cur() == '@' {
		verbatim = true
		l.advance()
	}
	l.advance() // "
	depth := 0
	var sb strings.Builder
	for l.cur() != 0 {
		if l.cur() == '{' {
			depth++
			sb.WriteRune(l.advance())
			continue
		}
		if l.cur() == '}' && depth > 0 {
			depth--
			sb.WriteRune(l.advance())
			continue
		}
		if l.cur() == '"' && depth == 0 {
			if verbatim && l.at(1) == '"' {
				sb.WriteRune('"')
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		if l.cur() == '\\' && !verbatim {
			sb.WriteRune(l.advance())
			if l.cur() != 0 {
				sb.WriteRune(l.advance())
			}
			continue
		}
		sb.WriteRune(l.advance())
	}
	return Token{Kind: InterpolatedString, Text: sb.String(), Line: line, Column: col}
}

func (l *Lexer) scanChar(line, col int) Token {
	l.advance() // opening quote
	var sb strings.Builder
	for l.cur() != 0 && l.cur() != '\'' {
		if l.cur() == '\\' {
			sb.WriteRune(l.advance())
			if l.cur() != 0 {
				sb.WriteRune(l.advance())
			}
			continue
		}
		sb.WriteRune(l.advance())
	}
	if l.cur() == '\'' {
		l.advance()
	}
	return Token{Kind: Char, Text: sb.String(), Line: line, Column: col}
}

var multiCharPuncts = []string{
	"??=", "?.", "??", "?[", "=>", "::", "<<=", ">>=", "&&=", "||=",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=",
	"/=", "%=", "&=", "|=", "^=", "<<", ">>", "->",
}

func (l *Lexer) scanPunct(line, col int) Token {
	rest := string(l.src[l.pos:min(l.pos+3, len(l.src))])
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return Token{Kind: Punct, Text: p, Line: line, Column: col}
		}
	}
	r := l.advance()
	return Token{Kind: Punct, Text: string(r), Line: line, Column: col}
}
