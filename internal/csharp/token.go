// Package csharp implements a hand-written, intentionally restricted parser
// for the subset of C# that UdonSharp scripts are written in. It stands in
// for the "off-the-shelf compiler front end" the specification assumes is
// available (syntax trees, symbol resolution, compilation-with-references) —
// no such library exists anywhere in the reference corpus for this dialect,
// so this package is the necessary concrete implementation behind that
// contract, scoped to what the rule families in internal/rules actually
// inspect: type/member declarations, attributes, and a conservative
// statement/expression shape (calls, member access, is/as, try/throw/goto,
// object initializers, local functions).
//
// It is not a general C# parser: expression precedence is approximated, and
// constructs outside the inspected subset (LINQ query syntax, unsafe
// pointers, preprocessor directives beyond simple stripping) are tolerated
// by skipping rather than rejected outright, since a script that fails to
// parse should not silence every rule for the whole file.
package csharp

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	Number
	String
	InterpolatedString
	Char
	Punct
)

// Token is a single lexical unit with its source position (1-based).
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Column)
}

var keywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true,
	"default": true, "delegate": true, "do": true, "double": true,
	"else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true,
	"float": true, "for": true, "foreach": true, "goto": true, "if": true,
	"implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true,
	"operator": true, "out": true, "override": true, "params": true,
	"private": true, "protected": true, "public": true, "readonly": true,
	"ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true, "var": true, "partial": true, "async": true,
	"await": true, "nameof": true, "dynamic": true, "yield": true,
	"get": true, "set": true, "value": true, "where": true,
}
