package semantic

import "github.com/project-sakanah/udonsharp-linter/internal/csharp"

// primitiveAliases maps C# keyword type names to their BCL simple names,
// so that e.g. "int" and "System.Int32" compare equal.
var primitiveAliases = map[string]string{
	"bool": "Boolean", "byte": "Byte", "sbyte": "SByte", "char": "Char",
	"decimal": "Decimal", "double": "Double", "float": "Single", "int": "Int32",
	"uint": "UInt32", "long": "Int64", "ulong": "UInt64", "object": "Object",
	"short": "Int16", "ushort": "UInt16", "string": "String",
}

var numericTypeNames = map[string]bool{
	"Byte": true, "SByte": true, "Int16": true, "UInt16": true, "Int32": true,
	"UInt32": true, "Int64": true, "UInt64": true, "Single": true,
	"Double": true, "Decimal": true,
}

// NormalizeSimpleTypeName strips any namespace qualifier and maps keyword
// aliases to their BCL name, e.g. "System.Int32" and "int" both become
// "Int32".
func NormalizeSimpleTypeName(name string) string {
	if idx := lastDotIdx(name); idx >= 0 {
		name = name[idx+1:]
	}
	if alias, ok := primitiveAliases[name]; ok {
		return alias
	}
	return name
}

// IsNumericTypeName reports whether name (alias or BCL form) names one of
// the numeric primitive types.
func IsNumericTypeName(name string) bool {
	return numericTypeNames[NormalizeSimpleTypeName(name)]
}

// UnwrapNullableOnce implements the specification's "unwrap once before any
// deny-list check": a generic Nullable<T> becomes T. The "T?" sugar form
// already carries the inner name directly on the same TypeRef (IsNullable
// is just a flag on it), so only the generic spelling needs unwrapping.
func UnwrapNullableOnce(t *csharp.TypeRef) *csharp.TypeRef {
	if t == nil {
		return t
	}
	if t.Name == "Nullable" && len(t.GenericArgs) == 1 {
		return t.GenericArgs[0]
	}
	return t
}

// TypeRefsCompatible reports whether two syntactic type references name
// the same type, treating all numeric primitives as mutually compatible
// (the specification's numeric-alias family, used for argument-type
// matching in the network-event rules).
func TypeRefsCompatible(a, b *csharp.TypeRef) bool {
	if a == nil || b == nil {
		return false
	}
	an, bn := NormalizeSimpleTypeName(a.Name), NormalizeSimpleTypeName(b.Name)
	if an == bn {
		return true
	}
	return IsNumericTypeName(an) && IsNumericTypeName(bn)
}

// AttributeArgName returns the last dotted segment of an attribute's
// positional argument, e.g. the "None" in
// "[UdonBehaviourSyncMode(BehaviourSyncMode.None)]". Used to read
// enum-valued attribute arguments without a real symbol table.
func AttributeArgName(attr *csharp.AttributeUse, index int) string {
	if attr == nil || index >= len(attr.Args) {
		return ""
	}
	return exprLastSegment(attr.Args[index])
}

func exprLastSegment(e *csharp.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case "member", "nullcond_member", "ident":
		return e.Name
	}
	return ""
}

// SyncModeOf returns the sync-mode enum member named by td's
// UdonBehaviourSyncMode attribute, or "" if absent.
func SyncModeOf(td *csharp.TypeDecl) string {
	attr := td.Attribute("UdonBehaviourSyncMode")
	return AttributeArgName(attr, 0)
}

// TweeningModeOf returns the tweening-mode enum member named by a
// UdonSynced attribute's argument, e.g. "Linear"/"Smooth", or "" if the
// attribute carries no argument (the common untweened case).
func TweeningModeOf(attr *csharp.AttributeUse) string {
	return AttributeArgName(attr, 0)
}

// HasNetworkCallable reports whether m is annotated with
// [NetworkCallable].
func HasNetworkCallable(m *csharp.MethodDecl) bool {
	return m.Attribute("NetworkCallable") != nil
}
