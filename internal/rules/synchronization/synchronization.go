// Package synchronization implements USH0007-USH0012: constraints on
// fields marked [UdonSynced].
package synchronization

import (
	"fmt"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/semantic"
)

var codes = []string{
	"USH0007", "USH0008", "USH0009", "USH0010", "USH0011", "USH0012",
}

type family struct{}

func init() { rules.Register(family{}) }

func (family) Codes() []string { return codes }

var supportedSyncedTypes = map[string]bool{
	"Boolean": true, "Byte": true, "SByte": true, "Int16": true, "UInt16": true,
	"Int32": true, "UInt32": true, "Int64": true, "UInt64": true, "Single": true,
	"Double": true, "Char": true, "String": true,
	"Vector2": true, "Vector3": true, "Vector4": true, "Quaternion": true,
	"Color": true, "Color32": true,
	"GameObject": true, "Transform": true, "VRCPlayerApi": true, "UdonBehaviour": true,
}

var linearSupportedTypes = map[string]bool{
	"Single": true, "Vector2": true, "Vector3": true, "Vector4": true, "Quaternion": true,
}

var smoothSupportedTypes = map[string]bool{
	"Single": true, "Int32": true, "Vector2": true, "Vector3": true, "Quaternion": true,
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
		syncMode := semantic.SyncModeOf(td)
		for _, f := range td.Fields {
			attr := f.Attribute("UdonSynced")
			if attr == nil {
				continue
			}
			out = append(out, checkField(input, td, f, attr, syncMode)...)
		}
	}
	return out
}

func checkField(input rules.CheckInput, td *csharp.TypeDecl, f *csharp.FieldDecl, attr *csharp.AttributeUse, syncMode string) []rules.Violation {
	var out []rules.Violation
	loc := rules.LocationOfPos(input.Path, f.Pos)

	if syncMode == "NoVariableSync" {
		out = append(out, rules.NewViolation(loc, "USH0007",
			fmt.Sprintf("%s is declared with BehaviourSyncMode.NoVariableSync and cannot sync variables", td.Name), rules.SeverityError))
	}

	elemType := f.Type
	isArray := f.Type.ArrayRank > 0
	if isArray {
		elemType = f.Type.ElementType
	}
	checkType := semantic.UnwrapNullableOnce(elemType)
	if checkType == nil || !supportedSyncedTypes[semantic.NormalizeSimpleTypeName(checkType.Name)] {
		out = append(out, rules.NewViolation(loc, "USH0008",
			fmt.Sprintf("%s is not a supported synced type", describeType(f.Type)), rules.SeverityError))
	}

	if isArray && syncMode != "Manual" {
		out = append(out, rules.NewViolation(loc, "USH0009",
			fmt.Sprintf("synced array %q requires BehaviourSyncMode.Manual", f.Name), rules.SeverityError))
	}

	tweening := semantic.TweeningModeOf(attr)
	if tweening == "" {
		return out
	}

	if syncMode == "Manual" {
		out = append(out, rules.NewViolation(loc, "USH0010",
			fmt.Sprintf("tweened sync on %q is incompatible with BehaviourSyncMode.Manual", f.Name), rules.SeverityError))
	}

	normalized := semantic.NormalizeSimpleTypeName(semantic.UnwrapNullableOnce(f.Type).Name)
	switch tweening {
	case "Linear":
		if !linearSupportedTypes[normalized] {
			out = append(out, rules.NewViolation(loc, "USH0011",
				fmt.Sprintf("%s is not supported for Linear tweened sync", describeType(f.Type)), rules.SeverityError))
		}
	case "Smooth":
		if !smoothSupportedTypes[normalized] {
			out = append(out, rules.NewViolation(loc, "USH0012",
				fmt.Sprintf("%s is not supported for Smooth tweened sync", describeType(f.Type)), rules.SeverityError))
		}
	}
	return out
}

func describeType(t *csharp.TypeRef) string {
	if t == nil {
		return "<unknown>"
	}
	if t.ArrayRank > 0 && t.ElementType != nil {
		return t.ElementType.Name + "[]"
	}
	return t.Name
}
