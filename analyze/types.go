package analyze

import (
	"strings"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/ir"
)

// bclAliases normalizes host-BCL type names to their primitive-alias
// spelling so user-defined types can never collide with a primitive
// (spec §4.3's open question: "the normalization of :tag String to the
// host keyword string prevents user classes named String from being used
// as a type hint" — a deliberate trade-off, kept here unchanged).
var bclAliases = map[string]string{
	"String":  "string",
	"Int32":   "int",
	"Int64":   "long",
	"Boolean": "bool",
	"Double":  "double",
	"Single":  "float",
	"Decimal": "decimal",
	"Char":    "char",
	"Byte":    "byte",
	"Object":  "object",
}

// NormalizeTypeName applies the BCL alias table to t.
func NormalizeTypeName(t string) string {
	if alias, ok := bclAliases[t]; ok {
		return alias
	}
	return t
}

// tagString extracts the raw type-hint text from a :tag metadata value,
// which the reader may have produced as either a Symbol (possibly
// namespaced, e.g. ^System.Int32) or a String (for hints the reader
// cannot name as a symbol, e.g. ^"string[]").
func tagString(tag form.Form) (string, bool) {
	switch v := tag.(type) {
	case *form.Symbol:
		if v.NS != "" {
			return v.NS + "." + v.Name, true
		}
		return v.Name, true
	case form.String:
		return string(v), true
	default:
		return "", false
	}
}

// extractTag inspects f's metadata for :tag and, if present, returns the
// normalized host type name and whether the hint forces an async
// signature (its text begins with "Task", spec §4.3's auto-async rule).
func extractTag(f form.Form) (typeName string, forcesAsync bool, ok bool) {
	meta := form.MetaOf(f)
	tag, present := meta.Tag()
	if !present {
		return "", false, false
	}
	raw, isUsable := tagString(tag)
	if !isUsable {
		return "", false, false
	}
	normalized := NormalizeTypeName(raw)
	return normalized, strings.HasPrefix(raw, "Task"), true
}

// wrapWithTag wraps e in an ir.Cast if f carries a :tag metadata hint,
// otherwise returns e unchanged (spec §4.3: "prior to analysis of a form,
// inspect its metadata for :tag; if present, wrap the analyzed result in
// Cast(type, inner)").
func wrapWithTag(f form.Form, e ir.Expr) ir.Expr {
	typeName, _, ok := extractTag(f)
	if !ok {
		return e
	}
	return &ir.Cast{TypeName: typeName, Inner: e}
}
