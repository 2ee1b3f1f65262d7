package analyze

import (
	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/ir"
)

// primitiveOpHeads is the set of operator symbols eligible for
// specialization (spec §4.3).
var primitiveOpHeads = map[string]string{
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"<":  "<",
	">":  ">",
	"<=": "<=",
	">=": ">=",
	"=":  "==",
}

// numericRank ranks the promotion lattice Float64 > Float32 > Decimal >
// Int64 > Int32 (spec §4.3), spelled in host (C#) type tokens: double,
// float, decimal, long, int. Lower index wins a promotion.
var numericRank = []string{"double", "float", "decimal", "long", "int"}

func rankOf(t string) (int, bool) {
	for i, candidate := range numericRank {
		if candidate == t {
			return i, true
		}
	}
	return 0, false
}

// promote returns the promoted common type of a and b under the numeric
// ranking, or ("", false) if either is not a ranked numeric type.
func promote(a, b string) (string, bool) {
	ra, ok := rankOf(a)
	if !ok {
		return "", false
	}
	rb, ok := rankOf(b)
	if !ok {
		return "", false
	}
	if ra < rb {
		return a, true
	}
	return b, true
}

// operandType infers the host numeric type of an already-analyzed operand
// (spec §4.3): a literal's own type, a local's type from ctx, a Cast's
// target type, a nested PrimitiveOp's result type, or "" (unknown)
// otherwise.
func operandType(e ir.Expr, ctx *Context) string {
	switch v := e.(type) {
	case *ir.Literal:
		return literalNumericType(v)
	case *ir.SymbolRef:
		if v.IsLocal {
			return ctx.LocalType(v.Symbol.Name)
		}
		return ""
	case *ir.Cast:
		return v.TypeName
	case *ir.PrimitiveOp:
		return v.PrimitiveType
	default:
		return ""
	}
}

// literalNumericType reports the host numeric type of a literal form
// (Int64/Int32/Float64/Float32/Decimal, per spec §4.3), or "" if it is not
// a numeric literal.
func literalNumericType(lit *ir.Literal) string {
	switch lit.Value.(type) {
	case form.Int:
		return "long"
	case form.Float:
		return "double"
	case form.Decimal:
		return "decimal"
	default:
		return ""
	}
}

// trySpecializePrimitiveOp attempts to build an ir.PrimitiveOp for a head
// symbol in {+,-,*,/,<,>,<=,>=,=} given already-analyzed operands. It
// returns (nil, false) when any operand's type could not be resolved, in
// which case the caller must fall through to a normal Invoke (spec §4.3).
func trySpecializePrimitiveOp(headName string, args []ir.Expr, ctx *Context) (*ir.PrimitiveOp, bool) {
	hostOp, eligible := primitiveOpHeads[headName]
	if !eligible || len(args) < 2 {
		return nil, false
	}

	types := make([]string, len(args))
	for i, a := range args {
		t := operandType(a, ctx)
		if t == "" {
			return nil, false
		}
		types[i] = t
	}

	common := types[0]
	for _, t := range types[1:] {
		promoted, ok := promote(common, t)
		if !ok {
			return nil, false
		}
		common = promoted
	}

	return &ir.PrimitiveOp{Operator: hostOp, PrimitiveType: common, Operands: args}, true
}
