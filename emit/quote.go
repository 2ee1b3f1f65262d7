package emit

import (
	"fmt"

	"github.com/rubiojr/nettle/form"
)

// emitQuote emits a quoted form as runtime-constructor calls (spec §4.4
// "Quote"): a Symbol.Intern/Keyword.Intern/PersistentList.Create tree for
// each collection/identifier shape, literal tokens with their host suffix,
// and properly escaped strings — mirroring emitLiteral for the scalar
// leaves of the tree.
func (e *Emitter) emitQuote(f form.Form) (CsExpr, error) {
	switch v := f.(type) {
	case nil:
		return CsNullExpr{}, nil
	case form.Bool, form.Int, form.Float, form.Decimal, form.Char, form.String:
		return e.emitLiteral(v)
	case *form.Symbol:
		ns := CsExpr(CsNullExpr{})
		if v.NS != "" {
			ns = CsLit{Code: csEscapeString(v.NS)}
		}
		return CsCallExpr{Func: "Symbol.Intern", Args: []CsExpr{ns, CsLit{Code: csEscapeString(v.Name)}}}, nil
	case *form.Keyword:
		ns := CsExpr(CsNullExpr{})
		if v.NS != "" {
			ns = CsLit{Code: csEscapeString(v.NS)}
		}
		return CsCallExpr{Func: "Keyword.Intern", Args: []CsExpr{ns, CsLit{Code: csEscapeString(v.Name)}}}, nil
	case *form.List:
		args, err := e.emitQuoteAll(v.Items)
		if err != nil {
			return nil, err
		}
		return CsCallExpr{Func: "PersistentList.Create", Args: args}, nil
	case *form.Vector:
		args, err := e.emitQuoteAll(v.Items)
		if err != nil {
			return nil, err
		}
		return CsCallExpr{Func: "PersistentVector.Create", Args: args}, nil
	case *form.Set:
		args, err := e.emitQuoteAll(v.Items)
		if err != nil {
			return nil, err
		}
		return CsCallExpr{Func: "PersistentHashSet.Create", Args: args}, nil
	case *form.Map:
		var args []CsExpr
		for _, pair := range v.Pairs {
			k, err := e.emitQuote(pair.Key)
			if err != nil {
				return nil, err
			}
			val, err := e.emitQuote(pair.Value)
			if err != nil {
				return nil, err
			}
			args = append(args, k, val)
		}
		return CsCallExpr{Func: "PersistentHashMap.Create", Args: args}, nil
	default:
		if f == form.NilForm {
			return CsNullExpr{}, nil
		}
		return nil, emitErrorf(fmt.Sprintf("%T", f), "unrecognized quoted form kind")
	}
}

func (e *Emitter) emitQuoteAll(items []form.Form) ([]CsExpr, error) {
	out := make([]CsExpr, len(items))
	for i, it := range items {
		ce, err := e.emitQuote(it)
		if err != nil {
			return nil, err
		}
		out[i] = ce
	}
	return out, nil
}
