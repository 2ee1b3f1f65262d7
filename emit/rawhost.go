package emit

import (
	"strings"

	"github.com/rubiojr/nettle/ir"
)

// emitRawHost parses `~{name}` placeholders out of v.Template and splices in
// the emitted host source of the matching Interp.Expr for each one (spec
// §4.4 "Raw host embedding"). The result is an opaque CsRawExpr: by this
// point there is no further structure to preserve, only text to reproduce
// verbatim in the generated file.
func (e *Emitter) emitRawHost(v *ir.RawHost) (CsExpr, error) {
	interpByPlaceholder := make(map[string]CsExpr, len(v.Interps))
	for _, in := range v.Interps {
		ce, err := e.emitExpr(in.Expr)
		if err != nil {
			return nil, err
		}
		interpByPlaceholder[in.Placeholder] = ce
	}

	var out strings.Builder
	s := v.Template
	for {
		start := strings.Index(s, "~{")
		if start < 0 {
			out.WriteString(s)
			break
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			out.WriteString(s)
			break
		}
		end += start
		placeholder := s[start+2 : end]
		out.WriteString(s[:start])
		if ce, ok := interpByPlaceholder[placeholder]; ok {
			out.WriteString(e.exprText(ce))
		} else {
			out.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}

	return CsRawExpr{Code: out.String()}, nil
}
