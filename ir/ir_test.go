package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/ir"
)

// buildLet constructs a small `(let [x 1] x)`-shaped tree by hand, the way
// the analyzer's analyzeLet would, so the structural-diff behavior below
// doesn't depend on running the full pipeline.
func buildLet(initValue int64) *ir.Let {
	return &ir.Let{
		Bindings: []ir.Binding{
			{Name: "x", Init: &ir.Literal{Value: form.Int(initValue)}},
		},
		Body: []ir.Expr{
			&ir.SymbolRef{Symbol: &form.Symbol{Name: "x"}, IsLocal: true},
		},
	}
}

// TestCompareEqualTreesHasNoDiff exercises google/go-cmp's structural
// comparison on IR trees (SPEC_FULL §0's "structural diffs of IR trees...
// where reflect.DeepEqual would be misleading about why two trees differ"):
// two independently-built but value-equal trees must diff to empty.
func TestCompareEqualTreesHasNoDiff(t *testing.T) {
	a := buildLet(1)
	b := buildLet(1)
	assert.Empty(t, cmp.Diff(a, b))
}

// TestCompareDivergingTreesNamesTheBinding demonstrates the payoff over
// reflect.DeepEqual: the diff output pinpoints exactly which field changed
// (the binding's literal value), not just "not equal".
func TestCompareDivergingTreesNamesTheBinding(t *testing.T) {
	a := buildLet(1)
	b := buildLet(2)
	diff := cmp.Diff(a, b)
	assert.NotEmpty(t, diff)
	assert.Contains(t, diff, "Value")
}

func TestCompareDivergingBodyLength(t *testing.T) {
	a := buildLet(1)
	b := buildLet(1)
	b.Body = append(b.Body, &ir.SymbolRef{Symbol: &form.Symbol{Name: "x"}, IsLocal: true})
	diff := cmp.Diff(a, b)
	assert.NotEmpty(t, diff)
}
