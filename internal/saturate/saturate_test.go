package saturate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/pattern"
	"github.com/sdql-eqsat/eqsat/internal/rule"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

// addZero is a minimal one-rule catalogue exercising the driver without
// depending on the full SDQL rule set.
func addZeroRule() rule.Rule {
	return rule.Rule{
		Name:  "add-zero",
		LHS:   pattern.PNode(term.Add, pattern.PVar("e"), pattern.PNum(0)),
		Apply: rule.Instantiate(pattern.PVar("e")),
	}
}

func TestRun_SaturatesWhenNoRuleFiresFurther(t *testing.T) {
	eg := egraph.New(nil)
	root := eg.AddExpr(term.NewAdd(term.NewVar(0), term.NewNum(0)))

	d := New(eg, []rule.Rule{addZeroRule()}, nil)
	res := d.Run(Params{MaxIterations: 30})

	assert.Equal(t, Saturated, res.Reason)
	assert.Equal(t, 1, res.FireCounts["add-zero"])
	assert.Equal(t, eg.Find(root), eg.Find(eg.AddExpr(term.NewVar(0))), "add-zero should have unioned the root with its simplified form")
}

// growMaxRule matches every class and, if it currently holds a Num node,
// adds one recording one more than the largest Num seen so far in that
// class. Since the new literal has never existed before, the union with
// the matched class always changes something, so the class keeps
// growing and the driver never reaches a fixed point -- useful for
// exercising the iteration and node caps deterministically.
func growMaxRule() rule.Rule {
	return rule.Rule{
		Name: "grow-max",
		LHS:  pattern.PVar("x"),
		Apply: func(eg *egraph.EGraph, subst pattern.Substitution) (int, bool) {
			max := int32(-1)
			found := false
			for _, n := range eg.NodesIn(subst["x"]) {
				if n.Op == term.Num && n.Num > max {
					max, found = n.Num, true
				}
			}
			if !found {
				return 0, false
			}
			return eg.Add(egraph.ENode{Op: term.Num, Num: max + 1}), true
		},
	}
}

func TestRun_StopsAtIterationCap(t *testing.T) {
	eg := egraph.New(nil)
	eg.AddExpr(term.NewNum(0))

	d := New(eg, []rule.Rule{growMaxRule()}, nil)
	res := d.Run(Params{MaxIterations: 3})

	assert.Equal(t, IterationCap, res.Reason)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 3, res.FireCounts["grow-max"])
}

func TestRun_StopsAtNodeCap(t *testing.T) {
	eg := egraph.New(nil)
	eg.AddExpr(term.NewNum(0))

	d := New(eg, []rule.Rule{growMaxRule()}, nil)
	res := d.Run(Params{MaxIterations: 1000, MaxNodes: 3})

	assert.Equal(t, NodeCap, res.Reason)
}

func TestRun_IndividualModeRestrictsToReachableClasses(t *testing.T) {
	eg := egraph.New(nil)
	root := eg.AddExpr(term.NewAdd(term.NewVar(0), term.NewNum(0)))
	// an unrelated expression, also matching add-zero, but not reachable
	// from root
	unrelated := eg.AddExpr(term.NewAdd(term.NewVar(1), term.NewNum(0)))

	d := New(eg, []rule.Rule{addZeroRule()}, nil)
	r := eg.Find(root)
	res := d.Run(Params{MaxIterations: 30, Root: &r})

	require.Equal(t, Saturated, res.Reason)
	assert.Equal(t, 1, res.FireCounts["add-zero"], "only the reachable match should fire")

	foundAdd := false
	for _, n := range eg.NodesIn(unrelated) {
		if n.Op == term.Add {
			foundAdd = true
		}
	}
	assert.True(t, foundAdd, "the unrelated class outside root's reach must not have been simplified")
}

func TestRun_GuardSuppressesMatch(t *testing.T) {
	eg := egraph.New(nil)
	eg.AddExpr(term.NewAdd(term.NewVar(0), term.NewNum(0)))

	neverFires := rule.Rule{
		Name:  "add-zero-guarded-off",
		LHS:   pattern.PNode(term.Add, pattern.PVar("e"), pattern.PNum(0)),
		Guard: func(pattern.Substitution, *egraph.EGraph) bool { return false },
		Apply: rule.Instantiate(pattern.PVar("e")),
	}

	d := New(eg, []rule.Rule{neverFires}, nil)
	res := d.Run(Params{MaxIterations: 5})

	assert.Equal(t, Saturated, res.Reason)
	assert.Equal(t, 0, res.FireCounts["add-zero-guarded-off"])
}

func TestStopReason_String(t *testing.T) {
	assert.Equal(t, "saturated", Saturated.String())
	assert.Equal(t, "iteration cap", IterationCap.String())
}
