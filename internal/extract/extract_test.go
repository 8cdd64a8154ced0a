package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

func TestExtract_PicksCheaperOfTwoEquivalentNodes(t *testing.T) {
	eg := egraph.New(nil)

	cheap := eg.AddExpr(term.NewNum(1))
	expensive := eg.Add(egraph.ENode{Op: term.Add, Kids: []int{cheap, cheap}})
	other := eg.AddExpr(term.NewNum(2))
	eg.Union(expensive, other)
	eg.Rebuild()

	res := New(eg, nil).Extract(eg.Find(expensive))

	want := term.NewNum(2)
	assert.True(t, want.Equal(res.Term), "the single-node Num(2) representation is cheaper than Add(1,1)")
}

func TestExtract_AppAndBinopAreInfinite(t *testing.T) {
	eg := egraph.New(nil)

	f := eg.AddExpr(term.NewSym("f"))
	x := eg.AddExpr(term.NewVar(0))
	app := eg.Add(egraph.ENode{Op: term.App, Kids: []int{f, x}})

	res := New(eg, nil).Extract(eg.Find(app))

	assert.Equal(t, Inf, res.Cost)
	assert.Equal(t, 1, res.InfClasses)
}

func TestExtract_NoInfClassesWhenEverythingResolves(t *testing.T) {
	eg := egraph.New(nil)
	root := eg.AddExpr(term.NewAdd(term.NewNum(1), term.NewNum(2)))

	res := New(eg, nil).Extract(eg.Find(root))

	assert.Equal(t, 0, res.InfClasses)
	assert.Less(t, int64(res.Cost), int64(Inf))
}

func TestExtract_SumCostIsCheaperOverAVectorRange(t *testing.T) {
	// Given: two sums with identical bodies, one ranging over a Range
	// (vector-kinded) and one over an opaque Sym (not vector-kinded)
	eg1 := egraph.New(nil)
	vecRange := eg1.AddExpr(term.NewRange(term.NewNum(1), term.NewNum(10)))
	body1 := eg1.AddExpr(term.NewSing(term.NewVar(1), term.NewVar(0)))
	sumOverVec := eg1.Add(egraph.ENode{Op: term.Sum, Kids: []int{vecRange, body1}})
	vecResult := New(eg1, nil).Extract(eg1.Find(sumOverVec))

	eg2 := egraph.New(nil)
	opaque := eg2.AddExpr(term.NewSym("R"))
	body2 := eg2.AddExpr(term.NewSing(term.NewVar(1), term.NewVar(0)))
	sumOverOpaque := eg2.Add(egraph.ENode{Op: term.Sum, Kids: []int{opaque, body2}})
	opaqueResult := New(eg2, nil).Extract(eg2.Find(sumOverOpaque))

	assert.Less(t, int64(vecResult.Cost), int64(opaqueResult.Cost))
}

func TestExtract_BuildsWellFormedTermFromChoices(t *testing.T) {
	eg := egraph.New(nil)
	root := eg.AddExpr(term.NewMul(term.NewNum(2), term.NewNum(3)))

	res := New(eg, nil).Extract(eg.Find(root))

	require.NotNil(t, res.Term)
	assert.Equal(t, term.Mul, res.Term.Op)
	assert.Len(t, res.Term.Kids, 2)
}
