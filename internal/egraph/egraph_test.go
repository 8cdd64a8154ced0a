package egraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdql-eqsat/eqsat/internal/term"
)

func TestAddExpr_HashConsesStructurallyEqualTerms(t *testing.T) {
	eg := New(nil)

	a := eg.AddExpr(term.NewAdd(term.NewVar(0), term.NewNum(1)))
	b := eg.AddExpr(term.NewAdd(term.NewVar(0), term.NewNum(1)))

	assert.Equal(t, eg.Find(a), eg.Find(b), "structurally identical terms must land in the same class")
}

func TestUnion_MergesClassesAndIsStableAfterFind(t *testing.T) {
	eg := New(nil)

	a := eg.AddExpr(term.NewNum(1))
	b := eg.AddExpr(term.NewNum(2))
	require.NotEqual(t, eg.Find(a), eg.Find(b))

	root, changed := eg.Union(a, b)
	assert.True(t, changed)
	assert.Equal(t, root, eg.Find(a))
	assert.Equal(t, root, eg.Find(b))

	// unioning again reports no change
	_, changedAgain := eg.Union(a, b)
	assert.False(t, changedAgain)
}

func TestRebuild_RestoresCongruenceAfterUnion(t *testing.T) {
	eg := New(nil)

	// f(a) and f(b) are distinct nodes until a and b are unioned
	a := eg.AddExpr(term.NewNum(1))
	b := eg.AddExpr(term.NewNum(2))
	fa := eg.Add(ENode{Op: term.Add, Kids: []int{a, a}})
	fb := eg.Add(ENode{Op: term.Add, Kids: []int{b, b}})
	require.NotEqual(t, eg.Find(fa), eg.Find(fb))

	eg.Union(a, b)
	eg.Rebuild()

	assert.Equal(t, eg.Find(fa), eg.Find(fb), "congruence closure should merge f(a) and f(b) once a=b")
}

func TestClassData_FreeSetTracksVarAcrossChildren(t *testing.T) {
	eg := New(nil)

	// sum binds indices 0,1 in its body; a free reference to index 2 in the
	// body becomes free index 0 of the sum's class
	body := eg.AddExpr(term.NewVar(2))
	rng := eg.AddExpr(term.NewSym("R"))
	sum := eg.Add(ENode{Op: term.Sum, Kids: []int{rng, body}})

	free := eg.ClassData(sum).Free
	_, has0 := free[0]
	assert.True(t, has0)
	_, has2 := free[2]
	assert.False(t, has2)
}

func TestReachable_FollowsChildrenOnly(t *testing.T) {
	eg := New(nil)

	leaf := eg.AddExpr(term.NewNum(1))
	other := eg.AddExpr(term.NewNum(2))
	root := eg.AddExpr(term.NewAdd(term.NewNum(1), term.NewNum(3)))

	reach := eg.Reachable(root)

	assertContains := func(id int) bool {
		for _, r := range reach {
			if r == id {
				return true
			}
		}
		return false
	}
	assert.True(t, assertContains(eg.Find(leaf)))
	assert.False(t, assertContains(eg.Find(other)), "an unrelated class must not be reachable from root")
}

func TestRoots_OnlyUnreferencedClasses(t *testing.T) {
	eg := New(nil)

	child := eg.AddExpr(term.NewNum(1))
	_ = eg.AddExpr(term.NewAdd(term.NewVar(0), term.NewNum(1)))

	roots := eg.Roots()
	for _, r := range roots {
		assert.NotEqual(t, eg.Find(child), r, "a node referenced as a child must not be reported as a root")
	}
}

func TestStats_CountsNodesAndClasses(t *testing.T) {
	eg := New(nil)
	eg.AddExpr(term.NewNum(1))
	eg.AddExpr(term.NewNum(2))

	stats := eg.Stats()
	assert.Equal(t, 2, stats.Classes)
	assert.Equal(t, 2, stats.Nodes)
}
