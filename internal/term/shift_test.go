package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShift_DeltaZeroIsIdentity(t *testing.T) {
	// Given: a term with one sum binder and mixed free/bound vars
	e := NewSum(NewVar(3), NewSing(NewVar(0), NewVar(1)))

	// When: shifting by zero at any cutoff
	got := Shift(e, 0, 0)

	// Then: the result is structurally identical
	assert.True(t, e.Equal(got))
}

func TestShift_UpThenDownIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		e    *Node
		k    int
	}{
		{"free var", NewVar(2), 3},
		{"under lambda", NewLambda(NewAdd(NewVar(0), NewVar(5))), 2},
		{"under sum", NewSum(NewVar(4), NewMul(NewVar(0), NewVar(7))), 4},
		{"under merge", NewMerge(NewVar(1), NewVar(2), NewAdd(NewVar(0), NewVar(9))), 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			up := Shift(tc.e, 0, tc.k)
			down := Shift(up, 0, -tc.k)
			assert.True(t, tc.e.Equal(down), "shift(shift(e, up %d), down %d) should round-trip", tc.k, tc.k)
		})
	}
}

func TestShift_OnlyAffectsFreeIndices(t *testing.T) {
	// Given: Lambda(Var(0)) -- the bound occurrence must not shift
	e := NewLambda(NewVar(0))

	// When: shifting at cutoff 0
	got := Shift(e, 0, 5)

	// Then: the bound var is untouched because the body is shifted with
	// cutoff raised by the lambda's binder arity
	want := NewLambda(NewVar(0))
	assert.True(t, want.Equal(got))
}

func TestShift_RaisesCutoffAcrossSumBinders(t *testing.T) {
	// Given: Sum(R, Var(2)) where Var(2) is free relative to the sum's two
	// binders (index 0 = value, index 1 = key, so free indices start at 2)
	e := NewSum(NewVar(9), NewVar(2))

	got := Shift(e, 0, 3)

	want := NewSum(NewVar(12), NewVar(5))
	assert.True(t, want.Equal(got))
}

func TestOccurs(t *testing.T) {
	require.True(t, Occurs(NewVar(0), 0))
	require.False(t, Occurs(NewVar(1), 0))
	require.True(t, Occurs(NewLambda(NewVar(1)), 0), "Var(1) under one binder is free index 0")
	require.False(t, Occurs(NewLambda(NewVar(0)), 0), "Var(0) under one binder is the binder itself")
	require.True(t, Occurs(NewSum(NewVar(9), NewVar(2)), 0), "sum's body free index 2 maps to outer free index 0")
	require.False(t, Occurs(NewSum(NewVar(9), NewVar(1)), 0), "sum's body index 1 is bound by the sum, not free index 0")
}
