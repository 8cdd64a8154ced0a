package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeta_SimpleSubstitution(t *testing.T) {
	// Given: Let(5, Var(0)) -- reducing should yield the bound value itself
	body := NewVar(0)
	arg := NewNum(5)

	got := Beta(body, arg)

	assert.True(t, NewNum(5).Equal(got))
}

func TestBeta_DecrementsOuterFreeIndices(t *testing.T) {
	// Given: a body referencing both the bound variable (0) and an outer
	// free variable (1, relative to the let)
	body := NewAdd(NewVar(0), NewVar(1))
	arg := NewNum(7)

	got := Beta(body, arg)

	// Then: Var(0) becomes the arg and Var(1) decrements to Var(0), since
	// one binder has been removed
	want := NewAdd(NewNum(7), NewVar(0))
	assert.True(t, want.Equal(got))
}

func TestBeta_ShiftsArgUnderNestedBinders(t *testing.T) {
	// Given: Let(arg, Lambda(Var(1))) where Var(1) inside the lambda refers
	// to the let's bound variable
	body := NewLambda(NewVar(1))
	arg := NewVar(3) // some outer free variable

	got := Beta(body, arg)

	// Then: arg is shifted once, to cross the lambda's own binder -- the
	// let's binder itself costs arg nothing, since arg was already valid
	// in the scope directly outside it
	want := NewLambda(NewVar(4))
	assert.True(t, want.Equal(got))
}

func TestBeta_DoesNotShiftArgWhenNoBinderIsCrossed(t *testing.T) {
	// Given: Let(Var(0), Var(0)) -- body references the bound variable
	// directly with no intervening binder
	body := NewVar(0)
	arg := NewVar(0)

	got := Beta(body, arg)

	// Then: arg is used unchanged -- the let's own binder is removed, not
	// crossed, so there is nothing to shift for
	want := NewVar(0)
	assert.True(t, want.Equal(got))
}
