package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdql-eqsat/eqsat/internal/term"
)

func TestToNameless_LambdaBindsIndexZero(t *testing.T) {
	// Given: (lambda a (var a))
	src := &term.Named{Op: term.Lambda, Binders: []string{"a"},
		Kids: []*term.Named{{Op: term.Var, Name: "a"}}}

	got, err := ToNameless(src)
	require.NoError(t, err)

	want := term.NewLambda(term.NewVar(0))
	assert.True(t, want.Equal(got))
}

func TestToNameless_SumValueIsIndexZeroKeyIsIndexOne(t *testing.T) {
	// Given: (sum k v R (+ (var k) (var v)))
	src := &term.Named{Op: term.Sum, Binders: []string{"k", "v"}, Kids: []*term.Named{
		{Op: term.Sym, Sym: "R"},
		{Op: term.Add, Kids: []*term.Named{
			{Op: term.Var, Name: "k"},
			{Op: term.Var, Name: "v"},
		}},
	}}

	got, err := ToNameless(src)
	require.NoError(t, err)

	want := term.NewSum(term.NewSym("R"), term.NewAdd(term.NewVar(1), term.NewVar(0)))
	assert.True(t, want.Equal(got))
}

func TestToNameless_MergeBinderOrder(t *testing.T) {
	// Given: (merge k1 k2 v R S (var v)), surface order k1 k2 v with v
	// stored as the middle binder (semantic order k1, v, k2)
	src := &term.Named{Op: term.Merge, Binders: []string{"k1", "v", "k2"}, Kids: []*term.Named{
		{Op: term.Sym, Sym: "R"},
		{Op: term.Sym, Sym: "S"},
		{Op: term.Var, Name: "v"},
	}}

	got, err := ToNameless(src)
	require.NoError(t, err)

	// index0 = k2, index1 = v, index2 = k1
	want := term.NewMerge(term.NewSym("R"), term.NewSym("S"), term.NewVar(1))
	assert.True(t, want.Equal(got))
}

func TestToNameless_UnboundNameErrors(t *testing.T) {
	src := &term.Named{Op: term.Var, Name: "nope"}

	_, err := ToNameless(src)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbound))
	var unbound *UnboundNameError
	require.True(t, errors.As(err, &unbound))
	assert.Equal(t, "nope", unbound.Name)
}

func TestRoundTrip_NamedToNamelessToNamed(t *testing.T) {
	tests := []struct {
		name string
		src  *term.Named
	}{
		{
			"lambda identity",
			&term.Named{Op: term.Lambda, Binders: []string{"a"}, Kids: []*term.Named{
				{Op: term.Var, Name: "a"},
			}},
		},
		{
			"nested let",
			&term.Named{Op: term.Let, Binders: []string{"x"}, Kids: []*term.Named{
				{Op: term.Num, Num: 3},
				{Op: term.Let, Binders: []string{"y"}, Kids: []*term.Named{
					{Op: term.Var, Name: "x"},
					{Op: term.Add, Kids: []*term.Named{
						{Op: term.Var, Name: "x"},
						{Op: term.Var, Name: "y"},
					}},
				}},
			}},
		},
		{
			"merge",
			&term.Named{Op: term.Merge, Binders: []string{"k1", "v", "k2"}, Kids: []*term.Named{
				{Op: term.Sym, Sym: "R"},
				{Op: term.Sym, Sym: "S"},
				{Op: term.Mul, Kids: []*term.Named{
					{Op: term.Var, Name: "k1"},
					{Op: term.Var, Name: "v"},
				}},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nameless, err := ToNameless(tc.src)
			require.NoError(t, err)

			back, err := ToNameless(ToNamed(nameless))
			require.NoError(t, err, "re-translating the round-tripped named term must still resolve every name")

			// Round-tripping through fresh names may rename binders, but
			// the nameless shape -- the only thing that matters for
			// alpha-equivalence -- must be unchanged.
			assert.True(t, nameless.Equal(back))
		})
	}
}
