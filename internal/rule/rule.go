// Package rule defines a rewrite rule as an LHS pattern, an optional guard,
// and an applier, and the guard combinators ("contains_index" and its
// boolean combinators) rules need to state preconditions.
//
// Grounded, like package pattern, on pattern.go's clause model;
// the programmatic appliers below additionally follow the design note's
// {source_var, new_var, cutoff, delta, inner_rhs} applier shape, reading a
// beta_extract witness the way nominal_beta.go reads a
// deterministic term shape before reducing under a binder.
package rule

import (
	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/pattern"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

// Guard inspects the current substitution and decides whether a match is
// admissible. A nil Guard always admits.
type Guard func(subst pattern.Substitution, eg *egraph.EGraph) bool

// ContainsIndex succeeds when class bound to varName has de Bruijn index i
// in its free set — the "contains_index" primitive sum-factorization and
// the sum/get duality rules need.
func ContainsIndex(varName string, i int) Guard {
	return func(subst pattern.Substitution, eg *egraph.EGraph) bool {
		class, ok := subst[varName]
		if !ok {
			return false
		}
		_, has := eg.ClassData(class).Free[i]
		return has
	}
}

// Not negates g.
func Not(g Guard) Guard {
	return func(subst pattern.Substitution, eg *egraph.EGraph) bool { return !g(subst, eg) }
}

// And succeeds when every guard succeeds.
func And(gs ...Guard) Guard {
	return func(subst pattern.Substitution, eg *egraph.EGraph) bool {
		for _, g := range gs {
			if !g(subst, eg) {
				return false
			}
		}
		return true
	}
}

// Or succeeds when any guard succeeds.
func Or(gs ...Guard) Guard {
	return func(subst pattern.Substitution, eg *egraph.EGraph) bool {
		for _, g := range gs {
			if g(subst, eg) {
				return true
			}
		}
		return false
	}
}

// Applier produces the RHS class id for a successful match, or ok=false if
// the match turned out to be inapplicable (e.g. a required witness is not
// yet materialized) — a silent skip per the error-handling design, not a
// fatal condition.
type Applier func(eg *egraph.EGraph, subst pattern.Substitution) (class int, ok bool)

// Rule is one rewrite: whenever LHS matches a class (and Guard admits the
// match), Apply's result class is unioned with the matched class.
type Rule struct {
	Name  string
	LHS   pattern.Pattern
	Guard Guard
	Apply Applier
}

// Instantiate returns an Applier that simply builds rhs under the match's
// substitution — the common case of a pure pattern-to-pattern rewrite.
func Instantiate(rhs pattern.Pattern) Applier {
	return func(eg *egraph.EGraph, subst pattern.Substitution) (int, bool) {
		return pattern.Instantiate(rhs, eg, subst), true
	}
}

// Shifted returns a programmatic applier implementing the design note's
// "add a shifted copy of a witness" primitive: it reads sourceVar's
// beta_extract witness, shifts it by (cutoff, delta), inserts the shifted
// term, binds the result to newVar, and instantiates rhs under the
// extended substitution.
func Shifted(sourceVar string, cutoff, delta int, newVar string, rhs pattern.Pattern) Applier {
	return func(eg *egraph.EGraph, subst pattern.Substitution) (int, bool) {
		src, ok := subst[sourceVar]
		if !ok {
			return 0, false
		}
		witness := eg.ClassData(src).BetaExtract
		if witness == nil {
			return 0, false
		}
		shifted := term.Shift(witness, cutoff, delta)
		ext := make(pattern.Substitution, len(subst)+1)
		for k, v := range subst {
			ext[k] = v
		}
		ext[newVar] = eg.AddExpr(shifted)
		return pattern.Instantiate(rhs, eg, ext), true
	}
}

// ShiftSpec names one witness to read, shift, and bind to a fresh pattern
// variable before rhs is instantiated — the generalization of Shifted to
// rules that need more than one shifted copy in their RHS (e.g. vertical
// sum fusion shifts both the inner and outer bodies by different amounts).
type ShiftSpec struct {
	SourceVar string
	Cutoff    int
	Delta     int
	NewVar    string
}

// ShiftMany returns a programmatic applier that resolves every ShiftSpec's
// witness, shifts it, inserts it, and extends the substitution, in order,
// before instantiating rhs. Any missing witness fails the whole match.
func ShiftMany(specs []ShiftSpec, rhs pattern.Pattern) Applier {
	return func(eg *egraph.EGraph, subst pattern.Substitution) (int, bool) {
		ext := make(pattern.Substitution, len(subst)+len(specs))
		for k, v := range subst {
			ext[k] = v
		}
		for _, spec := range specs {
			src, ok := subst[spec.SourceVar]
			if !ok {
				return 0, false
			}
			witness := eg.ClassData(src).BetaExtract
			if witness == nil {
				return 0, false
			}
			shifted := term.Shift(witness, spec.Cutoff, spec.Delta)
			ext[spec.NewVar] = eg.AddExpr(shifted)
		}
		return pattern.Instantiate(rhs, eg, ext), true
	}
}

// Beta returns the applier for the beta rule: reads both argVar's and
// bodyVar's witnesses and performs capture-avoiding substitution,
// inserting the result directly (there is no RHS pattern to instantiate
// around it).
func Beta(bodyVar, argVar string) Applier {
	return func(eg *egraph.EGraph, subst pattern.Substitution) (int, bool) {
		bodyClass, ok1 := subst[bodyVar]
		argClass, ok2 := subst[argVar]
		if !ok1 || !ok2 {
			return 0, false
		}
		bodyWitness := eg.ClassData(bodyClass).BetaExtract
		argWitness := eg.ClassData(argClass).BetaExtract
		if bodyWitness == nil || argWitness == nil {
			return 0, false
		}
		return eg.AddExpr(term.Beta(bodyWitness, argWitness)), true
	}
}
