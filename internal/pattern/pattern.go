// Package pattern implements the pattern/rule engine's matcher: patterns
// are S-expression-shaped trees whose leaves are pattern variables, literal
// de Bruijn indices, or fixed operators, matched against e-classes to
// produce substitutions.
//
// Grounded on pattern.go (Matche/Matcha/PatternClause): that
// file's "clause = pattern + goals, matched by unifying term with pattern"
// shape is carried over directly, generalized from unifying a single term
// against a single pattern to matching a pattern against every node
// currently recorded in an e-class (since any node in the class is a valid
// representative to match against).
package pattern

import (
	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

// Kind tags what a Pattern node matches.
type Kind uint8

const (
	// Var matches any class and binds it to Name.
	Var Kind = iota
	// LitVar matches only a literal de Bruijn Var(Idx) leaf.
	LitVar
	// LitNum matches only a literal Num(Num) leaf.
	LitNum
	// LitSym matches only a literal Sym(Sym) leaf with an exact name.
	LitSym
	// Node matches a fixed operator (and, for Binop, a fixed Sym) with the
	// given subpatterns, one per child, in order.
	Node
)

// Pattern is one node of a pattern tree.
type Pattern struct {
	Kind Kind
	Name string  // Var
	Idx  int     // LitVar
	Num  int32   // LitNum
	Op   term.Op // Node
	Sym  string  // Node (only meaningful for Binop) or LitSym
	Kids []Pattern
}

// PVar constructs a pattern variable leaf (conventionally written "?x").
func PVar(name string) Pattern { return Pattern{Kind: Var, Name: name} }

// PLitVar constructs a literal de Bruijn variable leaf ("%i").
func PLitVar(idx int) Pattern { return Pattern{Kind: LitVar, Idx: idx} }

// PNum constructs a literal numeric leaf.
func PNum(n int32) Pattern { return Pattern{Kind: LitNum, Num: n} }

// PSym constructs a literal symbol leaf matching exactly name.
func PSym(name string) Pattern { return Pattern{Kind: LitSym, Sym: name} }

// PNode constructs a fixed-operator pattern over the given subpatterns.
func PNode(op term.Op, kids ...Pattern) Pattern { return Pattern{Kind: Node, Op: op, Kids: kids} }

// PBinop constructs a fixed-operator-name Binop pattern.
func PBinop(opName string, a, b Pattern) Pattern {
	return Pattern{Kind: Node, Op: term.Binop, Sym: opName, Kids: []Pattern{a, b}}
}

// Substitution maps pattern variable names to e-class ids.
type Substitution map[string]int

func (s Substitution) clone() Substitution {
	out := make(Substitution, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Match finds every way pat can match some node currently recorded in
// class, returning one substitution per successful match.
func Match(pat Pattern, eg *egraph.EGraph, class int) []Substitution {
	return matchPattern(pat, eg, class, Substitution{})
}

func matchPattern(pat Pattern, eg *egraph.EGraph, class int, subst Substitution) []Substitution {
	class = eg.Find(class)
	switch pat.Kind {
	case Var:
		if existing, ok := subst[pat.Name]; ok {
			if existing == class {
				return []Substitution{subst.clone()}
			}
			return nil
		}
		s := subst.clone()
		s[pat.Name] = class
		return []Substitution{s}

	case LitVar:
		var out []Substitution
		for _, n := range eg.NodesIn(class) {
			if n.Op == term.Var && n.Idx == pat.Idx {
				out = append(out, subst.clone())
			}
		}
		return out

	case LitNum:
		var out []Substitution
		for _, n := range eg.NodesIn(class) {
			if n.Op == term.Num && n.Num == pat.Num {
				out = append(out, subst.clone())
			}
		}
		return out

	case LitSym:
		var out []Substitution
		for _, n := range eg.NodesIn(class) {
			if n.Op == term.Sym && n.Sym == pat.Sym {
				out = append(out, subst.clone())
			}
		}
		return out

	case Node:
		var out []Substitution
		for _, n := range eg.NodesIn(class) {
			if n.Op != pat.Op || len(n.Kids) != len(pat.Kids) {
				continue
			}
			if pat.Op == term.Binop && n.Sym != pat.Sym {
				continue
			}
			frontier := []Substitution{subst.clone()}
			for i, kp := range pat.Kids {
				var next []Substitution
				for _, s := range frontier {
					next = append(next, matchPattern(kp, eg, n.Kids[i], s)...)
				}
				frontier = next
				if len(frontier) == 0 {
					break
				}
			}
			out = append(out, frontier...)
		}
		return out
	}
	return nil
}

// Instantiate builds pat under subst into the e-graph, returning the
// resulting (possibly pre-existing, hash-consed) class id. Var leaves
// resolve directly to their bound class; LitVar and Node leaves insert a
// fresh node whose children are themselves instantiated recursively.
func Instantiate(pat Pattern, eg *egraph.EGraph, subst Substitution) int {
	switch pat.Kind {
	case Var:
		return subst[pat.Name]
	case LitVar:
		return eg.Add(egraph.ENode{Op: term.Var, Idx: pat.Idx})
	case LitNum:
		return eg.Add(egraph.ENode{Op: term.Num, Num: pat.Num})
	case LitSym:
		return eg.Add(egraph.ENode{Op: term.Sym, Sym: pat.Sym})
	default: // Node
		kids := make([]int, len(pat.Kids))
		for i, k := range pat.Kids {
			kids[i] = Instantiate(k, eg, subst)
		}
		return eg.Add(egraph.ENode{Op: pat.Op, Sym: pat.Sym, Kids: kids})
	}
}
