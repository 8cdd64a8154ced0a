// Package analysis computes and merges the per-e-class data the engine
// needs: the free de Bruijn index set, a beta-extraction witness term, and
// the may-kind lattice used by cost and by rule guards.
//
// Grounded on constraint_store.go: that file's three-way
// ConstraintResult (Satisfied/Violated/Pending) and its "merge constraint
// evaluation into the broader store" shape inform Merge's bool-returning,
// strictly-additive join here, generalized from a single constraint's
// satisfiability to three independent monotone lattices merged together.
package analysis

import "github.com/sdql-eqsat/eqsat/internal/term"

// Shape carries exactly the fields of an e-node that analysis needs,
// decoupled from the egraph package's ENode (which additionally carries
// child class ids) so this package has no dependency on egraph.
type Shape struct {
	Op  term.Op
	Idx int
	Num int32
	Sym string
}

// Data is one e-class's analysis payload.
type Data struct {
	Free        map[int]struct{}
	BetaExtract *term.Node
	Kind        term.KindSet
}

func emptyFree() map[int]struct{} { return map[int]struct{}{} }

// Make computes the analysis data contributed by inserting one new node
// (shape) whose children already have the given Data, in child order.
func Make(shape Shape, children []Data) Data {
	return Data{
		Free:        makeFree(shape, children),
		BetaExtract: makeWitness(shape, children),
		Kind:        shape.Op.KindOf(),
	}
}

// makeFree implements the free-index-soundness invariant: the class's free
// set is the upward closure of its children's free sets, with the binders
// this node introduces subtracted out of (only) its designated body child.
func makeFree(shape Shape, children []Data) map[int]struct{} {
	if shape.Op == term.Var {
		return map[int]struct{}{shape.Idx: {}}
	}
	out := emptyFree()
	bodyIdx := shape.Op.BodyChild()
	arity := shape.Op.BinderArity()
	for i, c := range children {
		if i == bodyIdx && arity > 0 {
			for idx := range c.Free {
				if idx >= arity {
					out[idx-arity] = struct{}{}
				}
			}
			continue
		}
		for idx := range c.Free {
			out[idx] = struct{}{}
		}
	}
	return out
}

// makeWitness builds the node's own beta-extraction witness by plugging
// each child's current shortest witness into a freshly built node, per the
// contract: if any child's witness is empty/nil, the result is nil too.
func makeWitness(shape Shape, children []Data) *term.Node {
	switch shape.Op {
	case term.Var:
		return term.NewVar(shape.Idx)
	case term.Num:
		return term.NewNum(shape.Num)
	case term.Sym:
		return term.NewSym(shape.Sym)
	}
	kids := make([]*term.Node, len(children))
	for i, c := range children {
		if c.BetaExtract == nil {
			return nil
		}
		kids[i] = c.BetaExtract
	}
	return &term.Node{Op: shape.Op, Sym: shape.Sym, Kids: kids}
}

// Merge absorbs from's data into to's, following the class-union merge
// rule: set-union Free, set-union Kind, and replace BetaExtract with from's
// iff from's is both non-nil and strictly shorter. Returns whether to
// changed; egraph.Union does not use the result.
func Merge(to *Data, from Data) bool {
	changed := false

	if to.Free == nil {
		to.Free = emptyFree()
	}
	for idx := range from.Free {
		if _, ok := to.Free[idx]; !ok {
			to.Free[idx] = struct{}{}
			changed = true
		}
	}

	if to.Kind|from.Kind != to.Kind {
		to.Kind = to.Kind.Union(from.Kind)
		changed = true
	}

	if from.BetaExtract != nil {
		if to.BetaExtract == nil || from.BetaExtract.Size() < to.BetaExtract.Size() {
			to.BetaExtract = from.BetaExtract
			changed = true
		}
	}

	return changed
}
