// Package extract selects, for the root e-class, the lowest-cost term it
// represents, using a bottom-up least-fixed-point cost computation.
//
// Grounded on fd_solver.go: its VariableMapper/BaseSolver
// shape (a small adapter that walks a search structure accumulating a
// bound via a pluggable cost function) informed this extractor's
// class-id -> best-cost-so-far map and its iterate-to-fixed-point loop,
// generalized from finite-domain labeling cost to e-class cost.
package extract

import (
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

// Cost is the extractor's cost unit. Inf represents an unextractable class
// (e.g. one whose only nodes are residual App/Binop normalizers).
type Cost int64

// Inf is large enough that ordinary sums of finite costs never overflow
// into it, while remaining safely addable without wrapping.
const Inf Cost = math.MaxInt32

func nodeBaseCost(op term.Op) Cost {
	switch op {
	case term.Get:
		return 20
	case term.Let:
		return 10
	case term.Sing:
		return 50
	case term.Unique:
		return 0
	case term.Var:
		return 5
	case term.Num:
		return 1
	case term.App, term.Binop:
		return Inf
	default:
		return 1
	}
}

// Extractor computes and caches the cheapest term per class.
type Extractor struct {
	eg     *egraph.EGraph
	logger hclog.Logger
}

// New returns an extractor over eg. A nil logger is replaced with a no-op one.
func New(eg *egraph.EGraph, logger hclog.Logger) *Extractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{eg: eg, logger: logger.Named("extract")}
}

// Result is the outcome of extracting one class.
type Result struct {
	Term       *term.Node
	Cost       Cost
	InfClasses int // classes whose minimum available cost was Inf
}

// Extract returns the cheapest term represented by root's class: for any
// class, the returned cost equals the minimum over every term the class
// represents under the cost model.
func (ex *Extractor) Extract(root int) Result {
	costs := map[int]Cost{}
	choice := map[int]egraph.ENode{}

	classes := ex.eg.Classes()
	// A class's cost can only improve as its children's costs become known,
	// so len(classes)+1 passes is always enough to reach the fixed point
	// (each pass that makes progress lowers at least one class's cost from
	// "unknown" to a concrete value, or refines it downward).
	for pass := 0; pass <= len(classes); pass++ {
		changed := false
		for _, id := range classes {
			best := Inf
			var bestNode egraph.ENode
			haveNode := false
			for _, n := range ex.eg.NodesIn(id) {
				c := ex.nodeCost(n, costs)
				if !haveNode || c < best {
					best, bestNode, haveNode = c, n, true
				}
			}
			if cur, ok := costs[id]; !ok || best < cur {
				costs[id] = best
				if haveNode {
					choice[id] = bestNode
				}
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	root = ex.eg.Find(root)
	infCount := 0
	for _, id := range classes {
		if costs[id] >= Inf {
			infCount++
		}
	}

	built := ex.build(root, choice, map[int]bool{})
	return Result{Term: built, Cost: costs[root], InfClasses: infCount}
}

func (ex *Extractor) childCost(n egraph.ENode, i int, costs map[int]Cost) Cost {
	id := ex.eg.Find(n.Kids[i])
	if c, ok := costs[id]; ok {
		return c
	}
	return Inf
}

func (ex *Extractor) kindOf(class int, k term.Kind) bool {
	return ex.eg.ClassData(class).Kind.Has(k)
}

func (ex *Extractor) nodeCost(n egraph.ENode, costs map[int]Cost) Cost {
	switch n.Op {
	case term.Sum:
		rng, body := ex.childCost(n, 0, costs), ex.childCost(n, 1, costs)
		if rng >= Inf || body >= Inf {
			return Inf
		}
		k := Cost(1000)
		if ex.kindOf(n.Kids[0], term.KindVector) {
			k = 200
		}
		return rng + k*(1+body)

	case term.Merge:
		r1, r2, body := ex.childCost(n, 0, costs), ex.childCost(n, 1, costs), ex.childCost(n, 2, costs)
		if r1 >= Inf || r2 >= Inf || body >= Inf {
			return Inf
		}
		k := Cost(1000)
		if ex.kindOf(n.Kids[0], term.KindVector) && ex.kindOf(n.Kids[1], term.KindVector) {
			k = 200
		}
		return r1 + r2 + k*(1+body)

	case term.Mul:
		if ex.kindOf(n.Kids[0], term.KindBool) || ex.kindOf(n.Kids[1], term.KindBool) {
			return Inf
		}
		a, b := ex.childCost(n, 0, costs), ex.childCost(n, 1, costs)
		if a >= Inf || b >= Inf {
			return Inf
		}
		if ex.kindOf(n.Kids[0], term.KindDict) || ex.kindOf(n.Kids[1], term.KindDict) {
			return 1000 + a + b
		}
		return a + b + 1

	default:
		total := nodeBaseCost(n.Op)
		if total >= Inf {
			return Inf
		}
		for i := range n.Kids {
			c := ex.childCost(n, i, costs)
			if c >= Inf {
				return Inf
			}
			total += c
		}
		return total
	}
}

func (ex *Extractor) build(id int, choice map[int]egraph.ENode, visiting map[int]bool) *term.Node {
	id = ex.eg.Find(id)
	n, ok := choice[id]
	if !ok || visiting[id] {
		return nil
	}
	visiting[id] = true
	defer delete(visiting, id)

	switch n.Op {
	case term.Var:
		return term.NewVar(n.Idx)
	case term.Num:
		return term.NewNum(n.Num)
	case term.Sym:
		return term.NewSym(n.Sym)
	}
	kids := make([]*term.Node, len(n.Kids))
	for i, k := range n.Kids {
		kids[i] = ex.build(k, choice, visiting)
	}
	return &term.Node{Op: n.Op, Sym: n.Sym, Kids: kids}
}
