package egraph

import (
	"fmt"
	"strings"

	"github.com/sdql-eqsat/eqsat/internal/analysis"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

// ENode is a hash-consed node: like term.Node, but children are e-class ids
// rather than subterms. Two ENodes with equal Op/literal payload and
// element-wise equal (canonicalized) children are the same ENode, per the
// congruence invariant.
type ENode struct {
	Op   term.Op
	Idx  int
	Num  int32
	Sym  string
	Kids []int
}

// key returns a string uniquely identifying this ENode for hash-consing,
// assuming Kids already hold canonical (find-applied) class ids.
func (n ENode) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d:%d:%s", n.Op, n.Idx, n.Num, n.Sym)
	for _, k := range n.Kids {
		fmt.Fprintf(&b, ",%d", k)
	}
	return b.String()
}

func (n ENode) shape() analysis.Shape {
	return analysis.Shape{Op: n.Op, Idx: n.Idx, Num: n.Num, Sym: n.Sym}
}

// String renders the node using its current (not necessarily canonical)
// child ids, for debugging.
func (n ENode) String() string {
	if n.Op == term.Var {
		return fmt.Sprintf("%%%d", n.Idx)
	}
	if n.Op == term.Num {
		return fmt.Sprintf("%d", n.Num)
	}
	if n.Op == term.Sym {
		return n.Sym
	}
	parts := []string{n.Op.String()}
	if n.Op == term.Binop {
		parts = append(parts, n.Sym)
	}
	for _, k := range n.Kids {
		parts = append(parts, fmt.Sprintf("e%d", k))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
