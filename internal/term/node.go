package term

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the nameless (de Bruijn) representation of an SDQL term. It is
// the representation inserted into the e-graph: two alpha-equivalent terms
// produce identical Node trees, so hash-consing on structural equality is
// sufficient to recognize them as the same term.
//
// Only the fields relevant to Op are meaningful: Idx for Var, Num for Num,
// Sym for Sym and Binop's operator name, Kids for everything else.
type Node struct {
	Op   Op
	Idx  int
	Num  int32
	Sym  string
	Kids []*Node
}

func leaf(op Op) *Node { return &Node{Op: op} }

// NewVar builds a Var(i) leaf referencing de Bruijn index i.
func NewVar(i int) *Node { return &Node{Op: Var, Idx: i} }

// NewNum builds an integer literal.
func NewNum(n int32) *Node { return &Node{Op: Num, Num: n} }

// NewSym builds an opaque symbol leaf.
func NewSym(s string) *Node { return &Node{Op: Sym, Sym: s} }

func bin(op Op, a, b *Node) *Node { return &Node{Op: op, Kids: []*Node{a, b}} }

func NewAdd(a, b *Node) *Node { return bin(Add, a, b) }
func NewSub(a, b *Node) *Node { return bin(Sub, a, b) }
func NewMul(a, b *Node) *Node { return bin(Mul, a, b) }
func NewEq(a, b *Node) *Node  { return bin(Eq, a, b) }

// NewGet builds a dictionary lookup / array index: dict[key].
func NewGet(dict, key *Node) *Node { return bin(Get, dict, key) }

// NewSing builds a singleton dictionary {key: value}.
func NewSing(key, value *Node) *Node { return bin(Sing, key, value) }

// NewRange builds a 1-based inclusive integer range [start, end].
func NewRange(start, end *Node) *Node { return bin(Range, start, end) }

func NewSubArray(arr, start, end *Node) *Node {
	return &Node{Op: SubArray, Kids: []*Node{arr, start, end}}
}

// NewIfThen builds cond*body guarded evaluation, semantically cond*body
// when cond is 0/1.
func NewIfThen(cond, body *Node) *Node { return bin(IfThen, cond, body) }

// NewLet builds a let-binding: binds de Bruijn index 0 in body to bound.
func NewLet(bound, body *Node) *Node { return bin(Let, bound, body) }

// NewLambda builds a single-argument lambda binding index 0 in body.
func NewLambda(body *Node) *Node { return &Node{Op: Lambda, Kids: []*Node{body}} }

func NewApp(fun, arg *Node) *Node { return bin(App, fun, arg) }

// NewBinop builds the normalized binary-operator form used for let-floating;
// opName is one of "+", "-", "*", "get", "sing".
func NewBinop(opName string, a, b *Node) *Node {
	return &Node{Op: Binop, Sym: opName, Kids: []*Node{a, b}}
}

// NewSum builds a summation over rng binding (key, value) = (index 1, index 0)
// in body.
func NewSum(rng, body *Node) *Node { return bin(Sum, rng, body) }

// NewMerge builds a merge of r1 and r2 binding (k1, value, k2) in body, with
// de Bruijn layout index2=k1, index1=value, index0=k2 (last-declared binds
// tightest, matching the textual order k1, value, k2 given for the node).
func NewMerge(r1, r2, body *Node) *Node {
	return &Node{Op: Merge, Kids: []*Node{r1, r2, body}}
}

// NewUnique wraps expr with an erasable "key is unique" annotation.
func NewUnique(expr *Node) *Node { return &Node{Op: Unique, Kids: []*Node{expr}} }

// Clone deep-copies a node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Op: n.Op, Idx: n.Idx, Num: n.Num, Sym: n.Sym}
	if n.Kids != nil {
		out.Kids = make([]*Node, len(n.Kids))
		for i, k := range n.Kids {
			out.Kids[i] = k.Clone()
		}
	}
	return out
}

// Equal reports whether two nodes are structurally identical (same operator,
// same literal payload, element-wise equal children). This is the equality
// hash-consing relies on once children are canonicalized to e-class ids, and
// is also used directly when comparing beta-extraction witnesses.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Op != o.Op || len(n.Kids) != len(o.Kids) {
		return false
	}
	switch n.Op {
	case Var:
		if n.Idx != o.Idx {
			return false
		}
	case Num:
		if n.Num != o.Num {
			return false
		}
	case Sym:
		if n.Sym != o.Sym {
			return false
		}
	case Binop:
		if n.Sym != o.Sym {
			return false
		}
	}
	for i := range n.Kids {
		if !n.Kids[i].Equal(o.Kids[i]) {
			return false
		}
	}
	return true
}

// Size counts the nodes in the term, used to compare beta_extract witnesses
// for "shortest wins" analysis merges.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, k := range n.Kids {
		total += k.Size()
	}
	return total
}

// String renders the node in nameless surface form, e.g. "(sum %0 (sing %1 %0))".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Op {
	case Var:
		return "%" + strconv.Itoa(n.Idx)
	case Num:
		return strconv.FormatInt(int64(n.Num), 10)
	case Sym:
		return n.Sym
	case Binop:
		parts := make([]string, 0, len(n.Kids)+2)
		parts = append(parts, "binop", n.Sym)
		for _, k := range n.Kids {
			parts = append(parts, k.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		parts := make([]string, 0, len(n.Kids)+1)
		parts = append(parts, n.Op.String())
		for _, k := range n.Kids {
			parts = append(parts, k.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
}

// Walk invokes visit on every node in the tree in post-order (children
// before parents), matching the order the e-graph's AddExpr inserts nodes.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	for _, k := range n.Kids {
		Walk(k, visit)
	}
	visit(n)
}

// MustEqualf panics with a formatted message if a != b.
func MustEqualf(a, b *Node, format string, args ...interface{}) {
	if !a.Equal(b) {
		panic(fmt.Sprintf(format, args...))
	}
}
