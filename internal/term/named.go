package term

import (
	"strconv"
	"strings"
)

// Named is the surface-syntax tree: the same node language as Node, but
// variables carry string names instead of de Bruijn indices, and binders
// carry the names they introduce. Named trees only exist at I/O boundaries
// (parsing and rendering); the e-graph never stores them.
type Named struct {
	Op      Op
	Name    string   // Var: the referenced name
	Num     int32    // Num literal
	Sym     string   // Sym / Binop operator name
	Binders []string // names this node introduces, in declaration order
	Kids    []*Named
}

// Clone deep-copies a named tree.
func (n *Named) Clone() *Named {
	if n == nil {
		return nil
	}
	out := &Named{Op: n.Op, Name: n.Name, Num: n.Num, Sym: n.Sym}
	if n.Binders != nil {
		out.Binders = append([]string(nil), n.Binders...)
	}
	if n.Kids != nil {
		out.Kids = make([]*Named, len(n.Kids))
		for i, k := range n.Kids {
			out.Kids[i] = k.Clone()
		}
	}
	return out
}

// String renders the named tree in the surface S-expression grammar
// documented by the reader/writer package.
func (n *Named) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Op {
	case Var:
		return "(var " + n.Name + ")"
	case Num:
		return strconv.FormatInt(int64(n.Num), 10)
	case Sym:
		return n.Sym
	}
	parts := []string{n.Op.String()}
	switch n.Op {
	case Binop:
		parts[0] = "binop"
		parts = append(parts, n.Sym)
	case Let, Lambda, Sum:
		parts = append(parts, n.Binders...)
	case Merge:
		// surface order is KEY1 KEY2 VAL, distinct from the binding order.
		if len(n.Binders) == 3 {
			parts = append(parts, n.Binders[0], n.Binders[2], n.Binders[1])
		}
	}
	for _, k := range n.Kids {
		parts = append(parts, k.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}
