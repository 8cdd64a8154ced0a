// Package egraph implements the hash-consed node store, the congruence
// union-find, and the per-class analysis data the saturation engine
// operates on.
//
// The union-find itself (path compression, union-by-size) is a textbook
// algorithm with no meaningful "library" fit in the retrieval pack — no
// example repo ships a generic union-find, and pulling one in for ~30 lines
// of pointer-chasing would not exercise any other concern, so this is kept
// on the standard library by design (documented per the project's
// dependency-justification rule). The class/analysis bookkeeping around it
// follows slg_engine.go's SubgoalTable shape: a map-backed
// registry of discovered "subgoals" (here, e-classes) with a rebuild/repair
// pass that behaves like slg_engine's fixpoint loop over newly derived
// answers.
package egraph

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/sdql-eqsat/eqsat/internal/analysis"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

// EClass is a set of ENodes proven equivalent, plus the analysis data
// aggregated over every node that has ever belonged to it.
type EClass struct {
	ID    int
	Nodes []ENode
	Data  analysis.Data
}

// Stats summarizes e-graph size, reported by the CLI and by the driver's
// per-iteration log line.
type Stats struct {
	Nodes      int
	Classes    int
	Generation int
}

// EGraph is the hash-consed, congruence-closed node store.
type EGraph struct {
	logger hclog.Logger

	parent map[int]int
	size   map[int]int

	classes  map[int]*EClass
	hashcons map[string]int

	worklist   []int
	nextID     int
	generation int
}

// New creates an empty e-graph. A nil logger is replaced with a no-op one.
func New(logger hclog.Logger) *EGraph {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &EGraph{
		logger:   logger.Named("egraph"),
		parent:   map[int]int{},
		size:     map[int]int{},
		classes:  map[int]*EClass{},
		hashcons: map[string]int{},
	}
}

// Find returns the canonical representative of id's class.
func (eg *EGraph) Find(id int) int {
	root := id
	for eg.parent[root] != root {
		root = eg.parent[root]
	}
	for eg.parent[id] != root {
		eg.parent[id], id = root, eg.parent[id]
	}
	return root
}

func (eg *EGraph) childData(ids []int) []analysis.Data {
	out := make([]analysis.Data, len(ids))
	for i, id := range ids {
		out[i] = eg.classes[eg.Find(id)].Data
	}
	return out
}

// Add canonicalizes n's children to their representatives, hash-conses, and
// returns the class id — creating a new singleton class only if no
// congruent node already exists.
func (eg *EGraph) Add(n ENode) int {
	canon := eg.canonicalize(n)
	key := canon.key()
	if id, ok := eg.hashcons[key]; ok {
		return eg.Find(id)
	}

	id := eg.nextID
	eg.nextID++
	data := analysis.Make(canon.shape(), eg.childData(canon.Kids))
	eg.classes[id] = &EClass{ID: id, Nodes: []ENode{canon}, Data: data}
	eg.parent[id] = id
	eg.size[id] = 1
	eg.hashcons[key] = id
	return id
}

// AddExpr inserts a whole term, post-order, and returns the root class id.
func (eg *EGraph) AddExpr(t *term.Node) int {
	switch t.Op {
	case term.Var:
		return eg.Add(ENode{Op: term.Var, Idx: t.Idx})
	case term.Num:
		return eg.Add(ENode{Op: term.Num, Num: t.Num})
	case term.Sym:
		return eg.Add(ENode{Op: term.Sym, Sym: t.Sym})
	}
	kids := make([]int, len(t.Kids))
	for i, k := range t.Kids {
		kids[i] = eg.AddExpr(k)
	}
	return eg.Add(ENode{Op: t.Op, Sym: t.Sym, Kids: kids})
}

// Union unifies the classes of a and b, merging their analysis data and
// queuing the survivor for a congruence rebuild. Returns the surviving id
// and whether a and b were not already the same class.
func (eg *EGraph) Union(a, b int) (int, bool) {
	a, b = eg.Find(a), eg.Find(b)
	if a == b {
		return a, false
	}
	if eg.size[a] < eg.size[b] {
		a, b = b, a
	}
	eg.parent[b] = a
	eg.size[a] += eg.size[b]

	classA := eg.classes[a]
	classB := eg.classes[b]
	analysis.Merge(&classA.Data, classB.Data)
	classA.Nodes = append(classA.Nodes, classB.Nodes...)
	delete(eg.classes, b)

	eg.worklist = append(eg.worklist, a)
	return a, true
}

func (eg *EGraph) canonicalize(n ENode) ENode {
	if len(n.Kids) == 0 {
		return n
	}
	kids := make([]int, len(n.Kids))
	for i, k := range n.Kids {
		kids[i] = eg.Find(k)
	}
	return ENode{Op: n.Op, Idx: n.Idx, Num: n.Num, Sym: n.Sym, Kids: kids}
}

// Rebuild drains the union worklist, re-canonicalizing every node whose
// children moved and unioning any classes that became congruent as a
// result, iterating to a fixed point. After Rebuild returns, congruence
// holds globally (the core e-graph invariant).
func (eg *EGraph) Rebuild() {
	for len(eg.worklist) > 0 {
		eg.worklist = nil

		// A union moves the representative that nodes in parent classes
		// point at, so every live class is re-canonicalized, not only the
		// classes that were unioned.
		for _, id := range eg.Classes() {
			eg.repair(id)
		}
	}
	eg.generation++
}

func (eg *EGraph) repair(id int) {
	id = eg.Find(id)
	class, ok := eg.classes[id]
	if !ok {
		return // id got unioned away by an earlier repair this pass
	}

	for _, n := range class.Nodes {
		delete(eg.hashcons, n.key())
	}
	for _, n := range class.Nodes {
		canon := eg.canonicalize(n)
		key := canon.key()
		if existing, ok := eg.hashcons[key]; ok && eg.Find(existing) != eg.Find(id) {
			eg.Union(existing, id)
			id = eg.Find(id)
		} else {
			eg.hashcons[key] = id
		}
	}

	class = eg.classes[id]
	seen := map[string]bool{}
	kept := class.Nodes[:0]
	for _, n := range class.Nodes {
		canon := eg.canonicalize(n)
		if key := canon.key(); !seen[key] {
			seen[key] = true
			kept = append(kept, canon)
		}
	}
	class.Nodes = kept
}

// Classes returns every live canonical class id.
func (eg *EGraph) Classes() []int {
	out := make([]int, 0, len(eg.classes))
	for id := range eg.classes {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// NodesIn returns the nodes currently recorded in class (after Find).
func (eg *EGraph) NodesIn(class int) []ENode {
	c, ok := eg.classes[eg.Find(class)]
	if !ok {
		return nil
	}
	return c.Nodes
}

// ClassData returns the analysis data for class.
func (eg *EGraph) ClassData(class int) analysis.Data {
	return eg.classes[eg.Find(class)].Data
}

// Roots returns every class with no incoming edges from another node —
// i.e. classes that are not referenced as a child anywhere in the graph.
func (eg *EGraph) Roots() []int {
	referenced := map[int]bool{}
	for _, c := range eg.classes {
		for _, n := range c.Nodes {
			for _, k := range n.Kids {
				referenced[eg.Find(k)] = true
			}
		}
	}
	var roots []int
	for id := range eg.classes {
		if !referenced[id] {
			roots = append(roots, id)
		}
	}
	sort.Ints(roots)
	return roots
}

// Reachable returns every class reachable from root by following node
// children, root included, sorted — the e-graph underlying the
// "individual" driving mode's restricted matching scope.
func (eg *EGraph) Reachable(root int) []int {
	seen := map[int]bool{}
	var walk func(id int)
	walk = func(id int) {
		id = eg.Find(id)
		if seen[id] {
			return
		}
		seen[id] = true
		c, ok := eg.classes[id]
		if !ok {
			return
		}
		for _, n := range c.Nodes {
			for _, k := range n.Kids {
				walk(k)
			}
		}
	}
	walk(root)
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Stats reports current size, used by the CLI summary line and log lines.
func (eg *EGraph) Stats() Stats {
	nodes := 0
	for _, c := range eg.classes {
		nodes += len(c.Nodes)
	}
	return Stats{Nodes: nodes, Classes: len(eg.classes), Generation: eg.generation}
}
