// Package scope implements the named<->nameless translation at the term
// language's I/O boundary, per the external interface's surface grammar.
package scope

import (
	"errors"
	"fmt"

	"github.com/sdql-eqsat/eqsat/internal/term"
)

// ErrUnbound is returned (wrapped) when a surface "var" form references a
// name with no enclosing binder.
var ErrUnbound = errors.New("unbound name")

// UnboundNameError names the offending identifier.
type UnboundNameError struct {
	Name string
}

func (e *UnboundNameError) Error() string { return fmt.Sprintf("unbound name %q", e.Name) }
func (e *UnboundNameError) Unwrap() error { return ErrUnbound }

// depthEnv is a cons-list of names in binding order, innermost first, so
// that a name's de Bruijn index is simply its position in the list.
type depthEnv struct {
	name string
	next *depthEnv
}

func (e *depthEnv) index(name string) (int, bool) {
	i := 0
	for cur := e; cur != nil; cur = cur.next {
		if cur.name == name {
			return i, true
		}
		i++
	}
	return 0, false
}

func (e *depthEnv) push(names ...string) *depthEnv {
	// names are pushed so the LAST one listed ends up innermost (index 0),
	// matching the binder layouts documented in term.Op.BodyChild's callers:
	// Sum's (key, value) -> value is index 0, key is index 1; Merge's
	// (k1, value, k2) -> k2 is index 0, value index 1, k1 index 2.
	cur := e
	for _, n := range names {
		cur = &depthEnv{name: n, next: cur}
	}
	return cur
}

// ToNameless translates a named surface term into the de Bruijn form stored
// in the e-graph.
func ToNameless(n *term.Named) (*term.Node, error) {
	return toNameless(n, nil)
}

func toNameless(n *term.Named, env *depthEnv) (*term.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Op {
	case term.Var:
		idx, ok := env.index(n.Name)
		if !ok {
			return nil, &UnboundNameError{Name: n.Name}
		}
		return term.NewVar(idx), nil
	case term.Num:
		return term.NewNum(n.Num), nil
	case term.Sym:
		return term.NewSym(n.Sym), nil
	}

	bodyIdx := n.Op.BodyChild()
	kids := make([]*term.Node, len(n.Kids))
	for i, k := range n.Kids {
		childEnv := env
		if i == bodyIdx {
			childEnv = env.push(n.Binders...)
		}
		c, err := toNameless(k, childEnv)
		if err != nil {
			return nil, err
		}
		kids[i] = c
	}
	return &term.Node{Op: n.Op, Sym: n.Sym, Kids: kids}, nil
}

// nameEnv is the dual of depthEnv for ToNamed: a cons-list of names indexed
// by de Bruijn depth, innermost first, used to render Var(i) back to a name.
type nameEnv struct {
	name string
	next *nameEnv
}

func (e *nameEnv) at(i int) string {
	cur := e
	for ; i > 0 && cur != nil; i-- {
		cur = cur.next
	}
	if cur == nil {
		return "?"
	}
	return cur.name
}

func (e *nameEnv) push(names ...string) *nameEnv {
	cur := e
	for _, n := range names {
		cur = &nameEnv{name: n, next: cur}
	}
	return cur
}

// freshNamer hands out names guaranteed distinct from any name currently in
// the scope chain (and from names it has already handed out), so ToNamed's
// output never shadows unintentionally.
type freshNamer struct {
	counts map[string]int
	used   map[string]bool
}

func newFreshNamer() *freshNamer {
	return &freshNamer{counts: map[string]int{}, used: map[string]bool{}}
}

func (f *freshNamer) next(base string) string {
	for {
		n := f.counts[base]
		f.counts[base] = n + 1
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s%d", base, n)
		}
		if !f.used[name] {
			f.used[name] = true
			return name
		}
	}
}

// ToNamed converts a nameless term back to surface form, choosing fresh
// readable names for each binder from a per-kind base (a for lambda, x for
// let, k and v for sum, k1, v and k2 for merge), numbered a1, a2, ... on
// reuse.
func ToNamed(n *term.Node) *term.Named {
	return toNamed(n, nil, newFreshNamer())
}

var binderBase = map[term.Op][]string{
	term.Lambda: {"a"},
	term.Let:    {"x"},
	term.Sum:    {"k", "v"},   // surface order key, value (value is index 0)
	term.Merge:  {"k1", "k2"}, // value gets its own base below
}

func toNamed(n *term.Node, env *nameEnv, namer *freshNamer) *term.Named {
	if n == nil {
		return nil
	}
	switch n.Op {
	case term.Var:
		return &term.Named{Op: term.Var, Name: env.at(n.Idx)}
	case term.Num:
		return &term.Named{Op: term.Num, Num: n.Num}
	case term.Sym:
		return &term.Named{Op: term.Sym, Sym: n.Sym}
	}

	var binders []string
	childEnv := env
	bodyIdx := n.Op.BodyChild()
	switch n.Op {
	case term.Lambda, term.Let:
		binders = []string{namer.next(binderBase[n.Op][0])}
		childEnv = env.push(binders...) // index0 = the one binder
	case term.Sum:
		k := namer.next("k")
		v := namer.next("v")
		binders = []string{k, v}
		childEnv = env.push(k, v) // push order: last pushed is innermost (index0) => v innermost
	case term.Merge:
		k1 := namer.next("k1")
		v := namer.next("v")
		k2 := namer.next("k2")
		binders = []string{k1, v, k2}
		childEnv = env.push(k1, v, k2) // k2 innermost (index0), then v, then k1
	}

	kids := make([]*term.Named, len(n.Kids))
	for i, k := range n.Kids {
		e := env
		if i == bodyIdx {
			e = childEnv
		}
		kids[i] = toNamed(k, e, namer)
	}
	return &term.Named{Op: n.Op, Sym: n.Sym, Binders: binders, Kids: kids}
}
