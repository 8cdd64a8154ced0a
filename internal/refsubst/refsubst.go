// Package refsubst is a deliberately naive, unoptimized capture-avoiding
// substitution over the named surface tree, used only as a test oracle for
// term.Beta's de Bruijn reduction in beta-reduction property tests.
//
// Grounded on original_source/sdql/baseline/src/sdqlsubstitute.rs's
// replace/beta_reduce pair, re-expressed over names instead of indices:
// where the original shifts a de Bruijn substitution under each binder it
// crosses, this substitutes by name and renames a binder on the fly
// whenever it would otherwise capture a name free in the replacement.
package refsubst

import "github.com/sdql-eqsat/eqsat/internal/term"

type renamer struct{ n int }

func (r *renamer) fresh(base string) string {
	r.n++
	return base + "#" + itoaSmall(r.n)
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func freeNames(n *term.Named, bound map[string]bool, out map[string]bool) {
	if n == nil {
		return
	}
	switch n.Op {
	case term.Var:
		if !bound[n.Name] {
			out[n.Name] = true
		}
		return
	}
	inner := bound
	if len(n.Binders) > 0 {
		inner = make(map[string]bool, len(bound)+len(n.Binders))
		for k := range bound {
			inner[k] = true
		}
		for _, b := range n.Binders {
			inner[b] = true
		}
	}
	bodyIdx := n.Op.BodyChild()
	for i, k := range n.Kids {
		if i == bodyIdx {
			freeNames(k, inner, out)
		} else {
			freeNames(k, bound, out)
		}
	}
}

// Substitute replaces every free occurrence of varName in body with arg,
// renaming any binder in body that would otherwise capture a name free in
// arg.
func Substitute(body *term.Named, varName string, arg *term.Named) *term.Named {
	argFree := map[string]bool{}
	freeNames(arg, map[string]bool{}, argFree)
	r := &renamer{}
	return subst(body, varName, arg, argFree, r)
}

func subst(n *term.Named, varName string, arg *term.Named, argFree map[string]bool, r *renamer) *term.Named {
	if n == nil {
		return nil
	}
	if n.Op == term.Var {
		if n.Name == varName {
			return arg.Clone()
		}
		return n.Clone()
	}

	binders := n.Binders
	shadowed := false
	for _, b := range binders {
		if b == varName {
			shadowed = true
		}
	}

	renameTo := map[string]string{}
	newBinders := make([]string, len(binders))
	for i, b := range binders {
		if argFree[b] {
			fresh := r.fresh(b)
			renameTo[b] = fresh
			newBinders[i] = fresh
		} else {
			newBinders[i] = b
		}
	}

	bodyIdx := n.Op.BodyChild()
	kids := make([]*term.Named, len(n.Kids))
	for i, k := range n.Kids {
		if i != bodyIdx {
			kids[i] = subst(k, varName, arg, argFree, r)
			continue
		}
		renamed := applyRename(k, renameTo)
		if shadowed {
			kids[i] = renamed.Clone()
		} else {
			kids[i] = subst(renamed, varName, arg, argFree, r)
		}
	}
	return &term.Named{Op: n.Op, Name: n.Name, Num: n.Num, Sym: n.Sym, Binders: newBinders, Kids: kids}
}

// applyRename rewrites every Var reference to an old binder name into its
// fresh replacement, without touching free occurrences of varName (which
// the outer subst call still needs to see).
func applyRename(n *term.Named, renameTo map[string]string) *term.Named {
	if n == nil || len(renameTo) == 0 {
		return n
	}
	if n.Op == term.Var {
		if fresh, ok := renameTo[n.Name]; ok {
			return &term.Named{Op: term.Var, Name: fresh}
		}
		return n
	}
	inner := renameTo
	copied := false
	for _, b := range n.Binders {
		if _, shadowed := renameTo[b]; shadowed {
			if !copied {
				copied = true
				inner = map[string]string{}
				for k, v := range renameTo {
					inner[k] = v
				}
			}
			delete(inner, b)
		}
	}
	bodyIdx := n.Op.BodyChild()
	kids := make([]*term.Named, len(n.Kids))
	for i, k := range n.Kids {
		if i == bodyIdx {
			kids[i] = applyRename(k, inner)
		} else {
			kids[i] = applyRename(k, renameTo)
		}
	}
	return &term.Named{Op: n.Op, Name: n.Name, Num: n.Num, Sym: n.Sym, Binders: n.Binders, Kids: kids}
}
