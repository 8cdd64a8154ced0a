package term

// Beta performs capture-avoiding substitution of arg for the outermost
// bound variable of body, i.e. computes body[0 ↦ arg] with every other free
// index in body decremented by one (the standard contraction of a Let or a
// Lambda applied to arg).
//
// A substitution reached after crossing k further binders inside body needs
// arg shifted up by exactly k: zero at the top level, since removing body's
// own binder costs arg nothing (it was already expressed in the scope
// directly outside that binder), and one more for each binder body
// introduces on the way down. betaAt starts the accumulator at arg itself
// and grows it by a binder's arity each time it descends into that binder's
// body child; every other free Var(i>target) in body decrements by one in
// place, matching the vacated binder.
func Beta(body, arg *Node) *Node {
	return betaAt(body, 0, arg)
}

// betaAt substitutes target (a de Bruijn index, relative to the original
// call) for the variable bound at the current depth, given argAtDepth — arg
// already shifted up by the number of binders crossed so far.
func betaAt(body *Node, target int, argAtDepth *Node) *Node {
	if body == nil {
		return nil
	}
	switch body.Op {
	case Var:
		switch {
		case body.Idx == target:
			return argAtDepth.Clone()
		case body.Idx > target:
			return NewVar(body.Idx - 1)
		default:
			return NewVar(body.Idx)
		}
	case Num:
		return NewNum(body.Num)
	case Sym:
		return NewSym(body.Sym)
	}

	bodyChild := body.Op.BodyChild()
	arity := body.Op.BinderArity()
	kids := make([]*Node, len(body.Kids))
	for i, k := range body.Kids {
		if i == bodyChild && arity > 0 {
			kids[i] = betaAt(k, target+arity, ShiftFree(argAtDepth, arity))
		} else {
			kids[i] = betaAt(k, target, argAtDepth)
		}
	}
	return &Node{Op: body.Op, Sym: body.Sym, Kids: kids}
}
