package ast

// Inspect traverses the subtree rooted at id in document order. If f returns
// false the children of that node are skipped.
func Inspect(a Arena, id NodeID, f func(NodeID) bool) {
	n := a.Node(id)
	if n == nil || !f(id) {
		return
	}
	for _, s := range n.slots {
		Inspect(a, s.ID, f)
	}
}

// Ancestor returns the nearest proper ancestor of id whose kind is one of
// kinds, or NoNode.
func Ancestor(t *Tree, id NodeID, kinds ...Kind) NodeID {
	for cur := t.Parent(id); cur != NoNode; cur = t.Parent(cur) {
		k := t.Kind(cur)
		for _, want := range kinds {
			if k == want {
				return cur
			}
		}
	}
	return NoNode
}

// IsAncestor reports whether anc is id or one of its ancestors.
func IsAncestor(t *Tree, anc, id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// EnclosingStatement returns the innermost statement containing id, or id
// itself when it is a statement.
func EnclosingStatement(t *Tree, id NodeID) NodeID {
	for cur := id; cur != NoNode; cur = t.Parent(cur) {
		if t.Kind(cur).IsStatement() {
			return cur
		}
	}
	return NoNode
}

// Siblings returns the list slot containing id and the index of id inside
// it. ok is false when id does not live in a list slot.
func Siblings(t *Tree, id NodeID) (list []NodeID, index int, ok bool) {
	n := t.Node(id)
	if n == nil || n.Parent == NoNode || !n.Loc.IsList() {
		return nil, -1, false
	}
	list = t.ChildList(n.Parent, n.Loc)
	for i, sib := range list {
		if sib == id {
			return list, i, true
		}
	}
	return nil, -1, false
}

// Unparenthesize strips any number of enclosing Paren nodes.
func Unparenthesize(a Arena, id NodeID) NodeID {
	for {
		n := a.Node(id)
		if n == nil || n.Kind != KindParen {
			return id
		}
		id = n.Child(PropExpression)
	}
}

// Operands flattens a left-nested chain of infix nodes sharing one operator
// into its operand list. `a && b && c` yields [a, b, c]. Operands wrapped in
// parentheses are kept as single operands.
func Operands(a Arena, id NodeID) []NodeID {
	n := a.Node(id)
	if n == nil || n.Kind != KindInfix {
		return []NodeID{id}
	}
	left := n.Child(PropLeftOperand)
	var ops []NodeID
	if l := a.Node(left); l != nil && l.Kind == KindInfix && l.Op == n.Op {
		ops = Operands(a, left)
	} else {
		ops = []NodeID{left}
	}
	return append(ops, n.Child(PropRightOperand))
}

// ChainRoot walks up from an infix node through parents carrying the same
// operator on their left spine and returns the outermost one.
func ChainRoot(t *Tree, id NodeID) NodeID {
	n := t.Node(id)
	if n == nil || n.Kind != KindInfix {
		return id
	}
	for {
		p := t.Node(n.Parent)
		if p == nil || p.Kind != KindInfix || p.Op != n.Op || p.Child(PropLeftOperand) != id {
			return id
		}
		id = n.Parent
		n = p
	}
}
