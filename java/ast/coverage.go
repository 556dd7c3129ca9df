package ast

// CoveringNode returns the smallest node whose range contains the selection
// [offset, offset+length]. Node ends are inclusive for this test so a caret
// placed directly after a node still selects it.
func CoveringNode(t *Tree, offset, length int) NodeID {
	if t.Root == NoNode {
		return NoNode
	}
	end := offset + length
	root := t.Node(t.Root)
	if offset < root.Start || end > root.End {
		return NoNode
	}
	cur := t.Root
	for {
		next := NoNode
		for _, s := range t.nodes[cur].slots {
			c := &t.nodes[s.ID]
			if c.Start <= offset && end <= c.End {
				next = s.ID
				break
			}
		}
		if next == NoNode {
			return cur
		}
		cur = next
	}
}

// CoveredNodes returns, in document order, the outermost descendants of
// covering (or covering itself) whose range lies entirely inside the
// selection. A zero-length selection covers nothing. When covering spans
// exactly the selection it is the only covered node.
func CoveredNodes(t *Tree, covering NodeID, offset, length int) []NodeID {
	if length <= 0 || covering == NoNode {
		return nil
	}
	selBegin, selEnd := offset, offset+length
	covered := func(id NodeID) bool {
		n := &t.nodes[id]
		return n.Start >= selBegin && n.End <= selEnd
	}
	var result []NodeID
	Inspect(t, covering, func(id NodeID) bool {
		n := &t.nodes[id]
		if n.End < selBegin || selEnd < n.Start {
			return false
		}
		if covered(id) && (id == covering || !covered(n.Parent)) {
			result = append(result, id)
			return false
		}
		return true
	})
	return result
}
