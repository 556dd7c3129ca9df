package rewrite

import (
	"github.com/dhamidi/jassist/java/ast"
)

// Position tracks where a node ends up in the edited document.
type Position struct {
	node   ast.NodeID
	offset int
	length int
	ok     bool
}

func (p *Position) Node() ast.NodeID {
	return p.node
}

// Range returns the offset and length of the node in the edited document.
// ok is false before Compile, and for nodes whose text was not printed
// directly by an edit or kept in place.
func (p *Position) Range() (offset, length int, ok bool) {
	return p.offset, p.length, p.ok
}

func (b *Builder) resolvePositions(changes []change) {
	starts := make([]int, len(changes))
	delta := 0
	for i, c := range changes {
		starts[i] = c.edit.Offset + delta
		delta += len(c.edit.Text) - c.edit.Length
	}

	for _, p := range b.tracked {
		p.ok = false
		for i, c := range changes {
			if s, found := c.spans[p.node]; found {
				p.offset, p.length, p.ok = starts[i]+s.Start, s.End-s.Start, true
				break
			}
		}
		if !p.ok && b.isBase(p.node) {
			p.offset, p.length, p.ok = mapRange(b.tree.Node(p.node), changes)
		}
	}
}

// mapRange moves an untouched node range across the changes. Changes
// strictly inside the node adjust its length; a change straddling either
// boundary invalidates it.
func mapRange(n *ast.Node, changes []change) (int, int, bool) {
	start, length := n.Start, n.Length()
	for _, c := range changes {
		e := c.edit
		d := len(e.Text) - e.Length
		switch {
		case e.End() <= n.Start:
			start += d
		case e.Offset >= n.End:
		case e.Offset >= n.Start && e.End() <= n.End:
			length += d
		default:
			return 0, 0, false
		}
	}
	return start, length, true
}
