package ast

import "fmt"

// NodeID addresses a node inside an arena. IDs are stable for the lifetime
// of the arena.
type NodeID int32

const NoNode NodeID = -1

// Slot is one child reference held by a node.
type Slot struct {
	Prop Property
	ID   NodeID
}

// Node is a single syntax tree node. Start and End are byte offsets into the
// source; End is exclusive. Text holds the spelling of leaves such as names,
// literals, modifiers and primitive types. Ref is only used by placeholders
// and points at the node they stand for.
type Node struct {
	Kind   Kind
	Op     Operator
	Text   string
	Start  int
	End    int
	Parent NodeID
	Loc    Property
	Ref    NodeID
	slots  []Slot
}

func (n *Node) Length() int {
	return n.End - n.Start
}

// Child returns the node stored in a single-valued slot, or NoNode.
func (n *Node) Child(p Property) NodeID {
	for _, s := range n.slots {
		if s.Prop == p {
			return s.ID
		}
	}
	return NoNode
}

// ChildList returns the nodes stored in a list-valued slot in order.
func (n *Node) ChildList(p Property) []NodeID {
	var ids []NodeID
	for _, s := range n.slots {
		if s.Prop == p {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Slots returns every child reference in document order.
func (n *Node) Slots() []Slot {
	return append([]Slot(nil), n.slots...)
}

func (n *Node) Children() []NodeID {
	ids := make([]NodeID, len(n.slots))
	for i, s := range n.slots {
		ids[i] = s.ID
	}
	return ids
}

// SetChild stores id in the single-valued slot p, replacing any previous
// occupant. The replaced id is returned.
func (n *Node) SetChild(p Property, id NodeID) NodeID {
	for i, s := range n.slots {
		if s.Prop == p {
			n.slots[i].ID = id
			return s.ID
		}
	}
	n.slots = append(n.slots, Slot{Prop: p, ID: id})
	return NoNode
}

// InsertChild places id at position index of list slot p. An index past the
// end appends.
func (n *Node) InsertChild(p Property, index int, id NodeID) {
	pos := len(n.slots)
	seen := 0
	last := -1
	for i, s := range n.slots {
		if s.Prop != p {
			continue
		}
		if seen == index {
			pos = i
			break
		}
		seen++
		last = i
	}
	if pos == len(n.slots) && last >= 0 {
		pos = last + 1
	}
	n.slots = append(n.slots, Slot{})
	copy(n.slots[pos+1:], n.slots[pos:])
	n.slots[pos] = Slot{Prop: p, ID: id}
}

// ReplaceChild swaps old for repl wherever old is referenced.
func (n *Node) ReplaceChild(old, repl NodeID) bool {
	for i, s := range n.slots {
		if s.ID == old {
			n.slots[i].ID = repl
			return true
		}
	}
	return false
}

func (n *Node) RemoveChild(id NodeID) bool {
	for i, s := range n.slots {
		if s.ID == id {
			n.slots = append(n.slots[:i], n.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Arena resolves node ids. A Tree is an arena; so is a rewrite overlay that
// layers new nodes on top of a tree.
type Arena interface {
	Node(id NodeID) *Node
}

// Tree is the parsed form of one compilation unit.
type Tree struct {
	File   string
	Source string
	Root   NodeID
	nodes  []Node
}

func NewTree(file, source string) *Tree {
	return &Tree{File: file, Source: source, Root: NoNode}
}

// Len returns the number of nodes in the arena. Every valid id is below it.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. The result must be treated as read-only.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindError
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

func (t *Tree) Child(id NodeID, p Property) NodeID {
	if n := t.Node(id); n != nil {
		return n.Child(p)
	}
	return NoNode
}

func (t *Tree) ChildList(id NodeID, p Property) []NodeID {
	if n := t.Node(id); n != nil {
		return n.ChildList(p)
	}
	return nil
}

// Text returns the source text spanned by id.
func (t *Tree) Text(id NodeID) string {
	n := t.Node(id)
	if n == nil || n.Start < 0 || n.End > len(t.Source) || n.Start > n.End {
		return ""
	}
	return t.Source[n.Start:n.End]
}

// Add allocates a detached node and returns its id.
func (t *Tree) Add(n Node) NodeID {
	n.Parent = NoNode
	n.Ref = NoNode
	n.slots = nil
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Attach appends child to slot p of parent. Children must be attached in
// source order.
func (t *Tree) Attach(parent NodeID, p Property, child NodeID) {
	if child == NoNode {
		return
	}
	c := &t.nodes[child]
	c.Parent = parent
	c.Loc = p
	pn := &t.nodes[parent]
	pn.slots = append(pn.slots, Slot{Prop: p, ID: child})
}

// Extend widens the range of id to cover [start, end).
func (t *Tree) Extend(id NodeID, start, end int) {
	n := &t.nodes[id]
	if start < n.Start {
		n.Start = start
	}
	if end > n.End {
		n.End = end
	}
}

func (t *Tree) String() string {
	return Dump(t, t.Root, false)
}

// Dump renders the subtree at id one node per line, indented by depth.
func Dump(a Arena, id NodeID, positions bool) string {
	var out []byte
	var walk func(id NodeID, p Property, depth int)
	walk = func(id NodeID, p Property, depth int) {
		n := a.Node(id)
		if n == nil {
			return
		}
		for i := 0; i < depth; i++ {
			out = append(out, "  "...)
		}
		if p != PropNone {
			out = append(out, p.String()...)
			out = append(out, ": "...)
		}
		out = append(out, n.Kind.String()...)
		if n.Op != OpNone {
			out = append(out, " "...)
			out = append(out, n.Op.String()...)
		}
		if n.Text != "" {
			out = fmt.Appendf(out, " %q", n.Text)
		}
		if positions {
			out = fmt.Appendf(out, " [%d-%d]", n.Start, n.End)
		}
		out = append(out, '\n')
		for _, s := range n.slots {
			walk(s.ID, s.Prop, depth+1)
		}
	}
	walk(id, PropNone, 0)
	return string(out)
}
