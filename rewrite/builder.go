// Package rewrite stages structural changes to a syntax tree and compiles
// them into text edits.
//
// A Builder never mutates the tree it is bound to. New nodes live in an
// overlay arena whose ids start after the last id of the tree. Existing
// nodes enter the overlay only through CopyTarget and MoveTarget, which
// return placeholders standing for the source text of the original.
// Compiling prints every new node and keeps the text of everything the
// builder did not touch.
package rewrite

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/text"
)

// ErrCompiled is reported when a builder is modified after Compile.
var ErrCompiled = errors.New("builder already compiled")

// StructureError reports an invalid structural operation, such as putting a
// statement into an expression slot. It always indicates a defect in the
// code driving the builder.
type StructureError struct {
	Op   string
	Node ast.NodeID
	Err  error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("rewrite: %s node %d: %v", e.Op, e.Node, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// Indent is the string used for one level of indentation in printed code.
type Indent string

const DefaultIndent Indent = "    "

type slotKey struct {
	parent ast.NodeID
	prop   ast.Property
}

type insertion struct {
	index int
	node  ast.NodeID
}

type Builder struct {
	tree    *ast.Tree
	overlay []ast.Node

	// kinds holds the kind a placeholder stands for.
	kinds map[ast.NodeID]ast.Kind
	// replaced maps a tree node to its replacement. NoNode means removed.
	replaced map[ast.NodeID]ast.NodeID
	consumed map[ast.NodeID]string
	moved    map[ast.NodeID]ast.NodeID
	attached map[ast.NodeID]bool

	inserts     map[slotKey][]insertion
	insertOrder []slotKey
	added       map[slotKey]ast.NodeID
	addedOrder  []slotKey

	tracked []*Position
	err     error

	once       sync.Once
	compiled   bool
	unit       string
	edits      *text.MultiEdit
	compileErr error
}

// New returns an empty builder bound to tree.
func New(tree *ast.Tree) *Builder {
	return &Builder{
		tree:     tree,
		kinds:    make(map[ast.NodeID]ast.Kind),
		replaced: make(map[ast.NodeID]ast.NodeID),
		consumed: make(map[ast.NodeID]string),
		moved:    make(map[ast.NodeID]ast.NodeID),
		attached: make(map[ast.NodeID]bool),
		inserts:  make(map[slotKey][]insertion),
		added:    make(map[slotKey]ast.NodeID),
		unit:     string(DefaultIndent),
	}
}

func (b *Builder) Tree() *ast.Tree {
	return b.tree
}

// Node resolves ids of both the tree and the overlay.
func (b *Builder) Node(id ast.NodeID) *ast.Node {
	base := b.tree.Len()
	if int(id) < base {
		return b.tree.Node(id)
	}
	i := int(id) - base
	if i >= len(b.overlay) {
		return nil
	}
	return &b.overlay[i]
}

// Err returns the first structural error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) isBase(id ast.NodeID) bool {
	return id >= 0 && int(id) < b.tree.Len()
}

func (b *Builder) fail(op string, id ast.NodeID, format string, args ...any) {
	if b.err == nil {
		b.err = &StructureError{Op: op, Node: id, Err: fmt.Errorf(format, args...)}
	}
}

// usable reports whether the builder still accepts operations.
func (b *Builder) usable(op string, id ast.NodeID) bool {
	if b.compiled {
		if b.err == nil {
			b.err = &StructureError{Op: op, Node: id, Err: ErrCompiled}
		}
		return false
	}
	return b.err == nil
}

func (b *Builder) add(n ast.Node) ast.NodeID {
	n.Start, n.End = -1, -1
	b.overlay = append(b.overlay, n)
	id := ast.NodeID(b.tree.Len() + len(b.overlay) - 1)
	b.overlay[len(b.overlay)-1].Parent = ast.NoNode
	b.overlay[len(b.overlay)-1].Ref = ast.NoNode
	return id
}

// kindOf returns the kind a node occupies a slot as. Placeholders count as
// the kind they stand for.
func (b *Builder) kindOf(id ast.NodeID) ast.Kind {
	if k, ok := b.kinds[id]; ok {
		return k
	}
	if n := b.Node(id); n != nil {
		return n.Kind
	}
	return ast.KindError
}

// resolved follows placeholders to the tree node they stand for.
func (b *Builder) resolved(id ast.NodeID) *ast.Node {
	n := b.Node(id)
	for n != nil && n.Kind == ast.KindPlaceholder {
		n = b.Node(n.Ref)
	}
	return n
}

// checkValue verifies that id may be attached to slot prop.
func (b *Builder) checkValue(op string, id ast.NodeID, prop ast.Property) bool {
	n := b.Node(id)
	switch {
	case n == nil:
		b.fail(op, id, "unknown node")
	case b.isBase(id):
		b.fail(op, id, "%s of the tree cannot be attached directly, use CopyTarget or MoveTarget", n.Kind)
	case n.Parent != ast.NoNode || b.attached[id]:
		b.fail(op, id, "%s is already attached", n.Kind)
	case !prop.Accepts(b.kindOf(id)):
		b.fail(op, id, "%s slot does not accept %s", prop, b.kindOf(id))
	default:
		return true
	}
	return false
}

// link attaches child to an overlay parent. A NoNode child is ignored.
func (b *Builder) link(op string, parent ast.NodeID, prop ast.Property, child ast.NodeID, index int) {
	if child == ast.NoNode || !b.checkValue(op, child, prop) {
		return
	}
	p := b.Node(parent)
	if prop.IsList() {
		p.InsertChild(prop, index, child)
	} else if old := p.SetChild(prop, child); old != ast.NoNode {
		b.Node(old).Parent = ast.NoNode
	}
	c := b.Node(child)
	c.Parent = parent
	c.Loc = prop
}

func (b *Builder) consume(op string, id ast.NodeID) bool {
	if !b.isBase(id) {
		b.fail(op, id, "not a node of the tree")
		return false
	}
	if prev, ok := b.consumed[id]; ok {
		b.fail(op, id, "%s already used by %s", b.tree.Kind(id), prev)
		return false
	}
	b.consumed[id] = op
	return true
}

// Replace stages the replacement of target by repl. repl must be a new
// node or placeholder.
func (b *Builder) Replace(target, repl ast.NodeID) {
	if !b.usable("replace", target) {
		return
	}
	if repl == ast.NoNode {
		b.Remove(target)
		return
	}
	if !b.isBase(target) {
		b.replaceOverlay(target, repl)
		return
	}
	if b.tree.Node(target).Loc == ast.PropThenStatement && b.hasElse(b.tree.Parent(target)) && b.opensElse(repl) {
		repl = b.NewBlock(repl)
	}
	if !b.checkValue("replace", repl, b.tree.Node(target).Loc) || !b.consume("replace", target) {
		return
	}
	b.attached[repl] = true
	b.replaced[target] = repl
}

func (b *Builder) replaceOverlay(target, repl ast.NodeID) {
	n := b.Node(target)
	if n == nil || n.Parent == ast.NoNode {
		b.fail("replace", target, "node is not attached")
		return
	}
	if !b.checkValue("replace", repl, n.Loc) {
		return
	}
	parent, loc := n.Parent, n.Loc
	b.Node(parent).ReplaceChild(target, repl)
	n.Parent = ast.NoNode
	r := b.Node(repl)
	r.Parent = parent
	r.Loc = loc
}

// Remove stages the deletion of target. Only list elements and optional
// slots can be removed.
func (b *Builder) Remove(target ast.NodeID) {
	if !b.usable("remove", target) {
		return
	}
	if !b.isBase(target) {
		n := b.Node(target)
		if n == nil || n.Parent == ast.NoNode {
			b.fail("remove", target, "node is not attached")
			return
		}
		b.Node(n.Parent).RemoveChild(target)
		n.Parent = ast.NoNode
		return
	}
	if b.consume("remove", target) {
		b.replaced[target] = ast.NoNode
	}
}

// InsertAt stages node at position index of the list slot prop of parent.
// Indexes refer to the list as it is in the tree.
func (b *Builder) InsertAt(parent ast.NodeID, prop ast.Property, node ast.NodeID, index int) {
	if !b.usable("insert", parent) {
		return
	}
	if !prop.IsList() {
		b.fail("insert", parent, "%s is not a list slot", prop)
		return
	}
	pn := b.Node(parent)
	if pn == nil {
		b.fail("insert", parent, "unknown node")
		return
	}
	n := len(pn.ChildList(prop))
	if index < 0 || index > n {
		b.fail("insert", parent, "index %d out of range for %s of length %d", index, prop, n)
		return
	}
	if !b.isBase(parent) {
		b.link("insert", parent, prop, node, index)
		return
	}
	if !b.checkValue("insert", node, prop) {
		return
	}
	b.attached[node] = true
	key := slotKey{parent, prop}
	if _, ok := b.inserts[key]; !ok {
		b.insertOrder = append(b.insertOrder, key)
	}
	b.inserts[key] = append(b.inserts[key], insertion{index: index, node: node})
}

func (b *Builder) InsertFirst(parent ast.NodeID, prop ast.Property, node ast.NodeID) {
	b.InsertAt(parent, prop, node, 0)
}

func (b *Builder) InsertLast(parent ast.NodeID, prop ast.Property, node ast.NodeID) {
	if pn := b.Node(parent); pn != nil {
		b.InsertAt(parent, prop, node, len(pn.ChildList(prop)))
		return
	}
	b.InsertAt(parent, prop, node, 0)
}

// Set stores value in the single-valued slot prop of parent. On a tree node
// an occupied slot is replaced, or removed when value is NoNode.
func (b *Builder) Set(parent ast.NodeID, prop ast.Property, value ast.NodeID) {
	if !b.usable("set", parent) {
		return
	}
	if prop.IsList() {
		b.fail("set", parent, "%s is a list slot", prop)
		return
	}
	if !b.isBase(parent) {
		if value == ast.NoNode {
			if old := b.Node(parent).Child(prop); old != ast.NoNode {
				b.Remove(old)
			}
			return
		}
		if prop == ast.PropElseStatement {
			b.closeOverlayThen(parent)
		}
		b.link("set", parent, prop, value, 0)
		return
	}
	if old := b.tree.Child(parent, prop); old != ast.NoNode {
		b.Replace(old, value)
		return
	}
	if value == ast.NoNode {
		return
	}
	if !b.checkValue("set", value, prop) {
		return
	}
	key := slotKey{parent, prop}
	if _, ok := b.added[key]; ok {
		b.fail("set", parent, "%s already set", prop)
		return
	}
	if prop == ast.PropElseStatement {
		b.closeThen(parent)
	}
	b.attached[value] = true
	b.added[key] = value
	b.addedOrder = append(b.addedOrder, key)
}

// opensElse reports whether an else printed right after stmt would bind to
// an if statement nested inside it.
func (b *Builder) opensElse(stmt ast.NodeID) bool {
	id := stmt
	if n := b.Node(id); n != nil && n.Kind == ast.KindPlaceholder {
		id = n.Ref
	}
	for id != ast.NoNode {
		n := b.Node(id)
		if n == nil {
			return false
		}
		switch n.Kind {
		case ast.KindIfStmt:
			id = b.current(id, ast.PropElseStatement)
			if id == ast.NoNode {
				return true
			}
		case ast.KindWhileStmt, ast.KindForStmt, ast.KindEnhancedForStmt, ast.KindLabeledStmt:
			id = b.current(id, ast.PropBody)
		default:
			return false
		}
	}
	return false
}

// current returns the child in slot prop of parent with the staged changes
// applied. Placeholders are followed to the node they stand for.
func (b *Builder) current(parent ast.NodeID, prop ast.Property) ast.NodeID {
	id := b.Node(parent).Child(prop)
	if b.isBase(parent) && id == ast.NoNode {
		if v, ok := b.added[slotKey{parent, prop}]; ok {
			id = v
		}
	}
	if b.isBase(id) {
		if r, ok := b.replaced[id]; ok {
			id = r
		}
	}
	if n := b.Node(id); n != nil && n.Kind == ast.KindPlaceholder {
		id = n.Ref
	}
	return id
}

// hasElse reports whether the tree if statement ifStmt ends up with an else.
func (b *Builder) hasElse(ifStmt ast.NodeID) bool {
	if b.tree.Kind(ifStmt) != ast.KindIfStmt {
		return false
	}
	if els := b.tree.Child(ifStmt, ast.PropElseStatement); els != ast.NoNode {
		r, ok := b.replaced[els]
		return !ok || r != ast.NoNode
	}
	_, ok := b.added[slotKey{ifStmt, ast.PropElseStatement}]
	return ok
}

// closeThen wraps the then-statement of the tree if statement ifStmt in a
// block when an else added after it would bind to a nested if.
func (b *Builder) closeThen(ifStmt ast.NodeID) {
	then := b.tree.Child(ifStmt, ast.PropThenStatement)
	if then == ast.NoNode {
		return
	}
	if !b.IsConsumed(then) {
		if b.opensElse(then) {
			b.Replace(then, b.NewBlock(b.CopyTarget(then)))
		}
		return
	}
	r, ok := b.replaced[then]
	if !ok || r == ast.NoNode || !b.opensElse(r) {
		return
	}
	delete(b.attached, r)
	blk := b.NewBlock(r)
	b.attached[blk] = true
	b.replaced[then] = blk
}

// closeOverlayThen is closeThen for a new if statement.
func (b *Builder) closeOverlayThen(ifStmt ast.NodeID) {
	p := b.Node(ifStmt)
	if p.Kind != ast.KindIfStmt {
		return
	}
	then := p.Child(ast.PropThenStatement)
	if then == ast.NoNode || !b.opensElse(then) {
		return
	}
	p.SetChild(ast.PropThenStatement, ast.NoNode)
	b.Node(then).Parent = ast.NoNode
	blk := b.NewBlock(then)
	b.link("set", ifStmt, ast.PropThenStatement, blk, 0)
}

// CopyTarget returns a placeholder that renders the current text of id.
// The original stays where it is.
func (b *Builder) CopyTarget(id ast.NodeID) ast.NodeID {
	if !b.usable("copy", id) {
		return ast.NoNode
	}
	if !b.isBase(id) {
		b.fail("copy", id, "not a node of the tree")
		return ast.NoNode
	}
	return b.placeholder(id)
}

// MoveTarget returns a placeholder for id. Once the placeholder is attached
// the original position of id is removed unless an enclosing node is
// already replaced or removed.
func (b *Builder) MoveTarget(id ast.NodeID) ast.NodeID {
	if !b.usable("move", id) || !b.consume("move", id) {
		return ast.NoNode
	}
	ph := b.placeholder(id)
	b.moved[id] = ph
	return ph
}

func (b *Builder) placeholder(id ast.NodeID) ast.NodeID {
	ph := b.add(ast.Node{Kind: ast.KindPlaceholder})
	b.Node(ph).Ref = id
	b.kinds[ph] = b.tree.Kind(id)
	return ph
}

// StringPlaceholder returns a leaf that prints as code. kind is the kind of
// node the text stands for and decides which slots accept it.
func (b *Builder) StringPlaceholder(code string, kind ast.Kind) ast.NodeID {
	if !b.usable("placeholder", ast.NoNode) {
		return ast.NoNode
	}
	id := b.add(ast.Node{Kind: ast.KindStringPlaceholder, Text: code})
	b.kinds[id] = kind
	return id
}

// Track returns a handle whose final range is known after Compile.
func (b *Builder) Track(id ast.NodeID) *Position {
	p := &Position{node: id}
	b.tracked = append(b.tracked, p)
	return p
}

// IsConsumed reports whether id was already replaced, removed or moved.
func (b *Builder) IsConsumed(id ast.NodeID) bool {
	_, ok := b.consumed[id]
	return ok
}
