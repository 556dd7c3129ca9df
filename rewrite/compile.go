package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/jassist/format"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/text"
)

// change is one edit against the tree source together with the ranges of
// the nodes printed into its text.
type change struct {
	edit  text.Edit
	spans map[ast.NodeID]format.Span
}

// Compile turns the staged operations into edits against the source of the
// tree. It runs once; later calls return the first result whatever indent
// they pass.
func (b *Builder) Compile(indent Indent) (*text.MultiEdit, error) {
	b.once.Do(func() {
		b.edits, b.compileErr = b.compile(indent)
	})
	return b.edits, b.compileErr
}

func (b *Builder) compile(indent Indent) (*text.MultiEdit, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.compiled = true
	if indent != "" {
		b.unit = string(indent)
	}
	b.applyMoves()

	changes, err := b.collect(b.tree.Root)
	if err != nil {
		return nil, err
	}
	sortChanges(changes)
	m := text.NewMultiEdit()
	for _, c := range changes {
		m.Add(c.edit)
	}
	if err := m.Check(len(b.tree.Source)); err != nil {
		return nil, fmt.Errorf("compile rewrite of %s: %w", b.tree.File, err)
	}
	b.resolvePositions(changes)
	return m, nil
}

// applyMoves removes the original of every attached move target whose
// position is not already covered by a replacement or removal.
func (b *Builder) applyMoves() {
	for src, ph := range b.moved {
		if !b.isAttached(ph) || b.coveredByChange(src) {
			continue
		}
		b.replaced[src] = ast.NoNode
	}
}

func (b *Builder) isAttached(id ast.NodeID) bool {
	for cur := id; cur != ast.NoNode; {
		if b.attached[cur] {
			return true
		}
		n := b.Node(cur)
		if n == nil {
			return false
		}
		cur = n.Parent
	}
	return false
}

// coveredByChange reports whether a proper ancestor of id is replaced or
// removed.
func (b *Builder) coveredByChange(id ast.NodeID) bool {
	for cur := b.tree.Parent(id); cur != ast.NoNode; cur = b.tree.Parent(cur) {
		if _, ok := b.replaced[cur]; ok {
			return true
		}
	}
	return false
}

func sortChanges(changes []change) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, c := changes[i].edit, changes[j].edit
		if a.Offset != c.Offset {
			return a.Offset < c.Offset
		}
		return a.Length == 0 && c.Length > 0
	})
}

// collect returns the changes inside the subtree of id, excluding changes
// to id itself.
func (b *Builder) collect(id ast.NodeID) ([]change, error) {
	var out []change
	if err := b.collectInto(id, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) collectInto(id ast.NodeID, out *[]change) error {
	n := b.tree.Node(id)
	if n == nil {
		return nil
	}
	lists := make(map[ast.Property]bool)
	for _, s := range n.Slots() {
		if s.Prop.IsList() {
			if lists[s.Prop] {
				continue
			}
			key := slotKey{id, s.Prop}
			if b.listChanged(key) {
				lists[s.Prop] = true
				c, err := b.listChange(key)
				if err != nil {
					return err
				}
				*out = append(*out, c)
				continue
			}
		}
		if repl, ok := b.replaced[s.ID]; ok {
			c, err := b.replaceChange(s.ID, repl)
			if err != nil {
				return err
			}
			*out = append(*out, c)
			continue
		}
		if err := b.collectInto(s.ID, out); err != nil {
			return err
		}
	}

	for _, key := range b.insertOrder {
		if key.parent != id || len(n.ChildList(key.prop)) > 0 {
			continue
		}
		c, err := b.emptyListChange(key)
		if err != nil {
			return err
		}
		*out = append(*out, c)
	}
	for _, key := range b.addedOrder {
		if key.parent != id {
			continue
		}
		c, err := b.addedChange(key)
		if err != nil {
			return err
		}
		*out = append(*out, c)
	}
	return nil
}

func (b *Builder) listChanged(key slotKey) bool {
	if len(b.inserts[key]) > 0 {
		return true
	}
	for _, e := range b.tree.ChildList(key.parent, key.prop) {
		if repl, ok := b.replaced[e]; ok && repl == ast.NoNode {
			return true
		}
	}
	return false
}

// print renders an overlay node for a position whose line starts with
// indent.
func (b *Builder) print(id ast.NodeID, indent string) (string, map[ast.NodeID]format.Span, error) {
	var renderErr error
	p := format.NewPrinter(b,
		format.WithIndentUnit(b.unit),
		format.WithBaseIndent(indent),
		format.WithSource(func(id ast.NodeID) (string, bool) {
			if !b.isBase(id) {
				return "", false
			}
			s, err := b.render(id)
			if err != nil && renderErr == nil {
				renderErr = err
			}
			return s, true
		}),
	)
	out := p.Print(id)
	spans := make(map[ast.NodeID]format.Span, len(p.Spans()))
	for k, v := range p.Spans() {
		spans[k] = v
	}
	return out, spans, renderErr
}

func (b *Builder) replaceChange(target, repl ast.NodeID) (change, error) {
	n := b.tree.Node(target)
	if repl == ast.NoNode {
		start, end, err := b.removalRange(target)
		if err != nil {
			return change{}, err
		}
		return change{edit: text.Edit{Offset: start, Length: end - start}}, nil
	}
	out, spans, err := b.print(repl, b.lineIndent(n.Start))
	if err != nil {
		return change{}, err
	}
	if format.NeedsParentheses(b.tree.Node(n.Parent), n.Loc, b.resolved(repl)) {
		out = "(" + out + ")"
		shift(spans, 1)
	}
	return change{edit: text.Edit{Offset: n.Start, Length: n.Length(), Text: out}, spans: spans}, nil
}

// removalRange returns the source range deleted when the node in a
// single-valued slot is removed.
func (b *Builder) removalRange(id ast.NodeID) (int, int, error) {
	n := b.tree.Node(id)
	src := b.tree.Source
	switch n.Loc {
	case ast.PropElseStatement:
		then := b.tree.Node(b.tree.Child(n.Parent, ast.PropThenStatement))
		return then.End, n.End, nil
	case ast.PropInitializer:
		start := skipBack(src, n.Start, " \t\r\n")
		if start > 0 && src[start-1] == '=' {
			start = skipBack(src, start-1, " \t\r\n")
		}
		return start, n.End, nil
	case ast.PropExpression:
		switch b.tree.Kind(n.Parent) {
		case ast.KindReturnStmt, ast.KindYieldStmt:
			return skipBack(src, n.Start, " \t\r\n"), n.End, nil
		}
	case ast.PropFinally:
		return skipBack(src, b.finallyStart(n), " \t\r\n"), n.End, nil
	}
	return 0, 0, &StructureError{Op: "remove", Node: id, Err: fmt.Errorf("%s slot of %s cannot be removed", n.Loc, b.tree.Kind(n.Parent))}
}

func (b *Builder) finallyStart(n *ast.Node) int {
	if i := strings.LastIndex(b.tree.Source[:n.Start], "finally"); i >= 0 {
		return i
	}
	return n.Start
}

func skipBack(s string, off int, cutset string) int {
	for off > 0 && strings.IndexByte(cutset, s[off-1]) >= 0 {
		off--
	}
	return off
}

// listItem is one element of a rebuilt list: an original element at index
// k or a new node.
type listItem struct {
	orig bool
	k    int
	node ast.NodeID
}

func separator(prop ast.Property) (sep string, lines bool) {
	switch prop {
	case ast.PropStatements, ast.PropBodyDeclarations, ast.PropImports, ast.PropTypes:
		return "", true
	case ast.PropModifiers, ast.PropCatchClauses:
		return " ", false
	case ast.PropResources:
		return "; ", false
	}
	return ", ", false
}

// listChange rebuilds the text from the first to the last element of a
// list with insertions or removals. Gaps between surviving neighbours keep
// their original text.
func (b *Builder) listChange(key slotKey) (change, error) {
	elems := b.tree.ChildList(key.parent, key.prop)
	if len(elems) == 0 {
		return b.emptyListChange(key)
	}
	src := b.tree.Source
	first, last := b.tree.Node(elems[0]), b.tree.Node(elems[len(elems)-1])
	indent := b.lineIndent(first.Start)
	sep, lines := separator(key.prop)
	if lines {
		sep = "\n" + indent
	}

	var items []listItem
	ins := b.sortedInserts(key)
	for k := 0; k <= len(elems); k++ {
		for _, in := range ins {
			if in.index == k {
				items = append(items, listItem{node: in.node})
			}
		}
		if k == len(elems) {
			break
		}
		if repl, ok := b.replaced[elems[k]]; ok && repl == ast.NoNode {
			continue
		}
		items = append(items, listItem{orig: true, k: k})
	}

	var buf strings.Builder
	spans := make(map[ast.NodeID]format.Span)
	for i, it := range items {
		if i > 0 {
			prev := items[i-1]
			if prev.orig && it.orig {
				buf.WriteString(src[b.tree.Node(elems[prev.k]).End:b.tree.Node(elems[prev.k+1]).Start])
			} else {
				buf.WriteString(sep)
			}
		}
		start := buf.Len()
		var (
			out string
			sp  map[ast.NodeID]format.Span
			err error
		)
		switch {
		case !it.orig:
			out, sp, err = b.print(it.node, indent)
		case b.isReplaced(elems[it.k]):
			out, sp, err = b.print(b.replaced[elems[it.k]], indent)
		default:
			out, sp, err = b.renderRaw(elems[it.k])
		}
		if err != nil {
			return change{}, err
		}
		buf.WriteString(out)
		for id, s := range sp {
			spans[id] = format.Span{Start: s.Start + start, End: s.End + start}
		}
	}

	start, end := first.Start, last.End
	if buf.Len() == 0 && lines {
		start = skipBack(src, start, " \t\r\n")
	}
	return change{edit: text.Edit{Offset: start, Length: end - start, Text: buf.String()}, spans: spans}, nil
}

func (b *Builder) isReplaced(id ast.NodeID) bool {
	_, ok := b.replaced[id]
	return ok
}

func (b *Builder) sortedInserts(key slotKey) []insertion {
	ins := append([]insertion(nil), b.inserts[key]...)
	sort.SliceStable(ins, func(i, j int) bool {
		return ins[i].index < ins[j].index
	})
	return ins
}

// emptyListChange fills an empty block. Other empty lists have no anchor
// to insert at.
func (b *Builder) emptyListChange(key slotKey) (change, error) {
	n := b.tree.Node(key.parent)
	if n.Kind != ast.KindBlock || key.prop != ast.PropStatements {
		return change{}, &StructureError{Op: "insert", Node: key.parent, Err: fmt.Errorf("cannot insert into empty %s of %s", key.prop, n.Kind)}
	}
	outer := b.lineIndent(n.Start)
	inner := outer + b.unit

	var buf strings.Builder
	spans := make(map[ast.NodeID]format.Span)
	for _, in := range b.sortedInserts(key) {
		buf.WriteString("\n" + inner)
		start := buf.Len()
		out, sp, err := b.print(in.node, inner)
		if err != nil {
			return change{}, err
		}
		buf.WriteString(out)
		for id, s := range sp {
			spans[id] = format.Span{Start: s.Start + start, End: s.End + start}
		}
	}
	buf.WriteString("\n" + outer)
	offset := n.Start + 1
	return change{edit: text.Edit{Offset: offset, Length: n.End - 1 - offset, Text: buf.String()}, spans: spans}, nil
}

// addedChange fills a single-valued slot that is empty in the tree.
func (b *Builder) addedChange(key slotKey) (change, error) {
	n := b.tree.Node(key.parent)
	value := b.added[key]
	indent := b.lineIndent(n.Start)
	out, spans, err := b.print(value, indent)
	if err != nil {
		return change{}, err
	}

	var prefix string
	var offset int
	switch {
	case n.Kind == ast.KindIfStmt && key.prop == ast.PropElseStatement:
		then := b.tree.Child(key.parent, ast.PropThenStatement)
		offset = b.tree.Node(then).End
		kind := b.tree.Kind(then)
		if r, ok := b.replaced[then]; ok && r != ast.NoNode {
			kind = b.kindOf(r)
		}
		prefix = " else "
		if kind != ast.KindBlock {
			prefix = "\n" + indent + "else "
		}
	case n.Kind == ast.KindVarFragment && key.prop == ast.PropInitializer:
		offset, prefix = n.End, " = "
	case (n.Kind == ast.KindReturnStmt || n.Kind == ast.KindYieldStmt) && key.prop == ast.PropExpression:
		offset, prefix = n.End-1, " "
	default:
		return change{}, &StructureError{Op: "set", Node: key.parent, Err: fmt.Errorf("cannot add %s to %s", key.prop, n.Kind)}
	}
	shift(spans, len(prefix))
	return change{edit: text.Edit{Offset: offset, Text: prefix + out}, spans: spans}, nil
}

// renderRaw returns the source text of a tree node with the staged changes
// inside it applied, and the ranges of the nodes printed into it.
func (b *Builder) renderRaw(id ast.NodeID) (string, map[ast.NodeID]format.Span, error) {
	n := b.tree.Node(id)
	changes, err := b.collect(id)
	if err != nil {
		return "", nil, err
	}
	sortChanges(changes)
	m := text.NewMultiEdit()
	spans := make(map[ast.NodeID]format.Span)
	delta := 0
	for _, c := range changes {
		e := c.edit
		e.Offset -= n.Start
		m.Add(e)
		for k, s := range c.spans {
			spans[k] = format.Span{Start: s.Start + e.Offset + delta, End: s.End + e.Offset + delta}
		}
		delta += len(e.Text) - e.Length
	}
	out, err := m.ApplyTo(b.tree.Text(id))
	if err != nil {
		return "", nil, err
	}
	spans[id] = format.Span{Start: 0, End: len(out)}
	return out, spans, nil
}

// render is renderRaw with the indentation of the node's first line
// removed from the following lines.
func (b *Builder) render(id ast.NodeID) (string, error) {
	raw, _, err := b.renderRaw(id)
	if err != nil {
		return "", err
	}
	return dedent(raw, b.lineIndent(b.tree.Node(id).Start)), nil
}

func dedent(s, prefix string) string {
	if prefix == "" || !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], prefix) {
			lines[i] = lines[i][len(prefix):]
		} else {
			lines[i] = strings.TrimLeft(lines[i], " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// lineIndent returns the leading whitespace of the line containing off.
func (b *Builder) lineIndent(off int) string {
	src := b.tree.Source
	if off > len(src) {
		off = len(src)
	}
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := start
	for end < off && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}

func shift(spans map[ast.NodeID]format.Span, by int) {
	for id, s := range spans {
		spans[id] = format.Span{Start: s.Start + by, End: s.End + by}
	}
}
