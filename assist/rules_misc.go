package assist

import (
	"strings"

	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/naming"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

// guardedBody returns the statement that runs only when the instanceof
// test inst holds: the then-statement of an if or the body of a while
// whose condition reaches inst through && and parentheses alone.
func (c *Context) guardedBody(inst ast.NodeID) ast.NodeID {
	cur := inst
	for {
		parent := c.node(c.node(cur).Parent)
		if parent == nil {
			return ast.NoNode
		}
		if parent.Kind == ast.KindParen || (parent.Kind == ast.KindInfix && parent.Op == ast.OpConditionalAnd) {
			cur = c.node(cur).Parent
			continue
		}
		if c.node(cur).Loc != ast.PropExpression {
			return ast.NoNode
		}
		switch parent.Kind {
		case ast.KindIfStmt:
			return parent.Child(ast.PropThenStatement)
		case ast.KindWhileStmt:
			return parent.Child(ast.PropBody)
		}
		return ast.NoNode
	}
}

// castAndAssign declares a local holding the casted operand of an
// instanceof test at the start of the guarded block.
func castAndAssign(c *Context) []*proposal.Proposal {
	inst := c.coveringExpression(ast.KindInstanceof)
	if inst == ast.NoNode || c.child(inst, ast.PropName) != ast.NoNode {
		return nil
	}
	body := c.guardedBody(inst)
	if body == ast.NoNode {
		return nil
	}
	typeName := c.text(c.child(inst, ast.PropType))
	left := c.child(inst, ast.PropLeftOperand)

	return one(c.propose("Introduce new local with casted type", proposal.RelevanceCastAndAssign, proposal.ImageLocal, func(b *rewrite.Builder, links *proposal.Links) {
		names := c.variableNames(typeName, c.namesInScope(inst))
		declType, castType := b.NewSimpleType(typeName), b.NewSimpleType(typeName)
		decl := b.NewLocalVar(declType, names[0], b.NewCast(castType, b.CopyTarget(left)))
		if c.kind(body) == ast.KindBlock {
			b.InsertFirst(body, ast.PropStatements, decl)
		} else {
			b.Replace(body, b.NewBlock(decl, b.CopyTarget(body)))
		}

		links.Add("name", b.Track(b.VarName(decl)), true)
		for _, n := range names {
			links.Suggest("name", n)
		}
		links.Add("type", b.Track(declType), false)
		links.Add("type", b.Track(castType), false)
	}, proposal.WithKind(proposal.KindExtract)))
}

// stringContent returns the text between the quotes of a string literal.
func (c *Context) stringContent(id ast.NodeID) string {
	s := c.text(id)
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

// combineStrings merges a concatenation of string literals into one
// literal.
func combineStrings(c *Context) []*proposal.Proposal {
	root := ast.NoNode
	for cur := c.covering; cur != ast.NoNode && c.kind(cur).IsExpression(); cur = c.Tree.Parent(cur) {
		if n := c.node(cur); n.Kind == ast.KindInfix && n.Op == ast.OpPlus {
			root = ast.ChainRoot(c.Tree, cur)
			break
		}
	}
	if root == ast.NoNode {
		return nil
	}
	operands := ast.Operands(c.Tree, root)
	var content strings.Builder
	for _, o := range operands {
		if c.kind(o) != ast.KindStringLiteral {
			return nil
		}
		content.WriteString(c.stringContent(o))
	}
	return one(c.propose("Combine to single String", proposal.RelevanceCombineStrings, proposal.ImageString, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Replace(root, b.NewStringLiteral(content.String()))
	}, proposal.WithKind(proposal.KindInline)))
}

// escapeEnd returns the offset just past the escape sequence starting at
// s[i], which must be a backslash.
func escapeEnd(s string, i int) int {
	j := i + 1
	switch {
	case j >= len(s):
		return j
	case s[j] == 'u':
		for j < len(s) && s[j] == 'u' {
			j++
		}
		return min(j+4, len(s))
	case s[j] >= '0' && s[j] <= '7':
		limit := j + 3
		if s[j] > '3' {
			limit = j + 2
		}
		for j < len(s) && j < limit && s[j] >= '0' && s[j] <= '7' {
			j++
		}
		return j
	}
	return j + 1
}

// splitsEscape reports whether offset lies strictly inside an escape
// sequence of the literal content.
func splitsEscape(content string, offset int) bool {
	for i := 0; i < len(content); {
		if content[i] != '\\' {
			i++
			continue
		}
		end := escapeEnd(content, i)
		if offset > i && offset < end {
			return true
		}
		i = end
	}
	return false
}

// pickOutString splits a string literal around the selected part of its
// content, which becomes a literal of its own.
func pickOutString(c *Context) []*proposal.Proposal {
	lit := c.covering
	if c.kind(lit) != ast.KindStringLiteral || c.Length == 0 {
		return nil
	}
	n := c.node(lit)
	begin, end := n.Start+1, n.End-1
	if c.Offset < begin || c.Offset+c.Length > end {
		return nil
	}
	if c.Offset == begin && c.Offset+c.Length == end {
		return nil
	}
	content := c.stringContent(lit)
	from, to := c.Offset-begin, c.Offset+c.Length-begin
	if splitsEscape(content, from) || splitsEscape(content, to) {
		return nil
	}
	left, center, right := content[:from], content[from:to], content[to:]

	return one(c.propose("Pick out selected part of String", proposal.RelevancePickOutString, proposal.ImageString, func(b *rewrite.Builder, links *proposal.Links) {
		var parts []ast.NodeID
		if left != "" {
			parts = append(parts, b.NewStringLiteral(left))
		}
		picked := b.NewStringLiteral(center)
		parts = append(parts, picked)
		if right != "" {
			parts = append(parts, b.NewStringLiteral(right))
		}
		b.Replace(lit, b.NewInfix(ast.OpPlus, parts...))
		links.Add("center", b.Track(picked), true)
	}, proposal.WithKind(proposal.KindExtract)))
}

// inverseBooleanVariable replaces a boolean local by its negation under a
// new name and negates every use.
func inverseBooleanVariable(c *Context) []*proposal.Proposal {
	name := c.covering
	if c.kind(name) != ast.KindName || c.node(name).Loc != ast.PropName {
		return nil
	}
	decl := c.Tree.Parent(name)
	if c.kind(decl) != ast.KindVarFragment || c.kind(c.Tree.Parent(decl)) != ast.KindLocalVarDecl {
		return nil
	}
	if c.Resolver.DeclaredType(decl).Name != "boolean" {
		return nil
	}
	refs := c.Resolver.References(decl)
	newName := naming.Negated(c.text(name), c.namesInScope(decl))

	return one(c.propose("Inverse boolean variable", proposal.RelevanceInverseBooleanVariable, proposal.ImageChange, func(b *rewrite.Builder, links *proposal.Links) {
		v := newInverter(c, b)
		v.renamed = make(map[ast.NodeID]string, len(refs))
		for _, ref := range refs {
			v.renamed[ref] = newName
		}

		declared := b.NewName(newName)
		b.Replace(name, declared)
		if init := c.child(decl, ast.PropInitializer); init != ast.NoNode {
			b.Replace(init, v.invert(init))
		}
		for _, ref := range refs {
			c.negateReference(b, v, ref, newName)
		}

		links.Add("name", b.Track(declared), true)
		for _, id := range v.names {
			links.Add("name", b.Track(id), false)
		}
	}))
}

// negateReference rewrites one use of a variable that now holds its own
// negation under newName.
func (c *Context) negateReference(b *rewrite.Builder, v *inverter, ref ast.NodeID, newName string) {
	n := c.node(ref)
	if n.Loc == ast.PropLeftHandSide && c.kind(n.Parent) == ast.KindAssignment {
		asg := n.Parent
		op := c.node(asg).Op
		rhs := c.child(asg, ast.PropRightHandSide)
		var value ast.NodeID
		switch op {
		case ast.OpAssign:
			value = v.invert(rhs)
		case ast.OpAndAssign:
			op, value = ast.OpOrAssign, v.invert(rhs)
		case ast.OpOrAssign:
			op, value = ast.OpAndAssign, v.invert(rhs)
		case ast.OpXorAssign:
			value = v.copy(rhs)
		default:
			return
		}
		b.Replace(asg, b.NewAssignment(op, v.newName(newName), value))
		return
	}

	outer := ref
	for c.kind(c.Tree.Parent(outer)) == ast.KindParen {
		outer = c.Tree.Parent(outer)
	}
	if p := c.node(c.Tree.Parent(outer)); p != nil && p.Kind == ast.KindPrefix && p.Op == ast.OpNot {
		b.Replace(c.Tree.Parent(outer), v.newName(newName))
		return
	}
	b.Replace(ref, b.NewPrefix(ast.OpNot, v.newName(newName)))
}
