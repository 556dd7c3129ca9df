package assist

import (
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/rewrite"
)

var complement = map[ast.Operator]ast.Operator{
	ast.OpLess:          ast.OpGreaterEquals,
	ast.OpGreaterEquals: ast.OpLess,
	ast.OpGreater:       ast.OpLessEquals,
	ast.OpLessEquals:    ast.OpGreater,
	ast.OpEquals:        ast.OpNotEquals,
	ast.OpNotEquals:     ast.OpEquals,
}

// inverter builds the logical negation of tree expressions using algebraic
// identities instead of a blanket `!`.
type inverter struct {
	c *Context
	b *rewrite.Builder
	// renamed maps references of a boolean variable that is being replaced
	// by its negation to the new name.
	renamed map[ast.NodeID]string
	// names collects the name nodes written for renamed references.
	names []ast.NodeID
}

func newInverter(c *Context, b *rewrite.Builder) *inverter {
	return &inverter{c: c, b: b}
}

// copy returns a node standing for the current text of id.
func (v *inverter) copy(id ast.NodeID) ast.NodeID {
	if name, ok := v.renamed[id]; ok {
		return v.b.NewPrefix(ast.OpNot, v.newName(name))
	}
	return v.b.CopyTarget(id)
}

func (v *inverter) newName(name string) ast.NodeID {
	id := v.b.NewName(name)
	v.names = append(v.names, id)
	return id
}

func (v *inverter) invert(id ast.NodeID) ast.NodeID {
	if name, ok := v.renamed[id]; ok {
		return v.newName(name)
	}
	t := v.c.Tree
	n := t.Node(id)
	switch n.Kind {
	case ast.KindParen:
		inner := ast.Unparenthesize(t, id)
		if t.Kind(inner) == ast.KindInstanceof {
			return v.not(inner)
		}
		return v.invert(inner)
	case ast.KindPrefix:
		if n.Op == ast.OpNot {
			return v.copy(ast.Unparenthesize(t, n.Child(ast.PropOperand)))
		}
	case ast.KindInfix:
		if op, ok := complement[n.Op]; ok {
			return v.b.NewInfix(op, v.copy(n.Child(ast.PropLeftOperand)), v.copy(n.Child(ast.PropRightOperand)))
		}
		var flipped ast.Operator
		switch n.Op {
		case ast.OpConditionalAnd:
			flipped = ast.OpConditionalOr
		case ast.OpConditionalOr:
			flipped = ast.OpConditionalAnd
		case ast.OpAnd:
			flipped = ast.OpOr
		case ast.OpOr:
			flipped = ast.OpAnd
		}
		if flipped != ast.OpNone && (n.Op == ast.OpConditionalAnd || n.Op == ast.OpConditionalOr || v.c.isBoolean(id)) {
			operands := ast.Operands(t, id)
			inverted := make([]ast.NodeID, len(operands))
			for i, op := range operands {
				inverted[i] = v.invert(op)
			}
			return v.b.NewInfix(flipped, inverted...)
		}
	case ast.KindInstanceof:
		return v.not(id)
	case ast.KindBooleanLiteral:
		return v.b.NewBooleanLiteral(n.Text != "true")
	case ast.KindConditional:
		return v.b.NewConditional(
			v.copy(n.Child(ast.PropExpression)),
			v.invert(n.Child(ast.PropThenExpression)),
			v.invert(n.Child(ast.PropElseExpression)))
	}
	return v.b.NewPrefix(ast.OpNot, v.copy(id))
}

// not wraps id in an explicit negation, parenthesized unless id is a
// primary.
func (v *inverter) not(id ast.NodeID) ast.NodeID {
	if ast.Precedence(v.c.node(id)) < 0 {
		return v.b.NewPrefix(ast.OpNot, v.copy(id))
	}
	return v.b.NewPrefix(ast.OpNot, v.b.NewParen(v.copy(id)))
}

// needsParentheses reports whether expr must be parenthesized to become an
// operand of a conditional && or || chain. Instanceof tests are wrapped as
// well so the joined condition reads unambiguously.
func needsParentheses(t *ast.Tree, expr ast.NodeID, op ast.Operator) bool {
	n := t.Node(expr)
	switch n.Kind {
	case ast.KindInfix:
		return ast.InfixPrecedence(n.Op) > ast.InfixPrecedence(op)
	case ast.KindConditional, ast.KindAssignment, ast.KindInstanceof, ast.KindLambda:
		return true
	}
	return false
}

// operand copies expr for use in a chain joined by op, adding parentheses
// when needed.
func operand(t *ast.Tree, b *rewrite.Builder, expr ast.NodeID, op ast.Operator) ast.NodeID {
	if needsParentheses(t, expr, op) {
		return b.NewParen(b.CopyTarget(expr))
	}
	return b.CopyTarget(expr)
}

// condition copies the operands of one side of a split chain. A single
// operand loses its now superfluous parentheses.
func condition(t *ast.Tree, b *rewrite.Builder, op ast.Operator, operands []ast.NodeID) ast.NodeID {
	if len(operands) == 1 {
		return b.CopyTarget(ast.Unparenthesize(t, operands[0]))
	}
	copies := make([]ast.NodeID, len(operands))
	for i, o := range operands {
		copies[i] = b.CopyTarget(o)
	}
	return b.NewInfix(op, copies...)
}

// operatorAt finds the chain of op enclosing the caret and the index of
// the operand that follows the operator the caret is on.
func (c *Context) operatorAt(ops ...ast.Operator) (root ast.NodeID, operands []ast.NodeID, index int) {
	for cur := c.covering; cur != ast.NoNode; cur = c.Tree.Parent(cur) {
		n := c.node(cur)
		if !n.Kind.IsExpression() {
			break
		}
		if n.Kind != ast.KindInfix || !hasOperator(n.Op, ops) {
			continue
		}
		root = ast.ChainRoot(c.Tree, cur)
		operands = ast.Operands(c.Tree, root)
		for i := 1; i < len(operands); i++ {
			before, after := c.node(operands[i-1]), c.node(operands[i])
			if c.Offset >= before.End && c.Offset+c.Length <= after.Start {
				return root, operands, i
			}
		}
	}
	return ast.NoNode, nil, -1
}

func hasOperator(op ast.Operator, ops []ast.Operator) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

// singleStatement unwraps a block holding exactly one statement.
func (c *Context) singleStatement(id ast.NodeID) ast.NodeID {
	if c.kind(id) != ast.KindBlock {
		return id
	}
	stmts := c.Tree.ChildList(id, ast.PropStatements)
	if len(stmts) != 1 {
		return ast.NoNode
	}
	return stmts[0]
}

// statements returns the statements of a block, or the statement itself.
func (c *Context) statements(id ast.NodeID) []ast.NodeID {
	if c.kind(id) == ast.KindBlock {
		return c.Tree.ChildList(id, ast.PropStatements)
	}
	return []ast.NodeID{id}
}

// outerIf returns the if statement whose only then-statement is stmt.
func (c *Context) outerIf(stmt ast.NodeID) ast.NodeID {
	parent := c.Tree.Parent(stmt)
	if c.kind(parent) == ast.KindBlock {
		if len(c.Tree.ChildList(parent, ast.PropStatements)) != 1 {
			return ast.NoNode
		}
		stmt, parent = parent, c.Tree.Parent(parent)
	}
	if c.kind(parent) != ast.KindIfStmt || c.node(stmt).Loc != ast.PropThenStatement {
		return ast.NoNode
	}
	return parent
}

// innerIf returns the if statement that is the only then-statement of stmt.
func (c *Context) innerIf(stmt ast.NodeID) ast.NodeID {
	inner := c.singleStatement(c.child(stmt, ast.PropThenStatement))
	if c.kind(inner) != ast.KindIfStmt {
		return ast.NoNode
	}
	return inner
}

func (c *Context) hasElse(stmt ast.NodeID) bool {
	return c.child(stmt, ast.PropElseStatement) != ast.NoNode
}
