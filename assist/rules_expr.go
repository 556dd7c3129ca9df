package assist

import (
	"fmt"

	"github.com/dhamidi/jassist/format"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

// coveringExpression walks up from the covering node through expressions
// and returns the first one of the given kinds.
func (c *Context) coveringExpression(kinds ...ast.Kind) ast.NodeID {
	for cur := c.covering; cur != ast.NoNode && c.kind(cur).IsExpression(); cur = c.Tree.Parent(cur) {
		for _, want := range kinds {
			if c.kind(cur) == want {
				return cur
			}
		}
	}
	return ast.NoNode
}

// booleanExpression returns the boolean expression a covered node stands
// for, widened over enclosing parentheses, when it sits where a condition
// may be negated.
func (c *Context) booleanExpression(id ast.NodeID) ast.NodeID {
	if !c.kind(id).IsExpression() {
		return ast.NoNode
	}
	for c.kind(c.Tree.Parent(id)) == ast.KindParen {
		id = c.Tree.Parent(id)
	}
	if !c.isBoolean(id) {
		return ast.NoNode
	}
	n := c.node(id)
	switch c.kind(n.Parent) {
	case ast.KindInfix:
		return id
	case ast.KindIfStmt, ast.KindWhileStmt, ast.KindDoStmt, ast.KindForStmt,
		ast.KindReturnStmt, ast.KindAssertStmt, ast.KindConditional:
		if n.Loc == ast.PropExpression {
			return id
		}
	case ast.KindAssignment:
		if n.Loc == ast.PropRightHandSide {
			return id
		}
	case ast.KindMethodCall, ast.KindNew:
		if n.Loc == ast.PropArguments {
			return id
		}
	case ast.KindVarFragment:
		if n.Loc == ast.PropInitializer {
			return id
		}
	}
	return ast.NoNode
}

// inverseConditions negates every selected condition.
func inverseConditions(c *Context) []*proposal.Proposal {
	var exprs []ast.NodeID
	for _, id := range c.covered {
		if e := c.booleanExpression(id); e != ast.NoNode {
			exprs = append(exprs, e)
		}
	}
	if len(exprs) == 0 {
		return nil
	}
	return one(c.propose("Invert conditions", proposal.RelevanceInverseConditions, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		v := newInverter(c, b)
		for _, e := range exprs {
			b.Replace(e, v.invert(e))
		}
	}))
}

// stringConcatenation reports whether parent is a + that concatenates
// strings.
func (c *Context) stringConcatenation(parent ast.NodeID) bool {
	n := c.node(parent)
	if n == nil || n.Kind != ast.KindInfix || n.Op != ast.OpPlus {
		return false
	}
	return c.Resolver.TypeOf(parent).IsString() ||
		c.Resolver.TypeOf(n.Child(ast.PropLeftOperand)).IsString() ||
		c.Resolver.TypeOf(n.Child(ast.PropRightOperand)).IsString()
}

// removeExtraParentheses strips parentheses the surrounding operator does
// not need. Stacked parentheses that are needed collapse to one pair.
func removeExtraParentheses(c *Context) []*proposal.Proposal {
	var parens []ast.NodeID
	if c.Length == 0 {
		p := c.coveringExpression(ast.KindParen)
		for p != ast.NoNode && c.kind(c.Tree.Parent(p)) == ast.KindParen {
			p = c.Tree.Parent(p)
		}
		if p != ast.NoNode {
			parens = append(parens, p)
		}
	} else {
		for _, id := range c.covered {
			ast.Inspect(c.Tree, id, func(n ast.NodeID) bool {
				if c.kind(n) == ast.KindParen && c.kind(c.Tree.Parent(n)) != ast.KindParen {
					parens = append(parens, n)
				}
				return true
			})
		}
	}

	type strip struct {
		paren, inner ast.NodeID
		keep         bool
	}
	var strips []strip
	for _, p := range parens {
		n := c.node(p)
		inner := ast.Unparenthesize(c.Tree, p)
		if !format.NeedsParentheses(c.node(n.Parent), n.Loc, c.node(inner)) && !c.stringConcatenation(n.Parent) {
			strips = append(strips, strip{paren: p, inner: inner})
		} else if c.kind(n.Child(ast.PropExpression)) == ast.KindParen {
			strips = append(strips, strip{paren: p, inner: inner, keep: true})
		}
	}
	if len(strips) == 0 {
		return nil
	}
	return one(c.propose("Remove extra parentheses", proposal.RelevanceRemoveExtraParentheses, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		for _, s := range strips {
			repl := b.CopyTarget(s.inner)
			if s.keep {
				repl = b.NewParen(repl)
			}
			b.Replace(s.paren, repl)
		}
	}))
}

// paranoiac reports whether id is an operand of && or || that reads more
// clearly in parentheses.
func (c *Context) paranoiac(id ast.NodeID) bool {
	n := c.node(id)
	parent := c.node(n.Parent)
	if parent == nil || parent.Kind != ast.KindInfix {
		return false
	}
	if parent.Op != ast.OpConditionalAnd && parent.Op != ast.OpConditionalOr {
		return false
	}
	switch n.Kind {
	case ast.KindInstanceof:
		return true
	case ast.KindInfix:
		if n.Op.IsRelational() || n.Op.IsEquality() {
			return true
		}
		return n.Op == ast.OpConditionalAnd && parent.Op == ast.OpConditionalOr
	}
	return false
}

// addParanoiacParentheses parenthesizes comparisons inside && and ||
// chains, and && chains inside ||.
func addParanoiacParentheses(c *Context) []*proposal.Proposal {
	roots := c.covered
	if len(roots) == 0 {
		if cov := c.coveringExpression(ast.KindInfix); cov != ast.NoNode {
			roots = []ast.NodeID{cov}
		}
	}
	var targets []ast.NodeID
	for _, root := range roots {
		ast.Inspect(c.Tree, root, func(id ast.NodeID) bool {
			if c.kind(id).IsExpression() && c.paranoiac(id) {
				targets = append(targets, id)
			}
			return true
		})
	}
	if len(targets) == 0 {
		return nil
	}
	return one(c.propose("Add parentheses for all conditions", proposal.RelevanceAddParanoidalParentheses, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		for _, id := range targets {
			b.Replace(id, b.NewParen(b.CopyTarget(id)))
		}
	}))
}

// addParentheses puts the operation under the caret, or the selected one,
// in parentheses.
func addParentheses(c *Context) []*proposal.Proposal {
	kinds := []ast.Kind{ast.KindCast, ast.KindInfix, ast.KindInstanceof, ast.KindConditional}
	target := ast.NoNode
	switch {
	case c.Length == 0:
		target = c.coveringExpression(kinds...)
	case len(c.covered) == 1:
		for _, k := range kinds {
			if c.kind(c.covered[0]) == k {
				target = c.covered[0]
			}
		}
	}
	if target == ast.NoNode || c.kind(c.Tree.Parent(target)) == ast.KindParen {
		return nil
	}
	var label string
	image := proposal.ImageChange
	switch n := c.node(target); n.Kind {
	case ast.KindCast:
		label = "Put cast expression in parentheses"
		image = proposal.ImageCast
	case ast.KindInstanceof:
		label = "Put 'instanceof' expression in parentheses"
	case ast.KindConditional:
		label = "Put conditional expression in parentheses"
	default:
		label = fmt.Sprintf("Put '%s' expression in parentheses", n.Op)
	}
	return one(c.propose(label, proposal.RelevanceAddParentheses, image, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Replace(target, b.NewParen(b.CopyTarget(target)))
	}))
}

// inverseConditionalExpression negates the condition of `c ? a : b` and
// swaps its branches.
func inverseConditionalExpression(c *Context) []*proposal.Proposal {
	cond := c.coveringExpression(ast.KindConditional)
	if cond == ast.NoNode {
		return nil
	}
	return one(c.propose("Invert conditional expression", proposal.RelevanceInverseConditionalExpression, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Replace(cond, b.NewConditional(
			newInverter(c, b).invert(c.child(cond, ast.PropExpression)),
			b.CopyTarget(c.child(cond, ast.PropElseExpression)),
			b.CopyTarget(c.child(cond, ast.PropThenExpression))))
	}))
}

// exchangeable holds the operators whose operands can be exchanged without
// changing the operator.
var exchangeable = []ast.Operator{
	ast.OpConditionalAnd,
	ast.OpAnd,
	ast.OpConditionalOr,
	ast.OpOr,
	ast.OpEquals,
	ast.OpPlus,
	ast.OpTimes,
	ast.OpXor,
}

// exchangeOperands swaps the operands on both sides of the operator under
// the caret. A + is only exchanged between numbers. Operands of an
// associative operator stay flat, so `a * b * c` at the second * becomes
// `c * a * b` for integral operands.
func exchangeOperands(c *Context) []*proposal.Proposal {
	root, operands, index := c.operatorAt(exchangeable...)
	if root == ast.NoNode {
		return nil
	}
	op := c.node(root).Op
	if op == ast.OpPlus {
		for _, o := range operands {
			if !c.Resolver.TypeOf(o).IsNumeric() {
				return nil
			}
		}
	}
	flat := op.IsAssociative()
	if op.IsIntegralAssociative() {
		flat = true
		for _, o := range operands {
			if !c.Resolver.TypeOf(o).IsIntegral() {
				flat = false
			}
		}
	}
	label := fmt.Sprintf("Exchange left and right operands for '%s'", op)
	return one(c.propose(label, proposal.RelevanceExchangeOperands, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		if !flat {
			// only the operator under the caret is exchanged
			target := c.Tree.Parent(operands[index])
			b.Replace(target, b.NewInfix(op,
				b.CopyTarget(operands[index]),
				b.CopyTarget(c.child(target, ast.PropLeftOperand))))
			return
		}
		ids := append(append([]ast.NodeID(nil), operands[index:]...), operands[:index]...)
		copies := make([]ast.NodeID, len(ids))
		for i, id := range ids {
			copies[i] = b.CopyTarget(id)
		}
		b.Replace(root, b.NewInfix(op, copies...))
	}))
}

// pushNegationDown rewrites `!(a && b)` into `!a || !b`.
func pushNegationDown(c *Context) []*proposal.Proposal {
	prefix := c.covering
	if c.kind(prefix) == ast.KindParen {
		prefix = c.Tree.Parent(prefix)
	}
	if n := c.node(prefix); n == nil || n.Kind != ast.KindPrefix || n.Op != ast.OpNot {
		return nil
	}
	operand := c.child(prefix, ast.PropOperand)
	if c.kind(operand) != ast.KindParen {
		return nil
	}
	inner := ast.Unparenthesize(c.Tree, operand)
	switch n := c.node(inner); n.Kind {
	case ast.KindInfix:
		if !c.isBoolean(inner) {
			return nil
		}
	case ast.KindConditional:
	case ast.KindPrefix:
		if n.Op != ast.OpNot {
			return nil
		}
	default:
		return nil
	}
	return one(c.propose("Push negation down", proposal.RelevancePushNegationDown, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Replace(prefix, newInverter(c, b).invert(inner))
	}))
}

// pullNegationUp rewrites a selected `a && b` into `!(!a || !b)`.
func pullNegationUp(c *Context) []*proposal.Proposal {
	if len(c.covered) != 1 {
		return nil
	}
	expr := c.covered[0]
	switch c.kind(expr) {
	case ast.KindInfix, ast.KindConditional:
	default:
		return nil
	}
	if !c.isBoolean(expr) {
		return nil
	}
	return one(c.propose("Pull negation up", proposal.RelevancePullNegationUp, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Replace(expr, b.NewPrefix(ast.OpNot, b.NewParen(newInverter(c, b).invert(expr))))
	}))
}
