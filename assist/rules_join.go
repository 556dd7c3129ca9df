package assist

import (
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

// joinIf merges an if with the if nested directly inside it, or with the if
// it is nested in, into one if whose condition is joined with &&.
func joinIf(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || c.hasElse(ifStmt) {
		return nil
	}
	var out []*proposal.Proposal
	if outer := c.outerIf(ifStmt); outer != ast.NoNode && !c.hasElse(outer) {
		out = append(out, c.joinedIf("Join with outer 'if'", proposal.RelevanceJoinIfWithOuterIf, outer, ifStmt))
	}
	if inner := c.innerIf(ifStmt); inner != ast.NoNode && !c.hasElse(inner) {
		out = append(out, c.joinedIf("Join with inner 'if'", proposal.RelevanceJoinIfWithInnerIf, ifStmt, inner))
	}
	return out
}

func (c *Context) joinedIf(label string, relevance int, outer, inner ast.NodeID) *proposal.Proposal {
	return c.propose(label, relevance, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		cond := b.NewInfix(ast.OpConditionalAnd,
			operand(c.Tree, b, c.child(outer, ast.PropExpression), ast.OpConditionalAnd),
			operand(c.Tree, b, c.child(inner, ast.PropExpression), ast.OpConditionalAnd))
		b.Replace(outer, b.NewIf(cond, b.CopyTarget(c.child(inner, ast.PropThenStatement)), ast.NoNode))
	})
}

// conditionOf returns the if statement whose condition is expr.
func (c *Context) conditionOf(expr ast.NodeID) ast.NodeID {
	parent := c.Tree.Parent(expr)
	if c.kind(parent) != ast.KindIfStmt || c.node(expr).Loc != ast.PropExpression {
		return ast.NoNode
	}
	return parent
}

// splitAndCondition splits `if (a && b) s` at the && under the caret into
// `if (a) { if (b) s }`.
func splitAndCondition(c *Context) []*proposal.Proposal {
	root, operands, index := c.operatorAt(ast.OpConditionalAnd)
	if root == ast.NoNode {
		return nil
	}
	ifStmt := c.conditionOf(root)
	if ifStmt == ast.NoNode || c.hasElse(ifStmt) {
		return nil
	}
	return one(c.propose("Split && condition", proposal.RelevanceSplitAndCondition, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		then := c.child(ifStmt, ast.PropThenStatement)
		b.Replace(root, condition(c.Tree, b, ast.OpConditionalAnd, operands[:index]))
		inner := b.NewIf(condition(c.Tree, b, ast.OpConditionalAnd, operands[index:]), b.CopyTarget(then), ast.NoNode)
		b.Replace(then, b.NewBlock(inner))
	}))
}

// joinOrIf merges selected sibling ifs with identical then-statements into
// one if whose condition is joined with ||. The then-statements must match
// character for character.
func joinOrIf(c *Context) []*proposal.Proposal {
	ifs := c.coveredIfs()
	if ifs == nil {
		return nil
	}
	body := c.text(c.child(ifs[0], ast.PropThenStatement))
	for _, id := range ifs[1:] {
		if c.text(c.child(id, ast.PropThenStatement)) != body {
			return nil
		}
	}
	return one(c.propose("Join 'if' statements with '||'", proposal.RelevanceJoinOrIf, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		ops := make([]ast.NodeID, len(ifs))
		for i, id := range ifs {
			ops[i] = operand(c.Tree, b, c.child(id, ast.PropExpression), ast.OpConditionalOr)
		}
		then := b.CopyTarget(c.child(ifs[0], ast.PropThenStatement))
		b.Replace(ifs[0], b.NewIf(b.NewInfix(ast.OpConditionalOr, ops...), then, ast.NoNode))
		for _, id := range ifs[1:] {
			b.Remove(id)
		}
	}))
}

// splitOrCondition splits `if (a || b) s` at the || under the caret into
// `if (a) s else if (b) s`.
func splitOrCondition(c *Context) []*proposal.Proposal {
	root, operands, index := c.operatorAt(ast.OpConditionalOr)
	if root == ast.NoNode {
		return nil
	}
	ifStmt := c.conditionOf(root)
	if ifStmt == ast.NoNode {
		return nil
	}
	return one(c.propose("Split || condition", proposal.RelevanceSplitOrCondition, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		then := c.child(ifStmt, ast.PropThenStatement)
		els := c.child(ifStmt, ast.PropElseStatement)
		b.Replace(root, condition(c.Tree, b, ast.OpConditionalOr, operands[:index]))
		right := condition(c.Tree, b, ast.OpConditionalOr, operands[index:])
		if els == ast.NoNode {
			b.Set(ifStmt, ast.PropElseStatement, b.NewIf(right, b.CopyTarget(then), ast.NoNode))
			return
		}
		b.Replace(els, b.NewIf(right, b.CopyTarget(then), b.CopyTarget(els)))
	}))
}

// exchangeInnerAndOuterIf swaps the conditions of two directly nested ifs.
func exchangeInnerAndOuterIf(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || c.hasElse(ifStmt) {
		return nil
	}
	inner := c.innerIf(ifStmt)
	if inner == ast.NoNode || c.hasElse(inner) {
		return nil
	}
	return one(c.propose("Exchange inner and outer 'if' conditions", proposal.RelevanceExchangeInnerAndOuterIf, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		outerCond := c.child(ifStmt, ast.PropExpression)
		innerCond := c.child(inner, ast.PropExpression)
		b.Replace(outerCond, b.CopyTarget(innerCond))
		b.Replace(innerCond, b.CopyTarget(outerCond))
	}))
}
