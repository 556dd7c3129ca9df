package assist

import (
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

// returnsValue reports whether stmt returns a value from a method that
// declares a non-void result.
func (c *Context) returnsValue(stmt ast.NodeID) bool {
	if c.kind(stmt) != ast.KindReturnStmt || c.child(stmt, ast.PropExpression) == ast.NoNode {
		return false
	}
	method := c.Resolver.EnclosingBody(stmt)
	if c.kind(method) != ast.KindMethodDecl || c.child(method, ast.PropReturnType) == ast.NoNode {
		return false
	}
	return c.Resolver.ReturnType(method).Name != "void"
}

// assignment returns the assignment expression of an expression statement.
func (c *Context) assignment(stmt ast.NodeID) ast.NodeID {
	if c.kind(stmt) != ast.KindExprStmt {
		return ast.NoNode
	}
	expr := c.child(stmt, ast.PropExpression)
	if c.kind(expr) != ast.KindAssignment {
		return ast.NoNode
	}
	return expr
}

// replaceIfElseWithConditional folds an if-else whose branches both return
// or both assign the same variable into one conditional expression.
func replaceIfElseWithConditional(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || !c.hasElse(ifStmt) {
		return nil
	}
	then := c.singleStatement(c.child(ifStmt, ast.PropThenStatement))
	els := c.singleStatement(c.child(ifStmt, ast.PropElseStatement))
	if then == ast.NoNode || els == ast.NoNode {
		return nil
	}
	cond := c.child(ifStmt, ast.PropExpression)

	if c.returnsValue(then) && c.returnsValue(els) {
		return one(c.propose("Replace 'if-else' with conditional", proposal.RelevanceReplaceIfElseWithConditional, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
			b.Replace(ifStmt, b.NewReturn(b.NewConditional(
				b.CopyTarget(cond),
				b.CopyTarget(c.child(then, ast.PropExpression)),
				b.CopyTarget(c.child(els, ast.PropExpression)))))
		}))
	}

	thenAsg, elseAsg := c.assignment(then), c.assignment(els)
	if thenAsg == ast.NoNode || elseAsg == ast.NoNode || c.node(thenAsg).Op != c.node(elseAsg).Op {
		return nil
	}
	lhs := c.child(thenAsg, ast.PropLeftHandSide)
	if c.text(lhs) != c.text(c.child(elseAsg, ast.PropLeftHandSide)) {
		return nil
	}
	return one(c.propose("Replace 'if-else' with conditional", proposal.RelevanceReplaceIfElseWithConditional, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		value := b.NewConditional(
			b.CopyTarget(cond),
			b.CopyTarget(c.child(thenAsg, ast.PropRightHandSide)),
			b.CopyTarget(c.child(elseAsg, ast.PropRightHandSide)))
		b.Replace(ifStmt, b.NewExprStmt(b.NewAssignment(c.node(thenAsg).Op, b.CopyTarget(lhs), value)))
	}))
}

// replaceConditionalWithIfElse expands a conditional that is assigned,
// returned or used to initialize a local into an if-else statement.
func replaceConditionalWithIfElse(c *Context) []*proposal.Proposal {
	cond := c.coveringExpression(ast.KindConditional)
	if cond == ast.NoNode {
		return nil
	}
	top := cond
	for c.kind(c.Tree.Parent(top)) == ast.KindParen {
		top = c.Tree.Parent(top)
	}
	parent := c.Tree.Parent(top)
	loc := c.node(top).Loc
	condExpr := c.child(cond, ast.PropExpression)
	thenExpr := c.child(cond, ast.PropThenExpression)
	elseExpr := c.child(cond, ast.PropElseExpression)
	const label = "Replace conditional with 'if-else'"

	switch {
	case c.kind(parent) == ast.KindAssignment && loc == ast.PropRightHandSide && c.kind(c.Tree.Parent(parent)) == ast.KindExprStmt:
		stmt := c.Tree.Parent(parent)
		op := c.node(parent).Op
		lhs := c.child(parent, ast.PropLeftHandSide)
		return one(c.propose(label, proposal.RelevanceReplaceConditionalWithIfElse, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
			branch := func(value ast.NodeID) ast.NodeID {
				return b.NewBlock(b.NewExprStmt(b.NewAssignment(op, b.CopyTarget(lhs), b.CopyTarget(value))))
			}
			b.Replace(stmt, b.NewIf(b.CopyTarget(condExpr), branch(thenExpr), branch(elseExpr)))
		}))

	case c.kind(parent) == ast.KindReturnStmt && loc == ast.PropExpression:
		elseValue := thenExpr
		if c.config.Compat.ConditionalReturnElseBranch {
			elseValue = elseExpr
		}
		return one(c.propose(label, proposal.RelevanceReplaceConditionalWithIfElse, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
			b.Replace(parent, b.NewIf(b.CopyTarget(condExpr),
				b.NewBlock(b.NewReturn(b.CopyTarget(thenExpr))),
				b.NewBlock(b.NewReturn(b.CopyTarget(elseValue)))))
		}))

	case c.kind(parent) == ast.KindVarFragment && loc == ast.PropInitializer:
		decl := c.Tree.Parent(parent)
		if c.kind(decl) != ast.KindLocalVarDecl || len(c.Tree.ChildList(decl, ast.PropFragments)) != 1 {
			return nil
		}
		if c.text(c.child(decl, ast.PropType)) == "var" {
			// `var x;` does not compile
			return nil
		}
		block := c.Tree.Parent(decl)
		_, index, ok := ast.Siblings(c.Tree, decl)
		if c.kind(block) != ast.KindBlock || !ok {
			return nil
		}
		name := c.text(c.child(parent, ast.PropName))
		return one(c.propose(label, proposal.RelevanceReplaceConditionalWithIfElse, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
			branch := func(value ast.NodeID) ast.NodeID {
				return b.NewBlock(b.NewExprStmt(b.NewAssignment(ast.OpAssign, b.NewName(name), b.CopyTarget(value))))
			}
			b.Remove(top)
			b.InsertAt(block, ast.PropStatements, b.NewIf(b.CopyTarget(condExpr), branch(thenExpr), branch(elseExpr)), index+1)
		}))
	}
	return nil
}
