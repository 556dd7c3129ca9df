package assist

import (
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

// inverseIf negates the condition of an if-else and swaps its branches.
func inverseIf(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || !c.hasElse(ifStmt) {
		return nil
	}
	return one(c.propose("Invert 'if' statement", proposal.RelevanceInverseIf, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		then := c.child(ifStmt, ast.PropThenStatement)
		els := c.child(ifStmt, ast.PropElseStatement)
		cond := newInverter(c, b).invert(c.child(ifStmt, ast.PropExpression))

		newThen := b.MoveTarget(els)
		if c.kind(els) == ast.KindIfStmt {
			// an else-if cannot stay unbraced in the then position
			newThen = b.NewBlock(newThen)
		}
		b.Replace(ifStmt, b.NewIf(cond, newThen, b.MoveTarget(then)))
	}))
}

// ifReturnIntoIfElse turns `if (c) { ...; return; } rest` at the end of a
// void method into `if (c) { ... } else { rest }`.
func ifReturnIntoIfElse(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || c.hasElse(ifStmt) {
		return nil
	}
	then := c.child(ifStmt, ast.PropThenStatement)
	if c.kind(then) != ast.KindBlock {
		return nil
	}
	thenStmts := c.Tree.ChildList(then, ast.PropStatements)
	if len(thenStmts) == 0 {
		return nil
	}
	last := thenStmts[len(thenStmts)-1]
	if c.kind(last) != ast.KindReturnStmt || c.child(last, ast.PropExpression) != ast.NoNode {
		return nil
	}
	body := c.Tree.Parent(ifStmt)
	method := c.Tree.Parent(body)
	if c.kind(body) != ast.KindBlock || c.kind(method) != ast.KindMethodDecl || c.node(body).Loc != ast.PropBody {
		return nil
	}
	if c.Resolver.ReturnType(method).Name != "void" {
		return nil
	}
	list, index, ok := ast.Siblings(c.Tree, ifStmt)
	if !ok || index == len(list)-1 {
		return nil
	}
	following := list[index+1:]

	return one(c.propose("Convert to 'if-else'", proposal.RelevanceConvertToIfElse, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Remove(last)
		moved := make([]ast.NodeID, len(following))
		for i, s := range following {
			moved[i] = b.MoveTarget(s)
		}
		b.Set(ifStmt, ast.PropElseStatement, b.NewBlock(moved...))
	}))
}

// loopBody returns the loop whose body is block, or NoNode.
func (c *Context) loopBody(block ast.NodeID) ast.NodeID {
	loop := c.Tree.Parent(block)
	if !c.kind(loop).IsLoop() || c.node(block).Loc != ast.PropBody {
		return ast.NoNode
	}
	return loop
}

// inverseIfContinue turns `if (c) continue; rest` inside a loop body into
// `if (!c) { rest }`.
func inverseIfContinue(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || c.hasElse(ifStmt) {
		return nil
	}
	jump := c.singleStatement(c.child(ifStmt, ast.PropThenStatement))
	if c.kind(jump) != ast.KindContinueStmt || c.child(jump, ast.PropLabel) != ast.NoNode {
		return nil
	}
	block := c.Tree.Parent(ifStmt)
	if c.kind(block) != ast.KindBlock || c.loopBody(block) == ast.NoNode {
		return nil
	}
	list, index, ok := ast.Siblings(c.Tree, ifStmt)
	if !ok || index == len(list)-1 {
		return nil
	}
	following := list[index+1:]

	return one(c.propose("Invert 'if-continue'", proposal.RelevanceInverseIfContinue, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		cond := newInverter(c, b).invert(c.child(ifStmt, ast.PropExpression))
		moved := make([]ast.NodeID, len(following))
		for i, s := range following {
			moved[i] = b.MoveTarget(s)
		}
		b.Replace(ifStmt, b.NewIf(cond, b.NewBlock(moved...), ast.NoNode))
	}))
}

// inverseIfToContinue turns an if that ends a loop body into a guard that
// continues the loop, hoisting the then-statements after it.
func inverseIfToContinue(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode || c.hasElse(ifStmt) {
		return nil
	}
	parent := c.Tree.Parent(ifStmt)
	inBlock := false
	switch {
	case c.kind(parent) == ast.KindBlock && c.loopBody(parent) != ast.NoNode:
		list, index, ok := ast.Siblings(c.Tree, ifStmt)
		if !ok || index != len(list)-1 {
			return nil
		}
		inBlock = true
	case c.kind(parent).IsLoop() && c.node(ifStmt).Loc == ast.PropBody:
	default:
		return nil
	}
	stmts := c.statements(c.child(ifStmt, ast.PropThenStatement))

	return one(c.propose("Invert 'if' and 'continue'", proposal.RelevanceInverseIfToContinue, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		guard := b.NewIf(newInverter(c, b).invert(c.child(ifStmt, ast.PropExpression)), b.NewContinue(), ast.NoNode)
		if inBlock {
			b.Replace(ifStmt, guard)
			for _, s := range stmts {
				b.InsertLast(parent, ast.PropStatements, b.MoveTarget(s))
			}
			return
		}
		block := []ast.NodeID{guard}
		for _, s := range stmts {
			block = append(block, b.CopyTarget(s))
		}
		b.Replace(ifStmt, b.NewBlock(block...))
	}))
}

// coveredIfs returns the covered nodes when there are at least two and all
// of them are sibling if statements without else.
func (c *Context) coveredIfs() []ast.NodeID {
	if len(c.covered) < 2 {
		return nil
	}
	parent, loc := c.Tree.Parent(c.covered[0]), c.node(c.covered[0]).Loc
	for _, id := range c.covered {
		if c.kind(id) != ast.KindIfStmt || c.hasElse(id) {
			return nil
		}
		if c.Tree.Parent(id) != parent || c.node(id).Loc != loc || !loc.IsList() {
			return nil
		}
	}
	return c.covered
}

// joinIfSequence chains a run of independent ifs into if-else-if.
func joinIfSequence(c *Context) []*proposal.Proposal {
	ifs := c.coveredIfs()
	if ifs == nil {
		return nil
	}
	return one(c.propose("Join 'if' sequence in 'if-else-if'", proposal.RelevanceJoinIfSequence, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		chain := ast.NoNode
		for i := len(ifs) - 1; i >= 0; i-- {
			chain = b.NewIf(
				b.CopyTarget(c.child(ifs[i], ast.PropExpression)),
				b.CopyTarget(c.child(ifs[i], ast.PropThenStatement)),
				chain)
		}
		b.Replace(ifs[0], chain)
		for _, id := range ifs[1:] {
			b.Remove(id)
		}
	}))
}
