package format

import (
	"github.com/dhamidi/jassist/java/ast"
)

func (p *Printer) printStatement(n *ast.Node) {
	switch n.Kind {
	case ast.KindBlock:
		p.printBlock(n)
	case ast.KindLocalVarDecl:
		p.printLocalVarDecl(n)
		p.write(";")
	case ast.KindExprStmt:
		p.printNode(n.Child(ast.PropExpression))
		p.write(";")
	case ast.KindReturnStmt:
		p.printKeywordExpr("return", n)
	case ast.KindThrowStmt:
		p.printKeywordExpr("throw", n)
	case ast.KindYieldStmt:
		p.printKeywordExpr("yield", n)
	case ast.KindBreakStmt:
		p.printJump("break", n)
	case ast.KindContinueStmt:
		p.printJump("continue", n)
	case ast.KindEmptyStmt:
		p.write(";")
	case ast.KindIfStmt:
		p.printIfStmt(n)
	case ast.KindWhileStmt:
		p.write("while (")
		p.printNode(n.Child(ast.PropExpression))
		p.write(") ")
		p.printBody(n.Child(ast.PropBody))
	case ast.KindDoStmt:
		p.write("do ")
		p.printBody(n.Child(ast.PropBody))
		if p.isBlock(n.Child(ast.PropBody)) {
			p.write(" ")
		} else {
			p.newline()
		}
		p.write("while (")
		p.printNode(n.Child(ast.PropExpression))
		p.write(");")
	case ast.KindForStmt:
		p.printForStmt(n)
	case ast.KindEnhancedForStmt:
		p.write("for (")
		p.printParameter(p.node(n.Child(ast.PropParameter)))
		p.write(" : ")
		p.printNode(n.Child(ast.PropExpression))
		p.write(") ")
		p.printBody(n.Child(ast.PropBody))
	case ast.KindSynchronizedStmt:
		p.write("synchronized (")
		p.printNode(n.Child(ast.PropExpression))
		p.write(") ")
		p.printNode(n.Child(ast.PropBody))
	case ast.KindLabeledStmt:
		p.printNode(n.Child(ast.PropLabel))
		p.write(": ")
		p.printNode(n.Child(ast.PropBody))
	case ast.KindAssertStmt:
		p.write("assert ")
		p.printNode(n.Child(ast.PropExpression))
		if msg := n.Child(ast.PropMessage); msg != ast.NoNode {
			p.write(" : ")
			p.printNode(msg)
		}
		p.write(";")
	default:
		p.printFallback(n)
	}
}

func (p *Printer) printBlock(n *ast.Node) {
	p.write("{")
	p.indent++
	for _, stmt := range n.ChildList(ast.PropStatements) {
		p.newline()
		p.printNode(stmt)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *Printer) isBlock(id ast.NodeID) bool {
	n := p.resolved(id)
	return n != nil && n.Kind == ast.KindBlock
}

// printBody prints a loop or branch body. Blocks stay on the current line,
// other statements go on the next line one level deeper.
func (p *Printer) printBody(id ast.NodeID) {
	if p.isBlock(id) {
		p.printNode(id)
		return
	}
	p.indent++
	p.newline()
	p.printNode(id)
	p.indent--
}

// printIfStmt keeps a non-block then-statement on the if line. An else
// following such a statement starts a new line.
func (p *Printer) printIfStmt(n *ast.Node) {
	p.write("if (")
	p.printNode(n.Child(ast.PropExpression))
	p.write(") ")
	then := n.Child(ast.PropThenStatement)
	p.printNode(then)

	els := n.Child(ast.PropElseStatement)
	if els == ast.NoNode {
		return
	}
	if p.isBlock(then) {
		p.write(" else ")
	} else {
		p.newline()
		p.write("else ")
	}
	p.printNode(els)
}

func (p *Printer) printKeywordExpr(keyword string, n *ast.Node) {
	p.write(keyword)
	if e := n.Child(ast.PropExpression); e != ast.NoNode {
		p.write(" ")
		p.printNode(e)
	}
	p.write(";")
}

func (p *Printer) printJump(keyword string, n *ast.Node) {
	p.write(keyword)
	if label := n.Child(ast.PropLabel); label != ast.NoNode {
		p.write(" ")
		p.printNode(label)
	}
	p.write(";")
}

func (p *Printer) printForStmt(n *ast.Node) {
	p.write("for (")
	for i, init := range n.ChildList(ast.PropInitializers) {
		if i > 0 {
			p.write(", ")
		}
		if in := p.node(init); in != nil && in.Kind == ast.KindLocalVarDecl {
			p.printLocalVarDecl(in)
		} else {
			p.printNode(init)
		}
	}
	p.write(";")
	if cond := n.Child(ast.PropExpression); cond != ast.NoNode {
		p.write(" ")
		p.printNode(cond)
	}
	p.write(";")
	for i, upd := range n.ChildList(ast.PropUpdaters) {
		if i == 0 {
			p.write(" ")
		} else {
			p.write(", ")
		}
		p.printNode(upd)
	}
	p.write(") ")
	p.printBody(n.Child(ast.PropBody))
}

// printLocalVarDecl prints a declaration without its terminating semicolon
// so it can be reused in for-initializers and try resources.
func (p *Printer) printLocalVarDecl(n *ast.Node) {
	p.printModifiers(n)
	p.printNode(n.Child(ast.PropType))
	p.write(" ")
	for i, frag := range n.ChildList(ast.PropFragments) {
		if i > 0 {
			p.write(", ")
		}
		p.printNode(frag)
	}
}

func (p *Printer) printModifiers(n *ast.Node) {
	for _, m := range n.ChildList(ast.PropModifiers) {
		p.printNode(m)
		p.write(" ")
	}
}

func (p *Printer) printParameter(n *ast.Node) {
	if n == nil {
		return
	}
	p.printModifiers(n)
	if typ := n.Child(ast.PropType); typ != ast.NoNode {
		p.printNode(typ)
		if n.Text == "..." {
			p.write("...")
		}
		p.write(" ")
	}
	p.printNode(n.Child(ast.PropName))
}

// printFallback handles kinds a rewrite never synthesizes. Their text is
// taken from the node itself.
func (p *Printer) printFallback(n *ast.Node) {
	switch n.Kind {
	case ast.KindModifier:
		p.write(n.Text)
	case ast.KindParameter:
		p.printParameter(n)
	case ast.KindVarFragment:
		p.printNode(n.Child(ast.PropName))
		p.write(n.Text)
		if init := n.Child(ast.PropInitializer); init != ast.NoNode {
			p.write(" = ")
			p.printNode(init)
		}
	default:
		p.writeVerbatim(n.Text)
	}
}
