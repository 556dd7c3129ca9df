package rewrite

import (
	"strconv"

	"github.com/dhamidi/jassist/java/ast"
)

// NewInfix builds a left-nested chain joining operands with op. A single
// operand is returned unchanged.
func (b *Builder) NewInfix(op ast.Operator, operands ...ast.NodeID) ast.NodeID {
	if len(operands) == 0 {
		b.fail("new infix", ast.NoNode, "no operands")
		return ast.NoNode
	}
	left := operands[0]
	for _, right := range operands[1:] {
		id := b.add(ast.Node{Kind: ast.KindInfix, Op: op})
		b.link("new infix", id, ast.PropLeftOperand, left, 0)
		b.link("new infix", id, ast.PropRightOperand, right, 0)
		left = id
	}
	return left
}

func (b *Builder) NewPrefix(op ast.Operator, operand ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindPrefix, Op: op})
	b.link("new prefix", id, ast.PropOperand, operand, 0)
	return id
}

func (b *Builder) NewParen(expr ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindParen})
	b.link("new paren", id, ast.PropExpression, expr, 0)
	return id
}

func (b *Builder) NewConditional(cond, then, els ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindConditional})
	b.link("new conditional", id, ast.PropExpression, cond, 0)
	b.link("new conditional", id, ast.PropThenExpression, then, 0)
	b.link("new conditional", id, ast.PropElseExpression, els, 0)
	return id
}

func (b *Builder) NewAssignment(op ast.Operator, lhs, rhs ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindAssignment, Op: op})
	b.link("new assignment", id, ast.PropLeftHandSide, lhs, 0)
	b.link("new assignment", id, ast.PropRightHandSide, rhs, 0)
	return id
}

func (b *Builder) NewCast(typ, expr ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindCast})
	b.link("new cast", id, ast.PropType, typ, 0)
	b.link("new cast", id, ast.PropExpression, expr, 0)
	return id
}

// NewMethodCall builds recv.name(args). recv may be NoNode.
func (b *Builder) NewMethodCall(recv ast.NodeID, name string, args ...ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindMethodCall})
	b.link("new call", id, ast.PropExpression, recv, 0)
	b.link("new call", id, ast.PropName, b.NewName(name), 0)
	for i, arg := range args {
		b.link("new call", id, ast.PropArguments, arg, i)
	}
	return id
}

// NewIf builds an if statement. els may be NoNode. A then-statement that
// would capture els is wrapped in a block.
func (b *Builder) NewIf(cond, then, els ast.NodeID) ast.NodeID {
	if els != ast.NoNode && then != ast.NoNode && b.opensElse(then) {
		then = b.NewBlock(then)
	}
	id := b.add(ast.Node{Kind: ast.KindIfStmt})
	b.link("new if", id, ast.PropExpression, cond, 0)
	b.link("new if", id, ast.PropThenStatement, then, 0)
	b.link("new if", id, ast.PropElseStatement, els, 0)
	return id
}

func (b *Builder) NewBlock(stmts ...ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindBlock})
	for i, s := range stmts {
		b.link("new block", id, ast.PropStatements, s, i)
	}
	return id
}

// NewReturn builds a return statement. expr may be NoNode.
func (b *Builder) NewReturn(expr ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindReturnStmt})
	b.link("new return", id, ast.PropExpression, expr, 0)
	return id
}

func (b *Builder) NewExprStmt(expr ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindExprStmt})
	b.link("new statement", id, ast.PropExpression, expr, 0)
	return id
}

func (b *Builder) NewContinue() ast.NodeID {
	return b.add(ast.Node{Kind: ast.KindContinueStmt})
}

// NewLocalVar builds `typ name = init;`. init may be NoNode.
func (b *Builder) NewLocalVar(typ ast.NodeID, name string, init ast.NodeID) ast.NodeID {
	id := b.add(ast.Node{Kind: ast.KindLocalVarDecl})
	b.link("new variable", id, ast.PropType, typ, 0)
	frag := b.add(ast.Node{Kind: ast.KindVarFragment})
	b.link("new variable", frag, ast.PropName, b.NewName(name), 0)
	b.link("new variable", frag, ast.PropInitializer, init, 0)
	b.link("new variable", id, ast.PropFragments, frag, 0)
	return id
}

// VarName returns the name node of the first fragment of a declaration
// built by NewLocalVar.
func (b *Builder) VarName(decl ast.NodeID) ast.NodeID {
	n := b.Node(decl)
	if n == nil {
		return ast.NoNode
	}
	frags := n.ChildList(ast.PropFragments)
	if len(frags) == 0 {
		return ast.NoNode
	}
	return b.Node(frags[0]).Child(ast.PropName)
}

func (b *Builder) NewName(name string) ast.NodeID {
	return b.add(ast.Node{Kind: ast.KindName, Text: name})
}

// NewSimpleType builds a type from its spelling, which may include type
// arguments and array dimensions.
func (b *Builder) NewSimpleType(name string) ast.NodeID {
	return b.add(ast.Node{Kind: ast.KindSimpleType, Text: name})
}

// NewStringLiteral builds a string literal around content, which must
// already be escaped as in Java source.
func (b *Builder) NewStringLiteral(content string) ast.NodeID {
	return b.add(ast.Node{Kind: ast.KindStringLiteral, Text: `"` + content + `"`})
}

func (b *Builder) NewBooleanLiteral(v bool) ast.NodeID {
	return b.add(ast.Node{Kind: ast.KindBooleanLiteral, Text: strconv.FormatBool(v)})
}
