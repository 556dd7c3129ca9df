package format

import (
	"github.com/dhamidi/jassist/java/ast"
)

func (p *Printer) printExpr(n *ast.Node) {
	switch n.Kind {
	case ast.KindName, ast.KindThis, ast.KindSuper,
		ast.KindStringLiteral, ast.KindTextBlock, ast.KindCharLiteral,
		ast.KindNumberLiteral, ast.KindBooleanLiteral, ast.KindNullLiteral:
		p.writeVerbatim(n.Text)
	case ast.KindInfix:
		p.printOperand(n, ast.PropLeftOperand)
		p.write(" " + n.Op.String() + " ")
		p.printOperand(n, ast.PropRightOperand)
	case ast.KindPrefix:
		p.write(n.Op.String())
		p.printOperand(n, ast.PropOperand)
	case ast.KindPostfix:
		p.printOperand(n, ast.PropOperand)
		p.write(n.Op.String())
	case ast.KindAssignment:
		p.printOperand(n, ast.PropLeftHandSide)
		p.write(" " + n.Op.String() + " ")
		p.printOperand(n, ast.PropRightHandSide)
	case ast.KindConditional:
		p.printOperand(n, ast.PropExpression)
		p.write(" ? ")
		p.printOperand(n, ast.PropThenExpression)
		p.write(" : ")
		p.printOperand(n, ast.PropElseExpression)
	case ast.KindInstanceof:
		if n.Child(ast.PropLeftOperand) != ast.NoNode {
			p.printOperand(n, ast.PropLeftOperand)
			p.write(" instanceof ")
		}
		p.printNode(n.Child(ast.PropType))
		if name := n.Child(ast.PropName); name != ast.NoNode {
			p.write(" ")
			p.printNode(name)
		}
	case ast.KindCast:
		p.write("(")
		p.printNode(n.Child(ast.PropType))
		p.write(") ")
		p.printOperand(n, ast.PropExpression)
	case ast.KindParen:
		p.write("(")
		p.printNode(n.Child(ast.PropExpression))
		p.write(")")
	case ast.KindMethodCall:
		if recv := n.Child(ast.PropExpression); recv != ast.NoNode {
			p.printOperand(n, ast.PropExpression)
			p.write(".")
		}
		p.printNode(n.Child(ast.PropName))
		p.printArguments(n.ChildList(ast.PropArguments))
	case ast.KindFieldAccess:
		p.printOperand(n, ast.PropExpression)
		p.write(".")
		p.printNode(n.Child(ast.PropName))
	case ast.KindArrayAccess:
		p.printOperand(n, ast.PropExpression)
		p.write("[")
		p.printNode(n.Child(ast.PropIndex))
		p.write("]")
	case ast.KindNew:
		if outer := n.Child(ast.PropExpression); outer != ast.NoNode {
			p.printOperand(n, ast.PropExpression)
			p.write(".")
		}
		p.write("new ")
		p.printNode(n.Child(ast.PropType))
		p.printArguments(n.ChildList(ast.PropArguments))
	case ast.KindNewArray:
		p.printNewArray(n)
	case ast.KindArrayInit:
		p.write("{")
		for i, e := range n.ChildList(ast.PropExpressions) {
			if i > 0 {
				p.write(", ")
			}
			p.printNode(e)
		}
		p.write("}")
	case ast.KindClassLiteral:
		p.printNode(n.Child(ast.PropType))
		p.write(".class")
	case ast.KindMethodRef:
		p.printNode(n.Child(ast.PropExpression))
		p.write("::")
		p.printNode(n.Child(ast.PropName))
	case ast.KindLambda:
		p.printLambda(n)
	default:
		p.printFallback(n)
	}
}

func (p *Printer) printArguments(args []ast.NodeID) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printNode(arg)
	}
	p.write(")")
}

func (p *Printer) printNewArray(n *ast.Node) {
	p.write("new ")
	p.printNode(n.Child(ast.PropType))
	dims := n.ChildList(ast.PropDimensions)
	for i := 0; i < len(n.Text)/2; i++ {
		p.write("[")
		if i < len(dims) {
			p.printNode(dims[i])
		}
		p.write("]")
	}
	if init := n.Child(ast.PropInitializer); init != ast.NoNode {
		p.write(" ")
		p.printNode(init)
	}
}

func (p *Printer) printLambda(n *ast.Node) {
	params := n.ChildList(ast.PropParameters)
	bare := len(params) == 1 && n.Text != "(" && p.node(params[0]).Child(ast.PropType) == ast.NoNode
	if !bare {
		p.write("(")
	}
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.printNode(param)
	}
	if !bare {
		p.write(")")
	}
	p.write(" -> ")
	p.printNode(n.Child(ast.PropBody))
}

func (p *Printer) printType(n *ast.Node) {
	switch n.Kind {
	case ast.KindPrimitiveType, ast.KindSimpleType:
		p.write(n.Text)
	case ast.KindArrayType:
		p.printNode(n.Child(ast.PropType))
		p.write(n.Text)
	case ast.KindParameterizedType:
		p.printNode(n.Child(ast.PropType))
		p.write("<")
		for i, arg := range n.ChildList(ast.PropTypeArguments) {
			if i > 0 {
				p.write(", ")
			}
			p.printNode(arg)
		}
		p.write(">")
	case ast.KindWildcardType:
		p.write(n.Text)
		if bound := n.Child(ast.PropType); bound != ast.NoNode {
			p.write(" ")
			p.printNode(bound)
		}
	}
}

// printOperand prints the child in slot prop of parent, adding parentheses
// when the child would otherwise bind to a neighbouring operator.
func (p *Printer) printOperand(parent *ast.Node, prop ast.Property) {
	id := parent.Child(prop)
	if !NeedsParentheses(parent, prop, p.resolved(id)) {
		p.printNode(id)
		return
	}
	p.write("(")
	p.printNode(id)
	p.write(")")
}

// NeedsParentheses reports whether child, placed in slot prop of parent,
// must be parenthesized to keep its meaning.
func NeedsParentheses(parent *ast.Node, prop ast.Property, child *ast.Node) bool {
	if parent == nil || child == nil || child.Kind == ast.KindParen || child.Kind.IsPlaceholder() {
		return false
	}
	cp := ast.OperandPrecedence(child)
	lambda := ast.LambdaOrSwitch(child)

	switch parent.Kind {
	case ast.KindInfix:
		if lambda {
			return true
		}
		pp := ast.InfixPrecedence(parent.Op)
		if cp > pp {
			return true
		}
		if cp == pp && prop == ast.PropRightOperand {
			return !(child.Kind == ast.KindInfix && child.Op == parent.Op && parent.Op.IsAssociative())
		}
	case ast.KindPrefix:
		if lambda || cp > 1 {
			return true
		}
		if child.Kind == ast.KindPrefix {
			return sameSign(parent.Op, child.Op)
		}
	case ast.KindPostfix:
		return lambda || cp > 0
	case ast.KindCast:
		if lambda {
			return false
		}
		return cp > 2
	case ast.KindInstanceof:
		return lambda || cp > 5
	case ast.KindConditional:
		switch prop {
		case ast.PropExpression:
			return lambda || cp > 12
		case ast.PropElseExpression:
			return cp > 13 && !lambda
		}
	case ast.KindMethodCall, ast.KindFieldAccess, ast.KindArrayAccess, ast.KindMethodRef:
		if prop != ast.PropExpression || child.Kind == ast.KindNew {
			return false
		}
		return lambda || cp >= 0
	case ast.KindNew:
		return prop == ast.PropExpression && (lambda || cp >= 0)
	}
	return false
}

func sameSign(outer, inner ast.Operator) bool {
	switch outer {
	case ast.OpMinus:
		return inner == ast.OpMinus || inner == ast.OpDecrement
	case ast.OpPlus:
		return inner == ast.OpPlus || inner == ast.OpIncrement
	}
	return false
}
