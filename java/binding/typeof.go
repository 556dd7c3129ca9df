package binding

import (
	"strings"

	"github.com/dhamidi/jassist/java/ast"
)

// Return types of library methods that show up in conditions and string
// expressions often enough to be worth knowing without a classpath.
var knownMethods = map[string]Type{
	"equals":              Boolean,
	"equalsIgnoreCase":    Boolean,
	"isEmpty":             Boolean,
	"isBlank":             Boolean,
	"isPresent":           Boolean,
	"contains":            Boolean,
	"containsKey":         Boolean,
	"containsValue":       Boolean,
	"startsWith":          Boolean,
	"endsWith":            Boolean,
	"matches":             Boolean,
	"hasNext":             Boolean,
	"booleanValue":        Boolean,
	"isNull":              Boolean,
	"nonNull":             Boolean,
	"toString":            String,
	"substring":           String,
	"trim":                String,
	"strip":               String,
	"toUpperCase":         String,
	"toLowerCase":         String,
	"concat":              String,
	"format":              String,
	"join":                String,
	"repeat":              String,
	"length":              Int,
	"size":                Int,
	"hashCode":            Int,
	"indexOf":             Int,
	"lastIndexOf":         Int,
	"compareTo":           Int,
	"compareToIgnoreCase": Int,
	"intValue":            Int,
	"ordinal":             Int,
	"parseInt":            Int,
	"charAt":              Char,
	"longValue":           Long,
	"parseLong":           Long,
	"doubleValue":         Double,
	"parseDouble":         Double,
}

// TypeOf returns the static type of an expression, or the zero Type when it
// cannot be determined from this file alone.
func (r *Resolver) TypeOf(id ast.NodeID) Type {
	t := r.tree
	n := t.Node(id)
	if n == nil {
		return Unknown
	}
	switch n.Kind {
	case ast.KindStringLiteral, ast.KindTextBlock:
		return String
	case ast.KindCharLiteral:
		return Char
	case ast.KindBooleanLiteral:
		return Boolean
	case ast.KindNullLiteral:
		return Null
	case ast.KindNumberLiteral:
		return numberType(n.Text)

	case ast.KindName:
		d := r.Declaration(id)
		if d == ast.NoNode {
			return Unknown
		}
		return r.DeclaredType(d)

	case ast.KindParen:
		return r.TypeOf(n.Child(ast.PropExpression))

	case ast.KindCast:
		return typeText(t, n.Child(ast.PropType))

	case ast.KindInstanceof:
		return Boolean

	case ast.KindInfix:
		return r.infixType(n)

	case ast.KindPrefix:
		if n.Op == ast.OpNot {
			return Boolean
		}
		operand := r.TypeOf(n.Child(ast.PropOperand))
		if n.Op == ast.OpIncrement || n.Op == ast.OpDecrement {
			return operand
		}
		if !operand.IsNumeric() {
			return Unknown
		}
		return unaryPromote(operand)

	case ast.KindPostfix:
		return r.TypeOf(n.Child(ast.PropOperand))

	case ast.KindAssignment:
		return r.TypeOf(n.Child(ast.PropLeftHandSide))

	case ast.KindConditional:
		then := r.TypeOf(n.Child(ast.PropThenExpression))
		els := r.TypeOf(n.Child(ast.PropElseExpression))
		switch {
		case then == els:
			return then
		case then == Null:
			return els
		case els == Null:
			return then
		case then.IsBoolean() && els.IsBoolean():
			return Boolean
		case then.IsNumeric() && els.IsNumeric():
			return promote(then, els)
		}
		return Unknown

	case ast.KindMethodCall:
		return r.callType(id)

	case ast.KindFieldAccess:
		name := t.Node(n.Child(ast.PropName))
		if name == nil {
			return Unknown
		}
		recv := n.Child(ast.PropExpression)
		if name.Text == "length" && r.TypeOf(recv).IsArray() {
			return Int
		}
		if t.Kind(recv) == ast.KindThis {
			if typ := r.enclosingType(id); typ != ast.NoNode {
				if d := r.fieldNamed(typ, name.Text); d != ast.NoNode {
					return r.DeclaredType(d)
				}
			}
		}
		return Unknown

	case ast.KindArrayAccess:
		return r.TypeOf(n.Child(ast.PropExpression)).Element()

	case ast.KindNew:
		return typeText(t, n.Child(ast.PropType))

	case ast.KindNewArray:
		elem := typeText(t, n.Child(ast.PropType))
		if elem.IsZero() {
			return Unknown
		}
		return Type{Name: elem.Name + n.Text}

	case ast.KindClassLiteral:
		return Type{Name: "Class"}

	case ast.KindThis:
		if typ := r.enclosingType(id); typ != ast.NoNode {
			return Type{Name: r.nameOf(typ)}
		}
	}
	return Unknown
}

func (r *Resolver) infixType(n *ast.Node) Type {
	switch {
	case n.Op.IsRelational(), n.Op.IsEquality(),
		n.Op == ast.OpConditionalAnd, n.Op == ast.OpConditionalOr:
		return Boolean
	}
	left := r.TypeOf(n.Child(ast.PropLeftOperand))
	right := r.TypeOf(n.Child(ast.PropRightOperand))
	switch n.Op {
	case ast.OpPlus:
		if left.IsString() || right.IsString() {
			return String
		}
		return promote(left, right)
	case ast.OpAnd, ast.OpOr, ast.OpXor:
		if left.IsBoolean() && right.IsBoolean() {
			return Boolean
		}
		if left.IsIntegral() && right.IsIntegral() {
			return promote(left, right)
		}
		return Unknown
	case ast.OpLeftShift, ast.OpRightShiftSigned, ast.OpRightShiftUnsigned:
		if !left.IsIntegral() {
			return Unknown
		}
		return unaryPromote(left)
	}
	return promote(left, right)
}

func (r *Resolver) callType(id ast.NodeID) Type {
	t := r.tree
	n := t.Node(id)
	nameNode := t.Node(n.Child(ast.PropName))
	if nameNode == nil || nameNode.Kind != ast.KindName {
		return Type{Name: "void"}
	}
	recv := n.Child(ast.PropExpression)
	argc := len(n.ChildList(ast.PropArguments))

	if recv == ast.NoNode || t.Kind(recv) == ast.KindThis {
		for typ := r.enclosingType(id); typ != ast.NoNode; typ = r.enclosingType(typ) {
			if m := r.methodNamed(typ, nameNode.Text, argc); m != ast.NoNode {
				return r.ReturnType(m)
			}
		}
	}

	if recv != ast.NoNode {
		switch t.Text(recv) {
		case "String":
			if nameNode.Text == "valueOf" {
				return String
			}
		case "Math":
			switch nameNode.Text {
			case "abs", "max", "min":
				var acc Type
				for i, arg := range n.ChildList(ast.PropArguments) {
					at := r.TypeOf(arg)
					if i == 0 {
						acc = unaryPromote(at)
					} else {
						acc = promote(acc, at)
					}
				}
				return acc
			}
		}
	}
	return knownMethods[nameNode.Text]
}

func (r *Resolver) enclosingType(id ast.NodeID) ast.NodeID {
	return ast.Ancestor(r.tree, id, ast.KindTypeDecl)
}

func (r *Resolver) fieldNamed(typ ast.NodeID, name string) ast.NodeID {
	for _, decl := range r.tree.ChildList(typ, ast.PropBodyDeclarations) {
		if r.tree.Kind(decl) == ast.KindFieldDecl {
			if d := r.fragmentNamed(decl, name); d != ast.NoNode {
				return d
			}
		}
	}
	return ast.NoNode
}

func (r *Resolver) methodNamed(typ ast.NodeID, name string, argc int) ast.NodeID {
	t := r.tree
	for _, decl := range t.ChildList(typ, ast.PropBodyDeclarations) {
		if t.Kind(decl) != ast.KindMethodDecl || t.Child(decl, ast.PropReturnType) == ast.NoNode {
			continue
		}
		if r.nameOf(decl) == name && len(t.ChildList(decl, ast.PropParameters)) == argc {
			return decl
		}
	}
	return ast.NoNode
}

func numberType(lit string) Type {
	lower := strings.ToLower(strings.ReplaceAll(lit, "_", ""))
	hex := strings.HasPrefix(lower, "0x")
	switch {
	case strings.HasSuffix(lower, "l"):
		return Long
	case !hex && strings.HasSuffix(lower, "f"):
		return Float
	case !hex && strings.HasSuffix(lower, "d"):
		return Double
	case hex && strings.Contains(lower, "p"):
		return Double
	case !hex && strings.ContainsAny(lower, ".e"):
		return Double
	}
	return Int
}
