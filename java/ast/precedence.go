package ast

// Precedence returns the binding strength of an expression node; lower
// binds tighter. Primaries such as names, literals and parenthesized
// expressions return -1.
//
//	postfix 0, prefix 1, cast/new 2, multiplicative 3, additive 4, shift 5,
//	relational and instanceof 6, equality 7, & 8, ^ 9, | 10, && 11, || 12,
//	conditional 13, assignment 14, method invocation 15
func Precedence(n *Node) int {
	if n == nil {
		return -1
	}
	switch n.Kind {
	case KindPostfix:
		return 0
	case KindPrefix:
		return 1
	case KindCast, KindNew:
		return 2
	case KindInfix:
		return InfixPrecedence(n.Op)
	case KindInstanceof:
		return 6
	case KindConditional:
		return 13
	case KindAssignment:
		return 14
	case KindMethodCall:
		return 15
	}
	return -1
}

func InfixPrecedence(op Operator) int {
	switch op {
	case OpTimes, OpDivide, OpRemainder:
		return 3
	case OpPlus, OpMinus:
		return 4
	case OpLeftShift, OpRightShiftSigned, OpRightShiftUnsigned:
		return 5
	case OpLess, OpGreater, OpLessEquals, OpGreaterEquals:
		return 6
	case OpEquals, OpNotEquals:
		return 7
	case OpAnd:
		return 8
	case OpXor:
		return 9
	case OpOr:
		return 10
	case OpConditionalAnd:
		return 11
	case OpConditionalOr:
		return 12
	}
	return -1
}

// OperandPrecedence is Precedence with method invocations treated as
// primaries. A call binds as tightly as a name when it is embedded as an
// operand, whatever its rank in the table.
func OperandPrecedence(n *Node) int {
	if n != nil && n.Kind == KindMethodCall {
		return -1
	}
	return Precedence(n)
}

// LambdaOrSwitch reports whether n can never be an operand without
// parentheses.
func LambdaOrSwitch(n *Node) bool {
	return n != nil && (n.Kind == KindLambda || n.Kind == KindSwitchExpr)
}
