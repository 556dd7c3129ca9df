package ast

type Operator uint8

const (
	OpNone Operator = iota

	// Infix
	OpTimes
	OpDivide
	OpRemainder
	OpPlus
	OpMinus
	OpLeftShift
	OpRightShiftSigned
	OpRightShiftUnsigned
	OpLess
	OpGreater
	OpLessEquals
	OpGreaterEquals
	OpEquals
	OpNotEquals
	OpAnd
	OpXor
	OpOr
	OpConditionalAnd
	OpConditionalOr

	// Prefix and postfix. Unary plus and minus reuse OpPlus and OpMinus.
	OpNot
	OpComplement
	OpIncrement
	OpDecrement

	// Assignment
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpTimesAssign
	OpDivideAssign
	OpRemainderAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpLeftShiftAssign
	OpRightShiftSignedAssign
	OpRightShiftUnsignedAssign

	opCount
)

var operatorTokens = [...]string{
	OpNone:                     "",
	OpTimes:                    "*",
	OpDivide:                   "/",
	OpRemainder:                "%",
	OpPlus:                     "+",
	OpMinus:                    "-",
	OpLeftShift:                "<<",
	OpRightShiftSigned:         ">>",
	OpRightShiftUnsigned:       ">>>",
	OpLess:                     "<",
	OpGreater:                  ">",
	OpLessEquals:               "<=",
	OpGreaterEquals:            ">=",
	OpEquals:                   "==",
	OpNotEquals:                "!=",
	OpAnd:                      "&",
	OpXor:                      "^",
	OpOr:                       "|",
	OpConditionalAnd:           "&&",
	OpConditionalOr:            "||",
	OpNot:                      "!",
	OpComplement:               "~",
	OpIncrement:                "++",
	OpDecrement:                "--",
	OpAssign:                   "=",
	OpPlusAssign:               "+=",
	OpMinusAssign:              "-=",
	OpTimesAssign:              "*=",
	OpDivideAssign:             "/=",
	OpRemainderAssign:          "%=",
	OpAndAssign:                "&=",
	OpOrAssign:                 "|=",
	OpXorAssign:                "^=",
	OpLeftShiftAssign:          "<<=",
	OpRightShiftSignedAssign:   ">>=",
	OpRightShiftUnsignedAssign: ">>>=",
}

var infixOperators = map[string]Operator{}
var assignOperators = map[string]Operator{}

func init() {
	for op := OpTimes; op <= OpConditionalOr; op++ {
		infixOperators[operatorTokens[op]] = op
	}
	for op := OpAssign; op < opCount; op++ {
		assignOperators[operatorTokens[op]] = op
	}
}

// String returns the operator as it is written in source.
func (o Operator) String() string {
	if o < opCount {
		return operatorTokens[o]
	}
	return "?"
}

// InfixOperator looks up a binary operator by its source token.
func InfixOperator(token string) (Operator, bool) {
	op, ok := infixOperators[token]
	return op, ok
}

func AssignOperator(token string) (Operator, bool) {
	op, ok := assignOperators[token]
	return op, ok
}

// PrefixOperator looks up a unary prefix operator by its source token.
func PrefixOperator(token string) (Operator, bool) {
	switch token {
	case "+":
		return OpPlus, true
	case "-":
		return OpMinus, true
	case "!":
		return OpNot, true
	case "~":
		return OpComplement, true
	case "++":
		return OpIncrement, true
	case "--":
		return OpDecrement, true
	}
	return OpNone, false
}

func (o Operator) IsRelational() bool {
	switch o {
	case OpLess, OpGreater, OpLessEquals, OpGreaterEquals:
		return true
	}
	return false
}

func (o Operator) IsEquality() bool {
	return o == OpEquals || o == OpNotEquals
}

// IsAssociative reports whether (a op b) op c always equals a op (b op c)
// for operands of any type the operator accepts. Plus and times are
// associative only for integral operands and are reported separately by
// IsIntegralAssociative.
func (o Operator) IsAssociative() bool {
	switch o {
	case OpAnd, OpOr, OpXor, OpConditionalAnd, OpConditionalOr:
		return true
	}
	return false
}

func (o Operator) IsIntegralAssociative() bool {
	return o == OpPlus || o == OpTimes
}

// AssignmentBase returns the infix operator a compound assignment applies,
// or OpNone for plain assignment.
func (o Operator) AssignmentBase() Operator {
	switch o {
	case OpPlusAssign:
		return OpPlus
	case OpMinusAssign:
		return OpMinus
	case OpTimesAssign:
		return OpTimes
	case OpDivideAssign:
		return OpDivide
	case OpRemainderAssign:
		return OpRemainder
	case OpAndAssign:
		return OpAnd
	case OpOrAssign:
		return OpOr
	case OpXorAssign:
		return OpXor
	case OpLeftShiftAssign:
		return OpLeftShift
	case OpRightShiftSignedAssign:
		return OpRightShiftSigned
	case OpRightShiftUnsignedAssign:
		return OpRightShiftUnsigned
	}
	return OpNone
}
