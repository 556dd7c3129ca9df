package ast

type Kind uint8

const (
	KindError Kind = iota

	// Declarations
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindTypeDecl
	KindEnumConstant
	KindFieldDecl
	KindMethodDecl
	KindInitializer
	KindParameter
	KindModifier
	KindVarFragment

	// Statements
	KindBlock
	KindLocalVarDecl
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindEmptyStmt
	KindSwitchStmt
	KindSwitchCase
	KindTryStmt
	KindCatchClause
	KindSynchronizedStmt
	KindLabeledStmt
	KindAssertStmt
	KindYieldStmt

	// Expressions
	KindInfix
	KindPrefix
	KindPostfix
	KindAssignment
	KindConditional
	KindInstanceof
	KindCast
	KindMethodCall
	KindFieldAccess
	KindArrayAccess
	KindNew
	KindNewArray
	KindArrayInit
	KindLambda
	KindMethodRef
	KindParen
	KindName
	KindStringLiteral
	KindTextBlock
	KindCharLiteral
	KindNumberLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindThis
	KindSuper
	KindClassLiteral
	KindSwitchExpr

	// Types
	KindPrimitiveType
	KindSimpleType
	KindArrayType
	KindParameterizedType
	KindWildcardType

	// Rewrite-only leaves
	KindPlaceholder
	KindStringPlaceholder

	kindCount
)

var kindNames = [...]string{
	KindError:             "Error",
	KindCompilationUnit:   "CompilationUnit",
	KindPackageDecl:       "PackageDecl",
	KindImportDecl:        "ImportDecl",
	KindTypeDecl:          "TypeDecl",
	KindEnumConstant:      "EnumConstant",
	KindFieldDecl:         "FieldDecl",
	KindMethodDecl:        "MethodDecl",
	KindInitializer:       "Initializer",
	KindParameter:         "Parameter",
	KindModifier:          "Modifier",
	KindVarFragment:       "VarFragment",
	KindBlock:             "Block",
	KindLocalVarDecl:      "LocalVarDecl",
	KindExprStmt:          "ExprStmt",
	KindIfStmt:            "IfStmt",
	KindForStmt:           "ForStmt",
	KindEnhancedForStmt:   "EnhancedForStmt",
	KindWhileStmt:         "WhileStmt",
	KindDoStmt:            "DoStmt",
	KindReturnStmt:        "ReturnStmt",
	KindBreakStmt:         "BreakStmt",
	KindContinueStmt:      "ContinueStmt",
	KindThrowStmt:         "ThrowStmt",
	KindEmptyStmt:         "EmptyStmt",
	KindSwitchStmt:        "SwitchStmt",
	KindSwitchCase:        "SwitchCase",
	KindTryStmt:           "TryStmt",
	KindCatchClause:       "CatchClause",
	KindSynchronizedStmt:  "SynchronizedStmt",
	KindLabeledStmt:       "LabeledStmt",
	KindAssertStmt:        "AssertStmt",
	KindYieldStmt:         "YieldStmt",
	KindInfix:             "Infix",
	KindPrefix:            "Prefix",
	KindPostfix:           "Postfix",
	KindAssignment:        "Assignment",
	KindConditional:       "Conditional",
	KindInstanceof:        "Instanceof",
	KindCast:              "Cast",
	KindMethodCall:        "MethodCall",
	KindFieldAccess:       "FieldAccess",
	KindArrayAccess:       "ArrayAccess",
	KindNew:               "New",
	KindNewArray:          "NewArray",
	KindArrayInit:         "ArrayInit",
	KindLambda:            "Lambda",
	KindMethodRef:         "MethodRef",
	KindParen:             "Paren",
	KindName:              "Name",
	KindStringLiteral:     "StringLiteral",
	KindTextBlock:         "TextBlock",
	KindCharLiteral:       "CharLiteral",
	KindNumberLiteral:     "NumberLiteral",
	KindBooleanLiteral:    "BooleanLiteral",
	KindNullLiteral:       "NullLiteral",
	KindThis:              "This",
	KindSuper:             "Super",
	KindClassLiteral:      "ClassLiteral",
	KindSwitchExpr:        "SwitchExpr",
	KindPrimitiveType:     "PrimitiveType",
	KindSimpleType:        "SimpleType",
	KindArrayType:         "ArrayType",
	KindParameterizedType: "ParameterizedType",
	KindWildcardType:      "WildcardType",
	KindPlaceholder:       "Placeholder",
	KindStringPlaceholder: "StringPlaceholder",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// IsStatement reports whether nodes of kind k may occupy a statement slot.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindLocalVarDecl, KindExprStmt, KindIfStmt, KindForStmt,
		KindEnhancedForStmt, KindWhileStmt, KindDoStmt, KindReturnStmt,
		KindBreakStmt, KindContinueStmt, KindThrowStmt, KindEmptyStmt,
		KindSwitchStmt, KindTryStmt, KindSynchronizedStmt, KindLabeledStmt,
		KindAssertStmt, KindYieldStmt, KindTypeDecl:
		return true
	}
	return false
}

// IsExpression reports whether nodes of kind k may occupy an expression slot.
func (k Kind) IsExpression() bool {
	return k >= KindInfix && k <= KindSwitchExpr
}

func (k Kind) IsType() bool {
	return k >= KindPrimitiveType && k <= KindWildcardType
}

func (k Kind) IsLoop() bool {
	switch k {
	case KindForStmt, KindEnhancedForStmt, KindWhileStmt, KindDoStmt:
		return true
	}
	return false
}

func (k Kind) IsLiteral() bool {
	switch k {
	case KindStringLiteral, KindTextBlock, KindCharLiteral, KindNumberLiteral,
		KindBooleanLiteral, KindNullLiteral:
		return true
	}
	return false
}

// IsPlaceholder reports whether k is one of the rewrite-only leaves that
// stand in for text rendered elsewhere.
func (k Kind) IsPlaceholder() bool {
	return k == KindPlaceholder || k == KindStringPlaceholder
}
