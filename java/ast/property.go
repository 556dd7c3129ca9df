package ast

// Property names a structural slot of a node.
type Property uint8

const (
	PropNone Property = iota

	PropPackage
	PropImports
	PropTypes
	PropModifiers
	PropName
	PropSuperTypes
	PropBodyDeclarations
	PropEnumConstants
	PropTypeParameters
	PropReturnType
	PropParameters
	PropThrown
	PropBody
	PropType
	PropFragments
	PropInitializer
	PropStatements
	PropExpression
	PropThenStatement
	PropElseStatement
	PropInitializers
	PropUpdaters
	PropParameter
	PropLabel
	PropCases
	PropExpressions
	PropResources
	PropCatchClauses
	PropFinally
	PropMessage
	PropLeftOperand
	PropRightOperand
	PropOperand
	PropLeftHandSide
	PropRightHandSide
	PropThenExpression
	PropElseExpression
	PropArguments
	PropTypeArguments
	PropIndex
	PropDimensions

	propCount
)

type slotClass uint8

const (
	classAny slotClass = iota
	classExpression
	classStatement
	classType
)

type propertyInfo struct {
	name  string
	list  bool
	class slotClass
}

var properties = [...]propertyInfo{
	PropNone:             {"none", false, classAny},
	PropPackage:          {"package", false, classAny},
	PropImports:          {"imports", true, classAny},
	PropTypes:            {"types", true, classAny},
	PropModifiers:        {"modifiers", true, classAny},
	PropName:             {"name", false, classAny},
	PropSuperTypes:       {"superTypes", true, classType},
	PropBodyDeclarations: {"bodyDeclarations", true, classAny},
	PropEnumConstants:    {"enumConstants", true, classAny},
	PropTypeParameters:   {"typeParameters", true, classAny},
	PropReturnType:       {"returnType", false, classType},
	PropParameters:       {"parameters", true, classAny},
	PropThrown:           {"thrown", true, classType},
	PropBody:             {"body", false, classAny},
	PropType:             {"type", false, classType},
	PropFragments:        {"fragments", true, classAny},
	PropInitializer:      {"initializer", false, classExpression},
	PropStatements:       {"statements", true, classStatement},
	PropExpression:       {"expression", false, classExpression},
	PropThenStatement:    {"thenStatement", false, classStatement},
	PropElseStatement:    {"elseStatement", false, classStatement},
	PropInitializers:     {"initializers", true, classAny},
	PropUpdaters:         {"updaters", true, classExpression},
	PropParameter:        {"parameter", false, classAny},
	PropLabel:            {"label", false, classAny},
	PropCases:            {"cases", true, classAny},
	PropExpressions:      {"expressions", true, classExpression},
	PropResources:        {"resources", true, classAny},
	PropCatchClauses:     {"catchClauses", true, classAny},
	PropFinally:          {"finally", false, classStatement},
	PropMessage:          {"message", false, classExpression},
	PropLeftOperand:      {"leftOperand", false, classExpression},
	PropRightOperand:     {"rightOperand", false, classExpression},
	PropOperand:          {"operand", false, classExpression},
	PropLeftHandSide:     {"leftHandSide", false, classExpression},
	PropRightHandSide:    {"rightHandSide", false, classExpression},
	PropThenExpression:   {"thenExpression", false, classExpression},
	PropElseExpression:   {"elseExpression", false, classExpression},
	PropArguments:        {"arguments", true, classExpression},
	PropTypeArguments:    {"typeArguments", true, classType},
	PropIndex:            {"index", false, classExpression},
	PropDimensions:       {"dimensions", true, classExpression},
}

func (p Property) String() string {
	if p < propCount {
		return properties[p].name
	}
	return "unknown"
}

// IsList reports whether the slot holds an ordered sequence of children.
func (p Property) IsList() bool {
	return p < propCount && properties[p].list
}

// Accepts reports whether a node of kind k may be stored in the slot.
// Placeholders are accepted everywhere; their kind is checked when they are
// created.
func (p Property) Accepts(k Kind) bool {
	if k.IsPlaceholder() || p >= propCount {
		return true
	}
	switch properties[p].class {
	case classExpression:
		return k.IsExpression()
	case classStatement:
		return k.IsStatement()
	case classType:
		return k.IsType()
	}
	return true
}
