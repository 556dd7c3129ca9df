package parser

import "github.com/dhamidi/jassist/java/ast"

func (p *Parser) parseExpression() ast.NodeID {
	return p.parseAssignmentExpr()
}

func (p *Parser) parseAssignmentExpr() ast.NodeID {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}

	left := p.parseTernaryExpr()

	if op, ok := ast.AssignOperator(p.peek().Literal); ok && p.isAssignOp() {
		id := p.openAt(ast.KindAssignment, p.start(left))
		p.tree.Node(id).Op = op
		p.attach(id, ast.PropLeftHandSide, left)
		p.advance()
		p.attach(id, ast.PropRightHandSide, p.parseAssignmentExpr())
		return p.close(id)
	}

	return left
}

func (p *Parser) isAssignOp() bool {
	switch p.peek().Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPercentAssign,
		TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) isLambda() bool {
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenArrow {
		return true
	}
	if !p.check(TokenLParen) {
		return false
	}

	save := p.pos
	defer func() { p.pos = save }()
	p.advance()
	depth := 1
	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
		p.advance()
	}
	return p.check(TokenArrow)
}

func (p *Parser) parseLambdaExpr() ast.NodeID {
	id := p.open(ast.KindLambda)
	if p.isIdentifierLike() {
		param := p.open(ast.KindParameter)
		p.attach(param, ast.PropName, p.leaf(ast.KindName))
		p.attach(id, ast.PropParameters, p.close(param))
	} else {
		p.tree.Node(id).Text = "("
		p.expect(TokenLParen)
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			if p.isIdentifierLike() && (p.peekN(1).Kind == TokenComma || p.peekN(1).Kind == TokenRParen) {
				param := p.open(ast.KindParameter)
				p.attach(param, ast.PropName, p.leaf(ast.KindName))
				p.attach(id, ast.PropParameters, p.close(param))
			} else {
				p.attach(id, ast.PropParameters, p.parseParameter())
			}
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
		p.expect(TokenRParen)
	}
	p.expect(TokenArrow)
	if p.check(TokenLBrace) {
		p.attach(id, ast.PropBody, p.parseBlock())
	} else {
		p.attach(id, ast.PropBody, p.parseExpression())
	}
	return p.close(id)
}

func (p *Parser) parseTernaryExpr() ast.NodeID {
	cond := p.parseBinary(0)

	if !p.check(TokenQuestion) {
		return cond
	}
	id := p.openAt(ast.KindConditional, p.start(cond))
	p.attach(id, ast.PropExpression, cond)
	p.advance()
	p.attach(id, ast.PropThenExpression, p.parseExpression())
	p.expect(TokenColon)
	if p.isLambda() {
		p.attach(id, ast.PropElseExpression, p.parseLambdaExpr())
	} else {
		p.attach(id, ast.PropElseExpression, p.parseTernaryExpr())
	}
	return p.close(id)
}

// binaryLevels lists infix operators from loosest to tightest.
var binaryLevels = [][]TokenKind{
	{TokenOr},
	{TokenAnd},
	{TokenBitOr},
	{TokenBitXor},
	{TokenBitAnd},
	{TokenEQ, TokenNE},
	{TokenLT, TokenGT, TokenLE, TokenGE},
	{TokenShl, TokenShr, TokenUShr},
	{TokenPlus, TokenMinus},
	{TokenStar, TokenSlash, TokenPercent},
}

const relationalLevel = 6

func (p *Parser) parseBinary(level int) ast.NodeID {
	if level == len(binaryLevels) {
		return p.parseUnaryExpr()
	}

	left := p.parseBinary(level + 1)
	for {
		if level == relationalLevel && p.check(TokenInstanceof) {
			left = p.parseInstanceof(left)
			continue
		}
		if !p.match(binaryLevels[level]...) {
			return left
		}
		tok := p.advance()
		op, _ := ast.InfixOperator(tok.Literal)
		id := p.openAt(ast.KindInfix, p.start(left))
		p.tree.Node(id).Op = op
		p.attach(id, ast.PropLeftOperand, left)
		p.attach(id, ast.PropRightOperand, p.parseBinary(level+1))
		left = p.close(id)
	}
}

func (p *Parser) parseInstanceof(left ast.NodeID) ast.NodeID {
	id := p.openAt(ast.KindInstanceof, p.start(left))
	p.attach(id, ast.PropLeftOperand, left)
	p.expect(TokenInstanceof)
	if p.check(TokenFinal) {
		p.advance()
	}
	p.attach(id, ast.PropType, p.parseType())
	if p.check(TokenLParen) {
		// record deconstruction pattern, kept as source text only
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	if p.isIdentifierLike() {
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
	}
	return p.close(id)
}

func (p *Parser) parseUnaryExpr() ast.NodeID {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement, TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		id := p.open(ast.KindPrefix)
		op, _ := ast.PrefixOperator(p.advance().Literal)
		p.tree.Node(id).Op = op
		p.attach(id, ast.PropOperand, p.parseUnaryExpr())
		return p.close(id)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpr()
		}
	}

	return p.parsePostfixSuffix(p.parsePrimaryExpr())
}

func isPrimitive(kind TokenKind) bool {
	switch kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

func (p *Parser) isCast() bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.advance()
	primitive := isPrimitive(p.peek().Kind)
	if !p.skipType() {
		return false
	}
	// intersection casts: (A & B) x
	for p.check(TokenBitAnd) {
		p.advance()
		if !p.skipType() {
			return false
		}
	}
	if !p.check(TokenRParen) {
		return false
	}
	p.advance()
	if primitive {
		return true
	}
	switch p.peek().Kind {
	case TokenIdent, TokenThis, TokenSuper, TokenNew, TokenSwitch,
		TokenLParen, TokenNot, TokenBitNot,
		TokenIntLiteral, TokenFloatLiteral,
		TokenCharLiteral, TokenStringLiteral,
		TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return p.isIdentifierLike()
}

func (p *Parser) parseCastExpr() ast.NodeID {
	id := p.open(ast.KindCast)
	p.expect(TokenLParen)
	start := p.peek().Start
	typ := p.parseType()
	if p.check(TokenBitAnd) {
		for p.check(TokenBitAnd) {
			p.advance()
			p.parseType()
		}
		typ = p.openAt(ast.KindSimpleType, start)
		p.close(typ)
		n := p.tree.Node(typ)
		n.Text = p.sourceText(n.Start, n.End)
	}
	p.attach(id, ast.PropType, typ)
	p.expect(TokenRParen)
	if p.isLambda() {
		p.attach(id, ast.PropExpression, p.parseLambdaExpr())
	} else {
		p.attach(id, ast.PropExpression, p.parseUnaryExpr())
	}
	return p.close(id)
}

func (p *Parser) parsePostfixSuffix(expr ast.NodeID) ast.NodeID {
	for {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenIncrement, TokenDecrement:
			id := p.openAt(ast.KindPostfix, p.start(expr))
			op, _ := ast.PrefixOperator(p.peek().Literal)
			p.tree.Node(id).Op = op
			p.attach(id, ast.PropOperand, expr)
			p.advance()
			expr = p.close(id)
		case TokenDot:
			expr = p.parseDotSuffix(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				expr = p.parseArrayTypeSuffix(expr)
				continue
			}
			id := p.openAt(ast.KindArrayAccess, p.start(expr))
			p.attach(id, ast.PropExpression, expr)
			p.advance()
			p.attach(id, ast.PropIndex, p.parseExpression())
			p.expect(TokenRBracket)
			expr = p.close(id)
		case TokenColonColon:
			expr = p.parseMethodRef(expr)
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

func (p *Parser) parseDotSuffix(expr ast.NodeID) ast.NodeID {
	p.expect(TokenDot)
	switch {
	case p.check(TokenNew):
		return p.parseNewExpr(expr)
	case p.check(TokenClass):
		p.advance()
		return p.classLiteral(p.typeFromExpr(expr))
	case p.check(TokenThis), p.check(TokenSuper):
		id := p.openAt(ast.KindFieldAccess, p.start(expr))
		p.attach(id, ast.PropExpression, expr)
		if p.check(TokenThis) {
			p.attach(id, ast.PropName, p.leaf(ast.KindThis))
		} else {
			p.attach(id, ast.PropName, p.leaf(ast.KindSuper))
		}
		return p.close(id)
	case p.check(TokenLT):
		p.skipTypeArguments()
	}

	if !p.isIdentifierLike() {
		p.errorf("expected member name, found %s", p.peek().Kind)
		return expr
	}
	if p.peekN(1).Kind == TokenLParen {
		id := p.openAt(ast.KindMethodCall, p.start(expr))
		p.attach(id, ast.PropExpression, expr)
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
		p.attachAll(id, ast.PropArguments, p.parseArguments())
		return p.close(id)
	}
	id := p.openAt(ast.KindFieldAccess, p.start(expr))
	p.attach(id, ast.PropExpression, expr)
	p.attach(id, ast.PropName, p.leaf(ast.KindName))
	return p.close(id)
}

// parseArrayTypeSuffix handles `String[].class` and `int[]::new`.
func (p *Parser) parseArrayTypeSuffix(expr ast.NodeID) ast.NodeID {
	elem := p.typeFromExpr(expr)
	id := p.openAt(ast.KindArrayType, p.start(expr))
	p.attach(id, ast.PropType, elem)
	dims := ""
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advanceN(2)
		dims += "[]"
	}
	p.tree.Node(id).Text = dims
	p.close(id)
	if p.check(TokenDot) && p.peekN(1).Kind == TokenClass {
		p.advanceN(2)
		return p.classLiteral(id)
	}
	if p.check(TokenColonColon) {
		return p.parseMethodRef(id)
	}
	p.errorf("expected .class or ::, found %s", p.peek().Kind)
	return id
}

// typeFromExpr reinterprets an already parsed name expression as a type.
func (p *Parser) typeFromExpr(expr ast.NodeID) ast.NodeID {
	n := p.tree.Node(expr)
	if n.Kind.IsType() {
		return expr
	}
	return p.tree.Add(ast.Node{Kind: ast.KindSimpleType, Text: p.sourceText(n.Start, n.End), Start: n.Start, End: n.End})
}

func (p *Parser) classLiteral(typ ast.NodeID) ast.NodeID {
	id := p.openAt(ast.KindClassLiteral, p.start(typ))
	p.attach(id, ast.PropType, typ)
	return p.close(id)
}

func (p *Parser) parseArguments() []ast.NodeID {
	var args []ast.NodeID
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		args = append(args, p.parseExpression())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRParen)
	return args
}

func (p *Parser) parseMethodRef(target ast.NodeID) ast.NodeID {
	id := p.openAt(ast.KindMethodRef, p.start(target))
	p.attach(id, ast.PropExpression, target)
	p.expect(TokenColonColon)
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}
	if p.check(TokenNew) || p.isIdentifierLike() {
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
	} else {
		p.errorf("expected method name, found %s", p.peek().Kind)
	}
	return p.close(id)
}

func (p *Parser) parsePrimaryExpr() ast.NodeID {
	switch p.peek().Kind {
	case TokenIntLiteral, TokenFloatLiteral:
		return p.leaf(ast.KindNumberLiteral)
	case TokenCharLiteral:
		return p.leaf(ast.KindCharLiteral)
	case TokenStringLiteral:
		return p.leaf(ast.KindStringLiteral)
	case TokenTextBlock:
		return p.leaf(ast.KindTextBlock)
	case TokenTrue, TokenFalse:
		return p.leaf(ast.KindBooleanLiteral)
	case TokenNull:
		return p.leaf(ast.KindNullLiteral)

	case TokenThis, TokenSuper:
		kind := ast.KindThis
		if p.check(TokenSuper) {
			kind = ast.KindSuper
		}
		start := p.peek().Start
		name := p.leaf(kind)
		if p.check(TokenLParen) {
			// explicit constructor invocation
			id := p.openAt(ast.KindMethodCall, start)
			p.attach(id, ast.PropName, name)
			p.attachAll(id, ast.PropArguments, p.parseArguments())
			return p.close(id)
		}
		return name

	case TokenNew:
		return p.parseNewExpr(ast.NoNode)

	case TokenLParen:
		id := p.open(ast.KindParen)
		p.advance()
		p.attach(id, ast.PropExpression, p.parseExpression())
		p.expect(TokenRParen)
		return p.close(id)

	case TokenSwitch:
		return p.parseSwitch(ast.KindSwitchExpr)

	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		typ := p.parseType()
		if p.check(TokenDot) && p.peekN(1).Kind == TokenClass {
			p.advanceN(2)
			return p.classLiteral(typ)
		}
		if p.check(TokenColonColon) {
			return p.parseMethodRef(typ)
		}
		p.errorf("unexpected type in expression")
		return typ

	case TokenLT:
		// generic method call without receiver: <T>foo()
		p.skipTypeArguments()
	}

	if p.isIdentifierLike() {
		start := p.peek().Start
		name := p.leaf(ast.KindName)
		if p.check(TokenLParen) {
			id := p.openAt(ast.KindMethodCall, start)
			p.attach(id, ast.PropName, name)
			p.attachAll(id, ast.PropArguments, p.parseArguments())
			return p.close(id)
		}
		return name
	}
	return p.errorNode("expected expression")
}

// parseNewExpr parses instance and array creation. outer is the qualifying
// instance of `outer.new Inner()` or NoNode.
func (p *Parser) parseNewExpr(outer ast.NodeID) ast.NodeID {
	start := p.peek().Start
	if outer != ast.NoNode {
		start = p.start(outer)
	}
	p.expect(TokenNew)
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	typ := p.parseBaseType()

	if p.check(TokenLBracket) {
		id := p.openAt(ast.KindNewArray, start)
		p.attach(id, ast.PropType, typ)
		dims := ""
		for p.check(TokenLBracket) {
			p.advance()
			if !p.check(TokenRBracket) {
				p.attach(id, ast.PropDimensions, p.parseExpression())
			}
			p.expect(TokenRBracket)
			dims += "[]"
		}
		p.tree.Node(id).Text = dims
		if p.check(TokenLBrace) {
			p.attach(id, ast.PropInitializer, p.parseArrayInitializer())
		}
		return p.close(id)
	}

	id := p.openAt(ast.KindNew, start)
	if outer != ast.NoNode {
		p.attach(id, ast.PropExpression, outer)
	}
	p.attach(id, ast.PropType, typ)
	p.attachAll(id, ast.PropArguments, p.parseArguments())
	if p.check(TokenLBrace) {
		p.parseClassBody(id, false)
	}
	return p.close(id)
}

// parseType parses a type including trailing array dimensions.
func (p *Parser) parseType() ast.NodeID {
	typ := p.parseBaseType()
	if !p.check(TokenLBracket) || p.peekN(1).Kind != TokenRBracket {
		return typ
	}
	id := p.openAt(ast.KindArrayType, p.start(typ))
	p.attach(id, ast.PropType, typ)
	dims := ""
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advanceN(2)
		dims += "[]"
	}
	p.tree.Node(id).Text = dims
	return p.close(id)
}

func (p *Parser) parseBaseType() ast.NodeID {
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	switch {
	case isPrimitive(p.peek().Kind) || p.check(TokenVoid):
		return p.leaf(ast.KindPrimitiveType)
	case p.check(TokenQuestion):
		id := p.open(ast.KindWildcardType)
		p.advance()
		text := "?"
		if p.check(TokenExtends) || p.check(TokenSuper) {
			text += " " + p.advance().Literal
			p.attach(id, ast.PropType, p.parseType())
		}
		p.tree.Node(id).Text = text
		return p.close(id)
	case !p.isIdentifierLike():
		return p.errorNode("expected type")
	}

	start := p.peek().Start
	simple := p.openAt(ast.KindSimpleType, start)
	p.tree.Node(simple).Text = p.parseQualifiedName()
	p.close(simple)
	if !p.check(TokenLT) {
		return simple
	}

	id := p.openAt(ast.KindParameterizedType, start)
	p.attach(id, ast.PropType, simple)
	p.parseTypeArguments(id)
	p.close(id)
	if p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
		// Outer<T>.Inner: keep the whole thing as one opaque type
		p.advance()
		p.parseBaseType()
		inner := p.openAt(ast.KindSimpleType, start)
		p.close(inner)
		n := p.tree.Node(inner)
		n.Text = p.sourceText(n.Start, n.End)
		return inner
	}
	return id
}

func (p *Parser) parseTypeArguments(owner ast.NodeID) {
	p.expect(TokenLT)
	for !p.check(TokenGT) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.attach(owner, ast.PropTypeArguments, p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expectGT()
}

// expectGT consumes one '>' splitting '>>', '>>>' and friends when type
// arguments nest.
func (p *Parser) expectGT() {
	tok := p.peek()
	switch tok.Kind {
	case TokenGT:
		p.advance()
	case TokenShr:
		p.splitToken(TokenGT)
	case TokenUShr:
		p.splitToken(TokenShr)
	case TokenGE:
		p.splitToken(TokenAssign)
	case TokenShrAssign:
		p.splitToken(TokenGE)
	case TokenUShrAssign:
		p.splitToken(TokenShrAssign)
	default:
		p.errorf("expected >, found %s", tok.Kind)
	}
}

// splitToken consumes the first character of the current token, leaving
// the remainder in place as a token of kind remainder.
func (p *Parser) splitToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	p.tokens[p.pos] = Token{
		Kind:    remainder,
		Start:   tok.Start + 1,
		End:     tok.End,
		Literal: tok.Literal[1:],
	}
	// the consumed '>' becomes the last token for lastEnd
	p.tokens = append(p.tokens, Token{})
	copy(p.tokens[p.pos+1:], p.tokens[p.pos:])
	p.tokens[p.pos] = Token{Kind: TokenGT, Start: tok.Start, End: tok.Start + 1, Literal: ">"}
	p.pos++
}
