package parser

import "github.com/dhamidi/jassist/java/ast"

func (p *Parser) parseBlock() ast.NodeID {
	id := p.open(ast.KindBlock)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.attach(id, ast.PropStatements, p.parseStatement())
		if !progress() {
			continue
		}
	}
	p.expect(TokenRBrace)
	return p.close(id)
}

func (p *Parser) parseStatement() ast.NodeID {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		id := p.open(ast.KindEmptyStmt)
		p.advance()
		return p.close(id)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		return p.parseSwitch(ast.KindSwitchStmt)
	case TokenReturn:
		return p.parseExprKeywordStmt(ast.KindReturnStmt)
	case TokenThrow:
		return p.parseExprKeywordStmt(ast.KindThrowStmt)
	case TokenBreak:
		return p.parseJumpStmt(ast.KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(ast.KindContinueStmt)
	case TokenTry:
		return p.parseTryStmt()
	case TokenSynchronized:
		return p.parseSynchronizedStmt()
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenYield:
		if k := p.peekN(1).Kind; k != TokenAssign && k != TokenDot && k != TokenLParen && k != TokenLBracket {
			return p.parseExprKeywordStmt(ast.KindYieldStmt)
		}
	case TokenClass, TokenInterface, TokenEnum, TokenAbstract, TokenStatic:
		return p.parseTypeDecl(p.parseModifiers())
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeledStmt()
		}
	}
	if p.check(TokenRecord) && p.peekN(1).Kind == TokenIdent && p.peekN(2).Kind == TokenLParen {
		return p.parseTypeDecl(nil)
	}
	return p.parseLocalVarOrExprStmt()
}

func (p *Parser) parseLocalVarOrExprStmt() ast.NodeID {
	if p.isLocalVarDecl() {
		id := p.parseLocalVarDecl()
		p.expect(TokenSemicolon)
		return p.close(id)
	}
	return p.parseExprStmt()
}

// isLocalVarDecl looks ahead for `[modifiers] Type name`.
func (p *Parser) isLocalVarDecl() bool {
	save := p.pos
	defer func() { p.pos = save }()

	sawModifier := false
	for p.check(TokenFinal) || p.check(TokenAt) {
		sawModifier = true
		if p.check(TokenAt) {
			p.advance()
			p.parseQualifiedName()
			if p.check(TokenLParen) {
				p.skipBalanced(TokenLParen, TokenRParen)
			}
		} else {
			p.advance()
		}
	}
	if !p.skipType() {
		return false
	}
	return p.isIdentifierLike() || (sawModifier && p.check(TokenEOF))
}

// skipType advances over something shaped like a type and reports whether
// it found one.
func (p *Parser) skipType() bool {
	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		p.advance()
	default:
		if !p.isIdentifierLike() {
			return false
		}
		p.advance()
		for {
			if p.check(TokenLT) {
				if !p.skipTypeArguments() {
					return false
				}
			}
			if p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
				p.advanceN(2)
				continue
			}
			break
		}
	}
	for p.check(TokenLBracket) {
		if p.peekN(1).Kind != TokenRBracket {
			return false
		}
		p.advanceN(2)
	}
	return true
}

// skipTypeArguments consumes `<...>` and reports whether the brackets
// balanced before a token that cannot appear in a type.
func (p *Parser) skipTypeArguments() bool {
	if !p.check(TokenLT) {
		return false
	}
	p.advance()
	depth := 1
	for depth > 0 {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenIdent, TokenComma, TokenDot, TokenQuestion, TokenExtends, TokenSuper,
			TokenLBracket, TokenRBracket, TokenAt, TokenBitAnd,
			TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble:
		default:
			if !p.isIdentifierLike() {
				return false
			}
		}
		p.advance()
	}
	return depth == 0
}

// parseLocalVarDecl parses a declaration without its terminating semicolon.
func (p *Parser) parseLocalVarDecl() ast.NodeID {
	mods := p.parseModifiers()
	start := p.peek().Start
	if len(mods) > 0 {
		start = p.start(mods[0])
	}
	id := p.openAt(ast.KindLocalVarDecl, start)
	p.attachAll(id, ast.PropModifiers, mods)
	p.attach(id, ast.PropType, p.parseType())
	p.parseFragments(id)
	return p.close(id)
}

func (p *Parser) parseExprStmt() ast.NodeID {
	id := p.open(ast.KindExprStmt)
	p.attach(id, ast.PropExpression, p.parseExpression())
	p.expect(TokenSemicolon)
	return p.close(id)
}

func (p *Parser) parseCondition(id ast.NodeID) {
	p.expect(TokenLParen)
	p.attach(id, ast.PropExpression, p.parseExpression())
	p.expect(TokenRParen)
}

func (p *Parser) parseIfStmt() ast.NodeID {
	id := p.open(ast.KindIfStmt)
	p.expect(TokenIf)
	p.parseCondition(id)
	p.attach(id, ast.PropThenStatement, p.parseStatement())
	if p.check(TokenElse) {
		p.advance()
		p.attach(id, ast.PropElseStatement, p.parseStatement())
	}
	return p.close(id)
}

func (p *Parser) parseWhileStmt() ast.NodeID {
	id := p.open(ast.KindWhileStmt)
	p.expect(TokenWhile)
	p.parseCondition(id)
	p.attach(id, ast.PropBody, p.parseStatement())
	return p.close(id)
}

func (p *Parser) parseDoStmt() ast.NodeID {
	id := p.open(ast.KindDoStmt)
	p.expect(TokenDo)
	p.attach(id, ast.PropBody, p.parseStatement())
	p.expect(TokenWhile)
	p.parseCondition(id)
	p.expect(TokenSemicolon)
	return p.close(id)
}

func (p *Parser) parseForStmt() ast.NodeID {
	start := p.peek().Start
	p.expect(TokenFor)
	if p.isEnhancedFor() {
		id := p.openAt(ast.KindEnhancedForStmt, start)
		p.expect(TokenLParen)
		param := p.open(ast.KindParameter)
		p.attachAll(param, ast.PropModifiers, p.parseModifiers())
		p.attach(param, ast.PropType, p.parseType())
		if p.isIdentifierLike() {
			p.attach(param, ast.PropName, p.leaf(ast.KindName))
		} else {
			p.errorf("expected loop variable, found %s", p.peek().Kind)
		}
		p.attach(id, ast.PropParameter, p.close(param))
		p.expect(TokenColon)
		p.attach(id, ast.PropExpression, p.parseExpression())
		p.expect(TokenRParen)
		p.attach(id, ast.PropBody, p.parseStatement())
		return p.close(id)
	}

	id := p.openAt(ast.KindForStmt, start)
	p.expect(TokenLParen)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			p.attach(id, ast.PropInitializers, p.parseLocalVarDecl())
		} else {
			for _, e := range p.parseExpressionList(TokenSemicolon) {
				p.attach(id, ast.PropInitializers, e)
			}
		}
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenSemicolon) {
		p.attach(id, ast.PropExpression, p.parseExpression())
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenRParen) {
		for _, e := range p.parseExpressionList(TokenRParen) {
			p.attach(id, ast.PropUpdaters, e)
		}
	}
	p.expect(TokenRParen)
	p.attach(id, ast.PropBody, p.parseStatement())
	return p.close(id)
}

// isEnhancedFor scans the parenthesized header for a top-level colon.
func (p *Parser) isEnhancedFor() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.check(TokenLParen) {
		return false
	}
	p.advance()
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen, TokenLBracket, TokenLBrace:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if depth == 0 {
				return false
			}
			depth--
		case TokenSemicolon:
			return false
		case TokenColon:
			if depth == 0 {
				return true
			}
		}
		p.advance()
	}
	return false
}

func (p *Parser) parseExpressionList(end TokenKind) []ast.NodeID {
	var list []ast.NodeID
	for !p.check(end) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		list = append(list, p.parseExpression())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return list
}

// parseExprKeywordStmt handles return, throw and yield, which share the
// shape `keyword [expression];`.
func (p *Parser) parseExprKeywordStmt(kind ast.Kind) ast.NodeID {
	id := p.open(kind)
	p.advance()
	if !p.check(TokenSemicolon) {
		p.attach(id, ast.PropExpression, p.parseExpression())
	}
	p.expect(TokenSemicolon)
	return p.close(id)
}

func (p *Parser) parseJumpStmt(kind ast.Kind) ast.NodeID {
	id := p.open(kind)
	p.advance()
	if p.isIdentifierLike() {
		p.attach(id, ast.PropLabel, p.leaf(ast.KindName))
	}
	p.expect(TokenSemicolon)
	return p.close(id)
}

func (p *Parser) parseLabeledStmt() ast.NodeID {
	id := p.open(ast.KindLabeledStmt)
	p.attach(id, ast.PropLabel, p.leaf(ast.KindName))
	p.expect(TokenColon)
	p.attach(id, ast.PropBody, p.parseStatement())
	return p.close(id)
}

func (p *Parser) parseSynchronizedStmt() ast.NodeID {
	id := p.open(ast.KindSynchronizedStmt)
	p.expect(TokenSynchronized)
	p.parseCondition(id)
	p.attach(id, ast.PropBody, p.parseBlock())
	return p.close(id)
}

func (p *Parser) parseAssertStmt() ast.NodeID {
	id := p.open(ast.KindAssertStmt)
	p.expect(TokenAssert)
	p.attach(id, ast.PropExpression, p.parseExpression())
	if p.check(TokenColon) {
		p.advance()
		p.attach(id, ast.PropMessage, p.parseExpression())
	}
	p.expect(TokenSemicolon)
	return p.close(id)
}

func (p *Parser) parseTryStmt() ast.NodeID {
	id := p.open(ast.KindTryStmt)
	p.expect(TokenTry)
	if p.check(TokenLParen) {
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			if p.isLocalVarDecl() {
				p.attach(id, ast.PropResources, p.parseLocalVarDecl())
			} else {
				p.attach(id, ast.PropResources, p.parseExpression())
			}
			if p.check(TokenSemicolon) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
		p.expect(TokenRParen)
	}
	p.attach(id, ast.PropBody, p.parseBlock())
	for p.check(TokenCatch) {
		clause := p.open(ast.KindCatchClause)
		p.advance()
		p.expect(TokenLParen)
		param := p.open(ast.KindParameter)
		p.attachAll(param, ast.PropModifiers, p.parseModifiers())
		p.attach(param, ast.PropType, p.parseCatchType())
		if p.isIdentifierLike() {
			p.attach(param, ast.PropName, p.leaf(ast.KindName))
		}
		p.attach(clause, ast.PropParameter, p.close(param))
		p.expect(TokenRParen)
		p.attach(clause, ast.PropBody, p.parseBlock())
		p.attach(id, ast.PropCatchClauses, p.close(clause))
	}
	if p.check(TokenFinally) {
		p.advance()
		p.attach(id, ast.PropFinally, p.parseBlock())
	}
	return p.close(id)
}

// parseCatchType folds a union `A | B` into one SimpleType spanning it.
func (p *Parser) parseCatchType() ast.NodeID {
	start := p.peek().Start
	first := p.parseType()
	if !p.check(TokenBitOr) {
		return first
	}
	for p.check(TokenBitOr) {
		p.advance()
		p.parseType()
	}
	id := p.openAt(ast.KindSimpleType, start)
	p.close(id)
	n := p.tree.Node(id)
	n.Text = p.sourceText(n.Start, n.End)
	return id
}

// parseSwitch parses both switch statements and switch expressions; only
// the node kind differs.
func (p *Parser) parseSwitch(kind ast.Kind) ast.NodeID {
	id := p.open(kind)
	p.expect(TokenSwitch)
	p.parseCondition(id)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.attach(id, ast.PropCases, p.parseSwitchCase())
		if !progress() {
			continue
		}
	}
	p.expect(TokenRBrace)
	return p.close(id)
}

func (p *Parser) parseSwitchCase() ast.NodeID {
	id := p.open(ast.KindSwitchCase)
	label := "case"
	switch {
	case p.check(TokenDefault):
		p.advance()
		label = "default"
	case p.check(TokenCase):
		p.advance()
		for {
			progress := p.mustProgress()
			if p.check(TokenDefault) {
				p.advance()
			} else {
				p.attach(id, ast.PropExpressions, p.parseCaseLabel())
			}
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	default:
		p.errorf("expected case or default, found %s", p.peek().Kind)
		p.advance()
		return p.close(id)
	}

	if p.check(TokenArrow) {
		p.advance()
		p.tree.Node(id).Text = label + "->"
		switch {
		case p.check(TokenLBrace):
			p.attach(id, ast.PropStatements, p.parseBlock())
		case p.check(TokenThrow):
			p.attach(id, ast.PropStatements, p.parseExprKeywordStmt(ast.KindThrowStmt))
		default:
			p.attach(id, ast.PropStatements, p.parseExprStmt())
		}
		return p.close(id)
	}

	p.expect(TokenColon)
	p.tree.Node(id).Text = label + ":"
	for !p.match(TokenCase, TokenDefault, TokenRBrace, TokenEOF) {
		progress := p.mustProgress()
		p.attach(id, ast.PropStatements, p.parseStatement())
		if !progress() {
			break
		}
	}
	return p.close(id)
}

// parseCaseLabel accepts constants, qualified enum names and type patterns
// such as `String s`.
func (p *Parser) parseCaseLabel() ast.NodeID {
	if p.looksLikeTypePattern() {
		start := p.peek().Start
		id := p.openAt(ast.KindInstanceof, start)
		p.attach(id, ast.PropType, p.parseType())
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
		return p.close(id)
	}
	return p.parseTernaryExpr()
}

func (p *Parser) looksLikeTypePattern() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipType() {
		return false
	}
	return p.isIdentifierLike()
}
