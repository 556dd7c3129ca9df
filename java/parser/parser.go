package parser

import (
	"fmt"

	"github.com/dhamidi/jassist/java/ast"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxErrors stops recording syntax errors after n have been reported.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

type Parser struct {
	file      string
	input     []byte
	tokens    []Token
	pos       int
	tree      *ast.Tree
	errors    ErrorList
	maxErrors int
}

func newParser(src []byte, opts []Option) *Parser {
	p := &Parser{input: src, maxErrors: 100}
	for _, opt := range opts {
		opt(p)
	}
	p.tree = ast.NewTree(p.file, string(src))
	p.tokenize()
	return p
}

// Parse parses a compilation unit. The returned tree is never nil; err is
// an ErrorList when the input contained syntax errors.
func Parse(src []byte, opts ...Option) (*ast.Tree, error) {
	p := newParser(src, opts)
	root := p.parseCompilationUnit()
	p.tree.Root = root
	return p.tree, p.errors.Err()
}

// ParseExpression parses a single expression, used mainly by tests and the
// command line.
func ParseExpression(src []byte, opts ...Option) (*ast.Tree, error) {
	p := newParser(src, opts)
	root := p.parseExpression()
	if !p.check(TokenEOF) {
		p.errorf("unexpected %s after expression", p.peek().Kind)
	}
	p.tree.Root = root
	return p.tree, p.errors.Err()
}

func (p *Parser) tokenize() {
	lexer := NewLexer(p.input)
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenError:
			p.errorAt(tok.Start, fmt.Sprintf("unexpected character %q", tok.Literal))
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	p.errorf("expected %s, found %s", kind, p.peek().Kind)
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) isIdentifierLike() bool {
	return isIdentKind(p.peek().Kind)
}

// isIdentKind reports whether a token can serve as an identifier. Contextual
// keywords are only reserved in specific positions.
func isIdentKind(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenVar, TokenYield, TokenRecord, TokenSealed, TokenPermits:
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errorAt(p.peek().Start, fmt.Sprintf(format, args...))
}

func (p *Parser) errorAt(offset int, msg string) {
	if len(p.errors) >= p.maxErrors {
		return
	}
	if n := len(p.errors); n > 0 && p.errors[n-1].Offset == offset {
		return
	}
	p.errors = append(p.errors, &SyntaxError{File: p.file, Offset: offset, Message: msg})
}

// lastEnd is the end offset of the most recently consumed token.
func (p *Parser) lastEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].End
}

// open allocates a node starting at the next token.
func (p *Parser) open(kind ast.Kind) ast.NodeID {
	start := p.peek().Start
	return p.tree.Add(ast.Node{Kind: kind, Start: start, End: start})
}

// openAt allocates a node starting at an explicit offset, used when the
// first child was parsed before the node kind was known.
func (p *Parser) openAt(kind ast.Kind, start int) ast.NodeID {
	return p.tree.Add(ast.Node{Kind: kind, Start: start, End: start})
}

// close sets the end of id to the end of the last consumed token.
func (p *Parser) close(id ast.NodeID) ast.NodeID {
	n := p.tree.Node(id)
	if end := p.lastEnd(); end > n.Start {
		n.End = end
	}
	return id
}

// leaf consumes the next token as a node carrying its text.
func (p *Parser) leaf(kind ast.Kind) ast.NodeID {
	tok := p.advance()
	return p.tree.Add(ast.Node{Kind: kind, Text: tok.Literal, Start: tok.Start, End: tok.End})
}

func (p *Parser) attach(parent ast.NodeID, prop ast.Property, child ast.NodeID) {
	p.tree.Attach(parent, prop, child)
}

func (p *Parser) attachAll(parent ast.NodeID, prop ast.Property, children []ast.NodeID) {
	for _, c := range children {
		p.tree.Attach(parent, prop, c)
	}
}

func (p *Parser) start(id ast.NodeID) int {
	return p.tree.Node(id).Start
}

func (p *Parser) kind(id ast.NodeID) ast.Kind {
	return p.tree.Kind(id)
}

func (p *Parser) sourceText(start, end int) string {
	return string(p.input[start:end])
}

// errorNode records msg and returns an Error node covering the offending
// token. Closing delimiters are left in place for the enclosing rule.
func (p *Parser) errorNode(msg string) ast.NodeID {
	p.errorf("%s", msg)
	tok := p.peek()
	id := p.tree.Add(ast.Node{Kind: ast.KindError, Text: msg, Start: tok.Start, End: tok.Start})
	if !p.match(TokenSemicolon, TokenRParen, TokenRBrace, TokenRBracket, TokenEOF) {
		p.advance()
		p.tree.Node(id).End = tok.End
	}
	return id
}

func (p *Parser) parseCompilationUnit() ast.NodeID {
	cu := p.tree.Add(ast.Node{Kind: ast.KindCompilationUnit, Start: 0, End: len(p.input)})

	mods := p.parseModifiers()
	if p.check(TokenPackage) {
		start := p.peek().Start
		if len(mods) > 0 {
			start = p.start(mods[0])
		}
		id := p.openAt(ast.KindPackageDecl, start)
		p.advance()
		p.tree.Node(id).Text = p.parseQualifiedName()
		p.expect(TokenSemicolon)
		p.attach(cu, ast.PropPackage, p.close(id))
		mods = nil
	}

	for len(mods) == 0 && p.check(TokenImport) {
		id := p.open(ast.KindImportDecl)
		p.advance()
		name := ""
		if p.check(TokenStatic) {
			p.advance()
			name = "static "
		}
		name += p.parseQualifiedName()
		if p.check(TokenDot) && p.peekN(1).Kind == TokenStar {
			p.advanceN(2)
			name += ".*"
		}
		p.tree.Node(id).Text = name
		p.expect(TokenSemicolon)
		p.attach(cu, ast.PropImports, p.close(id))
	}

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		if len(mods) == 0 {
			mods = p.parseModifiers()
		}
		if p.isTypeDeclStart() {
			p.attach(cu, ast.PropTypes, p.parseTypeDecl(mods))
		} else {
			p.errorf("expected type declaration, found %s", p.peek().Kind)
		}
		mods = nil
		if !progress() {
			continue
		}
	}
	return cu
}

func (p *Parser) advanceN(n int) {
	for i := 0; i < n; i++ {
		p.advance()
	}
}

func (p *Parser) parseQualifiedName() string {
	name := ""
	if p.isIdentifierLike() {
		name = p.advance().Literal
	} else {
		p.errorf("expected identifier, found %s", p.peek().Kind)
		return name
	}
	for p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
		p.advance()
		name += "." + p.advance().Literal
	}
	return name
}

func (p *Parser) isTypeDeclStart() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenRecord:
		return p.peekN(1).Kind == TokenIdent
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	}
	return false
}

func isModifier(kind TokenKind) bool {
	switch kind {
	case TokenPublic, TokenProtected, TokenPrivate, TokenStatic, TokenAbstract,
		TokenFinal, TokenNative, TokenSynchronized, TokenTransient, TokenVolatile,
		TokenStrictfp, TokenDefault:
		return true
	}
	return false
}

// parseModifiers consumes keywords and annotations preceding a declaration.
// The nodes are returned detached so the caller can attach them to the
// declaration once its kind is known.
func (p *Parser) parseModifiers() []ast.NodeID {
	var mods []ast.NodeID
	for {
		switch {
		case p.check(TokenAt) && p.peekN(1).Kind != TokenInterface:
			mods = append(mods, p.parseAnnotation())
		case isModifier(p.peek().Kind):
			if p.check(TokenDefault) && (p.peekN(1).Kind == TokenColon || p.peekN(1).Kind == TokenArrow) {
				return mods
			}
			if p.check(TokenSynchronized) && p.peekN(1).Kind == TokenLParen {
				return mods
			}
			mods = append(mods, p.leaf(ast.KindModifier))
		case p.check(TokenSealed):
			mods = append(mods, p.leaf(ast.KindModifier))
		case p.check(TokenIdent) && p.peek().Literal == "non" && p.peekN(1).Kind == TokenMinus &&
			p.peekN(2).Kind == TokenSealed:
			start := p.peek().Start
			p.advanceN(3)
			mods = append(mods, p.tree.Add(ast.Node{Kind: ast.KindModifier, Text: "non-sealed", Start: start, End: p.lastEnd()}))
		default:
			return mods
		}
	}
}

// parseAnnotation keeps the annotation as an opaque modifier spanning its
// source text.
func (p *Parser) parseAnnotation() ast.NodeID {
	id := p.open(ast.KindModifier)
	p.expect(TokenAt)
	p.parseQualifiedName()
	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	p.close(id)
	n := p.tree.Node(id)
	n.Text = p.sourceText(n.Start, n.End)
	return id
}

// skipBalanced consumes a bracketed region including nested pairs.
func (p *Parser) skipBalanced(open, closing TokenKind) {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.advance()
		switch tok.Kind {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.errorf("unbalanced %s", open)
}

func (p *Parser) parseTypeDecl(mods []ast.NodeID) ast.NodeID {
	start := p.peek().Start
	if len(mods) > 0 {
		start = p.start(mods[0])
	}
	id := p.openAt(ast.KindTypeDecl, start)
	p.attachAll(id, ast.PropModifiers, mods)

	keyword := p.advance()
	if keyword.Kind == TokenAt {
		p.advance()
		p.tree.Node(id).Text = "@interface"
	} else {
		p.tree.Node(id).Text = keyword.Literal
	}

	if p.isIdentifierLike() {
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
	} else {
		p.errorf("expected type name, found %s", p.peek().Kind)
	}
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}
	if keyword.Kind == TokenRecord && p.check(TokenLParen) {
		p.attachAll(id, ast.PropParameters, p.parseParameters())
	}
	for p.match(TokenExtends, TokenImplements, TokenPermits) {
		p.advance()
		for {
			progress := p.mustProgress()
			p.attach(id, ast.PropSuperTypes, p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	p.parseClassBody(id, keyword.Kind == TokenEnum)
	return p.close(id)
}

func (p *Parser) parseClassBody(owner ast.NodeID, isEnum bool) {
	if !p.expect(TokenLBrace) {
		return
	}
	if isEnum {
		p.parseEnumConstants(owner)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		if member := p.parseClassMember(); member != ast.NoNode {
			p.attach(owner, ast.PropBodyDeclarations, member)
		}
		if !progress() {
			continue
		}
	}
	p.expect(TokenRBrace)
}

func (p *Parser) parseEnumConstants(owner ast.NodeID) {
	for !p.match(TokenSemicolon, TokenRBrace, TokenEOF) {
		progress := p.mustProgress()
		mods := p.parseModifiers()
		start := p.peek().Start
		if len(mods) > 0 {
			start = p.start(mods[0])
		}
		id := p.openAt(ast.KindEnumConstant, start)
		p.attachAll(id, ast.PropModifiers, mods)
		if p.isIdentifierLike() {
			p.attach(id, ast.PropName, p.leaf(ast.KindName))
		} else {
			p.errorf("expected enum constant, found %s", p.peek().Kind)
		}
		if p.check(TokenLParen) {
			p.attachAll(id, ast.PropArguments, p.parseArguments())
		}
		if p.check(TokenLBrace) {
			p.parseClassBody(id, false)
		}
		p.attach(owner, ast.PropEnumConstants, p.close(id))
		if p.check(TokenComma) {
			p.advance()
		} else if !progress() {
			break
		}
	}
	if p.check(TokenSemicolon) {
		p.advance()
	}
}

func (p *Parser) parseClassMember() ast.NodeID {
	if p.check(TokenLBrace) || (p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace) {
		id := p.open(ast.KindInitializer)
		if p.check(TokenStatic) {
			p.attach(id, ast.PropModifiers, p.leaf(ast.KindModifier))
		}
		p.attach(id, ast.PropBody, p.parseBlock())
		return p.close(id)
	}

	mods := p.parseModifiers()
	start := p.peek().Start
	if len(mods) > 0 {
		start = p.start(mods[0])
	}
	if p.isTypeDeclStart() {
		return p.parseTypeDecl(mods)
	}
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	// Constructor, or compact canonical constructor of a record.
	if p.isIdentifierLike() && (p.peekN(1).Kind == TokenLParen || p.peekN(1).Kind == TokenLBrace) {
		id := p.openAt(ast.KindMethodDecl, start)
		p.attachAll(id, ast.PropModifiers, mods)
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
		return p.parseMethodRest(id)
	}

	typ := p.parseType()
	if !p.isIdentifierLike() {
		p.errorf("expected member name, found %s", p.peek().Kind)
		return ast.NoNode
	}
	if p.peekN(1).Kind == TokenLParen {
		id := p.openAt(ast.KindMethodDecl, start)
		p.attachAll(id, ast.PropModifiers, mods)
		p.attach(id, ast.PropReturnType, typ)
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
		return p.parseMethodRest(id)
	}

	id := p.openAt(ast.KindFieldDecl, start)
	p.attachAll(id, ast.PropModifiers, mods)
	p.attach(id, ast.PropType, typ)
	p.parseFragments(id)
	p.expect(TokenSemicolon)
	return p.close(id)
}

func (p *Parser) parseMethodRest(id ast.NodeID) ast.NodeID {
	if p.check(TokenLParen) {
		p.attachAll(id, ast.PropParameters, p.parseParameters())
	}
	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}
	if p.check(TokenThrows) {
		p.advance()
		for {
			progress := p.mustProgress()
			p.attach(id, ast.PropThrown, p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}
	switch {
	case p.check(TokenLBrace):
		p.attach(id, ast.PropBody, p.parseBlock())
	case p.check(TokenDefault):
		// annotation element default value
		p.advance()
		p.parseElementValue()
		p.expect(TokenSemicolon)
	default:
		p.expect(TokenSemicolon)
	}
	return p.close(id)
}

func (p *Parser) parseElementValue() {
	switch {
	case p.check(TokenLBrace):
		p.skipBalanced(TokenLBrace, TokenRBrace)
	case p.check(TokenAt):
		p.parseAnnotation()
	default:
		p.parseExpression()
	}
}

func (p *Parser) parseParameters() []ast.NodeID {
	var params []ast.NodeID
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		params = append(params, p.parseParameter())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRParen)
	return params
}

func (p *Parser) parseParameter() ast.NodeID {
	mods := p.parseModifiers()
	start := p.peek().Start
	if len(mods) > 0 {
		start = p.start(mods[0])
	}
	id := p.openAt(ast.KindParameter, start)
	p.attachAll(id, ast.PropModifiers, mods)
	p.attach(id, ast.PropType, p.parseType())
	if p.check(TokenEllipsis) {
		p.advance()
		p.tree.Node(id).Text = "..."
	}
	switch {
	case p.isIdentifierLike():
		p.attach(id, ast.PropName, p.leaf(ast.KindName))
	case p.check(TokenThis):
		p.attach(id, ast.PropName, p.leaf(ast.KindThis))
	default:
		p.errorf("expected parameter name, found %s", p.peek().Kind)
	}
	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}
	return p.close(id)
}

// parseFragments parses `a = 1, b[] = {2}` into VarFragment children of
// owner.
func (p *Parser) parseFragments(owner ast.NodeID) {
	for {
		progress := p.mustProgress()
		frag := p.open(ast.KindVarFragment)
		if p.isIdentifierLike() {
			p.attach(frag, ast.PropName, p.leaf(ast.KindName))
		} else {
			p.errorf("expected variable name, found %s", p.peek().Kind)
		}
		dims := ""
		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
			dims += "[]"
		}
		p.tree.Node(frag).Text = dims
		if p.check(TokenAssign) {
			p.advance()
			p.attach(frag, ast.PropInitializer, p.parseVarInitializer())
		}
		p.attach(owner, ast.PropFragments, p.close(frag))
		if !p.check(TokenComma) {
			return
		}
		p.advance()
		if !progress() {
			return
		}
	}
}

func (p *Parser) parseVarInitializer() ast.NodeID {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() ast.NodeID {
	id := p.open(ast.KindArrayInit)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.attach(id, ast.PropExpressions, p.parseVarInitializer())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
	return p.close(id)
}
