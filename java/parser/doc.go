// Package parser turns Java source text into an ast.Tree.
//
// # Overview
//
// The parser is a hand-written recursive descent parser over a token slice
// produced by the Lexer. Whitespace and comments are dropped from the token
// stream but stay in the tree's Source, so every node's byte range can be
// sliced back out of the original text unchanged.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │ (ast.Tree)  │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// # Usage
//
//	tree, err := parser.Parse([]byte(src), parser.WithFile("Foo.java"))
//	if err != nil {
//	    // tree is still usable; err is an ErrorList
//	}
//
// # Error tolerance
//
// Syntax errors never stop the parse. Each one is recorded in an ErrorList
// and the parser resynchronizes at the next token that can continue the
// enclosing construct. Callers that edit live buffers get a usable tree for
// everything outside the broken region.
//
// # Coverage
//
// Declarations (classes, interfaces, enums, records, fields, methods,
// constructors, initializers), all statements, and the full expression
// grammar including lambdas, method references, switch expressions and
// instanceof patterns are represented. Annotations and type parameters are
// kept as source text only.
package parser
