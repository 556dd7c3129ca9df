// Package ast defines the arena-backed syntax tree consumed by the assist
// engine.
//
// # Overview
//
// A Tree owns every node of one compilation unit in a flat slice. Nodes are
// addressed by NodeID, an index into that slice, and never move once
// allocated. Each node records its byte range in the source, its parent and
// the structural Property of the parent it occupies.
//
//	Tree
//	 ├── nodes []Node            arena, index == NodeID
//	 ├── Source string            original text, never modified
//	 └── Root NodeID              the CompilationUnit
//
// # Structural properties
//
// Children live in named slots. A slot is either single-valued (the condition
// of an if statement) or list-valued (the statements of a block). List slots
// keep insertion order, which for statements is execution order.
//
//	if (x > 0) return 1; else return 2;
//
//	IfStmt
//	 ├── Expression     Infix(>)
//	 ├── ThenStatement  ReturnStmt
//	 └── ElseStatement  ReturnStmt
//
// # Kinds and operators
//
// Kind is a closed set of node variants. Infix, prefix, postfix and
// assignment nodes additionally carry an Operator. Precedence maps a node to
// the binding strength used when deciding whether parentheses are needed.
//
// # Selections
//
// CoveringNode finds the smallest node enclosing a selection and
// CoveredNodes returns the outermost nodes lying entirely inside it.
package ast
