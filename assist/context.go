// Package assist computes the quick assists available at a selection of a
// Java compilation unit.
//
// Every rule is a plain function from an invocation Context to the
// proposals it offers. Rules never touch the tree; the rewrite behind each
// proposal is built lazily, so asking whether any assist exists is as cheap
// as evaluating the patterns.
package assist

import (
	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/binding"
	"github.com/dhamidi/jassist/naming"
)

// ProblemLocation is a compiler diagnostic reported alongside an assist
// request. Only IsError decides whether assists are offered.
type ProblemLocation struct {
	Offset    int
	Length    int
	IsError   bool
	ProblemID int
	Arguments []string
}

// Context is one assist request: a tree and a selection inside it.
type Context struct {
	Tree     *ast.Tree
	Resolver *binding.Resolver
	Offset   int
	Length   int

	names    naming.Suggester
	config   *config.Config
	covering ast.NodeID
	covered  []ast.NodeID
}

// NewContext prepares a request for the selection [offset, offset+length)
// of tree.
func NewContext(tree *ast.Tree, offset, length int) *Context {
	if length < 0 {
		offset, length = offset+length, -length
	}
	c := &Context{
		Tree:     tree,
		Resolver: binding.New(tree),
		Offset:   offset,
		Length:   length,
		names:    naming.Default{},
		config:   config.Default(),
	}
	c.covering = ast.CoveringNode(tree, offset, length)
	c.covered = ast.CoveredNodes(tree, c.covering, offset, length)
	return c
}

// CoveringNode is the smallest node containing the selection.
func (c *Context) CoveringNode() ast.NodeID {
	return c.covering
}

// CoveredNodes are the outermost nodes lying entirely inside the selection.
// A caret covers nothing.
func (c *Context) CoveredNodes() []ast.NodeID {
	return c.covered
}

func (c *Context) node(id ast.NodeID) *ast.Node {
	return c.Tree.Node(id)
}

func (c *Context) kind(id ast.NodeID) ast.Kind {
	return c.Tree.Kind(id)
}

func (c *Context) child(id ast.NodeID, p ast.Property) ast.NodeID {
	return c.Tree.Child(id, p)
}

func (c *Context) text(id ast.NodeID) string {
	return c.Tree.Text(id)
}

// isBoolean reports whether id is a boolean expression, judged by its
// shape first and by its resolved type otherwise.
func (c *Context) isBoolean(id ast.NodeID) bool {
	n := c.node(id)
	if n == nil || !n.Kind.IsExpression() {
		return false
	}
	switch n.Kind {
	case ast.KindInstanceof, ast.KindBooleanLiteral:
		return true
	case ast.KindInfix:
		if n.Op.IsRelational() || n.Op.IsEquality() || n.Op == ast.OpConditionalAnd || n.Op == ast.OpConditionalOr {
			return true
		}
	case ast.KindPrefix:
		if n.Op == ast.OpNot {
			return true
		}
	case ast.KindParen:
		return c.isBoolean(n.Child(ast.PropExpression))
	}
	return c.Resolver.TypeOf(id).IsBoolean()
}

// variableNames asks the naming oracle for candidates. A failing oracle
// falls back to the default suggestions.
func (c *Context) variableNames(typeName string, exclude []string) (names []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("naming %s: %v", typeName, r)
			names = naming.Default{}.VariableNames(typeName, exclude)
		}
	}()
	names = c.names.VariableNames(typeName, exclude)
	if len(names) == 0 {
		names = naming.Default{}.VariableNames(typeName, exclude)
	}
	return names
}

// namesInScope returns the spelling of every name used in the body that
// encloses id, so new variables do not shadow or clash with them.
func (c *Context) namesInScope(id ast.NodeID) []string {
	scope := c.Resolver.EnclosingBody(id)
	if scope == ast.NoNode {
		scope = c.Tree.Root
	}
	seen := make(map[string]bool)
	var names []string
	ast.Inspect(c.Tree, scope, func(n ast.NodeID) bool {
		if c.kind(n) == ast.KindName && !seen[c.node(n).Text] {
			seen[c.node(n).Text] = true
			names = append(names, c.node(n).Text)
		}
		return true
	})
	return names
}

// coveringIf returns the if statement the caret is on: the covering node
// itself or the if whose condition contains it.
func (c *Context) coveringIf() ast.NodeID {
	return c.coveringStatement(ast.KindIfStmt)
}

func (c *Context) coveringStatement(kinds ...ast.Kind) ast.NodeID {
	for cur := c.covering; cur != ast.NoNode; cur = c.Tree.Parent(cur) {
		k := c.kind(cur)
		for _, want := range kinds {
			if k == want {
				return cur
			}
		}
		if !k.IsExpression() && !k.IsType() {
			return ast.NoNode
		}
	}
	return ast.NoNode
}
