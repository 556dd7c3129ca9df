// Package binding answers name and type questions about a parsed compilation
// unit: which declaration a simple name refers to, what static type an
// expression has, and where a variable is referenced.
//
// Resolution is local to one file. Names declared elsewhere resolve to
// NoNode and their expressions to the zero Type; callers treat both as "not
// applicable" rather than guessing.
package binding

import (
	"strings"
	"sync"

	"github.com/dhamidi/jassist/java/ast"
)

// Resolver resolves names and types over one tree. It is safe for
// concurrent use.
type Resolver struct {
	tree *ast.Tree

	mu    sync.Mutex
	decls map[ast.NodeID]ast.NodeID
}

func New(tree *ast.Tree) *Resolver {
	return &Resolver{tree: tree, decls: make(map[ast.NodeID]ast.NodeID)}
}

func (r *Resolver) Tree() *ast.Tree {
	return r.tree
}

// Declaration returns the node declaring the variable that the Name node id
// refers to: a VarFragment, Parameter, Instanceof pattern or EnumConstant.
// A declaring name resolves to its own declaration. Member names in field
// accesses and method calls are not variables and resolve to NoNode.
func (r *Resolver) Declaration(id ast.NodeID) ast.NodeID {
	r.mu.Lock()
	if d, ok := r.decls[id]; ok {
		r.mu.Unlock()
		return d
	}
	r.mu.Unlock()

	d := r.findDeclaration(id)

	r.mu.Lock()
	r.decls[id] = d
	r.mu.Unlock()
	return d
}

func (r *Resolver) findDeclaration(id ast.NodeID) ast.NodeID {
	t := r.tree
	n := t.Node(id)
	if n == nil || n.Kind != ast.KindName {
		return ast.NoNode
	}
	parent := t.Node(n.Parent)
	if parent == nil {
		return ast.NoNode
	}
	switch n.Loc {
	case ast.PropLabel:
		return ast.NoNode
	case ast.PropName:
		switch parent.Kind {
		case ast.KindVarFragment, ast.KindParameter, ast.KindInstanceof, ast.KindEnumConstant:
			return n.Parent
		}
		return ast.NoNode
	}

	name := n.Text
	prev := id
	for cur := n.Parent; cur != ast.NoNode; prev, cur = cur, t.Parent(cur) {
		if d := r.declaredIn(cur, prev, name, n.Start); d != ast.NoNode {
			return d
		}
	}
	return ast.NoNode
}

// declaredIn looks for a declaration of name that is visible from a use at
// offset use, given that the use lies inside child `from` of scope.
func (r *Resolver) declaredIn(scope, from ast.NodeID, name string, use int) ast.NodeID {
	t := r.tree
	switch t.Kind(scope) {
	case ast.KindBlock, ast.KindSwitchCase:
		found := ast.NoNode
		for _, stmt := range t.ChildList(scope, ast.PropStatements) {
			if t.Node(stmt).Start >= use {
				break
			}
			if t.Kind(stmt) == ast.KindLocalVarDecl && stmt != from {
				if d := r.fragmentNamed(stmt, name); d != ast.NoNode {
					found = d
				}
			}
		}
		return found

	case ast.KindLocalVarDecl, ast.KindFieldDecl:
		for _, frag := range t.ChildList(scope, ast.PropFragments) {
			if frag == from {
				break
			}
			if r.nameOf(frag) == name {
				return frag
			}
		}

	case ast.KindForStmt:
		for _, init := range t.ChildList(scope, ast.PropInitializers) {
			if init == from {
				break
			}
			if t.Kind(init) == ast.KindLocalVarDecl {
				if d := r.fragmentNamed(init, name); d != ast.NoNode {
					return d
				}
			}
		}

	case ast.KindEnhancedForStmt:
		if t.Node(from).Loc == ast.PropBody {
			return r.paramNamed(t.Child(scope, ast.PropParameter), name)
		}

	case ast.KindCatchClause:
		return r.paramNamed(t.Child(scope, ast.PropParameter), name)

	case ast.KindTryStmt:
		found := ast.NoNode
		for _, res := range t.ChildList(scope, ast.PropResources) {
			if res == from || t.Node(res).Start >= use {
				break
			}
			if t.Kind(res) == ast.KindLocalVarDecl {
				if d := r.fragmentNamed(res, name); d != ast.NoNode {
					found = d
				}
			}
		}
		return found

	case ast.KindLambda:
		for _, p := range t.ChildList(scope, ast.PropParameters) {
			if d := r.paramNamed(p, name); d != ast.NoNode {
				return d
			}
		}
		return r.patternNamed(scope, name, use)

	case ast.KindMethodDecl:
		for _, p := range t.ChildList(scope, ast.PropParameters) {
			if d := r.paramNamed(p, name); d != ast.NoNode {
				return d
			}
		}
		return r.patternNamed(scope, name, use)

	case ast.KindInitializer:
		return r.patternNamed(scope, name, use)

	case ast.KindTypeDecl:
		for _, decl := range t.ChildList(scope, ast.PropBodyDeclarations) {
			if t.Kind(decl) == ast.KindFieldDecl {
				if d := r.fragmentNamed(decl, name); d != ast.NoNode {
					return d
				}
			}
		}
		for _, p := range t.ChildList(scope, ast.PropParameters) {
			if d := r.paramNamed(p, name); d != ast.NoNode {
				return d
			}
		}
		for _, c := range t.ChildList(scope, ast.PropEnumConstants) {
			if r.nameOf(c) == name {
				return c
			}
		}
	}
	return ast.NoNode
}

// patternNamed finds an instanceof pattern variable declared before use
// anywhere in body. Flow scoping is approximated by source order.
func (r *Resolver) patternNamed(body ast.NodeID, name string, use int) ast.NodeID {
	t := r.tree
	found := ast.NoNode
	ast.Inspect(t, body, func(id ast.NodeID) bool {
		n := t.Node(id)
		if n.Start >= use {
			return false
		}
		if n.Kind == ast.KindInstanceof && n.End <= use && r.nameOf(id) == name {
			found = id
		}
		return true
	})
	return found
}

func (r *Resolver) fragmentNamed(decl ast.NodeID, name string) ast.NodeID {
	for _, frag := range r.tree.ChildList(decl, ast.PropFragments) {
		if r.nameOf(frag) == name {
			return frag
		}
	}
	return ast.NoNode
}

func (r *Resolver) paramNamed(param ast.NodeID, name string) ast.NodeID {
	if param != ast.NoNode && r.nameOf(param) == name {
		return param
	}
	return ast.NoNode
}

func (r *Resolver) nameOf(id ast.NodeID) string {
	n := r.tree.Node(r.tree.Child(id, ast.PropName))
	if n == nil || n.Kind != ast.KindName {
		return ""
	}
	return n.Text
}

// References returns every Name node that resolves to decl, excluding the
// declaring name itself, in document order.
func (r *Resolver) References(decl ast.NodeID) []ast.NodeID {
	t := r.tree
	if decl == ast.NoNode {
		return nil
	}
	scope := ast.Ancestor(t, decl, ast.KindMethodDecl, ast.KindLambda, ast.KindInitializer)
	if k := t.Kind(decl); k == ast.KindEnumConstant || t.Kind(t.Parent(decl)) == ast.KindFieldDecl || t.Kind(t.Parent(decl)) == ast.KindTypeDecl {
		scope = t.Root
	}
	if scope == ast.NoNode {
		scope = t.Root
	}
	self := t.Child(decl, ast.PropName)
	var refs []ast.NodeID
	ast.Inspect(t, scope, func(id ast.NodeID) bool {
		if id != self && t.Kind(id) == ast.KindName && r.Declaration(id) == decl {
			refs = append(refs, id)
		}
		return true
	})
	return refs
}

// EnclosingBody returns the nearest method, lambda or initializer containing
// id.
func (r *Resolver) EnclosingBody(id ast.NodeID) ast.NodeID {
	return ast.Ancestor(r.tree, id, ast.KindMethodDecl, ast.KindLambda, ast.KindInitializer)
}

// ReturnType returns the declared return type of a method. Constructors and
// initializers return void. Lambdas are unknown.
func (r *Resolver) ReturnType(body ast.NodeID) Type {
	t := r.tree
	switch t.Kind(body) {
	case ast.KindMethodDecl:
		rt := t.Child(body, ast.PropReturnType)
		if rt == ast.NoNode {
			return Type{Name: "void"}
		}
		return typeText(t, rt)
	case ast.KindInitializer:
		return Type{Name: "void"}
	}
	return Unknown
}

// DeclaredType returns the type a declaration gives its variable.
func (r *Resolver) DeclaredType(decl ast.NodeID) Type {
	t := r.tree
	n := t.Node(decl)
	if n == nil {
		return Unknown
	}
	switch n.Kind {
	case ast.KindVarFragment:
		typ := typeText(t, t.Child(n.Parent, ast.PropType))
		if typ.Name == "var" {
			return r.TypeOf(n.Child(ast.PropInitializer))
		}
		if typ.IsZero() {
			return Unknown
		}
		return Type{Name: typ.Name + n.Text}
	case ast.KindParameter:
		typ := typeText(t, n.Child(ast.PropType))
		if typ.IsZero() || typ.Name == "var" {
			return Unknown
		}
		if n.Text == "..." {
			return Type{Name: typ.Name + "[]"}
		}
		return typ
	case ast.KindInstanceof:
		return typeText(t, n.Child(ast.PropType))
	case ast.KindEnumConstant:
		return Type{Name: r.nameOf(n.Parent)}
	}
	return Unknown
}

func typeText(t *ast.Tree, id ast.NodeID) Type {
	if id == ast.NoNode {
		return Unknown
	}
	return Type{Name: strings.Join(strings.Fields(t.Text(id)), " ")}
}
