package binding

import (
	"strings"
	"testing"

	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
)

const source = `class Foo {
    private int count;
    String label;
    boolean ready() { return count > 0; }
    void run(int[] xs, String... names) {
        int n = 0, m = n + 1;
        long big = 1L;
        for (int i = 0; i < xs.length; i++) {
            n += xs[i];
        }
        for (String s : names) {
            label = s + n;
        }
        Object o = label;
        if (o instanceof String str && !str.isEmpty()) {
            label = str;
        }
        var copy = label;
        boolean flag = ready() && this.count != m;
        double d = big * 2.0;
        char c = label.charAt(0);
        try {
            n = 1;
        } catch (RuntimeException e) {
            label = e.getMessage();
        }
    }
}`

func parse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tree
}

// findExpr returns the first node whose source text is text, searching in
// document order but skipping nodes that start before offset.
func findExpr(t *testing.T, tree *ast.Tree, text string, after string) ast.NodeID {
	t.Helper()
	from := 0
	if after != "" {
		from = strings.Index(tree.Source, after)
		if from < 0 {
			t.Fatalf("marker %q not found", after)
		}
	}
	found := ast.NoNode
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if found != ast.NoNode {
			return false
		}
		n := tree.Node(id)
		if n.Start >= from && tree.Text(id) == text && n.Kind.IsExpression() {
			found = id
			return false
		}
		return true
	})
	if found == ast.NoNode {
		t.Fatalf("expression %q not found after %q", text, after)
	}
	return found
}

func TestTypeOf(t *testing.T) {
	tree := parse(t, source)
	r := New(tree)

	tests := []struct {
		expr  string
		after string
		want  string
	}{
		{"count > 0", "", "boolean"},
		{"count", "return", "int"},
		{"n + 1", "", "int"},
		{"1L", "", "long"},
		{"xs.length", "", "int"},
		{"xs[i]", "", "int"},
		{"xs", "n +=", "int[]"},
		{"s + n", "", "String"},
		{"names", "String s :", "String[]"},
		{"s", "label = ", "String"},
		{"str", "label = str", "String"},
		{"copy", "var ", ""},
		{"ready()", "boolean flag", "boolean"},
		{"this.count", "", "int"},
		{"big * 2.0", "", "double"},
		{"label.charAt(0)", "", "char"},
		{"e", "label = e", "RuntimeException"},
		{"o instanceof String str", "", "boolean"},
		{"!str.isEmpty()", "", "boolean"},
		{"undefinedThing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if tt.expr == "undefinedThing" {
				tree := parse(t, "class A { void f() { g(undefinedThing); } }")
				r := New(tree)
				id := findExpr(t, tree, tt.expr, "")
				if got := r.TypeOf(id); !got.IsZero() {
					t.Errorf("TypeOf(%s) = %v, want unresolved", tt.expr, got)
				}
				return
			}
			if tt.expr == "copy" {
				// `var copy = label` infers String from its initializer
				id := findExpr(t, tree, "label", "var copy")
				frag := tree.Parent(id)
				if got := r.DeclaredType(frag); got.Name != "String" {
					t.Errorf("DeclaredType(var copy) = %v, want String", got)
				}
				return
			}
			id := findExpr(t, tree, tt.expr, tt.after)
			if got := r.TypeOf(id); got.Name != tt.want {
				t.Errorf("TypeOf(%s) = %q, want %q", tt.expr, got.Name, tt.want)
			}
		})
	}
}

func TestDeclarationScoping(t *testing.T) {
	src := `class A {
    int x;
    void f(int y) {
        int z = x + y;
        {
            int x = 2;
            z = x;
        }
        z = x;
    }
}`
	tree := parse(t, src)
	r := New(tree)

	inner := findExpr(t, tree, "x", "z = x;")
	decl := r.Declaration(inner)
	if tree.Kind(decl) != ast.KindVarFragment || tree.Kind(tree.Parent(decl)) != ast.KindLocalVarDecl {
		t.Errorf("inner x resolves to %v, want local fragment", tree.Kind(decl))
	}

	// the second `z = x;` is outside the nested block and sees the field
	second := strings.LastIndex(src, "z = x;")
	var outer ast.NodeID = ast.NoNode
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		n := tree.Node(id)
		if n.Kind == ast.KindName && n.Text == "x" && n.Start == second+4 {
			outer = id
		}
		return true
	})
	if outer == ast.NoNode {
		t.Fatal("outer x not found")
	}
	decl = r.Declaration(outer)
	if tree.Kind(tree.Parent(decl)) != ast.KindFieldDecl {
		t.Errorf("outer x resolves to parent %v, want FieldDecl", tree.Kind(tree.Parent(decl)))
	}

	y := findExpr(t, tree, "y", "x + y")
	if tree.Kind(r.Declaration(y)) != ast.KindParameter {
		t.Errorf("y does not resolve to the parameter")
	}
}

func TestReferences(t *testing.T) {
	src := "class A { void f() { int a = 1; int b = a + a; a = b; } }"
	tree := parse(t, src)
	r := New(tree)

	use := findExpr(t, tree, "a", "int b")
	decl := r.Declaration(use)
	refs := r.References(decl)
	if len(refs) != 3 {
		t.Fatalf("found %d references to a, want 3", len(refs))
	}
	for _, ref := range refs {
		if tree.Text(ref) != "a" {
			t.Errorf("reference %q is not a", tree.Text(ref))
		}
	}
}

func TestReturnType(t *testing.T) {
	tree := parse(t, "class A { A() { } void f() { } int g() { return 1; } }")
	r := New(tree)
	var got []string
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if tree.Kind(id) == ast.KindMethodDecl {
			got = append(got, r.ReturnType(id).Name)
		}
		return true
	})
	if strings.Join(got, ",") != "void,void,int" {
		t.Errorf("return types = %v", got)
	}
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		typ                                   Type
		boolean, str, numeric, integral, array bool
	}{
		{Type{Name: "boolean"}, true, false, false, false, false},
		{Type{Name: "Boolean"}, true, false, false, false, false},
		{Type{Name: "String"}, false, true, false, false, false},
		{Type{Name: "java.lang.String"}, false, true, false, false, false},
		{Type{Name: "int"}, false, false, true, true, false},
		{Type{Name: "Integer"}, false, false, true, true, false},
		{Type{Name: "double"}, false, false, true, false, false},
		{Type{Name: "int[]"}, false, false, false, false, true},
		{Unknown, false, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if tt.typ.IsBoolean() != tt.boolean {
				t.Errorf("IsBoolean = %v", !tt.boolean)
			}
			if tt.typ.IsString() != tt.str {
				t.Errorf("IsString = %v", !tt.str)
			}
			if tt.typ.IsNumeric() != tt.numeric {
				t.Errorf("IsNumeric = %v", !tt.numeric)
			}
			if tt.typ.IsIntegral() != tt.integral {
				t.Errorf("IsIntegral = %v", !tt.integral)
			}
			if tt.typ.IsArray() != tt.array {
				t.Errorf("IsArray = %v", !tt.array)
			}
		})
	}

	if got := promote(Type{Name: "short"}, Type{Name: "char"}); got != Int {
		t.Errorf("promote(short, char) = %v, want int", got)
	}
	if got := promote(Int, Type{Name: "Long"}); got != Long {
		t.Errorf("promote(int, Long) = %v, want long", got)
	}
	if got := (Type{Name: "List<String>[]"}).Erasure(); got.Name != "List[]" {
		t.Errorf("Erasure = %v", got)
	}
}
