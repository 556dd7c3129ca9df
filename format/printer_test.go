package format

import (
	"strings"
	"testing"

	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
)

// Helper function to parse a Java expression and print it back
func formatExpr(t *testing.T, input string) string {
	t.Helper()
	tree, err := parser.ParseExpression([]byte(input))
	if err != nil {
		t.Fatalf("parse error for input %q: %v", input, err)
	}
	return NewPrinter(tree).Print(tree.Root)
}

// formatStmt parses body as the statements of a method and prints the
// first one.
func formatStmt(t *testing.T, body string) string {
	t.Helper()
	src := "class A { void f() {\n" + body + "\n} }"
	tree, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error for %q: %v", body, err)
	}
	var stmt ast.NodeID = ast.NoNode
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if stmt != ast.NoNode {
			return false
		}
		if tree.Kind(id) == ast.KindMethodDecl {
			block := tree.Child(id, ast.PropBody)
			stmt = tree.ChildList(block, ast.PropStatements)[0]
			return false
		}
		return true
	})
	return NewPrinter(tree).Print(stmt)
}

func TestPrintExpr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"addition", "a + b", "a + b"},
		{"mixed precedence", "a + b * c", "a + b * c"},
		{"parens kept", "(a + b) * c", "(a + b) * c"},
		{"not", "!(a && b)", "!(a && b)"},
		{"double negation", "-(-x)", "-(-x)"},
		{"postfix", "i++", "i++"},
		{"compound assignment", "x += 1", "x += 1"},
		{"conditional", "a ? b : c", "a ? b : c"},
		{"instanceof pattern", "o instanceof String s", "o instanceof String s"},
		{"cast", "(String) o", "(String) o"},
		{"call", "foo.bar(1, 2)", "foo.bar(1, 2)"},
		{"unqualified call", "bar()", "bar()"},
		{"field", "this.x", "this.x"},
		{"array access", "a[i + 1]", "a[i + 1]"},
		{"new", "new Foo(a)", "new Foo(a)"},
		{"generic new", "new ArrayList<String>()", "new ArrayList<String>()"},
		{"new array", "new int[] {1, 2}", "new int[] {1, 2}"},
		{"sized array", "new int[n][]", "new int[n][]"},
		{"lambda", "x -> x + 1", "x -> x + 1"},
		{"lambda parens", "(a, b) -> a", "(a, b) -> a"},
		{"method ref", "String::length", "String::length"},
		{"class literal", "int.class", "int.class"},
		{"string", `"a" + "b"`, `"a" + "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatExpr(t, tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPrintStatement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "if else blocks",
			input:    "if (a) { x(); } else { y(); }",
			expected: "if (a) {\n    x();\n} else {\n    y();\n}",
		},
		{
			name:     "if with statement branches",
			input:    "if (a) return; else b();",
			expected: "if (a) return;\nelse b();",
		},
		{
			name:     "else if",
			input:    "if (a) { x(); } else if (b) { y(); }",
			expected: "if (a) {\n    x();\n} else if (b) {\n    y();\n}",
		},
		{
			name:     "empty block",
			input:    "if (a) {}",
			expected: "if (a) {\n}",
		},
		{
			name:     "local variable",
			input:    "final int x = 1, y[] = {2};",
			expected: "final int x = 1, y[] = {2};",
		},
		{
			name:     "for",
			input:    "for (int i = 0; i < n; i++) sum += i;",
			expected: "for (int i = 0; i < n; i++)\n    sum += i;",
		},
		{
			name:     "enhanced for",
			input:    "for (String s : list) { use(s); }",
			expected: "for (String s : list) {\n    use(s);\n}",
		},
		{
			name:     "while",
			input:    "while (x > 0) { x--; }",
			expected: "while (x > 0) {\n    x--;\n}",
		},
		{
			name:     "nested blocks",
			input:    "{ if (a) { continue; } }",
			expected: "{\n    if (a) {\n        continue;\n    }\n}",
		},
		{
			name:     "return",
			input:    "return a && b;",
			expected: "return a && b;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStmt(t, tt.input); got != tt.expected {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.expected)
			}
		})
	}
}

// builder assembles small detached trees for the parenthesization tests.
type builder struct {
	tree *ast.Tree
}

func (b *builder) name(text string) ast.NodeID {
	return b.tree.Add(ast.Node{Kind: ast.KindName, Text: text})
}

func (b *builder) infix(op ast.Operator, left, right ast.NodeID) ast.NodeID {
	id := b.tree.Add(ast.Node{Kind: ast.KindInfix, Op: op})
	b.tree.Attach(id, ast.PropLeftOperand, left)
	b.tree.Attach(id, ast.PropRightOperand, right)
	return id
}

func (b *builder) prefix(op ast.Operator, operand ast.NodeID) ast.NodeID {
	id := b.tree.Add(ast.Node{Kind: ast.KindPrefix, Op: op})
	b.tree.Attach(id, ast.PropOperand, operand)
	return id
}

func (b *builder) conditional(cond, then, els ast.NodeID) ast.NodeID {
	id := b.tree.Add(ast.Node{Kind: ast.KindConditional})
	b.tree.Attach(id, ast.PropExpression, cond)
	b.tree.Attach(id, ast.PropThenExpression, then)
	b.tree.Attach(id, ast.PropElseExpression, els)
	return id
}

func TestParenthesesSafetyNet(t *testing.T) {
	b := &builder{tree: ast.NewTree("", "")}

	tests := []struct {
		name     string
		id       ast.NodeID
		expected string
	}{
		{"not over and", b.prefix(ast.OpNot, b.infix(ast.OpConditionalAnd, b.name("a"), b.name("b"))), "!(a && b)"},
		{"right subtraction", b.infix(ast.OpMinus, b.name("a"), b.infix(ast.OpMinus, b.name("b"), b.name("c"))), "a - (b - c)"},
		{"left subtraction", b.infix(ast.OpMinus, b.infix(ast.OpMinus, b.name("a"), b.name("b")), b.name("c")), "a - b - c"},
		{"associative and", b.infix(ast.OpConditionalAnd, b.name("a"), b.infix(ast.OpConditionalAnd, b.name("b"), b.name("c"))), "a && b && c"},
		{"or inside and", b.infix(ast.OpConditionalAnd, b.infix(ast.OpConditionalOr, b.name("a"), b.name("b")), b.name("c")), "(a || b) && c"},
		{"conditional operand", b.infix(ast.OpPlus, b.name("s"), b.conditional(b.name("c"), b.name("x"), b.name("y"))), "s + (c ? x : y)"},
		{"nested negation", b.prefix(ast.OpMinus, b.prefix(ast.OpMinus, b.name("x"))), "-(-x)"},
		{"not over not", b.prefix(ast.OpNot, b.prefix(ast.OpNot, b.name("x"))), "!!x"},
		{"conditional condition", b.conditional(b.conditional(b.name("a"), b.name("b"), b.name("c")), b.name("x"), b.name("y")), "(a ? b : c) ? x : y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPrinter(b.tree).Print(tt.id); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSourceHookAndSpans(t *testing.T) {
	b := &builder{tree: ast.NewTree("", "")}
	verbatim := b.name("placeholder")
	block := b.tree.Add(ast.Node{Kind: ast.KindBlock})
	stmt := b.tree.Add(ast.Node{Kind: ast.KindExprStmt})
	b.tree.Attach(stmt, ast.PropExpression, verbatim)
	b.tree.Attach(block, ast.PropStatements, stmt)

	p := NewPrinter(b.tree,
		WithBaseIndent("  "),
		WithIndentUnit("\t"),
		WithSource(func(id ast.NodeID) (string, bool) {
			if id == verbatim {
				return "call(\n    arg)", true
			}
			return "", false
		}),
	)
	got := p.Print(block)
	want := "{\n  \tcall(\n  \t    arg);\n  }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	span := p.Spans()[verbatim]
	if text := got[span.Start:span.End]; !strings.HasPrefix(text, "call(") || !strings.HasSuffix(text, "arg)") {
		t.Errorf("span covers %q", text)
	}
	if span := p.Spans()[block]; span.Start != 0 || span.End != len(got) {
		t.Errorf("block span = %+v, want [0,%d)", span, len(got))
	}
}
