package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/jassist/java/ast"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'a'", []TokenKind{TokenCharLiteral, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenLineComment, TokenWhitespace, TokenClass, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenWhitespace, TokenMinus, TokenWhitespace, TokenStar, TokenWhitespace, TokenSlash, TokenWhitespace, TokenPercent, TokenEOF}},
		{"==!=<=>=", []TokenKind{TokenEQ, TokenNE, TokenLE, TokenGE, TokenEOF}},
		{"&&||!", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{">>>=>>>", []TokenKind{TokenUShrAssign, TokenUShr, TokenEOF}},
		{"->::...", []TokenKind{TokenArrow, TokenColonColon, TokenEllipsis, TokenEOF}},
		{"\"\"\"\ntext\"\"\"", []TokenKind{TokenTextBlock, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input))
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				got = append(got, tok.Kind)
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.Kind
		op    ast.Operator
	}{
		{"42", ast.KindNumberLiteral, ast.OpNone},
		{"x", ast.KindName, ast.OpNone},
		{"x + y", ast.KindInfix, ast.OpPlus},
		{"x * y + z", ast.KindInfix, ast.OpPlus},
		{"a || b && c", ast.KindInfix, ast.OpConditionalOr},
		{"-x", ast.KindPrefix, ast.OpMinus},
		{"!x", ast.KindPrefix, ast.OpNot},
		{"x++", ast.KindPostfix, ast.OpIncrement},
		{"a ? b : c", ast.KindConditional, ast.OpNone},
		{"x = 5", ast.KindAssignment, ast.OpAssign},
		{"x >>>= 5", ast.KindAssignment, ast.OpRightShiftUnsignedAssign},
		{"(x)", ast.KindParen, ast.OpNone},
		{"obj.field", ast.KindFieldAccess, ast.OpNone},
		{"obj.method()", ast.KindMethodCall, ast.OpNone},
		{"foo(1, 2)", ast.KindMethodCall, ast.OpNone},
		{"arr[0]", ast.KindArrayAccess, ast.OpNone},
		{"new Foo()", ast.KindNew, ast.OpNone},
		{"new int[10]", ast.KindNewArray, ast.OpNone},
		{"new int[] {1, 2}", ast.KindNewArray, ast.OpNone},
		{"x -> x + 1", ast.KindLambda, ast.OpNone},
		{"(a, b) -> a + b", ast.KindLambda, ast.OpNone},
		{"obj::method", ast.KindMethodRef, ast.OpNone},
		{"x instanceof Foo", ast.KindInstanceof, ast.OpNone},
		{"x instanceof Foo f", ast.KindInstanceof, ast.OpNone},
		{"(int) x", ast.KindCast, ast.OpNone},
		{"(String) o", ast.KindCast, ast.OpNone},
		{"(a) - b", ast.KindInfix, ast.OpMinus},
		{"String.class", ast.KindClassLiteral, ast.OpNone},
		{"String[].class", ast.KindClassLiteral, ast.OpNone},
		{"int.class", ast.KindClassLiteral, ast.OpNone},
		{"\"a\" + \"b\"", ast.KindInfix, ast.OpPlus},
		{"a < b == c > d", ast.KindInfix, ast.OpEquals},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := ParseExpression([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			root := tree.Node(tree.Root)
			if root.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", root.Kind, tt.kind)
			}
			if root.Op != tt.op {
				t.Errorf("op = %v, want %v", root.Op, tt.op)
			}
			if root.Start != 0 || root.End != len(tt.input) {
				t.Errorf("range = [%d,%d), want [0,%d)", root.Start, root.End, len(tt.input))
			}
		})
	}
}

func TestParseLeftAssociativeChain(t *testing.T) {
	tree, err := ParseExpression([]byte("a && b && c"))
	if err != nil {
		t.Fatal(err)
	}
	ops := ast.Operands(tree, tree.Root)
	var names []string
	for _, id := range ops {
		names = append(names, tree.Text(id))
	}
	if got := strings.Join(names, ","); got != "a,b,c" {
		t.Errorf("operands = %s, want a,b,c", got)
	}
	left := tree.Child(tree.Root, ast.PropLeftOperand)
	if tree.Text(left) != "a && b" {
		t.Errorf("left operand = %q, want %q", tree.Text(left), "a && b")
	}
}

func TestParseCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty class", "class Foo {}"},
		{"class with package", "package com.example;\nclass Foo {}"},
		{"class with import", "import java.util.List;\nimport static java.lang.Math.*;\nclass Foo {}"},
		{"class with field", "class Foo { private int x = 1, y[]; }"},
		{"class with method", "class Foo { void bar() {} }"},
		{"class with constructor", "class Foo { Foo(int a) { this(a, 0); } }"},
		{"generic field", "class Foo { Map<String, List<Integer>> m = new HashMap<>(); }"},
		{"interface", "interface Foo { void bar(); default int baz() { return 1; } }"},
		{"enum", "enum Color { RED, GREEN(1) { void x() {} }; int v; }"},
		{"record", "record Point(int x, int y) { Point { if (x < 0) throw new IllegalArgumentException(); } }"},
		{"annotations", "@Deprecated public class Foo { @Override public String toString() { return \"\"; } }"},
		{"varargs", "class Foo { void f(String... args) {} }"},
		{"throws", "class Foo { void f() throws IOException, RuntimeException {} }"},
		{"static init", "class Foo { static { x = 1; } { y = 2; } }"},
		{"generic method", "class Foo { <T extends Comparable<T>> T max(List<? extends T> xs) { return null; } }"},
		{"statements", `class Foo { void f(int[] xs) {
	int n = 0;
	for (int i = 0, j = 1; i < xs.length; i++, j--) n += xs[i];
	for (final int x : xs) { if (x > 0) continue; else break; }
	while (n > 0) n--;
	do { n++; } while (n < 10);
	switch (n) { case 1: case 2: n = 3; break; default: n = 4; }
	int k = switch (n) { case 1, 2 -> 3; default -> { yield 4; } };
	try (var r = open()) { r.read(); } catch (IOException | RuntimeException e) { throw e; } finally { close(); }
	synchronized (this) { n = 1; }
	outer: for (;;) { break outer; }
	assert n > 0 : "positive";
	Runnable r = () -> {};
	java.util.function.Function<String, Integer> f = String::length;
	Object o = (Comparable<String> & java.io.Serializable) null;
	class Local {}
}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse([]byte(tt.input), WithFile("Foo.java"))
			if err != nil {
				t.Fatalf("unexpected error: %v\n%s", err, tree)
			}
			if tree.Kind(tree.Root) != ast.KindCompilationUnit {
				t.Fatalf("root kind = %v", tree.Kind(tree.Root))
			}
			if len(tree.ChildList(tree.Root, ast.PropTypes)) != 1 {
				t.Errorf("expected one type declaration\n%s", tree)
			}
		})
	}
}

func TestParseIfStructure(t *testing.T) {
	src := "class A { int f(int x) { if (x > 0) { return 1; } else { return 2; } } }"
	tree, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	var ifID ast.NodeID = ast.NoNode
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if tree.Kind(id) == ast.KindIfStmt {
			ifID = id
		}
		return true
	})
	if ifID == ast.NoNode {
		t.Fatal("no if statement found")
	}
	if got := tree.Text(tree.Child(ifID, ast.PropExpression)); got != "x > 0" {
		t.Errorf("condition = %q", got)
	}
	if got := tree.Text(tree.Child(ifID, ast.PropThenStatement)); got != "{ return 1; }" {
		t.Errorf("then = %q", got)
	}
	if got := tree.Text(tree.Child(ifID, ast.PropElseStatement)); got != "{ return 2; }" {
		t.Errorf("else = %q", got)
	}
	if got := tree.Text(ifID); !strings.HasPrefix(got, "if (") || !strings.HasSuffix(got, "}") {
		t.Errorf("if range = %q", got)
	}
	cond := tree.Node(tree.Child(ifID, ast.PropExpression))
	if cond.Parent != ifID || cond.Loc != ast.PropExpression {
		t.Errorf("condition parent/location = %d/%v", cond.Parent, cond.Loc)
	}
}

func TestParseErrorsAreCollected(t *testing.T) {
	src := "class A { void f() { int x = ; foo(); } }"
	tree, err := Parse([]byte(src), WithFile("A.java"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var list ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		t.Fatalf("error is %T, want ErrorList", err)
	}
	if !strings.HasPrefix(list[0].Error(), "A.java:") {
		t.Errorf("error = %q, want file prefix", list[0].Error())
	}
	found := false
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if tree.Kind(id) == ast.KindMethodCall && tree.Text(id) == "foo()" {
			found = true
		}
		return true
	})
	if !found {
		t.Error("parser did not recover to parse foo()")
	}
}

func TestMaxErrors(t *testing.T) {
	src := []byte("class A { void f() { int x = ; int y = ; int z = ; } }")
	count := func(opts ...Option) int {
		_, err := Parse(src, opts...)
		var list ErrorList
		if !errors.As(err, &list) {
			t.Fatalf("error is %T, want ErrorList", err)
		}
		return len(list)
	}
	all := count()
	if limited := count(WithMaxErrors(1)); limited != 1 || all < limited {
		t.Errorf("errors = %d with limit 1 and %d without", limited, all)
	}
}

func TestGenericsSplitShiftTokens(t *testing.T) {
	src := "class A { List<List<String>> a; Map<String, List<List<Integer>>> b; }"
	tree, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	var types []string
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if tree.Kind(id) == ast.KindFieldDecl {
			types = append(types, tree.Text(tree.Child(id, ast.PropType)))
		}
		return true
	})
	want := []string{"List<List<String>>", "Map<String, List<List<Integer>>>"}
	if strings.Join(types, "|") != strings.Join(want, "|") {
		t.Errorf("types = %q, want %q", types, want)
	}
}
