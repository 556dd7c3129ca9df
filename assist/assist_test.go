package assist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/text"
)

// unit wraps statements into a method of class A. Each line is indented to
// the method body.
func unit(signature string, lines ...string) string {
	var b strings.Builder
	b.WriteString("class A {\n    " + signature + " {\n")
	for _, l := range lines {
		b.WriteString("        " + l + "\n")
	}
	b.WriteString("    }\n}\n")
	return b.String()
}

// request parses src after removing the selection markers « and ». Adjacent
// markers stand for a caret.
func request(t *testing.T, src string) *Context {
	t.Helper()
	start := strings.Index(src, "«")
	require.GreaterOrEqual(t, start, 0, "no selection start in %q", src)
	src = strings.Replace(src, "«", "", 1)
	end := strings.Index(src, "»")
	require.GreaterOrEqual(t, end, start, "no selection end in %q", src)
	src = strings.Replace(src, "»", "", 1)

	tree, err := parser.Parse([]byte(src), parser.WithFile("A.java"))
	require.NoError(t, err)
	return NewContext(tree, start, end-start)
}

func assists(t *testing.T, src string, opts ...Option) []*proposal.Proposal {
	t.Helper()
	props, err := NewProcessor(opts...).Assists(request(t, src), nil)
	require.NoError(t, err)
	return props
}

func labels(props []*proposal.Proposal) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Label()
	}
	return out
}

func find(t *testing.T, props []*proposal.Proposal, label string) *proposal.Proposal {
	t.Helper()
	for _, p := range props {
		if p.Label() == label {
			return p
		}
	}
	require.Failf(t, "missing proposal", "%q not in %q", label, labels(props))
	return nil
}

// apply commits p to a document holding its unit and returns the result.
func apply(t *testing.T, p *proposal.Proposal) (string, *proposal.LinkedModel) {
	t.Helper()
	doc := text.NewDocument("A.java", p.Unit().Source)
	model, err := p.Apply(doc)
	require.NoError(t, err)
	return doc.Content(), model
}

func TestScenarioIfElseReturnToConditional(t *testing.T) {
	src := unit("int f(int x)",
		"if («»x > 0) {",
		"    return 1;",
		"} else {",
		"    return 2;",
		"}")
	p := find(t, assists(t, src), "Replace 'if-else' with conditional")
	got, _ := apply(t, p)
	assert.Equal(t, unit("int f(int x)", "return x > 0 ? 1 : 2;"), got)
}

func TestScenarioJoinWithOuterIf(t *testing.T) {
	src := unit("void f()",
		"if (a) {",
		"    «»if (b) {",
		"        foo();",
		"    }",
		"}")
	p := find(t, assists(t, src), "Join with outer 'if'")
	got, _ := apply(t, p)
	assert.Equal(t, unit("void f()",
		"if (a && b) {",
		"    foo();",
		"}"), got)
}

func TestScenarioInvertIfContinue(t *testing.T) {
	src := unit("void f(int n)",
		"for (int i = 0; i < n; i++) {",
		"    if («»!cond) continue;",
		"    doWork();",
		"}")
	p := find(t, assists(t, src), "Invert 'if-continue'")
	got, _ := apply(t, p)
	assert.Equal(t, unit("void f(int n)",
		"for (int i = 0; i < n; i++) {",
		"    if (cond) {",
		"        doWork();",
		"    }",
		"}"), got)
}

func TestScenarioPickOutString(t *testing.T) {
	src := unit("void f()", `String s = "Hello, «World»!";`)
	p := find(t, assists(t, src), "Pick out selected part of String")
	got, model := apply(t, p)
	assert.Equal(t, unit("void f()", `String s = "Hello, " + "World" + "!";`), got)

	g := model.Group("center")
	require.NotNil(t, g)
	require.Len(t, g.Regions, 1)
	r := g.Regions[0]
	assert.True(t, r.First)
	assert.Equal(t, `"World"`, got[r.Offset:r.Offset+r.Length])
}

func TestScenarioCastAndAssign(t *testing.T) {
	src := unit("void f(Object obj)",
		"if (obj «»instanceof Foo) {",
		"    obj.bar();",
		"}")
	props := assists(t, src)
	p := find(t, props, "Introduce new local with casted type")
	assert.Equal(t, proposal.RelevanceCastAndAssign, p.Relevance())
	assert.Equal(t, proposal.ImageLocal, p.Image())
	assert.Equal(t, proposal.KindExtract, p.Kind())

	got, model := apply(t, p)
	assert.Equal(t, unit("void f(Object obj)",
		"if (obj instanceof Foo) {",
		"    Foo foo = (Foo) obj;",
		"    obj.bar();",
		"}"), got)

	name := model.Group("name")
	require.NotNil(t, name)
	require.Len(t, name.Regions, 1)
	assert.True(t, name.Regions[0].First)
	assert.Equal(t, "foo", got[name.Regions[0].Offset:name.Regions[0].Offset+name.Regions[0].Length])
	assert.Contains(t, name.Candidates, "foo")

	typ := model.Group("type")
	require.NotNil(t, typ)
	assert.Len(t, typ.Regions, 2)
	assert.True(t, model.Consistent(got))
}

func TestScenarioJoinWithOr(t *testing.T) {
	src := unit("void f()",
		"«if (a) foo();",
		"if (b) foo();»")
	p := find(t, assists(t, src), "Join 'if' statements with '||'")
	got, _ := apply(t, p)
	assert.Equal(t, unit("void f()", "if (a || b) foo();"), got)
}

func TestJoinWithOrNeedsIdenticalText(t *testing.T) {
	src := unit("void f()",
		"«if (a) foo();",
		"if (b) foo( );»")
	assert.NotContains(t, labels(assists(t, src)), "Join 'if' statements with '||'")
}

func TestInversionIsInvolutive(t *testing.T) {
	tests := []struct {
		expr     string
		inverted string
		twice    string
	}{
		{"a < b", "a >= b", "a < b"},
		{"a == b", "a != b", "a == b"},
		{"a < b && b > 0", "a >= b || b <= 0", "a < b && b > 0"},
		{"p || !q", "!p && q", "p || !q"},
		{"!(a > b)", "a > b", "a <= b"},
	}

	sig := "boolean f(int a, int b, boolean p, boolean q)"
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p := find(t, assists(t, unit(sig, "return «"+tt.expr+"»;")), "Invert conditions")
			once, _ := apply(t, p)
			require.Equal(t, unit(sig, "return "+tt.inverted+";"), once)

			p = find(t, assists(t, unit(sig, "return «"+tt.inverted+"»;")), "Invert conditions")
			twice, _ := apply(t, p)
			assert.Equal(t, unit(sig, "return "+tt.twice+";"), twice)
		})
	}
}

func TestParenthesesRoundTrip(t *testing.T) {
	sig := "boolean f(int a, int b, int c, int d)"
	p := find(t, assists(t, unit(sig, "return «(a < b) && (c == d)»;")), "Remove extra parentheses")
	stripped, _ := apply(t, p)
	require.Equal(t, unit(sig, "return a < b && c == d;"), stripped)

	p = find(t, assists(t, unit(sig, "return «a < b && c == d»;")), "Add parentheses for all conditions")
	restored, _ := apply(t, p)
	assert.Equal(t, unit(sig, "return (a < b) && (c == d);"), restored)
}

func TestLinkedGroupsAreConsistent(t *testing.T) {
	sources := []string{
		unit("void f(Object obj)", "if (obj «»instanceof Foo) obj.bar();"),
		unit("void f(Object o)", "while (o «»instanceof java.util.List<?> && ready()) {", "}"),
		unit("void f()", `String s = "«ab»c";`),
		unit("void f(int a)", "boolean «»found = a > 0;", "if (!found) found = a < 2;", "use(found);"),
	}
	for _, src := range sources {
		for _, p := range assists(t, src) {
			got, model := apply(t, p)
			assert.True(t, model.Consistent(got), "%s on %s", p.Label(), got)
		}
	}
}

func TestProbingDoesNotMutateTree(t *testing.T) {
	src := unit("int f(int x, boolean c, Object o)",
		"if (x > 0 && (c || o instanceof String)) {",
		"    return c ? 1 : 2;",
		"} else if (!(x < 3)) {",
		"    return \"a\".length() + (x * 2);",
		"}",
		"for (int i = 0; i < x; i++) {",
		"    if (i == 2) continue;",
		"    x += i;",
		"}",
		"return x;")
	tree, err := parser.Parse([]byte(src), parser.WithFile("A.java"))
	require.NoError(t, err)
	before := tree.Source
	snapshot := ast.Snapshot(tree)

	p := NewProcessor(WithConfig(&config.Config{Indent: "    ", EagerValidation: true}))
	for off := 0; off < len(src); off += 3 {
		c := NewContext(tree, off, 0)
		p.HasAssists(c)
		_, err := p.Assists(c, nil)
		require.NoError(t, err)
		c = NewContext(tree, off, min(7, len(src)-off))
		_, err = p.Assists(c, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, snapshot, ast.Snapshot(tree))
	assert.Equal(t, before, tree.Source)
}

func TestProposalKindsAndImages(t *testing.T) {
	tests := []struct {
		signature string
		input     string
		label     string
		kind      proposal.Kind
		image     proposal.Image
	}{
		{"void f(Object o)", "String s = «(String) o»;", "Put cast expression in parentheses", proposal.KindRewrite, proposal.ImageCast},
		{"void f(int a, int b)", "int x = a «»+ b;", "Put '+' expression in parentheses", proposal.KindRewrite, proposal.ImageChange},
		{"void f()", `String s = "a" «»+ "b";`, "Combine to single String", proposal.KindInline, proposal.ImageString},
		{"void f()", `String s = "a«b»c";`, "Pick out selected part of String", proposal.KindExtract, proposal.ImageString},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			p := find(t, assists(t, unit(tt.signature, tt.input)), tt.label)
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, tt.image, p.Image())
		})
	}
}
