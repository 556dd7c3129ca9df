package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

var ifElse = unit("void f(boolean a)",
	"if («»a) {",
	"    x();",
	"} else {",
	"    y();",
	"}")

func TestErrorProblemsSuppressAssists(t *testing.T) {
	tests := []struct {
		name     string
		problems []ProblemLocation
		want     bool
	}{
		{"no problems", nil, true},
		{"warning only", []ProblemLocation{{Offset: 3, Length: 1, ProblemID: 7}}, true},
		{"one error", []ProblemLocation{{Offset: 3, Length: 1}, {Offset: 9, IsError: true}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := NewProcessor().Assists(request(t, ifElse), tt.problems)
			require.NoError(t, err)
			assert.Equal(t, tt.want, len(props) > 0)
		})
	}
}

func TestAssistsWithoutTree(t *testing.T) {
	_, err := NewProcessor().Assists(&Context{}, nil)
	assert.ErrorIs(t, err, ErrNoTree)
	assert.False(t, NewProcessor().HasAssists(nil))
}

func TestProposalsFollowRuleOrder(t *testing.T) {
	props := assists(t, ifElse)
	order := make(map[string]int)
	for i, r := range DefaultRules() {
		order[r.ID] = i
	}
	ids := map[string]string{
		"Invert 'if' statement":              RuleInverseIf,
		"Replace 'if-else' with conditional": RuleReplaceIfElseWithConditional,
	}
	last := -1
	for _, p := range props {
		id, ok := ids[p.Label()]
		if !ok {
			continue
		}
		assert.Greater(t, order[id], last, "%s out of order", p.Label())
		last = order[id]
	}
	assert.Contains(t, labels(props), "Invert 'if' statement")
}

func TestDisabledRulesAreSkipped(t *testing.T) {
	cfg := config.Default()
	cfg.Disabled = []string{RuleInverseIf}
	props := assists(t, ifElse, WithConfig(cfg))
	assert.NotContains(t, labels(props), "Invert 'if' statement")
}

func TestRelevanceOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Relevance = map[string]int{RuleInverseIf: 42}
	p := find(t, assists(t, ifElse, WithConfig(cfg)), "Invert 'if' statement")
	assert.Equal(t, 42, p.Relevance())

	p = find(t, assists(t, ifElse), "Invert 'if' statement")
	assert.Equal(t, proposal.RelevanceInverseIf, p.Relevance())
}

func TestConditionalReturnCompat(t *testing.T) {
	sig := "int f(boolean c)"
	src := unit(sig, "return «»c ? 1 : 2;")
	cfg := config.Default()
	cfg.Compat.ConditionalReturnElseBranch = true
	p := find(t, assists(t, src, WithConfig(cfg)), "Replace conditional with 'if-else'")
	got, _ := apply(t, p)
	assert.Equal(t, unit(sig, "if (c) {", "    return 1;", "} else {", "    return 2;", "}"), got)
}

func TestIndentFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Indent = "\t"
	src := "class A {\n\tvoid f(boolean a, boolean b) {\n\t\tif (a «»&& b) {\n\t\t\tfoo();\n\t\t}\n\t}\n}\n"
	p := find(t, assists(t, src, WithConfig(cfg)), "Split && condition")
	got, _ := apply(t, p)
	assert.Equal(t, "class A {\n\tvoid f(boolean a, boolean b) {\n\t\tif (a) {\n\t\t\tif (b) {\n\t\t\t\tfoo();\n\t\t\t}\n\t\t}\n\t}\n}\n", got)
}

func TestPanickingRuleIsIsolated(t *testing.T) {
	boom := Rule{ID: "boom", Apply: func(*Context) []*proposal.Proposal {
		panic("boom")
	}}
	rules := append([]Rule{boom}, DefaultRules()...)
	p := NewProcessor(WithRules(rules...))

	c := request(t, ifElse)
	props, err := p.Assists(c, nil)
	require.NoError(t, err)
	assert.Contains(t, labels(props), "Invert 'if' statement")
	assert.True(t, p.HasAssists(c))
}

// brokenBuild proposes a rewrite whose construction panics.
func brokenBuild(c *Context) []*proposal.Proposal {
	return one(c.propose("Broken", 1, proposal.ImageChange, func(*rewrite.Builder, *proposal.Links) {
		panic("cannot build")
	}))
}

func TestFailingRewriteIsDroppedWhenValidatingEagerly(t *testing.T) {
	rules := []Rule{{ID: "broken", Apply: brokenBuild}}

	props := assists(t, ifElse, WithRules(rules...))
	assert.Empty(t, props)

	cfg := config.Default()
	cfg.EagerValidation = false
	props = assists(t, ifElse, WithRules(rules...), WithConfig(cfg))
	require.Len(t, props, 1)
	_, err := props[0].Edit()
	assert.ErrorIs(t, err, ErrRulePanic)
}

// garble replaces the covering if condition with unbalanced text.
func garble(c *Context) []*proposal.Proposal {
	ifStmt := c.coveringIf()
	if ifStmt == ast.NoNode {
		return nil
	}
	cond := c.child(ifStmt, ast.PropExpression)
	return one(c.propose("Garble", 1, proposal.ImageChange, func(b *rewrite.Builder, _ *proposal.Links) {
		b.Replace(cond, b.NewName("a) {"))
	}))
}

func TestVerifyDropsBrokenResults(t *testing.T) {
	rules := []Rule{{ID: "garble", Apply: garble}, {ID: RuleInverseIf, Apply: inverseIf}}

	cfg := config.Default()
	cfg.Verify = true
	props := assists(t, ifElse, WithRules(rules...), WithConfig(cfg))
	assert.Equal(t, []string{"Invert 'if' statement"}, labels(props))

	props = assists(t, ifElse, WithRules(rules...))
	assert.Equal(t, []string{"Garble", "Invert 'if' statement"}, labels(props))
}

type fixedNames []string

func (f fixedNames) VariableNames(string, []string) []string {
	return f
}

func TestSuggesterNamesNewLocal(t *testing.T) {
	sig := "void f(Object obj)"
	src := unit(sig, "if (obj «»instanceof Foo) {", "    obj.bar();", "}")
	p := find(t, assists(t, src, WithSuggester(fixedNames{"theFoo", "f"})), "Introduce new local with casted type")
	got, model := apply(t, p)
	assert.Equal(t, unit(sig, "if (obj instanceof Foo) {", "    Foo theFoo = (Foo) obj;", "    obj.bar();", "}"), got)
	assert.Equal(t, []string{"theFoo", "f"}, model.Group("name").Candidates)
}

func TestHasAssists(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"if statement", ifElse, true},
		{"plain call", unit("void f()", "fo«»o();"), false},
		{"class name", "class «»A {\n}\n", false},
	}
	p := NewProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.HasAssists(request(t, tt.src)))
		})
	}
}
