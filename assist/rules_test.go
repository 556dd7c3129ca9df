package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		input     []string
		label     string
		expected  []string
	}{
		{
			name:      "inverse if",
			signature: "void f(boolean a)",
			input:     []string{"if («»a) {", "    x();", "} else {", "    y();", "}"},
			label:     "Invert 'if' statement",
			expected:  []string{"if (!a) {", "    y();", "} else {", "    x();", "}"},
		},
		{
			name:      "inverse if with comparison",
			signature: "void f(int a)",
			input:     []string{"if («»a < 3) x();", "else y();"},
			label:     "Invert 'if' statement",
			expected:  []string{"if (a >= 3) y();", "else x();"},
		},
		{
			name:      "if return into if else",
			signature: "void f(boolean a)",
			input:     []string{"if («»a) {", "    x();", "    return;", "}", "y();"},
			label:     "Convert to 'if-else'",
			expected:  []string{"if (a) {", "    x();", "} else {", "    y();", "}"},
		},
		{
			name:      "inverse if to continue",
			signature: "void f(int n)",
			input:     []string{"while (n > 0) {", "    n--;", "    if («»n == 5) {", "        log(n);", "    }", "}"},
			label:     "Invert 'if' and 'continue'",
			expected:  []string{"while (n > 0) {", "    n--;", "    if (n != 5) continue;", "    log(n);", "}"},
		},
		{
			name:      "inverse conditions",
			signature: "void f(int a, int b)",
			input:     []string{"if («a < b && b > 0») {", "    x();", "}"},
			label:     "Invert conditions",
			expected:  []string{"if (a >= b || b <= 0) {", "    x();", "}"},
		},
		{
			name:      "remove extra parentheses",
			signature: "void f(int a, int b, int c)",
			input:     []string{"int x = «(a * b)» + c;"},
			label:     "Remove extra parentheses",
			expected:  []string{"int x = a * b + c;"},
		},
		{
			name:      "collapse stacked parentheses",
			signature: "void f(int a, int b, int c)",
			input:     []string{"int x = «((a + b))» * c;"},
			label:     "Remove extra parentheses",
			expected:  []string{"int x = (a + b) * c;"},
		},
		{
			name:      "add paranoiac parentheses",
			signature: "void f(int a, int b, int c, int d, boolean e)",
			input:     []string{"boolean r = «a < b && c == d || e»;"},
			label:     "Add parentheses for all conditions",
			expected:  []string{"boolean r = ((a < b) && (c == d)) || e;"},
		},
		{
			name:      "add parentheses",
			signature: "void f(int a, int b, int c)",
			input:     []string{"int x = a + «»b * c;"},
			label:     "Put '*' expression in parentheses",
			expected:  []string{"int x = a + (b * c);"},
		},
		{
			name:      "join with inner if",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"«»if (a) {", "    if (b || c) {", "        foo();", "    }", "}"},
			label:     "Join with inner 'if'",
			expected:  []string{"if (a && (b || c)) {", "    foo();", "}"},
		},
		{
			name:      "split and condition",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"if (a «»&& b) {", "    foo();", "}"},
			label:     "Split && condition",
			expected:  []string{"if (a) {", "    if (b) {", "        foo();", "    }", "}"},
		},
		{
			name:      "split or condition",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"if (a «»|| b) foo();"},
			label:     "Split || condition",
			expected:  []string{"if (a) foo();", "else if (b) foo();"},
		},
		{
			name:      "split or condition with else",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"if (a || b «»|| c) {", "    foo();", "} else {", "    bar();", "}"},
			label:     "Split || condition",
			expected: []string{"if (a || b) {", "    foo();", "} else if (c) {", "    foo();", "} else {", "    bar();", "}"},
		},
		{
			name:      "split or condition around nested if",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"if (a «»|| b) if (c) x();"},
			label:     "Split || condition",
			expected:  []string{"if (a) {", "    if (c) x();", "} else if (b) if (c) x();"},
		},
		{
			name:      "inverse conditional expression",
			signature: "void f(int a)",
			input:     []string{"int x = «»a > 0 ? 1 : 2;"},
			label:     "Invert conditional expression",
			expected:  []string{"int x = a <= 0 ? 2 : 1;"},
		},
		{
			name:      "exchange inner and outer if",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"if («»a) {", "    if (b) {", "        foo();", "    }", "}"},
			label:     "Exchange inner and outer 'if' conditions",
			expected:  []string{"if (b) {", "    if (a) {", "        foo();", "    }", "}"},
		},
		{
			name:      "exchange operands",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"boolean r = a && b «»&& c;"},
			label:     "Exchange left and right operands for '&&'",
			expected:  []string{"boolean r = c && a && b;"},
		},
		{
			name:      "exchange integral product",
			signature: "void f(int a, int b, int c)",
			input:     []string{"int r = a * b «»* c;"},
			label:     "Exchange left and right operands for '*'",
			expected:  []string{"int r = c * a * b;"},
		},
		{
			name:      "exchange floating product",
			signature: "void f(double a, double b, double c)",
			input:     []string{"double r = a * b «»* c;"},
			label:     "Exchange left and right operands for '*'",
			expected:  []string{"double r = c * (a * b);"},
		},
		{
			name:      "exchange equality chain",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"boolean r = a == b «»== c;"},
			label:     "Exchange left and right operands for '=='",
			expected:  []string{"boolean r = c == (a == b);"},
		},
		{
			name:      "exchange numeric sum",
			signature: "void f(int a, int b)",
			input:     []string{"int r = a «»+ b;"},
			label:     "Exchange left and right operands for '+'",
			expected:  []string{"int r = b + a;"},
		},
		{
			name:      "cast and assign without block",
			signature: "void f(Object o)",
			input:     []string{"if (o «»instanceof String && ready()) use(o);"},
			label:     "Introduce new local with casted type",
			expected:  []string{"if (o instanceof String && ready()) {", "    String string = (String) o;", "    use(o);", "}"},
		},
		{
			name:      "combine strings",
			signature: "void f()",
			input:     []string{`String s = "a" «»+ "b" + "c";`},
			label:     "Combine to single String",
			expected:  []string{`String s = "abc";`},
		},
		{
			name:      "pick out string prefix",
			signature: "void f()",
			input:     []string{`String s = "«Hello», World";`},
			label:     "Pick out selected part of String",
			expected:  []string{`String s = "Hello" + ", World";`},
		},
		{
			name:      "if else into conditional assignment",
			signature: "void f(boolean c)",
			input:     []string{"int x;", "if («»c) {", "    x = 1;", "} else {", "    x = 2;", "}"},
			label:     "Replace 'if-else' with conditional",
			expected:  []string{"int x;", "x = c ? 1 : 2;"},
		},
		{
			name:      "conditional assignment into if else",
			signature: "void f(boolean c)",
			input:     []string{"int x;", "x = «»c ? 1 : 2;"},
			label:     "Replace conditional with 'if-else'",
			expected:  []string{"int x;", "if (c) {", "    x = 1;", "} else {", "    x = 2;", "}"},
		},
		{
			name:      "conditional return into if else",
			signature: "int f(boolean c)",
			input:     []string{"return «»c ? 1 : 2;"},
			label:     "Replace conditional with 'if-else'",
			expected:  []string{"if (c) {", "    return 1;", "} else {", "    return 1;", "}"},
		},
		{
			name:      "conditional declaration into if else",
			signature: "void f(boolean c)",
			input:     []string{"int x = «»c ? 1 : 2;", "use(x);"},
			label:     "Replace conditional with 'if-else'",
			expected:  []string{"int x;", "if (c) {", "    x = 1;", "} else {", "    x = 2;", "}", "use(x);"},
		},
		{
			name:      "inverse boolean variable",
			signature: "void f(int a)",
			input:     []string{"boolean «»found = a > 0;", "if (found) {", "    x();", "}", "found = !found;"},
			label:     "Inverse boolean variable",
			expected:  []string{"boolean notFound = a <= 0;", "if (!notFound) {", "    x();", "}", "notFound = !notFound;"},
		},
		{
			name:      "inverse boolean variable compound assignment",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"boolean «»ok = a;", "ok &= b;", "use(!ok);"},
			label:     "Inverse boolean variable",
			expected:  []string{"boolean notOk = !a;", "notOk |= !b;", "use(notOk);"},
		},
		{
			name:      "push negation down",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"boolean r = «»!(a && b);"},
			label:     "Push negation down",
			expected:  []string{"boolean r = !a || !b;"},
		},
		{
			name:      "pull negation up",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"boolean r = «a && b»;"},
			label:     "Pull negation up",
			expected:  []string{"boolean r = !(!a || !b);"},
		},
		{
			name:      "join if sequence",
			signature: "void f(boolean a, boolean b)",
			input:     []string{"«if (a) x();", "if (b) y();»"},
			label:     "Join 'if' sequence in 'if-else-if'",
			expected:  []string{"if (a) x();", "else if (b) y();"},
		},
		{
			name:      "join if sequence around nested if",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"«if (a) if (c) x();", "if (b) y();»"},
			label:     "Join 'if' sequence in 'if-else-if'",
			expected:  []string{"if (a) {", "    if (c) x();", "} else if (b) y();"},
		},
		{
			name:      "join if sequence after loop",
			signature: "void f(boolean a, boolean b, boolean c)",
			input:     []string{"«if (a) while (c) if (c) x();", "if (b) y();»"},
			label:     "Join 'if' sequence in 'if-else-if'",
			expected:  []string{"if (a) {", "    while (c) if (c) x();", "} else if (b) y();"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := find(t, assists(t, unit(tt.signature, tt.input...)), tt.label)
			got, _ := apply(t, p)
			assert.Equal(t, unit(tt.signature, tt.expected...), got)
		})
	}
}

func TestRulesDoNotApply(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		input     []string
		label     string
	}{
		{"inverse if without else", "void f(boolean a)", []string{"if («»a) x();"}, "Invert 'if' statement"},
		{"if return in non-void method", "int f(boolean a)", []string{"if («»a) {", "    return;", "}", "return 1;"}, "Convert to 'if-else'"},
		{"continue outside loop body", "void f(boolean a)", []string{"if («»a) continue;", "x();"}, "Invert 'if-continue'"},
		{"labelled continue", "void f(boolean a)", []string{"outer: while (a) {", "    if («»a) continue outer;", "    x();", "}"}, "Invert 'if-continue'"},
		{"needed parentheses", "void f(int a, int b, int c)", []string{"int x = «(a + b)» * c;"}, "Remove extra parentheses"},
		{"string concatenation parentheses", "void f(String s, int a, int b)", []string{"String x = s + «(a + b)»;"}, "Remove extra parentheses"},
		{"join with else", "void f(boolean a, boolean b)", []string{"if (a) {", "    «»if (b) x();", "    else y();", "}"}, "Join with outer 'if'"},
		{"cast receiver parentheses", "void f(Object o)", []string{"String s = «((String) o)».trim();"}, "Remove extra parentheses"},
		{"subtracted difference", "void f(int a, int b, int c)", []string{"int x = a - «(b - c)»;"}, "Remove extra parentheses"},
		{"divided product", "void f(int a, int b, int c)", []string{"int x = a / «(b * c)»;"}, "Remove extra parentheses"},
		{"relational operands", "void f(int a, int b)", []string{"boolean r = a «»< b;"}, "Exchange left and right operands for '<'"},
		{"not equals operands", "void f(int a, int b)", []string{"boolean r = a «»!= b;"}, "Exchange left and right operands for '!='"},
		{"string sum is not exchanged", "void f(String a, String b)", []string{"String r = a «»+ b;"}, "Exchange left and right operands for '+'"},
		{"pattern instanceof", "void f(Object o)", []string{"if (o «»instanceof String s) use(s);"}, "Introduce new local with casted type"},
		{"instanceof under or", "void f(Object o, boolean b)", []string{"if (o «»instanceof String || b) use(o);"}, "Introduce new local with casted type"},
		{"whole string content", "void f()", []string{`String s = "«abc»";`}, "Pick out selected part of String"},
		{"split escape", "void f()", []string{`String s = "a\«n»b";`}, "Pick out selected part of String"},
		{"mixed concatenation", "void f(int a)", []string{`String s = "a" «»+ a;`}, "Combine to single String"},
		{"different assignment targets", "void f(boolean c)", []string{"int x, y;", "if («»c) {", "    x = 1;", "} else {", "    y = 2;", "}"}, "Replace 'if-else' with conditional"},
		{"var declaration", "void f(boolean c)", []string{"var x = «»c ? 1 : 2;"}, "Replace conditional with 'if-else'"},
		{"boxed boolean variable", "void f()", []string{"Boolean «»b = true;"}, "Inverse boolean variable"},
		{"negated instanceof", "void f(Object o)", []string{"boolean r = «»!(o instanceof String);"}, "Push negation down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := assists(t, unit(tt.signature, tt.input...))
			assert.NotContains(t, labels(props), tt.label)
		})
	}
}
