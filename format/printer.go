// Package format renders syntax trees back to Java source text.
//
// The Printer is used for nodes that have no source text yet, such as the
// nodes a rewrite creates. Existing subtrees reached from those nodes can be
// emitted verbatim through a Source hook so that untouched code keeps its
// original spelling and comments.
package format

import (
	"strings"

	"github.com/dhamidi/jassist/java/ast"
)

// Source supplies the text of a node that must not be re-synthesized. The
// returned text has the indentation of its first line removed from every
// following line; the printer re-indents it to the current level.
type Source func(id ast.NodeID) (string, bool)

// Span is a half-open byte range of printed output.
type Span struct {
	Start int
	End   int
}

type Printer struct {
	arena       ast.Arena
	source      Source
	buf         strings.Builder
	indent      int
	indentStr   string
	baseIndent  string
	atLineStart bool
	spans       map[ast.NodeID]Span
}

type Option func(*Printer)

// WithIndentUnit sets the string used for one level of indentation.
func WithIndentUnit(unit string) Option {
	return func(p *Printer) {
		p.indentStr = unit
	}
}

// WithBaseIndent sets the indentation of the line the output starts on.
// Continuation lines are indented relative to it.
func WithBaseIndent(base string) Option {
	return func(p *Printer) {
		p.baseIndent = base
	}
}

func WithSource(src Source) Option {
	return func(p *Printer) {
		p.source = src
	}
}

func NewPrinter(arena ast.Arena, opts ...Option) *Printer {
	p := &Printer{
		arena:     arena,
		indentStr: "    ",
		spans:     make(map[ast.NodeID]Span),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print renders the subtree at id. The first line is not indented; the
// caller places it after existing indentation.
func (p *Printer) Print(id ast.NodeID) string {
	p.buf.Reset()
	p.indent = 0
	p.atLineStart = false
	clear(p.spans)
	p.printNode(id)
	return p.buf.String()
}

// Spans returns the output range of every node printed by the last call to
// Print, including nodes emitted through the Source hook.
func (p *Printer) Spans() map[ast.NodeID]Span {
	return p.spans
}

func (p *Printer) printNode(id ast.NodeID) {
	n := p.arena.Node(id)
	if n == nil {
		return
	}
	p.writeIndent()
	start := p.buf.Len()
	defer func() {
		p.spans[id] = Span{Start: start, End: p.buf.Len()}
	}()

	if p.source != nil {
		if text, ok := p.source(id); ok {
			p.writeVerbatim(text)
			return
		}
	}

	switch {
	case n.Kind == ast.KindStringPlaceholder:
		p.writeVerbatim(n.Text)
	case n.Kind == ast.KindPlaceholder:
		p.printNode(n.Ref)
	case n.Kind.IsStatement():
		p.printStatement(n)
	case n.Kind.IsType():
		p.printType(n)
	case n.Kind.IsExpression():
		p.printExpr(n)
	default:
		p.printFallback(n)
	}
}

func (p *Printer) writeIndent() {
	if !p.atLineStart {
		return
	}
	p.buf.WriteString(p.baseIndent)
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString(p.indentStr)
	}
	p.atLineStart = false
}

func (p *Printer) write(s string) {
	p.writeIndent()
	p.buf.WriteString(s)
}

func (p *Printer) newline() {
	p.buf.WriteByte('\n')
	p.atLineStart = true
}

// writeVerbatim writes text that may span several lines, indenting every
// non-empty continuation line to the current level.
func (p *Printer) writeVerbatim(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.newline()
		}
		if line != "" {
			p.write(line)
		}
	}
}

func (p *Printer) node(id ast.NodeID) *ast.Node {
	return p.arena.Node(id)
}

// resolved follows placeholders to the node they stand for.
func (p *Printer) resolved(id ast.NodeID) *ast.Node {
	n := p.arena.Node(id)
	for n != nil && n.Kind == ast.KindPlaceholder {
		n = p.arena.Node(n.Ref)
	}
	return n
}
