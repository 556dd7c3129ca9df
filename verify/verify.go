// Package verify checks rewritten Java source with an independent parser.
//
// The tree-sitter Java grammar does not share code with java/parser, so a
// rewrite that produces broken text is caught even when the printer and
// the parser agree on the mistake.
package verify

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// ErrSyntax is wrapped by every error reporting invalid source.
var ErrSyntax = errors.New("syntax error")

const maxErrors = 20

// SyntaxError locates one ERROR or MISSING node. Line and Column are
// 0-based.
type SyntaxError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Column+1, e.Message)
}

// Errors parses src and returns its syntax errors in document order.
func Errors(ctx context.Context, src string) ([]SyntaxError, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	content := []byte(src)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse java: %w", err)
	}
	defer tree.Close()

	var errs []SyntaxError
	collect(tree.RootNode(), content, &errs, 0)
	return errs, nil
}

// Java returns an error wrapping ErrSyntax if src is not valid Java.
func Java(ctx context.Context, src string) error {
	errs, err := Errors(ctx, src)
	if err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w at %v", ErrSyntax, errs[0])
}

func collect(node *sitter.Node, content []byte, errs *[]SyntaxError, depth int) {
	if node == nil || depth > 1000 || len(*errs) >= maxErrors {
		return
	}
	if node.IsError() || node.IsMissing() {
		start := node.StartPoint()
		msg := "unexpected input"
		if node.IsMissing() {
			msg = "missing " + node.Type()
		} else if s, e := node.StartByte(), node.EndByte(); e > s && e-s < 40 && int(e) <= len(content) {
			msg = fmt.Sprintf("unexpected %q", content[s:e])
		}
		*errs = append(*errs, SyntaxError{
			Offset:  int(node.StartByte()),
			Line:    int(start.Row),
			Column:  int(start.Column),
			Message: msg,
		})
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collect(node.Child(i), content, errs, depth+1)
	}
}
