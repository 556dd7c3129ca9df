package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/text"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

// Encode writes the subtree at id as indented JSON.
func (e *ASTJSONEncoder) Encode(tree *ast.Tree, id ast.NodeID) error {
	text, err := e.MarshalText(tree, id)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(tree *ast.Tree, id ast.NodeID) ([]byte, error) {
	doc := text.NewDocument(tree.File, tree.Source)
	return json.MarshalIndent(nodeToJSON(tree, doc, id, ast.PropNone), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Property string         `json:"property,omitempty"`
	Operator string         `json:"operator,omitempty"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

// Lines and columns are 1-based.
type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(tree *ast.Tree, doc *text.Document, id ast.NodeID, prop ast.Property) *astJSONNode {
	n := tree.Node(id)
	if n == nil {
		return nil
	}
	jn := &astJSONNode{
		Kind: n.Kind.String(),
		Text: n.Text,
	}
	if prop != ast.PropNone {
		jn.Property = prop.String()
	}
	if n.Op != ast.OpNone {
		jn.Operator = n.Op.String()
	}
	if n.End > n.Start {
		jn.Span = &astJSONSpan{
			Start: position(doc, n.Start),
			End:   position(doc, n.End),
		}
	}
	for _, s := range n.Slots() {
		if child := nodeToJSON(tree, doc, s.ID, s.Prop); child != nil {
			jn.Children = append(jn.Children, child)
		}
	}
	return jn
}

func position(doc *text.Document, offset int) astJSONPosition {
	line, col := doc.LineColumn(offset)
	return astJSONPosition{Offset: offset, Line: line + 1, Column: col + 1}
}
