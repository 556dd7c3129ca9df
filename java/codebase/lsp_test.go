package codebase

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/text"
)

func newTestServer(t *testing.T, cfg *config.Config) (*LSPServer, protocol.DocumentUri) {
	t.Helper()
	ls := NewLSPServer("test")
	ls.codebase = New(t.TempDir(), cfg)
	uri := pathToURI(filepath.Join(ls.codebase.RootDir(), "A.java"))
	err := ls.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Version: 1, Text: source},
	})
	require.NoError(t, err)
	return ls, uri
}

// caret is the position of the condition of the if statement in source.
var caret = protocol.Position{Line: 2, Character: 12}

func codeActions(t *testing.T, ls *LSPServer, uri protocol.DocumentUri, only ...protocol.CodeActionKind) []protocol.CodeAction {
	t.Helper()
	result, err := ls.textDocumentCodeAction(nil, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        protocol.Range{Start: caret, End: caret},
		Context:      protocol.CodeActionContext{Only: only},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok, "unexpected result %T", result)
	return actions
}

func action(t *testing.T, actions []protocol.CodeAction, title string) protocol.CodeAction {
	t.Helper()
	for _, a := range actions {
		if a.Title == title {
			return a
		}
	}
	require.Failf(t, "missing code action", "%q", title)
	return protocol.CodeAction{}
}

// applyEdits applies the workspace edit for uri to src.
func applyEdits(t *testing.T, src string, uri protocol.DocumentUri, edit *protocol.WorkspaceEdit) string {
	t.Helper()
	require.NotNil(t, edit)
	doc := text.NewDocument("A.java", src)
	m := text.NewMultiEdit()
	for _, e := range edit.Changes[uri] {
		start, err := offsetOf(doc, e.Range.Start)
		require.NoError(t, err)
		end, err := offsetOf(doc, e.Range.End)
		require.NoError(t, err)
		m.Add(text.Edit{Offset: start, Length: end - start, Text: e.NewText})
	}
	require.NoError(t, doc.Apply(m))
	return doc.Content()
}

const inverted = `class A {
    void f(boolean a) {
        if (!a) {
            y();
        } else {
            x();
        }
    }
}
`

func TestCodeActionCarriesEdit(t *testing.T) {
	ls, uri := newTestServer(t, nil)
	a := action(t, codeActions(t, ls, uri), "Invert 'if' statement")
	require.NotNil(t, a.Kind)
	assert.Equal(t, protocol.CodeActionKindRefactorRewrite, *a.Kind)
	assert.Nil(t, a.Data)
	assert.Equal(t, inverted, applyEdits(t, source, uri, a.Edit))
}

func TestCodeActionResolve(t *testing.T) {
	cfg := config.Default()
	cfg.EagerValidation = false
	ls, uri := newTestServer(t, cfg)

	a := action(t, codeActions(t, ls, uri), "Invert 'if' statement")
	assert.Nil(t, a.Edit)
	require.IsType(t, "", a.Data)

	resolved, err := ls.codeActionResolve(nil, &a)
	require.NoError(t, err)
	assert.Equal(t, inverted, applyEdits(t, source, uri, resolved.Edit))

	_, err = ls.codeActionResolve(nil, &protocol.CodeAction{Title: a.Title, Data: a.Data})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestResolveAfterChangeIsStale(t *testing.T) {
	cfg := config.Default()
	cfg.EagerValidation = false
	ls, uri := newTestServer(t, cfg)
	a := action(t, codeActions(t, ls, uri), "Invert 'if' statement")

	err := ls.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: strings.Replace(source, "y();", "z();", 1)}},
	})
	require.NoError(t, err)

	_, err = ls.codeActionResolve(nil, &a)
	assert.ErrorIs(t, err, ErrStaleAction)
}

func TestCodeActionKindFilter(t *testing.T) {
	ls, uri := newTestServer(t, nil)
	assert.Empty(t, codeActions(t, ls, uri, protocol.CodeActionKindQuickFix))
	assert.NotEmpty(t, codeActions(t, ls, uri, protocol.CodeActionKindRefactor))
}

func TestPositionConversion(t *testing.T) {
	doc := text.NewDocument("A.java", source)
	tests := []struct {
		offset int
		pos    protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{strings.Index(source, "void"), protocol.Position{Line: 1, Character: 4}},
		{strings.Index(source, "(a)") + 1, caret},
	}
	for _, tt := range tests {
		pos, err := positionOf(doc, tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.pos, pos)

		off, err := offsetOf(doc, tt.pos)
		require.NoError(t, err)
		assert.Equal(t, tt.offset, off)
	}
}
