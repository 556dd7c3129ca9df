package codebase

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/text"
)

const lsName = "jassist"

var (
	// ErrUnknownAction is returned when a client resolves a code action
	// the server no longer remembers.
	ErrUnknownAction = errors.New("unknown code action")
	// ErrStaleAction is returned when the document changed between
	// listing and resolving a code action.
	ErrStaleAction = errors.New("document changed since the code action was offered")
)

// pendingAction is a code action whose edit is computed on resolve.
type pendingAction struct {
	uri      protocol.DocumentUri
	file     *FileInfo
	proposal *proposal.Proposal
}

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu      sync.Mutex
	pending map[string]pendingAction
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
		pending: make(map[string]pendingAction),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCodeAction: ls.textDocumentCodeAction,
		CodeActionResolve:      ls.codeActionResolve,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg, err := config.Find(rootDir)
	if err != nil {
		log.Warningf("%v, using defaults", err)
		cfg = config.Default()
	}
	ls.codebase = New(rootDir, cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{
			protocol.CodeActionKindRefactorRewrite,
			protocol.CodeActionKindRefactorInline,
			protocol.CodeActionKindRefactorExtract,
		},
		ResolveProvider: boolPtr(true),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scan %s: %v", ls.codebase.RootDir(), err)
	}
	ls.watcher = NewFileWatcher(ls.codebase, 2*time.Second)
	ls.watcher.Start()
	log.Infof("serving %d files under %s", len(ls.codebase.Paths()), ls.codebase.RootDir())
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.forget(path)
	ls.codebase.CloseFile(path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	}
	return nil
}

// textDocumentCodeAction offers the assists at the requested range. With
// eager validation the edits are already built and sent along; otherwise
// each action carries an id and its edit is built on resolve.
func (ls *LSPServer) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	start, err := offsetOf(f.Document, params.Range.Start)
	if err != nil {
		log.Debugf("code action: %v", err)
		return nil, nil
	}
	end, err := offsetOf(f.Document, params.Range.End)
	if err != nil {
		log.Debugf("code action: %v", err)
		return nil, nil
	}

	props, f, err := ls.codebase.Assists(path, start, end-start)
	if err != nil {
		log.Errorf("%v", err)
		return nil, nil
	}
	ls.forget(path)

	eager := ls.codebase.Config().EagerValidation
	actions := make([]protocol.CodeAction, 0, len(props))
	for _, p := range props {
		kind := protocol.CodeActionKind(p.Kind())
		if !wants(params.Context.Only, kind) {
			continue
		}
		action := protocol.CodeAction{Title: p.Label(), Kind: &kind}
		if eager {
			edit, err := workspaceEdit(params.TextDocument.URI, f.Document, p)
			if err != nil {
				log.Warningf("%s: %v", path, err)
				continue
			}
			action.Edit = edit
		} else {
			id := uuid.NewString()
			ls.remember(id, pendingAction{uri: params.TextDocument.URI, file: f, proposal: p})
			action.Data = id
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func (ls *LSPServer) codeActionResolve(ctx *glsp.Context, params *protocol.CodeAction) (*protocol.CodeAction, error) {
	if params.Edit != nil {
		return params, nil
	}
	id, ok := params.Data.(string)
	if !ok {
		return params, nil
	}
	pa, ok := ls.take(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}
	current := ls.codebase.GetFile(pa.file.Path)
	if current == nil || current.Document.Content() != pa.file.Document.Content() {
		return nil, fmt.Errorf("%q: %w", params.Title, ErrStaleAction)
	}
	edit, err := workspaceEdit(pa.uri, pa.file.Document, pa.proposal)
	if err != nil {
		return nil, err
	}
	params.Edit = edit
	return params, nil
}

func (ls *LSPServer) remember(id string, pa pendingAction) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.pending[id] = pa
}

func (ls *LSPServer) take(id string) (pendingAction, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	pa, ok := ls.pending[id]
	delete(ls.pending, id)
	return pa, ok
}

// forget drops the pending actions of path. Only the actions of the latest
// request on a file can be resolved.
func (ls *LSPServer) forget(path string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for id, pa := range ls.pending {
		if pa.file.Path == path {
			delete(ls.pending, id)
		}
	}
}

// wants reports whether kind is selected by the client's filter. A filter
// entry selects every kind below it in the dotted hierarchy.
func wants(only []protocol.CodeActionKind, kind protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if kind == o || strings.HasPrefix(string(kind), string(o)+".") {
			return true
		}
	}
	return false
}

func workspaceEdit(uri protocol.DocumentUri, doc *text.Document, p *proposal.Proposal) (*protocol.WorkspaceEdit, error) {
	m, err := p.Edit()
	if err != nil {
		return nil, err
	}
	edits := make([]protocol.TextEdit, 0, m.Len())
	for _, e := range m.Edits() {
		start, err := positionOf(doc, e.Offset)
		if err != nil {
			return nil, err
		}
		end, err := positionOf(doc, e.End())
		if err != nil {
			return nil, err
		}
		edits = append(edits, protocol.TextEdit{
			Range:   protocol.Range{Start: start, End: end},
			NewText: e.Text,
		})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
	}, nil
}

// positionOf converts a byte offset to a protocol position. Columns count
// bytes.
func positionOf(doc *text.Document, offset int) (protocol.Position, error) {
	line, col := doc.LineColumn(offset)
	l, err := safecast.Conv[protocol.UInteger](line)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("line of offset %d: %w", offset, err)
	}
	c, err := safecast.Conv[protocol.UInteger](col)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("column of offset %d: %w", offset, err)
	}
	return protocol.Position{Line: l, Character: c}, nil
}

func offsetOf(doc *text.Document, pos protocol.Position) (int, error) {
	line, err := safecast.Conv[int](pos.Line)
	if err != nil {
		return 0, err
	}
	col, err := safecast.Conv[int](pos.Character)
	if err != nil {
		return 0, err
	}
	return doc.Offset(line, col)
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
