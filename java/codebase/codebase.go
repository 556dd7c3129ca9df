// Package codebase keeps the Java sources of a workspace parsed and answers
// assist requests against them. It backs the language server.
package codebase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jassist/assist"
	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/text"
)

var log = commonlog.GetLogger("jassist.codebase")

// ErrUnknownFile is returned for requests on files the codebase does not
// hold.
var ErrUnknownFile = errors.New("unknown file")

type Codebase struct {
	mu        sync.RWMutex
	rootDir   string
	config    *config.Config
	processor *assist.Processor
	files     map[string]*FileInfo
}

// FileInfo is one parsed source file. A FileInfo is replaced, never
// modified, when its file changes.
type FileInfo struct {
	Path     string
	Document *text.Document
	Tree     *ast.Tree
	ParseErr error
	// Open marks files whose content is owned by an editor.
	Open bool
}

// Problems converts the syntax errors of the file into problem locations.
func (f *FileInfo) Problems() []assist.ProblemLocation {
	var list parser.ErrorList
	if !errors.As(f.ParseErr, &list) {
		return nil
	}
	problems := make([]assist.ProblemLocation, len(list))
	for i, e := range list {
		problems[i] = assist.ProblemLocation{Offset: e.Offset, IsError: true, Arguments: []string{e.Message}}
	}
	return problems
}

func New(rootDir string, cfg *config.Config) *Codebase {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Codebase{
		rootDir:   rootDir,
		config:    cfg,
		processor: assist.NewProcessor(assist.WithConfig(cfg)),
		files:     make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *config.Config {
	return c.config
}

// ScanAll parses every .java file under the root, skipping hidden
// directories.
func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %v", path, err)
			}
		}
		return nil
	})
}

// ScanFile reads path from disk unless an editor owns its content.
func (c *Codebase) ScanFile(path string) error {
	if f := c.GetFile(path); f != nil && f.Open {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	c.store(path, content, false)
	return nil
}

// UpdateFile replaces the content of path with the editor's version.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	return c.store(path, content, true)
}

// CloseFile hands path back to the file system.
func (c *Codebase) CloseFile(path string) {
	c.mu.Lock()
	f := c.files[path]
	c.mu.Unlock()
	if f == nil || !f.Open {
		return
	}
	if err := c.refresh(path); err != nil {
		log.Debugf("close %s: %v", path, err)
	}
}

func (c *Codebase) refresh(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		c.RemoveFile(path)
		return err
	}
	c.store(path, content, false)
	return nil
}

func (c *Codebase) store(path string, content []byte, open bool) *FileInfo {
	tree, err := parser.Parse(content, parser.WithFile(filepath.Base(path)))
	if err != nil {
		log.Debugf("%s: %v", path, err)
	}
	f := &FileInfo{
		Path:     path,
		Document: text.NewDocument(path, string(content)),
		Tree:     tree,
		ParseErr: err,
		Open:     open,
	}
	c.mu.Lock()
	c.files[path] = f
	c.mu.Unlock()
	return f
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Assists computes the proposals for a selection of path. The returned
// FileInfo is the snapshot the proposals were computed on.
func (c *Codebase) Assists(path string, offset, length int) ([]*proposal.Proposal, *FileInfo, error) {
	f := c.GetFile(path)
	if f == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFile, path)
	}
	props, err := c.processor.Assists(assist.NewContext(f.Tree, offset, length), f.Problems())
	if err != nil {
		return nil, f, fmt.Errorf("assists for %s: %w", path, err)
	}
	return props, f, nil
}
