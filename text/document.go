package text

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Document is the mutable text of one compilation unit. All methods are safe
// for concurrent use.
type Document struct {
	mu      sync.RWMutex
	name    string
	content string
	version int
	lines   []int
}

func NewDocument(name, content string) *Document {
	return &Document{name: name, content: content}
}

func (d *Document) Name() string {
	return d.name
}

func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.content)
}

// Version counts the changes made to the document since it was created.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Set replaces the whole content.
func (d *Document) Set(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = content
	d.lines = nil
	d.version++
}

// Apply performs every edit of m or, on error, none of them.
func (d *Document) Apply(m *MultiEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.apply(m)
}

// ApplyIf applies m only if the content is still expected. The comparison
// and the change happen under one lock.
func (d *Document) ApplyIf(expected string, m *MultiEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.content != expected {
		return fmt.Errorf("apply to %s: %w", d.name, ErrChanged)
	}
	return d.apply(m)
}

func (d *Document) apply(m *MultiEdit) error {
	if m.IsEmpty() {
		return nil
	}
	next, err := m.ApplyTo(d.content)
	if err != nil {
		return fmt.Errorf("apply to %s: %w", d.name, err)
	}
	d.content = next
	d.lines = nil
	d.version++
	return nil
}

// Copy returns an independent document with the same name and content.
func (d *Document) Copy() *Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &Document{name: d.name, content: d.content, version: d.version}
}

func (d *Document) lineStarts() []int {
	if d.lines == nil {
		d.lines = []int{0}
		for i := 0; i < len(d.content); i++ {
			if d.content[i] == '\n' {
				d.lines = append(d.lines, i+1)
			}
		}
	}
	return d.lines
}

// LineColumn converts a byte offset to a zero-based line and byte column.
func (d *Document) LineColumn(offset int) (line, col int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	offset = max(0, min(offset, len(d.content)))
	starts := d.lineStarts()
	line = sort.SearchInts(starts, offset+1) - 1
	return line, offset - starts[line]
}

// Offset converts a zero-based line and byte column to a byte offset.
func (d *Document) Offset(line, col int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	starts := d.lineStarts()
	if line < 0 || line >= len(starts) || col < 0 {
		return 0, fmt.Errorf("%w: line %d column %d", ErrOutOfRange, line, col)
	}
	end := len(d.content)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	off := starts[line] + col
	if off > end {
		return 0, fmt.Errorf("%w: line %d column %d", ErrOutOfRange, line, col)
	}
	return off, nil
}

// LineIndent returns the leading whitespace of the line containing offset.
func (d *Document) LineIndent(offset int) string {
	line, _ := d.LineColumn(offset)
	content := d.Content()
	d.mu.Lock()
	start := d.lineStarts()[line]
	d.mu.Unlock()
	rest := content[start:]
	return rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]
}
