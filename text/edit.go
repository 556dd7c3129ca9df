// Package text holds documents and the edits applied to them.
package text

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrOverlap is returned when two edits of one MultiEdit touch the same
	// characters.
	ErrOverlap = errors.New("overlapping edits")
	// ErrOutOfRange is returned when an edit reaches outside the document.
	ErrOutOfRange = errors.New("edit out of range")
	// ErrChanged is returned by Document.ApplyIf when the content is not
	// the expected one.
	ErrChanged = errors.New("content changed")
)

// Edit replaces Length bytes at Offset with Text. A zero Length inserts,
// an empty Text deletes.
type Edit struct {
	Offset int
	Length int
	Text   string
}

func (e Edit) End() int {
	return e.Offset + e.Length
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)→%q", e.Offset, e.End(), e.Text)
}

// MultiEdit is a set of edits against one document that land together or
// not at all. Edits are kept in the order they were added; insertions at
// the same offset are applied in that order.
type MultiEdit struct {
	edits []Edit
}

func NewMultiEdit(edits ...Edit) *MultiEdit {
	return &MultiEdit{edits: append([]Edit(nil), edits...)}
}

func (m *MultiEdit) Add(e Edit) {
	m.edits = append(m.edits, e)
}

func (m *MultiEdit) Len() int {
	return len(m.edits)
}

func (m *MultiEdit) IsEmpty() bool {
	return m == nil || len(m.edits) == 0
}

// Edits returns the edits sorted by offset. Insertions sort before a
// replacement starting at the same offset.
func (m *MultiEdit) Edits() []Edit {
	if m == nil {
		return nil
	}
	sorted := append([]Edit(nil), m.edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Offset != sorted[j].Offset {
			return sorted[i].Offset < sorted[j].Offset
		}
		return sorted[i].Length == 0 && sorted[j].Length > 0
	})
	return sorted
}

// Check verifies that every edit fits a document of size n and that no two
// edits overlap.
func (m *MultiEdit) Check(n int) error {
	edits := m.Edits()
	for i, e := range edits {
		if e.Offset < 0 || e.Length < 0 || e.End() > n {
			return fmt.Errorf("%w: %v in document of length %d", ErrOutOfRange, e, n)
		}
		if i > 0 && edits[i-1].End() > e.Offset {
			return fmt.Errorf("%w: %v and %v", ErrOverlap, edits[i-1], e)
		}
	}
	return nil
}

// ApplyTo returns s with every edit applied.
func (m *MultiEdit) ApplyTo(s string) (string, error) {
	if err := m.Check(len(s)); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, e := range m.Edits() {
		b.WriteString(s[last:e.Offset])
		b.WriteString(e.Text)
		last = e.End()
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// MapOffset translates an offset in the original document to the edited
// one. Text inserted exactly at off lands before it. An offset inside a
// replaced range maps to the start of the replacement.
func (m *MultiEdit) MapOffset(off int) int {
	delta := 0
	for _, e := range m.Edits() {
		switch {
		case e.Offset > off:
			return off + delta
		case e.Length > 0 && e.End() > off:
			return e.Offset + delta
		}
		delta += len(e.Text) - e.Length
	}
	return off + delta
}
