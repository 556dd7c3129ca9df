package proposal

import (
	"sync"

	"github.com/dhamidi/jassist/rewrite"
)

// Links collects linked positions while a rewrite is built. Positions in
// one group are edited together once the proposal is applied.
type Links struct {
	mu     sync.Mutex
	order  []string
	groups map[string]*pendingGroup
}

type pendingGroup struct {
	positions  []pendingPosition
	candidates []string
}

type pendingPosition struct {
	pos   *rewrite.Position
	first bool
}

func newLinks() *Links {
	return &Links{groups: make(map[string]*pendingGroup)}
}

func (l *Links) group(id string) *pendingGroup {
	g, ok := l.groups[id]
	if !ok {
		g = &pendingGroup{}
		l.groups[id] = g
		l.order = append(l.order, id)
	}
	return g
}

// Add puts pos into group id. first marks the position that receives the
// cursor first.
func (l *Links) Add(id string, pos *rewrite.Position, first bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g := l.group(id)
	g.positions = append(g.positions, pendingPosition{pos: pos, first: first})
}

// Suggest offers text as an alternative content for group id.
func (l *Links) Suggest(id, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g := l.group(id)
	for _, c := range g.candidates {
		if c == text {
			return
		}
	}
	g.candidates = append(g.candidates, text)
}

func (l *Links) resolve() *LinkedModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := &LinkedModel{}
	for _, id := range l.order {
		pg := l.groups[id]
		g := &Group{ID: id, Candidates: append([]string(nil), pg.candidates...)}
		for _, pp := range pg.positions {
			off, length, ok := pp.pos.Range()
			if !ok {
				continue
			}
			g.Regions = append(g.Regions, Region{Offset: off, Length: length, First: pp.first})
		}
		if len(g.Regions) > 0 {
			m.groups = append(m.groups, g)
		}
	}
	return m
}

// Region is a range of the edited document.
type Region struct {
	Offset int
	Length int
	First  bool
}

type Group struct {
	ID         string
	Regions    []Region
	Candidates []string
}

// LinkedModel is the set of linked groups of an applied proposal, in the
// order the groups were first mentioned.
type LinkedModel struct {
	groups []*Group
}

func (m *LinkedModel) Groups() []*Group {
	if m == nil {
		return nil
	}
	return m.groups
}

func (m *LinkedModel) Group(id string) *Group {
	for _, g := range m.Groups() {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (m *LinkedModel) IsEmpty() bool {
	return len(m.Groups()) == 0
}

// FirstStop returns the region marked first, or the first region of the
// first group.
func (m *LinkedModel) FirstStop() (Region, bool) {
	for _, g := range m.Groups() {
		for _, r := range g.Regions {
			if r.First {
				return r, true
			}
		}
	}
	if groups := m.Groups(); len(groups) > 0 {
		return groups[0].Regions[0], true
	}
	return Region{}, false
}

// Consistent reports whether every group covers identical text in content.
func (m *LinkedModel) Consistent(content string) bool {
	for _, g := range m.Groups() {
		var want string
		for i, r := range g.Regions {
			if r.Offset < 0 || r.Offset+r.Length > len(content) {
				return false
			}
			got := content[r.Offset : r.Offset+r.Length]
			if i == 0 {
				want = got
			} else if got != want {
				return false
			}
		}
	}
	return true
}
