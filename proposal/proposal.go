// Package proposal holds the candidate transformations offered at a
// selection. A proposal carries a label and relevance up front and builds
// its rewrite only when it is previewed or applied.
package proposal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/rewrite"
	"github.com/dhamidi/jassist/text"
)

// ErrStale is returned when a proposal is applied to a document whose
// content differs from the source it was computed for.
var ErrStale = errors.New("document changed since the proposal was computed")

// Kind classifies a proposal the way editors group code actions.
type Kind string

const (
	KindRewrite Kind = "refactor.rewrite"
	KindInline  Kind = "refactor.inline"
	KindExtract Kind = "refactor.extract"
)

// Image names the icon a client shows next to the label.
type Image string

const (
	ImageChange Image = "change"
	ImageLocal  Image = "local"
	ImageCast   Image = "cast"
	ImageString Image = "string"
)

// Build constructs the rewrite of a proposal. Linked positions are
// registered on links while the rewrite is built.
type Build func(links *Links) (*rewrite.Builder, error)

type Proposal struct {
	label     string
	unit      *ast.Tree
	relevance int
	image     Image
	kind      Kind
	indent    rewrite.Indent
	build     Build

	links   *Links
	rewrite func() (*rewrite.Builder, error)
}

// Option configures a proposal during construction.
type Option func(*Proposal)

func WithRelevance(r int) Option {
	return func(p *Proposal) {
		p.relevance = r
	}
}

func WithImage(img Image) Option {
	return func(p *Proposal) {
		p.image = img
	}
}

func WithKind(k Kind) Option {
	return func(p *Proposal) {
		p.kind = k
	}
}

// WithIndent sets the indentation unit used when the rewrite is compiled.
func WithIndent(indent rewrite.Indent) Option {
	return func(p *Proposal) {
		p.indent = indent
	}
}

// WithRewrite attaches an already built rewrite.
func WithRewrite(b *rewrite.Builder) Option {
	return func(p *Proposal) {
		p.build = func(*Links) (*rewrite.Builder, error) {
			return b, nil
		}
	}
}

// WithLazyRewrite attaches a rewrite that is built on first use.
func WithLazyRewrite(build Build) Option {
	return func(p *Proposal) {
		p.build = build
	}
}

// New creates a proposal for unit. Without a rewrite option the proposal
// changes nothing.
func New(label string, unit *ast.Tree, opts ...Option) *Proposal {
	p := &Proposal{
		label:  label,
		unit:   unit,
		image:  ImageChange,
		kind:   KindRewrite,
		indent: rewrite.DefaultIndent,
		links:  newLinks(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	build := p.build
	if build == nil {
		build = func(*Links) (*rewrite.Builder, error) {
			return rewrite.New(unit), nil
		}
	}
	p.rewrite = sync.OnceValues(func() (*rewrite.Builder, error) {
		b, err := build(p.links)
		if err == nil && b != nil {
			err = b.Err()
		}
		return b, err
	})
	return p
}

func (p *Proposal) Label() string {
	return p.label
}

func (p *Proposal) Unit() *ast.Tree {
	return p.unit
}

func (p *Proposal) Relevance() int {
	return p.relevance
}

// SetRelevance overrides the relevance, for example from configuration.
func (p *Proposal) SetRelevance(r int) {
	p.relevance = r
}

func (p *Proposal) Image() Image {
	return p.image
}

func (p *Proposal) Kind() Kind {
	return p.kind
}

func (p *Proposal) String() string {
	return fmt.Sprintf("%s (%d)", p.label, p.relevance)
}

// Rewrite builds the rewrite on the first call. Later calls return the
// same builder and error.
func (p *Proposal) Rewrite() (*rewrite.Builder, error) {
	return p.rewrite()
}

// Edit compiles the rewrite into edits against the proposal's unit.
func (p *Proposal) Edit() (*text.MultiEdit, error) {
	b, err := p.Rewrite()
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", p.label, err)
	}
	m, err := b.Compile(p.indent)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", p.label, err)
	}
	return m, nil
}

func (p *Proposal) checkDocument(content string) error {
	if content != p.unit.Source {
		return fmt.Errorf("%q on %s: %w", p.label, p.unit.File, ErrStale)
	}
	return nil
}

// Preview returns the content doc would have after applying the proposal.
// doc is not modified.
func (p *Proposal) Preview(doc *text.Document) (string, error) {
	before := doc.Content()
	if err := p.checkDocument(before); err != nil {
		return "", err
	}
	m, err := p.Edit()
	if err != nil {
		return "", err
	}
	return m.ApplyTo(before)
}

// PreviewDiff renders the change to doc as a unified diff.
func (p *Proposal) PreviewDiff(doc *text.Document) (string, error) {
	after, err := p.Preview(doc)
	if err != nil {
		return "", err
	}
	return text.UnifiedDiff(doc.Name(), doc.Content(), after)
}

// Apply commits the proposal to doc in one step and returns the linked
// positions of the result. doc must still hold the source the proposal was
// computed for when the edits land. Applying twice is not detected; callers
// guard against it.
func (p *Proposal) Apply(doc *text.Document) (*LinkedModel, error) {
	m, err := p.Edit()
	if err != nil {
		return nil, err
	}
	if err := doc.ApplyIf(p.unit.Source, m); err != nil {
		if errors.Is(err, text.ErrChanged) {
			return nil, fmt.Errorf("%q on %s: %w", p.label, p.unit.File, ErrStale)
		}
		return nil, err
	}
	return p.links.resolve(), nil
}

// LinkedModel returns the linked positions of the compiled rewrite without
// applying it.
func (p *Proposal) LinkedModel() (*LinkedModel, error) {
	if _, err := p.Edit(); err != nil {
		return nil, err
	}
	return p.links.resolve(), nil
}
