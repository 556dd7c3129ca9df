package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/naming"
	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/text"
	"github.com/dhamidi/jassist/verify"
)

var log = commonlog.GetLogger("jassist.assist")

var (
	// ErrNoTree is returned for a request without a parsed unit.
	ErrNoTree = errors.New("no syntax tree")
	// ErrRulePanic wraps a panic raised while a rule built its rewrite.
	ErrRulePanic = errors.New("rule panicked")
	// ErrInvalidResult is returned when a proposal would leave the unit
	// with more syntax errors than before.
	ErrInvalidResult = errors.New("rewrite produces invalid source")
)

// Processor runs the assist rules against requests.
type Processor struct {
	rules  []Rule
	names  naming.Suggester
	config *config.Config
	log    commonlog.Logger
}

type Option func(*Processor)

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) Option {
	return func(p *Processor) {
		p.rules = rules
	}
}

// WithSuggester sets the naming oracle used for new variables.
func WithSuggester(s naming.Suggester) Option {
	return func(p *Processor) {
		if s != nil {
			p.names = s
		}
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(p *Processor) {
		if cfg != nil {
			p.config = cfg
		}
	}
}

func WithLogger(l commonlog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		rules:  DefaultRules(),
		names:  naming.Default{},
		config: config.Default(),
		log:    log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rules returns the rules in evaluation order.
func (p *Processor) Rules() []Rule {
	return p.rules
}

func (p *Processor) prepare(c *Context) {
	c.names = p.names
	c.config = p.config
}

// run evaluates one rule. A panicking rule offers nothing.
func (p *Processor) run(rule Rule, c *Context) (props []*proposal.Proposal) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("rule %s at %s:%d: %v", rule.ID, c.Tree.File, c.Offset, r)
			props = nil
		}
	}()
	return rule.Apply(c)
}

// HasAssists reports whether any enabled rule applies to the request. No
// rewrite is built.
func (p *Processor) HasAssists(c *Context) bool {
	if c == nil || c.Tree == nil {
		return false
	}
	p.prepare(c)
	for _, rule := range p.rules {
		if p.config.IsDisabled(rule.ID) {
			continue
		}
		if len(p.run(rule, c)) > 0 {
			return true
		}
	}
	return false
}

// Assists returns the proposals of every enabled rule in rule order. Any
// error among problems suppresses all assists.
func (p *Processor) Assists(c *Context, problems []ProblemLocation) ([]*proposal.Proposal, error) {
	if c == nil || c.Tree == nil {
		return nil, ErrNoTree
	}
	for _, problem := range problems {
		if problem.IsError {
			p.log.Debugf("%s has errors, no assists offered", c.Tree.File)
			return nil, nil
		}
	}
	p.prepare(c)

	v := &validator{p: p, c: c}
	var out []*proposal.Proposal
	for _, rule := range p.rules {
		if p.config.IsDisabled(rule.ID) {
			continue
		}
		for _, prop := range p.run(rule, c) {
			if p.config.EagerValidation {
				if err := v.check(prop); err != nil {
					p.log.Warningf("dropping %q from %s: %v", prop.Label(), rule.ID, err)
					continue
				}
			}
			if r, ok := p.config.RelevanceOf(rule.ID); ok {
				prop.SetRelevance(r)
			}
			out = append(out, prop)
		}
	}
	p.log.Debugf("%d assists at %s:%d+%d", len(out), c.Tree.File, c.Offset, c.Length)
	return out, nil
}

// validator builds proposals ahead of time and optionally reparses their
// result.
type validator struct {
	p        *Processor
	c        *Context
	baseline int
	counted  bool
}

func (v *validator) check(prop *proposal.Proposal) error {
	if _, err := prop.Edit(); err != nil {
		return err
	}
	if !v.p.config.Verify {
		return nil
	}
	after, err := prop.Preview(text.NewDocument(v.c.Tree.File, v.c.Tree.Source))
	if err != nil {
		return err
	}
	ctx := context.Background()
	if !v.counted {
		errs, err := verify.Errors(ctx, v.c.Tree.Source)
		if err != nil {
			return err
		}
		v.baseline, v.counted = len(errs), true
	}
	errs, err := verify.Errors(ctx, after)
	if err != nil {
		return err
	}
	if len(errs) > v.baseline {
		return fmt.Errorf("%w: %v", ErrInvalidResult, errs[0])
	}
	return nil
}
