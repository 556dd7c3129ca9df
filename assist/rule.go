package assist

import (
	"fmt"

	"github.com/dhamidi/jassist/proposal"
	"github.com/dhamidi/jassist/rewrite"
)

// Rule is one quick assist. Apply returns the proposals the rule offers for
// a request, or nothing when its pattern does not match. Apply must not
// build rewrites eagerly.
type Rule struct {
	ID    string
	Apply func(c *Context) []*proposal.Proposal
}

// Rule ids, usable in the disabled and relevance sections of the
// configuration.
const (
	RuleInverseIf                    = "inverse-if"
	RuleIfReturnIntoIfElse           = "if-return-into-if-else"
	RuleInverseIfContinue            = "inverse-if-continue"
	RuleInverseIfToContinue          = "inverse-if-to-continue"
	RuleInverseConditions            = "inverse-conditions"
	RuleRemoveExtraParentheses       = "remove-extra-parentheses"
	RuleAddParanoiacParentheses      = "add-paranoiac-parentheses"
	RuleAddParentheses               = "add-parentheses"
	RuleJoinIf                       = "join-if"
	RuleSplitAndCondition            = "split-and-condition"
	RuleJoinOrIf                     = "join-or-if"
	RuleSplitOrCondition             = "split-or-condition"
	RuleInverseConditionalExpression = "inverse-conditional-expression"
	RuleExchangeInnerAndOuterIf      = "exchange-inner-outer-if"
	RuleExchangeOperands             = "exchange-operands"
	RuleCastAndAssign                = "cast-and-assign"
	RuleCombineStrings               = "combine-strings"
	RulePickOutString                = "pick-out-string"
	RuleReplaceIfElseWithConditional = "replace-if-else-with-conditional"
	RuleReplaceConditionalWithIfElse = "replace-conditional-with-if-else"
	RuleInverseBooleanVariable       = "inverse-boolean-variable"
	RulePushNegationDown             = "push-negation-down"
	RulePullNegationUp               = "pull-negation-up"
	RuleJoinIfSequence               = "join-if-sequence"
)

// DefaultRules returns every rule in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{RuleInverseIf, inverseIf},
		{RuleIfReturnIntoIfElse, ifReturnIntoIfElse},
		{RuleInverseIfContinue, inverseIfContinue},
		{RuleInverseIfToContinue, inverseIfToContinue},
		{RuleInverseConditions, inverseConditions},
		{RuleRemoveExtraParentheses, removeExtraParentheses},
		{RuleAddParanoiacParentheses, addParanoiacParentheses},
		{RuleAddParentheses, addParentheses},
		{RuleJoinIf, joinIf},
		{RuleSplitAndCondition, splitAndCondition},
		{RuleJoinOrIf, joinOrIf},
		{RuleSplitOrCondition, splitOrCondition},
		{RuleInverseConditionalExpression, inverseConditionalExpression},
		{RuleExchangeInnerAndOuterIf, exchangeInnerAndOuterIf},
		{RuleExchangeOperands, exchangeOperands},
		{RuleCastAndAssign, castAndAssign},
		{RuleCombineStrings, combineStrings},
		{RulePickOutString, pickOutString},
		{RuleReplaceIfElseWithConditional, replaceIfElseWithConditional},
		{RuleReplaceConditionalWithIfElse, replaceConditionalWithIfElse},
		{RuleInverseBooleanVariable, inverseBooleanVariable},
		{RulePushNegationDown, pushNegationDown},
		{RulePullNegationUp, pullNegationUp},
		{RuleJoinIfSequence, joinIfSequence},
	}
}

// propose wraps a lazily built rewrite into a proposal for the request. A
// panic while building fails only this proposal.
func (c *Context) propose(label string, relevance int, image proposal.Image, build func(b *rewrite.Builder, links *proposal.Links), opts ...proposal.Option) *proposal.Proposal {
	opts = append([]proposal.Option{
		proposal.WithRelevance(relevance),
		proposal.WithImage(image),
		proposal.WithIndent(rewrite.Indent(c.config.Indent)),
		proposal.WithLazyRewrite(func(links *proposal.Links) (b *rewrite.Builder, err error) {
			defer func() {
				if r := recover(); r != nil {
					b, err = nil, fmt.Errorf("%w: %v", ErrRulePanic, r)
				}
			}()
			b = rewrite.New(c.Tree)
			build(b, links)
			return b, nil
		}),
	}, opts...)
	return proposal.New(label, c.Tree, opts...)
}

func one(p *proposal.Proposal) []*proposal.Proposal {
	return []*proposal.Proposal{p}
}
