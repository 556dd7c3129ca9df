package proposal

// Relevance of the quick assists. Higher values sort first in clients that
// order by relevance.
const (
	RelevanceReplaceConditionalWithIfElse = 4
	RelevanceReplaceIfElseWithConditional = 4
	RelevanceSplitAndCondition            = 3
	RelevanceSplitOrCondition             = 3
	RelevanceJoinIfWithOuterIf            = 3
	RelevanceJoinIfWithInnerIf            = 3
	RelevanceJoinIfSequence               = 3
	RelevanceJoinOrIf                     = 3
	RelevanceInverseIf                    = 3
	RelevanceInverseIfContinue            = 2
	RelevanceInverseIfToContinue          = 2
	RelevanceConvertToIfElse              = 2
	RelevanceInverseConditions            = 1
	RelevanceInverseConditionalExpression = 1
	RelevanceInverseBooleanVariable       = 1
	RelevanceExchangeInnerAndOuterIf      = 1
	RelevanceExchangeOperands             = -1
	RelevanceRemoveExtraParentheses       = 1
	RelevanceAddParanoidalParentheses     = 1
	RelevanceAddParentheses               = 1
	RelevancePushNegationDown             = -1
	RelevancePullNegationUp               = -1
	RelevanceCastAndAssign                = 9
	RelevancePickOutString                = 1
	RelevanceCombineStrings               = 1
)
