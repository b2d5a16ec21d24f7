package dice

import (
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

// Evaluate executes a parsed expression against the supplied roller and
// returns the grouped rolls, subtotals and final total. When the expression
// carries advantage or disadvantage the entire expression is evaluated twice
// independently and the reported total is the max (resp. min) of the two;
// both full sub-results are retained for inspection.
func Evaluate(expr *ParsedExpression, roller Roller) (*RollResult, error) {
	if expr == nil {
		return nil, engerr.InvalidRequest("expression cannot be nil")
	}
	if roller == nil {
		return nil, engerr.InvalidRequest("roller cannot be nil")
	}

	if !expr.HasAdvantage && !expr.HasDisadvantage {
		return evaluateOnce(expr, roller)
	}

	first, err := evaluateOnce(expr, roller)
	if err != nil {
		return nil, err
	}
	second, err := evaluateOnce(expr, roller)
	if err != nil {
		return nil, err
	}

	chosen := first
	if expr.HasAdvantage && second.Total > first.Total {
		chosen = second
	}
	if expr.HasDisadvantage && second.Total < first.Total {
		chosen = second
	}

	return &RollResult{
		Expression:      expr.Raw,
		Groups:          chosen.Groups,
		Rolls:           chosen.Rolls,
		Subtotals:       chosen.Subtotals,
		Modifier:        chosen.Modifier,
		Total:           chosen.Total,
		HasAdvantage:    expr.HasAdvantage,
		HasDisadvantage: expr.HasDisadvantage,
		SubResults:      []*RollResult{first, second},
	}, nil
}

// EvaluateString parses text and evaluates it in a single call.
func EvaluateString(text string, roller Roller) (*RollResult, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Evaluate(expr, roller)
}

// evaluateOnce performs a single pass over the expression terms, drawing
// every die from the roller in term order.
func evaluateOnce(expr *ParsedExpression, roller Roller) (*RollResult, error) {
	result := &RollResult{
		Expression: expr.Raw,
		Groups:     make([]string, 0, len(expr.Terms)),
		Rolls:      make(map[string][]int),
		Subtotals:  make(map[string]int),
	}

	for _, term := range expr.Terms {
		switch term.Kind {
		case TermModifier:
			result.Modifier += term.Value
		case TermDice:
			rolls, err := roller.Roll(term.Count, term.Sides)
			if err != nil {
				return nil, engerr.Wrapf(err, "failed to roll %s", term.Label)
			}
			subtotal := 0
			for _, r := range rolls {
				subtotal += r
			}
			result.Groups = append(result.Groups, term.Label)
			result.Rolls[term.Label] = rolls
			result.Subtotals[term.Label] = subtotal
		}
	}

	result.Total = result.Modifier
	for _, subtotal := range result.Subtotals {
		result.Total += subtotal
	}

	return result, nil
}
