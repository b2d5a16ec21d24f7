// Package dice implements the dice expression engine: parsing, evaluation
// against an injected random source, exact distribution analysis, and weapon
// damage calculation.
package dice

import (
	"fmt"
	"strings"
)

// TermKind identifies the variant of a Term
type TermKind int

const (
	// TermDice is an NdS dice group
	TermDice TermKind = iota
	// TermModifier is a flat signed integer
	TermModifier
)

const (
	// MaxDiceCount is the largest permitted dice count per group
	MaxDiceCount = 1000
	// MaxDiceSides is the largest permitted die size
	MaxDiceSides = 1000
	// MaxModifier bounds the magnitude of a flat modifier term
	MaxModifier = 1000
)

// Term is one additive group in a dice expression: either an NdS dice
// group or a flat signed modifier. Immutable once parsed.
type Term struct {
	Kind TermKind

	// Count and Sides are set for TermDice
	Count int
	Sides int

	// Value is set for TermModifier (may be negative)
	Value int

	// Label is the canonical group label for TermDice, e.g. "2d6".
	// Repeated occurrences of the same shape get position-keyed labels
	// ("2d6#2") so groups are never merged.
	Label string
}

// ParsedExpression is an ordered sequence of terms plus the expression-wide
// advantage/disadvantage flags. Both flags can never be set at once; that is
// rejected at parse time.
type ParsedExpression struct {
	Raw             string
	Terms           []Term
	HasAdvantage    bool
	HasDisadvantage bool
}

// DiceTerms returns the dice-group terms in expression order.
func (e *ParsedExpression) DiceTerms() []Term {
	out := make([]Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		if t.Kind == TermDice {
			out = append(out, t)
		}
	}
	return out
}

// Modifier returns the aggregate flat modifier across all modifier terms.
func (e *ParsedExpression) Modifier() int {
	mod := 0
	for _, t := range e.Terms {
		if t.Kind == TermModifier {
			mod += t.Value
		}
	}
	return mod
}

// RollResult is the outcome of evaluating a ParsedExpression once.
// Created once per evaluation, immutable afterwards.
type RollResult struct {
	// Expression is the original expression text
	Expression string

	// Groups holds the dice-group labels in expression order
	Groups []string

	// Rolls maps each group label to its individual die values in roll order
	Rolls map[string][]int

	// Subtotals maps each group label to the sum of its die values
	Subtotals map[string]int

	// Modifier is the aggregate flat modifier
	Modifier int

	// Total is sum(subtotals) + modifier; under advantage or disadvantage
	// it is the max (resp. min) of the two sub-evaluation totals
	Total int

	HasAdvantage    bool
	HasDisadvantage bool

	// SubResults holds the two full base evaluations that were compared
	// when advantage or disadvantage was active; nil otherwise
	SubResults []*RollResult
}

// String renders an audit line in the format:
//
//	"2d6+1d4+3 → 2d6:[4 5] 1d4:[2] +3 = 14"
func (r *RollResult) String() string {
	var b strings.Builder
	b.WriteString(r.Expression)
	b.WriteString(" →")
	for _, label := range r.Groups {
		fmt.Fprintf(&b, " %s:%v", label, r.Rolls[label])
	}
	if r.Modifier != 0 {
		fmt.Fprintf(&b, " %+d", r.Modifier)
	}
	fmt.Fprintf(&b, " = %d", r.Total)
	return b.String()
}
