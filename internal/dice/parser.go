package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

var (
	// expressionRegex splits a normalized expression into its term list and
	// an optional trailing advantage/disadvantage marker
	expressionRegex = regexp.MustCompile(`^([+-]?\d+(?:d\d+)?(?:[+-]\d+(?:d\d+)?)*)(a|d|ad|da)?$`)

	// termRegex matches one signed term: an NdS dice group or a flat integer
	termRegex = regexp.MustCompile(`([+-]?)(\d+)(?:d(\d+))?`)
)

// Parse tokenizes and validates a dice notation string into a
// ParsedExpression. Terms are separated by '+' or '-'; each term is either
// an NdS dice group or a bare signed integer. A trailing 'a' or 'd'
// (case-insensitive) marks the whole expression as rolled with advantage or
// disadvantage; both at once is a hard parse error, never silently resolved.
func Parse(text string) (*ParsedExpression, error) {
	normalized := normalize(text)
	if normalized == "" {
		return nil, engerr.InvalidExpression("empty dice expression")
	}

	match := expressionRegex.FindStringSubmatch(normalized)
	if match == nil {
		return nil, engerr.InvalidExpressionf("unrecognized dice expression %q", text)
	}

	expr := &ParsedExpression{Raw: text}

	switch match[2] {
	case "":
	case "a":
		expr.HasAdvantage = true
	case "d":
		expr.HasDisadvantage = true
	default: // "ad" or "da"
		return nil, engerr.InvalidExpressionf(
			"conflicting advantage and disadvantage flags in %q", text)
	}

	terms, err := parseTerms(match[1], text)
	if err != nil {
		return nil, err
	}
	expr.Terms = terms

	return expr, nil
}

// parseTerms parses the '+'/'-' separated term list. raw is the original
// input, used only for error messages.
func parseTerms(list, raw string) ([]Term, error) {
	matches := termRegex.FindAllStringSubmatch(list, -1)

	// The expression regexp guarantees full coverage, so every character of
	// the list belongs to exactly one term match.
	terms := make([]Term, 0, len(matches))
	seen := make(map[string]int)

	for _, m := range matches {
		sign, countStr, sidesStr := m[1], m[2], m[3]

		if sidesStr == "" {
			value, err := strconv.Atoi(countStr)
			if err != nil {
				return nil, engerr.InvalidExpressionf("invalid modifier in %q", raw)
			}
			if sign == "-" {
				value = -value
			}
			if value < -MaxModifier || value > MaxModifier {
				return nil, engerr.InvalidExpressionf(
					"modifier %d out of range [-%d, %d] in %q", value, MaxModifier, MaxModifier, raw)
			}
			terms = append(terms, Term{Kind: TermModifier, Value: value})
			continue
		}

		if sign == "-" {
			return nil, engerr.InvalidExpressionf("dice group cannot be subtracted in %q", raw)
		}

		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, engerr.InvalidExpressionf("invalid dice count in %q", raw)
		}
		sides, err := strconv.Atoi(sidesStr)
		if err != nil {
			return nil, engerr.InvalidExpressionf("invalid dice sides in %q", raw)
		}
		if count < 1 || count > MaxDiceCount {
			return nil, engerr.InvalidExpressionf(
				"dice count %d out of range [1, %d] in %q", count, MaxDiceCount, raw)
		}
		if sides < 1 || sides > MaxDiceSides {
			return nil, engerr.InvalidExpressionf(
				"dice sides %d out of range [1, %d] in %q", sides, MaxDiceSides, raw)
		}

		label := fmt.Sprintf("%dd%d", count, sides)
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s#%d", label, n)
		}

		terms = append(terms, Term{Kind: TermDice, Count: count, Sides: sides, Label: label})
	}

	if len(terms) == 0 {
		return nil, engerr.InvalidExpressionf("no terms in dice expression %q", raw)
	}

	return terms, nil
}

// normalize lowercases the input and strips all whitespace between terms.
func normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)
}
