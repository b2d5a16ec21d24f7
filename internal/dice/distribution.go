package dice

import (
	"math"

	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

// DistributionSummary holds exact statistics for a dice expression's outcome
// distribution, computed analytically rather than by sampling.
type DistributionSummary struct {
	// Expression is the original expression text
	Expression string

	// Min and Max are the lowest and highest possible totals
	Min int
	Max int

	// Mean is the expected value of the total
	Mean float64

	// StdDev is the population standard deviation of the total
	StdDev float64

	// Mode is the most probable total; ties break toward the lowest value
	Mode int

	// Median is the smallest total whose cumulative probability reaches 0.5
	Median int
}

// Analyze computes the exact probability distribution of the expression's
// total by discrete convolution of each dice group's uniform distribution,
// then folding in the flat modifier as a constant shift.
//
// Advantage and disadvantage are not folded into the analysis; the
// statistics describe the base expression.
func Analyze(expr *ParsedExpression) (*DistributionSummary, error) {
	if expr == nil {
		return nil, engerr.InvalidRequest("expression cannot be nil")
	}

	modifier := expr.Modifier()
	groups := expr.DiceTerms()

	summary := &DistributionSummary{
		Expression: expr.Raw,
	}

	// Closed forms: min/max/mean/variance of a sum of independent uniform
	// dice. Variance of one dN is (N²-1)/12.
	variance := 0.0
	summary.Min = modifier
	summary.Max = modifier
	summary.Mean = float64(modifier)
	for _, g := range groups {
		summary.Min += g.Count
		summary.Max += g.Count * g.Sides
		summary.Mean += float64(g.Count) * float64(g.Sides+1) / 2
		variance += float64(g.Count) * (float64(g.Sides)*float64(g.Sides) - 1) / 12
	}
	summary.StdDev = math.Sqrt(variance)

	// Mode and median need the full convolved distribution.
	dist := convolve(groups)

	// Tolerance absorbs floating-point drift from the repeated window sums,
	// so exact-probability ties still break toward the lowest value and a
	// CDF that lands exactly on 0.5 is not missed.
	const eps = 1e-9

	mode := 0
	best := -1.0
	cumulative := 0.0
	median := -1
	for i, p := range dist {
		if p > best+eps {
			best = p
			mode = i
		}
		cumulative += p
		if median < 0 && cumulative >= 0.5-eps {
			median = i
		}
	}
	if median < 0 {
		// Floating point drift left the CDF a hair short of 0.5; the last
		// outcome is the median by definition.
		median = len(dist) - 1
	}

	// dist[0] corresponds to the minimum dice total (one per die).
	diceMin := summary.Min - modifier
	summary.Mode = diceMin + mode + modifier
	summary.Median = diceMin + median + modifier

	return summary, nil
}

// AnalyzeString parses text and analyzes it in a single call. Invalid
// expressions fail parse validation rather than producing a partial summary.
func AnalyzeString(text string) (*DistributionSummary, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Analyze(expr)
}

// convolve returns the probability mass of the summed dice groups, indexed
// from the minimum possible dice total. Each die is folded in with a
// sliding-window sum, so the cost per die is linear in the output range.
func convolve(groups []Term) []float64 {
	dist := []float64{1}

	for _, g := range groups {
		for i := 0; i < g.Count; i++ {
			dist = convolveDie(dist, g.Sides)
		}
	}

	return dist
}

// convolveDie folds one uniform die with `sides` faces into dist. The output
// is indexed from the new minimum (old minimum + 1).
func convolveDie(dist []float64, sides int) []float64 {
	out := make([]float64, len(dist)+sides-1)
	p := 1 / float64(sides)

	// out[i] = p * sum(dist[i-sides+1 .. i]); maintain the window sum
	// incrementally instead of re-summing per index.
	window := 0.0
	for i := range out {
		if i < len(dist) {
			window += dist[i]
		}
		if i-sides >= 0 && i-sides < len(dist) {
			window -= dist[i-sides]
		}
		out[i] = window * p
	}

	return out
}
