package dice_test

import (
	"testing"

	"github.com/KirkDiggler/adventure-engine/internal/dice"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_TwoDSix(t *testing.T) {
	summary, err := dice.AnalyzeString("2d6")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Min)
	assert.Equal(t, 12, summary.Max)
	assert.InDelta(t, 7.0, summary.Mean, 1e-9)
	assert.InDelta(t, 2.4152, summary.StdDev, 1e-3)
	assert.Equal(t, 7, summary.Mode)
	assert.Equal(t, 7, summary.Median)
}

func TestAnalyze_SingleD20(t *testing.T) {
	summary, err := dice.AnalyzeString("1d20")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Min)
	assert.Equal(t, 20, summary.Max)
	assert.InDelta(t, 10.5, summary.Mean, 1e-9)
	// All outcomes are equally likely, so the mode ties break to the lowest.
	assert.Equal(t, 1, summary.Mode)
	assert.Equal(t, 10, summary.Median)
}

func TestAnalyze_ModifierShiftsDistribution(t *testing.T) {
	base, err := dice.AnalyzeString("2d6")
	require.NoError(t, err)

	shifted, err := dice.AnalyzeString("2d6+3")
	require.NoError(t, err)

	assert.Equal(t, base.Min+3, shifted.Min)
	assert.Equal(t, base.Max+3, shifted.Max)
	assert.InDelta(t, base.Mean+3, shifted.Mean, 1e-9)
	assert.InDelta(t, base.StdDev, shifted.StdDev, 1e-9)
	assert.Equal(t, base.Mode+3, shifted.Mode)
	assert.Equal(t, base.Median+3, shifted.Median)
}

func TestAnalyze_MedianAtExactHalf(t *testing.T) {
	// CDF(3) on 1d6 is exactly 0.5, so 3 is the median.
	summary, err := dice.AnalyzeString("1d6")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Median)
}

func TestAnalyze_MixedGroups(t *testing.T) {
	summary, err := dice.AnalyzeString("2d6+1d4+3")
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Min)
	assert.Equal(t, 19, summary.Max)
	// 7 + 2.5 + 3
	assert.InDelta(t, 12.5, summary.Mean, 1e-9)
	// var = 2*(35/12) + 15/12
	assert.InDelta(t, 2.6615, summary.StdDev, 1e-3)
}

func TestAnalyze_ModifierOnly(t *testing.T) {
	summary, err := dice.AnalyzeString("5")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Min)
	assert.Equal(t, 5, summary.Max)
	assert.InDelta(t, 5.0, summary.Mean, 1e-9)
	assert.InDelta(t, 0.0, summary.StdDev, 1e-9)
	assert.Equal(t, 5, summary.Mode)
	assert.Equal(t, 5, summary.Median)
}

func TestAnalyze_AdvantageNotFolded(t *testing.T) {
	// Statistics describe the base expression; the flag is preserved on the
	// parse but does not change the analysis.
	flagged, err := dice.AnalyzeString("2d6a")
	require.NoError(t, err)

	base, err := dice.AnalyzeString("2d6")
	require.NoError(t, err)

	assert.Equal(t, base.Min, flagged.Min)
	assert.Equal(t, base.Max, flagged.Max)
	assert.InDelta(t, base.Mean, flagged.Mean, 1e-9)
	assert.Equal(t, base.Mode, flagged.Mode)
}

func TestAnalyze_InvalidExpression(t *testing.T) {
	for _, input := range []string{"", "1d20ad", "1001d6", "nope"} {
		_, err := dice.AnalyzeString(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, engerr.IsInvalidExpression(err), "input %q", input)
	}
}

func TestAnalyze_NilExpression(t *testing.T) {
	_, err := dice.Analyze(nil)
	require.Error(t, err)
	assert.True(t, engerr.IsInvalidRequest(err))
}
