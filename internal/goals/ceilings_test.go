package goals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluateCeilings_ExceededAboveHundredOne(t *testing.T) {
	statuses := EvaluateCeilings(map[int]decimal.Decimal{1: dec("1050")})
	require.Len(t, statuses, 1)

	st := statuses[0]
	assert.Equal(t, 1, st.PlanCode)
	assert.True(t, st.Percent.Equal(dec("105")))
	assert.Equal(t, "exceeded", st.Alert)
}

func TestEvaluateCeilings_TierLadder(t *testing.T) {
	cases := []struct {
		total string
		alert string
	}{
		{"1020", "exceeded"}, // 102% > 101
		{"1010", "reached"},  // exactly 101 is not past the exclusive bound
		{"1000", "reached"},
		{"950", "95%"},
		{"900", "90%"},
		{"850", "85%"},
		{"800", "80%"},
		{"700", "70%"},
		{"500", "50%"},
		{"499.99", ""},
		{"0", ""},
	}

	for _, tc := range cases {
		statuses := EvaluateCeilings(map[int]decimal.Decimal{1: dec(tc.total)})
		require.Len(t, statuses, 1)
		assert.Equal(t, tc.alert, statuses[0].Alert, "total %s", tc.total)
	}
}

func TestEvaluateCeilings_UnconfiguredPlanCode(t *testing.T) {
	statuses := EvaluateCeilings(map[int]decimal.Decimal{99: dec("5000")})
	require.Len(t, statuses, 1)

	st := statuses[0]
	assert.True(t, st.Ceiling.IsZero())
	assert.True(t, st.Percent.IsZero())
	assert.Empty(t, st.Alert)
}

func TestEvaluateCeilings_OrderedByPlanCode(t *testing.T) {
	statuses := EvaluateCeilings(map[int]decimal.Decimal{
		3: dec("10"),
		1: dec("10"),
		2: dec("10"),
	})
	require.Len(t, statuses, 3)
	assert.Equal(t, 1, statuses[0].PlanCode)
	assert.Equal(t, 2, statuses[1].PlanCode)
	assert.Equal(t, 3, statuses[2].PlanCode)
}

func TestEvaluateCeilings_Empty(t *testing.T) {
	assert.Empty(t, EvaluateCeilings(nil))
	assert.Empty(t, EvaluateCeilings(map[int]decimal.Decimal{}))
}
