package compare

import (
	"fmt"
	"testing"
	"time"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T, id string, day int, amounts map[domain.Category]int64) domain.ProfileSnapshot {
	t.Helper()
	p := domain.NewFinancialProfile(decimal.NewFromInt(50000))
	for c, a := range amounts {
		p.Set(c, decimal.NewFromInt(a))
	}
	b, err := calculation.NewEngine().Evaluate(p, nil)
	require.NoError(t, err)
	return domain.ProfileSnapshot{
		ID:        id,
		Profile:   p,
		Breakdown: b,
		CreatedAt: time.Date(2025, 4, day, 0, 0, 0, 0, time.UTC),
	}
}

func testHistory(t *testing.T) domain.History {
	first := snapshot(t, "a", 1, map[domain.Category]int64{
		domain.CategoryHousing: 20000,
		domain.CategoryFood:    10000,
	})
	second := snapshot(t, "b", 8, map[domain.Category]int64{
		domain.CategoryHousing:       20000,
		domain.CategoryFood:          5000,
		domain.CategoryEntertainment: 5000,
	})
	third := snapshot(t, "c", 15, map[domain.Category]int64{
		domain.CategoryHousing: 20000,
		domain.CategoryFood:    4000,
	})
	return domain.History{third, second, first}
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	s := testHistory(t)[2]

	result := NewMetricsCalculator().CalculateMetrics(s)

	assert.Equal(t, "a", result.SnapshotID, "Should carry the snapshot id")
	assert.Equal(t, 52, result.Score, "Should carry the score")
	assert.Equal(t, domain.HealthImproving, result.Level, "Should carry the level")
	assert.True(t, result.Savings.Equal(decimal.NewFromInt(20000)), "Should carry savings")
	assert.True(t, result.SavingsPercentage.Equal(decimal.NewFromInt(40)), "Should carry the savings rate")
	assert.Zero(t, result.ScoreDiffFromBase, "Should not compare without a base")
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	h := testHistory(t)
	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics(h[2])

	result := mc.CalculateComparison(mc.CalculateMetrics(h[1]), base)

	assert.Equal(t, h[1].Breakdown.Total-h[2].Breakdown.Total, result.ScoreDiffFromBase, "Should diff the scores")
	assert.True(t, result.SpendingDiffFromBase.IsZero(), "Should see unchanged total spending")
	require.Len(t, result.CategoryChanges, 2, "Should list only categories that moved")
	assert.Equal(t, domain.CategoryFood, result.CategoryChanges[0].Category, "Should follow category order")
	assert.Equal(t, "-5000", result.CategoryChanges[0].Diff.String())
	assert.Equal(t, domain.CategoryEntertainment, result.CategoryChanges[1].Category)
	assert.Equal(t, "5000", result.CategoryChanges[1].Diff.String())
	assert.True(t, result.CategoryChanges[1].Base.IsZero(), "Should treat an absent category as zero")
}

func TestCompareHistory(t *testing.T) {
	h := testHistory(t)

	set, err := CompareHistory(h)
	require.NoError(t, err)

	assert.Equal(t, "a", set.BaseResult.SnapshotID, "Should use the oldest snapshot as base")
	require.Len(t, set.AlternativeResults, 2)
	assert.Equal(t, "b", set.AlternativeResults[0].SnapshotID, "Should list alternatives oldest first")
	assert.Equal(t, "c", set.Latest().SnapshotID, "Should end with the newest snapshot")

	latest := set.Latest()
	assert.Equal(t, "-6000", latest.SpendingDiffFromBase.String())
	assert.Equal(t, "6000", latest.SavingsDiffFromBase.String())
	assert.Equal(t, "12", latest.SavingsPctDiffFromBase.String(), "Should move from 40% to 52%")

	d := h[0].Breakdown.Total - h[2].Breakdown.Total
	require.NotEmpty(t, set.Recommendations)
	if d > 0 {
		assert.True(t, set.Improved())
		assert.Equal(t, fmt.Sprintf("Your score rose by %d points since 2025-04-01.", d), set.Recommendations[0])
	} else {
		assert.False(t, set.Improved())
	}
	assert.Contains(t, set.Recommendations, "Savings rate up 12.0%.")
}

func TestCompareHistory_RequiresTwoSnapshots(t *testing.T) {
	_, err := CompareHistory(testHistory(t)[:1])

	assert.ErrorIs(t, err, domain.ErrInvalidInput, "Should reject a single snapshot")
	assert.Contains(t, err.Error(), "have 1")
}

func TestGenerateRecommendations(t *testing.T) {
	base := ComparisonResult{CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}

	t.Run("no alternatives", func(t *testing.T) {
		assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &base}))
	})

	t.Run("score fell and spending grew", func(t *testing.T) {
		set := &ComparisonSet{
			BaseResult: &base,
			AlternativeResults: []ComparisonResult{{
				ScoreDiffFromBase:      -7,
				SavingsPctDiffFromBase: decimal.NewFromFloat(-2.5),
				CategoryChanges: []CategoryChange{
					{Category: domain.CategoryFood, Diff: decimal.NewFromInt(300)},
					{Category: domain.CategoryShopping, Diff: decimal.NewFromInt(1200)},
					{Category: domain.CategoryLoan, Diff: decimal.NewFromInt(-500)},
				},
			}},
		}

		recs := GenerateRecommendations(set)

		assert.Equal(t, []string{
			"Your score fell by 7 points since 2025-01-02.",
			"Savings rate down 2.5%.",
			"Shopping spending grew the most: +1,200.00.",
		}, recs)
	})

	t.Run("unchanged", func(t *testing.T) {
		set := &ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{{}}}

		assert.Equal(t, []string{"Your score is unchanged since 2025-01-02."}, GenerateRecommendations(set))
	})
}
