package compare

import (
	"fmt"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
)

// MetricsCalculator extracts key metrics from profile snapshots
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for a snapshot
func (mc *MetricsCalculator) CalculateMetrics(s domain.ProfileSnapshot) ComparisonResult {
	b := s.Breakdown
	return ComparisonResult{
		SnapshotID:        s.ID,
		CreatedAt:         s.CreatedAt,
		Score:             b.Total,
		Level:             b.Level,
		MonthlyIncome:     b.MonthlyIncome,
		TotalSpending:     b.TotalSpending,
		Savings:           b.Savings,
		SavingsPercentage: b.SavingsPercentage,
		DebtToIncome:      b.DebtToIncome,
		profile:           s.Profile,
	}
}

// CalculateComparison fills in how current moved relative to base
func (mc *MetricsCalculator) CalculateComparison(current, base ComparisonResult) ComparisonResult {
	current.ScoreDiffFromBase = current.Score - base.Score
	current.SavingsDiffFromBase = current.Savings.Sub(base.Savings)
	current.SavingsPctDiffFromBase = current.SavingsPercentage.Sub(base.SavingsPercentage)
	current.SpendingDiffFromBase = current.TotalSpending.Sub(base.TotalSpending)

	current.CategoryChanges = nil
	for _, c := range domain.Categories {
		was, now := base.profile.Amount(c), current.profile.Amount(c)
		if was.Equal(now) {
			continue
		}
		current.CategoryChanges = append(current.CategoryChanges, CategoryChange{
			Category: c,
			Base:     was,
			Current:  now,
			Diff:     now.Sub(was),
		})
	}
	return current
}

// CompareHistory compares every snapshot in h against the oldest one.
// At least two snapshots are required.
func CompareHistory(h domain.History) (*ComparisonSet, error) {
	if len(h) < 2 {
		return nil, fmt.Errorf("%w: need at least two snapshots to compare, have %d", domain.ErrInvalidInput, len(h))
	}

	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics(h[len(h)-1])

	alternatives := make([]ComparisonResult, 0, len(h)-1)
	for i := len(h) - 2; i >= 0; i-- {
		alternatives = append(alternatives, mc.CalculateComparison(mc.CalculateMetrics(h[i]), base))
	}

	compSet := &ComparisonSet{
		BaseResult:         &base,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// GenerateRecommendations summarizes the movement of the latest snapshot
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	latest := compSet.Latest()
	since := compSet.BaseResult.CreatedAt.Format("2006-01-02")

	switch d := latest.ScoreDiffFromBase; {
	case d > 0:
		recommendations = append(recommendations, fmt.Sprintf("Your score rose by %d points since %s.", d, since))
	case d < 0:
		recommendations = append(recommendations, fmt.Sprintf("Your score fell by %d points since %s.", -d, since))
	default:
		recommendations = append(recommendations, fmt.Sprintf("Your score is unchanged since %s.", since))
	}

	if pct := latest.SavingsPctDiffFromBase; pct.IsPositive() {
		recommendations = append(recommendations, "Savings rate up "+calculation.FormatPercent(pct)+".")
	} else if pct.IsNegative() {
		recommendations = append(recommendations, "Savings rate down "+calculation.FormatPercent(pct.Neg())+".")
	}

	var grew *CategoryChange
	for i := range latest.CategoryChanges {
		c := &latest.CategoryChanges[i]
		if c.Diff.IsPositive() && (grew == nil || c.Diff.GreaterThan(grew.Diff)) {
			grew = c
		}
	}
	if grew != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("%s spending grew the most: +%s.", grew.Category, calculation.FormatAmount(grew.Diff)))
	}

	return recommendations
}
