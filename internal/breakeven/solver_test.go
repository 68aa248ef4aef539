package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// createTestProfile scores 51 with 10,000.00 left over each month
func createTestProfile() domain.FinancialProfile {
	p := domain.NewFinancialProfile(d(50000))
	p.Set(domain.CategoryHousing, d(15000)).
		Set(domain.CategoryFood, d(8000)).
		Set(domain.CategoryEntertainment, d(4000)).
		Set(domain.CategoryShopping, d(3000)).
		Set(domain.CategorySavings, d(3000)).
		Set(domain.CategoryLoan, d(5000)).
		Set(domain.CategoryCreditCard, d(2000))
	return p
}

func request(target GoalTarget, value int64, lever Lever) GoalRequest {
	return GoalRequest{
		Profile: createTestProfile(),
		Target:  target,
		Value:   d(value),
		Lever:   lever,
	}
}

func TestSolve_BaseProfileScore(t *testing.T) {
	b, err := calculation.NewEngine().Evaluate(createTestProfile(), nil)
	require.NoError(t, err)
	assert.Equal(t, 51, b.Total, "Should match the fixture's documented score")
}

func TestSolve_SavingsWithDiscretionaryCut(t *testing.T) {
	solver := NewDefaultSolver(nil)

	result, err := solver.Solve(context.Background(), request(TargetSavings, 11000, LeverDiscretionary))
	require.NoError(t, err)

	assert.True(t, result.Reachable)
	assert.False(t, result.AlreadyMet)
	assert.True(t, result.After.Savings.GreaterThanOrEqual(d(11000)), "Should reach the savings goal")
	// 1,000.00 out of 7,000.00 discretionary is 14.29%
	assert.True(t, result.Adjustment.GreaterThanOrEqual(decimal.RequireFromString("14.28")), "got %s", result.Adjustment)
	assert.True(t, result.Adjustment.LessThanOrEqual(decimal.RequireFromString("14.31")), "got %s", result.Adjustment)
	assert.True(t, result.MonthlyChange.GreaterThanOrEqual(d(1000)))
	assert.True(t, result.MonthlyChange.LessThanOrEqual(d(1002)))
	assert.Contains(t, result.Change, "Cut discretionary spending by")
	assert.Equal(t, "Binary search converged", result.ConvergenceInfo)

	assert.True(t, result.Profile.Amount(domain.CategoryHousing).Equal(d(15000)), "Should leave essentials alone")
}

func TestSolve_CategoryLever(t *testing.T) {
	req := request(TargetSavings, 11000, LeverCategory)
	req.Category = "food"

	result, err := NewDefaultSolver(nil).Solve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryFood, result.Category, "Should resolve the category name")
	assert.True(t, result.Reachable)
	assert.Contains(t, result.Change, "Cut Food by")
	assert.True(t, result.Adjustment.GreaterThanOrEqual(decimal.RequireFromString("12.5")), "got %s", result.Adjustment)
	assert.True(t, result.Adjustment.LessThanOrEqual(decimal.RequireFromString("12.52")), "got %s", result.Adjustment)
}

func TestSolve_IncomeLever(t *testing.T) {
	result, err := NewDefaultSolver(nil).Solve(context.Background(), request(TargetSavings, 15000, LeverIncome))
	require.NoError(t, err)

	assert.True(t, result.Reachable)
	assert.True(t, result.Adjustment.GreaterThanOrEqual(d(10)), "got %s", result.Adjustment)
	assert.True(t, result.Adjustment.LessThanOrEqual(decimal.RequireFromString("10.02")), "got %s", result.Adjustment)
	assert.True(t, result.MonthlyChange.GreaterThanOrEqual(d(5000)), "Should report the extra income")
	assert.True(t, result.After.TotalSpending.Equal(d(40000)), "Should leave spending alone")
}

func TestSolve_AlreadyMet(t *testing.T) {
	result, err := NewDefaultSolver(nil).Solve(context.Background(), request(TargetSavings, 5000, LeverDiscretionary))
	require.NoError(t, err)

	assert.True(t, result.Reachable)
	assert.True(t, result.AlreadyMet)
	assert.Equal(t, "No change needed", result.Change)
	assert.True(t, result.Adjustment.IsZero())
	assert.Equal(t, result.Before.Total, result.After.Total)
}

func TestSolve_Unreachable(t *testing.T) {
	// cutting every bit of the 7,000.00 discretionary spending leaves 17,000.00
	result, err := NewDefaultSolver(nil).Solve(context.Background(), request(TargetSavings, 20000, LeverDiscretionary))
	require.NoError(t, err)

	assert.False(t, result.Reachable)
	assert.True(t, result.Adjustment.Equal(d(100)))
	assert.True(t, result.After.Savings.Equal(d(17000)))
	assert.Contains(t, result.ConvergenceInfo, "not reachable")
}

func TestSolve_ScoreScan(t *testing.T) {
	result, err := NewDefaultSolver(nil).Solve(context.Background(), request(TargetScore, 55, LeverDiscretionary))
	require.NoError(t, err)

	// 31% frees 2,170.00 and scores 54; 32% frees 2,240.00 and scores 55
	assert.True(t, result.Reachable)
	assert.True(t, result.Adjustment.Equal(d(32)), "got %s", result.Adjustment)
	assert.Equal(t, 55, result.After.Total)
	assert.Equal(t, 32, result.Iterations)
	assert.True(t, result.MonthlyChange.Equal(d(2240)))

	result, err = NewDefaultSolver(nil).Solve(context.Background(), request(TargetScore, 90, LeverDiscretionary))
	require.NoError(t, err)
	assert.False(t, result.Reachable)
	assert.Equal(t, 62, result.After.Total)
	assert.Contains(t, result.ConvergenceInfo, "within a 100% adjustment")
}

func TestSolve_FutureValue(t *testing.T) {
	req := request(TargetFutureValue, 150000, LeverDiscretionary)
	req.Years = 1

	result, err := NewDefaultSolver(nil).Solve(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, result.RequiredSavings)
	assert.True(t, result.RequiredSavings.Equal(d(12500)), "got %s", result.RequiredSavings)
	assert.True(t, result.Reachable)
	assert.True(t, result.After.Savings.GreaterThanOrEqual(d(12500)))
}

func TestRequiredContribution(t *testing.T) {
	solver := NewDefaultSolver(nil)
	ctx := context.Background()

	c, err := solver.RequiredContribution(ctx, d(12000), decimal.Zero, 1)
	require.NoError(t, err)
	assert.True(t, c.Equal(d(1000)), "got %s", c)

	target := d(100000)
	c, err = solver.RequiredContribution(ctx, target, d(7), 10)
	require.NoError(t, err)

	p, err := calculation.ProjectSavings(c, d(7), 10)
	require.NoError(t, err)
	assert.True(t, p.FutureValue.GreaterThanOrEqual(target), "Should reach the target")

	p, err = calculation.ProjectSavings(c.Sub(decimal.New(1, -2)), d(7), 10)
	require.NoError(t, err)
	assert.True(t, p.FutureValue.LessThan(target), "Should be the smallest cent amount")
}

func TestSolve_ValidationErrors(t *testing.T) {
	solver := NewDefaultSolver(nil)

	tests := []struct {
		name   string
		mutate func(*GoalRequest)
	}{
		{"zero value", func(r *GoalRequest) { r.Value = decimal.Zero }},
		{"score above 100", func(r *GoalRequest) { r.Target = TargetScore; r.Value = d(101) }},
		{"savings rate of 100", func(r *GoalRequest) { r.Target = TargetSavingsRate; r.Value = d(100) }},
		{"future value without years", func(r *GoalRequest) { r.Target = TargetFutureValue }},
		{"unknown lever", func(r *GoalRequest) { r.Lever = "luck" }},
		{"unknown category", func(r *GoalRequest) { r.Lever = LeverCategory; r.Category = "yachts" }},
		{"savings category", func(r *GoalRequest) { r.Lever = LeverCategory; r.Category = domain.CategorySavings }},
		{"negative income", func(r *GoalRequest) { r.Profile.MonthlyIncome = d(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(TargetSavings, 11000, LeverDiscretionary)
			tt.mutate(&req)

			_, err := solver.Solve(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var be *BreakEvenError
			require.True(t, errors.As(err, &be), "Should return a BreakEvenError")
			assert.Equal(t, "validate_request", be.Operation)
		})
	}
}

func TestSolve_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver(nil).Solve(ctx, request(TargetSavings, 11000, LeverDiscretionary))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewDefaultSolver(nil).Solve(ctx, request(TargetScore, 55, LeverDiscretionary))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSolver_ZeroOptions(t *testing.T) {
	solver := NewSolver(nil, SolverOptions{})
	assert.NotNil(t, solver.Engine)
	assert.Equal(t, DefaultSolverOptions().MaxIterations, solver.Options.MaxIterations)
	assert.True(t, solver.Options.MaxIncomeRaise.Equal(d(100)))
}

func TestParseTargetAndLever(t *testing.T) {
	target, err := ParseTarget("savings_rate")
	require.NoError(t, err)
	assert.Equal(t, TargetSavingsRate, target)

	_, err = ParseTarget("wealth")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	lever, err := ParseLever("income")
	require.NoError(t, err)
	assert.Equal(t, LeverIncome, lever)

	_, err = ParseLever("")
	assert.Error(t, err)
}

func TestCompareLevers(t *testing.T) {
	solver := NewDefaultSolver(nil)

	comparison, err := solver.CompareLevers(context.Background(), request(TargetSavings, 18000, LeverDiscretionary))
	require.NoError(t, err)

	// discretionary, income, then Housing, Food, Entertainment and Shopping
	require.Len(t, comparison.Results, 6)
	for _, r := range comparison.Results {
		assert.False(t, r.Category.IsDebt(), "Should never cut debt payments")
		assert.NotEqual(t, domain.CategorySavings, r.Category)
	}

	require.NotNil(t, comparison.Best)
	assert.True(t, comparison.Best.Reachable)
	for _, r := range comparison.Results {
		if r.Reachable {
			assert.True(t, comparison.Best.MonthlyChange.LessThanOrEqual(r.MonthlyChange),
				"Should pick the smallest monthly change")
		}
	}

	require.NotEmpty(t, comparison.Recommendations)
	assert.Contains(t, comparison.Recommendations[0], "Easiest path")
	assert.Contains(t, comparison.Recommendations, "Cutting Entertainment alone is not enough")
}

func TestCompareLevers_NothingReaches(t *testing.T) {
	comparison, err := NewDefaultSolver(nil).CompareLevers(context.Background(), request(TargetScore, 90, LeverDiscretionary))
	require.NoError(t, err)

	assert.Nil(t, comparison.Best)
	require.Len(t, comparison.Recommendations, 1)
	assert.Contains(t, comparison.Recommendations[0], "No single lever")
}

func TestCompareLevers_InvalidGoal(t *testing.T) {
	_, err := NewDefaultSolver(nil).CompareLevers(context.Background(), request(TargetScore, 150, LeverDiscretionary))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
