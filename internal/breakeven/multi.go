package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
)

// CompareLevers solves the same goal with every lever that can move it and
// picks the one needing the smallest monthly change. Each spending category
// with a positive amount gets its own attempt; savings and debt payments are
// never cut.
func (s *Solver) CompareLevers(ctx context.Context, req GoalRequest) (*LeverComparison, error) {
	type attempt struct {
		lever    Lever
		category domain.Category
	}

	attempts := []attempt{{lever: LeverDiscretionary}, {lever: LeverIncome}}
	for _, c := range domain.Categories {
		if c == domain.CategorySavings || c.IsDebt() || !req.Profile.Amount(c).IsPositive() {
			continue
		}
		attempts = append(attempts, attempt{lever: LeverCategory, category: c})
	}

	var results []GoalResult
	for _, a := range attempts {
		r := req
		r.Lever = a.lever
		r.Category = a.category

		result, err := s.Solve(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// an invalid goal fails the same way for every lever
			if a.lever == LeverDiscretionary {
				return nil, err
			}
			continue
		}
		results = append(results, *result)
	}

	comparison := &LeverComparison{Results: results}
	for i := range results {
		if !results[i].Reachable {
			continue
		}
		if comparison.Best == nil || results[i].MonthlyChange.LessThan(comparison.Best.MonthlyChange) {
			comparison.Best = &results[i]
		}
	}

	comparison.Recommendations = leverRecommendations(comparison)
	return comparison, nil
}

func leverName(r GoalResult) string {
	if r.Lever == LeverCategory {
		return string(r.Category)
	}
	return string(r.Lever)
}

func leverRecommendations(c *LeverComparison) []string {
	if c.Best == nil {
		return []string{"No single lever reaches this goal; combine changes with 'finquest whatif'"}
	}
	if c.Best.AlreadyMet {
		return []string{"Goal already met with the current budget"}
	}

	recs := []string{fmt.Sprintf("Easiest path: %s (%s per month)",
		c.Best.Change, calculation.FormatAmount(c.Best.MonthlyChange))}

	reachable := 0
	for _, r := range c.Results {
		if r.Reachable {
			reachable++
		}
	}
	if reachable > 1 {
		recs = append(recs, fmt.Sprintf("%d of %d levers reach the goal", reachable, len(c.Results)))
	}

	for _, r := range c.Results {
		if r.Lever == LeverIncome && r.Reachable && c.Best.Lever != LeverIncome {
			recs = append(recs, fmt.Sprintf("Alternatively: %s", r.Change))
		}
		if !r.Reachable && r.Lever == LeverCategory {
			recs = append(recs, fmt.Sprintf("Cutting %s alone is not enough", leverName(r)))
		}
	}
	return recs
}
