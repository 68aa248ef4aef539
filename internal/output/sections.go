package output

import (
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
)

// breakdownOf picks the breakdown to render: an explicit one first, then the
// submitted snapshot's, then the dashboard's latest
func breakdownOf(r *Report) *domain.ScoreBreakdown {
	switch {
	case r.Breakdown != nil:
		return r.Breakdown
	case r.Snapshot != nil:
		return &r.Snapshot.Breakdown
	case r.Dashboard != nil && r.Dashboard.Latest != nil:
		return &r.Dashboard.Latest.Breakdown
	}
	return nil
}

func badgesOf(r *Report) []gamification.BadgeView {
	if len(r.Badges) > 0 {
		return r.Badges
	}
	if r.Dashboard != nil {
		return r.Dashboard.Badges
	}
	return nil
}

// trendResults lists the base followed by the newer snapshots
func trendResults(t *compare.ComparisonSet) []compare.ComparisonResult {
	out := make([]compare.ComparisonResult, 0, len(t.AlternativeResults)+1)
	if t.BaseResult != nil {
		out = append(out, *t.BaseResult)
	}
	return append(out, t.AlternativeResults...)
}

func earnedCount(views []gamification.BadgeView) int {
	n := 0
	for _, v := range views {
		if v.Earned {
			n++
		}
	}
	return n
}
