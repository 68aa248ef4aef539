package gamification

import (
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// BadgeUnlock is emitted once when a badge is first earned
type BadgeUnlock struct {
	Badge   domain.Badge `json:"badge"`
	Message string       `json:"message"`
}

// Satisfied interprets a badge criterion against the user's state and
// snapshot history. Unknown kinds are never satisfied.
func Satisfied(c domain.Criterion, state domain.GamificationState, history domain.History) bool {
	switch c.Kind {
	case domain.CriterionChallengeCount:
		return state.TotalCompletions() >= c.Threshold
	case domain.CriterionStreak:
		return state.Streak >= c.Threshold
	case domain.CriterionActiveDays:
		return state.ActiveDays() >= c.Threshold
	case domain.CriterionSnapshotCount:
		return len(history) >= c.Threshold
	case domain.CriterionSavingsRateRun:
		return savingsRun(history, c.Threshold, c.Percent)
	case domain.CriterionQuizScore:
		return quizScoresAtLeast(state, c.Quizzes, c.Percent)
	case domain.CriterionCorrectAnswers:
		return state.CorrectAnswers >= c.Threshold
	case domain.CriterionLevel:
		want := c.Level.Rank()
		return want > 0 && LevelForXP(state.XP).Rank() >= want
	case domain.CriterionCoins:
		return state.Coins >= c.Threshold
	}
	return false
}

// savingsRun reports whether the n most recent snapshots all saved at least pct
func savingsRun(history domain.History, n, pct int) bool {
	if n <= 0 || len(history) < n {
		return false
	}
	floor := decimal.NewFromInt(int64(pct))
	for _, snap := range history.Recent(n) {
		if snap.Breakdown.SavingsPercentage.LessThan(floor) {
			return false
		}
	}
	return true
}

// quizScoresAtLeast reports whether the latest score of every quiz is at least pct
func quizScoresAtLeast(state domain.GamificationState, quizzes []string, pct int) bool {
	if len(quizzes) == 0 {
		return false
	}
	for _, quiz := range quizzes {
		score, ok := state.LatestQuizScore(quiz)
		if !ok || score < pct {
			return false
		}
	}
	return true
}

// EvaluateBadges unlocks every catalog badge whose criterion now holds and
// returns the updated state with one unlock per newly earned badge, in
// catalog order. Earned badges are never re-checked or removed.
func EvaluateBadges(catalog *domain.Catalog, state domain.GamificationState, history domain.History) (domain.GamificationState, []BadgeUnlock) {
	out := state.Clone()
	var unlocked []BadgeUnlock
	for _, b := range catalog.Badges {
		if out.HasBadge(b.ID) || !Satisfied(b.Unlock, out, history) {
			continue
		}
		out.Badges = append(out.Badges, b.ID)
		unlocked = append(unlocked, BadgeUnlock{
			Badge:   b,
			Message: "You've earned the " + b.Title + " badge!",
		})
	}
	return out, unlocked
}

// BadgeView pairs a catalog badge with whether the user has earned it
type BadgeView struct {
	Badge  domain.Badge `json:"badge"`
	Earned bool         `json:"earned"`
}

// Badges lists every catalog badge with its earned flag, in catalog order
func Badges(catalog *domain.Catalog, state domain.GamificationState) []BadgeView {
	views := make([]BadgeView, 0, len(catalog.Badges))
	for _, b := range catalog.Badges {
		views = append(views, BadgeView{Badge: b, Earned: state.HasBadge(b.ID)})
	}
	return views
}
