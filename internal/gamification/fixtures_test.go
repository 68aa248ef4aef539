package gamification

import (
	"time"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

var day0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func onDay(n int) time.Time { return day0.AddDate(0, 0, n) }

func dateOf(n int) domain.Date { return domain.DateOf(onDay(n)) }

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Challenges: []domain.Challenge{
			{ID: "save_money", Type: domain.ChallengeSaveMoney, Rules: domain.ChallengeRules{MinAmount: decimal.NewFromInt(100)}, Reward: domain.Reward{Coins: 10, XP: 20}},
			{ID: "track_expenses", Type: domain.ChallengeTrackExpenses, Rules: domain.ChallengeRules{MinCount: 3}, Reward: domain.Reward{Coins: 15, XP: 30}},
			{ID: "avoid_purchase", Type: domain.ChallengeAvoidPurchase, Reward: domain.Reward{Coins: 20, XP: 40}},
			{ID: "calculate_emi", Type: domain.ChallengeCalculateEMI, Reward: domain.Reward{Coins: 15, XP: 30}},
			{ID: "emergency_fund", Type: domain.ChallengeEmergencyFund, Reward: domain.Reward{Coins: 25, XP: 50}},
		},
		Badges: []domain.Badge{
			{ID: "challenge_starter", Title: "Challenge Starter", Unlock: domain.Criterion{Kind: domain.CriterionChallengeCount, Threshold: 1}},
			{ID: "challenge_champion", Title: "Challenge Champion", Unlock: domain.Criterion{Kind: domain.CriterionChallengeCount, Threshold: 5}},
			{ID: "on_a_roll", Title: "On a Roll", Unlock: domain.Criterion{Kind: domain.CriterionStreak, Threshold: 2}},
			{ID: "budget_master", Title: "Budget Master", Unlock: domain.Criterion{Kind: domain.CriterionSnapshotCount, Threshold: 5}},
			{ID: "savings_star", Title: "Savings Star", Unlock: domain.Criterion{Kind: domain.CriterionSavingsRateRun, Threshold: 3, Percent: 20}},
			{ID: "investment_rookie", Title: "Investment Rookie", Unlock: domain.Criterion{Kind: domain.CriterionQuizScore, Quizzes: []string{"investment"}, Percent: 70}},
			{ID: "quiz_whiz", Title: "Quiz Whiz", Unlock: domain.Criterion{Kind: domain.CriterionCorrectAnswers, Threshold: 10}},
			{ID: "investor", Title: "Investor", Unlock: domain.Criterion{Kind: domain.CriterionLevel, Level: domain.LevelInvestor}},
		},
	}
}

// validSubmissions holds a passing submission per default challenge
var validSubmissions = map[string]map[string]string{
	"save_money":     {"amount": "250"},
	"track_expenses": {"count": "3"},
	"avoid_purchase": {"description": "skipped takeaway"},
	"calculate_emi":  {"amount": "100000", "tenure": "12", "interest_rate": "12"},
	"emergency_fund": {"monthly_expenses": "8000", "target_months": "3"},
}

func historyOfRates(rates ...int64) domain.History {
	h := make(domain.History, 0, len(rates))
	for _, r := range rates {
		h = append(h, domain.ProfileSnapshot{
			Breakdown: domain.ScoreBreakdown{SavingsPercentage: decimal.NewFromInt(r)},
		})
	}
	return h
}
