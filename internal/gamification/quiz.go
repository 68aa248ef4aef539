package gamification

import (
	"fmt"
	"math"
	"strings"

	"github.com/rgehrsitz/finquest/internal/domain"
)

const (
	coinsPerCorrect = 10
	runBonusCoins   = 5
	runBonusLength  = 3
	xpPerTenPercent = 5
)

// QuizAttempt is one finished quiz, one entry per question in order
type QuizAttempt struct {
	QuizID  string `json:"quiz_id"`
	Answers []bool `json:"answers"`
}

// QuizResult summarises the scoring of an attempt
type QuizResult struct {
	QuizID     string `json:"quiz_id"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	RunBonuses int    `json:"run_bonuses"`
}

// ScoreQuiz computes the result and reward of an attempt. Each correct answer
// earns 10 coins and every third correct answer in a row earns 5 more; XP is
// 5 per started 10% of the score.
func ScoreQuiz(attempt QuizAttempt) (QuizResult, domain.Reward, error) {
	quizID := strings.TrimSpace(attempt.QuizID)
	if quizID == "" {
		return QuizResult{}, domain.Reward{}, fmt.Errorf("%w: quiz id is required", domain.ErrInvalidInput)
	}
	if len(attempt.Answers) == 0 {
		return QuizResult{}, domain.Reward{}, fmt.Errorf("%w: quiz %s has no answers", domain.ErrInvalidInput, quizID)
	}

	res := QuizResult{QuizID: quizID, Total: len(attempt.Answers)}
	run := 0
	for _, ok := range attempt.Answers {
		if !ok {
			run = 0
			continue
		}
		res.Correct++
		run++
		if run%runBonusLength == 0 {
			res.RunBonuses++
		}
	}
	res.Percentage = int(math.Round(float64(res.Correct) / float64(res.Total) * 100))

	reward := domain.Reward{
		Coins: res.Correct*coinsPerCorrect + res.RunBonuses*runBonusCoins,
		XP:    int(math.Ceil(float64(res.Percentage)/10)) * xpPerTenPercent,
	}
	return res, reward, nil
}
