package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. The zero value sorts before
// every real date, which is what the streak rules expect for "never".
type Date string

// DateOf returns the calendar day of t in t's location
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates and returns a Date
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return Date(s), nil
}

// AddDays shifts the date by n days. The zero date stays zero.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return ""
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than o
func (d Date) Before(o Date) bool { return d < o }

// IsZero reports whether the date is unset
func (d Date) IsZero() bool { return d == "" }

func (d Date) String() string { return string(d) }

// Level is the XP-derived gamification level
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelSmartSaver   Level = "Smart Saver"
	LevelInvestor     Level = "Investor"
	LevelFinancialPro Level = "Financial Pro"
)

// LevelTier is a level and the XP needed to reach it
type LevelTier struct {
	Level Level
	MinXP int
}

// LevelTiers are ordered by ascending MinXP; rank is index+1
var LevelTiers = []LevelTier{
	{LevelBeginner, 0},
	{LevelSmartSaver, 50},
	{LevelInvestor, 150},
	{LevelFinancialPro, 300},
}

// Rank returns the 1-based position of the level, 0 when unknown
func (l Level) Rank() int {
	for i, t := range LevelTiers {
		if t.Level == l {
			return i + 1
		}
	}
	return 0
}

// ParseLevel resolves a level name
func ParseLevel(s string) (Level, bool) {
	for _, t := range LevelTiers {
		if string(t.Level) == s {
			return t.Level, true
		}
	}
	return "", false
}

// CompletionData is the validated payload stored with a completed challenge.
// Only the fields relevant to the challenge type are set.
type CompletionData struct {
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
	Count         *int               `json:"count,omitempty"`
	Description   string             `json:"description,omitempty"`
	Loan          *EMIResult         `json:"loan,omitempty"`
	EmergencyFund *EmergencyFundPlan `json:"emergency_fund,omitempty"`
}

// Completion records one completed challenge
type Completion struct {
	ChallengeID string         `json:"challenge_id"`
	CompletedAt time.Time      `json:"completed_at"`
	Data        CompletionData `json:"data"`
}

// GamificationState is a user's rewards record. Coins, XP and the badge list
// only ever grow; the ledger is append-only.
type GamificationState struct {
	Coins             int                            `json:"coins"`
	XP                int                            `json:"xp"`
	Level             Level                          `json:"level"`
	Badges            []string                       `json:"badges"`
	Ledger            map[Date]map[string]Completion `json:"ledger"`
	Streak            int                            `json:"streak"`
	LastCompletedDate Date                           `json:"last_completed_date,omitempty"`
	LastResetDate     Date                           `json:"last_reset_date,omitempty"`
	QuizScores        map[string][]int               `json:"quiz_scores"`
	CorrectAnswers    int                            `json:"correct_answers"`
}

// NewGamificationState returns the zero-valued state of a first time user
func NewGamificationState() GamificationState {
	return GamificationState{
		Level:      LevelBeginner,
		Badges:     []string{},
		Ledger:     make(map[Date]map[string]Completion),
		QuizScores: make(map[string][]int),
	}
}

// Clone deep copies the state so mutations never leak into the caller's value
func (s GamificationState) Clone() GamificationState {
	out := s
	out.Badges = append([]string{}, s.Badges...)
	out.Ledger = make(map[Date]map[string]Completion, len(s.Ledger))
	for day, set := range s.Ledger {
		cp := make(map[string]Completion, len(set))
		for id, c := range set {
			cp[id] = c
		}
		out.Ledger[day] = cp
	}
	out.QuizScores = make(map[string][]int, len(s.QuizScores))
	for quiz, scores := range s.QuizScores {
		out.QuizScores[quiz] = append([]int{}, scores...)
	}
	if out.Level == "" {
		out.Level = LevelBeginner
	}
	return out
}

// CompletedOn returns the completions recorded for a day
func (s GamificationState) CompletedOn(day Date) map[string]Completion {
	return s.Ledger[day]
}

// CompletedToday returns the completions of the current (last reset) day
func (s GamificationState) CompletedToday() map[string]Completion {
	return s.CompletedOn(s.LastResetDate)
}

// IsCompleted reports whether the challenge was completed on day
func (s GamificationState) IsCompleted(day Date, challengeID string) bool {
	_, ok := s.Ledger[day][challengeID]
	return ok
}

// HasBadge reports whether the badge is already earned
func (s GamificationState) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// TotalCompletions counts completed challenges over the whole ledger
func (s GamificationState) TotalCompletions() int {
	n := 0
	for _, set := range s.Ledger {
		n += len(set)
	}
	return n
}

// ActiveDays counts distinct days with at least one completion
func (s GamificationState) ActiveDays() int {
	n := 0
	for _, set := range s.Ledger {
		if len(set) > 0 {
			n++
		}
	}
	return n
}

// LatestQuizScore returns the most recent percentage recorded for a quiz
func (s GamificationState) LatestQuizScore(quizID string) (int, bool) {
	scores := s.QuizScores[quizID]
	if len(scores) == 0 {
		return 0, false
	}
	return scores[len(scores)-1], true
}
