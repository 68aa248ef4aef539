package gamification

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/domain"
)

// Outcome is the result of a rewarded action
type Outcome struct {
	State         domain.GamificationState `json:"state"`
	Reward        domain.Reward            `json:"reward"`
	ChallengeID   string                   `json:"challenge_id,omitempty"`
	Data          domain.CompletionData    `json:"data"`
	Quiz          *QuizResult              `json:"quiz,omitempty"`
	PreviousLevel domain.Level             `json:"previous_level"`
	LeveledUp     bool                     `json:"leveled_up"`
	NewBadges     []BadgeUnlock            `json:"new_badges"`
}

// DailyProgress is the "n of m challenges done today" view
type DailyProgress struct {
	Day       domain.Date `json:"day"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Fraction  float64     `json:"fraction"`
}

// Machine applies challenge completions, quiz results and badge unlocks to a
// user's gamification state. It never mutates the state it is given.
type Machine struct {
	Catalog   *domain.Catalog
	Validator *challenge.Validator
	Logger    calculation.Logger
}

// NewMachine creates a machine over catalog with a no-op logger
func NewMachine(catalog *domain.Catalog) *Machine {
	return &Machine{
		Catalog:   catalog,
		Validator: challenge.NewValidator(catalog),
		Logger:    calculation.NopLogger{},
	}
}

// SetLogger replaces the machine logger; nil restores the no-op logger
func (m *Machine) SetLogger(l calculation.Logger) {
	if l == nil {
		m.Logger = calculation.NopLogger{}
		return
	}
	m.Logger = l
}

// ResetIfNewDay rolls the state over to today. When the last reset was on an
// earlier day the streak grows if the last completion was yesterday and drops
// to zero if it was before that; today's completion set starts empty. Calling
// it again on the same day is a no-op.
func ResetIfNewDay(state domain.GamificationState, today domain.Date) domain.GamificationState {
	out := state.Clone()
	if !out.LastResetDate.Before(today) {
		return out
	}

	yesterday := today.AddDays(-1)
	switch {
	case out.LastCompletedDate == yesterday:
		out.Streak++
	case out.LastCompletedDate.Before(yesterday):
		out.Streak = 0
	}
	delete(out.Ledger, today)
	out.LastResetDate = today
	return out
}

// CompleteChallenge validates and records a challenge completion at now.
// A challenge already completed today fails with domain.ErrAlreadyCompleted
// before the submission is looked at; validation failures are
// *domain.ValidationError. On any error the returned outcome is empty.
func (m *Machine) CompleteChallenge(state domain.GamificationState, history domain.History, challengeID string, sub challenge.Submission, now time.Time) (Outcome, error) {
	today := domain.DateOf(now)
	s := ResetIfNewDay(state, today)

	if s.IsCompleted(today, challengeID) {
		m.Logger.Debugf("challenge %s already completed on %s", challengeID, today)
		return Outcome{}, fmt.Errorf("%w: %s", domain.ErrAlreadyCompleted, challengeID)
	}

	data, err := m.Validator.Validate(challengeID, sub)
	if err != nil {
		m.Logger.Debugf("challenge %s rejected: %v", challengeID, err)
		return Outcome{}, err
	}
	ch, _ := m.Catalog.Challenge(challengeID)

	if s.Ledger[today] == nil {
		s.Ledger[today] = make(map[string]domain.Completion)
	}
	s.Ledger[today][challengeID] = domain.Completion{ChallengeID: challengeID, CompletedAt: now, Data: data}
	s.LastCompletedDate = today

	out, err := m.reward(s, history, ch.Reward)
	if err != nil {
		return Outcome{}, fmt.Errorf("reward for %s: %w", challengeID, err)
	}
	out.ChallengeID = challengeID
	out.Data = data

	m.Logger.Infof("challenge %s completed: +%d coins +%d xp, streak %d", challengeID, ch.Reward.Coins, ch.Reward.XP, out.State.Streak)
	return out, nil
}

// RecordQuiz scores a quiz attempt, stores its percentage and awards its reward
func (m *Machine) RecordQuiz(state domain.GamificationState, history domain.History, attempt QuizAttempt) (Outcome, error) {
	result, reward, err := ScoreQuiz(attempt)
	if err != nil {
		return Outcome{}, err
	}

	s := state.Clone()
	s.QuizScores[result.QuizID] = append(s.QuizScores[result.QuizID], result.Percentage)
	s.CorrectAnswers += result.Correct

	out, err := m.reward(s, history, reward)
	if err != nil {
		return Outcome{}, fmt.Errorf("reward for quiz %s: %w", result.QuizID, err)
	}
	out.Quiz = &result

	m.Logger.Infof("quiz %s scored %d%% (%d/%d): +%d coins +%d xp",
		result.QuizID, result.Percentage, result.Correct, result.Total, reward.Coins, reward.XP)
	return out, nil
}

// EvaluateBadges re-checks every badge against the state and history
func (m *Machine) EvaluateBadges(state domain.GamificationState, history domain.History) (domain.GamificationState, []BadgeUnlock) {
	out, unlocked := EvaluateBadges(m.Catalog, state, history)
	for _, u := range unlocked {
		m.Logger.Infof("badge unlocked: %s", u.Badge.ID)
	}
	return out, unlocked
}

// DailyProgress counts the catalog challenges completed on today
func (m *Machine) DailyProgress(state domain.GamificationState, today domain.Date) DailyProgress {
	p := DailyProgress{Day: today, Total: len(m.Catalog.Challenges)}
	for _, ch := range m.Catalog.Challenges {
		if state.IsCompleted(today, ch.ID) {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Fraction = float64(p.Completed) / float64(p.Total)
	}
	return p
}

// Today returns the catalog challenges with their completion status for today
func (m *Machine) Today(state domain.GamificationState, today domain.Date) []ChallengeStatus {
	out := make([]ChallengeStatus, 0, len(m.Catalog.Challenges))
	for _, ch := range m.Catalog.Challenges {
		c, done := state.Ledger[today][ch.ID]
		status := ChallengeStatus{Challenge: ch, Completed: done}
		if done {
			at := c.CompletedAt
			status.CompletedAt = &at
		}
		out = append(out, status)
	}
	return out
}

// ChallengeStatus is a catalog challenge and whether it is done today
type ChallengeStatus struct {
	Challenge   domain.Challenge `json:"challenge"`
	Completed   bool             `json:"completed"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

func (m *Machine) reward(s domain.GamificationState, history domain.History, r domain.Reward) (Outcome, error) {
	previous := LevelForXP(s.XP)

	s, err := AwardCoins(s, r.Coins)
	if err != nil {
		return Outcome{}, err
	}
	s, err = AwardXP(s, r.XP)
	if err != nil {
		return Outcome{}, err
	}
	s, unlocked := m.EvaluateBadges(s, history)

	out := Outcome{
		State:         s,
		Reward:        r,
		PreviousLevel: previous,
		LeveledUp:     s.Level.Rank() > previous.Rank(),
		NewBadges:     unlocked,
	}
	if out.LeveledUp {
		m.Logger.Infof("level up: %s -> %s", previous, s.Level)
	}
	return out, nil
}
