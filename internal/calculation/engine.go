package calculation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/finquest/internal/domain"
)

// Engine orchestrates profile scoring and snapshot creation. It holds no user
// state; every call takes the profile and history it works on.
type Engine struct {
	Scores *ScoreCalculator
	Logger Logger

	newID func() string
}

// NewEngine creates a new engine with a no-op logger
func NewEngine() *Engine {
	return &Engine{
		Scores: NewScoreCalculator(),
		Logger: NopLogger{},
		newID:  func() string { return uuid.NewString() },
	}
}

// SetLogger replaces the engine logger; nil restores the no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Evaluate validates a profile and returns its breakdown with tips
func (e *Engine) Evaluate(profile domain.FinancialProfile, history domain.History) (domain.ScoreBreakdown, error) {
	if err := profile.Validate(); err != nil {
		return domain.ScoreBreakdown{}, fmt.Errorf("profile validation failed: %w", err)
	}

	b := e.Scores.Calculate(profile, history)
	b.Tips = GenerateTips(b)

	e.Logger.Debugf("scored profile: total=%d level=%s savings=%s%% essentials=%s%% dti=%s%% history=%d",
		b.Total, b.Level, b.SavingsPercentage.StringFixed(2), b.EssentialRatio.StringFixed(2),
		b.DebtToIncome.StringFixed(2), len(history))
	return b, nil
}

// Analyze scores a profile, wraps it in a new snapshot and returns the
// history with that snapshot prepended (capped at domain.MaxHistory).
// The given history is not modified.
func (e *Engine) Analyze(profile domain.FinancialProfile, history domain.History, at time.Time) (domain.ProfileSnapshot, domain.History, error) {
	b, err := e.Evaluate(profile, history)
	if err != nil {
		return domain.ProfileSnapshot{}, history, err
	}

	snap := domain.ProfileSnapshot{
		ID:        e.newID(),
		Profile:   profile.Clone(),
		Breakdown: b,
		CreatedAt: at,
	}
	updated := history.Prepend(snap)
	if len(history) >= domain.MaxHistory {
		e.Logger.Infof("history full, evicted snapshot %s", history[len(history)-1].ID)
	}
	return snap, updated, nil
}
