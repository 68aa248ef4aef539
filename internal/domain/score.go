package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HealthLevel is the textual band of a financial health score
type HealthLevel string

const (
	HealthBeginner     HealthLevel = "Beginner"
	HealthImproving    HealthLevel = "Improving"
	HealthSmartSaver   HealthLevel = "Smart Saver"
	HealthFinancialPro HealthLevel = "Financial Pro"
)

type healthBand struct {
	Level    HealthLevel
	MinScore int
}

// healthBands are ordered by ascending threshold
var healthBands = []healthBand{
	{HealthBeginner, 0},
	{HealthImproving, 40},
	{HealthSmartSaver, 70},
	{HealthFinancialPro, 90},
}

// HealthLevelFor maps a 0-100 score to its band
func HealthLevelFor(score int) HealthLevel {
	level := HealthBeginner
	for _, b := range healthBands {
		if score >= b.MinScore {
			level = b.Level
		}
	}
	return level
}

// NextHealthLevel returns the next band above score and the points still needed.
// ok is false at the top band.
func NextHealthLevel(score int) (next HealthLevel, pointsNeeded int, ok bool) {
	for _, b := range healthBands {
		if score < b.MinScore {
			return b.Level, b.MinScore - score, true
		}
	}
	return "", 0, false
}

// ScoreComponents holds the points awarded by each scoring rule
type ScoreComponents struct {
	Savings     decimal.Decimal `json:"savings"`
	Essentials  decimal.Decimal `json:"essentials"`
	Debt        decimal.Decimal `json:"debt"`
	Consistency decimal.Decimal `json:"consistency"`
}

// Sum adds up all components
func (c ScoreComponents) Sum() decimal.Decimal {
	return c.Savings.Add(c.Essentials).Add(c.Debt).Add(c.Consistency)
}

// ScoreBreakdown is the derived financial health analysis of a profile.
// Percentages are expressed on a 0-100 scale.
type ScoreBreakdown struct {
	Total             int             `json:"total"`
	Level             HealthLevel     `json:"level"`
	NextLevel         HealthLevel     `json:"next_level,omitempty"`
	PointsToNextLevel int             `json:"points_to_next_level,omitempty"`
	Components        ScoreComponents `json:"components"`

	MonthlyIncome        decimal.Decimal `json:"monthly_income"`
	TotalSpending        decimal.Decimal `json:"total_spending"`
	Savings              decimal.Decimal `json:"savings"` // negative means a deficit
	SavingsPercentage    decimal.Decimal `json:"savings_percentage"`
	HighestCategory      Category        `json:"highest_category,omitempty"`
	HighestAmount        decimal.Decimal `json:"highest_amount"`
	EssentialSpending    decimal.Decimal `json:"essential_spending"`
	NonEssentialSpending decimal.Decimal `json:"non_essential_spending"`
	EssentialRatio       decimal.Decimal `json:"essential_ratio"`
	DebtPayments         decimal.Decimal `json:"debt_payments"`
	DebtToIncome         decimal.Decimal `json:"debt_to_income"`
	SuggestedSavings     decimal.Decimal `json:"suggested_savings"`
	SavingsGap           decimal.Decimal `json:"savings_gap"`

	Tips []Tip `json:"tips"`
}

// TipRule identifies which recommendation rule produced a tip
type TipRule string

const (
	TipSavingsShortfall   TipRule = "savings_shortfall"
	TipSavingsOnTrack     TipRule = "savings_on_track"
	TipHighestCategory    TipRule = "highest_category"
	TipEssentialHeavy     TipRule = "essential_heavy"
	TipDiscretionaryHeavy TipRule = "discretionary_heavy"
	TipDebtLoad           TipRule = "debt_load"
	TipBalanced           TipRule = "balanced"
)

// Tip is a single improvement recommendation
type Tip struct {
	Rule    TipRule `json:"rule"`
	Message string  `json:"message"`
}

func (t Tip) String() string { return t.Message }

// MaxHistory caps the number of snapshots kept per user
const MaxHistory = 6

// ProfileSnapshot is an immutable record of a submitted profile and its analysis
type ProfileSnapshot struct {
	ID        string           `json:"id"`
	Profile   FinancialProfile `json:"profile"`
	Breakdown ScoreBreakdown   `json:"breakdown"`
	CreatedAt time.Time        `json:"created_at"`
}

// History is a user's snapshots ordered most recent first
type History []ProfileSnapshot

// Prepend returns a new history with s in front, evicting the oldest entries
// beyond MaxHistory. The receiver is not modified.
func (h History) Prepend(s ProfileSnapshot) History {
	n := len(h) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	out := make(History, 0, n)
	out = append(out, s)
	for _, prev := range h {
		if len(out) == n {
			break
		}
		out = append(out, prev)
	}
	return out
}

// Latest returns the most recent snapshot
func (h History) Latest() (ProfileSnapshot, bool) {
	if len(h) == 0 {
		return ProfileSnapshot{}, false
	}
	return h[0], true
}

// Recent returns at most n of the most recent snapshots
func (h History) Recent(n int) History {
	if n < 0 {
		n = 0
	}
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
