package compare

import (
	"time"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the headline metrics of one snapshot and, for
// snapshots other than the base, how they moved relative to it
type ComparisonResult struct {
	Name        string             `json:"name,omitempty"` // what-if scenarios only
	Description string             `json:"description,omitempty"`
	SnapshotID  string             `json:"snapshotId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	Score       int                `json:"score"`
	Level       domain.HealthLevel `json:"level"`

	// Key Metrics
	MonthlyIncome     decimal.Decimal `json:"monthlyIncome"`
	TotalSpending     decimal.Decimal `json:"totalSpending"`
	Savings           decimal.Decimal `json:"savings"`
	SavingsPercentage decimal.Decimal `json:"savingsPercentage"`
	DebtToIncome      decimal.Decimal `json:"debtToIncome"`

	// Comparison to Base
	ScoreDiffFromBase      int              `json:"scoreDiffFromBase"`
	SavingsDiffFromBase    decimal.Decimal  `json:"savingsDiffFromBase"`
	SavingsPctDiffFromBase decimal.Decimal  `json:"savingsPctDiffFromBase"`
	SpendingDiffFromBase   decimal.Decimal  `json:"spendingDiffFromBase"`
	CategoryChanges        []CategoryChange `json:"categoryChanges,omitempty"`

	profile domain.FinancialProfile
}

// CategoryChange is the movement of one spending category between two snapshots
type CategoryChange struct {
	Category domain.Category `json:"category"`
	Base     decimal.Decimal `json:"base"`
	Current  decimal.Decimal `json:"current"`
	Diff     decimal.Decimal `json:"diff"`
}

// ComparisonSet compares a user's newer snapshots against the oldest one kept,
// or what-if scenarios against the current profile
type ComparisonSet struct {
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"` // oldest first
	Recommendations    []string           `json:"recommendations"`
}

// Latest returns the most recent snapshot's result
func (cs *ComparisonSet) Latest() ComparisonResult {
	if len(cs.AlternativeResults) == 0 {
		return *cs.BaseResult
	}
	return cs.AlternativeResults[len(cs.AlternativeResults)-1]
}

// Improved reports whether the most recent score beats the base
func (cs *ComparisonSet) Improved() bool {
	return cs.Latest().ScoreDiffFromBase > 0
}
