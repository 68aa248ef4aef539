package calculation

import (
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsistencyWindow is how many prior snapshots feed the consistency component
const ConsistencyWindow = 5

var (
	savingsPointsCap     = decimal.NewFromInt(40)
	savingsPointsFactor  = decimal.NewFromFloat(0.8)
	consistencyPointsCap = decimal.NewFromInt(10)
	consistencyTolerance = decimal.NewFromFloat(0.9)
	suggestedSavingsRate = decimal.NewFromFloat(0.2)
	maxScore             = decimal.NewFromInt(100)
)

// band awards Points when the measured ratio is at or below UpTo
type band struct {
	UpTo   decimal.Decimal
	Points int64
}

var essentialBands = []band{
	{decimal.NewFromInt(50), 30},
	{decimal.NewFromInt(70), 20},
	{decimal.NewFromInt(90), 10},
}

var debtBands = []band{
	{decimal.NewFromInt(10), 20},
	{decimal.NewFromInt(20), 15},
	{decimal.NewFromInt(30), 10},
	{decimal.NewFromInt(40), 5},
}

func bandPoints(ratio decimal.Decimal, bands []band) decimal.Decimal {
	for _, b := range bands {
		if ratio.LessThanOrEqual(b.UpTo) {
			return decimal.NewFromInt(b.Points)
		}
	}
	return decimal.Zero
}

// ScoreCalculator turns a financial profile into a health score breakdown
type ScoreCalculator struct{}

// NewScoreCalculator creates a new score calculator
func NewScoreCalculator() *ScoreCalculator {
	return &ScoreCalculator{}
}

// Calculate scores a profile against up to ConsistencyWindow prior snapshots
// (most recent first). Tips are left empty; see GenerateTips. The profile is
// assumed valid: negative amounts are rejected before scoring.
func (sc *ScoreCalculator) Calculate(profile domain.FinancialProfile, history domain.History) domain.ScoreBreakdown {
	income := profile.MonthlyIncome

	var total, essentials, debt decimal.Decimal
	highestCategory := domain.Categories[0]
	highestAmount := profile.Amount(highestCategory)
	for _, c := range domain.Categories {
		amount := profile.Amount(c)
		total = total.Add(amount)
		if c.IsEssential() {
			essentials = essentials.Add(amount)
		}
		if c.IsDebt() {
			debt = debt.Add(amount)
		}
		if amount.GreaterThan(highestAmount) {
			highestCategory, highestAmount = c, amount
		}
	}

	savings := income.Sub(total)
	savingsPct := percentOf(savings, income)
	essentialRatio := percentOf(essentials, total)
	debtToIncome := percentOf(debt, income)

	components := domain.ScoreComponents{
		Savings:     decimal.Min(savingsPointsCap, savingsPct.Mul(savingsPointsFactor)),
		Essentials:  bandPoints(essentialRatio, essentialBands),
		Debt:        bandPoints(debtToIncome, debtBands),
		Consistency: sc.consistencyPoints(savings, history),
	}

	score := clamp(components.Sum(), decimal.Zero, maxScore).Round(0)
	totalScore := int(score.IntPart())

	suggested := income.Mul(suggestedSavingsRate)
	gap := decimal.Max(decimal.Zero, suggested.Sub(savings))

	b := domain.ScoreBreakdown{
		Total:                totalScore,
		Level:                domain.HealthLevelFor(totalScore),
		Components:           components,
		MonthlyIncome:        income,
		TotalSpending:        total,
		Savings:              savings,
		SavingsPercentage:    savingsPct,
		HighestCategory:      highestCategory,
		HighestAmount:        highestAmount,
		EssentialSpending:    essentials,
		NonEssentialSpending: total.Sub(essentials),
		EssentialRatio:       essentialRatio,
		DebtPayments:         debt,
		DebtToIncome:         debtToIncome,
		SuggestedSavings:     suggested,
		SavingsGap:           gap,
		Tips:                 []domain.Tip{},
	}
	if next, pts, ok := domain.NextHealthLevel(totalScore); ok {
		b.NextLevel = next
		b.PointsToNextLevel = pts
	}
	return b
}

// consistencyPoints walks current -> prior[0] -> prior[1] ... and awards 2
// points for every step where savings held at 90% or more of the older value.
func (sc *ScoreCalculator) consistencyPoints(current decimal.Decimal, history domain.History) decimal.Decimal {
	consistent := int64(0)
	newer := current
	for _, snap := range history.Recent(ConsistencyWindow) {
		older := snap.Breakdown.Savings
		if newer.GreaterThanOrEqual(older.Mul(consistencyTolerance)) {
			consistent++
		}
		newer = older
	}
	return decimal.Min(consistencyPointsCap, decimal.NewFromInt(consistent*2))
}

// percentOf returns part/whole*100, or zero when whole is not positive
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(hi, v))
}
