package calculation

import (
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	targetSavingsPct      = decimal.NewFromInt(20)
	highestShareThreshold = decimal.NewFromInt(30)
	essentialThreshold    = decimal.NewFromInt(70)
	discretionaryShare    = decimal.NewFromFloat(0.30)
	debtThreshold         = decimal.NewFromInt(20)
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a money amount with grouping and 2 decimals, without
// a currency symbol
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatPercent renders a 0-100 percentage with one decimal
func FormatPercent(d decimal.Decimal) string {
	return printer.Sprintf("%.1f%%", d.Round(1).InexactFloat64())
}

// GenerateTips derives the ordered improvement tips for a breakdown.
// Rules run in a fixed order and each contributes at most one tip:
//
//  1. savings rate below / at or above 20%
//  2. single category above 30% of spending
//  3. essential ratio above 70%, otherwise discretionary spend above 30% of income
//  4. debt payments above 20% of income
//  5. a generic tip when rules 2-4 produced nothing
func GenerateTips(b domain.ScoreBreakdown) []domain.Tip {
	tips := make([]domain.Tip, 0, 4)

	if b.SavingsPercentage.LessThan(targetSavingsPct) {
		msg := "Aim to save at least 20% of your income. Add your monthly income to see how much to set aside."
		if b.SavingsGap.IsPositive() {
			msg = printer.Sprintf("Aim to save at least 20%% of your income. You need to save %s more per month to reach this goal.",
				FormatAmount(b.SavingsGap))
		}
		tips = append(tips, domain.Tip{Rule: domain.TipSavingsShortfall, Message: msg})
	} else {
		tips = append(tips, domain.Tip{
			Rule: domain.TipSavingsOnTrack,
			Message: printer.Sprintf("Great job! You're saving %s of your income, which is at or above the recommended 20%%.",
				FormatPercent(b.SavingsPercentage)),
		})
	}

	specific := 0

	if b.TotalSpending.IsPositive() {
		share := percentOf(b.HighestAmount, b.TotalSpending)
		if share.GreaterThan(highestShareThreshold) {
			tips = append(tips, domain.Tip{
				Rule: domain.TipHighestCategory,
				Message: printer.Sprintf("Your highest spending category is %s at %s of your total spending. Consider ways to reduce this expense.",
					string(b.HighestCategory), FormatPercent(share)),
			})
			specific++
		}
	}

	if b.EssentialRatio.GreaterThan(essentialThreshold) {
		tips = append(tips, domain.Tip{
			Rule: domain.TipEssentialHeavy,
			Message: printer.Sprintf("You're spending %s of your total spending on essential expenses. Look for ways to reduce fixed costs like housing or transportation.",
				FormatPercent(b.EssentialRatio)),
		})
		specific++
	} else if b.MonthlyIncome.IsPositive() && b.NonEssentialSpending.GreaterThan(b.MonthlyIncome.Mul(discretionaryShare)) {
		tips = append(tips, domain.Tip{
			Rule: domain.TipDiscretionaryHeavy,
			Message: printer.Sprintf("You're spending %s of your income on non-essentials. Consider reducing discretionary spending to increase your savings.",
				FormatPercent(percentOf(b.NonEssentialSpending, b.MonthlyIncome))),
		})
		specific++
	}

	if b.DebtToIncome.GreaterThan(debtThreshold) {
		tips = append(tips, domain.Tip{
			Rule: domain.TipDebtLoad,
			Message: printer.Sprintf("Your debt payments are %s of your income. Aim to keep this below 20%% for better financial health.",
				FormatPercent(b.DebtToIncome)),
		})
		specific++
	}

	if specific == 0 {
		tips = append(tips, domain.Tip{
			Rule:    domain.TipBalanced,
			Message: "Your spending looks balanced! Consider increasing your savings rate or investing for long-term goals.",
		})
	}

	return tips
}
