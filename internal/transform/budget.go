package transform

import (
	"fmt"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// scale returns amount changed by pct percent, rounded to cents
func scale(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Add(pct)).Div(hundred).Round(2)
}

func describePercent(subject string, pct decimal.Decimal) string {
	if pct.IsNegative() {
		return fmt.Sprintf("Cut %s by %s%%", subject, pct.Neg())
	}
	return fmt.Sprintf("Raise %s by %s%%", subject, pct)
}

// IsDiscretionary reports whether a category is optional spending: not
// essential, not a debt payment and not money set aside
func IsDiscretionary(c domain.Category) bool {
	return !c.IsEssential() && !c.IsDebt() && c != domain.CategorySavings
}

// AdjustCategory changes one category by a percentage; -20 cuts it by a fifth.
type AdjustCategory struct {
	Category domain.Category
	Percent  decimal.Decimal
}

func (t *AdjustCategory) Name() string {
	return "adjust_category"
}

func (t *AdjustCategory) Description() string {
	return describePercent(string(t.Category), t.Percent)
}

func (t *AdjustCategory) Validate(base domain.FinancialProfile) error {
	if !t.Category.Known() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown category %q", t.Category), nil)
	}
	if t.Percent.LessThan(hundred.Neg()) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("percent must be at least -100, got %s", t.Percent), nil)
	}
	return nil
}

func (t *AdjustCategory) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	out.Set(t.Category, scale(out.Amount(t.Category), t.Percent))
	return out, nil
}

// SetCategory replaces the monthly amount of one category
type SetCategory struct {
	Category domain.Category
	Amount   decimal.Decimal
}

func (t *SetCategory) Name() string {
	return "set_category"
}

func (t *SetCategory) Description() string {
	return fmt.Sprintf("Set %s to %s", t.Category, t.Amount.StringFixed(2))
}

func (t *SetCategory) Validate(base domain.FinancialProfile) error {
	if !t.Category.Known() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown category %q", t.Category), nil)
	}
	if t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (t *SetCategory) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	out.Set(t.Category, t.Amount)
	return out, nil
}

// ShiftSpending moves an amount from one category to another
type ShiftSpending struct {
	From   domain.Category
	To     domain.Category
	Amount decimal.Decimal
}

func (t *ShiftSpending) Name() string {
	return "shift"
}

func (t *ShiftSpending) Description() string {
	return fmt.Sprintf("Move %s from %s to %s", t.Amount.StringFixed(2), t.From, t.To)
}

func (t *ShiftSpending) Validate(base domain.FinancialProfile) error {
	for _, c := range []domain.Category{t.From, t.To} {
		if !c.Known() {
			return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown category %q", c), nil)
		}
	}
	if t.From == t.To {
		return NewTransformError(t.Name(), "validate", "from and to must differ", nil)
	}
	if !t.Amount.IsPositive() {
		return NewTransformError(t.Name(), "validate", "amount must be positive", nil)
	}
	if t.Amount.GreaterThan(base.Amount(t.From)) {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("cannot move %s, %s only has %s", t.Amount.StringFixed(2), t.From, base.Amount(t.From).StringFixed(2)), nil)
	}
	return nil
}

func (t *ShiftSpending) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	out.Set(t.From, out.Amount(t.From).Sub(t.Amount))
	out.Set(t.To, out.Amount(t.To).Add(t.Amount))
	return out, nil
}

// CutDiscretionary reduces every discretionary category by a percentage
type CutDiscretionary struct {
	Percent decimal.Decimal
}

func (t *CutDiscretionary) Name() string {
	return "cut_discretionary"
}

func (t *CutDiscretionary) Description() string {
	return fmt.Sprintf("Cut discretionary spending by %s%%", t.Percent)
}

func (t *CutDiscretionary) Validate(base domain.FinancialProfile) error {
	if t.Percent.IsNegative() || t.Percent.GreaterThan(hundred) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("percent must be between 0 and 100, got %s", t.Percent), nil)
	}
	return nil
}

func (t *CutDiscretionary) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	for _, c := range domain.Categories {
		if IsDiscretionary(c) {
			out.Set(c, scale(out.Amount(c), t.Percent.Neg()))
		}
	}
	return out, nil
}

// AdjustIncome changes the monthly income by a percentage
type AdjustIncome struct {
	Percent decimal.Decimal
}

func (t *AdjustIncome) Name() string {
	return "adjust_income"
}

func (t *AdjustIncome) Description() string {
	return describePercent("income", t.Percent)
}

func (t *AdjustIncome) Validate(base domain.FinancialProfile) error {
	if t.Percent.LessThan(hundred.Neg()) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("percent must be at least -100, got %s", t.Percent), nil)
	}
	return nil
}

func (t *AdjustIncome) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	out.MonthlyIncome = scale(out.MonthlyIncome, t.Percent)
	return out, nil
}

// SetIncome replaces the monthly income
type SetIncome struct {
	Amount decimal.Decimal
}

func (t *SetIncome) Name() string {
	return "set_income"
}

func (t *SetIncome) Description() string {
	return "Set income to " + t.Amount.StringFixed(2)
}

func (t *SetIncome) Validate(base domain.FinancialProfile) error {
	if t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "income cannot be negative", nil)
	}
	return nil
}

func (t *SetIncome) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	out.MonthlyIncome = t.Amount
	return out, nil
}

// PayOffDebt zeroes one debt category, or all of them when Category is empty
type PayOffDebt struct {
	Category domain.Category
}

func (t *PayOffDebt) Name() string {
	return "pay_off_debt"
}

func (t *PayOffDebt) Description() string {
	if t.Category == "" {
		return "Pay off all debt"
	}
	return fmt.Sprintf("Pay off %s", t.Category)
}

func (t *PayOffDebt) Validate(base domain.FinancialProfile) error {
	if t.Category != "" && !t.Category.IsDebt() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("%s is not a debt category", t.Category), nil)
	}
	return nil
}

func (t *PayOffDebt) Apply(base domain.FinancialProfile) (domain.FinancialProfile, error) {
	out := base.Clone()
	for _, c := range domain.Categories {
		if c.IsDebt() && (t.Category == "" || t.Category == c) {
			out.Set(c, decimal.Zero)
		}
	}
	return out, nil
}
