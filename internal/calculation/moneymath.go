package calculation

import (
	"fmt"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// DefaultProjectionHorizons are the year marks reported by savings projections
var DefaultProjectionHorizons = []int{1, 5, 10}

// ComputeEMI calculates the equated monthly installment for a loan.
// A zero rate spreads the principal evenly over the tenure. Results are
// rounded to 2 places; intermediate values keep full precision.
func ComputeEMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) (domain.EMIResult, error) {
	if !principal.IsPositive() {
		return domain.EMIResult{}, fmt.Errorf("%w: principal must be positive", domain.ErrInvalidInput)
	}
	if tenureMonths <= 0 {
		return domain.EMIResult{}, fmt.Errorf("%w: tenure must be at least one month", domain.ErrInvalidInput)
	}
	if annualRatePercent.IsNegative() {
		return domain.EMIResult{}, fmt.Errorf("%w: interest rate cannot be negative", domain.ErrInvalidInput)
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	var emi decimal.Decimal
	if annualRatePercent.IsZero() {
		emi = principal.Div(n)
	} else {
		monthlyRate := annualRatePercent.Div(twelve).Div(hundred)
		growth := one.Add(monthlyRate).Pow(n)
		emi = principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
	}

	totalPayment := emi.Mul(n)
	totalInterest := totalPayment.Sub(principal)

	return domain.EMIResult{
		Principal:     principal.Round(2),
		AnnualRate:    annualRatePercent,
		TenureMonths:  tenureMonths,
		EMI:           emi.Round(2),
		TotalPayment:  totalPayment.Round(2),
		TotalInterest: totalInterest.Round(2),
	}, nil
}

// ProjectSavings returns the value after years of a monthly contribution
// compounding annually at annualReturnPercent, contributions made at the start
// of each year:
//
//	FV = m*12 * ((1+r)^years - 1)/r * (1+r)    r > 0
//	FV = m*12 * years                          r = 0
func ProjectSavings(monthlyContribution, annualReturnPercent decimal.Decimal, years int) (domain.SavingsProjection, error) {
	if monthlyContribution.IsNegative() {
		return domain.SavingsProjection{}, fmt.Errorf("%w: monthly contribution cannot be negative", domain.ErrInvalidInput)
	}
	if annualReturnPercent.IsNegative() {
		return domain.SavingsProjection{}, fmt.Errorf("%w: annual return cannot be negative", domain.ErrInvalidInput)
	}
	if years <= 0 {
		return domain.SavingsProjection{}, fmt.Errorf("%w: years must be positive", domain.ErrInvalidInput)
	}

	annual := monthlyContribution.Mul(twelve)
	y := decimal.NewFromInt(int64(years))
	contributed := annual.Mul(y)

	futureValue := contributed
	if annualReturnPercent.IsPositive() {
		r := annualReturnPercent.Div(hundred)
		factor := one.Add(r)
		futureValue = annual.Mul(factor.Pow(y).Sub(one)).Div(r).Mul(factor)
	}

	return domain.SavingsProjection{
		Years:            years,
		FutureValue:      futureValue.Round(2),
		TotalContributed: contributed.Round(2),
		Growth:           futureValue.Sub(contributed).Round(2),
	}, nil
}

// ProjectSavingsSchedule projects savings at each horizon, defaulting to
// DefaultProjectionHorizons when none are given
func ProjectSavingsSchedule(monthlyContribution, annualReturnPercent decimal.Decimal, horizons ...int) ([]domain.SavingsProjection, error) {
	if len(horizons) == 0 {
		horizons = DefaultProjectionHorizons
	}
	out := make([]domain.SavingsProjection, 0, len(horizons))
	for _, years := range horizons {
		p, err := ProjectSavings(monthlyContribution, annualReturnPercent, years)
		if err != nil {
			return nil, fmt.Errorf("projection for %d years: %w", years, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// EmergencyFundTarget sizes an emergency fund covering targetMonths of
// expenses and the monthly saving needed to build it within a year
func EmergencyFundTarget(monthlyExpenses decimal.Decimal, targetMonths int) (domain.EmergencyFundPlan, error) {
	if monthlyExpenses.IsNegative() {
		return domain.EmergencyFundPlan{}, fmt.Errorf("%w: monthly expenses cannot be negative", domain.ErrInvalidInput)
	}
	if targetMonths <= 0 {
		return domain.EmergencyFundPlan{}, fmt.Errorf("%w: target months must be positive", domain.ErrInvalidInput)
	}

	target := monthlyExpenses.Mul(decimal.NewFromInt(int64(targetMonths)))
	return domain.EmergencyFundPlan{
		MonthlyExpenses:               monthlyExpenses,
		TargetMonths:                  targetMonths,
		Target:                        target.Round(2),
		MonthlySavingToReachInOneYear: target.Div(twelve).Round(2),
	}, nil
}
