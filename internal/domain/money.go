package domain

import "github.com/shopspring/decimal"

// EMIResult is the outcome of an equated monthly installment calculation.
// All amounts are rounded to 2 places.
type EMIResult struct {
	Principal     decimal.Decimal `json:"principal"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
	TenureMonths  int             `json:"tenure_months"`
	EMI           decimal.Decimal `json:"emi"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

// SavingsProjection is the future value of a steady monthly contribution
type SavingsProjection struct {
	Years            int             `json:"years"`
	FutureValue      decimal.Decimal `json:"future_value"`
	TotalContributed decimal.Decimal `json:"total_contributed"`
	Growth           decimal.Decimal `json:"growth"`
}

// EmergencyFundPlan sizes an emergency fund for a number of months of expenses
type EmergencyFundPlan struct {
	MonthlyExpenses               decimal.Decimal `json:"monthly_expenses"`
	TargetMonths                  int             `json:"target_months"`
	Target                        decimal.Decimal `json:"target"`
	MonthlySavingToReachInOneYear decimal.Decimal `json:"monthly_saving_one_year"`
}

// SavingsSimulation summarizes many savings projections run with random
// yearly returns. Percentile keys are "10th", "25th", "50th", "75th" and "90th".
type SavingsSimulation struct {
	Years               int                        `json:"years"`
	Simulations         int                        `json:"simulations"`
	MonthlyContribution decimal.Decimal            `json:"monthly_contribution"`
	MeanReturn          decimal.Decimal            `json:"mean_return"`
	Volatility          decimal.Decimal            `json:"volatility"`
	TotalContributed    decimal.Decimal            `json:"total_contributed"`
	Median              decimal.Decimal            `json:"median"`
	Percentiles         map[string]decimal.Decimal `json:"percentiles"`
	Target              *decimal.Decimal           `json:"target,omitempty"`
	ChanceOfTarget      *decimal.Decimal           `json:"chance_of_target,omitempty"` // percent of runs at or above Target
}
