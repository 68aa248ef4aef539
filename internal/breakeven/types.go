package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// GoalTarget defines what outcome to reach
type GoalTarget string

const (
	TargetScore       GoalTarget = "score"        // health score of at least Value
	TargetSavingsRate GoalTarget = "savings_rate" // savings percentage of at least Value
	TargetSavings     GoalTarget = "savings"      // monthly savings of at least Value
	TargetFutureValue GoalTarget = "future_value" // a balance of Value after Years of saving
)

// Lever defines which part of the budget the solver may change
type Lever string

const (
	LeverCategory      Lever = "category"      // cut one spending category
	LeverDiscretionary Lever = "discretionary" // cut all discretionary spending evenly
	LeverIncome        Lever = "income"        // raise income
)

// ParseTarget resolves a target name
func ParseTarget(s string) (GoalTarget, error) {
	switch t := GoalTarget(s); t {
	case TargetScore, TargetSavingsRate, TargetSavings, TargetFutureValue:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown goal target %q (use score, savings_rate, savings or future_value)", domain.ErrInvalidInput, s)
}

// ParseLever resolves a lever name
func ParseLever(s string) (Lever, error) {
	switch l := Lever(s); l {
	case LeverCategory, LeverDiscretionary, LeverIncome:
		return l, nil
	}
	return "", fmt.Errorf("%w: unknown lever %q (use category, discretionary or income)", domain.ErrInvalidInput, s)
}

// GoalRequest defines the parameters for a solver run
type GoalRequest struct {
	Profile domain.FinancialProfile
	History domain.History // prior snapshots, most recent first

	Target   GoalTarget
	Value    decimal.Decimal
	Lever    Lever
	Category domain.Category // LeverCategory only

	// future_value targets
	Years      int
	AnnualRate decimal.Decimal

	MaxIterations int             // bisection steps
	Tolerance     decimal.Decimal // bisection stops when the bracket is narrower, in percent
}

// GoalResult contains the results of a solver run
type GoalResult struct {
	Target   GoalTarget      `json:"target"`
	Value    decimal.Decimal `json:"value"`
	Lever    Lever           `json:"lever"`
	Category domain.Category `json:"category,omitempty"`

	Reachable  bool `json:"reachable"`
	AlreadyMet bool `json:"already_met"`

	// Adjustment is the percentage cut (spending levers) or raise (income)
	Adjustment decimal.Decimal `json:"adjustment"`
	// MonthlyChange is the money freed or added per month
	MonthlyChange decimal.Decimal `json:"monthly_change"`
	// RequiredSavings is the monthly saving a future_value target needs
	RequiredSavings *decimal.Decimal `json:"required_savings,omitempty"`
	Change          string           `json:"change"`

	Profile domain.FinancialProfile `json:"profile"`
	Before  domain.ScoreBreakdown   `json:"before"`
	After   domain.ScoreBreakdown   `json:"after"`

	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergence_info"`
}

// LeverComparison contains one result per lever tried for the same goal
type LeverComparison struct {
	Results         []GoalResult `json:"results"`
	Best            *GoalResult  `json:"best,omitempty"` // reachable with the smallest monthly change
	Recommendations []string     `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	MaxIterations  int             // Maximum bisection iterations
	Tolerance      decimal.Decimal // Bracket width in percent
	MaxIncomeRaise decimal.Decimal // Largest income raise tried, in percent
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations:  60,
		Tolerance:      decimal.NewFromFloat(0.01),
		MaxIncomeRaise: decimal.NewFromInt(100),
	}
}

// Validate checks that the request is solvable in principle and resolves the
// category name
func (r *GoalRequest) Validate() error {
	if err := r.Profile.Validate(); err != nil {
		return &BreakEvenError{Operation: "validate_request", Message: "invalid profile", Cause: err}
	}

	invalid := func(msg string) error {
		return &BreakEvenError{Operation: "validate_request", Message: msg, Cause: domain.ErrInvalidInput}
	}

	if !r.Value.IsPositive() {
		return invalid("goal value must be positive")
	}
	switch r.Target {
	case TargetScore:
		if r.Value.GreaterThan(decimal.NewFromInt(100)) {
			return invalid("score goal cannot exceed 100")
		}
	case TargetSavingsRate:
		if r.Value.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			return invalid("savings rate goal must be below 100")
		}
	case TargetSavings:
	case TargetFutureValue:
		if r.Years <= 0 {
			return invalid("future value goal needs a positive number of years")
		}
		if r.AnnualRate.IsNegative() {
			return invalid("annual return cannot be negative")
		}
	default:
		return invalid(fmt.Sprintf("unsupported goal target: %s", r.Target))
	}

	switch r.Lever {
	case LeverDiscretionary, LeverIncome:
	case LeverCategory:
		c, ok := domain.ParseCategory(string(r.Category))
		if !ok {
			return invalid(fmt.Sprintf("unknown category %q", r.Category))
		}
		if c == domain.CategorySavings {
			return invalid("cannot cut the Savings category to save more")
		}
		r.Category = c
	default:
		return invalid(fmt.Sprintf("unsupported lever: %s", r.Lever))
	}

	return nil
}

// BreakEvenError represents errors from the goal solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
