package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/transform"
	"github.com/shopspring/decimal"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
)

// Solver finds the smallest budget change that reaches a goal
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new goal solver. Zero options take their defaults.
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	def := DefaultSolverOptions()
	if options.MaxIterations <= 0 {
		options.MaxIterations = def.MaxIterations
	}
	if !options.Tolerance.IsPositive() {
		options.Tolerance = def.Tolerance
	}
	if !options.MaxIncomeRaise.IsPositive() {
		options.MaxIncomeRaise = def.MaxIncomeRaise
	}
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// goalCheck reports whether a breakdown meets the goal
type goalCheck func(domain.ScoreBreakdown) bool

// Solve finds the smallest adjustment of the requested lever that meets the
// goal. Savings targets are monotone in every lever and solved by bisection.
// The score is not monotone in a single category cut, so it is scanned in
// whole percent steps.
func (s *Solver) Solve(ctx context.Context, req GoalRequest) (*GoalResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	before, err := s.Engine.Evaluate(req.Profile, req.History)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to score the base profile", Cause: err}
	}

	result := &GoalResult{
		Target:   req.Target,
		Value:    req.Value,
		Lever:    req.Lever,
		Category: req.Category,
		Before:   before,
	}

	check, err := s.goalCheck(ctx, req, result)
	if err != nil {
		return nil, err
	}

	if check(before) {
		result.Reachable = true
		result.AlreadyMet = true
		result.Profile = req.Profile.Clone()
		result.After = before
		result.Change = "No change needed"
		result.ConvergenceInfo = "Goal already met"
		return result, nil
	}

	if req.Target == TargetScore {
		return s.scan(ctx, req, check, result)
	}
	return s.bisect(ctx, req, check, result)
}

func (s *Solver) goalCheck(ctx context.Context, req GoalRequest, result *GoalResult) (goalCheck, error) {
	switch req.Target {
	case TargetScore:
		target := int(req.Value.Ceil().IntPart())
		return func(b domain.ScoreBreakdown) bool { return b.Total >= target }, nil
	case TargetSavingsRate:
		return func(b domain.ScoreBreakdown) bool { return b.SavingsPercentage.GreaterThanOrEqual(req.Value) }, nil
	case TargetSavings:
		return func(b domain.ScoreBreakdown) bool { return b.Savings.GreaterThanOrEqual(req.Value) }, nil
	case TargetFutureValue:
		required, err := s.RequiredContribution(ctx, req.Value, req.AnnualRate, req.Years)
		if err != nil {
			return nil, err
		}
		result.RequiredSavings = &required
		return func(b domain.ScoreBreakdown) bool { return b.Savings.GreaterThanOrEqual(required) }, nil
	}
	return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("unsupported goal target: %s", req.Target)}
}

// RequiredContribution finds the monthly contribution, rounded up to the cent,
// whose projection reaches target after years
func (s *Solver) RequiredContribution(ctx context.Context, target, annualRate decimal.Decimal, years int) (decimal.Decimal, error) {
	reaches := func(c decimal.Decimal) (bool, error) {
		p, err := calculation.ProjectSavings(c, annualRate, years)
		if err != nil {
			return false, err
		}
		return p.FutureValue.GreaterThanOrEqual(target), nil
	}

	// contributing the whole target every month always reaches it
	lo, hi := decimal.Zero, target
	for i := 0; i < s.Options.MaxIterations && hi.Sub(lo).GreaterThan(cent); i++ {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, err
		}
		mid := lo.Add(hi).Div(two)
		ok, err := reaches(mid)
		if err != nil {
			return decimal.Zero, &BreakEvenError{Operation: "required_contribution", Message: "projection failed", Cause: err}
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}

	c := roundUpCents(hi)
	// the bracket is within a cent; step down while the cheaper amount still works
	for c.GreaterThan(cent) {
		ok, err := reaches(c.Sub(cent))
		if err != nil || !ok {
			break
		}
		c = c.Sub(cent)
	}
	return c, nil
}

func (s *Solver) upperBound(req GoalRequest) decimal.Decimal {
	if req.Lever == LeverIncome {
		return s.Options.MaxIncomeRaise
	}
	return hundred
}

// leverTransform returns the transform applying x percent of the lever
func leverTransform(req GoalRequest, x decimal.Decimal) transform.ProfileTransform {
	switch req.Lever {
	case LeverCategory:
		return &transform.AdjustCategory{Category: req.Category, Percent: x.Neg()}
	case LeverIncome:
		return &transform.AdjustIncome{Percent: x}
	default:
		return &transform.CutDiscretionary{Percent: x}
	}
}

// evaluateAt applies x percent of the lever and scores the result
func (s *Solver) evaluateAt(req GoalRequest, x decimal.Decimal) (domain.FinancialProfile, domain.ScoreBreakdown, transform.ProfileTransform, error) {
	t := leverTransform(req, x)
	profile, err := transform.ApplyTransforms(req.Profile, []transform.ProfileTransform{t})
	if err != nil {
		return domain.FinancialProfile{}, domain.ScoreBreakdown{}, nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   "failed to apply lever",
			Cause:     err,
		}
	}
	b, err := s.Engine.Evaluate(profile, req.History)
	if err != nil {
		return domain.FinancialProfile{}, domain.ScoreBreakdown{}, nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   "failed to score adjusted profile",
			Cause:     err,
		}
	}
	return profile, b, t, nil
}

func (s *Solver) fill(result *GoalResult, x decimal.Decimal, profile domain.FinancialProfile, after domain.ScoreBreakdown, t transform.ProfileTransform) {
	result.Adjustment = x
	result.Profile = profile
	result.After = after
	result.Change = t.Description()
	if result.Lever == LeverIncome {
		result.MonthlyChange = after.MonthlyIncome.Sub(result.Before.MonthlyIncome)
	} else {
		result.MonthlyChange = result.Before.TotalSpending.Sub(after.TotalSpending)
	}
}

// bisect narrows [0, upper] to the smallest adjustment meeting a monotone goal
func (s *Solver) bisect(ctx context.Context, req GoalRequest, check goalCheck, result *GoalResult) (*GoalResult, error) {
	lo, hi := decimal.Zero, s.upperBound(req)

	profile, after, t, err := s.evaluateAt(req, hi)
	if err != nil {
		return nil, err
	}
	if !check(after) {
		s.fill(result, hi, profile, after, t)
		result.Iterations = 1
		result.ConvergenceInfo = fmt.Sprintf("Goal not reachable within a %s%% adjustment", hi)
		return result, nil
	}

	iterations := 1
	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		_, b, _, err := s.evaluateAt(req, mid)
		if err != nil {
			return nil, err
		}
		if check(b) {
			hi = mid
		} else {
			lo = mid
		}
	}

	x := roundUpCents(hi)
	if x.GreaterThan(s.upperBound(req)) {
		x = s.upperBound(req)
	}
	profile, after, t, err = s.evaluateAt(req, x)
	if err != nil {
		return nil, err
	}

	s.fill(result, x, profile, after, t)
	result.Reachable = check(after)
	result.Iterations = iterations
	if hi.Sub(lo).GreaterThan(req.Tolerance) {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	} else {
		result.ConvergenceInfo = "Binary search converged"
	}
	return result, nil
}

// scan tries whole percent steps up to the bound and keeps the first that works
func (s *Solver) scan(ctx context.Context, req GoalRequest, check goalCheck, result *GoalResult) (*GoalResult, error) {
	upper := int(s.upperBound(req).IntPart())

	var (
		profile domain.FinancialProfile
		after   domain.ScoreBreakdown
		t       transform.ProfileTransform
		err     error
	)
	for step := 1; step <= upper; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x := decimal.NewFromInt(int64(step))
		profile, after, t, err = s.evaluateAt(req, x)
		if err != nil {
			return nil, err
		}
		result.Iterations = step
		if check(after) {
			s.fill(result, x, profile, after, t)
			result.Reachable = true
			result.ConvergenceInfo = "Scan found the smallest whole percent"
			return result, nil
		}
	}

	if t != nil {
		s.fill(result, decimal.NewFromInt(int64(upper)), profile, after, t)
	}
	result.ConvergenceInfo = fmt.Sprintf("Goal not reachable within a %d%% adjustment", upper)
	return result, nil
}

func roundUpCents(d decimal.Decimal) decimal.Decimal {
	r := d.Round(2)
	if r.LessThan(d) {
		r = r.Add(cent)
	}
	return r
}
