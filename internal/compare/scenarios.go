package compare

import (
	"fmt"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/transform"
)

// Scenario is a named set of what-if edits to a profile
type Scenario struct {
	Name        string
	Description string
	Transforms  []transform.ProfileTransform
}

// CompareEngine scores what-if scenarios against the current profile
type CompareEngine struct {
	Engine            *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a comparison engine with the built-in templates
func NewCompareEngine(engine *calculation.Engine) *CompareEngine {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return &CompareEngine{
		Engine:            engine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// ScenariosFromTemplates resolves template names into scenarios
func (ce *CompareEngine) ScenariosFromTemplates(names []string) ([]Scenario, error) {
	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		t, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: template %s not found (available: %v)", domain.ErrInvalidInput, name, ce.TemplateRegistry.List())
		}
		scenarios = append(scenarios, Scenario{Name: t.Name, Description: t.Description, Transforms: t.Transforms})
	}
	return scenarios, nil
}

// CalculateProfileMetrics computes comparison metrics for an unsaved profile
func (mc *MetricsCalculator) CalculateProfileMetrics(name string, p domain.FinancialProfile, b domain.ScoreBreakdown) ComparisonResult {
	r := mc.CalculateMetrics(domain.ProfileSnapshot{Profile: p, Breakdown: b})
	r.Name = name
	return r
}

// CompareScenarios scores each scenario applied to base, with history feeding
// the consistency component of every score alike
func (ce *CompareEngine) CompareScenarios(base domain.FinancialProfile, history domain.History, scenarios []Scenario) (*ComparisonSet, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios to compare", domain.ErrInvalidInput)
	}

	baseBreakdown, err := ce.Engine.Evaluate(base, history)
	if err != nil {
		return nil, fmt.Errorf("failed to score the current profile: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateProfileMetrics("current", base, baseBreakdown)
	baseResult.Description = "Current budget"

	alternatives := make([]ComparisonResult, 0, len(scenarios))
	for _, s := range scenarios {
		modified, err := transform.ApplyTransforms(base, s.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply scenario %s: %w", s.Name, err)
		}
		b, err := ce.Engine.Evaluate(modified, history)
		if err != nil {
			return nil, fmt.Errorf("failed to score scenario %s: %w", s.Name, err)
		}

		alt := ce.MetricsCalculator.CalculateProfileMetrics(s.Name, modified, b)
		alt.Description = s.Description
		if alt.Description == "" {
			alt.Description = transform.Describe(s.Transforms)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = ScenarioRecommendations(compSet)
	return compSet, nil
}

// Best returns the alternative with the highest score, ties going to the one
// that saves more, or nil when there are none
func (cs *ComparisonSet) Best() *ComparisonResult {
	var best *ComparisonResult
	for i := range cs.AlternativeResults {
		r := &cs.AlternativeResults[i]
		if best == nil || r.Score > best.Score || (r.Score == best.Score && r.Savings.GreaterThan(best.Savings)) {
			best = r
		}
	}
	return best
}

// ScenarioRecommendations points at the strongest scenario
func ScenarioRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	best := compSet.Best()
	if best == nil {
		return recommendations
	}

	if best.ScoreDiffFromBase <= 0 && !best.SavingsDiffFromBase.IsPositive() {
		return append(recommendations, "None of the scenarios improves on the current budget.")
	}

	recommendations = append(recommendations,
		fmt.Sprintf("Best scenario: %s (score %d, %+d points).", best.Name, best.Score, best.ScoreDiffFromBase))
	if best.SavingsDiffFromBase.IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("It frees %s per month.", calculation.FormatAmount(best.SavingsDiffFromBase)))
	}
	if best.Level != compSet.BaseResult.Level {
		recommendations = append(recommendations,
			fmt.Sprintf("It moves you from %s to %s.", compSet.BaseResult.Level, best.Level))
	}
	return recommendations
}
