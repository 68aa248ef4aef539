package service

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finquest/internal/breakeven"
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/domain"
)

// planningInput resolves the profile to plan from: the given one, or the
// user's last submitted profile when nil. The user's history comes along so
// consistency points match what a real submission would score; the saved
// profile is already the newest snapshot, so it is scored against the ones
// before it.
func (s *Service) planningInput(ctx context.Context, userID string, profile *domain.FinancialProfile) (domain.FinancialProfile, domain.History, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return domain.FinancialProfile{}, nil, err
	}
	if profile != nil {
		return profile.Clone(), u.History, nil
	}
	if u.Profile == nil {
		return domain.FinancialProfile{}, nil, fmt.Errorf("%w: user %s has no saved profile; pass a profile file or run 'finquest score --save' first", domain.ErrInvalidInput, userID)
	}
	prior := u.History
	if len(prior) > 0 {
		prior = prior[1:]
	}
	return u.Profile.Clone(), prior, nil
}

// WhatIf scores each scenario against the profile without saving anything
func (s *Service) WhatIf(ctx context.Context, userID string, profile *domain.FinancialProfile, scenarios []compare.Scenario) (*compare.ComparisonSet, error) {
	p, history, err := s.planningInput(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("comparing %d what-if scenarios for %s", len(scenarios), userID)
	return s.compare.CompareScenarios(p, history, scenarios)
}

// SolveGoal finds the smallest change of req's lever that reaches its goal.
// req.Profile and req.History are filled in from profile and the user.
func (s *Service) SolveGoal(ctx context.Context, userID string, profile *domain.FinancialProfile, req breakeven.GoalRequest) (*breakeven.GoalResult, error) {
	p, history, err := s.planningInput(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	req.Profile, req.History = p, history
	s.logger.Debugf("solving %s goal of %s with the %s lever for %s", req.Target, req.Value, req.Lever, userID)
	return s.solver.Solve(ctx, req)
}

// CompareLevers solves the goal with every lever and ranks them
func (s *Service) CompareLevers(ctx context.Context, userID string, profile *domain.FinancialProfile, req breakeven.GoalRequest) (*breakeven.LeverComparison, error) {
	p, history, err := s.planningInput(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	req.Profile, req.History = p, history
	return s.solver.CompareLevers(ctx, req)
}
