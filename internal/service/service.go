package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rgehrsitz/finquest/internal/breakeven"
	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/store"
)

// Service runs per-user operations as load, compute, save cycles over a
// Store. Calls for the same user are serialized.
type Service struct {
	store   store.Store
	clock   Clock
	engine  *calculation.Engine
	machine *gamification.Machine
	solver  *breakeven.Solver
	compare *compare.CompareEngine
	logger  calculation.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates a service over st using catalog for challenges and badges
func New(st store.Store, catalog *domain.Catalog, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	engine := calculation.NewEngine()
	return &Service{
		store:   st,
		clock:   clock,
		engine:  engine,
		machine: gamification.NewMachine(catalog),
		solver:  breakeven.NewDefaultSolver(engine),
		compare: compare.NewCompareEngine(engine),
		logger:  calculation.NopLogger{},
		locks:   make(map[string]*sync.Mutex),
	}
}

// SetLogger sets the logger used by the service, engine and machine
func (s *Service) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.logger = l
	s.engine.SetLogger(l)
	s.machine.SetLogger(l)
}

// Catalog returns the challenge and badge catalog
func (s *Service) Catalog() *domain.Catalog { return s.machine.Catalog }

// Engine returns the scoring engine
func (s *Service) Engine() *calculation.Engine { return s.engine }

// Today returns the current calendar day
func (s *Service) Today() domain.Date { return domain.DateOf(s.clock.Now()) }

func (s *Service) lock(userID string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (s *Service) load(ctx context.Context, userID string) (domain.UserRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.UserRecord{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	u, ok, err := s.store.LoadUser(ctx, userID)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	if !ok {
		s.logger.Infof("creating record for new user %s", userID)
		u = domain.NewUserRecord(userID)
	}
	return u, nil
}

func (s *Service) save(ctx context.Context, u domain.UserRecord) error {
	u.UpdatedAt = s.clock.Now()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}

// ProfileResult is the outcome of submitting a profile
type ProfileResult struct {
	Snapshot  domain.ProfileSnapshot     `json:"snapshot"`
	NewBadges []gamification.BadgeUnlock `json:"new_badges"`
}

// Evaluate scores a profile against the user's history without saving it
func (s *Service) Evaluate(ctx context.Context, userID string, profile domain.FinancialProfile) (domain.ScoreBreakdown, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return domain.ScoreBreakdown{}, err
	}
	return s.engine.Evaluate(profile, u.History)
}

// SubmitProfile scores a profile, records it as the newest snapshot and
// unlocks any badges the new history earns
func (s *Service) SubmitProfile(ctx context.Context, userID string, profile domain.FinancialProfile) (ProfileResult, error) {
	defer s.lock(userID)()

	u, err := s.load(ctx, userID)
	if err != nil {
		return ProfileResult{}, err
	}

	snap, history, err := s.engine.Analyze(profile, u.History, s.clock.Now())
	if err != nil {
		return ProfileResult{}, err
	}
	p := profile.Clone()
	u.Profile = &p
	u.History = history

	state, unlocked := s.machine.EvaluateBadges(u.Gamification, u.History)
	u.Gamification = state

	if err := s.save(ctx, u); err != nil {
		return ProfileResult{}, err
	}
	return ProfileResult{Snapshot: snap, NewBadges: unlocked}, nil
}

// CompleteChallenge records a challenge completion for today
func (s *Service) CompleteChallenge(ctx context.Context, userID, challengeID string, sub challenge.Submission) (gamification.Outcome, error) {
	defer s.lock(userID)()

	u, err := s.load(ctx, userID)
	if err != nil {
		return gamification.Outcome{}, err
	}

	out, err := s.machine.CompleteChallenge(u.Gamification, u.History, challengeID, sub, s.clock.Now())
	if err != nil {
		return gamification.Outcome{}, err
	}
	u.Gamification = out.State

	if err := s.save(ctx, u); err != nil {
		return gamification.Outcome{}, err
	}
	return out, nil
}

// RecordQuiz scores and stores a finished quiz
func (s *Service) RecordQuiz(ctx context.Context, userID string, attempt gamification.QuizAttempt) (gamification.Outcome, error) {
	defer s.lock(userID)()

	u, err := s.load(ctx, userID)
	if err != nil {
		return gamification.Outcome{}, err
	}

	out, err := s.machine.RecordQuiz(u.Gamification, u.History, attempt)
	if err != nil {
		return gamification.Outcome{}, err
	}
	u.Gamification = out.State

	if err := s.save(ctx, u); err != nil {
		return gamification.Outcome{}, err
	}
	return out, nil
}

// Dashboard is everything shown on a user's home screen
type Dashboard struct {
	UserID     string                         `json:"user_id"`
	Today      domain.Date                    `json:"today"`
	Latest     *domain.ProfileSnapshot        `json:"latest,omitempty"`
	History    domain.History                 `json:"history"`
	State      domain.GamificationState       `json:"state"`
	Level      gamification.LevelProgress     `json:"level"`
	Daily      gamification.DailyProgress     `json:"daily"`
	Challenges []gamification.ChallengeStatus `json:"challenges"`
	Badges     []gamification.BadgeView       `json:"badges"`
	NewBadges  []gamification.BadgeUnlock     `json:"new_badges,omitempty"`
}

// Dashboard rolls the user over to today and re-checks badges. The record is
// saved only when either changed it.
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	defer s.lock(userID)()

	u, err := s.load(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	today := s.Today()
	before := u.Gamification.LastResetDate
	state := gamification.ResetIfNewDay(u.Gamification, today)
	state, unlocked := s.machine.EvaluateBadges(state, u.History)
	u.Gamification = state

	if before != state.LastResetDate || len(unlocked) > 0 {
		if err := s.save(ctx, u); err != nil {
			return Dashboard{}, err
		}
	}

	d := Dashboard{
		UserID:     u.ID,
		Today:      today,
		History:    u.History,
		State:      state,
		Level:      gamification.ProgressFor(state.XP),
		Daily:      s.machine.DailyProgress(state, today),
		Challenges: s.machine.Today(state, today),
		Badges:     gamification.Badges(s.machine.Catalog, state),
		NewBadges:  unlocked,
	}
	if latest, ok := u.History.Latest(); ok {
		d.Latest = &latest
	}
	return d, nil
}
