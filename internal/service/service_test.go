package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *FixedClock) {
	t.Helper()
	st := store.NewMemoryStore()
	clock := NewFixedClock(start)
	return New(st, config.MustDefaultCatalog(), clock), st, clock
}

func referenceProfile() domain.FinancialProfile {
	p := domain.NewFinancialProfile(decimal.NewFromInt(50000))
	p.Set(domain.CategoryHousing, decimal.NewFromInt(20000))
	p.Set(domain.CategoryFood, decimal.NewFromInt(10000))
	return p
}

func badgeIDs(unlocks []gamification.BadgeUnlock) []string {
	ids := make([]string, 0, len(unlocks))
	for _, u := range unlocks {
		ids = append(ids, u.Badge.ID)
	}
	return ids
}

func TestService_SubmitProfile(t *testing.T) {
	svc, st, clock := newTestService(t)
	ctx := context.Background()

	res, err := svc.SubmitProfile(ctx, "asha", referenceProfile())
	require.NoError(t, err)
	assert.Equal(t, 52, res.Snapshot.Breakdown.Total)
	assert.Equal(t, domain.HealthImproving, res.Snapshot.Breakdown.Level)
	assert.Len(t, res.Snapshot.Breakdown.Tips, 3)
	assert.NotEmpty(t, res.Snapshot.ID)
	assert.Equal(t, start, res.Snapshot.CreatedAt)
	assert.Empty(t, res.NewBadges)

	u, ok, err := st.LoadUser(ctx, "asha")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, u.Profile)
	assert.Len(t, u.History, 1)
	assert.Equal(t, start, u.UpdatedAt)

	var unlocked []string
	for i := 2; i <= 7; i++ {
		clock.AdvanceDays(1)
		res, err = svc.SubmitProfile(ctx, "asha", referenceProfile())
		require.NoError(t, err)
		unlocked = append(unlocked, badgeIDs(res.NewBadges)...)
		if i == 3 {
			assert.Equal(t, []string{"savings_star"}, badgeIDs(res.NewBadges))
		}
		if i == 5 {
			assert.Equal(t, []string{"budget_master"}, badgeIDs(res.NewBadges))
		}
	}
	assert.Equal(t, []string{"savings_star", "budget_master"}, unlocked)

	u, _, err = st.LoadUser(ctx, "asha")
	require.NoError(t, err)
	assert.Len(t, u.History, domain.MaxHistory)
	assert.Equal(t, res.Snapshot.ID, u.History[0].ID)
	assert.Equal(t, 62, u.History[0].Breakdown.Total, "steady savings earn consistency points")
}

func TestService_SubmitProfileRejectsInvalid(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	bad := referenceProfile()
	bad.Set(domain.CategoryFood, decimal.NewFromInt(-1))
	_, err := svc.SubmitProfile(ctx, "asha", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, ok, err := st.LoadUser(ctx, "asha")
	require.NoError(t, err)
	assert.False(t, ok, "nothing is saved")

	_, err = svc.SubmitProfile(ctx, "  ", referenceProfile())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Evaluate(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Evaluate(ctx, "asha", referenceProfile())
	require.NoError(t, err)
	assert.Equal(t, 52, b.Total)

	ids, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "evaluate does not persist")
}

func TestService_CompleteChallengeAcrossDays(t *testing.T) {
	svc, st, clock := newTestService(t)
	ctx := context.Background()
	sub := map[string]string{"amount": "150"}

	out, err := svc.CompleteChallenge(ctx, "asha", "save_money", sub)
	require.NoError(t, err)
	assert.Equal(t, 10, out.State.Coins)
	assert.Equal(t, []string{"challenge_starter"}, badgeIDs(out.NewBadges))

	_, err = svc.CompleteChallenge(ctx, "asha", "save_money", sub)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	u, _, err := st.LoadUser(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 10, u.Gamification.Coins, "second attempt awards nothing")

	_, err = svc.CompleteChallenge(ctx, "asha", "save_money", map[string]string{"amount": "5"})
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	clock.AdvanceDays(1)
	out, err = svc.CompleteChallenge(ctx, "asha", "save_money", sub)
	require.NoError(t, err)
	assert.Equal(t, 1, out.State.Streak)
	assert.Equal(t, 20, out.State.Coins)

	_, err = svc.CompleteChallenge(ctx, "asha", "track_expenses", map[string]string{"count": "1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientCount)
}

func TestService_RecordQuiz(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordQuiz(ctx, "asha", gamification.QuizAttempt{QuizID: "digital_payment", Answers: []bool{true, true, true}})
	require.NoError(t, err)

	out, err := svc.RecordQuiz(ctx, "asha", gamification.QuizAttempt{QuizID: "fraud_prevention", Answers: []bool{true, true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"fraud_fighter"}, badgeIDs(out.NewBadges))
	assert.Equal(t, 5, out.State.CorrectAnswers)

	_, err = svc.RecordQuiz(ctx, "asha", gamification.QuizAttempt{QuizID: "investment"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Dashboard(t *testing.T) {
	svc, st, clock := newTestService(t)
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, domain.Date("2025-05-05"), d.Today)
	assert.Nil(t, d.Latest)
	assert.Equal(t, domain.LevelBeginner, d.Level.Level)
	assert.Equal(t, 0, d.Daily.Completed)
	assert.Equal(t, 5, d.Daily.Total)
	assert.Len(t, d.Challenges, 5)
	assert.Len(t, d.Badges, 12)
	for _, b := range d.Badges {
		assert.False(t, b.Earned)
	}

	u, ok, err := st.LoadUser(ctx, "asha")
	require.NoError(t, err)
	require.True(t, ok, "first visit records the day rollover")
	assert.Equal(t, domain.Date("2025-05-05"), u.Gamification.LastResetDate)

	_, err = svc.SubmitProfile(ctx, "asha", referenceProfile())
	require.NoError(t, err)
	_, err = svc.CompleteChallenge(ctx, "asha", "avoid_purchase", map[string]string{"description": "no new phone"})
	require.NoError(t, err)

	d, err = svc.Dashboard(ctx, "asha")
	require.NoError(t, err)
	require.NotNil(t, d.Latest)
	assert.Equal(t, 52, d.Latest.Breakdown.Total)
	assert.Equal(t, 1, d.Daily.Completed)
	assert.True(t, d.Challenges[2].Completed)
	assert.Equal(t, 40, d.State.XP)
	assert.Equal(t, 10, d.Level.XPToNext)

	clock.AdvanceDays(1)
	d, err = svc.Dashboard(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 1, d.State.Streak)
	assert.Equal(t, 0, d.Daily.Completed)

	clock.AdvanceDays(1)
	d, err = svc.Dashboard(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 0, d.State.Streak, "missed day resets the streak")
	assert.Contains(t, d.State.Badges, "challenge_starter")
}

func TestService_SerializesPerUser(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordQuiz(ctx, "asha", gamification.QuizAttempt{QuizID: "budgeting", Answers: []bool{true}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, _, err := st.LoadUser(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 20, u.Gamification.CorrectAnswers)
	assert.Len(t, u.Gamification.QuizScores["budgeting"], 20)
	assert.Equal(t, 200, u.Gamification.Coins)
}

func TestSystemClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := SystemClock{Location: loc}.Now()
	assert.Equal(t, loc, now.Location())
	assert.NotNil(t, SystemClock{}.Now())
}
