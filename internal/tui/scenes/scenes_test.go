package scenes

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/rgehrsitz/finquest/internal/tui/tuimsg"
	"github.com/shopspring/decimal"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func statuses(completed ...string) []gamification.ChallengeStatus {
	done := map[string]bool{}
	for _, id := range completed {
		done[id] = true
	}
	var out []gamification.ChallengeStatus
	for _, c := range config.MustDefaultCatalog().Challenges {
		out = append(out, gamification.ChallengeStatus{Challenge: c, Completed: done[c.ID]})
	}
	return out
}

func submitted(t *testing.T, cmd tea.Cmd) tuimsg.SubmitChallengeMsg {
	t.Helper()
	require.NotNil(t, cmd, "Should return a command")
	msg, ok := cmd().(tuimsg.SubmitChallengeMsg)
	require.True(t, ok, "Should emit a submit message")
	return msg
}

func TestChallengesModel_Navigation(t *testing.T) {
	m := NewChallengesModel()
	m.SetStatuses(statuses())

	m.Update(keyPress("down"))
	m.Update(keyPress("j"))
	s, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "avoid_purchase", s.Challenge.ID, "Should move down twice")

	m.Update(keyPress("k"))
	m.Update(keyPress("up"))
	m.Update(keyPress("up"))
	s, _ = m.Selected()
	assert.Equal(t, "save_money", s.Challenge.ID, "Should stop at the top")

	for i := 0; i < 10; i++ {
		m.Update(keyPress("down"))
	}
	s, _ = m.Selected()
	assert.Equal(t, "emergency_fund", s.Challenge.ID, "Should stop at the bottom")
}

func TestChallengesModel_SingleFieldForm(t *testing.T) {
	m := NewChallengesModel()
	m.SetStatuses(statuses())

	m.Update(keyPress("enter"))
	require.True(t, m.Editing(), "Should open the form")
	assert.Contains(t, m.View(), "Save 100 Today")

	m.Update(keyPress("1"))
	m.Update(keyPress("5"))
	m.Update(keyPress("0"))
	_, cmd := m.Update(keyPress("enter"))

	msg := submitted(t, cmd)
	assert.Equal(t, "save_money", msg.ChallengeID)
	assert.Equal(t, challenge.Submission{challenge.FieldAmount: "150"}, msg.Submission)
}

func TestChallengesModel_MultiFieldForm(t *testing.T) {
	m := NewChallengesModel()
	m.SetStatuses(statuses())
	m.Update(keyPress("down"))
	m.Update(keyPress("down"))
	m.Update(keyPress("down"))

	m.Update(keyPress("enter"))
	require.True(t, m.Editing())

	m.Update(keyPress("100000"))
	_, cmd := m.Update(keyPress("enter"))
	assert.Nil(t, submittedOrNil(cmd), "Should move to the next field instead of submitting")
	m.Update(keyPress("12"))
	m.Update(keyPress("tab"))
	m.Update(keyPress("12"))
	_, cmd = m.Update(keyPress("enter"))

	msg := submitted(t, cmd)
	assert.Equal(t, "calculate_emi", msg.ChallengeID)
	assert.Equal(t, challenge.Submission{
		challenge.FieldAmount:       "100000",
		challenge.FieldInterestRate: "12",
		challenge.FieldTenure:       "12",
	}, msg.Submission)
}

func submittedOrNil(cmd tea.Cmd) any {
	if cmd == nil {
		return nil
	}
	if msg, ok := cmd().(tuimsg.SubmitChallengeMsg); ok {
		return msg
	}
	return nil
}

func TestChallengesModel_EscCancels(t *testing.T) {
	m := NewChallengesModel()
	m.SetStatuses(statuses())
	m.Update(keyPress("enter"))
	m.Update(keyPress("q"))

	m.Update(keyPress("esc"))

	assert.False(t, m.Editing(), "Should close the form")
	assert.Contains(t, m.View(), "Today's Challenges")
}

func TestChallengesModel_CompletedChallengeDoesNotOpen(t *testing.T) {
	m := NewChallengesModel()
	m.SetStatuses(statuses("save_money"))

	_, cmd := m.Update(keyPress("enter"))

	assert.Nil(t, cmd)
	assert.False(t, m.Editing())
	assert.Equal(t, "Challenge already completed today.", m.Message())
	assert.Contains(t, m.View(), "[x]", "Should mark the completed challenge")
}

func TestChallengesModel_SetResult(t *testing.T) {
	m := NewChallengesModel()
	m.SetStatuses(statuses())
	m.Update(keyPress("enter"))

	m.SetResult(gamification.Outcome{}, domain.NewValidationError("save_money", domain.ReasonBelowMinimum,
		challenge.FieldAmount, "Please enter an amount of at least 100.00."))
	assert.True(t, m.Editing(), "Should keep the form open after a validation error")
	assert.Equal(t, "Please enter an amount of at least 100.00.", m.Message())

	m.SetResult(gamification.Outcome{}, fmt.Errorf("%w: save_money", domain.ErrAlreadyCompleted))
	assert.False(t, m.Editing(), "Should close the form when already completed")

	m.SetResult(gamification.Outcome{}, errors.New("disk full"))
	assert.Equal(t, "disk full", m.Message())

	state := domain.NewGamificationState()
	state.Level = domain.LevelSmartSaver
	m.SetResult(gamification.Outcome{
		State:     state,
		Reward:    domain.Reward{Coins: 10, XP: 20},
		LeveledUp: true,
		NewBadges: []gamification.BadgeUnlock{{Message: "You've earned the Challenge Starter badge!"}},
	}, nil)
	assert.Equal(t, "Challenge completed! +10 coins, +20 XP\nLevel up! You are now Smart Saver.\nYou've earned the Challenge Starter badge!", m.Message())
}

func TestBadgesModel(t *testing.T) {
	catalog := config.MustDefaultCatalog()
	state := domain.NewGamificationState()
	state.Badges = []string{"challenge_starter", "quiz_whiz"}

	m := NewBadgesModel()
	m.SetBadges(gamification.Badges(catalog, state))

	assert.Equal(t, 2, m.Earned())
	out := m.View()
	assert.Contains(t, out, "Badges (2 of 12 earned)")
	assert.Contains(t, out, "Challenge Starter")
	assert.Contains(t, out, catalog.Badges[0].Description, "Should describe the highlighted badge")

	m.Update(keyPress("down"))
	assert.Contains(t, m.View(), catalog.Badges[1].Description)
}

func historyOf(t *testing.T, amounts ...int64) domain.History {
	t.Helper()
	engine := calculation.NewEngine()
	h := domain.History{}
	for i, food := range amounts {
		p := domain.NewFinancialProfile(decimal.NewFromInt(50000))
		p.Set(domain.CategoryHousing, decimal.NewFromInt(20000))
		p.Set(domain.CategoryFood, decimal.NewFromInt(food))
		var err error
		_, h, err = engine.Analyze(p, h, time.Date(2025, 5, i+1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}
	return h
}

func TestScoreModel(t *testing.T) {
	m := NewScoreModel()
	assert.Contains(t, m.View(), "No profile analysed yet")

	m.SetHistory(historyOf(t, 10000))
	out := m.View()
	assert.Contains(t, out, "52/100")
	assert.Contains(t, out, "Improving")
	assert.Contains(t, out, "40.0% of income")
	assert.Contains(t, out, "18 points to Smart Saver")
	assert.NotContains(t, out, "History", "Should not chart a single snapshot")

	h := historyOf(t, 10000, 4000)
	m.SetHistory(h)
	out = m.View()
	d := h[0].Breakdown.Total - h[1].Breakdown.Total
	assert.Contains(t, out, fmt.Sprintf("%+d pts", d), "Should show the change since the previous snapshot")
	assert.Contains(t, out, "History")
}

func TestHomeModel(t *testing.T) {
	m := NewHomeModel()
	assert.Contains(t, m.View(), "Loading dashboard")

	state := domain.NewGamificationState()
	state.XP, state.Coins, state.Streak = 60, 35, 3
	h := historyOf(t, 10000)
	m.SetDashboard(service.Dashboard{
		UserID:  "alice",
		Today:   "2025-05-05",
		Latest:  &h[0],
		History: h,
		State:   state,
		Level:   gamification.ProgressFor(60),
		Daily:   gamification.DailyProgress{Day: "2025-05-05", Completed: 2, Total: 5, Fraction: 0.4},
		NewBadges: []gamification.BadgeUnlock{
			{Badge: domain.Badge{Icon: "*"}, Message: "You've earned the Budget Master badge!"},
		},
	})

	out := m.View()
	for _, want := range []string{"alice", "52/100", "Smart Saver", "35", "3 days", "90 XP to Investor", "2/5", "You've earned the Budget Master badge!"} {
		assert.Contains(t, out, want)
	}
}
