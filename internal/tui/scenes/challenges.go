package scenes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/tui/tuimsg"
	"github.com/rgehrsitz/finquest/internal/tui/tuistyles"
)

var fieldPlaceholders = map[string]string{
	challenge.FieldAmount:          "e.g. 150",
	challenge.FieldCount:           "e.g. 3",
	challenge.FieldDescription:     "what did you skip?",
	challenge.FieldInterestRate:    "annual %, e.g. 10",
	challenge.FieldTenure:          "months, e.g. 12",
	challenge.FieldMonthlyExpenses: "e.g. 2000",
	challenge.FieldTargetMonths:    "e.g. 6",
}

// ChallengesModel lists today's challenges and collects completion forms
type ChallengesModel struct {
	statuses      []gamification.ChallengeStatus
	selectedIndex int
	form          *challengeForm
	message       string
	failed        bool
	width         int
	height        int
}

type challengeForm struct {
	challenge domain.Challenge
	fields    []string
	inputs    []textinput.Model
	focus     int
}

// NewChallengesModel creates a new challenges scene model
func NewChallengesModel() *ChallengesModel {
	return &ChallengesModel{}
}

// SetStatuses updates the challenge list
func (m *ChallengesModel) SetStatuses(statuses []gamification.ChallengeStatus) {
	m.statuses = statuses
	if m.selectedIndex >= len(m.statuses) {
		m.selectedIndex = 0
	}
}

// SetSize updates the scene dimensions
func (m *ChallengesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether a completion form has focus
func (m *ChallengesModel) Editing() bool {
	return m.form != nil
}

// Selected returns the highlighted challenge
func (m *ChallengesModel) Selected() (gamification.ChallengeStatus, bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.statuses) {
		return m.statuses[m.selectedIndex], true
	}
	return gamification.ChallengeStatus{}, false
}

// Message returns the last result shown under the list
func (m *ChallengesModel) Message() string {
	return m.message
}

// SetResult shows the outcome of a completion attempt. A validation failure
// keeps the form open so the values can be corrected.
func (m *ChallengesModel) SetResult(outcome gamification.Outcome, err error) {
	if err != nil {
		m.failed = true
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			m.message = ve.Message
		case errors.Is(err, domain.ErrAlreadyCompleted):
			m.message = "Challenge already completed today."
			m.form = nil
		default:
			m.message = err.Error()
		}
		return
	}

	m.failed = false
	m.form = nil
	lines := []string{fmt.Sprintf("Challenge completed! +%d coins, +%d XP", outcome.Reward.Coins, outcome.Reward.XP)}
	if outcome.LeveledUp {
		lines = append(lines, fmt.Sprintf("Level up! You are now %s.", outcome.State.Level))
	}
	for _, u := range outcome.NewBadges {
		lines = append(lines, u.Message)
	}
	m.message = strings.Join(lines, "\n")
}

// Update handles messages for the challenges scene
func (m *ChallengesModel) Update(msg tea.Msg) (*ChallengesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.form != nil {
		return m.updateForm(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.statuses)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		return m, m.open()
	}
	return m, nil
}

func (m *ChallengesModel) open() tea.Cmd {
	status, ok := m.Selected()
	if !ok {
		return nil
	}
	if status.Completed {
		m.message = "Challenge already completed today."
		m.failed = true
		return nil
	}

	m.message = ""
	fields := challenge.FieldsFor(status.Challenge.Type)
	if len(fields) == 0 {
		return submit(status.Challenge.ID, challenge.Submission{})
	}

	form := &challengeForm{challenge: status.Challenge, fields: fields}
	for _, f := range fields {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[f]
		ti.CharLimit = 64
		ti.Prompt = ""
		form.inputs = append(form.inputs, ti)
	}
	m.form = form
	return m.form.inputs[0].Focus()
}

func (m *ChallengesModel) updateForm(msg tea.KeyMsg) (*ChallengesModel, tea.Cmd) {
	f := m.form
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.form = nil
		m.message = ""
		return m, nil
	case key.Matches(msg, key.NewBinding(key.WithKeys("tab", "down"))):
		return m, f.move(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab", "up"))):
		return m, f.move(-1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		if f.focus < len(f.inputs)-1 {
			return m, f.move(1)
		}
		return m, submit(f.challenge.ID, f.submission())
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (f *challengeForm) move(delta int) tea.Cmd {
	next := f.focus + delta
	if next < 0 || next >= len(f.inputs) {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = next
	return f.inputs[f.focus].Focus()
}

func (f *challengeForm) submission() challenge.Submission {
	sub := challenge.Submission{}
	for i, field := range f.fields {
		sub[field] = f.inputs[i].Value()
	}
	return sub
}

func submit(id string, sub challenge.Submission) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.SubmitChallengeMsg{ChallengeID: id, Submission: sub}
	}
}

// View renders the list or the open form
func (m *ChallengesModel) View() string {
	var content strings.Builder

	if m.form != nil {
		content.WriteString(tuistyles.SectionStyle.Render(m.form.challenge.Title))
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(m.form.challenge.Description))
		content.WriteString("\n\n")
		for i, field := range m.form.fields {
			label := fmt.Sprintf("%-18s", strings.ReplaceAll(field, "_", " "))
			if i == m.form.focus {
				content.WriteString(tuistyles.SelectedItemStyle.Render("> " + label))
			} else {
				content.WriteString(tuistyles.UnselectedItemStyle.Render("  " + label))
			}
			content.WriteString(m.form.inputs[i].View())
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(tuistyles.HelpDescStyle.Render("tab next field • enter submit • esc cancel"))
	} else {
		content.WriteString(tuistyles.SectionStyle.Render("Today's Challenges"))
		content.WriteString("\n\n")
		if len(m.statuses) == 0 {
			content.WriteString(tuistyles.SubtitleStyle.Render("No challenges configured."))
		}
		for i, s := range m.statuses {
			mark := "[ ]"
			if s.Completed {
				mark = tuistyles.SuccessStyle.Render("[x]")
			}
			line := fmt.Sprintf("%s %s", mark, s.Challenge.Title)
			reward := tuistyles.RewardStyle.Render(fmt.Sprintf("  +%d coins +%d XP", s.Challenge.Reward.Coins, s.Challenge.Reward.XP))
			if i == m.selectedIndex {
				content.WriteString(tuistyles.SelectedItemStyle.Render("> ") + line + reward)
			} else {
				content.WriteString("  " + tuistyles.UnselectedItemStyle.Render(line) + reward)
			}
			content.WriteString("\n")
		}
		if s, ok := m.Selected(); ok && s.Challenge.Description != "" {
			content.WriteString("\n")
			content.WriteString(tuistyles.SubtitleStyle.Render(s.Challenge.Description))
			content.WriteString("\n")
		}
	}

	if m.message != "" {
		content.WriteString("\n")
		if m.failed {
			content.WriteString(tuistyles.ErrorStyle.Render(m.message))
		} else {
			content.WriteString(tuistyles.RewardStyle.Render(m.message))
		}
	}

	return tuistyles.BorderStyle.Render(content.String())
}
