package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finquest/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.homeModel.SetSize(msg.Width, msg.Height)
		m.challengesModel.SetSize(msg.Width, msg.Height)
		m.badgesModel.SetSize(msg.Width, msg.Height)
		m.scoreModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case tuimsg.DashboardLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		d := msg.Dashboard
		m.dashboard = &d
		m.homeModel.SetDashboard(d)
		m.challengesModel.SetStatuses(d.Challenges)
		m.badgesModel.SetBadges(d.Badges)
		m.scoreModel.SetHistory(d.History)
		return m, nil

	case tuimsg.SubmitChallengeMsg:
		return m, completeChallengeCmd(m.backend, m.userID, msg)

	case tuimsg.ChallengeCompletedMsg:
		m.challengesModel.SetResult(msg.Outcome, msg.Err)
		if msg.Err != nil {
			return m, nil
		}
		m.notice = fmt.Sprintf("+%d coins, +%d XP", msg.Outcome.Reward.Coins, msg.Outcome.Reward.XP)
		return m, loadDashboardCmd(m.backend, m.userID)

	case tuimsg.ProfileSubmittedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		notice := fmt.Sprintf("Profile scored: %d/100 (%s)", msg.Result.Snapshot.Breakdown.Total, msg.Result.Snapshot.Breakdown.Level)
		if len(msg.Result.NewBadges) > 0 {
			names := make([]string, 0, len(msg.Result.NewBadges))
			for _, u := range msg.Result.NewBadges {
				names = append(names, u.Badge.Title)
			}
			notice += " • new: " + strings.Join(names, ", ")
		}
		m.notice = notice
		m.currentScene, m.previousScene = SceneScore, m.currentScene
		return m, loadDashboardCmd(m.backend, m.userID)
	}

	return m.updateCurrentScene(msg)
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// any key dismisses the error
		m.err = nil
		return m, nil
	}

	// an open form gets every key except ctrl+c
	if m.currentScene == SceneChallenges && m.challengesModel.Editing() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateCurrentScene(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		return m, navigate(SceneHelp)
	case key.Matches(msg, keys.Back):
		if m.currentScene != SceneHome {
			back := SceneHome
			if m.previousScene != m.currentScene {
				back = m.previousScene
			}
			return m, navigate(back)
		}
		return m, nil
	case key.Matches(msg, keys.Home):
		return m, navigate(SceneHome)
	case key.Matches(msg, keys.Challenges):
		return m, navigate(SceneChallenges)
	case key.Matches(msg, keys.Badges):
		return m, navigate(SceneBadges)
	case key.Matches(msg, keys.Score):
		return m, navigate(SceneScore)
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.loadingMessage = "Refreshing..."
		return m, loadDashboardCmd(m.backend, m.userID)
	case key.Matches(msg, keys.Update):
		if m.profilePath == "" {
			m.notice = "No profile file configured"
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Scoring profile..."
		return m, submitProfileCmd(m.backend, m.userID, m.profilePath)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneChallenges:
		m.challengesModel, cmd = m.challengesModel.Update(msg)
	case SceneBadges:
		m.badgesModel, cmd = m.badgesModel.Update(msg)
	case SceneScore:
		m.scoreModel, cmd = m.scoreModel.Update(msg)
	}
	return m, cmd
}
