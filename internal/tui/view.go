package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/finquest/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = tuistyles.ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
	case m.loading:
		message := m.loadingMessage
		if message == "" {
			message = "Loading..."
		}
		content = tuistyles.BorderStyle.Render("⠋ " + message)
	default:
		switch m.currentScene {
		case SceneHome:
			content = m.homeModel.View()
		case SceneChallenges:
			content = m.challengesModel.View()
		case SceneBadges:
			content = m.badgesModel.View()
		case SceneScore:
			content = m.scoreModel.View()
		case SceneHelp:
			content = m.renderHelp()
		default:
			content = "Unknown scene"
		}
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 0 {
		contentHeight = 0
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("FinQuest - Financial Wellness")
	crumb := m.currentScene.String()
	if m.dashboard != nil {
		crumb = fmt.Sprintf("%s / %s • %d coins • %s", m.userID, crumb, m.dashboard.State.Coins, m.dashboard.Level.Level)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	bindings := keys.statusBindings()
	shortcuts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		shortcuts = append(shortcuts, tuistyles.StatusKeyStyle.Render(h.Key)+" "+h.Desc)
	}
	status := strings.Join(shortcuts, " • ")
	if m.notice != "" {
		status = m.notice + "  |  " + status
	}
	return tuistyles.StatusBarStyle.Render(status)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	all := append(keys.statusBindings(), keys.Back)
	for _, k := range all {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %s %s\n", tuistyles.HelpKeyStyle.Render(fmt.Sprintf("%-6s", h.Key)), tuistyles.HelpDescStyle.Render(h.Desc)))
	}
	b.WriteString("\n")
	b.WriteString(tuistyles.HelpDescStyle.Render("In the challenge list use up/down and enter to open a challenge.\nIn a form use tab to move, enter to submit and esc to cancel."))
	return tuistyles.BorderStyle.Render(b.String())
}
