package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/tui/tuistyles"
)

// BadgesModel shows the badge catalog with earned flags
type BadgesModel struct {
	views         []gamification.BadgeView
	selectedIndex int
	width         int
	height        int
}

// NewBadgesModel creates a new badges scene model
func NewBadgesModel() *BadgesModel {
	return &BadgesModel{}
}

// SetBadges updates the badge list
func (m *BadgesModel) SetBadges(views []gamification.BadgeView) {
	m.views = views
	if m.selectedIndex >= len(views) {
		m.selectedIndex = 0
	}
}

// SetSize updates the scene dimensions
func (m *BadgesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Earned counts the earned badges
func (m *BadgesModel) Earned() int {
	n := 0
	for _, v := range m.views {
		if v.Earned {
			n++
		}
	}
	return n
}

// Update handles messages for the badges scene
func (m *BadgesModel) Update(msg tea.Msg) (*BadgesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.views)-1 {
			m.selectedIndex++
		}
	}
	return m, nil
}

// View renders the badge list and the highlighted badge's description
func (m *BadgesModel) View() string {
	var content strings.Builder
	content.WriteString(tuistyles.SectionStyle.Render(fmt.Sprintf("Badges (%d of %d earned)", m.Earned(), len(m.views))))
	content.WriteString("\n\n")

	for i, v := range m.views {
		cursor := "  "
		if i == m.selectedIndex {
			cursor = tuistyles.SelectedItemStyle.Render("> ")
		}
		if v.Earned {
			content.WriteString(cursor + v.Badge.Icon + " " + tuistyles.RewardStyle.Render(v.Badge.Title))
		} else {
			content.WriteString(cursor + tuistyles.SubtitleStyle.Render("🔒 "+v.Badge.Title))
		}
		content.WriteString("\n")
	}

	if i := m.selectedIndex; i < len(m.views) {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(m.views[i].Badge.Description))
	}
	return tuistyles.BorderStyle.Render(content.String())
}
