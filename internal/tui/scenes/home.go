package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/rgehrsitz/finquest/internal/tui/components"
	"github.com/rgehrsitz/finquest/internal/tui/tuistyles"
)

// HomeModel is the dashboard overview scene
type HomeModel struct {
	dashboard *service.Dashboard
	width     int
	height    int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetDashboard updates the displayed dashboard
func (m *HomeModel) SetDashboard(d service.Dashboard) {
	m.dashboard = &d
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene. It is passive; navigation is
// handled by the parent.
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

// View renders the overview
func (m *HomeModel) View() string {
	if m.dashboard == nil {
		return tuistyles.BorderStyle.Render(tuistyles.SubtitleStyle.Render("Loading dashboard..."))
	}
	d := m.dashboard

	var content strings.Builder
	content.WriteString(tuistyles.SectionStyle.Render(fmt.Sprintf("Welcome back, %s", d.UserID)))
	content.WriteString("\n\n")

	score := components.NewMetricCard("Health score", "-")
	if d.Latest != nil {
		score = components.NewMetricCard("Health score", fmt.Sprintf("%d/100", d.Latest.Breakdown.Total)).
			WithDescription(string(d.Latest.Breakdown.Level))
		if len(d.History) > 1 {
			diff := d.History[0].Breakdown.Total - d.History[1].Breakdown.Total
			score.WithTrend(diff >= 0, fmt.Sprintf("%+d pts", diff))
		}
	}
	cards := []*components.MetricCard{
		score,
		components.NewMetricCard("Level", string(d.Level.Level)).WithDescription(fmt.Sprintf("%d XP", d.Level.XP)),
		components.NewMetricCard("Coins", fmt.Sprintf("%d", d.State.Coins)),
		components.NewMetricCard("Streak", fmt.Sprintf("%d days", d.State.Streak)),
	}
	columns := 4
	if m.width > 0 && m.width < 110 {
		columns = 2
	}
	content.WriteString(components.MetricGrid(cards, columns))
	content.WriteString("\n\n")

	levelBar := components.NewProgressBar(d.Level.XP-d.Level.LowerBound, d.Level.UpperBound-d.Level.LowerBound)
	if d.Level.AtTop() {
		levelBar = components.NewProgressBar(1, 1).WithLabel("Top level reached")
	} else {
		levelBar.WithLabel(fmt.Sprintf("%d XP to %s", d.Level.XPToNext, d.Level.NextLevel))
	}
	content.WriteString(levelBar.Render())
	content.WriteString("\n\n")

	content.WriteString(components.NewProgressBar(d.Daily.Completed, d.Daily.Total).
		WithLabel(fmt.Sprintf("Today's challenges (%s)", d.Today)).Render())
	content.WriteString("\n")

	if len(d.NewBadges) > 0 {
		content.WriteString("\n")
		for _, u := range d.NewBadges {
			content.WriteString(tuistyles.RewardStyle.Render(u.Badge.Icon + " " + u.Message))
			content.WriteString("\n")
		}
	}

	return tuistyles.BorderStyle.Render(content.String())
}
