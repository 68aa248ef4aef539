package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/tui/components"
	"github.com/rgehrsitz/finquest/internal/tui/tuistyles"
)

// ScoreModel shows the latest financial health analysis and its history
type ScoreModel struct {
	history domain.History
	trend   *compare.ComparisonSet
	width   int
	height  int
}

// NewScoreModel creates a new score scene model
func NewScoreModel() *ScoreModel {
	return &ScoreModel{}
}

// SetHistory updates the snapshots, most recent first
func (m *ScoreModel) SetHistory(h domain.History) {
	m.history = h
	m.trend = nil
	if len(h) >= 2 {
		// latest against the one before it
		if set, err := compare.CompareHistory(h[:2]); err == nil {
			m.trend = set
		}
	}
}

// SetSize updates the scene dimensions
func (m *ScoreModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the score scene
func (m *ScoreModel) Update(msg tea.Msg) (*ScoreModel, tea.Cmd) {
	return m, nil
}

// View renders the breakdown, tips and score history
func (m *ScoreModel) View() string {
	latest, ok := m.history.Latest()
	if !ok {
		return tuistyles.BorderStyle.Render(
			tuistyles.SectionStyle.Render("Financial Health") + "\n\n" +
				tuistyles.SubtitleStyle.Render("No profile analysed yet. Press u to score your profile file."))
	}
	b := latest.Breakdown

	var content strings.Builder
	content.WriteString(tuistyles.SectionStyle.Render("Financial Health"))
	content.WriteString("\n\n")

	score := components.NewMetricCard("Score", fmt.Sprintf("%d/100", b.Total)).WithDescription(string(b.Level))
	if m.trend != nil {
		d := m.trend.Latest().ScoreDiffFromBase
		score.WithTrend(d >= 0, fmt.Sprintf("%+d pts", d))
	}
	savings := components.NewMetricCard("Savings", tuistyles.FormatCurrency(b.Savings)).
		WithDescription(tuistyles.FormatPercent(b.SavingsPercentage) + " of income")
	spending := components.NewMetricCard("Spending", tuistyles.FormatCurrency(b.TotalSpending))
	if b.HighestAmount.IsPositive() {
		spending.WithDescription("most on " + string(b.HighestCategory))
	}
	content.WriteString(components.MetricGrid([]*components.MetricCard{score, savings, spending}, 3))
	content.WriteString("\n\n")

	if b.NextLevel != "" {
		content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%d points to %s", b.PointsToNextLevel, b.NextLevel)))
		content.WriteString("\n")
	}
	for _, row := range []struct {
		label  string
		points string
		max    int
	}{
		{"Savings", b.Components.Savings.StringFixed(1), 40},
		{"Essentials", b.Components.Essentials.StringFixed(1), 30},
		{"Debt", b.Components.Debt.StringFixed(1), 20},
		{"Consistency", b.Components.Consistency.StringFixed(1), 10},
	} {
		content.WriteString(fmt.Sprintf("  %-12s %6s / %d\n", row.label, row.points, row.max))
	}

	if len(b.Tips) > 0 {
		content.WriteString("\n")
		content.WriteString(tuistyles.SectionStyle.Render("Tips"))
		content.WriteString("\n")
		for _, tip := range b.Tips {
			content.WriteString("  • " + tip.Message + "\n")
		}
	}

	if len(m.history) > 1 {
		totals := make([]int, 0, len(m.history))
		for i := len(m.history) - 1; i >= 0; i-- {
			totals = append(totals, m.history[i].Breakdown.Total)
		}
		content.WriteString("\n")
		content.WriteString(components.NewSparkline("History", totals, 100).Render())
		content.WriteString("\n")
	}

	return tuistyles.BorderStyle.Render(content.String())
}
