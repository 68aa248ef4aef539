package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/finquest/internal/tui/tuistyles"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws a one line chart of values on a fixed 0..Max scale
type Sparkline struct {
	Label  string
	Values []int
	Max    int
}

// NewSparkline creates a sparkline scaled to max
func NewSparkline(label string, values []int, max int) *Sparkline {
	return &Sparkline{Label: label, Values: values, Max: max}
}

// Line returns the unstyled chart characters, one per value
func (s *Sparkline) Line() string {
	if s.Max <= 0 {
		return strings.Repeat(string(sparkLevels[0]), len(s.Values))
	}
	var b strings.Builder
	top := len(sparkLevels) - 1
	for _, v := range s.Values {
		if v < 0 {
			v = 0
		}
		if v > s.Max {
			v = s.Max
		}
		b.WriteRune(sparkLevels[v*top/s.Max])
	}
	return b.String()
}

// Render returns the labelled, colored sparkline
func (s *Sparkline) Render() string {
	line := lipgloss.NewStyle().Foreground(tuistyles.ColorSecondary).Render(s.Line())
	if s.Label == "" {
		return line
	}
	return tuistyles.MetricLabelStyle.Render(s.Label+" ") + line
}
