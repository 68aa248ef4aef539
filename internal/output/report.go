package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/finquest/internal/breakeven"
	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/shopspring/decimal"
)

// Report is everything a command may want rendered. Formatters skip the
// sections that are nil or empty.
type Report struct {
	Title       string    `json:"title"`
	UserID      string    `json:"user_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Breakdown     *domain.ScoreBreakdown     `json:"breakdown,omitempty"`
	Snapshot      *domain.ProfileSnapshot    `json:"snapshot,omitempty"`
	Loan          *domain.EMIResult          `json:"loan,omitempty"`
	Projections   []domain.SavingsProjection `json:"projections,omitempty"`
	Simulation    *domain.SavingsSimulation  `json:"simulation,omitempty"`
	EmergencyFund *domain.EmergencyFundPlan  `json:"emergency_fund,omitempty"`

	Outcome    *gamification.Outcome      `json:"outcome,omitempty"`
	Dashboard  *service.Dashboard         `json:"dashboard,omitempty"`
	Challenges []domain.Challenge         `json:"challenges,omitempty"`
	Badges     []gamification.BadgeView   `json:"badges,omitempty"`
	NewBadges  []gamification.BadgeUnlock `json:"new_badges,omitempty"`
	Trend      *compare.ComparisonSet     `json:"trend,omitempty"`

	Scenarios *compare.ComparisonSet     `json:"scenarios,omitempty"`
	Goal      *breakeven.GoalResult      `json:"goal,omitempty"`
	Levers    *breakeven.LeverComparison `json:"levers,omitempty"`
}

// NewReport creates an empty report stamped with the given time
func NewReport(title string, at time.Time) *Report {
	return &Report{Title: title, GeneratedAt: at}
}

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{},
	"csv":     CSVFormatter{},
}

var aliases = map[string]string{
	"text":   "console",
	"pretty": "console",
	"table":  "console",
}

// GetFormatterByName returns the formatter registered under name or one of its
// aliases, or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists the registered formatter names, sorted
func AvailableFormatterNames() []string {
	return sortedKeys(formatters)
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	return sortedKeys(aliases)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders the report and writes it to w
func WriteFormatted(w io.Writer, formatter Formatter, report *Report) error {
	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", formatter.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders the report into a file
func WriteFile(path string, formatter Formatter, report *Report) error {
	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", formatter.Name(), err)
	}
	return os.WriteFile(path, data, 0644)
}

// FormatCurrency formats an amount with grouping and 2 decimals
func FormatCurrency(amount decimal.Decimal) string {
	return calculation.FormatAmount(amount)
}

// FormatPercentage formats a 0-100 percentage with one decimal
func FormatPercentage(pct decimal.Decimal) string {
	return calculation.FormatPercent(pct)
}
