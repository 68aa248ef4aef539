package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/finquest/internal/breakeven"
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders a human readable report styled with lipgloss.
// Styles degrade to plain text when the output is not a color terminal.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	if report.Title != "" {
		fmt.Fprintln(&buf, titleStyle.Render(report.Title))
		fmt.Fprintln(&buf, mutedStyle.Render(strings.Repeat("=", len(report.Title))))
	}
	if report.UserID != "" {
		kv(&buf, "User", report.UserID)
	}

	if d := report.Dashboard; d != nil {
		writeDashboard(&buf, d)
	}
	if b := breakdownOf(report); b != nil {
		writeBreakdown(&buf, b)
	}
	if l := report.Loan; l != nil {
		writeLoan(&buf, l)
	}
	if len(report.Projections) > 0 {
		writeProjections(&buf, report.Projections)
	}
	if sim := report.Simulation; sim != nil {
		writeSimulation(&buf, sim)
	}
	if f := report.EmergencyFund; f != nil {
		writeEmergencyFund(&buf, f)
	}
	if o := report.Outcome; o != nil {
		writeOutcome(&buf, o)
	}
	if len(report.Challenges) > 0 {
		writeCatalog(&buf, report.Challenges)
	}
	if views := badgesOf(report); len(views) > 0 {
		writeBadges(&buf, views)
	}
	writeUnlocks(&buf, report.NewBadges)
	if t := report.Trend; t != nil {
		writeTrend(&buf, t)
	}
	if s := report.Scenarios; s != nil {
		writeScenarios(&buf, s)
	}
	if g := report.Goal; g != nil {
		writeGoal(&buf, g)
	}
	if l := report.Levers; l != nil {
		writeLevers(&buf, l)
	}

	return buf.Bytes(), nil
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(title))
}

func kv(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-24s", label+":")), value)
}

func signed(d decimal.Decimal, text string) string {
	if d.IsNegative() {
		return negativeStyle.Render(text)
	}
	return positiveStyle.Render(text)
}

// progressBar draws a fixed width text bar for a 0-1 fraction
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return "[" + positiveStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled)) + "]"
}

func writeBreakdown(w io.Writer, b *domain.ScoreBreakdown) {
	section(w, "FINANCIAL HEALTH SCORE")
	kv(w, "Score", valueStyle.Render(fmt.Sprintf("%d/100", b.Total))+" ("+string(b.Level)+")")
	if b.NextLevel != "" {
		kv(w, "Next level", fmt.Sprintf("%s in %d points", b.NextLevel, b.PointsToNextLevel))
	}
	kv(w, "Savings points", b.Components.Savings.StringFixed(1)+" / 40")
	kv(w, "Essentials points", b.Components.Essentials.StringFixed(1)+" / 30")
	kv(w, "Debt points", b.Components.Debt.StringFixed(1)+" / 20")
	kv(w, "Consistency points", b.Components.Consistency.StringFixed(1)+" / 10")

	section(w, "MONTHLY BREAKDOWN")
	kv(w, "Monthly income", FormatCurrency(b.MonthlyIncome))
	kv(w, "Total spending", FormatCurrency(b.TotalSpending))
	savings := FormatCurrency(b.Savings)
	if b.Savings.IsNegative() {
		savings += " (deficit)"
	}
	kv(w, "Savings", signed(b.Savings, savings))
	kv(w, "Savings rate", FormatPercentage(b.SavingsPercentage))
	if b.HighestAmount.IsPositive() {
		kv(w, "Highest category", fmt.Sprintf("%s (%s)", b.HighestCategory, FormatCurrency(b.HighestAmount)))
	}
	kv(w, "Essential share", FormatPercentage(b.EssentialRatio))
	kv(w, "Debt-to-income", FormatPercentage(b.DebtToIncome))
	kv(w, "Suggested savings", FormatCurrency(b.SuggestedSavings))
	if b.SavingsGap.IsPositive() {
		kv(w, "Savings gap", negativeStyle.Render(FormatCurrency(b.SavingsGap)))
	}

	if len(b.Tips) > 0 {
		section(w, "TIPS")
		for _, tip := range b.Tips {
			fmt.Fprintf(w, "  • %s\n", tip.Message)
		}
	}
}

func writeLoan(w io.Writer, l *domain.EMIResult) {
	section(w, "LOAN EMI")
	kv(w, "Principal", FormatCurrency(l.Principal))
	kv(w, "Annual rate", l.AnnualRate.String()+"%")
	kv(w, "Tenure", fmt.Sprintf("%d months", l.TenureMonths))
	kv(w, "Monthly installment", valueStyle.Render(FormatCurrency(l.EMI)))
	kv(w, "Total payment", FormatCurrency(l.TotalPayment))
	kv(w, "Total interest", FormatCurrency(l.TotalInterest))
}

func writeProjections(w io.Writer, projections []domain.SavingsProjection) {
	section(w, "SAVINGS PROJECTION")
	fmt.Fprintf(w, "  %-6s %18s %18s %18s\n", "Years", "Future value", "Contributed", "Growth")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 63))
	for _, p := range projections {
		fmt.Fprintf(w, "  %-6d %18s %18s %18s\n", p.Years,
			FormatCurrency(p.FutureValue), FormatCurrency(p.TotalContributed), FormatCurrency(p.Growth))
	}
}

func writeSimulation(w io.Writer, s *domain.SavingsSimulation) {
	section(w, "MONTE CARLO")
	kv(w, "Runs", fmt.Sprintf("%d over %d years", s.Simulations, s.Years))
	kv(w, "Return", fmt.Sprintf("%s%% +/- %s%%", s.MeanReturn, s.Volatility))
	kv(w, "Contributed", FormatCurrency(s.TotalContributed))
	for _, key := range []string{"10th", "25th", "50th", "75th", "90th"} {
		kv(w, key+" percentile", FormatCurrency(s.Percentiles[key]))
	}
	if s.Target != nil && s.ChanceOfTarget != nil {
		kv(w, "Chance of "+FormatCurrency(*s.Target), valueStyle.Render(FormatPercentage(*s.ChanceOfTarget)))
	}
}

func writeEmergencyFund(w io.Writer, f *domain.EmergencyFundPlan) {
	section(w, "EMERGENCY FUND")
	kv(w, "Monthly expenses", FormatCurrency(f.MonthlyExpenses))
	kv(w, "Months covered", fmt.Sprintf("%d", f.TargetMonths))
	kv(w, "Target", valueStyle.Render(FormatCurrency(f.Target)))
	kv(w, "Save per month (1 yr)", FormatCurrency(f.MonthlySavingToReachInOneYear))
}

func writeOutcome(w io.Writer, o *gamification.Outcome) {
	if q := o.Quiz; q != nil {
		section(w, "QUIZ RESULT")
		kv(w, "Quiz", q.QuizID)
		kv(w, "Score", fmt.Sprintf("%d/%d (%d%%)", q.Correct, q.Total, q.Percentage))
		if q.RunBonuses > 0 {
			kv(w, "Streak bonuses", fmt.Sprintf("%d", q.RunBonuses))
		}
	} else {
		section(w, "CHALLENGE COMPLETED")
		kv(w, "Challenge", o.ChallengeID)
		if l := o.Data.Loan; l != nil {
			kv(w, "Monthly installment", FormatCurrency(l.EMI))
			kv(w, "Total interest", FormatCurrency(l.TotalInterest))
		}
		if f := o.Data.EmergencyFund; f != nil {
			kv(w, "Fund target", FormatCurrency(f.Target))
			kv(w, "Save per month (1 yr)", FormatCurrency(f.MonthlySavingToReachInOneYear))
		}
	}
	kv(w, "Reward", rewardStyle.Render(fmt.Sprintf("+%d coins, +%d XP", o.Reward.Coins, o.Reward.XP)))
	kv(w, "Balance", fmt.Sprintf("%d coins, %d XP", o.State.Coins, o.State.XP))
	if o.LeveledUp {
		kv(w, "Level up", rewardStyle.Render(fmt.Sprintf("%s -> %s", o.PreviousLevel, o.State.Level)))
	}
	writeUnlocks(w, o.NewBadges)
}

func writeUnlocks(w io.Writer, unlocks []gamification.BadgeUnlock) {
	for _, u := range unlocks {
		fmt.Fprintf(w, "  %s %s\n", u.Badge.Icon, rewardStyle.Render(u.Message))
	}
}

func writeDashboard(w io.Writer, d *service.Dashboard) {
	section(w, "PROGRESS")
	kv(w, "Today", d.Today.String())
	kv(w, "Level", fmt.Sprintf("%s (rank %d)", d.Level.Level, d.Level.Rank))
	if d.Level.AtTop() {
		kv(w, "XP", fmt.Sprintf("%d %s max level", d.Level.XP, progressBar(1, 20)))
	} else {
		kv(w, "XP", fmt.Sprintf("%d %s %d to %s", d.Level.XP, progressBar(d.Level.Fraction, 20), d.Level.XPToNext, d.Level.NextLevel))
	}
	kv(w, "Coins", fmt.Sprintf("%d", d.State.Coins))
	kv(w, "Streak", fmt.Sprintf("%d days", d.State.Streak))
	kv(w, "Badges", fmt.Sprintf("%d of %d earned", earnedCount(d.Badges), len(d.Badges)))

	section(w, "TODAY'S CHALLENGES")
	fmt.Fprintf(w, "  %d of %d completed %s\n", d.Daily.Completed, d.Daily.Total, progressBar(d.Daily.Fraction, 10))
	for _, c := range d.Challenges {
		mark := mutedStyle.Render("[ ]")
		if c.Completed {
			mark = positiveStyle.Render("[x]")
		}
		fmt.Fprintf(w, "  %s %s %s\n", mark, c.Challenge.Title,
			mutedStyle.Render(fmt.Sprintf("(+%d coins, +%d XP)", c.Challenge.Reward.Coins, c.Challenge.Reward.XP)))
	}
	writeUnlocks(w, d.NewBadges)
}

func writeCatalog(w io.Writer, challenges []domain.Challenge) {
	section(w, "CHALLENGES")
	for _, c := range challenges {
		fmt.Fprintf(w, "  %s %s %s\n", valueStyle.Render(c.ID), c.Title,
			rewardStyle.Render(fmt.Sprintf("+%d coins, +%d XP", c.Reward.Coins, c.Reward.XP)))
		if c.Description != "" {
			fmt.Fprintf(w, "      %s\n", mutedStyle.Render(c.Description))
		}
	}
}

func writeBadges(w io.Writer, views []gamification.BadgeView) {
	section(w, "BADGES")
	for _, v := range views {
		if v.Earned {
			fmt.Fprintf(w, "  %s %s %s\n", positiveStyle.Render("[x]"), v.Badge.Icon, valueStyle.Render(v.Badge.Title))
		} else {
			fmt.Fprintf(w, "  %s %s %s\n", mutedStyle.Render("[ ]"), v.Badge.Icon, v.Badge.Title)
		}
		fmt.Fprintf(w, "      %s\n", mutedStyle.Render(v.Badge.Description))
	}
}

func writeTrend(w io.Writer, t *compare.ComparisonSet) {
	section(w, "SCORE HISTORY")
	fmt.Fprintf(w, "  %-12s %6s %-14s %10s %8s\n", "Date", "Score", "Level", "Savings", "Change")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 54))
	for i, r := range trendResults(t) {
		change := "base"
		if i > 0 {
			change = fmt.Sprintf("%+d", r.ScoreDiffFromBase)
		}
		fmt.Fprintf(w, "  %-12s %6d %-14s %10s %8s\n", r.CreatedAt.Format("2006-01-02"), r.Score, r.Level,
			FormatPercentage(r.SavingsPercentage), change)
	}
	for _, rec := range t.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}
}

func writeScenarios(w io.Writer, s *compare.ComparisonSet) {
	section(w, "WHAT-IF SCENARIOS")
	fmt.Fprintf(w, "  %-18s %6s %7s %14s %14s\n", "Scenario", "Score", "Change", "Savings", "vs current")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 63))
	for i, r := range trendResults(s) {
		change, diff := "", ""
		if i > 0 {
			change = fmt.Sprintf("%+d", r.ScoreDiffFromBase)
			diff = signed(r.SavingsDiffFromBase, FormatCurrency(r.SavingsDiffFromBase))
		}
		fmt.Fprintf(w, "  %-18s %6d %7s %14s %14s\n", r.Name, r.Score, change, FormatCurrency(r.Savings), diff)
	}
	for _, r := range s.AlternativeResults {
		if r.Description != "" {
			fmt.Fprintf(w, "  %s %s\n", valueStyle.Render(r.Name+":"), mutedStyle.Render(r.Description))
		}
	}
	for _, rec := range s.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}
}

func goalLabel(g *breakeven.GoalResult) string {
	switch g.Target {
	case breakeven.TargetScore:
		return fmt.Sprintf("Score of %s", g.Value.String())
	case breakeven.TargetSavingsRate:
		return fmt.Sprintf("Savings rate of %s", FormatPercentage(g.Value))
	case breakeven.TargetFutureValue:
		return fmt.Sprintf("Balance of %s", FormatCurrency(g.Value))
	}
	return fmt.Sprintf("Monthly savings of %s", FormatCurrency(g.Value))
}

func writeGoal(w io.Writer, g *breakeven.GoalResult) {
	section(w, "GOAL")
	kv(w, "Goal", goalLabel(g))
	lever := string(g.Lever)
	if g.Category != "" {
		lever += " (" + string(g.Category) + ")"
	}
	kv(w, "Lever", lever)
	if g.RequiredSavings != nil {
		kv(w, "Required savings", FormatCurrency(*g.RequiredSavings)+" per month")
	}

	switch {
	case g.AlreadyMet:
		kv(w, "Status", positiveStyle.Render("Already met"))
	case g.Reachable:
		kv(w, "Status", positiveStyle.Render("Reachable"))
		kv(w, "Change", valueStyle.Render(g.Change))
		kv(w, "Monthly change", FormatCurrency(g.MonthlyChange))
	default:
		kv(w, "Status", negativeStyle.Render("Not reachable"))
		kv(w, "Best effort", g.Change)
	}
	kv(w, "Score", fmt.Sprintf("%d -> %d (%s)", g.Before.Total, g.After.Total, g.After.Level))
	kv(w, "Savings", fmt.Sprintf("%s -> %s", FormatCurrency(g.Before.Savings), FormatCurrency(g.After.Savings)))
	kv(w, "Solver", mutedStyle.Render(fmt.Sprintf("%s (%d iterations)", g.ConvergenceInfo, g.Iterations)))
}

func writeLevers(w io.Writer, l *breakeven.LeverComparison) {
	section(w, "LEVER COMPARISON")
	fmt.Fprintf(w, "  %-16s %-9s %10s %14s %6s\n", "Lever", "Reaches", "Change", "Per month", "Score")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 59))
	for _, r := range l.Results {
		name := string(r.Lever)
		if r.Category != "" {
			name = string(r.Category)
		}
		reaches := negativeStyle.Render(fmt.Sprintf("%-9s", "no"))
		if r.Reachable {
			reaches = positiveStyle.Render(fmt.Sprintf("%-9s", "yes"))
		}
		fmt.Fprintf(w, "  %-16s %s %10s %14s %6d\n", name, reaches,
			r.Adjustment.StringFixed(2)+"%", FormatCurrency(r.MonthlyChange), r.After.Total)
	}
	for _, rec := range l.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}
}
