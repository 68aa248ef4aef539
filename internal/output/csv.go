package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/finquest/internal/breakeven"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/shopspring/decimal"
)

// CSVFormatter flattens the report into Section,Field,Value rows. Amounts are
// written as plain 2 place decimals so spreadsheets can parse them.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

type csvRows struct {
	rows [][]string
}

func (r *csvRows) add(section, field, value string) {
	r.rows = append(r.rows, []string{section, field, value})
}

func (r *csvRows) money(section, field string, d decimal.Decimal) {
	r.add(section, field, d.StringFixed(2))
}

func (r *csvRows) count(section, field string, n int) {
	r.add(section, field, strconv.Itoa(n))
}

func (CSVFormatter) Format(report *Report) ([]byte, error) {
	rows := &csvRows{}
	rows.add("Section", "Field", "Value")

	if report.Snapshot != nil {
		rows.add("snapshot", "id", report.Snapshot.ID)
		rows.add("snapshot", "created_at", report.Snapshot.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	if b := breakdownOf(report); b != nil {
		writeBreakdownRows(rows, b)
	}
	if l := report.Loan; l != nil {
		rows.money("loan", "principal", l.Principal)
		rows.add("loan", "annual_rate", l.AnnualRate.String())
		rows.count("loan", "tenure_months", l.TenureMonths)
		rows.money("loan", "emi", l.EMI)
		rows.money("loan", "total_payment", l.TotalPayment)
		rows.money("loan", "total_interest", l.TotalInterest)
	}
	for _, p := range report.Projections {
		section := "projection_" + strconv.Itoa(p.Years) + "y"
		rows.money(section, "future_value", p.FutureValue)
		rows.money(section, "total_contributed", p.TotalContributed)
		rows.money(section, "growth", p.Growth)
	}
	if sim := report.Simulation; sim != nil {
		rows.count("simulation", "runs", sim.Simulations)
		rows.count("simulation", "years", sim.Years)
		for _, key := range []string{"10th", "25th", "50th", "75th", "90th"} {
			rows.money("simulation", "p"+key[:2], sim.Percentiles[key])
		}
		if sim.ChanceOfTarget != nil {
			rows.add("simulation", "chance_of_target", sim.ChanceOfTarget.StringFixed(1))
		}
	}
	if f := report.EmergencyFund; f != nil {
		rows.money("emergency_fund", "monthly_expenses", f.MonthlyExpenses)
		rows.count("emergency_fund", "target_months", f.TargetMonths)
		rows.money("emergency_fund", "target", f.Target)
		rows.money("emergency_fund", "monthly_saving_one_year", f.MonthlySavingToReachInOneYear)
	}
	if o := report.Outcome; o != nil {
		writeOutcomeRows(rows, o)
	}
	if d := report.Dashboard; d != nil {
		writeStateRows(rows, d.State)
		rows.count("level", "xp_to_next", d.Level.XPToNext)
		rows.add("level", "next_level", string(d.Level.NextLevel))
		rows.count("daily", "completed", d.Daily.Completed)
		rows.count("daily", "total", d.Daily.Total)
		for _, c := range d.Challenges {
			rows.add("challenge", c.Challenge.ID, strconv.FormatBool(c.Completed))
		}
	}
	for _, c := range report.Challenges {
		rows.add("catalog", c.ID, c.Title)
	}
	for _, b := range badgesOf(report) {
		rows.add("badge", b.Badge.ID, strconv.FormatBool(b.Earned))
	}
	for _, u := range report.NewBadges {
		rows.add("new_badge", u.Badge.ID, u.Message)
	}
	if t := report.Trend; t != nil {
		for _, r := range trendResults(t) {
			section := "trend_" + r.CreatedAt.Format("2006-01-02")
			rows.count(section, "score", r.Score)
			rows.add(section, "savings_percentage", r.SavingsPercentage.StringFixed(2))
			rows.count(section, "score_diff", r.ScoreDiffFromBase)
		}
	}
	if s := report.Scenarios; s != nil {
		for _, r := range trendResults(s) {
			section := "scenario_" + r.Name
			rows.count(section, "score", r.Score)
			rows.money(section, "savings", r.Savings)
			rows.money(section, "savings_diff", r.SavingsDiffFromBase)
			rows.count(section, "score_diff", r.ScoreDiffFromBase)
		}
	}
	if g := report.Goal; g != nil {
		writeGoalRows(rows, "goal", g)
	}
	if l := report.Levers; l != nil {
		for i := range l.Results {
			r := &l.Results[i]
			name := string(r.Lever)
			if r.Category != "" {
				name = string(r.Category)
			}
			writeGoalRows(rows, "lever_"+name, r)
		}
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(rows.rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBreakdownRows(rows *csvRows, b *domain.ScoreBreakdown) {
	rows.count("score", "total", b.Total)
	rows.add("score", "level", string(b.Level))
	rows.add("score", "next_level", string(b.NextLevel))
	rows.count("score", "points_to_next_level", b.PointsToNextLevel)
	rows.add("score", "savings_points", b.Components.Savings.StringFixed(2))
	rows.add("score", "essentials_points", b.Components.Essentials.StringFixed(2))
	rows.add("score", "debt_points", b.Components.Debt.StringFixed(2))
	rows.add("score", "consistency_points", b.Components.Consistency.StringFixed(2))
	rows.money("analysis", "monthly_income", b.MonthlyIncome)
	rows.money("analysis", "total_spending", b.TotalSpending)
	rows.money("analysis", "savings", b.Savings)
	rows.add("analysis", "savings_percentage", b.SavingsPercentage.StringFixed(2))
	rows.add("analysis", "highest_category", string(b.HighestCategory))
	rows.money("analysis", "highest_amount", b.HighestAmount)
	rows.add("analysis", "essential_ratio", b.EssentialRatio.StringFixed(2))
	rows.add("analysis", "debt_to_income", b.DebtToIncome.StringFixed(2))
	rows.money("analysis", "suggested_savings", b.SuggestedSavings)
	rows.money("analysis", "savings_gap", b.SavingsGap)
	for _, tip := range b.Tips {
		rows.add("tip", string(tip.Rule), tip.Message)
	}
}

func writeOutcomeRows(rows *csvRows, o *gamification.Outcome) {
	if o.ChallengeID != "" {
		rows.add("outcome", "challenge_id", o.ChallengeID)
	}
	if q := o.Quiz; q != nil {
		rows.add("quiz", "quiz_id", q.QuizID)
		rows.count("quiz", "correct", q.Correct)
		rows.count("quiz", "total", q.Total)
		rows.count("quiz", "percentage", q.Percentage)
	}
	rows.count("outcome", "coins_awarded", o.Reward.Coins)
	rows.count("outcome", "xp_awarded", o.Reward.XP)
	rows.add("outcome", "leveled_up", strconv.FormatBool(o.LeveledUp))
	for _, u := range o.NewBadges {
		rows.add("new_badge", u.Badge.ID, u.Message)
	}
	writeStateRows(rows, o.State)
}

func writeStateRows(rows *csvRows, s domain.GamificationState) {
	rows.count("state", "coins", s.Coins)
	rows.count("state", "xp", s.XP)
	rows.add("state", "level", string(s.Level))
	rows.count("state", "streak", s.Streak)
	rows.count("state", "badges", len(s.Badges))
}

func writeGoalRows(rows *csvRows, section string, g *breakeven.GoalResult) {
	rows.add(section, "target", string(g.Target))
	rows.add(section, "value", g.Value.String())
	rows.add(section, "reachable", strconv.FormatBool(g.Reachable))
	rows.add(section, "adjustment", g.Adjustment.StringFixed(2))
	rows.money(section, "monthly_change", g.MonthlyChange)
	if g.RequiredSavings != nil {
		rows.money(section, "required_savings", *g.RequiredSavings)
	}
	rows.count(section, "score_before", g.Before.Total)
	rows.count(section, "score_after", g.After.Total)
}
