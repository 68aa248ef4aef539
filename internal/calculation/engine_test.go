package calculation

import (
	"fmt"
	"testing"
	"time"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	infos  []string
	debugs []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.debugs = append(l.debugs, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Infof(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warnf(string, ...any)  {}
func (l *recordingLogger) Errorf(string, ...any) {}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("snap-%d", n)
	}
}

func TestEngine_SetLogger(t *testing.T) {
	e := NewEngine()
	assert.IsType(t, NopLogger{}, e.Logger)

	rec := &recordingLogger{}
	e.SetLogger(rec)
	assert.Same(t, rec, e.Logger)

	e.SetLogger(nil)
	assert.IsType(t, NopLogger{}, e.Logger, "nil should restore the no-op logger")
}

func TestEngine_EvaluateAddsTips(t *testing.T) {
	e := NewEngine()
	rec := &recordingLogger{}
	e.SetLogger(rec)

	b, err := e.Evaluate(profileWith(50000, map[domain.Category]int64{
		domain.CategoryHousing: 20000,
		domain.CategoryFood:    10000,
	}), nil)

	require.NoError(t, err)
	assert.Equal(t, 52, b.Total)
	assert.Len(t, b.Tips, 3)
	require.Len(t, rec.debugs, 1)
	assert.Contains(t, rec.debugs[0], "total=52")
}

func TestEngine_EvaluateRejectsInvalidProfile(t *testing.T) {
	e := NewEngine()

	p := profileWith(1000, nil)
	p.Set(domain.CategoryFood, decimal.NewFromInt(-5))
	_, err := e.Evaluate(p, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "profile validation failed")

	_, err = e.Evaluate(profileWith(-1, nil), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_EvaluateRejectsLooseCategoryKeys(t *testing.T) {
	e := NewEngine()

	p := domain.FinancialProfile{
		MonthlyIncome: decimal.NewFromInt(10000),
		Categories:    map[domain.Category]decimal.Decimal{"credit_card": decimal.NewFromInt(5000)},
	}
	_, err := e.Evaluate(p, nil)
	require.Error(t, err, "Should not score debt it cannot see")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), `must be written as "Credit Card"`)

	p.Categories = map[domain.Category]decimal.Decimal{domain.CategoryCreditCard: decimal.NewFromInt(5000)}
	b, err := e.Evaluate(p, nil)
	require.NoError(t, err)
	assert.True(t, b.TotalSpending.Equal(decimal.NewFromInt(5000)))
	assert.Less(t, b.Total, 90, "Should count half the income going to debt")
}

func TestEngine_AnalyzeBuildsHistory(t *testing.T) {
	e := NewEngine()
	e.newID = sequentialIDs()
	at := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	profile := profileWith(10000, map[domain.Category]int64{domain.CategoryHousing: 5000})
	snap, history, err := e.Analyze(profile, nil, at)

	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)
	assert.Equal(t, at, snap.CreatedAt)
	require.Len(t, history, 1)
	assert.Equal(t, snap.ID, history[0].ID)
	assert.Equal(t, "5000", snap.Breakdown.Savings.String())

	// later edits to the caller's profile must not reach the stored snapshot
	profile.Set(domain.CategoryHousing, decimal.NewFromInt(9000))
	assert.Equal(t, "5000", history[0].Profile.Amount(domain.CategoryHousing).String())
}

func TestEngine_AnalyzeCapsHistory(t *testing.T) {
	e := NewEngine()
	e.newID = sequentialIDs()
	rec := &recordingLogger{}
	e.SetLogger(rec)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := profileWith(10000, map[domain.Category]int64{domain.CategoryFood: 2000})

	var history domain.History
	for i := 0; i < domain.MaxHistory; i++ {
		var err error
		_, history, err = e.Analyze(profile, history, at.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	require.Len(t, history, domain.MaxHistory)
	assert.Empty(t, rec.infos)

	before := append(domain.History{}, history...)
	snap, next, err := e.Analyze(profile, history, at.AddDate(0, 0, 10))
	require.NoError(t, err)

	assert.Len(t, next, domain.MaxHistory)
	assert.Equal(t, snap.ID, next[0].ID)
	assert.Equal(t, "snap-6", next[1].ID)
	assert.Equal(t, "snap-2", next[len(next)-1].ID, "oldest snapshot is evicted")
	assert.Equal(t, before, history, "input history is untouched")
	require.Len(t, rec.infos, 1)
	assert.Contains(t, rec.infos[0], "snap-1")
}

func TestEngine_AnalyzeInvalidKeepsHistory(t *testing.T) {
	e := NewEngine()
	history := historyOfSavings(100, 200)

	_, out, err := e.Analyze(profileWith(-10, nil), history, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, history, out)
}
