package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadProfile_FileNotFound(t *testing.T) {
	_, err := NewInputParser().LoadProfile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadProfile_InvalidYAML(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidFile, []byte("monthly_income: [unclosed"), 0644))

	_, err := NewInputParser().LoadProfile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadProfile_Testdata(t *testing.T) {
	profile, err := NewInputParser().LoadProfile(filepath.Join("testdata", "profile.yaml"))
	require.NoError(t, err)

	assert.True(t, profile.MonthlyIncome.Equal(decimal.NewFromInt(50000)), "Should parse income")
	assert.Equal(t, "INR", profile.Currency)
	assert.Equal(t, "20000", profile.Amount(domain.CategoryHousing).String(), "Should match lowercase key")
	assert.Equal(t, "10000", profile.Amount(domain.CategoryFood).String())
	assert.Equal(t, "1500", profile.Amount(domain.CategoryCreditCard).String(), "Should match snake_case key")
	assert.True(t, profile.Amount(domain.CategoryShopping).IsZero(), "Missing categories should be zero")
	assert.Len(t, profile.Categories, len(domain.Categories), "Every category should be present")
}

func TestInputParser_ParseProfile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative income", "monthly_income: -1\n", "monthly income"},
		{"negative amount", "monthly_income: 100\ncategories:\n  food: -5\n", "Food"},
		{"unknown category", "monthly_income: 100\ncategories:\n  yachts: 5\n", "yachts"},
		{"duplicate category", "monthly_income: 100\ncategories:\n  credit_card: 5\n  Credit Card: 6\n", "both name"},
		{"non numeric amount", "monthly_income: 100\ncategories:\n  food: lots\n", "failed to parse YAML"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseProfile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInputParser_ParseProfile_ValidationUsesSentinel(t *testing.T) {
	_, err := NewInputParser().ParseProfile([]byte("monthly_income: 100\ncategories:\n  food: -5\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInputParser_ParseProfile_EmptyDocument(t *testing.T) {
	profile, err := NewInputParser().ParseProfile([]byte("{}"))
	require.NoError(t, err)
	assert.True(t, profile.MonthlyIncome.IsZero())
}

const minimalCatalog = `
challenges:
  - id: save
    title: Save
    type: save_money
    validation: {min_amount: 50}
    rewards: {coins: 5, xp: 10}
badges:
  - id: first
    title: First
    unlock: {kind: challenge_count, threshold: 1}
`

func TestInputParser_ParseCatalog(t *testing.T) {
	catalog, err := NewInputParser().ParseCatalog([]byte(minimalCatalog))
	require.NoError(t, err)

	ch, ok := catalog.Challenge("save")
	require.True(t, ok)
	assert.Equal(t, domain.ChallengeSaveMoney, ch.Type)
	assert.Equal(t, "50", ch.Rules.MinAmount.String())
	assert.Equal(t, domain.Reward{Coins: 5, XP: 10}, ch.Reward)

	b, ok := catalog.Badge("first")
	require.True(t, ok)
	assert.Equal(t, domain.CriterionChallengeCount, b.Unlock.Kind)
}

func TestInputParser_ValidateCatalog_Rejects(t *testing.T) {
	valid := func() *domain.Catalog {
		c, err := NewInputParser().ParseCatalog([]byte(minimalCatalog))
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *domain.Catalog)
		want   string
	}{
		{"no challenges", func(c *domain.Catalog) { c.Challenges = nil }, "at least one challenge"},
		{"missing id", func(c *domain.Catalog) { c.Challenges[0].ID = " " }, "id is required"},
		{"unknown type", func(c *domain.Catalog) { c.Challenges[0].Type = "juggle" }, "unknown challenge type"},
		{"negative reward", func(c *domain.Catalog) { c.Challenges[0].Reward.XP = -1 }, "rewards cannot be negative"},
		{"negative minimum", func(c *domain.Catalog) { c.Challenges[0].Rules.MinAmount = decimal.NewFromInt(-1) }, "min_amount"},
		{"duplicate challenge", func(c *domain.Catalog) { c.Challenges = append(c.Challenges, c.Challenges[0]) }, "duplicate challenge id"},
		{"duplicate badge", func(c *domain.Catalog) { c.Badges = append(c.Badges, c.Badges[0]) }, "duplicate badge id"},
		{"unknown kind", func(c *domain.Catalog) { c.Badges[0].Unlock.Kind = "vibes" }, "unknown criterion kind"},
		{"zero threshold", func(c *domain.Catalog) { c.Badges[0].Unlock.Threshold = 0 }, "positive threshold"},
		{"percent range", func(c *domain.Catalog) { c.Badges[0].Unlock.Percent = 101 }, "between 0 and 100"},
		{"quiz without quizzes", func(c *domain.Catalog) {
			c.Badges[0].Unlock = domain.Criterion{Kind: domain.CriterionQuizScore, Percent: 50}
		}, "at least one quiz"},
		{"unknown level", func(c *domain.Catalog) {
			c.Badges[0].Unlock = domain.Criterion{Kind: domain.CriterionLevel, Level: "Tycoon"}
		}, "unknown level"},
		{"run longer than history", func(c *domain.Catalog) {
			c.Badges[0].Unlock = domain.Criterion{Kind: domain.CriterionSavingsRateRun, Threshold: 7, Percent: 20}
		}, "exceeds"},
		{"snapshot count beyond history", func(c *domain.Catalog) {
			c.Badges[0].Unlock = domain.Criterion{Kind: domain.CriterionSnapshotCount, Threshold: 9}
		}, "exceeds"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := parser.ValidateCatalog(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInputParser_LoadCatalog_FileNotFound(t *testing.T) {
	_, err := NewInputParser().LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
