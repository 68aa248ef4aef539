package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of profile and catalog files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// profileFile is the on-disk shape of a profile. Category keys are matched
// loosely ("credit_card", "Credit Card").
type profileFile struct {
	MonthlyIncome decimal.Decimal            `yaml:"monthly_income"`
	Currency      string                     `yaml:"currency"`
	Categories    map[string]decimal.Decimal `yaml:"categories"`
}

// LoadProfile loads a financial profile from a YAML file
func (ip *InputParser) LoadProfile(filename string) (domain.FinancialProfile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseProfile(data)
}

// ParseProfile parses and validates a profile document. Categories left out
// of the document are zero.
func (ip *InputParser) ParseProfile(data []byte) (domain.FinancialProfile, error) {
	var raw profileFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	profile := domain.NewFinancialProfile(raw.MonthlyIncome)
	profile.Currency = strings.TrimSpace(raw.Currency)

	seen := make(map[domain.Category]string, len(raw.Categories))
	for key, amount := range raw.Categories {
		c, ok := domain.ParseCategory(key)
		if !ok {
			return domain.FinancialProfile{}, fmt.Errorf("profile validation failed: %w: unknown category %q", domain.ErrInvalidInput, key)
		}
		if prev, dup := seen[c]; dup {
			return domain.FinancialProfile{}, fmt.Errorf("profile validation failed: %w: %q and %q both name %s", domain.ErrInvalidInput, prev, key, c)
		}
		seen[c] = key
		profile.Set(c, amount)
	}

	if err := profile.Validate(); err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("profile validation failed: %w", err)
	}
	return profile, nil
}

// LoadCatalog loads a challenge and badge catalog from a YAML file
func (ip *InputParser) LoadCatalog(filename string) (*domain.Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseCatalog(data)
}

// ParseCatalog parses and validates a catalog document
func (ip *InputParser) ParseCatalog(data []byte) (*domain.Catalog, error) {
	var catalog domain.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	return &catalog, nil
}

// ValidateCatalog checks ids, types, rule parameters and rewards
func (ip *InputParser) ValidateCatalog(catalog *domain.Catalog) error {
	if len(catalog.Challenges) == 0 {
		return fmt.Errorf("at least one challenge is required")
	}

	ids := make(map[string]bool, len(catalog.Challenges))
	for i, ch := range catalog.Challenges {
		if err := ip.validateChallenge(ch); err != nil {
			return fmt.Errorf("challenge %d (%s): %w", i, ch.ID, err)
		}
		if ids[ch.ID] {
			return fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		ids[ch.ID] = true
	}

	badgeIDs := make(map[string]bool, len(catalog.Badges))
	for i, b := range catalog.Badges {
		if err := ip.validateBadge(b); err != nil {
			return fmt.Errorf("badge %d (%s): %w", i, b.ID, err)
		}
		if badgeIDs[b.ID] {
			return fmt.Errorf("duplicate badge id %q", b.ID)
		}
		badgeIDs[b.ID] = true
	}
	return nil
}

func (ip *InputParser) validateChallenge(ch domain.Challenge) error {
	if strings.TrimSpace(ch.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(ch.Title) == "" {
		return fmt.Errorf("title is required")
	}
	known := false
	for _, t := range domain.ChallengeTypes {
		if t == ch.Type {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown challenge type %q", ch.Type)
	}
	if ch.Rules.MinAmount.IsNegative() {
		return fmt.Errorf("min_amount cannot be negative")
	}
	if ch.Rules.MinCount < 0 {
		return fmt.Errorf("min_count cannot be negative")
	}
	if ch.Reward.Coins < 0 || ch.Reward.XP < 0 {
		return fmt.Errorf("rewards cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateBadge(b domain.Badge) error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}

	c := b.Unlock
	if c.Threshold < 0 {
		return fmt.Errorf("threshold cannot be negative")
	}
	if c.Percent < 0 || c.Percent > 100 {
		return fmt.Errorf("percent must be between 0 and 100")
	}

	switch c.Kind {
	case domain.CriterionChallengeCount, domain.CriterionStreak, domain.CriterionActiveDays,
		domain.CriterionSnapshotCount, domain.CriterionCorrectAnswers, domain.CriterionCoins:
		if c.Threshold == 0 {
			return fmt.Errorf("%s needs a positive threshold", c.Kind)
		}
	case domain.CriterionSavingsRateRun:
		if c.Threshold == 0 {
			return fmt.Errorf("%s needs a positive threshold", c.Kind)
		}
		if c.Threshold > domain.MaxHistory {
			return fmt.Errorf("%s threshold %d exceeds the %d kept snapshots", c.Kind, c.Threshold, domain.MaxHistory)
		}
	case domain.CriterionQuizScore:
		if len(c.Quizzes) == 0 {
			return fmt.Errorf("%s needs at least one quiz", c.Kind)
		}
	case domain.CriterionLevel:
		if _, ok := domain.ParseLevel(string(c.Level)); !ok {
			return fmt.Errorf("unknown level %q", c.Level)
		}
	default:
		return fmt.Errorf("unknown criterion kind %q", c.Kind)
	}

	if c.Kind == domain.CriterionSnapshotCount && c.Threshold > domain.MaxHistory {
		return fmt.Errorf("%s threshold %d exceeds the %d kept snapshots", c.Kind, c.Threshold, domain.MaxHistory)
	}
	return nil
}
