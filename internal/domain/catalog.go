package domain

import "github.com/shopspring/decimal"

// ChallengeType selects the validation rule applied to a completion
type ChallengeType string

const (
	ChallengeSaveMoney     ChallengeType = "save_money"
	ChallengeTrackExpenses ChallengeType = "track_expenses"
	ChallengeAvoidPurchase ChallengeType = "avoid_purchase"
	ChallengeCalculateEMI  ChallengeType = "calculate_emi"
	ChallengeEmergencyFund ChallengeType = "emergency_fund"
)

// ChallengeTypes lists the supported challenge types
var ChallengeTypes = []ChallengeType{
	ChallengeSaveMoney,
	ChallengeTrackExpenses,
	ChallengeAvoidPurchase,
	ChallengeCalculateEMI,
	ChallengeEmergencyFund,
}

// Reward is granted once per successful completion
type Reward struct {
	Coins int `yaml:"coins" json:"coins"`
	XP    int `yaml:"xp" json:"xp"`
}

// ChallengeRules are the catalog parameters of a challenge's validation rule
type ChallengeRules struct {
	MinAmount decimal.Decimal `yaml:"min_amount,omitempty" json:"min_amount,omitempty"`
	MinCount  int             `yaml:"min_count,omitempty" json:"min_count,omitempty"`
}

// Challenge is a static daily challenge definition
type Challenge struct {
	ID          string         `yaml:"id" json:"id"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Type        ChallengeType  `yaml:"type" json:"type"`
	Rules       ChallengeRules `yaml:"validation" json:"validation"`
	Reward      Reward         `yaml:"rewards" json:"rewards"`
}

// CriterionKind tags the badge unlock predicate interpreted by the badge evaluator
type CriterionKind string

const (
	CriterionChallengeCount CriterionKind = "challenge_count"
	CriterionStreak         CriterionKind = "streak"
	CriterionActiveDays     CriterionKind = "active_days"
	CriterionSnapshotCount  CriterionKind = "snapshot_count"
	CriterionSavingsRateRun CriterionKind = "savings_rate_run"
	CriterionQuizScore      CriterionKind = "quiz_score"
	CriterionCorrectAnswers CriterionKind = "correct_answers"
	CriterionLevel          CriterionKind = "level"
	CriterionCoins          CriterionKind = "coins"
)

// CriterionKinds lists the supported criterion kinds
var CriterionKinds = []CriterionKind{
	CriterionChallengeCount,
	CriterionStreak,
	CriterionActiveDays,
	CriterionSnapshotCount,
	CriterionSavingsRateRun,
	CriterionQuizScore,
	CriterionCorrectAnswers,
	CriterionLevel,
	CriterionCoins,
}

// Criterion is a declarative badge unlock rule.
//
//	challenge_count, streak, active_days, snapshot_count, correct_answers, coins: Threshold
//	savings_rate_run: Threshold snapshots, each with savings percentage >= Percent
//	quiz_score: latest score of every quiz in Quizzes >= Percent
//	level: XP level rank >= rank of Level
type Criterion struct {
	Kind      CriterionKind `yaml:"kind" json:"kind"`
	Threshold int           `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Percent   int           `yaml:"percent,omitempty" json:"percent,omitempty"`
	Quizzes   []string      `yaml:"quizzes,omitempty" json:"quizzes,omitempty"`
	Level     Level         `yaml:"level,omitempty" json:"level,omitempty"`
}

// Badge is a static achievement definition
type Badge struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Icon        string    `yaml:"icon,omitempty" json:"icon,omitempty"`
	Unlock      Criterion `yaml:"unlock" json:"unlock"`
}

// Catalog is the immutable challenge and badge configuration
type Catalog struct {
	Challenges []Challenge `yaml:"challenges" json:"challenges"`
	Badges     []Badge     `yaml:"badges" json:"badges"`
}

// Challenge looks up a challenge by id
func (c *Catalog) Challenge(id string) (Challenge, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}
	return Challenge{}, false
}

// Badge looks up a badge by id
func (c *Catalog) Badge(id string) (Badge, bool) {
	for _, b := range c.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
