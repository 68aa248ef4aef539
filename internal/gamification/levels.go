package gamification

import (
	"fmt"

	"github.com/rgehrsitz/finquest/internal/domain"
)

// LevelForXP derives the level from cumulative XP
func LevelForXP(xp int) domain.Level {
	level := domain.LevelTiers[0].Level
	for _, tier := range domain.LevelTiers {
		if xp >= tier.MinXP {
			level = tier.Level
		}
	}
	return level
}

// LevelProgress describes how far a user is through the current level
type LevelProgress struct {
	Level      domain.Level `json:"level"`
	Rank       int          `json:"rank"`
	XP         int          `json:"xp"`
	LowerBound int          `json:"lower_bound"`
	UpperBound int          `json:"upper_bound"` // equals LowerBound at the top tier
	XPToNext   int          `json:"xp_to_next"`
	NextLevel  domain.Level `json:"next_level,omitempty"`
	Fraction   float64      `json:"fraction"`
}

// AtTop reports whether there is no level above
func (p LevelProgress) AtTop() bool { return p.NextLevel == "" }

// ProgressFor computes level progress for xp. The fraction is clamped to
// [0,1] and is 1 at the top tier.
func ProgressFor(xp int) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	idx := 0
	for i, tier := range domain.LevelTiers {
		if xp >= tier.MinXP {
			idx = i
		}
	}
	cur := domain.LevelTiers[idx]
	p := LevelProgress{
		Level:      cur.Level,
		Rank:       idx + 1,
		XP:         xp,
		LowerBound: cur.MinXP,
		UpperBound: cur.MinXP,
		Fraction:   1,
	}
	if idx+1 < len(domain.LevelTiers) {
		next := domain.LevelTiers[idx+1]
		p.UpperBound = next.MinXP
		p.NextLevel = next.Level
		p.XPToNext = next.MinXP - xp
		p.Fraction = clampFraction(float64(xp-cur.MinXP) / float64(next.MinXP-cur.MinXP))
	}
	return p
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// AwardXP adds a non-negative amount of XP and recomputes the level
func AwardXP(state domain.GamificationState, amount int) (domain.GamificationState, error) {
	if amount < 0 {
		return state, fmt.Errorf("%w: xp award cannot be negative (%d)", domain.ErrInvalidInput, amount)
	}
	out := state.Clone()
	out.XP += amount
	out.Level = LevelForXP(out.XP)
	return out, nil
}

// AwardCoins adds a non-negative amount of coins
func AwardCoins(state domain.GamificationState, amount int) (domain.GamificationState, error) {
	if amount < 0 {
		return state, fmt.Errorf("%w: coin award cannot be negative (%d)", domain.ErrInvalidInput, amount)
	}
	out := state.Clone()
	out.Coins += amount
	return out, nil
}
