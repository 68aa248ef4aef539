package domain

import "time"

// UserRecord is everything persisted for one user
type UserRecord struct {
	ID           string            `json:"id"`
	Profile      *FinancialProfile `json:"profile,omitempty"`
	History      History           `json:"history"`
	Gamification GamificationState `json:"gamification"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewUserRecord returns the record created on a user's first visit
func NewUserRecord(id string) UserRecord {
	return UserRecord{
		ID:           id,
		History:      History{},
		Gamification: NewGamificationState(),
	}
}

// Clone deep copies the record
func (u UserRecord) Clone() UserRecord {
	out := u
	if u.Profile != nil {
		p := u.Profile.Clone()
		out.Profile = &p
	}
	out.History = make(History, len(u.History))
	for i, snap := range u.History {
		snap.Profile = snap.Profile.Clone()
		snap.Breakdown.Tips = append([]Tip{}, snap.Breakdown.Tips...)
		out.History[i] = snap
	}
	out.Gamification = u.Gamification.Clone()
	return out
}
