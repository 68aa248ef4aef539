// Package tuimsg holds the messages exchanged between the dashboard and its
// scenes.
package tuimsg

import (
	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/service"
)

// DashboardLoadedMsg carries a freshly loaded dashboard
type DashboardLoadedMsg struct {
	Dashboard service.Dashboard
	Err       error
}

// SubmitChallengeMsg asks the app to complete a challenge with the form values
type SubmitChallengeMsg struct {
	ChallengeID string
	Submission  challenge.Submission
}

// ChallengeCompletedMsg reports the result of a completion attempt
type ChallengeCompletedMsg struct {
	ChallengeID string
	Outcome     gamification.Outcome
	Err         error
}

// ProfileSubmittedMsg reports the result of scoring the profile file
type ProfileSubmittedMsg struct {
	Result service.ProfileResult
	Err    error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
