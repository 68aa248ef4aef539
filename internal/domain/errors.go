package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks negative, zero or malformed values where the
	// operation requires a valid amount. Callers should re-prompt.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyCompleted signals that a challenge was already completed today.
	// State is left untouched; it is a no-op signal, not a fault.
	ErrAlreadyCompleted = errors.New("challenge already completed today")

	ErrUnknownChallenge      = errors.New("unknown challenge")
	ErrBelowMinimum          = errors.New("amount below minimum")
	ErrInsufficientCount     = errors.New("insufficient count")
	ErrMissingDescription    = errors.New("missing description")
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")
	ErrInvalidFundParameters = errors.New("invalid emergency fund parameters")
)

// Reason is the machine readable cause of a challenge validation failure
type Reason string

const (
	ReasonUnknownChallenge      Reason = "unknown_challenge"
	ReasonBelowMinimum          Reason = "below_minimum"
	ReasonInsufficientCount     Reason = "insufficient_count"
	ReasonMissingDescription    Reason = "missing_description"
	ReasonInvalidLoanParameters Reason = "invalid_loan_parameters"
	ReasonInvalidFundParameters Reason = "invalid_fund_parameters"
)

var reasonSentinels = map[Reason]error{
	ReasonUnknownChallenge:      ErrUnknownChallenge,
	ReasonBelowMinimum:          ErrBelowMinimum,
	ReasonInsufficientCount:     ErrInsufficientCount,
	ReasonMissingDescription:    ErrMissingDescription,
	ReasonInvalidLoanParameters: ErrInvalidLoanParameters,
	ReasonInvalidFundParameters: ErrInvalidFundParameters,
}

// ValidationError is a structured challenge validation failure. Message is
// written for the end user; Field names the offending submission field if any.
type ValidationError struct {
	ChallengeID string `json:"challenge_id"`
	Reason      Reason `json:"reason"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
}

// NewValidationError builds a ValidationError
func NewValidationError(challengeID string, reason Reason, field, message string) *ValidationError {
	return &ValidationError{ChallengeID: challengeID, Reason: reason, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("challenge %s: %s (%s): %s", e.ChallengeID, e.Reason, e.Field, e.Message)
	}
	return fmt.Sprintf("challenge %s: %s: %s", e.ChallengeID, e.Reason, e.Message)
}

// Is lets errors.Is match the sentinel for the failure reason
func (e *ValidationError) Is(target error) bool {
	sentinel, ok := reasonSentinels[e.Reason]
	return ok && sentinel == target
}
