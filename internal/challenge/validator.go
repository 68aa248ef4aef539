package challenge

import (
	"strconv"
	"strings"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// Submission field names
const (
	FieldAmount          = "amount"
	FieldCount           = "count"
	FieldDescription     = "description"
	FieldTenure          = "tenure"
	FieldInterestRate    = "interest_rate"
	FieldMonthlyExpenses = "monthly_expenses"
	FieldTargetMonths    = "target_months"
)

// FieldsFor lists the submission fields a challenge type reads, in form order
func FieldsFor(t domain.ChallengeType) []string {
	switch t {
	case domain.ChallengeSaveMoney:
		return []string{FieldAmount}
	case domain.ChallengeTrackExpenses:
		return []string{FieldCount}
	case domain.ChallengeAvoidPurchase:
		return []string{FieldDescription}
	case domain.ChallengeCalculateEMI:
		return []string{FieldAmount, FieldInterestRate, FieldTenure}
	case domain.ChallengeEmergencyFund:
		return []string{FieldMonthlyExpenses, FieldTargetMonths}
	}
	return nil
}

// Submission is the raw form data sent with a challenge completion
type Submission map[string]string

func (s Submission) get(field string) string {
	return strings.TrimSpace(s[field])
}

// Validator checks completion submissions against the challenge catalog.
// It never awards anything.
type Validator struct {
	catalog *domain.Catalog
}

// NewValidator creates a validator over catalog
func NewValidator(catalog *domain.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate checks a submission for challengeID and returns the typed data to
// store with the completion. Failures are *domain.ValidationError.
func (v *Validator) Validate(challengeID string, sub Submission) (domain.CompletionData, error) {
	ch, ok := v.catalog.Challenge(challengeID)
	if !ok {
		return domain.CompletionData{}, domain.NewValidationError(challengeID, domain.ReasonUnknownChallenge, "",
			"Invalid challenge.")
	}

	switch ch.Type {
	case domain.ChallengeSaveMoney:
		return validateSaveMoney(ch, sub)
	case domain.ChallengeTrackExpenses:
		return validateTrackExpenses(ch, sub)
	case domain.ChallengeAvoidPurchase:
		return validateAvoidPurchase(ch, sub)
	case domain.ChallengeCalculateEMI:
		return validateLoan(ch, sub)
	case domain.ChallengeEmergencyFund:
		return validateEmergencyFund(ch, sub)
	default:
		return domain.CompletionData{}, domain.NewValidationError(ch.ID, domain.ReasonUnknownChallenge, "",
			"Unsupported challenge type "+string(ch.Type)+".")
	}
}

func validateSaveMoney(ch domain.Challenge, sub Submission) (domain.CompletionData, error) {
	amount, err := decimal.NewFromString(sub.get(FieldAmount))
	if err != nil {
		return domain.CompletionData{}, domain.NewValidationError(ch.ID, domain.ReasonBelowMinimum, FieldAmount,
			"Please enter the amount as a number, e.g. "+ch.Rules.MinAmount.StringFixed(2)+".")
	}
	if amount.LessThan(ch.Rules.MinAmount) {
		return domain.CompletionData{}, domain.NewValidationError(ch.ID, domain.ReasonBelowMinimum, FieldAmount,
			"Please enter an amount of at least "+calculation.FormatAmount(ch.Rules.MinAmount)+".")
	}
	return domain.CompletionData{Amount: &amount}, nil
}

func validateTrackExpenses(ch domain.Challenge, sub Submission) (domain.CompletionData, error) {
	count, err := strconv.Atoi(sub.get(FieldCount))
	if err != nil || count < ch.Rules.MinCount {
		return domain.CompletionData{}, domain.NewValidationError(ch.ID, domain.ReasonInsufficientCount, FieldCount,
			"Please track at least "+strconv.Itoa(ch.Rules.MinCount)+" expenses.")
	}
	return domain.CompletionData{Count: &count}, nil
}

func validateAvoidPurchase(ch domain.Challenge, sub Submission) (domain.CompletionData, error) {
	description := sub.get(FieldDescription)
	if description == "" {
		return domain.CompletionData{}, domain.NewValidationError(ch.ID, domain.ReasonMissingDescription, FieldDescription,
			"Please describe the purchase you avoided.")
	}
	return domain.CompletionData{Description: description}, nil
}

func validateLoan(ch domain.Challenge, sub Submission) (domain.CompletionData, error) {
	loanErr := func(field, msg string) error {
		return domain.NewValidationError(ch.ID, domain.ReasonInvalidLoanParameters, field, msg)
	}

	amount, err := decimal.NewFromString(sub.get(FieldAmount))
	if err != nil || !amount.IsPositive() {
		return domain.CompletionData{}, loanErr(FieldAmount, "Please enter a valid loan amount.")
	}
	tenure, err := strconv.Atoi(sub.get(FieldTenure))
	if err != nil || tenure <= 0 {
		return domain.CompletionData{}, loanErr(FieldTenure, "Please enter a valid loan tenure.")
	}
	rate := decimal.Zero
	if raw := sub.get(FieldInterestRate); raw != "" {
		rate, err = decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() {
			return domain.CompletionData{}, loanErr(FieldInterestRate, "Please enter a valid interest rate.")
		}
	}

	emi, err := calculation.ComputeEMI(amount, rate, tenure)
	if err != nil {
		return domain.CompletionData{}, loanErr("", err.Error())
	}
	return domain.CompletionData{Amount: &amount, Loan: &emi}, nil
}

func validateEmergencyFund(ch domain.Challenge, sub Submission) (domain.CompletionData, error) {
	fundErr := func(field, msg string) error {
		return domain.NewValidationError(ch.ID, domain.ReasonInvalidFundParameters, field, msg)
	}

	expenses, err := decimal.NewFromString(sub.get(FieldMonthlyExpenses))
	if err != nil || !expenses.IsPositive() {
		return domain.CompletionData{}, fundErr(FieldMonthlyExpenses, "Please enter your monthly expenses.")
	}
	months, err := strconv.Atoi(sub.get(FieldTargetMonths))
	if err != nil || months <= 0 {
		return domain.CompletionData{}, fundErr(FieldTargetMonths, "Please enter a target number of months.")
	}

	plan, err := calculation.EmergencyFundTarget(expenses, months)
	if err != nil {
		return domain.CompletionData{}, fundErr("", err.Error())
	}
	return domain.CompletionData{EmergencyFund: &plan}, nil
}
