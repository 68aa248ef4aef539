package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/finquest/internal/domain"
)

// ProfileTransform is one "what if" edit of a financial profile. Transforms
// compose: each one receives the output of the previous.
type ProfileTransform interface {
	// Apply returns a modified copy; base is never changed.
	Apply(base domain.FinancialProfile) (domain.FinancialProfile, error)

	// Name returns a short identifier such as "adjust_category"
	Name() string

	Description() string

	// Validate checks the parameters against base without applying.
	Validate(base domain.FinancialProfile) error
}

// ApplyTransforms applies transforms in order and validates the result.
// With no transforms it returns a copy of base.
func ApplyTransforms(base domain.FinancialProfile, transforms []ProfileTransform) (domain.FinancialProfile, error) {
	current := base.Clone()

	for i, transform := range transforms {
		if transform == nil {
			return domain.FinancialProfile{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.FinancialProfile{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.FinancialProfile{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	if err := current.Validate(); err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("transformed profile is invalid: %w", err)
	}
	return current, nil
}

// Describe joins the descriptions of transforms
func Describe(transforms []ProfileTransform) string {
	parts := make([]string, 0, len(transforms))
	for _, t := range transforms {
		parts = append(parts, t.Description())
	}
	return strings.Join(parts, "; ")
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError. Errors without a cause wrap
// domain.ErrInvalidInput.
func NewTransformError(transformName, operation, reason string, err error) error {
	if err == nil {
		err = domain.ErrInvalidInput
	}
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
