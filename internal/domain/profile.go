package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category names a monthly spending bucket of a financial profile
type Category string

const (
	CategoryHousing        Category = "Housing"
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryUtilities      Category = "Utilities"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEducation      Category = "Education"
	CategorySavings        Category = "Savings"
	CategoryOthers         Category = "Others"
	CategoryLoan           Category = "Loan"
	CategoryCreditCard     Category = "Credit Card"
)

// Categories lists every known category in declaration order.
// Ties for the highest spending category resolve to the earlier entry.
var Categories = []Category{
	CategoryHousing,
	CategoryFood,
	CategoryTransportation,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealthcare,
	CategoryEducation,
	CategorySavings,
	CategoryOthers,
	CategoryLoan,
	CategoryCreditCard,
}

// IsEssential reports whether the category counts toward essential spending
func (c Category) IsEssential() bool {
	switch c {
	case CategoryHousing, CategoryFood, CategoryTransportation, CategoryUtilities, CategoryHealthcare:
		return true
	}
	return false
}

// IsDebt reports whether the category is a debt payment
func (c Category) IsDebt() bool {
	return c == CategoryLoan || c == CategoryCreditCard
}

// Known reports whether c is spelled exactly as one of Categories
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory resolves a user supplied name ("credit_card", "Credit Card",
// "creditcard") to a known category.
func ParseCategory(name string) (Category, bool) {
	key := normalizeCategoryKey(name)
	for _, c := range Categories {
		if normalizeCategoryKey(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

func normalizeCategoryKey(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// FinancialProfile is a user's monthly income and spending per category.
// Currency is carried for display only.
type FinancialProfile struct {
	MonthlyIncome decimal.Decimal              `yaml:"monthly_income" json:"monthly_income"`
	Currency      string                       `yaml:"currency,omitempty" json:"currency,omitempty"`
	Categories    map[Category]decimal.Decimal `yaml:"categories" json:"categories"`
}

// NewFinancialProfile creates a profile with every category set to zero
func NewFinancialProfile(income decimal.Decimal) FinancialProfile {
	cats := make(map[Category]decimal.Decimal, len(Categories))
	for _, c := range Categories {
		cats[c] = decimal.Zero
	}
	return FinancialProfile{MonthlyIncome: income, Categories: cats}
}

// Amount returns the monthly amount for a category, zero when absent
func (p FinancialProfile) Amount(c Category) decimal.Decimal {
	if p.Categories == nil {
		return decimal.Zero
	}
	return p.Categories[c]
}

// Set records an amount for a category and returns the profile for chaining
func (p *FinancialProfile) Set(c Category, amount decimal.Decimal) *FinancialProfile {
	if p.Categories == nil {
		p.Categories = make(map[Category]decimal.Decimal, len(Categories))
	}
	p.Categories[c] = amount
	return p
}

// Validate enforces the non-negative amount invariant and rejects unknown categories
func (p FinancialProfile) Validate() error {
	if p.MonthlyIncome.IsNegative() {
		return fmt.Errorf("%w: monthly income cannot be negative", ErrInvalidInput)
	}
	for c, amount := range p.Categories {
		if !c.Known() {
			if canonical, ok := ParseCategory(string(c)); ok {
				return fmt.Errorf("%w: category %q must be written as %q", ErrInvalidInput, c, canonical)
			}
			return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, c)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%w: amount for %s cannot be negative", ErrInvalidInput, c)
		}
	}
	return nil
}

// Clone returns a copy that shares no map with the receiver
func (p FinancialProfile) Clone() FinancialProfile {
	out := p
	if p.Categories != nil {
		out.Categories = make(map[Category]decimal.Decimal, len(p.Categories))
		for k, v := range p.Categories {
			out.Categories[k] = v
		}
	}
	return out
}
