package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// createTestProfile has spending in every kind of category
func createTestProfile() domain.FinancialProfile {
	p := domain.NewFinancialProfile(d(50000))
	p.Set(domain.CategoryHousing, d(15000)).
		Set(domain.CategoryFood, d(8000)).
		Set(domain.CategoryEntertainment, d(4000)).
		Set(domain.CategoryShopping, d(3000)).
		Set(domain.CategorySavings, d(3000)).
		Set(domain.CategoryLoan, d(5000)).
		Set(domain.CategoryCreditCard, d(2000))
	return p
}

func assertAmount(t *testing.T, p domain.FinancialProfile, c domain.Category, want int64) {
	t.Helper()
	assert.True(t, p.Amount(c).Equal(d(want)), "Should have %s = %d, got %s", c, want, p.Amount(c))
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestProfile()

	result, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.True(t, result.MonthlyIncome.Equal(base.MonthlyIncome))

	result.Set(domain.CategoryFood, d(1))
	assertAmount(t, base, domain.CategoryFood, 8000)
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestProfile()

	result, err := ApplyTransforms(base, []ProfileTransform{
		&CutDiscretionary{Percent: d(50)},
		&AdjustIncome{Percent: d(10)},
		&ShiftSpending{From: domain.CategoryShopping, To: domain.CategorySavings, Amount: d(500)},
	})
	require.NoError(t, err)

	assert.True(t, result.MonthlyIncome.Equal(d(55000)), "Should raise income after the cut")
	assertAmount(t, result, domain.CategoryEntertainment, 2000)
	assertAmount(t, result, domain.CategoryShopping, 1000)
	assertAmount(t, result, domain.CategorySavings, 3500)
	assertAmount(t, result, domain.CategoryFood, 8000)
	assertAmount(t, result, domain.CategoryLoan, 5000)

	assertAmount(t, base, domain.CategoryEntertainment, 4000)
	assert.True(t, base.MonthlyIncome.Equal(d(50000)), "Should leave the base untouched")
}

func TestApplyTransforms_Errors(t *testing.T) {
	base := createTestProfile()

	_, err := ApplyTransforms(base, []ProfileTransform{nil})
	assert.ErrorContains(t, err, "index 0 is nil")

	_, err = ApplyTransforms(base, []ProfileTransform{
		&ShiftSpending{From: domain.CategoryShopping, To: domain.CategorySavings, Amount: d(5000)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shift validation failed")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var te *TransformError
	require.True(t, errors.As(err, &te), "Should expose the transform error")
	assert.Equal(t, "shift", te.TransformName)
	assert.Equal(t, "validate", te.Operation)
}

func TestAdjustCategory(t *testing.T) {
	base := createTestProfile()

	cut := &AdjustCategory{Category: domain.CategoryFood, Percent: d(-15)}
	assert.Equal(t, "Cut Food by 15%", cut.Description())
	out, err := ApplyTransforms(base, []ProfileTransform{cut})
	require.NoError(t, err)
	assertAmount(t, out, domain.CategoryFood, 6800)

	out, err = ApplyTransforms(base, []ProfileTransform{&AdjustCategory{Category: domain.CategoryFood, Percent: d(-100)}})
	require.NoError(t, err)
	assertAmount(t, out, domain.CategoryFood, 0)

	_, err = ApplyTransforms(base, []ProfileTransform{&AdjustCategory{Category: domain.CategoryFood, Percent: d(-101)}})
	assert.Error(t, err, "Should reject cutting more than everything")

	_, err = ApplyTransforms(base, []ProfileTransform{&AdjustCategory{Category: "food", Percent: d(5)}})
	assert.Error(t, err, "Should require a canonical category")
}

func TestSetTransforms(t *testing.T) {
	base := createTestProfile()

	out, err := ApplyTransforms(base, []ProfileTransform{
		&SetCategory{Category: domain.CategoryHealthcare, Amount: d(1200)},
		&SetIncome{Amount: d(60000)},
	})
	require.NoError(t, err)
	assertAmount(t, out, domain.CategoryHealthcare, 1200)
	assert.True(t, out.MonthlyIncome.Equal(d(60000)))

	_, err = ApplyTransforms(base, []ProfileTransform{&SetIncome{Amount: d(-1)}})
	assert.Error(t, err)
	_, err = ApplyTransforms(base, []ProfileTransform{&SetCategory{Category: domain.CategoryFood, Amount: d(-1)}})
	assert.Error(t, err)
}

func TestPayOffDebt(t *testing.T) {
	base := createTestProfile()

	out, err := ApplyTransforms(base, []ProfileTransform{&PayOffDebt{}})
	require.NoError(t, err)
	assertAmount(t, out, domain.CategoryLoan, 0)
	assertAmount(t, out, domain.CategoryCreditCard, 0)

	out, err = ApplyTransforms(base, []ProfileTransform{&PayOffDebt{Category: domain.CategoryCreditCard}})
	require.NoError(t, err)
	assertAmount(t, out, domain.CategoryLoan, 5000)
	assertAmount(t, out, domain.CategoryCreditCard, 0)

	_, err = ApplyTransforms(base, []ProfileTransform{&PayOffDebt{Category: domain.CategoryFood}})
	assert.ErrorContains(t, err, "not a debt category")
}

func TestIsDiscretionary(t *testing.T) {
	assert.True(t, IsDiscretionary(domain.CategoryEntertainment))
	assert.True(t, IsDiscretionary(domain.CategoryShopping))
	assert.False(t, IsDiscretionary(domain.CategoryHousing), "Should treat essentials as fixed")
	assert.False(t, IsDiscretionary(domain.CategoryLoan), "Should treat debt as fixed")
	assert.False(t, IsDiscretionary(domain.CategorySavings), "Should never cut savings")
}

func TestDescribe(t *testing.T) {
	got := Describe([]ProfileTransform{&AdjustIncome{Percent: d(10)}, &PayOffDebt{}})
	assert.Equal(t, "Raise income by 10%; Pay off all debt", got)
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	r := NewTransformRegistry()

	tr, err := r.ParseTransformSpec("adjust_category:category=food,percent=-15")
	require.NoError(t, err)
	adj, ok := tr.(*AdjustCategory)
	require.True(t, ok, "Should create an AdjustCategory")
	assert.Equal(t, domain.CategoryFood, adj.Category, "Should resolve the category name")
	assert.True(t, adj.Percent.Equal(d(-15)))

	tr, err = r.ParseTransformSpec("shift: from=credit_card, to=savings, amount=500")
	require.NoError(t, err)
	assert.Equal(t, "Move 500.00 from Credit Card to Savings", tr.Description())

	tr, err = r.ParseTransformSpec("pay_off_debt")
	require.NoError(t, err)
	assert.Equal(t, "Pay off all debt", tr.Description())

	tr, err = r.ParseTransformSpec("cut_discretionary:percent=20%")
	require.NoError(t, err)
	assert.Equal(t, "Cut discretionary spending by 20%", tr.Description())

	for _, bad := range []string{
		"",
		"unknown:x=1",
		"adjust_category:category=yachts,percent=1",
		"adjust_category:category=food",
		"adjust_income:percent=lots",
		"set_income:amount",
	} {
		_, err := r.ParseTransformSpec(bad)
		assert.Error(t, err, "Should reject %q", bad)
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Equal(t, []string{"adjust_category", "adjust_income", "cut_discretionary", "pay_off_debt",
		"set_category", "set_income", "shift"}, names)
}

func TestTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	assert.Contains(t, registry.List(), "debt_free")
	assert.Contains(t, registry.List(), "frugal")

	tmpl, ok := registry.Get(" Frugal ")
	require.True(t, ok, "Should look templates up case-insensitively")

	out, err := ApplyTemplate(createTestProfile(), tmpl)
	require.NoError(t, err)
	assertAmount(t, out, domain.CategoryEntertainment, 2800)
	assertAmount(t, out, domain.CategoryShopping, 2100)
	assertAmount(t, out, domain.CategoryFood, 7200)

	_, ok = registry.Get("postpone_1yr")
	assert.False(t, ok)

	help := GetTemplateHelp(registry)
	assert.Contains(t, help, "trim_fun_10")
	assert.Contains(t, help, "finquest whatif")
	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))
}

func TestParseTemplateList(t *testing.T) {
	assert.Nil(t, ParseTemplateList(""))
	assert.Equal(t, []string{"raise_5", "debt_free"}, ParseTemplateList(" raise_5, ,debt_free "))
}
