package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, for the CLI
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ProfileTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("adjust_category", createAdjustCategory)
	registry.Register("set_category", createSetCategory)
	registry.Register("shift", createShiftSpending)
	registry.Register("cut_discretionary", createCutDiscretionary)
	registry.Register("adjust_income", createAdjustIncome)
	registry.Register("set_income", createSetIncome)
	registry.Register("pay_off_debt", createPayOffDebt)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ProfileTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"; the parameter part may
// be left out for transforms without required parameters.
// Example: "adjust_category:category=food,percent=-15"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ProfileTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			k, v, ok := strings.Cut(paramPair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func categoryParam(transform string, params map[string]string, key string) (domain.Category, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	c, ok := domain.ParseCategory(raw)
	if !ok {
		return "", fmt.Errorf("%s: unknown category %q", transform, raw)
	}
	return c, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func createAdjustCategory(params map[string]string) (ProfileTransform, error) {
	c, err := categoryParam("adjust_category", params, "category")
	if err != nil {
		return nil, err
	}
	pct, err := decimalParam("adjust_category", params, "percent")
	if err != nil {
		return nil, err
	}
	return &AdjustCategory{Category: c, Percent: pct}, nil
}

func createSetCategory(params map[string]string) (ProfileTransform, error) {
	c, err := categoryParam("set_category", params, "category")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("set_category", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetCategory{Category: c, Amount: amount}, nil
}

func createShiftSpending(params map[string]string) (ProfileTransform, error) {
	from, err := categoryParam("shift", params, "from")
	if err != nil {
		return nil, err
	}
	to, err := categoryParam("shift", params, "to")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("shift", params, "amount")
	if err != nil {
		return nil, err
	}
	return &ShiftSpending{From: from, To: to, Amount: amount}, nil
}

func createCutDiscretionary(params map[string]string) (ProfileTransform, error) {
	pct, err := decimalParam("cut_discretionary", params, "percent")
	if err != nil {
		return nil, err
	}
	return &CutDiscretionary{Percent: pct}, nil
}

func createAdjustIncome(params map[string]string) (ProfileTransform, error) {
	pct, err := decimalParam("adjust_income", params, "percent")
	if err != nil {
		return nil, err
	}
	return &AdjustIncome{Percent: pct}, nil
}

func createSetIncome(params map[string]string) (ProfileTransform, error) {
	amount, err := decimalParam("set_income", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetIncome{Amount: amount}, nil
}

func createPayOffDebt(params map[string]string) (ProfileTransform, error) {
	if _, ok := params["category"]; !ok {
		return &PayOffDebt{}, nil
	}
	c, err := categoryParam("pay_off_debt", params, "category")
	if err != nil {
		return nil, err
	}
	return &PayOffDebt{Category: c}, nil
}
