package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in budget scenarios
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ProfileTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// CreateBuiltInTemplates creates a registry with common budget scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Spending cuts
	registry.Register(Template{
		Name:        "trim_fun_10",
		Description: "Cut discretionary spending by 10%",
		Transforms:  []ProfileTransform{&CutDiscretionary{Percent: pct(10)}},
	})
	registry.Register(Template{
		Name:        "trim_fun_25",
		Description: "Cut discretionary spending by 25%",
		Transforms:  []ProfileTransform{&CutDiscretionary{Percent: pct(25)}},
	})
	registry.Register(Template{
		Name:        "cook_at_home",
		Description: "Cut food spending by 15%",
		Transforms:  []ProfileTransform{&AdjustCategory{Category: domain.CategoryFood, Percent: pct(-15)}},
	})
	registry.Register(Template{
		Name:        "downsize_housing",
		Description: "Cut housing costs by 20%",
		Transforms:  []ProfileTransform{&AdjustCategory{Category: domain.CategoryHousing, Percent: pct(-20)}},
	})

	// Income
	registry.Register(Template{
		Name:        "raise_5",
		Description: "Raise income by 5%",
		Transforms:  []ProfileTransform{&AdjustIncome{Percent: pct(5)}},
	})
	registry.Register(Template{
		Name:        "raise_10",
		Description: "Raise income by 10%",
		Transforms:  []ProfileTransform{&AdjustIncome{Percent: pct(10)}},
	})

	// Debt
	registry.Register(Template{
		Name:        "debt_free",
		Description: "Pay off every loan and credit card",
		Transforms:  []ProfileTransform{&PayOffDebt{}},
	})

	// Combinations
	registry.Register(Template{
		Name:        "frugal",
		Description: "Cut discretionary spending by 30% and food by 10%",
		Transforms: []ProfileTransform{
			&CutDiscretionary{Percent: pct(30)},
			&AdjustCategory{Category: domain.CategoryFood, Percent: pct(-10)},
		},
	})
	registry.Register(Template{
		Name:        "fresh_start",
		Description: "Pay off all debt and cut discretionary spending by 10%",
		Transforms: []ProfileTransform{
			&PayOffDebt{},
			&CutDiscretionary{Percent: pct(10)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base profile
func ApplyTemplate(base domain.FinancialProfile, template Template) (domain.FinancialProfile, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, name := range registry.List() {
		t := registry.templates[name]
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
	}

	sb.WriteString("\nUsage:\n")
	sb.WriteString("  finquest whatif profile.yaml --with trim_fun_10,raise_5\n")
	sb.WriteString("  finquest whatif profile.yaml --transform adjust_category:category=food,percent=-20\n")

	return sb.String()
}
