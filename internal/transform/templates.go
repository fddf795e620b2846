package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in quote alternatives
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Category    string
	Transforms  []QuoteTransform
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
	t, ok := tr.templates[strings.ToLower(name)]
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

const (
	categoryCoPay    = "Co-payment"
	categoryDuration = "Duration"
	categoryCover    = "Cover"
	categoryRenewal  = "Renewal and Loss Ratio"
	categoryCombined = "Combination Strategies"
)

// CreateBuiltInTemplates creates a template registry with common quote alternatives
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, level := range []domain.CoPay{10, 20, 30} {
		registry.Register(Template{
			Name:        fmt.Sprintf("copay_%d", level),
			Description: fmt.Sprintf("Insured pays %d%% of each claim", level),
			Category:    categoryCoPay,
			Transforms:  []QuoteTransform{&SetCoPay{Level: level}},
		})
	}

	registry.Register(Template{
		Name:        "short_term_6m",
		Description: "Cover for six months instead of a full year",
		Category:    categoryDuration,
		Transforms:  []QuoteTransform{&SetDuration{Duration: domain.DurationUpTo6Months}},
	})

	registry.Register(Template{
		Name:        "full_year",
		Description: "Cover for more than nine months",
		Category:    categoryDuration,
		Transforms:  []QuoteTransform{&SetDuration{Duration: domain.DurationOver9Months}},
	})

	registry.Register(Template{
		Name:        "no_outpatient",
		Description: "Drop outpatient and dental cover",
		Category:    categoryCover,
		Transforms: []QuoteTransform{
			&ToggleBenefit{Benefit: domain.BenefitE, Enabled: false},
			&ToggleBenefit{Benefit: domain.BenefitF, Enabled: false},
		},
	})

	registry.Register(Template{
		Name:        "no_maternity",
		Description: "Drop maternity cover",
		Category:    categoryCover,
		Transforms:  []QuoteTransform{&ToggleBenefit{Benefit: domain.BenefitD, Enabled: false}},
	})

	registry.Register(Template{
		Name:        "asia_cover",
		Description: "Extend the policy territory to Asia",
		Category:    categoryCover,
		Transforms:  []QuoteTransform{&SetGeography{Geography: domain.GeographyAsia}},
	})

	registry.Register(Template{
		Name:        "continuous_renewal",
		Description: "Renew without a gap so the loss-ratio discount can apply",
		Category:    categoryRenewal,
		Transforms:  []QuoteTransform{&SetRenewal{Status: domain.RenewalContinuous}},
	})

	registry.Register(Template{
		Name:        "high_claims",
		Description: "Stress test at a 120% loss ratio",
		Category:    categoryRenewal,
		Transforms:  []QuoteTransform{&SetLossRatio{LossRatio: decimal.NewFromInt(120)}},
	})

	registry.Register(Template{
		Name:        "budget",
		Description: "Budget option: 30% co-pay without outpatient or dental cover",
		Category:    categoryCombined,
		Transforms: []QuoteTransform{
			&SetCoPay{Level: 30},
			&ToggleBenefit{Benefit: domain.BenefitE, Enabled: false},
			&ToggleBenefit{Benefit: domain.BenefitF, Enabled: false},
		},
	})

	registry.Register(Template{
		Name:        "growth_50pct",
		Description: "Workforce grows by half at renewal",
		Category:    categoryCombined,
		Transforms:  []QuoteTransform{&ScaleHeadCount{Factor: decimal.NewFromFloat(1.5)}},
	})

	return registry
}

// ApplyTemplate applies a template to a base quote
func ApplyTemplate(base *domain.Quote, template Template) (*domain.Quote, error) {
	if len(template.Transforms) == 0 {
		if base == nil {
			return nil, fmt.Errorf("base quote cannot be nil")
		}
		return base.DeepCopy(), nil
	}
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

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = categoryCombined
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range []string{categoryCoPay, categoryDuration, categoryCover, categoryRenewal, categoryCombined} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  hiquote compare quote.yaml --with copay_20,no_outpatient\n")
	sb.WriteString("  hiquote compare quote.yaml --with budget --transform set_loss_ratio:ratio=90\n")

	return sb.String()
}
