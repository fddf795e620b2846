package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/rgehrsitz/hiquote/internal/transform"
)

// CompareEngine orchestrates quote comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine with the built-in templates
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates  []string // Template names, each priced as its own alternative
	Transforms []string // Transform specs, applied together as one "custom" alternative
	QuotePath  string   // Shown in report headers
}

// Compare prices the base quote and every requested alternative with the same rate configuration
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base *domain.Quote,
	cfg *rates.Config,
	options CompareOptions,
) (*ComparisonSet, error) {
	if base == nil {
		return nil, fmt.Errorf("base quote cannot be nil")
	}

	baseResult, err := ce.price(base.Name, base, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base quote: %w", err)
	}

	alternatives := []ComparisonResult{}

	for _, templateName := range options.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = alternativeName(base.Name, template.Name)

		altResult, err := ce.price(modified.Name, modified, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate alternative %s: %w", templateName, err)
		}
		altResult.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	if len(options.Transforms) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		transforms := make([]transform.QuoteTransform, 0, len(options.Transforms))
		descriptions := make([]string, 0, len(options.Transforms))
		for _, spec := range options.Transforms {
			tr, err := ce.TransformRegistry.ParseTransformSpec(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
			}
			transforms = append(transforms, tr)
			descriptions = append(descriptions, tr.Description())
		}

		modified, err := transform.ApplyTransforms(base, transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply transforms: %w", err)
		}
		modified.Name = alternativeName(base.Name, "custom")

		altResult, err := ce.price(modified.Name, modified, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate custom alternative: %w", err)
		}
		altResult.Description = strings.Join(descriptions, "; ")
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseQuoteName:      baseResult.QuoteName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		QuotePath:          options.QuotePath,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareQuotes compares explicit quotes (not using templates) against a base
func (ce *CompareEngine) CompareQuotes(
	ctx context.Context,
	base *domain.Quote,
	alternatives []*domain.Quote,
	cfg *rates.Config,
) (*ComparisonSet, error) {
	if base == nil {
		return nil, fmt.Errorf("base quote cannot be nil")
	}

	baseResult, err := ce.price(base.Name, base, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base quote: %w", err)
	}

	results := []ComparisonResult{}
	for i, alt := range alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if alt == nil {
			return nil, fmt.Errorf("alternative quote at index %d is nil", i)
		}

		name := alt.Name
		if name == "" {
			name = fmt.Sprintf("alternative_%d", i+1)
		}

		altResult, err := ce.price(name, alt, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate quote %s: %w", name, err)
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseQuoteName:      baseResult.QuoteName,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) price(name string, q *domain.Quote, cfg *rates.Config) (ComparisonResult, error) {
	result, err := ce.CalcEngine.CalculateQuote(q, cfg)
	if err != nil {
		return ComparisonResult{}, err
	}
	if name == "" {
		name = "base"
	}
	return ce.MetricsCalculator.CalculateMetrics(name, q, result), nil
}

func alternativeName(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + "_" + suffix
}
