package calculation

import (
	"fmt"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis over a quote
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
	rates             *rates.Config
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer. A nil engine gets a default one.
func NewSensitivityAnalyzer(engine *CalculationEngine, cfg *rates.Config) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{
		calculationEngine: engine,
		rates:             cfg,
	}
}

// AnalyzeSingleParameter sweeps one parameter across its range
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(q *domain.Quote, parameter domain.SensitivityParameter) (*domain.ParameterSensitivityAnalysis, error) {
	base, err := sa.calculationEngine.CalculateQuote(q, sa.rates)
	if err != nil {
		return nil, fmt.Errorf("failed to price base quote: %w", err)
	}

	results, err := sa.sweep(q, parameter, base.FinalPremium)
	if err != nil {
		return nil, err
	}

	return &domain.ParameterSensitivityAnalysis{
		QuoteName:    q.Name,
		BasePremium:  base.FinalPremium,
		Parameters:   []domain.SensitivityParameter{parameter},
		Results:      results,
		Summary:      sa.calculateSensitivitySummary(results, []domain.SensitivityParameter{parameter}),
		AnalysisType: "single",
	}, nil
}

// AnalyzeMultipleParameters runs one independent sweep per parameter
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(q *domain.Quote, parameters []domain.SensitivityParameter) (*domain.ParameterSensitivityAnalysis, error) {
	base, err := sa.calculationEngine.CalculateQuote(q, sa.rates)
	if err != nil {
		return nil, fmt.Errorf("failed to price base quote: %w", err)
	}

	allResults := make([]domain.SensitivityResult, 0)
	for _, param := range parameters {
		results, err := sa.sweep(q, param, base.FinalPremium)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		allResults = append(allResults, results...)
	}

	return &domain.ParameterSensitivityAnalysis{
		QuoteName:    q.Name,
		BasePremium:  base.FinalPremium,
		Parameters:   parameters,
		Results:      allResults,
		Summary:      sa.calculateSensitivitySummary(allResults, parameters),
		AnalysisType: "multi",
	}, nil
}

func (sa *SensitivityAnalyzer) sweep(q *domain.Quote, parameter domain.SensitivityParameter, basePremium decimal.Decimal) ([]domain.SensitivityResult, error) {
	values := sa.generateParameterValues(parameter)
	results := make([]domain.SensitivityResult, 0, len(values))

	for _, value := range values {
		modified, err := sa.modifyQuoteParameter(q, parameter.Name, value)
		if err != nil {
			return nil, err
		}
		res, err := sa.calculationEngine.CalculateQuote(modified, sa.rates)
		if err != nil {
			return nil, fmt.Errorf("failed to price %s=%s: %w", parameter.Name, value.String(), err)
		}

		change := res.FinalPremium.Sub(basePremium)
		changePct := decimal.Zero
		if !basePremium.IsZero() {
			changePct = change.Div(basePremium).Mul(decimal.NewFromInt(100))
		}
		results = append(results, domain.SensitivityResult{
			ParameterValues:  map[string]decimal.Decimal{parameter.Name: value},
			ScenarioName:     fmt.Sprintf("%s_%s", parameter.Name, value.String()),
			FinalPremium:     res.FinalPremium,
			DiscountedBase:   res.BasePath.Final(),
			AdjustedMinimum:  res.MinPath.Final(),
			FloorApplied:     res.FloorApplied,
			PremiumChange:    change,
			PremiumChangePct: changePct,
		})
	}
	return results, nil
}

// generateParameterValues generates values for a parameter sweep
func (sa *SensitivityAnalyzer) generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	values := make([]decimal.Decimal, 0, param.Steps)
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// modifyQuoteParameter returns a copy of q with one parameter replaced
func (sa *SensitivityAnalyzer) modifyQuoteParameter(q *domain.Quote, paramName string, value decimal.Decimal) (*domain.Quote, error) {
	modified := q.DeepCopy()

	switch paramName {
	case domain.ParamLossRatio:
		if value.IsNegative() {
			value = decimal.Zero
		}
		modified.General.LossRatio = value
	case domain.ParamCoPay:
		modified.General.CoPay = domain.NearestCoPay(value.InexactFloat64())
	case domain.ParamSumInsuredScale:
		for i := range modified.Groups {
			modified.Groups[i].ScaleSumsInsured(value)
		}
	case domain.ParamHeadCountScale:
		for i := range modified.Groups {
			modified.Groups[i].ScaleHeadCount(value)
		}
	default:
		return nil, fmt.Errorf("unknown sensitivity parameter %q", paramName)
	}
	return modified, nil
}

// calculateSensitivitySummary scores each parameter by premium change relative to its swept range.
// A score of 1 means moving across the whole range moves the premium by 100%.
func (sa *SensitivityAnalyzer) calculateSensitivitySummary(results []domain.SensitivityResult, parameters []domain.SensitivityParameter) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{
		SensitivityScores: make(map[string]decimal.Decimal),
	}
	if len(results) == 0 {
		return summary
	}

	summary.MinPremium = results[0].FinalPremium
	summary.MaxPremium = results[0].FinalPremium
	for _, r := range results {
		if r.FinalPremium.LessThan(summary.MinPremium) {
			summary.MinPremium = r.FinalPremium
		}
		if r.FinalPremium.GreaterThan(summary.MaxPremium) {
			summary.MaxPremium = r.FinalPremium
		}
		if r.FloorApplied {
			summary.FloorHits++
		}
	}

	maxScore := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, param := range parameters {
		span := param.MaxValue.Sub(param.MinValue).Abs()
		if span.IsZero() {
			continue
		}
		score := decimal.Zero
		for _, r := range results {
			v, ok := r.ParameterValues[param.Name]
			if !ok {
				continue
			}
			paramShare := v.Sub(param.BaseValue).Abs().Div(span)
			if paramShare.IsZero() {
				continue
			}
			s := r.PremiumChangePct.Abs().Div(hundred).Div(paramShare)
			if s.GreaterThan(score) {
				score = s
			}
		}
		summary.SensitivityScores[param.Name] = score.Round(4)
		if summary.MostSensitiveParameter == "" || score.GreaterThan(maxScore) {
			maxScore = score
			summary.MostSensitiveParameter = param.Name
		}
	}

	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations()
	return summary
}
