package domain

import (
	"github.com/shopspring/decimal"
)

// Sensitivity parameter names understood by the analyzer
const (
	ParamLossRatio       = "loss_ratio"
	ParamCoPay           = "co_pay"
	ParamSumInsuredScale = "sum_insured_scale"
	ParamHeadCountScale  = "head_count_scale"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "multiplier"
	Description string          `yaml:"description" json:"description"`
}

// ParameterSensitivityAnalysis represents a complete parameter sensitivity analysis
type ParameterSensitivityAnalysis struct {
	QuoteName    string                 `json:"quoteName"`
	BasePremium  decimal.Decimal        `json:"basePremium"`
	Parameters   []SensitivityParameter `json:"parameters"`
	Results      []SensitivityResult    `json:"results"`
	Summary      SensitivitySummary     `json:"summary"`
	AnalysisType string                 `json:"analysisType"` // "single", "multi"
}

// SensitivityResult is the priced outcome for one swept value
type SensitivityResult struct {
	ParameterValues  map[string]decimal.Decimal `json:"parameterValues"`
	ScenarioName     string                     `json:"scenarioName"`
	FinalPremium     decimal.Decimal            `json:"finalPremium"`
	DiscountedBase   decimal.Decimal            `json:"discountedBase"`
	AdjustedMinimum  decimal.Decimal            `json:"adjustedMinimum"`
	FloorApplied     bool                       `json:"floorApplied"`
	PremiumChange    decimal.Decimal            `json:"premiumChange"`
	PremiumChangePct decimal.Decimal            `json:"premiumChangePct"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"mostSensitiveParameter"`
	SensitivityScores      map[string]decimal.Decimal `json:"sensitivityScores"`
	MinPremium             decimal.Decimal            `json:"minPremium"`
	MaxPremium             decimal.Decimal            `json:"maxPremium"`
	FloorHits              int                        `json:"floorHits"`
	Recommendations        []string                   `json:"recommendations"`
	RiskLevel              string                     `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// Common sensitivity parameters
var (
	LossRatioParam = SensitivityParameter{
		Name:        ParamLossRatio,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(250),
		Steps:       11,
		BaseValue:   decimal.NewFromInt(50),
		Unit:        "percent",
		Description: "Prior-year loss ratio driving loading and renewal discount",
	}

	CoPayParam = SensitivityParameter{
		Name:        ParamCoPay,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(50),
		Steps:       6,
		BaseValue:   decimal.Zero,
		Unit:        "percent",
		Description: "Insured co-payment share",
	}

	SumInsuredScaleParam = SensitivityParameter{
		Name:        ParamSumInsuredScale,
		MinValue:    decimal.NewFromFloat(0.5),
		MaxValue:    decimal.NewFromInt(2),
		Steps:       7,
		BaseValue:   decimal.NewFromInt(1),
		Unit:        "multiplier",
		Description: "Multiplier applied to every fixed sum insured and basic salary",
	}

	HeadCountScaleParam = SensitivityParameter{
		Name:        ParamHeadCountScale,
		MinValue:    decimal.NewFromFloat(0.5),
		MaxValue:    decimal.NewFromInt(3),
		Steps:       6,
		BaseValue:   decimal.NewFromInt(1),
		Unit:        "multiplier",
		Description: "Multiplier applied to every group head count",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		LossRatioParam,
		CoPayParam,
		SumInsuredScaleParam,
		HeadCountScaleParam,
	}
}

// DetermineRiskLevel maps the largest sensitivity score to a risk bucket
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	maxScore := decimal.Zero
	for _, score := range ss.SensitivityScores {
		if score.GreaterThan(maxScore) {
			maxScore = score
		}
	}

	if maxScore.LessThan(decimal.NewFromFloat(0.25)) {
		return "LOW"
	} else if maxScore.LessThan(decimal.NewFromFloat(0.75)) {
		return "MEDIUM"
	} else if maxScore.LessThan(decimal.NewFromFloat(1.5)) {
		return "HIGH"
	}
	return "CRITICAL"
}

// GenerateRecommendations produces underwriting hints from the summary
func (ss *SensitivitySummary) GenerateRecommendations() []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Premium is stable across the tested range")
	case "MEDIUM":
		recommendations = append(recommendations, "Premium moves moderately; confirm the parameter before issuing")
	case "HIGH":
		recommendations = append(recommendations, "Premium is sensitive to this parameter")
		recommendations = append(recommendations, "Verify the input with the client before quoting")
	case "CRITICAL":
		recommendations = append(recommendations, "⚠️ Premium is highly sensitive to this parameter")
		recommendations = append(recommendations, "Quote a range rather than a single figure")
	}

	if ss.FloorHits > 0 {
		recommendations = append(recommendations, "Minimum premium floor binds for part of the range; further discounts have no effect there")
	}

	switch ss.MostSensitiveParameter {
	case ParamLossRatio:
		recommendations = append(recommendations, "Request audited claims data to confirm the loss ratio")
	case ParamCoPay:
		recommendations = append(recommendations, "Offer co-payment options side by side")
	case ParamHeadCountScale:
		recommendations = append(recommendations, "Confirm the final enrolment count before binding")
	}

	return recommendations
}
