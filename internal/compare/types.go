package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single priced quote alternative with its key metrics
type ComparisonResult struct {
	QuoteName   string                    `json:"quoteName"`
	Description string                    `json:"description"`
	Result      *domain.CalculationResult `json:"-"`

	// Key Metrics
	FinalPremium    decimal.Decimal `json:"finalPremium"`
	DiscountedBase  decimal.Decimal `json:"discountedBase"`
	AdjustedMinimum decimal.Decimal `json:"adjustedMinimum"`
	FloorApplied    bool            `json:"floorApplied"`
	HeadCount       int             `json:"headCount"`
	PremiumPerHead  decimal.Decimal `json:"premiumPerHead"`
	Exportable      bool            `json:"exportable"`
	ErrorCount      int             `json:"errorCount"`

	// Comparison to Base
	PremiumDiffFromBase decimal.Decimal `json:"premiumDiffFromBase"`
	PremiumPctFromBase  decimal.Decimal `json:"premiumPctFromBase"`

	// Quote specifics (extracted from the quote for display)
	CoPay     domain.CoPay         `json:"coPay"`
	Duration  domain.Duration      `json:"duration"`
	LossRatio decimal.Decimal      `json:"lossRatio"`
	Renewal   domain.RenewalStatus `json:"renewal"`
	Geography domain.Geography     `json:"geography"`
	Benefits  string               `json:"benefits"`
}

// ComparisonSet represents a base quote and the alternatives priced against it
type ComparisonSet struct {
	BaseQuoteName      string             `json:"baseQuoteName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	QuotePath          string             `json:"quotePath"`
}

// MetricsCalculator extracts key metrics from calculation results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a priced quote
func (mc *MetricsCalculator) CalculateMetrics(name string, q *domain.Quote, result *domain.CalculationResult) ComparisonResult {
	cr := ComparisonResult{
		QuoteName:       name,
		Result:          result,
		FinalPremium:    result.FinalPremium,
		DiscountedBase:  result.BasePath.Final(),
		AdjustedMinimum: result.MinPath.Final(),
		FloorApplied:    result.FloorApplied,
		HeadCount:       result.TotalHeadCount,
		Exportable:      result.Exportable,
		ErrorCount:      countErrors(result),
	}

	if cr.HeadCount > 0 {
		cr.PremiumPerHead = cr.FinalPremium.Div(decimal.NewFromInt(int64(cr.HeadCount)))
	}

	if q != nil {
		cr.CoPay = q.General.CoPay
		cr.Duration = q.General.Duration
		cr.LossRatio = q.General.LossRatio
		cr.Renewal = q.General.Renewal
		cr.Geography = q.General.Geography
		cr.Benefits = selectedBenefits(q)
	}

	return cr
}

// CalculateComparison computes comparison metrics between an alternative and a base
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.PremiumDiffFromBase = alt.FinalPremium.Sub(base.FinalPremium)

	if !base.FinalPremium.IsZero() {
		alt.PremiumPctFromBase = alt.PremiumDiffFromBase.
			Div(base.FinalPremium).
			Mul(decimal.NewFromInt(100))
	}

	return alt
}

func countErrors(result *domain.CalculationResult) int {
	n := 0
	for _, m := range result.Validation {
		if m.Severity == domain.SeverityError {
			n++
		}
	}
	return n
}

// selectedBenefits lists the codes selected in any group, e.g. "A,C,E"
func selectedBenefits(q *domain.Quote) string {
	seen := map[domain.BenefitCode]bool{}
	for i := range q.Groups {
		for _, code := range domain.BenefitCodes() {
			if q.Groups[i].IsActive(code) {
				seen[code] = true
			}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	base := compSet.BaseResult

	// Cheapest exportable alternative
	cheapest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Exportable && alt.FinalPremium.LessThan(cheapest.FinalPremium) {
			cheapest = alt
		}
	}

	if cheapest != base {
		savings := base.FinalPremium.Sub(cheapest.FinalPremium)
		recommendations = append(recommendations,
			"Lowest Premium: "+cheapest.QuoteName+" saves "+savings.StringFixed(0)+
				" VND ("+cheapest.PremiumPctFromBase.Neg().StringFixed(1)+"%) against the base quote")
	}

	// Alternatives where the discounts run into the minimum premium
	var floored []string
	for _, alt := range compSet.AlternativeResults {
		if alt.FloorApplied {
			floored = append(floored, alt.QuoteName)
		}
	}
	if len(floored) > 0 {
		recommendations = append(recommendations,
			"Minimum Premium Reached: "+strings.Join(floored, ", ")+
				" are priced at the adjusted minimum, further discounts will not lower them")
	}

	// Alternatives that cannot be issued
	for _, alt := range compSet.AlternativeResults {
		if !alt.Exportable {
			recommendations = append(recommendations,
				fmt.Sprintf("Not Exportable: %s has %d blocking validation error(s)", alt.QuoteName, alt.ErrorCount))
		}
	}

	return recommendations
}
