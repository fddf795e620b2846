package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Quote",
		"Type",
		"Co-Pay",
		"Duration",
		"Loss Ratio",
		"Renewal",
		"Benefits",
		"Head Count",
		"Discounted Base",
		"Adjusted Minimum",
		"Final Premium",
		"Floor Applied",
		"Premium per Head",
		"Premium Diff from Base",
		"Premium % Change",
		"Exportable",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, quoteType string) []string {
	return []string{
		result.QuoteName,
		quoteType,
		fmt.Sprintf("%d", result.CoPay),
		string(result.Duration),
		result.LossRatio.StringFixed(2),
		string(result.Renewal),
		result.Benefits,
		fmt.Sprintf("%d", result.HeadCount),
		result.DiscountedBase.StringFixed(0),
		result.AdjustedMinimum.StringFixed(0),
		result.FinalPremium.StringFixed(0),
		fmt.Sprintf("%t", result.FloorApplied),
		result.PremiumPerHead.StringFixed(0),
		result.PremiumDiffFromBase.StringFixed(0),
		result.PremiumPctFromBase.StringFixed(2),
		fmt.Sprintf("%t", result.Exportable),
	}
}
