package output

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}
	var buf bytes.Buffer

	title := analysis.QuoteName
	if title == "" {
		title = "quote"
	}
	fmt.Fprintf(&buf, "PREMIUM SENSITIVITY ANALYSIS: %s\n", title)
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Base premium: %s\n", FormatCurrency(analysis.BasePremium))
	fmt.Fprintln(&buf)

	for _, param := range analysis.Parameters {
		scf.formatParameter(&buf, param, analysis.Results)
	}

	summary := analysis.Summary
	fmt.Fprintf(&buf, "Premium range: %s to %s\n", FormatCurrency(summary.MinPremium), FormatCurrency(summary.MaxPremium))
	if summary.MostSensitiveParameter != "" {
		fmt.Fprintf(&buf, "Most sensitive parameter: %s (score %s)\n",
			summary.MostSensitiveParameter, summary.SensitivityScores[summary.MostSensitiveParameter].StringFixed(2))
	}
	if summary.FloorHits > 0 {
		fmt.Fprintf(&buf, "Minimum premium floor binds in %d of %d runs\n", summary.FloorHits, len(analysis.Results))
	}
	fmt.Fprintln(&buf)

	riskEmoji := ""
	switch summary.RiskLevel {
	case "LOW":
		riskEmoji = "✅"
	case "MEDIUM":
		riskEmoji = "⚠️"
	case "HIGH":
		riskEmoji = "🔴"
	case "CRITICAL":
		riskEmoji = "🚨"
	}
	fmt.Fprintf(&buf, "RISK LEVEL: %s %s\n", riskEmoji, summary.RiskLevel)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RECOMMENDATIONS:")
	for _, rec := range summary.Recommendations {
		fmt.Fprintf(&buf, "  • %s\n", rec)
	}
	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatParameter(buf *bytes.Buffer, param domain.SensitivityParameter, results []domain.SensitivityResult) {
	fmt.Fprintf(buf, "%s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintf(buf, "Base: %s   Range: %s to %s (%d steps)\n",
		formatParamValue(param, param.BaseValue), formatParamValue(param, param.MinValue), formatParamValue(param, param.MaxValue), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintf(buf, "%-16s %20s %20s %10s %6s\n", "VALUE", "PREMIUM", "CHANGE", "CHANGE %", "FLOOR")
	fmt.Fprintln(buf, strings.Repeat("-", 76))
	for _, r := range results {
		v, ok := r.ParameterValues[param.Name]
		if !ok {
			continue
		}
		label := formatParamValue(param, v)
		if v.Equal(param.BaseValue) {
			label += " ← BASE"
		}
		floor := ""
		if r.FloorApplied {
			floor = "yes"
		}
		fmt.Fprintf(buf, "%-16s %20s %20s %9s%% %6s\n",
			label, FormatCurrency(r.FinalPremium), FormatCurrency(r.PremiumChange), r.PremiumChangePct.StringFixed(1), floor)
	}
	fmt.Fprintln(buf)
}

func formatParamValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	switch param.Unit {
	case "percent":
		return v.StringFixed(1) + "%"
	case "multiplier":
		return "×" + v.StringFixed(2)
	}
	return v.String()
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "parameter_name,parameter_value,final_premium,discounted_base,adjusted_minimum,floor_applied,premium_change,premium_change_pct\n")
	for _, param := range analysis.Parameters {
		for _, r := range analysis.Results {
			v, ok := r.ParameterValues[param.Name]
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "%s,%s,%s,%s,%s,%t,%s,%s\n",
				param.Name,
				v.String(),
				r.FinalPremium.String(),
				r.DiscountedBase.String(),
				r.AdjustedMinimum.String(),
				r.FloorApplied,
				r.PremiumChange.String(),
				r.PremiumChangePct.StringFixed(4))
		}
	}
	return buf.String(), nil
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to format")
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "console", "console-lite":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}
