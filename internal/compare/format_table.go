package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

const tableWidth = 96

// Format generates a formatted table comparing quotes
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PREMIUM QUOTE COMPARISON\n")
	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Base Quote: %s\n", compSet.BaseQuoteName))
	if compSet.QuotePath != "" {
		sb.WriteString(fmt.Sprintf("Quote File: %s\n", compSet.QuotePath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Quote",
		numWidth, "Discounted Base",
		numWidth, "Adj. Minimum",
		numWidth, "Final Premium",
		numWidth, "Per Head"))
	sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.QuoteName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  Change:           %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Final Premium:    %s%s VND (%s%s%%)\n",
				tf.deltaSymbol(alt.PremiumDiffFromBase),
				tf.formatDecimal(alt.PremiumDiffFromBase),
				tf.deltaSymbol(alt.PremiumPctFromBase),
				alt.PremiumPctFromBase.StringFixed(1)))

			if alt.FloorApplied {
				sb.WriteString("  Minimum premium floor applies\n")
			}
			if !alt.Exportable {
				sb.WriteString(fmt.Sprintf("  Not exportable (%d error(s))\n", alt.ErrorCount))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single quote row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.QuoteName
	if isBase {
		name += " (base)"
	}

	final := tf.formatDecimal(result.FinalPremium)
	if result.FloorApplied {
		final += "*"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(result.DiscountedBase),
		numWidth, tf.formatDecimal(result.AdjustedMinimum),
		numWidth, final,
		numWidth, tf.formatDecimal(result.PremiumPerHead))
}

// formatDecimal formats a VND amount compactly (thousands, millions, billions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return d.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return d.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return d.Div(decimal.NewFromInt(1_000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns "+" for increases; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of every alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s %s | ", compSet.BaseQuoteName, tf.formatDecimal(compSet.BaseResult.FinalPremium)))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.PremiumDiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.PremiumDiffFromBase) + tf.formatDecimal(alt.PremiumDiffFromBase)
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.QuoteName, change))
	}

	return sb.String()
}
