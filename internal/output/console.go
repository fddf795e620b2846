package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/domain"
)

// ConsoleFormatter prints a one-screen summary of the quote
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PREMIUM QUOTE SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	writeHeader(&buf, result)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-24s %6s %4s %20s\n", "GROUP", "HEADS", "AGE", "FINAL FEE")
	fmt.Fprintln(&buf, strings.Repeat("-", 60))
	for _, g := range result.Groups {
		age := fmt.Sprintf("%d", g.Age)
		if !g.Eligible {
			age = "n/a"
		}
		fmt.Fprintf(&buf, "%-24s %6d %4s %20s\n", truncate(g.Name, 24), g.HeadCount, age, FormatCurrency(g.FinalFee))
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 60))
	fmt.Fprintf(&buf, "%-24s %6d %4s %20s\n", "TOTAL", result.TotalHeadCount, "", FormatCurrency(result.FinalPremium))
	if result.FloorApplied {
		fmt.Fprintln(&buf, "Minimum premium floor applied")
	}

	writeMessages(&buf, result.Validation)
	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter prints every priced line and each step of the adjustment pipeline
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED PREMIUM CALCULATION")
	fmt.Fprintln(&buf, "=================================================================================")
	writeHeader(&buf, result)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, g := range result.Groups {
		fmt.Fprintf(&buf, "GROUP %d: %s (%d insured, age %d)\n", i+1, g.Name, g.HeadCount, g.Age)
		fmt.Fprintln(&buf, strings.Repeat("=", 81))
		if !g.Eligible {
			fmt.Fprintln(&buf, "  Not eligible; contributes no premium")
			fmt.Fprintln(&buf)
			continue
		}
		fmt.Fprintf(&buf, "  %-4s %-6s %-18s %16s %10s %18s %18s\n", "CODE", "ITEM", "RATE KEY", "SUM INSURED", "RATE", "DISCOUNTED", "FINAL")
		fmt.Fprintln(&buf, "  "+strings.Repeat("-", 95))
		for _, l := range g.Lines {
			rate := FormatRate(l.BaseRate)
			if !l.Applicable {
				rate = "n/a"
			}
			final := FormatCurrency(l.FinalFee)
			if l.FloorApplied {
				final += "*"
			}
			fmt.Fprintf(&buf, "  %-4s %-6s %-18s %16s %10s %18s %18s\n",
				l.Code, l.Item, l.RateKey, groupThousands(l.SumInsured.Round(0).String()), rate,
				FormatCurrency(l.DiscountedFee), final)
		}
		fmt.Fprintf(&buf, "  Raw base fee:    %s\n", FormatCurrency(g.BaseFee))
		fmt.Fprintf(&buf, "  Raw minimum fee: %s\n", FormatCurrency(g.MinFee))
		fmt.Fprintf(&buf, "  Group premium:   %s\n", FormatCurrency(g.FinalFee))
		fmt.Fprintln(&buf)
	}

	writePipeline(&buf, result)
	writeMessages(&buf, result.Validation)
	return buf.Bytes(), nil
}

func writeHeader(w io.Writer, r *domain.CalculationResult) {
	fmt.Fprintf(w, "Quote ID:   %s\n", r.QuoteID)
	if !r.CalculatedAt.IsZero() {
		fmt.Fprintf(w, "As of:      %s\n", r.CalculatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Contract:   %s, %s, %s\n", r.General.ContractType, r.General.Geography, r.General.Duration)
	fmt.Fprintf(w, "Co-pay:     %d%%   Loss ratio: %s   Renewal: %s\n", r.General.CoPay, FormatPercentage(r.General.LossRatio), r.General.Renewal)
	fmt.Fprintf(w, "Insured:    %d in %d group(s)\n", r.TotalHeadCount, len(r.Groups))
	fmt.Fprintf(w, "Final Premium: %s\n", FormatCurrency(r.FinalPremium))
}

func writePipeline(w io.Writer, r *domain.CalculationResult) {
	fmt.Fprintln(w, "ADJUSTMENT PIPELINE")
	fmt.Fprintln(w, strings.Repeat("=", 81))
	fmt.Fprintf(w, "%-22s %10s %22s %22s\n", "STEP", "FACTOR", "BASE", "MINIMUM")
	fmt.Fprintln(w, strings.Repeat("-", 81))
	f := r.Factors
	steps := []struct {
		name      string
		factor    string
		base, min string
	}{
		{"Raw premium", "", FormatCurrency(r.BasePath.Raw), FormatCurrency(r.MinPath.Raw)},
		{"Duration", FormatFactor(f.Duration), FormatCurrency(r.BasePath.AfterDuration), FormatCurrency(r.MinPath.AfterDuration)},
		{"Co-pay", FormatFactor(f.CoPay), FormatCurrency(r.BasePath.AfterCoPay), FormatCurrency(r.MinPath.AfterCoPay)},
		{"Group size", FormatFactor(f.GroupSize), FormatCurrency(r.BasePath.AfterGroupSize), FormatCurrency(r.MinPath.AfterGroupSize)},
		{"Loss ratio loading", FormatFactor(f.LossRatioIncrease), FormatCurrency(r.BasePath.AfterLossLoading), FormatCurrency(r.MinPath.AfterLossLoading)},
		{"Loss ratio discount", FormatFactor(f.LossRatioDecrease), FormatCurrency(r.BasePath.AfterLossRatio), FormatCurrency(r.MinPath.AfterLossRatio)},
	}
	for _, s := range steps {
		fmt.Fprintf(w, "%-22s %10s %22s %22s\n", s.name, s.factor, s.base, s.min)
	}
	fmt.Fprintln(w, strings.Repeat("-", 81))
	fmt.Fprintf(w, "FINAL PREMIUM: %s", FormatCurrency(r.FinalPremium))
	if r.FloorApplied {
		fmt.Fprint(w, " (minimum premium floor applied)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

func writeMessages(w io.Writer, msgs []domain.ValidationMessage) {
	if len(msgs) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "VALIDATION:")
	for _, m := range msgs {
		scope := ""
		if m.GroupID != "" {
			scope = " [" + m.GroupID + "]"
		}
		fmt.Fprintf(w, "  %-7s %s%s: %s\n", strings.ToUpper(string(m.Severity)), m.Code, scope, m.Message)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
