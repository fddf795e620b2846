package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// GenerateReport renders result with the named formatter into w
func GenerateReport(w io.Writer, result *domain.CalculationResult, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted renders result into dir as premium_quote_<date>_<id>.<ext> and returns the path
func WriteFormatted(f Formatter, result *domain.CalculationResult, dir, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("premium_quote_%s.%s", reportStamp(result), ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// FormatCurrency rounds to whole dong and groups thousands, e.g. "16,174,080 VND"
func FormatCurrency(amount decimal.Decimal) string {
	return groupThousands(amount.Round(0).String()) + " VND"
}

// FormatPercentage formats a value that is already in percent
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats a fraction of sum insured as a percentage
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(4) + "%"
}

// FormatFactor formats a pipeline multiplier
func FormatFactor(f decimal.Decimal) string {
	return f.StringFixed(4)
}

func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// reportStamp names a report by its as-of date and quote id prefix; results without an
// id fall back to the wall clock
func reportStamp(result *domain.CalculationResult) string {
	if result.QuoteID == "" {
		return time.Now().Format("20060102_150405")
	}
	id := result.QuoteID
	if len(id) > 8 {
		id = id[:8]
	}
	stamp := result.CalculatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return stamp.Format("20060102") + "_" + id
}
