package output

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buildTestResult() *domain.CalculationResult {
	line := domain.BenefitLine{
		Code:          domain.BenefitC,
		Item:          "C",
		Label:         domain.BenefitC.Label(),
		Geography:     domain.GeographyVietnam,
		SumInsured:    d("100000000"),
		HeadCount:     25,
		RateKey:       "C_VN_P3",
		BaseRate:      d("0.01944"),
		MinRate:       d("0.013608"),
		Applicable:    true,
		BaseFee:       d("48600000"),
		MinFee:        d("34020000"),
		DiscountedFee: d("35000000"),
		MinimumFee:    d("24500000"),
		FinalFee:      d("35000000"),
	}
	f := domain.Factors{
		Duration:          d("1"),
		CoPay:             d("0.9"),
		GroupSize:         d("0.9"),
		LossRatioIncrease: d("1"),
		LossRatioDecrease: d("0.9"),
	}
	return &domain.CalculationResult{
		QuoteID:      "6f1c2f9e-0000-5000-8000-000000000001",
		CalculatedAt: time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
		General: domain.GeneralInfo{
			ContractType: domain.ContractGroup,
			Geography:    domain.GeographyVietnam,
			Duration:     domain.DurationOver9Months,
			CoPay:        10,
			LossRatio:    d("40"),
			Renewal:      domain.RenewalContinuous,
		},
		Groups: []domain.GroupResult{
			{
				GroupID: "office", Name: "Office staff", HeadCount: 25, Age: 34, Eligible: true,
				Lines:   []domain.BenefitLine{line},
				BaseFee: line.BaseFee, MinFee: line.MinFee,
				DiscountedFee: line.DiscountedFee, MinimumFee: line.MinimumFee, FinalFee: line.FinalFee,
			},
			{GroupID: "kids", Name: "Newborns", HeadCount: 2, Eligible: false},
		},
		TotalHeadCount: 27,
		BasePremium:    line.BaseFee,
		MinPremium:     line.MinFee,
		Factors:        f,
		BasePath:       domain.PremiumPath{Raw: line.BaseFee, AfterLossRatio: line.DiscountedFee},
		MinPath:        domain.PremiumPath{Raw: line.MinFee, AfterLossRatio: line.MinimumFee},
		FinalPremium:   line.FinalFee,
		Validation: []domain.ValidationMessage{
			{Severity: domain.SeverityError, Code: "age.too_young", GroupID: "kids", Message: "insured is younger than 15 days"},
		},
		HasErrors: true,
	}
}

func TestFormatterFunc(t *testing.T) {
	called := false
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(result *domain.CalculationResult) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	out, err := formatter.Format(buildTestResult())

	assert.NoError(t, err)
	assert.True(t, called, "Should call the function")
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(result *domain.CalculationResult) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, buildTestResult(), dir, "txt")
	require.NoError(t, err)
	assert.Contains(t, filename, "premium_quote_20250615_6f1c2f9e.txt", "Should use the as-of date and quote id")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(result *domain.CalculationResult) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, buildTestResult(), t.TempDir(), "txt")

	assert.Error(t, err)
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error")
}

func TestConsoleFormatter_Format(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "PREMIUM QUOTE SUMMARY")
	assert.Contains(t, content, "Office staff")
	assert.Contains(t, content, "35,000,000 VND")
	assert.Contains(t, content, "n/a", "Ineligible groups show no age")
	assert.Contains(t, content, "age.too_young [kids]")

	_, err = ConsoleFormatter{}.Format(nil)
	assert.Error(t, err)
}

func TestConsoleVerboseFormatter_Format(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "DETAILED PREMIUM CALCULATION")
	assert.Contains(t, content, "KEY ASSUMPTIONS:")
	assert.Contains(t, content, "C_VN_P3")
	assert.Contains(t, content, "1.9440%", "Rates render as percentages of sum insured")
	assert.Contains(t, content, "Not eligible")
	assert.Contains(t, content, "ADJUSTMENT PIPELINE")
	assert.Contains(t, content, "0.9000")
	assert.NotContains(t, content, "floor applied")
}

func TestCSVSummarizer_Format(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4, "header, two groups and a total")
	assert.True(t, strings.HasPrefix(lines[0], "GroupID,"))
	assert.True(t, strings.HasPrefix(lines[1], "office,Office staff,25,34,true"))
	assert.True(t, strings.HasPrefix(lines[3], "TOTAL,,27"))
	assert.Contains(t, lines[3], "35000000.00")
}

func TestDetailedCSVFormatter_Format(t *testing.T) {
	out, err := DetailedCSVFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "office,C,C,Inpatient treatment,vietnam,100000000,25,C_VN_P3,0.01944")
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	var decoded domain.CalculationResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "6f1c2f9e-0000-5000-8000-000000000001", decoded.QuoteID)
	assert.True(t, decoded.FinalPremium.Equal(d("35000000")))
	assert.Contains(t, string(out), "\"finalPremium\"")
}

func TestHTMLFormatter_Format(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Premium Quote 6f1c2f9e")
	assert.Contains(t, content, "Health Insurance Premium Quote")
	assert.Contains(t, content, "35,000,000 VND")
	assert.Contains(t, content, "Not eligible")
	assert.Contains(t, content, "age.too_young")
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	for _, want := range []string{"console-lite", "console", "csv", "detailed-csv", "json", "html"} {
		assert.Contains(t, names, want)
	}
	assert.Contains(t, AvailableFormatAliases(), "verbose")
}

func TestGetFormatterByName(t *testing.T) {
	assert.Equal(t, "console-lite", GetFormatterByName("console-lite").Name())
	assert.Equal(t, "console", GetFormatterByName("Verbose").Name(), "Aliases resolve case-insensitively")
	assert.Nil(t, GetFormatterByName("non-existent"))
	assert.Equal(t, "csv", Extension("detailed-csv"))
	assert.Equal(t, "txt", Extension("console"))
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateReport(&buf, buildTestResult(), "json"))
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	err := GenerateReport(&buf, buildTestResult(), "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0 VND"},
		{"999", "999 VND"},
		{"1000", "1,000 VND"},
		{"16174080", "16,174,080 VND"},
		{"120000.6", "120,001 VND"},
		{"-2500000", "-2,500,000 VND"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(d(tt.in)), tt.in)
	}
	assert.Equal(t, "12.50%", FormatPercentage(d("12.5")))
	assert.Equal(t, "0.1320%", FormatRate(d("0.00132")))
}

func TestSensitivityFormatters(t *testing.T) {
	param := domain.LossRatioParam
	analysis := &domain.ParameterSensitivityAnalysis{
		QuoteName:   "Acme",
		BasePremium: d("1000000"),
		Parameters:  []domain.SensitivityParameter{param},
		Results: []domain.SensitivityResult{
			{ParameterValues: map[string]decimal.Decimal{param.Name: d("50")}, FinalPremium: d("1000000")},
			{ParameterValues: map[string]decimal.Decimal{param.Name: d("100")}, FinalPremium: d("1300000"),
				PremiumChange: d("300000"), PremiumChangePct: d("30"), FloorApplied: true},
		},
		Summary: domain.SensitivitySummary{
			MostSensitiveParameter: param.Name,
			SensitivityScores:      map[string]decimal.Decimal{param.Name: d("1.5")},
			MinPremium:             d("1000000"),
			MaxPremium:             d("1300000"),
			FloorHits:              1,
			RiskLevel:              "CRITICAL",
			Recommendations:        []string{"Quote a range rather than a single figure"},
		},
		AnalysisType: "single",
	}

	console, err := NewSensitivityFormatter("table").FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)
	assert.Contains(t, console, "PREMIUM SENSITIVITY ANALYSIS: Acme")
	assert.Contains(t, console, "50.0% ← BASE")
	assert.Contains(t, console, "1,300,000 VND")
	assert.Contains(t, console, "RISK LEVEL: 🚨 CRITICAL")

	csvOut, err := NewSensitivityFormatter("csv").FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)
	assert.Contains(t, csvOut, "loss_ratio,100,1300000,0,0,true,300000,30.0000")

	jsonOut, err := NewSensitivityFormatter("json").FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)
	assert.Contains(t, jsonOut, "\"mostSensitiveParameter\": \"loss_ratio\"")

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(&domain.ParameterSensitivityAnalysis{})
	assert.Error(t, err)
}
