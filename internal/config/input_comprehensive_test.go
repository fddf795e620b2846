package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQuoteYAML = `
name: "Acme renewal"
general:
  contract_type: group
  geography: vietnam
  duration: over_9_months
  co_pay: 10
  loss_ratio: 45.5
  renewal: continuous
groups:
  - id: office
    name: Office staff
    head_count: 25
    average_age: 34
    male_count: 15
    female_count: 10
    basic_salary: 12000000
    benefits:
      a:
        selected: true
        sum_insured: {method: salary, salary_months: 20}
        death_disability: true
        partial_disability: true
        medical:
          selected: true
          sum_insured: {amount: 40000000}
      c:
        selected: true
        sum_insured: {method: fixed, amount: 100000000}
      d:
        selected: true
      g:
        selected: true
        geography: asia
        transport:
          selected: true
          sum_insured: {amount: 200000000}
      h:
        selected: true
        months: 6
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	quote, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, quote, "Should return nil quote")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	path := writeFile(t, "invalid.yaml", "invalid: yaml: content: [unclosed")

	quote, err := NewInputParser().LoadFromFile(path)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, quote, "Should return nil quote")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_UnknownField(t *testing.T) {
	path := writeFile(t, "typo.yaml", validQuoteYAML+"\nunexpected: true\n")

	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	path := writeFile(t, "valid.yaml", validQuoteYAML)

	quote, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme renewal", quote.Name)
	assert.Equal(t, domain.ContractGroup, quote.General.ContractType)
	assert.Equal(t, domain.CoPay(10), quote.General.CoPay)
	assert.True(t, quote.General.LossRatio.Equal(decimal.NewFromFloat(45.5)))
	assert.Equal(t, domain.RenewalContinuous, quote.General.Renewal)

	require.Len(t, quote.Groups, 1)
	g := quote.Groups[0]
	assert.Equal(t, 25, g.HeadCount)
	assert.Equal(t, domain.MethodSalary, g.Benefits.A.SumInsured.Method)
	assert.Equal(t, 20, g.Benefits.A.SumInsured.SalaryMonths)
	assert.True(t, g.Benefits.A.Medical.SumInsured.Amount.Equal(decimal.NewFromInt(40_000_000)))
	assert.Equal(t, domain.GeographyAsia, g.Benefits.G.Geography)
	assert.Equal(t, 6, g.Benefits.H.Months)
}

func TestInputParser_LoadFromFile_JSON(t *testing.T) {
	content := `{
  "general": {"contractType": "individual", "geography": "asia", "duration": "upto_6_months",
              "coPay": 0, "lossRatio": "0", "renewal": "non_continuous"},
  "groups": [{"id": "me", "birthDate": "1990-04-01T00:00:00Z", "gender": "female",
              "benefits": {"b": {"selected": true, "sumInsured": {"amount": "50000000"}}}}]
}`
	path := writeFile(t, "quote.json", content)

	quote, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractIndividual, quote.General.ContractType)
	require.NotNil(t, quote.Groups[0].BirthDate)
	assert.Equal(t, time.April, quote.Groups[0].BirthDate.Month())
	assert.True(t, quote.Groups[0].Benefits.B.Selected)
}

func TestInputParser_ValidateQuote(t *testing.T) {
	base := func() *domain.Quote {
		return &domain.Quote{
			General: domain.GeneralInfo{
				ContractType: domain.ContractGroup,
				Geography:    domain.GeographyVietnam,
				Duration:     domain.DurationOver9Months,
				Renewal:      domain.RenewalContinuous,
			},
			Groups: []domain.InsuranceGroup{{ID: "g", HeadCount: 5, MaleCount: 3, FemaleCount: 2}},
		}
	}

	tests := []struct {
		name   string
		mutate func(q *domain.Quote)
		errMsg string
	}{
		{"valid", func(q *domain.Quote) {}, ""},
		{"bad geography", func(q *domain.Quote) { q.General.Geography = "europe" }, "invalid geography"},
		{"bad co-pay", func(q *domain.Quote) { q.General.CoPay = 15 }, "invalid co-pay"},
		{"no groups", func(q *domain.Quote) { q.Groups = nil }, "no groups"},
		{"negative count", func(q *domain.Quote) { q.Groups[0].MaleCount = -1 }, "negative"},
		{"counts exceed head count", func(q *domain.Quote) { q.Groups[0].FemaleCount = 9 }, "exceed head count"},
		{"empty group", func(q *domain.Quote) { q.Groups[0] = domain.InsuranceGroup{ID: "x"} }, "at least 1"},
		{"duplicate ids", func(q *domain.Quote) { q.Groups = append(q.Groups, q.Groups[0]) }, "duplicate id"},
		{"salary months", func(q *domain.Quote) {
			q.Groups[0].Benefits.B.SumInsured = domain.SumInsured{Method: domain.MethodSalary, SalaryMonths: 31}
		}, "b.sum_insured"},
		{"unknown method", func(q *domain.Quote) {
			q.Groups[0].Benefits.C.SumInsured.Method = "guess"
		}, "unknown method"},
		{"income loss months", func(q *domain.Quote) {
			q.Groups[0].Benefits.H = domain.IncomeLossBenefit{Selected: true, Months: 4}
		}, "h.months"},
		{"individual needs gender", func(q *domain.Quote) {
			q.General.ContractType = domain.ContractIndividual
		}, "gender"},
		{"individual single group", func(q *domain.Quote) {
			q.General.ContractType = domain.ContractIndividual
			q.Groups = append(q.Groups, domain.InsuranceGroup{ID: "h", Gender: domain.GenderMale})
		}, "exactly one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base()
			tt.mutate(q)
			err := NewInputParser().ValidateQuote(q)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestInputParser_ValidateQuote_AssignsIDs(t *testing.T) {
	q := &domain.Quote{
		General: domain.GeneralInfo{
			ContractType: domain.ContractGroup,
			Geography:    domain.GeographyVietnam,
			Duration:     domain.DurationOver9Months,
			Renewal:      domain.RenewalNonContinuous,
		},
		Groups: []domain.InsuranceGroup{{HeadCount: 1}, {HeadCount: 2}},
	}
	require.NoError(t, NewInputParser().ValidateQuote(q))
	assert.Equal(t, "group-1", q.Groups[0].ID)
	assert.Equal(t, "group-2", q.Groups[1].ID)
}

func TestLoadRateConfig(t *testing.T) {
	content := `
product_id: hc-basic
min_rate_ratio: 0.6
base_rates:
  A_MAIN_VN: [0.001, 0.001, 0.0012, 0.0018, 0.0025]
  C_VN_P1: 0.02
min_rates:
  C_VN_P1: 0.019
duration_factors:
  upto_3_months: 0.35
co_pay_discounts:
  10: 0.12
group_size_discounts:
  - {threshold: 10, rate: 0.08}
`
	cfg, err := LoadRateConfig(writeFile(t, "rates.yaml", content))
	require.NoError(t, err)

	assert.True(t, cfg.Initialized())
	assert.Equal(t, "hc-basic", cfg.ProductID)
	assert.True(t, cfg.MinRates["A_MAIN_VN"][2].Equal(decimal.NewFromFloat(0.00072)))
	assert.True(t, cfg.MinRates["C_VN_P1"][0].Equal(decimal.NewFromFloat(0.019)))
	assert.True(t, cfg.DurationFactor(domain.DurationUpTo3Months).Equal(decimal.NewFromFloat(0.35)))
	assert.True(t, cfg.DurationFactor(domain.DurationUpTo6Months).Equal(decimal.NewFromFloat(0.5)), "defaults fill gaps")
	assert.True(t, cfg.CoPayDiscount(10).Equal(decimal.NewFromFloat(0.12)))
	assert.True(t, cfg.GroupSizeDiscount(12).Equal(decimal.NewFromFloat(0.08)))
}

func TestLoadRateConfig_Invalid(t *testing.T) {
	_, err := LoadRateConfig(writeFile(t, "rates.yaml", "base_rates:\n  B_VN: [1, 2]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate configuration validation failed")

	_, err = LoadRateConfig(writeFile(t, "rates.json", `{"baseRates": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestWriteRateConfig_RoundTrip(t *testing.T) {
	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteRateConfig(&buf, rates.DefaultConfig(), format))

			cfg, err := ParseRateConfig(buf.Bytes(), format == "json")
			require.NoError(t, err)
			want := rates.DefaultConfig()
			assert.Equal(t, len(want.BaseRates), len(cfg.BaseRates))
			for key, v := range want.BaseRates {
				got := cfg.BaseRates[key]
				require.Len(t, got, len(v), key)
				for i := range v {
					assert.True(t, v[i].Equal(got[i]), "%s[%d]", key, i)
				}
			}
		})
	}

	assert.Error(t, WriteRateConfig(&bytes.Buffer{}, rates.DefaultConfig(), "toml"))
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("HIQUOTE_ADDR", ":9090")
	t.Setenv("HIQUOTE_STORE", "sqlite")
	t.Setenv("HIQUOTE_CACHE_TTL", "90s")
	t.Setenv("HIQUOTE_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("HIQUOTE_REFRESH_ENABLED", "not-a-bool")

	cfg := LoadServerConfig()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RefreshEnabled, "unparsable bools keep the default")
	assert.NoError(t, cfg.Validate())

	cfg.Store = "redis"
	assert.Error(t, cfg.Validate())
}
