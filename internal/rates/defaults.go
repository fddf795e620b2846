package rates

import (
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultProductID names the built-in rate table
const DefaultProductID = "default"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Vietnam rates per cover; other geographies and tiers scale these.
var defaultCoverRates = map[Cover]RateValue{
	CoverAMain:      PerAge(0.0010, 0.0010, 0.0012, 0.0018, 0.0025),
	CoverASalary:    PerAge(0.0020, 0.0020, 0.0020, 0.0030, 0.0040),
	CoverAMedical:   PerAge(0.0120, 0.0100, 0.0100, 0.0140, 0.0180),
	CoverB:          PerAge(0.0015, 0.0012, 0.0020, 0.0045, 0.0080),
	CoverC:          PerAge(0.0300, 0.0220, 0.0180, 0.0280, 0.0400),
	CoverD:          PerAge(-1, -1, 0.0250, 0.0300, -1),
	CoverE:          PerAge(0.0800, 0.0600, 0.0450, 0.0650, 0.0900),
	CoverF:          PerAge(0.1000, 0.0900, 0.0800, 0.0900, 0.1100),
	CoverGTransport: Scalar(0.0005),
	CoverGMedical:   Scalar(0.0030),
	CoverH:          PerAge(-1, -1, 0.0060, 0.0080, 0.0100),
	CoverIMain:      Scalar(0.0002),
	CoverISalary:    Scalar(0.0003),
	CoverIMedical:   Scalar(0.0010),
}

var defaultGeographyLoadings = map[domain.Geography]decimal.Decimal{
	domain.GeographyVietnam: dec("1"),
	domain.GeographyAsia:    dec("1.4"),
	domain.GeographyGlobal:  dec("2"),
}

// Tier loadings never decrease so a larger sum insured never prices lower across a tier boundary.
var defaultBandLoadings = []decimal.Decimal{dec("1"), dec("1.04"), dec("1.08"), dec("1.12"), dec("1.16")}

// DefaultBaseRates generates the built-in base table for every well-formed key
func DefaultBaseRates() map[string]RateValue {
	out := make(map[string]RateValue)
	for _, key := range AllKeys() {
		v := defaultCoverRates[key.Cover].Scale(defaultGeographyLoadings[key.Geography])
		if key.Band != "" {
			for i, suffix := range key.Cover.Bands().Suffixes() {
				if suffix == key.Band {
					v = v.Scale(defaultBandLoadings[i])
					break
				}
			}
		}
		out[key.String()] = v
	}
	return out
}

// DefaultConfig returns the initialized built-in configuration
func DefaultConfig() *Config {
	cfg := &Config{
		ProductID:   DefaultProductID,
		Description: "Built-in rate table",
		BaseRates:   DefaultBaseRates(),
	}
	if err := cfg.Init(); err != nil {
		panic("rates: invalid built-in configuration: " + err.Error())
	}
	return cfg
}

func defaultDurationFactors() map[domain.Duration]decimal.Decimal {
	return map[domain.Duration]decimal.Decimal{
		domain.DurationUpTo3Months: dec("0.3"),
		domain.DurationUpTo6Months: dec("0.5"),
		domain.DurationUpTo9Months: dec("0.75"),
		domain.DurationOver9Months: dec("1"),
	}
}

func defaultCoPayDiscounts() map[domain.CoPay]decimal.Decimal {
	return map[domain.CoPay]decimal.Decimal{
		0:  dec("0"),
		10: dec("0.10"),
		20: dec("0.15"),
		30: dec("0.20"),
		40: dec("0.25"),
		50: dec("0.30"),
	}
}

func defaultGeographyFactors() map[domain.Geography]decimal.Decimal {
	return map[domain.Geography]decimal.Decimal{
		domain.GeographyVietnam: dec("1"),
		domain.GeographyAsia:    dec("1"),
		domain.GeographyGlobal:  dec("1"),
	}
}

func steps(pairs ...string) []Step {
	out := make([]Step, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Step{Threshold: dec(pairs[i]), Rate: dec(pairs[i+1])})
	}
	return out
}

func defaultGroupSizeDiscounts() []Step {
	return steps(
		"5", "0.05",
		"20", "0.10",
		"50", "0.15",
		"100", "0.20",
		"200", "0.25",
		"300", "0.30",
		"500", "0.35",
		"1000", "0.40",
	)
}

func defaultLossRatioIncreases() []Step {
	return steps(
		"70", "0.10",
		"85", "0.20",
		"100", "0.30",
		"120", "0.40",
		"150", "0.50",
		"175", "0.60",
		"200", "0.70",
	)
}

func defaultLossRatioDecreases() []Step {
	return steps(
		"20", "0.30",
		"30", "0.20",
		"45", "0.10",
		"60", "0.05",
	)
}
