package rates

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMinRateRatio derives a minimum rate from a base rate when none is configured
var DefaultMinRateRatio = decimal.NewFromFloat(0.7)

// Step is one threshold of a step-function table
type Step struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// Config is the full rate configuration of one product: base and minimum rate tables
// plus the factor maps and step tables used by the adjustment pipeline.
type Config struct {
	ProductID    string           `yaml:"product_id,omitempty" json:"productId,omitempty"`
	Description  string           `yaml:"description,omitempty" json:"description,omitempty"`
	MinRateRatio *decimal.Decimal `yaml:"min_rate_ratio,omitempty" json:"minRateRatio,omitempty"`

	BaseRates map[string]RateValue `yaml:"base_rates" json:"baseRates"`
	MinRates  map[string]RateValue `yaml:"min_rates,omitempty" json:"minRates,omitempty"`

	DurationFactors  map[domain.Duration]decimal.Decimal  `yaml:"duration_factors,omitempty" json:"durationFactors,omitempty"`
	CoPayDiscounts   map[domain.CoPay]decimal.Decimal     `yaml:"co_pay_discounts,omitempty" json:"coPayDiscounts,omitempty"`
	GeographyFactors map[domain.Geography]decimal.Decimal `yaml:"geography_factors,omitempty" json:"geographyFactors,omitempty"`

	// GroupSizeDiscounts and LossRatioIncreases apply the rate of the highest threshold reached.
	GroupSizeDiscounts []Step `yaml:"group_size_discounts,omitempty" json:"groupSizeDiscounts,omitempty"`
	LossRatioIncreases []Step `yaml:"loss_ratio_increases,omitempty" json:"lossRatioIncreases,omitempty"`
	// LossRatioDecreases apply the rate of the lowest threshold strictly above the loss ratio.
	LossRatioDecreases []Step `yaml:"loss_ratio_decreases,omitempty" json:"lossRatioDecreases,omitempty"`

	initialized bool
	// derivedMin holds the MinRates keys Init filled from the ratio
	derivedMin map[string]struct{}
}

// Init validates the configuration and fills everything left unset with built-in defaults.
// Minimum rates missing for a base key are derived here, once, from the min-rate ratio.
// Init is idempotent.
func (c *Config) Init() error {
	if c.initialized {
		return nil
	}
	if c.BaseRates == nil {
		c.BaseRates = map[string]RateValue{}
	}
	if c.MinRates == nil {
		c.MinRates = map[string]RateValue{}
	}

	for key, v := range c.BaseRates {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("base rate %s: %w", key, err)
		}
	}
	for key, v := range c.MinRates {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("min rate %s: %w", key, err)
		}
	}

	ratio := DefaultMinRateRatio
	if c.MinRateRatio != nil {
		if c.MinRateRatio.IsNegative() || c.MinRateRatio.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("min rate ratio must be between 0 and 1, got %s", c.MinRateRatio.String())
		}
		ratio = *c.MinRateRatio
	}
	if c.derivedMin == nil {
		c.derivedMin = map[string]struct{}{}
	}
	for key, v := range c.BaseRates {
		if _, ok := c.MinRates[key]; !ok {
			c.MinRates[key] = v.Scale(ratio)
			c.derivedMin[key] = struct{}{}
		}
	}

	c.DurationFactors = mergeFactors(c.DurationFactors, defaultDurationFactors())
	c.CoPayDiscounts = mergeFactors(c.CoPayDiscounts, defaultCoPayDiscounts())
	c.GeographyFactors = mergeFactors(c.GeographyFactors, defaultGeographyFactors())

	for d, f := range c.DurationFactors {
		if !f.IsPositive() {
			return fmt.Errorf("duration factor for %s must be positive", d)
		}
	}
	for level, d := range c.CoPayDiscounts {
		if err := checkFraction(d); err != nil {
			return fmt.Errorf("co-pay discount for %d%%: %w", level, err)
		}
	}
	for g, f := range c.GeographyFactors {
		if !f.IsPositive() {
			return fmt.Errorf("geography factor for %s must be positive", g)
		}
	}

	if len(c.GroupSizeDiscounts) == 0 {
		c.GroupSizeDiscounts = defaultGroupSizeDiscounts()
	}
	if len(c.LossRatioIncreases) == 0 {
		c.LossRatioIncreases = defaultLossRatioIncreases()
	}
	if len(c.LossRatioDecreases) == 0 {
		c.LossRatioDecreases = defaultLossRatioDecreases()
	}
	for name, steps := range map[string][]Step{
		"group size discounts": c.GroupSizeDiscounts,
		"loss ratio decreases": c.LossRatioDecreases,
	} {
		for _, s := range steps {
			if err := checkFraction(s.Rate); err != nil {
				return fmt.Errorf("%s at %s: %w", name, s.Threshold.String(), err)
			}
		}
	}
	for _, s := range c.LossRatioIncreases {
		if s.Rate.IsNegative() {
			return fmt.Errorf("loss ratio increase at %s cannot be negative", s.Threshold.String())
		}
	}
	sortSteps(c.GroupSizeDiscounts)
	sortSteps(c.LossRatioIncreases)
	sortSteps(c.LossRatioDecreases)

	c.initialized = true
	return nil
}

// Initialized reports whether Init has completed
func (c *Config) Initialized() bool {
	return c.initialized
}

// Clone returns a deep copy that has not been initialized.
// Minimum rates Init derived are left out so the copy derives them again from its own base rates.
func (c *Config) Clone() *Config {
	out := &Config{
		ProductID:          c.ProductID,
		Description:        c.Description,
		BaseRates:          cloneRates(c.BaseRates),
		MinRates:           explicitMinRates(c.MinRates, c.derivedMin),
		DurationFactors:    cloneMap(c.DurationFactors),
		CoPayDiscounts:     cloneMap(c.CoPayDiscounts),
		GeographyFactors:   cloneMap(c.GeographyFactors),
		GroupSizeDiscounts: append([]Step(nil), c.GroupSizeDiscounts...),
		LossRatioIncreases: append([]Step(nil), c.LossRatioIncreases...),
		LossRatioDecreases: append([]Step(nil), c.LossRatioDecreases...),
	}
	if c.MinRateRatio != nil {
		r := *c.MinRateRatio
		out.MinRateRatio = &r
	}
	return out
}

func explicitMinRates(in map[string]RateValue, derived map[string]struct{}) map[string]RateValue {
	out := cloneRates(in)
	for key := range derived {
		delete(out, key)
	}
	return out
}

// DurationFactor returns the multiplier of a duration band
func (c *Config) DurationFactor(d domain.Duration) decimal.Decimal {
	if f, ok := c.DurationFactors[d]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// CoPayDiscount returns the discount fraction for a co-pay level
func (c *Config) CoPayDiscount(level domain.CoPay) decimal.Decimal {
	return c.CoPayDiscounts[level]
}

// GeographyFactor returns the multiplier applied to every rate looked up for g
func (c *Config) GeographyFactor(g domain.Geography) decimal.Decimal {
	if f, ok := c.GeographyFactors[g]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// GroupSizeDiscount returns the discount fraction for a total head count
func (c *Config) GroupSizeDiscount(headCount int) decimal.Decimal {
	return stepAtLeast(c.GroupSizeDiscounts, decimal.NewFromInt(int64(headCount)))
}

// LossRatioLoading returns the loading fraction for a loss ratio in percent
func (c *Config) LossRatioLoading(lossRatio decimal.Decimal) decimal.Decimal {
	return stepAtLeast(c.LossRatioIncreases, lossRatio)
}

// LossRatioDiscount returns the renewal discount fraction for a loss ratio in percent
func (c *Config) LossRatioDiscount(lossRatio decimal.Decimal) decimal.Decimal {
	for _, s := range c.LossRatioDecreases {
		if lossRatio.LessThan(s.Threshold) {
			return s.Rate
		}
	}
	return decimal.Zero
}

func stepAtLeast(steps []Step, v decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, s := range steps {
		if v.GreaterThanOrEqual(s.Threshold) {
			rate = s.Rate
		}
	}
	return rate
}

func sortSteps(steps []Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Threshold.LessThan(steps[j].Threshold)
	})
}

func checkFraction(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("must be in [0, 1), got %s", d.String())
	}
	return nil
}

func mergeFactors[K comparable](set, defaults map[K]decimal.Decimal) map[K]decimal.Decimal {
	out := make(map[K]decimal.Decimal, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range set {
		out[k] = v
	}
	return out
}

func cloneMap[K comparable](m map[K]decimal.Decimal) map[K]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[K]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneRates(m map[string]RateValue) map[string]RateValue {
	if m == nil {
		return nil
	}
	out := make(map[string]RateValue, len(m))
	for k, v := range m {
		out[k] = append(RateValue(nil), v...)
	}
	return out
}
