package rates

import (
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// Lookup reasons for a rate that does not apply
const (
	ReasonMissing       = "missing"
	ReasonNotApplicable = "not_applicable"
	ReasonInvalidKey    = "invalid_key"
)

// AgeBucket maps an age in whole years to its rate-array index.
// Ages outside 0-70 fall back to the 18-50 bucket; eligibility rejects them before pricing.
func AgeBucket(age int) int {
	switch {
	case age < 0:
		return 2
	case age <= 10:
		return 0
	case age <= 17:
		return 1
	case age <= 50:
		return 2
	case age <= 65:
		return 3
	case age <= 70:
		return 4
	}
	return 2
}

// RateRequest identifies one rate to look up
type RateRequest struct {
	Cover     Cover
	Age       int
	Geography domain.Geography
	// BandSumInsured selects the tier for banded covers. Zero means use SumInsured.
	SumInsured     decimal.Decimal
	BandSumInsured decimal.Decimal
}

// Lookup is the resolved rate for a request.
// A rate that is not Applicable contributes nothing; Reason says why.
type Lookup struct {
	Key        string
	Bucket     int
	Rate       decimal.Decimal
	Applicable bool
	Reason     string
}

// Provider resolves base and minimum rates from an initialized Config.
// It never mutates the config and is safe for concurrent use.
type Provider struct {
	cfg *Config
}

// NewProvider wraps cfg, which must already be initialized. A nil cfg uses the built-in defaults.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Provider{cfg: cfg}
}

// Config returns the configuration backing the provider
func (p *Provider) Config() *Config {
	return p.cfg
}

// BaseRate looks the request up in the base table
func (p *Provider) BaseRate(req RateRequest) Lookup {
	return p.lookup(p.cfg.BaseRates, req)
}

// MinRate looks the request up in the minimum table
func (p *Provider) MinRate(req RateRequest) Lookup {
	return p.lookup(p.cfg.MinRates, req)
}

func (p *Provider) lookup(table map[string]RateValue, req RateRequest) Lookup {
	bucket := AgeBucket(req.Age)
	bandSI := req.BandSumInsured
	if bandSI.IsZero() {
		bandSI = req.SumInsured
	}
	key, err := NewRateKey(req.Cover, req.Geography, bandSI)
	if err != nil {
		return Lookup{Bucket: bucket, Rate: decimal.Zero, Reason: ReasonInvalidKey}
	}
	l := Lookup{Key: key.String(), Bucket: bucket, Rate: decimal.Zero}

	v, ok := table[l.Key]
	if !ok {
		l.Reason = ReasonMissing
		return l
	}
	rate, ok := v.At(bucket)
	if !ok {
		l.Reason = ReasonMissing
		return l
	}
	if rate.Equal(NotApplicable) {
		l.Reason = ReasonNotApplicable
		return l
	}
	l.Rate = rate.Mul(p.cfg.GeographyFactor(req.Geography))
	l.Applicable = true
	return l
}
