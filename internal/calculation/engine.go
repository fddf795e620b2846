package calculation

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/eligibility"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/shopspring/decimal"
)

// Validation message codes produced by the engine
const (
	CodeNoGroups         = "quote.no_groups"
	CodeNoMainBenefit    = "quote.no_main_benefit"
	CodeEmptyGroup       = "group.empty_head_count"
	CodeIncomeLossMonths = "benefit.h_months"
	CodeRateMissing      = "rate.missing"
	CodeRateNotApplied   = "rate.not_applicable"
)

// ErrInvalidGeneralInfo marks calculations rejected because the policy parameters are malformed
var ErrInvalidGeneralInfo = errors.New("invalid general info")

// quoteNamespace seeds the deterministic quote ids
var quoteNamespace = uuid.MustParse("5b1f4a3e-8c2d-4e6f-9a7b-0c1d2e3f4a5b")

// CalculationEngine prices quotes. It holds no per-calculation state and is safe for concurrent use.
type CalculationEngine struct {
	Logger Logger
	// Now fixes the as-of date used for ages and the result timestamp
	Now func() time.Time
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Logger: NopLogger{},
		Now:    time.Now,
	}
}

// SetLogger installs a logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

func (ce *CalculationEngine) now() time.Time {
	if ce.Now == nil {
		return time.Now()
	}
	return ce.Now()
}

// CalculateQuote prices a complete quote
func (ce *CalculationEngine) CalculateQuote(q *domain.Quote, cfg *rates.Config) (*domain.CalculationResult, error) {
	if q == nil {
		return nil, fmt.Errorf("quote is nil")
	}
	return ce.Calculate(q.General, q.Groups, cfg)
}

// Calculate prices the groups under the policy parameters and rate configuration.
// A nil cfg uses the built-in rates. Business problems (ineligible ages, missing rates,
// no main benefit) are reported as validation messages on the result; an error is only
// returned for malformed input such as unknown enum values.
func (ce *CalculationEngine) Calculate(info domain.GeneralInfo, groups []domain.InsuranceGroup, cfg *rates.Config) (*domain.CalculationResult, error) {
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGeneralInfo, err)
	}
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}

	asOf := asOfDay(ce.now())
	log := ce.logger()
	provider := rates.NewProvider(cfg)
	aggregator := NewGroupAggregator(NewBenefitFeeCalculator(provider))
	pipeline := NewAdjustmentPipeline(cfg)
	resolver := &eligibility.Resolver{Now: func() time.Time { return asOf }}

	result := &domain.CalculationResult{
		CalculatedAt: asOf,
		General:      info,
		Groups:       make([]domain.GroupResult, 0, len(groups)),
		BasePremium:  decimal.Zero,
		MinPremium:   decimal.Zero,
		Validation:   []domain.ValidationMessage{},
		Exportable:   true,
	}
	id, err := quoteID(info, groups, cfg.ProductID, asOf)
	if err != nil {
		return nil, err
	}
	result.QuoteID = id

	if len(groups) == 0 {
		result.AddMessage(domain.ValidationMessage{
			Severity: domain.SeverityError,
			Code:     CodeNoGroups,
			Message:  "quote has no insured groups",
		})
	}

	for i := range groups {
		g := domain.Normalize(info, groups[i])
		gr := ce.calculateGroup(info, &g, resolver, aggregator, result)
		result.Groups = append(result.Groups, gr)
		result.TotalHeadCount += g.HeadCount
		result.BasePremium = result.BasePremium.Add(gr.BaseFee)
		result.MinPremium = result.MinPremium.Add(gr.MinFee)
		log.Debugf("group %s: heads=%d age=%d base=%s min=%s", gr.GroupID, gr.HeadCount, gr.Age, gr.BaseFee.StringFixed(0), gr.MinFee.StringFixed(0))
	}

	pipeline.Apply(result)
	log.Debugf("quote %s: base=%s min=%s final=%s floor=%t", result.QuoteID,
		result.BasePath.Final().StringFixed(0), result.MinPath.Final().StringFixed(0),
		result.FinalPremium.StringFixed(0), result.FloorApplied)

	return result, nil
}

func (ce *CalculationEngine) calculateGroup(info domain.GeneralInfo, g *domain.InsuranceGroup, resolver *eligibility.Resolver, aggregator *GroupAggregator, result *domain.CalculationResult) domain.GroupResult {
	empty := domain.GroupResult{
		GroupID:   g.ID,
		Name:      g.DisplayName(),
		HeadCount: g.HeadCount,
		Breakdown: map[domain.BenefitCode]domain.FeeTotals{},
		BaseFee:   decimal.Zero,
		MinFee:    decimal.Zero,
	}

	if !g.HasMainBenefit() {
		result.AddMessage(domain.ValidationMessage{
			Severity: domain.SeverityError,
			Code:     CodeNoMainBenefit,
			GroupID:  g.ID,
			Message:  fmt.Sprintf("%s: select at least one of benefits A, B or C", g.DisplayName()),
		})
	}
	if g.Benefits.H.Selected && !g.Benefits.H.ValidMonths() {
		result.AddMessage(domain.ValidationMessage{
			Severity: domain.SeverityWarning,
			Code:     CodeIncomeLossMonths,
			GroupID:  g.ID,
			Field:    "benefits.h.months",
			Message:  fmt.Sprintf("%s: income loss months must be one of 3, 6, 9 or 12, got %d", g.DisplayName(), g.Benefits.H.Months),
		})
	}

	elig := resolveAge(info, g, resolver)
	empty.Age = elig.Age
	if !elig.Valid {
		result.AddMessage(domain.ValidationMessage{
			Severity: domain.SeverityError,
			Code:     elig.Code(),
			GroupID:  g.ID,
			Field:    ageField(info, g),
			Message:  fmt.Sprintf("%s: %s", g.DisplayName(), elig.Message()),
		})
		return empty
	}

	if g.HeadCount < 1 {
		result.AddMessage(domain.ValidationMessage{
			Severity: domain.SeverityWarning,
			Code:     CodeEmptyGroup,
			GroupID:  g.ID,
			Field:    "head_count",
			Message:  fmt.Sprintf("%s: group has no insured persons", g.DisplayName()),
		})
		empty.Eligible = true
		return empty
	}

	gr := aggregator.Aggregate(info, g, elig.Age)
	for _, line := range gr.Lines {
		switch line.Reason {
		case rates.ReasonMissing:
			result.AddMessage(domain.ValidationMessage{
				Severity: domain.SeverityInfo,
				Code:     CodeRateMissing,
				GroupID:  g.ID,
				Field:    line.RateKey,
				Message:  fmt.Sprintf("%s: no rate configured for %s; %s contributes nothing", g.DisplayName(), line.RateKey, line.Item),
			})
		case rates.ReasonNotApplicable:
			result.AddMessage(domain.ValidationMessage{
				Severity: domain.SeverityWarning,
				Code:     CodeRateNotApplied,
				GroupID:  g.ID,
				Field:    line.RateKey,
				Message:  fmt.Sprintf("%s: %s is not available at age %d", g.DisplayName(), line.Item, elig.Age),
			})
		}
	}
	return gr
}

// resolveAge prefers a birth date whatever the contract type. Group records without
// one fall back to the entered average age; individuals always need a birth date.
func resolveAge(info domain.GeneralInfo, g *domain.InsuranceGroup, resolver *eligibility.Resolver) eligibility.Result {
	if g.BirthDate != nil || info.ContractType == domain.ContractIndividual {
		return resolver.Resolve(g.BirthDate)
	}
	return resolver.ResolveAge(g.AverageAge)
}

func ageField(info domain.GeneralInfo, g *domain.InsuranceGroup) string {
	if g.BirthDate != nil || info.ContractType == domain.ContractIndividual {
		return "birth_date"
	}
	return "average_age"
}

// asOfDay truncates t to its calendar day; ages are day-granular, so this is the
// finest instant a result can depend on
func asOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// prepareConfig returns an initialized configuration without mutating the caller's copy
func prepareConfig(cfg *rates.Config) (*rates.Config, error) {
	if cfg == nil {
		return rates.DefaultConfig(), nil
	}
	if cfg.Initialized() {
		return cfg, nil
	}
	c := cfg.Clone()
	if err := c.Init(); err != nil {
		return nil, fmt.Errorf("invalid rate configuration: %w", err)
	}
	return c, nil
}

// quoteID derives a stable id from the inputs so identical requests get identical results
func quoteID(info domain.GeneralInfo, groups []domain.InsuranceGroup, productID string, asOf time.Time) (string, error) {
	payload, err := json.Marshal(struct {
		General   domain.GeneralInfo      `json:"general"`
		Groups    []domain.InsuranceGroup `json:"groups"`
		ProductID string                  `json:"productId"`
		AsOf      string                  `json:"asOf"`
	}{info, groups, productID, asOf.Format("2006-01-02")})
	if err != nil {
		return "", fmt.Errorf("encode quote id payload: %w", err)
	}
	return uuid.NewSHA1(quoteNamespace, payload).String(), nil
}
