package calculation

import (
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// AdjustmentPipeline applies the policy-level factors to the aggregated premiums
type AdjustmentPipeline struct {
	Config *rates.Config
}

// NewAdjustmentPipeline creates a pipeline over an initialized rate configuration
func NewAdjustmentPipeline(cfg *rates.Config) *AdjustmentPipeline {
	return &AdjustmentPipeline{Config: cfg}
}

// Factors resolves every multiplier for the policy and the total head count of the quote.
// The loss-ratio discount only applies to continuous renewals; the loading always applies.
func (ap *AdjustmentPipeline) Factors(info domain.GeneralInfo, totalHeadCount int) domain.Factors {
	cfg := ap.Config
	f := domain.Factors{
		Duration:          cfg.DurationFactor(info.Duration),
		CoPayDiscount:     cfg.CoPayDiscount(info.CoPay),
		GroupSizeDiscount: cfg.GroupSizeDiscount(totalHeadCount),
		LossRatioLoading:  cfg.LossRatioLoading(info.LossRatio),
		LossRatioDiscount: decimal.Zero,
	}
	if info.Renewal == domain.RenewalContinuous {
		f.LossRatioDiscount = cfg.LossRatioDiscount(info.LossRatio)
	}
	f.CoPay = one.Sub(f.CoPayDiscount)
	f.GroupSize = one.Sub(f.GroupSizeDiscount)
	f.LossRatioIncrease = one.Add(f.LossRatioLoading)
	f.LossRatioDecrease = one.Sub(f.LossRatioDiscount)
	return f
}

// Path runs one amount through the factors, recording each subtotal
func (ap *AdjustmentPipeline) Path(f domain.Factors, raw decimal.Decimal) domain.PremiumPath {
	p := domain.PremiumPath{Raw: raw}
	p.AfterDuration = raw.Mul(f.Duration)
	p.AfterCoPay = p.AfterDuration.Mul(f.CoPay)
	p.AfterGroupSize = p.AfterCoPay.Mul(f.GroupSize)
	p.AfterLossLoading = p.AfterGroupSize.Mul(f.LossRatioIncrease)
	p.AfterLossRatio = p.AfterLossLoading.Mul(f.LossRatioDecrease)
	return p
}

// Floor returns the greater of the adjusted base and adjusted minimum, and whether the minimum won
func Floor(discounted, minimum decimal.Decimal) (decimal.Decimal, bool) {
	if minimum.GreaterThan(discounted) {
		return minimum, true
	}
	return discounted, false
}

// Apply fills the adjusted fees of r, its groups and their lines
func (ap *AdjustmentPipeline) Apply(r *domain.CalculationResult) {
	f := ap.Factors(r.General, r.TotalHeadCount)
	r.Factors = f
	r.BasePath = ap.Path(f, r.BasePremium)
	r.MinPath = ap.Path(f, r.MinPremium)
	r.FinalPremium, r.FloorApplied = Floor(r.BasePath.Final(), r.MinPath.Final())

	for gi := range r.Groups {
		g := &r.Groups[gi]
		g.DiscountedFee = f.Apply(g.BaseFee)
		g.MinimumFee = f.Apply(g.MinFee)
		g.FinalFee, g.FloorApplied = Floor(g.DiscountedFee, g.MinimumFee)
		for li := range g.Lines {
			l := &g.Lines[li]
			l.DiscountedFee = f.Apply(l.BaseFee)
			l.MinimumFee = f.Apply(l.MinFee)
			l.FinalFee, l.FloorApplied = Floor(l.DiscountedFee, l.MinimumFee)
		}
	}
}
