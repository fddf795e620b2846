package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity of a validation message
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationMessage is a business-rule finding attached to a calculation result
type ValidationMessage struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code" yaml:"code"`
	GroupID  string   `json:"groupId,omitempty" yaml:"group_id,omitempty"`
	Field    string   `json:"field,omitempty" yaml:"field,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

// BenefitLine is one priced cover line of a group (for example A_MAIN or G_MEDICAL)
type BenefitLine struct {
	Code       BenefitCode     `json:"code"`
	Item       string          `json:"item"`
	Label      string          `json:"label"`
	Geography  Geography       `json:"geography"`
	SumInsured decimal.Decimal `json:"sumInsured"`
	HeadCount  int             `json:"headCount"`

	RateKey       string          `json:"rateKey"`
	BaseRate      decimal.Decimal `json:"baseRate"`
	MinRate       decimal.Decimal `json:"minRate"`
	Applicable    bool            `json:"applicable"`
	Reason        string          `json:"reason,omitempty"` // why a rate did not apply
	BasePerPerson decimal.Decimal `json:"basePerPerson"`
	MinPerPerson  decimal.Decimal `json:"minPerPerson"`

	// Raw totals for the covered head count
	BaseFee decimal.Decimal `json:"baseFee"`
	MinFee  decimal.Decimal `json:"minFee"`

	// After the policy adjustment factors
	DiscountedFee decimal.Decimal `json:"discountedFee"`
	MinimumFee    decimal.Decimal `json:"minimumFee"`
	FinalFee      decimal.Decimal `json:"finalFee"`
	FloorApplied  bool            `json:"floorApplied"`
}

// FeeTotals is a base/minimum pair
type FeeTotals struct {
	Base decimal.Decimal `json:"base"`
	Min  decimal.Decimal `json:"min"`
}

// GroupResult is the priced breakdown of one group
type GroupResult struct {
	GroupID   string                    `json:"groupId"`
	Name      string                    `json:"name"`
	HeadCount int                       `json:"headCount"`
	Age       int                       `json:"age"`
	Eligible  bool                      `json:"eligible"`
	Lines     []BenefitLine             `json:"lines"`
	Breakdown map[BenefitCode]FeeTotals `json:"breakdown"`

	BaseFee decimal.Decimal `json:"baseFee"`
	MinFee  decimal.Decimal `json:"minFee"`

	DiscountedFee decimal.Decimal `json:"discountedFee"`
	MinimumFee    decimal.Decimal `json:"minimumFee"`
	FinalFee      decimal.Decimal `json:"finalFee"`
	FloorApplied  bool            `json:"floorApplied"`
}

// Factors are the multipliers of the policy adjustment pipeline, in application order
type Factors struct {
	Duration          decimal.Decimal `json:"duration"`
	CoPay             decimal.Decimal `json:"coPay"`
	GroupSize         decimal.Decimal `json:"groupSize"`
	LossRatioIncrease decimal.Decimal `json:"lossRatioIncrease"`
	LossRatioDecrease decimal.Decimal `json:"lossRatioDecrease"`

	CoPayDiscount     decimal.Decimal `json:"coPayDiscount"`
	GroupSizeDiscount decimal.Decimal `json:"groupSizeDiscount"`
	LossRatioLoading  decimal.Decimal `json:"lossRatioLoading"`
	LossRatioDiscount decimal.Decimal `json:"lossRatioDiscount"`
}

// Apply multiplies amount by every factor in pipeline order
func (f Factors) Apply(amount decimal.Decimal) decimal.Decimal {
	return amount.
		Mul(f.Duration).
		Mul(f.CoPay).
		Mul(f.GroupSize).
		Mul(f.LossRatioIncrease).
		Mul(f.LossRatioDecrease)
}

// PremiumPath exposes each running subtotal of one branch of the pipeline
type PremiumPath struct {
	Raw              decimal.Decimal `json:"raw"`
	AfterDuration    decimal.Decimal `json:"afterDuration"`
	AfterCoPay       decimal.Decimal `json:"afterCoPay"`
	AfterGroupSize   decimal.Decimal `json:"afterGroupSize"`
	AfterLossLoading decimal.Decimal `json:"afterLossLoading"`
	AfterLossRatio   decimal.Decimal `json:"afterLossRatio"`
}

// Final is the fully adjusted amount of the path
func (p PremiumPath) Final() decimal.Decimal {
	return p.AfterLossRatio
}

// CalculationResult is the complete output of one premium calculation
type CalculationResult struct {
	QuoteID      string      `json:"quoteId"`
	CalculatedAt time.Time   `json:"calculatedAt"`
	General      GeneralInfo `json:"general"`

	Groups         []GroupResult `json:"groups"`
	TotalHeadCount int           `json:"totalHeadCount"`

	BasePremium decimal.Decimal `json:"basePremium"`
	MinPremium  decimal.Decimal `json:"minPremium"`

	Factors  Factors     `json:"factors"`
	BasePath PremiumPath `json:"basePath"`
	MinPath  PremiumPath `json:"minPath"`

	FinalPremium decimal.Decimal `json:"finalPremium"`
	FloorApplied bool            `json:"floorApplied"`

	Validation []ValidationMessage `json:"validation"`
	HasErrors  bool                `json:"hasErrors"`
	Exportable bool                `json:"exportable"`
}

// AddMessage appends a validation message and keeps HasErrors/Exportable in sync
func (r *CalculationResult) AddMessage(msg ValidationMessage) {
	r.Validation = append(r.Validation, msg)
	if msg.Severity == SeverityError {
		r.HasErrors = true
		r.Exportable = false
	}
}

// MessagesWithCode returns every message carrying the given code
func (r *CalculationResult) MessagesWithCode(code string) []ValidationMessage {
	var out []ValidationMessage
	for _, m := range r.Validation {
		if m.Code == code {
			out = append(out, m)
		}
	}
	return out
}

// Group returns the result of the group with the given id
func (r *CalculationResult) Group(id string) (*GroupResult, bool) {
	for i := range r.Groups {
		if r.Groups[i].GroupID == id {
			return &r.Groups[i], true
		}
	}
	return nil, false
}
