package calculation

import (
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// GroupAggregator sums the fees of every active benefit of one group over its covered head count
type GroupAggregator struct {
	Fees *BenefitFeeCalculator
}

// NewGroupAggregator creates an aggregator over a fee calculator
func NewGroupAggregator(fees *BenefitFeeCalculator) *GroupAggregator {
	return &GroupAggregator{Fees: fees}
}

// Aggregate prices g at the given age. Benefits are visited in declared order A..I so that
// Lines are stable for reporting.
func (ga *GroupAggregator) Aggregate(info domain.GeneralInfo, g *domain.InsuranceGroup, age int) domain.GroupResult {
	gr := domain.GroupResult{
		GroupID:   g.ID,
		Name:      g.DisplayName(),
		HeadCount: g.HeadCount,
		Age:       age,
		Eligible:  true,
		Breakdown: make(map[domain.BenefitCode]domain.FeeTotals),
		BaseFee:   decimal.Zero,
		MinFee:    decimal.Zero,
	}

	for _, code := range domain.BenefitCodes() {
		lines := ga.Fees.Calculate(info, g, code, age)
		if len(lines) == 0 {
			continue
		}
		totals := domain.FeeTotals{Base: decimal.Zero, Min: decimal.Zero}
		for _, line := range lines {
			heads := decimal.NewFromInt(int64(line.HeadCount))
			line.BaseFee = line.BasePerPerson.Mul(heads)
			line.MinFee = line.MinPerPerson.Mul(heads)

			totals.Base = totals.Base.Add(line.BaseFee)
			totals.Min = totals.Min.Add(line.MinFee)
			gr.Lines = append(gr.Lines, line)
		}
		gr.Breakdown[code] = totals
		gr.BaseFee = gr.BaseFee.Add(totals.Base)
		gr.MinFee = gr.MinFee.Add(totals.Min)
	}
	return gr
}
