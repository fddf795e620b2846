package calculation

import (
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/shopspring/decimal"
)

// BenefitFeeCalculator prices the cover lines of one benefit block for one covered person
type BenefitFeeCalculator struct {
	Rates *rates.Provider
}

// NewBenefitFeeCalculator creates a fee calculator over a rate provider
func NewBenefitFeeCalculator(provider *rates.Provider) *BenefitFeeCalculator {
	return &BenefitFeeCalculator{Rates: provider}
}

// coverLine is a cover to be priced before rates are looked up
type coverLine struct {
	item      string
	label     string
	cover     rates.Cover
	geo       domain.Geography
	si        decimal.Decimal
	bandSI    decimal.Decimal
	headCount int
}

// Calculate returns the per-person priced lines of one benefit. The group is expected to be
// normalized; prerequisites are still re-checked so stale selections never contribute.
// Lines with a non-positive sum insured are dropped.
func (fc *BenefitFeeCalculator) Calculate(info domain.GeneralInfo, g *domain.InsuranceGroup, code domain.BenefitCode, age int) []domain.BenefitLine {
	if !g.IsActive(code) {
		return nil
	}

	var lines []domain.BenefitLine
	for _, cl := range fc.coverLines(info, g, code) {
		if !cl.si.IsPositive() {
			continue
		}
		lines = append(lines, fc.price(code, cl, age))
	}
	return lines
}

func (fc *BenefitFeeCalculator) price(code domain.BenefitCode, cl coverLine, age int) domain.BenefitLine {
	req := rates.RateRequest{
		Cover:          cl.cover,
		Age:            age,
		Geography:      cl.geo,
		SumInsured:     cl.si,
		BandSumInsured: cl.bandSI,
	}
	base := fc.Rates.BaseRate(req)
	floor := fc.Rates.MinRate(req)

	line := domain.BenefitLine{
		Code:          code,
		Item:          cl.item,
		Label:         cl.label,
		Geography:     cl.geo,
		SumInsured:    cl.si,
		HeadCount:     cl.headCount,
		RateKey:       base.Key,
		BaseRate:      base.Rate,
		MinRate:       decimal.Zero,
		Applicable:    base.Applicable,
		Reason:        base.Reason,
		BasePerPerson: decimal.Zero,
		MinPerPerson:  decimal.Zero,
	}
	if !base.Applicable {
		return line
	}
	line.BasePerPerson = cl.si.Mul(base.Rate)
	if floor.Applicable {
		line.MinRate = floor.Rate
		line.MinPerPerson = cl.si.Mul(floor.Rate)
	}
	return line
}

func (fc *BenefitFeeCalculator) coverLines(info domain.GeneralInfo, g *domain.InsuranceGroup, code domain.BenefitCode) []coverLine {
	b := &g.Benefits
	salary := g.BasicSalary
	geo := info.Geography
	heads := g.HeadCount

	switch code {
	case domain.BenefitA:
		var out []coverLine
		if b.A.DeathDisability || b.A.PartialDisability {
			out = append(out, coverLine{
				item:  accidentMainItem("A", b.A.DeathDisability, b.A.PartialDisability),
				label: "Accidental death and disability",
				cover: rates.CoverAMain, geo: geo, headCount: heads,
				si: b.A.SumInsured.Resolve(salary),
			})
		}
		if b.A.SalaryAllowance.Selected {
			out = append(out, coverLine{
				item: "A3", label: "Accident salary allowance",
				cover: rates.CoverASalary, geo: geo, headCount: heads,
				si: b.A.SalaryAllowance.SumInsured.Resolve(salary),
			})
		}
		if b.A.Medical.Selected {
			out = append(out, coverLine{
				item: "A4", label: "Accident medical expenses",
				cover: rates.CoverAMedical, geo: geo, headCount: heads,
				si: b.A.Medical.SumInsured.Resolve(salary),
			})
		}
		return out

	case domain.BenefitB, domain.BenefitC, domain.BenefitE, domain.BenefitF:
		blk := b.Simple(code)
		return []coverLine{{
			item: string(code), label: code.Label(),
			cover: rates.Cover(code), geo: geo, headCount: heads,
			si: blk.SumInsured.Resolve(salary),
		}}

	case domain.BenefitD:
		inpatient := b.C.SumInsured.Resolve(salary)
		si := b.D.SumInsured.Resolve(salary)
		if !si.IsPositive() {
			si = inpatient
		}
		return []coverLine{{
			item: "D", label: code.Label(),
			cover: rates.CoverD, geo: geo, headCount: g.FemaleCount,
			si: si, bandSI: inpatient,
		}}

	case domain.BenefitG:
		gGeo := b.G.Geography
		if !gGeo.Valid() {
			gGeo = geo
		}
		var out []coverLine
		if b.G.Transport.Selected {
			out = append(out, coverLine{
				item: "G1", label: "Emergency transport and evacuation",
				cover: rates.CoverGTransport, geo: gGeo, headCount: heads,
				si: b.G.Transport.SumInsured.Resolve(salary),
			})
		}
		if b.G.Medical.Selected {
			out = append(out, coverLine{
				item: "G2", label: "Emergency medical assistance",
				cover: rates.CoverGMedical, geo: gGeo, headCount: heads,
				si: domain.EmergencyMedicalSumInsured,
			})
		}
		return out

	case domain.BenefitH:
		si := decimal.Zero
		if b.H.ValidMonths() {
			si = salary.Mul(decimal.NewFromInt(int64(b.H.Months)))
		}
		return []coverLine{{
			item: "H", label: code.Label(),
			cover: rates.CoverH, geo: geo, headCount: heads, si: si,
		}}

	case domain.BenefitI:
		i1 := b.I.DeathDisability && b.A.DeathDisability
		i2 := b.I.PartialDisability && b.A.PartialDisability
		var out []coverLine
		if i1 || i2 {
			out = append(out, coverLine{
				item:  accidentMainItem("I", i1, i2),
				label: "Poisoning death and disability",
				cover: rates.CoverIMain, geo: geo, headCount: heads,
				si: b.A.SumInsured.Resolve(salary),
			})
		}
		if b.I.SalaryAllowance && b.A.SalaryAllowance.Selected {
			out = append(out, coverLine{
				item: "I3", label: "Poisoning salary allowance",
				cover: rates.CoverISalary, geo: geo, headCount: heads,
				si: b.A.SalaryAllowance.SumInsured.Resolve(salary),
			})
		}
		if b.I.Medical && b.A.Medical.Selected {
			out = append(out, coverLine{
				item: "I4", label: "Poisoning medical expenses",
				cover: rates.CoverIMedical, geo: geo, headCount: heads,
				si: b.A.Medical.SumInsured.Resolve(salary),
			})
		}
		return out
	}
	return nil
}

func accidentMainItem(prefix string, death, partial bool) string {
	switch {
	case death && partial:
		return prefix + "1+" + prefix + "2"
	case death:
		return prefix + "1"
	}
	return prefix + "2"
}
