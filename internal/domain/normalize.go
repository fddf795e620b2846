package domain

import "github.com/shopspring/decimal"

// Normalize returns a fully consistent copy of g. Dependents of deselected blocks are
// switched off, block geographies follow the policy (G excepted), derived sums insured
// are recomputed and head counts are made coherent with the contract type.
// The input is never modified.
func Normalize(info GeneralInfo, g InsuranceGroup) InsuranceGroup {
	n := *g.DeepCopy()

	normalizeHeadCounts(info, &n)

	b := &n.Benefits

	if !b.A.Selected {
		b.A.DeathDisability = false
		b.A.PartialDisability = false
		b.A.SalaryAllowance.Selected = false
		b.A.Medical.Selected = false
		b.I.Selected = false
	}
	if !b.I.Selected {
		b.I.DeathDisability = false
		b.I.PartialDisability = false
		b.I.SalaryAllowance = false
		b.I.Medical = false
	}
	b.I.DeathDisability = b.I.DeathDisability && b.A.DeathDisability
	b.I.PartialDisability = b.I.PartialDisability && b.A.PartialDisability
	b.I.SalaryAllowance = b.I.SalaryAllowance && b.A.SalaryAllowance.Selected
	b.I.Medical = b.I.Medical && b.A.Medical.Selected
	if !(b.I.DeathDisability || b.I.PartialDisability || b.I.SalaryAllowance || b.I.Medical) {
		b.I.Selected = false
	}

	if !b.C.Selected {
		b.D.Selected = false
		b.E.Selected = false
		b.F.Selected = false
		b.G.Selected = false
		b.H.Selected = false
	}
	if n.FemaleCount <= 0 {
		b.D.Selected = false
	}
	if !b.G.Selected {
		b.G.Transport.Selected = false
		b.G.Medical.Selected = false
	}

	geo := info.Geography
	b.A.Geography = geo
	b.B.Geography = geo
	b.C.Geography = geo
	b.D.Geography = geo
	b.E.Geography = geo
	b.F.Geography = geo
	b.H.Geography = geo
	b.I.Geography = geo
	if !b.G.Geography.Valid() {
		b.G.Geography = geo
	}

	b.G.Medical.SumInsured = SumInsured{Method: MethodFixed, Amount: EmergencyMedicalSumInsured}

	if b.H.Selected && b.H.ValidMonths() && n.BasicSalary.IsPositive() {
		b.H.SumInsured = n.BasicSalary.Mul(decimal.NewFromInt(int64(b.H.Months)))
	} else {
		b.H.SumInsured = decimal.Zero
	}

	return n
}

func normalizeHeadCounts(info GeneralInfo, g *InsuranceGroup) {
	if info.ContractType == ContractIndividual {
		g.HeadCount = 1
		g.MaleCount, g.FemaleCount = 0, 0
		switch g.Gender {
		case GenderFemale:
			g.FemaleCount = 1
		case GenderMale:
			g.MaleCount = 1
		}
		return
	}

	if g.MaleCount < 0 {
		g.MaleCount = 0
	}
	if g.FemaleCount < 0 {
		g.FemaleCount = 0
	}
	if g.HeadCount < 1 {
		g.HeadCount = g.MaleCount + g.FemaleCount
	}
	if g.FemaleCount > g.HeadCount {
		g.FemaleCount = g.HeadCount
	}
}

// NormalizeQuote applies Normalize to every group and returns a new quote
func NormalizeQuote(q *Quote) *Quote {
	out := q.DeepCopy()
	for i := range out.Groups {
		out.Groups[i] = Normalize(out.General, out.Groups[i])
	}
	return out
}
