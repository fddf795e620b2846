package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GeneralInfo holds the policy-level parameters shared by every group of a quote
type GeneralInfo struct {
	ProductID    string          `yaml:"product_id,omitempty" json:"productId,omitempty"`
	ContractType ContractType    `yaml:"contract_type" json:"contractType"`
	Geography    Geography       `yaml:"geography" json:"geography"`
	Duration     Duration        `yaml:"duration" json:"duration"`
	CoPay        CoPay           `yaml:"co_pay" json:"coPay"`
	LossRatio    decimal.Decimal `yaml:"loss_ratio" json:"lossRatio"` // prior-year claims over premium, in percent
	Renewal      RenewalStatus   `yaml:"renewal" json:"renewal"`
}

// Validate checks that every enumerated field carries a known value
func (gi GeneralInfo) Validate() error {
	if !gi.ContractType.Valid() {
		return fmt.Errorf("invalid contract type %q", gi.ContractType)
	}
	if !gi.Geography.Valid() {
		return fmt.Errorf("invalid geography %q", gi.Geography)
	}
	if !gi.Duration.Valid() {
		return fmt.Errorf("invalid duration %q", gi.Duration)
	}
	if !gi.CoPay.Valid() {
		return fmt.Errorf("invalid co-pay level %d", gi.CoPay)
	}
	if gi.LossRatio.IsNegative() {
		return fmt.Errorf("loss ratio cannot be negative, got %s", gi.LossRatio.String())
	}
	if !gi.Renewal.Valid() {
		return fmt.Errorf("invalid renewal status %q", gi.Renewal)
	}
	return nil
}

// InsuranceGroup is one insured group. An individual contract has exactly one group of size one.
type InsuranceGroup struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	HeadCount   int             `yaml:"head_count" json:"headCount"`
	AverageAge  int             `yaml:"average_age" json:"averageAge"`
	BirthDate   *time.Time      `yaml:"birth_date,omitempty" json:"birthDate,omitempty"`
	Gender      Gender          `yaml:"gender,omitempty" json:"gender,omitempty"`
	MaleCount   int             `yaml:"male_count" json:"maleCount"`
	FemaleCount int             `yaml:"female_count" json:"femaleCount"`
	BasicSalary decimal.Decimal `yaml:"basic_salary" json:"basicSalary"`
	Benefits    Benefits        `yaml:"benefits" json:"benefits"`
}

// DeepCopy returns a copy that shares no pointers with g
func (g *InsuranceGroup) DeepCopy() *InsuranceGroup {
	if g == nil {
		return nil
	}
	c := *g
	if g.BirthDate != nil {
		bd := *g.BirthDate
		c.BirthDate = &bd
	}
	return &c
}

// DisplayName returns the name, falling back to the id
func (g *InsuranceGroup) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// IsActive reports whether a block contributes to the premium: it must be selected and every
// prerequisite in the dependency graph must hold, regardless of stale flags on dependents.
func (g *InsuranceGroup) IsActive(code BenefitCode) bool {
	if !g.Benefits.Selected(code) {
		return false
	}
	if pre := code.Prerequisite(); pre != "" && !g.IsActive(pre) {
		return false
	}
	if code == BenefitD && g.FemaleCount <= 0 {
		return false
	}
	return true
}

// HasMainBenefit reports whether at least one of A, B or C is selected
func (g *InsuranceGroup) HasMainBenefit() bool {
	for _, code := range MainBenefits() {
		if g.Benefits.Selected(code) {
			return true
		}
	}
	return false
}

// ScaleSumsInsured multiplies every fixed sum insured and the basic salary by factor.
// The fixed G-medical sum insured is left alone.
func (g *InsuranceGroup) ScaleSumsInsured(factor decimal.Decimal) {
	scale := func(si *SumInsured) {
		si.Amount = si.Amount.Mul(factor)
	}
	b := &g.Benefits
	scale(&b.A.SumInsured)
	scale(&b.A.SalaryAllowance.SumInsured)
	scale(&b.A.Medical.SumInsured)
	for _, code := range []BenefitCode{BenefitB, BenefitC, BenefitD, BenefitE, BenefitF} {
		scale(&b.Simple(code).SumInsured)
	}
	scale(&b.G.Transport.SumInsured)
	g.BasicSalary = g.BasicSalary.Mul(factor)
}

// ScaleHeadCount multiplies the head and gender counts by factor, keeping at least one person
func (g *InsuranceGroup) ScaleHeadCount(factor decimal.Decimal) {
	scale := func(n int) int {
		return int(decimal.NewFromInt(int64(n)).Mul(factor).Round(0).IntPart())
	}
	g.HeadCount = scale(g.HeadCount)
	if g.HeadCount < 1 {
		g.HeadCount = 1
	}
	g.MaleCount = scale(g.MaleCount)
	g.FemaleCount = scale(g.FemaleCount)
	if g.FemaleCount > g.HeadCount {
		g.FemaleCount = g.HeadCount
	}
	if g.MaleCount+g.FemaleCount > g.HeadCount {
		g.MaleCount = g.HeadCount - g.FemaleCount
	}
}

// Quote is a complete premium request: policy parameters plus the insured groups
type Quote struct {
	Name    string           `yaml:"name,omitempty" json:"name,omitempty"`
	General GeneralInfo      `yaml:"general" json:"general"`
	Groups  []InsuranceGroup `yaml:"groups" json:"groups"`
}

// DeepCopy returns an independent copy of the quote
func (q *Quote) DeepCopy() *Quote {
	if q == nil {
		return nil
	}
	c := &Quote{
		Name:    q.Name,
		General: q.General,
		Groups:  make([]InsuranceGroup, len(q.Groups)),
	}
	for i := range q.Groups {
		c.Groups[i] = *q.Groups[i].DeepCopy()
	}
	return c
}

// FindGroup returns the group with the given id or name
func (q *Quote) FindGroup(idOrName string) (*InsuranceGroup, bool) {
	for i := range q.Groups {
		if q.Groups[i].ID == idOrName || q.Groups[i].Name == idOrName {
			return &q.Groups[i], true
		}
	}
	return nil, false
}

// TotalHeadCount sums head counts over all groups
func (q *Quote) TotalHeadCount() int {
	total := 0
	for i := range q.Groups {
		total += q.Groups[i].HeadCount
	}
	return total
}
