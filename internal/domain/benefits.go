package domain

import (
	"github.com/shopspring/decimal"
)

// MaxSalaryMonths caps the salary multiple used for salary-based sums insured
const MaxSalaryMonths = 30

// IncomeLossMonths are the only month counts accepted for benefit H
var IncomeLossMonths = []int{3, 6, 9, 12}

// EmergencyMedicalSumInsured is the fixed sum insured of G's medical sub-part
var EmergencyMedicalSumInsured = decimal.NewFromInt(100_000_000)

// SumInsured describes how the coverage limit of a benefit is obtained
type SumInsured struct {
	Method       SumInsuredMethod `yaml:"method,omitempty" json:"method,omitempty"`
	Amount       decimal.Decimal  `yaml:"amount,omitempty" json:"amount,omitempty"`
	SalaryMonths int              `yaml:"salary_months,omitempty" json:"salaryMonths,omitempty"`
}

// FixedSumInsured is shorthand for a fixed amount basis
func FixedSumInsured(amount int64) SumInsured {
	return SumInsured{Method: MethodFixed, Amount: decimal.NewFromInt(amount)}
}

// SalarySumInsured is shorthand for a salary multiple basis
func SalarySumInsured(months int) SumInsured {
	return SumInsured{Method: MethodSalary, SalaryMonths: months}
}

// Resolve returns the sum insured for the given basic salary.
// Negative results and unknown methods resolve to zero.
func (s SumInsured) Resolve(basicSalary decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch s.Method {
	case MethodSalary:
		months := s.SalaryMonths
		if months > MaxSalaryMonths {
			months = MaxSalaryMonths
		}
		if months <= 0 {
			return decimal.Zero
		}
		amount = basicSalary.Mul(decimal.NewFromInt(int64(months)))
	case MethodFixed, "":
		amount = s.Amount
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// SubCover is an independently selectable part of a benefit with its own sum insured
type SubCover struct {
	Selected   bool       `yaml:"selected" json:"selected"`
	SumInsured SumInsured `yaml:"sum_insured,omitempty" json:"sumInsured,omitempty"`
}

// AccidentBenefit is block A. A1 and A2 share the main sum insured, A3 and A4 carry their own.
type AccidentBenefit struct {
	Selected          bool       `yaml:"selected" json:"selected"`
	Geography         Geography  `yaml:"geography,omitempty" json:"geography,omitempty"`
	SumInsured        SumInsured `yaml:"sum_insured,omitempty" json:"sumInsured,omitempty"`
	DeathDisability   bool       `yaml:"death_disability" json:"deathDisability"`     // A1
	PartialDisability bool       `yaml:"partial_disability" json:"partialDisability"` // A2
	SalaryAllowance   SubCover   `yaml:"salary_allowance" json:"salaryAllowance"`     // A3
	Medical           SubCover   `yaml:"medical" json:"medical"`                      // A4
}

// SimpleBenefit covers the blocks priced on a single sum insured (B, C, D, E, F)
type SimpleBenefit struct {
	Selected   bool       `yaml:"selected" json:"selected"`
	Geography  Geography  `yaml:"geography,omitempty" json:"geography,omitempty"`
	SumInsured SumInsured `yaml:"sum_insured,omitempty" json:"sumInsured,omitempty"`
}

// EmergencyBenefit is block G. It is the only block whose geography may differ from the policy.
type EmergencyBenefit struct {
	Selected  bool      `yaml:"selected" json:"selected"`
	Geography Geography `yaml:"geography,omitempty" json:"geography,omitempty"`
	Transport SubCover  `yaml:"transport" json:"transport"`
	Medical   SubCover  `yaml:"medical" json:"medical"`
}

// IncomeLossBenefit is block H, always salary based
type IncomeLossBenefit struct {
	Selected   bool            `yaml:"selected" json:"selected"`
	Geography  Geography       `yaml:"geography,omitempty" json:"geography,omitempty"`
	Months     int             `yaml:"months" json:"months"`
	SumInsured decimal.Decimal `yaml:"-" json:"sumInsured"`
}

// ValidMonths reports whether Months is one of IncomeLossMonths
func (h IncomeLossBenefit) ValidMonths() bool {
	for _, m := range IncomeLossMonths {
		if h.Months == m {
			return true
		}
	}
	return false
}

// PoisoningBenefit is block I. Each sub-item mirrors the matching A sub-item and inherits its sum insured.
type PoisoningBenefit struct {
	Selected          bool      `yaml:"selected" json:"selected"`
	Geography         Geography `yaml:"geography,omitempty" json:"geography,omitempty"`
	DeathDisability   bool      `yaml:"death_disability" json:"deathDisability"`     // I1
	PartialDisability bool      `yaml:"partial_disability" json:"partialDisability"` // I2
	SalaryAllowance   bool      `yaml:"salary_allowance" json:"salaryAllowance"`     // I3
	Medical           bool      `yaml:"medical" json:"medical"`                      // I4
}

// Benefits holds the nine benefit blocks of a group
type Benefits struct {
	A AccidentBenefit   `yaml:"a" json:"a"`
	B SimpleBenefit     `yaml:"b" json:"b"`
	C SimpleBenefit     `yaml:"c" json:"c"`
	D SimpleBenefit     `yaml:"d" json:"d"`
	E SimpleBenefit     `yaml:"e" json:"e"`
	F SimpleBenefit     `yaml:"f" json:"f"`
	G EmergencyBenefit  `yaml:"g" json:"g"`
	H IncomeLossBenefit `yaml:"h" json:"h"`
	I PoisoningBenefit  `yaml:"i" json:"i"`
}

// Selected returns the raw selection flag of a block, ignoring prerequisites
func (b *Benefits) Selected(code BenefitCode) bool {
	switch code {
	case BenefitA:
		return b.A.Selected
	case BenefitB:
		return b.B.Selected
	case BenefitC:
		return b.C.Selected
	case BenefitD:
		return b.D.Selected
	case BenefitE:
		return b.E.Selected
	case BenefitF:
		return b.F.Selected
	case BenefitG:
		return b.G.Selected
	case BenefitH:
		return b.H.Selected
	case BenefitI:
		return b.I.Selected
	}
	return false
}

// SetSelected flips the raw selection flag of a block. Call Normalize afterwards to cascade.
func (b *Benefits) SetSelected(code BenefitCode, selected bool) {
	switch code {
	case BenefitA:
		b.A.Selected = selected
	case BenefitB:
		b.B.Selected = selected
	case BenefitC:
		b.C.Selected = selected
	case BenefitD:
		b.D.Selected = selected
	case BenefitE:
		b.E.Selected = selected
	case BenefitF:
		b.F.Selected = selected
	case BenefitG:
		b.G.Selected = selected
	case BenefitH:
		b.H.Selected = selected
	case BenefitI:
		b.I.Selected = selected
	}
}

// Simple returns a pointer to the single-sum block for B, C, D, E or F, nil otherwise
func (b *Benefits) Simple(code BenefitCode) *SimpleBenefit {
	switch code {
	case BenefitB:
		return &b.B
	case BenefitC:
		return &b.C
	case BenefitD:
		return &b.D
	case BenefitE:
		return &b.E
	case BenefitF:
		return &b.F
	}
	return nil
}
