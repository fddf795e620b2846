package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleHeadCount multiplies head and gender counts of one group, or every group when Group is empty
type ScaleHeadCount struct {
	Group  string
	Factor decimal.Decimal
}

func (sh *ScaleHeadCount) Name() string {
	return "scale_headcount"
}

func (sh *ScaleHeadCount) Description() string {
	return fmt.Sprintf("Scale head count of %s by %s", groupLabel(sh.Group), sh.Factor.String())
}

func (sh *ScaleHeadCount) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(sh.Name(), "validate", "base quote cannot be nil", nil)
	}
	if !sh.Factor.IsPositive() {
		return NewTransformError(sh.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", sh.Factor.String()), nil)
	}
	if base.General.ContractType == domain.ContractIndividual {
		return NewTransformError(sh.Name(), "validate", "individual contracts always cover one person", nil)
	}
	if _, err := targetGroups(base, sh.Group); err != nil {
		return NewTransformError(sh.Name(), "validate", "unknown group", err)
	}
	return nil
}

func (sh *ScaleHeadCount) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	idx, err := targetGroups(modified, sh.Group)
	if err != nil {
		return nil, NewTransformError(sh.Name(), "apply", "unknown group", err)
	}
	for _, i := range idx {
		modified.Groups[i].ScaleHeadCount(sh.Factor)
	}
	return modified, nil
}

// SetSumInsured replaces the sum-insured basis of one cover. Target names a block
// (A-F) or a sub-cover with its own sum insured (A3, A4, G1).
type SetSumInsured struct {
	Group      string
	Target     string
	SumInsured domain.SumInsured
}

func (ss *SetSumInsured) Name() string {
	return "set_sum_insured"
}

func (ss *SetSumInsured) Description() string {
	basis := ss.SumInsured.Amount.String()
	if ss.SumInsured.Method == domain.MethodSalary {
		basis = fmt.Sprintf("%d months of salary", ss.SumInsured.SalaryMonths)
	}
	return fmt.Sprintf("Set %s sum insured of %s to %s", strings.ToUpper(ss.Target), groupLabel(ss.Group), basis)
}

func (ss *SetSumInsured) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(ss.Name(), "validate", "base quote cannot be nil", nil)
	}
	scratch := domain.Benefits{}
	if sumInsuredSlot(&scratch, ss.Target) == nil {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("%q has no sum insured of its own", ss.Target), nil)
	}
	switch ss.SumInsured.Method {
	case domain.MethodFixed, "":
		if !ss.SumInsured.Amount.IsPositive() {
			return NewTransformError(ss.Name(), "validate", "amount must be positive", nil)
		}
	case domain.MethodSalary:
		if ss.SumInsured.SalaryMonths < 1 || ss.SumInsured.SalaryMonths > domain.MaxSalaryMonths {
			return NewTransformError(ss.Name(), "validate", fmt.Sprintf("salary months must be between 1 and %d", domain.MaxSalaryMonths), nil)
		}
	default:
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("unknown method %q", ss.SumInsured.Method), nil)
	}
	if _, err := targetGroups(base, ss.Group); err != nil {
		return NewTransformError(ss.Name(), "validate", "unknown group", err)
	}
	return nil
}

func (ss *SetSumInsured) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	idx, err := targetGroups(modified, ss.Group)
	if err != nil {
		return nil, NewTransformError(ss.Name(), "apply", "unknown group", err)
	}
	for _, i := range idx {
		slot := sumInsuredSlot(&modified.Groups[i].Benefits, ss.Target)
		*slot = ss.SumInsured
	}
	return modified, nil
}

func sumInsuredSlot(b *domain.Benefits, target string) *domain.SumInsured {
	switch strings.ToUpper(strings.TrimSpace(target)) {
	case "A":
		return &b.A.SumInsured
	case "A3":
		return &b.A.SalaryAllowance.SumInsured
	case "A4":
		return &b.A.Medical.SumInsured
	case "G1":
		return &b.G.Transport.SumInsured
	}
	code, err := domain.ParseBenefitCode(target)
	if err != nil {
		return nil
	}
	if block := b.Simple(code); block != nil {
		return &block.SumInsured
	}
	return nil
}

// ToggleBenefit selects or deselects a benefit block. Deselecting cascades to the
// blocks that depend on it; selecting a dependent requires its prerequisite.
type ToggleBenefit struct {
	Group   string
	Benefit domain.BenefitCode
	Enabled bool
}

func (tb *ToggleBenefit) Name() string {
	return "toggle_benefit"
}

func (tb *ToggleBenefit) Description() string {
	verb := "Remove"
	if tb.Enabled {
		verb = "Add"
	}
	return fmt.Sprintf("%s benefit %s (%s) for %s", verb, tb.Benefit, tb.Benefit.Label(), groupLabel(tb.Group))
}

func (tb *ToggleBenefit) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(tb.Name(), "validate", "base quote cannot be nil", nil)
	}
	if _, err := domain.ParseBenefitCode(string(tb.Benefit)); err != nil {
		return NewTransformError(tb.Name(), "validate", "unknown benefit", err)
	}
	idx, err := targetGroups(base, tb.Group)
	if err != nil {
		return NewTransformError(tb.Name(), "validate", "unknown group", err)
	}
	if pre := tb.Benefit.Prerequisite(); tb.Enabled && pre != "" {
		for _, i := range idx {
			if !base.Groups[i].Benefits.Selected(pre) {
				return NewTransformError(tb.Name(), "validate",
					fmt.Sprintf("benefit %s requires %s in group %s", tb.Benefit, pre, base.Groups[i].DisplayName()), nil)
			}
		}
	}
	return nil
}

func (tb *ToggleBenefit) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	idx, err := targetGroups(modified, tb.Group)
	if err != nil {
		return nil, NewTransformError(tb.Name(), "apply", "unknown group", err)
	}
	for _, i := range idx {
		b := &modified.Groups[i].Benefits
		if tb.Enabled {
			enable(b, tb.Benefit)
		} else {
			disable(b, tb.Benefit)
		}
	}
	return modified, nil
}

// enable selects a block and picks sensible sub-items when none are chosen yet
func enable(b *domain.Benefits, code domain.BenefitCode) {
	b.SetSelected(code, true)
	switch code {
	case domain.BenefitA:
		if !b.A.DeathDisability && !b.A.PartialDisability && !b.A.SalaryAllowance.Selected && !b.A.Medical.Selected {
			b.A.DeathDisability = true
		}
	case domain.BenefitG:
		if !b.G.Transport.Selected && !b.G.Medical.Selected {
			b.G.Medical.Selected = true
		}
	case domain.BenefitI:
		if !b.I.DeathDisability && !b.I.PartialDisability && !b.I.SalaryAllowance && !b.I.Medical {
			b.I.DeathDisability = b.A.DeathDisability
			b.I.PartialDisability = b.A.PartialDisability
			b.I.SalaryAllowance = b.A.SalaryAllowance.Selected
			b.I.Medical = b.A.Medical.Selected
		}
	}
}

func disable(b *domain.Benefits, code domain.BenefitCode) {
	b.SetSelected(code, false)
	for _, dep := range domain.BenefitCodes() {
		if dep.Prerequisite() == code && b.Selected(dep) {
			disable(b, dep)
		}
	}
}

func groupLabel(selector string) string {
	if selector == "" {
		return "all groups"
	}
	return "group " + selector
}
