package transform

import (
	"fmt"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// SetCoPay changes the co-payment level of the policy
type SetCoPay struct {
	Level domain.CoPay
}

func (sc *SetCoPay) Name() string {
	return "set_copay"
}

func (sc *SetCoPay) Description() string {
	return fmt.Sprintf("Set co-payment to %d%%", sc.Level)
}

func (sc *SetCoPay) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(sc.Name(), "validate", "base quote cannot be nil", nil)
	}
	if !sc.Level.Valid() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("co-pay must be one of %v, got %d", domain.CoPayLevels(), sc.Level), nil)
	}
	return nil
}

func (sc *SetCoPay) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	modified.General.CoPay = sc.Level
	return modified, nil
}

// SetDuration changes the insurance period band
type SetDuration struct {
	Duration domain.Duration
}

func (sd *SetDuration) Name() string {
	return "set_duration"
}

func (sd *SetDuration) Description() string {
	return fmt.Sprintf("Set insurance duration to %s", sd.Duration)
}

func (sd *SetDuration) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(sd.Name(), "validate", "base quote cannot be nil", nil)
	}
	if !sd.Duration.Valid() {
		return NewTransformError(sd.Name(), "validate", fmt.Sprintf("unknown duration %q", sd.Duration), nil)
	}
	return nil
}

func (sd *SetDuration) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	modified.General.Duration = sd.Duration
	return modified, nil
}

// SetLossRatio replaces the prior-year loss ratio (percent)
type SetLossRatio struct {
	LossRatio decimal.Decimal
}

func (sl *SetLossRatio) Name() string {
	return "set_loss_ratio"
}

func (sl *SetLossRatio) Description() string {
	return fmt.Sprintf("Set prior-year loss ratio to %s%%", sl.LossRatio.String())
}

func (sl *SetLossRatio) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(sl.Name(), "validate", "base quote cannot be nil", nil)
	}
	if sl.LossRatio.IsNegative() {
		return NewTransformError(sl.Name(), "validate", fmt.Sprintf("loss ratio must be non-negative, got %s", sl.LossRatio.String()), nil)
	}
	return nil
}

func (sl *SetLossRatio) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	modified.General.LossRatio = sl.LossRatio
	return modified, nil
}

// SetRenewal switches between continuous and non-continuous renewal
type SetRenewal struct {
	Status domain.RenewalStatus
}

func (sr *SetRenewal) Name() string {
	return "set_renewal"
}

func (sr *SetRenewal) Description() string {
	return fmt.Sprintf("Set renewal status to %s", sr.Status)
}

func (sr *SetRenewal) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base quote cannot be nil", nil)
	}
	if !sr.Status.Valid() {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("unknown renewal status %q", sr.Status), nil)
	}
	return nil
}

func (sr *SetRenewal) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	modified.General.Renewal = sr.Status
	return modified, nil
}

// SetGeography changes the policy geography. Benefit G keeps its own scope.
type SetGeography struct {
	Geography domain.Geography
}

func (sg *SetGeography) Name() string {
	return "set_geography"
}

func (sg *SetGeography) Description() string {
	return fmt.Sprintf("Set policy geography to %s", sg.Geography)
}

func (sg *SetGeography) Validate(base *domain.Quote) error {
	if base == nil {
		return NewTransformError(sg.Name(), "validate", "base quote cannot be nil", nil)
	}
	if !sg.Geography.Valid() {
		return NewTransformError(sg.Name(), "validate", fmt.Sprintf("unknown geography %q", sg.Geography), nil)
	}
	return nil
}

func (sg *SetGeography) Apply(base *domain.Quote) (*domain.Quote, error) {
	modified := base.DeepCopy()
	modified.General.Geography = sg.Geography
	return modified, nil
}
