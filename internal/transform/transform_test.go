package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// Helper function to create a basic two-group quote
func createTestQuote() *domain.Quote {
	return &domain.Quote{
		Name: "Test Quote",
		General: domain.GeneralInfo{
			ContractType: domain.ContractGroup,
			Geography:    domain.GeographyVietnam,
			Duration:     domain.DurationOver9Months,
			CoPay:        0,
			LossRatio:    decimal.NewFromInt(50),
			Renewal:      domain.RenewalNonContinuous,
		},
		Groups: []domain.InsuranceGroup{
			{
				ID:          "office",
				Name:        "Office",
				HeadCount:   20,
				AverageAge:  35,
				MaleCount:   10,
				FemaleCount: 10,
				BasicSalary: decimal.NewFromInt(10_000_000),
				Benefits: domain.Benefits{
					A: domain.AccidentBenefit{Selected: true, SumInsured: domain.FixedSumInsured(100_000_000), DeathDisability: true},
					C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)},
					D: domain.SimpleBenefit{Selected: true},
					E: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(10_000_000)},
				},
			},
			{
				ID:          "factory",
				Name:        "Factory",
				HeadCount:   40,
				AverageAge:  42,
				MaleCount:   30,
				FemaleCount: 10,
				BasicSalary: decimal.NewFromInt(8_000_000),
				Benefits: domain.Benefits{
					A: domain.AccidentBenefit{Selected: true, SumInsured: domain.SalarySumInsured(12), DeathDisability: true, PartialDisability: true},
					C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(40_000_000)},
				},
			},
		},
	}
}

func TestApplyTransforms_NilQuote(t *testing.T) {
	transforms := []QuoteTransform{&SetCoPay{Level: 10}}

	_, err := ApplyTransforms(nil, transforms)
	if err == nil {
		t.Error("Expected error for nil base quote")
	}
}

func TestApplyTransforms_NoTransforms(t *testing.T) {
	base := createTestQuote()

	result, err := ApplyTransforms(base, []QuoteTransform{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result == base {
		t.Error("Expected a copy, got the same pointer")
	}
	if result.Name != base.Name {
		t.Errorf("Expected name %s, got %s", base.Name, result.Name)
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestQuote(), []QuoteTransform{nil})
	if err == nil {
		t.Error("Expected error for nil transform")
	}
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestQuote()
	transforms := []QuoteTransform{
		&SetCoPay{Level: 20},
		&SetDuration{Duration: domain.DurationUpTo6Months},
		&ToggleBenefit{Group: "office", Benefit: domain.BenefitE, Enabled: false},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.General.CoPay != 20 {
		t.Errorf("Expected co-pay 20, got %d", result.General.CoPay)
	}
	if result.General.Duration != domain.DurationUpTo6Months {
		t.Errorf("Expected duration %s, got %s", domain.DurationUpTo6Months, result.General.Duration)
	}
	if result.Groups[0].Benefits.E.Selected {
		t.Error("Expected E to be deselected in office group")
	}

	// The base must be untouched
	if base.General.CoPay != 0 || !base.Groups[0].Benefits.E.Selected {
		t.Error("ApplyTransforms modified the base quote")
	}
}

func TestApplyTransforms_ValidationFailureStopsChain(t *testing.T) {
	transforms := []QuoteTransform{
		&SetCoPay{Level: 20},
		&SetCoPay{Level: 25},
	}

	_, err := ApplyTransforms(createTestQuote(), transforms)
	if err == nil {
		t.Fatal("Expected validation error for co-pay 25")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError in chain, got %T", err)
	}
	if te.TransformName != "set_copay" {
		t.Errorf("Expected set_copay, got %s", te.TransformName)
	}
}

func TestPolicyTransforms(t *testing.T) {
	base := createTestQuote()

	tests := []struct {
		name      string
		transform QuoteTransform
		check     func(q *domain.Quote) bool
	}{
		{"copay", &SetCoPay{Level: 30}, func(q *domain.Quote) bool { return q.General.CoPay == 30 }},
		{"duration", &SetDuration{Duration: domain.DurationUpTo3Months}, func(q *domain.Quote) bool { return q.General.Duration == domain.DurationUpTo3Months }},
		{"loss ratio", &SetLossRatio{LossRatio: decimal.NewFromInt(90)}, func(q *domain.Quote) bool { return q.General.LossRatio.Equal(decimal.NewFromInt(90)) }},
		{"renewal", &SetRenewal{Status: domain.RenewalContinuous}, func(q *domain.Quote) bool { return q.General.Renewal == domain.RenewalContinuous }},
		{"geography", &SetGeography{Geography: domain.GeographyGlobal}, func(q *domain.Quote) bool { return q.General.Geography == domain.GeographyGlobal }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.transform.Validate(base); err != nil {
				t.Fatalf("Unexpected validation error: %v", err)
			}
			result, err := tt.transform.Apply(base)
			if err != nil {
				t.Fatalf("Unexpected apply error: %v", err)
			}
			if !tt.check(result) {
				t.Errorf("%s did not take effect", tt.transform.Description())
			}
		})
	}
}

func TestPolicyTransforms_InvalidValues(t *testing.T) {
	base := createTestQuote()

	invalid := []QuoteTransform{
		&SetCoPay{Level: 15},
		&SetDuration{Duration: "two_years"},
		&SetLossRatio{LossRatio: decimal.NewFromInt(-1)},
		&SetRenewal{Status: "sometimes"},
		&SetGeography{Geography: "mars"},
	}

	for _, tr := range invalid {
		if err := tr.Validate(base); err == nil {
			t.Errorf("Expected validation error for %s", tr.Description())
		}
		if err := tr.Validate(nil); err == nil {
			t.Errorf("Expected nil-base error for %s", tr.Name())
		}
	}
}

func TestTransformError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransformError("set_copay", "apply", "failed", inner)

	if !errors.Is(err, inner) {
		t.Error("Expected TransformError to unwrap to inner error")
	}
	if err.Error() != "transform set_copay (apply): failed: boom" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	bare := NewTransformError("set_copay", "validate", "bad level", nil)
	if bare.Error() != "transform set_copay (validate): bad level" {
		t.Errorf("Unexpected message: %s", bare.Error())
	}
}
