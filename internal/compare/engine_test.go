package compare

import (
	"context"
	"testing"
	"time"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompareEngine() *CompareEngine {
	calc := calculation.NewCalculationEngine()
	calc.Now = func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) }
	return NewCompareEngine(calc)
}

// Group of 20, age 35, inpatient cover at 60M, loss ratio 25% with continuous renewal
func staffQuote() *domain.Quote {
	return &domain.Quote{
		Name: "staff",
		General: domain.GeneralInfo{
			ContractType: domain.ContractGroup,
			Geography:    domain.GeographyVietnam,
			Duration:     domain.DurationOver9Months,
			LossRatio:    decimal.NewFromInt(25),
			Renewal:      domain.RenewalContinuous,
		},
		Groups: []domain.InsuranceGroup{{
			ID: "staff", HeadCount: 20, AverageAge: 35, MaleCount: 12, FemaleCount: 8,
			Benefits: domain.Benefits{
				C: domain.SimpleBenefit{Selected: true, SumInsured: domain.FixedSumInsured(60_000_000)},
			},
		}},
	}
}

func TestCompareEngine_Compare_Templates(t *testing.T) {
	ce := testCompareEngine()

	compSet, err := ce.Compare(context.Background(), staffQuote(), nil, CompareOptions{
		Templates: []string{"copay_20", "high_claims", "no_outpatient"},
		QuotePath: "staff.yaml",
	})
	require.NoError(t, err)

	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, "staff", compSet.BaseQuoteName)
	assert.Equal(t, "staff.yaml", compSet.QuotePath)
	assert.True(t, compSet.BaseResult.FinalPremium.Equal(decimal.NewFromInt(16174080)))
	assert.Equal(t, 20, compSet.BaseResult.HeadCount)
	assert.True(t, compSet.BaseResult.PremiumPerHead.Equal(decimal.NewFromInt(808704)))
	assert.Equal(t, "C", compSet.BaseResult.Benefits)

	require.Len(t, compSet.AlternativeResults, 3)

	copay := compSet.AlternativeResults[0]
	assert.Equal(t, "staff_copay_20", copay.QuoteName)
	assert.Equal(t, domain.CoPay(20), copay.CoPay)
	assert.NotEmpty(t, copay.Description)
	assert.True(t, copay.PremiumDiffFromBase.IsNegative(), "co-pay lowers the premium")
	assert.True(t, copay.PremiumPctFromBase.IsNegative())

	claims := compSet.AlternativeResults[1]
	assert.True(t, claims.PremiumDiffFromBase.IsPositive(), "a high loss ratio loads the premium")

	// No outpatient or dental cover in the base, so nothing changes
	same := compSet.AlternativeResults[2]
	assert.True(t, same.PremiumDiffFromBase.IsZero())

	require.NotEmpty(t, compSet.Recommendations)
	assert.Contains(t, compSet.Recommendations[0], "Lowest Premium: staff_copay_20")
}

func TestCompareEngine_Compare_CustomTransforms(t *testing.T) {
	ce := testCompareEngine()

	compSet, err := ce.Compare(context.Background(), staffQuote(), nil, CompareOptions{
		Transforms: []string{"set_copay:level=10", "scale_headcount:factor=2"},
	})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)

	custom := compSet.AlternativeResults[0]
	assert.Equal(t, "staff_custom", custom.QuoteName)
	assert.Equal(t, 40, custom.HeadCount)
	assert.Contains(t, custom.Description, "co-payment")
	assert.Contains(t, custom.Description, "; ")
}

func TestCompareEngine_Compare_Errors(t *testing.T) {
	ce := testCompareEngine()
	ctx := context.Background()

	_, err := ce.Compare(ctx, nil, nil, CompareOptions{})
	assert.Error(t, err)

	_, err = ce.Compare(ctx, staffQuote(), nil, CompareOptions{Templates: []string{"nope"}})
	assert.ErrorContains(t, err, "template nope not found")

	_, err = ce.Compare(ctx, staffQuote(), nil, CompareOptions{Transforms: []string{"set_copay"}})
	assert.ErrorContains(t, err, "invalid transform")

	_, err = ce.Compare(ctx, staffQuote(), nil, CompareOptions{Transforms: []string{"set_copay:level=15"}})
	assert.ErrorContains(t, err, "failed to apply transforms")

	bad := staffQuote()
	bad.General.Duration = "forever"
	_, err = ce.Compare(ctx, bad, nil, CompareOptions{})
	assert.ErrorContains(t, err, "failed to calculate base quote")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ce.Compare(cancelled, staffQuote(), nil, CompareOptions{Templates: []string{"copay_10"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareEngine_CompareQuotes(t *testing.T) {
	ce := testCompareEngine()

	bigger := staffQuote()
	bigger.Name = ""
	bigger.Groups[0].Benefits.C.SumInsured = domain.FixedSumInsured(200_000_000)

	compSet, err := ce.CompareQuotes(context.Background(), staffQuote(), []*domain.Quote{bigger}, nil)
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)

	alt := compSet.AlternativeResults[0]
	assert.Equal(t, "alternative_1", alt.QuoteName)
	assert.True(t, alt.PremiumDiffFromBase.IsPositive())
	assert.Empty(t, compSet.Recommendations, "no cheaper alternative, no floor, all exportable")

	_, err = ce.CompareQuotes(context.Background(), staffQuote(), []*domain.Quote{nil}, nil)
	assert.ErrorContains(t, err, "index 0 is nil")
}
