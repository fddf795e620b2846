package components

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/hiquote/internal/compare"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSlider_Range(t *testing.T) {
	s := NewParameterSlider("loss_ratio", "Loss ratio", 47, 0, 200, 5).WithUnit("%")

	assert.Equal(t, 45.0, s.Value, "snaps to the step grid")
	assert.Equal(t, "45%", s.DisplayValue())

	assert.True(t, s.Increment())
	assert.Equal(t, 50.0, s.Value)

	s.SetValue(500)
	assert.Equal(t, 200.0, s.Value)
	assert.False(t, s.Increment(), "cannot move past max")
	assert.InDelta(t, 1.0, s.Percentage(), 1e-9)

	s.SetValue(0)
	assert.False(t, s.Decrement(), "cannot move below min")
}

func TestParameterSlider_FractionalSteps(t *testing.T) {
	s := NewParameterSlider("headcount_factor", "Head count", 100, 50, 200, 10)
	for i := 0; i < 10; i++ {
		s.Increment()
	}
	assert.Equal(t, 200.0, s.Value)
}

func TestParameterSlider_Choices(t *testing.T) {
	s := NewChoiceSlider("duration", "Duration", []string{"a", "b", "c"}, 1)

	assert.Equal(t, "b", s.Choice())
	assert.True(t, s.Increment())
	assert.Equal(t, "c", s.Choice())
	assert.False(t, s.Increment())
	assert.Equal(t, 2, s.Index())

	out := s.SetFocused(true).Render()
	assert.Contains(t, out, "Duration")
	assert.Contains(t, out, "c")
}

func TestChange(t *testing.T) {
	card := NewPremiumCard("Final", decimal.NewFromInt(9_000_000)).
		WithChange(decimal.NewFromInt(9_000_000), decimal.NewFromInt(10_000_000))

	require.NotNil(t, card.Change)
	assert.True(t, card.Change.Favorable())
	assert.True(t, card.Change.Percent.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, "-1.00M (-10.0%)", card.Change.String())

	up := Change{Amount: decimal.NewFromInt(500_000), Percent: decimal.NewFromFloat(2.5)}
	assert.False(t, up.Favorable())
	assert.Equal(t, "+500K (+2.5%)", up.String())

	noRef := NewMetricCard("x", "y").WithChange(decimal.NewFromInt(1), decimal.Zero)
	assert.Nil(t, noRef.Change)
}

func TestMetricCard_Render(t *testing.T) {
	card := NewPremiumCard("Final premium", decimal.NewFromInt(16174080)).WithDescription("per year")

	out := card.Render()
	assert.Contains(t, out, "Final premium")
	assert.Contains(t, out, "16,174,080 VND")
	assert.Contains(t, out, "per year")

	grid := MetricGrid([]*MetricCard{card, NewMetricCard("Insured", "20")}, 2)
	assert.Contains(t, grid, "Insured")
}

func TestBarChart_Lengths(t *testing.T) {
	c := NewBarChart("Groups").WithSize(20, 10).
		Add("staff", decimal.NewFromInt(1000), false).
		Add("managers", decimal.NewFromInt(500), true).
		Add("tiny", decimal.NewFromInt(1), false).
		Add("none", decimal.Zero, false)

	assert.Equal(t, []int{20, 10, 1, 0}, c.Lengths())

	out := c.Render()
	assert.Contains(t, out, "Groups")
	assert.Contains(t, out, "staff")
}

func TestBarChart_Empty(t *testing.T) {
	assert.Contains(t, NewBarChart("x").Render(), "No data")
	assert.Equal(t, []int{0}, NewBarChart("x").Add("zero", decimal.Zero, false).Lengths())
}

func TestAlternativeCard(t *testing.T) {
	base := compare.ComparisonResult{
		QuoteName:    "staff",
		FinalPremium: decimal.NewFromInt(16174080),
		HeadCount:    20,
		CoPay:        0,
		Duration:     "over_9_months",
		Geography:    "vietnam",
		LossRatio:    decimal.NewFromInt(25),
		Renewal:      "continuous",
		Benefits:     "C",
		Exportable:   true,
	}
	alt := base
	alt.QuoteName = "staff (co-pay 20%)"
	alt.CoPay = 20
	alt.FloorApplied = true
	alt.Exportable = false
	alt.ErrorCount = 1

	highlights := NewAlternativeCard(alt).Highlights()
	assert.Contains(t, highlights[0], "Co-pay 20%")
	assert.Contains(t, strings.Join(highlights, "\n"), "floor")
	assert.Contains(t, strings.Join(highlights, "\n"), "Not exportable")

	cards := []*AlternativeCard{NewAlternativeCard(base).AsBase(), NewAlternativeCard(alt)}
	list := AlternativeList(cards, 1)
	assert.Contains(t, list, "staff")
	assert.Contains(t, list, "co-pay 20%")
}
