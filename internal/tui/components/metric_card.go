package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single metric with label, value, and optional change
type MetricCard struct {
	Label       string
	Value       string
	Change      *Change
	Description string
	Highlight   bool
	Width       int
}

// Change describes how a premium moved against a reference
type Change struct {
	Amount  decimal.Decimal
	Percent decimal.Decimal
}

// Favorable reports whether the change lowers the premium
func (c Change) Favorable() bool {
	return c.Amount.IsNegative()
}

// String renders the change as "+1.2M (+7.5%)"
func (c Change) String() string {
	sign := ""
	if c.Amount.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s%s (%s%s%%)", sign, tuistyles.FormatVNDShort(c.Amount), sign, c.Percent.StringFixed(1))
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 30,
	}
}

// NewPremiumCard creates a card for an amount in dong
func NewPremiumCard(label string, amount decimal.Decimal) *MetricCard {
	return NewMetricCard(label, tuistyles.FormatVND(amount))
}

// WithChange adds the change against a reference amount. A zero reference shows no change.
func (m *MetricCard) WithChange(current, reference decimal.Decimal) *MetricCard {
	if reference.IsZero() {
		return m
	}
	diff := current.Sub(reference)
	m.Change = &Change{
		Amount:  diff,
		Percent: diff.Div(reference).Mul(decimal.NewFromInt(100)),
	}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithHighlight draws the card border in the accent color
func (m *MetricCard) WithHighlight(on bool) *MetricCard {
	m.Highlight = on
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

func (m *MetricCard) changeLine() string {
	if m.Change == nil || m.Change.Amount.IsZero() {
		return ""
	}
	arrow := tuistyles.TrendIndicator(m.Change.Amount.IsPositive())
	style := tuistyles.MetricTrendStyle(m.Change.Favorable())
	return style.Render(fmt.Sprintf("%s %s", arrow, m.Change.String()))
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)
	if line := m.changeLine(); line != "" {
		content += "\n" + line
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	border := tuistyles.ColorBorder
	if m.Highlight {
		border = tuistyles.ColorAccent
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(content)
}

// RenderCompact returns an inline version without border
func (m *MetricCard) RenderCompact() string {
	out := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if line := m.changeLine(); line != "" {
		out += " " + line
	}
	return out
}

// MetricGrid renders cards in rows of the given column count
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
