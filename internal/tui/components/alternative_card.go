package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hiquote/internal/compare"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// AlternativeCard shows one priced alternative of a comparison
type AlternativeCard struct {
	Result     compare.ComparisonResult
	IsBase     bool
	IsSelected bool
	Width      int
}

// NewAlternativeCard creates a card for a comparison result
func NewAlternativeCard(result compare.ComparisonResult) *AlternativeCard {
	return &AlternativeCard{Result: result, Width: 50}
}

// AsBase marks the card as the base quote
func (a *AlternativeCard) AsBase() *AlternativeCard {
	a.IsBase = true
	return a
}

// SetSelected marks the card as selected
func (a *AlternativeCard) SetSelected(selected bool) *AlternativeCard {
	a.IsSelected = selected
	return a
}

// WithWidth sets the card width
func (a *AlternativeCard) WithWidth(width int) *AlternativeCard {
	a.Width = width
	return a
}

// Highlights lists the policy parameters and status notes of the alternative
func (a *AlternativeCard) Highlights() []string {
	r := a.Result
	out := []string{
		fmt.Sprintf("Co-pay %d%% • %s • %s", r.CoPay, r.Duration, r.Geography),
		fmt.Sprintf("Loss ratio %s%% • %s", r.LossRatio.StringFixed(0), r.Renewal),
		fmt.Sprintf("Benefits %s • %d insured", r.Benefits, r.HeadCount),
	}
	if r.FloorApplied {
		out = append(out, "Minimum premium floor applies")
	}
	if !r.Exportable {
		out = append(out, fmt.Sprintf("Not exportable (%d error(s))", r.ErrorCount))
	}
	return out
}

// Render returns the styled card
func (a *AlternativeCard) Render() string {
	var content strings.Builder

	name := a.Result.QuoteName
	if a.IsBase {
		name += " (base)"
	}
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(name))
	content.WriteString("\n")

	if a.Result.Description != "" {
		content.WriteString(tuistyles.SubtitleStyle.Render(a.Result.Description))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	card := NewPremiumCard("Final premium", a.Result.FinalPremium)
	if !a.IsBase {
		card.Change = &Change{Amount: a.Result.PremiumDiffFromBase, Percent: a.Result.PremiumPctFromBase}
	}
	content.WriteString(card.RenderCompact())
	content.WriteString("\n")
	content.WriteString(tuistyles.MetricLabelStyle.Render("Per head: ") + tuistyles.FormatVND(a.Result.PremiumPerHead))
	content.WriteString("\n\n")

	highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	for _, h := range a.Highlights() {
		content.WriteString(highlightStyle.Render("• " + h))
		content.WriteString("\n")
	}

	border := tuistyles.ColorBorder
	if a.IsSelected {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2).
		Width(a.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a single-line summary
func (a *AlternativeCard) RenderCompact() string {
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	parts := []string{nameStyle.Render(a.Result.QuoteName), tuistyles.FormatVNDShort(a.Result.FinalPremium)}
	if !a.IsBase && !a.Result.PremiumDiffFromBase.IsZero() {
		c := Change{Amount: a.Result.PremiumDiffFromBase, Percent: a.Result.PremiumPctFromBase}
		parts = append(parts, tuistyles.MetricTrendStyle(c.Favorable()).Render(c.String()))
	}
	return strings.Join(parts, " ")
}

// AlternativeList renders cards as a selectable list
func AlternativeList(cards []*AlternativeCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No alternatives priced")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix) + card.RenderCompact()
	}

	return strings.Join(rendered, "\n")
}
