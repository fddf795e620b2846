package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/tui/components"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// HomeModel represents the quote dashboard
type HomeModel struct {
	quote    *domain.Quote
	result   *domain.CalculationResult
	original *domain.CalculationResult // result of the quote as loaded
	width    int
	height   int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetQuote updates the quote shown
func (m *HomeModel) SetQuote(q *domain.Quote) {
	m.quote = q
}

// SetResult updates the latest result. The first result seen becomes the reference
// that later changes are measured against.
func (m *HomeModel) SetResult(r *domain.CalculationResult) {
	if m.original == nil {
		m.original = r
	}
	m.result = r
}

// ResetReference makes the next result the new reference
func (m *HomeModel) ResetReference() {
	m.original = nil
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	// Home scene is passive - navigation is handled by the parent
	return m, nil
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	if m.quote == nil {
		return tuistyles.BorderStyle.Render(tuistyles.SubtitleStyle.Render("Loading quote..."))
	}

	sections := []string{
		m.renderPolicyOverview(),
	}
	if m.result != nil {
		sections = append(sections, m.renderPremiumCards(), m.renderGroupChart(), renderMessages(m.result.Validation, 5))
	}
	sections = append(sections, m.renderQuickActions())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func sectionTitle(s string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorSecondary).
		Render(s)
}

// renderPolicyOverview shows the policy parameters and group count
func (m *HomeModel) renderPolicyOverview() string {
	var content strings.Builder

	name := m.quote.Name
	if name == "" {
		name = "Untitled quote"
	}
	content.WriteString(sectionTitle(name))
	content.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
	row := func(label, value string) {
		content.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)))
		content.WriteString(valueStyle.Render(value))
		content.WriteString("\n")
	}

	g := m.quote.General
	product := g.ProductID
	if product == "" {
		product = "default"
	}
	row("Product", product)
	row("Contract", string(g.ContractType))
	row("Geography", string(g.Geography))
	row("Duration", string(g.Duration))
	row("Co-pay", fmt.Sprintf("%d%%", g.CoPay))
	row("Loss ratio", g.LossRatio.StringFixed(1)+"%")
	row("Renewal", string(g.Renewal))
	row("Groups", fmt.Sprintf("%d (%d insured)", len(m.quote.Groups), m.quote.TotalHeadCount()))

	return content.String()
}

func (m *HomeModel) renderPremiumCards() string {
	final := components.NewPremiumCard("Final premium", m.result.FinalPremium).
		WithHighlight(true).
		WithWidth(34)
	if m.original != nil && m.original != m.result {
		final.WithChange(m.result.FinalPremium, m.original.FinalPremium)
	}
	if m.result.FloorApplied {
		final.WithDescription("minimum premium floor applies")
	}

	cards := []*components.MetricCard{
		final,
		components.NewPremiumCard("Discounted base", m.result.BasePath.Final()).WithWidth(34),
		components.NewPremiumCard("Adjusted minimum", m.result.MinPath.Final()).WithWidth(34),
	}
	if m.result.TotalHeadCount > 0 {
		perHead := m.result.FinalPremium.Div(decimalFromInt(m.result.TotalHeadCount))
		cards = append(cards, components.NewPremiumCard("Per insured", perHead).WithWidth(34))
	}

	columns := 2
	if m.width >= 140 {
		columns = 4
	}
	return components.MetricGrid(cards, columns)
}

func (m *HomeModel) renderGroupChart() string {
	chart := components.NewBarChart("Premium by group").WithSize(36, 18)
	for _, g := range m.result.Groups {
		chart.Add(g.Name, g.FinalFee, g.FloorApplied)
	}
	return chart.WithLegend("orange bars are priced at the minimum").Render()
}

// renderQuickActions shows available navigation shortcuts
func (m *HomeModel) renderQuickActions() string {
	var content strings.Builder
	content.WriteString(sectionTitle("Quick Actions"))
	content.WriteString("\n")

	keyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	actions := []struct{ key, desc string }{
		{"g", "Browse groups and toggle benefits"},
		{"p", "Adjust policy parameters"},
		{"c", "Compare against templates"},
		{"r", "View the premium breakdown"},
		{"?", "Show help"},
	}
	for _, a := range actions {
		content.WriteString("  ")
		content.WriteString(keyStyle.Render(a.key))
		content.WriteString(descStyle.Render("  " + a.desc))
		content.WriteString("\n")
	}

	return content.String()
}

// renderMessages lists up to limit validation messages, errors first
func renderMessages(msgs []domain.ValidationMessage, limit int) string {
	if len(msgs) == 0 {
		return lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Render("✓ No validation findings")
	}

	ordered := make([]domain.ValidationMessage, 0, len(msgs))
	for _, sev := range []domain.Severity{domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo} {
		for _, msg := range msgs {
			if msg.Severity == sev {
				ordered = append(ordered, msg)
			}
		}
	}

	var content strings.Builder
	content.WriteString(sectionTitle("Validation"))
	content.WriteString("\n")
	for i, msg := range ordered {
		if i == limit {
			content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("  ... and %d more", len(ordered)-limit)))
			content.WriteString("\n")
			break
		}
		var style lipgloss.Style
		switch msg.Severity {
		case domain.SeverityError:
			style = tuistyles.ErrorStyle
		case domain.SeverityWarning:
			style = tuistyles.WarningStyle
		default:
			style = tuistyles.InfoStyle
		}
		line := fmt.Sprintf("  [%s] %s", msg.Severity, msg.Message)
		if msg.GroupID != "" {
			line += " (" + msg.GroupID + ")"
		}
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}
	return strings.TrimRight(content.String(), "\n")
}
