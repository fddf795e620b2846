package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/tui/components"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// ResultsModel shows the full premium breakdown of the latest calculation
type ResultsModel struct {
	result     *domain.CalculationResult
	groupIndex int
	width      int
	height     int
}

// NewResultsModel creates a new results model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult stores the calculation to display
func (m *ResultsModel) SetResult(r *domain.CalculationResult) {
	m.result = r
	if r == nil || m.groupIndex >= len(r.Groups) {
		m.groupIndex = 0
	}
}

// SetSize updates the model dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedGroup returns the group whose lines are shown
func (m *ResultsModel) SelectedGroup() *domain.GroupResult {
	if m.result == nil || len(m.result.Groups) == 0 {
		return nil
	}
	return &m.result.Groups[m.groupIndex]
}

// SelectGroup shows the lines of the group with the given id
func (m *ResultsModel) SelectGroup(id string) bool {
	if m.result == nil {
		return false
	}
	for i, g := range m.result.Groups {
		if g.GroupID == id {
			m.groupIndex = i
			return true
		}
	}
	return false
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.result == nil || len(m.result.Groups) == 0 {
		return m, nil
	}

	n := len(m.result.Groups)
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("tab"))):
		m.groupIndex = (m.groupIndex + 1) % n
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+tab"))):
		m.groupIndex = (m.groupIndex + n - 1) % n
	}
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("No calculation yet.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderSummary(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderPipeline(), "  ", m.renderFactors()),
		"",
		m.renderGroupLines(),
		"",
		renderMessages(m.result.Validation, 10),
		"",
		helpLine("tab/shift+tab cycle groups • esc back"),
	)
}

func (m *ResultsModel) renderSummary() string {
	r := m.result
	final := components.NewPremiumCard("Final premium", r.FinalPremium).WithHighlight(true)
	if r.FloorApplied {
		final.WithDescription("minimum floor applied")
	}
	cards := []*components.MetricCard{
		final,
		components.NewPremiumCard("Raw base", r.BasePremium),
		components.NewPremiumCard("Raw minimum", r.MinPremium),
		components.NewMetricCard("Insured", fmt.Sprintf("%d", r.TotalHeadCount)),
	}
	return components.MetricGrid(cards, 4)
}

// renderPipeline shows the base and minimum subtotals after each adjustment
func (m *ResultsModel) renderPipeline() string {
	base, min := m.result.BasePath, m.result.MinPath
	steps := []struct {
		label     string
		base, min decimal.Decimal
	}{
		{"Raw", base.Raw, min.Raw},
		{"Duration", base.AfterDuration, min.AfterDuration},
		{"Co-pay", base.AfterCoPay, min.AfterCoPay},
		{"Group size", base.AfterGroupSize, min.AfterGroupSize},
		{"LR loading", base.AfterLossLoading, min.AfterLossLoading},
		{"LR discount", base.AfterLossRatio, min.AfterLossRatio},
	}

	var content strings.Builder
	content.WriteString(sectionTitle("Adjustment pipeline"))
	content.WriteString("\n")
	content.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-12s %18s %18s", "Step", "Base", "Minimum")))
	for _, s := range steps {
		content.WriteString("\n")
		content.WriteString(tuistyles.TableCellStyle.Render(
			fmt.Sprintf("%-12s %18s %18s", s.label, tuistyles.FormatVND(s.base), tuistyles.FormatVND(s.min))))
	}
	return tuistyles.BorderStyle.Render(content.String())
}

func (m *ResultsModel) renderFactors() string {
	f := m.result.Factors
	rows := []struct {
		label  string
		factor decimal.Decimal
	}{
		{"Duration", f.Duration},
		{"Co-pay", f.CoPay},
		{"Group size", f.GroupSize},
		{"LR increase", f.LossRatioIncrease},
		{"LR decrease", f.LossRatioDecrease},
	}

	var content strings.Builder
	content.WriteString(sectionTitle("Factors"))
	for _, r := range rows {
		value := "×" + r.factor.StringFixed(4)
		style := tuistyles.MetricValueStyle
		switch r.factor.Cmp(decimal.NewFromInt(1)) {
		case 1:
			style = tuistyles.MetricNegativeStyle
		case -1:
			style = tuistyles.MetricPositiveStyle
		}
		content.WriteString("\n")
		content.WriteString(tuistyles.ParameterLabelStyle.Render(fmt.Sprintf("%-12s", r.label)))
		content.WriteString(style.Render(value))
	}
	return tuistyles.BorderStyle.Render(content.String())
}

func (m *ResultsModel) renderGroupLines() string {
	g := m.SelectedGroup()
	if g == nil {
		return tuistyles.WarningStyle.Render("No groups priced.")
	}

	title := fmt.Sprintf("Group %d/%d: %s (%d insured, age %d)",
		m.groupIndex+1, len(m.result.Groups), g.Name, g.HeadCount, g.Age)
	if !g.Eligible {
		title += " - not eligible"
	}

	var content strings.Builder
	content.WriteString(sectionTitle(title))
	content.WriteString("\n")
	content.WriteString(tuistyles.TableHeaderStyle.Render(
		fmt.Sprintf("%-10s %-24s %-8s %16s %16s %16s", "Line", "Benefit", "Area", "Discounted", "Minimum", "Final")))

	for _, line := range g.Lines {
		content.WriteString("\n")
		if !line.Applicable {
			content.WriteString(tuistyles.WarningStyle.Render(
				fmt.Sprintf("%-10s %-24s %-8s %s", line.Item, truncate(line.Label, 24), line.Geography, line.Reason)))
			continue
		}
		mark := " "
		if line.FloorApplied {
			mark = "*"
		}
		row := fmt.Sprintf("%-10s %-24s %-8s %16s %16s %15s%s",
			line.Item, truncate(line.Label, 24), line.Geography,
			tuistyles.FormatVNDShort(line.DiscountedFee),
			tuistyles.FormatVNDShort(line.MinimumFee),
			tuistyles.FormatVNDShort(line.FinalFee), mark)
		content.WriteString(tuistyles.TableCellStyle.Render(row))
	}

	content.WriteString("\n")
	content.WriteString(tuistyles.TableHighlightStyle.Render(
		fmt.Sprintf("%-44s %16s %16s %16s", "Group total",
			tuistyles.FormatVNDShort(g.DiscountedFee),
			tuistyles.FormatVNDShort(g.MinimumFee),
			tuistyles.FormatVNDShort(g.FinalFee))))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("* minimum floor applied"))

	return tuistyles.BorderStyle.Render(content.String())
}
