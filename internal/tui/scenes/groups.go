package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/tui/tuimsg"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// GroupsModel lists the insured groups and toggles benefits of the selected one
type GroupsModel struct {
	groups        []domain.InsuranceGroup
	results       map[string]*domain.GroupResult
	selectedIndex int
	benefitIndex  int
	width         int
	height        int
}

// NewGroupsModel creates a new groups scene model
func NewGroupsModel() *GroupsModel {
	return &GroupsModel{results: map[string]*domain.GroupResult{}}
}

// SetGroups updates the group list, keeping the selection when possible
func (m *GroupsModel) SetGroups(groups []domain.InsuranceGroup) {
	m.groups = groups
	if m.selectedIndex >= len(m.groups) {
		m.selectedIndex = 0
	}
}

// SetResult indexes the priced groups by id
func (m *GroupsModel) SetResult(r *domain.CalculationResult) {
	m.results = map[string]*domain.GroupResult{}
	if r == nil {
		return
	}
	for i := range r.Groups {
		m.results[r.Groups[i].GroupID] = &r.Groups[i]
	}
}

// SetSize updates the scene dimensions
func (m *GroupsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedGroup returns the id of the highlighted group
func (m *GroupsModel) SelectedGroup() string {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.groups) {
		return m.groups[m.selectedIndex].ID
	}
	return ""
}

// SelectedBenefit returns the benefit under the cursor
func (m *GroupsModel) SelectedBenefit() domain.BenefitCode {
	return domain.BenefitCodes()[m.benefitIndex]
}

// Update handles messages for the groups scene
func (m *GroupsModel) Update(msg tea.Msg) (*GroupsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *GroupsModel) handleKeyPress(msg tea.KeyMsg) (*GroupsModel, tea.Cmd) {
	if len(m.groups) == 0 {
		return m, nil
	}
	codes := domain.BenefitCodes()

	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.groups)-1 {
			m.selectedIndex++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
		if m.benefitIndex > 0 {
			m.benefitIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
		if m.benefitIndex < len(codes)-1 {
			m.benefitIndex++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys(" ", "space"))):
		g := m.groups[m.selectedIndex]
		code := codes[m.benefitIndex]
		toggled := tuimsg.BenefitToggledMsg{
			GroupID: g.ID,
			Benefit: code,
			Enabled: !g.Benefits.Selected(code),
		}
		return m, func() tea.Msg { return toggled }
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		id := m.SelectedGroup()
		return m, func() tea.Msg { return tuimsg.GroupSelectedMsg{GroupID: id} }
	}
	return m, nil
}

// View renders the groups scene
func (m *GroupsModel) View() string {
	if len(m.groups) == 0 {
		return tuistyles.InfoStyle.Render("The quote has no groups.")
	}

	var list strings.Builder
	list.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("  %-20s %6s %4s  %-17s  %12s", "Group", "Heads", "Age", "Benefits", "Premium")))
	list.WriteString("\n")
	for i := range m.groups {
		g := &m.groups[i]
		prefix := "  "
		nameStyle := tuistyles.UnselectedItemStyle
		if i == m.selectedIndex {
			prefix = "▸ "
			nameStyle = tuistyles.SelectedItemStyle
		}
		premium := "-"
		if r, ok := m.results[g.ID]; ok {
			premium = tuistyles.FormatVNDShort(r.FinalFee)
			if !r.Eligible {
				premium = "ineligible"
			}
		}
		list.WriteString(nameStyle.Render(fmt.Sprintf("%s%-20s", prefix, truncate(g.DisplayName(), 20))))
		list.WriteString(fmt.Sprintf(" %6d %4d  ", g.HeadCount, g.AverageAge))
		list.WriteString(benefitSummary(g))
		list.WriteString(fmt.Sprintf("  %12s\n", premium))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.BorderStyle.Render(strings.TrimRight(list.String(), "\n")),
		"",
		m.renderBenefitPicker(),
		"",
		helpLine("↑/↓ select group • ←/→ select benefit • space toggle • enter details • esc back"),
	)
}

// renderBenefitPicker shows the benefit cursor for the selected group
func (m *GroupsModel) renderBenefitPicker() string {
	g := &m.groups[m.selectedIndex]
	codes := domain.BenefitCodes()

	var cells []string
	for i, code := range codes {
		mark := "○"
		if g.Benefits.Selected(code) {
			mark = "●"
		}
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(tuistyles.ColorForeground)
		if i == m.benefitIndex {
			style = style.Background(tuistyles.ColorBorder).Foreground(tuistyles.ColorAccent).Bold(true)
		}
		cells = append(cells, style.Render(mark+" "+string(code)))
	}

	code := codes[m.benefitIndex]
	detail := fmt.Sprintf("%s: %s", code, code.Label())
	if pre := code.Prerequisite(); pre != "" {
		detail += fmt.Sprintf(" (requires %s)", pre)
	}
	if g.Benefits.Selected(code) && !g.IsActive(code) {
		detail += " - selected but inactive"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("Benefits of "+g.DisplayName()),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
		tuistyles.SubtitleStyle.Render(detail),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
