package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hiquote/internal/compare"
	"github.com/rgehrsitz/hiquote/internal/transform"
	"github.com/rgehrsitz/hiquote/internal/tui/components"
	"github.com/rgehrsitz/hiquote/internal/tui/tuimsg"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// CompareModel picks templates and shows the current quote priced against them
type CompareModel struct {
	templates   []transform.Template
	selected    map[string]bool
	cursorIndex int
	results     *compare.ComparisonSet
	resultIndex int
	comparing   bool
	width       int
	height      int
}

// NewCompareModel creates a compare scene over the templates of registry
func NewCompareModel(registry *transform.TemplateRegistry) *CompareModel {
	m := &CompareModel{selected: map[string]bool{}}
	for _, name := range registry.List() {
		if t, ok := registry.Get(name); ok {
			m.templates = append(m.templates, t)
		}
	}
	return m
}

// SetResults stores a finished comparison
func (m *CompareModel) SetResults(results *compare.ComparisonSet) {
	m.results = results
	m.resultIndex = 0
	m.comparing = false
}

// SetComparing marks a comparison as running
func (m *CompareModel) SetComparing() {
	m.comparing = true
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedTemplates returns the checked template names in list order
func (m *CompareModel) SelectedTemplates() []string {
	var out []string
	for _, t := range m.templates {
		if m.selected[t.Name] {
			out = append(out, t.Name)
		}
	}
	return out
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *CompareModel) handleKeyPress(msg tea.KeyMsg) (*CompareModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursorIndex > 0 {
			m.cursorIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursorIndex < len(m.templates)-1 {
			m.cursorIndex++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys(" ", "space"))):
		if m.cursorIndex < len(m.templates) {
			name := m.templates[m.cursorIndex].Name
			m.selected[name] = !m.selected[name]
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("a"))):
		all := len(m.SelectedTemplates()) < len(m.templates)
		for _, t := range m.templates {
			m.selected[t.Name] = all
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		names := m.SelectedTemplates()
		if len(names) == 0 {
			return m, nil
		}
		m.comparing = true
		return m, func() tea.Msg { return tuimsg.CompareRequestedMsg{Templates: names} }
	case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
		if m.resultIndex > 0 {
			m.resultIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
		if m.results != nil && m.resultIndex < len(m.results.AlternativeResults) {
			m.resultIndex++
		}
	}
	return m, nil
}

// View renders the compare scene
func (m *CompareModel) View() string {
	left := m.renderTemplateList()

	var right string
	switch {
	case m.comparing:
		right = tuistyles.InfoStyle.Render("Pricing alternatives...")
	case m.results != nil:
		right = m.renderResults()
	default:
		right = tuistyles.InfoStyle.Render("Select templates with space, then press enter to compare.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
		"",
		helpLine("↑/↓ move • space select • a all/none • enter compare • ←/→ browse results • esc back"),
	)
}

func (m *CompareModel) renderTemplateList() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Templates"))
	content.WriteString("\n\n")

	for i, t := range m.templates {
		box := "[ ]"
		if m.selected[t.Name] {
			box = "[x]"
		}
		style := tuistyles.UnselectedItemStyle
		prefix := "  "
		if i == m.cursorIndex {
			style = tuistyles.SelectedItemStyle
			prefix = "▸ "
		}
		content.WriteString(style.Render(fmt.Sprintf("%s%s %s", prefix, box, t.Name)))
		content.WriteString("\n")
	}

	if m.cursorIndex < len(m.templates) {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Width(36).Render(m.templates[m.cursorIndex].Description))
	}

	return tuistyles.BorderStyle.Width(42).Render(strings.TrimRight(content.String(), "\n"))
}

// cards returns the base card followed by one card per alternative
func (m *CompareModel) cards() []*components.AlternativeCard {
	cards := []*components.AlternativeCard{components.NewAlternativeCard(*m.results.BaseResult).AsBase()}
	for _, alt := range m.results.AlternativeResults {
		cards = append(cards, components.NewAlternativeCard(alt))
	}
	return cards
}

func (m *CompareModel) renderResults() string {
	cards := m.cards()
	idx := m.resultIndex
	if idx >= len(cards) {
		idx = len(cards) - 1
	}
	cards[idx].SetSelected(true)

	sections := []string{
		components.AlternativeList(cards, idx),
		"",
		cards[idx].Render(),
	}

	if len(m.results.Recommendations) > 0 {
		var recs strings.Builder
		recs.WriteString(tuistyles.TableHeaderStyle.Render("Recommendations"))
		for _, r := range m.results.Recommendations {
			recs.WriteString("\n• " + r)
		}
		sections = append(sections, "", recs.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
