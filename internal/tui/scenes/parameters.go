package scenes

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/tui/components"
	"github.com/rgehrsitz/hiquote/internal/tui/tuimsg"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// Parameter keys sent in ParameterChangedMsg
const (
	ParamCoPay     = "co_pay"
	ParamDuration  = "duration"
	ParamGeography = "geography"
	ParamLossRatio = "loss_ratio"
	ParamRenewal   = "renewal"
	ParamHeadCount = "headcount_factor"
)

// ParametersModel edits the policy parameters of the quote. Every change is sent to
// the root model at once so the premium is recalculated live.
type ParametersModel struct {
	general       domain.GeneralInfo
	sliders       []*components.ParameterSlider
	focusedSlider int
	modified      bool
	width         int
	height        int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetGeneral rebuilds the sliders from the quote's policy parameters
func (m *ParametersModel) SetGeneral(info domain.GeneralInfo) {
	m.general = info
	m.buildSliders(100)
	m.modified = false
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Modified reports whether a parameter was changed since the last SetGeneral
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// Sliders exposes the sliders in display order
func (m *ParametersModel) Sliders() []*components.ParameterSlider {
	return m.sliders
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}

func (m *ParametersModel) buildSliders(headCountPct float64) {
	levels := domain.CoPayLevels()
	copayChoices := make([]string, len(levels))
	for i, l := range levels {
		copayChoices[i] = strconv.Itoa(int(l)) + "%"
	}

	durations := domain.Durations()
	durationChoices := make([]string, len(durations))
	for i, d := range durations {
		durationChoices[i] = string(d)
	}

	geos := domain.Geographies()
	geoChoices := make([]string, len(geos))
	for i, g := range geos {
		geoChoices[i] = string(g)
	}

	renewals := []domain.RenewalStatus{domain.RenewalNonContinuous, domain.RenewalContinuous}
	renewalChoices := []string{string(domain.RenewalNonContinuous), string(domain.RenewalContinuous)}

	m.sliders = []*components.ParameterSlider{
		components.NewChoiceSlider(ParamCoPay, "Co-payment", copayChoices, indexOf(levels, m.general.CoPay)).
			WithDescription("Share of each outpatient claim paid by the insured"),
		components.NewChoiceSlider(ParamDuration, "Duration", durationChoices, indexOf(durations, m.general.Duration)).
			WithDescription("Insurance period band"),
		components.NewChoiceSlider(ParamGeography, "Geography", geoChoices, indexOf(geos, m.general.Geography)).
			WithDescription("Default cover area for benefits without their own"),
		components.NewParameterSlider(ParamLossRatio, "Loss ratio", m.general.LossRatio.InexactFloat64(), 0, 200, 5).
			WithUnit("%").
			WithDescription("Prior-year claims over premium"),
		components.NewChoiceSlider(ParamRenewal, "Renewal", renewalChoices, indexOf(renewals, m.general.Renewal)).
			WithDescription("Continuous renewals earn the loss-ratio discount"),
		components.NewParameterSlider(ParamHeadCount, "Head count", headCountPct, 50, 300, 10).
			WithUnit("%").
			WithDescription("Scale every group against the loaded quote"),
	}

	if m.focusedSlider >= len(m.sliders) {
		m.focusedSlider = 0
	}
	m.sliders[m.focusedSlider].SetFocused(true)
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *ParametersModel) handleKeyPress(msg tea.KeyMsg) (*ParametersModel, tea.Cmd) {
	if len(m.sliders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		m.moveFocus(-1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		m.moveFocus(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
		if m.sliders[m.focusedSlider].Decrement() {
			return m, m.changed()
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
		if m.sliders[m.focusedSlider].Increment() {
			return m, m.changed()
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("x"))):
		m.buildSliders(100)
		m.modified = false
		return m, func() tea.Msg { return tuimsg.ResetQuoteMsg{} }
	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+s"))):
		return m, func() tea.Msg { return tuimsg.SaveQuoteMsg{} }
	}
	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[m.focusedSlider].SetFocused(true)
}

// changed emits the focused slider's value as a transform argument
func (m *ParametersModel) changed() tea.Cmd {
	m.modified = true
	s := m.sliders[m.focusedSlider]

	var value string
	switch s.Key {
	case ParamCoPay:
		value = strings.TrimSuffix(s.Choice(), "%")
	case ParamLossRatio:
		value = strconv.FormatFloat(s.Value, 'f', -1, 64)
	case ParamHeadCount:
		value = strconv.FormatFloat(s.Value/100, 'f', -1, 64)
	default:
		value = s.Choice()
	}

	changed := tuimsg.ParameterChangedMsg{Parameter: s.Key, Value: value}
	return func() tea.Msg { return changed }
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if len(m.sliders) == 0 {
		return tuistyles.InfoStyle.Render("No quote loaded.")
	}

	rendered := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		if s.IsFocused {
			rendered = append(rendered, s.Render())
		} else {
			rendered = append(rendered, s.RenderCompact())
		}
	}

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 3).
		Width(70)

	sections := []string{
		tuistyles.TitleStyle.Render("Policy Parameters"),
		container.Render(strings.Join(rendered, "\n\n")),
	}
	if m.modified {
		sections = append(sections, lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Bold(true).
			Render("⚠ Modified - premium recalculated, x to reset, ctrl+s to save"))
	}
	sections = append(sections, helpLine("↑/↓ navigate • ←/→ adjust • x reset • ctrl+s save • esc back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
