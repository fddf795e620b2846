package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneGroups:
		content = m.groupsModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	// Title (2) + status (1) + padding (1)
	contentHeight := m.height - 4

	contentContainer := lipgloss.NewStyle().
		Height(max(contentHeight, 1)).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		statusBar,
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("HIQUOTE - Health Insurance Premium Quotes")

	breadcrumb := m.currentScene.String()
	if m.quote != nil && m.quote.Name != "" {
		breadcrumb = fmt.Sprintf("%s / %s", m.quote.Name, breadcrumb)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(breadcrumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("g", "groups"),
		formatShortcut("p", "parameters"),
		formatShortcut("c", "compare"),
		formatShortcut("r", "results"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}

	statusText := strings.Join(shortcuts, " • ")

	right := ""
	switch {
	case m.status != "":
		right = m.status
	case m.result != nil:
		right = FormatVND(m.result.FinalPremium)
	}
	if right != "" {
		right = SubtitleStyle.Render(right)
		spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(statusText)-lipgloss.Width(right)-4))
		statusText = statusText + spacer + right
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}

	content := BorderStyle.Render(fmt.Sprintf("⠋ %s", message))

	return m.renderApp(content)
}

func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	)

	return m.renderApp(content)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `
HIQUOTE - Health Insurance Premium Quotes

KEYBOARD SHORTCUTS:
  h        Home dashboard
  g        Groups and benefits
  p        Policy parameters
  c        Compare alternatives
  r        Premium breakdown
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

GROUPS:
  ↑/↓      Select group
  ←/→      Select benefit
  space    Toggle benefit
  enter    Show the group's breakdown

PARAMETERS:
  ↑/↓      Select parameter
  ←/→      Change value (reprices immediately)
  x        Reset to the loaded quote
  Ctrl+S   Save the edited quote

COMPARE:
  space    Select template
  a        Select all or none
  enter    Price the selected alternatives
`

	return BorderStyle.Render(helpText)
}
