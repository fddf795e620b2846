package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hiquote/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeScenes()
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case QuoteLoadedMsg:
		m.original = msg.Quote
		m.quote = msg.Quote.DeepCopy()
		m.edits = map[string]string{}
		m.toggles = nil
		m.homeModel.SetQuote(m.quote)
		m.homeModel.ResetReference()
		m.groupsModel.SetGroups(m.quote.Groups)
		m.parametersModel.SetGeneral(m.quote.General)
		m.resizeScenes()
		return m.recalculate()

	case CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.homeModel.SetResult(msg.Result)
		m.groupsModel.SetResult(msg.Result)
		m.resultsModel.SetResult(msg.Result)
		return m, nil

	case ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.compareModel.SetResults(nil)
			return m, nil
		}
		m.compareModel.SetResults(msg.Results)
		return m, nil

	case tuimsg.ParameterChangedMsg:
		previous, had := m.edits[msg.Parameter]
		m.edits[msg.Parameter] = msg.Value
		next, cmd := m.applyEdits()
		if next.err != nil {
			// Roll back so the quote stays priceable
			if had {
				next.edits[msg.Parameter] = previous
			} else {
				delete(next.edits, msg.Parameter)
			}
		}
		return next, cmd

	case tuimsg.BenefitToggledMsg:
		m.toggles = append(m.toggles, benefitToggle{group: msg.GroupID, benefit: msg.Benefit, enabled: msg.Enabled})
		next, cmd := m.applyEdits()
		if next.err != nil {
			next.toggles = next.toggles[:len(next.toggles)-1]
		}
		return next, cmd

	case tuimsg.GroupSelectedMsg:
		m.resultsModel.SelectGroup(msg.GroupID)
		m.status = fmt.Sprintf("Selected group %s", msg.GroupID)
		return m, func() tea.Msg { return NavigateMsg{Scene: SceneResults} }

	case tuimsg.ResetQuoteMsg:
		if m.original == nil {
			return m, nil
		}
		m.edits = map[string]string{}
		m.toggles = nil
		m.quote = m.original.DeepCopy()
		m.groupsModel.SetGroups(m.quote.Groups)
		m.parametersModel.SetGeneral(m.quote.General)
		m.homeModel.SetQuote(m.quote)
		m.status = "Quote reset"
		return m.recalculate()

	case tuimsg.CompareRequestedMsg:
		if m.quote == nil {
			return m, nil
		}
		m.compareModel.SetComparing()
		return m, compareCmd(m.calcEngine, m.quote, m.rates, msg.Templates, m.quotePath)

	case tuimsg.SaveQuoteMsg:
		if m.quote == nil {
			return m, nil
		}
		filename := msg.Filename
		if filename == "" {
			filename = m.quotePath
		}
		return m, saveCmd(m.quote, filename)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = "Saved " + msg.Filename
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// applyEdits rebuilds the quote from the loaded one and reprices it
func (m Model) applyEdits() (Model, tea.Cmd) {
	if m.original == nil {
		return m, nil
	}
	q, err := m.rebuildQuote()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.quote = q
	m.homeModel.SetQuote(q)
	m.groupsModel.SetGroups(q.Groups)
	return m.recalculate()
}

func (m Model) recalculate() (Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = "Calculating premium..."
	return m, calculateCmd(m.calcEngine, m.quote, m.rates)
}

func (m *Model) resizeScenes() {
	h := m.height - 4
	m.homeModel.SetSize(m.width, h)
	m.groupsModel.SetSize(m.width, h)
	m.parametersModel.SetSize(m.width, h)
	m.compareModel.SetSize(m.width, h)
	m.resultsModel.SetSize(m.width, h)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// Any key dismisses the error
		m.err = nil
		if msg.String() != "ctrl+c" {
			return m, nil
		}
	}

	navigate := func(s Scene) (tea.Model, tea.Cmd) {
		if m.currentScene == s {
			return m.updateCurrentScene(msg)
		}
		return m, func() tea.Msg { return NavigateMsg{Scene: s} }
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		return navigate(SceneHelp)
	case "esc":
		if m.currentScene != SceneHome {
			target := SceneHome
			if m.previousScene != m.currentScene {
				target = m.previousScene
			}
			return m, func() tea.Msg { return NavigateMsg{Scene: target} }
		}
	case "h":
		return navigate(SceneHome)
	case "g":
		return navigate(SceneGroups)
	case "p":
		return navigate(SceneParameters)
	case "c":
		return navigate(SceneCompare)
	case "r":
		return navigate(SceneResults)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneGroups:
		m.groupsModel, cmd = m.groupsModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
