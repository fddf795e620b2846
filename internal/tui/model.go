package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/compare"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/rgehrsitz/hiquote/internal/transform"
	"github.com/rgehrsitz/hiquote/internal/tui/scenes"
	"github.com/rgehrsitz/hiquote/internal/tui/tuimsg"
)

// policyParams fixes the order in which parameter edits are replayed
var policyParams = []string{
	scenes.ParamCoPay,
	scenes.ParamDuration,
	scenes.ParamGeography,
	scenes.ParamLossRatio,
	scenes.ParamRenewal,
	scenes.ParamHeadCount,
}

// paramTransforms maps a parameter to its transform and argument name
var paramTransforms = map[string][2]string{
	scenes.ParamCoPay:     {"set_copay", "level"},
	scenes.ParamDuration:  {"set_duration", "duration"},
	scenes.ParamGeography: {"set_geography", "geography"},
	scenes.ParamLossRatio: {"set_loss_ratio", "ratio"},
	scenes.ParamRenewal:   {"set_renewal", "status"},
	scenes.ParamHeadCount: {"scale_headcount", "factor"},
}

type benefitToggle struct {
	group   string
	benefit domain.BenefitCode
	enabled bool
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Quote as loaded from disk and the edits replayed on top of it
	quotePath string
	original  *domain.Quote
	quote     *domain.Quote
	edits     map[string]string
	toggles   []benefitToggle

	rates      *rates.Config
	calcEngine *calculation.CalculationEngine
	transforms *transform.TransformRegistry
	templates  *transform.TemplateRegistry

	result *domain.CalculationResult

	homeModel       *scenes.HomeModel
	groupsModel     *scenes.GroupsModel
	parametersModel *scenes.ParametersModel
	compareModel    *scenes.CompareModel
	resultsModel    *scenes.ResultsModel

	status string
	err    error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. A nil cfg prices with the built-in rates.
func NewModel(quotePath string, cfg *rates.Config) Model {
	if cfg == nil {
		cfg = rates.DefaultConfig()
	}
	templates := transform.CreateBuiltInTemplates()
	return Model{
		currentScene:    SceneHome,
		quotePath:       quotePath,
		edits:           map[string]string{},
		rates:           cfg,
		calcEngine:      calculation.NewCalculationEngine(),
		transforms:      transform.NewTransformRegistry(),
		templates:       templates,
		homeModel:       scenes.NewHomeModel(),
		groupsModel:     scenes.NewGroupsModel(),
		parametersModel: scenes.NewParametersModel(),
		compareModel:    scenes.NewCompareModel(templates),
		resultsModel:    scenes.NewResultsModel(),
		width:           80,
		height:          24,
		loading:         true,
		loadingMessage:  "Loading quote...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadQuoteCmd(m.quotePath)
}

// loadQuoteCmd returns a command that loads and validates the quote file
func loadQuoteCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		q, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return QuoteLoadedMsg{Quote: q}
	}
}

// calculateCmd prices a snapshot of the quote
func calculateCmd(engine *calculation.CalculationEngine, q *domain.Quote, cfg *rates.Config) tea.Cmd {
	snapshot := q.DeepCopy()
	return func() tea.Msg {
		result, err := engine.CalculateQuote(snapshot, cfg)
		return CalculationCompleteMsg{Result: result, Err: err}
	}
}

// compareCmd prices the quote against the named templates
func compareCmd(engine *calculation.CalculationEngine, q *domain.Quote, cfg *rates.Config, templates []string, path string) tea.Cmd {
	snapshot := q.DeepCopy()
	return func() tea.Msg {
		ce := compare.NewCompareEngine(engine)
		set, err := ce.Compare(context.Background(), snapshot, cfg, compare.CompareOptions{
			Templates: templates,
			QuotePath: path,
		})
		return ComparisonCompleteMsg{Results: set, Err: err}
	}
}

// saveCmd writes the quote as YAML
func saveCmd(q *domain.Quote, filename string) tea.Cmd {
	snapshot := q.DeepCopy()
	return func() tea.Msg {
		data, err := yaml.Marshal(snapshot)
		if err != nil {
			return tuimsg.SaveCompleteMsg{Filename: filename, Err: fmt.Errorf("failed to encode quote: %w", err)}
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return tuimsg.SaveCompleteMsg{Filename: filename, Err: fmt.Errorf("failed to write quote: %w", err)}
		}
		return tuimsg.SaveCompleteMsg{Filename: filename}
	}
}

// rebuildQuote replays every parameter edit and benefit toggle on the loaded quote
func (m *Model) rebuildQuote() (*domain.Quote, error) {
	var list []transform.QuoteTransform

	for _, param := range policyParams {
		value, ok := m.edits[param]
		if !ok {
			continue
		}
		if param == scenes.ParamHeadCount && value == "1" {
			continue
		}
		spec := paramTransforms[param]
		t, err := m.transforms.Create(spec[0], map[string]string{spec[1]: value})
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}

	for _, tg := range m.toggles {
		list = append(list, &transform.ToggleBenefit{Group: tg.group, Benefit: tg.benefit, Enabled: tg.enabled})
	}

	if len(list) == 0 {
		return m.original.DeepCopy(), nil
	}
	return transform.ApplyTransforms(m.original, list)
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneGroups:
		return "Groups"
	case SceneParameters:
		return "Parameters"
	case SceneCompare:
		return "Compare"
	case SceneResults:
		return "Results"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
