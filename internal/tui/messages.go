package tui

import (
	"github.com/rgehrsitz/hiquote/internal/compare"
	"github.com/rgehrsitz/hiquote/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneGroups
	SceneParameters
	SceneCompare
	SceneResults
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// QuitMsg signals the application should exit
type QuitMsg struct{}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// QuoteLoadedMsg signals the quote file has been parsed
type QuoteLoadedMsg struct {
	Quote *domain.Quote
}

// CalculationCompleteMsg signals a calculation has finished
type CalculationCompleteMsg struct {
	Result *domain.CalculationResult
	Err    error
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Results *compare.ComparisonSet
	Err     error
}
