// Package tuimsg holds the messages scenes send to the root model. It is separate from
// package tui so scenes can import it without a cycle.
package tuimsg

import (
	"github.com/rgehrsitz/hiquote/internal/domain"
)

// GroupSelectedMsg signals a group has been selected for the detail view
type GroupSelectedMsg struct {
	GroupID string
}

// ParameterChangedMsg signals a policy or group parameter has changed. Value is the
// transform argument, e.g. "20" for co_pay or "upto_6_months" for duration.
type ParameterChangedMsg struct {
	Parameter string
	Value     string
}

// BenefitToggledMsg signals a benefit was switched on or off for a group
type BenefitToggledMsg struct {
	GroupID string
	Benefit domain.BenefitCode
	Enabled bool
}

// ResetQuoteMsg restores the quote as loaded from disk
type ResetQuoteMsg struct{}

// CompareRequestedMsg asks for the current quote to be priced against templates
type CompareRequestedMsg struct {
	Templates []string
}

// SaveQuoteMsg asks for the edited quote to be written back as YAML
type SaveQuoteMsg struct {
	Filename string // empty means the path the quote was loaded from
}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Filename string
	Err      error
}
