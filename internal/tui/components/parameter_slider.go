package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
)

// ParameterSlider displays an adjustable parameter with a visual slider. A slider built
// with NewChoiceSlider steps through a fixed list of labelled values instead of a range.
type ParameterSlider struct {
	Key         string // identifies the parameter in change messages
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // e.g. "%" or "x"
	Format      string // e.g. "%.0f"
	Choices     []string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a range slider
func NewParameterSlider(key, label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Key:    key,
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.0f",
		Width:  30,
	}
	p.SetValue(value)
	return p
}

// NewChoiceSlider creates a slider over choices with the given index selected
func NewChoiceSlider(key, label string, choices []string, selected int) *ParameterSlider {
	p := &ParameterSlider{
		Key:     key,
		Label:   label,
		Min:     0,
		Max:     float64(len(choices) - 1),
		Step:    1,
		Choices: choices,
		Width:   30,
	}
	p.SetValue(float64(selected))
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a help line
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Increment increases the value by one step and reports whether it changed
func (p *ParameterSlider) Increment() bool {
	return p.moveTo(p.Value + p.Step)
}

// Decrement decreases the value by one step and reports whether it changed
func (p *ParameterSlider) Decrement() bool {
	return p.moveTo(p.Value - p.Step)
}

func (p *ParameterSlider) moveTo(v float64) bool {
	// Tolerate float drift from repeated fractional steps
	const eps = 1e-9
	if v > p.Max+eps || v < p.Min-eps {
		return false
	}
	p.SetValue(v)
	return true
}

// SetValue sets the value, snapping to the step grid and clamping to min/max
func (p *ParameterSlider) SetValue(value float64) {
	if p.Step > 0 {
		value = p.Min + math.Round((value-p.Min)/p.Step)*p.Step
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Index returns the selected choice index
func (p *ParameterSlider) Index() int {
	return int(math.Round(p.Value))
}

// Choice returns the selected choice, or "" for a range slider
func (p *ParameterSlider) Choice() string {
	i := p.Index()
	if i < 0 || i >= len(p.Choices) {
		return ""
	}
	return p.Choices[i]
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// DisplayValue renders the current value with its unit
func (p *ParameterSlider) DisplayValue() string {
	if len(p.Choices) > 0 {
		return p.Choice()
	}
	return p.formatNumber(p.Value)
}

func (p *ParameterSlider) formatNumber(v float64) string {
	return fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.DisplayValue()))
	content.WriteString("\n")
	content.WriteString(p.renderSliderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	var rangeText string
	if len(p.Choices) > 0 {
		rangeText = fmt.Sprintf("%s  ─  %s", p.Choices[0], p.Choices[len(p.Choices)-1])
	} else {
		rangeText = fmt.Sprintf("%s  ─  %s", p.formatNumber(p.Min), p.formatNumber(p.Max))
	}
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(rangeText))

	if p.Description != "" {
		content.WriteString("\n")
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(descStyle.Render(p.Description))
	}

	return content.String()
}

// renderSliderBar creates the visual slider bar
func (p *ParameterSlider) renderSliderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width {
		filled = p.Width
	}
	empty := p.Width - filled

	trackStyle := tuistyles.SliderTrackStyle
	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(trackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")

	return bar.String()
}

// RenderCompact returns a single-line version
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	return fmt.Sprintf("%s %s", labelStyle.Render(p.Label+":"), valueStyle.Render(p.DisplayValue()))
}
