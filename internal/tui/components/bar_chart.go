package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// Bar is one row of a bar chart. Marked bars are drawn in the floor color.
type Bar struct {
	Label  string
	Value  decimal.Decimal
	Marked bool
}

// BarChart draws horizontal bars scaled to the largest value, e.g. the final fee of
// each group or benefit
type BarChart struct {
	Title      string
	Bars       []Bar
	Width      int // bar area width
	LabelWidth int
	Legend     string
}

// NewBarChart creates a new chart
func NewBarChart(title string) *BarChart {
	return &BarChart{
		Title:      title,
		Width:      40,
		LabelWidth: 16,
	}
}

// Add appends a bar
func (c *BarChart) Add(label string, value decimal.Decimal, marked bool) *BarChart {
	c.Bars = append(c.Bars, Bar{Label: label, Value: value, Marked: marked})
	return c
}

// WithSize sets the bar and label widths
func (c *BarChart) WithSize(width, labelWidth int) *BarChart {
	c.Width = width
	c.LabelWidth = labelWidth
	return c
}

// WithLegend sets the line printed under the bars
func (c *BarChart) WithLegend(legend string) *BarChart {
	c.Legend = legend
	return c
}

// Lengths returns the bar length of every row. Negative values draw nothing.
func (c *BarChart) Lengths() []int {
	maxVal := decimal.Zero
	for _, b := range c.Bars {
		if b.Value.GreaterThan(maxVal) {
			maxVal = b.Value
		}
	}

	out := make([]int, len(c.Bars))
	if maxVal.IsZero() {
		return out
	}
	width := decimal.NewFromInt(int64(c.Width))
	for i, b := range c.Bars {
		if !b.Value.IsPositive() {
			continue
		}
		n := int(b.Value.Div(maxVal).Mul(width).Round(0).IntPart())
		if n == 0 {
			n = 1
		}
		out[i] = n
	}
	return out
}

// Render returns the styled chart
func (c *BarChart) Render() string {
	if len(c.Bars) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(tuistyles.TableHeaderStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorChartBar)
	floorStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorChartFloor)
	lengths := c.Lengths()

	for i, b := range c.Bars {
		label := b.Label
		if r := []rune(label); len(r) > c.LabelWidth {
			label = string(r[:c.LabelWidth-1]) + "…"
		}
		style := barStyle
		if b.Marked {
			style = floorStyle
		}
		bar := style.Render(strings.Repeat("█", lengths[i]))
		pad := strings.Repeat(" ", c.Width-lengths[i])
		content.WriteString(fmt.Sprintf("%-*s %s%s %s\n", c.LabelWidth, label, bar, pad, tuistyles.FormatVNDShort(b.Value)))
	}

	if c.Legend != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(c.Legend))
	}

	return strings.TrimRight(content.String(), "\n")
}
