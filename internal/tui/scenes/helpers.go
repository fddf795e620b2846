package scenes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// benefitSummary renders the nine benefit codes, dimming the inactive ones
func benefitSummary(g *domain.InsuranceGroup) string {
	on := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Bold(true)
	off := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	parts := make([]string, 0, len(domain.BenefitCodes()))
	for _, code := range domain.BenefitCodes() {
		if g.IsActive(code) {
			parts = append(parts, on.Render(string(code)))
		} else {
			parts = append(parts, off.Render(string(code)))
		}
	}
	return strings.Join(parts, " ")
}

func helpLine(s string) string {
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(s)
}
