package output

import (
	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/domain"
)

// JSONFormatter emits the full result as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
