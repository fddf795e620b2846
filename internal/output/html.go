package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/hiquote/internal/domain"
)

// HTMLFormatter produces a printable HTML quote
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"pct":    FormatPercentage,
	"rate":   FormatRate,
	"factor": FormatFactor,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.CalculationResult
		Assumptions []string
	}{result, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
