package output

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/domain"
)

// Formatter renders a calculation result without recalculating anything
type Formatter interface {
	Name() string
	Format(result *domain.CalculationResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(result *domain.CalculationResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.CalculationResult) ([]byte, error) {
	return f.F(result)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVSummarizer{},
	DetailedCSVFormatter{},
	JSONFormatter{},
	HTMLFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"table":           "console",
	"summary":         "console-lite",
	"text":            "console-lite",
	"lines-csv":       "detailed-csv",
	"htm":             "html",
}

// NormalizeFormatName lower-cases a format name and resolves aliases
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[n]; ok {
		return target
	}
	return n
}

// GetFormatterByName returns the formatter registered under name or alias, nil if none
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range formatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the registered formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// Extension returns the natural file extension for a formatter name
func Extension(name string) string {
	switch NormalizeFormatName(name) {
	case "json":
		return "json"
	case "csv", "detailed-csv":
		return "csv"
	case "html":
		return "html"
	}
	return "txt"
}
