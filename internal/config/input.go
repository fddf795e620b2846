package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of quote and rate configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a quote from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Quote, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if isJSON(filename, data) {
		return ip.ParseQuoteJSON(data)
	}
	return ip.ParseQuoteYAML(data)
}

// ParseQuoteYAML parses and validates a YAML quote. Unknown keys are rejected.
func (ip *InputParser) ParseQuoteYAML(data []byte) (*domain.Quote, error) {
	var quote domain.Quote
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&quote); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateQuote(&quote); err != nil {
		return nil, fmt.Errorf("quote validation failed: %w", err)
	}
	return &quote, nil
}

// ParseQuoteJSON parses and validates a JSON quote
func (ip *InputParser) ParseQuoteJSON(data []byte) (*domain.Quote, error) {
	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := ip.ValidateQuote(&quote); err != nil {
		return nil, fmt.Errorf("quote validation failed: %w", err)
	}
	return &quote, nil
}

// ValidateQuote checks that the quote is well-formed. Business conditions such as ineligible
// ages or a missing main benefit are left to the engine, which reports them on the result.
func (ip *InputParser) ValidateQuote(q *domain.Quote) error {
	if err := q.General.Validate(); err != nil {
		return fmt.Errorf("general info: %w", err)
	}
	if len(q.Groups) == 0 {
		return fmt.Errorf("no groups provided")
	}
	if q.General.ContractType == domain.ContractIndividual && len(q.Groups) > 1 {
		return fmt.Errorf("individual contracts cover exactly one person, got %d groups", len(q.Groups))
	}

	seen := make(map[string]bool, len(q.Groups))
	for i := range q.Groups {
		g := &q.Groups[i]
		if g.ID == "" {
			g.ID = fmt.Sprintf("group-%d", i+1)
		}
		if seen[g.ID] {
			return fmt.Errorf("group %d: duplicate id %q", i, g.ID)
		}
		seen[g.ID] = true
		if err := ip.validateGroup(q.General, g); err != nil {
			return fmt.Errorf("group %d (%s) validation failed: %w", i, g.DisplayName(), err)
		}
	}
	return nil
}

func (ip *InputParser) validateGroup(info domain.GeneralInfo, g *domain.InsuranceGroup) error {
	if info.ContractType == domain.ContractIndividual {
		if g.Gender != domain.GenderMale && g.Gender != domain.GenderFemale {
			return fmt.Errorf("gender must be male or female, got %q", g.Gender)
		}
	} else {
		if g.HeadCount < 0 || g.MaleCount < 0 || g.FemaleCount < 0 {
			return fmt.Errorf("head counts cannot be negative")
		}
		if g.HeadCount == 0 && g.MaleCount+g.FemaleCount == 0 {
			return fmt.Errorf("head count must be at least 1")
		}
		if g.HeadCount > 0 && g.MaleCount+g.FemaleCount > g.HeadCount {
			return fmt.Errorf("male (%d) and female (%d) counts exceed head count %d", g.MaleCount, g.FemaleCount, g.HeadCount)
		}
	}
	if g.BasicSalary.IsNegative() {
		return fmt.Errorf("basic salary cannot be negative")
	}
	return ip.validateBenefits(&g.Benefits)
}

func (ip *InputParser) validateBenefits(b *domain.Benefits) error {
	checks := map[string]domain.SumInsured{
		"a.sum_insured":                  b.A.SumInsured,
		"a.salary_allowance.sum_insured": b.A.SalaryAllowance.SumInsured,
		"a.medical.sum_insured":          b.A.Medical.SumInsured,
		"b.sum_insured":                  b.B.SumInsured,
		"c.sum_insured":                  b.C.SumInsured,
		"d.sum_insured":                  b.D.SumInsured,
		"e.sum_insured":                  b.E.SumInsured,
		"f.sum_insured":                  b.F.SumInsured,
		"g.transport.sum_insured":        b.G.Transport.SumInsured,
	}
	for field, si := range checks {
		if err := validateSumInsured(si); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if b.G.Geography != "" && !b.G.Geography.Valid() {
		return fmt.Errorf("g.geography: unknown geography %q", b.G.Geography)
	}
	if b.H.Selected && !b.H.ValidMonths() {
		return fmt.Errorf("h.months must be one of %v, got %d", domain.IncomeLossMonths, b.H.Months)
	}
	return nil
}

func validateSumInsured(si domain.SumInsured) error {
	switch si.Method {
	case "", domain.MethodFixed:
		if si.Amount.IsNegative() {
			return fmt.Errorf("amount cannot be negative")
		}
	case domain.MethodSalary:
		if si.SalaryMonths < 0 || si.SalaryMonths > domain.MaxSalaryMonths {
			return fmt.Errorf("salary months must be between 0 and %d, got %d", domain.MaxSalaryMonths, si.SalaryMonths)
		}
	default:
		return fmt.Errorf("unknown method %q", si.Method)
	}
	return nil
}

// LoadRateConfig loads and initializes a rate configuration from a YAML or JSON file
func LoadRateConfig(filename string) (*rates.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	cfg, err := ParseRateConfig(data, isJSON(filename, data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// ParseRateConfig decodes and initializes a rate configuration
func ParseRateConfig(data []byte, asJSON bool) (*rates.Config, error) {
	var cfg rates.Config
	if asJSON {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := cfg.Init(); err != nil {
		return nil, fmt.Errorf("rate configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// WriteRateConfig encodes cfg as "yaml" or "json"
func WriteRateConfig(w io.Writer, cfg *rates.Config, format string) error {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported rate format %q", format)
}

func isJSON(filename string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
