package transform

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/hiquote/internal/domain"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
		Transforms:  []QuoteTransform{},
	}

	registry.Register(template)

	// Test exact match
	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	// Test case-insensitive
	if _, ok = registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	// Test not found
	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestTemplateRegistry_List(t *testing.T) {
	registry := NewTemplateRegistry()

	registry.Register(Template{Name: "b_template", Description: "Second"})
	registry.Register(Template{Name: "a_template", Description: "First"})

	names := registry.List()
	if len(names) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(names))
	}
	if names[0] != "a_template" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expectedTemplates := []string{
		"copay_10",
		"copay_20",
		"copay_30",
		"short_term_6m",
		"full_year",
		"no_outpatient",
		"no_maternity",
		"asia_cover",
		"continuous_renewal",
		"high_claims",
		"budget",
		"growth_50pct",
	}

	for _, name := range expectedTemplates {
		template, ok := registry.Get(name)
		if !ok {
			t.Errorf("Expected to find template: %s", name)
			continue
		}
		if len(template.Transforms) == 0 {
			t.Errorf("Template %s has no transforms", name)
		}
		if template.Description == "" {
			t.Errorf("Template %s has no description", name)
		}
	}
}

func TestApplyTemplate_AllBuiltIns(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestQuote()

	for _, name := range registry.List() {
		template, _ := registry.Get(name)
		t.Run(name, func(t *testing.T) {
			result, err := ApplyTemplate(base, template)
			if err != nil {
				t.Fatalf("Failed to apply template %s: %v", name, err)
			}
			if result == nil {
				t.Fatal("Expected non-nil result")
			}
		})
	}
}

func TestApplyTemplate_Budget(t *testing.T) {
	registry := CreateBuiltInTemplates()
	template, ok := registry.Get("budget")
	if !ok {
		t.Fatal("budget template missing")
	}

	result, err := ApplyTemplate(createTestQuote(), template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.General.CoPay != 30 {
		t.Errorf("Expected co-pay 30, got %d", result.General.CoPay)
	}
	for _, g := range result.Groups {
		if g.Benefits.E.Selected || g.Benefits.F.Selected {
			t.Errorf("Group %s still has outpatient or dental selected", g.ID)
		}
		if !g.Benefits.C.Selected {
			t.Errorf("Group %s lost inpatient cover", g.ID)
		}
	}
}

func TestApplyTemplate_Growth(t *testing.T) {
	registry := CreateBuiltInTemplates()
	template, _ := registry.Get("growth_50pct")

	result, err := ApplyTemplate(createTestQuote(), template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Groups[0].HeadCount != 30 {
		t.Errorf("Expected office head count 30, got %d", result.Groups[0].HeadCount)
	}
	if result.Groups[1].HeadCount != 60 {
		t.Errorf("Expected factory head count 60, got %d", result.Groups[1].HeadCount)
	}
}

func TestApplyTemplate_GrowthRejectsIndividual(t *testing.T) {
	registry := CreateBuiltInTemplates()
	template, _ := registry.Get("growth_50pct")

	base := createTestQuote()
	base.General.ContractType = domain.ContractIndividual
	base.Groups = base.Groups[:1]

	if _, err := ApplyTemplate(base, template); err == nil {
		t.Error("Expected error scaling an individual contract")
	}
}

func TestApplyTemplate_Empty(t *testing.T) {
	base := createTestQuote()

	result, err := ApplyTemplate(base, Template{Name: "noop"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result == base {
		t.Error("Expected a copy of the base quote")
	}

	if _, err := ApplyTemplate(nil, Template{Name: "noop"}); err == nil {
		t.Error("Expected error for nil base")
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"copay_20", []string{"copay_20"}},
		{"copay_20,budget", []string{"copay_20", "budget"}},
		{" copay_20 , budget ,", []string{"copay_20", "budget"}},
	}

	for _, tt := range tests {
		result := ParseTemplateList(tt.input)
		if len(result) != len(tt.expected) {
			t.Errorf("ParseTemplateList(%q) = %v, expected %v", tt.input, result, tt.expected)
			continue
		}
		for i := range result {
			if result[i] != tt.expected[i] {
				t.Errorf("ParseTemplateList(%q)[%d] = %s, expected %s", tt.input, i, result[i], tt.expected[i])
			}
		}
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{"Available Templates:", "Co-payment:", "copay_20", "budget", "Usage:", "hiquote compare"} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}

	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Expected empty registry message")
	}
}
