package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (QuoteTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// Policy-level parameters
	registry.Register("set_copay", createSetCoPay)
	registry.Register("set_duration", createSetDuration)
	registry.Register("set_loss_ratio", createSetLossRatio)
	registry.Register("set_renewal", createSetRenewal)
	registry.Register("set_geography", createSetGeography)

	// Group edits
	registry.Register("scale_headcount", createScaleHeadCount)
	registry.Register("set_sum_insured", createSetSumInsured)
	registry.Register("toggle_benefit", createToggleBenefit)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (QuoteTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:key=value,..." into a transform.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "toggle_benefit:benefit=E,enabled=false,group=office"
func (r *TransformRegistry) ParseTransformSpec(spec string) (QuoteTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func createSetCoPay(params map[string]string) (QuoteTransform, error) {
	levelStr, ok := params["level"]
	if !ok {
		return nil, fmt.Errorf("set_copay requires 'level' parameter")
	}

	level, err := strconv.Atoi(strings.TrimSuffix(levelStr, "%"))
	if err != nil {
		return nil, fmt.Errorf("invalid level value: %w", err)
	}

	return &SetCoPay{Level: domain.CoPay(level)}, nil
}

func createSetDuration(params map[string]string) (QuoteTransform, error) {
	duration, ok := params["duration"]
	if !ok {
		return nil, fmt.Errorf("set_duration requires 'duration' parameter")
	}

	return &SetDuration{Duration: domain.Duration(duration)}, nil
}

func createSetLossRatio(params map[string]string) (QuoteTransform, error) {
	ratioStr, ok := params["ratio"]
	if !ok {
		return nil, fmt.Errorf("set_loss_ratio requires 'ratio' parameter")
	}

	ratio, err := decimal.NewFromString(strings.TrimSuffix(ratioStr, "%"))
	if err != nil {
		return nil, fmt.Errorf("invalid ratio value: %w", err)
	}

	return &SetLossRatio{LossRatio: ratio}, nil
}

func createSetRenewal(params map[string]string) (QuoteTransform, error) {
	status, ok := params["status"]
	if !ok {
		return nil, fmt.Errorf("set_renewal requires 'status' parameter")
	}

	return &SetRenewal{Status: domain.RenewalStatus(status)}, nil
}

func createSetGeography(params map[string]string) (QuoteTransform, error) {
	geoStr, ok := params["geography"]
	if !ok {
		return nil, fmt.Errorf("set_geography requires 'geography' parameter")
	}

	geo, err := domain.ParseGeography(geoStr)
	if err != nil {
		return nil, err
	}

	return &SetGeography{Geography: geo}, nil
}

func createScaleHeadCount(params map[string]string) (QuoteTransform, error) {
	factorStr, ok := params["factor"]
	if !ok {
		return nil, fmt.Errorf("scale_headcount requires 'factor' parameter")
	}

	factor, err := decimal.NewFromString(factorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid factor value: %w", err)
	}

	return &ScaleHeadCount{Group: params["group"], Factor: factor}, nil
}

func createSetSumInsured(params map[string]string) (QuoteTransform, error) {
	target, ok := params["target"]
	if !ok {
		return nil, fmt.Errorf("set_sum_insured requires 'target' parameter")
	}

	amountStr, hasAmount := params["amount"]
	monthsStr, hasMonths := params["months"]
	if hasAmount == hasMonths {
		return nil, fmt.Errorf("set_sum_insured requires exactly one of 'amount' or 'months'")
	}

	var si domain.SumInsured
	if hasAmount {
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount value: %w", err)
		}
		si = domain.SumInsured{Method: domain.MethodFixed, Amount: amount}
	} else {
		months, err := strconv.Atoi(monthsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid months value: %w", err)
		}
		si = domain.SalarySumInsured(months)
	}

	return &SetSumInsured{Group: params["group"], Target: target, SumInsured: si}, nil
}

func createToggleBenefit(params map[string]string) (QuoteTransform, error) {
	benefitStr, ok := params["benefit"]
	if !ok {
		return nil, fmt.Errorf("toggle_benefit requires 'benefit' parameter")
	}

	code, err := domain.ParseBenefitCode(benefitStr)
	if err != nil {
		return nil, err
	}

	enabled := true
	if enabledStr, ok := params["enabled"]; ok {
		enabled, err = strconv.ParseBool(enabledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid enabled value: %w", err)
		}
	}

	return &ToggleBenefit{Group: params["group"], Benefit: code, Enabled: enabled}, nil
}
