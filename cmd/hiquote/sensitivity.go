package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func sensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [quote-file]",
		Short: "Sweep policy parameters and show how the premium reacts",
		Long: `Perform sensitivity analysis to see how the premium responds to parameter changes.

Examples:
  # Loss ratio sweep with the default range
  hiquote sensitivity quote.yaml --parameter loss_ratio

  # Custom ranges
  hiquote sensitivity quote.yaml --parameter loss_ratio:0-200:9 --parameter co_pay:0-50:6

  # Every common parameter
  hiquote sensitivity quote.yaml --parameter-set common --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paramStrings, _ := cmd.Flags().GetStringSlice("parameter")
			setName, _ := cmd.Flags().GetString("parameter-set")

			var parameters []domain.SensitivityParameter
			switch {
			case setName != "":
				set, err := getPredefinedParameterSet(setName)
				if err != nil {
					return err
				}
				parameters = set
			case len(paramStrings) > 0:
				for _, s := range paramStrings {
					p, err := parseParameterString(s)
					if err != nil {
						return fmt.Errorf("error parsing parameter '%s': %w", s, err)
					}
					parameters = append(parameters, p)
				}
			default:
				return fmt.Errorf("must specify either --parameter or --parameter-set")
			}

			q, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			engine, cfg, err := engineFromFlags(cmd)
			if err != nil {
				return err
			}

			analyzer := calculation.NewSensitivityAnalyzer(engine, cfg)
			var analysis *domain.ParameterSensitivityAnalysis
			if len(parameters) == 1 {
				analysis, err = analyzer.AnalyzeSingleParameter(q, parameters[0])
			} else {
				analysis, err = analyzer.AnalyzeMultipleParameters(q, parameters)
			}
			if err != nil {
				return fmt.Errorf("sensitivity analysis failed: %w", err)
			}

			format, _ := cmd.Flags().GetString("format")
			out, err := output.NewSensitivityFormatter(format).FormatSensitivityAnalysis(analysis)
			if err != nil {
				return fmt.Errorf("failed to format analysis: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringSlice("parameter", nil, "Parameter to analyze (name or name:min-max:steps)")
	cmd.Flags().String("parameter-set", "", "Use a predefined parameter set (common, policy)")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	addEngineFlags(cmd)
	return cmd
}

func getPredefinedParameterSet(setName string) ([]domain.SensitivityParameter, error) {
	switch setName {
	case "common":
		return domain.GetCommonParameters(), nil
	case "policy":
		return []domain.SensitivityParameter{domain.LossRatioParam, domain.CoPayParam}, nil
	}
	return nil, fmt.Errorf("unknown parameter set: %s (want common or policy)", setName)
}

// parseParameterString accepts "name" for a common parameter with its default range,
// or "name:min-max:steps" to override the range
func parseParameterString(paramStr string) (domain.SensitivityParameter, error) {
	parts := strings.Split(paramStr, ":")
	name := parts[0]

	var param domain.SensitivityParameter
	found := false
	for _, common := range domain.GetCommonParameters() {
		if common.Name == name {
			param, found = common, true
			break
		}
	}
	if !found {
		return param, fmt.Errorf("unknown parameter %q", name)
	}

	switch len(parts) {
	case 1:
		return param, nil
	case 3:
	default:
		return param, fmt.Errorf("invalid parameter format: %s (expected name or name:min-max:steps)", paramStr)
	}

	minMax := strings.Split(parts[1], "-")
	if len(minMax) != 2 {
		return param, fmt.Errorf("invalid range format: %s (expected min-max)", parts[1])
	}
	minValue, err := decimal.NewFromString(minMax[0])
	if err != nil {
		return param, fmt.Errorf("invalid min value: %w", err)
	}
	maxValue, err := decimal.NewFromString(minMax[1])
	if err != nil {
		return param, fmt.Errorf("invalid max value: %w", err)
	}
	if maxValue.LessThan(minValue) {
		return param, fmt.Errorf("max %s is below min %s", maxValue, minValue)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return param, fmt.Errorf("invalid steps value: %s", parts[2])
	}

	param.MinValue = minValue
	param.MaxValue = maxValue
	param.Steps = steps
	return param, nil
}
