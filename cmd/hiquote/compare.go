package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/compare"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/transform"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [quote-file]",
		Short: "Compare a quote against what-if alternatives",
		Long: `Price a quote next to alternatives built from templates or ad-hoc transforms.

Examples:
  hiquote compare --list-templates
  hiquote compare quote.yaml --with copay_20,no_outpatient
  hiquote compare quote.yaml --transform set_copay:level=30 --transform toggle_benefit:benefit=E,enabled=false
  hiquote compare quote.yaml --with high_claims --format csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates, _ := cmd.Flags().GetBool("list-templates"); listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("quote file required for comparison (use --list-templates to see available templates)")
			}

			templatesStr, _ := cmd.Flags().GetString("with")
			transforms, _ := cmd.Flags().GetStringArray("transform")
			templateNames := transform.ParseTemplateList(templatesStr)
			if len(templateNames) == 0 && len(transforms) == 0 {
				return fmt.Errorf("--with or --transform is required to describe the alternatives")
			}

			q, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			engine, cfg, err := engineFromFlags(cmd)
			if err != nil {
				return err
			}

			compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), q, cfg, compare.CompareOptions{
				Templates:  templateNames,
				Transforms: transforms,
				QuotePath:  args[0],
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			format, _ := cmd.Flags().GetString("format")
			out, err := formatComparison(compSet, format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringArray("transform", nil, "Transform spec name:key=value,... (repeatable, applied together)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available templates")
	addEngineFlags(cmd)
	return cmd
}

func formatComparison(compSet *compare.ComparisonSet, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return (&compare.TableFormatter{}).Format(compSet), nil
	case "compact":
		return (&compare.TableFormatter{}).FormatCompact(compSet), nil
	case "csv":
		return (&compare.CSVFormatter{}).Format(compSet)
	case "json":
		out, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	}
	return "", fmt.Errorf("unsupported comparison format %q (want table, compact, csv or json)", format)
}
