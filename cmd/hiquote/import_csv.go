package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/csvimport"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func importCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-csv [groups.csv]",
		Short: "Convert a CSV of insured groups into a quote file",
		Long: `Read one insured group per CSV row and write a YAML quote. Policy parameters come from flags.

Examples:
  hiquote import-csv groups.csv --name "Acme 2025" --loss-ratio 45 --renewal continuous -o acme.yaml
  hiquote import-csv groups.csv --delimiter ';' --calculate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := generalInfoFromFlags(cmd)
			if err != nil {
				return fmt.Errorf("invalid policy parameters: %w", err)
			}

			reader := csvimport.NewReader()
			reader.MonthsThreshold, _ = cmd.Flags().GetInt("months-threshold")
			if reader.MonthsThreshold <= 0 {
				return fmt.Errorf("--months-threshold must be positive")
			}
			delimiter, _ := cmd.Flags().GetString("delimiter")
			if len([]rune(delimiter)) != 1 {
				return fmt.Errorf("--delimiter must be a single character")
			}
			reader.Comma = []rune(delimiter)[0]

			groups, err := reader.ReadFile(args[0])
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			q := &domain.Quote{Name: name, General: info, Groups: groups}
			if err := config.NewInputParser().ValidateQuote(q); err != nil {
				return fmt.Errorf("imported quote is invalid: %w", err)
			}

			data, err := yaml.Marshal(q)
			if err != nil {
				return fmt.Errorf("failed to encode quote: %w", err)
			}

			outPath, _ := cmd.Flags().GetString("output")
			if outPath == "" {
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write quote: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d group(s) into %s\n", len(groups), outPath)
			}

			if calc, _ := cmd.Flags().GetBool("calculate"); calc {
				engine, cfg, err := engineFromFlags(cmd)
				if err != nil {
					return err
				}
				result, err := engine.CalculateQuote(q, cfg)
				if err != nil {
					return fmt.Errorf("calculation failed: %w", err)
				}
				return output.GenerateReport(cmd.OutOrStdout(), result, "console-lite")
			}
			return nil
		},
	}
	cmd.Flags().String("name", "", "Quote name")
	cmd.Flags().String("contract-type", string(domain.ContractGroup), "Contract type (group, individual)")
	cmd.Flags().String("geography", string(domain.GeographyVietnam), "Policy geography (vietnam, asia, global)")
	cmd.Flags().String("duration", string(domain.DurationOver9Months), "Insurance period band")
	cmd.Flags().Int("co-pay", 0, "Co-payment percent")
	cmd.Flags().String("loss-ratio", "0", "Prior-year loss ratio in percent")
	cmd.Flags().String("renewal", string(domain.RenewalNonContinuous), "Renewal status (continuous, non_continuous)")
	cmd.Flags().String("product", "", "Rate product id recorded on the quote")
	cmd.Flags().Int("months-threshold", csvimport.DefaultMonthsThreshold, "Sum-insured cells up to this value are salary months")
	cmd.Flags().String("delimiter", ",", "CSV field delimiter")
	cmd.Flags().StringP("output", "o", "", "Write the quote to this file instead of stdout")
	cmd.Flags().Bool("calculate", false, "Also price the imported quote")
	addEngineFlags(cmd)
	return cmd
}

func generalInfoFromFlags(cmd *cobra.Command) (domain.GeneralInfo, error) {
	contractType, _ := cmd.Flags().GetString("contract-type")
	geography, _ := cmd.Flags().GetString("geography")
	duration, _ := cmd.Flags().GetString("duration")
	coPay, _ := cmd.Flags().GetInt("co-pay")
	lossRatio, _ := cmd.Flags().GetString("loss-ratio")
	renewal, _ := cmd.Flags().GetString("renewal")
	product, _ := cmd.Flags().GetString("product")

	info := domain.GeneralInfo{
		ProductID:    product,
		ContractType: domain.ContractType(strings.ToLower(contractType)),
		Duration:     domain.Duration(strings.ToLower(duration)),
		CoPay:        domain.CoPay(coPay),
		Renewal:      domain.RenewalStatus(strings.ToLower(renewal)),
	}

	geo, err := domain.ParseGeography(geography)
	if err != nil {
		return info, err
	}
	info.Geography = geo

	lr, err := decimal.NewFromString(strings.TrimSuffix(lossRatio, "%"))
	if err != nil {
		return info, fmt.Errorf("invalid loss ratio %q", lossRatio)
	}
	info.LossRatio = lr

	return info, info.Validate()
}
