package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/output"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hiquote %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.GoVersion + " " + bi.Main.Path
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hiquote",
		Short:         "Health insurance premium quote engine",
		Long:          "Prices group and individual health insurance quotes from per-benefit rate tables and policy adjustments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		calculateCmd(),
		validateCmd(),
		compareCmd(),
		sensitivityCmd(),
		importCSVCmd(),
		ratesCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

// newEngine creates an engine, logging to stderr under --debug and pricing as of asOf when set
func newEngine(debugMode bool, asOf string) (*calculation.CalculationEngine, error) {
	engine := calculation.NewCalculationEngine()
	if debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	if asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of date %q (want YYYY-MM-DD): %w", asOf, err)
		}
		engine.Now = func() time.Time { return t }
	}
	return engine, nil
}

// loadRates returns the rate configuration at path, or the built-in defaults when path is empty
func loadRates(path string) (*rates.Config, error) {
	if path == "" {
		return rates.DefaultConfig(), nil
	}
	cfg, err := config.LoadRateConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates: %w", err)
	}
	return cfg, nil
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("rates", "", "Rate configuration file (YAML or JSON); built-in rates when empty")
	cmd.Flags().String("as-of", "", "Price as of this date (YYYY-MM-DD) instead of today")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
}

// engineFromFlags builds the engine and rate configuration named by addEngineFlags
func engineFromFlags(cmd *cobra.Command) (*calculation.CalculationEngine, *rates.Config, error) {
	debugMode, _ := cmd.Flags().GetBool("debug")
	asOf, _ := cmd.Flags().GetString("as-of")
	ratesPath, _ := cmd.Flags().GetString("rates")

	engine, err := newEngine(debugMode, asOf)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadRates(ratesPath)
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [quote-file]",
		Short: "Calculate the premium of a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			engine, cfg, err := engineFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := engine.CalculateQuote(q, cfg)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}

			format, _ := cmd.Flags().GetString("format")
			outDir, _ := cmd.Flags().GetString("output-dir")
			if outDir == "" {
				return output.GenerateReport(cmd.OutOrStdout(), result, format)
			}

			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path, err := output.WriteFormatted(f, result, outDir, output.Extension(format))
			if err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().String("output-dir", "", "Write the report into this directory instead of stdout")
	addEngineFlags(cmd)
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [quote-file]",
		Short: "Validate a quote and report business-rule findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			engine, cfg, err := engineFromFlags(cmd)
			if err != nil {
				return err
			}
			result, err := engine.CalculateQuote(q, cfg)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}
			return reportValidation(cmd.OutOrStdout(), args[0], result)
		},
	}
	addEngineFlags(cmd)
	return cmd
}

// reportValidation prints every finding and fails when the quote cannot be exported
func reportValidation(w io.Writer, name string, result *domain.CalculationResult) error {
	for _, m := range result.Validation {
		where := ""
		if m.GroupID != "" {
			where = " [" + m.GroupID + "]"
		}
		fmt.Fprintf(w, "%-7s %s%s: %s\n", strings.ToUpper(string(m.Severity)), m.Code, where, m.Message)
	}
	if !result.Exportable {
		return fmt.Errorf("%s is not exportable (%d finding(s))", name, len(result.Validation))
	}
	fmt.Fprintf(w, "%s is valid (%d insured, final premium %s)\n", name, result.TotalHeadCount, output.FormatCurrency(result.FinalPremium))
	return nil
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect rate configurations",
	}

	defaults := &cobra.Command{
		Use:   "defaults",
		Short: "Export the built-in rate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return config.WriteRateConfig(cmd.OutOrStdout(), rates.DefaultConfig().Clone(), format)
		},
	}
	defaults.Flags().StringP("format", "f", "yaml", "Output format (yaml, json)")

	check := &cobra.Command{
		Use:   "check [rates-file]",
		Short: "Load a rate configuration and report its tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadRateConfig(args[0])
			if err != nil {
				return err
			}
			id := cfg.ProductID
			if id == "" {
				id = "(unnamed)"
			}
			ratio := rates.DefaultMinRateRatio
			if cfg.MinRateRatio != nil {
				ratio = *cfg.MinRateRatio
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d base rates, %d minimum rates, minimum ratio %s\n",
				id, len(cfg.BaseRates), len(cfg.MinRates), ratio.String())
			return nil
		},
	}

	cmd.AddCommand(defaults, check)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
