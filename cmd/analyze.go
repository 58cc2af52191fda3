package cmd

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/chart"
	"github.com/KaramelBytes/profitlens/internal/report"
)

// chartsFromConfig is the --charts value used when the flag has no argument.
const chartsFromConfig = "auto"

var (
	anaInput          inputFlags
	anaYears          []int
	anaLocations      []string
	anaProducts       []string
	anaIncludeMissing bool
	anaFormat         string
	anaOutputPath     string
	anaCharts         string
	anaIQR            float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a sales table and report profit aggregates and data quality",
	Long: `Analyze loads a CSV/TSV/XLSX sales table, derives year and month from the date
column and reports profit by product, month, location and year for the selected
years, locations and products (all observed values by default). Missing values,
duplicates, correlations and IQR outliers are computed over the whole table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := currentConfig()
		opts := conf.AnalysisOptions()
		if cmd.Flags().Changed("iqr-multiplier") {
			if anaIQR <= 0 {
				return fmt.Errorf("invalid --iqr-multiplier: %v (must be > 0)", anaIQR)
			}
			opts.IQRMultiplier = anaIQR
		}
		format := conf.OutputFormat
		if anaFormat != "" {
			format = anaFormat
		}
		format, err := report.NormalizeFormat(format)
		if err != nil {
			return err
		}

		p, err := prepareFile(cmd, args[0], &anaInput, opts)
		if err != nil {
			return err
		}
		sel := selectionFromFlags(cmd, p)
		b := p.Analyze(sel)

		errOut := cmd.ErrOrStderr()
		for _, w := range b.Warnings {
			printWarn(errOut, "%s", w)
		}

		r := conf.Renderer()
		if anaOutputPath != "" {
			if err := r.Write(b, format, anaOutputPath); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Wrote %s analysis to %s", format, anaOutputPath)
		} else {
			data, err := r.Render(b, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		if anaCharts != "" {
			dir := anaCharts
			if dir == chartsFromConfig {
				dir = conf.ChartsDir
			}
			paths, err := chart.RenderAll(b, dir)
			if err != nil {
				return err
			}
			printOK(errOut, "Wrote %d charts to %s", len(paths), dir)
		}
		return nil
	},
}

// selectionFromFlags starts from everything observed and narrows each
// dimension whose flag was given.
func selectionFromFlags(cmd *cobra.Command, p *analysis.Prepared) analysis.Selection {
	d := p.Domains()
	sel := d.Selection()
	errOut := cmd.ErrOrStderr()
	if cmd.Flags().Changed("years") {
		sel.Years = anaYears
		for _, y := range anaYears {
			if !slices.Contains(d.Years, y) {
				printWarn(errOut, "year %d does not occur in the data", y)
			}
		}
	}
	if cmd.Flags().Changed("locations") {
		sel.Locations = anaLocations
		warnUnknown(cmd, "location", anaLocations, d.Locations)
	}
	if cmd.Flags().Changed("products") {
		sel.Products = anaProducts
		warnUnknown(cmd, "product", anaProducts, d.Products)
	}
	sel.IncludeMissingYear = anaIncludeMissing
	slog.Debug("selection", "years", sel.Years, "locations", len(sel.Locations), "products", len(sel.Products))
	return sel
}

func warnUnknown(cmd *cobra.Command, kind string, picked, domain []string) {
	for _, v := range picked {
		if !slices.Contains(domain, v) {
			printWarn(cmd.ErrOrStderr(), "%s %q does not occur in the data", kind, v)
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaInput.register(analyzeCmd)
	analyzeCmd.Flags().IntSliceVar(&anaYears, "years", nil, "years to include (default: all observed)")
	analyzeCmd.Flags().StringSliceVar(&anaLocations, "locations", nil, "locations to include (default: all observed)")
	analyzeCmd.Flags().StringSliceVar(&anaProducts, "products", nil, "products to include (default: all observed)")
	analyzeCmd.Flags().BoolVar(&anaIncludeMissing, "include-missing-year", false, "also include rows whose date could not be parsed")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "", "output format: markdown|json|yaml (default from config)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaCharts, "charts", "", "write PNG charts; --charts=DIR picks the directory, bare --charts uses charts_dir from config")
	analyzeCmd.Flags().Lookup("charts").NoOptDefVal = chartsFromConfig
	analyzeCmd.Flags().Float64Var(&anaIQR, "iqr-multiplier", analysis.DefaultIQRMultiplier, "IQR multiplier for outlier bounds (overrides config)")
}
