package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/chart"
	"github.com/KaramelBytes/profitlens/internal/report"
	"github.com/KaramelBytes/profitlens/internal/utils"
)

var (
	abInput     inputFlags
	abFormat    string
	abOutputDir string
	abCharts    bool
	abIQR       float64
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress, one report per file",
	Long: `Analyze-batch runs the full analysis with the default selection (every observed
year, location and product) on each file. Arguments may be glob patterns. With
--output-dir each report is written as <name>.<ext>; otherwise reports are
printed to stdout. A failing file is reported and the batch continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		conf := currentConfig()
		opts := conf.AnalysisOptions()
		if cmd.Flags().Changed("iqr-multiplier") {
			if abIQR <= 0 {
				return fmt.Errorf("invalid --iqr-multiplier: %v (must be > 0)", abIQR)
			}
			opts.IQRMultiplier = abIQR
		}
		format := conf.OutputFormat
		if abFormat != "" {
			format = abFormat
		}
		format, err := report.NormalizeFormat(format)
		if err != nil {
			return err
		}
		if abCharts && abOutputDir == "" {
			return fmt.Errorf("--charts requires --output-dir in batch mode")
		}
		r := conf.Renderer()

		out := cmd.OutOrStdout()
		errOut := cmd.ErrOrStderr()
		var bar *progressbar.ProgressBar
		if !abQuiet {
			bar = progressbar.NewOptions(len(files),
				progressbar.OptionSetWriter(errOut),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Analyzing"),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(errOut) }),
			)
		}

		used := map[string]bool{}
		var failed []string
		for _, path := range files {
			if bar != nil {
				bar.Describe(filepath.Base(path))
			}
			if err := analyzeOne(cmd, path, opts, format, r, used); err != nil {
				fmt.Fprintln(errOut, errStyle.Render("✗"), err)
				failed = append(failed, filepath.Base(path))
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			_ = bar.Finish()
		}

		done := len(files) - len(failed)
		if abOutputDir != "" && !abQuiet {
			printOK(out, "Wrote %d/%d reports to %s", done, len(files), abOutputDir)
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %v", len(failed), len(files), failed)
		}
		return nil
	},
}

func analyzeOne(cmd *cobra.Command, path string, opts analysis.Options, format string, r report.Renderer, used map[string]bool) error {
	p, err := prepareFile(cmd, path, &abInput, opts)
	if err != nil {
		return err
	}
	b := p.Analyze(p.DefaultSelection())

	if abOutputDir == "" {
		data, err := r.Render(b, format)
		if err != nil {
			return err
		}
		if !abQuiet {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return nil
	}

	stem := uniqueStem(used, utils.StemName(path))
	outFile := filepath.Join(abOutputDir, stem+"."+extension(format))
	if err := r.Write(b, format, outFile); err != nil {
		return err
	}
	if abCharts {
		if _, err := chart.RenderAll(b, filepath.Join(abOutputDir, stem+"_charts")); err != nil {
			return err
		}
	}
	return nil
}

// expandInputs resolves glob patterns and literal paths, de-duplicated and sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniqueStem suffixes __2, __3, ... when two inputs share a base name.
func uniqueStem(used map[string]bool, stem string) string {
	cand := stem
	for i := 2; used[cand]; i++ {
		cand = fmt.Sprintf("%s__%d", stem, i)
	}
	used[cand] = true
	return cand
}

func extension(format string) string {
	switch format {
	case "json":
		return "json"
	case "yaml":
		return "yaml"
	default:
		return "md"
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abInput.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "", "output format: markdown|json|yaml (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "directory for per-file reports (default: print to stdout)")
	analyzeBatchCmd.Flags().BoolVar(&abCharts, "charts", false, "also write charts under <output-dir>/<name>_charts")
	analyzeBatchCmd.Flags().Float64Var(&abIQR, "iqr-multiplier", analysis.DefaultIQRMultiplier, "IQR multiplier for outlier bounds (overrides config)")
	analyzeBatchCmd.Flags().BoolVarP(&abQuiet, "quiet", "q", false, "suppress progress and stdout reports")
}
