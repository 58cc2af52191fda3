package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/report"
	"github.com/KaramelBytes/profitlens/internal/utils"
)

var (
	descInput  inputFlags
	descFormat string
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Show descriptive statistics for every column of a sales table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.NormalizeFormat(descFormat)
		if err != nil {
			return err
		}
		p, err := prepareFile(cmd, args[0], &descInput, currentConfig().AnalysisOptions())
		if err != nil {
			return err
		}
		profiles := analysis.Describe(p.Table())
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			b, err := utils.PrettyJSON(profiles)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		case "yaml":
			b, err := yaml.Marshal(profiles)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Fprint(out, string(b))
			return nil
		}

		fmt.Fprintf(out, "%s: %d rows, %d columns\n\n", p.Table().Name, p.Table().Len(), len(p.Table().Columns))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			headerStyle.Render("Column"),
			headerStyle.Render("Kind"),
			headerStyle.Render("Non-null"),
			headerStyle.Render("Missing"),
			headerStyle.Render("Unique"),
			headerStyle.Render("Summary"))
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			strings.Repeat("-", 12), strings.Repeat("-", 11), strings.Repeat("-", 8),
			strings.Repeat("-", 7), strings.Repeat("-", 6), strings.Repeat("-", 40))
		for _, c := range profiles {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", c.Name, c.Kind, c.NonNull, c.Missing, c.Unique, summary(c))
		}
		return nil
	},
}

func summary(c analysis.ColumnProfile) string {
	switch c.Kind {
	case "numeric":
		return fmt.Sprintf("mean %.4g, std %.4g, min %.4g, q1 %.4g, median %.4g, q3 %.4g, max %.4g",
			c.Mean, c.Std, c.Min, c.Q1, c.Median, c.Q3, c.Max)
	case "empty":
		return mutedStyle.Render("(no values)")
	}
	parts := make([]string, len(c.TopValues))
	for i, kv := range c.TopValues {
		parts[i] = fmt.Sprintf("%s(%d)", kv.Value, kv.Count)
	}
	return "top " + strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descInput.register(describeCmd)
	describeCmd.Flags().StringVarP(&descFormat, "format", "f", "", "output format: markdown|json|yaml (markdown prints a table)")
}
