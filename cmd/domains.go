package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/profitlens/internal/report"
	"github.com/KaramelBytes/profitlens/internal/utils"
)

var (
	domInput  inputFlags
	domFormat string
)

var domainsCmd = &cobra.Command{
	Use:   "domains <file>",
	Short: "List the selectable years, locations and products of a sales table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.NormalizeFormat(domFormat)
		if err != nil {
			return err
		}
		p, err := prepareFile(cmd, args[0], &domInput, currentConfig().AnalysisOptions())
		if err != nil {
			return err
		}
		d := p.Domains()
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			b, err := utils.PrettyJSON(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case "yaml":
			b, err := yaml.Marshal(d)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Fprint(out, string(b))
		default:
			years := make([]string, len(d.Years))
			for i, y := range d.Years {
				years[i] = strconv.Itoa(y)
			}
			printDomain(cmd, "Years", years)
			printDomain(cmd, "Locations", d.Locations)
			printDomain(cmd, "Products", d.Products)
		}
		return nil
	},
}

func printDomain(cmd *cobra.Command, title string, values []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d)\n", headerStyle.Render(title), len(values))
	if len(values) == 0 {
		fmt.Fprintln(out, "  "+mutedStyle.Render("(none)"))
		return
	}
	fmt.Fprintln(out, "  "+strings.Join(values, ", "))
}

func init() {
	rootCmd.AddCommand(domainsCmd)
	domInput.register(domainsCmd)
	domainsCmd.Flags().StringVarP(&domFormat, "format", "f", "", "output format: markdown|json|yaml (markdown prints a plain listing)")
}
