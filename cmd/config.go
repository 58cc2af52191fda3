package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/profitlens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ProfitLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c := cfg
		if c == nil {
			fmt.Fprintln(out, mutedStyle.Render("No config loaded; showing defaults"))
			c = cfgpkg.Defaults()
		}
		for _, k := range cfgpkg.Keys {
			v, err := c.Get(k)
			if err != nil {
				return err
			}
			if v == "" {
				v = mutedStyle.Render("(auto)")
			}
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk. Keys:
  fields.location, fields.product, fields.date, fields.profit,
  fields.year, fields.month, fields.month_num,
  date_layouts (Go layouts separated by ';'), iqr_multiplier,
  decimal_separator, thousands_separator, max_rows,
  output_format, currency, report_max_rows, charts_dir,
  log_level, log_format`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
