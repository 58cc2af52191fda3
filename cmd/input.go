package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/table"
)

// inputFlags are the loader flags shared by every command that reads a table.
type inputFlags struct {
	sheetName  string
	sheetIndex int
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
}

func (f *inputFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
}

// tableOptions applies flags over the configured loader options.
func (f *inputFlags) tableOptions(c *cobra.Command) (table.Options, error) {
	opt := currentConfig().TableOptions()
	if f.sheetName != "" {
		opt.SheetName = f.sheetName
	}
	if c.Flags().Changed("sheet-index") {
		if f.sheetIndex < 1 {
			return opt, fmt.Errorf("invalid --sheet-index: %d (must be >= 1)", f.sheetIndex)
		}
		opt.SheetIndex = f.sheetIndex
	}
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	return opt, nil
}

// prepareFile loads path and prepares it for analysis.
func prepareFile(c *cobra.Command, path string, in *inputFlags, opts analysis.Options) (*analysis.Prepared, error) {
	topt, err := in.tableOptions(c)
	if err != nil {
		return nil, err
	}
	t, err := table.LoadFile(path, topt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	p, err := analysis.Prepare(t, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}
