package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/report"
	"github.com/KaramelBytes/profitlens/internal/table"
)

// Global configuration structure.
type Global struct {
	Fields        analysis.Fields `mapstructure:"fields" yaml:"fields"`
	DateLayouts   []string        `mapstructure:"date_layouts" yaml:"date_layouts,omitempty"`
	IQRMultiplier float64         `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`

	// Number parsing. Empty means auto-detect per value.
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator,omitempty"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator,omitempty"`
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows"`

	// Output
	OutputFormat  string `mapstructure:"output_format" yaml:"output_format"`
	Currency      string `mapstructure:"currency" yaml:"currency"`
	ReportMaxRows int    `mapstructure:"report_max_rows" yaml:"report_max_rows"`
	ChartsDir     string `mapstructure:"charts_dir" yaml:"charts_dir"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable scalar keys in display order.
var Keys = []string{
	"fields.location", "fields.product", "fields.date", "fields.profit",
	"fields.year", "fields.month", "fields.month_num",
	"date_layouts", "iqr_multiplier",
	"decimal_separator", "thousands_separator", "max_rows",
	"output_format", "currency", "report_max_rows", "charts_dir",
	"log_level", "log_format",
}

// Defaults is the configuration used when no file or environment sets a key.
func Defaults() *Global {
	return &Global{
		Fields:        analysis.DefaultFields(),
		IQRMultiplier: analysis.DefaultIQRMultiplier,
		OutputFormat:  "markdown",
		Currency:      report.Default.Currency,
		ReportMaxRows: report.Default.MaxRows,
		ChartsDir:     "charts",
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".profitlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.profitlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// Environment keys use the PROFITLENS_ prefix with dots replaced by
// underscores, e.g. PROFITLENS_FIELDS_PROFIT.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PROFITLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("fields.location", d.Fields.Location)
	v.SetDefault("fields.product", d.Fields.Product)
	v.SetDefault("fields.date", d.Fields.Date)
	v.SetDefault("fields.profit", d.Fields.Profit)
	v.SetDefault("fields.year", d.Fields.Year)
	v.SetDefault("fields.month", d.Fields.Month)
	v.SetDefault("fields.month_num", d.Fields.MonthNum)
	v.SetDefault("date_layouts", []string{})
	v.SetDefault("iqr_multiplier", d.IQRMultiplier)
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("currency", d.Currency)
	v.SetDefault("report_max_rows", d.ReportMaxRows)
	v.SetDefault("charts_dir", d.ChartsDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	if _, err := report.NormalizeFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("output_format: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (use text or json)", c.LogFormat)
	}
	if c.IQRMultiplier < 0 {
		return fmt.Errorf("invalid iqr_multiplier: %v (must be > 0)", c.IQRMultiplier)
	}
	if _, err := separator(c.DecimalSeparator); err != nil {
		return fmt.Errorf("decimal_separator: %w", err)
	}
	if _, err := separator(c.ThousandsSeparator); err != nil {
		return fmt.Errorf("thousands_separator: %w", err)
	}
	return nil
}

// Set assigns a single key from its string form, as used by `config set`.
func (c *Global) Set(key, val string) error {
	switch key {
	case "fields.location":
		c.Fields.Location = val
	case "fields.product":
		c.Fields.Product = val
	case "fields.date":
		c.Fields.Date = val
	case "fields.profit":
		c.Fields.Profit = val
	case "fields.year":
		c.Fields.Year = val
	case "fields.month":
		c.Fields.Month = val
	case "fields.month_num":
		c.Fields.MonthNum = val
	case "date_layouts":
		c.DateLayouts = nil
		for _, l := range strings.Split(val, ";") {
			if l = strings.TrimSpace(l); l != "" {
				c.DateLayouts = append(c.DateLayouts, l)
			}
		}
	case "iqr_multiplier":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for iqr_multiplier: %v", val)
		}
		c.IQRMultiplier = f
	case "decimal_separator":
		c.DecimalSeparator = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "output_format":
		f, err := report.NormalizeFormat(val)
		if err != nil {
			return err
		}
		c.OutputFormat = f
	case "currency":
		c.Currency = val
	case "report_max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for report_max_rows: %v", val)
		}
		c.ReportMaxRows = i
	case "charts_dir":
		c.ChartsDir = val
	case "log_level":
		if _, err := ParseLevel(val); err != nil {
			return err
		}
		c.LogLevel = val
	case "log_format":
		c.LogFormat = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.Validate()
}

// Get returns the string form of a key, as printed by `config show`.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "fields.location":
		return c.Fields.Location, nil
	case "fields.product":
		return c.Fields.Product, nil
	case "fields.date":
		return c.Fields.Date, nil
	case "fields.profit":
		return c.Fields.Profit, nil
	case "fields.year":
		return c.Fields.Year, nil
	case "fields.month":
		return c.Fields.Month, nil
	case "fields.month_num":
		return c.Fields.MonthNum, nil
	case "date_layouts":
		return strings.Join(c.DateLayouts, ";"), nil
	case "iqr_multiplier":
		return strconv.FormatFloat(c.IQRMultiplier, 'f', -1, 64), nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "thousands_separator":
		return c.ThousandsSeparator, nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "output_format":
		return c.OutputFormat, nil
	case "currency":
		return c.Currency, nil
	case "report_max_rows":
		return strconv.Itoa(c.ReportMaxRows), nil
	case "charts_dir":
		return c.ChartsDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// AnalysisOptions builds engine options from the configuration.
func (c *Global) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Fields:        c.Fields,
		DateLayouts:   append([]string(nil), c.DateLayouts...),
		IQRMultiplier: c.IQRMultiplier,
	}
}

// TableOptions builds loader options from the configuration.
func (c *Global) TableOptions() table.Options {
	opt := table.DefaultOptions()
	opt.MaxRows = c.MaxRows
	opt.DecimalSeparator, _ = separator(c.DecimalSeparator)
	opt.ThousandsSeparator, _ = separator(c.ThousandsSeparator)
	return opt
}

// Renderer builds the report renderer from the configuration.
func (c *Global) Renderer() report.Renderer {
	return report.Renderer{Currency: c.Currency, MaxRows: c.ReportMaxRows}
}

// separator maps a config spelling to a rune; "" means auto-detect.
func separator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case " ", "space":
		return ' ', nil
	case "'", "apostrophe":
		return '\'', nil
	default:
		return 0, fmt.Errorf("unsupported separator: %q (use ',', '.', 'space')", s)
	}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}
