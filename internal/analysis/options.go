// Package analysis is the analytical engine: it validates a sales table,
// derives calendar fields, filters by the caller's selection and computes
// aggregates, quality diagnostics, correlations and IQR outliers.
package analysis

// Fields names the columns the engine reads and the ones it derives.
type Fields struct {
	Location string `mapstructure:"location" yaml:"location" json:"location"`
	Product  string `mapstructure:"product" yaml:"product" json:"product"`
	Date     string `mapstructure:"date" yaml:"date" json:"date"`
	Profit   string `mapstructure:"profit" yaml:"profit" json:"profit"`
	// Derived calendar columns added by Normalize.
	Year     string `mapstructure:"year" yaml:"year" json:"year"`
	Month    string `mapstructure:"month" yaml:"month" json:"month"`
	MonthNum string `mapstructure:"month_num" yaml:"month_num" json:"month_num"`
}

// DefaultFields matches the column names of the handset sales workbook.
func DefaultFields() Fields {
	return Fields{
		Location: "Nama_Kota",
		Product:  "Handphone",
		Date:     "Tanggal",
		Profit:   "Profit",
		Year:     "Tahun",
		Month:    "Bulan",
		MonthNum: "Bulan_Num",
	}
}

// Required returns the input columns that must be present, in report order.
func (f Fields) Required() []string {
	return []string{f.Location, f.Product, f.Date, f.Profit}
}

// withDefaults fills empty names from DefaultFields.
// sameCalendar reports whether f and o read the same date column and derive
// the same calendar columns.
func (f Fields) sameCalendar(o Fields) bool {
	return f.Date == o.Date && f.Year == o.Year && f.Month == o.Month && f.MonthNum == o.MonthNum
}

func (f Fields) withDefaults() Fields {
	d := DefaultFields()
	if f.Location == "" {
		f.Location = d.Location
	}
	if f.Product == "" {
		f.Product = d.Product
	}
	if f.Date == "" {
		f.Date = d.Date
	}
	if f.Profit == "" {
		f.Profit = d.Profit
	}
	if f.Year == "" {
		f.Year = d.Year
	}
	if f.Month == "" {
		f.Month = d.Month
	}
	if f.MonthNum == "" {
		f.MonthNum = d.MonthNum
	}
	return f
}

// Options controls a pipeline run.
type Options struct {
	Fields Fields
	// DateLayouts are tried in order; nil means DefaultDateLayouts.
	DateLayouts []string
	// IQRMultiplier scales the interquartile range for outlier bounds. 0 means 1.5.
	IQRMultiplier float64
}

// DefaultOptions returns the defaults used by the CLI when no config is set.
func DefaultOptions() Options {
	return Options{
		Fields:        DefaultFields(),
		DateLayouts:   DefaultDateLayouts,
		IQRMultiplier: DefaultIQRMultiplier,
	}
}

func (o Options) normalized() Options {
	o.Fields = o.Fields.withDefaults()
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = DefaultDateLayouts
	}
	if o.IQRMultiplier <= 0 {
		o.IQRMultiplier = DefaultIQRMultiplier
	}
	return o
}
