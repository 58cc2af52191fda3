package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/profitlens/internal/table"
)

// Bundle is everything one analysis run returns to the presentation layer.
//
// Aggregates reflect the selection. Quality, correlation, outliers and the
// column profile describe the whole normalized table regardless of the
// selection, so the audit view does not change when the user filters.
type Bundle struct {
	RunID        string    `json:"run_id" yaml:"run_id"`
	Source       string    `json:"source,omitempty" yaml:"source,omitempty"`
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
	Fields       Fields    `json:"fields" yaml:"fields"`
	Selection    Selection `json:"selection" yaml:"selection"`
	TotalRows    int       `json:"total_rows" yaml:"total_rows"`
	FilteredRows int       `json:"filtered_rows" yaml:"filtered_rows"`

	ByProduct  Aggregate `json:"by_product" yaml:"by_product"`
	ByMonth    Aggregate `json:"by_month" yaml:"by_month"`
	ByLocation Aggregate `json:"by_location" yaml:"by_location"`
	ByYear     Aggregate `json:"by_year" yaml:"by_year"`

	Quality       Quality         `json:"quality" yaml:"quality"`
	Profile       []ColumnProfile `json:"profile" yaml:"profile"`
	NumericFields []string        `json:"numeric_fields" yaml:"numeric_fields"`
	// Correlation and Outliers are nil when the table has no numeric field;
	// a WarnEmptyNumeric warning says so.
	Correlation *CorrMatrix `json:"correlation" yaml:"correlation"`
	Outliers    *Outliers   `json:"outliers" yaml:"outliers"`

	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Prepared is a validated, normalized table ready for repeated analysis
// under different selections.
type Prepared struct {
	table    *table.Table
	opts     Options
	warnings []Warning
	numeric  []string

	audit *audit
}

// selection-independent results, computed on first use
type audit struct {
	quality  Quality
	profile  []ColumnProfile
	corr     *CorrMatrix
	outliers *Outliers
	warnings []Warning
}

// Prepare validates t and normalizes it in place. A *SchemaError is returned
// before anything is derived when a required column is missing.
func Prepare(t *table.Table, opts Options) (*Prepared, error) {
	return prepareWith(NewNormalizer(opts.Fields, opts.DateLayouts), t, opts)
}

// Prepare is Prepare with this normalizer's cache, so preparing the same
// table again skips date parsing. The normalizer and opts must name the same
// date and calendar columns; otherwise ErrFieldMismatch is returned.
func (n *Normalizer) Prepare(t *table.Table, opts Options) (*Prepared, error) {
	return prepareWith(n, t, opts)
}

func prepareWith(n *Normalizer, t *table.Table, opts Options) (*Prepared, error) {
	opts = opts.normalized()
	if t == nil {
		return nil, errors.New("nil table")
	}
	if !n.fields.sameCalendar(opts.Fields) {
		return nil, fmt.Errorf("%w: normalizer derives %s/%s/%s from %s, options read %s/%s/%s from %s",
			ErrFieldMismatch,
			n.fields.Year, n.fields.Month, n.fields.MonthNum, n.fields.Date,
			opts.Fields.Year, opts.Fields.Month, opts.Fields.MonthNum, opts.Fields.Date)
	}
	if err := ValidateSchema(t, opts.Fields); err != nil {
		return nil, err
	}
	warnings := n.Normalize(t)
	// derived year and month ordinal count as numeric fields
	numeric := t.NumericColumns()
	slog.Debug("prepared table", "name", t.Name, "rows", t.Len(), "columns", len(t.Columns), "numeric", numeric)
	return &Prepared{table: t, opts: opts, warnings: warnings, numeric: numeric}, nil
}

// Table returns the normalized table.
func (p *Prepared) Table() *table.Table { return p.table }

// Options returns the effective options.
func (p *Prepared) Options() Options { return p.opts }

// NumericFields lists the columns used for correlation and outliers.
func (p *Prepared) NumericFields() []string { return append([]string(nil), p.numeric...) }

// Domains lists the selectable years, locations and products.
func (p *Prepared) Domains() Domains { return DomainsOf(p.table, p.opts.Fields) }

// DefaultSelection selects every observed value.
func (p *Prepared) DefaultSelection() Selection { return p.Domains().Selection() }

func (p *Prepared) runAudit() *audit {
	if p.audit != nil {
		return p.audit
	}
	a := &audit{
		quality: Diagnose(p.table),
		profile: Describe(p.table),
	}
	corr, err := Correlate(p.table, p.numeric)
	if err == nil {
		a.corr = corr
		a.outliers, err = DetectOutliers(p.table, p.numeric, p.opts.IQRMultiplier)
	}
	if errors.Is(err, ErrNoNumericFields) {
		a.warnings = append(a.warnings, Warning{
			Code:    WarnEmptyNumeric,
			Message: "no numeric fields: correlation and outlier analysis not applicable",
		})
	}
	p.audit = a
	return a
}

// Analyze filters by sel and computes the full bundle.
func (p *Prepared) Analyze(sel Selection) *Bundle {
	f := p.opts.Fields
	filtered := Filter(p.table, f, sel)
	a := p.runAudit()

	b := &Bundle{
		RunID:         uuid.NewString(),
		Source:        p.table.Name,
		GeneratedAt:   time.Now(),
		Fields:        f,
		Selection:     sel,
		TotalRows:     p.table.Len(),
		FilteredRows:  filtered.Len(),
		ByProduct:     AggregateByProduct(filtered, f),
		ByMonth:       AggregateByMonth(filtered, f),
		ByLocation:    AggregateByLocation(filtered, f),
		ByYear:        AggregateByYear(filtered, f),
		Quality:       a.quality,
		Profile:       a.profile,
		NumericFields: p.NumericFields(),
		Correlation:   a.corr,
		Outliers:      a.outliers,
	}
	b.Warnings = append(b.Warnings, p.warnings...)
	b.Warnings = append(b.Warnings, a.warnings...)
	slog.Debug("analysis complete", "run_id", b.RunID, "rows", b.TotalRows, "filtered", b.FilteredRows, "warnings", len(b.Warnings))
	return b
}

// Analyze is the one-shot form: validate, normalize, filter and compute.
func Analyze(t *table.Table, sel Selection, opts Options) (*Bundle, error) {
	p, err := Prepare(t, opts)
	if err != nil {
		return nil, err
	}
	return p.Analyze(sel), nil
}
