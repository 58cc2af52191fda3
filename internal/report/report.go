// Package report renders an analysis bundle as Markdown, JSON or YAML.
package report

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/profitlens/internal/analysis"
	"github.com/KaramelBytes/profitlens/internal/table"
	"github.com/KaramelBytes/profitlens/internal/utils"
)

// ErrUnknownFormat is returned for an output format no renderer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the accepted output format names.
var Formats = []string{"markdown", "json", "yaml"}

// Renderer holds presentation settings.
type Renderer struct {
	// Currency is prefixed to money amounts, e.g. "Rp".
	Currency string
	// MaxRows caps the rows printed per embedded table in Markdown; 0 prints all.
	MaxRows int
}

// Default is the renderer used by the package-level helpers.
var Default = Renderer{Currency: "Rp", MaxRows: 20}

// Markdown renders b with the default renderer.
func Markdown(b *analysis.Bundle) string { return Default.Markdown(b) }

func JSON(b *analysis.Bundle) ([]byte, error) { return Default.JSON(b) }

func YAML(b *analysis.Bundle) ([]byte, error) { return Default.YAML(b) }

func Render(b *analysis.Bundle, format string) ([]byte, error) {
	return Default.Render(b, format)
}

// Write renders b with the default renderer and writes it to path.
func Write(b *analysis.Bundle, format, path string) error {
	return Default.Write(b, format, path)
}

// NormalizeFormat maps aliases (md, yml) to a canonical format name.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("%w: %q (use %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// Render encodes b in the given format.
func (r Renderer) Render(b *analysis.Bundle, format string) ([]byte, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case "json":
		return r.JSON(b)
	case "yaml":
		return r.YAML(b)
	default:
		return []byte(r.Markdown(b)), nil
	}
}

// Write renders b and writes it atomically to path.
func (r Renderer) Write(b *analysis.Bundle, format, path string) error {
	data, err := r.Render(b, format)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r Renderer) JSON(b *analysis.Bundle) ([]byte, error) {
	return utils.PrettyJSON(b)
}

func (r Renderer) YAML(b *analysis.Bundle) ([]byte, error) {
	out, err := yaml.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

// Markdown renders the bundle as a sectioned plain-text report.
func (r Renderer) Markdown(b *analysis.Bundle) string {
	var sb strings.Builder
	sb.WriteString("[DATASET SUMMARY]\n")
	if b.Source != "" {
		sb.WriteString(fmt.Sprintf("File: %s\n", b.Source))
	}
	sb.WriteString(fmt.Sprintf("Run: %s (%s)\n", b.RunID, b.GeneratedAt.Format("2006-01-02 15:04:05")))
	if b.FilteredRows < b.TotalRows {
		sb.WriteString(fmt.Sprintf("Rows: %d (selected %d)\n", b.TotalRows, b.FilteredRows))
	} else {
		sb.WriteString(fmt.Sprintf("Rows: %d\n", b.TotalRows))
	}
	sb.WriteString(fmt.Sprintf("Years: %s\n", joinInts(b.Selection.Years)))
	sb.WriteString(fmt.Sprintf("Locations: %s\n", joinOrNone(b.Selection.Locations)))
	sb.WriteString(fmt.Sprintf("Products: %s\n", joinOrNone(b.Selection.Products)))
	sb.WriteString(fmt.Sprintf("Total profit: %s\n", r.Money(b.ByLocation.Total())))

	r.aggregate(&sb, "PROFIT BY PRODUCT", b.ByProduct)
	r.aggregate(&sb, "MONTHLY PROFIT", b.ByMonth)
	r.aggregate(&sb, "PROFIT BY LOCATION", b.ByLocation)
	r.aggregate(&sb, "PROFIT BY YEAR", b.ByYear)

	q := b.Quality
	sb.WriteString("\n[MISSING VALUES]\n")
	if len(q.Missing) == 0 {
		sb.WriteString("- none\n")
	}
	for _, m := range q.Missing {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", safeName(m.Field), m.Count))
	}
	if q.MissingRows != nil {
		sb.WriteString(fmt.Sprintf("Rows with missing values: %d\n", q.MissingRows.Len()))
		r.rows(&sb, q.MissingRows)
	}

	sb.WriteString("\n[DUPLICATES]\n")
	sb.WriteString(fmt.Sprintf("Duplicate rows: %d\n", q.DuplicateCount))
	if q.DuplicateRows != nil {
		r.rows(&sb, q.DuplicateRows)
	}

	if len(b.Profile) > 0 {
		sb.WriteString("\n[SCHEMA]\n")
		for _, c := range b.Profile {
			profile(&sb, c)
		}
	}

	if b.Correlation != nil {
		correlations(&sb, b.Correlation)
	}
	if b.Outliers != nil {
		r.outliers(&sb, b.Outliers)
	}

	if len(b.Warnings) > 0 {
		sb.WriteString("\n[NOTES]\n")
		for _, w := range b.Warnings {
			sb.WriteString("- ")
			sb.WriteString(w.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (r Renderer) aggregate(sb *strings.Builder, title string, a analysis.Aggregate) {
	sb.WriteString(fmt.Sprintf("\n[%s]\n", title))
	if len(a.Groups) == 0 {
		sb.WriteString("- no rows selected\n")
		return
	}
	for _, g := range a.Groups {
		sb.WriteString(fmt.Sprintf("- %s: %s (n=%d)\n", safeVal(g.Key), r.Money(g.Sum), g.Rows))
	}
}

func profile(sb *strings.Builder, c analysis.ColumnProfile) {
	total := c.NonNull + c.Missing
	missPct := 0.0
	if total > 0 {
		missPct = float64(c.Missing) * 100.0 / float64(total)
	}
	sb.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
	switch c.Kind {
	case "numeric":
		sb.WriteString(fmt.Sprintf(": min %.4g, q1 %.4g, median %.4g, q3 %.4g, max %.4g, mean %.4g, std %.4g",
			c.Min, c.Q1, c.Median, c.Q3, c.Max, c.Mean, c.Std))
	case "categorical", "mixed":
		if len(c.TopValues) > 0 {
			sb.WriteString(": top ")
			for i, kv := range c.TopValues {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				sb.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
	}
	sb.WriteString("\n")
}

func correlations(sb *strings.Builder, m *analysis.CorrMatrix) {
	sb.WriteString("\n[CORRELATIONS]\n")
	if len(m.Columns) < 2 {
		sb.WriteString(fmt.Sprintf("- only one numeric field (%s)\n", strings.Join(m.Columns, "")))
		return
	}
	type pr struct {
		A, B string
		R    analysis.NullFloat
	}
	var pairs []pr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	// strongest first; undefined pairs last
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].R.Valid != pairs[j].R.Valid {
			return pairs[i].R.Valid
		}
		return math.Abs(pairs[i].R.Value) > math.Abs(pairs[j].R.Value)
	})
	for _, p := range pairs {
		if !p.R.Valid {
			sb.WriteString(fmt.Sprintf("- %s ~ %s: r=n/a\n", safeName(p.A), safeName(p.B)))
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", safeName(p.A), safeName(p.B), p.R.Value))
	}
}

func (r Renderer) outliers(sb *strings.Builder, o *analysis.Outliers) {
	sb.WriteString("\n[OUTLIERS (IQR)]\n")
	for _, rep := range o.Report {
		sb.WriteString(fmt.Sprintf("- %s: %d (%.2f%%), bounds [%.4g, %.4g], IQR %.4g\n",
			safeName(rep.Field), rep.Count, rep.Percent, rep.Lower, rep.Upper, rep.IQR))
	}
	if o.Rows != nil {
		sb.WriteString(fmt.Sprintf("Flagged rows: %d\n", o.Rows.Len()))
		r.rows(sb, o.Rows)
	}
}

// rows prints t as a pipe table, prefixed by the original row position.
func (r Renderer) rows(sb *strings.Builder, t *table.Table) {
	sb.WriteString("| # | ")
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(safeName(c))
	}
	sb.WriteString(" |\n|---|")
	for range t.Columns {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	limit := t.Len()
	if r.MaxRows > 0 && limit > r.MaxRows {
		limit = r.MaxRows
	}
	for i := 0; i < limit; i++ {
		sb.WriteString(fmt.Sprintf("| %d | ", t.RowIndex(i)))
		for j, v := range t.Rows[i] {
			if j > 0 {
				sb.WriteString(" | ")
			}
			val := v.Text()
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			sb.WriteString(safeVal(val))
		}
		sb.WriteString(" |\n")
	}
	if limit < t.Len() {
		sb.WriteString(fmt.Sprintf("... %d more rows\n", t.Len()-limit))
	}
}

// Money formats an amount rounded to whole units with thousands separators,
// e.g. "Rp 1,234,500" or "-Rp 12".
func (r Renderer) Money(x float64) string {
	d := decimal.NewFromFloat(x).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	digits := d.StringFixed(0)
	var grouped strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}
	if r.Currency == "" {
		return sign + grouped.String()
	}
	return sign + r.Currency + " " + grouped.String()
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "(none)"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}

func joinOrNone(xs []string) string {
	if len(xs) == 0 {
		return "(none)"
	}
	return strings.Join(xs, ", ")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
