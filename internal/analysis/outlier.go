package analysis

import (
	"github.com/KaramelBytes/profitlens/internal/table"
)

// DefaultIQRMultiplier is the Tukey fence factor.
const DefaultIQRMultiplier = 1.5

// TagColumn names the column added to outlier rows to record which field
// flagged them.
const TagColumn = "Outlier_Col"

// OutlierReport summarizes one numeric field.
type OutlierReport struct {
	Field   string  `json:"field" yaml:"field"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
	Q1      float64 `json:"q1" yaml:"q1"`
	Q3      float64 `json:"q3" yaml:"q3"`
	IQR     float64 `json:"iqr" yaml:"iqr"`
	Lower   float64 `json:"lower" yaml:"lower"`
	Upper   float64 `json:"upper" yaml:"upper"`
}

// OutlierHit is one (row, field) flag. Row is a position in the analyzed table.
type OutlierHit struct {
	Row   int    `json:"row" yaml:"row"`
	Field string `json:"field" yaml:"field"`
}

// Distribution is the boxplot view of a whole column.
type Distribution struct {
	Field  string    `json:"field" yaml:"field"`
	Values []float64 `json:"values" yaml:"values"`
	Min    float64   `json:"min" yaml:"min"`
	Q1     float64   `json:"q1" yaml:"q1"`
	Median float64   `json:"median" yaml:"median"`
	Q3     float64   `json:"q3" yaml:"q3"`
	Max    float64   `json:"max" yaml:"max"`
}

// Outliers is the result of IQR outlier detection.
type Outliers struct {
	Report []OutlierReport `json:"report" yaml:"report"`
	// Tagged lists every flag, field by field, rows in table order. A row
	// flagged by several fields appears once per field.
	Tagged []OutlierHit `json:"tagged" yaml:"tagged"`
	// Rows is the presented view: flagged rows plus TagColumn, with exact
	// duplicates (all columns including the tag) removed. Nil when no field
	// has outliers.
	Rows *table.Table `json:"rows,omitempty" yaml:"rows,omitempty"`
	// Distributions covers each field with at least one outlier, built from
	// every value of that column.
	Distributions []Distribution `json:"distributions,omitempty" yaml:"distributions,omitempty"`
}

// Flagged returns the report rows with a non-zero count.
func (o *Outliers) Flagged() []OutlierReport {
	var out []OutlierReport
	for _, r := range o.Report {
		if r.Count > 0 {
			out = append(out, r)
		}
	}
	return out
}

// DetectOutliers flags, per numeric column, the values strictly outside
// [Q1 - k*IQR, Q3 + k*IQR]. Percentages are relative to all rows of t.
// A constant column has IQR 0, so every value different from Q1 is flagged.
func DetectOutliers(t *table.Table, numeric []string, k float64) (*Outliers, error) {
	if len(numeric) == 0 {
		return nil, ErrNoNumericFields
	}
	if k <= 0 {
		k = DefaultIQRMultiplier
	}
	out := &Outliers{}
	for _, field := range numeric {
		vals, rows := t.Floats(field)
		rep := OutlierReport{Field: field}
		if len(vals) > 0 {
			sorted := sortedCopy(vals)
			rep.Q1 = quantile(sorted, 0.25)
			rep.Q3 = quantile(sorted, 0.75)
			rep.IQR = rep.Q3 - rep.Q1
			rep.Lower = rep.Q1 - k*rep.IQR
			rep.Upper = rep.Q3 + k*rep.IQR
			for i, v := range vals {
				if v < rep.Lower || v > rep.Upper {
					rep.Count++
					out.Tagged = append(out.Tagged, OutlierHit{Row: rows[i], Field: field})
				}
			}
			if rep.Count > 0 {
				out.Distributions = append(out.Distributions, distribution(field, vals, sorted))
			}
		}
		rep.Percent = percentOf(rep.Count, t.Len())
		out.Report = append(out.Report, rep)
	}
	if len(out.Tagged) > 0 {
		out.Rows = presentedRows(t, out.Tagged)
	}
	return out, nil
}

func distribution(field string, vals, sorted []float64) Distribution {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return Distribution{
		Field:  field,
		Values: cp,
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func presentedRows(t *table.Table, hits []OutlierHit) *table.Table {
	positions := make([]int, len(hits))
	for i, h := range hits {
		positions[i] = h.Row
	}
	tagged := t.Subset(positions)
	tags := make([]table.Value, len(hits))
	for i, h := range hits {
		tags[i] = table.StringValue(h.Field)
	}
	tagged.SetColumn(TagColumn, tags)

	seen := make(map[string]bool, tagged.Len())
	keep := make([]int, 0, tagged.Len())
	for i, row := range tagged.Rows {
		k := table.RowKey(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		keep = append(keep, i)
	}
	return tagged.Subset(keep)
}
