package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/profitlens/internal/table"
)

// CategoryCount is a value and how often it occurs.
type CategoryCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// ColumnProfile captures the inferred kind and descriptive statistics of a column.
type ColumnProfile struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"` // numeric|datetime|categorical|mixed|empty
	NonNull int    `json:"non_null" yaml:"non_null"`
	Missing int    `json:"missing" yaml:"missing"`
	Unique  int    `json:"unique" yaml:"unique"`
	// Most frequent values for non-numeric columns.
	TopValues []CategoryCount `json:"top_values,omitempty" yaml:"top_values,omitempty"`
	// Numeric stats
	Mean   float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Std    float64 `json:"std,omitempty" yaml:"std,omitempty"`
	Min    float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Q1     float64 `json:"q1,omitempty" yaml:"q1,omitempty"`
	Median float64 `json:"median,omitempty" yaml:"median,omitempty"`
	Q3     float64 `json:"q3,omitempty" yaml:"q3,omitempty"`
	Max    float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Describe profiles every column of t.
func Describe(t *table.Table) []ColumnProfile {
	out := make([]ColumnProfile, 0, len(t.Columns))
	for j, name := range t.Columns {
		p := ColumnProfile{Name: name}
		cats := map[string]int{}
		var nums []float64
		kinds := map[table.Kind]int{}
		for _, row := range t.Rows {
			v := row[j]
			if v.IsNull() {
				p.Missing++
				continue
			}
			p.NonNull++
			kinds[v.Kind]++
			cats[v.Text()]++
			if v.Kind == table.Number {
				nums = append(nums, v.Num)
			}
		}
		p.Unique = len(cats)
		switch {
		case p.NonNull == 0:
			p.Kind = "empty"
		case len(kinds) > 1:
			p.Kind = "mixed"
		case kinds[table.Number] > 0:
			p.Kind = "numeric"
		case kinds[table.Date] > 0:
			p.Kind = "datetime"
		default:
			p.Kind = "categorical"
		}
		if p.Kind == "numeric" {
			sorted := sortedCopy(nums)
			p.Mean, p.Std = stat.MeanStdDev(nums, nil)
			if len(nums) < 2 {
				p.Std = 0
			}
			p.Min = sorted[0]
			p.Q1 = quantile(sorted, 0.25)
			p.Median = quantile(sorted, 0.5)
			p.Q3 = quantile(sorted, 0.75)
			p.Max = sorted[len(sorted)-1]
		} else if p.NonNull > 0 {
			p.TopValues = topValues(cats, 5)
		}
		out = append(out, p)
	}
	return out
}

func topValues(cats map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}
