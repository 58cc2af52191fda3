package analysis

import (
	"sort"

	"github.com/KaramelBytes/profitlens/internal/table"
)

// GroupSum is one row of an aggregate table.
type GroupSum struct {
	Key string `json:"key" yaml:"key"`
	// Order is the month ordinal for the month aggregate and the year for
	// the year aggregate; 0 otherwise.
	Order int     `json:"order,omitempty" yaml:"order,omitempty"`
	Sum   float64 `json:"sum" yaml:"sum"`
	Rows  int     `json:"rows" yaml:"rows"`
}

// Aggregate is an ordered list of per-group profit sums.
type Aggregate struct {
	Name   string     `json:"name" yaml:"name"`
	Field  string     `json:"field" yaml:"field"`
	Groups []GroupSum `json:"groups" yaml:"groups"`
}

// Total sums every group.
func (a Aggregate) Total() float64 {
	var s float64
	for _, g := range a.Groups {
		s += g.Sum
	}
	return s
}

type groupKey struct {
	label string
	order int
}

// keyFunc extracts a group key from a row; ok=false drops the row.
type keyFunc func(row []table.Value) (groupKey, bool)

// sumBy groups rows by key and sums the profit column. Groups come back in
// order of first appearance. Rows whose key is missing are dropped; profit
// cells that are not numbers contribute nothing.
func sumBy(t *table.Table, profitIdx int, key keyFunc) []GroupSum {
	pos := map[groupKey]int{}
	var out []GroupSum
	for _, row := range t.Rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		i, seen := pos[k]
		if !seen {
			i = len(out)
			pos[k] = i
			out = append(out, GroupSum{Key: k.label, Order: k.order})
		}
		out[i].Rows++
		if profitIdx >= 0 && row[profitIdx].Kind == table.Number {
			out[i].Sum += row[profitIdx].Num
		}
	}
	return out
}

func textKey(idx int) keyFunc {
	return func(row []table.Value) (groupKey, bool) {
		if idx < 0 || row[idx].IsNull() {
			return groupKey{}, false
		}
		return groupKey{label: row[idx].Text()}, true
	}
}

// AggregateByProduct sums profit per product, largest first. Ties keep
// ascending key order.
func AggregateByProduct(t *table.Table, f Fields) Aggregate {
	f = f.withDefaults()
	groups := sumBy(t, t.ColumnIndex(f.Profit), textKey(t.ColumnIndex(f.Product)))
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Sum > groups[j].Sum })
	return Aggregate{Name: "profit_by_product", Field: f.Product, Groups: groups}
}

// AggregateByMonth sums profit per (month ordinal, month name), in calendar
// order. Rows without a parsed month are dropped.
func AggregateByMonth(t *table.Table, f Fields) Aggregate {
	f = f.withDefaults()
	ni := t.ColumnIndex(f.MonthNum)
	li := t.ColumnIndex(f.Month)
	groups := sumBy(t, t.ColumnIndex(f.Profit), func(row []table.Value) (groupKey, bool) {
		if ni < 0 || li < 0 || row[ni].Kind != table.Number || row[li].IsNull() {
			return groupKey{}, false
		}
		m := int(row[ni].Num)
		if m < 1 || m > 12 {
			return groupKey{}, false
		}
		return groupKey{label: row[li].Text(), order: m}, true
	})
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })
	return Aggregate{Name: "profit_by_month", Field: f.Month, Groups: groups}
}

// AggregateByLocation sums profit per location in ascending key order.
func AggregateByLocation(t *table.Table, f Fields) Aggregate {
	f = f.withDefaults()
	groups := sumBy(t, t.ColumnIndex(f.Profit), textKey(t.ColumnIndex(f.Location)))
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return Aggregate{Name: "profit_by_location", Field: f.Location, Groups: groups}
}

// AggregateByYear sums profit per year in ascending order. Rows without a
// parsed year are dropped.
func AggregateByYear(t *table.Table, f Fields) Aggregate {
	f = f.withDefaults()
	yi := t.ColumnIndex(f.Year)
	groups := sumBy(t, t.ColumnIndex(f.Profit), func(row []table.Value) (groupKey, bool) {
		if yi < 0 || row[yi].Kind != table.Number {
			return groupKey{}, false
		}
		return groupKey{label: row[yi].Text(), order: int(row[yi].Num)}, true
	})
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })
	return Aggregate{Name: "profit_by_year", Field: f.Year, Groups: groups}
}
