package analysis

import (
	"sort"

	"github.com/KaramelBytes/profitlens/internal/table"
)

// Selection is the caller's filter. Every dimension is a strict membership
// test: an empty set admits nothing along that dimension.
type Selection struct {
	Years     []int    `json:"years" yaml:"years"`
	Locations []string `json:"locations" yaml:"locations"`
	Products  []string `json:"products" yaml:"products"`
	// IncludeMissingYear admits rows whose date did not parse.
	IncludeMissingYear bool `json:"include_missing_year,omitempty" yaml:"include_missing_year,omitempty"`
}

// Filter returns the rows of t whose year, location and product are all
// selected, in their original order.
func Filter(t *table.Table, f Fields, sel Selection) *table.Table {
	f = f.withDefaults()
	yi := t.ColumnIndex(f.Year)
	li := t.ColumnIndex(f.Location)
	pi := t.ColumnIndex(f.Product)

	years := make(map[int]bool, len(sel.Years))
	for _, y := range sel.Years {
		years[y] = true
	}
	locs := stringSet(sel.Locations)
	prods := stringSet(sel.Products)

	keep := make([]int, 0, t.Len())
	for i, row := range t.Rows {
		if !yearSelected(row, yi, years, sel.IncludeMissingYear) {
			continue
		}
		if !memberOf(row, li, locs) || !memberOf(row, pi, prods) {
			continue
		}
		keep = append(keep, i)
	}
	return t.Subset(keep)
}

func yearSelected(row []table.Value, yi int, years map[int]bool, includeMissing bool) bool {
	if yi < 0 || row[yi].Kind != table.Number {
		return includeMissing
	}
	return years[int(row[yi].Num)]
}

func memberOf(row []table.Value, idx int, set map[string]bool) bool {
	if idx < 0 || row[idx].IsNull() {
		return false
	}
	return set[row[idx].Text()]
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

// Domains lists the selectable values observed in a normalized table.
type Domains struct {
	Years     []int    `json:"years" yaml:"years"`
	Locations []string `json:"locations" yaml:"locations"`
	Products  []string `json:"products" yaml:"products"`
}

// DomainsOf collects sorted distinct non-null years, locations and products.
func DomainsOf(t *table.Table, f Fields) Domains {
	f = f.withDefaults()
	var d Domains
	if vals := t.Column(f.Year); vals != nil {
		seen := map[int]bool{}
		for _, v := range vals {
			if v.Kind == table.Number && !seen[int(v.Num)] {
				seen[int(v.Num)] = true
				d.Years = append(d.Years, int(v.Num))
			}
		}
		sort.Ints(d.Years)
	}
	d.Locations = distinctText(t.Column(f.Location))
	d.Products = distinctText(t.Column(f.Product))
	return d
}

func distinctText(vals []table.Value) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		s := v.Text()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Selection returns a selection admitting every observed value.
func (d Domains) Selection() Selection {
	return Selection{
		Years:     append([]int(nil), d.Years...),
		Locations: append([]string(nil), d.Locations...),
		Products:  append([]string(nil), d.Products...),
	}
}

// DefaultSelection selects everything observed in t, the starting state of
// an interactive filter.
func DefaultSelection(t *table.Table, f Fields) Selection {
	return DomainsOf(t, f).Selection()
}
