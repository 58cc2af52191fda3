package analysis

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/profitlens/internal/table"
)

// DefaultDateLayouts is the ordered list of accepted date forms. ISO forms
// come first; slash and dash forms are read month-first; named-month forms
// use English month names.
var DefaultDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01-02-2006",
	"01-02-06",
	"2 January 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Normalize parses the date column of t and adds (or replaces) the year,
// month name and month ordinal columns in place. A date that cannot be
// parsed is replaced by a coerced null and yields null calendar fields; the
// affected rows are reported in a single WarnParse warning. Running Normalize
// again over its own output produces the same table and the same warning.
func Normalize(t *table.Table, f Fields, layouts []string) []Warning {
	f = f.withDefaults()
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	idx := t.ColumnIndex(f.Date)
	if idx < 0 {
		return nil
	}
	n := t.Len()
	years := make([]table.Value, n)
	months := make([]table.Value, n)
	monthNums := make([]table.Value, n)
	var bad []int
	var samples []string
	for i, row := range t.Rows {
		ts, ok := toTime(row[idx], layouts)
		if !ok {
			raw := row[idx].Text()
			if row[idx].IsNull() {
				raw = row[idx].Rejected()
			}
			if raw != "" {
				bad = append(bad, t.RowIndex(i))
				if len(samples) < 3 {
					samples = append(samples, raw)
				}
			}
			row[idx] = table.CoercedNull(raw)
			continue
		}
		row[idx] = table.DateValue(ts)
		years[i] = table.NumberValue(float64(ts.Year()))
		months[i] = table.StringValue(ts.Month().String())
		monthNums[i] = table.NumberValue(float64(ts.Month()))
	}
	t.SetColumn(f.Year, years)
	t.SetColumn(f.Month, months)
	t.SetColumn(f.MonthNum, monthNums)

	if len(bad) == 0 {
		return nil
	}
	slog.Debug("unparseable dates", "column", f.Date, "rows", len(bad))
	return []Warning{{
		Code:    WarnParse,
		Message: fmt.Sprintf("column %s: unparseable dates treated as missing (e.g. %s)", f.Date, strings.Join(samples, ", ")),
		Rows:    bad,
	}}
}

func toTime(v table.Value, layouts []string) (time.Time, bool) {
	switch v.Kind {
	case table.Date:
		return v.Time, true
	case table.Number:
		return table.ExcelSerialToTime(v.Num)
	case table.String:
		return parseDate(v.Str, layouts)
	default:
		return time.Time{}, false
	}
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalizer caches normalization per table so repeated pipeline runs over
// the same base table parse dates once.
type Normalizer struct {
	fields  Fields
	layouts []string
	done    map[*table.Table][]Warning
}

// NewNormalizer returns a caching normalizer for the given fields and layouts.
func NewNormalizer(f Fields, layouts []string) *Normalizer {
	return &Normalizer{fields: f.withDefaults(), layouts: layouts, done: make(map[*table.Table][]Warning)}
}

// Normalize normalizes t once and returns the warnings of the first run on
// every later call.
func (n *Normalizer) Normalize(t *table.Table) []Warning {
	if w, ok := n.done[t]; ok {
		return w
	}
	w := Normalize(t, n.fields, n.layouts)
	n.done[t] = w
	return w
}

// Forget drops t from the cache, e.g. after the caller edited its rows.
func (n *Normalizer) Forget(t *table.Table) { delete(n.done, t) }
