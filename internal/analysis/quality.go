package analysis

import "github.com/KaramelBytes/profitlens/internal/table"

// MissingCount is the number of null cells in one column.
type MissingCount struct {
	Field string `json:"field" yaml:"field"`
	Count int    `json:"count" yaml:"count"`
}

// Quality is the data-audit view of a table.
type Quality struct {
	Rows int `json:"rows" yaml:"rows"`
	// Missing lists columns with at least one null, in column order.
	Missing []MissingCount `json:"missing" yaml:"missing"`
	// MissingRows holds every row with at least one null; nil when none.
	MissingRows *table.Table `json:"missing_rows,omitempty" yaml:"missing_rows,omitempty"`
	// DuplicateCount is rows minus distinct full-row tuples.
	DuplicateCount int `json:"duplicate_count" yaml:"duplicate_count"`
	// DuplicateRows holds every occurrence of a duplicated row; nil when none.
	DuplicateRows *table.Table `json:"duplicate_rows,omitempty" yaml:"duplicate_rows,omitempty"`
}

// Diagnose audits t. Duplicates compare every column, derived calendar
// columns included.
func Diagnose(t *table.Table) Quality {
	q := Quality{Rows: t.Len()}

	counts := make([]int, len(t.Columns))
	var missingRows []int
	for i, row := range t.Rows {
		hit := false
		for j, v := range row {
			if v.IsNull() {
				counts[j]++
				hit = true
			}
		}
		if hit {
			missingRows = append(missingRows, i)
		}
	}
	for j, c := range counts {
		if c > 0 {
			q.Missing = append(q.Missing, MissingCount{Field: t.Columns[j], Count: c})
		}
	}
	if len(missingRows) > 0 {
		q.MissingRows = t.Subset(missingRows)
	}

	keys := make([]string, t.Len())
	freq := make(map[string]int, t.Len())
	for i, row := range t.Rows {
		keys[i] = table.RowKey(row)
		freq[keys[i]]++
	}
	q.DuplicateCount = t.Len() - len(freq)
	if q.DuplicateCount > 0 {
		var dup []int
		for i, k := range keys {
			if freq[k] > 1 {
				dup = append(dup, i)
			}
		}
		q.DuplicateRows = t.Subset(dup)
	}
	return q
}
