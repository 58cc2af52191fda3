package analysis

import (
	"testing"

	"github.com/KaramelBytes/profitlens/internal/table"
)

var salesHeader = []string{"Nama_Kota", "Handphone", "Tanggal", "Profit"}

// buildTable parses every cell the way the CSV loader would.
func buildTable(t *testing.T, header []string, rows ...[]string) *table.Table {
	t.Helper()
	tb := table.New("sales.csv", header)
	for _, r := range rows {
		vals := make([]table.Value, len(r))
		for j, c := range r {
			vals[j] = table.ParseCell(c, table.DefaultOptions())
		}
		tb.Append(vals)
	}
	return tb
}

func salesTable(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	return buildTable(t, salesHeader, rows...)
}

func normalized(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	tb := salesTable(t, rows...)
	Normalize(tb, DefaultFields(), nil)
	return tb
}

func keys(a Aggregate) []string {
	out := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		out[i] = g.Key
	}
	return out
}
