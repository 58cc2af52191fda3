package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_SchemaError(t *testing.T) {
	tb := buildTable(t, []string{"Nama_Kota", "Handphone"}, []string{"A", "X"})
	_, err := Prepare(tb, DefaultOptions())

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"Tanggal", "Profit"}, se.Missing)
	assert.Equal(t, []string{"Nama_Kota", "Handphone"}, tb.Columns, "nothing derived on failure")
}

func TestAnalyze_EndToEnd(t *testing.T) {
	tb := salesTable(t,
		[]string{"Jakarta", "Samsung", "2024-01-05", "10"},
		[]string{"Jakarta", "Oppo", "2024-01-20", "12"},
		[]string{"Bandung", "Samsung", "2024-02-11", "11"},
		[]string{"Bandung", "Oppo", "2023-03-01", "13"},
		[]string{"Bandung", "Oppo", "2023-03-09", "100"},
		[]string{"Bandung", "Oppo", "sometime", "9"},
	)
	p, err := Prepare(tb, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Profit", "Tahun", "Bulan_Num"}, p.NumericFields())

	b := p.Analyze(p.DefaultSelection())
	assert.NotEmpty(t, b.RunID)
	assert.Equal(t, "sales.csv", b.Source)
	assert.Equal(t, 6, b.TotalRows)
	assert.Equal(t, 5, b.FilteredRows)
	assert.Equal(t, 146.0, b.ByLocation.Total())
	assert.Equal(t, []string{"Oppo", "Samsung"}, keys(b.ByProduct))

	require.NotEmpty(t, b.Warnings)
	assert.Equal(t, WarnParse, b.Warnings[0].Code)
	assert.Equal(t, []int{5}, b.Warnings[0].Rows)

	require.NotNil(t, b.Correlation)
	assert.Equal(t, []string{"Profit", "Tahun", "Bulan_Num"}, b.Correlation.Columns)
	r, ok := b.Correlation.At("Tahun", "Bulan_Num")
	require.True(t, ok)
	assert.True(t, r.Valid)
	require.NotNil(t, b.Outliers)
	require.Len(t, b.Outliers.Report, 3)
	assert.Equal(t, 1, b.Outliers.Report[0].Count)
	assert.Zero(t, b.Outliers.Report[1].Count)
	assert.Zero(t, b.Outliers.Report[2].Count)
	assert.Equal(t, []int{4}, b.Outliers.Rows.Index)
}

func TestPrepared_AuditIgnoresSelection(t *testing.T) {
	tb := salesTable(t,
		[]string{"Jakarta", "Samsung", "2024-01-05", "10"},
		[]string{"Bandung", "Oppo", "2023-03-01", "13"},
		[]string{"Bandung", "Oppo", "2023-03-01", "13"},
	)
	p, err := Prepare(tb, DefaultOptions())
	require.NoError(t, err)

	all := p.Analyze(p.DefaultSelection())
	sel := p.DefaultSelection()
	sel.Locations = []string{"Jakarta"}
	one := p.Analyze(sel)

	assert.Equal(t, 3, all.FilteredRows)
	assert.Equal(t, 1, one.FilteredRows)
	assert.Equal(t, []string{"Jakarta"}, keys(one.ByLocation))
	assert.Equal(t, all.Quality.DuplicateCount, one.Quality.DuplicateCount)
	assert.Same(t, all.Outliers, one.Outliers)
	assert.NotEqual(t, all.RunID, one.RunID)
}

func TestAnalyze_NoNumericFields(t *testing.T) {
	tb := salesTable(t,
		[]string{"Jakarta", "Samsung", "kemarin", "high"},
		[]string{"Bandung", "Oppo", "besok", "low"},
	)
	sel := Selection{Years: []int{2024}, Locations: []string{"Jakarta", "Bandung"}, Products: []string{"Samsung", "Oppo"}, IncludeMissingYear: true}
	b, err := Analyze(tb, sel, DefaultOptions())
	require.NoError(t, err)

	assert.Nil(t, b.Correlation)
	assert.Nil(t, b.Outliers)
	assert.Empty(t, b.NumericFields, "all-null calendar columns are not numeric")
	require.Len(t, b.Warnings, 2)
	assert.Equal(t, WarnParse, b.Warnings[0].Code)
	assert.Equal(t, WarnEmptyNumeric, b.Warnings[1].Code)
	assert.Equal(t, 2, b.FilteredRows)
	assert.Zero(t, b.ByProduct.Total(), "non-numeric profit contributes nothing")
}

func TestNormalizer_Prepare(t *testing.T) {
	tb := salesTable(t, []string{"A", "X", "bad", "1"}, []string{"A", "X", "2024-01-01", "2"})
	n := NewNormalizer(DefaultFields(), nil)

	p1, err := n.Prepare(tb, DefaultOptions())
	require.NoError(t, err)
	p2, err := n.Prepare(tb, DefaultOptions())
	require.NoError(t, err)

	w1 := p1.Analyze(p1.DefaultSelection()).Warnings
	w2 := p2.Analyze(p2.DefaultSelection()).Warnings
	assert.Equal(t, w1, w2, "second prepare reuses the first run's parse warnings")
}

func TestNormalizer_PrepareFieldMismatch(t *testing.T) {
	tb := salesTable(t, []string{"A", "X", "2024-01-01", "2"})
	n := NewNormalizer(Fields{Year: "Year"}, nil)

	_, err := n.Prepare(tb, DefaultOptions())
	require.ErrorIs(t, err, ErrFieldMismatch)
	assert.Equal(t, salesHeader, tb.Columns, "nothing derived on mismatch")

	p, err := n.Prepare(tb, Options{Fields: Fields{Year: "Year"}})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Analyze(p.DefaultSelection()).FilteredRows)
}

func TestPrepare_RepeatedKeepsParseWarning(t *testing.T) {
	tb := salesTable(t, []string{"A", "X", "kemarin", "1"}, []string{"A", "X", "2024-01-01", "2"})

	p1, err := Prepare(tb, DefaultOptions())
	require.NoError(t, err)
	p2, err := Prepare(tb, DefaultOptions())
	require.NoError(t, err)

	w1 := p1.Analyze(p1.DefaultSelection()).Warnings
	w2 := p2.Analyze(p2.DefaultSelection()).Warnings
	require.Len(t, w2, 1)
	assert.Equal(t, w1, w2)
	assert.Equal(t, []int{0}, w2[0].Rows)
	assert.Contains(t, w2[0].Message, "kemarin")
}
