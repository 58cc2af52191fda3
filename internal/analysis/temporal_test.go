package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/profitlens/internal/table"
)

func TestValidateSchema(t *testing.T) {
	tb := buildTable(t, []string{"Nama_Kota", "Handphone", "tanggal"}, []string{"A", "X", "2024-01-01"})

	err := ValidateSchema(tb, DefaultFields())
	require.Error(t, err)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"Tanggal", "Profit"}, se.Missing)
	assert.Contains(t, err.Error(), "Tanggal, Profit")

	ok := salesTable(t, []string{"A", "X", "2024-01-01", "1"})
	assert.NoError(t, ValidateSchema(ok, DefaultFields()))
}

func TestNormalize_DerivesCalendarFields(t *testing.T) {
	tb := salesTable(t,
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"A", "X", "3/15/2023", "10"},
		[]string{"B", "Y", "not a date", "10"},
		[]string{"B", "Y", "", "10"},
		[]string{"B", "Y", "12 August 2022", "10"},
	)
	warnings := Normalize(tb, DefaultFields(), nil)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnParse, warnings[0].Code)
	assert.Equal(t, []int{2}, warnings[0].Rows)
	assert.Contains(t, warnings[0].Message, "not a date")

	assert.Equal(t, []string{"Nama_Kota", "Handphone", "Tanggal", "Profit", "Tahun", "Bulan", "Bulan_Num"}, tb.Columns)

	years := tb.Column("Tahun")
	months := tb.Column("Bulan")
	nums := tb.Column("Bulan_Num")
	assert.Equal(t, "2024", years[0].Text())
	assert.Equal(t, "January", months[0].Text())
	assert.Equal(t, float64(1), nums[0].Num)
	assert.Equal(t, "2023", years[1].Text())
	assert.Equal(t, "March", months[1].Text())
	assert.Equal(t, "August", months[4].Text())

	for _, i := range []int{2, 3} {
		assert.True(t, years[i].IsNull(), "row %d year", i)
		assert.True(t, months[i].IsNull(), "row %d month", i)
		assert.True(t, nums[i].IsNull(), "row %d month number", i)
		assert.True(t, tb.Rows[i][2].IsNull(), "row %d date coerced to null", i)
	}
	assert.Equal(t, "not a date", tb.Rows[2][2].Rejected())
	assert.Empty(t, tb.Rows[3][2].Rejected())
	assert.Equal(t, table.Date, tb.Rows[0][2].Kind)
}

func TestNormalize_Idempotent(t *testing.T) {
	tb := salesTable(t,
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"B", "Y", "garbage", "5"},
	)
	warnings := Normalize(tb, DefaultFields(), nil)
	first := tb.Clone()

	again := Normalize(tb, DefaultFields(), nil)
	assert.Equal(t, warnings, again, "the coerced cell is still reported")
	require.Equal(t, first.Columns, tb.Columns)
	for i := range first.Rows {
		assert.Equal(t, table.RowKey(first.Rows[i]), table.RowKey(tb.Rows[i]), "row %d", i)
	}
}

func TestNormalize_ExcelSerial(t *testing.T) {
	tb := table.New("book.xlsx", salesHeader)
	tb.Append([]table.Value{table.StringValue("A"), table.StringValue("X"), table.NumberValue(45292), table.NumberValue(1)})
	Normalize(tb, DefaultFields(), nil)

	assert.Equal(t, "2024", tb.Column("Tahun")[0].Text())
	assert.Equal(t, "January", tb.Column("Bulan")[0].Text())
}

func TestNormalizer_CachesPerTable(t *testing.T) {
	tb := salesTable(t, []string{"A", "X", "bad", "1"})
	n := NewNormalizer(DefaultFields(), nil)

	w1 := n.Normalize(tb)
	w2 := n.Normalize(tb)
	require.Len(t, w1, 1)
	assert.Equal(t, w1, w2, "cached warnings survive the second call")

	n.Forget(tb)
	assert.Equal(t, w1, n.Normalize(tb), "a fresh run still reports the coerced cell")
}
