package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose(t *testing.T) {
	tb := normalized(t,
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"B", "Y", "bad", "5"},
		[]string{"B", "Y", "2024-02-01", ""},
	)
	q := Diagnose(tb)

	assert.Equal(t, 4, q.Rows)
	assert.Equal(t, []MissingCount{
		{Field: "Tanggal", Count: 1},
		{Field: "Profit", Count: 1},
		{Field: "Tahun", Count: 1},
		{Field: "Bulan", Count: 1},
		{Field: "Bulan_Num", Count: 1},
	}, q.Missing)
	require.NotNil(t, q.MissingRows)
	assert.Equal(t, []int{2, 3}, q.MissingRows.Index)

	assert.Equal(t, 1, q.DuplicateCount)
	require.NotNil(t, q.DuplicateRows)
	assert.Equal(t, []int{0, 1}, q.DuplicateRows.Index, "every occurrence is listed")
}

func TestDiagnose_Clean(t *testing.T) {
	tb := normalized(t,
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"A", "X", "2024-01-06", "10"},
	)
	q := Diagnose(tb)
	assert.Empty(t, q.Missing)
	assert.Nil(t, q.MissingRows)
	assert.Zero(t, q.DuplicateCount)
	assert.Nil(t, q.DuplicateRows)
}

func TestDiagnose_DuplicateCountIsRowsMinusDistinct(t *testing.T) {
	tb := normalized(t,
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"A", "X", "2024-01-05", "10"},
		[]string{"B", "", "", ""},
		[]string{"B", "", "", ""},
	)
	q := Diagnose(tb)
	assert.Equal(t, 3, q.DuplicateCount, "5 rows, 2 distinct; null compares equal to null")
	assert.Equal(t, 5, q.DuplicateRows.Len())
}
