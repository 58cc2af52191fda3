package analysis

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/profitlens/internal/table"
)

// NullFloat is a real number that may be undefined.
type NullFloat struct {
	Value float64
	Valid bool
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// MarshalYAML implements yaml.Marshaler.
func (n NullFloat) MarshalYAML() (interface{}, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Value, nil
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string      `json:"columns" yaml:"columns"`
	Values  [][]NullFloat `json:"values" yaml:"values"` // row-major, Values[i][j]
}

// At returns the correlation between two named columns.
func (m *CorrMatrix) At(a, b string) (NullFloat, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return NullFloat{}, false
	}
	return m.Values[ia][ib], true
}

// Correlate computes pairwise Pearson correlations between the given numeric
// columns of t, using the rows where both values are present. The diagonal
// is 1. A pair with fewer than two complete rows, or where either side is
// constant, is null. An empty column list returns ErrNoNumericFields.
func Correlate(t *table.Table, numeric []string) (*CorrMatrix, error) {
	if len(numeric) == 0 {
		return nil, ErrNoNumericFields
	}
	idx := make([]int, len(numeric))
	for i, name := range numeric {
		idx[i] = t.ColumnIndex(name)
	}
	n := len(numeric)
	mat := make([][]NullFloat, n)
	for i := range mat {
		mat[i] = make([]NullFloat, n)
		mat[i][i] = NullFloat{Value: 1, Valid: true}
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			r := pearson(t, idx[a], idx[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	cols := make([]string, n)
	copy(cols, numeric)
	return &CorrMatrix{Columns: cols, Values: mat}, nil
}

func pearson(t *table.Table, ia, ib int) NullFloat {
	if ia < 0 || ib < 0 {
		return NullFloat{}
	}
	xs := make([]float64, 0, t.Len())
	ys := make([]float64, 0, t.Len())
	for _, row := range t.Rows {
		if row[ia].Kind == table.Number && row[ib].Kind == table.Number {
			xs = append(xs, row[ia].Num)
			ys = append(ys, row[ib].Num)
		}
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return NullFloat{}
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return NullFloat{}
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return NullFloat{Value: r, Valid: true}
}
