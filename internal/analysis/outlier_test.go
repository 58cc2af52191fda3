package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profits(t *testing.T, vals ...string) *Outliers {
	t.Helper()
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{"A", "X", "2024-01-01", v}
	}
	out, err := DetectOutliers(salesTable(t, rows...), []string{"Profit"}, DefaultIQRMultiplier)
	require.NoError(t, err)
	return out
}

func TestDetectOutliers_Basic(t *testing.T) {
	out := profits(t, "10", "12", "11", "13", "100")

	require.Len(t, out.Report, 1)
	rep := out.Report[0]
	assert.Equal(t, 11.0, rep.Q1)
	assert.Equal(t, 13.0, rep.Q3)
	assert.Equal(t, 2.0, rep.IQR)
	assert.Equal(t, 8.0, rep.Lower)
	assert.Equal(t, 16.0, rep.Upper)
	assert.Equal(t, 1, rep.Count)
	assert.Equal(t, 20.0, rep.Percent)

	assert.Equal(t, []OutlierHit{{Row: 4, Field: "Profit"}}, out.Tagged)
	require.NotNil(t, out.Rows)
	assert.Equal(t, []int{4}, out.Rows.Index)
	assert.Equal(t, "Profit", out.Rows.Column(TagColumn)[0].Text())

	require.Len(t, out.Distributions, 1)
	d := out.Distributions[0]
	assert.Len(t, d.Values, 5)
	assert.Equal(t, 10.0, d.Min)
	assert.Equal(t, 12.0, d.Median)
	assert.Equal(t, 100.0, d.Max)
}

func TestDetectOutliers_BoundsAreInclusive(t *testing.T) {
	out := profits(t, "8", "11", "12", "13", "16")
	assert.Zero(t, out.Report[0].Count)
	assert.Nil(t, out.Rows)
	assert.Empty(t, out.Distributions)
	assert.Empty(t, out.Flagged())
}

func TestDetectOutliers_ConstantColumn(t *testing.T) {
	out := profits(t, "5", "5", "5", "5", "7")
	rep := out.Report[0]
	assert.Zero(t, rep.IQR)
	assert.Equal(t, 1, rep.Count, "with IQR 0 anything off the constant is flagged")
}

func TestDetectOutliers_PercentOfAllRows(t *testing.T) {
	out := profits(t, "10", "12", "11", "13", "100", "")
	assert.Equal(t, 16.67, out.Report[0].Percent, "null rows still count in the denominator")
}

func TestDetectOutliers_RowFlaggedByTwoFields(t *testing.T) {
	tb := buildTable(t, pricedHeader,
		[]string{"A", "X", "2024-01-01", "10", "1", "1"},
		[]string{"A", "X", "2024-01-02", "12", "1", "2"},
		[]string{"A", "X", "2024-01-03", "11", "1", "3"},
		[]string{"A", "X", "2024-01-04", "13", "1", "4"},
		[]string{"A", "X", "2024-01-05", "100", "50", "5"},
	)
	out, err := DetectOutliers(tb, []string{"Profit", "Harga", "Qty"}, 0)
	require.NoError(t, err)

	assert.Equal(t, []OutlierHit{{Row: 4, Field: "Profit"}, {Row: 4, Field: "Harga"}}, out.Tagged)
	require.Equal(t, 2, out.Rows.Len(), "different tags keep both copies")
	assert.Equal(t, "Profit", out.Rows.Column(TagColumn)[0].Text())
	assert.Equal(t, "Harga", out.Rows.Column(TagColumn)[1].Text())
	assert.Len(t, out.Distributions, 2)

	flagged := out.Flagged()
	require.Len(t, flagged, 2)
	assert.Equal(t, "Qty", out.Report[2].Field)
	assert.Zero(t, out.Report[2].Count)
}

func TestDetectOutliers_NoNumeric(t *testing.T) {
	_, err := DetectOutliers(salesTable(t), nil, 1.5)
	assert.ErrorIs(t, err, ErrNoNumericFields)
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, quantile(s, 0.25))
	assert.Equal(t, 2.5, quantile(s, 0.5))
	assert.Equal(t, 3.25, quantile(s, 0.75))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
}

func TestPercentOf_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, percentOf(1, 800))
	assert.Equal(t, 16.67, percentOf(1, 6))
	assert.Equal(t, 0.0, percentOf(0, 0))
	assert.Equal(t, -0.13, round2(-0.125))
}
