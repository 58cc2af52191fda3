package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	tb := New("t", []string{"city", "qty", "price", "note"})
	tb.Append([]Value{StringValue("A"), NumberValue(1), NumberValue(2.5), StringValue("x")})
	tb.Append([]Value{StringValue("B"), NullValue(), NumberValue(3), NumberValue(7)})
	tb.Append([]Value{StringValue("A"), NumberValue(1), NumberValue(2.5), StringValue("x")})
	return tb
}

func TestSubsetKeepsOriginalPositions(t *testing.T) {
	tb := sample()
	sub := tb.Subset([]int{2, 1})
	assert.Equal(t, []int{2, 1}, sub.Index)

	again := sub.Subset([]int{0})
	assert.Equal(t, []int{2}, again.Index)

	sub.Rows[0][0] = StringValue("Z")
	assert.Equal(t, "A", tb.Rows[2][0].Text(), "subset rows are copies")
}

func TestSetColumn(t *testing.T) {
	tb := sample()
	tb.SetColumn("flag", []Value{StringValue("y")})
	require.Equal(t, 5, len(tb.Columns))
	assert.Equal(t, "y", tb.Rows[0][4].Text())
	assert.True(t, tb.Rows[2][4].IsNull(), "short value slice pads with null")

	tb.SetColumn("qty", []Value{NumberValue(9), NumberValue(9), NumberValue(9)})
	assert.Equal(t, 5, len(tb.Columns), "existing column replaced in place")
	assert.Equal(t, 9.0, tb.Rows[1][1].Num)
}

func TestNumericColumns(t *testing.T) {
	tb := sample()
	assert.Equal(t, []string{"qty", "price"}, tb.NumericColumns())
	assert.Equal(t, []string{"price"}, tb.NumericColumns("qty"))

	vals, rows := tb.Floats("qty")
	assert.Equal(t, []float64{1, 1}, vals)
	assert.Equal(t, []int{0, 2}, rows)
}

func TestRowKey(t *testing.T) {
	tb := sample()
	assert.Equal(t, RowKey(tb.Rows[0]), RowKey(tb.Rows[2]))
	assert.NotEqual(t, RowKey(tb.Rows[0]), RowKey(tb.Rows[1]))

	// "1" as text and 1 as a number are different cells
	a := []Value{StringValue("1")}
	b := []Value{NumberValue(1)}
	assert.NotEqual(t, RowKey(a), RowKey(b))
	assert.Equal(t, RowKey([]Value{NullValue()}), RowKey([]Value{{}}))
}

func TestRowKey_Dates(t *testing.T) {
	// beyond the int64 nanosecond range
	y2500 := []Value{DateValue(time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC))}
	y2600 := []Value{DateValue(time.Date(2600, 1, 1, 0, 0, 0, 0, time.UTC))}
	assert.NotEqual(t, RowKey(y2500), RowKey(y2600))

	utc := []Value{DateValue(time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC))}
	wib := []Value{DateValue(time.Date(2024, 3, 1, 14, 0, 0, 0, time.FixedZone("WIB", 7*3600)))}
	assert.Equal(t, RowKey(utc), RowKey(wib), "same instant in another zone")
}

func TestCoercedNull(t *testing.T) {
	v := CoercedNull("kemarin")
	assert.True(t, v.IsNull())
	assert.Equal(t, "kemarin", v.Rejected())
	assert.Empty(t, v.Text())
	assert.True(t, v.Equal(NullValue()))
	assert.Equal(t, RowKey([]Value{NullValue()}), RowKey([]Value{v}))
	assert.Empty(t, StringValue("kemarin").Rejected())

	b, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestValueConstructors(t *testing.T) {
	assert.True(t, NumberValue(math.NaN()).IsNull())
	assert.True(t, NumberValue(math.Inf(1)).IsNull())
	assert.True(t, DateValue(time.Time{}).IsNull())

	d := DateValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-01", d.Text())
	assert.Equal(t, "1500000", NumberValue(1500000).Text())
	assert.True(t, d.Equal(DateValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))))
}

func TestValueMarshalJSON(t *testing.T) {
	b, err := NullValue().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = NumberValue(2.5).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(b))
}
