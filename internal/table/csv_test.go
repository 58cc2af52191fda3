package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var salesCSV = []string{
	"\uFEFFNama_Kota,Handphone,Tanggal,Profit",
	"Jakarta,Samsung,2024-01-05,1500000",
	"Bandung,Oppo,03/15/2023,\"1,250,000\"",
	"Surabaya,Vivo,,NA",
	"Medan,Realme,2024-02-01,-12.5",
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadCSVFile(t *testing.T) {
	path := writeFile(t, "sales.csv", strings.Join(salesCSV, "\n"))

	tb, err := ReadCSVFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", tb.Name)
	assert.Equal(t, []string{"Nama_Kota", "Handphone", "Tanggal", "Profit"}, tb.Columns, "BOM stripped from the first header")
	require.Equal(t, 4, tb.Len())
	assert.Equal(t, []int{0, 1, 2, 3}, tb.Index)

	profit := tb.Column("Profit")
	assert.Equal(t, NumberValue(1500000), profit[0])
	assert.Equal(t, 1250000.0, profit[1].Num)
	assert.True(t, profit[2].IsNull())
	assert.Equal(t, -12.5, profit[3].Num)

	dates := tb.Column("Tanggal")
	assert.Equal(t, String, dates[0].Kind, "dates stay text until normalized")
	assert.True(t, dates[2].IsNull())
}

func TestReadCSV_MaxRowsAndShortRecords(t *testing.T) {
	body := "a;b;c\n1;2\n3;4;5\n6;7;8\n"
	opt := DefaultOptions()
	opt.Delimiter = ';'
	opt.MaxRows = 2

	tb, err := ReadCSV(strings.NewReader(body), "short.csv", opt)
	require.NoError(t, err)
	require.Equal(t, 2, tb.Len())
	assert.True(t, tb.Rows[0][2].IsNull(), "missing trailing field padded with null")
	assert.Equal(t, 5.0, tb.Rows[1][2].Num)
}

func TestReadCSV_Empty(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader(""), "empty.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, tb.Len())
	assert.Empty(t, tb.Columns)
}

func TestReadCSVFile_TSV(t *testing.T) {
	path := writeFile(t, "sales.tsv", "Nama_Kota\tProfit\nJakarta\t10\n")
	tb, err := ReadCSVFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Nama_Kota", "Profit"}, tb.Columns)
	assert.Equal(t, 10.0, tb.Rows[0][1].Num)
}

func TestParseCell(t *testing.T) {
	opt := DefaultOptions()
	cases := []struct {
		in   string
		want Value
	}{
		{"", NullValue()},
		{"  N/A ", NullValue()},
		{"#N/A", NullValue()},
		{"42", NumberValue(42)},
		{"1.234,5", NumberValue(1234.5)},
		{"1,234", NumberValue(1234)},
		{"1,5", NumberValue(1.5)},
		{"0x1F", StringValue("0x1F")},
		{"Inf", StringValue("Inf")},
		{"2024-01-05", StringValue("2024-01-05")},
		{"Samsung", StringValue("Samsung")},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseCell(c.in, opt), "ParseCell(%q)", c.in)
	}
}

func TestParseCell_ExplicitLocale(t *testing.T) {
	opt := DefaultOptions()
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	assert.Equal(t, NumberValue(1000), ParseCell("1.000", opt))
	assert.Equal(t, NumberValue(0.5), ParseCell("0,5", opt))
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	_, err := LoadFile("report.pdf", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
