package table

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ReadXLSXFile loads one worksheet of an .xlsx workbook. The first non-empty
// row is the header.
func ReadXLSXFile(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, filepath.Base(path), opt)
}

// ReadXLSX loads one worksheet from a workbook stream.
func ReadXLSX(r io.Reader, name string, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, name, opt)
}

func readWorkbook(f *excelize.File, name string, opt Options) (*Table, error) {
	sheet, err := resolveSheet(f, opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	// Raw values keep numbers unformatted; date cells arrive as Excel serials
	// and are converted by the temporal normalizer.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return New(name, nil), nil
	}
	t := New(name, trimHeader(rows[start]))
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	for _, rec := range rows[start+1:] {
		if t.Len() >= maxRows {
			break
		}
		if isBlankRow(rec) {
			continue
		}
		t.Append(parseSheetRecord(rec, len(t.Columns), opt))
	}
	return t, nil
}

// rawNumber reads the unformatted values excelize returns for numeric cells,
// which always use '.' for decimals and never group thousands.
var rawNumber = Options{DecimalSeparator: '.'}

// parseSheetRecord parses numeric cells locale-independently and falls back
// to the configured separators only for numbers stored as text.
func parseSheetRecord(rec []string, ncol int, opt Options) []Value {
	row := make([]Value, ncol)
	for j := 0; j < ncol && j < len(rec); j++ {
		v := ParseCell(rec[j], rawNumber)
		if v.Kind == String {
			v = ParseCell(rec[j], opt)
		}
		row[j] = v
	}
	return row
}

func resolveSheet(f *excelize.File, sheetName string, sheetIndex int) (string, error) {
	sheets := f.GetSheetList()
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheetName, strings.Join(sheets, ", "))
	}
	idx := sheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("%w: index %d (workbook has %d sheets)", ErrSheetNotFound, idx, len(sheets))
	}
	return sheets[idx-1], nil
}

func isBlankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ExcelSerialToTime converts an Excel 1900-system date serial. Serials
// outside the range Excel can display are rejected.
func ExcelSerialToTime(serial float64) (time.Time, bool) {
	if serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
