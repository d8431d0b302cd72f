package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRange is a rectangular area in A1 notation, 1-based and inclusive.
type CellRange struct {
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses A1-notation references: a single cell ("B4"), a
// rectangle ("A1:C5"), a row band ("3:5") or a column band ("B:D").
// Row and column bands report zero for the unbounded axis.
func ParseRange(ref string) (CellRange, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return CellRange{}, fmt.Errorf("parse range: empty reference")
	}

	start, end, _ := strings.Cut(ref, ":")
	if end == "" {
		end = start
	}

	sc, sr, err := parseCell(start)
	if err != nil {
		return CellRange{}, fmt.Errorf("parse range %q: %w", ref, err)
	}
	ec, er, err := parseCell(end)
	if err != nil {
		return CellRange{}, fmt.Errorf("parse range %q: %w", ref, err)
	}

	// Mixed forms like "A1:C" are not a shape any action produces.
	if (sc == 0) != (ec == 0) || (sr == 0) != (er == 0) {
		return CellRange{}, fmt.Errorf("parse range %q: mismatched bounds", ref)
	}

	if sc > ec && ec != 0 {
		sc, ec = ec, sc
	}
	if sr > er && er != 0 {
		sr, er = er, sr
	}

	return CellRange{StartCol: sc, StartRow: sr, EndCol: ec, EndRow: er}, nil
}

// parseCell splits "B4" into column 2, row 4. A bare column letter or bare
// row number is allowed; the missing axis is zero.
func parseCell(s string) (col, row int, err error) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			break
		}
		col = col*26 + int(c-'A'+1)
		i++
	}
	if i < len(s) {
		row, err = strconv.Atoi(s[i:])
		if err != nil || row < 1 {
			return 0, 0, fmt.Errorf("bad cell %q", s)
		}
	}
	if col == 0 && row == 0 {
		return 0, 0, fmt.Errorf("bad cell %q", s)
	}
	return col, row, nil
}

// CellCount returns the number of cells covered by a bounded rectangle.
// Row and column bands (unbounded on one axis) count the bounded axis only,
// which is the coarser row/column estimate bulk operations report.
func (r CellRange) CellCount() int {
	cols := r.EndCol - r.StartCol + 1
	rows := r.EndRow - r.StartRow + 1
	if r.StartCol == 0 {
		return rows
	}
	if r.StartRow == 0 {
		return cols
	}
	return cols * rows
}

// String renders the range back in A1 notation.
func (r CellRange) String() string {
	start := ColumnName(r.StartCol) + rowName(r.StartRow)
	end := ColumnName(r.EndCol) + rowName(r.EndRow)
	if start == end {
		return start
	}
	return start + ":" + end
}

// RowBand builds the A1 reference for count rows starting at start (1-based).
func RowBand(start, count int) string {
	if count <= 1 {
		return fmt.Sprintf("%d:%d", start, start)
	}
	return fmt.Sprintf("%d:%d", start, start+count-1)
}

// ColumnBand builds the A1 reference for count columns starting at start
// (1-based).
func ColumnBand(start, count int) string {
	if count <= 1 {
		return ColumnName(start) + ":" + ColumnName(start)
	}
	return ColumnName(start) + ":" + ColumnName(start+count-1)
}

// ColumnName converts a 1-based column index to its letter form ("A", "Z",
// "AA"). Zero and negative indexes yield "".
func ColumnName(col int) string {
	if col <= 0 {
		return ""
	}
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

func rowName(row int) string {
	if row <= 0 {
		return ""
	}
	return strconv.Itoa(row)
}
