// =============================================================================
// Buyer Ledger - Cell Values
// =============================================================================
//
// Spreadsheet cells arrive with ad-hoc typing: a cell may hold text, a number,
// or nothing at all, and the distinction is invisible at the source. This file
// defines the tagged Cell type used at the decoding boundary, plus the decoder
// that converts untyped JSON rows (from the HTTP import endpoint) into RawRow
// batches.
//
// COERCION POLICY:
//   Coercion never fails. A cell that cannot be interpreted as the requested
//   type degrades to a sentinel (empty string or NaN) so that one bad cell
//   never aborts a batch.
//
// =============================================================================

package engine

import (
	"errors"
	"fmt"
	"strconv"
)

// =============================================================================
// CELL TYPE
// =============================================================================

// CellKind discriminates the three states a spreadsheet cell can be in.
type CellKind int

const (
	// CellEmpty is a missing or blank cell.
	CellEmpty CellKind = iota

	// CellText is a cell holding a string value.
	CellText

	// CellNumeric is a cell holding a numeric value.
	CellNumeric
)

// Cell is a tagged spreadsheet cell value: empty, text or numeric.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// RawRow maps a column header (free-text, as it appears in the file) to the
// cell value in that column. Decoders materialize missing cells as empty
// cells, so every header key is present-or-empty once the header set is known.
type RawRow map[string]Cell

// EmptyCell returns the empty cell value.
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// TextCell returns a text cell. Blank strings stay text cells; trimming is
// the normalizer's job, not the decoder's.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumericCell returns a numeric cell.
func NumericCell(n float64) Cell { return Cell{Kind: CellNumeric, Number: n} }

// String renders the cell the way the spreadsheet displayed it. Empty cells
// render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumeric:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// IsEmpty reports whether the cell holds no value at all.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// =============================================================================
// INVALID INPUT ERROR
// =============================================================================

// ErrInvalidInput is returned when the engine is handed input that is not a
// sequence of row-like mappings. It is the only contract failure the engine
// reports; malformed cell values inside well-formed rows never error.
var ErrInvalidInput = errors.New("input is not a sequence of row-like mappings")

// =============================================================================
// UNTYPED ROW DECODING
// =============================================================================

// DecodeRows converts untyped input (typically the result of decoding a JSON
// array) into a RawRow batch.
//
// Accepted element shapes are map[string]any with string, float64, nil or
// json.Number-compatible values. Anything else fails with ErrInvalidInput,
// wrapped with the offending position.
func DecodeRows(input []any) ([]RawRow, error) {
	rows := make([]RawRow, 0, len(input))

	for i, elem := range input {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d: %w", i, ErrInvalidInput)
		}

		row := make(RawRow, len(m))
		for header, value := range m {
			cell, err := decodeCell(value)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, header, err)
			}
			row[header] = cell
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// decodeCell converts a single untyped value into a Cell.
func decodeCell(value any) (Cell, error) {
	switch v := value.(type) {
	case nil:
		return EmptyCell(), nil
	case string:
		if v == "" {
			return EmptyCell(), nil
		}
		return TextCell(v), nil
	case float64:
		return NumericCell(v), nil
	case int:
		return NumericCell(float64(v)), nil
	case int64:
		return NumericCell(float64(v)), nil
	case bool:
		// Spreadsheet TRUE/FALSE cells; keep the textual form.
		return TextCell(strconv.FormatBool(v)), nil
	default:
		return Cell{}, ErrInvalidInput
	}
}
