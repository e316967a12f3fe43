// =============================================================================
// Buyer Ledger - Spreadsheet Reader
// =============================================================================
//
// This module decodes a sales spreadsheet into the raw row batch consumed by
// the aggregation engine. Only the first worksheet is read; row one is the
// header row and every following row becomes one RawRow.
//
// DEFVAL SEMANTICS:
//   Missing and short cells materialize as empty cells under their header
//   key, never as absent keys. The engine's normalizer relies on this:
//   once the header set is known, every key is present-or-empty in every row.
//
// =============================================================================

package xlsxreader

import (
	"fmt"
	"io"

	"github.com/skdtraders/buyer-ledger/internal/engine"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// BATCH STRUCTURE
// =============================================================================

// Batch is one spreadsheet import: the ordered header row plus the decoded
// data rows.
type Batch struct {
	// Headers are the column headers in sheet order, as written in the file.
	Headers []string

	// Rows are the data rows, one RawRow per sheet row below the header.
	// Rows that are entirely blank are dropped.
	Rows []engine.RawRow

	// Sheet is the name of the worksheet the batch was read from.
	Sheet string
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// ReadFile decodes the first worksheet of an xlsx file into a Batch.
func ReadFile(path string) (*Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// Read decodes the first worksheet of an xlsx stream into a Batch.
// Used by the HTTP import endpoint, where the file arrives as a multipart
// upload rather than a path.
func Read(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	return decode(f)
}

// decode reads the first sheet of an open workbook.
func decode(f *excelize.File) (*Batch, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	batch := &Batch{Sheet: sheetName}
	if len(rows) == 0 {
		return batch, nil
	}

	batch.Headers = rows[0]
	batch.Rows = make([]engine.RawRow, 0, len(rows)-1)

	for _, sheetRow := range rows[1:] {
		if isRowEmpty(sheetRow) {
			continue
		}
		batch.Rows = append(batch.Rows, toRawRow(batch.Headers, sheetRow))
	}

	return batch, nil
}

// toRawRow maps a sheet row onto the header set with present-or-empty cells.
func toRawRow(headers, sheetRow []string) engine.RawRow {
	row := make(engine.RawRow, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(sheetRow) && sheetRow[i] != "" {
			row[header] = engine.TextCell(sheetRow[i])
		} else {
			row[header] = engine.EmptyCell()
		}
	}
	return row
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
