// =============================================================================
// Buyer Ledger - Summary Workbook Writer
// =============================================================================
//
// Writes the buyer summary table to an xlsx workbook, in the column layout
// staff expect from the old tooling:
//
//   | SL No | Buyer Name | Place | Total Qtls | Commission Amount |
//   | Received Amount | Chq/RTGS/Cash |
//
// Commission is rounded to two decimals HERE, at export time only; stored
// values keep full precision.
//
// =============================================================================

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/skdtraders/buyer-ledger/internal/types"
	"github.com/xuri/excelize/v2"
)

// sheetName is the worksheet the summary table is written to.
const sheetName = "Buyers"

// columnHeaders is the fixed export column layout.
var columnHeaders = []string{
	"SL No",
	"Buyer Name",
	"Place",
	"Total Qtls",
	"Commission Amount",
	"Received Amount",
	"Chq/RTGS/Cash",
}

// Filter narrows the exported rows. Empty fields match everything.
type Filter struct {
	Buyer string
	Place string
}

func (f Filter) matches(s types.BuyerSummary) bool {
	if f.Buyer != "" && s.Buyer != f.Buyer {
		return false
	}
	if f.Place != "" && s.Place != f.Place {
		return false
	}
	return true
}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// Write renders the summary workbook for the given records and streams it to
// w. Records are written in the order supplied; SL No restarts at 1 after
// filtering, matching the on-screen table.
func Write(w io.Writer, summaries []types.BuyerSummary, filter Filter) error {
	f, err := build(summaries, filter)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile renders the summary workbook to a file path.
func WriteFile(path string, summaries []types.BuyerSummary, filter Filter) error {
	f, err := build(summaries, filter)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// build assembles the workbook in memory.
func build(summaries []types.BuyerSummary, filter Filter) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := make([]interface{}, len(columnHeaders))
	for i, h := range columnHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header row: %w", err)
	}

	rowNum := 2
	sl := 1
	for _, s := range summaries {
		if !filter.matches(s) {
			continue
		}

		row := []interface{}{
			sl,
			s.Buyer,
			s.Place,
			s.TotalQtls,
			fmt.Sprintf("%.2f", s.Commission),
			s.ReceivedAmount,
			s.PaymentMode,
		}
		cell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", rowNum, err)
		}
		rowNum++
		sl++
	}

	return f, nil
}

// FileName suggests a download name for the export, mirroring the old
// tooling's buyers_summary.xlsx with an optional filter suffix.
func FileName(filter Filter) string {
	parts := []string{"buyers_summary"}
	if filter.Buyer != "" {
		parts = append(parts, sanitize(filter.Buyer))
	}
	if filter.Place != "" {
		parts = append(parts, sanitize(filter.Place))
	}
	return strings.Join(parts, "_") + ".xlsx"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
}
