// Package export renders transaction lists as downloadable spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ledgerly/internal/models"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const (
	sheetName   = "Transactions"
	dateLayout  = "2006-01-02"
	noCategory  = "-"
	ContentCSV  = "text/csv; charset=utf-8"
	ContentXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []string{"Date", "Type", "Category", "Amount", "Description"}

// categoryName returns the category label for tx. Income and transactions
// whose category was deleted render as "-".
func categoryName(tx *models.Transaction) string {
	if tx.Category == nil {
		return noCategory
	}
	return tx.Category.Name
}

// WriteCSV writes txs as CSV with a header row.
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}

	for i := range txs {
		tx := &txs[i]
		record := []string{
			tx.Date.Format(dateLayout),
			string(tx.Type),
			categoryName(tx),
			tx.Amount.StringFixed(2),
			tx.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes txs as a single-sheet workbook. Amounts are numeric cells.
func WriteXLSX(w io.Writer, txs []models.Transaction) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("export: write xlsx header: %w", err)
	}

	for i := range txs {
		tx := &txs[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		row := []interface{}{
			tx.Date.Format(dateLayout),
			string(tx.Type),
			categoryName(tx),
			tx.Amount.Round(2).InexactFloat64(),
			tx.Description,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("export: write xlsx row %d: %w", i+1, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "E", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
