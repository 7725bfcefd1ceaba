// Package importer drives batch imports: it reads CSV or XLSX source
// files, coerces each row, and runs the reconciliation engine over the
// whole batch inside one transaction, writing an audit record as it
// goes.
package importer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Recognized source columns. Header tokens must match exactly; unknown
// columns are ignored so vendors can append extras without breaking
// imports.
const (
	colCenterName = "shopping_center_name"
	colTenantName = "tenant_name"
	colSuite      = "tenant_suite_number"
)

var recognizedColumns = map[string]bool{
	colCenterName:       true,
	"center_type":       true,
	"address_street":    true,
	"address_city":      true,
	"address_state":     true,
	"address_zip":       true,
	"county":            true,
	"municipality":      true,
	"zoning_authority":  true,
	"owner":             true,
	"property_manager":  true,
	"leasing_agent":     true,
	"leasing_brokerage": true,
	"total_gla":         true,
	"year_built":        true,
	colTenantName:       true,
	colSuite:            true,
	"square_footage":    true,
	"retail_category":   true,
	"ownership_type":    true,
	"base_rent":         true,
	"lease_term":        true,
	"lease_commence":    true,
	"lease_expiration":  true,
	"credit_category":   true,
}

// Row is one source record. Number is the 1-based line in the source,
// so the first data row is 2 and error messages line up with what the
// user sees in a spreadsheet. Values holds only recognized, non-blank
// cells.
type Row struct {
	Number int
	Values map[string]string
}

// ReadFile parses a source file, choosing the reader by extension.
func ReadFile(path string) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open source")
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV content. Rows may be ragged; cells beyond the
// header width are dropped.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("importer: source has no header row")
	}
	return buildRows(records), nil
}

// ReadXLSX parses the first sheet of an XLSX workbook.
func ReadXLSX(path string) ([]Row, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: workbook has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("importer: source has no header row")
	}

	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		records = append(records, cells)
	}
	return buildRows(records), nil
}

func buildRows(records [][]string) []Row {
	header := records[0]
	colIdx := make(map[int]string, len(header))
	for i, col := range header {
		name := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if recognizedColumns[name] {
			colIdx[i] = name
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		values := make(map[string]string)
		for i, cell := range record {
			name, ok := colIdx[i]
			if !ok {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			values[name] = cell
		}
		rows = append(rows, Row{Number: n + 2, Values: values})
	}
	return rows
}
