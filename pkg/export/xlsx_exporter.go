package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders datasets into a single-sheet workbook. Numeric cells are written as numbers.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the title on row 1 when present, then headers, body and footer rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create xlsx style: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := f.SetCellValue(defaultSheet, "A1", data.Title); err != nil {
			return nil, fmt.Errorf("write xlsx title: %w", err)
		}
		if err := f.SetCellStyle(defaultSheet, "A1", "A1", bold); err != nil {
			return nil, fmt.Errorf("style xlsx title: %w", err)
		}
		row = 3
	}

	if err := writeRow(f, row, toCells(data.Headers), bold); err != nil {
		return nil, err
	}
	row++
	for _, values := range data.Rows {
		if err := writeRow(f, row, toCells(data.cells(values)), 0); err != nil {
			return nil, err
		}
		row++
	}
	for _, values := range data.Footer {
		if err := writeRow(f, row, toCells(data.cells(values)), bold); err != nil {
			return nil, err
		}
		row++
	}

	last, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, fmt.Errorf("resolve xlsx column: %w", err)
	}
	if err := f.SetColWidth(defaultSheet, "A", "A", 36); err != nil {
		return nil, fmt.Errorf("size xlsx columns: %w", err)
	}
	if last != "A" {
		if err := f.SetColWidth(defaultSheet, "B", last, 14); err != nil {
			return nil, fmt.Errorf("size xlsx columns: %w", err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve xlsx cell: %w", err)
	}
	if err := f.SetSheetRow(defaultSheet, start, &values); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", row, err)
	}
	if style != 0 {
		end, err := excelize.CoordinatesToCellName(len(values), row)
		if err != nil {
			return fmt.Errorf("resolve xlsx cell: %w", err)
		}
		if err := f.SetCellStyle(defaultSheet, start, end, style); err != nil {
			return fmt.Errorf("style xlsx row %d: %w", row, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			out[i] = n
			continue
		}
		out[i] = v
	}
	return out
}
