package catalog

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// LoadXLSX reads catalog rows (code, name, credits) from the first sheet of a workbook.
// The first row is a header. Rows with a missing code or name, or unparsable credits, are skipped.
func LoadXLSX(r io.Reader) ([]models.CatalogItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("catalog workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read catalog sheet %s: %w", sheet, err)
	}

	items := make([]models.CatalogItem, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if code == "" || name == "" {
			continue
		}
		credits, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil || credits <= 0 {
			continue
		}
		items = append(items, models.CatalogItem{Code: code, Name: name, Credits: credits})
	}
	return items, nil
}
