package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook extracts the first sheet of an xlsx workbook as a raw grid
// suitable for MapGrid. Cell values come back as display strings, which is
// what the mapper's coercion rules expect.
func ReadWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrMissingData
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("importer: read sheet %s: %w", sheet, err)
	}
	return rows, nil
}
