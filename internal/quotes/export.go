package quotes

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Comparativo"

var exportHeaders = []string{
	"Proveedor", "Tipo", "Moneda", "Precio original",
	"Precio base", "Recargo accesorios", "Precio ajustado", "Total", "Seleccionado",
}

// WriteComparisonWorkbook renders a comparison as a single-sheet xlsx
// workbook, one row per quote, prices in the reference currency.
func WriteComparisonWorkbook(cmp Comparison, w io.Writer) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("quotes: rename sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return fmt.Errorf("quotes: write header: %w", err)
		}
	}

	for i, row := range cmp.Rows {
		selected := ""
		if row.Selected {
			selected = "Si"
		}
		values := []any{
			row.SupplierName, row.Kind, row.Currency, row.UnitPrice,
			row.Prices.BasePrice, row.Prices.AccessorySurcharge,
			row.Prices.AdjustedUnitPrice, row.Prices.TotalPrice, selected,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return fmt.Errorf("quotes: write row %d: %w", i+1, err)
			}
		}
	}

	summaryRow := len(cmp.Rows) + 3
	summary := [][2]any{
		{"Cantidad", cmp.Quantity},
		{"Moneda de referencia", cmp.Reference},
		{"Mejor precio", cmp.BestPrice},
		{"Peor precio", cmp.WorstPrice},
	}
	for i, pair := range summary {
		labelCell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, labelCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, valueCell, pair[1]); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("quotes: write workbook: %w", err)
	}
	return nil
}
