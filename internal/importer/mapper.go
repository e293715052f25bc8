// Package importer maps uploaded spreadsheet grids with unknown header
// layouts into normalized equipment request rows.
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fatal mapping errors surfaced directly to the user.
var (
	// ErrMissingData indicates the grid has no header row or no data rows.
	ErrMissingData = errors.New("importer: missing header or data rows")
	// ErrNoValidRows indicates every data row was discarded during mapping.
	ErrNoValidRows = errors.New("importer: no valid data rows found")
)

// UnnamedEquipment is the placeholder assigned when no usable name column
// exists. Rows still carrying it after mapping are dropped.
const UnnamedEquipment = "Equipo sin nombre"

// Row is one normalized equipment request produced from a spreadsheet.
type Row struct {
	ItemNumber          int     `json:"numero_item"`
	EquipmentCode       string  `json:"codigo_equipo"`
	EquipmentName       string  `json:"nombre_equipo"`
	GenericGroup        string  `json:"grupo_generico"`
	Quantity            int     `json:"cantidad"`
	RequiresAccessories bool    `json:"requiere_accesorios"`
	Notes               *string `json:"observaciones,omitempty"`
	SuggestedAssignee   *string `json:"cotizador_sugerido,omitempty"`
}

// Header candidates per semantic field, evaluated against lowercased header
// text with substring matching. Columns are scanned left to right and the
// first column containing any candidate wins; spreadsheets come from many
// uncontrolled sources, so substring matching deliberately trades precision
// for robustness.
var fieldCandidates = []struct {
	field      string
	candidates []string
}{
	{"item", []string{"item", "ítem", "numero", "número", "nro", "#"}},
	{"code", []string{"codigo", "código", "cod."}},
	{"name", []string{"nombre", "equipo", "descripcion", "descripción"}},
	{"group", []string{"grupo", "generico", "genérico", "familia"}},
	{"quantity", []string{"cantidad", "cant", "qty"}},
	{"accessories", []string{"accesorio", "requiere"}},
	{"notes", []string{"observacion", "observación", "nota", "comentario"}},
	{"assignee", []string{"cotizador", "asignado", "responsable"}},
}

const unmapped = -1

func resolveColumns(headers []string) map[string]int {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}
	columns := make(map[string]int, len(fieldCandidates))
	for _, fc := range fieldCandidates {
		columns[fc.field] = unmapped
		for col, header := range lowered {
			if header == "" {
				continue
			}
			for _, candidate := range fc.candidates {
				if strings.Contains(header, candidate) {
					columns[fc.field] = col
					break
				}
			}
			if columns[fc.field] != unmapped {
				break
			}
		}
	}
	return columns
}

// MapGrid converts a raw grid (first row headers, rest data) into normalized
// rows. Blank rows are skipped; rows without a usable equipment name are
// dropped. It fails with ErrMissingData for grids without header and data,
// and with ErrNoValidRows when nothing survives mapping.
func MapGrid(grid [][]string) ([]Row, error) {
	if len(grid) < 2 {
		return nil, ErrMissingData
	}
	columns := resolveColumns(grid[0])

	var rows []Row
	for i, cells := range grid[1:] {
		if blankRow(cells) {
			continue
		}
		position := i + 1

		row := Row{
			ItemNumber:    intCell(cells, columns["item"], position),
			EquipmentCode: stringCell(cells, columns["code"], fmt.Sprintf("AUTO-%d", position)),
			EquipmentName: stringCell(cells, columns["name"], UnnamedEquipment),
			GenericGroup:  stringCell(cells, columns["group"], ""),
			Quantity:      intCell(cells, columns["quantity"], 1),
		}
		if row.Quantity < 1 {
			row.Quantity = 1
		}
		row.RequiresAccessories = truthyCell(cells, columns["accessories"])
		if columns["notes"] != unmapped {
			if v := cellAt(cells, columns["notes"]); v != "" {
				row.Notes = &v
			}
		}
		if columns["assignee"] != unmapped {
			if v := cellAt(cells, columns["assignee"]); v != "" {
				row.SuggestedAssignee = &v
			}
		}

		if row.EquipmentName == UnnamedEquipment {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}
	return rows, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellAt(cells []string, col int) string {
	if col == unmapped || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

func stringCell(cells []string, col int, fallback string) string {
	if v := cellAt(cells, col); v != "" {
		return v
	}
	return fallback
}

func intCell(cells []string, col int, fallback int) int {
	v := cellAt(cells, col)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	// Spreadsheets often deliver integers as "3.0".
	if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
		return int(f)
	}
	return fallback
}

func truthyCell(cells []string, col int) bool {
	v := cellAt(cells, col)
	return v != "" && v != "0"
}
