package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapGridKnownLayout(t *testing.T) {
	grid := [][]string{
		{"Item", "Código", "Nombre", "Grupo", "Cantidad", "Accesorios"},
		{"1", "EQ-001", "Ventilador", "Respiratorio", "3", "Si"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 1, row.ItemNumber)
	assert.Equal(t, "EQ-001", row.EquipmentCode)
	assert.Equal(t, "Ventilador", row.EquipmentName)
	assert.Equal(t, "Respiratorio", row.GenericGroup)
	assert.Equal(t, 3, row.Quantity)
	assert.True(t, row.RequiresAccessories)
	assert.Nil(t, row.Notes)
	assert.Nil(t, row.SuggestedAssignee)
}

func TestMapGridReorderedHeaders(t *testing.T) {
	grid := [][]string{
		{"Cantidad solicitada", "Nombre del equipo", "Grupo genérico", "# Item", "Cod. Equipo"},
		{"5", "Monitor multiparámetro", "Monitoreo", "7", "MON-12"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 7, row.ItemNumber)
	assert.Equal(t, "MON-12", row.EquipmentCode)
	assert.Equal(t, "Monitor multiparámetro", row.EquipmentName)
	assert.Equal(t, "Monitoreo", row.GenericGroup)
	assert.Equal(t, 5, row.Quantity)
	assert.False(t, row.RequiresAccessories)
}

func TestMapGridDefaults(t *testing.T) {
	// Only a name column is mapped; everything else takes its fallback.
	grid := [][]string{
		{"Nombre"},
		{"Bomba de infusión"},
		{"Aspirador"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].ItemNumber)
	assert.Equal(t, "AUTO-1", rows[0].EquipmentCode)
	assert.Equal(t, 1, rows[0].Quantity)
	assert.Equal(t, 2, rows[1].ItemNumber)
	assert.Equal(t, "AUTO-2", rows[1].EquipmentCode)
}

func TestMapGridQuantityClampedToMinimumOne(t *testing.T) {
	grid := [][]string{
		{"Nombre", "Cantidad"},
		{"Ecógrafo", "0"},
		{"Desfibrilador", "-4"},
		{"Electrobisturí", "no es numero"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, 1, row.Quantity)
	}
}

func TestMapGridSkipsBlankRows(t *testing.T) {
	grid := [][]string{
		{"Nombre", "Cantidad"},
		{"Ventilador", "2"},
		{"", "   "},
		{"Monitor", "1"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ventilador", rows[0].EquipmentName)
	assert.Equal(t, "Monitor", rows[1].EquipmentName)
	// Positions still count the blank row.
	assert.Equal(t, 1, rows[0].ItemNumber)
	assert.Equal(t, 3, rows[1].ItemNumber)
}

func TestMapGridDropsUnnamedRows(t *testing.T) {
	grid := [][]string{
		{"Nombre", "Cantidad"},
		{"Ventilador", "2"},
		{"", "4"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ventilador", rows[0].EquipmentName)
}

func TestMapGridOptionalColumns(t *testing.T) {
	grid := [][]string{
		{"Nombre", "Observaciones", "Cotizador"},
		{"Ventilador", "urgente", "jperez"},
		{"Monitor", "", ""},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].Notes)
	assert.Equal(t, "urgente", *rows[0].Notes)
	require.NotNil(t, rows[0].SuggestedAssignee)
	assert.Equal(t, "jperez", *rows[0].SuggestedAssignee)
	assert.Nil(t, rows[1].Notes)
	assert.Nil(t, rows[1].SuggestedAssignee)
}

func TestMapGridMissingData(t *testing.T) {
	_, err := MapGrid(nil)
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = MapGrid([][]string{{"Item", "Nombre"}})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestMapGridNoValidRows(t *testing.T) {
	// No recognizable name column at all: every row resolves to the
	// placeholder and gets dropped.
	grid := [][]string{
		{"Columna A", "Columna B"},
		{"x", "y"},
		{"z", "w"},
	}

	_, err := MapGrid(grid)
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestMapGridFirstMatchingColumnWins(t *testing.T) {
	// Two columns could satisfy the name field; the leftmost one wins.
	grid := [][]string{
		{"Nombre corto", "Nombre completo"},
		{"Ventilador", "Ventilador mecánico de traslado"},
	}

	rows, err := MapGrid(grid)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ventilador", rows[0].EquipmentName)
}
