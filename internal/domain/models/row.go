package models

import (
	"fmt"
	"strings"
)

// Source column names of the shipment sheets.
const (
	ColumnNetWeight   = "PDSNET"
	ColumnDateSerial  = "DATENR"
	ColumnProductCode = "POSTAR"
	ColumnExporter    = "EXPORTATEUR SIMPLE"
	ColumnDestination = "DESTINATION"
	ColumnConsignee   = "DESTINATAIRE SIMPLE"
)

// RawRow is one sheet row keyed by header name. Missing cells are empty
// strings.
type RawRow map[string]string

// Has reports whether the column was present in the header of the row's sheet.
func (r RawRow) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// ShipmentRow is a raw row tagged with the port of the sheet it came from.
type ShipmentRow struct {
	Port Port
	Row  RawRow
}

// RowsFromGrid turns a header-first grid of cells into keyed rows. Cells are
// stringified with fmt.Sprint so numeric values from typed APIs keep a form
// strconv.ParseFloat accepts. Header cells are trimmed; the first occurrence
// of a duplicated header wins. Rows with no non-empty cell are skipped.
func RowsFromGrid[T any](grid [][]T) []RawRow {
	if len(grid) == 0 {
		return nil
	}

	header := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		header[i] = strings.TrimSpace(cellString(cell))
	}

	rows := make([]RawRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(RawRow, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, dup := row[name]; dup {
				continue
			}
			var value string
			if i < len(cells) {
				value = cellString(cells[i])
			}
			if value != "" {
				empty = false
			}
			row[name] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}
