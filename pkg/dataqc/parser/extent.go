package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extent is the nominal bounding box of a sheet, anchored at A1.
type Extent struct {
	// Rows is the last row (1-based, inclusive).
	Rows int
	// Columns is the last column (1-based, inclusive).
	Columns int
}

// SheetExtent returns the sheet extent: the larger of the declared
// dimension and the extent of the stored rows.
func SheetExtent(f *excelize.File, sheetName string, rows [][]string) (Extent, error) {
	var ext Extent

	ref, err := f.GetSheetDimension(sheetName)
	if err != nil {
		return ext, err
	}
	if declared, ok := parseDimension(ref); ok {
		ext = declared
	}

	if len(rows) > ext.Rows {
		ext.Rows = len(rows)
	}
	for _, row := range rows {
		if len(row) > ext.Columns {
			ext.Columns = len(row)
		}
	}

	return ext, nil
}

// parseDimension parses a dimension reference like A1:D10 or $A$1:$D$10.
// A single-cell reference yields that cell as the bottom-right corner.
func parseDimension(ref string) (Extent, bool) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if ref == "" {
		return Extent{}, false
	}
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}

	end := ref
	if parts := strings.Split(ref, ":"); len(parts) == 2 {
		end = parts[1]
	} else if len(parts) > 2 {
		return Extent{}, false
	}

	col, row, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return Extent{}, false
	}
	return Extent{Rows: row, Columns: col}, true
}
