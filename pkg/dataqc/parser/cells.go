// Package parser provides workbook and document parsing utilities.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/dataqc-go/pkg/dataqc/models"
	"github.com/xuri/excelize/v2"
)

// dateLayout is how date-formatted numeric cells are rendered.
const dateLayout = "2006-01-02 15:04:05"

// ExtractCells extracts the populated cells and extent of a sheet.
// Every coordinate inside the sheet extent is visited; a cell is kept when it
// holds a formula or a non-empty stored value. Formulas are not calculated.
func ExtractCells(f *excelize.File, sheetName string, formats *FormatResolver) (models.SheetSnapshot, error) {
	snap := models.SheetSnapshot{Name: sheetName}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return snap, err
	}

	extent, err := SheetExtent(f, sheetName, rows)
	if err != nil {
		return snap, err
	}
	snap.RowCount = extent.Rows
	snap.ColumnCount = extent.Columns

	for rowNum := 1; rowNum <= extent.Rows; rowNum++ {
		var row []string
		if rowNum <= len(rows) {
			row = rows[rowNum-1]
		}
		for colNum := 1; colNum <= extent.Columns; colNum++ {
			cellName, err := excelize.CoordinatesToCellName(colNum, rowNum)
			if err != nil {
				return snap, err
			}

			formula, err := f.GetCellFormula(sheetName, cellName)
			if err != nil {
				return snap, fmt.Errorf("read formula %s: %w", cellName, err)
			}

			raw := ""
			if colNum <= len(row) {
				raw = row[colNum-1]
			}
			if formula == "" && raw == "" {
				continue
			}

			record, err := buildRecord(f, sheetName, cellName, colNum, rowNum, formula, raw, formats)
			if err != nil {
				return snap, err
			}
			snap.AddCell(record)
		}
	}

	return snap, nil
}

func buildRecord(f *excelize.File, sheetName, cellName string, col, row int, formula, raw string, formats *FormatResolver) (models.CellRecord, error) {
	record := models.CellRecord{
		Coordinate: cellName,
		Row:        row,
		Column:     col,
	}

	numFmt, err := formats.CellFormat(sheetName, cellName)
	if err != nil {
		return record, fmt.Errorf("read number format %s: %w", cellName, err)
	}
	if !IsGeneralFormat(numFmt) {
		record.DisplayFormat = numFmt
	}

	if formula != "" {
		text := formula
		if !strings.HasPrefix(text, "=") {
			text = "=" + text
		}
		record.DeclaredType = models.TypeFormula
		record.Value = text
		record.Formula = text
		return record, nil
	}

	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return record, fmt.Errorf("read cell type %s: %w", cellName, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		record.DeclaredType = models.TypeBoolean
		record.Value = parseBool(raw)
	case excelize.CellTypeError:
		record.DeclaredType = models.TypeError
		record.Value = raw
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		record.DeclaredType = models.TypeString
		record.Value = raw
	case excelize.CellTypeDate:
		// ISO 8601 text stored with t="d".
		record.DeclaredType = models.TypeDate
		record.Value = raw
	default:
		record.DeclaredType, record.Value = classifyNumeric(raw, numFmt, formats.Date1904())
	}

	return record, nil
}

// classifyNumeric types a cell stored without an explicit string type.
func classifyNumeric(raw, numFmt string, date1904 bool) (models.DeclaredType, interface{}) {
	v := parseValue(raw)
	switch n := v.(type) {
	case int64:
		if IsDateFormat(numFmt) {
			return toDate(float64(n), raw, date1904)
		}
		return models.TypeNumber, n
	case float64:
		if IsDateFormat(numFmt) {
			return toDate(n, raw, date1904)
		}
		return models.TypeNumber, n
	default:
		return models.TypeString, v
	}
}

func toDate(serial float64, raw string, date1904 bool) (models.DeclaredType, interface{}) {
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return models.TypeNumber, parseValue(raw)
	}
	return models.TypeDate, t.Format(dateLayout)
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseBool(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "TRUE":
		return true
	default:
		return false
	}
}
