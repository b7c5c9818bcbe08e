// Package models defines data structures for workbook and document extraction.
package models

// DeclaredType is the storage type of a cell as recorded in the workbook.
type DeclaredType string

const (
	// TypeFormula marks a cell holding a formula. Its value is the formula text.
	TypeFormula DeclaredType = "formula"
	// TypeString marks a shared or inline string cell.
	TypeString DeclaredType = "string"
	// TypeNumber marks a numeric cell without a date/time format.
	TypeNumber DeclaredType = "number"
	// TypeBoolean marks a boolean cell.
	TypeBoolean DeclaredType = "boolean"
	// TypeDate marks a date cell or a numeric cell shown with a date/time format.
	TypeDate DeclaredType = "date"
	// TypeError marks a cell holding an error value such as #DIV/0!.
	TypeError DeclaredType = "error"
)

// CellRecord represents a single populated cell.
//
// For formula cells Value and Formula always hold the same text
// (including the leading "="). Formulas are never evaluated.
type CellRecord struct {
	// Coordinate is the A1-style reference (e.g. "C15").
	Coordinate string `json:"coordinate"`
	// Value is the literal stored value: string, int64, float64 or bool.
	Value interface{} `json:"value"`
	// DeclaredType is the cell's storage type.
	DeclaredType DeclaredType `json:"declared_type"`
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Column is the column index (1-based).
	Column int `json:"column"`
	// Formula is set only for formula cells.
	Formula string `json:"formula,omitempty"`
	// DisplayFormat is set only when the number format is not General.
	DisplayFormat string `json:"display_format,omitempty"`
}

// IsFormula reports whether the record describes a formula cell.
func (c CellRecord) IsFormula() bool {
	return c.DeclaredType == TypeFormula
}
