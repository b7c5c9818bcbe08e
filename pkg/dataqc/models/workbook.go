package models

import "strings"

// WorkbookSnapshot is the workbook-level container with per-sheet data.
// Sheets keep the workbook's original order.
type WorkbookSnapshot struct {
	// Sheets holds the retained sheets in workbook order.
	Sheets []SheetSnapshot
}

// Sheet returns the sheet with the exact given name.
func (w *WorkbookSnapshot) Sheet(name string) (*SheetSnapshot, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

// SheetNames returns sheet names in workbook order.
func (w *WorkbookSnapshot) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// HasSheetFold reports whether a sheet whose name case-insensitively equals
// name is present.
func (w *WorkbookSnapshot) HasSheetFold(name string) bool {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
