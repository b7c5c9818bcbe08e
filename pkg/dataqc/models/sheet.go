package models

// SheetSnapshot represents the populated cells and nominal extent of one sheet.
type SheetSnapshot struct {
	// Name is the sheet name, equal to its key in the workbook snapshot.
	Name string
	// Cells holds populated cells in row-major order. Empty cells are omitted.
	Cells []CellRecord
	// RowCount is the sheet's nominal row extent.
	RowCount int
	// ColumnCount is the sheet's nominal column extent.
	ColumnCount int

	index map[string]int
}

// AddCell appends a populated cell. Callers add cells in row-major order.
func (s *SheetSnapshot) AddCell(c CellRecord) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[c.Coordinate]; ok {
		s.Cells[i] = c
		return
	}
	s.index[c.Coordinate] = len(s.Cells)
	s.Cells = append(s.Cells, c)
}

// Cell looks up a populated cell by coordinate.
func (s *SheetSnapshot) Cell(coordinate string) (CellRecord, bool) {
	if len(s.index) == len(s.Cells) {
		if i, ok := s.index[coordinate]; ok {
			return s.Cells[i], true
		}
		return CellRecord{}, false
	}
	// Built by hand rather than through AddCell.
	for _, c := range s.Cells {
		if c.Coordinate == coordinate {
			return c, true
		}
	}
	return CellRecord{}, false
}

// Coordinates returns the coordinates of populated cells in row-major order.
func (s *SheetSnapshot) Coordinates() []string {
	coords := make([]string, 0, len(s.Cells))
	for _, c := range s.Cells {
		coords = append(coords, c.Coordinate)
	}
	return coords
}
