package dataqc

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sheetData maps cell coordinates to values for a fixture sheet.
type sheetData map[string]interface{}

type fixtureSheet struct {
	name  string
	cells sheetData
}

// buildWorkbook writes the given sheets, in order, into an xlsx buffer.
func buildWorkbook(t *testing.T, sheets ...fixtureSheet) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for cell, v := range s.cells {
			if formula, ok := v.(formulaValue); ok {
				require.NoError(t, f.SetCellFormula(s.name, cell, string(formula)))
				continue
			}
			require.NoError(t, f.SetCellValue(s.name, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// formulaValue marks a fixture cell as a formula.
type formulaValue string

func buildSpecPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(10)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

// customerSheets is a workbook with a duplicate customer id and a data dictionary.
func customerSheets() []fixtureSheet {
	return []fixtureSheet{
		{
			name: "Customer Data",
			cells: sheetData{
				"A1": "Customer ID", "B1": "Name", "C1": "Balance",
				"A2": "C001", "B2": "Alice", "C2": 120.5,
				"A3": "C002", "B3": "Bob", "C3": 80,
				"A4": "C001", "B4": "Carol", "C4": 42,
				"C5": formulaValue("SUM(C2:C4)"),
			},
		},
		{
			name: "Data Dictionary",
			cells: sheetData{
				"A1": "Field", "B1": "Description",
				"A2": "Customer ID", "B2": "Unique identifier",
			},
		},
	}
}
