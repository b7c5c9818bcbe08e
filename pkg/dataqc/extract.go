package dataqc

import (
	"bytes"
	"fmt"

	"github.com/ukaji3/dataqc-go/pkg/dataqc/models"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/parser"
	"github.com/xuri/excelize/v2"
)

// ExtractDocument extracts the text of a PDF specification.
// An unreadable document yields a failed Result instead of an error.
func ExtractDocument(data []byte) models.Result[string] {
	text, err := parser.ExtractDocumentText(data)
	if err != nil {
		return models.Failed[string](models.SourcePDF, err)
	}
	return models.OK(text)
}

// Normalize converts workbook bytes into a sparse, cell-addressed snapshot.
// An unreadable workbook yields a failed Result instead of an error.
func Normalize(data []byte, opts Options) models.Result[*models.WorkbookSnapshot] {
	wb, err := normalize(data, opts)
	if err != nil {
		return models.Failed[*models.WorkbookSnapshot](models.SourceExcel, err)
	}
	return models.OK(wb)
}

func normalize(data []byte, opts Options) (*models.WorkbookSnapshot, error) {
	if len(data) == 0 {
		return nil, ErrInvalidFormat
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	formats := parser.NewFormatResolver(f)
	wb := &models.WorkbookSnapshot{}

	for _, sheetName := range f.GetSheetList() {
		if opts.IsExcluded(sheetName) {
			continue
		}

		sheet, err := parser.ExtractCells(f, sheetName, formats)
		if err != nil {
			return nil, NewExtractionError(sheetName, "cells", err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}
