// Package output serializes snapshots for files, tools and HTTP responses.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/ukaji3/dataqc-go/pkg/dataqc/models"
)

const indent = "  "

// ToJSON serializes a workbook snapshot as an object keyed by sheet name.
// Sheets and cells keep workbook and row-major order.
func ToJSON(wb *models.WorkbookSnapshot, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range wb.Sheets {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, wb.Sheets[i].Name); err != nil {
			return nil, err
		}
		if err := writeSheet(&buf, &wb.Sheets[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return finish(buf.Bytes(), pretty)
}

// SheetToJSON serializes a single sheet snapshot.
func SheetToJSON(sheet *models.SheetSnapshot, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSheet(&buf, sheet); err != nil {
		return nil, err
	}
	return finish(buf.Bytes(), pretty)
}

type dimensions struct {
	RowCount    int `json:"row_count"`
	ColumnCount int `json:"column_count"`
}

func writeSheet(buf *bytes.Buffer, sheet *models.SheetSnapshot) error {
	buf.WriteString(`{"name":`)
	if err := writeValue(buf, sheet.Name); err != nil {
		return err
	}

	buf.WriteString(`,"cells":{`)
	for i, cell := range sheet.Cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(buf, cell.Coordinate); err != nil {
			return err
		}
		if err := writeValue(buf, cell); err != nil {
			return err
		}
	}
	buf.WriteString(`},"dimensions":`)

	if err := writeValue(buf, dimensions{RowCount: sheet.RowCount, ColumnCount: sheet.ColumnCount}); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func finish(data []byte, pretty bool) ([]byte, error) {
	if !pretty {
		return data, nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
