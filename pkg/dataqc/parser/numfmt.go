package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

// GeneralFormat is the default number format of a cell.
const GeneralFormat = "General"

// builtInNumFmt maps built-in number format ids (ECMA-376 18.8.30) to their
// format codes. Ids 5-8 and 23-36 are locale dependent and omitted.
var builtInNumFmt = map[int]string{
	0:  GeneralFormat,
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	41: `_(* #,##0_);_(* \(#,##0\);_(* "-"_);_(@_)`,
	42: `_("$"* #,##0_);_("$"* \(#,##0\);_("$"* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* \(#,##0.00\);_(* "-"??_);_(@_)`,
	44: `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// FormatResolver resolves the number format code of cells, caching by
// style index. It is bound to a single open workbook.
type FormatResolver struct {
	f        *excelize.File
	byStyle  map[int]string
	date1904 bool
}

// NewFormatResolver creates a resolver for the given workbook.
func NewFormatResolver(f *excelize.File) *FormatResolver {
	r := &FormatResolver{
		f:       f,
		byStyle: make(map[int]string),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// Date1904 reports whether the workbook uses the 1904 date system.
func (r *FormatResolver) Date1904() bool {
	return r.date1904
}

// CellFormat returns the number format code applied to a cell.
func (r *FormatResolver) CellFormat(sheetName, cellName string) (string, error) {
	styleID, err := r.f.GetCellStyle(sheetName, cellName)
	if err != nil {
		return "", err
	}
	if code, ok := r.byStyle[styleID]; ok {
		return code, nil
	}

	code := GeneralFormat
	if styleID != 0 {
		style, err := r.f.GetStyle(styleID)
		if err != nil {
			return "", err
		}
		code = formatCode(style)
	}
	r.byStyle[styleID] = code
	return code, nil
}

func formatCode(style *excelize.Style) string {
	if style == nil {
		return GeneralFormat
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return *style.CustomNumFmt
	}
	if code, ok := builtInNumFmt[style.NumFmt]; ok {
		return code
	}
	return GeneralFormat
}

// IsGeneralFormat reports whether code is the default General format.
func IsGeneralFormat(code string) bool {
	return code == "" || strings.EqualFold(code, GeneralFormat)
}

// IsDateFormat reports whether a number format renders values as a date or time.
func IsDateFormat(code string) bool {
	if IsGeneralFormat(code) {
		return false
	}
	p := nfp.NumberFormatParser()
	sections := p.Parse(code)
	if len(sections) == 0 {
		return false
	}
	// The first section formats positive values, which covers every date serial.
	for _, token := range sections[0].Items {
		switch token.TType {
		case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
			return true
		}
	}
	return false
}
