package dataqc

import (
	"fmt"
	"strings"
)

// Tool names registered with the reasoning model.
const (
	ToolReadSpecification = "read_specification"
	ToolReadWorkbook      = "read_workbook_snapshot"
)

const instructionsTemplate = `
You are an expert data analyst reviewing an Excel file against PDF specifications. Provide a comprehensive analysis with precise issue locations and actionable recommendations.

## Analysis Scope

1. **Structure Compliance**: Verify sheets, columns, headers, data types, and field requirements match PDF specs
2. **Format Validation**: Check dates, numbers, text, codes, and boolean fields for correct formatting
3. **Data Consistency**: Validate temporal logic, numerical relationships, business rules, and data integrity
4. **Quality Checks**: Identify missing data, duplicates, outliers, and formatting issues

## For Each Issue Report

- **Location**: Sheet name, cell reference (e.g., "C15"), column name, row number
- **Type**: Format violation | Consistency error | Missing data | Invalid value | Structural problem
- **Severity**: Critical (blocks processing) | Major (significant deviation) | Minor (formatting)
- **Details**: Current value vs. expected value with clear explanation
- **Fix**: Specific Excel-based solution (no external code)

## Output Structure

EXECUTIVE SUMMARY
- Total issues by severity
- Key problem areas

DETAILED FINDINGS
Sheet: [Name]
Issue #1: [Type] - [Severity]
• Location: Cell B7, Column "Date"
• Found: "2024/13/45"
• Expected: Valid date (DD/MM/YYYY)
• Description: Invalid date format
• Fix: Correct date entry

## Workbook Snapshot Format

The workbook snapshot is JSON keyed by sheet name. Each sheet lists only populated cells, keyed by cell reference, with the stored value, declared type, row, column, the formula text for formula cells (formulas are not calculated) and the display format when it is not General. "dimensions" gives the sheet's nominal size.

## Key Instructions

- Compare against PDF examples/templates
- Prioritize data integrity issues
- Note where file exceeds requirements
- Flag unclear PDF sections
- If a tool returns an error message instead of content, report that error in the executive summary
- Focus on Excel-native solutions only
- Make sure that any recommendations you make can be done in Excel. Do not suggest the use of Python or any other code language to fix the identified issues.
%s`

const taskPrompt = `
Execute the following data quality analysis workflow:

1. FIRST: Call ` + ToolReadSpecification + ` to get the PDF specifications
2. SECOND: Call ` + ToolReadWorkbook + ` to analyze the Excel file
3. THIRD: Compare findings and provide detailed quality assessment

Start by using the ` + ToolReadSpecification + ` tool now.
`

// Instructions returns the system prompt for the given sheet exclusions.
func Instructions(excluded []string) string {
	var b strings.Builder
	for _, name := range excluded {
		fmt.Fprintf(&b, "- Ignore the '%s' sheet. It has been removed from the workbook snapshot and must not be analyzed or mentioned.\n", name)
	}
	return fmt.Sprintf(instructionsTemplate, b.String())
}

// TaskPrompt returns the fixed retrieval-then-compare task script.
func TaskPrompt() string {
	return taskPrompt
}
