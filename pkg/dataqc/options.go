// Package dataqc compares a workbook against a PDF specification with the
// help of an LLM and returns a data-quality report.
package dataqc

import "strings"

// DefaultExcludedSheet is the sheet skipped when no exclusions are configured.
const DefaultExcludedSheet = "data dictionary"

// DefaultMaxTurns bounds the reasoning invocation when no limit is configured.
const DefaultMaxTurns = 5

// Options configures extraction behavior.
type Options struct {
	// ExcludeSheets lists sheet names (case-insensitive) that are dropped
	// before any of their cells are read.
	ExcludeSheets []string
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		ExcludeSheets: []string{DefaultExcludedSheet},
	}
}

// IsExcluded reports whether a sheet name matches an exclusion.
func (o Options) IsExcluded(sheetName string) bool {
	for _, name := range o.ExcludeSheets {
		if strings.EqualFold(sheetName, name) {
			return true
		}
	}
	return false
}
