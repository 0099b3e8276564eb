// Package diag carries contract diagnostics from the analyzer to reporters,
// the fix engine and storage.
package diag

import "viewlint/internal/symbols"

// LineRange is an inclusive 1-based line range.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Diagnostic is one reported contract violation.
type Diagnostic struct {
	Code     string           `json:"code"`
	Severity Severity         `json:"-"`
	TypeName string           `json:"type"`
	TypeID   string           `json:"type_id,omitempty"`
	Message  string           `json:"message"`
	Location symbols.Location `json:"location"`
	// Extent covers the whole declaration, used for changed-line filtering.
	Extent  LineRange `json:"extent"`
	Fixable bool      `json:"fixable"`
}
