package report

import (
	"encoding/json"
	"io"

	"viewlint/internal/diag"
)

// JSONOpts configures JSON.
type JSONOpts struct {
	Rel func(path string) string
}

// LocationJSON is the position of a diagnostic.
type LocationJSON struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// DiagnosticJSON is the wire form of one diagnostic.
type DiagnosticJSON struct {
	Code     string       `json:"code"`
	Severity string       `json:"severity"`
	Type     string       `json:"type"`
	TypeID   string       `json:"type_id,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Fixable  bool         `json:"fixable"`
}

// DiagnosticsOutput is the document written by JSON.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput converts bag into its wire form.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		path := d.Location.File
		if opts.Rel != nil {
			path = opts.Rel(path)
		}
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Code:     d.Code,
			Severity: d.Severity.String(),
			Type:     d.TypeName,
			TypeID:   d.TypeID,
			Message:  d.Message,
			Location: LocationJSON{
				File:   path,
				Line:   d.Location.Line,
				Column: d.Location.Column,
				Start:  d.Location.Start,
				End:    d.Location.End,
			},
			Fixable: d.Fixable,
		})
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, opts))
}
