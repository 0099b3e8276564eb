package analysis

import (
	"path/filepath"
	"strings"

	"viewlint/internal/diag"
	"viewlint/internal/git"
)

// FilterChanged keeps only diagnostics whose declaration overlaps a changed
// line. Change paths are repository-relative and matched as path suffixes.
func FilterChanged(bag *diag.Bag, changes []git.ChangedFile) {
	bag.Filter(func(d diag.Diagnostic) bool {
		file := filepath.ToSlash(d.Location.File)
		for _, change := range changes {
			if !sameFile(file, filepath.ToSlash(change.Path)) {
				continue
			}
			if change.WholeFile || isAffected(d.Extent, change.ChangedLines) {
				return true
			}
		}
		return false
	})
}

func sameFile(file, changed string) bool {
	return file == changed || strings.HasSuffix(file, "/"+changed)
}

func isAffected(extent diag.LineRange, lines []int) bool {
	// Simple overlap check
	for _, line := range lines {
		if extent.Contains(line) {
			return true
		}
	}
	return false
}
