package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

type ChangedFile struct {
	Path         string
	ChangedLines []int
	// WholeFile marks files git does not track yet; every line counts as changed.
	WholeFile bool
}

// GetChangedFiles runs git diff in dir and returns changed C# files with
// their changed line numbers in the working tree version. Untracked files
// are reported whole. Paths are relative to the repository root.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "-U0", "--no-color", baseRef, "--", "*.cs")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	changes, err := parseDiff(output)
	if err != nil {
		return nil, err
	}

	cmd = exec.CommandContext(ctx, "git", "ls-files", "--others", "--exclude-standard", "--full-name", "--", "*.cs")
	cmd.Dir = dir
	output, err = cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}
	return append(changes, parseUntracked(output)...), nil
}

func parseUntracked(output []byte) []ChangedFile {
	var changes []ChangedFile
	for _, line := range strings.Split(string(output), "\n") {
		path := strings.TrimSpace(line)
		if path == "" || !strings.EqualFold(filepath.Ext(path), ".cs") {
			continue
		}
		changes = append(changes, ChangedFile{Path: path, WholeFile: true})
	}
	return changes
}

func parseDiff(output []byte) ([]ChangedFile, error) {
	fileDiffs, err := diff.NewMultiFileDiffReader(bytes.NewReader(output)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	var changes []ChangedFile
	for _, fd := range fileDiffs {
		// We want the b/ path (new version); deleted files have nothing to check
		if fd.NewName == "/dev/null" {
			continue
		}
		path := strings.TrimPrefix(fd.NewName, "b/")
		if !strings.EqualFold(filepath.Ext(path), ".cs") {
			continue
		}

		current := ChangedFile{Path: path, ChangedLines: []int{}}
		for _, h := range fd.Hunks {
			start := int(h.NewStartLine)
			if h.NewLines == 0 {
				// pure deletion: the surrounding line is what changed
				if start > 0 {
					current.ChangedLines = append(current.ChangedLines, start)
				}
				continue
			}
			for i := 0; i < int(h.NewLines); i++ {
				current.ChangedLines = append(current.ChangedLines, start+i)
			}
		}
		changes = append(changes, current)
	}

	return changes, nil
}
