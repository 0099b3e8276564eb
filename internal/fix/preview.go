package fix

import (
	"bytes"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sourcegraph/go-diff/diff"
)

const contextLines = 3

type lineOp struct {
	typ  diffmatchpatch.Operation
	text string
	// old and new line indexes (0-based) of the lines preceding this op
	oldAt, newAt int
}

// UnifiedDiff renders the change as a unified diff with one hunk per group
// of changed lines, each carrying three lines of context.
func UnifiedDiff(change FileChange) ([]byte, error) {
	if bytes.Equal(change.Before, change.After) {
		return nil, nil
	}
	ops := lineDiff(string(change.Before), string(change.After))
	hunks := groupHunks(ops, contextLines)
	if len(hunks) == 0 {
		return nil, nil
	}
	fd := &diff.FileDiff{
		OrigName: "a/" + change.Path,
		NewName:  "b/" + change.Path,
		Hunks:    hunks,
	}
	return diff.PrintFileDiff(fd)
}

func lineDiff(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	oldAt, newAt := 0, 0
	for _, d := range diffs {
		for _, l := range splitLines(d.Text) {
			ops = append(ops, lineOp{typ: d.Type, text: l, oldAt: oldAt, newAt: newAt})
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldAt++
				newAt++
			case diffmatchpatch.DiffDelete:
				oldAt++
			case diffmatchpatch.DiffInsert:
				newAt++
			}
		}
	}
	return ops
}

// groupHunks merges changes separated by at most 2*context equal lines.
func groupHunks(ops []lineOp, context int) []*diff.Hunk {
	var changed []int
	for i, op := range ops {
		if op.typ != diffmatchpatch.DiffEqual {
			changed = append(changed, i)
		}
	}

	var hunks []*diff.Hunk
	for i := 0; i < len(changed); {
		first, last := changed[i], changed[i]
		i++
		for i < len(changed) && changed[i]-last-1 <= 2*context {
			last = changed[i]
			i++
		}
		start := max(first-context, 0)
		end := min(last+context, len(ops)-1)
		hunks = append(hunks, buildHunk(ops[start:end+1]))
	}
	return hunks
}

func buildHunk(ops []lineOp) *diff.Hunk {
	var body bytes.Buffer
	var orig, updated int32
	for _, op := range ops {
		switch op.typ {
		case diffmatchpatch.DiffEqual:
			writeLine(&body, ' ', op.text)
			orig++
			updated++
		case diffmatchpatch.DiffDelete:
			writeLine(&body, '-', op.text)
			orig++
		case diffmatchpatch.DiffInsert:
			writeLine(&body, '+', op.text)
			updated++
		}
	}

	// an empty side starts at the line before the hunk
	origStart := int32(ops[0].oldAt)
	if orig > 0 {
		origStart++
	}
	newStart := int32(ops[0].newAt)
	if updated > 0 {
		newStart++
	}
	return &diff.Hunk{
		OrigStartLine: origStart,
		OrigLines:     orig,
		NewStartLine:  newStart,
		NewLines:      updated,
		Body:          body.Bytes(),
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func writeLine(buf *bytes.Buffer, prefix byte, line string) {
	buf.WriteByte(prefix)
	buf.WriteString(line)
	buf.WriteByte('\n')
}
