package debug

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DumpDiff renders a line-level diff between two successive
// --dump-trees syntax dumps, so a user debugging a stuck reduction can
// see exactly what the last committed stage changed.
func DumpDiff(previous, current string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(previous, current)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
