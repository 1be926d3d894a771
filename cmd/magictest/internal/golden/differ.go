package golden

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff runs a test and writes the differences from its golden file to w.
func (r *Runner) Diff(ctx context.Context, testName string, w io.Writer) error {
	actual, err := r.Execute(ctx, testName)
	if err != nil {
		return err
	}
	expected, err := r.config.readExpected(testName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "=== Test: %s ===\n", testName)
	if r.normalizer.Equal(expected, actual) {
		fmt.Fprintln(w, "No differences found - test passes!")
		return nil
	}
	fmt.Fprint(w, LineDiff(expected, actual))
	return nil
}

// LineDiff renders a line-level diff: removed lines start with "-", added
// lines with "+" and unchanged lines with two spaces.
func LineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected+"\n", actual+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
		}
	}
	return sb.String()
}
