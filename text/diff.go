package text

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const diffContext = 3

// UnifiedDiff renders the change from before to after as a single-hunk
// unified diff. It returns an empty string when nothing changed.
func UnifiedDiff(name, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	a, b := splitLines(before), splitLines(after)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	start := max(0, prefix-diffContext)
	trailing := min(diffContext, suffix)
	endA := len(a) - suffix + trailing
	endB := len(b) - suffix + trailing

	var body strings.Builder
	writeLines(&body, ' ', a[start:prefix])
	writeLines(&body, '-', a[prefix:len(a)-suffix])
	writeLines(&body, '+', b[prefix:len(b)-suffix])
	writeLines(&body, ' ', a[len(a)-suffix:endA])

	hunk := &diff.Hunk{
		OrigStartLine: hunkStart(start, endA-start),
		OrigLines:     int32(endA - start),
		NewStartLine:  hunkStart(start, endB-start),
		NewLines:      int32(endB - start),
		Body:          []byte(body.String()),
	}
	fd := &diff.FileDiff{
		OrigName: "a/" + name,
		NewName:  "b/" + name,
		Hunks:    []*diff.Hunk{hunk},
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// hunkStart is the one-based start line of a hunk; empty ranges name the
// line before them.
func hunkStart(start, count int) int32 {
	if count == 0 {
		return int32(start)
	}
	return int32(start + 1)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(b *strings.Builder, mark byte, lines []string) {
	for _, l := range lines {
		b.WriteByte(mark)
		b.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			b.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
