package driver

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines around each hunk.
const diffContext = 3

const noNewline = "\\ No newline at end of file\n"

type diffLine struct {
	op   byte
	text string
}

// UnifiedDiff renders the change from before to after as a unified diff with
// a/ and b/ path prefixes. Equal inputs produce "".
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	lines := lineDiff(before, after)

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	oldPos, newPos := positions(lines)

	for idx := 0; idx < len(lines); {
		for idx < len(lines) && lines[idx].op == ' ' {
			idx++
		}

		if idx == len(lines) {
			break
		}

		start := max(idx-diffContext, 0)
		last := idx

		for j := idx; j < len(lines); j++ {
			if lines[j].op != ' ' {
				last = j
			} else if j-last > 2*diffContext {
				break
			}
		}

		end := min(last+diffContext+1, len(lines))

		writeHunk(&sb, lines[start:end], oldPos[start], newPos[start])

		idx = end
	}

	return sb.String()
}

// lineDiff diffs line by line and flattens the result into one entry per line.
func lineDiff(before, after string) []diffLine {
	dmp := diffmatchpatch.New()

	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []diffLine

	for _, diff := range diffs {
		op := byte(' ')

		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffEqual:
		}

		for _, text := range splitLines(diff.Text) {
			out = append(out, diffLine{op: op, text: text})
		}
	}

	return out
}

// positions returns the 1-based old and new line number of every entry.
func positions(lines []diffLine) (oldPos, newPos []int) {
	oldPos = make([]int, len(lines))
	newPos = make([]int, len(lines))
	oldLine, newLine := 1, 1

	for i, line := range lines {
		oldPos[i], newPos[i] = oldLine, newLine

		if line.op != '+' {
			oldLine++
		}

		if line.op != '-' {
			newLine++
		}
	}

	return oldPos, newPos
}

func writeHunk(sb *strings.Builder, hunk []diffLine, oldStart, newStart int) {
	var oldCount, newCount int

	for _, line := range hunk {
		if line.op != '+' {
			oldCount++
		}

		if line.op != '-' {
			newCount++
		}
	}

	if oldCount == 0 {
		oldStart--
	}

	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(oldStart, oldCount), hunkRange(newStart, newCount))

	for _, line := range hunk {
		sb.WriteByte(line.op)
		sb.WriteString(line.text)

		if !strings.HasSuffix(line.text, "\n") {
			sb.WriteString("\n" + noNewline)
		}
	}
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprint(start)
	}

	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines splits text after each newline. A final line without newline is
// kept as is.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
