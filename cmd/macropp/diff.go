package main

import (
	"fmt"
	"io"
	"strings"

	"macropp/cmd/macropp/preprocess"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	colorHunk = lipgloss.Color("39")
	colorDel  = lipgloss.Color("196")
	colorIns  = lipgloss.Color("42")
)

// writeDiff prints the lines that differ between the input and the
// preprocessed output, one "@@ -OLD +NEW @@" header per hunk. Unchanged lines
// are not printed. It returns the number of hunks.
func writeDiff(w io.Writer, before, after string, color bool) (int, error) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	r := newRenderer(w, color)
	styleHunk := r.NewStyle().Foreground(colorHunk)
	styleDel := r.NewStyle().Foreground(colorDel)
	styleIns := r.NewStyle().Foreground(colorIns)

	var sb strings.Builder
	oldLine, newLine := 1, 1
	hunks := 0
	inHunk := false
	for _, d := range diffs {
		lines := preprocess.Lines(d.Text)
		if d.Type == diffmatchpatch.DiffEqual {
			oldLine += len(lines)
			newLine += len(lines)
			inHunk = false
			continue
		}
		if !inHunk {
			sb.WriteString(styleHunk.Render(fmt.Sprintf("@@ -%d +%d @@", oldLine, newLine)))
			sb.WriteByte('\n')
			hunks++
			inHunk = true
		}
		prefix, style := "-", styleDel
		if d.Type == diffmatchpatch.DiffInsert {
			prefix, style = "+", styleIns
			newLine += len(lines)
		} else {
			oldLine += len(lines)
		}
		for _, l := range lines {
			sb.WriteString(style.Render(prefix + trimEOL(l)))
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return hunks, err
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
