// internal/diff/diff.go
package diff

import (
	"bytes"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line represents a single line in a diff with its type and content
type Line struct {
	Type    LineType
	Content string
}

// LineType indicates whether a line was added, removed, or is context
type LineType int

const (
	Context LineType = iota
	Addition
	Deletion
)

// Result contains the complete diff information
type Result struct {
	Lines []Line
	Stats struct {
		Additions int
		Deletions int
	}
}

// Changed reports whether the diffed contents differ at all.
func (r *Result) Changed() bool {
	return r.Stats.Additions > 0 || r.Stats.Deletions > 0
}

// Lines computes a line-level diff from oldContent to newContent.
func Lines(oldContent, newContent []byte) *Result {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(string(oldContent), string(newContent))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	result := &Result{}
	for _, d := range diffs {
		lineType := Context
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			lineType = Addition
		case diffmatchpatch.DiffDelete:
			lineType = Deletion
		}
		for _, content := range splitLines(d.Text) {
			result.Lines = append(result.Lines, Line{Type: lineType, Content: content})
			switch lineType {
			case Addition:
				result.Stats.Additions++
			case Deletion:
				result.Stats.Deletions++
			}
		}
	}
	return result
}

// Format returns a string representation of the diff
func (r *Result) Format() string {
	var buf bytes.Buffer

	for _, line := range r.Lines {
		switch line.Type {
		case Addition:
			buf.WriteString("+ ")
		case Deletion:
			buf.WriteString("- ")
		case Context:
			buf.WriteString("  ")
		}
		buf.WriteString(line.Content)
		buf.WriteString("\n")
	}

	return buf.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
