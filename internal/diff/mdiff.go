package diff

import (
	"iter"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Intraline span markers embedded into the text of changed rows. They are
// zero-width placeholders; rendering substitutes them with emphasis escape
// sequences. Start markers always pair with a following markEnd and spans
// never overlap within one line.
const (
	markDelete  = "\x00-"
	markInsert  = "\x00+"
	markReplace = "\x00^"
	markEnd     = "\x01"
)

// Line is one side of an aligned Row. Num is the 1-based position inside
// the hunk body, 0 when this side has no counterpart. Text keeps the line
// terminator and, on changed pairs, the intraline markers.
type Line struct {
	Num  int
	Text string
}

// Row pairs an old and a new line after alignment. Changed is false only on
// context rows; a changed row with both sides present is a replacement.
type Row struct {
	Old     Line
	New     Line
	Changed bool
}

// Align pairs the hunk's old-side and new-side lines into a lazy sequence
// of rows. Matching runs of identical lines become context rows; an
// old/new run of equal length in a changed region is paired positionally
// into replacement rows with intraline markers, and the overhang turns
// into plain deletion or insertion rows.
func (h *Hunk) Align() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		oldLines := h.oldLines()
		newLines := h.newLines()
		dmp := diffmatchpatch.New()
		matcher := difflib.NewMatcher(oldLines, newLines)

		for _, op := range matcher.GetOpCodes() {
			switch op.Tag {
			case 'e':
				for k := 0; k < op.I2-op.I1; k++ {
					row := Row{
						Old: Line{Num: op.I1 + k + 1, Text: oldLines[op.I1+k]},
						New: Line{Num: op.J1 + k + 1, Text: newLines[op.J1+k]},
					}
					if !yield(row) {
						return
					}
				}
			case 'd':
				for k := op.I1; k < op.I2; k++ {
					if !yield(Row{Old: Line{Num: k + 1, Text: oldLines[k]}, Changed: true}) {
						return
					}
				}
			case 'i':
				for k := op.J1; k < op.J2; k++ {
					if !yield(Row{New: Line{Num: k + 1, Text: newLines[k]}, Changed: true}) {
						return
					}
				}
			case 'r':
				n := min(op.I2-op.I1, op.J2-op.J1)
				for k := 0; k < n; k++ {
					oldMarked, newMarked := markIntraline(dmp, oldLines[op.I1+k], newLines[op.J1+k])
					row := Row{
						Old:     Line{Num: op.I1 + k + 1, Text: oldMarked},
						New:     Line{Num: op.J1 + k + 1, Text: newMarked},
						Changed: true,
					}
					if !yield(row) {
						return
					}
				}
				for k := op.I1 + n; k < op.I2; k++ {
					if !yield(Row{Old: Line{Num: k + 1, Text: oldLines[k]}, Changed: true}) {
						return
					}
				}
				for k := op.J1 + n; k < op.J2; k++ {
					if !yield(Row{New: Line{Num: k + 1, Text: newLines[k]}, Changed: true}) {
						return
					}
				}
			}
		}
	}
}

// markIntraline computes character-level differences between a paired old
// and new line and embeds span markers into both texts. An adjacent
// delete/insert pair is one replaced region and gets the replace marker on
// both sides; a lone delete or insert gets its own marker kind.
func markIntraline(dmp *diffmatchpatch.DiffMatchPatch, oldText, newText string) (string, string) {
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCleanupMerge(diffs)
	diffs = dmp.DiffCleanupEfficiency(diffs)

	var oldOut, newOut strings.Builder
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldOut.WriteString(d.Text)
			newOut.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				oldOut.WriteString(markReplace + d.Text + markEnd)
				newOut.WriteString(markReplace + diffs[i+1].Text + markEnd)
				i++
			} else {
				oldOut.WriteString(markDelete + d.Text + markEnd)
			}
		case diffmatchpatch.DiffInsert:
			newOut.WriteString(markInsert + d.Text + markEnd)
		}
	}
	return oldOut.String(), newOut.String()
}
