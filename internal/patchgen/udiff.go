package patchgen

import (
	"fmt"
	"strings"

	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// RenderUnifiedDiff builds a unified diff between oldContent and newContent
// for file, with 3 lines of context, merging hunks that overlap or abut —
// which falls out for free by diffing the *whole* file with line-
// granularity and only starting a new hunk once two changed regions are
// separated by more than 2*contextLines of unchanged lines.
//
// Line-level diffing is done via sergi/go-diff's line-mode preprocessing
// (DiffLinesToChars / DiffMain / DiffCharsToLines), the standard technique
// for getting Myers diff to operate on whole lines instead of characters.
func RenderUnifiedDiff(file, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	diffs = dmp.DiffCleanupSemantic(diffs)

	ops := flattenToLineOps(diffs)
	hunks := groupIntoHunks(ops, 3)
	if len(hunks) == 0 {
		return ""
	}

	var b2 strings.Builder
	fmt.Fprintf(&b2, "diff --git a/%s b/%s\n", file, file)
	fmt.Fprintf(&b2, "--- a/%s\n", file)
	fmt.Fprintf(&b2, "+++ b/%s\n", file)
	for _, h := range hunks {
		b2.WriteString(h.render())
	}
	return b2.String()
}

type lineOp struct {
	kind diffmatchpatch.Operation
	text string
}

// flattenToLineOps splits each Diff's multi-line text block into one op
// per line, since DiffCharsToLines hands back whole blocks of equal/
// inserted/deleted lines glued together.
func flattenToLineOps(diffs []diffmatchpatch.Diff) []lineOp {
	var ops []lineOp
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			ops = append(ops, lineOp{kind: d.Type, text: line})
		}
	}
	return ops
}

type renderedHunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []string // already prefixed with " ", "-", "+"
}

func (h renderedHunk) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldCount, h.newStart, h.newCount)
	for _, l := range h.lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

// groupIntoHunks walks the flattened line ops, tracking old/new line
// counters, and groups changed regions separated by at most 2*context
// unchanged lines into a single hunk with context lines of padding on
// each side.
func groupIntoHunks(ops []lineOp, context int) []renderedHunk {
	type posOp struct {
		lineOp
		oldLine, newLine int // 1-based position *before* this op is consumed
	}
	var tagged []posOp
	oldLine, newLine := 1, 1
	for _, op := range ops {
		t := posOp{lineOp: op, oldLine: oldLine, newLine: newLine}
		tagged = append(tagged, t)
		switch op.kind {
		case diffmatchpatch.DiffEqual:
			oldLine++
			newLine++
		case diffmatchpatch.DiffDelete:
			oldLine++
		case diffmatchpatch.DiffInsert:
			newLine++
		}
	}

	var changedIdx []int
	for i, t := range tagged {
		if t.kind != diffmatchpatch.DiffEqual {
			changedIdx = append(changedIdx, i)
		}
	}
	if len(changedIdx) == 0 {
		return nil
	}

	var groups [][2]int // [start,end) index ranges into tagged, inclusive of context
	groupStart := changedIdx[0]
	groupEnd := changedIdx[0]
	for _, idx := range changedIdx[1:] {
		if idx-groupEnd <= 2*context+1 {
			groupEnd = idx
			continue
		}
		groups = append(groups, [2]int{groupStart, groupEnd})
		groupStart, groupEnd = idx, idx
	}
	groups = append(groups, [2]int{groupStart, groupEnd})

	var hunks []renderedHunk
	for _, g := range groups {
		lo := g[0] - context
		if lo < 0 {
			lo = 0
		}
		hi := g[1] + context
		if hi >= len(tagged) {
			hi = len(tagged) - 1
		}

		h := renderedHunk{
			oldStart: tagged[lo].oldLine,
			newStart: tagged[lo].newLine,
		}
		for i := lo; i <= hi; i++ {
			t := tagged[i]
			switch t.kind {
			case diffmatchpatch.DiffEqual:
				h.lines = append(h.lines, " "+t.text)
				h.oldCount++
				h.newCount++
			case diffmatchpatch.DiffDelete:
				h.lines = append(h.lines, "-"+t.text)
				h.oldCount++
			case diffmatchpatch.DiffInsert:
				h.lines = append(h.lines, "+"+t.text)
				h.newCount++
			}
		}
		hunks = append(hunks, h)
	}
	return hunks
}
