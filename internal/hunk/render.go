package hunk

import (
	"fmt"
	"strings"
)

// RenderPatch renders a minimal single-file unified diff for hunks, all of
// which must share File. The CLI uses it to re-apply hunks that were left
// out of the operation; per-(file,target) patches come from
// patchgen.RenderUnifiedDiff instead.
func RenderPatch(file string, hunks []Hunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", file, file)
	fmt.Fprintf(&b, "--- a/%s\n", file)
	fmt.Fprintf(&b, "+++ b/%s\n", file)
	for _, h := range hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Tag {
			case LineContext:
				b.WriteString(" " + l.Text + "\n")
			case LineRemoved:
				b.WriteString("-" + l.Text + "\n")
			case LineAdded:
				b.WriteString("+" + l.Text + "\n")
			}
		}
	}
	return b.String()
}
