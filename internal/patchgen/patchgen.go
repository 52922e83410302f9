// Package patchgen implements the context-aware patch generator: given a
// target commit's file content and an ordered set of approved changes, it
// places each change at a distinct, correctly-identified line and emits a
// unified diff that reproduces the changes against that commit's file
// state.
package patchgen

import (
	"strings"

	"autosquash.dev/autosquash/internal/hunk"
)

// Placement records where one Change was bound in the target file.
type Placement struct {
	Change hunk.Change
	Line   int // 1-based line number in the target file's content
}

// Unplaceable is a change for which no candidate line survived the
// used-line filter, reported via the error taxonomy's ErrUnplaceableChange.
type Unplaceable struct {
	Change hunk.Change
}

// Result is the outcome of placing a group of changes against one target
// commit's file content.
type Result struct {
	// NewContent is fileContent with every placed change applied.
	NewContent string
	Placements []Placement
	Unplaceable []Unplaceable
}

// normalize strips trailing newline and leading/trailing horizontal
// whitespace only; internal whitespace is significant.
func normalize(s string) string {
	return strings.Trim(strings.TrimRight(s, "\r\n"), " \t")
}

// Place runs the used-line algorithm: for each change in source order,
// collect candidate line numbers whose (normalized) content equals the
// change's removed line and that have not already been claimed, choose the
// lowest such line number, and record the placement. Changes are applied
// against a mutable copy of fileContent's lines so later changes in the
// same group see earlier changes' edits reflected only through the
// used-line set, never through re-reading mutated text — candidate
// selection always keys off the *original* target file state, not
// progressively-edited content.
func Place(fileContent string, changes []hunk.Change) Result {
	lines := splitLines(fileContent)
	normalized := make([]string, len(lines))
	for i, l := range lines {
		normalized[i] = normalize(l)
	}

	used := map[int]bool{}
	out := append([]string(nil), lines...)

	var placements []Placement
	var unplaceable []Unplaceable

	for _, c := range changes {
		switch {
		case c.IsReplacement() || c.IsPureRemoval():
			line, ok := chooseCandidate(normalized, used, normalize(c.Removed))
			if !ok {
				unplaceable = append(unplaceable, Unplaceable{Change: c})
				continue
			}
			used[line] = true
			placements = append(placements, Placement{Change: c, Line: line})
			if c.IsReplacement() {
				out[line-1] = c.Added
			} else {
				out[line-1] = removalMarker
			}

		case c.IsPureAddition():
			anchorLine, ok := anchorFor(normalized, used, c.ContextBefore)
			if !ok {
				unplaceable = append(unplaceable, Unplaceable{Change: c})
				continue
			}
			used[anchorLine] = true
			placements = append(placements, Placement{Change: c, Line: anchorLine})
			out[anchorLine-1] = out[anchorLine-1] + "\n" + c.Added
		}
	}

	var filtered []string
	for _, l := range out {
		if l == removalMarker {
			continue
		}
		filtered = append(filtered, l)
	}

	newContent := strings.Join(filtered, "\n")
	if len(filtered) > 0 && strings.HasSuffix(fileContent, "\n") {
		newContent += "\n"
	}

	return Result{
		NewContent:  newContent,
		Placements:  placements,
		Unplaceable: unplaceable,
	}
}

// removalMarker is a sentinel placed into the working line slice for lines
// slated for deletion, filtered out before the final join. Chosen to be a
// value no real source line can normalize to, since splitLines never
// produces a line containing a NUL byte.
const removalMarker = "\x00__removed__\x00"

// chooseCandidate considers every unused line whose normalized content
// equals want; the lowest line number wins.
func chooseCandidate(normalized []string, used map[int]bool, want string) (int, bool) {
	for i, text := range normalized {
		line := i + 1
		if used[line] {
			continue
		}
		if text == want {
			return line, true
		}
	}
	return 0, false
}

// anchorFor locates a pure addition's insertion point by finding the
// lowest unused line whose content matches the last line of the change's
// preceding context, using the same candidate-selection discipline as
// chooseCandidate.
func anchorFor(normalized []string, used map[int]bool, contextBefore []string) (int, bool) {
	if len(contextBefore) == 0 {
		return 0, false
	}
	want := normalize(contextBefore[len(contextBefore)-1])
	return chooseCandidate(normalized, used, want)
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}
