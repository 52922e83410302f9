// Package hunk parses unified diffs into structured hunks and the finer-
// grained changes the patch generator retargets. Generalized from the
// teacher's internal/git/hunks.go (ParseStagedHunks), which only understood
// `git diff --cached` output; this parser additionally recognizes binary,
// mode-only, new-file and deleted-file hunks and supports re-slicing a hunk
// into one-change units for line-by-line mode.
package hunk

import (
	"fmt"

	"autosquash.dev/autosquash/internal/gitwrap"
)

// Kind tags what a Hunk carries, since not every diff hunk is plain text
// additions/removals.
type Kind int

const (
	KindText Kind = iota
	KindBinary
	KindModeOnly
	KindNewFile
	KindDeletedFile
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindModeOnly:
		return "mode_only"
	case KindNewFile:
		return "new_file"
	case KindDeletedFile:
		return "deleted_file"
	default:
		return "unknown"
	}
}

// LineTag marks one line within a hunk's body.
type LineTag int

const (
	LineContext LineTag = iota
	LineRemoved
	LineAdded
)

// Line is one line of hunk content alongside its tag and its 1-based
// position within the relevant side of the hunk (old-side line number for
// context/removed lines, new-side line number for context/added lines).
type Line struct {
	Tag     LineTag
	Text    string
	OldLine int
	NewLine int
}

// Hunk is a contiguous change region in one file, per the data model's
// invariants: removed+context lengths equal OldCount, added+context lengths
// equal NewCount, path is repository-relative and validated.
type Hunk struct {
	File     string
	Kind     Kind
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
	// Header holds the raw "diff --git"/mode/index lines preceding the
	// first "@@" marker, preserved so KindBinary/KindModeOnly/KindNewFile/
	// KindDeletedFile hunks (which may carry no "@@" section at all) still
	// round-trip enough information for callers that only skip-and-warn.
	Header string
}

// Change is a single removed line paired with its replacement added line,
// or a pure addition/removal, plus the context the generator uses to locate
// it in a target commit's file state.
type Change struct {
	File string
	// HasRemoved/Removed: the original line's text, when this change
	// removes or replaces a line.
	HasRemoved bool
	Removed    string
	// HasAdded/Added: the replacement line's text, when this change adds
	// or replaces a line.
	HasAdded bool
	Added    string
	// ContextBefore is up to 3 lines of context immediately preceding this
	// change's change group in the source hunk (shared by every change of
	// the group), used as a disambiguating anchor since a
	// pure addition has no removed line to locate by content alone.
	ContextBefore []string
}

// IsReplacement is true when Change pairs a removed line with an added one.
func (c Change) IsReplacement() bool { return c.HasRemoved && c.HasAdded }

// IsPureAddition is true when Change has no removed counterpart.
func (c Change) IsPureAddition() bool { return !c.HasRemoved && c.HasAdded }

// IsPureRemoval is true when Change has no added counterpart.
func (c Change) IsPureRemoval() bool { return c.HasRemoved && !c.HasAdded }

// ValidatePath checks File against repoRoot using the same traversal/
// symlink-escape rules as the git primitive wrapper.
func (h Hunk) ValidatePath(repoRoot string) error {
	_, err := gitwrap.SafeJoin(repoRoot, h.File)
	return err
}

// Changes expands a KindText hunk into its constituent Change values, in
// hunk order. Each maximal run of consecutive removed lines followed by a
// maximal run of consecutive added lines forms one "change group"; lines
// within the two runs are paired position-for-position into replacements,
// with any length difference producing trailing pure removals or pure
// additions — the same grouping a unified diff hunk body naturally forms.
func (h Hunk) Changes() []Change {
	var changes []Change
	lines := h.Lines
	i := 0
	for i < len(lines) {
		if lines[i].Tag == LineContext {
			i++
			continue
		}
		groupStart := i
		removedRun, addedRun := splitRun(lines, i)
		i += len(removedRun) + len(addedRun)
		before := contextWindow(lines, groupStart)

		pairs := len(removedRun)
		if len(addedRun) > pairs {
			pairs = len(addedRun)
		}
		for p := 0; p < pairs; p++ {
			c := Change{File: h.File, ContextBefore: before}
			if p < len(removedRun) {
				c.HasRemoved = true
				c.Removed = removedRun[p].Text
			}
			if p < len(addedRun) {
				c.HasAdded = true
				c.Added = addedRun[p].Text
			}
			changes = append(changes, c)
		}
	}
	return changes
}

func splitRun(lines []Line, start int) (removed, added []Line) {
	i := start
	for i < len(lines) && lines[i].Tag == LineRemoved {
		removed = append(removed, lines[i])
		i++
	}
	for i < len(lines) && lines[i].Tag == LineAdded {
		added = append(added, lines[i])
		i++
	}
	return removed, added
}

func contextWindow(lines []Line, idx int) []string {
	var out []string
	for j := idx - 1; j >= 0 && len(out) < 3; j-- {
		if lines[j].Tag == LineContext {
			out = append([]string{lines[j].Text}, out...)
		} else {
			break
		}
	}
	return out
}

func (h Hunk) String() string {
	return fmt.Sprintf("%s@%d,%d->%d,%d(%s)", h.File, h.OldStart, h.OldCount, h.NewStart, h.NewCount, h.Kind)
}
