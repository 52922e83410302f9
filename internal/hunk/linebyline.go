package hunk

// SplitLineByLine re-slices a KindText hunk with multiple changes into one
// hunk per change, each carrying the minimum context required to uniquely
// place it: up to 3 lines of unchanged context on either side, trimmed to
// the hunk's own boundaries. Grounded on the one-change-at-a-time unit the
// teacher's internal/actions/split/split_hunk.go works with interactively
// (there via `git add -p`), generalized here into a pure re-slicing
// function so it composes with non-interactive resolution.
//
// Non-text hunks (binary, mode-only, new-file, deleted-file) pass through
// unchanged: line-by-line mode only concerns hunks with an addressable body.
func SplitLineByLine(h Hunk) []Hunk {
	if h.Kind != KindText {
		return []Hunk{h}
	}

	var out []Hunk
	lines := h.Lines
	i := 0
	for i < len(lines) {
		if lines[i].Tag == LineContext {
			i++
			continue
		}
		groupStart := i
		removedRun, addedRun := splitRun(lines, i)
		groupEnd := i + len(removedRun) + len(addedRun)

		pairs := len(removedRun)
		if len(addedRun) > pairs {
			pairs = len(addedRun)
		}
		for p := 0; p < pairs; p++ {
			var body []Line
			if p < len(removedRun) {
				body = append(body, removedRun[p])
			}
			if p < len(addedRun) {
				body = append(body, addedRun[p])
			}
			before := contextLines(lines, groupStart, -1, 3)
			after := contextLines(lines, groupEnd-1, 1, 3)

			sub := Hunk{
				File:   h.File,
				Kind:   KindText,
				Header: h.Header,
			}
			sub.Lines = append(sub.Lines, before...)
			sub.Lines = append(sub.Lines, body...)
			sub.Lines = append(sub.Lines, after...)
			sub.OldStart, sub.OldCount = boundsOld(sub.Lines)
			sub.NewStart, sub.NewCount = boundsNew(sub.Lines)
			out = append(out, sub)
		}
		i = groupEnd
	}
	if len(out) == 0 {
		return []Hunk{h}
	}
	return out
}

// contextLines collects up to n unchanged lines starting at idx, moving in
// dir (-1 backwards, +1 forwards), returned in source order.
func contextLines(lines []Line, idx, dir, n int) []Line {
	var collected []Line
	for len(collected) < n {
		idx += dir
		if idx < 0 || idx >= len(lines) {
			break
		}
		if lines[idx].Tag != LineContext {
			break
		}
		collected = append(collected, lines[idx])
	}
	if dir < 0 {
		for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
			collected[i], collected[j] = collected[j], collected[i]
		}
	}
	return collected
}

func boundsOld(lines []Line) (start, count int) {
	for _, l := range lines {
		if l.Tag == LineContext || l.Tag == LineRemoved {
			if start == 0 || l.OldLine < start {
				start = l.OldLine
			}
			count++
		}
	}
	return start, count
}

func boundsNew(lines []Line) (start, count int) {
	for _, l := range lines {
		if l.Tag == LineContext || l.Tag == LineAdded {
			if start == 0 || l.NewLine < start {
				start = l.NewLine
			}
			count++
		}
	}
	return start, count
}
