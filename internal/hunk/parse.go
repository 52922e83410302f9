package hunk

import (
	"regexp"
	"strings"
)

var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse parses an arbitrary unified diff (staged, unstaged, or a commit's
// diff against its parent) into Hunks, generalizing the teacher's
// ParseStagedHunks beyond `git diff --cached` output. Binary markers, mode
// lines, and /dev/null pre/post-image markers are recognized and tagged
// rather than fed to the line-diff scanner.
func Parse(diffText string) ([]Hunk, error) {
	if strings.TrimSpace(diffText) == "" {
		return nil, nil
	}

	var hunks []Hunk
	lines := strings.Split(diffText, "\n")

	var file string
	var header []string
	var pending *Hunk
	var sawOldModeOnly bool
	var oldLine, newLine int

	flushPending := func() {
		if pending != nil {
			hunks = append(hunks, *pending)
			pending = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushPending()
			if file != "" && sawOldModeOnly {
				hunks = append(hunks, Hunk{File: file, Kind: KindModeOnly, Header: strings.Join(header, "\n")})
			}
			file = extractFilePath(line)
			header = []string{line}
			sawOldModeOnly = false

		case strings.HasPrefix(line, "old mode ") || strings.HasPrefix(line, "new mode "):
			header = append(header, line)
			sawOldModeOnly = true

		case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
			flushPending()
			header = append(header, line)
			hunks = append(hunks, Hunk{File: file, Kind: KindBinary, Header: strings.Join(header, "\n")})
			sawOldModeOnly = false

		case strings.HasPrefix(line, "--- "):
			header = append(header, line)
			if strings.TrimSpace(line) == "--- /dev/null" {
				header = append(header, "__new_file__")
			}

		case strings.HasPrefix(line, "+++ "):
			header = append(header, line)
			if strings.TrimSpace(line) == "+++ /dev/null" {
				header = append(header, "__deleted_file__")
			}

		case strings.HasPrefix(line, "index "):
			header = append(header, line)

		default:
			if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
				flushPending()
				oldStart := parseIntOr(m[1], 0)
				oldCount := parseIntOr(m[2], 1)
				newStart := parseIntOr(m[3], 0)
				newCount := parseIntOr(m[4], 1)

				kind := KindText
				joined := strings.Join(header, "\n")
				switch {
				case strings.Contains(joined, "__new_file__"):
					kind = KindNewFile
				case strings.Contains(joined, "__deleted_file__"):
					kind = KindDeletedFile
				}

				pending = &Hunk{
					File:     file,
					Kind:     kind,
					OldStart: oldStart,
					OldCount: oldCount,
					NewStart: newStart,
					NewCount: newCount,
					Header:   joined,
				}
				oldLine, newLine = oldStart, newStart
			} else if pending != nil && len(line) > 0 && line[0] != '\\' {
				tag, text := classifyLine(line)
				l := Line{Tag: tag, Text: text}
				switch tag {
				case LineContext:
					l.OldLine, l.NewLine = oldLine, newLine
					oldLine++
					newLine++
				case LineRemoved:
					l.OldLine = oldLine
					oldLine++
				case LineAdded:
					l.NewLine = newLine
					newLine++
				}
				pending.Lines = append(pending.Lines, l)
			} else if pending != nil && line == "" && i < len(lines)-1 {
				// Trailing blank context line some diffs emit unprefixed;
				// treat as empty context.
				pending.Lines = append(pending.Lines, Line{Tag: LineContext, Text: "", OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			}
		}
		i++
	}
	flushPending()
	if file != "" && sawOldModeOnly {
		hunks = append(hunks, Hunk{File: file, Kind: KindModeOnly, Header: strings.Join(header, "\n")})
	}

	return hunks, nil
}

func classifyLine(line string) (LineTag, string) {
	switch line[0] {
	case '+':
		return LineAdded, line[1:]
	case '-':
		return LineRemoved, line[1:]
	case ' ':
		return LineContext, line[1:]
	case '\\':
		// "\ No newline at end of file" — not a content line.
		return LineContext, ""
	default:
		return LineContext, line
	}
}

func extractFilePath(diffGitLine string) string {
	parts := strings.Split(diffGitLine, " ")
	if len(parts) < 4 {
		return ""
	}
	bPath := parts[len(parts)-1]
	return strings.TrimPrefix(bPath, "b/")
}

func parseIntOr(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}
