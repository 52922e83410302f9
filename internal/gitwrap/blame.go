package gitwrap

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// BlameLine associates a 1-based line number in the blamed range with the
// commit that last touched it, the unit the Blame Analysis Engine ranks.
type BlameLine struct {
	Line      int
	CommitSHA string
}

// BlameRequest is one (path, line range, revision) blame lookup.
type BlameRequest struct {
	Path      string
	StartLine int
	EndLine   int
	AtRev     string
}

// Blame runs `git blame --porcelain -L start,end <atRev> -- <path>` and
// returns one BlameLine per line in range. Parsing technique grounded on
// other_examples/0442f68b_JensRoland-blamebot__internal-git-blame.go and
// other_examples/32c31f84_rybkr-gitvista__internal-gitcore-blame.go: the
// porcelain format repeats a full 40-char hash at the start of each line's
// header group, which is the only field this engine needs.
func (r *Repo) Blame(ctx context.Context, req BlameRequest) ([]BlameLine, error) {
	if req.StartLine < 1 || req.EndLine < req.StartLine {
		return nil, nil
	}
	args := []string{
		"blame", "--porcelain",
		"-L", fmt.Sprintf("%d,%d", req.StartLine, req.EndLine),
	}
	if req.AtRev != "" {
		args = append(args, req.AtRev)
	}
	args = append(args, "--", req.Path)

	res, err := r.Runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		// A file that didn't exist at AtRev, or a line range beyond EOF,
		// surfaces here as a plain non-zero exit; callers treat this as an
		// empty blame result and hand off to the fallback provider.
		return nil, nil
	}
	return parsePorcelainBlame(res.Stdout, req.StartLine), nil
}

func parsePorcelainBlame(output string, startLine int) []BlameLine {
	var lines []BlameLine
	scanner := bufio.NewScanner(strings.NewReader(output))
	current := startLine
	for scanner.Scan() {
		line := scanner.Text()
		// A header line begins with a 40-char hex hash followed by two or
		// three space-separated integers: "<sha> <orig-line> <final-line> [<count>]".
		if len(line) >= 40 && isHex(line[:40]) {
			fields := strings.Fields(line)
			if len(fields) >= 1 {
				lines = append(lines, BlameLine{Line: current, CommitSHA: fields[0]})
				current++
			}
		}
	}
	return lines
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// BatchBlame blames every request and returns results (and errors) in
// slices parallel to reqs. Requests are grouped by (path, revision): a group
// with one request runs a plain Blame, and a group with several runs one
// `git blame` process with a repeated -L flag per range, so a file with many
// hunks costs one subprocess per revision rather than one per hunk.
// Grounded on the teacher's BatchGetRevisions shape in
// internal/git/runner.go (map/slice of results + parallel error slice).
func (r *Repo) BatchBlame(ctx context.Context, reqs []BlameRequest) ([][]BlameLine, []error) {
	results := make([][]BlameLine, len(reqs))
	errs := make([]error, len(reqs))

	byFileRev := map[string][]int{}
	for i, req := range reqs {
		key := req.Path + "@" + req.AtRev
		byFileRev[key] = append(byFileRev[key], i)
	}

	for _, idxs := range byFileRev {
		if len(idxs) == 1 {
			i := idxs[0]
			results[i], errs[i] = r.Blame(ctx, reqs[i])
			continue
		}
		// Multiple ranges in the same file+revision: one `git blame -L`
		// invocation accepts repeated -L flags, so issue them together.
		first := reqs[idxs[0]]
		args := []string{"blame", "--porcelain"}
		for _, i := range idxs {
			args = append(args, "-L", fmt.Sprintf("%d,%d", reqs[i].StartLine, reqs[i].EndLine))
		}
		if first.AtRev != "" {
			args = append(args, first.AtRev)
		}
		args = append(args, "--", first.Path)

		res, err := r.Runner.Run(ctx, args...)
		if err != nil || !res.OK() {
			for _, i := range idxs {
				results[i], errs[i] = nil, nil
			}
			continue
		}
		// git reports the -L ranges in ascending line order (overlapping
		// ranges merged); the split below takes the requests in group order
		// and cuts the parsed lines at each request's length.
		offset := 0
		for _, i := range idxs {
			req := reqs[i]
			want := req.EndLine - req.StartLine + 1
			parsed := parsePorcelainBlame(res.Stdout, req.StartLine-offset)
			if offset+want <= len(parsed) {
				results[i] = parsed[offset : offset+want]
			} else {
				results[i] = parsed
			}
			offset += want
		}
	}
	return results, errs
}

// CommitMetadata is cached commit reference data, minus scope flags which
// depend on the caller's BranchScope.
type CommitMetadata struct {
	SHA        string
	ShortSHA   string
	Subject    string
	AuthorTime string
}

// BatchCommitMetadata loads metadata for many commits with a single
// `git show` invocation (`--format` with fields separated by \x1f and each
// commit's record terminated by \x1e),
// avoiding one subprocess per commit the way the teacher's
// BatchGetRevisions avoids one `rev-parse` per branch.
func (r *Repo) BatchCommitMetadata(ctx context.Context, shas []string) (map[string]CommitMetadata, error) {
	if len(shas) == 0 {
		return map[string]CommitMetadata{}, nil
	}
	const sep = "\x1f"
	const rec = "\x1e"
	args := []string{"show", "-s", fmt.Sprintf("--format=%%H%s%%h%s%%s%s%%at%s", sep, sep, sep, rec)}
	args = append(args, shas...)

	res, err := r.Runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	out := map[string]CommitMetadata{}
	for _, rawRec := range strings.Split(res.Stdout, rec) {
		rawRec = strings.TrimSpace(rawRec)
		if rawRec == "" {
			continue
		}
		fields := strings.Split(rawRec, sep)
		if len(fields) < 4 {
			continue
		}
		out[fields[0]] = CommitMetadata{
			SHA:        fields[0],
			ShortSHA:   fields[1],
			Subject:    fields[2],
			AuthorTime: fields[3],
		}
	}
	return out, nil
}

// AuthorTimeUnix parses the %at field from BatchCommitMetadata into a Unix
// timestamp, used by the Blame Analysis Engine's most-recent-wins tie-break.
func AuthorTimeUnix(meta CommitMetadata) int64 {
	n, _ := strconv.ParseInt(meta.AuthorTime, 10, 64)
	return n
}
