package gitwrap

import (
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	taxonomy "autosquash.dev/autosquash/internal/errors"
)

// SafeJoin resolves rel against repoRoot, rejecting `..` traversal and
// symlinks that would escape repoRoot (the unsafe_path taxonomy entry).
// Grounded on github.com/cyphar/filepath-securejoin, a transitive
// dependency of the teacher's go-git stack that nothing else in this pack
// exercises directly.
func SafeJoin(repoRoot, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", taxonomy.NewUnsafePathError(rel, "absolute paths are not allowed in a diff entry")
	}
	resolved, err := securejoin.SecureJoin(repoRoot, rel)
	if err != nil {
		return "", taxonomy.NewUnsafePathError(rel, err.Error())
	}
	// SecureJoin resolves symlinks that exist on disk; for paths that don't
	// exist yet (new files), also reject textual traversal defensively.
	cleanRel := filepath.Clean(rel)
	if cleanRel == ".." || len(cleanRel) >= 3 && cleanRel[:3] == ".."+string(filepath.Separator) {
		return "", taxonomy.NewUnsafePathError(rel, "path escapes repository root")
	}
	return resolved, nil
}

// IsWithin reports whether path is repoRoot or a descendant of it,
// resolving symlinks along the way.
func IsWithin(repoRoot, path string) bool {
	realRoot, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		realRoot = repoRoot
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false
		}
		realPath = path
	}
	rel, err := filepath.Rel(realRoot, realPath)
	if err != nil {
		return false
	}
	return rel != ".." && !(len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator))
}
