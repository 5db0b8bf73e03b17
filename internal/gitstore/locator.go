package gitstore

import (
	"os"
	"path/filepath"
)

// Locate walks from start (and its parents, up to the filesystem root) and
// returns the first "<p>/.git" directory found. Mirrors the teacher's
// discoverGitRepos walk in spirit, but upward rather than downward, per
// spec §4.1.
func Locate(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotARepository{StartDir: start}
		}
		dir = parent
	}
}
