package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when staging leaves the index unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who commits generated files.
type Author struct {
	Name  string
	Email string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if _, err := run(dir, nil, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// CommitPaths stages only paths (absolute or relative to dir) and commits
// them. Returns the short commit hash.
func CommitPaths(dir string, paths []string, message string, author Author) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("git commit: no paths to stage")
	}
	rel := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			r, err := filepath.Rel(dir, p)
			if err != nil {
				return "", fmt.Errorf("staging %s: %w", p, err)
			}
			p = r
		}
		rel[i] = p
	}

	env := []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
	}

	if _, err := run(dir, env, append([]string{"add", "--"}, rel...)...); err != nil {
		return "", err
	}
	if _, err := run(dir, env, "diff", "--cached", "--quiet"); err == nil {
		return "", ErrNothingToCommit
	}
	if _, err := run(dir, env, "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}
	out, err := run(dir, env, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := run(dir, nil, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

func run(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
