package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func gitLog(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"log", "-1"}, args...)...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")

	sub := filepath.Join(dir, "reports")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.True(t, IsRepo(sub), "subdirectory of a repo")
}

func TestCommitPaths_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello"), 0o644))

	hash, err := CommitPaths(dir, []string{"."}, "init: test commit", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "--format=%s"), "init: test commit")
	assert.Contains(t, gitLog(t, dir, "--format=%an <%ae>"), "Test Author <test@example.com>")
}

func TestCommitPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.csv"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("b"), 0o644))

	hash, err := CommitPaths(dir, []string{filepath.Join(dir, "keep.csv")}, "reports: 2023", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	files := gitLog(t, dir, "--name-only", "--format=")
	assert.Equal(t, "keep.csv", strings.TrimSpace(files))
}

func TestCommitPaths_Empty(t *testing.T) {
	_, err := CommitPaths(t.TempDir(), nil, "nothing", testAuthor)
	require.Error(t, err)
}

func TestCommit_NothingStaged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := CommitPaths(dir, []string{"."}, "empty", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err = CommitPaths(dir, []string{"."}, "first", testAuthor)
	require.NoError(t, err)

	_, err = CommitPaths(dir, []string{"a.txt"}, "again", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)
}
