package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepo creates a repository with one committed file using the git binary.
func newRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "HOME="+dir)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init", "-q", "-b", "main")
	run("config", "user.name", "Ada Lovelace")
	run("config", "user.email", "ada@example.com")
	run("config", "commit.gpgsign", "false")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	run("add", "a.txt")
	run("commit", "-q", "-m", "Initial commit")
	return dir
}

func TestDiff(t *testing.T) {
	dir := newRepo(t)
	c := New(dir)
	ctx := context.Background()

	diff, err := c.Diff(ctx, DiffOptions{})
	require.NoError(t, err)
	assert.Empty(t, diff, "nothing is staged yet")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\n"), 0o644))

	diff, err = c.Diff(ctx, DiffOptions{})
	require.NoError(t, err)
	assert.Empty(t, diff, "unstaged changes are not part of a plain commit")

	diff, err = c.Diff(ctx, DiffOptions{IncludeUnstaged: true})
	require.NoError(t, err)
	assert.Contains(t, diff, "+two")

	_, err = c.Diff(ctx, DiffOptions{Amend: true})
	assert.Error(t, err, "the first commit has no parent")
}

func TestGitDirAndStatus(t *testing.T) {
	dir := newRepo(t)
	c := New(dir)
	ctx := context.Background()

	gitDir, err := c.GitDir(ctx)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(gitDir))
	assert.Equal(t, ".git", filepath.Base(gitDir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new\n"), 0o644))
	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Contains(t, status, "?? b.txt")
}

func TestCommitAndExitCode(t *testing.T) {
	dir := newRepo(t)
	var out bytes.Buffer
	c := &Client{Dir: dir, Stdout: &out, Stderr: &out}
	ctx := context.Background()

	err := c.Commit(ctx, "Nothing here", nil)
	require.Error(t, err, "nothing is staged")
	code, ok := ExitCode(err)
	assert.True(t, ok)
	assert.NotZero(t, code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed\n"), 0o644))
	require.NoError(t, c.Commit(ctx, "Change a\n\nBody line.", []string{"-a", "-q"}))

	log := exec.Command("git", "log", "-1", "--format=%B")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.Equal(t, "Change a\n\nBody line.", strings.TrimSpace(string(msg)))
}

func TestBranchAndIdentity(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Grace Hopper"
	cfg.User.Email = "grace@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	t.Setenv("GIT_COMMITTER_NAME", "")
	t.Setenv("GIT_COMMITTER_EMAIL", "")

	c := New(dir)
	assert.Equal(t, "master", c.Branch(), "unborn branch of a fresh repository")

	line, err := c.SignoffLine()
	require.NoError(t, err)
	assert.Equal(t, "Signed-off-by: Grace Hopper <grace@example.com>", line)

	t.Setenv("GIT_COMMITTER_NAME", "Override")
	name, email, err := c.Identity()
	require.NoError(t, err)
	assert.Equal(t, "Override", name)
	assert.Equal(t, "grace@example.com", email)
}

func TestBranchOutsideRepository(t *testing.T) {
	assert.Equal(t, DetachedHead, New(t.TempDir()).Branch())
}

func TestCommandError(t *testing.T) {
	err := &CommandError{Args: []string{"diff", "--cached"}, Stderr: "fatal: not a git repository\n", Err: assert.AnError}
	assert.Equal(t, "git diff --cached failed: "+assert.AnError.Error()+": fatal: not a git repository", err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
