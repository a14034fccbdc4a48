package editor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/neovim/go-client/nvim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		vars       map[string]string
		configured string
		want       string
	}{
		{
			name:       "GIT_EDITOR wins",
			vars:       map[string]string{"GIT_EDITOR": "nano", "VISUAL": "code --wait", "EDITOR": "vim"},
			configured: "hx",
			want:       "nano",
		},
		{
			name:       "configured over VISUAL",
			vars:       map[string]string{"VISUAL": "code --wait", "EDITOR": "vim"},
			configured: "hx",
			want:       "hx",
		},
		{
			name: "VISUAL over EDITOR",
			vars: map[string]string{"VISUAL": "code --wait", "EDITOR": "vim"},
			want: "code --wait",
		},
		{
			name: "EDITOR",
			vars: map[string]string{"EDITOR": "vim"},
			want: "vim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(env(tt.vars), tt.configured))
		})
	}

	t.Run("fallback", func(t *testing.T) {
		want := "vi"
		if runtime.GOOS == "windows" {
			want = "notepad"
		}
		assert.Equal(t, want, Resolve(env(nil), ""))
	})
}

func TestSelect(t *testing.T) {
	vars := map[string]string{"NVIM": "/tmp/nvim.sock", "EDITOR": "vim"}

	e, err := Select(env(vars), "", true)
	require.NoError(t, err)
	assert.Equal(t, &Remote{Addr: "/tmp/nvim.sock"}, e)

	e, err = Select(env(vars), "", false)
	require.NoError(t, err)
	assert.Equal(t, "vim", e.Name())

	e, err = Select(env(map[string]string{"NVIM_LISTEN_ADDRESS": "127.0.0.1:6666"}), "", true)
	require.NoError(t, err)
	assert.Equal(t, &Remote{Addr: "127.0.0.1:6666"}, e)

	e, err = Select(env(map[string]string{"EDITOR": "vim"}), "", true)
	require.NoError(t, err)
	assert.Equal(t, "vim", e.Name(), "no nvim server in the environment")

	_, err = Select(env(map[string]string{"GIT_EDITOR": `vim "`}), "", false)
	assert.Error(t, err)
}

func TestCommandEdit(t *testing.T) {
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skip("cp not available")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "edited")
	dst := filepath.Join(dir, "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(src, []byte("Edited subject\n"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("Generated subject\n"), 0o644))

	// The path is appended, so "cp src" overwrites the message file.
	e, err := NewCommand("cp '" + src + "'")
	require.NoError(t, err)
	require.NoError(t, e.Edit(context.Background(), dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "Edited subject\n", string(got))
}

func TestCommandEditFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	e, err := NewCommand("false")
	require.NoError(t, err)
	err = e.Edit(context.Background(), filepath.Join(t.TempDir(), "msg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor false failed")
}

func TestRemoteDialFailure(t *testing.T) {
	r := &Remote{Addr: filepath.Join(t.TempDir(), "missing.sock")}
	err := r.Edit(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to nvim")
}

func TestRemoteEdit(t *testing.T) {
	if _, err := exec.LookPath("nvim"); err != nil {
		t.Skip("nvim not available")
	}
	dir := t.TempDir()
	sock := filepath.Join(dir, "nvim.sock")
	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", sock)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	var peer *nvim.Nvim
	require.Eventually(t, func() bool {
		v, err := nvim.Dial(sock)
		if err != nil {
			return false
		}
		peer = v
		return true
	}, 5*time.Second, 50*time.Millisecond)
	defer peer.Close()

	path := filepath.Join(dir, "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte("Subject\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- (&Remote{Addr: sock}).Edit(ctx, path) }()

	require.Eventually(t, func() bool {
		var tabs int
		return peer.Eval("tabpagenr('$')", &tabs) == nil && tabs == 2
	}, 5*time.Second, 50*time.Millisecond)

	var ft string
	require.NoError(t, peer.Eval("&filetype", &ft))
	assert.Equal(t, "gitcommit", ft)

	require.NoError(t, peer.Command("tabclose"))
	assert.NoError(t, <-errc)
}

func TestRemoteEditCancelled(t *testing.T) {
	if _, err := exec.LookPath("nvim"); err != nil {
		t.Skip("nvim not available")
	}
	dir := t.TempDir()
	sock := filepath.Join(dir, "nvim.sock")
	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", sock)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	require.Eventually(t, func() bool {
		_, err := os.Stat(sock)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err := (&Remote{Addr: sock}).Edit(ctx, filepath.Join(dir, "msg"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
