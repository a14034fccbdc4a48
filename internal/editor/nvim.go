package editor

import (
	"context"
	"fmt"

	"github.com/neovim/go-client/nvim"
)

const doneMethod = "qcommit_done"

// RemoteAddress returns the address of the Neovim instance whose terminal
// we run in, or "" outside of Neovim.
func RemoteAddress(getenv func(string) string) string {
	if addr := getenv("NVIM"); addr != "" {
		return addr
	}
	return getenv("NVIM_LISTEN_ADDRESS")
}

// Remote opens the file in a new tab of a running Neovim and waits until
// the buffer leaves its window, which happens on :wq, :q or :tabclose.
type Remote struct {
	Addr string
}

func (r *Remote) Name() string {
	return "nvim " + r.Addr
}

func (r *Remote) Edit(ctx context.Context, path string) error {
	v, err := nvim.Dial(r.Addr)
	if err != nil {
		return fmt.Errorf("failed to connect to nvim at %s: %w", r.Addr, err)
	}
	defer v.Close()

	done := make(chan struct{}, 1)
	err = v.RegisterHandler(doneMethod, func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("register nvim handler: %w", err)
	}

	var escaped string
	if err := v.Call("fnameescape", &escaped, path); err != nil {
		return fmt.Errorf("nvim: %w", err)
	}

	b := v.NewBatch()
	b.Command("tabedit " + escaped)
	b.Command("setlocal filetype=gitcommit bufhidden=wipe noswapfile")
	b.Command(fmt.Sprintf("autocmd BufWinLeave <buffer> ++once call rpcnotify(%d, '%s')", v.ChannelID(), doneMethod))
	if err := b.Execute(); err != nil {
		return fmt.Errorf("open %s in nvim: %w", path, err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
