package git

import (
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// DetachedHead is reported as the branch name when HEAD is not on a branch.
const DetachedHead = "detached HEAD"

// ErrNoIdentity is returned when user.name or user.email is not configured.
var ErrNoIdentity = errors.New("git user.name and user.email must be configured")

func (c *Client) open() (*gogit.Repository, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// Branch returns the short name of the current branch, including an unborn
// one in a fresh repository, or DetachedHead.
func (c *Client) Branch() string {
	repo, err := c.open()
	if err != nil {
		return DetachedHead
	}

	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return DetachedHead
	}
	if ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
		return ref.Target().Short()
	}
	return DetachedHead
}

// Identity returns the committer name and email. GIT_COMMITTER_NAME and
// GIT_COMMITTER_EMAIL win over the merged system, global and local config.
func (c *Client) Identity() (name, email string, err error) {
	name = os.Getenv("GIT_COMMITTER_NAME")
	email = os.Getenv("GIT_COMMITTER_EMAIL")

	if name == "" || email == "" {
		repo, err := c.open()
		if err != nil {
			return "", "", fmt.Errorf("open repository: %w", err)
		}
		cfg, err := repo.ConfigScoped(gitconfig.SystemScope)
		if err != nil {
			return "", "", fmt.Errorf("read git config: %w", err)
		}
		if name == "" {
			name = cfg.User.Name
		}
		if email == "" {
			email = cfg.User.Email
		}
	}

	if name == "" || email == "" {
		return "", "", ErrNoIdentity
	}
	return name, email, nil
}

// SignoffLine returns the Signed-off-by trailer for the committer.
func (c *Client) SignoffLine() (string, error) {
	name, email, err := c.Identity()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Signed-off-by: %s <%s>", name, email), nil
}
