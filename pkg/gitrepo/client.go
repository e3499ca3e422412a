package gitrepo

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// ErrNothingToCommit indicates the worktree was already clean when a commit
// was requested, i.e. the user repo already carries the desired pin.
var ErrNothingToCommit = errors.New("nothing to commit, working tree clean")

// Client performs remote git operations with a fixed commit author.
type Client struct {
	authorName  string
	authorEmail string
}

// NewClient creates a Client committing as the given author.
func NewClient(authorName, authorEmail string) *Client {
	return &Client{authorName: authorName, authorEmail: authorEmail}
}

// LastCommit returns the hash of the latest commit on the repo's branch,
// resolved against the remote without cloning.
func (c *Client) LastCommit(r Repo) (string, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{r.URL},
	})

	refs, err := remote.List(&git.ListOptions{Auth: r.Auth})
	if err != nil {
		return "", fmt.Errorf("listing refs of %s: %w", r.URL, err)
	}

	want := plumbing.NewBranchReferenceName(r.Branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return ref.Hash().String(), nil
		}
	}
	return "", fmt.Errorf("branch %s not found on %s", r.Branch, r.URL)
}

// Clone checks out the repo's branch into dir.
func (c *Client) Clone(r Repo, dir string) error {
	_, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:           r.URL,
		ReferenceName: plumbing.NewBranchReferenceName(r.Branch),
		SingleBranch:  true,
		Auth:          r.Auth,
	})
	if err != nil {
		return fmt.Errorf("cloning %s: %w", r.URL, err)
	}
	return nil
}

// CommitAndPush stages path inside the clone at dir, commits it with the
// client's author identity, and pushes the branch. Returns
// ErrNothingToCommit when the worktree was already clean.
func (c *Client) CommitAndPush(r Repo, dir, path, message string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("opening clone of %s: %w", r.Name, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree of %s: %w", r.Name, err)
	}

	if _, err := worktree.Add(path); err != nil {
		return fmt.Errorf("staging %s in %s: %w", path, r.Name, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("status of %s: %w", r.Name, err)
	}
	if status.IsClean() {
		return ErrNothingToCommit
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.authorName,
			Email: c.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing to %s: %w", r.Name, err)
	}

	err = repo.Push(&git.PushOptions{
		RemoteName: "origin",
		Auth:       r.Auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing %s (%s branch): %w", r.Name, r.Branch, err)
	}
	return nil
}
