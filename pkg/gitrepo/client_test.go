package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initFixtureRepo creates a real repository on disk with one committed
// WORKSPACE file.
func initFixtureRepo(t *testing.T, content string) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "WORKSPACE"), []byte(content), 0644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("WORKSPACE")
	require.NoError(t, err)
	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Forebot", Email: "forebot@acme.dev", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, repo
}

func TestCommitAndPush_CleanTree(t *testing.T) {
	dir, _ := initFixtureRepo(t, "workspace(name = \"acme_docs\")\n")

	client := NewClient("Forebot", "forebot@acme.dev")
	err := client.CommitAndPush(Repo{Name: "docs", Branch: "development"}, dir, "WORKSPACE",
		"update @acme_client_python dependency to latest development")

	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommitAndPush_CommitsWithConfiguredAuthor(t *testing.T) {
	dir, repo := initFixtureRepo(t, "workspace(name = \"acme_docs\")\n")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "WORKSPACE"),
		[]byte("workspace(name = \"acme_docs\")\n# updated\n"), 0644))

	client := NewClient("Forebot", "forebot@acme.dev")
	err := client.CommitAndPush(Repo{Name: "docs", Branch: "development"}, dir, "WORKSPACE",
		"update @acme_client_python dependency to latest development")

	// The fixture has no origin remote, so the push itself fails, but only
	// after the commit was created.
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "update @acme_client_python dependency to latest development", commit.Message)
	assert.Equal(t, "Forebot", commit.Author.Name)
	assert.Equal(t, "forebot@acme.dev", commit.Author.Email)
}

func TestCommitAndPush_NotARepository(t *testing.T) {
	client := NewClient("Forebot", "forebot@acme.dev")
	err := client.CommitAndPush(Repo{Name: "docs"}, t.TempDir(), "WORKSPACE", "msg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening clone of docs")
}
