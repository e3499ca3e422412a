// Package depsync updates the commit pins of inter-repository bazel
// dependencies: it resolves the latest commit of a dependency repo and
// rewrites the sync-marker line in each user repo's WORKSPACE file.
package depsync

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"foreman/pkg/gitrepo"
	"foreman/pkg/log"
	"foreman/pkg/system"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
)

const workspaceFile = "WORKSPACE"

// GitClient is the set of remote git operations sync needs. Implemented by
// gitrepo.Client; mocked in tests.
type GitClient interface {
	LastCommit(r gitrepo.Repo) (string, error)
	Clone(r gitrepo.Repo, dir string) error
	CommitAndPush(r gitrepo.Repo, dir, path, message string) error
}

// Syncer makes a set of user repositories depend on the latest commit of a
// dependency repository. User repos are processed sequentially; the first
// failure aborts the rest.
type Syncer struct {
	Client GitClient
	Logger log.Logger
	// DryRun prints the WORKSPACE diff instead of committing and pushing.
	DryRun bool
	// Out receives dry-run output. Defaults to discarding it.
	Out io.Writer
}

// Sync resolves the dependency head and updates every user repo's pin.
func (s *Syncer) Sync(dependency gitrepo.Repo, users []gitrepo.Repo) error {
	head, err := s.Client.LastCommit(dependency)
	if err != nil {
		return err
	}
	s.logger().Info("resolved dependency head",
		"dependency", dependency.Workspace,
		"branch", dependency.Branch,
		"commit", head)

	for _, user := range users {
		if err := s.syncUser(user, dependency, head); err != nil {
			return fmt.Errorf("updating @%s: %w", user.Workspace, err)
		}
	}
	return nil
}

func (s *Syncer) syncUser(user, dependency gitrepo.Repo, head string) error {
	dir, err := afero.TempDir(system.AppFs, "", "foreman-sync-"+user.Name+"-")
	if err != nil {
		return fmt.Errorf("creating clone dir: %w", err)
	}
	defer func() { _ = system.AppFs.RemoveAll(dir) }()

	if err := s.Client.Clone(user, dir); err != nil {
		return err
	}
	s.logger().Debug("cloned user repo", "user", user.Name, "dir", dir)

	workspacePath := filepath.Join(dir, workspaceFile)
	original, err := afero.ReadFile(system.AppFs, workspacePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", workspaceFile, err)
	}

	updated, found, err := ReplaceMarker(string(original), dependency.Marker(), head)
	if err != nil {
		return err
	}
	if !found {
		s.logger().Warn("no dependency marker to replace",
			"user", user.Workspace,
			"dependency", dependency.Workspace)
		return nil
	}
	if updated == string(original) {
		s.logger().Info("already depends on latest commit",
			"user", user.Workspace,
			"dependency", dependency.Workspace,
			"commit", head)
		return nil
	}

	if s.DryRun {
		s.printDiff(user, string(original), updated)
		return nil
	}

	if err := afero.WriteFile(system.AppFs, workspacePath, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", workspaceFile, err)
	}

	message := fmt.Sprintf("update @%s dependency to latest %s", dependency.Workspace, dependency.Branch)
	s.logger().Info("pushing dependency update", "user", user.Name, "branch", user.Branch)
	err = s.Client.CommitAndPush(user, dir, workspaceFile, message)
	if errors.Is(err, gitrepo.ErrNothingToCommit) {
		s.logger().Info("already depends on latest commit",
			"user", user.Workspace,
			"dependency", dependency.Workspace)
		return nil
	}
	if err != nil {
		return err
	}
	s.logger().Info("pushed dependency update", "user", user.Name, "branch", user.Branch)
	return nil
}

func (s *Syncer) printDiff(user gitrepo.Repo, before, after string) {
	out := s.Out
	if out == nil {
		out = io.Discard
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	fmt.Fprintf(out, "=> %s would be updated:\n", user.Workspace)
	fmt.Fprintln(out, "--- diff ---")
	fmt.Fprintln(out, dmp.DiffPrettyText(diffs))
	fmt.Fprintln(out, "--- end diff ---")
}

func (s *Syncer) logger() log.Logger {
	if s.Logger == nil {
		return log.NopLogger{}
	}
	return s.Logger
}
