// Package gitrepo models the repositories involved in dependency sync and
// performs the git operations against them.
package gitrepo

import (
	"fmt"
	"strings"

	"foreman/pkg/model"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// syncMarkerTemplate is the comment that pins a dependency in a WORKSPACE
// file. The 40-hex commit hash on the same line is what sync rewrites.
const syncMarkerTemplate = "# sync-marker: do not remove this comment, this is used for sync-dependencies by @%s"

// Repo is a repository taking part in a sync, either as the dependency or
// as one of its users.
type Repo struct {
	Name   string
	Branch string
	// URL is the remote used for all operations. Parse derives it from the
	// organization; tests point it at local fixtures.
	URL string
	// Workspace is the bazel workspace name this repo is known by in
	// WORKSPACE files of its users.
	Workspace string
	// Auth authenticates remote operations; nil means anonymous.
	Auth transport.AuthMethod
}

// Parse builds a Repo from "repo:branch" coordinates.
func Parse(coordinates string, cfg model.SyncConfig, auth transport.AuthMethod) (Repo, error) {
	parts := strings.Split(coordinates, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf(`git coordinates %q should be in "repo_name:branch_name" form`, coordinates)
	}
	name, branch := parts[0], parts[1]
	return Repo{
		Name:      name,
		Branch:    branch,
		URL:       fmt.Sprintf("https://github.com/%s/%s.git", cfg.Organization, name),
		Workspace: WorkspaceName(cfg, name),
		Auth:      auth,
	}, nil
}

// WorkspaceName derives the bazel workspace name for a repository. The core
// repository carries an explicit name; everyone else gets the prefix with
// hyphens mapped to underscores.
func WorkspaceName(cfg model.SyncConfig, repoName string) string {
	if cfg.CoreRepo != "" && repoName == cfg.CoreRepo {
		return cfg.CoreWorkspace
	}
	return cfg.WorkspacePrefix + strings.ReplaceAll(repoName, "-", "_")
}

// Marker returns the sync-marker comment that user repos carry for this
// repository.
func (r Repo) Marker() string {
	return fmt.Sprintf(syncMarkerTemplate, r.Workspace)
}

func (r Repo) String() string {
	return fmt.Sprintf("GitRepo<%s:%s>", r.Name, r.Branch)
}
