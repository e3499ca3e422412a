package gitrepo

import (
	"testing"

	"foreman/pkg/model"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncConfig() model.SyncConfig {
	return model.SyncConfig{
		Organization:    "acme",
		WorkspacePrefix: "acme_",
		CoreRepo:        "platform",
		CoreWorkspace:   "acme_platform_core",
	}
}

func TestParse(t *testing.T) {
	auth := &http.BasicAuth{Username: "forebot", Password: "secret"}

	repo, err := Parse("client-python:development", syncConfig(), auth)
	require.NoError(t, err)

	assert.Equal(t, "client-python", repo.Name)
	assert.Equal(t, "development", repo.Branch)
	assert.Equal(t, "https://github.com/acme/client-python.git", repo.URL)
	assert.Equal(t, "acme_client_python", repo.Workspace)
	assert.Equal(t, auth, repo.Auth)
}

func TestParse_CoreRepoWorkspaceOverride(t *testing.T) {
	repo, err := Parse("platform:master", syncConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, "acme_platform_core", repo.Workspace)
}

func TestParse_BadCoordinates(t *testing.T) {
	tests := []string{
		"",
		"client-python",
		"client-python:",
		":development",
		"client:development:extra",
	}

	for _, coordinates := range tests {
		t.Run(coordinates, func(t *testing.T) {
			_, err := Parse(coordinates, syncConfig(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), `should be in "repo_name:branch_name" form`)
		})
	}
}

func TestWorkspaceName(t *testing.T) {
	cfg := syncConfig()

	assert.Equal(t, "acme_docs", WorkspaceName(cfg, "docs"))
	assert.Equal(t, "acme_client_python", WorkspaceName(cfg, "client-python"))
	assert.Equal(t, "acme_platform_core", WorkspaceName(cfg, "platform"))
}

func TestMarker(t *testing.T) {
	repo, err := Parse("client-python:development", syncConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t,
		"# sync-marker: do not remove this comment, this is used for sync-dependencies by @acme_client_python",
		repo.Marker())
}

func TestString(t *testing.T) {
	repo, err := Parse("docs:development", syncConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, "GitRepo<docs:development>", repo.String())
}
