package config

import (
	"testing"

	"foreman/pkg/model"
	"foreman/pkg/system"
	"foreman/pkg/test"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidPipeline(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()
	test.CreateTestFile(t, system.AppFs, "/pipeline.yaml", `
credential:
  env: ACME_CREDENTIAL
  path: /creds/credential.json
commands:
  - name: test
    run: bazel test //...
  - name: build
    run: bazel build //...
`)

	cfg, err := Load("/pipeline.yaml")
	require.NoError(t, err)

	assert.Equal(t, "ACME_CREDENTIAL", cfg.Credential.Env)
	assert.Equal(t, "/creds/credential.json", cfg.Credential.Path)
	// Defaults fill what the file leaves out.
	assert.Equal(t, model.DefaultRemoteExecFlag, cfg.Credential.RemoteExecFlag)

	// Commands come back sorted by name.
	require.Len(t, cfg.Commands, 2)
	assert.Equal(t, "build", cfg.Commands[0].Name)
	assert.Equal(t, "test", cfg.Commands[1].Name)
}

func TestLoad_SyncSection(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()
	test.CreateTestFile(t, system.AppFs, "/pipeline.yaml", `
commands:
  - name: build
    run: bazel build //...
sync:
  organization: acme
  core-repo: platform
  git-user: Forebot
  git-email: forebot@acme.dev
`)

	cfg, err := Load("/pipeline.yaml")
	require.NoError(t, err)

	require.True(t, cfg.Sync.Configured())
	assert.Equal(t, "acme_", cfg.Sync.WorkspacePrefix)
	assert.Equal(t, "acme_platform_core", cfg.Sync.CoreWorkspace)
	assert.Equal(t, "forebot", cfg.Sync.BotUser)
}

func TestLoad_MissingFile(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()

	_, err := Load("/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading pipeline file /nope.yaml")
}

func TestLoad_InvalidYAML(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()
	test.CreateTestFile(t, system.AppFs, "/pipeline.yaml", "commands: [unclosed")

	_, err := Load("/pipeline.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing pipeline file /pipeline.yaml")
}

func TestLoad_ValidationErrors(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()
	test.CreateTestFile(t, system.AppFs, "/pipeline.yaml", `
commands:
  - name: build
    run: ""
  - name: build
    run: bazel build //...
`)

	_, err := Load("/pipeline.yaml")
	require.Error(t, err)

	errs, ok := err.(model.ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	assert.Len(t, errs, 2)
	assert.Contains(t, err.Error(), "duplicate command name 'build'")
}
