package model

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultCredentialEnv  = "FOREMAN_CREDENTIAL"
	DefaultCredentialPath = "~/.config/foreman/credential.json"
	DefaultRemoteExecFlag = "--config=rbe"
	DefaultUpstreamEnv    = "CI_REPOSITORY_URL"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("pipeline validation failed:\n")
	for _, e := range es {
		sb.WriteString(fmt.Sprintf("  - %s\n", e.Error()))
	}
	return sb.String()
}

// Pipeline is the declarative description of the CI helper: the credential
// contract, the named build commands, and the dependency sync settings.
type Pipeline struct {
	Credential CredentialConfig `yaml:"credential"`
	Commands   []CommandSpec    `yaml:"commands"`
	Sync       SyncConfig       `yaml:"sync,omitempty"`
}

// CredentialConfig describes where the remote-execution credential comes
// from and what its presence changes.
type CredentialConfig struct {
	// Env is the environment variable carrying the credential payload.
	Env string `yaml:"env,omitempty"`
	// Path is the marker file location. Existence of this file at dispatch
	// time is the sole signal that remote execution is available.
	Path string `yaml:"path,omitempty"`
	// RemoteExecFlag is appended to dispatched commands when the marker
	// file exists.
	RemoteExecFlag string `yaml:"remote-exec-flag,omitempty"`
}

// CommandSpec is a named base command, e.g. name "build" running
// "bazel build //...".
type CommandSpec struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}

// SyncConfig describes the organization layout for cross-repository
// dependency pinning.
type SyncConfig struct {
	// Organization is the GitHub organization owning the synced repos. Its
	// presence in the upstream-env URL gates sync; forks are skipped.
	Organization string `yaml:"organization"`
	// WorkspacePrefix prefixes bazel workspace names derived from repo
	// names. Defaults to "<organization>_".
	WorkspacePrefix string `yaml:"workspace-prefix,omitempty"`
	// CoreRepo names the repository whose workspace name does not follow
	// the prefix rule; CoreWorkspace holds its explicit name.
	CoreRepo      string `yaml:"core-repo,omitempty"`
	CoreWorkspace string `yaml:"core-workspace,omitempty"`
	// GitUser and GitEmail form the commit author identity for sync
	// commits. BotUser is the username paired with the credential for
	// authenticated pushes; defaults to the lowercased GitUser.
	GitUser  string `yaml:"git-user"`
	GitEmail string `yaml:"git-email"`
	BotUser  string `yaml:"bot-user,omitempty"`
	// UpstreamEnv is the environment variable holding the repository URL of
	// the current CI build, used for the upstream gate.
	UpstreamEnv string `yaml:"upstream-env,omitempty"`
}

// Configured reports whether the sync section is present at all.
func (s SyncConfig) Configured() bool {
	return s.Organization != ""
}

// FindCommand looks up a named command.
func (p *Pipeline) FindCommand(name string) (CommandSpec, bool) {
	for _, c := range p.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}

// CommandNames returns the names of all configured commands, sorted.
func (p *Pipeline) CommandNames() []string {
	names := make([]string, 0, len(p.Commands))
	for _, c := range p.Commands {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// ApplyDefaults fills unset fields with their defaults. Called after
// unmarshalling and before validation.
func (p *Pipeline) ApplyDefaults() {
	if p.Credential.Env == "" {
		p.Credential.Env = DefaultCredentialEnv
	}
	if p.Credential.Path == "" {
		p.Credential.Path = DefaultCredentialPath
	}
	if p.Credential.RemoteExecFlag == "" {
		p.Credential.RemoteExecFlag = DefaultRemoteExecFlag
	}
	if !p.Sync.Configured() {
		return
	}
	if p.Sync.WorkspacePrefix == "" {
		p.Sync.WorkspacePrefix = p.Sync.Organization + "_"
	}
	if p.Sync.CoreRepo != "" && p.Sync.CoreWorkspace == "" {
		p.Sync.CoreWorkspace = p.Sync.WorkspacePrefix + strings.ReplaceAll(p.Sync.CoreRepo, "-", "_") + "_core"
	}
	if p.Sync.BotUser == "" {
		p.Sync.BotUser = strings.ToLower(p.Sync.GitUser)
	}
	if p.Sync.UpstreamEnv == "" {
		p.Sync.UpstreamEnv = DefaultUpstreamEnv
	}
}

func (p *Pipeline) Sort() {
	sort.Slice(p.Commands, func(i, j int) bool {
		return p.Commands[i].Name < p.Commands[j].Name
	})
}

func (p *Pipeline) Validate() ValidationErrors {
	var errs ValidationErrors

	seen := make(map[string]bool)
	for i, c := range p.Commands {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("commands[%d].name", i), Message: "command name cannot be empty"})
		}
		if !isValidCommandName(c.Name) {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("commands[%d].name", i), Message: "command name contains invalid characters (only alphanumeric, hyphens, and underscores allowed)"})
		}
		if seen[c.Name] {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("commands[%d].name", i), Message: fmt.Sprintf("duplicate command name '%s'", c.Name)})
		}
		seen[c.Name] = true
		if strings.TrimSpace(c.Run) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("commands[%d].run", i), Message: "command line cannot be empty"})
		}
	}

	if strings.TrimSpace(p.Credential.Path) == "" {
		errs = append(errs, ValidationError{Field: "credential.path", Message: "credential marker path cannot be empty"})
	}
	if strings.TrimSpace(p.Credential.Env) == "" {
		errs = append(errs, ValidationError{Field: "credential.env", Message: "credential env variable name cannot be empty"})
	}

	if p.Sync.Configured() {
		if strings.TrimSpace(p.Sync.GitUser) == "" {
			errs = append(errs, ValidationError{Field: "sync.git-user", Message: "git user is required when sync is configured"})
		}
		if strings.TrimSpace(p.Sync.GitEmail) == "" {
			errs = append(errs, ValidationError{Field: "sync.git-email", Message: "git email is required when sync is configured"})
		}
		if p.Sync.CoreRepo == "" && p.Sync.CoreWorkspace != "" {
			errs = append(errs, ValidationError{Field: "sync.core-workspace", Message: "core-workspace requires core-repo"})
		}
	}

	return errs
}

func isValidCommandName(name string) bool {
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
