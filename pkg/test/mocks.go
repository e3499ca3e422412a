package test

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"foreman/pkg/gitrepo"
	"foreman/pkg/log"
	"foreman/pkg/system"

	"github.com/spf13/afero"
)

// MockCommandRunner is a shared mock implementation of runner.CommandRunner
// for testing. It tracks executed commands and allows setting up exit codes
// and spawn errors per command line.
type MockCommandRunner struct {
	Commands []string       // Executed command lines, in order
	Exits    map[string]int // Exit code by command line (default 0)
	Errors   map[string]error
}

// NewMockCommandRunner creates a new MockCommandRunner with initialized maps.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Commands: []string{},
		Exits:    make(map[string]int),
		Errors:   make(map[string]error),
	}
}

// Run simulates running a command and returns the configured exit code or
// spawn error.
func (r *MockCommandRunner) Run(command string) (int, error) {
	r.Commands = append(r.Commands, command)
	if err, ok := r.Errors[command]; ok {
		return 0, err
	}
	return r.Exits[command], nil
}

// SetExit configures the exit code for a command line.
func (r *MockCommandRunner) SetExit(command string, code int) {
	r.Exits[command] = code
}

// SetError configures a spawn error for a command line.
func (r *MockCommandRunner) SetError(command string, err error) {
	r.Errors[command] = err
}

// Reset clears all tracked commands and configurations.
func (r *MockCommandRunner) Reset() {
	r.Commands = []string{}
	r.Exits = make(map[string]int)
	r.Errors = make(map[string]error)
}

// MockGitClient is a fake depsync.GitClient backed by system.AppFs.
type MockGitClient struct {
	// Heads maps repo name to the commit hash LastCommit reports.
	Heads map[string]string
	// CloneFiles maps repo name to the files Clone writes into the clone
	// dir (relative path -> content).
	CloneFiles map[string]map[string]string
	// Errors maps "op:name" (op one of last-commit, clone, push) to a
	// forced error.
	Errors map[string]error
	// Pushed records CommitAndPush calls as "name: message".
	Pushed []string
}

// NewMockGitClient creates a MockGitClient with initialized maps.
func NewMockGitClient() *MockGitClient {
	return &MockGitClient{
		Heads:      make(map[string]string),
		CloneFiles: make(map[string]map[string]string),
		Errors:     make(map[string]error),
	}
}

func (c *MockGitClient) LastCommit(r gitrepo.Repo) (string, error) {
	if err, ok := c.Errors["last-commit:"+r.Name]; ok {
		return "", err
	}
	head, ok := c.Heads[r.Name]
	if !ok {
		return "", fmt.Errorf("branch %s not found on %s", r.Branch, r.URL)
	}
	return head, nil
}

func (c *MockGitClient) Clone(r gitrepo.Repo, dir string) error {
	if err, ok := c.Errors["clone:"+r.Name]; ok {
		return err
	}
	for path, content := range c.CloneFiles[r.Name] {
		full := filepath.Join(dir, path)
		if err := system.AppFs.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := afero.WriteFile(system.AppFs, full, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (c *MockGitClient) CommitAndPush(r gitrepo.Repo, dir, path, message string) error {
	if err, ok := c.Errors["push:"+r.Name]; ok {
		return err
	}
	c.Pushed = append(c.Pushed, r.Name+": "+message)
	return nil
}

// MockLogger is a shared mock implementation of Logger for testing.
// It captures logged messages for verification.
type MockLogger struct {
	Messages []string
	Level    slog.Level
}

// NewMockLogger creates a new MockLogger with the specified level.
func NewMockLogger(level slog.Level) *MockLogger {
	return &MockLogger{
		Messages: []string{},
		Level:    level,
	}
}

// Debug captures debug messages.
func (l *MockLogger) Debug(msg string, args ...any) {
	if l.Level <= slog.LevelDebug {
		l.captureMessage("DEBUG", msg, args...)
	}
}

// Info captures info messages.
func (l *MockLogger) Info(msg string, args ...any) {
	if l.Level <= slog.LevelInfo {
		l.captureMessage("INFO", msg, args...)
	}
}

// Warn captures warn messages.
func (l *MockLogger) Warn(msg string, args ...any) {
	if l.Level <= slog.LevelWarn {
		l.captureMessage("WARN", msg, args...)
	}
}

// Error captures error messages.
func (l *MockLogger) Error(msg string, args ...any) {
	if l.Level <= slog.LevelError {
		l.captureMessage("ERROR", msg, args...)
	}
}

func (l *MockLogger) captureMessage(level, msg string, args ...any) {
	buf := &bytes.Buffer{}
	buf.WriteString(level)
	buf.WriteString(": ")
	buf.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			buf.WriteString(" ")
			buf.WriteString(fmt.Sprintf("%v", args[i]))
			buf.WriteString("=")
			buf.WriteString(fmt.Sprintf("%v", args[i+1]))
		}
	}
	l.Messages = append(l.Messages, buf.String())
}

// Reset clears all captured messages.
func (l *MockLogger) Reset() {
	l.Messages = []string{}
}

// HasMessage checks if any captured message contains the given substring.
func (l *MockLogger) HasMessage(substring string) bool {
	for _, msg := range l.Messages {
		if bytes.Contains([]byte(msg), []byte(substring)) {
			return true
		}
	}
	return false
}

// SlogLogger creates a real slog logger for testing (alternative to mock).
func SlogLogger(level slog.Level) log.Logger {
	buf := &bytes.Buffer{}
	return log.NewSlogLogger(level, buf)
}
