package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// HasCredential reports whether the credential marker file exists.
// Existence alone is the signal; the content is never inspected here.
func HasCredential(path string) (bool, error) {
	return afero.Exists(AppFs, path)
}

// InstallCredential persists the credential payload to the marker path,
// creating parent directories as needed. The file is written 0600 since the
// payload is a secret.
func InstallCredential(path, payload string) error {
	if err := AppFs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}
	if err := afero.WriteFile(AppFs, path, []byte(payload), 0600); err != nil {
		return fmt.Errorf("writing credential file %s: %w", path, err)
	}
	return AppFs.Chmod(path, 0600)
}

// ExpandHome resolves a leading "~/" in path against the current user's
// home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
