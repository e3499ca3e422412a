package depsync

import (
	"fmt"
	"regexp"
	"strings"
)

var commitHashPattern = regexp.MustCompile(`[0-9a-f]{40}`)

// ReplaceMarker rewrites the commit pin on the line carrying the given
// sync marker. The second return value reports whether the marker was found
// at all; a missing marker is the caller's decision, not an error. A marker
// line without a 40-hex pin is malformed and rejected, since silently
// skipping it would hide a broken WORKSPACE.
func ReplaceMarker(content, marker, commit string) (string, bool, error) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		loc := commitHashPattern.FindStringIndex(line)
		if loc == nil {
			return "", true, fmt.Errorf("marker line carries no commit pin: %q", line)
		}
		lines[i] = line[:loc[0]] + commit + line[loc[1]:]
		return strings.Join(lines, "\n"), true, nil
	}
	return content, false, nil
}
