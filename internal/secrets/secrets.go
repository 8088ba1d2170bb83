// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads the GitHub API token from a plain-text file in
// the secrets directory, keeping the credential out of config files and
// shell history.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GitHubTokenFile is the filename the sync stage reads its token from.
const GitHubTokenFile = "github-token"

// GitHubToken reads dir/github-token and returns its trimmed contents.
// A missing directory or file is not an error; the caller falls back to
// the environment or config, so GitHubToken returns "".
func GitHubToken(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, GitHubTokenFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", GitHubTokenFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}
