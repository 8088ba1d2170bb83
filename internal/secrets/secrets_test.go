// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubToken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  string
	}{
		{
			name: "reads token and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeToken(t, dir, "  ghp_abc123  \n")
				return dir
			},
			want: "ghp_abc123",
		},
		{
			name: "nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: "",
		},
		{
			name: "missing token file",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: "",
		},
		{
			name: "whitespace-only file",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeToken(t, dir, "   \n\t  ")
				return dir
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GitHubToken(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGitHubTokenUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, GitHubTokenFile)
	require.NoError(t, os.WriteFile(path, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	_, err := GitHubToken(dir)
	assert.Error(t, err)
}

func writeToken(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, GitHubTokenFile), []byte(content), 0o644))
}
