// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reqif-engine/internal/githubsync"
	"github.com/pdiddy/reqif-engine/internal/store"
	"github.com/pdiddy/reqif-engine/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync [paths...]",
	Short: "Mirror the requirement collection onto GitHub issues",
	Long: `Sync parses the named documents (or discovers them under the current
directory) and creates or updates one GitHub issue per requirement.
Issues are matched to requirements by the id in their title or body, so
repeated runs are idempotent. Unchanged requirements are skipped using
the local sync state; with --close-missing, issues whose requirement ids
have disappeared from the documents are closed.

The API token is read from .secrets/github-token, the GITHUB_TOKEN
environment variable, or the config file. The repository defaults to
GITHUB_REPOSITORY, matching GitHub Actions.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := syncConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	reqs, err := collectRequirements(args, parserConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	stateDir, _ := cmd.Flags().GetString("state-dir")
	st, err := store.Open(types.StoreConfig{StateDir: stateDir})
	if err != nil {
		return err
	}
	defer st.Close()

	syncer := githubsync.NewSyncer(githubsync.NewClient(cfg), st, cfg, os.Stdout)
	summary, err := syncer.Sync(context.Background(), reqs)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d requirement(s) failed to sync", summary.Failed)
	}
	return nil
}

func syncConfigFromFlags(cmd *cobra.Command) (types.SyncConfig, error) {
	repo, _ := cmd.Flags().GetString("repo")
	if repo == "" {
		repo = os.Getenv("GITHUB_REPOSITORY")
	}
	if repo == "" {
		repo = viper.GetString("sync.repository")
	}
	if repo == "" {
		return types.SyncConfig{}, fmt.Errorf("repository required: use --repo, GITHUB_REPOSITORY, or sync.repository in the config file")
	}

	token := loadedToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		token = viper.GetString("sync.token")
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if token == "" && !dryRun {
		return types.SyncConfig{}, fmt.Errorf("GitHub token required: put it in .secrets/github-token or GITHUB_TOKEN")
	}

	labels, _ := cmd.Flags().GetStringSlice("labels")
	closeMissing, _ := cmd.Flags().GetBool("close-missing")
	delay, _ := cmd.Flags().GetDuration("delay")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	boardFields, _ := cmd.Flags().GetStringSlice("board-fields")

	return types.SyncConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: "reqif-engine/" + version,
		},
		Repository:     repo,
		Token:          token,
		Labels:         labels,
		CloseMissing:   closeMissing,
		DryRun:         dryRun,
		InterCallDelay: delay,
		MaxRetries:     maxRetries,
		BoardFields:    boardFields,
	}, nil
}

func init() {
	syncCmd.Flags().String("repo", "", "target repository in owner/repo form (default: $GITHUB_REPOSITORY)")
	syncCmd.Flags().StringSlice("labels", []string{"requirement"}, "labels applied to created issues")
	syncCmd.Flags().Bool("close-missing", false, "close issues whose requirement ids are absent from the documents")
	syncCmd.Flags().Bool("dry-run", false, "report planned changes without calling the API")
	syncCmd.Flags().Duration("delay", 500*time.Millisecond, "pause between consecutive API write calls")
	syncCmd.Flags().Int("max-retries", 0, "retry attempts on rate-limited calls (0 = default)")
	syncCmd.Flags().StringSlice("board-fields", nil, "project-board field names to fill from requirement attributes")
	syncCmd.Flags().String("state-dir", ".reqif-engine", "directory for the local sync-state database")
	syncCmd.Flags().Bool("keep-extensions", false, "preserve unrecognized vendor XML blocks verbatim")
	syncCmd.Flags().Bool("decode-attachments", false, "decode embedded base64 attachments")

	rootCmd.AddCommand(syncCmd)
}
