// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package githubsync

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/reqif-engine/internal/store"
	"github.com/pdiddy/reqif-engine/pkg/types"
)

const defaultInterCallDelay = 500 * time.Millisecond

// sleep is replaced in tests to avoid real inter-call pauses.
var sleep = time.Sleep

// Summary holds counts from one sync run.
type Summary struct {
	Created int
	Updated int
	Closed  int
	Skipped int
	Failed  int
}

// Total returns the number of requirements processed.
func (s Summary) Total() int {
	return s.Created + s.Updated + s.Closed + s.Skipped + s.Failed
}

// Syncer pushes a requirement collection to GitHub issues. The store is
// optional; without it every decision is made against the live API.
type Syncer struct {
	client *Client
	store  *store.Store
	cfg    types.SyncConfig
	out    io.Writer
}

// NewSyncer builds a syncer writing progress to out.
func NewSyncer(client *Client, st *store.Store, cfg types.SyncConfig, out io.Writer) *Syncer {
	return &Syncer{client: client, store: st, cfg: cfg, out: out}
}

// Sync creates or updates one issue per requirement, in collection
// order, and optionally closes issues whose ids no longer appear. A
// failure on one requirement is reported and counted but does not stop
// the run.
func (s *Syncer) Sync(ctx context.Context, reqs []types.Requirement) (Summary, error) {
	labels := s.cfg.Labels
	if len(labels) == 0 {
		labels = []string{"requirement"}
	}
	delay := s.cfg.InterCallDelay
	if delay <= 0 {
		delay = defaultInterCallDelay
	}

	existing, err := s.existingByID(ctx)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	current := make(map[string]bool, len(reqs))

	for i := range reqs {
		req := &reqs[i]
		current[req.ID] = true

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		title := FormatTitle(req)
		body := FormatBody(req)
		hash := ContentHash(req)

		issue, onGitHub := existing[req.ID]

		if onGitHub && !s.issueChanged(ctx, req.ID, hash, issue, title, body) {
			fmt.Fprintf(s.out, "skipped %s (unchanged)\n", req.ID)
			summary.Skipped++
			continue
		}

		var action string
		var number int
		if onGitHub {
			action = "updated"
			number = issue.Number
			if !s.cfg.DryRun {
				fields := map[string]any{"title": title, "body": body, "state": "open"}
				if err := s.client.UpdateIssue(ctx, issue.Number, fields); err != nil {
					fmt.Fprintf(s.out, "failed  %s: %v\n", req.ID, err)
					summary.Failed++
					continue
				}
			}
			summary.Updated++
		} else {
			action = "created"
			if !s.cfg.DryRun {
				created, err := s.client.CreateIssue(ctx, title, body, labels)
				if err != nil {
					fmt.Fprintf(s.out, "failed  %s: %v\n", req.ID, err)
					summary.Failed++
					continue
				}
				number = created.Number
			}
			summary.Created++
		}

		if s.cfg.DryRun {
			fmt.Fprintf(s.out, "would have %s %s: %s\n", action, req.ID, title)
			s.printBoardFields(req)
			continue
		}

		fmt.Fprintf(s.out, "%s %s: %s\n", action, req.ID, title)
		s.printBoardFields(req)
		s.record(ctx, store.Record{
			ID:          req.ID,
			Title:       req.Title,
			ContentHash: hash,
			IssueNumber: number,
			State:       store.StateOpen,
			LastSynced:  time.Now().UTC(),
		})
		sleep(delay)
	}

	if s.cfg.CloseMissing {
		s.closeMissing(ctx, current, existing, delay, &summary)
	}

	fmt.Fprintf(s.out, "\ncreated: %d, updated: %d, closed: %d, skipped: %d, failed: %d\n",
		summary.Created, summary.Updated, summary.Closed, summary.Skipped, summary.Failed)
	return summary, nil
}

// existingByID lists all repository issues and indexes them by the
// requirement id recovered from their title or body.
func (s *Syncer) existingByID(ctx context.Context) (map[string]Issue, error) {
	issues, err := s.client.ListIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching existing issues: %w", err)
	}

	byID := make(map[string]Issue, len(issues))
	for _, issue := range issues {
		id := ParseRequirementID(issue.Title, issue.Body)
		if id == "" {
			continue
		}
		// Prefer open issues when an id appears more than once.
		if prev, dup := byID[id]; dup && prev.State == "open" {
			continue
		}
		byID[id] = issue
	}
	return byID, nil
}

// issueChanged reports whether the requirement's rendered issue differs
// from what is on GitHub, consulting the stored content hash first.
func (s *Syncer) issueChanged(ctx context.Context, id, hash string, issue Issue, title, body string) bool {
	if issue.State != "open" {
		return true
	}
	if s.store != nil {
		if rec, found, err := s.store.Get(ctx, id); err == nil && found {
			return rec.ContentHash != hash
		}
	}
	return issue.Title != title || issue.Body != body
}

func (s *Syncer) closeMissing(ctx context.Context, current map[string]bool, existing map[string]Issue, delay time.Duration, summary *Summary) {
	stale := make([]string, 0, len(existing))
	for id, issue := range existing {
		if !current[id] && issue.State == "open" {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)

	for _, id := range stale {
		issue := existing[id]
		if s.cfg.DryRun {
			fmt.Fprintf(s.out, "would have closed %s (#%d)\n", id, issue.Number)
			summary.Closed++
			continue
		}
		if err := s.client.CloseIssue(ctx, issue.Number); err != nil {
			fmt.Fprintf(s.out, "failed  closing %s: %v\n", id, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(s.out, "closed %s (#%d)\n", id, issue.Number)
		summary.Closed++
		s.record(ctx, store.Record{
			ID:          id,
			Title:       issue.Title,
			IssueNumber: issue.Number,
			State:       store.StateClosed,
			LastSynced:  time.Now().UTC(),
		})
		sleep(delay)
	}

	// Ids tracked only in the store (no parseable marker on GitHub) are
	// closed through their recorded issue number.
	if s.store == nil {
		return
	}
	tracked, err := s.store.StaleIDs(ctx, current)
	if err != nil {
		fmt.Fprintf(s.out, "warning: stale-id query failed: %v\n", err)
		return
	}
	for _, id := range tracked {
		if _, seen := existing[id]; seen {
			continue
		}
		rec, found, err := s.store.Get(ctx, id)
		if err != nil || !found || rec.IssueNumber == 0 {
			continue
		}
		if s.cfg.DryRun {
			fmt.Fprintf(s.out, "would have closed %s (#%d)\n", id, rec.IssueNumber)
			summary.Closed++
			continue
		}
		if err := s.client.CloseIssue(ctx, rec.IssueNumber); err != nil {
			fmt.Fprintf(s.out, "failed  closing %s: %v\n", id, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(s.out, "closed %s (#%d)\n", id, rec.IssueNumber)
		summary.Closed++
		rec.State = store.StateClosed
		rec.LastSynced = time.Now().UTC()
		s.record(ctx, rec)
		sleep(delay)
	}
}

// printBoardFields reports the attribute values the configured
// project-board fields would receive. Projects have no REST surface, so
// the projection is informational.
func (s *Syncer) printBoardFields(req *types.Requirement) {
	fields := BoardFields(req, s.cfg.BoardFields)
	if len(fields) == 0 {
		return
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "  field %s = %s\n", name, fields[name])
	}
}

func (s *Syncer) record(ctx context.Context, rec store.Record) {
	if s.store == nil {
		return
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		fmt.Fprintf(s.out, "warning: state not saved for %s: %v\n", rec.ID, err)
	}
}
