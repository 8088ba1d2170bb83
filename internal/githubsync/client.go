// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package githubsync mirrors a parsed requirement collection onto GitHub
// issues, one issue per requirement id.
package githubsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/reqif-engine/internal/httputil"
	"github.com/pdiddy/reqif-engine/pkg/types"
)

const defaultBaseURL = "https://api.github.com"

// Issue is the subset of the GitHub issue payload sync reads and writes.
type Issue struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	State  string  `json:"state"`
	Labels []Label `json:"labels,omitempty"`
}

// Label is an issue label by name.
type Label struct {
	Name string `json:"name"`
}

// Client is a minimal GitHub REST client scoped to one repository's
// issues. Rate-limited calls are retried through httputil.
type Client struct {
	// BaseURL is overridable for tests; empty means api.github.com.
	BaseURL string

	repo       string
	token      string
	userAgent  string
	maxRetries int
	http       *http.Client
}

// NewClient builds a client for cfg.Repository ("owner/repo").
func NewClient(cfg types.SyncConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		repo:       cfg.Repository,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		http:       &http.Client{Timeout: timeout},
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return defaultBaseURL
}

func (c *Client) do(ctx context.Context, method, url string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
}

// ListIssues returns every issue in the repository, open and closed,
// following Link-header pagination.
func (c *Client) ListIssues(ctx context.Context) ([]Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/issues?state=all&per_page=100", c.baseURL(), c.repo)

	var issues []Issue
	for url != "" {
		resp, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			defer resp.Body.Close()
			return nil, apiError("listing issues", resp)
		}

		var page []Issue
		err = json.NewDecoder(resp.Body).Decode(&page)
		link := resp.Header.Get("Link")
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding issue page: %w", err)
		}

		issues = append(issues, page...)
		url = nextLink(link)
	}
	return issues, nil
}

// CreateIssue opens a new issue and returns the created record.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/issues", c.baseURL(), c.repo)
	payload := map[string]any{"title": title, "body": body, "labels": labels}

	resp, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return Issue{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Issue{}, apiError("creating issue", resp)
	}

	var issue Issue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return Issue{}, fmt.Errorf("decoding created issue: %w", err)
	}
	return issue, nil
}

// UpdateIssue patches the named fields of an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, number int, fields map[string]any) error {
	url := fmt.Sprintf("%s/repos/%s/issues/%d", c.baseURL(), c.repo, number)

	resp, err := c.do(ctx, http.MethodPatch, url, fields)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(fmt.Sprintf("updating issue #%d", number), resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// CloseIssue marks an issue closed.
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	return c.UpdateIssue(ctx, number, map[string]any{"state": "closed"})
}

func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: HTTP %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// nextLink extracts the rel="next" URL from a Link header, or returns
// empty when this was the last page.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}
	return ""
}
