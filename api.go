package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const (
	// minYear is the PullPush data floor; Reddit has no posts before this.
	minYear = 2005

	// maxPageSize is the largest page the API serves per request.
	maxPageSize = 100
)

// FetchOptions describes one top-posts query against the PullPush API.
type FetchOptions struct {
	BaseURL   string
	Subreddit string
	Year      int
	Limit     int
	MinScore  int
	UserAgent string
	PageDelay time.Duration
	Client    *http.Client
}

// validateYear rejects years outside the plausible range before any network
// call is made.
func validateYear(year int) error {
	if year < minYear {
		return fmt.Errorf("year %d is before %d, the earliest year with Reddit data", year, minYear)
	}
	if now := time.Now().UTC().Year(); year > now {
		return fmt.Errorf("year %d is in the future", year)
	}
	return nil
}

// yearWindow returns the UTC epoch window [Jan 1 year, Jan 1 year+1) as
// start/end timestamps. created_utc is defined in UTC, so local-time windows
// would make results machine-dependent.
func yearWindow(year int) (start, end int64) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	return start, end
}

// fetchTopPosts retrieves up to opts.Limit posts from the given subreddit and
// year, sorted by descending score. It pages through the API by moving the
// "before" cursor to the last record's timestamp until a page comes back
// empty or short, or enough records have been collected.
func fetchTopPosts(ctx context.Context, opts FetchOptions) ([]Post, error) {
	if err := validateYear(opts.Year); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	start, end := yearWindow(opts.Year)
	pageSize := min(opts.Limit, maxPageSize)
	cursor := end

	var posts []Post
	seen := make(map[string]bool)

	for len(posts) < opts.Limit {
		slog.Debug("Fetching page",
			"subreddit", opts.Subreddit,
			"collected", len(posts),
			"pageSize", pageSize,
			"before", cursor)

		raw, err := fetchPage(ctx, client, opts, start, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			break
		}

		page, lastSeen := decodeRecords(raw, start, end)
		for _, p := range page {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			posts = append(posts, p)
		}

		// Cursor must strictly advance or the same page would repeat forever.
		if lastSeen == 0 || lastSeen >= cursor {
			break
		}
		cursor = lastSeen

		if len(raw) < pageSize {
			break
		}

		if len(posts) < opts.Limit && opts.PageDelay > 0 {
			select {
			case <-time.After(opts.PageDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	sortByScore(posts)
	if len(posts) > opts.Limit {
		posts = posts[:opts.Limit]
	}

	slog.Debug("Finished fetching posts", "count", len(posts))
	return posts, nil
}

// fetchPage issues a single search request and returns the raw data elements.
func fetchPage(ctx context.Context, client *http.Client, opts FetchOptions, after, before int64, size int) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/search/submission", opts.BaseURL)

	params := url.Values{}
	params.Set("subreddit", opts.Subreddit)
	params.Set("size", strconv.Itoa(size))
	params.Set("after", strconv.FormatInt(after, 10))
	params.Set("before", strconv.FormatInt(before, 10))
	params.Set("sort", "desc")
	params.Set("sort_type", "score")
	if opts.MinScore > 0 {
		params.Set("score", fmt.Sprintf(">%d", opts.MinScore))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limit exceeded (429)")
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d %s", res.StatusCode, res.Status)
	}

	var resp pullpushResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.Data, nil
}

// decodeRecords converts raw data elements into Posts, skipping anything
// malformed. lastSeen is the timestamp of the last element that decoded at
// all, which becomes the next pagination cursor even when the record itself
// was dropped.
func decodeRecords(raw []json.RawMessage, start, end int64) (posts []Post, lastSeen int64) {
	for _, r := range raw {
		var pp pullpushPost
		if err := json.Unmarshal(r, &pp); err != nil {
			slog.Debug("Skipping malformed record", "error", err)
			continue
		}

		created := int64(pp.CreatedUTC)
		if created > 0 {
			lastSeen = created
		}

		if pp.Title == "" || created == 0 {
			slog.Debug("Skipping incomplete record", "id", pp.ID)
			continue
		}
		if created < start || created >= end {
			slog.Debug("Skipping record outside year window", "id", pp.ID, "created_utc", created)
			continue
		}

		posts = append(posts, Post{
			ID:           pp.ID,
			Subreddit:    pp.Subreddit,
			Title:        pp.Title,
			Author:       pp.Author,
			Score:        pp.Score,
			CommentCount: pp.NumComments,
			Permalink:    absolutePermalink(pp.Permalink),
			URL:          pp.URL,
			SelfText:     pp.Selftext,
			CreatedAt:    time.Unix(created, 0).UTC(),
		})
	}
	return posts, lastSeen
}

// sortByScore orders posts by descending score, older posts first on ties so
// the ordering is deterministic.
func sortByScore(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Score != posts[j].Score {
			return posts[i].Score > posts[j].Score
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}

// absolutePermalink turns Reddit's relative permalink into a full URL.
func absolutePermalink(permalink string) string {
	if permalink == "" || permalink[0] != '/' {
		return permalink
	}
	return "https://reddit.com" + permalink
}
