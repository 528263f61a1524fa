package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"
)

// feedOptions controls Atom feed generation.
type feedOptions struct {
	Subreddit string
	Year      int
	MinScore  int
	Previews  bool
	Mapper    *CategoryMapper
}

// getOpenGraphWithFallback fetches OpenGraph data with caching and fallback
func getOpenGraphWithFallback(db *sql.DB, fetcher *OpenGraphFetcher, url string) *OpenGraphData {
	// Skip OpenGraph fetching if database is nil (for testing)
	if db == nil {
		return nil
	}

	cached, err := getOpenGraphData(db, url)
	if err != nil {
		slog.Warn("Error getting cached OpenGraph data", "error", err, "url", url)
	}

	if cached != nil && cached.FetchSuccess {
		return &OpenGraphData{
			URL:         cached.URL,
			Title:       cached.Title,
			Description: cached.Description,
			Image:       cached.Image,
			SiteName:    cached.SiteName,
		}
	}

	// A recent failed attempt is cached too; don't retry until it expires.
	if cached != nil && !cached.FetchSuccess {
		slog.Debug("Skipping OpenGraph fetch due to recent failure", "url", url)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ogData, err := fetcher.FetchOpenGraph(ctx, url)
	fetchSuccess := err == nil && ogData != nil

	if err != nil {
		slog.Debug("Failed to fetch OpenGraph data", "error", err, "url", url)
		if ogData == nil {
			ogData = &OpenGraphData{URL: url}
		}
	} else if ogData != nil {
		cleanOpenGraphData(ogData)
	}

	if ogData != nil {
		if err := cacheOpenGraphData(db, ogData, fetchSuccess); err != nil {
			slog.Warn("Failed to cache OpenGraph data", "error", err, "url", url)
		}
	}

	if fetchSuccess {
		return ogData
	}

	return nil
}

// generateAtomFeed renders the ranked posts as an Atom feed. db may be nil,
// in which case OpenGraph previews are skipped regardless of opts.Previews.
func generateAtomFeed(db *sql.DB, posts []Post, opts feedOptions) (string, error) {
	slog.Debug("Generating Atom feed", "postCount", len(posts))
	now := time.Now()

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Top posts from r/%s in %d", opts.Subreddit, opts.Year),
		Description: fmt.Sprintf("Highest scored r/%s submissions of %d, via the PullPush archive", opts.Subreddit, opts.Year),
		Link:        &feeds.Link{Href: fmt.Sprintf("https://reddit.com/r/%s/", opts.Subreddit), Rel: "self", Type: "text/html"},
		Id:          fmt.Sprintf("tag:reddit.com,%d:r/%s", opts.Year, opts.Subreddit),
		Created:     now,
		Updated:     now,
	}

	var ogFetcher *OpenGraphFetcher
	if opts.Previews && db != nil {
		ogFetcher = NewOpenGraphFetcher()
	}

	for i, post := range posts {
		categories := categorizePost(post, opts.Mapper)
		categories = append(categories, categorizeByScore(post.Score, opts.MinScore))
		categories = lo.Uniq(categories)

		var ogPreview string
		if ogFetcher != nil && post.URL != "" {
			if ogData := getOpenGraphWithFallback(db, ogFetcher, post.URL); ogData != nil && (ogData.Title != "" || ogData.Description != "") {
				ogPreview = renderPreviewBlock(ogData, post.Title)
			}
		}

		categoryTags := ""
		if len(categories) > 0 {
			categoryTags = `<div style="margin-bottom: 8px;">`
			for _, cat := range categories {
				categoryTags += fmt.Sprintf(`<span style="display: inline-block; background: #e5e5e5; color: #666; padding: 2px 6px; border-radius: 12px; font-size: 12px; margin-right: 4px;">%s</span>`, cat)
			}
			categoryTags += "</div>"
		}

		description := fmt.Sprintf(`<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.5;">
			<div style="margin-bottom: 12px; padding: 8px; background-color: #f6f6ef; border-left: 4px solid #ff4500;">
				<strong style="color: #ff4500;">#%d</strong> &bull;
				<strong>%d points</strong> &bull;
				<strong style="color: #666;">%d comments</strong> &bull;
				<span style="color: #828282;">%s</span>
			</div>
			%s
			%s
			<div style="margin-bottom: 12px;">
				<strong>Author:</strong> <span style="color: #666;">%s</span>
			</div>
			<div style="margin-top: 16px; padding-top: 12px; border-top: 1px solid #e5e5e5;">
				<a href="%s">Reddit Discussion</a> &bull; <a href="%s">Link</a>
			</div>
		</div>`,
			i+1,
			post.Score,
			post.CommentCount,
			post.CreatedAt.Format("Jan 2, 2006"),
			categoryTags,
			ogPreview,
			post.Author,
			post.Permalink,
			post.URL)

		feed.Items = append(feed.Items, &feeds.Item{
			Title: post.Title,
			Link:  &feeds.Link{Href: post.Permalink, Rel: "alternate", Type: "text/html"},
			Id:    post.Permalink,
			Author: &feeds.Author{
				Name: post.Author,
			},
			Description: description,
			Created:     post.CreatedAt,
		})
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return "", fmt.Errorf("failed to generate Atom feed: %w", err)
	}

	slog.Debug("Atom feed generated successfully", "feedSize", len(atom))
	return atom, nil
}

// renderPreviewBlock formats OpenGraph metadata as an article preview box.
// The article title is omitted when it just repeats the post title.
func renderPreviewBlock(ogData *OpenGraphData, postTitle string) string {
	block := `<div style="margin-bottom: 16px; padding: 12px; background: #f9f9f9; border-radius: 6px; border-left: 3px solid #ff4500;">
		<h4 style="margin: 0 0 8px 0; color: #ff4500; font-size: 14px;">Article Preview</h4>`
	if ogData.Title != "" && ogData.Title != postTitle {
		block += fmt.Sprintf(`<p style="margin: 0 0 6px 0; font-weight: bold; color: #333;">%s</p>`, ogData.Title)
	}
	if ogData.Description != "" {
		block += fmt.Sprintf(`<p style="margin: 0 0 6px 0; color: #666; line-height: 1.4; font-size: 13px;">%s</p>`, ogData.Description)
	}
	if ogData.Image != "" {
		block += fmt.Sprintf(`<img src="%s" alt="Article image" style="max-width: 100%%; height: auto; border-radius: 4px; margin-top: 8px;" loading="lazy">`, ogData.Image)
	}
	block += "</div>"
	return block
}
