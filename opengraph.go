package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// OpenGraph fetcher with rate limiting and domain-based delays
type OpenGraphFetcher struct {
	client      *http.Client
	domainMutex sync.Mutex
	lastFetch   map[string]time.Time
	semaphore   chan struct{}
}

// NewOpenGraphFetcher creates a new OpenGraph fetcher with rate limiting
func NewOpenGraphFetcher() *OpenGraphFetcher {
	return &OpenGraphFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		lastFetch: make(map[string]time.Time),
		semaphore: make(chan struct{}, 5), // Max 5 concurrent fetches
	}
}

// FetchOpenGraph fetches OpenGraph data from a URL with rate limiting
func (f *OpenGraphFetcher) FetchOpenGraph(ctx context.Context, targetURL string) (*OpenGraphData, error) {
	select {
	case f.semaphore <- struct{}{}:
		defer func() { <-f.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if err := f.waitForDomain(ctx, parsedURL.Host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "redditop/1.0 (OpenGraph fetcher)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	slog.Debug("Fetching OpenGraph data", "url", targetURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("not an HTML page: %s", contentType)
	}

	// Limit response body size to 1MB
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	ogData := extractOpenGraphTags(doc, targetURL)

	slog.Debug("Extracted OpenGraph data", "url", targetURL, "title", ogData.Title, "hasDescription", ogData.Description != "")

	return ogData, nil
}

// waitForDomain enforces one request per second per domain.
func (f *OpenGraphFetcher) waitForDomain(ctx context.Context, domain string) error {
	f.domainMutex.Lock()
	last, exists := f.lastFetch[domain]
	if exists {
		if since := time.Since(last); since < time.Second {
			sleepTime := time.Second - since
			f.domainMutex.Unlock()
			slog.Debug("Rate limiting domain", "domain", domain, "sleep", sleepTime)
			select {
			case <-time.After(sleepTime):
			case <-ctx.Done():
				return ctx.Err()
			}
			f.domainMutex.Lock()
		}
	}
	f.lastFetch[domain] = time.Now()
	f.domainMutex.Unlock()
	return nil
}

// extractOpenGraphTags pulls og: meta properties from the document, falling
// back to the <title> tag and the plain meta description.
func extractOpenGraphTags(doc *goquery.Document, targetURL string) *OpenGraphData {
	ogData := &OpenGraphData{URL: targetURL}

	doc.Find("meta[property]").Each(func(i int, s *goquery.Selection) {
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")

		switch property {
		case "og:title":
			if ogData.Title == "" {
				ogData.Title = content
			}
		case "og:description":
			if ogData.Description == "" {
				ogData.Description = content
			}
		case "og:image":
			if ogData.Image == "" {
				ogData.Image = content
			}
		case "og:site_name":
			if ogData.SiteName == "" {
				ogData.SiteName = content
			}
		}
	})

	if ogData.Title == "" {
		ogData.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if ogData.Description == "" {
		if content, exists := doc.Find(`meta[name="description"]`).First().Attr("content"); exists {
			ogData.Description = content
		}
	}

	return ogData
}

// cleanOpenGraphData cleans and validates OpenGraph data
func cleanOpenGraphData(ogData *OpenGraphData) {
	ogData.Title = strings.TrimSpace(ogData.Title)
	ogData.Description = strings.TrimSpace(ogData.Description)
	ogData.SiteName = strings.TrimSpace(ogData.SiteName)

	if ogData.Image != "" {
		if _, err := url.Parse(ogData.Image); err != nil {
			ogData.Image = ""
		}
	}
}
