package main

import (
	"encoding/json"
	"time"
)

// Post represents a single Reddit submission with the fields this tool cares about
type Post struct {
	ID           string    `json:"id"`
	Subreddit    string    `json:"subreddit"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Score        int       `json:"score"`
	CommentCount int       `json:"num_comments"`
	Permalink    string    `json:"permalink"`
	URL          string    `json:"url"`
	SelfText     string    `json:"selftext,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// pullpushResponse represents the envelope returned by the PullPush search
// endpoint. Elements are kept raw so a single malformed record can be skipped
// without discarding the rest of the page.
type pullpushResponse struct {
	Data []json.RawMessage `json:"data"`
}

// pullpushPost represents one submission as PullPush serializes it.
// created_utc is a float because Reddit emits fractional epoch seconds.
type pullpushPost struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Selftext    string  `json:"selftext"`
	CreatedUTC  float64 `json:"created_utc"`
}

// OpenGraphData represents extracted OpenGraph metadata from a webpage
type OpenGraphData struct {
	URL         string
	Title       string
	Description string
	Image       string
	SiteName    string
}

// OpenGraphCache represents cached OpenGraph data in the database
type OpenGraphCache struct {
	ID           int
	URL          string
	Title        string
	Description  string
	Image        string
	SiteName     string
	FetchedAt    time.Time
	ExpiresAt    time.Time
	FetchSuccess bool
}
