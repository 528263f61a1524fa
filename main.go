package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

func main() {
	cfg := getConfig()

	subreddit := flag.String("subreddit", "", "subreddit to query (required)")
	year := flag.Int("year", 0, "calendar year to fetch top posts for (required)")
	limit := flag.Int("limit", 10, "number of posts to return")
	minScore := flag.Int("min-score", 0, "minimum score threshold")
	apiURL := flag.String("api-url", cfg.APIBaseURL, "PullPush API base URL")
	dbPath := flag.String("db", cfg.DatabasePath, "path to the SQLite archive (defaults beside the executable)")
	cached := flag.Bool("cached", false, "render from the local archive without network calls")
	jsonOut := flag.Bool("json", false, "emit results as JSON instead of a table")
	atomOut := flag.String("atom", "", "also write an Atom feed of the results to this file")
	previews := flag.Bool("previews", false, "enrich Atom feed entries with OpenGraph link previews")
	domains := flag.String("domains", "", "local JSON file mapping categories to domains, used for feed tags")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Argument problems are reported before any network call is attempted.
	if *subreddit == "" {
		fmt.Fprintln(os.Stderr, "redditop: -subreddit is required")
		flag.Usage()
		os.Exit(2)
	}
	if err := validateYear(*year); err != nil {
		fmt.Fprintf(os.Stderr, "redditop: invalid year: %v\n", err)
		os.Exit(2)
	}
	if *limit <= 0 {
		fmt.Fprintf(os.Stderr, "redditop: -limit must be positive, got %d\n", *limit)
		os.Exit(2)
	}

	path := *dbPath
	if path == "" {
		path = defaultDBPath()
	}
	db, err := openDB(path)
	if err != nil {
		slog.Error("Failed to open database", "error", err, "path", path)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	var posts []Post
	if *cached {
		posts, err = getArchivedPosts(db, *subreddit, *year, *limit, *minScore)
		if err != nil {
			slog.Error("Failed to read archive", "error", err)
			os.Exit(1)
		}
	} else {
		posts, err = fetchTopPosts(context.Background(), FetchOptions{
			BaseURL:   *apiURL,
			Subreddit: *subreddit,
			Year:      *year,
			Limit:     *limit,
			MinScore:  *minScore,
			UserAgent: cfg.UserAgent,
			PageDelay: cfg.PageDelay,
			Client:    &http.Client{Timeout: cfg.RequestTimeout},
		})
		if err != nil {
			slog.Error("Failed to fetch posts", "error", err)
			fmt.Fprintf(os.Stderr, "redditop: fetch failed: %v\n", err)
			os.Exit(1)
		}
		// The run already has its result; a broken archive only costs the cache.
		archivePosts(db, posts)
	}

	if *jsonOut {
		if err := writeJSON(os.Stdout, posts); err != nil {
			slog.Error("Failed to write JSON output", "error", err)
			os.Exit(1)
		}
	} else {
		writeTable(os.Stdout, posts, *subreddit, *year)
	}

	if *atomOut != "" {
		if err := cleanupExpiredOpenGraphCache(db); err != nil {
			slog.Warn("Failed to cleanup OpenGraph cache", "error", err)
		}

		atom, err := generateAtomFeed(db, posts, feedOptions{
			Subreddit: *subreddit,
			Year:      *year,
			MinScore:  *minScore,
			Previews:  *previews,
			Mapper:    LoadDomainMapper(*domains),
		})
		if err != nil {
			slog.Error("Failed to generate Atom feed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*atomOut, []byte(atom), 0644); err != nil {
			slog.Error("Failed to write Atom feed", "error", err, "filename", *atomOut)
			os.Exit(1)
		}
		slog.Info("Atom feed saved", "count", len(posts), "filename", *atomOut)
	}
}
