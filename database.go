package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// defaultDBPath returns the archive location next to the executable.
func defaultDBPath() string {
	exePath, err := os.Executable()
	if err != nil {
		slog.Warn("Error getting executable path, using working directory", "error", err)
		return "redditop.db"
	}
	return filepath.Join(filepath.Dir(exePath), "redditop.db")
}

// openDB opens the SQLite archive and creates the schema if needed.
func openDB(path string) (*sql.DB, error) {
	slog.Debug("Opening database", "path", path)

	db, err := sql.Open("sqlite", path) // Use "sqlite" driver name
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createPostsTable := `
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id TEXT NOT NULL UNIQUE,       -- Reddit submission ID, for deduplication
		subreddit TEXT NOT NULL,
		title TEXT NOT NULL,
		author TEXT,
		score INTEGER DEFAULT 0,
		comment_count INTEGER DEFAULT 0,
		permalink TEXT,
		url TEXT,
		selftext TEXT,
		created_utc INTEGER NOT NULL,       -- Submission time, epoch seconds UTC
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createPostsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create posts table: %w", err)
	}

	createOGCacheTable := `
	CREATE TABLE IF NOT EXISTS opengraph_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT,
		description TEXT,
		image TEXT,
		site_name TEXT,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP,
		fetch_success BOOLEAN DEFAULT TRUE
	)`
	if _, err := db.Exec(createOGCacheTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create opengraph_cache table: %w", err)
	}

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_posts_window ON posts(subreddit, created_utc)",
		"CREATE INDEX IF NOT EXISTS idx_opengraph_url ON opengraph_cache(url)",
		"CREATE INDEX IF NOT EXISTS idx_opengraph_expires ON opengraph_cache(expires_at)",
	}
	for _, indexSQL := range createIndexes {
		if _, err := db.Exec(indexSQL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.Debug("Database initialized successfully")
	return db, nil
}

// archivePosts upserts fetched posts into the archive. Scores move over time
// in the source data, so an existing row is refreshed rather than kept.
func archivePosts(db *sql.DB, posts []Post) {
	slog.Debug("Archiving posts", "count", len(posts))

	for _, p := range posts {
		_, err := db.Exec(`
			INSERT INTO posts (post_id, subreddit, title, author, score, comment_count, permalink, url, selftext, created_utc, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(post_id) DO UPDATE SET
				title = excluded.title,
				author = excluded.author,
				score = excluded.score,
				comment_count = excluded.comment_count,
				permalink = excluded.permalink,
				url = excluded.url,
				selftext = excluded.selftext,
				fetched_at = excluded.fetched_at`, // created_utc never changes for a given post
			p.ID, p.Subreddit, p.Title, p.Author, p.Score, p.CommentCount,
			p.Permalink, p.URL, p.SelfText, p.CreatedAt.Unix(), time.Now())
		if err != nil {
			slog.Error("Error archiving post", "error", err, "post_id", p.ID)
			continue
		}
	}
}

// getArchivedPosts returns archived posts for the subreddit and year window,
// sorted by descending score and limited, mirroring what a live fetch yields.
func getArchivedPosts(db *sql.DB, subreddit string, year, limit, minScore int) ([]Post, error) {
	start, end := yearWindow(year)
	slog.Debug("Querying archive", "subreddit", subreddit, "year", year, "limit", limit, "minScore", minScore)

	rows, err := db.Query(`
		SELECT post_id, subreddit, title, author, score, comment_count, permalink, url, selftext, created_utc
		FROM posts
		WHERE subreddit = ? COLLATE NOCASE AND created_utc >= ? AND created_utc < ? AND score >= ?
		ORDER BY score DESC, created_utc ASC
		LIMIT ?`,
		subreddit, start, end, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		var p Post
		var created int64
		err := rows.Scan(&p.ID, &p.Subreddit, &p.Title, &p.Author, &p.Score,
			&p.CommentCount, &p.Permalink, &p.URL, &p.SelfText, &created)
		if err != nil {
			slog.Error("Error scanning row", "error", err)
			continue
		}
		p.CreatedAt = time.Unix(created, 0).UTC()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive rows: %w", err)
	}

	slog.Debug("Retrieved posts from archive", "count", len(posts))
	return posts, nil
}

// getOpenGraphData retrieves cached OpenGraph data for a URL
func getOpenGraphData(db *sql.DB, url string) (*OpenGraphCache, error) {
	query := `
		SELECT id, url, title, description, image, site_name, fetched_at, expires_at, fetch_success
		FROM opengraph_cache
		WHERE url = ? AND expires_at > ?`

	var cache OpenGraphCache
	err := db.QueryRow(query, url, time.Now()).Scan(
		&cache.ID,
		&cache.URL,
		&cache.Title,
		&cache.Description,
		&cache.Image,
		&cache.SiteName,
		&cache.FetchedAt,
		&cache.ExpiresAt,
		&cache.FetchSuccess,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query OpenGraph cache: %w", err)
	}

	return &cache, nil
}

// cacheOpenGraphData stores OpenGraph data in the cache. Successful fetches
// are kept for 7 days, failures for 1 day so dead links are not hammered.
func cacheOpenGraphData(db *sql.DB, ogData *OpenGraphData, fetchSuccess bool) error {
	var expiresAt time.Time
	if fetchSuccess {
		expiresAt = time.Now().Add(7 * 24 * time.Hour)
	} else {
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	query := `
		INSERT INTO opengraph_cache (url, title, description, image, site_name, fetched_at, expires_at, fetch_success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			image = excluded.image,
			site_name = excluded.site_name,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at,
			fetch_success = excluded.fetch_success`

	_, err := db.Exec(query,
		ogData.URL,
		ogData.Title,
		ogData.Description,
		ogData.Image,
		ogData.SiteName,
		time.Now(),
		expiresAt,
		fetchSuccess,
	)
	if err != nil {
		return fmt.Errorf("failed to cache OpenGraph data: %w", err)
	}

	return nil
}

// cleanupExpiredOpenGraphCache removes expired OpenGraph cache entries
func cleanupExpiredOpenGraphCache(db *sql.DB) error {
	result, err := db.Exec("DELETE FROM opengraph_cache WHERE expires_at < ?", time.Now())
	if err != nil {
		return fmt.Errorf("failed to cleanup expired cache: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		slog.Debug("Cleaned up expired OpenGraph cache entries", "count", rowsAffected)
	}

	return nil
}
