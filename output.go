package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

const maxTitleWidth = 80

// writeTable renders the ranked posts as an aligned terminal table.
func writeTable(w io.Writer, posts []Post, subreddit string, year int) {
	if len(posts) == 0 {
		fmt.Fprintf(w, "No posts found for r/%s in %d.\n", subreddit, year)
		return
	}

	fmt.Fprintf(w, "Top %d posts from r/%s in %d:\n\n", len(posts), subreddit, year)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tCOMMENTS\tTITLE\tLINK")
	for i, p := range posts {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n",
			i+1, p.Score, p.CommentCount, truncateString(p.Title, maxTitleWidth), p.Permalink)
	}
	_ = tw.Flush()
}

// writeJSON emits the ranked posts as indented JSON.
func writeJSON(w io.Writer, posts []Post) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if posts == nil {
		posts = []Post{}
	}
	return enc.Encode(posts)
}

// truncateString truncates a string to a maximum length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
