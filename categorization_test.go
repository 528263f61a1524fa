package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestCategorizeByScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		minScore int
		want     string
	}{
		{"viral", 15000, 0, "Viral 10k+"},
		{"viral boundary", 10000, 0, "Viral 10k+"},
		{"hot", 6000, 0, "Hot 5k+"},
		{"high score", 1500, 0, "High Score 1k+"},
		{"double threshold", 200, 100, "High Score 200+"},
		{"at threshold", 120, 100, "Popular 100+"},
		{"no threshold", 500, 0, "Rising"},
		{"below threshold", 50, 100, "Rising"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorizeByScore(tt.score, tt.minScore); got != tt.want {
				t.Errorf("categorizeByScore(%d, %d) = %q, want %q", tt.score, tt.minScore, got, tt.want)
			}
		})
	}
}

func TestCategorizePost(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want []string
	}{
		{
			name: "video link",
			post: Post{Title: "Talk recording", URL: "https://www.youtube.com/watch?v=abc"},
			want: []string{"www.youtube.com", "Video"},
		},
		{
			name: "image link",
			post: Post{Title: "Gopher drawing", URL: "https://i.redd.it/abc.png"},
			want: []string{"i.redd.it", "Image"},
		},
		{
			name: "pdf link",
			post: Post{Title: "Paper", URL: "https://example.com/paper.pdf"},
			want: []string{"example.com", "PDF"},
		},
		{
			name: "self post",
			post: Post{Title: "Question", URL: "https://www.reddit.com/r/golang/comments/abc/question/", SelfText: "How do I..."},
			want: []string{"www.reddit.com", "Self Post"},
		},
		{
			name: "plain article",
			post: Post{Title: "Article", URL: "https://blog.example.com/post"},
			want: []string{"blog.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizePost(tt.post, nil)
			if !slices.Equal(got, tt.want) {
				t.Errorf("categorizePost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryMapper(t *testing.T) {
	mapper := NewCategoryMapper(&DomainConfig{
		CategoryDomains: map[string][]string{
			"Code":  {"github.com", "gitlab.com"},
			"Video": {"youtube.com"},
		},
	})

	tests := []struct {
		domain string
		want   string
	}{
		{"github.com", "Code"},
		{"GITHUB.COM", "Code"},
		{"gist.github.com", "Code"}, // partial match via subdomain
		{"youtube.com", "Video"},
		{"example.com", ""},
	}

	for _, tt := range tests {
		if got := mapper.GetCategoryForDomain(tt.domain); got != tt.want {
			t.Errorf("GetCategoryForDomain(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestCategorizePost_WithMapper(t *testing.T) {
	mapper := NewCategoryMapper(&DomainConfig{
		CategoryDomains: map[string][]string{"Code": {"github.com"}},
	})

	got := categorizePost(Post{Title: "Repo", URL: "https://github.com/golang/go"}, mapper)
	if !slices.Contains(got, "Code") {
		t.Errorf("Expected mapped category Code in %v", got)
	}
	if !slices.Contains(got, "github.com") {
		t.Errorf("Expected raw domain github.com in %v", got)
	}
}

func TestLoadDomainMapper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.json")
	content := `{"category_domains": {"Code": ["github.com"]}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	mapper := LoadDomainMapper(path)
	if mapper == nil {
		t.Fatal("Expected mapper from valid config, got nil")
	}
	if got := mapper.GetCategoryForDomain("github.com"); got != "Code" {
		t.Errorf("Expected Code, got %q", got)
	}
}

func TestLoadDomainMapper_Disabled(t *testing.T) {
	if mapper := LoadDomainMapper(""); mapper != nil {
		t.Error("Expected nil mapper for empty path")
	}
	if mapper := LoadDomainMapper("/nonexistent/domains.json"); mapper != nil {
		t.Error("Expected nil mapper for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if mapper := LoadDomainMapper(path); mapper != nil {
		t.Error("Expected nil mapper for malformed JSON")
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://example.com/post", "example.com"},
		{"https://blog.example.com/a/b?c=d", "blog.example.com"},
		{"", ""},
		{"://bad", ""},
	}

	for _, tt := range tests {
		if got := domainOf(tt.rawURL); got != tt.want {
			t.Errorf("domainOf(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
