package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ogTestPage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="OG Title">
	<meta property="og:description" content="OG Description">
	<meta property="og:image" content="https://example.com/image.png">
	<meta property="og:site_name" content="Example Site">
	<meta name="description" content="Meta description">
</head>
<body><p>Hello</p></body>
</html>`

func TestFetchOpenGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ogTestPage))
	}))
	defer server.Close()

	fetcher := NewOpenGraphFetcher()
	ogData, err := fetcher.FetchOpenGraph(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchOpenGraph returned error: %v", err)
	}

	if ogData.Title != "OG Title" {
		t.Errorf("Expected title 'OG Title', got %q", ogData.Title)
	}
	if ogData.Description != "OG Description" {
		t.Errorf("Expected description 'OG Description', got %q", ogData.Description)
	}
	if ogData.Image != "https://example.com/image.png" {
		t.Errorf("Unexpected image %q", ogData.Image)
	}
	if ogData.SiteName != "Example Site" {
		t.Errorf("Unexpected site name %q", ogData.SiteName)
	}
}

func TestFetchOpenGraph_Fallbacks(t *testing.T) {
	page := `<html><head>
		<title>  Title Tag  </title>
		<meta name="description" content="Plain description">
	</head><body></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	fetcher := NewOpenGraphFetcher()
	ogData, err := fetcher.FetchOpenGraph(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchOpenGraph returned error: %v", err)
	}

	if ogData.Title != "Title Tag" {
		t.Errorf("Expected fallback title 'Title Tag', got %q", ogData.Title)
	}
	if ogData.Description != "Plain description" {
		t.Errorf("Expected fallback description, got %q", ogData.Description)
	}
}

func TestFetchOpenGraph_NonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	fetcher := NewOpenGraphFetcher()
	if _, err := fetcher.FetchOpenGraph(context.Background(), server.URL); err == nil {
		t.Error("Expected error for non-HTML content type")
	}
}

func TestFetchOpenGraph_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewOpenGraphFetcher()
	if _, err := fetcher.FetchOpenGraph(context.Background(), server.URL); err == nil {
		t.Error("Expected error for HTTP 404")
	}
}

func TestCleanOpenGraphData(t *testing.T) {
	ogData := &OpenGraphData{
		Title:       "  Padded Title  ",
		Description: "\tDescription\n",
		SiteName:    " Site ",
		Image:       "https://example.com/ok.png",
	}
	cleanOpenGraphData(ogData)

	if ogData.Title != "Padded Title" {
		t.Errorf("Expected trimmed title, got %q", ogData.Title)
	}
	if ogData.Description != "Description" {
		t.Errorf("Expected trimmed description, got %q", ogData.Description)
	}
	if ogData.SiteName != "Site" {
		t.Errorf("Expected trimmed site name, got %q", ogData.SiteName)
	}
	if ogData.Image == "" {
		t.Error("Expected valid image URL to survive cleaning")
	}
}
