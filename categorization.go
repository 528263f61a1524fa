package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// DomainConfig represents the configuration structure for domain mappings
type DomainConfig struct {
	CategoryDomains map[string][]string `json:"category_domains"`
}

// CategoryMapper provides methods for domain categorization
type CategoryMapper struct {
	config           *DomainConfig
	domainToCategory map[string]string // reverse lookup for efficient searching
}

// LoadDomainMapper loads the domain→category mapping from a local JSON file.
// An empty path or a load failure disables domain mapping (returns nil).
func LoadDomainMapper(path string) *CategoryMapper {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Failed to read domain config, domain mapping disabled", "error", err)
		return nil
	}

	var config DomainConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("Failed to parse domain config, domain mapping disabled", "error", err)
		return nil
	}

	return NewCategoryMapper(&config)
}

// NewCategoryMapper creates a new CategoryMapper with reverse lookup optimization
func NewCategoryMapper(config *DomainConfig) *CategoryMapper {
	mapper := &CategoryMapper{
		config:           config,
		domainToCategory: make(map[string]string),
	}

	for category, domains := range config.CategoryDomains {
		for _, domain := range domains {
			mapper.domainToCategory[strings.ToLower(domain)] = category
		}
	}

	slog.Debug("CategoryMapper initialized", "categories", len(config.CategoryDomains), "domain_mappings", len(mapper.domainToCategory))
	return mapper
}

// GetCategoryForDomain returns the category for a given domain, or empty string if not found
func (cm *CategoryMapper) GetCategoryForDomain(domain string) string {
	domain = strings.ToLower(domain)

	if category, exists := cm.domainToCategory[domain]; exists {
		return category
	}

	// Partial match covers subdomains like blog.example.com
	for mappedDomain, category := range cm.domainToCategory {
		if strings.Contains(domain, mappedDomain) {
			return category
		}
	}

	return ""
}

// categorizePost returns applicable category tags for a post based on its
// link domain and content type.
func categorizePost(p Post, mapper *CategoryMapper) []string {
	var categories []string

	domain := domainOf(p.URL)
	if domain != "" {
		categories = append(categories, domain)
		if mapper != nil {
			if category := mapper.GetCategoryForDomain(domain); category != "" {
				categories = append(categories, category)
			}
		}
	}

	titleLower := strings.ToLower(p.Title)
	urlLower := strings.ToLower(p.URL)
	switch {
	case p.SelfText != "" || strings.Contains(urlLower, "reddit.com/r/"):
		categories = append(categories, "Self Post")
	case strings.Contains(urlLower, "youtube.com") || strings.Contains(urlLower, "youtu.be") || strings.Contains(urlLower, "v.redd.it"):
		categories = append(categories, "Video")
	case strings.Contains(urlLower, "i.redd.it") || strings.Contains(urlLower, "imgur.com"):
		categories = append(categories, "Image")
	case strings.HasSuffix(urlLower, ".pdf") || strings.Contains(titleLower, "[pdf]"):
		categories = append(categories, "PDF")
	}

	return categories
}

// categorizeByScore returns a tier label based on vote count, scaled to
// Reddit numbers rather than single-digit thresholds.
func categorizeByScore(score int, minScore int) string {
	switch {
	case score >= 10000:
		return "Viral 10k+"
	case score >= 5000:
		return "Hot 5k+"
	case score >= 1000:
		return "High Score 1k+"
	case minScore > 0 && score >= minScore*2:
		return fmt.Sprintf("High Score %d+", minScore*2)
	case minScore > 0 && score >= minScore:
		return fmt.Sprintf("Popular %d+", minScore)
	default:
		return "Rising"
	}
}

// domainOf extracts the host part of a link, or empty string when the link
// is missing or unparseable.
func domainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
