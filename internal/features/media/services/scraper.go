package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"medialog/internal/core"

	"github.com/PuerkitoBio/goquery"
)

// ErrSuperseded reports that a newer scrape was started before this one
// finished, so its result must not be applied.
var ErrSuperseded = errors.New("scrape superseded by a newer request")

// ErrNoTitle reports that the fetched page has no usable title
var ErrNoTitle = errors.New("page has no title")

// ScraperService fetches page titles for URL-first entry creation. Generation
// tokens are tracked per key (user and form), so concurrent scrapes for
// different forms never supersede each other.
type ScraperService struct {
	client      *http.Client
	logger      *core.Logger
	mu          sync.Mutex
	generations map[string]uint64
}

// NewScraperService creates a new scraper service
func NewScraperService(logger *core.Logger, timeout time.Duration) *ScraperService {
	return &ScraperService{
		client: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Begin marks the start of a new scrape for a key and returns its generation
// token. Starting a scrape invalidates every earlier in-flight scrape with the
// same key.
func (s *ScraperService) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[key]++
	return s.generations[key]
}

// Current returns the latest generation token for a key
func (s *ScraperService) Current(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[key]
}

// ScrapeTitle fetches the page at pageURL and extracts its title, preferring
// the og:title meta tag over the title element. The token must come from
// Begin with the same key; if a newer scrape for that key started meanwhile
// the result is dropped and ErrSuperseded is returned.
func (s *ScraperService) ScrapeTitle(ctx context.Context, pageURL, key string, token uint64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Medialog/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	if s.Current(key) != token {
		return "", ErrSuperseded
	}

	title := extractTitle(doc)
	if title == "" {
		return "", ErrNoTitle
	}

	s.logger.Info("Scraped page title", "url", pageURL, "title", title)
	return title, nil
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
