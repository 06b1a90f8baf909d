// Package linkcheck verifies external links found in course pages.
//
// Verification is bounded-concurrency HTTP checking with a NATS JetStream KV
// result cache and broken-link event publishing. Internal link resolution is
// handled structurally by sitecheck; this package only deals with absolute
// http/https destinations.
package linkcheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/frontmatter"
	"github.com/inletra/docsite/internal/markdown"
	"github.com/inletra/docsite/internal/metrics"
)

const userAgent = "docsite-linkcheck/1.0"

// Summary aggregates the outcome of one verification pass.
type Summary struct {
	Pages        int `json:"pages"`
	SkippedPages int `json:"skipped_pages"`
	Links        int `json:"links"`
	Alive        int `json:"alive"`
	Broken       int `json:"broken"`
	FromCache    int `json:"from_cache"`
}

// Service manages external link verification operations.
type Service struct {
	cfg        *config.EventsConfig
	cache      cacheClient
	httpClient *http.Client
	recorder   metrics.Recorder

	mu      sync.Mutex
	running bool
	linkSem chan struct{} // Limit concurrent link checks
	pageSem chan struct{} // Limit concurrent page processing

	sumMu sync.Mutex
	sum   Summary
}

type cacheClient interface {
	GetCachedResult(ctx context.Context, url string) (*CacheEntry, error)
	SetCachedResult(ctx context.Context, entry *CacheEntry) error
	IsCacheValid(entry *CacheEntry) bool
	GetPageHash(ctx context.Context, path string) (string, error)
	SetPageHash(ctx context.Context, path string, hash string) error
	PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error
	Close() error
}

// NewService creates a new link verification service connected to NATS.
func NewService(cfg *config.EventsConfig) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("events config is required")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}

	natsClient, err := NewNATSClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS client: %w", err)
	}

	timeout, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		timeout = 10 * time.Second
	}

	// Clone the default transport so HTTP_PROXY, HTTPS_PROXY, and NO_PROXY
	// environment variables are respected.
	transport := http.DefaultTransport.(*http.Transport).Clone()

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if cfg.MaxRedirects <= 0 {
				return http.ErrUseLastResponse
			}
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}

	return &Service{
		cfg:        cfg,
		cache:      natsClient,
		httpClient: httpClient,
		recorder:   metrics.NoopRecorder{},
		linkSem:    make(chan struct{}, cfg.MaxConcurrent),
		pageSem:    make(chan struct{}, min(cfg.MaxConcurrent, 4)),
	}, nil
}

// WithRecorder sets the metrics recorder and returns the service.
func (s *Service) WithRecorder(rec metrics.Recorder) *Service {
	if rec != nil {
		s.recorder = rec
	}
	return s
}

// VerifyPages verifies all external links in the given pages.
func (s *Service) VerifyPages(ctx context.Context, runID string, pages []*content.Page) (Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Summary{}, errors.New("verification already running")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.sumMu.Lock()
	s.sum = Summary{}
	s.sumMu.Unlock()

	slog.Info("Starting link verification", "page_count", len(pages), "run_id", runID)

	var pagesWG sync.WaitGroup
	for _, page := range pages {
		if page.IsAsset {
			continue
		}

		// Verify page in background (bounded)
		select {
		case <-ctx.Done():
			pagesWG.Wait()
			return s.snapshot(), ctx.Err()
		case s.pageSem <- struct{}{}:
		}
		pagesWG.Add(1)
		go func(page *content.Page) {
			defer pagesWG.Done()
			defer func() { <-s.pageSem }()
			s.verifyPage(ctx, runID, page)
		}(page)
	}

	pagesWG.Wait()

	sum := s.snapshot()
	slog.Info("Link verification completed",
		"pages", sum.Pages,
		"links", sum.Links,
		"broken", sum.Broken,
		"from_cache", sum.FromCache)

	return sum, nil
}

func (s *Service) snapshot() Summary {
	s.sumMu.Lock()
	defer s.sumMu.Unlock()
	return s.sum
}

func (s *Service) count(update func(*Summary)) {
	s.sumMu.Lock()
	update(&s.sum)
	s.sumMu.Unlock()
}

// verifyPage verifies all external links in a single page.
func (s *Service) verifyPage(ctx context.Context, runID string, page *content.Page) {
	data, err := os.ReadFile(page.Path)
	if err != nil {
		slog.Warn("Failed to read page for link verification",
			"path", page.Path,
			"error", err)
		return
	}

	// Skip unchanged pages via the cached content hash.
	digest := sha256.Sum256(data)
	contentHash := hex.EncodeToString(digest[:])
	if cachedHash, err := s.cache.GetPageHash(ctx, page.RelativePath); err == nil && cachedHash == contentHash {
		slog.Debug("Skipping link verification for unchanged page",
			"path", page.RelativePath,
			"hash", contentHash[:8])
		s.count(func(sum *Summary) { sum.SkippedPages++ })
		return
	}

	links := externalLinks(data)
	s.count(func(sum *Summary) {
		sum.Pages++
		sum.Links += len(links)
	})

	slog.Debug("Extracted external links from page",
		"path", page.RelativePath,
		"link_count", len(links))

	var linksWG sync.WaitGroup
	for _, link := range links {
		// Acquire link semaphore before spawning to avoid goroutine backlogs.
		select {
		case <-ctx.Done():
			linksWG.Wait()
			return
		case s.linkSem <- struct{}{}:
		}
		linksWG.Add(1)
		go func(link string) {
			defer linksWG.Done()
			defer func() { <-s.linkSem }()
			s.verifyLink(ctx, runID, link, page)
		}(link)
	}

	linksWG.Wait()

	// All links verified for this page; record the content hash.
	if err := s.cache.SetPageHash(ctx, page.RelativePath, contentHash); err != nil {
		slog.Debug("Failed to cache page hash", "path", page.RelativePath, "error", err)
	}
}

// externalLinks extracts deduplicated absolute http/https destinations from
// markdown source.
func externalLinks(data []byte) []string {
	_, body, _, _, err := frontmatter.Split(data)
	if err != nil {
		body = data
	}

	found, err := markdown.ExtractLinks(body, markdown.Options{})
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var urls []string
	for _, link := range found {
		dest := strings.TrimSpace(link.Destination)
		if !isExternal(dest) || seen[dest] {
			continue
		}
		seen[dest] = true
		urls = append(urls, dest)
	}
	return urls
}

func isExternal(dest string) bool {
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://")
}

// verifyLink verifies a single external link.
func (s *Service) verifyLink(ctx context.Context, runID, linkURL string, page *content.Page) {
	// Check cache first
	cached, err := s.cache.GetCachedResult(ctx, linkURL)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		slog.Debug("Cache lookup error", "url", linkURL, "error", err)
	}
	if cached != nil && s.cache.IsCacheValid(cached) {
		s.count(func(sum *Summary) { sum.FromCache++ })
		s.recorder.IncLinkResult(metrics.LinkCached)
		if !cached.IsValid {
			// Still broken, republish with the tracked failure history.
			s.count(func(sum *Summary) { sum.Broken++ })
			s.handleBrokenLink(ctx, runID, linkURL, page, cached.Status, cached.Error, cached)
		}
		return
	}

	status, verifyErr := s.checkExternalLink(ctx, linkURL)

	entry := &CacheEntry{
		URL:         linkURL,
		Status:      status,
		IsValid:     verifyErr == nil,
		LastChecked: time.Now(),
	}

	if verifyErr != nil {
		entry.Error = verifyErr.Error()
		s.updateFailureTracking(entry, cached)
		s.count(func(sum *Summary) { sum.Broken++ })
		s.recorder.IncLinkResult(metrics.LinkBroken)
		s.handleBrokenLink(ctx, runID, linkURL, page, status, verifyErr.Error(), entry)
	} else {
		entry.FailureCount = 0
		entry.ConsecutiveFail = false
		s.count(func(sum *Summary) { sum.Alive++ })
		s.recorder.IncLinkResult(metrics.LinkAlive)
	}

	if err := s.cache.SetCachedResult(ctx, entry); err != nil {
		slog.Warn("Failed to update cache", "url", linkURL, "error", err)
	}
}

// updateFailureTracking updates the failure count and timing for a failed link.
func (s *Service) updateFailureTracking(entry *CacheEntry, cached *CacheEntry) {
	if cached != nil {
		entry.FailureCount = cached.FailureCount + 1
		entry.FirstFailedAt = cached.FirstFailedAt
		if entry.FirstFailedAt.IsZero() {
			entry.FirstFailedAt = time.Now()
		}
	} else {
		entry.FailureCount = 1
		entry.FirstFailedAt = time.Now()
	}
	entry.ConsecutiveFail = true
}

// checkExternalLink verifies an external link via HTTP request. HEAD is tried
// first; servers that reject HEAD with 404 or 405 get one GET retry.
func (s *Service) checkExternalLink(ctx context.Context, linkURL string) (int, error) {
	status, err := s.request(ctx, http.MethodHead, linkURL)
	if err != nil {
		return status, err
	}

	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		return s.request(ctx, http.MethodGet, linkURL)
	}

	return s.classify(status)
}

func (s *Service) request(ctx context.Context, method, linkURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, linkURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Discard body
	_, _ = io.Copy(io.Discard, resp.Body)

	if method == http.MethodHead {
		// Classification happens in checkExternalLink so 404/405 can retry as GET.
		return resp.StatusCode, nil
	}

	return s.classify(resp.StatusCode)
}

// classify maps a status code to a verification outcome.
func (s *Service) classify(statusCode int) (int, error) {
	// Authentication/authorization responses and rate limiting indicate the
	// URL exists but is restricted, not that the link is broken.
	if isAuthStatus(statusCode) || statusCode == http.StatusTooManyRequests {
		return statusCode, nil
	}

	if statusCode >= 400 {
		return statusCode, fmt.Errorf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
	}

	return statusCode, nil
}

// isAuthStatus returns true for HTTP status codes that indicate
// authentication or authorization requirements rather than broken links.
func isAuthStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
		return true
	}
	return false
}

// handleBrokenLink creates and publishes a broken link event.
func (s *Service) handleBrokenLink(ctx context.Context, runID, linkURL string, page *content.Page, status int, errorMsg string, cache *CacheEntry) {
	event := &BrokenLinkEvent{
		URL:    linkURL,
		Status: status,
		Error:  errorMsg,

		Route:              page.Route,
		SourcePath:         page.Path,
		SourceRelativePath: page.RelativePath,
		Section:            page.Section,
		Title:              page.Meta.Title,

		RunID: runID,
	}

	if cache != nil {
		event.FailureCount = cache.FailureCount
		event.FirstFailedAt = cache.FirstFailedAt
		event.LastChecked = cache.LastChecked
	}

	if err := s.cache.PublishBrokenLink(ctx, event); err != nil {
		slog.Error("Failed to publish broken link event",
			"url", linkURL,
			"source", page.RelativePath,
			"error", err)
	} else {
		slog.Warn("Broken link detected",
			"url", linkURL,
			"source", page.RelativePath,
			"status", status,
			"error", errorMsg)
	}
}

// Close closes the verification service and releases resources.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		return s.cache.Close()
	}

	return nil
}
