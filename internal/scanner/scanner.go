// Package scanner fetches a web page and feeds its rel=me links through
// the discovery pipeline, standing in for the extension's content script.
package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/streetpass/streetpass/internal/discovery"
	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxPageBytes        = 4 << 20
)

// Scanner fetches pages and reports their rel=me links.
type Scanner struct {
	client    *http.Client
	discovery *discovery.Service
	log       logger.Logger
}

// Options configures a Scanner.
type Options struct {
	Timeout time.Duration // page fetch timeout, defaults to 15s
	Client  *http.Client  // overrides the client, for tests
}

// New creates a Scanner.
func New(disc *discovery.Service, opts Options, log logger.Logger) *Scanner {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Scanner{client: client, discovery: disc, log: log}
}

// Scan fetches pageURL, extracts every link or anchor whose rel tokens
// include "me", and emits one observation per distinct href. Returns the
// number of links observed.
func (s *Scanner) Scan(ctx context.Context, pageURL string) (int, error) {
	if !domain.IsHTTPOrHTTPS(pageURL) {
		return 0, fmt.Errorf("not a fetchable url: %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	hrefs, err := extractRelMeHrefs(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return 0, err
	}

	// Provenance records the final URL after redirects, sanitized the way
	// the content script sanitizes window.location.
	tabURL := domain.SanitizeWebsiteURL(resp.Request.URL.String())

	for _, href := range hrefs {
		s.discovery.HandleHrefPayload(ctx, discovery.HrefPayloadArgs{
			RelMeHref: href,
			TabURL:    tabURL,
		})
	}

	s.log.Debug("page scanned",
		logger.String("page", tabURL),
		logger.Int("rel_me_links", len(hrefs)))

	return len(hrefs), nil
}

// extractRelMeHrefs returns the distinct hrefs of rel=me link and anchor
// elements, in document order.
func extractRelMeHrefs(body io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	seen := make(map[string]bool)
	var hrefs []string
	doc.Find("link[rel~='me'], a[rel~='me']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || seen[href] {
			return
		}
		seen[href] = true
		hrefs = append(hrefs, href)
	})

	return hrefs, nil
}
