package webfinger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

const (
	wellKnownPath      = "/.well-known/webfinger"
	relProfilePage     = "http://webfinger.net/rel/profile-page"
	relAvatar          = "http://webfinger.net/rel/avatar"
	acctPrefix         = "acct:"
	jrdContentType     = "application/jrd+json"
	maxDocumentBytes   = 1 << 20
	defaultHTTPTimeout = 10 * time.Second
)

// Resolution failure kinds. Callers of Resolve never see these; they exist
// so the failure reason stays representable internally (and loggable), even
// though every kind collapses to the NotProfile sentinel at the boundary.
var (
	errNotFetchable  = errors.New("href is not an http(s) url")
	errDenied        = errors.New("href origin is on the deny-list")
	errNoProfilePage = errors.New("webfinger document has no profile-page link")
)

// Resolver verifies rel=me hrefs against their origin's webfinger endpoint.
type Resolver struct {
	client   *http.Client
	denylist []string
	log      logger.Logger
}

// Options configures a Resolver.
type Options struct {
	// Timeout bounds each outbound request. Defaults to 10s.
	Timeout time.Duration

	// Denylist holds URL prefixes that are known to never host webfinger.
	// Hrefs matching a prefix are rejected without a network round-trip.
	Denylist []string

	// Client overrides the HTTP client, for tests.
	Client *http.Client
}

// New creates a Resolver.
func New(opts Options, log logger.Logger) *Resolver {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Resolver{
		client:   client,
		denylist: opts.Denylist,
		log:      log,
	}
}

// Resolve attempts to verify href as a fediverse profile. It never returns
// an error: any failure, from an unfetchable href to a malformed webfinger
// document, collapses to the NotProfile sentinel.
func (r *Resolver) Resolve(ctx context.Context, href string) domain.ProfileData {
	profile, err := r.resolve(ctx, href)
	if err != nil {
		r.log.Debug("href did not resolve to a profile",
			logger.String("href", href),
			logger.Error(err))
		return domain.NotProfile()
	}
	return profile
}

func (r *Resolver) resolve(ctx context.Context, href string) (domain.ProfileData, error) {
	if !domain.IsHTTPOrHTTPS(href) {
		return domain.ProfileData{}, errNotFetchable
	}

	for _, prefix := range r.denylist {
		if strings.HasPrefix(href, prefix) {
			return domain.ProfileData{}, errDenied
		}
	}

	// GET rather than HEAD: the point of this request is the redirect
	// chain, and some servers answer HEAD differently. The final resolved
	// URL is the canonical visited URL.
	visitedURL, err := r.fetchFinalURL(ctx, href)
	if err != nil {
		return domain.ProfileData{}, err
	}

	doc, err := r.fetchDocument(ctx, visitedURL)
	if err != nil {
		return domain.ProfileData{}, err
	}

	profile := domain.ProfileData{Type: domain.KindProfile}

	if account, ok := strings.CutPrefix(doc.Subject, acctPrefix); ok {
		profile.Account = account
	}

	for _, link := range doc.Links {
		if link.Href == "" {
			continue
		}
		switch link.Rel {
		case relProfilePage:
			profile.ProfileURL = link.Href
		case relAvatar:
			profile.Avatar = link.Href
		}
	}

	if profile.ProfileURL == "" {
		return domain.ProfileData{}, errNoProfilePage
	}

	return profile, nil
}

// fetchFinalURL fetches href, following redirects, and returns the URL the
// response actually came from.
func (r *Resolver) fetchFinalURL(ctx context.Context, href string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", href, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", href, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", href, resp.StatusCode)
	}

	return resp.Request.URL, nil
}

// fetchDocument queries the webfinger endpoint at resource's origin for
// resource itself.
func (r *Resolver) fetchDocument(ctx context.Context, resource *url.URL) (*domain.Webfinger, error) {
	endpoint := &url.URL{
		Scheme:   resource.Scheme,
		Host:     resource.Host,
		Path:     wellKnownPath,
		RawQuery: url.Values{"resource": {resource.String()}}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build webfinger request: %w", err)
	}
	req.Header.Set("Accept", jrdContentType)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch webfinger %s: %w", endpoint, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch webfinger %s: status %d", endpoint, resp.StatusCode)
	}

	var doc domain.Webfinger
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode webfinger document: %w", err)
	}

	return &doc, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDocumentBytes))
	_ = body.Close()
}
