package domain

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped from observed page URLs.
// UTM parameters plus the yahoo consent trackers.
var trackingParams = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_term",
	"utm_content",
	"guccounter",
	"guce_referrer",
	"guce_referrer_sig",
}

// IsHTTPOrHTTPS reports whether raw parses as an absolute http or https
// URL. False for empty or unparseable input. Never panics.
func IsHTTPOrHTTPS(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// SanitizeWebsiteURL strips the fragment and known tracking query
// parameters from a page URL before it is recorded as provenance.
// Unparseable input is returned unchanged.
func SanitizeWebsiteURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Fragment = ""

	query := u.Query()
	for _, param := range trackingParams {
		query.Del(param)
	}
	u.RawQuery = query.Encode()

	return u.String()
}

// DisplayHref renders an href the way the profile list shows it:
// host and path with the scheme, a leading "www." and any trailing slash
// removed, query string preserved.
func DisplayHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	path := strings.TrimSuffix(u.Path, "/")

	display := u.Host + path
	if u.RawQuery != "" {
		display += "?" + u.RawQuery
	}

	return strings.TrimPrefix(display, "www.")
}
