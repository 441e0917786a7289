package domain

import (
	"net/url"
	"sort"
	"strings"
)

// ListOptions controls which records ListProfiles returns.
type ListOptions struct {
	// Hidden selects records the user dismissed instead of visible ones.
	Hidden bool
}

// ListProfiles derives the display-ready profile list from a store
// snapshot: records with verified profile data whose Hidden flag matches
// the requested visibility, most recently encountered first.
//
// Records stay keyed by the raw observed href, so two hrefs that resolve
// to the same profile URL list separately. That preserves "discovered via
// this link" provenance.
func ListProfiles(snapshot *HrefMap, opts ListOptions) []HrefData {
	profiles := make([]HrefData, 0, snapshot.Len())
	for _, record := range snapshot.Values() {
		if !record.ProfileData.IsProfile() {
			continue
		}
		if record.Hidden != opts.Hidden {
			continue
		}
		profiles = append(profiles, record)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].ViewedAt > profiles[j].ViewedAt
	})

	return profiles
}

// CountProfiles returns the number of visible verified profiles in a
// snapshot. The icon notifier compares this across mutations.
func CountProfiles(snapshot *HrefMap) int {
	return len(ListProfiles(snapshot, ListOptions{}))
}

// ProfileURL renders the outbound link for a profile, applying the
// user-configured URL scheme when set. The scheme supports {account} and
// {profileUrl.noProtocol} placeholders.
func ProfileURL(p ProfileData, scheme string) string {
	if scheme == "" {
		return p.ProfileURL
	}

	result := scheme

	if strings.Contains(result, "{account}") {
		if p.Account == "" {
			return p.ProfileURL
		}
		result = strings.ReplaceAll(result, "{account}", p.Account)
	}

	if strings.Contains(result, "{profileUrl.noProtocol}") {
		u, err := url.Parse(p.ProfileURL)
		if err != nil {
			return p.ProfileURL
		}
		noProtocol := strings.TrimPrefix(p.ProfileURL, u.Scheme+":")
		result = strings.ReplaceAll(result, "{profileUrl.noProtocol}", noProtocol)
	}

	return fixMastodonAccountPath(result, p.Account)
}

// fixMastodonAccountPath strips a redundant local-domain suffix from
// /@user@host paths. A templated URL like
// https://mastodon.social/@tvler@mastodon.social doesn't resolve on
// mastodon, so /@{account} on the account's own host loses the domain.
// https://github.com/mastodon/mastodon/issues/21469
func fixMastodonAccountPath(href, account string) string {
	if account == "" || !IsHTTPOrHTTPS(href) {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Path != "/@"+account {
		return href
	}
	trimmed := strings.TrimSuffix(u.Path, "@"+u.Host)
	if trimmed == u.Path {
		return href
	}
	u.Path = trimmed
	return u.String()
}
