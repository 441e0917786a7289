package domain

// ProfileKind discriminates the two outcomes of a resolution attempt.
type ProfileKind string

const (
	// KindProfile means the href resolved to a verified fediverse profile.
	KindProfile ProfileKind = "profile"
	// KindNotProfile means the resolution attempt found no verified profile.
	KindNotProfile ProfileKind = "notProfile"
)

// ProfileData is the tagged result of resolving a rel=me href.
// The zero value is not meaningful; use NotProfile() for the sentinel.
type ProfileData struct {
	Type ProfileKind `json:"type"`

	// ProfileURL is the canonical profile page. Set only when Type is
	// KindProfile; a resolution without a profile-page link is NotProfile.
	ProfileURL string `json:"profileUrl,omitempty"`

	// Account is the webfinger subject with the acct: prefix stripped.
	// Example: "alice@example.com". Optional.
	Account string `json:"account,omitempty"`

	// Avatar is the webfinger avatar link, if any.
	Avatar string `json:"avatar,omitempty"`
}

// NotProfile returns the sentinel for a failed or negative resolution.
func NotProfile() ProfileData {
	return ProfileData{Type: KindNotProfile}
}

// IsProfile reports whether p carries verified profile data.
func (p ProfileData) IsProfile() bool {
	return p.Type == KindProfile
}

// Equal compares every field of two results. Used by the refresh path to
// decide whether a re-resolution actually changed anything.
func (p ProfileData) Equal(other ProfileData) bool {
	return p.Type == other.Type &&
		p.ProfileURL == other.ProfileURL &&
		p.Account == other.Account &&
		p.Avatar == other.Avatar
}

// HrefData is one discovery record, keyed by the raw rel=me href as found
// on the page.
type HrefData struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// RelMeHref is the raw link as observed. Primary key within the store.
	RelMeHref string `json:"relMeHref"`

	// ─────────────────────────────
	// Resolution result
	// ─────────────────────────────

	ProfileData ProfileData `json:"profileData"`

	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	// WebsiteURL is the sanitized URL of the page the link was found on.
	WebsiteURL string `json:"websiteUrl"`

	// ViewedAt is the first observation time, in milliseconds since epoch.
	// Immutable once set: re-observing the same href keeps the original.
	ViewedAt int64 `json:"viewedAt"`

	// UpdatedAt is the last re-resolution attempt, in milliseconds since
	// epoch. Zero until the first refresh.
	UpdatedAt int64 `json:"updatedAt,omitempty"`

	// Hidden marks a record the user dismissed from the profile list.
	Hidden bool `json:"hidden,omitempty"`
}

// LastCheckedAt returns the most recent time a resolution was attempted for
// this record, which gates the refresh staleness window.
func (h HrefData) LastCheckedAt() int64 {
	if h.UpdatedAt != 0 {
		return h.UpdatedAt
	}
	return h.ViewedAt
}

// Webfinger is the RFC 7033 document subset the resolver reads.
type Webfinger struct {
	Subject    string            `json:"subject"`
	Aliases    []string          `json:"aliases,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Links      []WebfingerLink   `json:"links,omitempty"`
}

// WebfingerLink is one entry of a webfinger document's links array.
type WebfingerLink struct {
	Rel        string            `json:"rel"`
	Type       string            `json:"type,omitempty"`
	Href       string            `json:"href,omitempty"`
	Titles     map[string]string `json:"titles,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// IconState is the process-wide UI affordance derived from store growth.
type IconState struct {
	// State is "on" once at least one profile has ever been discovered.
	State string `json:"state"`

	// UnreadCount is the number of profiles discovered since the user last
	// looked at the list.
	UnreadCount int `json:"unreadCount,omitempty"`
}

// IconOff is the initial icon state before any profile is discovered.
func IconOff() IconState {
	return IconState{State: "off"}
}

// Settings holds the user-controlled knobs persisted alongside the stores.
type Settings struct {
	// ProfileURLScheme templates outbound profile links. Supports the
	// {account} and {profileUrl.noProtocol} placeholders.
	ProfileURLScheme string `json:"profileUrlScheme,omitempty"`

	// HideProfilesOnClick enables the hide-on-click message.
	HideProfilesOnClick bool `json:"hideProfilesOnClick,omitempty"`
}
