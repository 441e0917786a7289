package webfinger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

func testResolver(t *testing.T, opts Options) *Resolver {
	t.Helper()
	return New(opts, logger.New("error", false))
}

func TestResolveFollowsRedirectAndStripsAcct(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	var webfingerResource string
	mux.HandleFunc("/@alice", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/users/alice", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/.well-known/webfinger", func(w http.ResponseWriter, r *http.Request) {
		webfingerResource = r.URL.Query().Get("resource")
		w.Header().Set("Content-Type", "application/jrd+json")
		_, _ = w.Write([]byte(`{
			"subject": "acct:alice@example.com",
			"links": [
				{"rel": "http://webfinger.net/rel/profile-page", "type": "text/html", "href": "https://example.com/@alice"},
				{"rel": "http://webfinger.net/rel/avatar", "href": "https://example.com/avatar.png"}
			]
		}`))
	})

	got := testResolver(t, Options{}).Resolve(context.Background(), server.URL+"/@alice")

	want := domain.ProfileData{
		Type:       domain.KindProfile,
		ProfileURL: "https://example.com/@alice",
		Account:    "alice@example.com",
		Avatar:     "https://example.com/avatar.png",
	}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}

	// The webfinger resource must be the post-redirect URL.
	if webfingerResource != server.URL+"/users/alice" {
		t.Errorf("webfinger resource = %q, want post-redirect url", webfingerResource)
	}
}

func TestResolveCollapsesToNotProfile(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "page fetch fails",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "webfinger endpoint missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/.well-known/webfinger" {
					http.NotFound(w, r)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/.well-known/webfinger" {
					_, _ = w.Write([]byte(`{"subject": `))
					return
				}
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "no profile-page link",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/.well-known/webfinger" {
					_, _ = w.Write([]byte(`{"subject": "acct:a@b", "links": [{"rel": "self", "href": "https://x"}]}`))
					return
				}
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "profile-page link without href",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/.well-known/webfinger" {
					_, _ = w.Write([]byte(`{"subject": "acct:a@b", "links": [{"rel": "http://webfinger.net/rel/profile-page"}]}`))
					return
				}
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got := testResolver(t, Options{}).Resolve(context.Background(), server.URL+"/page")
			if got.IsProfile() {
				t.Errorf("Resolve() = %+v, want NotProfile", got)
			}
		})
	}
}

func TestResolveRejectsWithoutNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	resolver := testResolver(t, Options{Denylist: []string{server.URL + "/denied"}})

	tests := []struct {
		name string
		href string
	}{
		{name: "not a url", href: "not a url"},
		{name: "non-http scheme", href: "ftp://example.com"},
		{name: "empty", href: ""},
		{name: "denied prefix", href: server.URL + "/denied/profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(context.Background(), tt.href)
			if got.IsProfile() {
				t.Errorf("Resolve(%q) = %+v, want NotProfile", tt.href, got)
			}
		})
	}

	if requests != 0 {
		t.Errorf("expected no network requests, got %d", requests)
	}
}

func TestDefaultDenylistBlocksKnownHosts(t *testing.T) {
	resolver := testResolver(t, Options{Denylist: DefaultDenylist()})

	for _, href := range []string{
		"https://twitter.com/someone",
		"https://instagram.com/someone",
		"https://github.com/someone",
	} {
		if got := resolver.Resolve(context.Background(), href); got.IsProfile() {
			t.Errorf("Resolve(%q) should be denied", href)
		}
	}
}
