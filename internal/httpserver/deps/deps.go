package deps

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/streetpass/streetpass/internal/discovery"
	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
	"github.com/streetpass/streetpass/internal/scanner"
	"github.com/streetpass/streetpass/internal/store"
)

// Deps carries everything route handlers need. Constructed once in app
// wiring and passed by reference; handlers never reach for globals.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	// Ping probes the backing store; readiness reports down when it fails.
	Ping func(ctx context.Context) error

	Discovery *discovery.Service
	Hrefs     *store.Hrefs
	Icon      *store.Icon
	Settings  *store.SettingsStore
	Scanner   *scanner.Scanner

	// Resolver backs the profile relay endpoint.
	Resolver     discovery.ProfileResolver
	ProfileCache *lru.Cache[string, domain.ProfileData]

	// Companion webfinger identity; the responder route 404s when
	// IdentitySubject is empty.
	IdentitySubject    string
	IdentityProfileURL string
}
