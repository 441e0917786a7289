package discovery

import (
	"context"
	"net/url"
	"time"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
	"github.com/streetpass/streetpass/internal/store"
)

const (
	// DefaultNotProfileExpiry is how long a failed resolution blocks
	// re-attempts for the same href.
	DefaultNotProfileExpiry = 10 * time.Minute
	// DefaultRefreshInterval is the minimum time between refreshes of the
	// same record, no matter how often the UI asks.
	DefaultRefreshInterval = 10 * time.Minute
)

// ProfileResolver is the slice of the webfinger resolver the orchestrator
// needs. It never fails; failures arrive as the NotProfile sentinel.
type ProfileResolver interface {
	Resolve(ctx context.Context, href string) domain.ProfileData
}

// Service handles the observation channel's messages. All resolution
// happens before the store mutation it feeds: a slow or hung network call
// stalls only its own discovery, never the store queue.
type Service struct {
	hrefs    *store.Hrefs
	settings *store.SettingsStore
	resolver ProfileResolver
	log      logger.Logger

	notProfileExpiry time.Duration
	refreshInterval  time.Duration
	now              func() time.Time
}

// Options configures a Service.
type Options struct {
	NotProfileExpiry time.Duration // defaults to DefaultNotProfileExpiry
	RefreshInterval  time.Duration // defaults to DefaultRefreshInterval
	Now              func() time.Time
}

// New creates the orchestrator.
func New(hrefs *store.Hrefs, settings *store.SettingsStore, resolver ProfileResolver, opts Options, log logger.Logger) *Service {
	if opts.NotProfileExpiry <= 0 {
		opts.NotProfileExpiry = DefaultNotProfileExpiry
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		hrefs:            hrefs,
		settings:         settings,
		resolver:         resolver,
		log:              log,
		notProfileExpiry: opts.NotProfileExpiry,
		refreshInterval:  opts.RefreshInterval,
		now:              opts.Now,
	}
}

// HandleHrefPayload processes one newly observed rel=me link. Re-observing
// a known href is a no-op; expired NotProfile records are pruned first so
// previously failed links get another chance.
func (s *Service) HandleHrefPayload(ctx context.Context, args HrefPayloadArgs) {
	nowMs := s.now().UnixMilli()

	snapshot := s.hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		next := prev.Clone()
		s.expireNotProfiles(next, nowMs)
		return next, true
	})

	if snapshot.Has(args.RelMeHref) {
		return
	}

	profileData := s.resolver.Resolve(ctx, args.RelMeHref)

	s.hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		next := prev.Clone()
		next.Set(domain.HrefData{
			RelMeHref:   args.RelMeHref,
			ProfileData: profileData,
			WebsiteURL:  args.TabURL,
			ViewedAt:    s.now().UnixMilli(),
		})
		return next, true
	})

	if profileData.IsProfile() {
		s.log.Info("discovered profile",
			logger.String("profile_url", profileData.ProfileURL),
			logger.String("website", args.TabURL))
	}
}

// HandleFetchProfileUpdate re-resolves a known record once its staleness
// window has passed. Returns true only when the stored profile data
// actually changed; a refresh that confirms the stored data still bumps
// UpdatedAt so the window restarts.
func (s *Service) HandleFetchProfileUpdate(ctx context.Context, args FetchProfileUpdateArgs) bool {
	if _, err := url.Parse(args.RelMeHref); err != nil {
		return false
	}

	existing, ok := s.hrefs.Snapshot(ctx).Get(args.RelMeHref)
	if !ok {
		// Refresh never creates records.
		return false
	}

	if existing.LastCheckedAt()+s.refreshInterval.Milliseconds() > s.now().UnixMilli() {
		return false
	}

	resolved := s.resolver.Resolve(ctx, args.RelMeHref)

	updated := false
	s.hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		record, ok := prev.Get(args.RelMeHref)
		if !ok {
			return nil, false
		}

		updated = resolved.IsProfile() && !record.ProfileData.Equal(resolved)
		if updated {
			record.ProfileData = resolved
		}
		record.UpdatedAt = s.now().UnixMilli()

		next := prev.Clone()
		next.Set(record)
		return next, true
	})

	return updated
}

// HandleHideProfileOnClick hides an existing record from the profile list.
// Gated behind the HideProfilesOnClick setting; returns whether the record
// was hidden.
func (s *Service) HandleHideProfileOnClick(ctx context.Context, args HideProfileOnClickArgs) bool {
	if !s.settings.Get(ctx).HideProfilesOnClick {
		return false
	}

	hidden := false
	s.hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		record, ok := prev.Get(args.RelMeHref)
		if !ok {
			return nil, false
		}
		record.Hidden = true
		next := prev.Clone()
		next.Set(record)
		hidden = true
		return next, true
	})
	return hidden
}

// ExpireNotProfiles prunes stale failed resolutions in one mutation cycle.
// The payload path does this opportunistically; the scheduler calls it
// periodically so the store shrinks even when no new links arrive.
func (s *Service) ExpireNotProfiles(ctx context.Context) int {
	nowMs := s.now().UnixMilli()
	expired := 0
	s.hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		next := prev.Clone()
		expired = s.expireNotProfiles(next, nowMs)
		if expired == 0 {
			return nil, false
		}
		return next, true
	})
	return expired
}

func (s *Service) expireNotProfiles(m *domain.HrefMap, nowMs int64) int {
	expired := 0
	for _, record := range m.Values() {
		if record.ProfileData.IsProfile() {
			continue
		}
		if record.ViewedAt+s.notProfileExpiry.Milliseconds() < nowMs {
			m.Delete(record.RelMeHref)
			expired++
		}
	}
	return expired
}
