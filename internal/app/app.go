package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/streetpass/streetpass/internal/config"
	"github.com/streetpass/streetpass/internal/discovery"
	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/httpserver"
	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/logger"
	"github.com/streetpass/streetpass/internal/redis"
	"github.com/streetpass/streetpass/internal/scanner"
	"github.com/streetpass/streetpass/internal/scheduler"
	"github.com/streetpass/streetpass/internal/store"
	"github.com/streetpass/streetpass/internal/version"
	"github.com/streetpass/streetpass/internal/webfinger"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sweeper     *scheduler.Sweeper
}

// New wires the whole service: config, logger, redis, stores, resolver,
// discovery, scanner, sweeper, HTTP server. Fatal misconfiguration exits
// here rather than limping into Run.
func New(envFile string) *App {
	cfg := config.Load(envFile)

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis backs every store slot; fail fast if it is unreachable.
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// The icon store exists before the href store so the href change hook
	// can bump the unread counter.
	icon := store.NewIcon(store.NewRedisSlot(redisClient, store.KeyIcon), loggerClient)
	hrefs := store.NewHrefs(store.NewRedisSlot(redisClient, store.KeyHrefs), icon, loggerClient)
	settings := store.NewSettings(store.NewRedisSlot(redisClient, store.KeySettings), loggerClient)

	denylist, err := webfinger.LoadDenylist(cfg.DenylistFile)
	if err != nil {
		loggerClient.Errorf("Failed to load deny-list %s: %v", cfg.DenylistFile, err)
		os.Exit(1)
	}
	if cfg.DenylistFile != "" {
		loggerClient.Info("deny-list loaded",
			logger.String("file", cfg.DenylistFile),
			logger.Int("entries", len(denylist)))
	}

	resolver := webfinger.New(webfinger.Options{
		Timeout:  cfg.ResolveTimeout,
		Denylist: denylist,
	}, loggerClient)

	disc := discovery.New(hrefs, settings, resolver, discovery.Options{
		NotProfileExpiry: cfg.NotProfileExpiry,
		RefreshInterval:  cfg.RefreshInterval,
	}, loggerClient)

	scan := scanner.New(disc, scanner.Options{Timeout: cfg.ScanTimeout}, loggerClient)

	sweeper := scheduler.NewSweeper(disc, loggerClient, cfg.SweepInterval)

	profileCache, err := lru.New[string, domain.ProfileData](cfg.ProfileCacheSize)
	if err != nil {
		loggerClient.Errorf("Failed to build profile cache: %v", err)
		os.Exit(1)
	}

	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		TimeNow:   time.Now,
		Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		Discovery:          disc,
		Hrefs:              hrefs,
		Icon:               icon,
		Settings:           settings,
		Scanner:            scan,
		Resolver:           resolver,
		ProfileCache:       profileCache,
		IdentitySubject:    cfg.IdentitySubject,
		IdentityProfileURL: cfg.IdentityProfileURL,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sweeper:     sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting streetpass %s (commit=%s, built=%s, go=%s) on %s",
		version.Version, version.Commit, version.BuildDate, version.GoVersion, a.cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.sweeper.Start(ctx)
	a.logger.Info("expiry sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("streetpass stopped cleanly")
	return nil
}
