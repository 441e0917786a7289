package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STREETPASS_REDIS_ADDR", "localhost:6379")

	cfg := Load("")

	if cfg.ListenAddr != ":7453" {
		t.Errorf("ListenAddr = %q, want default", cfg.ListenAddr)
	}
	if cfg.NotProfileExpiry != 10*time.Minute {
		t.Errorf("NotProfileExpiry = %v, want 10m", cfg.NotProfileExpiry)
	}
	if cfg.RefreshInterval != 10*time.Minute {
		t.Errorf("RefreshInterval = %v, want 10m", cfg.RefreshInterval)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STREETPASS_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("STREETPASS_NOT_PROFILE_EXPIRY", "30m")
	t.Setenv("STREETPASS_PROFILE_REFRESH_INTERVAL", "1h")
	t.Setenv("STREETPASS_PRETTY_LOG", "false")
	t.Setenv("STREETPASS_PROFILE_CACHE_SIZE", "64")

	cfg := Load("")

	if cfg.NotProfileExpiry != 30*time.Minute {
		t.Errorf("NotProfileExpiry = %v, want 30m", cfg.NotProfileExpiry)
	}
	if cfg.RefreshInterval != time.Hour {
		t.Errorf("RefreshInterval = %v, want 1h", cfg.RefreshInterval)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog override ignored")
	}
	if cfg.ProfileCacheSize != 64 {
		t.Errorf("ProfileCacheSize = %d, want 64", cfg.ProfileCacheSize)
	}
}

func TestLoadPanicsWithoutRedisAddr(t *testing.T) {
	t.Setenv("STREETPASS_REDIS_ADDR", "")

	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing redis addr")
		}
	}()
	Load("")
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("STREETPASS_REDIS_ADDR", "localhost:6379")
	t.Setenv("STREETPASS_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("STREETPASS_PROFILE_CACHE_SIZE", "not-a-number")

	cfg := Load("")

	if cfg.SweepInterval != 10*time.Minute {
		t.Errorf("SweepInterval = %v, want default on parse failure", cfg.SweepInterval)
	}
	if cfg.ProfileCacheSize != 256 {
		t.Errorf("ProfileCacheSize = %d, want default on parse failure", cfg.ProfileCacheSize)
	}
}
