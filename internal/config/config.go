package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string        // ex: ":7453"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Discovery pipeline
	NotProfileExpiry time.Duration // failed resolutions retryable after this window (default 10m)
	RefreshInterval  time.Duration // minimum time between refreshes of one record (default 10m)
	SweepInterval    time.Duration // periodic NotProfile expiry sweep (default 10m)
	ResolveTimeout   time.Duration // per-request timeout for webfinger resolution (default 10s)
	ScanTimeout      time.Duration // page fetch timeout for the scanner (default 15s)
	DenylistFile     string        // optional YAML file with extra deny-list prefixes
	ProfileCacheSize int           // LRU size for the profile relay endpoint (default 256)

	// Companion webfinger identity (optional; the responder is disabled
	// when Subject is empty)
	IdentitySubject    string // ex: "acct:streetpass@streetpass.social"
	IdentityProfileURL string // ex: "https://streetpass.social/"

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDialTimeout    time.Duration // ex: 5s
	RedisReadTimeout    time.Duration // ex: 3s
	RedisWriteTimeout   time.Duration // ex: 3s
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout per ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
}

// Load reads configuration from the environment, after loading envFile (or
// a local .env) when present. Missing required values panic: the service
// can't run without knowing where its store is.
func Load(envFile string) *Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(fmt.Sprintf("FATAL: cannot load env file %s: %v", envFile, err))
		}
	} else {
		_ = godotenv.Load() // .env is optional
	}

	return &Config{
		ListenAddr:      getenv("STREETPASS_LISTEN_ADDR", ":7453"),
		ShutdownTimeout: mustDuration("STREETPASS_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("STREETPASS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STREETPASS_PRETTY_LOG", true),

		NotProfileExpiry: mustDuration("STREETPASS_NOT_PROFILE_EXPIRY", 10*time.Minute),
		RefreshInterval:  mustDuration("STREETPASS_PROFILE_REFRESH_INTERVAL", 10*time.Minute),
		SweepInterval:    mustDuration("STREETPASS_SWEEP_INTERVAL", 10*time.Minute),
		ResolveTimeout:   mustDuration("STREETPASS_RESOLVE_TIMEOUT", 10*time.Second),
		ScanTimeout:      mustDuration("STREETPASS_SCAN_TIMEOUT", 15*time.Second),
		DenylistFile:     getenv("STREETPASS_DENYLIST_FILE", ""),
		ProfileCacheSize: getenvInt("STREETPASS_PROFILE_CACHE_SIZE", 256),

		IdentitySubject:    getenv("STREETPASS_IDENTITY_SUBJECT", ""),
		IdentityProfileURL: getenv("STREETPASS_IDENTITY_PROFILE_URL", ""),

		RedisAddr:           requireEnv("STREETPASS_REDIS_ADDR"),
		RedisUser:           getenv("STREETPASS_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("STREETPASS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("STREETPASS_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout:    mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWriteTimeout:   mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
	}
}

// helpers

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("FATAL: required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
