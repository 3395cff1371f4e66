package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs from the environment.
type Config struct {
	ListenAddr      string
	GatewayAPIKey   string
	GatewayBaseURL  string
	Model           string
	SupabaseURL     string
	SupabaseAnonKey string
	CacheDriver     string
	CacheTTL        time.Duration
	RedisAddr       string
}

const (
	defaultListenAddr  = ":8080"
	defaultModel       = "google/gemini-2.5-flash"
	defaultCacheDriver = "memory"
	defaultCacheTTL    = 5 * time.Minute
)

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load()

	apiKey := os.Getenv("GATEWAY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("config: GATEWAY_API_KEY is required")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, fmt.Errorf("config: SUPABASE_URL is required")
	}
	supabaseKey := os.Getenv("SUPABASE_ANON_KEY")
	if supabaseKey == "" {
		return nil, fmt.Errorf("config: SUPABASE_ANON_KEY is required")
	}

	cfg := &Config{
		ListenAddr:      envString("SPARRING_ADDR", defaultListenAddr),
		GatewayAPIKey:   apiKey,
		GatewayBaseURL:  os.Getenv("GATEWAY_BASE_URL"), // empty means the client default
		Model:           envString("GATEWAY_MODEL", defaultModel),
		SupabaseURL:     supabaseURL,
		SupabaseAnonKey: supabaseKey,
		CacheDriver:     envString("CACHE_DRIVER", defaultCacheDriver),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}

	ttl, err := envDuration("CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	switch cfg.CacheDriver {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("config: REDIS_ADDR is required when CACHE_DRIVER=redis")
		}
	default:
		return nil, fmt.Errorf("config: invalid CACHE_DRIVER %q", cfg.CacheDriver)
	}

	return cfg, nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	// Accept plain seconds as well as Go duration syntax.
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return d, nil
}
