package config

import "time"

// CacheConfig defines settings for the response cache middleware. The only
// cached surface is the public price table, which changes when the studio
// updates its rates and redeploys, so a short TTL is plenty. When Enabled
// is false or no Redis client is available, caching is disabled.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 5*time.Minute),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
