// Package ratelimit provides per-client, per-endpoint token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages rate limiting for multiple clients.
// Buckets live in a go-cache and are dropped after IdleTTL without traffic.
type Limiter struct {
	config  *Config
	buckets *cache.Cache
	mu      sync.Mutex
	now     func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	ttl := config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := config.CleanupInterval
	if !config.Enabled {
		cleanup = 0
	}

	return &Limiter{
		config:  config,
		buckets: cache.New(ttl, cleanup),
		now:     time.Now,
	}
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] || Exempt(method, endpoint) {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	key := clientID + ":" + method + ":" + endpoint
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	} else {
		// Pattern rules share one bucket across ids
		key = clientID + ":" + method + ":" + endpointConfig.Path
	}

	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	bucket, burst := l.bucket(key, endpointConfig)
	now := l.now()
	allowed := bucket.AllowN(now, 1)

	tokens := bucket.TokensAt(now)
	perSecond := float64(bucket.Limit())
	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: max(0, int(tokens)),
		ResetTime: now.Add(secondsToDuration((float64(burst) - tokens) / perSecond)),
	}
	if !allowed {
		info.RetryAfter = secondsToDuration((1 - tokens) / perSecond)
	}
	return allowed, info
}

// bucket returns the limiter for key and refreshes its idle deadline
func (l *Limiter) bucket(key string, ec *EndpointConfig) (*rate.Limiter, int) {
	burst := ec.Burst
	if burst <= 0 {
		burst = ec.Limit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var bucket *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		bucket = v.(*rate.Limiter)
	} else {
		every := ec.Window / time.Duration(ec.Limit)
		bucket = rate.NewLimiter(rate.Every(every), burst)
	}
	l.buckets.SetDefault(key, bucket)
	return bucket, burst
}

// Len reports how many buckets are currently tracked.
func (l *Limiter) Len() int {
	return l.buckets.ItemCount()
}

// Stop drops every tracked bucket.
func (l *Limiter) Stop() {
	l.buckets.Flush()
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
