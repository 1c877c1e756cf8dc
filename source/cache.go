package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/yourorg/branch-search/internal/redisx"
	"github.com/yourorg/branch-search/internal/refresh"
	"go.uber.org/zap"
)

// Store is the subset of redisx.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, val string, ttl time.Duration) error
}

type cachedEnvelope struct {
	Body []byte `json:"body"`
	Meta struct {
		LastFetch  time.Time `json:"last_fetch_at"`
		StaleAfter time.Time `json:"stale_after"`
	} `json:"meta"`
}

// CachedGetter serves upstream payloads from a Store. Entries past
// StaleAfter are still served, and a background refresh is queued.
// Requests marked WithFresh always go upstream and update the entry.
type CachedGetter struct {
	next       Getter
	store      Store
	ttl        time.Duration
	staleAfter time.Duration
	log        *zap.Logger
	now        func() time.Time

	Refresher *refresh.Refresher // optional
}

func NewCachedGetter(next Getter, store Store, ttl, staleAfter time.Duration, log *zap.Logger) *CachedGetter {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedGetter{
		next:       next,
		store:      store,
		ttl:        maxDur(ttl, time.Hour),
		staleAfter: maxDur(staleAfter, 5*time.Minute),
		log:        log,
		now:        time.Now,
	}
}

func (c *CachedGetter) Get(ctx context.Context, u string) ([]byte, error) {
	key := cacheKey(u)
	if !isFresh(ctx) {
		if env, ok := c.lookup(ctx, key); ok {
			if c.now().After(env.Meta.StaleAfter) && c.Refresher != nil {
				c.Refresher.Enqueue(refresh.Job{Key: key, URL: u})
			}
			return env.Body, nil
		}
	}
	body, err := c.next.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, body)
	return body, nil
}

// Revalidate is the refresh.Refresher callback.
func (c *CachedGetter) Revalidate(ctx context.Context, j refresh.Job) {
	body, err := c.next.Get(ctx, j.URL)
	if err != nil {
		c.log.Warn("cache revalidate failed", zap.String("key", j.Key), zap.Error(err))
		return
	}
	c.put(ctx, j.Key, body)
}

func (c *CachedGetter) lookup(ctx context.Context, key string) (cachedEnvelope, bool) {
	var env cachedEnvelope
	val, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisx.ErrMiss) {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return env, false
	}
	if err := json.Unmarshal([]byte(val), &env); err != nil {
		c.log.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return env, false
	}
	return env, true
}

func (c *CachedGetter) put(ctx context.Context, key string, body []byte) {
	env := cachedEnvelope{Body: body}
	env.Meta.LastFetch = c.now()
	env.Meta.StaleAfter = env.Meta.LastFetch.Add(c.staleAfter)
	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, string(b), c.ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(u string) string {
	sum := sha256.Sum256([]byte(u))
	return "branch:payload:" + hex.EncodeToString(sum[:])
}

func maxDur(a, b time.Duration) time.Duration {
	if a > 0 {
		return a
	}
	return b
}
