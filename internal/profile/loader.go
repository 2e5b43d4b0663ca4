package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/models"
)

const cacheKey = "profile:document"

// Loader reads the Profile Document. The document is re-read on every
// request by default so edits are picked up immediately. When a cache
// TTL is configured the parsed document is held in Redis and invalidated
// strictly by time, never by process lifetime.
type Loader struct {
	path  string
	redis *redis.Client
	ttl   time.Duration
}

// NewLoader builds a loader. redisClient may be nil and ttl zero, in
// which case every Load hits the filesystem.
func NewLoader(path string, redisClient *redis.Client, ttl time.Duration) *Loader {
	return &Loader{path: path, redis: redisClient, ttl: ttl}
}

func (l *Loader) Load(ctx context.Context) (*models.Profile, error) {
	if l.cacheEnabled() {
		if data, err := l.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var p models.Profile
			if json.Unmarshal(data, &p) == nil {
				return &p, nil
			}
		}
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile document: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile document: %w", err)
	}

	if l.cacheEnabled() {
		if encoded, err := json.Marshal(&p); err == nil {
			// Best effort: a failed cache write never fails the request.
			l.redis.Set(ctx, cacheKey, encoded, l.ttl)
		}
	}

	return &p, nil
}

func (l *Loader) cacheEnabled() bool {
	return l.redis != nil && l.ttl > 0
}
