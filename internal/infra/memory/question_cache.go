package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"quiz-client/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from the backend.
type QuestionLoader interface {
	Questions(ctx context.Context, q domain.QuestionQuery) (domain.QuestionSet, error)
}

// QuestionCache keeps fetched question sets for a TTL to avoid refetching a course
// on every run.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (c *QuestionCache) Questions(ctx context.Context, q domain.QuestionQuery) (domain.QuestionSet, error) {
	key := CacheKey(q)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.set, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.set, nil
		}
		c.mu.RUnlock()

		set, err := c.loader.Questions(ctx, q)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		c.mu.Lock()
		c.cache[key] = cachedSet{
			set:       set,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// CacheKey identifies a question fetch; the token is left out on purpose so a
// rotated token still hits the same entry.
func CacheKey(q domain.QuestionQuery) string {
	tier := "free"
	if q.Subscribed {
		tier = "sub"
	}
	return q.Username + "|" + q.Course + "|" + strconv.Itoa(q.Count) + "|" + tier
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
