package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"quiz-client/internal/domain"
	"quiz-client/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionCache caches question sets in Redis as JSON and falls back to the loader on a miss.
//
//	SET quiz:client:questions:{user|course|count|tier} {json} EX ttl
type QuestionCache struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) Questions(ctx context.Context, q domain.QuestionQuery) (domain.QuestionSet, error) {
	key := c.key(q)
	if set, ok := c.cached(ctx, key); ok {
		return set, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if set, ok := c.cached(ctx, key); ok {
			return set, nil
		}

		set, err := c.loader.Questions(ctx, q)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		if ttl := c.ttlWithJitter(); ttl > 0 {
			if raw, err := json.Marshal(set); err == nil {
				_ = c.client.Set(ctx, key, raw, ttl).Err()
			}
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (c *QuestionCache) cached(ctx context.Context, key string) (domain.QuestionSet, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (c *QuestionCache) key(q domain.QuestionQuery) string {
	return "quiz:client:questions:" + memory.CacheKey(q)
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

