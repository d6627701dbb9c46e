package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"kviz/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the question bank of a category from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, category string) ([]domain.Question, error)
}

// QuestionRepository caches question banks in Redis (hash per category) and falls
// back to a loader on cache miss.
// Questions are stored as: HSET quiz:bank:{category} {questionID} {question JSON}
type QuestionRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Load returns up to count random questions of the category.
func (r *QuestionRepository) Load(ctx context.Context, category string, count int) ([]domain.Question, error) {
	bank, err := r.Bank(ctx, category)
	if err != nil {
		return nil, err
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return domain.Pick(bank, count, r.rnd), nil
}

// Bank returns the whole bank of the category, from Redis when cached.
func (r *QuestionRepository) Bank(ctx context.Context, category string) ([]domain.Question, error) {
	key := r.bankKey(category)

	if bank := r.cached(ctx, key); len(bank) > 0 {
		return bank, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank := r.cached(ctx, key); len(bank) > 0 {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, category)
		if err != nil {
			return nil, err
		}
		if len(bank) == 0 {
			return nil, domain.ErrBankEmpty
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, q := range bank {
			raw, err := json.Marshal(q)
			if err != nil {
				continue
			}
			pipe.HSet(ctx, key, q.ID, raw)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// the cache is best-effort; the loaded bank is still served
		_, _ = pipe.Exec(ctx)

		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context, key string) []domain.Question {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return nil
	}
	return buildBankFromCache(fields)
}

func (r *QuestionRepository) bankKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "quiz:bank:" + category
}

// buildBankFromCache decodes cached entries in ID order, skipping any that no longer
// validate.
func buildBankFromCache(fields map[string]string) []domain.Question {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bank := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		var q domain.Question
		if err := json.Unmarshal([]byte(fields[id]), &q); err != nil {
			continue
		}
		if q.Validate() != nil || q.ID != id {
			continue
		}
		bank = append(bank, q)
	}
	return bank
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
