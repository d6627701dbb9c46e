package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"kviz/internal/domain"

	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the question bank of a category from a backing store
// (line-record file, Postgres, SQLite, ...).
type BankLoader interface {
	LoadBank(ctx context.Context, category string) ([]domain.Question, error)
}

// QuestionRepository caches question banks per category with TTL to avoid
// re-reading the backing store for every session.
type QuestionRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader BankLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
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

// Bank returns the whole cached bank of the category.
func (r *QuestionRepository) Bank(ctx context.Context, category string) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[category]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(category, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[category]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx, category)
		if err != nil {
			return nil, err
		}
		if len(bank) == 0 {
			return nil, domain.ErrBankEmpty
		}

		r.mu.Lock()
		r.cache[category] = cachedBank{
			questions: bank,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed bank (useful for tests/demos and as the last resort).
type StaticBankLoader struct {
	questions []domain.Question
}

func NewStaticBankLoader(questions []domain.Question) *StaticBankLoader {
	return &StaticBankLoader{questions: questions}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, category string) ([]domain.Question, error) {
	bank := domain.FilterCategory(l.questions, category)
	if len(bank) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return bank, nil
}
