package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"kviz/internal/domain"
	"kviz/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(sampleBank())}
	repo := NewQuestionRepository(client, loader, time.Minute)

	got, err := repo.Load(context.Background(), "fizika", 2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:bank:fizika") {
		t.Fatalf("expected bank hash in redis")
	}
	if ttl := mr.TTL("quiz:bank:fizika"); ttl < time.Minute {
		t.Fatalf("expected ttl with jitter >= 1m, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	bank, err := repo.Bank(context.Background(), "fizika")
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(bank) != 3 || bank[0].ID != "q1" || bank[0].Choices[2] != "5" {
		t.Fatalf("unexpected cached bank %+v", bank)
	}
}

func TestQuestionRepositorySkipsCorruptEntries(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	mr.HSet("quiz:bank:opsta", "bad", "{not json")
	mr.HSet("quiz:bank:opsta", "q9", `{"id":"q9","pitanje":"ok","odgovori":["a","b","c","d"],"tacan":3}`)

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(sampleBank())}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	bank, err := repo.Bank(context.Background(), "opsta")
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if len(bank) != 1 || bank[0].ID != "q9" || loader.calls != 0 {
		t.Fatalf("expected only the valid cached entry, got %+v (loader calls %d)", bank, loader.calls)
	}
}

func TestQuestionRepositoryPropagatesLoaderError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuestionRepository(newClient(mr), memory.NewStaticBankLoader(nil), time.Minute)
	if _, err := repo.Load(context.Background(), "opsta", 5); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank not found, got %v", err)
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, category string) ([]domain.Question, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, category)
}

func sampleBank() []domain.Question {
	return []domain.Question{
		{ID: "q1", Prompt: "What is 2 + 2?", Choices: []string{"3", "4", "5", "6"}, Correct: 1},
		{ID: "q2", Prompt: "Unit of resistance?", Choices: []string{"Ohm", "Volt", "Ampere", "Watt"}, Correct: 0, Category: "fizika"},
		{ID: "q3", Prompt: "Unit of force?", Choices: []string{"Joule", "Newton", "Pascal", "Tesla"}, Correct: 1, Category: "fizika"},
		{ID: "q4", Prompt: "Formula of water?", Choices: []string{"H2O", "CO2", "NaCl", "O2"}, Correct: 0, Category: "hemija"},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
