package redis

import (
	"context"
	"testing"
	"time"

	"kviz/internal/app"
	"kviz/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	cfg := domain.NewSessionConfig(10*time.Second, 5, "hemija")
	session := app.NewSession("s-1", cfg, sampleBank(), time.Now())
	store.Save(session)
	if !mr.Exists("quiz:session:s-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:s-1"); got != "hemija" {
		t.Fatalf("expected category marker, got %q", got)
	}
	if n, err := store.Live(context.Background()); err != nil || n != 1 {
		t.Fatalf("expected 1 live session, got %d (%v)", n, err)
	}
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("s-1")
	if mr.Exists("quiz:session:s-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}
