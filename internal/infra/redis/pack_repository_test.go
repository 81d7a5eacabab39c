package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ismailukman/millionaire-live/internal/domain"
	"github.com/ismailukman/millionaire-live/internal/infra/memory"
)

func TestPackRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		PackLoader: memory.NewStaticPackLoader(map[string]domain.Pack{
			memory.DefaultPackID: memory.DefaultPack(),
		}),
	}
	repo := NewPackRepository(client, loader, time.Minute)

	pack, err := repo.GetPack(context.Background(), memory.DefaultPackID)
	if err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(pack.Questions) != 16 {
		t.Fatalf("pack questions = %d, want 16", len(pack.Questions))
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetPack(context.Background(), memory.DefaultPackID)
	if err != nil {
		t.Fatalf("get pack 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.ID != pack.ID || len(cached.Config.Amounts) != domain.LadderLevels {
		t.Fatalf("cached pack mangled: %+v", cached.Config)
	}
}

func TestPackRepositoryMissPassesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewPackRepository(newClient(mr), memory.NewStaticPackLoader(nil), time.Minute)
	_, err = repo.GetPack(context.Background(), "nope")
	if !errors.Is(err, domain.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

type countingLoader struct {
	memory.PackLoader
	calls int
}

func (l *countingLoader) LoadPack(ctx context.Context, packID string) (domain.Pack, error) {
	l.calls++
	return l.PackLoader.LoadPack(ctx, packID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
