package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	store := NewRedisStore(&redis.Options{Addr: s.Addr()}, "hive:", zerolog.Nop())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.WriteText(ctx, "active_spec", "# Active Specification\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := store.ReadText(ctx, "active_spec")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "# Active Specification\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestRedisStoreNotFound(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if _, err := store.ReadText(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on read, got %v", err)
	}
	if err := store.DeleteText(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.WriteText(ctx, "doc", "content"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.DeleteText(ctx, "doc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.ReadText(ctx, "doc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
