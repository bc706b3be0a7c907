package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(rdb, prefix)

	return store, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr, done := newRedisStore(t, "gs")
	defer done()

	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := store.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// the prefix namespaces the underlying key
	if !mr.Exists("gs:token") {
		t.Fatalf("expected gs:token in redis")
	}

	value, err := store.Get(ctx, "token")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "abc" {
		t.Fatalf("expected abc, got %q", value)
	}

	if err := store.Delete(ctx, "token"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestRedisStoreClearScopedToPrefix(t *testing.T) {
	ctx := context.Background()
	store, mr, done := newRedisStore(t, "gs")
	defer done()

	if err := store.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "carrito", "[]"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := mr.Set("other:token", "keep"); err != nil {
		t.Fatalf("seed foreign key failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if mr.Exists("gs:token") || mr.Exists("gs:carrito") {
		t.Fatalf("expected prefixed keys cleared")
	}
	if !mr.Exists("other:token") {
		t.Fatalf("expected foreign key untouched by clear")
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr, done := newRedisStore(t, "gs")
	defer done()

	mr.Close()

	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := store.Set(ctx, "token", "abc"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on set, got %v", err)
	}
}
