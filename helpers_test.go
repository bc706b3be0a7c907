package goShop

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goShop/storage"
	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"rol": role,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func newTestEngine(t *testing.T) (*Engine, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	engine, err := New().WithStorage(store).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, store
}

func setToken(t *testing.T, store storage.Store, raw string) {
	t.Helper()

	if err := store.Set(context.Background(), "token", raw); err != nil {
		t.Fatalf("seed token failed: %v", err)
	}
}
