package goShop

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goShop/storage"
)

// stubAPI is a canned LoginAPI for engine tests.
type stubAPI struct {
	result LoginResult
	err    error
	calls  int
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (LoginResult, error) {
	s.calls++
	return s.result, s.err
}

func newEngineWithAPI(t *testing.T, api LoginAPI) (*Engine, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	engine, err := New().WithStorage(store).WithAPI(api).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, store
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	api := &stubAPI{result: LoginResult{AccessToken: "tok-abc", User: "ana@tienda.com"}}
	engine, store := newEngineWithAPI(t, api)
	ctx := context.Background()

	resume, err := engine.Login(ctx, "ana@tienda.com", "secreta")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resume != "/" {
		t.Fatalf("expected default resume path /, got %q", resume)
	}

	token, err := store.Get(ctx, "token")
	if err != nil || token != "tok-abc" {
		t.Fatalf("expected token persisted, got %q err %v", token, err)
	}
	user, err := store.Get(ctx, "user")
	if err != nil || user != "ana@tienda.com" {
		t.Fatalf("expected user persisted, got %q err %v", user, err)
	}
}

func TestLoginConsumesRecordedReturnURL(t *testing.T) {
	api := &stubAPI{result: LoginResult{AccessToken: "tok-abc", User: "ana@tienda.com"}}
	engine, _ := newEngineWithAPI(t, api)
	ctx := context.Background()

	decision := engine.Authorize(ctx, Route{FullPath: "/pedidos", RequiresAuth: true})
	if decision.Kind != DecisionRedirectLogin {
		t.Fatalf("expected login redirect, got %v", decision.Kind)
	}

	resume, err := engine.Login(ctx, "ana@tienda.com", "secreta")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resume != "/pedidos" {
		t.Fatalf("expected resume at recorded path, got %q", resume)
	}

	// the recorded path is consumed, a second login falls back to default
	resume, err = engine.Login(ctx, "ana@tienda.com", "secreta")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if resume != "/" {
		t.Fatalf("expected default resume after consumption, got %q", resume)
	}
}

func TestLoginFailureLeavesStorageUntouched(t *testing.T) {
	api := &stubAPI{err: errors.New("401 unauthorized")}
	engine, store := newEngineWithAPI(t, api)
	ctx := context.Background()

	_, err := engine.Login(ctx, "ana@tienda.com", "wrong")
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}

	if _, err := store.Get(ctx, "token"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("expected no token persisted, got %v", err)
	}
	if _, err := store.Get(ctx, "user"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("expected no user persisted, got %v", err)
	}
	if engine.MetricsSnapshot().Get(MetricLoginFailure) != 1 {
		t.Fatalf("expected login failure counted")
	}
}

func TestLoginWithoutAPI(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.Login(context.Background(), "a@b.c", "x"); !errors.Is(err, ErrAPINotConfigured) {
		t.Fatalf("expected ErrAPINotConfigured, got %v", err)
	}
}

func TestLogoutClearsMirrorAndReturnURL(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	setToken(t, store, mintToken(t, validClaims("admin")))
	if err := store.Set(ctx, "user", "ana@tienda.com"); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	if err := engine.Cart().Add(ctx, product(1, 10), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	engine.Authorize(ctx, Route{FullPath: "/pedidos", RequiresAuth: true})

	if err := engine.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	for _, key := range []string{"token", "user", "carrito"} {
		if _, err := store.Get(ctx, key); !errors.Is(err, storage.ErrKeyNotFound) {
			t.Fatalf("expected %q cleared, got %v", key, err)
		}
	}
	if engine.ReturnURL() != "" {
		t.Fatalf("expected recorded return path reset")
	}
	if engine.MetricsSnapshot().Get(MetricLogout) != 1 {
		t.Fatalf("expected logout counted")
	}

	// in-memory cart survives and rewrites the mirror on the next mutation
	if engine.Cart().Len() != 1 {
		t.Fatalf("expected in-memory cart to survive logout")
	}
	if err := engine.Cart().Increment(ctx, 1); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if items := mirrorItems(t, store); len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected mirror rewritten after logout, got %v", items)
	}
}

func TestRevokeDeletesSessionKeysOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	setToken(t, store, "corrupt")
	if err := store.Set(ctx, "user", "ana@tienda.com"); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	if err := engine.Cart().Add(ctx, product(1, 10), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := engine.Revoke(ctx); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	for _, key := range []string{"token", "user"} {
		if _, err := store.Get(ctx, key); !errors.Is(err, storage.ErrKeyNotFound) {
			t.Fatalf("expected %q deleted, got %v", key, err)
		}
	}
	if items := mirrorItems(t, store); len(items) != 1 {
		t.Fatalf("expected cart mirror untouched by revoke, got %v", items)
	}
	if engine.MetricsSnapshot().Get(MetricSessionRevoked) != 1 {
		t.Fatalf("expected revocation counted")
	}
}
