package goShop

import (
	"context"
	"time"

	"github.com/MrEthical07/goShop/storage"
	"github.com/MrEthical07/goShop/token"
)

// CurrentValidToken is the stateless session guard: it derives a validity
// verdict from the raw token stored under key and the current time, and
// returns the raw token only when the verdict is valid.
//
// A token is valid iff it is present, decodable, carries a numeric `exp`
// strictly in the future, and carries a truthy `rol` claim. Every failure
// mode — absent, malformed, expired — collapses to "" (fail closed). The
// guard never mutates storage on an invalid verdict; revocation is the
// authorizer's responsibility.
func CurrentValidToken(ctx context.Context, store storage.Store, key string) string {
	// An unreachable store is treated like an absent token: deny rather
	// than grant.
	raw, err := store.Get(ctx, key)
	if err != nil {
		return ""
	}

	claims := token.Decode(raw)
	if claims == nil {
		return ""
	}

	exp, ok := claims.ExpiresAt()
	if !ok {
		return ""
	}
	if rol, _ := claims.Get("rol"); !token.Truthy(rol) {
		return ""
	}

	now := time.Now().Unix()
	if exp > now {
		return raw
	}
	return ""
}

// CurrentValidToken returns the stored raw token when the session is valid,
// "" otherwise. Idempotent and side-effect-free; see the package-level
// [CurrentValidToken] for the verdict rules.
func (e *Engine) CurrentValidToken(ctx context.Context) string {
	return CurrentValidToken(ctx, e.store, e.config.Storage.TokenKey)
}

// SessionInfo returns a read-only snapshot of the current session,
// recomputed from storage on every call.
func (e *Engine) SessionInfo(ctx context.Context) SessionInfo {
	var info SessionInfo

	raw := e.CurrentValidToken(ctx)
	if raw == "" {
		return info
	}

	claims := token.Decode(raw)
	if claims == nil {
		return info
	}

	info.Authenticated = true
	info.Role = claims.Role()
	info.ExpiresAt, _ = claims.ExpiresAt()

	if user, err := e.store.Get(ctx, e.config.Storage.UserKey); err == nil {
		info.User = user
	}

	return info
}
