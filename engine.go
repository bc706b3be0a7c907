package goShop

import (
	"context"
	"fmt"
	"sync"

	internalaudit "github.com/MrEthical07/goShop/internal/audit"
	"github.com/MrEthical07/goShop/storage"
)

// Engine is the owned state object of the client core: it holds the storage
// mirror, the cart, the remote API collaborator, audit dispatch, and
// metrics. Construction and teardown bind to application lifetime; there is
// no ambient global. Engine methods are safe to call from multiple
// goroutines after [Builder.Build].
type Engine struct {
	config  Config
	store   storage.Store
	api     LoginAPI
	cart    *Cart
	audit   *internalaudit.Dispatcher
	metrics *Metrics

	mu        sync.Mutex
	returnURL string
}

// Cart returns the engine's cart store.
func (e *Engine) Cart() *Cart {
	return e.cart
}

// Login authenticates against the remote API and, on success, persists the
// access token and user identity to the mirror before returning. The
// returned path is where navigation should resume: the path recorded by the
// most recent login redirect, or the default resume path.
func (e *Engine) Login(ctx context.Context, email, password string) (string, error) {
	if e.api == nil {
		return "", ErrAPINotConfigured
	}

	result, err := e.api.Login(ctx, email, password)
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emit(ctx, AuditEvent{
			EventType: "login.failure",
			User:      email,
			Error:     err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	if err := e.store.Set(ctx, e.config.Storage.UserKey, result.User); err != nil {
		return "", err
	}
	if err := e.store.Set(ctx, e.config.Storage.TokenKey, result.AccessToken); err != nil {
		return "", err
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.emit(ctx, AuditEvent{
		EventType: "login.success",
		User:      result.User,
		Success:   true,
	})

	return e.consumeReturnURL(), nil
}

// Logout clears the local mirror entirely. No network call is made; the
// token simply stops being presented.
func (e *Engine) Logout(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	e.returnURL = ""
	e.mu.Unlock()

	// The in-memory cart deliberately survives: it is the source of truth
	// and re-mirrors itself on the next mutation.

	e.metrics.Inc(MetricLogout)
	e.emit(ctx, AuditEvent{
		EventType: "logout",
		Success:   true,
	})

	return nil
}

// Revoke clears the stored token and user identity, destroying the session
// without touching the cart mirror. Used by the authorizer when a stored
// token turns out to be corrupted.
func (e *Engine) Revoke(ctx context.Context) error {
	if err := e.store.Delete(ctx, e.config.Storage.TokenKey); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.config.Storage.UserKey); err != nil {
		return err
	}

	e.metrics.Inc(MetricSessionRevoked)
	e.emit(ctx, AuditEvent{
		EventType: "session.revoked",
		Success:   true,
	})

	return nil
}

// ReturnURL reports the path recorded by the most recent login redirect,
// without consuming it.
func (e *Engine) ReturnURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.returnURL
}

func (e *Engine) consumeReturnURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	resume := e.returnURL
	e.returnURL = ""
	if resume == "" {
		resume = e.config.Routes.DefaultResumePath
	}
	return resume
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// Close stops the audit dispatcher, draining buffered events first.
func (e *Engine) Close() {
	e.audit.Close()
}

func (e *Engine) emit(ctx context.Context, event AuditEvent) {
	if origin := originPathFromContext(ctx); origin != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		event.Metadata["origin"] = origin
	}
	e.audit.Emit(ctx, event)
}
