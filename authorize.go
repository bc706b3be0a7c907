package goShop

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/MrEthical07/goShop/token"
)

var errClaimsUnreadable = errors.New("stored token claims unreadable")

// Authorize computes the navigation verdict for a single route transition.
// It is invoked once per transition; a superseding navigation issues a new,
// independent check.
//
// Admin routes without a valid token redirect to login (not forbidden): the
// admin requirement subsumes the authentication check. A valid token whose
// role is not the admin role redirects to forbidden. Claim extraction that
// fails in an unexpected way — as opposed to cleanly resolving to a
// non-admin role — revokes the stored session before redirecting to login,
// on the theory that the stored value is corrupted and should not persist.
func (e *Engine) Authorize(ctx context.Context, route Route) Decision {
	if route.RequiresAdmin {
		raw := e.CurrentValidToken(ctx)
		if raw == "" {
			return e.loginRedirect(ctx, route)
		}
		return e.adminDecision(ctx, route, raw)
	}

	if route.RequiresAuth {
		if e.CurrentValidToken(ctx) == "" {
			return e.loginRedirect(ctx, route)
		}
		return e.proceed(ctx, route)
	}

	return e.proceed(ctx, route)
}

// adminDecision resolves the role claim of an already-validated token.
// The raw token is re-decoded here rather than trusting any cached claims:
// the mirror is shared and may have changed since the guard read it.
func (e *Engine) adminDecision(ctx context.Context, route Route, raw string) Decision {
	role, err := extractRole(raw)
	if err != nil {
		// Not merely an invalid token: the guard accepted it moments ago.
		// Treat the stored value as corrupted.
		if revokeErr := e.Revoke(ctx); revokeErr != nil {
			e.emit(ctx, AuditEvent{
				EventType: "session.revoke_failed",
				Path:      route.FullPath,
				Error:     revokeErr.Error(),
			})
		}
		decision := e.loginRedirect(ctx, route)
		decision.Kind = DecisionRevokeAndRedirectLogin
		return decision
	}

	if role != e.config.Routes.AdminRole {
		e.metrics.Inc(MetricAuthorizeRedirectForbidden)
		e.emit(ctx, AuditEvent{
			EventType: "authorize.redirect_forbidden",
			Path:      route.FullPath,
			Decision:  "forbidden",
			Metadata:  map[string]string{"role": role},
		})
		return Decision{
			Kind:       DecisionRedirectForbidden,
			RedirectTo: e.config.Routes.ForbiddenPath,
		}
	}

	return e.proceed(ctx, route)
}

// extractRole decodes the claims and resolves the role chain, converting
// panics from hostile claim values into errors.
func extractRole(raw string) (role string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errClaimsUnreadable, r)
		}
	}()

	claims := token.Decode(raw)
	if claims == nil {
		return "", errClaimsUnreadable
	}
	return claims.Role(), nil
}

func (e *Engine) proceed(ctx context.Context, route Route) Decision {
	e.metrics.Inc(MetricAuthorizeProceed)
	e.emit(ctx, AuditEvent{
		EventType: "authorize.proceed",
		Path:      route.FullPath,
		Decision:  "proceed",
		Success:   true,
	})
	return Decision{Kind: DecisionProceed}
}

// loginRedirect records the requested path so a later successful login can
// resume there, and builds the redirect target carrying that path, query
// included, in the return parameter.
func (e *Engine) loginRedirect(ctx context.Context, route Route) Decision {
	e.mu.Lock()
	e.returnURL = route.FullPath
	e.mu.Unlock()

	query := url.Values{}
	query.Set(e.config.Routes.ReturnURLParam, route.FullPath)

	e.metrics.Inc(MetricAuthorizeRedirectLogin)
	e.emit(ctx, AuditEvent{
		EventType: "authorize.redirect_login",
		Path:      route.FullPath,
		Decision:  "login",
	})

	return Decision{
		Kind:       DecisionRedirectLogin,
		RedirectTo: e.config.Routes.LoginPath + "?" + query.Encode(),
		ReturnURL:  route.FullPath,
	}
}
