package goShop

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goShop/internal/audit"
)

// Product is the catalog entry carried inside cart items. JSON field names
// match the wire format of the remote API and of the persisted cart mirror.
type Product struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"idCategoria"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imagenUrl"`
}

// CartItem is one (product, quantity) entry of a [Cart]. Quantity is always
// at least 1 while the item is in the cart; an item that would reach 0 is
// removed instead.
type CartItem struct {
	Product  Product `json:"producto"`
	Quantity int     `json:"cantidad"`
}

// Route describes a navigation target at the moment it is entered.
// RequiresAuth and RequiresAdmin are declared at route-registration time and
// never mutated; RequiresAdmin subsumes the authentication check.
type Route struct {
	FullPath      string
	RequiresAuth  bool
	RequiresAdmin bool
}

// DecisionKind defines a public type used by goShop APIs.
type DecisionKind uint8

const (
	// DecisionProceed allows the navigation to continue.
	DecisionProceed DecisionKind = iota
	// DecisionRedirectLogin redirects to the login route carrying the
	// originally requested path as a return parameter.
	DecisionRedirectLogin
	// DecisionRedirectForbidden redirects to the access-denied route.
	DecisionRedirectForbidden
	// DecisionRevokeAndRedirectLogin clears the stored session before
	// redirecting to login. Emitted only when claim extraction failed in an
	// unexpected way, which indicates a corrupted stored token.
	DecisionRevokeAndRedirectLogin
)

// Decision is the verdict of [Engine.Authorize] for a single route
// transition. A decision is final for that transition; a superseding
// navigation issues a new, independent check.
type Decision struct {
	Kind DecisionKind

	// RedirectTo is the full redirect target, query included, for the
	// redirecting kinds. Empty for DecisionProceed.
	RedirectTo string

	// ReturnURL is the originally requested full path carried on login
	// redirects so a successful login can resume there.
	ReturnURL string
}

// SessionInfo is a read-only snapshot of the current session for UI
// consumption. It is recomputed from storage on every call.
type SessionInfo struct {
	Authenticated bool
	User          string
	Role          string
	ExpiresAt     int64
}

// LoginResult is the distilled response of the remote login endpoint.
type LoginResult struct {
	AccessToken string
	User        string
}

// LoginAPI is the remote collaborator surface the [Engine] needs for
// authentication. Implemented by api.Client; the engine issues one request
// and awaits its settled result before updating session state.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
