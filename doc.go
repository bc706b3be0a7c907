// Package goShop is the client-side core of an e-commerce platform: it owns
// the session/authorization state derived from a bearer token and the
// shopping-cart state machine that survives page reloads through a key-value
// storage mirror.
//
// The package trusts the issuing server: tokens are decoded, never verified.
// Validity is derived on every check from the stored raw token and the
// current time, so there is no cached session state to go stale.
//
// # Architecture boundaries
//
// goShop is the public surface. It exposes [Engine], [Builder], [Config],
// the [Cart], and value types (Decision, SessionInfo, MetricsSnapshot).
// The claims codec lives in token/, the storage mirror abstraction in
// storage/, the remote API collaborator in api/, and audit dispatch under
// internal/.
//
// # What this package must NOT do
//
//   - Verify token signatures or refresh/rotate tokens (server concerns).
//   - Render anything: the UI layer consumes Decision and SessionInfo values
//     and calls the exposed operations, nothing else.
//   - Hide storage races: the mirror is last-writer-wins across sharers and
//     is documented as such.
//
// # Persistence contract
//
// Every mutation of session or cart state is flushed to the storage mirror
// before the operation returns. There is no batching and no debounce; a
// reload never loses the most recent committed mutation from the
// originating process.
package goShop
