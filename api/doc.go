// Package api is the remote REST collaborator of the shop client core:
// login, catalog reads, and the order/payment calls behind checkout.
//
// # Design
//
// Requests carry Authorization: Bearer <token> whenever the configured
// [TokenSource] yields a valid token, and no Authorization header at all
// otherwise — the header is never sent stale. Order-creating requests carry
// an X-Request-ID so the server can deduplicate retries.
//
// # What this package must NOT do
//
//   - Cache or persist anything: session and cart state belong to the root
//     package and its storage mirror.
//   - Interpret authorization failures: a 401 surfaces as a [StatusError]
//     for the caller to act on.
package api
