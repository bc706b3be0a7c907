// Package token decodes the claims payload of a compact dot-separated
// bearer token without verifying its signature. The trust boundary is the
// issuing server; this client only needs to read expiry and role claims.
//
// # Design
//
// [Decode] is total: for any input string it returns either a claims map or
// nil, and it never panics. Any failure at any step (too few segments, bad
// base64, invalid JSON) collapses to nil. This mirrors the fail-closed
// contract of the session guard built on top of it.
//
// # What this package must NOT do
//
//   - Verify signatures, check expiry, or make validity decisions: it is a
//     pure codec. Validity belongs to the session guard.
//   - Import goShop or any sibling package.
package token
