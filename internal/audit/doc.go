// Package audit provides asynchronous audit event dispatch for the shop
// client core: authorization decisions, session lifecycle, and cart mirror
// failures.
//
// # Design
//
// Events are handed to a buffered [Dispatcher] goroutine and forwarded to a
// single [Sink]. Emission never blocks the authorization or cart hot paths
// unless the caller opted out of DropIfFull. Dropped events are counted, not
// silently lost.
//
// # What this package must NOT do
//
//   - Make or influence authorization decisions.
//   - Import goShop or any sibling internal package.
package audit
