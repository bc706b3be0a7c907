// Package storage abstracts the persistent key-value mirror the client
// keeps its session and cart state in: a simple get/set/remove string
// store, synchronous from the caller's point of view.
//
// # Design
//
// [MemoryStore] is the in-process stand-in for a browser profile's local
// storage. [RedisStore] lets several processes share one mirror; sharing
// keeps the same last-writer-wins semantics a shared browser store has —
// simultaneous writes from two sharers silently overwrite each other, and
// no change notification is provided.
//
// # What this package must NOT do
//
//   - Interpret values: everything is an opaque string to this layer.
//   - Import goShop or any sibling package.
package storage
