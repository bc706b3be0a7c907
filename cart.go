package goShop

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	internalaudit "github.com/MrEthical07/goShop/internal/audit"
	"github.com/MrEthical07/goShop/storage"
)

// Cart is an ordered collection of (product, quantity) entries, insertion
// order = first-add order. The in-memory state is the single source of
// truth; the storage mirror holds a serialized copy that is rewritten in
// full by every mutation before that mutation returns.
//
// The mirror key may be shared by several processes. Writes are
// last-writer-wins: simultaneous mutations from two sharers silently
// overwrite each other. That is an accepted limitation of the mirror, not
// something this type papers over.
type Cart struct {
	mu    sync.Mutex
	items []CartItem

	store   storage.Store
	key     string
	audit   *internalaudit.Dispatcher
	metrics *Metrics
}

// hydrateCart builds a Cart from the mirror. A present, parseable mirror
// value becomes the initial state; an absent or unparseable one degrades to
// an empty cart, with the parse failure audited rather than surfaced as a
// fatal error.
func hydrateCart(ctx context.Context, store storage.Store, key string, dispatcher *internalaudit.Dispatcher, metrics *Metrics) *Cart {
	cart := &Cart{
		store:   store,
		key:     key,
		audit:   dispatcher,
		metrics: metrics,
	}

	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			metrics.Inc(MetricCartHydrateError)
			dispatcher.Emit(ctx, internalaudit.Event{
				EventType: "cart.hydrate_failed",
				Error:     err.Error(),
			})
		}
		return cart
	}

	var items []CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		metrics.Inc(MetricCartHydrateError)
		dispatcher.Emit(ctx, internalaudit.Event{
			EventType: "cart.hydrate_failed",
			Error:     err.Error(),
		})
		return cart
	}

	cart.items = items
	return cart
}

// Add merges quantity into the existing entry for product.ID, or appends a
// new entry at the end. quantity is assumed positive; the cart does not
// clamp or validate it (caller contract).
func (c *Cart) Add(ctx context.Context, product Product, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item := c.find(product.ID); item != nil {
		item.Quantity += quantity
	} else {
		c.items = append(c.items, CartItem{Product: product, Quantity: quantity})
	}

	c.metrics.Inc(MetricCartAdd)
	return c.flush(ctx)
}

// Increment raises the matching entry's quantity by 1. No-op for unknown
// product ids.
func (c *Cart) Increment(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.find(productID)
	if item == nil {
		return nil
	}
	item.Quantity++

	return c.flush(ctx)
}

// Decrement lowers the matching entry's quantity by 1, removing the entry
// entirely when it stands at 1 — the cart never holds a zero-quantity
// entry. No-op for unknown product ids.
func (c *Cart) Decrement(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.find(productID)
	if item == nil {
		return nil
	}

	if item.Quantity > 1 {
		item.Quantity--
	} else {
		c.remove(productID)
	}

	return c.flush(ctx)
}

// SetQuantity overwrites the matching entry's quantity verbatim, for
// direct quantity inputs. It does not enforce positivity and does not
// auto-remove at zero; keeping the value sane is the caller's contract.
// No-op for unknown product ids.
func (c *Cart) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.find(productID)
	if item == nil {
		return nil
	}
	item.Quantity = quantity

	return c.flush(ctx)
}

// Remove deletes the matching entry regardless of quantity. No-op for
// unknown product ids.
func (c *Cart) Remove(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.find(productID) == nil {
		return nil
	}
	c.remove(productID)

	c.metrics.Inc(MetricCartRemove)
	return c.flush(ctx)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil

	c.metrics.Inc(MetricCartClear)
	return c.flush(ctx)
}

// Total returns the sum of price × quantity over all entries, recomputed on
// demand.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of distinct entries.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *Cart) find(productID int64) *CartItem {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return &c.items[i]
		}
	}
	return nil
}

func (c *Cart) remove(productID int64) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// flush rewrites the full mirror. Callers hold c.mu. On storage failure the
// in-memory state stands and wins; the next mutation re-serializes it.
func (c *Cart) flush(ctx context.Context) error {
	items := c.items
	if items == nil {
		// An emptied cart mirrors as [], not null.
		items = []CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		// Unreachable for these value types, but the contract is that a
		// mutation reports any failure to mirror itself.
		return err
	}

	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		c.metrics.Inc(MetricCartFlushError)
		c.audit.Emit(ctx, internalaudit.Event{
			EventType: "cart.flush_failed",
			Error:     err.Error(),
		})
		return err
	}

	return nil
}
