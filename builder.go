package goShop

import (
	"context"

	internalaudit "github.com/MrEthical07/goShop/internal/audit"
	"github.com/MrEthical07/goShop/storage"
)

// Builder defines a public type used by goShop APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	store  storage.Store
	api    LoginAPI
	sink   AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStorage sets the persistent mirror the engine reads session state
// from and flushes cart state to. Required.
func (b *Builder) WithStorage(store storage.Store) *Builder {
	b.store = store
	return b
}

// WithAPI sets the remote collaborator used by [Engine.Login]. Optional;
// without it the engine still guards navigation and runs the cart, but
// Login returns [ErrAPINotConfigured].
func (b *Builder) WithAPI(client LoginAPI) *Builder {
	b.api = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, hydrates the cart from the mirror, and
// returns the engine. A builder can build at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	if b.store == nil {
		return nil, ErrStorageRequired
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.sink)

	metrics := NewMetrics(b.config.Metrics)

	engine := &Engine{
		config:  b.config,
		store:   b.store,
		api:     b.api,
		audit:   dispatcher,
		metrics: metrics,
	}
	engine.cart = hydrateCart(context.Background(), b.store, b.config.Storage.CartKey, dispatcher, metrics)

	b.built = true
	return engine, nil
}
