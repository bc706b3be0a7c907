package goShop

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricAuthorizeProceed is an exported constant or variable used by the shop client engine.
	MetricAuthorizeProceed MetricID = iota
	// MetricAuthorizeRedirectLogin is an exported constant or variable used by the shop client engine.
	MetricAuthorizeRedirectLogin
	// MetricAuthorizeRedirectForbidden is an exported constant or variable used by the shop client engine.
	MetricAuthorizeRedirectForbidden
	// MetricSessionRevoked is an exported constant or variable used by the shop client engine.
	MetricSessionRevoked
	// MetricLoginSuccess is an exported constant or variable used by the shop client engine.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the shop client engine.
	MetricLoginFailure
	// MetricLogout is an exported constant or variable used by the shop client engine.
	MetricLogout
	// MetricCartAdd is an exported constant or variable used by the shop client engine.
	MetricCartAdd
	// MetricCartRemove is an exported constant or variable used by the shop client engine.
	MetricCartRemove
	// MetricCartClear is an exported constant or variable used by the shop client engine.
	MetricCartClear
	// MetricCartFlushError is an exported constant or variable used by the shop client engine.
	MetricCartFlushError
	// MetricCartHydrateError is an exported constant or variable used by the shop client engine.
	MetricCartHydrateError

	metricIDCount
)

// MetricIDCount is the number of defined metric IDs, exported for exporters
// that iterate the full counter set.
const MetricIDCount = int(metricIDCount)

// paddedCounter keeps each slot on its own cache line so concurrent
// increments of different metrics do not false-share.
type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

// Metrics holds lock-free counters for the client core. When disabled, all
// operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig].
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the counter for id. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters [metricIDCount]uint64
}

// Get returns the snapshotted value for id.
func (s MetricsSnapshot) Get(id MetricID) uint64 {
	if id >= metricIDCount {
		return 0
	}
	return s.Counters[id]
}

// Snapshot returns a consistent-enough copy of all counters. Individual
// counters are read atomically; the set as a whole is not a transaction.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var snap MetricsSnapshot
	if m == nil {
		return snap
	}
	for i := range m.counters {
		snap.Counters[i] = m.counters[i].value.Load()
	}
	return snap
}
