// Package prometheus renders goShop metrics in Prometheus text exposition
// format without depending on a Prometheus client library.
package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goShop "github.com/MrEthical07/goShop"
)

type metricsSource interface {
	MetricsSnapshot() goShop.MetricsSnapshot
	AuditDropped() uint64
}

type counterDef struct {
	id   goShop.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{goShop.MetricAuthorizeProceed, "goshop_authorize_proceed_total", "Route transitions allowed to proceed."},
	{goShop.MetricAuthorizeRedirectLogin, "goshop_authorize_redirect_login_total", "Route transitions redirected to login."},
	{goShop.MetricAuthorizeRedirectForbidden, "goshop_authorize_redirect_forbidden_total", "Route transitions redirected to the forbidden page."},
	{goShop.MetricSessionRevoked, "goshop_session_revoked_total", "Sessions revoked over corrupted stored tokens."},
	{goShop.MetricLoginSuccess, "goshop_login_success_total", "Successful logins."},
	{goShop.MetricLoginFailure, "goshop_login_failure_total", "Failed logins."},
	{goShop.MetricLogout, "goshop_logout_total", "Logouts."},
	{goShop.MetricCartAdd, "goshop_cart_add_total", "Cart add operations."},
	{goShop.MetricCartRemove, "goshop_cart_remove_total", "Cart remove operations."},
	{goShop.MetricCartClear, "goshop_cart_clear_total", "Cart clear operations."},
	{goShop.MetricCartFlushError, "goshop_cart_flush_error_total", "Cart mirror flush failures."},
	{goShop.MetricCartHydrateError, "goshop_cart_hydrate_error_total", "Cart mirror hydration failures."},
}

// Exporter renders goShop metrics in Prometheus text exposition format.
type Exporter struct {
	source metricsSource
}

// NewExporter creates an exporter that reads from the given [goShop.Engine].
func NewExporter(engine *goShop.Engine) *Exporter {
	return &Exporter{source: engine}
}

// NewExporterFromSource creates an exporter from a custom metrics source.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler that serves the metrics.
func (p *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current metrics in Prometheus text exposition format.
func (p *Exporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()

	var b strings.Builder
	b.Grow(4096)

	for _, def := range counterDefs {
		writeCounter(&b, def.name, def.help, snapshot.Get(def.id))
	}

	writeCounter(&b, "goshop_audit_dropped_total", "Dropped audit events due to dispatcher backpressure.", dropped)

	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}
