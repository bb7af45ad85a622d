// Package metrics exposes dispatch outcomes and account usage to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

const namespace = "paymail"

// Recorder owns its registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	dispatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	usage      *prometheus.GaugeVec
}

var _ ports.DispatchMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Dispatch results by delivery method and outcome.",
		}, []string{"method", "outcome"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failures_total",
			Help:      "Classified direct delivery failures.",
		}, []string{"kind"}),
		usage: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "account_usage",
			Help:      "Messages attributed to each account today.",
		}, []string{"account"}),
	}
}

func (r *Recorder) ObserveDispatch(result domain.DispatchResult) {
	outcome := string(domain.OutcomeSent)
	if !result.Success {
		outcome = string(domain.OutcomeFailed)
	}
	r.dispatches.WithLabelValues(string(result.Method), outcome).Inc()
}

func (r *Recorder) ObserveFailure(kind domain.FailureKind) {
	if kind == domain.FailureNone {
		return
	}
	r.failures.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) ObserveUsage(account domain.AccountID, usage int) {
	r.usage.WithLabelValues(string(account)).Set(float64(usage))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
