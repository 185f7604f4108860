// Package metrics defines the Prometheus collectors for the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "susu"

// Metrics bundles every collector the service and middleware record into.
type Metrics struct {
	ClubsCreated   prometheus.Counter
	Deposits       prometheus.Counter
	Withdrawals    prometheus.Counter
	Dissolutions   prometheus.Counter
	OpFailures     *prometheus.CounterVec
	MirrorFailures prometheus.Counter

	ActiveClubs   prometheus.Gauge
	PooledBalance prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers all collectors with reg and returns them. Tests pass a
// fresh registry so repeated setup never double-registers.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ClubsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clubs_created_total",
			Help:      "Clubs created since process start.",
		}),
		Deposits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Successful deposits since process start.",
		}),
		Withdrawals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawals_total",
			Help:      "Successful withdrawals since process start.",
		}),
		Dissolutions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dissolutions_total",
			Help:      "Clubs dissolved since process start.",
		}),
		OpFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Failed registry operations by operation and error kind.",
		}, []string{"op", "kind"}),
		MirrorFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_mirror_failures_total",
			Help:      "Writes to the durability mirror that failed.",
		}),
		ActiveClubs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_clubs",
			Help:      "Live clubs in the registry.",
		}),
		PooledBalance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pooled_balance",
			Help:      "Sum of all live club balances (approximate, for dashboards).",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
