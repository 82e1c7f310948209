package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Domain metrics

	ShipmentsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "shipments_created_total",
		Help:      "Total shipments created, by creator kind.",
	}, []string{"creator"})

	ShipmentEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "shipment_events_total",
		Help:      "Total tracking events appended, by status.",
	}, []string{"status"})

	VerificationCodesIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "verification_codes_issued_total",
		Help:      "Total account verification codes issued, by channel.",
	}, []string{"channel"})

	RateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter, by route.",
	}, []string{"path"})

	AuthRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "auth_rejected_total",
		Help:      "Requests rejected with 401 or 403, by route and status.",
	}, []string{"path", "status"})

	// Sweeper metrics

	SweeperDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "sweeper_deleted_codes_total",
		Help:      "Total stale verification codes deleted by the sweeper.",
	})

	SweeperCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shipping",
		Name:      "sweeper_cycle_duration_seconds",
		Help:      "Time taken for one sweeper cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shipping",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		ShipmentsCreatedTotal,
		ShipmentEventsTotal,
		VerificationCodesIssuedTotal,
		RateLimitedTotal,
		AuthRejectedTotal,
		SweeperDeletedTotal,
		SweeperCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on a port
// separate from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", probe(checker.Liveness))
	mux.HandleFunc("/readyz", probe(checker.Readiness))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func probe(check func(context.Context) health.HealthResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := check(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if result.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(result)
	}
}
