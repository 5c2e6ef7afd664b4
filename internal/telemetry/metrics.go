package telemetry

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	trialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tspbench_trials_total",
			Help: "Total solver trials by outcome",
		},
		[]string{"status"},
	)

	trialDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tspbench_trial_duration_seconds",
			Help:    "Wall-clock duration of solver trials",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		},
		[]string{"threads"},
	)

	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tspbench_sessions_total",
			Help: "Total benchmark sessions by outcome",
		},
		[]string{"status"},
	)

	sessionActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tspbench_session_active",
			Help: "1 while a benchmark session is running",
		},
	)

	storeOpsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tspbench_store_ops_total",
			Help: "Total history store operations",
		},
	)

	notifyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tspbench_notify_failures_total",
			Help: "Total notification deliveries that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(
		trialsTotal,
		trialDuration,
		sessionsTotal,
		sessionActive,
		storeOpsTotal,
		notifyFailuresTotal,
	)
}

// TrackTrial counts one finished trial ("ok", "no_time", "launch_error").
func TrackTrial(status string) {
	trialsTotal.WithLabelValues(status).Inc()
}

// ObserveTrialDuration records the wall-clock time of one trial.
func ObserveTrialDuration(threads int, seconds float64) {
	trialDuration.WithLabelValues(strconv.Itoa(threads)).Observe(seconds)
}

// TrackSession counts one finished session ("ok", "failed").
func TrackSession(status string) {
	sessionsTotal.WithLabelValues(status).Inc()
}

func SetSessionActive(active bool) {
	if active {
		sessionActive.Set(1)
	} else {
		sessionActive.Set(0)
	}
}

func TrackStoreOp() {
	storeOpsTotal.Inc()
}

func TrackNotifyFailure() {
	notifyFailuresTotal.Inc()
}

var (
	metricsMu      sync.Mutex
	metricsRunning bool
)

// StartMetricsServer exposes Prometheus metrics on addr. Calls after
// the first are no-ops so repeated sessions in one process cannot bind
// the port twice.
func StartMetricsServer(addr string) error {
	metricsMu.Lock()
	if metricsRunning {
		metricsMu.Unlock()
		return nil
	}
	metricsRunning = true
	metricsMu.Unlock()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	slog.Info("Starting metrics server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
