package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parish.org/internal/state"
)

var (
	managerOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parish_manager_operations_total",
			Help: "Manager operations by resource, action and outcome.",
		},
		[]string{"resource", "action", "outcome"},
	)

	permissionDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parish_permission_denials_total",
			Help: "Permission assertions that failed, by token.",
		},
		[]string{"token"},
	)

	statesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parish_state_total",
			Help: "Async states produced by the adapter, by kind.",
		},
		[]string{"kind"},
	)

	remoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parish_remote_request_duration_seconds",
			Help:    "Latency of repository requests to the remote API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource", "status"},
	)

	initOnce sync.Once
)

// Init registers the metrics in the default registry and exposes a zero
// series for every state kind. Safe to call twice.
func Init() {
	initOnce.Do(func() {
		for _, k := range state.Kinds() {
			statesTotal.WithLabelValues(k.String())
		}
		prometheus.MustRegister(managerOpsTotal, permissionDenialsTotal, statesTotal, remoteRequestDuration)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcomes of a manager operation.
const (
	OutcomeOK     = "ok"
	OutcomeDenied = "denied"
	OutcomeError  = "error"
)

// ObserveManagerOp counts a manager call.
func ObserveManagerOp(resource, action, outcome string) {
	managerOpsTotal.WithLabelValues(resource, action, outcome).Inc()
}

// ObservePermissionDenied counts a failed permission assertion.
func ObservePermissionDenied(token string) {
	permissionDenialsTotal.WithLabelValues(token).Inc()
}

// ObserveState counts an adapter result.
func ObserveState(kind string) {
	statesTotal.WithLabelValues(kind).Inc()
}

// ObserveRemoteRequest records a finished remote call. A zero status means
// the request never produced a response.
func ObserveRemoteRequest(method, resource string, status int, started time.Time) {
	remoteRequestDuration.WithLabelValues(method, resource, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
}

// StateCounter returns the series counting states of kind.
func StateCounter(kind string) prometheus.Counter {
	return statesTotal.WithLabelValues(kind)
}
