package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Appeal Metrics
var (
	// AppealsCreatedTotal - количество созданных обращений
	AppealsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "appeals_created_total",
		Help: "Total number of appeals created",
	})

	// AppealsMovedToWorkTotal - количество обращений, переданных в работу
	AppealsMovedToWorkTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "appeals_moved_to_work_total",
		Help: "Total number of appeals moved to work",
	})

	// AppealLinksChangedTotal - привязки сотрудников к обращениям
	AppealLinksChangedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appeal_links_changed_total",
		Help: "Total number of appeal visibility links created or removed",
	}, []string{"action"})
)

// Auth Metrics
var (
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"result"})
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP request in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Database Metrics
var (
	DBTransactionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "db_transaction_duration_seconds",
		Help:    "Duration of database transaction in seconds",
		Buckets: prometheus.DefBuckets,
	})

	DBTransactionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_transaction_total",
		Help: "Total number of database transactions",
	}, []string{"status"})
)
