package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	ExpensesAdded   prometheus.Counter
	ExpensesRemoved prometheus.Counter
	ExpenseAmount   prometheus.Histogram

	// Trip metrics
	TripsCreated    prometheus.Counter
	TripsDeleted    prometheus.Counter
	TravelersJoined prometheus.Counter

	// Balance engine metrics
	BalanceComputations prometheus.Counter
	SettlementSize      prometheus.Histogram

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		ExpensesAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_expenses_added_total",
			Help: "Total number of expenses recorded",
		}),
		ExpensesRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_expenses_removed_total",
			Help: "Total number of expenses removed",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_expense_amount_minor",
			Help:    "Expense amounts in minor units",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),

		// Trip metrics
		TripsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_trips_created_total",
			Help: "Total number of trips created",
		}),
		TripsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_trips_deleted_total",
			Help: "Total number of trips deleted",
		}),
		TravelersJoined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_travelers_joined_total",
			Help: "Total number of travelers added to trips",
		}),

		// Balance engine metrics
		BalanceComputations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_balance_computations_total",
			Help: "Total number of balance computations",
		}),
		SettlementSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_settlement_transfers",
			Help:    "Number of transfers per settlement plan",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tripledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_events_published_total",
			Help: "Total outbox events published",
		}),
		EventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_events_failed_total",
			Help: "Total outbox events that failed to publish",
		}),
	}
}
