package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type StoreMetrics struct {
	OperationDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	TransactionsTotal *prometheus.CounterVec
	CustomersTotal    prometheus.Counter
}

var (
	Store = StoreMetrics{
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pybank_store_operation_duration_seconds",
				Help:    "Histogram of record-file operation latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"store", "operation", "status"},
		),
	}

	Business = BusinessMetrics{
		TransactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pybank_transactions_total",
				Help: "Total number of transactions recorded in the ledger.",
			},
			[]string{"type"},
		),
		CustomersTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pybank_customers_created_total",
				Help: "Total number of customers successfully registered.",
			},
		),
	}
)

func RecordStoreOperation(store, operation, status string, duration time.Duration) {
	Store.OperationDuration.WithLabelValues(store, operation, status).Observe(duration.Seconds())
}

func RecordTransaction(transactionType string) {
	Business.TransactionsTotal.WithLabelValues(transactionType).Inc()
}

func RecordCustomerCreated() {
	Business.CustomersTotal.Inc()
}
