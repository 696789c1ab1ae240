package sales

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "sales",
		Name:      "operations_total",
		Help:      "Sale operations handled by the coordinator, by operation and outcome.",
	}, []string{"operation", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "backoffice",
		Subsystem: "sales",
		Name:      "operation_duration_seconds",
		Help:      "Latency of coordinator operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	unitsSold = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "sales",
		Name:      "units_sold_total",
		Help:      "Units deducted from stock by created sales.",
	})
)
