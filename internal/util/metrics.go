package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RentalsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentals_created_total",
		Help: "Total number of rentals created",
	})

	RentalsReturnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentals_returned_total",
		Help: "Total number of rentals returned",
	})

	RentalsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentals_failed_total",
		Help: "Total number of failed rental checkouts",
	}, []string{"reason"})

	ReturnConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_return_conflicts_total",
		Help: "Total number of return calls on already returned rentals",
	})

	CopyReserveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_copy_reserve_latency_seconds",
		Help:    "Latency of inventory copy reservation operations",
		Buckets: prometheus.DefBuckets,
	})

	CopyReservationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_copy_reservations_failed_total",
		Help: "Total number of failed inventory copy reservations",
	}, []string{"reason"})

	PaymentsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Total number of payments recorded",
	})

	PaymentsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_failed_total",
		Help: "Total number of rejected payments",
	}, []string{"reason"})

	CacheSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_cache_sync_total",
		Help: "Total number of copy status syncs to Redis",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
