package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_updated_total",
		Help: "Total number of orders updated",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected order mutations",
	}, []string{"reason"})

	FavoritesAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favorites_added_total",
		Help: "Total number of favorites added",
	})

	FavoritesDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favorites_duplicate_total",
		Help: "Total number of duplicate favorite requests",
	})

	FavoritesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favorites_deleted_total",
		Help: "Total number of favorites deleted",
	})

	OrderEventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_published_total",
		Help: "Total number of order events published to the broker",
	}, []string{"type"})

	AvailabilityCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_hits_total",
		Help: "Total number of availability reads served from Redis",
	})

	AvailabilityCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_misses_total",
		Help: "Total number of availability reads that fell back to the database",
	})

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
