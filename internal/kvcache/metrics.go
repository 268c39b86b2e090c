package kvcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreErrors tracks backend failures by backend and operation.
var StoreErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blog_kvcache_errors_total",
		Help: "Total number of key-value cache backend errors",
	},
	[]string{"backend", "operation"},
)
