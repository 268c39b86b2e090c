package httpcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_http_cache_hits_total",
		Help: "Total number of responses served from the HTTP cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_http_cache_misses_total",
		Help: "Total number of cacheable requests that missed",
	})

	CacheBypasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_http_cache_bypass_total",
		Help: "Total number of requests that skipped the HTTP cache by reason",
	}, []string{"reason"})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_http_cache_errors_total",
		Help: "Total number of HTTP cache failures by operation",
	}, []string{"operation"}) // "get", "decode", "encode", "set", "drop"
)
