package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Visits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blog_analytics_visits_total",
	Help: "Total number of GET requests seen by analytics by outcome",
}, []string{"outcome"}) // "recorded", "skipped", "dropped", "failed"
