package newsletter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NewsletterRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_newsletter_runs_total",
		Help: "Total number of newsletter runs by final state",
	}, []string{"state"})

	NewsletterSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_newsletter_sent_total",
		Help: "Total number of newsletter emails sent",
	})

	NewsletterFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_newsletter_failed_total",
		Help: "Total number of newsletter emails that failed to send",
	})
)
