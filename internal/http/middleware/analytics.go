package middleware

import (
	"net/http"
	"net/netip"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/21haoxingxiu/core/internal/analytics"
)

var apiPrefix = regexp.MustCompile(`^/api(/v\d+)?`)

// Analytics queues a visit for every anonymous GET. Requests from loopback
// addresses (the SSR server), authenticated requests and known bots are not
// counted. It must run after BearerAuth.
func Analytics(tracker *analytics.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tracker.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ip := c.ClientIP()
		userAgent := c.Request.UserAgent()
		if authenticated, _ := Identity(c); authenticated || isLocal(ip) || tracker.IsBot(userAgent) {
			analytics.Visits.WithLabelValues("skipped").Inc()
			c.Next()
			return
		}

		path := apiPrefix.ReplaceAllString(c.Request.URL.Path, "")
		if path == "" {
			path = "/"
		}
		tracker.Track(analytics.Visit{IP: ip, Path: path, UserAgent: userAgent, At: time.Now()})
		c.Next()
	}
}

func isLocal(ip string) bool {
	if ip == "localhost" {
		return true
	}
	addr, err := netip.ParseAddr(ip)
	return err == nil && addr.IsLoopback()
}
