package e2e

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAnalyticsCountsForwardedVisitors(t *testing.T) {
	s := newStack(t, testConfig())

	for _, ip := range []string{"203.0.113.7", "203.0.113.7", "198.51.100.2"} {
		req, err := http.NewRequest(http.MethodGet, s.server.URL+"/posts", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = readBody(t, resp)
	}

	// Direct loopback and admin traffic is not counted.
	_ = readBody(t, s.do(t, http.MethodGet, "/posts", nil, false))
	_ = readBody(t, s.do(t, http.MethodGet, "/posts", nil, true))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.tracker.Close(ctx))
	counts, err := s.tracker.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), counts.PV)
	require.Equal(t, int64(2), counts.UV)
}
