package httpcache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateDecide(t *testing.T) {
	gate := NewGate(Config{Prefix: "api:", TTL: 15})

	cases := []struct {
		name   string
		req    Request
		action Action
		reason string
		key    string
		ttl    int
	}{
		{
			name:   "anonymous get uses prefixed uri",
			req:    Request{Method: "GET", URI: "/posts?page=2", Query: url.Values{"page": {"2"}}},
			action: ActionLookup,
			key:    "api:/posts?page=2",
			ttl:    15,
		},
		{
			name:   "authenticated without route key",
			req:    Request{Method: "GET", URI: "/posts", Authenticated: true, UserID: "u1"},
			action: ActionBypass,
			reason: ReasonAuthenticated,
		},
		{
			name:   "authenticated with route key is per user",
			req:    Request{Method: "GET", URI: "/notes/latest", Authenticated: true, UserID: "u1", Meta: RouteMeta{Key: "note:latest", TTL: 60}},
			action: ActionLookup,
			key:    "note:latest:logged-u1",
			ttl:    60,
		},
		{
			name:   "post is never cached",
			req:    Request{Method: "POST", URI: "/posts"},
			action: ActionBypass,
			reason: ReasonMethod,
		},
		{
			name:   "cache busting parameter",
			req:    Request{Method: "GET", URI: "/posts?t=123", Query: url.Values{"t": {"123"}}},
			action: ActionBypass,
			reason: ReasonCacheBusting,
		},
		{
			name:   "empty cache busting parameter is ignored",
			req:    Request{Method: "GET", URI: "/posts?ts=", Query: url.Values{"ts": {""}}},
			action: ActionLookup,
			key:    "api:/posts?ts=",
			ttl:    15,
		},
		{
			name:   "route disabled",
			req:    Request{Method: "GET", URI: "/subscribe/status", Meta: RouteMeta{Disabled: true}},
			action: ActionBypass,
			reason: ReasonRouteDisabled,
		},
		{
			name:   "route key for anonymous",
			req:    Request{Method: "GET", URI: "/notes/latest?x=1", Meta: RouteMeta{Key: "note:latest"}},
			action: ActionLookup,
			key:    "note:latest",
			ttl:    15,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := gate.Decide(tc.req)
			require.Equal(t, tc.action, got.Action)
			require.Equal(t, tc.reason, got.Reason)
			require.Equal(t, tc.key, got.Key)
			require.Equal(t, tc.ttl, got.TTL)
		})
	}
}

func TestGateDisabled(t *testing.T) {
	gate := NewGate(Config{Disabled: true, Prefix: "api:", TTL: 15})

	got := gate.Decide(Request{Method: "GET", URI: "/posts", Meta: RouteMeta{Key: "k"}})
	require.Equal(t, ActionBypass, got.Action)
	require.Equal(t, ReasonDisabled, got.Reason)
}

func TestGateDisabledRouteWinsOverKey(t *testing.T) {
	gate := NewGate(Config{Prefix: "api:", TTL: 15})

	got := gate.Decide(Request{Method: "GET", URI: "/x", Meta: RouteMeta{Key: "k", Disabled: true}})
	require.Equal(t, ActionBypass, got.Action)
	require.Equal(t, ReasonRouteDisabled, got.Reason)
}
