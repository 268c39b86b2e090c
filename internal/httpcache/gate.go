package httpcache

import (
	"net/http"
	"net/url"
)

// Reasons reported with a bypass decision.
const (
	ReasonDisabled      = "disabled"
	ReasonAuthenticated = "authenticated"
	ReasonMethod        = "method"
	ReasonCacheBusting  = "cache_busting"
	ReasonRouteDisabled = "route_disabled"
)

var cacheBustingParams = []string{"ts", "timestamp", "_t", "t"}

type Config struct {
	Disabled bool
	Prefix   string
	// TTL is the default entry lifetime in seconds.
	TTL int
}

// RouteMeta is the per-route cache declaration.
type RouteMeta struct {
	Disabled bool
	// TTL overrides Config.TTL when positive, in seconds.
	TTL int
	// Key replaces the path-derived key for GET requests.
	Key string
}

// Request describes the parts of an HTTP request the gate looks at.
type Request struct {
	Method        string
	URI           string
	Query         url.Values
	Authenticated bool
	UserID        string
	Meta          RouteMeta
}

type Action int

const (
	ActionBypass Action = iota
	ActionLookup
)

type Decision struct {
	Action Action
	Reason string
	Key    string
	TTL    int
}

type Gate struct {
	cfg Config
}

func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg}
}

func (g *Gate) Decide(req Request) Decision {
	if g.cfg.Disabled {
		return bypass(ReasonDisabled)
	}
	if req.Authenticated && req.Meta.Key == "" {
		return bypass(ReasonAuthenticated)
	}
	if req.Method != http.MethodGet {
		return bypass(ReasonMethod)
	}
	if hasCacheBusting(req.Query) {
		return bypass(ReasonCacheBusting)
	}
	if req.Meta.Disabled {
		return bypass(ReasonRouteDisabled)
	}

	key := req.Meta.Key
	if key == "" {
		key = g.cfg.Prefix + req.URI
	}
	if req.Authenticated && req.UserID != "" {
		key = key + ":logged-" + req.UserID
	}

	ttl := g.cfg.TTL
	if req.Meta.TTL > 0 {
		ttl = req.Meta.TTL
	}
	return Decision{Action: ActionLookup, Key: key, TTL: ttl}
}

func bypass(reason string) Decision {
	return Decision{Action: ActionBypass, Reason: reason}
}

// hasCacheBusting reports whether any cache-busting parameter carries a
// non-empty value.
func hasCacheBusting(query url.Values) bool {
	for _, name := range cacheBustingParams {
		if query.Get(name) != "" {
			return true
		}
	}
	return false
}
