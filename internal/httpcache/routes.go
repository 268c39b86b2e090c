package httpcache

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Routes holds cache declarations keyed by method and gin route pattern.
type Routes struct {
	meta *xsync.MapOf[string, RouteMeta]
}

func NewRoutes() *Routes {
	return &Routes{meta: xsync.NewMapOf[string, RouteMeta]()}
}

func (r *Routes) Set(method, pattern string, meta RouteMeta) {
	r.meta.Store(routeKey(method, pattern), meta)
}

// Lookup returns the declaration for a route, or the zero RouteMeta.
func (r *Routes) Lookup(method, pattern string) RouteMeta {
	meta, _ := r.meta.Load(routeKey(method, pattern))
	return meta
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}
