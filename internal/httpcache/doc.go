// Package httpcache caches GET responses in a key-value store.
//
// Every request goes through Gate.Decide, which either bypasses the cache or
// yields the key and TTL to use. Bypass happens, in order, when:
//
//   - the cache is disabled globally
//   - the request is authenticated and the route has no explicit key
//   - the method is not GET
//   - the query carries a cache-busting parameter (ts, timestamp, _t, t)
//   - the route disables caching
//
// The key is the route's explicit key, or the configured prefix followed by
// the request URI. Authenticated requests get a ":logged-<userId>" suffix so
// that per-user payloads never leak across users.
//
// Store failures never fail a request: reads degrade to calling the handler,
// writes happen on a background queue after the response is sent.
// HeaderPolicy adds Cache-Control and CDN headers to successful responses
// without overriding a Cache-Control header set by the handler.
package httpcache
