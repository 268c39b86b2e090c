package httpcache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/kvcache"
)

// IdentityFunc reports who issued a request. It runs after authentication
// middleware has populated the context.
type IdentityFunc func(c *gin.Context) (authenticated bool, userID string)

func anonymous(*gin.Context) (bool, string) { return false, "" }

type Cache struct {
	gate     *Gate
	headers  HeaderPolicy
	routes   *Routes
	store    kvcache.Store
	writes   *WriteBack
	identify IdentityFunc
	log      *zap.Logger
}

func NewCache(cfg *config.Config, store kvcache.Store, routes *Routes, logger *zap.Logger) *Cache {
	return &Cache{
		gate: NewGate(Config{
			Disabled: cfg.APICacheDisable,
			Prefix:   cfg.APICachePrefix,
			TTL:      cfg.HTTPCacheTTL,
		}),
		headers: HeaderPolicy{
			EnableCDNHeader:        cfg.EnableCDNHeader,
			EnableForceCacheHeader: cfg.EnableForceCacheHeader,
		},
		routes:   routes,
		store:    store,
		writes:   NewWriteBack(store, cfg.CacheWriteBuffer, logger),
		identify: anonymous,
		log:      logger,
	}
}

// WithIdentity sets how the cache learns the caller. Without it every
// request is treated as anonymous.
func (m *Cache) WithIdentity(fn IdentityFunc) *Cache {
	if fn != nil {
		m.identify = fn
	}
	return m
}

func (m *Cache) Routes() *Routes {
	return m.routes
}

// Close flushes pending cache writes, then releases the store if it holds a
// connection.
func (m *Cache) Close(ctx context.Context) error {
	if err := m.writes.Close(ctx); err != nil {
		return err
	}
	if closer, ok := m.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (m *Cache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated, userID := m.identify(c)
		decision := m.gate.Decide(Request{
			Method:        c.Request.Method,
			URI:           c.Request.URL.RequestURI(),
			Query:         c.Request.URL.Query(),
			Authenticated: authenticated,
			UserID:        userID,
			Meta:          m.routes.Lookup(c.Request.Method, c.FullPath()),
		})
		if decision.Action == ActionBypass {
			CacheBypasses.WithLabelValues(decision.Reason).Inc()
			c.Next()
			return
		}

		data, err := m.store.Get(c.Request.Context(), decision.Key)
		switch {
		case err == nil:
			stored, decodeErr := UnmarshalStoredResponse(data)
			if decodeErr == nil {
				CacheHits.Inc()
				m.serve(c, stored, decision.TTL)
				return
			}
			CacheErrors.WithLabelValues("decode").Inc()
			m.log.Warn("cache entry unreadable, refetching", zap.String("key", decision.Key), zap.Error(decodeErr))
		case errors.Is(err, kvcache.ErrCacheMiss):
		default:
			CacheErrors.WithLabelValues("get").Inc()
			m.log.Warn("cache read failed, bypassing", zap.String("key", decision.Key), zap.Error(err))
			c.Next()
			return
		}

		CacheMisses.Inc()
		m.fetch(c, decision)
	}
}

func (m *Cache) serve(c *gin.Context, stored StoredResponse, ttl int) {
	m.headers.Apply(stored.Status, c.Writer.Header(), ttl)
	c.Data(stored.Status, stored.ContentType, stored.Body)
	c.Abort()
}

func (m *Cache) fetch(c *gin.Context, decision Decision) {
	original := c.Writer
	buf := newBodyBuffer(original)
	c.Writer = buf

	// Put the real writer back if a handler panics so recovery can respond.
	completed := false
	defer func() {
		if !completed {
			c.Writer = original
		}
	}()
	c.Next()
	completed = true
	c.Writer = original

	m.headers.Apply(buf.status, original.Header(), decision.TTL)
	if buf.status == http.StatusOK && buf.body.Len() > 0 {
		m.save(decision, StoredResponse{
			Status:      buf.status,
			ContentType: original.Header().Get("Content-Type"),
			Body:        bytes.Clone(buf.body.Bytes()),
		})
	}

	if err := buf.flushTo(original); err != nil {
		m.log.Debug("write response failed", zap.String("key", decision.Key), zap.Error(err))
	}
}

func (m *Cache) save(decision Decision, entry StoredResponse) {
	payload, err := entry.Marshal()
	if err != nil {
		CacheErrors.WithLabelValues("encode").Inc()
		m.log.Warn("cache entry encode failed", zap.String("key", decision.Key), zap.Error(err))
		return
	}
	ttl := time.Duration(decision.TTL*1000) * time.Millisecond
	m.writes.Enqueue(decision.Key, payload, ttl)
}
