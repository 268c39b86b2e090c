package e2e

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/analytics"
	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/event"
	httpserver "github.com/21haoxingxiu/core/internal/http"
	"github.com/21haoxingxiu/core/internal/http/controller"
	"github.com/21haoxingxiu/core/internal/httpcache"
	"github.com/21haoxingxiu/core/internal/kvcache"
	"github.com/21haoxingxiu/core/internal/mail"
	"github.com/21haoxingxiu/core/internal/service/content"
	"github.com/21haoxingxiu/core/internal/service/newsletter"
	"github.com/21haoxingxiu/core/internal/service/subscribe"
	"github.com/21haoxingxiu/core/internal/sse"
	"github.com/21haoxingxiu/core/internal/store/memory"
)

const adminToken = "secret"

func ginTestMode() {
	gin.SetMode(gin.TestMode)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, m := range r.sent {
		out = append(out, m.To)
	}
	sort.Strings(out)
	return out
}

func (r *recordingSender) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

// countingStore wraps the memory cache so tests can see whether a response
// was written back.
type countingStore struct {
	*kvcache.MemoryStore
	mu   sync.Mutex
	sets int
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryStore.Set(ctx, key, value, ttl)
}

func (c *countingStore) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

type stack struct {
	cfg      *config.Config
	server   *httptest.Server
	bus      *event.Bus
	hub      *sse.Hub
	registry *subscribe.Registry
	cache    *httpcache.Cache
	kv       *countingStore
	sender   *recordingSender
	tracker  *analytics.Tracker
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:              ":0",
		SSEHeartbeat:          5 * time.Second,
		HistoryLimit:          20,
		OTELServiceName:       "blog-core-e2e",
		WorkerID:              1,
		APICachePrefix:        "blog-api-cache:",
		HTTPCacheTTL:          15,
		CacheWriteBuffer:      16,
		AnalyticsBuffer:       16,
		ServerURL:             "https://api.example.com",
		WebURL:                "https://example.com",
		SEOTitle:              "Blog",
		OwnerName:             "owner",
		AdminToken:            adminToken,
		FeatureEmailSubscribe: true,
		MailEnable:            true,
		MailHost:              "smtp.example.com",
		MailUser:              "noreply@example.com",
		MailSendTimeout:       time.Second,
		MailConcurrency:       2,
	}
}

// newStack wires the HTTP surface the same way the server binary does, with
// in-memory storage and a recording mail sender.
func newStack(t *testing.T, cfg *config.Config) *stack {
	t.Helper()
	ginTestMode()

	logger := zap.NewNop()
	repo := memory.New(logger)
	bus := event.NewBus(logger)
	hub := sse.NewHub()
	registry := subscribe.NewRegistry(cfg, repo, bus, logger)
	sender := &recordingSender{}
	pipeline := newsletter.NewPipeline(cfg, registry, sender, mail.NewTemplates(cfg, logger), logger)

	kv := &countingStore{MemoryStore: kvcache.NewMemoryStore(kvcache.MemoryConfig{Capacity: 1000, MaxTTL: time.Hour})}
	cache := httpcache.NewCache(cfg, kv, httpcache.NewRoutes(), logger)

	hub.Listen(bus)
	if cfg.IsLeader() {
		pipeline.Register(bus)
		bus.On(event.KindSubscriberChanged, registry.HandleChanged, event.ScopeSystem)
	}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, registry.Init(ctx))
	go hub.Run(ctx)

	handler := controller.NewHandler(cfg, content.NewService(repo, bus, logger), registry, hub, logger)
	tracker := analytics.NewTracker(cfg, kv, logger)
	server := httptest.NewServer(httpserver.NewRouter(cfg, handler, cache, tracker, logger))

	t.Cleanup(func() {
		server.Close()
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer closeCancel()
		_ = cache.Close(closeCtx)
		_ = tracker.Close(closeCtx)
		_ = bus.Wait(closeCtx)
		cancel()
	})

	return &stack{
		cfg:      cfg,
		server:   server,
		bus:      bus,
		hub:      hub,
		registry: registry,
		cache:    cache,
		kv:       kv,
		tracker:  tracker,
		sender:   sender,
	}
}

func (s *stack) do(t *testing.T, method, path string, body io.Reader, admin bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.server.URL+path, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

type sseMessage struct {
	event string
	data  string
}

// readSSEMessage returns the next non-comment message on the stream.
func readSSEMessage(body io.Reader, timeout time.Duration) (sseMessage, error) {
	reader := bufio.NewReader(body)
	type result struct {
		msg sseMessage
		err error
	}
	ch := make(chan result, 1)

	go func() {
		var msg sseMessage
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{err: err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					msg.data = strings.Join(dataLines, "\n")
					ch <- result{msg: msg}
					return
				}
				continue
			}
			switch {
			case strings.HasPrefix(line, ":"):
			case strings.HasPrefix(line, "event:"):
				msg.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.msg, res.err
	case <-time.After(timeout):
		return sseMessage{}, errors.New("timed out waiting for sse message")
	}
}
