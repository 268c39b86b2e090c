package app

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/analytics"
	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/httpcache"
	"github.com/21haoxingxiu/core/internal/queue"
	"github.com/21haoxingxiu/core/internal/service/newsletter"
	"github.com/21haoxingxiu/core/internal/service/subscribe"
	"github.com/21haoxingxiu/core/internal/sse"
)

type App struct {
	cfg      *config.Config
	bus      *event.Bus
	hub      *sse.Hub
	registry *subscribe.Registry
	cache    *httpcache.Cache
	tracker  *analytics.Tracker
	consumer queue.Consumer
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewApp(
	cfg *config.Config,
	bus *event.Bus,
	hub *sse.Hub,
	registry *subscribe.Registry,
	pipeline *newsletter.Pipeline,
	cache *httpcache.Cache,
	tracker *analytics.Tracker,
	consumer queue.Consumer,
	forwarder event.Forwarder,
	router *gin.Engine,
	logger *zap.Logger,
) *App {
	hub.Listen(bus)
	if cfg.IsLeader() {
		pipeline.Register(bus)
		bus.On(event.KindSubscriberChanged, registry.HandleChanged, event.ScopeSystem)
	} else if cfg.RabbitMQURL != "" {
		bus.SetForwarder(forwarder)
	} else {
		logger.Warn("worker is not the leader and has no RabbitMQ; newsletters will not be sent from here",
			zap.Int("worker_id", cfg.WorkerID))
	}

	return &App{
		cfg:      cfg,
		bus:      bus,
		hub:      hub,
		registry: registry,
		cache:    cache,
		tracker:  tracker,
		consumer: consumer,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		logger: logger,
	}
}

func (a *App) Run(ctx context.Context) error {
	if err := a.registry.Init(ctx); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	a.logger.Info("http server listening",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.Int("worker_id", a.cfg.WorkerID),
		zap.Bool("leader", a.cfg.IsLeader()),
	)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then flushes pending cache writes and
// visits and waits for running event listeners such as newsletter fan-outs.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	if err := a.cache.Close(ctx); err != nil {
		a.logger.Warn("cache writes not flushed", zap.Error(err))
	}
	if err := a.tracker.Close(ctx); err != nil {
		a.logger.Warn("visits not recorded", zap.Error(err))
	} else if counts, err := a.tracker.Counts(ctx); err == nil {
		a.logger.Info("analytics totals", zap.Int64("pv", counts.PV), zap.Int64("uv", counts.UV))
	}
	if err := a.bus.Wait(ctx); err != nil {
		a.logger.Warn("event listeners still running", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("graceful shutdown completed")
		return shutdownErr
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
