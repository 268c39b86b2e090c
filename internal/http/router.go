package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/analytics"
	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/http/controller"
	"github.com/21haoxingxiu/core/internal/http/middleware"
	"github.com/21haoxingxiu/core/internal/httpcache"
)

// latestNoteTTL is longer than the default because the latest note is the
// hottest read on the site.
const latestNoteTTL = 60

func NewRouter(cfg *config.Config, handler *controller.Handler, cache *httpcache.Cache, tracker *analytics.Tracker, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.RequestID(),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		middleware.BearerAuth(cfg.AdminToken),
		middleware.Analytics(tracker),
		cache.WithIdentity(middleware.Identity).Handler(),
	)

	routes := cache.Routes()
	routes.Set(http.MethodGet, "/health", httpcache.RouteMeta{Disabled: true})
	routes.Set(http.MethodGet, "/metrics", httpcache.RouteMeta{Disabled: true})
	routes.Set(http.MethodGet, "/events", httpcache.RouteMeta{Disabled: true})
	routes.Set(http.MethodGet, "/subscribe/status", httpcache.RouteMeta{Disabled: true})
	routes.Set(http.MethodGet, "/subscribe/unsubscribe", httpcache.RouteMeta{Disabled: true})
	routes.Set(http.MethodGet, "/notes/latest", httpcache.RouteMeta{
		Key: cfg.APICachePrefix + "notes:latest",
		TTL: latestNoteTTL,
	})

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/events", handler.Events)

	router.GET("/posts", handler.ListPosts)
	router.GET("/posts/:id", handler.GetPost)
	router.GET("/notes/latest", handler.LatestNote)
	router.GET("/notes/:nid", handler.GetNote)

	router.POST("/subscribe", handler.Subscribe)
	router.GET("/subscribe/unsubscribe", handler.Unsubscribe)
	router.GET("/subscribe/status", handler.SubscribeStatus)

	admin := router.Group("", middleware.RequireAdmin())
	admin.POST("/posts", handler.CreatePost)
	admin.POST("/notes", handler.CreateNote)

	return router
}
