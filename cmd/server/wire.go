//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/21haoxingxiu/core/internal/analytics"
	"github.com/21haoxingxiu/core/internal/app"
	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/http"
	"github.com/21haoxingxiu/core/internal/http/controller"
	"github.com/21haoxingxiu/core/internal/httpcache"
	"github.com/21haoxingxiu/core/internal/kvcache"
	"github.com/21haoxingxiu/core/internal/logging"
	"github.com/21haoxingxiu/core/internal/mail"
	"github.com/21haoxingxiu/core/internal/queue/rabbitmq"
	"github.com/21haoxingxiu/core/internal/service/content"
	"github.com/21haoxingxiu/core/internal/service/newsletter"
	"github.com/21haoxingxiu/core/internal/service/subscribe"
	"github.com/21haoxingxiu/core/internal/sse"
	"github.com/21haoxingxiu/core/internal/store"
)

func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		logging.New,
		store.NewStore,
		store.NewSubscriberRepository,
		store.NewContentRepository,
		kvcache.New,
		httpcache.NewRoutes,
		httpcache.NewCache,
		analytics.NewTracker,
		event.NewBus,
		sse.NewHub,
		subscribe.NewRegistry,
		mail.NewSender,
		mail.NewTemplates,
		newsletter.NewPipeline,
		content.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		rabbitmq.NewForwarder,
		wire.Bind(new(event.Forwarder), new(*rabbitmq.Forwarder)),
		app.NewApp,
	)
	return &app.App{}, nil
}
