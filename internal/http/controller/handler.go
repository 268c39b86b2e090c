package controller

import (
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/service/content"
	"github.com/21haoxingxiu/core/internal/service/subscribe"
	"github.com/21haoxingxiu/core/internal/sse"
)

type Handler struct {
	cfg      *config.Config
	contents *content.Service
	subs     *subscribe.Registry
	hub      *sse.Hub
	log      *zap.Logger
}

func NewHandler(cfg *config.Config, contents *content.Service, subs *subscribe.Registry, hub *sse.Hub, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, contents: contents, subs: subs, hub: hub, log: logger}
}
