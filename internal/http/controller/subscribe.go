package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/http/dto"
	"github.com/21haoxingxiu/core/internal/http/resp"
)

func (h *Handler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}

	mask, err := h.subs.TypesToBitmask(req.Types)
	if err == nil {
		err = h.subs.Subscribe(c.Request.Context(), req.Email, mask)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSubscribeType) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrInvalidSubscribeType.Error()})
			return
		}
		h.log.Error("subscribe failed", zap.String("email", req.Email), zap.Strings("types", req.Types), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to subscribe"})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "subscribed"})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var q dto.UnsubscribeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid query"})
		return
	}
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}

	ok, err := h.subs.Unsubscribe(c.Request.Context(), q.Email, q.CancelToken)
	if err != nil {
		h.log.Error("unsubscribe failed", zap.String("email", q.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to unsubscribe"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "unsubscribe link is invalid"})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "unsubscribed"})
}

func (h *Handler) SubscribeStatus(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "email required"})
		return
	}
	mask, err := h.subs.Status(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "not subscribed"})
			return
		}
		h.log.Error("subscribe status failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to load subscription"})
		return
	}
	c.JSON(http.StatusOK, dto.SubscribeStatusResponse{
		Email:     email,
		Subscribe: mask,
		Types:     domain.SubscribeBitmaskToTypes(mask),
	})
}
