package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/http/dto"
	"github.com/21haoxingxiu/core/internal/http/resp"
	"github.com/21haoxingxiu/core/internal/model"
)

const maxListLimit = 100

func (h *Handler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}
	h.create(c, model.Content{
		Kind:     domain.ContentKindPost,
		Title:    req.Title,
		Text:     req.Text,
		Slug:     req.Slug,
		Category: req.Category,
	})
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}
	h.create(c, model.Content{
		Kind:  domain.ContentKindNote,
		Title: req.Title,
		Text:  req.Text,
	})
}

func (h *Handler) create(c *gin.Context, content model.Content) {
	created, err := h.contents.Create(c.Request.Context(), content)
	if err != nil {
		h.log.Error("create content failed",
			zap.String("kind", content.Kind),
			zap.String("title", content.Title),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create " + content.Kind})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListPosts(c *gin.Context) {
	limit := h.cfg.HistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	items, err := h.contents.List(c.Request.Context(), domain.ContentKindPost, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list posts"})
		return
	}
	if items == nil {
		items = []model.Content{}
	}
	c.JSON(http.StatusOK, dto.ContentListResponse{Data: items})
}

func (h *Handler) GetPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid id"})
		return
	}
	post, err := h.contents.Get(c.Request.Context(), domain.ContentKindPost, id)
	h.respondContent(c, post, err)
}

func (h *Handler) LatestNote(c *gin.Context) {
	note, err := h.contents.Latest(c.Request.Context(), domain.ContentKindNote)
	h.respondContent(c, note, err)
}

func (h *Handler) GetNote(c *gin.Context) {
	nid, err := strconv.ParseInt(c.Param("nid"), 10, 64)
	if err != nil || nid <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid nid"})
		return
	}
	note, err := h.contents.GetNote(c.Request.Context(), nid)
	h.respondContent(c, note, err)
}

func (h *Handler) respondContent(c *gin.Context, content model.Content, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "not found"})
			return
		}
		h.log.Error("load content failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to load content"})
		return
	}
	c.JSON(http.StatusOK, content)
}
