package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/http/dto"
	"github.com/21haoxingxiu/core/internal/http/resp"
	"github.com/21haoxingxiu/core/internal/sse"
)

var streamableKinds = map[event.Kind]struct{}{
	event.KindPostCreated: {},
	event.KindNoteCreated: {},
}

// Events streams newly published content to visitors.
func (h *Handler) Events(c *gin.Context) {
	var kinds []event.Kind
	if raw := c.Query("kinds"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			kind := event.Kind(strings.TrimSpace(k))
			if _, ok := streamableKinds[kind]; !ok {
				c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "kinds must be post.created or note.created"})
				return
			}
			kinds = append(kinds, kind)
		}
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	flusher.Flush()

	client := sse.NewClient(16, kinds...)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	interval := h.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = 15 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	var seq int64
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.hub.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Debug("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case e, ok := <-client.Ch:
			if !ok {
				return
			}
			seq++
			if err := writeEvent(c.Writer, seq, e); err != nil {
				h.log.Debug("write event failed", zap.String("kind", string(e.Kind)), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent frames e as one SSE message named after its kind.
func writeEvent(w http.ResponseWriter, id int64, e event.Event) error {
	data := e.Payload
	if len(data) == 0 {
		data = []byte("{}")
	}
	_, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, e.Kind, data)
	return err
}
