package collection

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/service/store"
	apperrors "github.com/myway/panel-api/pkg/errors"
)

// Store is the read side of the snapshot hub.
type Store interface {
	Snapshot(ctx context.Context, c model.Collection) (*model.Snapshot, error)
	Subscribe(ctx context.Context, c model.Collection) (*store.Subscription, error)
}

type Handler struct {
	store     Store
	keepAlive time.Duration
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s, keepAlive: 25 * time.Second}
}

// RegisterRoutes mounts the one-shot snapshot. Streams are mounted
// separately with RegisterStreamRoutes because they must not run under the
// request timeout.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/collections/:name", h.GetSnapshot)
}

func (h *Handler) RegisterStreamRoutes(r *gin.RouterGroup) {
	r.GET("/collections/:name/stream", h.Stream)
}

func collectionParam(c *gin.Context) (model.Collection, bool) {
	name := model.Collection(c.Param("name"))
	if !name.Valid() {
		handler.Error(c, apperrors.NotFound("collection", store.ErrUnknownCollection))
		return "", false
	}
	return name, true
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	name, ok := collectionParam(c)
	if !ok {
		return
	}

	snap, err := h.store.Snapshot(c.Request.Context(), name)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(snap))
}

// Stream pushes a "snapshot" event for the current state and for every
// change after it. A store failure ends the stream with an "error" event;
// the client decides whether to reconnect.
func (h *Handler) Stream(c *gin.Context) {
	name, ok := collectionParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub, err := h.store.Subscribe(ctx, name)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, open := <-sub.C():
			if !open {
				if err := sub.Err(); err != nil && !errors.Is(err, context.Canceled) {
					c.SSEvent("error", gin.H{"message": "subscription failed"})
				}
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-ticker.C:
			// comment lines keep proxies from closing an idle stream
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		case <-ctx.Done():
			return false
		}
	})
}
