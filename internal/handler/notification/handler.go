package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/service/notification"
)

// Handler exposes the notification outbox for operations.
type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/notifications/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.POST("/:id/retry", h.RetryJob)
	}
}

func (h *Handler) ListJobs(c *gin.Context) {
	var filter model.JobFilter
	if !handler.BindQuery(c, &filter) {
		return
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(jobs))
}

func (h *Handler) GetJob(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(job))
}

func (h *Handler) RetryJob(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	job, err := h.service.RetryJob(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(job))
}
