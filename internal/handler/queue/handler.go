package queue

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/service/queue"
)

type Handler struct {
	service queue.QueueService
}

func NewHandler(service queue.QueueService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	entries := r.Group("/queue")
	{
		entries.POST("", h.CreateEntry)
		entries.GET("", h.ListEntries)
		entries.GET("/stats", h.Stats)
		entries.GET("/:id", h.GetEntry)
		entries.PATCH("/:id", h.UpdateEntry)
		entries.DELETE("/:id", h.DeleteEntry)
		entries.GET("/:id/admission", h.AdmissionDraft)
		entries.POST("/:id/admit", h.Admit)
	}
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req model.CreateQueuePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req.ToQueuePatient())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) GetEntry(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) ListEntries(c *gin.Context) {
	var filter model.QueueFilter
	if !handler.BindQuery(c, &filter) {
		return
	}

	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}
	var req model.UpdateQueuePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, handler.Confirmed(c)); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AdmissionDraft returns the prefilled patient form for an entry.
func (h *Handler) AdmissionDraft(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	draft, err := h.service.AdmissionDraft(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(draft))
}

// Admit turns the entry into a patient. The body is the (possibly edited)
// admission draft.
func (h *Handler) Admit(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}
	var req model.CreatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Admit(c.Request.Context(), id, req.ToPatient())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.NewPatientView(p)))
}
