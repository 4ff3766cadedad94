package patient

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/service/document"
	"github.com/myway/panel-api/internal/service/patient"
	"github.com/myway/panel-api/pkg/httputil"
)

type Handler struct {
	service   patient.PatientService
	documents document.Generator
}

func NewHandler(service patient.PatientService, documents document.Generator) *Handler {
	return &Handler{
		service:   service,
		documents: documents,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PATCH("/:id", h.UpdatePatient)
		patients.POST("/:id/discharge", h.DischargePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.GET("/:id/documents/contract", h.document(h.documents.Contract))
		patients.GET("/:id/documents/card", h.document(h.documents.Card))
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.ToPatient())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.NewPatientView(p)))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewPatientView(p)))
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filter model.PatientFilter
	if !handler.BindQuery(c, &filter) {
		return
	}

	patients, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewPatientViews(patients)))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}
	var req model.UpdatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewPatientView(p)))
}

func (h *Handler) DischargePatient(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.Discharge(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewPatientView(p)))
}

func (h *Handler) DeletePatient(c *gin.Context) {
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

type renderFunc func(ctx context.Context, p *model.Patient) (*document.Document, error)

func (h *Handler) document(render renderFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handler.ParseID(c)
		if !ok {
			return
		}
		p, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			handler.Error(c, err)
			return
		}
		doc, err := render(c.Request.Context(), p)
		if err != nil {
			handler.Error(c, err)
			return
		}
		httputil.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
	}
}
