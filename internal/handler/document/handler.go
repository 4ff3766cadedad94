package document

import (
	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/service/document"
	"github.com/myway/panel-api/pkg/httputil"
)

// Handler serves documents that are not tied to a patient. Patient
// documents live under /patients/:id/documents.
type Handler struct {
	documents document.Generator
}

func NewHandler(documents document.Generator) *Handler {
	return &Handler{documents: documents}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/documents/regulations", h.Regulations)
}

func (h *Handler) Regulations(c *gin.Context) {
	doc, err := h.documents.Regulations(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	httputil.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}
