package backup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/service/backup"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/httputil"
)

type Service interface {
	Export(ctx context.Context) (*model.Backup, error)
	Filename() string
	Import(ctx context.Context, b *model.Backup) (*model.ImportResult, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the export. Import is mounted separately with its
// own body limit.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/backup/export", h.Export)
}

func (h *Handler) RegisterImportRoute(r *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	r.POST("/backup/import", append(middleware, h.Import)...)
}

func (h *Handler) Export(c *gin.Context) {
	b, err := h.service.Export(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		handler.Error(c, apperrors.Internal(err))
		return
	}

	httputil.Attachment(c, h.service.Filename(), "application/json; charset=utf-8", data)
}

func (h *Handler) Import(c *gin.Context) {
	b, err := backup.Decode(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = apperrors.TooLarge("backup file too large", err)
		}
		handler.Error(c, err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), b)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
