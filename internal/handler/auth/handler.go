package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/pkg/auth"
	apperrors "github.com/myway/panel-api/pkg/errors"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
	Logout(claims *auth.Claims)
	Session(ctx context.Context, claims *auth.Claims) (*model.Operator, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts login on the public group and the session routes
// behind authentication.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/session", h.Session)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	claims := handler.Claims(c)
	if claims == nil {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}
	h.svc.Logout(claims)
	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out"))
}

func (h *Handler) Session(c *gin.Context) {
	claims := handler.Claims(c)
	if claims == nil {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}
	op, err := h.svc.Session(c.Request.Context(), claims)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(op))
}
