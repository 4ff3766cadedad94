package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myway/panel-api/pkg/auth"
	apperrors "github.com/myway/panel-api/pkg/errors"
)

// ContextClaims is where the auth middleware leaves the session claims.
const ContextClaims = "claims"

// Error records err for the ErrorHandler middleware and stops the chain.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func ParseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Error(c, apperrors.BadRequest("invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}

func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		Error(c, bindError(err))
		return false
	}
	return true
}

func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		Error(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.TooLarge("request body too large", err)
	}
	return apperrors.BadRequest("invalid request body", err)
}

// Confirmed reports whether the caller passed confirm=true.
func Confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

func Claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
