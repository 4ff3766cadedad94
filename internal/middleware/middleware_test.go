package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/pkg/auth"
	apperrors "github.com/myway/panel-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r), w.Body.String())
	return r
}

func serve(engine *gin.Engine, method, target string, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/missing", func(c *gin.Context) {
		handler.Error(c, apperrors.NotFound("patient", nil))
	})
	engine.GET("/confirm", func(c *gin.Context) {
		handler.Error(c, apperrors.PreconditionRequired("confirmation required"))
	})
	engine.GET("/boom", func(c *gin.Context) {
		handler.Error(c, errors.New("pq: connection refused"))
	})
	engine.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.NewSuccessResponse("ok"))
		_ = c.Error(errors.New("late"))
	})

	w := serve(engine, http.MethodGet, "/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "patient not found", decode(t, w).Message)

	w = serve(engine, http.MethodGet, "/confirm", "", nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, "confirmation required", decode(t, w).Message)

	w = serve(engine, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	r := decode(t, w)
	assert.Equal(t, "error", r.Status)
	assert.Equal(t, "internal server error", r.Message)
	assert.NotContains(t, w.Body.String(), "pq:")

	w = serve(engine, http.MethodGet, "/written", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w).Status)
}

func TestTimeout_ExpiredDeadlineIs504(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler(), Timeout(TimeoutConfig{Duration: 10 * time.Millisecond}))
	engine.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		handler.Error(c, c.Request.Context().Err())
	})

	w := serve(engine, http.MethodGet, "/slow", "", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "request timeout", decode(t, w).Message)
}

type intakeBody struct {
	Email   string `json:"email" binding:"required,email"`
	Package string `json:"package" binding:"required,package"`
}

func TestValidation_ReportsFields(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler(), Validation(DefaultValidationConfig()))
	engine.POST("/", func(c *gin.Context) {
		var body intakeBody
		if !handler.BindJSON(c, &body) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := serve(engine, http.MethodPost, "/", `{"email":"nope","package":"7"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	r := decode(t, w)
	assert.Equal(t, "validation failed", r.Message)
	var fields []ValidationError
	require.NoError(t, json.Unmarshal(r.Data, &fields))
	assert.ElementsMatch(t, []ValidationError{
		{Field: "email", Message: "Invalid email format"},
		{Field: "package", Message: "Package must be 1, 2 or 3"},
	}, fields)

	w = serve(engine, http.MethodPost, "/", `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode(t, w).Message)

	w = serve(engine, http.MethodPost, "/", `{"email":"a@b.pl","package":"2"}`, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type stubAuthorizer struct{}

func (stubAuthorizer) Authorize(ctx context.Context, token string) (*auth.Claims, error) {
	switch token {
	case "good":
		return &auth.Claims{OperatorID: "op-1", Email: "admin@osrodek-myway.pl"}, nil
	case "gone":
		return nil, apperrors.Forbidden("not allowed", nil)
	}
	return nil, apperrors.Unauthorized(auth.ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/me", NewAuthMiddleware(stubAuthorizer{}).Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.Claims(c).Email))
	})

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic good", http.StatusUnauthorized},
		{"invalid token", "/me", "Bearer bad", http.StatusUnauthorized},
		{"removed from allow-list", "/me", "Bearer gone", http.StatusForbidden},
		{"bearer header", "/me", "bearer good", http.StatusOK},
		{"query token for event streams", "/me?access_token=good", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			w := serve(engine, http.MethodGet, tt.target, "", h)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(NewRateLimiter(RateLimiterConfig{RPS: 0.001, Burst: 2}).RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/", "", nil).Code)

	w := serve(engine, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	other := httptest.NewRecorder()
	engine.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestBodyLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler(), BodyLimit(16))
	engine.POST("/", func(c *gin.Context) {
		var body map[string]string
		if !handler.BindJSON(c, &body) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodPost, "/", `{"a":"b"}`, nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		serve(engine, http.MethodPost, "/", `{"a":"`+strings.Repeat("x", 64)+`"}`, nil).Code)

	// chunked body without a declared length
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	withID := func(id string) http.Header {
		h := http.Header{}
		h.Set(HeaderXRequestID, id)
		return h
	}

	id := uuid.NewString()
	w := serve(engine, http.MethodGet, "/", "", withID(id))
	assert.Equal(t, id, w.Header().Get(HeaderXRequestID))
	assert.Equal(t, id, w.Body.String())

	w = serve(engine, http.MethodGet, "/", "", withID("<script>"))
	got := w.Header().Get(HeaderXRequestID)
	assert.NotEqual(t, "<script>", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestSecurityAndVersionHeaders(t *testing.T) {
	engine := gin.New()
	engine.Use(SecurityHeaders(DefaultSecurityConfig()), Version("1.0"))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, http.MethodGet, "/", "", nil)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
	assert.Equal(t, "1.0", w.Header().Get(HeaderAPIVersion))
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://panel.osrodek-myway.pl"}

	engine := gin.New()
	engine.Use(CORS(cfg))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, http.MethodGet, "/", "", http.Header{"Origin": []string{"https://panel.osrodek-myway.pl"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://panel.osrodek-myway.pl", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(engine, http.MethodGet, "/", "", http.Header{"Origin": []string{"https://evil.example"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/", func(c *gin.Context) { panic("nil map") })

	w := serve(engine, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w).Message)
}
