package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/myway/panel-api/internal/handler"
	"github.com/myway/panel-api/internal/model"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationConfig represents validation middleware configuration
type ValidationConfig struct {
	CustomValidators    map[string]validator.Func
	CustomErrorMessages map[string]string
}

// DomainValidators are the binding tags used by the request models.
func DomainValidators() map[string]validator.Func {
	return map[string]validator.Func{
		"pesel": func(fl validator.FieldLevel) bool {
			return model.ValidPesel(fl.Field().String())
		},
		"package": func(fl validator.FieldLevel) bool {
			return model.Package(fl.Field().String()).Valid()
		},
		"queuestatus": func(fl validator.FieldLevel) bool {
			return model.QueueStatus(fl.Field().String()).Valid()
		},
	}
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		CustomValidators: DomainValidators(),
		CustomErrorMessages: map[string]string{
			"required":    "Field is required",
			"email":       "Invalid email format",
			"min":         "Value is too short",
			"max":         "Value is too long",
			"gte":         "Value must not be negative",
			"datetime":    "Date must be YYYY-MM-DD",
			"oneof":       "Value is not allowed",
			"pesel":       "PESEL must have 11 digits",
			"package":     "Package must be 1, 2 or 3",
			"queuestatus": "Status must be waiting, confirmed, cancelled or noshow",
		},
	}
}

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator and makes
// errors report JSON field names. Safe to call more than once.
func RegisterValidators(config ValidationConfig) {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		for tag, fn := range config.CustomValidators {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return fld.Name
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// Validation answers binding failures with a per-field error list.
func Validation(config ValidationConfig) gin.HandlerFunc {
	RegisterValidators(config)

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		var errs validator.ValidationErrors
		if !errors.As(c.Errors.Last().Err, &errs) {
			return
		}

		fields := make([]ValidationError, 0, len(errs))
		for _, e := range errs {
			msg := config.CustomErrorMessages[e.Tag()]
			if msg == "" {
				msg = e.Error()
			}
			fields = append(fields, ValidationError{
				Field:   e.Field(),
				Message: msg,
			})
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, &handler.Response{
			Status:  "error",
			Message: "validation failed",
			Data:    fields,
		})
	}
}
