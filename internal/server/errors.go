package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/inkwell/internal/apperr"
)

type errorPayload struct {
	Type     string              `json:"type"`
	Message  string              `json:"message"`
	Resource string              `json:"resource,omitempty"`
	Errors   []apperr.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Status bool         `json:"status"`
	Error  errorPayload `json:"error"`
}

type content struct {
	Data any `json:"data"`
}

type successResponse struct {
	Status  bool    `json:"status"`
	Content content `json:"content"`
}

// ErrRateLimited is returned by throttled routes once the caller's budget is spent.
var ErrRateLimited = errors.New("rate_limited")

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, successResponse{Status: true, Content: content{Data: data}})
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// bindError turns a gin binding failure into a schema validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{
				Field:   fe.Field(),
				Code:    fe.Tag(),
				Message: fieldMessage(fe),
			})
		}
		return apperr.Validation(fields...)
	}
	return apperr.Invalid("request", "invalid_request", "invalid request")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte", "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte", "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func mapError(err error) (int, errorPayload) {
	internal := errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
	if err == nil {
		return http.StatusInternalServerError, internal
	}

	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	}

	appErr, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError, internal
	}

	payload := errorPayload{
		Type:     string(appErr.Kind),
		Message:  appErr.Error(),
		Resource: appErr.Resource,
		Errors:   appErr.Fields,
	}

	switch appErr.Kind {
	case apperr.KindNotFound:
		return http.StatusNotFound, payload
	case apperr.KindUnauthenticated, apperr.KindInvalidCredentials, apperr.KindInvalidToken:
		return http.StatusUnauthorized, payload
	case apperr.KindNotAllowed:
		return http.StatusForbidden, payload
	case apperr.KindValidation:
		return http.StatusBadRequest, payload
	case apperr.KindExists:
		return http.StatusConflict, payload
	default:
		return http.StatusInternalServerError, internal
	}
}

// classifyErrorForLog reports (class, code) for the request log.
func classifyErrorForLog(err error) (string, string) {
	if errors.Is(err, ErrRateLimited) {
		return "client", "rate_limited"
	}
	if kind := apperr.KindOf(err); kind != "" {
		return "client", string(kind)
	}
	return "server", "internal_error"
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
