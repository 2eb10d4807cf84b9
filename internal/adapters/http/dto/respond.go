package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/platform/logging"
)

// GetTraceID extracts the OpenTelemetry trace ID from the request
// context. Returns empty string when tracing is disabled.
func GetTraceID(c *gin.Context) string {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.SpanContext().HasTraceID() {
		return ""
	}

	return span.SpanContext().TraceID().String()
}

// MapDomainError maps a domain error to an HTTP status code and error
// response, including a recovery suggestion where the caller can act.
// Unknown errors map to 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(
			ErrorCodeNotFound,
			err.Error(),
		)

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(
			ErrorCodeConflict,
			err.Error(),
		)

	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrEmailInUse):
		return http.StatusBadRequest, NewErrorResponse(
			ErrorCodeValidation,
			err.Error(),
		)

	case domain.IsValidation(err):
		resp := NewErrorResponse(
			ErrorCodeValidation,
			err.Error(),
		)

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnauthenticated(err):
		return http.StatusUnauthorized, NewErrorResponse(
			ErrorCodeUnauthorized,
			err.Error(),
		).WithSuggestion("sign in and try again")

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			err.Error(),
		).WithSuggestion("check your connection and try again")

	case domain.IsParse(err):
		return http.StatusBadGateway, NewErrorResponse(
			ErrorCodeParse,
			err.Error(),
		)

	case domain.IsUpload(err):
		return http.StatusBadGateway, NewErrorResponse(
			ErrorCodeUpload,
			err.Error(),
		).WithSuggestion("try uploading again")

	case domain.IsStore(err):
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeStore,
			err.Error(),
		)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes an error response to the gin.Context. It maps
// domain errors to HTTP responses and includes the trace ID if available.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)

	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// HandleBindingError writes a 400 response for binding or request
// validation failures, with field-level details when available.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		errResp := NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			ValidationErrors(err),
		)
		if traceID := GetTraceID(c); traceID != "" {
			errResp.TraceID = traceID
		}

		c.JSON(http.StatusBadRequest, errResp)

		return
	}

	errResp := NewErrorResponse(ErrorCodeBadRequest, "malformed request body")
	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.JSON(http.StatusBadRequest, errResp)
}
