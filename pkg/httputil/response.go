package httputil

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	apperrors "github.com/eximroyals/storefront/pkg/errors"
	"github.com/eximroyals/storefront/pkg/logger"
	"github.com/eximroyals/storefront/pkg/validator"
)

// Logger returns the request-scoped logger (set by the RequestLogger
// middleware) or fallback when none is mounted.
func Logger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		return fallback
	}
	return l
}

// UserError is the status and message a page shows for err. Upstream detail
// never reaches the message.
func UserError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "The page you were looking for does not exist."
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "Please check the form and try again."
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Please sign in again."
	case errors.Is(err, apperrors.ErrNetworkFailure):
		return http.StatusBadGateway, "We could not reach our catalog right now. Please try again shortly."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again shortly."
	}
}

// LogError logs err with request context. Server side failures log at error
// level, the rest at warn.
func LogError(r *http.Request, err error, fallback *slog.Logger) {
	l := Logger(r, fallback)
	status := apperrors.HTTPStatus(err)
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
	}
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed", attrs...)
		return
	}
	l.WarnContext(r.Context(), "request failed", attrs...)
}

// ParseForm parses a urlencoded or multipart body. Multipart bodies are held
// in memory up to maxMemory bytes and spill to temp files beyond that.
func ParseForm(r *http.Request, maxMemory int64) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return &apperrors.AppError{
			Code:    "INVALID_INPUT",
			Message: "form could not be read",
			Status:  http.StatusBadRequest,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err),
		}
	}
	return nil
}

// FieldErrors returns the per-field messages of a validation failure, keyed
// by form field name.
func FieldErrors(err error) (map[string]string, bool) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Fields(), true
	}
	return nil, false
}
