// Package respond holds the JSON helpers shared by every route group:
// strict body binding and the mapping from domain errors to HTTP statuses.
package respond

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/PancyStudios/GeoGateGo/pkg/settings"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// maxBody bounds request bodies; the full aggregate stays well below it
const maxBody = 1 << 20

// Loader reads the current aggregate
type Loader interface {
	Load(ctx context.Context) (*models.GeoBlockingSettings, error)
}

// Status maps an error to its HTTP status
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrDuplicateIdentifier):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflows.ErrSaveInProgress):
		return http.StatusConflict
	case errors.Is(err, settings.ErrStorage):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// message is the operator-facing text for a status
func message(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Los datos enviados no son válidos."
	case http.StatusNotFound:
		return "El registro solicitado no existe."
	case http.StatusConflict:
		return "La operación entra en conflicto con el estado actual."
	case http.StatusBadGateway:
		return "No se pudo guardar la configuración. Tus cambios no se han perdido, inténtalo de nuevo."
	case http.StatusGatewayTimeout:
		return "La operación fue cancelada antes de completarse."
	default:
		return "Ocurrió un error inesperado."
	}
}

// Error writes err as a JSON error body
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fmt.Sprintf("%s %s: %v", c.Request.Method, c.FullPath(), err), "API")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": message(status),
		"detail":  err.Error(),
		"status":  status,
	})
}

// OK writes v with status 200
func OK(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

// Bind decodes the request body into v, rejecting unknown fields.
// It writes a 400 and returns false when the body is unusable.
func Bind(c *gin.Context, v interface{}) bool {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		Error(c, models.NewValidationError("body", err.Error()))
		return false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		Error(c, models.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err)))
		return false
	}
	return true
}

// Current loads the aggregate for the request, writing the error response on failure
func Current(c *gin.Context, l Loader) (*models.GeoBlockingSettings, bool) {
	s, err := l.Load(c.Request.Context())
	if err != nil {
		Error(c, err)
		return nil, false
	}
	return s, true
}
