package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cookieprobe/cookieprobe/internal/classifier"
	"github.com/cookieprobe/cookieprobe/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error body with the given status.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

// WriteServiceError maps a service/classifier sentinel error to an HTTP
// status and a stable message via a switch on errors.Is/errors.As.
func WriteServiceError(c echo.Context, err error) error {
	var lmErr *classifier.ErrLMUnavailable

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return Error(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrNotFound):
		return Error(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrAnalysisFailed):
		return Error(c, http.StatusBadGateway, "analysis failed")
	case errors.Is(err, classifier.ErrStoreFailure):
		return Error(c, http.StatusInternalServerError, "store failure")
	case errors.As(err, &lmErr):
		return Error(c, http.StatusBadGateway, "classifier upstream unavailable")
	default:
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}

// Itoa renders an int64 as a decimal string for response builders that
// need a map key or path segment.
func Itoa(n int64) string { return strconv.FormatInt(n, 10) }
