package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-generator/collector/internal/middleware"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Meta      *PageMeta `json:"meta,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// PageMeta describes a paged listing.
type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// Success sends data in a success envelope.
func Success(c echo.Context, status int, message string, data any) error {
	return respond(c, status, http.StatusOK, APIResponse{Status: "success", Message: message, Data: data})
}

// Paginated sends one page of a listing.
func Paginated(c echo.Context, message string, data any, meta PageMeta) error {
	return respond(c, http.StatusOK, http.StatusOK, APIResponse{Status: "success", Message: message, Data: data, Meta: &meta})
}

// Error sends message in an error envelope.
func Error(c echo.Context, status int, message string) error {
	return respond(c, status, http.StatusInternalServerError, APIResponse{Status: "error", Message: message})
}

func respond(c echo.Context, status, fallback int, payload APIResponse) error {
	if status == 0 {
		status = fallback
	}
	payload.RequestID = middleware.RequestIDFromContext(c)
	return c.JSON(status, payload)
}
