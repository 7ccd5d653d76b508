package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the echo validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListResponse wraps collections so the payload can grow without breaking clients.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func newListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Total: len(items)}
}

// toHTTPError maps domain errors to status codes. Unknown errors become 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, entities.ErrInvalidTask),
		errors.Is(err, entities.ErrInvalidTransaction),
		errors.Is(err, entities.ErrInvalidDate),
		errors.Is(err, entities.ErrInvalidImportFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}

// dateParam reads and checks a YYYY-MM-DD path parameter.
func dateParam(c echo.Context, name string) (string, error) {
	date := c.Param(name)
	if _, err := dates.Parse(date); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
