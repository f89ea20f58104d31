package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medstore/internal/errors"
)

// fail converts a service error into an echo HTTP error carrying an
// errors.ErrorResponse body. Internal errors are logged with their cause.
func fail(c echo.Context, err error) *echo.HTTPError {
	mapped := errors.MapErrorToHTTP(err)
	if mapped.StatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}

// badRequest reports client input the handler rejected before reaching a
// service. It carries the same code MapErrorToHTTP uses for errors.ErrInvalidInput.
func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Message: message,
		Code:    errors.CodeInvalidInput,
	})
}

// bindAndValidate binds the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
