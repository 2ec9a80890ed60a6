package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"filmoteca/internal/apperr"
)

// httpError translates a domain error into an echo HTTP error with the
// standard {error, code} body.
func httpError(err error) error {
	mapped := apperr.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}

// boolQuery parses an optional boolean query parameter. Absent means nil;
// anything strconv.ParseBool rejects is a validation error.
func boolQuery(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", apperr.ErrValidation, name)
	}
	return &b, nil
}
