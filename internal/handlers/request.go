package handlers

import (
	"errors"
	"net/http"

	"spinecrm/internal/common"

	"github.com/labstack/echo/v4"
)

var bodyBinder = &echo.DefaultBinder{}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator. Malformed bodies are reported as validation failures.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := bodyBinder.BindBody(c, req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusBadRequest {
			return common.Validation("Invalid request body", map[string]string{"body": "must be valid JSON"})
		}
		return err
	}
	return c.Validate(req)
}

// pathID reads an integer path parameter
func pathID(c echo.Context, name string) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64(name, &id).BindError(); err != nil {
		return 0, common.Validation("Invalid path parameter", map[string]string{name: "must be an integer"})
	}
	return id, nil
}

// bindingError converts a query binder failure into a validation error
func bindingError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return common.Validation("Invalid query parameters", map[string]string{be.Field: "must be an integer"})
	}
	return common.Validation("Invalid query parameters", nil)
}
