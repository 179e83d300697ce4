package handlers

import (
	"net/http"

	"spinecrm/internal/common"
	"spinecrm/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler writes every error in the common error envelope. Server
// errors are logged; their cause is never sent to the client.
func HTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := common.StatusFor(err)
		if status >= http.StatusInternalServerError {
			logger.FromEcho(c).Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.FromEcho(c).Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}
