package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// fail renders the canonical error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders every
// error not handled inside a handler (unknown routes, bad methods, bind
// failures, panics recovered by echo) with the {success:false, message}
// envelope. Unexpected errors are logged with their real cause and
// surfaced to the client as a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = fail(c, he.Code, fmt.Sprintf("%v", he.Message))
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		_ = fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
