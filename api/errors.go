package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/curator"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/search"
	"github.com/poiesic/curator/storage"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// Raw carries the unparseable model reply when decomposition fails.
	Raw string `json:"raw,omitempty"`
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var remoteErr *ai.RemoteError
	var parseErr *ai.ParseError
	var cfgErr *ai.ConfigError
	switch {
	case errors.Is(err, core.ErrInvalidQuery),
		errors.Is(err, core.ErrInvalidTask),
		errors.Is(err, core.ErrInvalidTaskType),
		errors.Is(err, core.ErrInvalidInteraction),
		errors.Is(err, core.ErrInvalidFeedback),
		errors.Is(err, core.ErrInvalidAction),
		errors.Is(err, core.ErrInvalidResourceID),
		errors.Is(err, core.ErrEmptyUserID),
		errors.Is(err, core.ErrInvalidFeature),
		errors.Is(err, core.ErrTitleTooShort),
		errors.Is(err, storage.ErrUserIDRequired),
		errors.Is(err, storage.ErrUserIDTooLong):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, curator.ErrRemoteUnavailable),
		errors.Is(err, search.ErrCatalogUnavailable),
		errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &remoteErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			msg, ok := httpErr.Message.(string)
			if !ok {
				msg = http.StatusText(httpErr.Code)
			}
			writeError(c, logger, httpErr.Code, ErrorResponse{Error: msg})
			return
		}

		status := statusFor(err)
		body := ErrorResponse{Error: err.Error()}
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			body.Raw = parseErr.Raw
		}
		if status == http.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "err", err)
			body.Error = "internal server error"
		}
		writeError(c, logger, status, body)
	}
}

func writeError(c echo.Context, logger *slog.Logger, status int, body ErrorResponse) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.Error("failed to write error response", "err", err)
	}
}
