package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/service"
)

// ErrorHandler turns the service error taxonomy into structured responses.
// Everything short of "authenticated but not allowed" maps into the 401
// family; expired tokens carry an explicit flag so clients know to refresh
// instead of logging in again. Infrastructure failures surface as a generic
// 500 with the detail kept in the log.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, service.ErrMissingCredentials), errors.Is(err, service.ErrMissingToken):
			writeError(c, log, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, service.ErrTokenExpired):
			observeAuthError("token_expired")
			if jsonErr := c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"message": service.ErrTokenExpired.Error(),
				"expired": true,
			}); jsonErr != nil {
				log.Errorw("failed to write json response", "error", jsonErr)
			}
			return
		case isUnauthorizedError(err):
			observeAuthError(authErrorReason(err))
			writeError(c, log, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusForbidden {
				observeAuthError("forbidden")
			}
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			writeError(c, log, he.Code, fmt.Sprintf("%v", he.Message))
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeError(c, log, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(c echo.Context, log *zap.SugaredLogger, status int, message string) {
	if err := c.JSON(status, map[string]string{"message": message}); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}

func isUnauthorizedError(err error) bool {
	return errors.Is(err, service.ErrInvalidCredentials) ||
		errors.Is(err, service.ErrAccountDisabled) ||
		errors.Is(err, service.ErrRefreshTokenNotFound) ||
		errors.Is(err, service.ErrInvalidUserState) ||
		errors.Is(err, service.ErrTokenInvalid)
}

func authErrorReason(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrAccountDisabled):
		return "account_disabled"
	case errors.Is(err, service.ErrRefreshTokenNotFound):
		return "unknown_refresh_token"
	case errors.Is(err, service.ErrInvalidUserState):
		return "invalid_user_state"
	default:
		return "token_invalid"
	}
}

// unauthorizedMessage strips wrapped internals: the sentinel text is the
// whole external story.
func unauthorizedMessage(err error) string {
	for _, sentinel := range []error{
		service.ErrInvalidCredentials,
		service.ErrAccountDisabled,
		service.ErrRefreshTokenNotFound,
		service.ErrInvalidUserState,
		service.ErrTokenInvalid,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "unauthorized"
}
