package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/service"
)

// Authenticate gates every protected route on a bearer access token. On
// success the decoded identity and role are attached to the echo context.
// The user store is deliberately not consulted here: a deactivated user
// keeps passing until the access token runs out. Deactivation takes full
// effect at the next refresh.
func Authenticate(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization token is missing")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.ValidateAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				// The error handler distinguishes expired from invalid.
				return err
			}

			c.Set(models.UserIDContextKey, claims.UserID)
			c.Set(models.RoleContextKey, claims.Role)

			return next(c)
		}
	}
}

// RequireRoles permits the request iff the role attached by Authenticate is
// in the allow-list. Pure check, no store access.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(models.RoleContextKey).(models.Role)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
