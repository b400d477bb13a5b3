package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/service"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
	}
}

// (GET /api/ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}

// (POST /api/auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, pair)
}

// (POST /api/auth/refresh).
func (c *Controller) Refresh(ctx echo.Context) error {
	var req models.RefreshRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pair, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, pair)
}

// (POST /api/auth/revoke).
func (c *Controller) Revoke(ctx echo.Context) error {
	var req models.RevokeRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.authService.Revoke(ctx.Request().Context(), req.RefreshToken); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: "refresh token revoked"})
}

// (POST /api/auth/revoke_user). Admin only.
func (c *Controller) RevokeUser(ctx echo.Context) error {
	var req models.RevokeUserRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	if err := c.authService.RevokeAllForUser(ctx.Request().Context(), req.UserID); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: "user sessions revoked"})
}

// (GET /api/me). Echoes the identity attached by the bearer middleware.
func (c *Controller) Me(ctx echo.Context) error {
	userID, _ := ctx.Get(models.UserIDContextKey).(string)
	role, _ := ctx.Get(models.RoleContextKey).(models.Role)

	return ctx.JSON(http.StatusOK, models.IdentityResponse{
		UserID: userID,
		Role:   role,
	})
}
